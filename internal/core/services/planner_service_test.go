package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

func TestPlannerService(t *testing.T) {
	ctx := context.Background()
	svc := services.NewPlannerService(newMemDocs(), nil)

	create := func(day int, start, end, subject string) *domain.StudySession {
		t.Helper()
		s, err := svc.Create(ctx, services.CreateSessionInput{
			UserID: "u1", Date: date(2026, 4, day).Add(15 * time.Hour), Start: start, End: end, Subject: subject,
		})
		require.NoError(t, err)
		return s
	}

	late := create(15, "16:00", "17:00", "Physics")
	early := create(15, "08:30", "10:00", "Calculus")
	create(13, "09:00", "10:00", "History")
	create(20, "09:00", "10:00", "Next week")

	assert.Equal(t, date(2026, 4, 15), early.Date, "date is truncated to the calendar day")

	day, err := svc.ListByDay(ctx, "u1", date(2026, 4, 15))
	require.NoError(t, err)
	require.Len(t, day, 2)
	assert.Equal(t, early.ID, day[0].ID)
	assert.Equal(t, late.ID, day[1].ID)

	week, err := svc.ListByWeek(ctx, "u1", fixedNow)
	require.NoError(t, err)
	assert.Equal(t, date(2026, 4, 13), week.Start)
	assert.Len(t, week.Days[0], 1)
	assert.Len(t, week.Days[2], 2)
	assert.Empty(t, week.Days[6])

	t.Run("Validation", func(t *testing.T) {
		tests := []struct {
			name  string
			input services.CreateSessionInput
			want  error
		}{
			{name: "End before start", input: services.CreateSessionInput{UserID: "u1", Date: fixedNow, Start: "10:00", End: "09:00", Subject: "x"}, want: domain.ErrInvalidSessionTime},
			{name: "Bad clock", input: services.CreateSessionInput{UserID: "u1", Date: fixedNow, Start: "9:00", End: "10:00", Subject: "x"}, want: domain.ErrInvalidSessionTime},
			{name: "No subject", input: services.CreateSessionInput{UserID: "u1", Date: fixedNow, Start: "09:00", End: "10:00"}, want: domain.ErrSessionSubjectEmpty},
			{name: "No date", input: services.CreateSessionInput{UserID: "u1", Start: "09:00", End: "10:00", Subject: "x"}, want: domain.ErrSessionDateMissing},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.Create(ctx, tt.input)
				assert.ErrorIs(t, err, tt.want)
			})
		}
	})

	t.Run("Update and delete", func(t *testing.T) {
		moved, err := svc.Update(ctx, services.UpdateSessionInput{ID: late.ID, UserID: "u1", End: ptr("18:00")})
		require.NoError(t, err)
		assert.Equal(t, "18:00", moved.End)

		_, err = svc.Update(ctx, services.UpdateSessionInput{ID: late.ID, UserID: "u1", End: ptr("15:00")})
		assert.ErrorIs(t, err, domain.ErrInvalidSessionTime)

		require.NoError(t, svc.Delete(ctx, "u1", late.ID))
		assert.ErrorIs(t, svc.Delete(ctx, "u1", late.ID), domain.ErrSessionNotFound)
	})
}
