package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/learnify-engine/internal/core/services"
)

func TestDashboardService_Get(t *testing.T) {
	ctx := context.Background()
	docs := newMemDocs()
	locations := fixedLocation{loc: time.UTC}

	f := newHabitFixture()
	read := f.create(t, "u1", "Read", 7)
	gym := f.create(t, "u1", "Gym", 7)
	f.entries.add(read.ID, "u1", date(2026, 4, 14), date(2026, 4, 15))
	f.entries.add(gym.ID, "u1", date(2026, 4, 11), date(2026, 4, 12), date(2026, 4, 13), date(2026, 4, 14))

	tasks := services.NewTaskService(docs, locations, nil)
	tasks.SetClock(clock)
	for i, due := range []time.Time{fixedNow, fixedNow.Add(time.Hour), fixedNow.AddDate(0, 0, 2)} {
		_, err := tasks.Create(ctx, services.CreateTaskInput{UserID: "u1", Title: string(rune('a' + i)), DueDate: due})
		require.NoError(t, err)
	}
	_, err := tasks.SetCompleted(ctx, "u1", 1, true)
	require.NoError(t, err)

	focus := services.NewFocusService(docs, nil)
	focus.SetClock(clock)

	dash := services.NewDashboardService(f.svc, tasks, focus)
	dash.SetClock(clock)

	got, err := dash.Get(ctx, "u1")
	require.NoError(t, err)

	assert.Equal(t, 4, got.BestStreak)
	assert.Equal(t, 2, got.TasksToday)
	assert.Equal(t, 1, got.TasksDoneToday)
	assert.Len(t, got.Upcoming, 2)
	assert.Zero(t, got.Focus.SessionsCompleted)
}

func TestDashboardService_Get_SourceFailure(t *testing.T) {
	f := newHabitFixture()
	f.repo.simulateError = errors.New("db down")
	docs := newMemDocs()

	dash := services.NewDashboardService(f.svc, services.NewTaskService(docs, nil, nil), services.NewFocusService(docs, nil))

	_, err := dash.Get(context.Background(), "u1")
	assert.EqualError(t, err, "db down")
}
