package domain_test

import (
	"testing"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFocusTimer_Countdown(t *testing.T) {
	start := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	var timer domain.FocusTimer

	require.NoError(t, timer.Start("Physics", 25, 5, start))
	assert.Equal(t, 25*time.Minute, timer.Remaining(start))
	assert.Equal(t, domain.ErrFocusRunning, timer.Start("Physics", 25, 5, start))

	require.NoError(t, timer.Pause(start.Add(10*time.Minute)))
	assert.Equal(t, 15*time.Minute, timer.Remaining(start.Add(time.Hour)), "a paused timer does not move")

	assert.Equal(t, domain.ErrFocusNotRunning, timer.Pause(start))
	require.NoError(t, timer.Resume(start.Add(time.Hour)))
	assert.Equal(t, domain.ErrFocusNotPaused, timer.Resume(start))

	assert.False(t, timer.Advance(start.Add(time.Hour+14*time.Minute)))
	assert.True(t, timer.Advance(start.Add(2*time.Hour)))
	assert.False(t, timer.Advance(start.Add(3*time.Hour)), "finishing is reported once")

	assert.Equal(t, domain.FocusFinished, timer.State)
	assert.Equal(t, start.Add(time.Hour+15*time.Minute), *timer.FinishedAt)
	assert.Zero(t, timer.Remaining(start.Add(3*time.Hour)))

	timer.Reset()
	assert.Equal(t, domain.FocusIdle, timer.State)
}

func TestFocusTimer_StartValidation(t *testing.T) {
	var timer domain.FocusTimer
	now := time.Now()

	assert.Equal(t, domain.ErrInvalidSessionLength, timer.Start("", 30, 5, now))
	assert.Equal(t, domain.ErrInvalidBreakLength, timer.Start("", 25, 7, now))
	assert.NoError(t, timer.Start("", 60, 15, now))
}

func TestFocusStats_Record(t *testing.T) {
	doc := domain.NewFocusDocument()

	doc.Stats.Record(domain.FocusTimer{Subject: "Physics", SessionMinutes: 25})
	doc.Stats.Record(domain.FocusTimer{SessionMinutes: 45})

	assert.Equal(t, 2, doc.Stats.SessionsCompleted)
	assert.Equal(t, 70, doc.Stats.TotalMinutes)
	assert.Equal(t, map[string]int{"Physics": 25, "General": 45}, doc.Stats.MinutesBySubject)
}
