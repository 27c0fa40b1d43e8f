package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCalculateStreaks(t *testing.T) {
	today := time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)
	daysAgo := func(n int) time.Time {
		return today.AddDate(0, 0, -n)
	}

	tests := []struct {
		name        string
		entries     []*domain.HabitEntry
		goal        int
		wantCurrent int
		wantLongest int
	}{
		{
			name:        "Empty entries",
			entries:     []*domain.HabitEntry{},
			goal:        7,
			wantCurrent: 0,
			wantLongest: 0,
		},
		{
			name: "Single entry today",
			entries: []*domain.HabitEntry{
				{CompletionDate: today},
			},
			goal:        7,
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name: "Single entry yesterday (Streak still alive)",
			entries: []*domain.HabitEntry{
				{CompletionDate: daysAgo(1)},
			},
			goal:        7,
			wantCurrent: 1,
			wantLongest: 1,
		},
		{
			name: "Single entry 2 days ago (Streak broken)",
			entries: []*domain.HabitEntry{
				{CompletionDate: daysAgo(2)},
			},
			goal:        7,
			wantCurrent: 0,
			wantLongest: 1,
		},
		{
			name: "Broken streak with gap (Today, Yesterday, [GAP], 4 days ago)",
			entries: []*domain.HabitEntry{
				{CompletionDate: today},
				{CompletionDate: daysAgo(1)},
				{CompletionDate: daysAgo(4)},
			},
			goal:        7,
			wantCurrent: 2,
			wantLongest: 2,
		},
		{
			name: "Longest streak in the past",
			entries: []*domain.HabitEntry{
				{CompletionDate: today},
				{CompletionDate: daysAgo(10)},
				{CompletionDate: daysAgo(11)},
				{CompletionDate: daysAgo(12)},
			},
			goal:        7,
			wantCurrent: 1,
			wantLongest: 3,
		},
		{
			name: "Unsorted entries with a duplicate day",
			entries: []*domain.HabitEntry{
				{CompletionDate: daysAgo(2)},
				{CompletionDate: today},
				{CompletionDate: daysAgo(1)},
				{CompletionDate: daysAgo(1)},
			},
			goal:        7,
			wantCurrent: 3,
			wantLongest: 3,
		},
		{
			name: "Weekly goal met last week only",
			entries: []*domain.HabitEntry{
				{CompletionDate: daysAgo(3)},
				{CompletionDate: daysAgo(5)},
				{CompletionDate: today},
			},
			goal:        2,
			wantCurrent: 1,
			wantLongest: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotCurrent, gotLongest := calculateStreaks(tt.entries, tt.goal, today)
			assert.Equal(t, tt.wantCurrent, gotCurrent, "Current Streak mismatch")
			assert.Equal(t, tt.wantLongest, gotLongest, "Longest Streak mismatch")
		})
	}
}

type fakeHabitRepo struct {
	mu      sync.Mutex
	habits  map[string]*domain.Habit
	updates chan string
	failGet bool
}

func (r *fakeHabitRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failGet {
		return nil, errors.New("boom")
	}
	h, ok := r.habits[id]
	if !ok {
		return nil, domain.ErrHabitNotFound
	}
	clone := *h
	return &clone, nil
}

func (r *fakeHabitRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	r.habits[id].CurrentStreak = current
	r.habits[id].LongestStreak = longest
	r.mu.Unlock()
	r.updates <- id
	return nil
}

func (r *fakeHabitRepo) get(id string) domain.Habit {
	r.mu.Lock()
	defer r.mu.Unlock()
	return *r.habits[id]
}

type fakeEntryRepo struct {
	entries map[string][]*domain.HabitEntry
}

func (r *fakeEntryRepo) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error) {
	return r.entries[habitID], nil
}

type fixedLocation struct {
	loc *time.Location
}

func (f fixedLocation) Location(ctx context.Context, userID string) *time.Location {
	return f.loc
}

func TestStreakWorker_ProcessesJobs(t *testing.T) {
	// 23:30 UTC on the 14th is already the 15th at UTC+02:00
	now := time.Date(2026, 4, 14, 23, 30, 0, 0, time.UTC)
	local := time.FixedZone("UTC+02:00", 2*3600)

	habits := &fakeHabitRepo{
		habits:  map[string]*domain.Habit{"h1": {ID: "h1", UserID: "u1", WeeklyGoal: 7}},
		updates: make(chan string, 1),
	}
	entries := &fakeEntryRepo{entries: map[string][]*domain.HabitEntry{
		"h1": {
			{CompletionDate: time.Date(2026, 4, 15, 0, 0, 0, 0, time.UTC)},
			{CompletionDate: time.Date(2026, 4, 14, 0, 0, 0, 0, time.UTC)},
		},
	}}

	w := NewStreakWorker(habits, entries, fixedLocation{loc: local}, zaptest.NewLogger(t), 4)
	w.SetClock(func() time.Time { return now })

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)
	defer func() {
		cancel()
		w.Wait()
	}()

	w.Enqueue("h1")

	select {
	case id := <-habits.updates:
		require.Equal(t, "h1", id)
	case <-time.After(2 * time.Second):
		t.Fatal("worker did not update the habit in time")
	}

	h := habits.get("h1")
	assert.Equal(t, 2, h.CurrentStreak)
	assert.Equal(t, 2, h.LongestStreak)
}

func TestStreakWorker_DropsJobsWhenFull(t *testing.T) {
	habits := &fakeHabitRepo{habits: map[string]*domain.Habit{}, updates: make(chan string, 1)}
	w := NewStreakWorker(habits, &fakeEntryRepo{}, nil, zaptest.NewLogger(t), 1)

	w.Enqueue("a")
	w.Enqueue("b")

	assert.Len(t, w.jobs, 1)
	assert.Equal(t, "a", (<-w.jobs).HabitID)
}

func TestStreakWorker_SkipsUnchangedAndFailingHabits(t *testing.T) {
	habits := &fakeHabitRepo{
		habits:  map[string]*domain.Habit{"h1": {ID: "h1", UserID: "u1", WeeklyGoal: 7}},
		updates: make(chan string, 1),
	}
	w := NewStreakWorker(habits, &fakeEntryRepo{}, nil, zaptest.NewLogger(t), 1)

	w.processJob(context.Background(), StreakJob{HabitID: "h1"})
	assert.Len(t, habits.updates, 0, "no entries and zero streaks: nothing to store")

	w.processJob(context.Background(), StreakJob{HabitID: "missing"})
	assert.Len(t, habits.updates, 0)

	habits.failGet = true
	w.processJob(context.Background(), StreakJob{HabitID: "h1"})
	assert.Len(t, habits.updates, 0)
}
