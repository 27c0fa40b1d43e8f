package workers

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/streak"
)

const DefaultQueueSize = 100

type HabitRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Habit, error)
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

type EntryRepository interface {
	ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error)
}

type LocationResolver interface {
	Location(ctx context.Context, userID string) *time.Location
}

type StreakJob struct {
	HabitID string
}

type StreakWorker struct {
	habitRepo HabitRepository
	entryRepo EntryRepository
	locations LocationResolver
	logger    *zap.Logger
	jobs      chan StreakJob
	now       func() time.Time
	wg        sync.WaitGroup
}

func NewStreakWorker(hRepo HabitRepository, eRepo EntryRepository, locations LocationResolver, logger *zap.Logger, queueSize int) *StreakWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &StreakWorker{
		habitRepo: hRepo,
		entryRepo: eRepo,
		locations: locations,
		logger:    logger.Named("streak_worker"),
		jobs:      make(chan StreakJob, queueSize),
		now:       time.Now,
	}
}

func (w *StreakWorker) SetClock(now func() time.Time) {
	w.now = now
}

// Start drains the queue in the background until ctx is cancelled.
func (w *StreakWorker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.logger.Info("started")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				w.logger.Info("shutting down", zap.Int("pending_jobs", len(w.jobs)))
				return
			}
		}
	}()
}

// Wait blocks until the goroutine launched by Start has returned.
func (w *StreakWorker) Wait() {
	w.wg.Wait()
}

// Enqueue never blocks: when the queue is full the job is dropped.
func (w *StreakWorker) Enqueue(habitID string) {
	select {
	case w.jobs <- StreakJob{HabitID: habitID}:
	default:
		w.logger.Warn("queue full, dropping job", zap.String("habit_id", habitID))
	}
}

func (w *StreakWorker) processJob(ctx context.Context, job StreakJob) {
	log := w.logger.With(zap.String("habit_id", job.HabitID))

	habit, err := w.habitRepo.GetByID(ctx, job.HabitID)
	if err != nil {
		log.Error("fetch habit failed", zap.Error(err))
		return
	}

	entries, err := w.entryRepo.ListByHabitID(ctx, job.HabitID)
	if err != nil {
		log.Error("fetch entries failed", zap.Error(err))
		return
	}

	loc := time.UTC
	if w.locations != nil {
		if l := w.locations.Location(ctx, habit.UserID); l != nil {
			loc = l
		}
	}
	today := domain.CalendarDate(w.now().In(loc))

	current, longest := calculateStreaks(entries, habit.WeeklyGoal, today)

	if habit.CurrentStreak == current && habit.LongestStreak == longest {
		return
	}

	if err := w.habitRepo.UpdateStreaks(ctx, habit.ID, current, longest); err != nil {
		log.Error("store streaks failed", zap.Error(err))
		return
	}
	log.Debug("streaks updated", zap.Int("current", current), zap.Int("longest", longest))
}

func calculateStreaks(entries []*domain.HabitEntry, goal int, today time.Time) (int, int) {
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.CompletionDate)
	}
	days := streak.Dates(dates, time.UTC)
	return streak.Current(days, goal, today), streak.Longest(days, goal)
}
