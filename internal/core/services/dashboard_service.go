package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

const upcomingTasksLimit = 5

type DashboardService struct {
	habits *HabitService
	tasks  *TaskService
	focus  *FocusService
	now    func() time.Time
}

func NewDashboardService(habits *HabitService, tasks *TaskService, focus *FocusService) *DashboardService {
	return &DashboardService{
		habits: habits,
		tasks:  tasks,
		focus:  focus,
		now:    time.Now,
	}
}

func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

// Get gathers the dashboard figures. The sources are loaded concurrently and
// the first failure cancels the rest.
func (s *DashboardService) Get(ctx context.Context, userID string) (*domain.Dashboard, error) {
	var (
		habits   []*domain.HabitView
		today    []domain.Task
		upcoming []domain.Task
		stats    *domain.FocusStats
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		habits, err = s.habits.ListByUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		today, err = s.tasks.DueOn(gctx, userID, s.now())
		return err
	})
	g.Go(func() error {
		var err error
		upcoming, err = s.tasks.Upcoming(gctx, userID, upcomingTasksLimit)
		return err
	})
	g.Go(func() error {
		var err error
		stats, err = s.focus.Stats(gctx, userID)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	dash := &domain.Dashboard{
		TasksToday: len(today),
		Upcoming:   upcoming,
		Focus:      *stats,
	}
	for _, h := range habits {
		if h.ArchivedAt == nil && h.CurrentStreak > dash.BestStreak {
			dash.BestStreak = h.CurrentStreak
		}
	}
	for _, t := range today {
		if t.IsCompleted {
			dash.TasksDoneToday++
		}
	}
	return dash, nil
}
