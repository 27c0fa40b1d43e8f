package services

import (
	"context"
	"slices"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

type TaskService struct {
	tasks     *collection[[]domain.Task]
	locations LocationResolver
	now       func() time.Time
}

func NewTaskService(store domain.DocumentStore, locations LocationResolver, logger *zap.Logger) *TaskService {
	return &TaskService{
		tasks:     newCollection(store, domain.KeyTasks, func() []domain.Task { return []domain.Task{} }, logger),
		locations: locations,
		now:       time.Now,
	}
}

// SetClock replaces the time source used to decide what "today" is.
func (s *TaskService) SetClock(now func() time.Time) {
	s.now = now
}

type CreateTaskInput struct {
	UserID   string
	Title    string
	Subject  string
	Priority string
	DueDate  time.Time
}

// UpdateTaskInput carries the fields to change; nil fields keep their value.
type UpdateTaskInput struct {
	ID       int
	UserID   string
	Title    *string
	Subject  *string
	Status   *string
	Priority *string
	DueDate  *time.Time
}

func sortByDueDate(tasks []domain.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].DueDate.Equal(tasks[j].DueDate) {
			return tasks[i].ID < tasks[j].ID
		}
		return tasks[i].DueDate.Before(tasks[j].DueDate)
	})
}

func findTask(tasks []domain.Task, id int) int {
	return slices.IndexFunc(tasks, func(t domain.Task) bool { return t.ID == id })
}

func (s *TaskService) List(ctx context.Context, userID string) ([]domain.Task, error) {
	tasks, err := s.tasks.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortByDueDate(tasks)
	return tasks, nil
}

func (s *TaskService) Get(ctx context.Context, userID string, id int) (*domain.Task, error) {
	tasks, err := s.tasks.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	idx := findTask(tasks, id)
	if idx < 0 {
		return nil, domain.ErrTaskNotFound
	}
	return &tasks[idx], nil
}

func (s *TaskService) Create(ctx context.Context, input CreateTaskInput) (*domain.Task, error) {
	var created domain.Task

	_, err := s.tasks.update(ctx, input.UserID, func(tasks *[]domain.Task) error {
		task, err := domain.NewTask(
			domain.NextTaskID(*tasks),
			input.Title,
			input.Subject,
			input.DueDate,
			domain.TaskPriority(input.Priority),
		)
		if err != nil {
			return err
		}
		*tasks = append(*tasks, *task)
		created = *task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *TaskService) Update(ctx context.Context, input UpdateTaskInput) (*domain.Task, error) {
	var updated domain.Task

	_, err := s.tasks.update(ctx, input.UserID, func(tasks *[]domain.Task) error {
		idx := findTask(*tasks, input.ID)
		if idx < 0 {
			return domain.ErrTaskNotFound
		}
		task := (*tasks)[idx]

		if input.Title != nil {
			title := strings.TrimSpace(*input.Title)
			if title == "" {
				return domain.ErrTaskTitleEmpty
			}
			task.Title = title
		}
		if input.Subject != nil {
			task.Subject = strings.TrimSpace(*input.Subject)
		}
		if input.Priority != nil {
			p, err := domain.ParseTaskPriority(*input.Priority)
			if err != nil {
				return err
			}
			task.Priority = p
		}
		if input.Status != nil {
			if err := task.SetStatus(domain.TaskStatus(*input.Status)); err != nil {
				return err
			}
		}
		if input.DueDate != nil {
			if input.DueDate.IsZero() {
				return domain.ErrTaskDueDateMissing
			}
			task.DueDate = input.DueDate.UTC()
		}

		(*tasks)[idx] = task
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *TaskService) SetCompleted(ctx context.Context, userID string, id int, done bool) (*domain.Task, error) {
	var updated domain.Task

	_, err := s.tasks.update(ctx, userID, func(tasks *[]domain.Task) error {
		idx := findTask(*tasks, id)
		if idx < 0 {
			return domain.ErrTaskNotFound
		}
		(*tasks)[idx].SetCompleted(done)
		updated = (*tasks)[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *TaskService) Delete(ctx context.Context, userID string, id int) error {
	_, err := s.tasks.update(ctx, userID, func(tasks *[]domain.Task) error {
		idx := findTask(*tasks, id)
		if idx < 0 {
			return domain.ErrTaskNotFound
		}
		*tasks = slices.Delete(*tasks, idx, idx+1)
		return nil
	})
	return err
}

// DueOn lists the tasks due on the calendar day of day, in the user's location.
func (s *TaskService) DueOn(ctx context.Context, userID string, day time.Time) ([]domain.Task, error) {
	tasks, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	loc := userLocation(ctx, s.locations, userID)

	due := make([]domain.Task, 0)
	for _, t := range tasks {
		if t.DueOn(day, loc) {
			due = append(due, t)
		}
	}
	return due, nil
}

func (s *TaskService) Today(ctx context.Context, userID string) ([]domain.Task, error) {
	return s.DueOn(ctx, userID, s.now())
}

// Upcoming returns the first limit incomplete tasks by due date, overdue ones
// included.
func (s *TaskService) Upcoming(ctx context.Context, userID string, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		return []domain.Task{}, nil
	}
	tasks, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}

	open := make([]domain.Task, 0, limit)
	for _, t := range tasks {
		if len(open) == limit {
			break
		}
		if !t.IsCompleted {
			open = append(open, t)
		}
	}
	return open, nil
}
