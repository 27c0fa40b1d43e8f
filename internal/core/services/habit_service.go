package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/streak"
)

// StreakScheduler queues the recomputation of a habit's stored streaks.
type StreakScheduler interface {
	Enqueue(habitID string)
}

type HabitService struct {
	repo      domain.HabitRepository
	entryRepo domain.HabitEntryRepository
	streaks   StreakScheduler
	locations LocationResolver
	now       func() time.Time
}

func NewHabitService(repo domain.HabitRepository, entryRepo domain.HabitEntryRepository, streaks StreakScheduler, locations LocationResolver) *HabitService {
	return &HabitService{
		repo:      repo,
		entryRepo: entryRepo,
		streaks:   streaks,
		locations: locations,
		now:       time.Now,
	}
}

func (s *HabitService) SetClock(now func() time.Time) {
	s.now = now
}

type CreateHabitInput struct {
	UserID       string
	Title        string
	Description  string
	Color        string
	Icon         string
	ReminderTime string
	WeeklyGoal   int
}

// UpdateHabitInput merges into the stored habit: empty strings and a zero goal
// keep the current value. ReminderTime nil keeps it, "" clears it.
type UpdateHabitInput struct {
	ID           string
	UserID       string
	Title        string
	Description  string
	Color        string
	Icon         string
	ReminderTime *string
	WeeklyGoal   int
	Version      int
}

func mergeString(newVal, oldVal string) string {
	if newVal == "" {
		return oldVal
	}
	return newVal
}

func (s *HabitService) Create(ctx context.Context, input CreateHabitInput) (*domain.Habit, error) {
	habit, err := domain.NewHabit(input.UserID, domain.HabitAttributes{
		Title:        input.Title,
		Description:  input.Description,
		Color:        input.Color,
		Icon:         input.Icon,
		ReminderTime: input.ReminderTime,
		WeeklyGoal:   input.WeeklyGoal,
	})
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	habit.SortOrder = len(existing)

	if err := s.repo.Create(ctx, habit); err != nil {
		return nil, err
	}

	return habit, nil
}

func (s *HabitService) owned(ctx context.Context, id, userID string) (*domain.Habit, error) {
	habit, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *HabitService) Get(ctx context.Context, id string, userID string) (*domain.HabitView, error) {
	habit, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, habit, userToday(ctx, s.locations, userID, s.now()))
}

func (s *HabitService) ListByUserID(ctx context.Context, userID string) ([]*domain.HabitView, error) {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].SortOrder < habits[j].SortOrder
	})

	today := userToday(ctx, s.locations, userID, s.now())
	views := make([]*domain.HabitView, 0, len(habits))
	for _, h := range habits {
		v, err := s.view(ctx, h, today)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

// view derives the completion set and the streak figures of a habit. The
// current week days are computed here on every read and never stored.
func (s *HabitService) view(ctx context.Context, habit *domain.Habit, today time.Time) (*domain.HabitView, error) {
	entries, err := s.entryRepo.ListByHabitID(ctx, habit.ID)
	if err != nil {
		return nil, fmt.Errorf("load completions of %s: %w", habit.ID, err)
	}

	days := streak.Dates(entryDates(entries), time.UTC)
	result := streak.Calculate(days, habit.WeeklyGoal, today)

	completions := make([]string, 0, len(days))
	for _, d := range days {
		completions = append(completions, d.Format(domain.DateLayout))
	}

	v := &domain.HabitView{
		Habit:           *habit,
		Completions:     completions,
		CurrentWeekDays: result.WeekDays,
		WeekProgress:    result.WeekProgress,
	}
	v.CurrentStreak = result.CurrentStreak
	v.LongestStreak = result.LongestStreak
	return v, nil
}

func entryDates(entries []*domain.HabitEntry) []time.Time {
	dates := make([]time.Time, 0, len(entries))
	for _, e := range entries {
		dates = append(dates, e.CompletionDate)
	}
	return dates
}

func (s *HabitService) GetDelta(ctx context.Context, userID string, lastSync time.Time) ([]*domain.Habit, error) {
	return s.repo.GetChanges(ctx, userID, lastSync)
}

func (s *HabitService) Update(ctx context.Context, input UpdateHabitInput) (*domain.Habit, error) {
	habit, err := s.owned(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && habit.Version != input.Version {
		return nil, fmt.Errorf("%w: client v%d vs server v%d", domain.ErrHabitConflict, input.Version, habit.Version)
	}

	attrs := habit.Attributes()
	attrs.Title = mergeString(input.Title, attrs.Title)
	attrs.Description = mergeString(input.Description, attrs.Description)
	attrs.Color = mergeString(input.Color, attrs.Color)
	attrs.Icon = mergeString(input.Icon, attrs.Icon)
	if input.ReminderTime != nil {
		attrs.ReminderTime = *input.ReminderTime
	}
	goalChanged := input.WeeklyGoal > 0 && input.WeeklyGoal != attrs.WeeklyGoal
	if input.WeeklyGoal != 0 {
		attrs.WeeklyGoal = input.WeeklyGoal
	}

	if err := habit.Update(attrs); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}

	if goalChanged && s.streaks != nil {
		s.streaks.Enqueue(habit.ID)
	}

	return habit, nil
}

func (s *HabitService) Delete(ctx context.Context, id string, userID string) error {
	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *HabitService) Archive(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	habit.Archive()
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

func (s *HabitService) Restore(ctx context.Context, id string, userID string) (*domain.Habit, error) {
	habit, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	habit.Restore()
	if err := s.repo.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// Reorder assigns sort positions following ids. Habits missing from ids keep
// their relative order after the listed ones.
func (s *HabitService) Reorder(ctx context.Context, userID string, ids []string) error {
	habits, err := s.repo.ListByUserID(ctx, userID)
	if err != nil {
		return err
	}

	byID := make(map[string]*domain.Habit, len(habits))
	for _, h := range habits {
		byID[h.ID] = h
	}

	ordered := make([]*domain.Habit, 0, len(habits))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		h, ok := byID[id]
		if !ok {
			return fmt.Errorf("%w: %s", domain.ErrHabitNotFound, id)
		}
		if !seen[id] {
			seen[id] = true
			ordered = append(ordered, h)
		}
	}

	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].SortOrder < habits[j].SortOrder
	})
	for _, h := range habits {
		if !seen[h.ID] {
			ordered = append(ordered, h)
		}
	}

	for pos, h := range ordered {
		if h.SortOrder == pos || h.ArchivedAt != nil {
			continue
		}
		if err := h.ChangePosition(pos); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, h); err != nil {
			return err
		}
	}
	return nil
}
