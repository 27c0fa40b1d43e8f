package services

import (
	"context"
	"errors"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

type EntryService struct {
	repo      domain.HabitEntryRepository
	habitRepo domain.HabitRepository
	streaks   StreakScheduler
	locations LocationResolver
	now       func() time.Time
}

func NewEntryService(repo domain.HabitEntryRepository, habitRepo domain.HabitRepository, streaks StreakScheduler, locations LocationResolver) *EntryService {
	return &EntryService{
		repo:      repo,
		habitRepo: habitRepo,
		streaks:   streaks,
		locations: locations,
		now:       time.Now,
	}
}

func (s *EntryService) SetClock(now func() time.Time) {
	s.now = now
}

type CreateEntryInput struct {
	HabitID string
	UserID  string
	// CompletionDate is a calendar date; zero means the user's today.
	CompletionDate time.Time
	Notes          string
}

type UpdateEntryInput struct {
	ID      string
	UserID  string
	Notes   string
	Version int
}

type ToggleDayInput struct {
	HabitID string
	UserID  string
	// Weekday counts from Monday (0) to Sunday (6) of the current week.
	Weekday int
}

type ToggleResult struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

func (s *EntryService) enqueue(habitID string) {
	if s.streaks != nil {
		s.streaks.Enqueue(habitID)
	}
}

func (s *EntryService) ownedHabit(ctx context.Context, habitID, userID string) (*domain.Habit, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	// Foreign habits look missing, as in HabitService.
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}
	return habit, nil
}

func (s *EntryService) Create(ctx context.Context, input CreateEntryInput) (*domain.HabitEntry, error) {
	date := input.CompletionDate
	if date.IsZero() {
		date = userToday(ctx, s.locations, input.UserID, s.now())
	}

	entry := domain.NewHabitEntry(input.HabitID, input.UserID, date)
	entry.Notes = input.Notes

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	habit, err := s.ownedHabit(ctx, entry.HabitID, entry.UserID)
	if err != nil {
		return nil, err
	}
	if habit.ArchivedAt != nil {
		return nil, domain.ErrHabitArchived
	}

	if _, err := s.repo.GetByDate(ctx, entry.HabitID, entry.CompletionDate); err == nil {
		return nil, domain.ErrEntryConflict
	} else if !errors.Is(err, domain.ErrEntryNotFound) {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	s.enqueue(entry.HabitID)

	return entry, nil
}

// ToggleDay flips the completion of one day of the current week, as seen in
// the user's timezone.
func (s *EntryService) ToggleDay(ctx context.Context, input ToggleDayInput) (*ToggleResult, error) {
	if input.Weekday < 0 || input.Weekday > 6 {
		return nil, domain.ErrInvalidWeekday
	}

	habit, err := s.ownedHabit(ctx, input.HabitID, input.UserID)
	if err != nil {
		return nil, err
	}
	if habit.ArchivedAt != nil {
		return nil, domain.ErrHabitArchived
	}

	today := userToday(ctx, s.locations, input.UserID, s.now())
	date := domain.WeekStart(today).AddDate(0, 0, input.Weekday)
	result := &ToggleResult{Date: date.Format(domain.DateLayout)}

	existing, err := s.repo.GetByDate(ctx, habit.ID, date)
	switch {
	case err == nil:
		if err := s.repo.Delete(ctx, existing.ID, input.UserID); err != nil {
			return nil, err
		}
		result.Completed = false
	case errors.Is(err, domain.ErrEntryNotFound):
		if err := s.repo.Create(ctx, domain.NewHabitEntry(habit.ID, input.UserID, date)); err != nil {
			return nil, err
		}
		result.Completed = true
	default:
		return nil, err
	}

	s.enqueue(habit.ID)

	return result, nil
}

func (s *EntryService) Update(ctx context.Context, input UpdateEntryInput) (*domain.HabitEntry, error) {
	existing, err := s.GetByID(ctx, input.ID, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Version > 0 && existing.Version != input.Version {
		return nil, domain.ErrEntryConflict
	}

	existing.Notes = input.Notes

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}

	s.enqueue(existing.HabitID)

	return existing, nil
}

func (s *EntryService) GetByID(ctx context.Context, id string, userID string) (*domain.HabitEntry, error) {
	entry, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry.UserID != userID {
		return nil, domain.ErrEntryNotFound
	}
	return entry, nil
}

func (s *EntryService) ListByHabitID(ctx context.Context, habitID string, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	if _, err := s.ownedHabit(ctx, habitID, userID); err != nil {
		return nil, err
	}

	return s.repo.ListByHabitIDWithRange(ctx, habitID, from, to)
}

func (s *EntryService) Delete(ctx context.Context, id string, userID string) error {
	entry, err := s.GetByID(ctx, id, userID)
	if err != nil {
		return err
	}

	habitID := entry.HabitID

	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}

	s.enqueue(habitID)

	return nil
}

func (s *EntryService) GetDelta(ctx context.Context, userID string, since time.Time) ([]*domain.HabitEntry, error) {
	return s.repo.GetChanges(ctx, userID, since)
}
