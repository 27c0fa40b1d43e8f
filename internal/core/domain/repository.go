package domain

import (
	"context"
	"errors"
	"time"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrHabitConflict = errors.New("habit version conflict")

	ErrEntryNotFound = errors.New("habit entry not found")
	ErrEntryConflict = errors.New("habit entry version conflict")
)

// HabitRepository stores habit definitions. Reads skip soft deleted rows,
// except GetChanges which returns them as tombstones.
type HabitRepository interface {
	Create(ctx context.Context, habit *Habit) error
	GetByID(ctx context.Context, id string) (*Habit, error)
	ListByUserID(ctx context.Context, userID string) ([]*Habit, error)

	// Update fails with ErrHabitConflict unless habit.Version matches the
	// stored one, and bumps the version on success.
	Update(ctx context.Context, habit *Habit) error
	Delete(ctx context.Context, id string) error

	// GetChanges lists habits touched after since, oldest change first.
	GetChanges(ctx context.Context, userID string, since time.Time) ([]*Habit, error)

	// UpdateStreaks writes the derived counters and updated_at only. Clients
	// holding the habit keep a valid version.
	UpdateStreaks(ctx context.Context, id string, current, longest int) error
}

// HabitEntryRepository stores completions. At most one live entry exists per
// habit and calendar date; a second Create fails with ErrEntryConflict.
type HabitEntryRepository interface {
	Create(ctx context.Context, entry *HabitEntry) error

	// Update is version checked like HabitRepository.Update.
	Update(ctx context.Context, entry *HabitEntry) error

	// Delete soft deletes the entry when userID owns it.
	Delete(ctx context.Context, id string, userID string) error

	GetByID(ctx context.Context, id string) (*HabitEntry, error)
	GetByDate(ctx context.Context, habitID string, date time.Time) (*HabitEntry, error)

	// ListByHabitID returns the full history the streak figures are built from.
	ListByHabitID(ctx context.Context, habitID string) ([]*HabitEntry, error)

	// ListByHabitIDWithRange and ListByUserIDAndDateRange include both ends.
	ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*HabitEntry, error)
	ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*HabitEntry, error)

	GetChanges(ctx context.Context, userID string, since time.Time) ([]*HabitEntry, error)
}
