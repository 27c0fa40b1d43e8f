package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidEntry   = errors.New("invalid habit entry data")
	ErrInvalidWeekday = errors.New("invalid weekday index (must be 0-6, Monday first)")
)

const DateLayout = "2006-01-02"

// HabitEntry records that a habit was completed on a calendar date.
type HabitEntry struct {
	ID      string `json:"id" db:"id"`
	HabitID string `json:"habit_id" db:"habit_id"`
	UserID  string `json:"user_id" db:"user_id"`

	CompletionDate time.Time `json:"completion_date" db:"completion_date"`
	Notes          string    `json:"notes" db:"notes"`

	Version   int        `json:"version" db:"version"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CalendarDate strips the clock from t, keeping the year, month and day as
// seen in t's own location.
func CalendarDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func NewHabitEntry(habitID, userID string, date time.Time) *HabitEntry {
	now := time.Now().UTC()

	return &HabitEntry{
		ID:             uuid.NewString(),
		HabitID:        habitID,
		UserID:         userID,
		CompletionDate: CalendarDate(date),

		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (e *HabitEntry) DateKey() string {
	return e.CompletionDate.Format(DateLayout)
}

func (e *HabitEntry) Validate() error {
	if strings.TrimSpace(e.HabitID) == "" {
		return fmt.Errorf("%w: habit_id is required", ErrInvalidEntry)
	}
	if strings.TrimSpace(e.UserID) == "" {
		return fmt.Errorf("%w: user_id is required", ErrInvalidEntry)
	}
	if e.CompletionDate.IsZero() {
		return fmt.Errorf("%w: completion_date is required", ErrInvalidEntry)
	}
	return nil
}
