package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrHabitTitleEmpty    = errors.New("habit title cannot be empty")
	ErrHabitTitleTooLong  = errors.New("habit title is too long (max 100 chars)")
	ErrHabitDescTooLong   = errors.New("habit description is too long (max 500 chars)")
	ErrHabitInvalidUserID = errors.New("invalid user id")
	ErrInvalidColor       = errors.New("invalid color format (must be #RRGGBB)")
	ErrInvalidWeeklyGoal  = errors.New("invalid weekly goal (must be 1-7)")
	ErrHabitArchived      = errors.New("cannot update an archived habit")
	ErrInvalidReminder    = errors.New("invalid reminder format (must be HH:MM 24h)")
)

var colorRegex = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
var reminderRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

const (
	// DailyGoal is the weekly goal of a habit that must be done every day.
	DailyGoal   = 7
	MaxTitleLen = 100
	MaxDescLen  = 500
)

type Habit struct {
	ID            string     `json:"id" db:"id"`
	UserID        string     `json:"user_id" db:"user_id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description,omitempty" db:"description"`
	Color         string     `json:"color" db:"color"`
	Icon          IconName   `json:"icon" db:"icon"`
	SortOrder     int        `json:"sort_order" db:"sort_order"`
	WeeklyGoal    int        `json:"weekly_goal" db:"weekly_goal"`
	ReminderTime  *string    `json:"reminder_time,omitempty" db:"reminder_time"`
	CurrentStreak int        `json:"current_streak" db:"current_streak"`
	LongestStreak int        `json:"longest_streak" db:"longest_streak"`
	Version       int        `json:"version" db:"version"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
	ArchivedAt    *time.Time `json:"archived_at,omitempty" db:"archived_at"`
	DeletedAt     *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// HabitAttributes are the user editable fields of a habit.
type HabitAttributes struct {
	Title        string
	Description  string
	Color        string
	Icon         string
	ReminderTime string
	WeeklyGoal   int
}

func validateAttributes(a HabitAttributes) error {
	trimmedTitle := strings.TrimSpace(a.Title)
	if trimmedTitle == "" {
		return ErrHabitTitleEmpty
	}
	if len(trimmedTitle) > MaxTitleLen {
		return ErrHabitTitleTooLong
	}

	if len(strings.TrimSpace(a.Description)) > MaxDescLen {
		return ErrHabitDescTooLong
	}

	if a.WeeklyGoal < 1 || a.WeeklyGoal > DailyGoal {
		return ErrInvalidWeeklyGoal
	}

	if a.ReminderTime != "" && !reminderRegex.MatchString(a.ReminderTime) {
		return ErrInvalidReminder
	}

	if a.Color != "" && !colorRegex.MatchString(a.Color) {
		return ErrInvalidColor
	}

	return nil
}

func NewHabit(userID string, attrs HabitAttributes) (*Habit, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, ErrHabitInvalidUserID
	}

	if attrs.WeeklyGoal == 0 {
		attrs.WeeklyGoal = DailyGoal
	}

	now := time.Now().UTC()
	h := &Habit{
		ID:        uuid.NewString(),
		UserID:    userID,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.apply(attrs); err != nil {
		return nil, err
	}

	return h, nil
}

func (h *Habit) Update(attrs HabitAttributes) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	if err := h.apply(attrs); err != nil {
		return err
	}

	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) apply(attrs HabitAttributes) error {
	if err := validateAttributes(attrs); err != nil {
		return err
	}

	var remPtr *string
	if attrs.ReminderTime != "" {
		reminder := attrs.ReminderTime
		remPtr = &reminder
	}

	h.Title = strings.TrimSpace(attrs.Title)
	h.Description = strings.TrimSpace(attrs.Description)
	h.Color = attrs.Color
	h.Icon = ParseIcon(attrs.Icon)
	h.ReminderTime = remPtr
	h.WeeklyGoal = attrs.WeeklyGoal

	return nil
}

// Attributes returns the editable fields so callers can merge partial updates.
func (h *Habit) Attributes() HabitAttributes {
	reminder := ""
	if h.ReminderTime != nil {
		reminder = *h.ReminderTime
	}
	return HabitAttributes{
		Title:        h.Title,
		Description:  h.Description,
		Color:        h.Color,
		Icon:         string(h.Icon),
		ReminderTime: reminder,
		WeeklyGoal:   h.WeeklyGoal,
	}
}

// IsDaily reports whether the habit must be completed every day of the week.
func (h *Habit) IsDaily() bool {
	return h.WeeklyGoal >= DailyGoal
}

func (h *Habit) ChangePosition(newOrder int) error {
	if h.ArchivedAt != nil {
		return ErrHabitArchived
	}

	h.SortOrder = newOrder
	h.UpdatedAt = time.Now().UTC()
	return nil
}

func (h *Habit) UpdateStreak(current, longest int) {
	h.CurrentStreak = current
	h.LongestStreak = longest
	h.UpdatedAt = time.Now().UTC()
}

func (h *Habit) Archive() {
	if h.ArchivedAt != nil {
		return
	}

	now := time.Now().UTC()
	h.ArchivedAt = &now
	h.UpdatedAt = now
}

func (h *Habit) Restore() {
	if h.ArchivedAt == nil {
		return
	}
	h.ArchivedAt = nil
	h.UpdatedAt = time.Now().UTC()
}

// HabitView is a habit together with the values derived from its completions.
type HabitView struct {
	Habit
	Completions     []string `json:"completions"`
	CurrentWeekDays [7]bool  `json:"current_week_days"`
	WeekProgress    int      `json:"week_progress"`
}
