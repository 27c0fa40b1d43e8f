package domain

import (
	"errors"
	"time"
)

var ErrInvalidStatsRange = errors.New("invalid stats range (end before start or longer than 366 days)")

// MaxStatsDays bounds the window of a stats request.
const MaxStatsDays = 366

type WeeklyStats struct {
	StartDate   string      `json:"start_date"`
	EndDate     string      `json:"end_date"`
	TotalHabits int         `json:"total_habits"`
	OverallRate float64     `json:"overall_completion_rate"`
	HabitStats  []HabitStat `json:"habits"`
}

type HabitStat struct {
	HabitID        string   `json:"habit_id"`
	HabitTitle     string   `json:"habit_title"`
	Color          string   `json:"color"`
	Icon           IconName `json:"icon"`
	WeeklyGoal     int      `json:"weekly_goal"`
	CompletionRate float64  `json:"completion_rate"`
	DaysCompleted  int      `json:"days_completed"`
	DailyProgress  []int    `json:"daily_progress"`
}

type StatsInput struct {
	UserID    string
	StartDate time.Time
	EndDate   time.Time
}

// HabitReport is the per habit summary shown in the report view.
type HabitReport struct {
	HabitID       string   `json:"habit_id"`
	HabitTitle    string   `json:"habit_title"`
	Icon          IconName `json:"icon"`
	WeeklyGoal    int      `json:"weekly_goal"`
	CurrentStreak int      `json:"current_streak"`
	LongestStreak int      `json:"longest_streak"`
	WeekProgress  int      `json:"week_progress"`
	YearRate      float64  `json:"year_completion_rate"`
	TotalDays     int      `json:"total_days"`
}

type Dashboard struct {
	BestStreak     int        `json:"best_streak"`
	TasksDoneToday int        `json:"tasks_done_today"`
	TasksToday     int        `json:"tasks_today"`
	Upcoming       []Task     `json:"upcoming_tasks"`
	Focus          FocusStats `json:"focus"`
}
