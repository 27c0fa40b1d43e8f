package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/streak"
)

type StatsService struct {
	habitRepo domain.HabitRepository
	entryRepo domain.HabitEntryRepository
	locations LocationResolver
	now       func() time.Time
}

func NewStatsService(habitRepo domain.HabitRepository, entryRepo domain.HabitEntryRepository, locations LocationResolver) *StatsService {
	return &StatsService{
		habitRepo: habitRepo,
		entryRepo: entryRepo,
		locations: locations,
		now:       time.Now,
	}
}

func (s *StatsService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *StatsService) GetWeeklyStats(ctx context.Context, input domain.StatsInput) (*domain.WeeklyStats, error) {
	startDate := domain.CalendarDate(input.StartDate)
	endDate := domain.CalendarDate(input.EndDate)

	if endDate.Before(startDate) || endDate.Sub(startDate) >= domain.MaxStatsDays*24*time.Hour {
		return nil, domain.ErrInvalidStatsRange
	}

	habits, err := s.habitRepo.ListByUserID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListByUserIDAndDateRange(ctx, input.UserID, startDate, endDate)
	if err != nil {
		return nil, err
	}

	done := make(map[string]map[string]bool)
	for _, e := range entries {
		if _, exists := done[e.HabitID]; !exists {
			done[e.HabitID] = make(map[string]bool)
		}
		done[e.HabitID][e.DateKey()] = true
	}

	stats := &domain.WeeklyStats{
		StartDate:   startDate.Format(domain.DateLayout),
		EndDate:     endDate.Format(domain.DateLayout),
		TotalHabits: len(habits),
		HabitStats:  make([]domain.HabitStat, 0, len(habits)),
	}

	totalDaysPossible := 0
	totalDaysCompleted := 0

	for _, h := range habits {
		hStat := domain.HabitStat{
			HabitID:       h.ID,
			HabitTitle:    h.Title,
			Color:         h.Color,
			Icon:          h.Icon,
			WeeklyGoal:    h.WeeklyGoal,
			DailyProgress: make([]int, 0),
		}

		daysInPeriod := 0

		for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
			val := 0
			if done[h.ID][day.Format(domain.DateLayout)] {
				val = 1
				hStat.DaysCompleted++
				totalDaysCompleted++
			}
			hStat.DailyProgress = append(hStat.DailyProgress, val)

			daysInPeriod++
			totalDaysPossible++
		}

		if daysInPeriod > 0 {
			hStat.CompletionRate = float64(hStat.DaysCompleted) / float64(daysInPeriod) * 100
		}

		stats.HabitStats = append(stats.HabitStats, hStat)
	}

	if totalDaysPossible > 0 {
		stats.OverallRate = float64(totalDaysCompleted) / float64(totalDaysPossible) * 100
	}

	return stats, nil
}

// GetHabitReport summarizes one habit over its whole history and the current year.
func (s *StatsService) GetHabitReport(ctx context.Context, habitID, userID string) (*domain.HabitReport, error) {
	habit, err := s.habitRepo.GetByID(ctx, habitID)
	if err != nil {
		return nil, err
	}
	if habit.UserID != userID {
		return nil, domain.ErrHabitNotFound
	}

	entries, err := s.entryRepo.ListByHabitID(ctx, habitID)
	if err != nil {
		return nil, err
	}

	days := streak.Dates(entryDates(entries), time.UTC)
	result := streak.Calculate(days, habit.WeeklyGoal, userToday(ctx, s.locations, userID, s.now()))

	return &domain.HabitReport{
		HabitID:       habit.ID,
		HabitTitle:    habit.Title,
		Icon:          habit.Icon,
		WeeklyGoal:    habit.WeeklyGoal,
		CurrentStreak: result.CurrentStreak,
		LongestStreak: result.LongestStreak,
		WeekProgress:  result.WeekProgress,
		YearRate:      result.YearRate,
		TotalDays:     len(days),
	}, nil
}
