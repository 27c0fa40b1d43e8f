// Package streak derives streaks and progress figures from the calendar dates
// on which a habit was completed.
//
// A weekly goal of 7 (or more) makes a daily habit: every calendar day counts
// on its own. A smaller goal makes a weekly quota habit: a Monday-start week
// counts when it holds at least goal completions.
package streak

import (
	"math"
	"sort"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

type Result struct {
	CurrentStreak int     `json:"current_streak"`
	LongestStreak int     `json:"longest_streak"`
	WeekProgress  int     `json:"week_progress"`
	YearRate      float64 `json:"year_completion_rate"`
	WeekDays      [7]bool `json:"current_week_days"`
}

// daySet holds calendar dates keyed by UTC midnight.
type daySet map[time.Time]struct{}

func newDaySet(days []time.Time) daySet {
	set := make(daySet, len(days))
	for _, d := range days {
		set[domain.CalendarDate(d)] = struct{}{}
	}
	return set
}

func (s daySet) has(day time.Time) bool {
	_, ok := s[day]
	return ok
}

func (s daySet) sorted() []time.Time {
	out := make([]time.Time, 0, len(s))
	for d := range s {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}

func (s daySet) countBetween(from, to time.Time) int {
	n := 0
	for d := range s {
		if !d.Before(from) && !d.After(to) {
			n++
		}
	}
	return n
}

func (s daySet) weekCounts() map[time.Time]int {
	counts := make(map[time.Time]int)
	for d := range s {
		counts[domain.WeekStart(d)]++
	}
	return counts
}

func isDaily(goal int) bool {
	return goal >= domain.DailyGoal
}

// Dates turns completion instants into distinct calendar dates as seen in
// loc, oldest first.
func Dates(times []time.Time, loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.UTC
	}
	set := make(daySet, len(times))
	for _, t := range times {
		set[domain.CalendarDate(t.In(loc))] = struct{}{}
	}
	return set.sorted()
}

// Current counts the trailing run of completed periods. The run may end in the
// current period or, when that one is not done yet, in the previous one.
func Current(days []time.Time, goal int, today time.Time) int {
	if goal <= 0 || len(days) == 0 {
		return 0
	}
	set := newDaySet(days)
	today = domain.CalendarDate(today)

	if isDaily(goal) {
		day := today
		if !set.has(day) {
			day = day.AddDate(0, 0, -1)
		}
		n := 0
		for set.has(day) {
			n++
			day = day.AddDate(0, 0, -1)
		}
		return n
	}

	counts := set.weekCounts()
	week := domain.WeekStart(today)
	if counts[week] < goal {
		week = week.AddDate(0, 0, -7)
	}
	n := 0
	for counts[week] >= goal {
		n++
		week = week.AddDate(0, 0, -7)
	}
	return n
}

// Longest is the longest run of completed periods over the whole history.
func Longest(days []time.Time, goal int) int {
	if goal <= 0 || len(days) == 0 {
		return 0
	}
	set := newDaySet(days)

	if isDaily(goal) {
		return longestRun(set.sorted(), 1)
	}

	var weeks []time.Time
	for week, count := range set.weekCounts() {
		if count >= goal {
			weeks = append(weeks, week)
		}
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Before(weeks[j]) })
	return longestRun(weeks, 7)
}

// longestRun scans ascending dates for the longest chain of entries that are
// exactly step days apart.
func longestRun(sorted []time.Time, step int) int {
	longest, run := 0, 0
	for i, d := range sorted {
		if i > 0 && sorted[i-1].AddDate(0, 0, step).Equal(d) {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}
	return longest
}

// WeekProgress is the share of the weekly goal reached in the current week,
// as a whole percentage capped at 100.
func WeekProgress(days []time.Time, goal int, today time.Time) int {
	if goal <= 0 {
		return 0
	}
	start := domain.WeekStart(today)
	done := newDaySet(days).countBetween(start, start.AddDate(0, 0, 6))

	pct := int(math.Round(float64(done) / float64(goal) * 100))
	return min(pct, 100)
}

// YearRate compares the completions of the current calendar year, up to and
// including today, with the completions the goal asks for over the same span.
func YearRate(days []time.Time, goal int, today time.Time) float64 {
	if goal <= 0 {
		return 0
	}
	today = domain.CalendarDate(today)
	jan1 := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	elapsed := int(today.Sub(jan1).Hours()/24) + 1
	done := newDaySet(days).countBetween(jan1, today)

	expected := float64(min(goal, domain.DailyGoal)) / float64(domain.DailyGoal) * float64(elapsed)
	rate := float64(done) / expected * 100
	if rate > 100 {
		rate = 100
	}
	return math.Round(rate*100) / 100
}

// WeekDays reports, Monday first, which days of the current week are completed.
func WeekDays(days []time.Time, today time.Time) [7]bool {
	var out [7]bool
	set := newDaySet(days)
	start := domain.WeekStart(today)
	for i := range out {
		out[i] = set.has(start.AddDate(0, 0, i))
	}
	return out
}

// Calculate derives every figure at once. days are calendar dates and today is
// the current calendar date of the habit owner.
func Calculate(days []time.Time, goal int, today time.Time) Result {
	return Result{
		CurrentStreak: Current(days, goal, today),
		LongestStreak: Longest(days, goal),
		WeekProgress:  WeekProgress(days, goal, today),
		YearRate:      YearRate(days, goal, today),
		WeekDays:      WeekDays(days, today),
	}
}
