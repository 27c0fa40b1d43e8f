package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
	"github.com/comitanigiacomo/learnify-engine/internal/core/streak"
)

type streakOptions struct {
	goal     int
	today    string
	timezone string
	file     string
}

type streakReport struct {
	Goal          int     `yaml:"weekly_goal"`
	Today         string  `yaml:"today"`
	Completions   int     `yaml:"completions"`
	CurrentStreak int     `yaml:"current_streak"`
	LongestStreak int     `yaml:"longest_streak"`
	WeekProgress  int     `yaml:"week_progress"`
	YearRate      float64 `yaml:"year_completion_rate"`
	Week          string  `yaml:"current_week"`
}

func newStreakCmd() *cobra.Command {
	opts := &streakOptions{}

	cmd := &cobra.Command{
		Use:   "streak [date...]",
		Short: "Compute streak figures from completion dates",
		Long: `Reads completion dates (YYYY-MM-DD or RFC3339) from the arguments, or one
per line from --file ("-" for stdin), and prints the figures the engine shows
for a habit with the given weekly goal.`,
		Example: `  learnctl streak --goal 7 2026-04-13 2026-04-14 2026-04-15
  learnctl streak --goal 3 --tz Europe/Rome --file completions.txt`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStreak(cmd.OutOrStdout(), cmd.InOrStdin(), opts, args)
		},
	}

	cmd.Flags().IntVarP(&opts.goal, "goal", "g", domain.DailyGoal, "weekly goal (1-7, 7 means daily)")
	cmd.Flags().StringVar(&opts.today, "today", "", "reference date, defaults to the current date")
	cmd.Flags().StringVar(&opts.timezone, "tz", domain.DefaultTimezone, "timezone that decides calendar days")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "read dates from a file, one per line")
	return cmd
}

func runStreak(out io.Writer, in io.Reader, opts *streakOptions, args []string) error {
	if opts.goal < 1 || opts.goal > domain.DailyGoal {
		return domain.ErrInvalidWeeklyGoal
	}
	loc, err := domain.ParseTimezone(opts.timezone)
	if err != nil {
		return err
	}

	raw := args
	if opts.file != "" {
		lines, err := readLines(opts.file, in)
		if err != nil {
			return err
		}
		raw = append(raw, lines...)
	}

	instants := make([]time.Time, 0, len(raw))
	for _, v := range raw {
		t, err := parseInstant(v, loc)
		if err != nil {
			return err
		}
		instants = append(instants, t)
	}

	now := time.Now()
	if opts.today != "" {
		if now, err = parseInstant(opts.today, loc); err != nil {
			return err
		}
	}
	today := domain.CalendarDate(now.In(loc))

	days := streak.Dates(instants, loc)
	result := streak.Calculate(days, opts.goal, today)

	report := streakReport{
		Goal:          opts.goal,
		Today:         today.Format(domain.DateLayout),
		Completions:   len(days),
		CurrentStreak: result.CurrentStreak,
		LongestStreak: result.LongestStreak,
		WeekProgress:  result.WeekProgress,
		YearRate:      result.YearRate,
		Week:          weekLine(result.WeekDays),
	}

	enc := yaml.NewEncoder(out)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

// parseInstant reads a calendar date as midnight in loc, or an RFC3339 instant.
func parseInstant(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if t, err := time.ParseInLocation(domain.DateLayout, v, loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD or RFC3339", v)
	}
	return t, nil
}

func readLines(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// weekLine renders the current week Monday first, x for a completed day.
func weekLine(days [7]bool) string {
	var b strings.Builder
	for i, done := range days {
		if i > 0 {
			b.WriteByte(' ')
		}
		if done {
			b.WriteByte('x')
		} else {
			b.WriteByte('.')
		}
	}
	return b.String()
}
