package domain

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	ErrInvalidSessionTime  = errors.New("invalid session time (HH:MM, end after start)")
	ErrSessionSubjectEmpty = errors.New("session subject cannot be empty")
	ErrSessionDateMissing  = errors.New("session date is required")
	ErrSessionNotFound     = errors.New("study session not found")
)

var clockRegex = regexp.MustCompile(`^([0-1][0-9]|2[0-3]):[0-5][0-9]$`)

// StudySession is a planned block of study on a calendar date.
type StudySession struct {
	ID      int       `json:"id"`
	Date    time.Time `json:"date"`
	Start   string    `json:"start"`
	End     string    `json:"end"`
	Subject string    `json:"subject"`
}

func NextSessionID(sessions []StudySession) int {
	return nextID(sessions, func(s StudySession) int { return s.ID })
}

// Normalize trims the fields, truncates the date and validates the block.
func (s *StudySession) Normalize() error {
	s.Subject = strings.TrimSpace(s.Subject)
	if s.Subject == "" {
		return ErrSessionSubjectEmpty
	}
	if s.Date.IsZero() {
		return ErrSessionDateMissing
	}
	if !clockRegex.MatchString(s.Start) || !clockRegex.MatchString(s.End) {
		return ErrInvalidSessionTime
	}
	// zero padded HH:MM strings order lexically
	if s.End <= s.Start {
		return ErrInvalidSessionTime
	}
	s.Date = CalendarDate(s.Date)
	return nil
}

// WeekStart returns the Monday of the week containing day.
func WeekStart(day time.Time) time.Time {
	d := CalendarDate(day)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// PlannerWeek groups sessions into the seven days of a Monday-start week.
type PlannerWeek struct {
	Start time.Time         `json:"start"`
	Days  [7][]StudySession `json:"days"`
}
