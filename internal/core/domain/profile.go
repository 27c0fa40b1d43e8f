package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ErrSubjectFieldsRequired = errors.New("subject name and category are required")
	ErrSubjectNotFound       = errors.New("subject not found")
	ErrInvalidTimezone       = errors.New("invalid timezone")
	ErrInvalidTheme          = errors.New("invalid theme (must be light, dark or system)")
)

const DefaultTimezone = "UTC"

type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

type Subject struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func DefaultSubjects() []Subject {
	return []Subject{
		{ID: 1, Name: "Calculus", Category: "Math"},
		{ID: 2, Name: "Physics", Category: "Science"},
		{ID: 3, Name: "World History", Category: "History"},
	}
}

func NewSubject(subjects []Subject, name, category string) (Subject, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" {
		return Subject{}, ErrSubjectFieldsRequired
	}
	return Subject{
		ID:       nextID(subjects, func(s Subject) int { return s.ID }),
		Name:     name,
		Category: category,
	}, nil
}

type Settings struct {
	Timezone      string `json:"timezone"`
	Theme         Theme  `json:"theme"`
	DisplayName   string `json:"display_name"`
	Notifications bool   `json:"notifications"`
}

func DefaultSettings() Settings {
	return Settings{
		Timezone:      DefaultTimezone,
		Theme:         ThemeSystem,
		Notifications: true,
	}
}

func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark, ThemeSystem:
		return Theme(s), nil
	}
	return "", ErrInvalidTheme
}

var offsetRegex = regexp.MustCompile(`^UTC([+-])(0[0-9]|1[0-4]):([0-5][0-9])$`)

// ParseTimezone accepts IANA names ("Europe/Rome") and fixed offsets in the
// "UTC+01:00" form.
func ParseTimezone(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return time.UTC, nil
	}

	if m := offsetRegex.FindStringSubmatch(tz); m != nil {
		hours, _ := strconv.Atoi(m[2])
		minutes, _ := strconv.Atoi(m[3])
		offset := hours*3600 + minutes*60
		if m[1] == "-" {
			offset = -offset
		}
		return time.FixedZone(tz, offset), nil
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidTimezone, tz)
	}
	return loc, nil
}

// Profile is the account together with its study preferences.
type Profile struct {
	UserID      string    `json:"user_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	Settings    Settings  `json:"settings"`
	Subjects    []Subject `json:"subjects"`
}
