package domain

import (
	"errors"
	"slices"
	"strings"
	"time"
)

var (
	ErrInvalidSessionLength = errors.New("invalid focus length (25, 45 or 60 minutes)")
	ErrInvalidBreakLength   = errors.New("invalid break length (5, 10 or 15 minutes)")
	ErrFocusRunning         = errors.New("a focus session is already running")
	ErrFocusNotRunning      = errors.New("no running focus session")
	ErrFocusNotPaused       = errors.New("focus session is not paused")
)

var (
	SessionLengths = []int{25, 45, 60}
	BreakLengths   = []int{5, 10, 15}
)

type FocusState string

const (
	FocusIdle     FocusState = "idle"
	FocusRunning  FocusState = "running"
	FocusPaused   FocusState = "paused"
	FocusFinished FocusState = "finished"
)

// FocusTimer is a countdown. Remaining time is derived from timestamps, so
// nothing has to tick while nobody is looking.
type FocusTimer struct {
	Subject        string     `json:"subject"`
	SessionMinutes int        `json:"session_minutes"`
	BreakMinutes   int        `json:"break_minutes"`
	State          FocusState `json:"state"`
	SegmentStart   *time.Time `json:"segment_start,omitempty"`
	ElapsedSeconds int64      `json:"elapsed_seconds"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
}

type FocusStats struct {
	SessionsCompleted int            `json:"sessions_completed"`
	TotalMinutes      int            `json:"total_minutes"`
	MinutesBySubject  map[string]int `json:"minutes_by_subject"`
}

// FocusDocument is what the focus view persists per user.
type FocusDocument struct {
	Timer FocusTimer `json:"timer"`
	Stats FocusStats `json:"stats"`
}

func NewFocusDocument() FocusDocument {
	return FocusDocument{
		Timer: FocusTimer{State: FocusIdle},
		Stats: FocusStats{MinutesBySubject: map[string]int{}},
	}
}

func (t *FocusTimer) Start(subject string, sessionMinutes, breakMinutes int, now time.Time) error {
	if t.State == FocusRunning || t.State == FocusPaused {
		return ErrFocusRunning
	}
	if !slices.Contains(SessionLengths, sessionMinutes) {
		return ErrInvalidSessionLength
	}
	if !slices.Contains(BreakLengths, breakMinutes) {
		return ErrInvalidBreakLength
	}

	start := now.UTC()
	*t = FocusTimer{
		Subject:        strings.TrimSpace(subject),
		SessionMinutes: sessionMinutes,
		BreakMinutes:   breakMinutes,
		State:          FocusRunning,
		SegmentStart:   &start,
	}
	return nil
}

func (t *FocusTimer) Pause(now time.Time) error {
	if t.State != FocusRunning {
		return ErrFocusNotRunning
	}
	t.ElapsedSeconds = int64(t.elapsed(now) / time.Second)
	t.SegmentStart = nil
	t.State = FocusPaused
	return nil
}

func (t *FocusTimer) Resume(now time.Time) error {
	if t.State != FocusPaused {
		return ErrFocusNotPaused
	}
	start := now.UTC()
	t.SegmentStart = &start
	t.State = FocusRunning
	return nil
}

func (t *FocusTimer) Reset() {
	*t = FocusTimer{State: FocusIdle}
}

func (t *FocusTimer) total() time.Duration {
	return time.Duration(t.SessionMinutes) * time.Minute
}

func (t *FocusTimer) elapsed(now time.Time) time.Duration {
	d := time.Duration(t.ElapsedSeconds) * time.Second
	if t.State == FocusRunning && t.SegmentStart != nil {
		d += now.Sub(*t.SegmentStart)
	}
	return d
}

func (t *FocusTimer) Remaining(now time.Time) time.Duration {
	if t.State == FocusIdle || t.State == FocusFinished {
		return 0
	}
	left := t.total() - t.elapsed(now)
	if left < 0 {
		return 0
	}
	return left
}

// Expired reports whether a running countdown has reached zero.
func (t *FocusTimer) Expired(now time.Time) bool {
	return t.State == FocusRunning && t.Remaining(now) == 0
}

// Advance moves an expired timer to the finished state. It reports true only
// on that transition.
func (t *FocusTimer) Advance(now time.Time) bool {
	if !t.Expired(now) {
		return false
	}
	end := t.SegmentStart.Add(t.total() - time.Duration(t.ElapsedSeconds)*time.Second)
	t.State = FocusFinished
	t.ElapsedSeconds = int64(t.total() / time.Second)
	t.SegmentStart = nil
	t.FinishedAt = &end
	return true
}

// Record adds a finished session to the counters.
func (s *FocusStats) Record(t FocusTimer) {
	if s.MinutesBySubject == nil {
		s.MinutesBySubject = map[string]int{}
	}
	s.SessionsCompleted++
	s.TotalMinutes += t.SessionMinutes
	subject := t.Subject
	if subject == "" {
		subject = "General"
	}
	s.MinutesBySubject[subject] += t.SessionMinutes
}

// FocusStatus is the timer as a client renders it.
type FocusStatus struct {
	Timer            FocusTimer `json:"timer"`
	RemainingSeconds int64      `json:"remaining_seconds"`
	Stats            FocusStats `json:"stats"`
}
