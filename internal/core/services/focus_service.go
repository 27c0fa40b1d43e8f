package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

type FocusService struct {
	focus *collection[domain.FocusDocument]
	now   func() time.Time
}

func NewFocusService(store domain.DocumentStore, logger *zap.Logger) *FocusService {
	return &FocusService{
		focus: newCollection(store, domain.KeyFocus, domain.NewFocusDocument, logger),
		now:   time.Now,
	}
}

func (s *FocusService) SetClock(now func() time.Time) {
	s.now = now
}

type StartFocusInput struct {
	UserID         string
	Subject        string
	SessionMinutes int
	BreakMinutes   int
}

// settle finishes a countdown that ran out and books it exactly once.
func settle(doc *domain.FocusDocument, now time.Time) bool {
	if !doc.Timer.Advance(now) {
		return false
	}
	doc.Stats.Record(doc.Timer)
	return true
}

func (s *FocusService) status(doc domain.FocusDocument, now time.Time) *domain.FocusStatus {
	return &domain.FocusStatus{
		Timer:            doc.Timer,
		RemainingSeconds: int64(doc.Timer.Remaining(now) / time.Second),
		Stats:            doc.Stats,
	}
}

// Status reports the timer. A countdown that ran out since the last call is
// finished and counted here.
func (s *FocusService) Status(ctx context.Context, userID string) (*domain.FocusStatus, error) {
	now := s.now()
	doc, err := s.focus.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if doc.Timer.Expired(now) {
		return s.mutate(ctx, userID, func(*domain.FocusDocument, time.Time) error { return nil })
	}
	return s.status(doc, now), nil
}

func (s *FocusService) Stats(ctx context.Context, userID string) (*domain.FocusStats, error) {
	st, err := s.Status(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &st.Stats, nil
}

func (s *FocusService) Start(ctx context.Context, input StartFocusInput) (*domain.FocusStatus, error) {
	return s.mutate(ctx, input.UserID, func(doc *domain.FocusDocument, now time.Time) error {
		return doc.Timer.Start(input.Subject, input.SessionMinutes, input.BreakMinutes, now)
	})
}

func (s *FocusService) Pause(ctx context.Context, userID string) (*domain.FocusStatus, error) {
	return s.mutate(ctx, userID, func(doc *domain.FocusDocument, now time.Time) error {
		return doc.Timer.Pause(now)
	})
}

func (s *FocusService) Resume(ctx context.Context, userID string) (*domain.FocusStatus, error) {
	return s.mutate(ctx, userID, func(doc *domain.FocusDocument, now time.Time) error {
		return doc.Timer.Resume(now)
	})
}

func (s *FocusService) Reset(ctx context.Context, userID string) (*domain.FocusStatus, error) {
	return s.mutate(ctx, userID, func(doc *domain.FocusDocument, _ time.Time) error {
		doc.Timer.Reset()
		return nil
	})
}

func (s *FocusService) mutate(ctx context.Context, userID string, fn func(*domain.FocusDocument, time.Time) error) (*domain.FocusStatus, error) {
	now := s.now()
	doc, err := s.focus.update(ctx, userID, func(doc *domain.FocusDocument) error {
		settle(doc, now)
		return fn(doc, now)
	})
	if err != nil {
		return nil, err
	}
	return s.status(doc, now), nil
}
