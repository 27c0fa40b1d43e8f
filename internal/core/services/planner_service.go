package services

import (
	"context"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

type PlannerService struct {
	sessions *collection[[]domain.StudySession]
}

func NewPlannerService(store domain.DocumentStore, logger *zap.Logger) *PlannerService {
	return &PlannerService{
		sessions: newCollection(store, domain.KeyPlanner, func() []domain.StudySession { return []domain.StudySession{} }, logger),
	}
}

type CreateSessionInput struct {
	UserID  string
	Date    time.Time
	Start   string
	End     string
	Subject string
}

type UpdateSessionInput struct {
	ID      int
	UserID  string
	Date    *time.Time
	Start   *string
	End     *string
	Subject *string
}

func sortSessions(sessions []domain.StudySession) {
	sort.SliceStable(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.Before(sessions[j].Date)
		}
		return sessions[i].Start < sessions[j].Start
	})
}

func (s *PlannerService) ListByDay(ctx context.Context, userID string, day time.Time) ([]domain.StudySession, error) {
	all, err := s.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	date := domain.CalendarDate(day)
	out := make([]domain.StudySession, 0)
	for _, sess := range all {
		if sess.Date.Equal(date) {
			out = append(out, sess)
		}
	}
	sortSessions(out)
	return out, nil
}

// ListByWeek buckets the sessions of the Monday-start week containing day.
func (s *PlannerService) ListByWeek(ctx context.Context, userID string, day time.Time) (*domain.PlannerWeek, error) {
	all, err := s.sessions.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	sortSessions(all)

	week := &domain.PlannerWeek{Start: domain.WeekStart(day)}
	for i := range week.Days {
		week.Days[i] = []domain.StudySession{}
	}
	for _, sess := range all {
		offset := int(sess.Date.Sub(week.Start).Hours() / 24)
		if offset >= 0 && offset < len(week.Days) {
			week.Days[offset] = append(week.Days[offset], sess)
		}
	}
	return week, nil
}

func (s *PlannerService) Create(ctx context.Context, input CreateSessionInput) (*domain.StudySession, error) {
	session := domain.StudySession{
		Date:    input.Date,
		Start:   input.Start,
		End:     input.End,
		Subject: input.Subject,
	}
	if err := session.Normalize(); err != nil {
		return nil, err
	}

	_, err := s.sessions.update(ctx, input.UserID, func(sessions *[]domain.StudySession) error {
		session.ID = domain.NextSessionID(*sessions)
		*sessions = append(*sessions, session)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *PlannerService) Update(ctx context.Context, input UpdateSessionInput) (*domain.StudySession, error) {
	var updated domain.StudySession
	_, err := s.sessions.update(ctx, input.UserID, func(sessions *[]domain.StudySession) error {
		idx := slices.IndexFunc(*sessions, func(sess domain.StudySession) bool { return sess.ID == input.ID })
		if idx < 0 {
			return domain.ErrSessionNotFound
		}
		sess := (*sessions)[idx]
		if input.Date != nil {
			sess.Date = *input.Date
		}
		if input.Start != nil {
			sess.Start = *input.Start
		}
		if input.End != nil {
			sess.End = *input.End
		}
		if input.Subject != nil {
			sess.Subject = *input.Subject
		}
		if err := sess.Normalize(); err != nil {
			return err
		}
		(*sessions)[idx] = sess
		updated = sess
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *PlannerService) Delete(ctx context.Context, userID string, id int) error {
	_, err := s.sessions.update(ctx, userID, func(sessions *[]domain.StudySession) error {
		idx := slices.IndexFunc(*sessions, func(sess domain.StudySession) bool { return sess.ID == id })
		if idx < 0 {
			return domain.ErrSessionNotFound
		}
		*sessions = slices.Delete(*sessions, idx, idx+1)
		return nil
	})
	return err
}
