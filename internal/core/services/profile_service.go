package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

type ProfileService struct {
	subjects *collection[[]domain.Subject]
	settings *collection[domain.Settings]
	users    domain.UserRepository
	logger   *zap.Logger
}

func NewProfileService(store domain.DocumentStore, users domain.UserRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		subjects: newCollection(store, domain.KeySubjects, domain.DefaultSubjects, logger),
		settings: newCollection(store, domain.KeySettings, domain.DefaultSettings, logger),
		users:    users,
		logger:   logger,
	}
}

type UpdateSettingsInput struct {
	UserID        string
	Timezone      *string
	Theme         *string
	DisplayName   *string
	Notifications *bool
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*domain.Profile, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	subjects, err := s.Subjects(ctx, userID)
	if err != nil {
		return nil, err
	}

	name := settings.DisplayName
	if name == "" {
		name = user.DisplayName
	}

	return &domain.Profile{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: name,
		Settings:    *settings,
		Subjects:    subjects,
	}, nil
}

func (s *ProfileService) Subjects(ctx context.Context, userID string) ([]domain.Subject, error) {
	return s.subjects.get(ctx, userID)
}

func (s *ProfileService) AddSubject(ctx context.Context, userID, name, category string) (*domain.Subject, error) {
	var created domain.Subject
	_, err := s.subjects.update(ctx, userID, func(subjects *[]domain.Subject) error {
		sub, err := domain.NewSubject(*subjects, name, category)
		if err != nil {
			return err
		}
		*subjects = append(*subjects, sub)
		created = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

func (s *ProfileService) UpdateSubject(ctx context.Context, userID string, id int, name, category string) (*domain.Subject, error) {
	name = strings.TrimSpace(name)
	category = strings.TrimSpace(category)
	if name == "" || category == "" {
		return nil, domain.ErrSubjectFieldsRequired
	}

	var updated domain.Subject
	_, err := s.subjects.update(ctx, userID, func(subjects *[]domain.Subject) error {
		idx := slices.IndexFunc(*subjects, func(sub domain.Subject) bool { return sub.ID == id })
		if idx < 0 {
			return domain.ErrSubjectNotFound
		}
		(*subjects)[idx].Name = name
		(*subjects)[idx].Category = category
		updated = (*subjects)[idx]
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (s *ProfileService) DeleteSubject(ctx context.Context, userID string, id int) error {
	_, err := s.subjects.update(ctx, userID, func(subjects *[]domain.Subject) error {
		idx := slices.IndexFunc(*subjects, func(sub domain.Subject) bool { return sub.ID == id })
		if idx < 0 {
			return domain.ErrSubjectNotFound
		}
		*subjects = slices.Delete(*subjects, idx, idx+1)
		return nil
	})
	return err
}

func (s *ProfileService) Settings(ctx context.Context, userID string) (*domain.Settings, error) {
	settings, err := s.settings.get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (s *ProfileService) UpdateSettings(ctx context.Context, input UpdateSettingsInput) (*domain.Settings, error) {
	if input.Timezone != nil {
		if _, err := domain.ParseTimezone(*input.Timezone); err != nil {
			return nil, err
		}
	}
	if input.Theme != nil {
		if _, err := domain.ParseTheme(*input.Theme); err != nil {
			return nil, err
		}
	}

	settings, err := s.settings.update(ctx, input.UserID, func(st *domain.Settings) error {
		if input.Timezone != nil {
			st.Timezone = strings.TrimSpace(*input.Timezone)
			if st.Timezone == "" {
				st.Timezone = domain.DefaultTimezone
			}
		}
		if input.Theme != nil {
			st.Theme = domain.Theme(*input.Theme)
		}
		if input.DisplayName != nil {
			st.DisplayName = strings.TrimSpace(*input.DisplayName)
		}
		if input.Notifications != nil {
			st.Notifications = *input.Notifications
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Location resolves the user's configured timezone. Any failure degrades to
// UTC so that date computations keep working.
func (s *ProfileService) Location(ctx context.Context, userID string) *time.Location {
	settings, err := s.settings.get(ctx, userID)
	if err != nil {
		s.logger.Warn("settings unavailable, using UTC", zap.String("user_id", userID), zap.Error(err))
		return time.UTC
	}
	loc, err := domain.ParseTimezone(settings.Timezone)
	if err != nil {
		s.logger.Warn("stored timezone is invalid, using UTC",
			zap.String("user_id", userID),
			zap.String("timezone", settings.Timezone),
		)
		return time.UTC
	}
	return loc
}
