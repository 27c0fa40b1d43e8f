package repository

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

var _ domain.HabitRepository = (*CachedHabitRepository)(nil)

// CachedHabitRepository keeps the habit list of each user in Redis. Writes go
// straight to next and drop the cached list of the owner.
type CachedHabitRepository struct {
	next   domain.HabitRepository
	cache  *cache.JSONCache
	logger *zap.Logger
}

func NewCachedHabitRepository(next domain.HabitRepository, c *cache.JSONCache, logger *zap.Logger) *CachedHabitRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedHabitRepository{
		next:   next,
		cache:  c,
		logger: logger.Named("habit_cache"),
	}
}

func (r *CachedHabitRepository) invalidate(ctx context.Context, userID string) {
	if err := r.cache.Delete(ctx, userID); err != nil {
		r.logger.Warn("failed to invalidate habit list", zap.String("user_id", userID), zap.Error(err))
	}
}

func (r *CachedHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	var habits []*domain.Habit
	hit, err := r.cache.Get(ctx, &habits, userID)
	switch {
	case hit:
		return habits, nil
	case errors.Is(err, cache.ErrCorrupted):
		r.logger.Warn("corrupted habit list dropped", zap.String("user_id", userID))
	case err != nil:
		r.logger.Warn("redis read error", zap.Error(err))
	}

	habits, err = r.next.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Set(ctx, habits, userID); err != nil {
		r.logger.Warn("redis set error", zap.String("user_id", userID), zap.Error(err))
	}
	return habits, nil
}

func (r *CachedHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	return r.next.GetByID(ctx, id)
}

func (r *CachedHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	return r.next.GetChanges(ctx, userID, since)
}

func (r *CachedHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Create(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	if err := r.next.Update(ctx, habit); err != nil {
		return err
	}
	r.invalidate(ctx, habit.UserID)
	return nil
}

func (r *CachedHabitRepository) Delete(ctx context.Context, id string) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil {
		defer r.invalidate(ctx, habit.UserID)
	}
	return r.next.Delete(ctx, id)
}

func (r *CachedHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	habit, err := r.next.GetByID(ctx, id)
	if err == nil {
		defer r.invalidate(ctx, habit.UserID)
	}
	return r.next.UpdateStreaks(ctx, id, current, longest)
}
