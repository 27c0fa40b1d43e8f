package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

var (
	_ domain.HabitRepository      = (*InMemoryHabitRepository)(nil)
	_ domain.HabitEntryRepository = (*InMemoryEntryRepository)(nil)
	_ domain.UserRepository       = (*InMemoryUserRepository)(nil)
)

// InMemoryHabitRepository keeps copies of the stored habits, so callers never
// share memory with the store.
type InMemoryHabitRepository struct {
	store map[string]domain.Habit

	mu sync.RWMutex
}

func NewInMemoryHabitRepository() *InMemoryHabitRepository {
	return &InMemoryHabitRepository{
		store: make(map[string]domain.Habit),
	}
}

func (r *InMemoryHabitRepository) Create(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit.Version = 1
	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	return &habit, nil
}

func (r *InMemoryHabitRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	habits := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.DeletedAt == nil {
			habits = append(habits, &h)
		}
	}

	sort.Slice(habits, func(i, j int) bool {
		if habits[i].SortOrder != habits[j].SortOrder {
			return habits[i].SortOrder < habits[j].SortOrder
		}
		return habits[i].CreatedAt.Before(habits[j].CreatedAt)
	})

	return habits, nil
}

func (r *InMemoryHabitRepository) Update(ctx context.Context, habit *domain.Habit) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[habit.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if stored.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	habit.UpdatedAt = time.Now().UTC()
	habit.CurrentStreak = stored.CurrentStreak
	habit.LongestStreak = stored.LongestStreak
	r.store[habit.ID] = *habit
	return nil
}

func (r *InMemoryHabitRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}

	now := time.Now().UTC()
	habit.DeletedAt = &now
	habit.UpdatedAt = now
	habit.Version++
	r.store[id] = habit
	return nil
}

func (r *InMemoryHabitRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	changes := []*domain.Habit{}
	for _, h := range r.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			changes = append(changes, &h)
		}
	}
	sort.Slice(changes, func(i, j int) bool { return changes[i].UpdatedAt.Before(changes[j].UpdatedAt) })
	return changes, nil
}

func (r *InMemoryHabitRepository) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	habit, ok := r.store[id]
	if !ok || habit.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	habit.CurrentStreak = current
	habit.LongestStreak = longest
	habit.UpdatedAt = time.Now().UTC()
	r.store[id] = habit
	return nil
}

type InMemoryEntryRepository struct {
	store map[string]domain.HabitEntry

	mu sync.RWMutex
}

func NewInMemoryEntryRepository() *InMemoryEntryRepository {
	return &InMemoryEntryRepository{store: make(map[string]domain.HabitEntry)}
}

func (r *InMemoryEntryRepository) Create(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := domain.CalendarDate(entry.CompletionDate)
	for _, e := range r.store {
		if e.HabitID == entry.HabitID && e.DeletedAt == nil && e.CompletionDate.Equal(day) {
			return domain.ErrEntryConflict
		}
	}

	entry.CompletionDate = day
	r.store[entry.ID] = *entry
	return nil
}

func (r *InMemoryEntryRepository) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.store[id]
	if !ok || e.DeletedAt != nil {
		return nil, domain.ErrEntryNotFound
	}
	return &e, nil
}

func (r *InMemoryEntryRepository) GetByDate(ctx context.Context, habitID string, date time.Time) (*domain.HabitEntry, error) {
	entries := r.filter(func(e domain.HabitEntry) bool {
		return e.HabitID == habitID && e.DeletedAt == nil && e.CompletionDate.Equal(domain.CalendarDate(date))
	})
	if len(entries) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return entries[0], nil
}

func (r *InMemoryEntryRepository) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error) {
	return r.filter(func(e domain.HabitEntry) bool {
		return e.HabitID == habitID && e.DeletedAt == nil
	}), nil
}

func (r *InMemoryEntryRepository) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	entries := r.filter(func(e domain.HabitEntry) bool {
		return e.HabitID == habitID && e.DeletedAt == nil && inRange(e.CompletionDate, from, to)
	})
	// newest first, like the SQL implementation
	sort.Slice(entries, func(i, j int) bool { return entries[i].CompletionDate.After(entries[j].CompletionDate) })
	return entries, nil
}

func (r *InMemoryEntryRepository) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	return r.filter(func(e domain.HabitEntry) bool {
		return e.UserID == userID && e.DeletedAt == nil && inRange(e.CompletionDate, from, to)
	}), nil
}

func (r *InMemoryEntryRepository) Update(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[entry.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrEntryNotFound
	}
	if stored.Version != entry.Version {
		return domain.ErrEntryConflict
	}

	stored.Notes = entry.Notes
	stored.Version++
	stored.UpdatedAt = time.Now().UTC()
	r.store[entry.ID] = stored

	entry.Version = stored.Version
	entry.UpdatedAt = stored.UpdatedAt
	return nil
}

func (r *InMemoryEntryRepository) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.store[id]
	if !ok || e.DeletedAt != nil || e.UserID != userID {
		return domain.ErrEntryNotFound
	}

	now := time.Now().UTC()
	e.DeletedAt = &now
	e.UpdatedAt = now
	e.Version++
	r.store[id] = e
	return nil
}

func (r *InMemoryEntryRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.HabitEntry, error) {
	entries := r.filter(func(e domain.HabitEntry) bool {
		return e.UserID == userID && e.UpdatedAt.After(since)
	})
	sort.Slice(entries, func(i, j int) bool { return entries[i].UpdatedAt.Before(entries[j].UpdatedAt) })
	return entries, nil
}

// filter returns copies of the matching entries, oldest completion first.
func (r *InMemoryEntryRepository) filter(keep func(domain.HabitEntry) bool) []*domain.HabitEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := []*domain.HabitEntry{}
	for _, e := range r.store {
		if keep(e) {
			out = append(out, &e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletionDate.Before(out[j].CompletionDate) })
	return out
}

func inRange(day, from, to time.Time) bool {
	return !day.Before(from) && !day.After(to)
}

type InMemoryUserRepository struct {
	byID map[string]domain.User

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{byID: make(map[string]domain.User)}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.byID {
		if u.Email == domain.NormalizeEmail(user.Email) {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.byID[user.ID] = *user
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	email = domain.NormalizeEmail(email)
	for _, u := range r.byID {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return &u, nil
}
