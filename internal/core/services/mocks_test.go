package services_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

func ptr[T any](v T) *T {
	return &v
}

// Wednesday 2026-04-15 09:00 UTC; the week starts on Monday the 13th.
var fixedNow = time.Date(2026, 4, 15, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type MockRepo struct {
	mu            sync.Mutex
	store         map[string]*domain.Habit
	simulateError error
}

func NewMockRepo() *MockRepo {
	return &MockRepo{
		store: make(map[string]*domain.Habit),
	}
}

func (m *MockRepo) Create(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}

	if _, exists := m.store[habit.ID]; exists {
		return errors.New("duplicate key value violates unique constraint")
	}

	if habit.Version == 0 {
		habit.Version = 1
	}
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *MockRepo) GetByID(ctx context.Context, id string) (*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	h, ok := m.store[id]
	if !ok || h.DeletedAt != nil {
		return nil, domain.ErrHabitNotFound
	}
	clone := *h
	return &clone, nil
}

func (m *MockRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return nil, m.simulateError
	}
	var list []*domain.Habit
	for _, h := range m.store {
		if h.UserID == userID && h.DeletedAt == nil {
			clone := *h
			list = append(list, &clone)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

func (m *MockRepo) Update(ctx context.Context, habit *domain.Habit) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}

	stored, ok := m.store[habit.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrHabitNotFound
	}
	if stored.Version != habit.Version {
		return domain.ErrHabitConflict
	}

	habit.Version++
	clone := *habit
	m.store[habit.ID] = &clone
	return nil
}

func (m *MockRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	h, ok := m.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	now := time.Now().UTC()
	h.DeletedAt = &now
	h.Version++
	h.UpdatedAt = now
	return nil
}

func (m *MockRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Habit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var changes []*domain.Habit
	for _, h := range m.store {
		if h.UserID == userID && h.UpdatedAt.After(since) {
			clone := *h
			changes = append(changes, &clone)
		}
	}
	return changes, nil
}

func (m *MockRepo) UpdateStreaks(ctx context.Context, id string, current, longest int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.simulateError != nil {
		return m.simulateError
	}
	h, ok := m.store[id]
	if !ok {
		return domain.ErrHabitNotFound
	}
	h.CurrentStreak = current
	h.LongestStreak = longest
	return nil
}

// memEntries is a map backed entry repository for tests that need real
// storage behaviour rather than call expectations.
type memEntries struct {
	mu      sync.Mutex
	entries []*domain.HabitEntry
}

func (r *memEntries) add(habitID, userID string, days ...time.Time) {
	for _, d := range days {
		_ = r.Create(context.Background(), domain.NewHabitEntry(habitID, userID, d))
	}
}

func (r *memEntries) Create(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.DeletedAt == nil && e.HabitID == entry.HabitID && e.CompletionDate.Equal(entry.CompletionDate) {
			return domain.ErrEntryConflict
		}
	}
	clone := *entry
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memEntries) Update(ctx context.Context, entry *domain.HabitEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, e := range r.entries {
		if e.ID == entry.ID && e.DeletedAt == nil {
			if e.Version != entry.Version {
				return domain.ErrEntryConflict
			}
			entry.Version++
			clone := *entry
			r.entries[i] = &clone
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (r *memEntries) Delete(ctx context.Context, id string, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.entries {
		if e.ID == id && e.UserID == userID && e.DeletedAt == nil {
			now := time.Now().UTC()
			e.DeletedAt = &now
			e.Version++
			return nil
		}
	}
	return domain.ErrEntryNotFound
}

func (r *memEntries) active(match func(*domain.HabitEntry) bool) []*domain.HabitEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.HabitEntry{}
	for _, e := range r.entries {
		if e.DeletedAt == nil && match(e) {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out
}

func (r *memEntries) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	found := r.active(func(e *domain.HabitEntry) bool { return e.ID == id })
	if len(found) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return found[0], nil
}

func (r *memEntries) GetByDate(ctx context.Context, habitID string, day time.Time) (*domain.HabitEntry, error) {
	found := r.active(func(e *domain.HabitEntry) bool {
		return e.HabitID == habitID && e.CompletionDate.Equal(domain.CalendarDate(day))
	})
	if len(found) == 0 {
		return nil, domain.ErrEntryNotFound
	}
	return found[0], nil
}

func (r *memEntries) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error) {
	return r.active(func(e *domain.HabitEntry) bool { return e.HabitID == habitID }), nil
}

func (r *memEntries) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	return r.active(func(e *domain.HabitEntry) bool {
		return e.HabitID == habitID && !e.CompletionDate.Before(from) && !e.CompletionDate.After(to)
	}), nil
}

func (r *memEntries) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	return r.active(func(e *domain.HabitEntry) bool {
		return e.UserID == userID && !e.CompletionDate.Before(from) && !e.CompletionDate.After(to)
	}), nil
}

func (r *memEntries) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.HabitEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*domain.HabitEntry{}
	for _, e := range r.entries {
		if e.UserID == userID && e.UpdatedAt.After(since) {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

type MockHabitEntryRepo struct {
	mock.Mock
}

func (m *MockHabitEntryRepo) Create(ctx context.Context, entry *domain.HabitEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHabitEntryRepo) Update(ctx context.Context, entry *domain.HabitEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockHabitEntryRepo) Delete(ctx context.Context, id string, userID string) error {
	args := m.Called(ctx, id, userID)
	return args.Error(0)
}

func (m *MockHabitEntryRepo) GetByID(ctx context.Context, id string) (*domain.HabitEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) GetByDate(ctx context.Context, habitID string, day time.Time) (*domain.HabitEntry, error) {
	args := m.Called(ctx, habitID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) ListByHabitID(ctx context.Context, habitID string) ([]*domain.HabitEntry, error) {
	args := m.Called(ctx, habitID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) ListByHabitIDWithRange(ctx context.Context, habitID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	args := m.Called(ctx, habitID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) ListByUserIDAndDateRange(ctx context.Context, userID string, from, to time.Time) ([]*domain.HabitEntry, error) {
	args := m.Called(ctx, userID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HabitEntry), args.Error(1)
}

func (m *MockHabitEntryRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.HabitEntry, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.HabitEntry), args.Error(1)
}

// memDocs is a versioned in-memory document store. conflicts makes the next
// n writes fail as if another writer had won.
type memDocs struct {
	mu        sync.Mutex
	docs      map[string]domain.Document
	conflicts int
	getErr    error
	puts      int
}

func newMemDocs() *memDocs {
	return &memDocs{docs: map[string]domain.Document{}}
}

func docKey(owner, key string) string { return owner + "\x00" + key }

func (m *memDocs) Get(ctx context.Context, ownerID, key string) (*domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	doc, ok := m.docs[docKey(ownerID, key)]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	doc.Data = append([]byte(nil), doc.Data...)
	return &doc, nil
}

func (m *memDocs) Put(ctx context.Context, doc *domain.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.puts++
	if m.conflicts > 0 {
		m.conflicts--
		return domain.ErrDocumentConflict
	}
	k := docKey(doc.OwnerID, doc.Key)
	stored, exists := m.docs[k]
	if (doc.Version == 0 && exists) || (doc.Version != 0 && (!exists || stored.Version != doc.Version)) {
		return domain.ErrDocumentConflict
	}
	doc.Version++
	doc.UpdatedAt = time.Now().UTC()
	saved := *doc
	saved.Data = append([]byte(nil), doc.Data...)
	m.docs[k] = saved
	return nil
}

func (m *memDocs) Delete(ctx context.Context, ownerID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, docKey(ownerID, key))
	return nil
}

func (m *memDocs) raw(owner, key string, data string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[docKey(owner, key)] = domain.Document{OwnerID: owner, Key: key, Data: []byte(data), Version: 1}
}

type fixedLocation struct {
	loc *time.Location
}

func (f fixedLocation) Location(ctx context.Context, userID string) *time.Location {
	return f.loc
}

type recordingScheduler struct {
	mu   sync.Mutex
	jobs []string
}

func (r *recordingScheduler) Enqueue(habitID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.jobs = append(r.jobs, habitID)
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events map[string][]domain.GroupEvent
}

func (r *recordingBroadcaster) Broadcast(room string, event domain.GroupEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = map[string][]domain.GroupEvent{}
	}
	r.events[room] = append(r.events[room], event)
}

type memUsers struct {
	users map[string]*domain.User
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{users: map[string]*domain.User{}}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memUsers) Create(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, domain.ErrUserNotFound
}
