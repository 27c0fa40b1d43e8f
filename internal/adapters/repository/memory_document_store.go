package repository

import (
	"context"
	"sync"
	"time"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

var _ domain.DocumentStore = (*InMemoryDocumentStore)(nil)

type documentID struct {
	owner string
	key   string
}

type InMemoryDocumentStore struct {
	docs map[documentID]domain.Document

	mu sync.RWMutex
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{docs: make(map[documentID]domain.Document)}
}

func (s *InMemoryDocumentStore) Get(ctx context.Context, ownerID, key string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[documentID{ownerID, key}]
	if !ok {
		return nil, domain.ErrDocumentNotFound
	}
	doc.Data = append([]byte(nil), doc.Data...)
	return &doc, nil
}

func (s *InMemoryDocumentStore) Put(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := documentID{doc.OwnerID, doc.Key}
	stored, exists := s.docs[id]
	switch {
	case doc.Version == 0 && exists:
		return domain.ErrDocumentConflict
	case doc.Version != 0 && (!exists || stored.Version != doc.Version):
		return domain.ErrDocumentConflict
	}

	doc.Version++
	doc.UpdatedAt = time.Now().UTC()

	saved := *doc
	saved.Data = append([]byte(nil), doc.Data...)
	s.docs[id] = saved
	return nil
}

func (s *InMemoryDocumentStore) Delete(ctx context.Context, ownerID, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.docs, documentID{ownerID, key})
	return nil
}
