package repository

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/adapters/cache"
	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

var _ domain.DocumentStore = (*CachedDocumentStore)(nil)

// CachedDocumentStore reads documents through Redis. The cached copy carries
// its version, so a stale hit can only make the next Put fail with a conflict.
type CachedDocumentStore struct {
	next   domain.DocumentStore
	cache  *cache.JSONCache
	logger *zap.Logger
}

func NewCachedDocumentStore(next domain.DocumentStore, c *cache.JSONCache, logger *zap.Logger) *CachedDocumentStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDocumentStore{next: next, cache: c, logger: logger.Named("document_cache")}
}

func (s *CachedDocumentStore) Get(ctx context.Context, ownerID, key string) (*domain.Document, error) {
	var doc domain.Document
	hit, err := s.cache.Get(ctx, &doc, ownerID, key)
	if hit {
		return &doc, nil
	}
	if err != nil && !errors.Is(err, cache.ErrCorrupted) {
		s.logger.Warn("redis read error", zap.String("owner", ownerID), zap.String("key", key), zap.Error(err))
	}

	stored, err := s.next.Get(ctx, ownerID, key)
	if err != nil {
		return nil, err
	}
	s.store(ctx, stored)
	return stored, nil
}

func (s *CachedDocumentStore) Put(ctx context.Context, doc *domain.Document) error {
	if err := s.next.Put(ctx, doc); err != nil {
		if errors.Is(err, domain.ErrDocumentConflict) {
			s.drop(ctx, doc.OwnerID, doc.Key)
		}
		return err
	}
	s.store(ctx, doc)
	return nil
}

func (s *CachedDocumentStore) Delete(ctx context.Context, ownerID, key string) error {
	defer s.drop(ctx, ownerID, key)
	return s.next.Delete(ctx, ownerID, key)
}

func (s *CachedDocumentStore) store(ctx context.Context, doc *domain.Document) {
	if err := s.cache.Set(ctx, doc, doc.OwnerID, doc.Key); err != nil {
		s.logger.Warn("redis set error", zap.String("owner", doc.OwnerID), zap.String("key", doc.Key), zap.Error(err))
	}
}

func (s *CachedDocumentStore) drop(ctx context.Context, ownerID, key string) {
	if err := s.cache.Delete(ctx, ownerID, key); err != nil {
		s.logger.Warn("failed to invalidate document", zap.String("owner", ownerID), zap.String("key", key), zap.Error(err))
	}
}
