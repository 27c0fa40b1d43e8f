package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/comitanigiacomo/learnify-engine/internal/core/domain"
)

const maxDocumentAttempts = 3

// collection is a typed view over one document key. Values are read whole and
// written whole, the same way the web client used to treat local storage.
type collection[T any] struct {
	store    domain.DocumentStore
	key      string
	fallback func() T
	logger   *zap.Logger
}

func newCollection[T any](store domain.DocumentStore, key string, fallback func() T, logger *zap.Logger) *collection[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &collection[T]{
		store:    store,
		key:      key,
		fallback: fallback,
		logger:   logger,
	}
}

// load returns the stored value together with the version a write must carry.
// A missing or unreadable document yields the fallback dataset.
func (c *collection[T]) load(ctx context.Context, owner string) (T, int, error) {
	doc, err := c.store.Get(ctx, owner, c.key)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		return c.fallback(), 0, nil
	}
	if err != nil {
		var zero T
		return zero, 0, fmt.Errorf("load %s: %w", c.key, err)
	}

	var value T
	if err := json.Unmarshal(doc.Data, &value); err != nil {
		c.logger.Warn("stored document is not valid JSON, falling back to defaults",
			zap.String("owner", owner),
			zap.String("key", c.key),
			zap.Error(err),
		)
		return c.fallback(), doc.Version, nil
	}
	return value, doc.Version, nil
}

func (c *collection[T]) get(ctx context.Context, owner string) (T, error) {
	value, _, err := c.load(ctx, owner)
	return value, err
}

// update runs fn on the current value and stores the result. fn may run more
// than once when a concurrent writer wins the race, so it must not keep state
// between calls.
func (c *collection[T]) update(ctx context.Context, owner string, fn func(*T) error) (T, error) {
	var zero T
	for attempt := 1; ; attempt++ {
		value, version, err := c.load(ctx, owner)
		if err != nil {
			return zero, err
		}
		if err := fn(&value); err != nil {
			return zero, err
		}

		data, err := json.Marshal(value)
		if err != nil {
			return zero, fmt.Errorf("encode %s: %w", c.key, err)
		}

		err = c.store.Put(ctx, &domain.Document{
			OwnerID: owner,
			Key:     c.key,
			Data:    data,
			Version: version,
		})
		if errors.Is(err, domain.ErrDocumentConflict) && attempt < maxDocumentAttempts {
			c.logger.Debug("document changed underneath, retrying",
				zap.String("owner", owner),
				zap.String("key", c.key),
				zap.Int("attempt", attempt),
			)
			continue
		}
		if err != nil {
			return zero, err
		}
		return value, nil
	}
}
