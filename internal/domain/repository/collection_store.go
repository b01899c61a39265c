package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/Roja8626/tech-mock/internal/common"
)

// Stable keys of the persisted state. Each value is a JSON array.
const (
	KeyUsers     = "techmock_users"
	KeyQuestions = "techmock_questions"
	KeyResults   = "techmock_results"
	KeySessions  = "techmock_sessions"
	KeyAttempts  = "techmock_attempts"
)

// CollectionStore is a durable key/value medium holding one encoded collection
// per key. Get returns common.ErrNotFound for a key that was never written.
// Set replaces the whole value; there are no partial updates.
type CollectionStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

type lockID struct {
	store CollectionStore
	key   string
}

var collectionLocks sync.Map // lockID -> *sync.Mutex

// Collection is a typed view of one key. Every mutation reads the whole
// collection, changes it in memory and writes it back. Mutations on the same
// store and key are serialized within the process; writers in other
// processes are not coordinated and the last write wins.
type Collection[T any] struct {
	store CollectionStore
	key   string
	mu    *sync.Mutex
}

func NewCollection[T any](store CollectionStore, key string) *Collection[T] {
	mu, _ := collectionLocks.LoadOrStore(lockID{store: store, key: key}, &sync.Mutex{})
	return &Collection[T]{store: store, key: key, mu: mu.(*sync.Mutex)}
}

func (c *Collection[T]) Key() string { return c.key }

// Read returns the stored items, or an empty slice when nothing was stored.
func (c *Collection[T]) Read(ctx context.Context) ([]T, error) {
	items, _, err := c.ReadExisting(ctx)
	return items, err
}

// ReadExisting also reports whether the key has ever been written. An
// explicitly emptied collection exists; a never-written one does not.
func (c *Collection[T]) ReadExisting(ctx context.Context) ([]T, bool, error) {
	blob, err := c.store.Get(ctx, c.key)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return []T{}, false, nil
		}
		return nil, false, fmt.Errorf("read collection %s: %w", c.key, err)
	}
	blob = bytes.TrimSpace(blob)
	if len(blob) == 0 {
		return []T{}, false, nil
	}

	var items []T
	if err := json.Unmarshal(blob, &items); err != nil {
		return nil, true, fmt.Errorf("decode collection %s: %v: %w", c.key, err, common.ErrCorruptData)
	}
	if items == nil {
		items = []T{}
	}
	return items, true, nil
}

// Write overwrites the collection. A nil slice is stored as an empty array so
// the key still counts as written.
func (c *Collection[T]) Write(ctx context.Context, items []T) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.write(ctx, items)
}

func (c *Collection[T]) write(ctx context.Context, items []T) error {
	if items == nil {
		items = []T{}
	}
	blob, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", c.key, err)
	}
	if err := c.store.Set(ctx, c.key, blob); err != nil {
		return fmt.Errorf("write collection %s: %w", c.key, err)
	}
	return nil
}

// Update runs one read-modify-write cycle. If fn returns an error nothing is
// written.
func (c *Collection[T]) Update(ctx context.Context, fn func(items []T) ([]T, error)) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, _, err := c.ReadExisting(ctx)
	if err != nil {
		return err
	}
	updated, err := fn(items)
	if err != nil {
		return err
	}
	return c.write(ctx, updated)
}

// InitIfAbsent returns the stored items, writing initial first if the key has
// never been written.
func (c *Collection[T]) InitIfAbsent(ctx context.Context, initial []T) ([]T, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	items, exists, err := c.ReadExisting(ctx)
	if err != nil {
		return nil, err
	}
	if exists {
		return items, nil
	}

	seeded := make([]T, len(initial))
	copy(seeded, initial)
	if err := c.write(ctx, seeded); err != nil {
		return nil, err
	}
	return seeded, nil
}
