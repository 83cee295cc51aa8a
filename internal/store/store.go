// Package store implements the record store: named collections of typed
// records persisted through a key-value substrate, one key per collection
// holding the serialized record array.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"mathquiz/internal/util"
)

// ErrKeyNotFound is returned by substrates for absent keys. Collection
// operations translate it to an empty collection, never a failure.
var ErrKeyNotFound = errors.New("store: key not found")

// Substrate is the key-value layer a Store persists through.
type Substrate interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}

// Meta carries the synthetic identity every record gets at insert time.
// Entity types embed it.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
}

func (m Meta) RecordID() string { return m.ID }

func (m *Meta) SetRecordMeta(id string, at time.Time) {
	m.ID = id
	m.CreatedAt = at
}

// Record is implemented by any type embedding Meta.
type Record interface {
	RecordID() string
}

type recordStamper interface {
	SetRecordMeta(id string, at time.Time)
}

// Store hands out collections sharing one substrate and key prefix. The
// mutex serializes every read-modify-write cycle: the substrate itself has
// no transactions, so concurrent writers would lose updates without it.
type Store struct {
	kv     Substrate
	prefix string
	mu     sync.Mutex
	now    func() time.Time
	newID  func() string
}

// New creates a Store over the given substrate. Keys are written as
// prefix + collection name, e.g. "mathquiz:users".
func New(kv Substrate, prefix string) *Store {
	return &Store{
		kv:     kv,
		prefix: prefix,
		now:    time.Now,
		newID:  util.NewULID,
	}
}

func (s *Store) key(collection string) string { return s.prefix + collection }

// Collection is a typed view over one named collection of a Store.
type Collection[T Record] struct {
	store *Store
	name  string
}

// NewCollection binds an entity type to a collection name.
func NewCollection[T Record](s *Store, name string) *Collection[T] {
	return &Collection[T]{store: s, name: name}
}

func (c *Collection[T]) load(ctx context.Context) ([]T, error) {
	raw, err := c.store.kv.Get(ctx, c.store.key(c.name))
	if err != nil {
		if errors.Is(err, ErrKeyNotFound) {
			return []T{}, nil
		}
		return nil, fmt.Errorf("failed to load collection %s: %w", c.name, err)
	}
	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("failed to decode collection %s: %w", c.name, err)
	}
	return records, nil
}

func (c *Collection[T]) persist(ctx context.Context, records []T) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to encode collection %s: %w", c.name, err)
	}
	if err := c.store.kv.Set(ctx, c.store.key(c.name), string(raw)); err != nil {
		return fmt.Errorf("failed to persist collection %s: %w", c.name, err)
	}
	return nil
}

// All returns every record in the collection; an absent collection is empty.
func (c *Collection[T]) All(ctx context.Context) ([]T, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.load(ctx)
}

// Insert assigns a fresh ID and creation timestamp, appends the record and
// persists the collection. Returns the assigned ID.
func (c *Collection[T]) Insert(ctx context.Context, record T) (string, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return "", err
	}

	id := c.store.newID()
	if stamper, ok := any(&record).(recordStamper); ok {
		stamper.SetRecordMeta(id, c.store.now())
	}
	records = append(records, record)

	if err := c.persist(ctx, records); err != nil {
		return "", err
	}
	return id, nil
}

// Update applies mutate to the record with the given ID and persists the
// collection. Reports whether a record matched; no-op otherwise.
func (c *Collection[T]) Update(ctx context.Context, id string, mutate func(*T)) (bool, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return false, err
	}

	for i := range records {
		if records[i].RecordID() == id {
			mutate(&records[i])
			if err := c.persist(ctx, records); err != nil {
				return false, err
			}
			return true, nil
		}
	}
	return false, nil
}

// Delete removes the record with the given ID. Deleting an absent record is
// a no-op, not an error.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return err
	}

	kept := records[:0]
	for _, r := range records {
		if r.RecordID() != id {
			kept = append(kept, r)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return c.persist(ctx, kept)
}

// Find returns the first record matching the predicate.
func (c *Collection[T]) Find(ctx context.Context, pred func(T) bool) (T, bool, error) {
	var zero T
	records, err := c.All(ctx)
	if err != nil {
		return zero, false, err
	}
	for _, r := range records {
		if pred(r) {
			return r, true, nil
		}
	}
	return zero, false, nil
}

// Filter returns every record matching the predicate.
func (c *Collection[T]) Filter(ctx context.Context, pred func(T) bool) ([]T, error) {
	records, err := c.All(ctx)
	if err != nil {
		return nil, err
	}
	matched := make([]T, 0, len(records))
	for _, r := range records {
		if pred(r) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// DeleteWhere removes every record matching the predicate and returns the
// number removed.
func (c *Collection[T]) DeleteWhere(ctx context.Context, pred func(T) bool) (int, error) {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	records, err := c.load(ctx)
	if err != nil {
		return 0, err
	}

	kept := records[:0]
	for _, r := range records {
		if !pred(r) {
			kept = append(kept, r)
		}
	}
	removed := len(records) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := c.persist(ctx, kept); err != nil {
		return 0, err
	}
	return removed, nil
}

// ReplaceAll overwrites the whole collection. Used for bulk deletions and
// for seeding fixed catalogs.
func (c *Collection[T]) ReplaceAll(ctx context.Context, records []T) error {
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	return c.persist(ctx, records)
}
