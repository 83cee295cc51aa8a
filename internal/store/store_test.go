package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Meta
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

func newTestStore() *Store {
	return New(NewMemorySubstrate(), "test:")
}

func TestCollection_AllOnAbsentCollection(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")

	records, err := notes.All(context.Background())

	assert.NoError(t, err)
	assert.Empty(t, records, "An absent collection should read as empty, not fail")
}

func TestCollection_InsertAssignsIdentity(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")
	ctx := context.Background()

	id, err := notes.Insert(ctx, note{Title: "first"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	records, err := notes.All(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, id, records[0].ID)
	assert.Equal(t, "first", records[0].Title)
	assert.False(t, records[0].CreatedAt.IsZero(), "Insert should stamp a creation time")
}

func TestCollection_InsertedIDsAreDistinctAndOrdered(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")
	ctx := context.Background()

	// Rapid inserts within the same millisecond must still get distinct,
	// lexicographically increasing IDs.
	seen := make(map[string]bool)
	var prev string
	for i := 0; i < 100; i++ {
		id, err := notes.Insert(ctx, note{Title: "n"})
		require.NoError(t, err)
		assert.False(t, seen[id], "IDs must be unique")
		seen[id] = true
		if prev != "" {
			assert.Greater(t, id, prev, "IDs must sort in insertion order")
		}
		prev = id
	}
}

func TestCollection_Update(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")
	ctx := context.Background()

	id, err := notes.Insert(ctx, note{Title: "draft"})
	require.NoError(t, err)

	matched, err := notes.Update(ctx, id, func(n *note) {
		n.Title = "final"
		n.Done = true
	})
	require.NoError(t, err)
	assert.True(t, matched)

	record, found, err := notes.Find(ctx, func(n note) bool { return n.ID == id })
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "final", record.Title)
	assert.True(t, record.Done)
}

func TestCollection_UpdateMissingRecordIsNoOp(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")

	matched, err := notes.Update(context.Background(), "no-such-id", func(n *note) {
		n.Title = "never"
	})

	assert.NoError(t, err)
	assert.False(t, matched)
}

func TestCollection_DeleteIsIdempotent(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")
	ctx := context.Background()

	id, err := notes.Insert(ctx, note{Title: "gone"})
	require.NoError(t, err)

	require.NoError(t, notes.Delete(ctx, id))
	require.NoError(t, notes.Delete(ctx, id), "deleting an absent record is a no-op")

	records, err := notes.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCollection_FilterAndDeleteWhere(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")
	ctx := context.Background()

	for _, title := range []string{"a", "b", "a", "c"} {
		_, err := notes.Insert(ctx, note{Title: title})
		require.NoError(t, err)
	}

	matched, err := notes.Filter(ctx, func(n note) bool { return n.Title == "a" })
	require.NoError(t, err)
	assert.Len(t, matched, 2)

	removed, err := notes.DeleteWhere(ctx, func(n note) bool { return n.Title == "a" })
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	remaining, err := notes.All(ctx)
	require.NoError(t, err)
	assert.Len(t, remaining, 2)
}

func TestCollection_ReplaceAll(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")
	ctx := context.Background()

	_, err := notes.Insert(ctx, note{Title: "old"})
	require.NoError(t, err)

	require.NoError(t, notes.ReplaceAll(ctx, []note{}))

	records, err := notes.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCollections_AreIsolatedByName(t *testing.T) {
	s := newTestStore()
	notes := NewCollection[note](s, "notes")
	drafts := NewCollection[note](s, "drafts")
	ctx := context.Background()

	_, err := notes.Insert(ctx, note{Title: "published"})
	require.NoError(t, err)

	records, err := drafts.All(ctx)
	require.NoError(t, err)
	assert.Empty(t, records, "collections must not share records")
}

func TestStore_ConcurrentInsertsLoseNothing(t *testing.T) {
	notes := NewCollection[note](newTestStore(), "notes")
	ctx := context.Background()

	const writers = 8
	const perWriter = 25
	done := make(chan struct{}, writers)
	for w := 0; w < writers; w++ {
		go func() {
			defer func() { done <- struct{}{} }()
			for i := 0; i < perWriter; i++ {
				notes.Insert(ctx, note{Title: "w"}) //nolint:errcheck
			}
		}()
	}
	for w := 0; w < writers; w++ {
		select {
		case <-done:
		case <-time.After(10 * time.Second):
			t.Fatal("concurrent inserts did not finish")
		}
	}

	records, err := notes.All(ctx)
	require.NoError(t, err)
	assert.Len(t, records, writers*perWriter, "the store mutex must serialize read-modify-write cycles")
}
