package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSubstrate_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	ctx := context.Background()

	f, err := NewFileSubstrate(path)
	require.NoError(t, err)

	_, err = f.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrKeyNotFound)

	require.NoError(t, f.Set(ctx, "users", `[{"id":"u1"}]`))

	val, err := f.Get(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"u1"}]`, val)

	require.NoError(t, f.Delete(ctx, "users"))
	_, err = f.Get(ctx, "users")
	assert.ErrorIs(t, err, ErrKeyNotFound)
}

func TestFileSubstrate_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "store.json")
	ctx := context.Background()

	f, err := NewFileSubstrate(path)
	require.NoError(t, err)
	require.NoError(t, f.Set(ctx, "users", `[]`))
	require.NoError(t, f.Set(ctx, "stats", `[{"id":"s1"}]`))

	reopened, err := NewFileSubstrate(path)
	require.NoError(t, err)

	val, err := reopened.Get(ctx, "stats")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"s1"}]`, val)
}
