package dfacache

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/dekarrin/fterank/internal/dfa"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleATT = "0\t1\t1\t1\n1\t1\t1\t1\n1\n"

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cache.db")
	c, err := Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutThenGet_RoundTrips(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	d, err := dfa.New(sampleATT, 4)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, d))

	got, err := c.Get(ctx, d.Digest())
	require.NoError(t, err)
	assert.Equal(t, d.Digest(), got.Digest())
	assert.Equal(t, d.MaxLen(), got.MaxLen())

	n, err := got.NumWordsInLanguage(0, 4)
	require.NoError(t, err)
	want, err := d.NumWordsInLanguage(0, 4)
	require.NoError(t, err)
	assert.Equal(t, want.String(), n.String())
}

func TestGet_MissingDigestIsErrNotFound(t *testing.T) {
	c := openTestCache(t)
	_, err := c.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPut_OverwritesExistingDigest(t *testing.T) {
	c := openTestCache(t)
	ctx := context.Background()

	d, err := dfa.New(sampleATT, 4)
	require.NoError(t, err)

	require.NoError(t, c.Put(ctx, d))
	require.NoError(t, c.Put(ctx, d)) // same digest, should upsert not error

	got, err := c.Get(ctx, d.Digest())
	require.NoError(t, err)
	assert.Equal(t, d.Digest(), got.Digest())
}
