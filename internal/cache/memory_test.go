package cache

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_GetSet(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	_, ok := c.Get("missing")
	assert.False(t, ok)

	c.Set("k", []byte("v"), 0)
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "v", string(got))
	assert.Equal(t, 1, c.Len())

	c.Delete("k")
	_, ok = c.Get("k")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	c.Set("short", []byte("x"), 10*time.Millisecond)

	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("short")
	assert.False(t, ok)
}

func TestMemoryCache_Flush(t *testing.T) {
	c := NewMemoryCache(0, time.Minute)
	c.Set("a", []byte("1"), 0)
	c.Set("b", []byte("2"), 0)

	c.Flush()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_GetOrLoad(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	calls := 0
	load := func() ([]byte, error) {
		calls++
		return []byte("loaded"), nil
	}

	data, hit, err := c.GetOrLoad("k", 0, load)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, "loaded", string(data))

	data, hit, err = c.GetOrLoad("k", 0, load)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "loaded", string(data))
	assert.Equal(t, 1, calls)
}

func TestMemoryCache_GetOrLoadErrorNotCached(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)
	boom := errors.New("boom")

	_, _, err := c.GetOrLoad("k", 0, func() ([]byte, error) { return nil, boom })
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestArtifactKey(t *testing.T) {
	mod := time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC)

	a := ArtifactKey("out/consolidated.json", mod, 100)
	assert.Equal(t, a, ArtifactKey("out/consolidated.json", mod, 100))
	assert.Contains(t, a, "psb:v1:")

	assert.NotEqual(t, a, ArtifactKey("out/consolidated.json", mod.Add(time.Second), 100))
	assert.NotEqual(t, a, ArtifactKey("out/consolidated.json", mod, 101))
	assert.NotEqual(t, a, ArtifactKey("out/consolidated.csv", mod, 100))
}
