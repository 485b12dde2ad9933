package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryClient is a tiny in-memory stub implementing resultCacheClient, used
// in place of a real Redis connection in tests.
type memoryClient struct {
	values map[string]string
}

func newMemoryClient() *memoryClient {
	return &memoryClient{values: make(map[string]string)}
}

func (m *memoryClient) Get(_ context.Context, key string) (string, error) {
	return m.values[key], nil
}

func (m *memoryClient) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.values[key] = value
	return nil
}

type samplePayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestResultCacheSetThenGet(t *testing.T) {
	client := newMemoryClient()
	cache := NewResultCache(client, time.Minute)

	digest, err := Digest(map[string]string{"a": "b"})
	require.NoError(t, err)

	src := samplePayload{Name: "algebra", Count: 3}
	require.NoError(t, cache.Set(context.Background(), digest, src))

	var dst samplePayload
	hit, err := cache.Get(context.Background(), digest, &dst)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, src, dst)
}

func TestResultCacheMiss(t *testing.T) {
	client := newMemoryClient()
	cache := NewResultCache(client, time.Minute)

	var dst samplePayload
	hit, err := cache.Get(context.Background(), "missing-digest", &dst)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestDigestStableForEquivalentInput(t *testing.T) {
	a, err := Digest(samplePayload{Name: "x", Count: 1})
	require.NoError(t, err)
	b, err := Digest(samplePayload{Name: "x", Count: 1})
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := Digest(samplePayload{Name: "x", Count: 2})
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}
