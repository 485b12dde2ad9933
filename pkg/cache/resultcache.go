package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// resultCacheClient is the narrow surface ResultCache depends on, so tests
// can stub it without a real Redis connection.
type resultCacheClient interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
}

// ResultCache memoizes solve outputs keyed by a digest of the solve input,
// so identical requests short-circuit the evolutionary search entirely.
type ResultCache struct {
	client resultCacheClient
	ttl    time.Duration
}

// NewResultCache wires a result cache with the given TTL.
func NewResultCache(client resultCacheClient, ttl time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &ResultCache{client: client, ttl: ttl}
}

// Digest returns the stable SHA-256 hex digest of any JSON-marshalable
// solve input, used as the cache key.
func Digest(input interface{}) (string, error) {
	payload, err := json.Marshal(input)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}

const resultCacheKeyPrefix = "timetable:solve:"

// Get loads a cached response for digest, unmarshalling into dst. A cache
// miss or a client-level failure both return (false, nil) so callers always
// fall through to a fresh solve rather than fail the request; a malformed
// cached payload is still surfaced since that signals corruption worth
// knowing about.
func (c *ResultCache) Get(ctx context.Context, digest string, dst interface{}) (bool, error) {
	raw, err := c.client.Get(ctx, resultCacheKeyPrefix+digest)
	if err != nil {
		return false, nil
	}
	if raw == "" {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores src under digest with the configured TTL.
func (c *ResultCache) Set(ctx context.Context, digest string, src interface{}) error {
	payload, err := json.Marshal(src)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, resultCacheKeyPrefix+digest, string(payload), c.ttl)
}
