package cache

import (
	"context"
	"encoding/json"
	"time"
)

// JSONCache adapts a byte Cache to callers that cache structured values.
// It satisfies the value-cache interface the HTTP integration clients
// expect, so a Redis- or file-backed byte cache can serve metadata reads.
type JSONCache struct {
	inner Cache
	ttl   time.Duration
}

// NewJSONCache wraps inner with JSON marshaling and a fixed TTL per entry.
func NewJSONCache(inner Cache, ttl time.Duration) *JSONCache {
	return &JSONCache{inner: inner, ttl: ttl}
}

// Get retrieves and unmarshals a cached value into v.
func (c *JSONCache) Get(key string, v any) (bool, error) {
	data, ok, err := c.inner.Get(context.Background(), key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		// Corrupt entry - drop it and report a miss.
		_ = c.inner.Delete(context.Background(), key)
		return false, nil
	}
	return true, nil
}

// Set marshals and stores a value.
func (c *JSONCache) Set(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.inner.Set(context.Background(), key, data, c.ttl)
}
