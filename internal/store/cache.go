package store

import (
	"context"
	"encoding/binary"
	"time"
)

// Cache exposes the cache bucket as a TTL key/value backend.
// Values are stored as an 8-byte big-endian expiry (unix nanos, 0 = never) followed by the payload.
type Cache struct {
	s   *Store
	now func() time.Time
}

// Cache returns the response-cache view of the store
func (s *Store) Cache() *Cache {
	return &Cache{s: s, now: time.Now}
}

func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	raw, ok, err := c.s.get(bucketCache, key)
	if err != nil || !ok {
		return nil, false, err
	}
	if len(raw) < 8 {
		_ = c.s.delete(bucketCache, key)
		return nil, false, nil
	}
	expiry := int64(binary.BigEndian.Uint64(raw[:8]))
	if expiry != 0 && c.now().UnixNano() > expiry {
		_ = c.s.delete(bucketCache, key)
		return nil, false, nil
	}
	return raw[8:], true, nil
}

func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiry int64
	if ttl > 0 {
		expiry = c.now().Add(ttl).UnixNano()
	}
	buf := make([]byte, 8+len(value))
	binary.BigEndian.PutUint64(buf[:8], uint64(expiry))
	copy(buf[8:], value)
	return c.s.put(bucketCache, key, buf)
}

// Clear drops every cached response
func (c *Cache) Clear() error {
	return c.s.clearBucket(bucketCache)
}
