package cache

import (
	"fmt"
	"log/slog"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// Memo puts a Cache in front of an expensive computation. Concurrent calls
// for the same key share one computation.
type Memo struct {
	cache  Cache
	group  singleflight.Group
	logger *slog.Logger
	hits   atomic.Int64
	misses atomic.Int64
}

// NewMemo wraps c
func NewMemo(c Cache, logger *slog.Logger) *Memo {
	if logger == nil {
		logger = slog.Default()
	}
	return &Memo{cache: c, logger: logger}
}

// GetOrCompute returns the cached value for key, or runs compute, stores its
// result and returns it. The bool reports a cache hit.
func (m *Memo) GetOrCompute(key string, compute func() ([]byte, error)) ([]byte, bool, error) {
	if val, ok := m.cache.Get(key); ok {
		m.hits.Add(1)
		m.logger.Debug("cache hit", "key", key)
		return val, true, nil
	}

	val, err, shared := m.group.Do(key, func() (interface{}, error) {
		if val, ok := m.cache.Get(key); ok {
			return val, nil
		}
		m.misses.Add(1)
		data, err := compute()
		if err != nil {
			return nil, err
		}
		if err := m.cache.Set(key, data, 0); err != nil {
			m.logger.Error("cache set failed", "key", key, "error", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("compute %s: %w", key, err)
	}
	if shared {
		m.logger.Debug("cache computation shared", "key", key)
	}
	return val.([]byte), false, nil
}

// Stats returns hit and miss counts
func (m *Memo) Stats() (hits, misses int64) {
	return m.hits.Load(), m.misses.Load()
}
