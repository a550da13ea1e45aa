// Package cache memoizes rendered analyses so identical texts are only
// analyzed once per process.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives a cache key from the analyzed text and the option that
// changes the rendered result
func Key(text string, trace bool) string {
	hash := sha256.Sum256([]byte(text))
	prefix := "refrain:v1:"
	if trace {
		prefix = "refrain:v1:trace:"
	}
	return prefix + hex.EncodeToString(hash[:])
}
