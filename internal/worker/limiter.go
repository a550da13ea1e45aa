package worker

import (
	"context"
	"path/filepath"
	"sync"

	"golang.org/x/time/rate"

	"github.com/ppiankov/refrain/internal/model"
)

// Limiter throttles file reads with one token bucket per source directory.
// Directories without an override share the default rate, each in its own
// bucket.
type Limiter struct {
	mu      sync.Mutex
	buckets map[string]*rate.Limiter
	every   rate.Limit
	burst   int
}

// NewLimiter builds a limiter from the rate limiting config. A default rate
// of zero leaves directories without an override unthrottled.
func NewLimiter(cfg model.RateLimitingConfig) *Limiter {
	burst := cfg.BurstSize
	if burst <= 0 {
		burst = 5
	}

	every := rate.Inf
	if cfg.FilesPerSecond > 0 {
		every = rate.Limit(cfg.FilesPerSecond)
	}

	l := &Limiter{
		buckets: make(map[string]*rate.Limiter),
		every:   every,
		burst:   burst,
	}
	for _, d := range cfg.Directories {
		l.SetDirRate(d.Path, d.FilesPerSecond, d.BurstSize)
	}
	return l
}

// Wait blocks until the directory holding path may be read again
func (l *Limiter) Wait(ctx context.Context, path string) error {
	return l.bucket(dirOf(path)).Wait(ctx)
}

// SetDirRate overrides the rate of one directory. A rate of zero or less
// removes the throttle for it.
func (l *Limiter) SetDirRate(dir string, filesPerSecond float64, burst int) {
	if burst <= 0 {
		burst = l.burst
	}
	every := rate.Inf
	if filesPerSecond > 0 {
		every = rate.Limit(filesPerSecond)
	}

	l.mu.Lock()
	l.buckets[filepath.Clean(dir)] = rate.NewLimiter(every, burst)
	l.mu.Unlock()
}

func (l *Limiter) bucket(dir string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[dir]
	if !ok {
		b = rate.NewLimiter(l.every, l.burst)
		l.buckets[dir] = b
	}
	return b
}

// dirOf returns the cleaned directory of path
func dirOf(path string) string {
	return filepath.Dir(filepath.Clean(path))
}
