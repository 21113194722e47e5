package http

import (
	"sync"
	"time"
)

const (
	windowCleanupThreshold = 1 * time.Hour
	cleanupInterval        = 30 * time.Minute
)

type clientWindow struct {
	stamps []time.Time
}

// RateLimiter enforces a per-client sliding one-minute window.
type RateLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	clients     map[string]*clientWindow
	stopCleanup chan struct{}
}

func NewRateLimiter(requestsPerMinute int) *RateLimiter {
	rl := &RateLimiter{
		limit:       requestsPerMinute,
		window:      time.Minute,
		clients:     make(map[string]*clientWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.cleanupLoop()
	return rl
}

func (r *RateLimiter) Allow(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	cw, ok := r.clients[key]
	if !ok {
		cw = &clientWindow{}
		r.clients[key] = cw
	}

	cutoff := now.Add(-r.window)
	kept := cw.stamps[:0]
	for _, s := range cw.stamps {
		if s.After(cutoff) {
			kept = append(kept, s)
		}
	}
	cw.stamps = kept

	if len(cw.stamps) >= r.limit {
		return false
	}
	cw.stamps = append(cw.stamps, now)
	return true
}

func (r *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.cleanup()
		case <-r.stopCleanup:
			return
		}
	}
}

func (r *RateLimiter) cleanup() {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := time.Now().Add(-windowCleanupThreshold)
	for key, cw := range r.clients {
		if len(cw.stamps) == 0 || cw.stamps[len(cw.stamps)-1].Before(cutoff) {
			delete(r.clients, key)
		}
	}
}

func (r *RateLimiter) Stop() {
	close(r.stopCleanup)
}
