package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ClientLimiter enforces a fixed per-minute request budget per client key
// (remote address). It uses a token bucket per key with the budget as both
// the sustained rate and the burst size.
type ClientLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientEntry
	perMinute int

	// staleAfter controls pruning of idle client entries.
	staleAfter time.Duration
	lastPrune  time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a limiter allowing perMinute requests per client.
func NewClientLimiter(perMinute int) *ClientLimiter {
	return &ClientLimiter{
		clients:    make(map[string]*clientEntry),
		perMinute:  perMinute,
		staleAfter: 10 * time.Minute,
		lastPrune:  time.Now(),
	}
}

// Allow reports whether the client identified by key may make a request now.
func (l *ClientLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	l.pruneLocked(now)

	entry, ok := l.clients[key]
	if !ok {
		entry = &clientEntry{
			limiter: rate.NewLimiter(rate.Limit(float64(l.perMinute)/60.0), l.perMinute),
		}
		l.clients[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.Allow()
}

// pruneLocked drops entries idle longer than staleAfter. Called with the
// lock held, at most once per pruning interval.
func (l *ClientLimiter) pruneLocked(now time.Time) {
	if now.Sub(l.lastPrune) < l.staleAfter {
		return
	}
	l.lastPrune = now

	for key, entry := range l.clients {
		if now.Sub(entry.lastSeen) > l.staleAfter {
			delete(l.clients, key)
		}
	}
}
