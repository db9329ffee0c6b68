package middleware

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultLimiterIdle is how long an unused key keeps its bucket.
const DefaultLimiterIdle = 10 * time.Minute

type limiterEntry struct {
	l        *rate.Limiter
	lastSeen time.Time
}

// KeyedLimiter hands out one token bucket per key. Buckets idle for longer
// than the idle window are evicted, so keys chosen by clients cannot grow
// the pool forever.
type KeyedLimiter struct {
	mu        sync.Mutex
	m         map[string]*limiterEntry
	rps       float64
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewKeyedLimiter builds a pool. Non-positive values fall back to 5 rps, burst 10.
func NewKeyedLimiter(rps float64, burst int) *KeyedLimiter {
	if rps <= 0 {
		rps = 5
	}
	if burst <= 0 {
		burst = 10
	}
	return &KeyedLimiter{
		m:     make(map[string]*limiterEntry),
		rps:   rps,
		burst: burst,
		idle:  DefaultLimiterIdle,
		now:   time.Now,
	}
}

// WithIdle overrides the eviction window and the clock. Meant for tests and tuning.
func (p *KeyedLimiter) WithIdle(idle time.Duration, now func() time.Time) *KeyedLimiter {
	p.mu.Lock()
	defer p.mu.Unlock()
	if idle > 0 {
		p.idle = idle
	}
	if now != nil {
		p.now = now
	}
	return p
}

func (p *KeyedLimiter) get(key string) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	if now.Sub(p.lastSweep) >= p.idle {
		p.sweepLocked(now)
	}

	if e, ok := p.m[key]; ok {
		e.lastSeen = now
		return e.l
	}
	e := &limiterEntry{l: rate.NewLimiter(rate.Limit(p.rps), p.burst), lastSeen: now}
	p.m[key] = e
	return e.l
}

func (p *KeyedLimiter) sweepLocked(now time.Time) {
	for key, e := range p.m {
		if now.Sub(e.lastSeen) >= p.idle {
			delete(p.m, key)
		}
	}
	p.lastSweep = now
}

// Allow reports whether the key may proceed now.
func (p *KeyedLimiter) Allow(key string) bool {
	if p == nil {
		return true
	}
	return p.get(key).Allow()
}
