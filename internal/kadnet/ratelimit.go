package kadnet

import (
	"sync"
	"time"
)

// peerRateLimiter is a per-peer token bucket guarding the QUIC listener
// against a single remote address opening connections faster than they can
// be served. Keyed on the dialing peer's network address rather than its
// claimed NodeID, since the NodeID in a request frame isn't verified
// against the Noise static key.
type peerRateLimiter struct {
	mu       sync.Mutex
	buckets  map[string]*tokenBucket
	capacity int
	refill   time.Duration
	cleanup  time.Duration

	lastCleanup time.Time
}

type tokenBucket struct {
	tokens   int
	lastSeen time.Time
}

// newPeerRateLimiter creates a limiter allowing capacity requests per peer
// address, refilling one token every refill and sweeping buckets idle past
// cleanup.
func newPeerRateLimiter(capacity int, refill, cleanup time.Duration) *peerRateLimiter {
	if capacity <= 0 {
		capacity = 20
	}
	if refill <= 0 {
		refill = 30 * time.Second
	}
	if cleanup <= 0 {
		cleanup = 10 * time.Minute
	}
	return &peerRateLimiter{
		buckets:     make(map[string]*tokenBucket),
		capacity:    capacity,
		refill:      refill,
		cleanup:     cleanup,
		lastCleanup: time.Now(),
	}
}

// allow reports whether a new connection from addr should be served,
// consuming a token if so.
func (l *peerRateLimiter) allow(addr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastCleanup) > l.cleanup {
		l.sweep(now)
		l.lastCleanup = now
	}

	b, ok := l.buckets[addr]
	if !ok {
		l.buckets[addr] = &tokenBucket{tokens: l.capacity - 1, lastSeen: now}
		return true
	}

	elapsed := now.Sub(b.lastSeen)
	b.tokens += int(elapsed / l.refill)
	if b.tokens > l.capacity {
		b.tokens = l.capacity
	}
	b.lastSeen = now

	if b.tokens <= 0 {
		return false
	}
	b.tokens--
	return true
}

func (l *peerRateLimiter) sweep(now time.Time) {
	cutoff := now.Add(-l.cleanup)
	for addr, b := range l.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(l.buckets, addr)
		}
	}
}
