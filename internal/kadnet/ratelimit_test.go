package kadnet

import (
	"testing"
	"time"
)

func TestPeerRateLimiterAllowsUpToCapacity(t *testing.T) {
	l := newPeerRateLimiter(3, time.Hour, time.Hour)

	for i := 0; i < 3; i++ {
		if !l.allow("1.2.3.4:1111") {
			t.Fatalf("request %d: expected allowed", i)
		}
	}
	if l.allow("1.2.3.4:1111") {
		t.Fatal("expected 4th request to be rate limited")
	}
}

func TestPeerRateLimiterTracksAddressesIndependently(t *testing.T) {
	l := newPeerRateLimiter(1, time.Hour, time.Hour)

	if !l.allow("peer-a:1") {
		t.Fatal("expected peer-a's first request to be allowed")
	}
	if l.allow("peer-a:1") {
		t.Fatal("expected peer-a's second request to be denied")
	}
	if !l.allow("peer-b:1") {
		t.Fatal("expected peer-b's first request to be allowed regardless of peer-a")
	}
}

func TestPeerRateLimiterRefillsOverTime(t *testing.T) {
	l := newPeerRateLimiter(1, time.Millisecond, time.Hour)

	if !l.allow("peer:1") {
		t.Fatal("expected first request to be allowed")
	}
	time.Sleep(5 * time.Millisecond)
	if !l.allow("peer:1") {
		t.Fatal("expected token to have refilled after waiting past the refill period")
	}
}
