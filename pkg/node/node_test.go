package node

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/giraffekey/kadis/internal/kadnet"
)

func newTestNode(t *testing.T, label string, registry *kadnet.MemoryRegistry) *Node {
	t.Helper()
	transport := kadnet.NewMemoryTransport(label, registry)
	n, err := New(context.Background(), transport, Config{CacheLifetime: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(n.Close)
	return n
}

func TestNodePutGetRoundTrip(t *testing.T) {
	registry := kadnet.NewMemoryRegistry()
	n := newTestNode(t, "node-1", registry)

	if err := n.Put("kh-fields-cats", []byte("herb")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := n.Get("kh-fields-cats")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "herb" {
		t.Errorf("got %q, want %q", got, "herb")
	}
}

func TestNodeGetNotFound(t *testing.T) {
	registry := kadnet.NewMemoryRegistry()
	n := newTestNode(t, "node-2", registry)

	_, err := n.Get("kh-fields-nope")
	var getErr *GetError
	if !errors.As(err, &getErr) {
		t.Fatalf("expected *GetError, got %v (%T)", err, err)
	}
	if getErr.Kind != GetNotFound {
		t.Errorf("expected GetNotFound, got %v", getErr.Kind)
	}
}

func TestNodeRemoveEvictsCache(t *testing.T) {
	registry := kadnet.NewMemoryRegistry()
	n := newTestNode(t, "node-3", registry)

	if err := n.Put("k", []byte("v")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	n.Remove("k")

	_, err := n.Get("k")
	var getErr *GetError
	if !errors.As(err, &getErr) || getErr.Kind != GetNotFound {
		t.Fatalf("expected NotFound after Remove, got %v", err)
	}
}

func TestNodeCacheTTLExpires(t *testing.T) {
	registry := kadnet.NewMemoryRegistry()
	n := newTestNode(t, "node-4", registry)

	if err := n.Put("k", []byte("v1")); err != nil {
		t.Fatalf("Put: %v", err)
	}

	// Overwrite the DHT-side value directly through a second handle on the
	// same registry so a cache hit would still observe the stale value.
	other := kadnet.NewMemoryTransport("writer", registry)
	if err := other.Start(context.Background()); err != nil {
		t.Fatalf("writer.Start: %v", err)
	}
	defer other.Stop()
	other.SubmitPut("k", []byte("v2"))
	<-other.Events()

	time.Sleep(100 * time.Millisecond) // outlive the 50ms cache lifetime

	got, err := n.Get("k")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("expected cache to have expired and observed v2, got %q", got)
	}
}

func TestNodeConcurrentGetsDoNotCrossWires(t *testing.T) {
	registry := kadnet.NewMemoryRegistry()
	n := newTestNode(t, "node-5", registry)

	if err := n.Put("a", []byte("1")); err != nil {
		t.Fatalf("Put a: %v", err)
	}
	if err := n.Put("b", []byte("2")); err != nil {
		t.Fatalf("Put b: %v", err)
	}

	done := make(chan struct{})
	var aVal, bVal []byte
	var aErr, bErr error

	go func() {
		aVal, aErr = n.Get("a")
		done <- struct{}{}
	}()
	go func() {
		bVal, bErr = n.Get("b")
		done <- struct{}{}
	}()
	<-done
	<-done

	if aErr != nil || string(aVal) != "1" {
		t.Errorf("a: got (%q, %v), want (1, nil)", aVal, aErr)
	}
	if bErr != nil || string(bVal) != "2" {
		t.Errorf("b: got (%q, %v), want (2, nil)", bVal, bErr)
	}
}
