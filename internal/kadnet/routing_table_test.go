package kadnet

import (
	"testing"
	"time"
)

func TestRoutingTableAddAndGet(t *testing.T) {
	local := NewNodeID([]byte("local"))
	rt := NewRoutingTable(local)

	peer := &Peer{ID: NewNodeID([]byte("peer-1")), Addr: "127.0.0.1:1", LastSeen: time.Now()}
	if !rt.Add(peer) {
		t.Fatal("expected Add to succeed")
	}
	if got := rt.Get(peer.ID); got == nil || got.Addr != peer.Addr {
		t.Fatalf("Get returned %v, want %v", got, peer)
	}
	if rt.Size() != 1 {
		t.Fatalf("Size() = %d, want 1", rt.Size())
	}
}

func TestRoutingTableRejectsSelf(t *testing.T) {
	local := NewNodeID([]byte("local"))
	rt := NewRoutingTable(local)

	if rt.Add(&Peer{ID: local, Addr: "x"}) {
		t.Fatal("expected Add(self) to be rejected")
	}
}

func TestRoutingTableClosestOrdersByDistance(t *testing.T) {
	local := NewNodeID([]byte("local"))
	rt := NewRoutingTable(local)

	target := NewNodeID([]byte("target"))
	for i := 0; i < 10; i++ {
		rt.Add(&Peer{ID: NewNodeID([]byte{byte(i)}), Addr: "addr", LastSeen: time.Now()})
	}

	closest := rt.Closest(target, 3)
	if len(closest) != 3 {
		t.Fatalf("expected 3 peers, got %d", len(closest))
	}
	for i := 1; i < len(closest); i++ {
		prevDist := closest[i-1].ID.Distance(target)
		curDist := closest[i].ID.Distance(target)
		if curDist.Less(prevDist) {
			t.Fatalf("closest peers not sorted by distance at index %d", i)
		}
	}
}

func TestRoutingTableRemove(t *testing.T) {
	local := NewNodeID([]byte("local"))
	rt := NewRoutingTable(local)

	peer := &Peer{ID: NewNodeID([]byte("peer-2")), Addr: "addr", LastSeen: time.Now()}
	rt.Add(peer)
	if !rt.Remove(peer.ID) {
		t.Fatal("expected Remove to succeed")
	}
	if rt.Get(peer.ID) != nil {
		t.Fatal("expected peer to be gone after Remove")
	}
}
