package kadnet

import (
	"sort"
	"sync"
	"time"
)

// bucket is a k-bucket in the routing table: up to BucketSize peers plus a
// replacement cache for contenders that arrive while it is full.
type bucket struct {
	mu sync.RWMutex

	peers        []*Peer
	replacements []*Peer
}

func newBucket() *bucket {
	return &bucket{
		peers:        make([]*Peer, 0, BucketSize),
		replacements: make([]*Peer, 0, BucketSize),
	}
}

// add reports whether peer now occupies a slot in the main bucket (as
// opposed to landing in the replacement cache because the bucket is full).
func (b *bucket) add(peer *Peer) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, existing := range b.peers {
		if existing.ID == peer.ID {
			b.peers[i] = peer
			b.moveToEnd(i)
			return true
		}
	}

	if len(b.peers) < BucketSize {
		b.peers = append(b.peers, peer)
		return true
	}

	b.addReplacement(peer)
	return false
}

func (b *bucket) remove(id NodeID) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, peer := range b.peers {
		if peer.ID == id {
			b.peers = append(b.peers[:i], b.peers[i+1:]...)
			b.promote()
			return true
		}
	}
	for i, peer := range b.replacements {
		if peer.ID == id {
			b.replacements = append(b.replacements[:i], b.replacements[i+1:]...)
			return true
		}
	}
	return false
}

func (b *bucket) get(id NodeID) *Peer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, peer := range b.peers {
		if peer.ID == id {
			return peer.copy()
		}
	}
	return nil
}

func (b *bucket) all() []*Peer {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]*Peer, len(b.peers))
	for i, peer := range b.peers {
		out[i] = peer.copy()
	}
	return out
}

func (b *bucket) size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.peers)
}

func (b *bucket) closest(target NodeID, k int) []*Peer {
	b.mu.RLock()
	defer b.mu.RUnlock()

	peers := make([]*Peer, len(b.peers))
	for i, peer := range b.peers {
		peers[i] = peer.copy()
	}
	sort.Slice(peers, func(i, j int) bool {
		return peers[i].ID.Distance(target).Less(peers[j].ID.Distance(target))
	})
	if k > len(peers) {
		k = len(peers)
	}
	return peers[:k]
}

func (b *bucket) removeStale(timeout time.Duration) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	removed := 0
	i := 0
	for i < len(b.peers) {
		if b.peers[i].stale(timeout) {
			b.peers = append(b.peers[:i], b.peers[i+1:]...)
			removed++
			continue
		}
		i++
	}
	for promoted := removed; promoted > 0 && len(b.replacements) > 0; promoted-- {
		b.promote()
	}
	return removed
}

func (b *bucket) moveToEnd(i int) {
	if i == len(b.peers)-1 {
		return
	}
	peer := b.peers[i]
	copy(b.peers[i:], b.peers[i+1:])
	b.peers[len(b.peers)-1] = peer
}

func (b *bucket) addReplacement(peer *Peer) {
	for i, existing := range b.replacements {
		if existing.ID == peer.ID {
			b.replacements[i] = peer
			return
		}
	}
	if len(b.replacements) < BucketSize {
		b.replacements = append(b.replacements, peer)
		return
	}
	copy(b.replacements, b.replacements[1:])
	b.replacements[len(b.replacements)-1] = peer
}

func (b *bucket) promote() {
	if len(b.replacements) == 0 || len(b.peers) >= BucketSize {
		return
	}
	peer := b.replacements[len(b.replacements)-1]
	b.replacements = b.replacements[:len(b.replacements)-1]
	b.peers = append(b.peers, peer)
}
