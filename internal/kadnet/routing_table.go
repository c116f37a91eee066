package kadnet

import (
	"sort"
	"sync"
	"time"
)

// RoutingTable is a Kademlia routing table keyed by XOR distance from a
// local node ID, with one bucket per bit of the 256-bit keyspace.
type RoutingTable struct {
	mu      sync.RWMutex
	localID NodeID
	buckets [256]*bucket
}

func NewRoutingTable(localID NodeID) *RoutingTable {
	rt := &RoutingTable{localID: localID}
	for i := range rt.buckets {
		rt.buckets[i] = newBucket()
	}
	return rt
}

func (rt *RoutingTable) Add(peer *Peer) bool {
	if peer.ID == rt.localID {
		return false
	}
	return rt.buckets[rt.bucketIndex(peer.ID)].add(peer)
}

func (rt *RoutingTable) Remove(id NodeID) bool {
	if id == rt.localID {
		return false
	}
	return rt.buckets[rt.bucketIndex(id)].remove(id)
}

func (rt *RoutingTable) Get(id NodeID) *Peer {
	if id == rt.localID {
		return nil
	}
	return rt.buckets[rt.bucketIndex(id)].get(id)
}

// Closest returns up to k peers ordered by distance to target, expanding
// outward from the bucket target would occupy when that bucket alone
// doesn't have enough candidates.
func (rt *RoutingTable) Closest(target NodeID, k int) []*Peer {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	targetBucket := rt.bucketIndex(target)
	seen := make(map[int]bool)
	var candidates []*Peer

	candidates = append(candidates, rt.buckets[targetBucket].all()...)
	seen[targetBucket] = true

	for dist := 1; len(candidates) < k && dist < 256; dist++ {
		if targetBucket+dist < 256 && !seen[targetBucket+dist] {
			candidates = append(candidates, rt.buckets[targetBucket+dist].all()...)
			seen[targetBucket+dist] = true
		}
		if targetBucket-dist >= 0 && !seen[targetBucket-dist] {
			candidates = append(candidates, rt.buckets[targetBucket-dist].all()...)
			seen[targetBucket-dist] = true
		}
	}

	if len(candidates) < k {
		for i := 0; i < 256; i++ {
			if !seen[i] {
				candidates = append(candidates, rt.buckets[i].all()...)
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].ID.Distance(target).Less(candidates[j].ID.Distance(target))
	})
	if k > len(candidates) {
		k = len(candidates)
	}
	return candidates[:k]
}

func (rt *RoutingTable) All() []*Peer {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	var out []*Peer
	for _, b := range rt.buckets {
		out = append(out, b.all()...)
	}
	return out
}

func (rt *RoutingTable) Size() int {
	rt.mu.RLock()
	defer rt.mu.RUnlock()
	total := 0
	for _, b := range rt.buckets {
		total += b.size()
	}
	return total
}

func (rt *RoutingTable) RemoveStale(timeout time.Duration) int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	total := 0
	for _, b := range rt.buckets {
		total += b.removeStale(timeout)
	}
	return total
}

// bucketIndex finds the highest set bit of the XOR distance between id and
// the local node, giving the bucket it belongs to (bucket 0 holds the
// closest peers, bucket 255 the farthest).
func (rt *RoutingTable) bucketIndex(id NodeID) int {
	d := rt.localID.Distance(id)
	for i := 0; i < 32; i++ {
		if d[i] != 0 {
			for j := 7; j >= 0; j-- {
				if (d[i]>>uint(j))&1 == 1 {
					return 255 - (i*8 + (7 - j))
				}
			}
		}
	}
	return 0
}
