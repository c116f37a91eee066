package kadnet

import (
	"fmt"
	"time"

	"lukechampine.com/blake3"
)

// NodeID is a 256-bit identifier in the Kademlia keyspace.
type NodeID [32]byte

// NewNodeID derives a NodeID from a peer's stable identifier (its public
// key material, or for the in-process reference transport, a process-local
// label) by hashing it with BLAKE3.
func NewNodeID(seed []byte) NodeID {
	return NodeID(blake3.Sum256(seed))
}

// Distance returns the XOR distance between two node IDs.
func (n NodeID) Distance(other NodeID) NodeID {
	var d NodeID
	for i := range n {
		d[i] = n[i] ^ other[i]
	}
	return d
}

// Less orders NodeIDs as big-endian integers, used to compare distances.
func (n NodeID) Less(other NodeID) bool {
	for i := range n {
		if n[i] != other[i] {
			return n[i] < other[i]
		}
	}
	return false
}

func (n NodeID) String() string {
	return fmt.Sprintf("%x", n[:])
}

func (n NodeID) IsZero() bool {
	for _, b := range n {
		if b != 0 {
			return false
		}
	}
	return true
}

// Peer is a node known to the routing table.
type Peer struct {
	ID       NodeID
	Addr     string
	LastSeen time.Time
}

func (p *Peer) touch() {
	p.LastSeen = time.Now()
}

func (p *Peer) stale(timeout time.Duration) bool {
	return time.Since(p.LastSeen) > timeout
}

func (p *Peer) copy() *Peer {
	cp := *p
	return &cp
}
