// Package kadnet defines the DHT transport contract that the node façade
// consumes, plus the Kademlia routing primitives and wire transports that
// implement it.
package kadnet

import "context"

// Bucket size (k) and lookup concurrency (alpha) for the routing table.
const (
	BucketSize = 20
	Alpha      = 3
)

// EventKind distinguishes the asynchronous completions a Transport raises.
type EventKind int

const (
	EventGetFound EventKind = iota
	EventGetNotFound
	EventGetQuorumFailed
	EventGetTimeout
	EventPutOk
	EventPutQuorumFailed
	EventPutTimeout
)

// Event is a completion raised by a Transport, tagged with the key that
// produced it so the façade can correlate it with a pending request.
type Event struct {
	Kind  EventKind
	Key   string
	Value []byte
}

// Transport is the contract the node façade depends on: a peer-to-peer
// key/value service with asynchronous completions and fire-and-forget
// removal. Implementations own their event loop and must be driven by
// calling Start before any Submit* call and Stop to release resources.
type Transport interface {
	// Start begins the transport's background event loop (dialing
	// bootstrap peers, listening, or simply priming local state for the
	// in-process reference transport).
	Start(ctx context.Context) error

	// Stop tears down the transport.
	Stop() error

	// SubmitGet requests a value for key at quorum one. Completion is
	// delivered on the Events channel as one of the EventGet* kinds.
	SubmitGet(key string)

	// SubmitPut stores an unexpiring record at quorum one. Completion is
	// delivered on the Events channel as one of the EventPut* kinds.
	SubmitPut(key string, value []byte)

	// SubmitRemove issues a local removal hint. No completion event
	// follows.
	SubmitRemove(key string)

	// Events returns the channel completions and is read continuously by
	// the façade's event pump for the lifetime of the transport.
	Events() <-chan Event
}
