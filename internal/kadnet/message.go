package kadnet

import (
	"fmt"
	"time"

	"github.com/giraffekey/kadis/pkg/codec/cborcanon"
)

// Message kinds carried by the QUIC wire transport.
const (
	KindPing uint16 = iota + 1
	KindPong
	KindGetRequest
	KindGetResponse
	KindPutRequest
	KindPutResponse
	KindRemove
	KindFindNode
	KindFindNodeResponse
)

// Frame is the envelope every kadnet wire message travels in: a kind tag,
// the sending peer's derived NodeID, a sequence number for request/response
// correlation and a kind-specific CBOR body.
type Frame struct {
	Kind uint16      `cbor:"kind"`
	From string      `cbor:"from"`
	Seq  uint64      `cbor:"seq"`
	TS   uint64      `cbor:"ts"`
	Body interface{} `cbor:"body"`
}

func newFrame(kind uint16, from string, seq uint64, body interface{}) *Frame {
	return &Frame{
		Kind: kind,
		From: from,
		Seq:  seq,
		TS:   uint64(time.Now().UnixMilli()),
		Body: body,
	}
}

// Marshal encodes the frame to canonical CBOR.
func (f *Frame) Marshal() ([]byte, error) {
	return cborcanon.Marshal(f)
}

// Unmarshal decodes a frame from canonical CBOR.
func (f *Frame) Unmarshal(data []byte) error {
	return cborcanon.Unmarshal(data, f)
}

type PingBody struct {
	Token uint64 `cbor:"token"`
}

type PongBody struct {
	Token uint64 `cbor:"token"`
}

type GetRequestBody struct {
	Key string `cbor:"key"`
}

type GetResponseBody struct {
	Key   string `cbor:"key"`
	Found bool   `cbor:"found"`
	Value []byte `cbor:"value,omitempty"`
}

type PutRequestBody struct {
	Key   string `cbor:"key"`
	Value []byte `cbor:"value"`
}

type PutResponseBody struct {
	Key string `cbor:"key"`
	Ok  bool   `cbor:"ok"`
}

type RemoveBody struct {
	Key string `cbor:"key"`
}

type FindNodeBody struct {
	Target string `cbor:"target"` // hex-encoded NodeID
}

type FindNodeResponseBody struct {
	Peers []WirePeer `cbor:"peers"`
}

// WirePeer is the over-the-wire representation of a Peer.
type WirePeer struct {
	ID   string `cbor:"id"` // hex-encoded NodeID
	Addr string `cbor:"addr"`
}

func decodeBody[T any](f *Frame) (*T, error) {
	data, err := cborcanon.Marshal(f.Body)
	if err != nil {
		return nil, fmt.Errorf("kadnet: re-encode frame body: %w", err)
	}
	var body T
	if err := cborcanon.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("kadnet: decode frame body: %w", err)
	}
	return &body, nil
}
