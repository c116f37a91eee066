package valuecodec

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/giraffekey/kadis/pkg/codec/cborcanon"
)

// CBORCodec is an alternative Codec demonstrating that any codec capable
// of round-tripping the caller's types works, not just the reference
// binary one. It wraps github.com/fxamacker/cbor/v2, the same library
// used for every wire frame elsewhere in this module.
type CBORCodec struct{}

func NewCBORCodec() *CBORCodec { return &CBORCodec{} }

func (CBORCodec) Encode(v interface{}) ([]byte, error) {
	data, err := cborcanon.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("valuecodec: cbor encode: %w", err)
	}
	return data, nil
}

func (CBORCodec) Decode(data []byte, v interface{}) error {
	if err := cbor.Unmarshal(data, v); err != nil {
		return fmt.Errorf("valuecodec: cbor decode: %w", err)
	}
	return nil
}
