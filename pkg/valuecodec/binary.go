package valuecodec

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// BinaryCodec is the reference value codec: little-endian binary, fixed
// width for primitives, a uint32 length prefix for variable-length data.
// It stays on stdlib encoding/binary rather than a third-party codec: its
// exact wire shape (fixed-width primitives, length-prefixed variable
// fields) is exactly what encoding/binary already does natively, and a
// general-purpose serialization library would only fight that shape
// instead of serving it.
type BinaryCodec struct{}

func NewBinaryCodec() *BinaryCodec { return &BinaryCodec{} }

func (BinaryCodec) Encode(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	switch val := v.(type) {
	case bool:
		var b byte
		if val {
			b = 1
		}
		buf.WriteByte(b)
	case int8:
		buf.WriteByte(byte(val))
	case uint8:
		buf.WriteByte(val)
	case int16:
		return encodeFixed(binary.LittleEndian, val)
	case uint16:
		return encodeFixed(binary.LittleEndian, val)
	case int32:
		return encodeFixed(binary.LittleEndian, val)
	case uint32:
		return encodeFixed(binary.LittleEndian, val)
	case int64:
		return encodeFixed(binary.LittleEndian, val)
	case uint64:
		return encodeFixed(binary.LittleEndian, val)
	case int:
		return encodeFixed(binary.LittleEndian, int64(val))
	case float32:
		return encodeFixed(binary.LittleEndian, val)
	case float64:
		return encodeFixed(binary.LittleEndian, val)
	case string:
		return encodeVariable([]byte(val)), nil
	case []byte:
		return encodeVariable(val), nil
	default:
		return nil, fmt.Errorf("valuecodec: binary codec cannot encode %T", v)
	}
	return buf.Bytes(), nil
}

func (BinaryCodec) Decode(data []byte, v interface{}) error {
	switch ptr := v.(type) {
	case *bool:
		if len(data) != 1 {
			return fmt.Errorf("valuecodec: bool payload must be 1 byte, got %d", len(data))
		}
		*ptr = data[0] != 0
	case *int8:
		if len(data) != 1 {
			return fmt.Errorf("valuecodec: int8 payload must be 1 byte, got %d", len(data))
		}
		*ptr = int8(data[0])
	case *uint8:
		if len(data) != 1 {
			return fmt.Errorf("valuecodec: uint8 payload must be 1 byte, got %d", len(data))
		}
		*ptr = data[0]
	case *int16:
		return decodeFixed(data, ptr)
	case *uint16:
		return decodeFixed(data, ptr)
	case *int32:
		return decodeFixed(data, ptr)
	case *uint32:
		return decodeFixed(data, ptr)
	case *int64:
		return decodeFixed(data, ptr)
	case *uint64:
		return decodeFixed(data, ptr)
	case *int:
		var wide int64
		if err := decodeFixed(data, &wide); err != nil {
			return err
		}
		*ptr = int(wide)
	case *float32:
		return decodeFixed(data, ptr)
	case *float64:
		return decodeFixed(data, ptr)
	case *string:
		payload, err := decodeVariable(data)
		if err != nil {
			return err
		}
		*ptr = string(payload)
	case *[]byte:
		payload, err := decodeVariable(data)
		if err != nil {
			return err
		}
		*ptr = payload
	default:
		return fmt.Errorf("valuecodec: binary codec cannot decode into %T", v)
	}
	return nil
}

func encodeFixed(order binary.ByteOrder, v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, order, v); err != nil {
		return nil, fmt.Errorf("valuecodec: encode fixed-width value: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeFixed(data []byte, v interface{}) error {
	if want := binary.Size(v); want >= 0 && len(data) != want {
		return fmt.Errorf("valuecodec: fixed-width payload must be %d bytes, got %d", want, len(data))
	}
	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, v); err != nil {
		return fmt.Errorf("valuecodec: decode fixed-width value: %w", err)
	}
	return nil
}

func encodeVariable(payload []byte) []byte {
	buf := make([]byte, 4+len(payload))
	binary.LittleEndian.PutUint32(buf[:4], uint32(len(payload)))
	copy(buf[4:], payload)
	return buf
}

func decodeVariable(data []byte) ([]byte, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("valuecodec: variable payload too short for length prefix: %d bytes", len(data))
	}
	n := binary.LittleEndian.Uint32(data[:4])
	if uint32(len(data)-4) != n {
		return nil, fmt.Errorf("valuecodec: variable payload length mismatch: prefix says %d, have %d", n, len(data)-4)
	}
	out := make([]byte, n)
	copy(out, data[4:])
	return out, nil
}
