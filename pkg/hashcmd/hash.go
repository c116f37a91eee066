package hashcmd

import (
	"errors"
	"fmt"

	"github.com/giraffekey/kadis/pkg/keycodec"
	"github.com/giraffekey/kadis/pkg/node"
	"github.com/giraffekey/kadis/pkg/valuecodec"
)

// dhtNode is the subset of node.Node the translator depends on.
type dhtNode interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Remove(key string)
}

// Translator executes hash commands against a Node, operation by
// operation.
type Translator struct {
	node dhtNode
}

func New(n dhtNode) *Translator {
	return &Translator{node: n}
}

func (t *Translator) readIndex(key string) ([]string, error) {
	raw, err := t.node.Get(keycodec.HashFieldsKey(key))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) && getErr.Kind == node.GetNotFound {
			return nil, nil
		}
		return nil, err
	}
	return keycodec.SplitFields(string(raw)), nil
}

func (t *Translator) writeIndex(key string, fields []string) error {
	return t.node.Put(keycodec.HashFieldsKey(key), []byte(keycodec.JoinFields(fields)))
}

// Del removes fields from the hash, rewriting the field-index afterward.
// A missing field-index is reported as HDelNotFound rather than treated as
// an empty hash.
func (t *Translator) Del(key string, fields []string) error {
	for _, f := range fields {
		t.node.Remove(keycodec.HashFieldKey(key, f))
	}

	raw, err := t.node.Get(keycodec.HashFieldsKey(key))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetNotFound:
				return &HDelError{Key: key, Kind: HDelNotFound}
			case node.GetQuorumFailed:
				return &HDelError{Key: key, Kind: HDelQuorumFailed}
			default:
				return &HDelError{Key: key, Kind: HDelTimeout}
			}
		}
		return err
	}

	remaining := keycodec.Remove(keycodec.SplitFields(string(raw)), fields)
	if err := t.writeIndex(key, remaining); err != nil {
		var putErr *node.PutError
		if errors.As(err, &putErr) && putErr.Kind == node.PutQuorumFailed {
			return &HDelError{Key: key, Kind: HDelQuorumFailed}
		}
		return &HDelError{Key: key, Kind: HDelTimeout}
	}
	return nil
}

// Exists reports whether field f is a member of the hash.
func (t *Translator) Exists(key, field string) (bool, error) {
	fields, err := t.readIndex(key)
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetQuorumFailed:
				return false, &HExistsError{Key: key, Kind: HExistsQuorumFailed}
			default:
				return false, &HExistsError{Key: key, Kind: HExistsTimeout}
			}
		}
		return false, err
	}
	if fields == nil {
		return false, nil
	}
	return keycodec.Contains(fields, field), nil
}

// Get reads a single field's value.
func (t *Translator) Get(key, field string) ([]byte, error) {
	value, err := t.node.Get(keycodec.HashFieldKey(key, field))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetNotFound:
				return nil, &HGetError{Key: key, Field: field, Kind: HGetNotFound}
			case node.GetQuorumFailed:
				return nil, &HGetError{Key: key, Field: field, Kind: HGetQuorumFailed}
			default:
				return nil, &HGetError{Key: key, Field: field, Kind: HGetTimeout}
			}
		}
		return nil, err
	}
	return value, nil
}

// GetM reads several fields, short-circuiting on the first error.
func (t *Translator) GetM(key string, fields []string) ([][]byte, error) {
	out := make([][]byte, 0, len(fields))
	for _, f := range fields {
		v, err := t.Get(key, f)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// GetAll returns every field and value currently in the hash.
func (t *Translator) GetAll(key string) (map[string][]byte, error) {
	raw, err := t.node.Get(keycodec.HashFieldsKey(key))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetNotFound:
				return nil, &HGetAllError{Key: key, Kind: HGetAllKeyNotFound}
			case node.GetQuorumFailed:
				return nil, &HGetAllError{Key: key, Kind: HGetAllFieldsQuorumFailed}
			default:
				return nil, &HGetAllError{Key: key, Kind: HGetAllFieldsTimeout}
			}
		}
		return nil, err
	}

	fields := keycodec.SplitFields(string(raw))
	out := make(map[string][]byte, len(fields))
	for _, f := range fields {
		v, err := t.node.Get(keycodec.HashFieldKey(key, f))
		if err != nil {
			var getErr *node.GetError
			if errors.As(err, &getErr) {
				switch getErr.Kind {
				case node.GetNotFound:
					return nil, &HGetAllError{Key: key, Field: f, Kind: HGetAllFieldNotFound}
				case node.GetQuorumFailed:
					return nil, &HGetAllError{Key: key, Field: f, Kind: HGetAllFieldQuorumFailed}
				default:
					return nil, &HGetAllError{Key: key, Field: f, Kind: HGetAllFieldTimeout}
				}
			}
			return nil, err
		}
		out[f] = v
	}
	return out, nil
}

// Incr adds delta to field f, which must decode as a 32-bit float.
func (t *Translator) Incr(key, field string, delta float32) error {
	raw, err := t.node.Get(keycodec.HashFieldKey(key, field))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetNotFound:
				return &HIncrError{Key: key, Field: field, Kind: HIncrNotFound}
			case node.GetQuorumFailed:
				return &HIncrError{Key: key, Field: field, Kind: HIncrQuorumFailed}
			default:
				return &HIncrError{Key: key, Field: field, Kind: HIncrTimeout}
			}
		}
		return err
	}

	codec := valuecodec.NewBinaryCodec()
	var current float32
	if decodeErr := codec.Decode(raw, &current); decodeErr != nil {
		return &HIncrError{Key: key, Field: field, Value: raw, Kind: HIncrNotANumber}
	}

	encoded, err := codec.Encode(current + delta)
	if err != nil {
		return fmt.Errorf("hashcmd: encode incremented value: %w", err)
	}

	if err := t.node.Put(keycodec.HashFieldKey(key, field), encoded); err != nil {
		var putErr *node.PutError
		if errors.As(err, &putErr) && putErr.Kind == node.PutQuorumFailed {
			return &HIncrError{Key: key, Field: field, Kind: HIncrQuorumFailed}
		}
		return &HIncrError{Key: key, Field: field, Kind: HIncrTimeout}
	}
	return nil
}

// Keys returns the hash's field names in insertion order.
func (t *Translator) Keys(key string) ([]string, error) {
	fields, err := t.readIndex(key)
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetQuorumFailed:
				return nil, &HKeysError{Key: key, Kind: HKeysQuorumFailed}
			default:
				return nil, &HKeysError{Key: key, Kind: HKeysTimeout}
			}
		}
		return nil, err
	}
	return fields, nil
}

// Len returns the number of fields in the hash.
func (t *Translator) Len(key string) (int, error) {
	fields, err := t.readIndex(key)
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetQuorumFailed:
				return 0, &HLenError{Key: key, Kind: HLenQuorumFailed}
			default:
				return 0, &HLenError{Key: key, Kind: HLenTimeout}
			}
		}
		return 0, err
	}
	return len(fields), nil
}

// Set writes field f's value and ensures f is a member of the field-index,
// using idempotent set-union so repeated Sets never duplicate the name.
func (t *Translator) Set(key, field string, value []byte) error {
	fields, err := t.readIndex(key)
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) && getErr.Kind != node.GetQuorumFailed {
			return &HSetError{Key: key, Field: field, Kind: HSetFieldsTimeout}
		}
		return &HSetError{Key: key, Field: field, Kind: HSetFieldsQuorumFailed}
	}

	if err := t.node.Put(keycodec.HashFieldKey(key, field), value); err != nil {
		var putErr *node.PutError
		if errors.As(err, &putErr) && putErr.Kind == node.PutQuorumFailed {
			return &HSetError{Key: key, Field: field, Kind: HSetFieldQuorumFailed}
		}
		return &HSetError{Key: key, Field: field, Kind: HSetFieldTimeout}
	}

	if err := t.writeIndex(key, keycodec.UnionAppend(fields, field)); err != nil {
		var putErr *node.PutError
		if errors.As(err, &putErr) && putErr.Kind == node.PutQuorumFailed {
			return &HSetError{Key: key, Field: field, Kind: HSetFieldsQuorumFailed}
		}
		return &HSetError{Key: key, Field: field, Kind: HSetFieldsTimeout}
	}
	return nil
}

// SetM sets several fields, one Set per element, stopping at the first
// failure.
func (t *Translator) SetM(key string, fields []string, values [][]byte) error {
	for i, f := range fields {
		if err := t.Set(key, f, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// SetNx sets field f only if it is not already present.
func (t *Translator) SetNx(key, field string, value []byte) error {
	exists, err := t.Exists(key, field)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return t.Set(key, field, value)
}

// Vals returns every field's value, in field-index order.
func (t *Translator) Vals(key string) ([][]byte, error) {
	fields, err := t.readIndex(key)
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetQuorumFailed:
				return nil, &HValsError{Key: key, Kind: HValsKeyQuorumFailed}
			default:
				return nil, &HValsError{Key: key, Kind: HValsKeyTimeout}
			}
		}
		return nil, err
	}

	out := make([][]byte, 0, len(fields))
	for _, f := range fields {
		v, err := t.node.Get(keycodec.HashFieldKey(key, f))
		if err != nil {
			var getErr *node.GetError
			if errors.As(err, &getErr) {
				switch getErr.Kind {
				case node.GetNotFound:
					return nil, &HValsError{Key: key, Field: f, Kind: HValsFieldNotFound}
				case node.GetQuorumFailed:
					return nil, &HValsError{Key: key, Field: f, Kind: HValsFieldQuorumFailed}
				default:
					return nil, &HValsError{Key: key, Field: f, Kind: HValsFieldTimeout}
				}
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
