// Package hashcmd translates Redis-style hash commands into sequences of
// node.Get/Put/Remove plus field-index maintenance.
package hashcmd

import "fmt"

// HDelErrorKind distinguishes Del failures. All three relate to the
// field-index record — field removals themselves are fire-and-forget and
// cannot fail (node.Remove has no completion).
type HDelErrorKind int

const (
	// HDelNotFound is returned when the field-index is absent, i.e. the
	// hash never existed. Tolerating a missing index here would also be
	// defensible, but Del surfaces the distinction explicitly since
	// Exists/Keys/Len already treat absence as empty rather than an error.
	HDelNotFound HDelErrorKind = iota
	HDelQuorumFailed
	HDelTimeout
)

type HDelError struct {
	Key  string
	Kind HDelErrorKind
}

func (e *HDelError) Error() string {
	return fmt.Sprintf("hdel %s: %s", e.Key, hashKindString(int(e.Kind), "NotFound", "QuorumFailed", "Timeout"))
}

// HExistsErrorKind covers failures reading the field-index itself; a
// missing index is not an error for Exists (it means false).
type HExistsErrorKind int

const (
	HExistsQuorumFailed HExistsErrorKind = iota
	HExistsTimeout
)

type HExistsError struct {
	Key  string
	Kind HExistsErrorKind
}

func (e *HExistsError) Error() string {
	return fmt.Sprintf("hexists %s: %s", e.Key, hashKindString(int(e.Kind), "QuorumFailed", "Timeout"))
}

// HGetErrorKind covers failures reading a single field record.
type HGetErrorKind int

const (
	HGetNotFound HGetErrorKind = iota
	HGetQuorumFailed
	HGetTimeout
)

type HGetError struct {
	Key, Field string
	Kind       HGetErrorKind
}

func (e *HGetError) Error() string {
	return fmt.Sprintf("hget %s %s: %s", e.Key, e.Field, hashKindString(int(e.Kind), "NotFound", "QuorumFailed", "Timeout"))
}

// HGetAllErrorKind distinguishes index-record failures (Key*) from a
// particular field's read failing (Field*).
type HGetAllErrorKind int

const (
	HGetAllKeyNotFound HGetAllErrorKind = iota
	HGetAllFieldsQuorumFailed
	HGetAllFieldsTimeout
	HGetAllFieldNotFound
	HGetAllFieldQuorumFailed
	HGetAllFieldTimeout
)

type HGetAllError struct {
	Key, Field string // Field is empty for the Key*/Fields* variants
	Kind       HGetAllErrorKind
}

func (e *HGetAllError) Error() string {
	return fmt.Sprintf("hgetall %s: %s", e.Key, hashKindString(int(e.Kind),
		"KeyNotFound", "FieldsQuorumFailed", "FieldsTimeout",
		"FieldNotFound", "FieldQuorumFailed", "FieldTimeout"))
}

// HIncrErrorKind covers failures reading/writing the incremented field,
// plus the undecodable-payload case.
type HIncrErrorKind int

const (
	HIncrNotFound HIncrErrorKind = iota
	HIncrQuorumFailed
	HIncrTimeout
	HIncrNotANumber
)

type HIncrError struct {
	Key, Field string
	Value      []byte // populated only for HIncrNotANumber
	Kind       HIncrErrorKind
}

func (e *HIncrError) Error() string {
	if e.Kind == HIncrNotANumber {
		return fmt.Sprintf("hincr %s %s: value %x is not a number", e.Key, e.Field, e.Value)
	}
	return fmt.Sprintf("hincr %s %s: %s", e.Key, e.Field, hashKindString(int(e.Kind), "NotFound", "QuorumFailed", "Timeout"))
}

// HKeysErrorKind covers failures reading the field-index itself. A missing
// index is not an error (Keys returns an empty list), completing the
// original source's empty HKeysError stub to match HGetAllError's shape.
type HKeysErrorKind int

const (
	HKeysQuorumFailed HKeysErrorKind = iota
	HKeysTimeout
)

type HKeysError struct {
	Key  string
	Kind HKeysErrorKind
}

func (e *HKeysError) Error() string {
	return fmt.Sprintf("hkeys %s: %s", e.Key, hashKindString(int(e.Kind), "QuorumFailed", "Timeout"))
}

// HLenErrorKind mirrors HKeysErrorKind; completes the original's empty
// HLenError stub.
type HLenErrorKind int

const (
	HLenQuorumFailed HLenErrorKind = iota
	HLenTimeout
)

type HLenError struct {
	Key  string
	Kind HLenErrorKind
}

func (e *HLenError) Error() string {
	return fmt.Sprintf("hlen %s: %s", e.Key, hashKindString(int(e.Kind), "QuorumFailed", "Timeout"))
}

// HSetErrorKind distinguishes a field-write failure (Field*) from a
// field-index failure (Fields*): either reading the index before the field
// write, or writing it back after the field write already succeeded; the
// field write is not rolled back when index maintenance fails afterward.
type HSetErrorKind int

const (
	HSetFieldQuorumFailed HSetErrorKind = iota
	HSetFieldTimeout
	HSetFieldsQuorumFailed
	HSetFieldsTimeout
)

type HSetError struct {
	Key, Field string
	Kind       HSetErrorKind
}

func (e *HSetError) Error() string {
	return fmt.Sprintf("hset %s %s: %s", e.Key, e.Field, hashKindString(int(e.Kind),
		"FieldQuorumFailed", "FieldTimeout", "FieldsQuorumFailed", "FieldsTimeout"))
}

// HValsErrorKind distinguishes index-record failures (Key*) from a
// particular field's read failing (Field*); completes the original's empty
// HValsError stub to match HGetAllError's shape.
type HValsErrorKind int

const (
	HValsKeyQuorumFailed HValsErrorKind = iota
	HValsKeyTimeout
	HValsFieldNotFound
	HValsFieldQuorumFailed
	HValsFieldTimeout
)

type HValsError struct {
	Key, Field string
	Kind       HValsErrorKind
}

func (e *HValsError) Error() string {
	return fmt.Sprintf("hvals %s: %s", e.Key, hashKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "FieldNotFound", "FieldQuorumFailed", "FieldTimeout"))
}

func hashKindString(kind int, names ...string) string {
	if kind < 0 || kind >= len(names) {
		return "Unknown"
	}
	return names[kind]
}
