// Package valuecodec provides the pluggable (de)serialization layer between
// user values and the opaque byte payloads the DHT stores.
package valuecodec

// Codec turns a typed user value into bytes the DHT can store and back.
// Any codec is acceptable provided it is deterministic and round-trips the
// types Kadis callers pass it.
type Codec interface {
	Encode(v interface{}) ([]byte, error)
	Decode(data []byte, v interface{}) error
}
