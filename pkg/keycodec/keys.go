// Package keycodec derives DHT keys from hash/list aggregate identifiers
// and (de)serializes the index records that track a hash's field set or a
// list's item order. Every function here is pure and total. Keys are
// plain template strings rather than hashed presence/provide keys — there
// is no swarm to scope them to.
package keycodec

import "github.com/google/uuid"

const (
	fieldSeparator = ",,"
	itemSeparator  = ","
)

// HashFieldsKey returns the field-index record key for hash H.
func HashFieldsKey(hash string) string {
	return "kh-fields-" + hash
}

// HashFieldKey returns the per-field record key for field f of hash H.
func HashFieldKey(hash, field string) string {
	return "kh-" + hash + "-" + field
}

// ListItemsKey returns the order-index record key for list L.
func ListItemsKey(list string) string {
	return "kl-items-" + list
}

// ListItemKey returns the per-item record key for item id.
func ListItemKey(id string) string {
	return "kl-" + id
}

// NewItemID generates a fresh UUIDv4 for a new list item. Item ids never
// contain the item separator per (U1).
func NewItemID() string {
	return uuid.New().String()
}

// SplitFields parses a field-index record's value into its ordered field
// names. An empty string maps to an empty sequence.
func SplitFields(value string) []string {
	return split(value, fieldSeparator)
}

// JoinFields serializes an ordered field-name sequence into a field-index
// record's value.
func JoinFields(fields []string) string {
	return join(fields, fieldSeparator)
}

// SplitItems parses an order-index record's value into its ordered item
// ids. An empty string maps to an empty sequence.
func SplitItems(value string) []string {
	return split(value, itemSeparator)
}

// JoinItems serializes an ordered item-id sequence into an order-index
// record's value.
func JoinItems(ids []string) string {
	return join(ids, itemSeparator)
}

func split(value, sep string) []string {
	if value == "" {
		return nil
	}

	var out []string
	start := 0
	for i := 0; i+len(sep) <= len(value); {
		if value[i:i+len(sep)] == sep {
			out = append(out, value[start:i])
			i += len(sep)
			start = i
			continue
		}
		i++
	}
	out = append(out, value[start:])
	return out
}

func join(items []string, sep string) string {
	if len(items) == 0 {
		return ""
	}
	out := items[0]
	for _, item := range items[1:] {
		out += sep + item
	}
	return out
}

// UnionAppend returns existing with name appended iff it is not already
// present, preserving first-seen order. Set's index update must be
// idempotent; an unconditional append would duplicate the name on every
// repeated Set of the same field.
func UnionAppend(existing []string, name string) []string {
	for _, e := range existing {
		if e == name {
			return existing
		}
	}
	return append(existing, name)
}

// Contains reports whether name appears in names.
func Contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Remove returns names with every occurrence of any of targets removed,
// preserving relative order.
func Remove(names []string, targets []string) []string {
	if len(targets) == 0 {
		return names
	}
	drop := make(map[string]bool, len(targets))
	for _, t := range targets {
		drop[t] = true
	}
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !drop[n] {
			out = append(out, n)
		}
	}
	return out
}
