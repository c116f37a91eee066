package cborcanon

import (
	"bytes"
	"encoding/hex"
	"testing"
)

var canonicalTestVectors = []struct {
	name     string
	input    interface{}
	expected string // hex-encoded canonical CBOR
}{
	{
		name:     "simple_map",
		input:    map[string]interface{}{"b": 2, "a": 1},
		expected: "",
	},
	{
		name: "nested_map",
		input: map[string]interface{}{
			"z": 3,
			"a": map[string]interface{}{
				"y": 2,
				"x": 1,
			},
		},
		expected: "",
	},
	{
		name:     "array",
		input:    []interface{}{3, 1, 2},
		expected: "83030102", // [3, 1, 2] - arrays preserve order
	},
	{
		name:     "mixed_types",
		input:    map[string]interface{}{"str": "hello", "num": 42, "bool": true},
		expected: "",
	},
	{
		name:     "empty_map",
		input:    map[string]interface{}{},
		expected: "a0",
	},
	{
		name:     "empty_array",
		input:    []interface{}{},
		expected: "80",
	},
}

func TestCanonicalEncoding(t *testing.T) {
	for _, tv := range canonicalTestVectors {
		t.Run(tv.name, func(t *testing.T) {
			encoded, err := Marshal(tv.input)
			if err != nil {
				t.Fatalf("Marshal failed: %v", err)
			}

			encodedHex := hex.EncodeToString(encoded)
			if tv.expected != "" && encodedHex != tv.expected {
				t.Errorf("Expected %s, got %s", tv.expected, encodedHex)
			}

			var decoded interface{}
			if err := Unmarshal(encoded, &decoded); err != nil {
				t.Fatalf("Unmarshal failed: %v", err)
			}

			reencoded, err := Marshal(decoded)
			if err != nil {
				t.Fatalf("Re-marshal failed: %v", err)
			}

			if !bytes.Equal(encoded, reencoded) {
				t.Errorf("Encoding not deterministic: %x != %x", encoded, reencoded)
			}
		})
	}
}

func BenchmarkCanonicalMarshal(b *testing.B) {
	data := map[string]interface{}{
		"kind": 10,
		"from": "0cd786a2425d16f152c658316c423e6ce1181e15c3295826d7c9904cba9ce30",
		"seq":  uint64(12345),
		"ts":   uint64(1609459200000),
		"body": map[string]interface{}{
			"key":   "some_key",
			"value": "some_value",
		},
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Marshal(data)
		if err != nil {
			b.Fatal(err)
		}
	}
}
