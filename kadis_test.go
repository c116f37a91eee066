package kadis

import (
	"context"
	"testing"

	"github.com/giraffekey/kadis/internal/kadnet"
)

func newTestKadis(t *testing.T, label string, registry *kadnet.MemoryRegistry) *Kadis {
	t.Helper()
	k, err := InitInMemory(context.Background(), label, registry, NewBuilder())
	if err != nil {
		t.Fatalf("InitInMemory: %v", err)
	}
	t.Cleanup(k.Close)
	return k
}

func TestHSetHGetRoundTrip(t *testing.T) {
	k := newTestKadis(t, "n1", kadnet.NewMemoryRegistry())

	if err := k.HSet("profile", "name", "herbert"); err != nil {
		t.Fatalf("HSet: %v", err)
	}

	var got string
	if err := k.HGet("profile", "name", &got); err != nil {
		t.Fatalf("HGet: %v", err)
	}
	if got != "herbert" {
		t.Errorf("got %q, want %q", got, "herbert")
	}
}

func TestHIncrFloatAndInt(t *testing.T) {
	k := newTestKadis(t, "n1", kadnet.NewMemoryRegistry())

	if err := k.HSet("counters", "visits", float32(0)); err != nil {
		t.Fatalf("HSet: %v", err)
	}
	if err := k.HIncr("counters", "visits", 3); err != nil {
		t.Fatalf("HIncr: %v", err)
	}
	if err := k.HIncrFloat("counters", "visits", 0.5); err != nil {
		t.Fatalf("HIncrFloat: %v", err)
	}

	var got float32
	if err := k.HGet("counters", "visits", &got); err != nil {
		t.Fatalf("HGet: %v", err)
	}
	if got != 3.5 {
		t.Errorf("got %v, want 3.5", got)
	}
}

func TestListPushPopFlow(t *testing.T) {
	k := newTestKadis(t, "n1", kadnet.NewMemoryRegistry())

	if err := k.RPush("cats", "herbert"); err != nil {
		t.Fatalf("RPush: %v", err)
	}
	if err := k.RPush("cats", "ferb"); err != nil {
		t.Fatalf("RPush: %v", err)
	}
	if err := k.LPush("cats", "kirby"); err != nil {
		t.Fatalf("LPush: %v", err)
	}

	var first string
	if err := k.LIndex("cats", 1, &first); err != nil {
		t.Fatalf("LIndex: %v", err)
	}
	if first != "herbert" {
		t.Errorf("LIndex(1) = %q, want %q", first, "herbert")
	}

	var popped string
	if err := k.LPop("cats", &popped); err != nil {
		t.Fatalf("LPop: %v", err)
	}
	if popped != "kirby" {
		t.Errorf("LPop = %q, want %q", popped, "kirby")
	}

	length, err := k.LLen("cats")
	if err != nil {
		t.Fatalf("LLen: %v", err)
	}
	if length != 2 {
		t.Errorf("LLen = %d, want 2", length)
	}
}

func TestHSetMultipleAndHVals(t *testing.T) {
	k := newTestKadis(t, "n1", kadnet.NewMemoryRegistry())

	if err := k.HSetMultiple("cats", map[string]interface{}{
		"herb": "Herbert",
		"ferb": "Ferb",
	}); err != nil {
		t.Fatalf("HSetMultiple: %v", err)
	}

	keys, err := k.HKeys("cats")
	if err != nil {
		t.Fatalf("HKeys: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("HKeys = %v, want 2 entries", keys)
	}

	vals, err := k.HVals("cats", func() interface{} { return new(string) })
	if err != nil {
		t.Fatalf("HVals: %v", err)
	}
	if len(vals) != 2 {
		t.Fatalf("HVals = %v, want 2 entries", vals)
	}
	got := map[string]bool{}
	for _, v := range vals {
		got[*v.(*string)] = true
	}
	if !got["Herbert"] || !got["Ferb"] {
		t.Errorf("HVals = %v, want Herbert and Ferb", vals)
	}
}

func TestTwoHandlesShareRegistry(t *testing.T) {
	registry := kadnet.NewMemoryRegistry()
	writer := newTestKadis(t, "writer", registry)
	reader := newTestKadis(t, "reader", registry)

	if err := writer.HSet("shared", "field", "value"); err != nil {
		t.Fatalf("HSet: %v", err)
	}

	var got string
	if err := reader.HGet("shared", "field", &got); err != nil {
		t.Fatalf("HGet from a different handle on the same registry: %v", err)
	}
	if got != "value" {
		t.Errorf("got %q, want %q", got, "value")
	}
}
