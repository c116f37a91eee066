package listcmd

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/giraffekey/kadis/internal/kadnet"
	"github.com/giraffekey/kadis/pkg/node"
)

func newTestTranslator(t *testing.T, label string, registry *kadnet.MemoryRegistry) *Translator {
	t.Helper()
	transport := kadnet.NewMemoryTransport(label, registry)
	n, err := node.New(context.Background(), transport, node.Config{CacheLifetime: time.Minute})
	if err != nil {
		t.Fatalf("node.New: %v", err)
	}
	t.Cleanup(n.Close)
	return New(n)
}

func TestPushIndexOrdering(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	if err := tr.Push("cats", []byte("herbert"), true); err != nil {
		t.Fatalf("rpush herbert: %v", err)
	}
	if err := tr.Push("cats", []byte("ferb"), true); err != nil {
		t.Fatalf("rpush ferb: %v", err)
	}
	if err := tr.Push("cats", []byte("kirby"), false); err != nil {
		t.Fatalf("lpush kirby: %v", err)
	}

	got, err := tr.Index("cats", 1)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if string(got) != "herbert" {
		t.Errorf("Index(1) = %q, want %q", got, "herbert")
	}
}

func TestPushInsertRangePopFlow(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	if err := tr.Push("cats", []byte("herbert"), true); err != nil {
		t.Fatalf("rpush: %v", err)
	}
	if err := tr.Push("cats", []byte("ferb"), true); err != nil {
		t.Fatalf("rpush: %v", err)
	}
	if err := tr.Push("cats", []byte("kirby"), false); err != nil {
		t.Fatalf("lpush: %v", err)
	}
	// list is now [kirby, herbert, ferb]

	if err := tr.Insert("cats", 1, []byte("herbie"), false); err != nil {
		t.Fatalf("linsert_before(1): %v", err)
	}
	// list is now [kirby, herbie, herbert, ferb]

	got, err := tr.Index("cats", 1)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if string(got) != "herbie" {
		t.Errorf("Index(1) after insert = %q, want %q", got, "herbie")
	}

	rng, err := tr.Range("cats", 1, 3)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	want := []string{"herbie", "herbert", "ferb"}
	if len(rng) != len(want) {
		t.Fatalf("Range length = %d, want %d", len(rng), len(want))
	}
	for i, w := range want {
		if string(rng[i]) != w {
			t.Errorf("Range[%d] = %q, want %q", i, rng[i], w)
		}
	}

	popped, err := tr.Pop("cats", false)
	if err != nil {
		t.Fatalf("lpop: %v", err)
	}
	if string(popped) != "kirby" {
		t.Errorf("lpop = %q, want %q", popped, "kirby")
	}

	popped, err = tr.Pop("cats", true)
	if err != nil {
		t.Fatalf("rpop: %v", err)
	}
	if string(popped) != "ferb" {
		t.Errorf("rpop = %q, want %q", popped, "ferb")
	}

	length, err := tr.Len("cats")
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if length != 2 {
		t.Errorf("Len = %d, want 2", length)
	}

	all, err := tr.Collect("cats")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	wantAll := []string{"herbie", "herbert"}
	for i, w := range wantAll {
		if string(all[i]) != w {
			t.Errorf("Collect[%d] = %q, want %q", i, all[i], w)
		}
	}

	pos, err := tr.Pos("cats", []byte("herbert"), 1)
	if err != nil {
		t.Fatalf("Pos: %v", err)
	}
	if pos == nil || *pos != 1 {
		t.Errorf("Pos = %v, want 1", pos)
	}
}

func TestPopOnEmptyListIsError(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	_, err := tr.Pop("cats", true)
	var popErr *LPopError
	if !errors.As(err, &popErr) || popErr.Kind != LPopEmptyList {
		t.Fatalf("expected LPopEmptyList, got %v", err)
	}
}

func TestPushXOnMissingListIsNoop(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	if err := tr.PushX("cats", []byte("herbert"), true); err != nil {
		t.Fatalf("pushx on missing list should no-op, got %v", err)
	}

	length, err := tr.Len("cats")
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if length != 0 {
		t.Errorf("expected list to remain absent, Len = %d", length)
	}
}

func TestPosRankZeroIsError(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	if err := tr.Push("cats", []byte("herbert"), true); err != nil {
		t.Fatalf("rpush: %v", err)
	}

	_, err := tr.Pos("cats", []byte("herbert"), 0)
	var posErr *LPosError
	if !errors.As(err, &posErr) || posErr.Kind != LPosRankZero {
		t.Fatalf("expected LPosRankZero, got %v", err)
	}
}

func TestPosNegativeRankIsReversedViewIndex(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	for _, v := range []string{"a", "b", "a", "c"} {
		if err := tr.Push("letters", []byte(v), true); err != nil {
			t.Fatalf("rpush %q: %v", v, err)
		}
	}
	// list is [a, b, a, c]; reversed view is [c, a, b, a]

	pos, err := tr.Pos("letters", []byte("a"), -1)
	if err != nil {
		t.Fatalf("Pos: %v", err)
	}
	if pos == nil || *pos != 1 {
		t.Errorf("Pos(-1) = %v, want 1 (first match in reversed view)", pos)
	}
}

func TestRangeEqualsCollectOverFullList(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	for _, v := range []string{"a", "b", "c"} {
		if err := tr.Push("letters", []byte(v), true); err != nil {
			t.Fatalf("rpush %q: %v", v, err)
		}
	}

	length, err := tr.Len("letters")
	if err != nil {
		t.Fatalf("Len: %v", err)
	}

	rng, err := tr.Range("letters", 0, length-1)
	if err != nil {
		t.Fatalf("Range: %v", err)
	}
	all, err := tr.Collect("letters")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(rng) != len(all) {
		t.Fatalf("Range/Collect length mismatch: %d vs %d", len(rng), len(all))
	}
	for i := range rng {
		if string(rng[i]) != string(all[i]) {
			t.Errorf("Range[%d] = %q, Collect[%d] = %q", i, rng[i], i, all[i])
		}
	}
}

func TestTrimKeepsOnlyInclusiveRange(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	for _, v := range []string{"a", "b", "c", "d", "e"} {
		if err := tr.Push("letters", []byte(v), true); err != nil {
			t.Fatalf("rpush %q: %v", v, err)
		}
	}

	if err := tr.Trim("letters", 1, 3); err != nil {
		t.Fatalf("Trim: %v", err)
	}

	all, err := tr.Collect("letters")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"b", "c", "d"}
	if len(all) != len(want) {
		t.Fatalf("Collect length = %d, want %d", len(all), len(want))
	}
	for i, w := range want {
		if string(all[i]) != w {
			t.Errorf("Collect[%d] = %q, want %q", i, all[i], w)
		}
	}
}

func TestSetOverwritesInPlace(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	for _, v := range []string{"a", "b", "c"} {
		if err := tr.Push("letters", []byte(v), true); err != nil {
			t.Fatalf("rpush %q: %v", v, err)
		}
	}

	if err := tr.Set("letters", 1, []byte("B")); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := tr.Index("letters", 1)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if string(got) != "B" {
		t.Errorf("Index(1) after Set = %q, want %q", got, "B")
	}

	length, err := tr.Len("letters")
	if err != nil {
		t.Fatalf("Len: %v", err)
	}
	if length != 3 {
		t.Errorf("Set changed list length to %d, want 3", length)
	}
}

func TestRemRemovesAndReturnsValue(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	for _, v := range []string{"a", "b", "c"} {
		if err := tr.Push("letters", []byte(v), true); err != nil {
			t.Fatalf("rpush %q: %v", v, err)
		}
	}

	removed, err := tr.Rem("letters", 1)
	if err != nil {
		t.Fatalf("Rem: %v", err)
	}
	if string(removed) != "b" {
		t.Errorf("Rem returned %q, want %q", removed, "b")
	}

	all, err := tr.Collect("letters")
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := []string{"a", "c"}
	for i, w := range want {
		if string(all[i]) != w {
			t.Errorf("Collect[%d] = %q, want %q", i, all[i], w)
		}
	}
}

func TestMoveTransfersBetweenLists(t *testing.T) {
	tr := newTestTranslator(t, "n1", kadnet.NewMemoryRegistry())

	if err := tr.Push("src", []byte("a"), true); err != nil {
		t.Fatalf("rpush: %v", err)
	}
	if err := tr.Push("src", []byte("b"), true); err != nil {
		t.Fatalf("rpush: %v", err)
	}

	moved, err := tr.RPopLPush("src", "dst")
	if err != nil {
		t.Fatalf("RPopLPush: %v", err)
	}
	if string(moved) != "b" {
		t.Errorf("moved = %q, want %q", moved, "b")
	}

	got, err := tr.Index("dst", 0)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if string(got) != "b" {
		t.Errorf("dst[0] = %q, want %q", got, "b")
	}

	srcLen, err := tr.Len("src")
	if err != nil {
		t.Fatalf("Len(src): %v", err)
	}
	if srcLen != 1 {
		t.Errorf("Len(src) = %d, want 1", srcLen)
	}
}
