package listcmd

import (
	"bytes"
	"errors"

	"github.com/giraffekey/kadis/pkg/keycodec"
	"github.com/giraffekey/kadis/pkg/node"
)

// dhtNode is the subset of node.Node the translator depends on.
type dhtNode interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Remove(key string)
}

// Translator executes list commands against a Node, operation by
// operation.
type Translator struct {
	node dhtNode
}

func New(n dhtNode) *Translator {
	return &Translator{node: n}
}

func (t *Translator) readIndex(key string) ([]string, error) {
	raw, err := t.node.Get(keycodec.ListItemsKey(key))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) && getErr.Kind == node.GetNotFound {
			return nil, nil
		}
		return nil, err
	}
	return keycodec.SplitItems(string(raw)), nil
}

func (t *Translator) writeIndex(key string, ids []string) error {
	return t.node.Put(keycodec.ListItemsKey(key), []byte(keycodec.JoinItems(ids)))
}

func indexGetQuorumKind(err error) bool {
	var getErr *node.GetError
	return errors.As(err, &getErr) && getErr.Kind == node.GetQuorumFailed
}

func indexPutQuorumKind(err error) bool {
	var putErr *node.PutError
	return errors.As(err, &putErr) && putErr.Kind == node.PutQuorumFailed
}

// Push appends (right) or prepends (left) v to L, creating the list if
// it does not exist.
func (t *Translator) Push(key string, value []byte, right bool) error {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return &LPushError{Key: key, Kind: LPushKeyQuorumFailed}
		}
		return &LPushError{Key: key, Kind: LPushKeyTimeout}
	}

	id := keycodec.NewItemID()
	if err := t.node.Put(keycodec.ListItemKey(id), value); err != nil {
		if indexPutQuorumKind(err) {
			return &LPushError{Key: key, Kind: LPushQuorumFailed}
		}
		return &LPushError{Key: key, Kind: LPushTimeout}
	}

	if right {
		ids = append(ids, id)
	} else {
		ids = append([]string{id}, ids...)
	}

	if err := t.writeIndex(key, ids); err != nil {
		if indexPutQuorumKind(err) {
			return &LPushError{Key: key, Kind: LPushIndexQuorumFailed}
		}
		return &LPushError{Key: key, Kind: LPushIndexTimeout}
	}
	return nil
}

// PushX behaves like Push except a missing list is left absent (Ok, no
// creation) rather than being created.
func (t *Translator) PushX(key string, value []byte, right bool) error {
	raw, err := t.node.Get(keycodec.ListItemsKey(key))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetNotFound:
				return nil
			case node.GetQuorumFailed:
				return &LPushError{Key: key, Kind: LPushKeyQuorumFailed}
			default:
				return &LPushError{Key: key, Kind: LPushKeyTimeout}
			}
		}
		return err
	}

	ids := keycodec.SplitItems(string(raw))
	id := keycodec.NewItemID()
	if err := t.node.Put(keycodec.ListItemKey(id), value); err != nil {
		if indexPutQuorumKind(err) {
			return &LPushError{Key: key, Kind: LPushQuorumFailed}
		}
		return &LPushError{Key: key, Kind: LPushTimeout}
	}

	if right {
		ids = append(ids, id)
	} else {
		ids = append([]string{id}, ids...)
	}

	if err := t.writeIndex(key, ids); err != nil {
		if indexPutQuorumKind(err) {
			return &LPushError{Key: key, Kind: LPushIndexQuorumFailed}
		}
		return &LPushError{Key: key, Kind: LPushIndexTimeout}
	}
	return nil
}

// Pop removes and returns the rightmost or leftmost item of L.
func (t *Translator) Pop(key string, right bool) ([]byte, error) {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return nil, &LPopError{Key: key, Kind: LPopKeyQuorumFailed}
		}
		return nil, &LPopError{Key: key, Kind: LPopKeyTimeout}
	}
	if len(ids) == 0 {
		return nil, &LPopError{Key: key, Kind: LPopEmptyList}
	}

	var id string
	var rest []string
	if right {
		id = ids[len(ids)-1]
		rest = ids[:len(ids)-1]
	} else {
		id = ids[0]
		rest = ids[1:]
	}

	value, err := t.node.Get(keycodec.ListItemKey(id))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) && getErr.Kind == node.GetQuorumFailed {
			return nil, &LPopError{Key: key, Kind: LPopItemQuorumFailed}
		}
		return nil, &LPopError{Key: key, Kind: LPopItemTimeout}
	}

	t.node.Remove(keycodec.ListItemKey(id))

	if err := t.writeIndex(key, rest); err != nil {
		if indexPutQuorumKind(err) {
			return nil, &LPopError{Key: key, Kind: LPopIndexQuorumFailed}
		}
		return nil, &LPopError{Key: key, Kind: LPopIndexTimeout}
	}
	return value, nil
}

// Index returns the item at i.
func (t *Translator) Index(key string, i int) ([]byte, error) {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return nil, &LIndexError{Key: key, Index: i, Kind: LIndexKeyQuorumFailed}
		}
		return nil, &LIndexError{Key: key, Index: i, Kind: LIndexKeyTimeout}
	}
	if i < 0 || i >= len(ids) {
		return nil, &LIndexError{Key: key, Index: i, Kind: LIndexNotFound}
	}

	value, err := t.node.Get(keycodec.ListItemKey(ids[i]))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) {
			switch getErr.Kind {
			case node.GetNotFound:
				return nil, &LIndexError{Key: key, Index: i, Kind: LIndexNotFound}
			case node.GetQuorumFailed:
				return nil, &LIndexError{Key: key, Index: i, Kind: LIndexItemQuorumFailed}
			default:
				return nil, &LIndexError{Key: key, Index: i, Kind: LIndexItemTimeout}
			}
		}
		return nil, err
	}
	return value, nil
}

// Insert splices v before (or after) index i.
func (t *Translator) Insert(key string, i int, value []byte, after bool) error {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return &LInsertError{Key: key, Index: i, Kind: LInsertKeyQuorumFailed}
		}
		return &LInsertError{Key: key, Index: i, Kind: LInsertKeyTimeout}
	}

	target := i
	if after {
		target++
	}
	if target > len(ids) {
		return &LInsertError{Key: key, Index: target, Len: len(ids), Kind: LInsertOutOfBounds}
	}

	id := keycodec.NewItemID()
	if err := t.node.Put(keycodec.ListItemKey(id), value); err != nil {
		if indexPutQuorumKind(err) {
			return &LInsertError{Key: key, Index: i, Kind: LInsertItemQuorumFailed}
		}
		return &LInsertError{Key: key, Index: i, Kind: LInsertItemTimeout}
	}

	spliced := make([]string, 0, len(ids)+1)
	spliced = append(spliced, ids[:target]...)
	spliced = append(spliced, id)
	spliced = append(spliced, ids[target:]...)

	if err := t.writeIndex(key, spliced); err != nil {
		if indexPutQuorumKind(err) {
			return &LInsertError{Key: key, Index: i, Kind: LInsertIndexQuorumFailed}
		}
		return &LInsertError{Key: key, Index: i, Kind: LInsertIndexTimeout}
	}
	return nil
}

// Len returns the number of items in L. A missing list has length zero.
func (t *Translator) Len(key string) (int, error) {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return 0, &LLenError{Key: key, Kind: LLenQuorumFailed}
		}
		return 0, &LLenError{Key: key, Kind: LLenTimeout}
	}
	return len(ids), nil
}

// Range returns the items in [start, stop], inclusive on both ends.
func (t *Translator) Range(key string, start, stop int) ([][]byte, error) {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return nil, &LRangeError{Key: key, Start: start, Stop: stop, Kind: LRangeKeyQuorumFailed}
		}
		return nil, &LRangeError{Key: key, Start: start, Stop: stop, Kind: LRangeKeyTimeout}
	}
	if start < 0 || stop >= len(ids) || start > stop {
		return nil, &LRangeError{Key: key, Start: start, Stop: stop, Len: len(ids), Kind: LRangeOutOfBounds}
	}

	out := make([][]byte, 0, stop-start+1)
	for _, id := range ids[start : stop+1] {
		value, err := t.node.Get(keycodec.ListItemKey(id))
		if err != nil {
			var getErr *node.GetError
			if errors.As(err, &getErr) && getErr.Kind == node.GetQuorumFailed {
				return nil, &LRangeError{Key: key, Start: start, Stop: stop, Kind: LRangeItemQuorumFailed}
			}
			return nil, &LRangeError{Key: key, Start: start, Stop: stop, Kind: LRangeItemTimeout}
		}
		out = append(out, value)
	}
	return out, nil
}

// Rem removes the item at i and returns its former value.
func (t *Translator) Rem(key string, i int) ([]byte, error) {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return nil, &LRemError{Key: key, Index: i, Kind: LRemKeyQuorumFailed}
		}
		return nil, &LRemError{Key: key, Index: i, Kind: LRemKeyTimeout}
	}
	if i < 0 || i >= len(ids) {
		return nil, &LRemError{Key: key, Index: i, Len: len(ids), Kind: LRemOutOfBounds}
	}

	id := ids[i]
	value, err := t.node.Get(keycodec.ListItemKey(id))
	if err != nil {
		var getErr *node.GetError
		if errors.As(err, &getErr) && getErr.Kind == node.GetQuorumFailed {
			return nil, &LRemError{Key: key, Index: i, Kind: LRemItemQuorumFailed}
		}
		return nil, &LRemError{Key: key, Index: i, Kind: LRemItemTimeout}
	}

	t.node.Remove(keycodec.ListItemKey(id))

	remaining := make([]string, 0, len(ids)-1)
	remaining = append(remaining, ids[:i]...)
	remaining = append(remaining, ids[i+1:]...)

	if err := t.writeIndex(key, remaining); err != nil {
		if indexPutQuorumKind(err) {
			return nil, &LRemError{Key: key, Index: i, Kind: LRemIndexQuorumFailed}
		}
		return nil, &LRemError{Key: key, Index: i, Kind: LRemIndexTimeout}
	}
	return value, nil
}

// Set overwrites the item at i in place; the order-index is unchanged.
func (t *Translator) Set(key string, i int, value []byte) error {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return &LSetError{Key: key, Index: i, Kind: LSetKeyQuorumFailed}
		}
		return &LSetError{Key: key, Index: i, Kind: LSetKeyTimeout}
	}
	if i < 0 || i >= len(ids) {
		return &LSetError{Key: key, Index: i, Len: len(ids), Kind: LSetOutOfBounds}
	}

	if err := t.node.Put(keycodec.ListItemKey(ids[i]), value); err != nil {
		if indexPutQuorumKind(err) {
			return &LSetError{Key: key, Index: i, Kind: LSetItemQuorumFailed}
		}
		return &LSetError{Key: key, Index: i, Kind: LSetItemTimeout}
	}
	return nil
}

// Trim keeps only [start, stop], inclusive, removing every item outside
// that range.
func (t *Translator) Trim(key string, start, stop int) error {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return &LTrimError{Key: key, Start: start, Stop: stop, Kind: LTrimKeyQuorumFailed}
		}
		return &LTrimError{Key: key, Start: start, Stop: stop, Kind: LTrimKeyTimeout}
	}
	if start < 0 || stop >= len(ids) || start > stop {
		return &LTrimError{Key: key, Start: start, Stop: stop, Len: len(ids), Kind: LTrimOutOfBounds}
	}

	for _, id := range ids[:start] {
		t.node.Remove(keycodec.ListItemKey(id))
	}
	for _, id := range ids[stop+1:] {
		t.node.Remove(keycodec.ListItemKey(id))
	}

	kept := append([]string(nil), ids[start:stop+1]...)
	if err := t.writeIndex(key, kept); err != nil {
		if indexPutQuorumKind(err) {
			return &LTrimError{Key: key, Start: start, Stop: stop, Kind: LTrimIndexQuorumFailed}
		}
		return &LTrimError{Key: key, Start: start, Stop: stop, Kind: LTrimIndexTimeout}
	}
	return nil
}

// Pos searches L for probe. rank > 0 scans left-to-right and returns the
// index of the rank-th match; rank < 0 scans right-to-left and returns
// the |rank|-th match's index in that reversed iteration order (not its
// forward-list index); rank == 0 is invalid.
func (t *Translator) Pos(key string, probe []byte, rank int) (*int, error) {
	if rank == 0 {
		return nil, &LPosError{Key: key, Kind: LPosRankZero}
	}

	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return nil, &LPosError{Key: key, Kind: LPosKeyQuorumFailed}
		}
		return nil, &LPosError{Key: key, Kind: LPosKeyTimeout}
	}

	order := make([]int, len(ids))
	if rank > 0 {
		for i := range ids {
			order[i] = i
		}
	} else {
		for i := range ids {
			order[i] = len(ids) - 1 - i
		}
	}

	target := rank
	if target < 0 {
		target = -target
	}

	matches := 0
	for viewIndex, idx := range order {
		value, err := t.node.Get(keycodec.ListItemKey(ids[idx]))
		if err != nil {
			var getErr *node.GetError
			if errors.As(err, &getErr) && getErr.Kind == node.GetQuorumFailed {
				return nil, &LPosError{Key: key, Kind: LPosItemQuorumFailed}
			}
			return nil, &LPosError{Key: key, Kind: LPosItemTimeout}
		}
		if bytes.Equal(value, probe) {
			matches++
			if matches == target {
				found := viewIndex
				return &found, nil
			}
		}
	}
	return nil, nil
}

// Collect returns every item in order; equivalent to Range(0, Len-1).
func (t *Translator) Collect(key string) ([][]byte, error) {
	ids, err := t.readIndex(key)
	if err != nil {
		if indexGetQuorumKind(err) {
			return nil, &LCollectError{Key: key, Kind: LCollectKeyQuorumFailed}
		}
		return nil, &LCollectError{Key: key, Kind: LCollectKeyTimeout}
	}

	out := make([][]byte, 0, len(ids))
	for _, id := range ids {
		value, err := t.node.Get(keycodec.ListItemKey(id))
		if err != nil {
			var getErr *node.GetError
			if errors.As(err, &getErr) && getErr.Kind == node.GetQuorumFailed {
				return nil, &LCollectError{Key: key, Kind: LCollectItemQuorumFailed}
			}
			return nil, &LCollectError{Key: key, Kind: LCollectItemTimeout}
		}
		out = append(out, value)
	}
	return out, nil
}

// RPopLPush pops the rightmost item off src and pushes it onto the left
// of dst, returning the moved value.
func (t *Translator) RPopLPush(src, dst string) ([]byte, error) {
	return t.Move(src, dst, false)
}

// Move pops the rightmost item off src and pushes it onto dst (right end
// if right, else left end), returning the moved value. Composed from Pop
// and Push; there is no atomicity guarantee across the two steps.
func (t *Translator) Move(src, dst string, right bool) ([]byte, error) {
	value, err := t.Pop(src, true)
	if err != nil {
		return nil, &LMoveError{Source: src, Dest: dst, Kind: LMoveSourceError, Cause: err}
	}
	if err := t.Push(dst, value, right); err != nil {
		return nil, &LMoveError{Source: src, Dest: dst, Kind: LMoveDestError, Cause: err}
	}
	return value, nil
}
