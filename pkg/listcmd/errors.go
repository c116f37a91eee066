// Package listcmd translates Redis-style list commands into sequences of
// node.Get/Put/Remove plus order-index maintenance.
package listcmd

import "fmt"

// LIndexErrorKind distinguishes Index failures.
type LIndexErrorKind int

const (
	LIndexKeyQuorumFailed LIndexErrorKind = iota
	LIndexKeyTimeout
	LIndexNotFound
	LIndexItemQuorumFailed
	LIndexItemTimeout
)

type LIndexError struct {
	Key   string
	Index int
	Kind  LIndexErrorKind
}

func (e *LIndexError) Error() string {
	return fmt.Sprintf("lindex %s %d: %s", e.Key, e.Index, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "NotFound", "ItemQuorumFailed", "ItemTimeout"))
}

// LInsertErrorKind distinguishes Insert failures.
type LInsertErrorKind int

const (
	LInsertKeyQuorumFailed LInsertErrorKind = iota
	LInsertKeyTimeout
	LInsertOutOfBounds
	LInsertItemQuorumFailed
	LInsertItemTimeout
	LInsertIndexQuorumFailed
	LInsertIndexTimeout
)

type LInsertError struct {
	Key        string
	Index, Len int
	Kind       LInsertErrorKind
}

func (e *LInsertError) Error() string {
	if e.Kind == LInsertOutOfBounds {
		return fmt.Sprintf("linsert %s: index %d out of bounds (len %d)", e.Key, e.Index, e.Len)
	}
	return fmt.Sprintf("linsert %s %d: %s", e.Key, e.Index, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "OutOfBounds", "ItemQuorumFailed", "ItemTimeout",
		"IndexQuorumFailed", "IndexTimeout"))
}

// LPopErrorKind distinguishes Pop failures.
type LPopErrorKind int

const (
	LPopKeyQuorumFailed LPopErrorKind = iota
	LPopKeyTimeout
	LPopEmptyList
	LPopItemQuorumFailed
	LPopItemTimeout
	LPopIndexQuorumFailed
	LPopIndexTimeout
)

type LPopError struct {
	Key  string
	Kind LPopErrorKind
}

func (e *LPopError) Error() string {
	if e.Kind == LPopEmptyList {
		return fmt.Sprintf("lpop %s: list is empty", e.Key)
	}
	return fmt.Sprintf("lpop %s: %s", e.Key, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "EmptyList", "ItemQuorumFailed", "ItemTimeout",
		"IndexQuorumFailed", "IndexTimeout"))
}

// LPosErrorKind distinguishes Pos failures.
type LPosErrorKind int

const (
	LPosKeyQuorumFailed LPosErrorKind = iota
	LPosKeyTimeout
	LPosRankZero
	LPosItemQuorumFailed
	LPosItemTimeout
)

type LPosError struct {
	Key  string
	Kind LPosErrorKind
}

func (e *LPosError) Error() string {
	if e.Kind == LPosRankZero {
		return fmt.Sprintf("lpos %s: rank must not be zero", e.Key)
	}
	return fmt.Sprintf("lpos %s: %s", e.Key, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "RankZero", "ItemQuorumFailed", "ItemTimeout"))
}

// LPushErrorKind distinguishes index-read failures (Key*) from item-put
// failures (plain) and index-write failures (Index*).
type LPushErrorKind int

const (
	LPushKeyQuorumFailed LPushErrorKind = iota
	LPushKeyTimeout
	LPushQuorumFailed
	LPushTimeout
	LPushIndexQuorumFailed
	LPushIndexTimeout
)

type LPushError struct {
	Key  string
	Kind LPushErrorKind
}

func (e *LPushError) Error() string {
	return fmt.Sprintf("lpush %s: %s", e.Key, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "QuorumFailed", "Timeout", "IndexQuorumFailed", "IndexTimeout"))
}

// LRangeErrorKind distinguishes Range failures.
type LRangeErrorKind int

const (
	LRangeKeyQuorumFailed LRangeErrorKind = iota
	LRangeKeyTimeout
	LRangeOutOfBounds
	LRangeItemQuorumFailed
	LRangeItemTimeout
)

type LRangeError struct {
	Key         string
	Start, Stop int
	Len         int
	Kind        LRangeErrorKind
}

func (e *LRangeError) Error() string {
	if e.Kind == LRangeOutOfBounds {
		return fmt.Sprintf("lrange %s %d %d: out of bounds (len %d)", e.Key, e.Start, e.Stop, e.Len)
	}
	return fmt.Sprintf("lrange %s %d %d: %s", e.Key, e.Start, e.Stop, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "OutOfBounds", "ItemQuorumFailed", "ItemTimeout"))
}

// LRemErrorKind distinguishes Rem failures.
type LRemErrorKind int

const (
	LRemKeyQuorumFailed LRemErrorKind = iota
	LRemKeyTimeout
	LRemOutOfBounds
	LRemItemQuorumFailed
	LRemItemTimeout
	LRemIndexQuorumFailed
	LRemIndexTimeout
)

type LRemError struct {
	Key        string
	Index, Len int
	Kind       LRemErrorKind
}

func (e *LRemError) Error() string {
	if e.Kind == LRemOutOfBounds {
		return fmt.Sprintf("lrem %s: index %d out of bounds (len %d)", e.Key, e.Index, e.Len)
	}
	return fmt.Sprintf("lrem %s %d: %s", e.Key, e.Index, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "OutOfBounds", "ItemQuorumFailed", "ItemTimeout",
		"IndexQuorumFailed", "IndexTimeout"))
}

// LSetErrorKind distinguishes Set failures.
type LSetErrorKind int

const (
	LSetKeyQuorumFailed LSetErrorKind = iota
	LSetKeyTimeout
	LSetOutOfBounds
	LSetItemQuorumFailed
	LSetItemTimeout
)

type LSetError struct {
	Key        string
	Index, Len int
	Kind       LSetErrorKind
}

func (e *LSetError) Error() string {
	if e.Kind == LSetOutOfBounds {
		return fmt.Sprintf("lset %s: index %d out of bounds (len %d)", e.Key, e.Index, e.Len)
	}
	return fmt.Sprintf("lset %s %d: %s", e.Key, e.Index, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "OutOfBounds", "ItemQuorumFailed", "ItemTimeout"))
}

// LTrimErrorKind distinguishes Trim failures.
type LTrimErrorKind int

const (
	LTrimKeyQuorumFailed LTrimErrorKind = iota
	LTrimKeyTimeout
	LTrimOutOfBounds
	LTrimIndexQuorumFailed
	LTrimIndexTimeout
)

type LTrimError struct {
	Key         string
	Start, Stop int
	Len         int
	Kind        LTrimErrorKind
}

func (e *LTrimError) Error() string {
	if e.Kind == LTrimOutOfBounds {
		return fmt.Sprintf("ltrim %s %d %d: out of bounds (len %d)", e.Key, e.Start, e.Stop, e.Len)
	}
	return fmt.Sprintf("ltrim %s %d %d: %s", e.Key, e.Start, e.Stop, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "OutOfBounds", "IndexQuorumFailed", "IndexTimeout"))
}

// LLenErrorKind distinguishes Len failures. A missing index is not an
// error (Len returns zero).
type LLenErrorKind int

const (
	LLenQuorumFailed LLenErrorKind = iota
	LLenTimeout
)

type LLenError struct {
	Key  string
	Kind LLenErrorKind
}

func (e *LLenError) Error() string {
	return fmt.Sprintf("llen %s: %s", e.Key, listKindString(int(e.Kind), "QuorumFailed", "Timeout"))
}

// LCollectErrorKind distinguishes Collect failures.
type LCollectErrorKind int

const (
	LCollectKeyQuorumFailed LCollectErrorKind = iota
	LCollectKeyTimeout
	LCollectItemQuorumFailed
	LCollectItemTimeout
)

type LCollectError struct {
	Key  string
	Kind LCollectErrorKind
}

func (e *LCollectError) Error() string {
	return fmt.Sprintf("lcollect %s: %s", e.Key, listKindString(int(e.Kind),
		"KeyQuorumFailed", "KeyTimeout", "ItemQuorumFailed", "ItemTimeout"))
}

// LMoveErrorKind distinguishes Move/RPopLPush failures, composed from a
// Pop on the source list followed by a Push onto the destination.
type LMoveErrorKind int

const (
	LMoveSourceError LMoveErrorKind = iota
	LMoveDestError
)

type LMoveError struct {
	Source, Dest string
	Kind         LMoveErrorKind
	Cause        error
}

func (e *LMoveError) Error() string {
	if e.Kind == LMoveSourceError {
		return fmt.Sprintf("lmove %s -> %s: pop from source: %v", e.Source, e.Dest, e.Cause)
	}
	return fmt.Sprintf("lmove %s -> %s: push to destination: %v", e.Source, e.Dest, e.Cause)
}

func (e *LMoveError) Unwrap() error {
	return e.Cause
}

func listKindString(kind int, names ...string) string {
	if kind < 0 || kind >= len(names) {
		return "Unknown"
	}
	return names[kind]
}
