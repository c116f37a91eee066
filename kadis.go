// Package kadis exposes a Redis-style hash/list key-value API backed by a
// Kademlia distributed hash table instead of a single in-memory server.
package kadis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/giraffekey/kadis/internal/kadnet"
	"github.com/giraffekey/kadis/pkg/hashcmd"
	"github.com/giraffekey/kadis/pkg/identity"
	"github.com/giraffekey/kadis/pkg/listcmd"
	"github.com/giraffekey/kadis/pkg/node"
	"github.com/giraffekey/kadis/pkg/valuecodec"
)

const defaultCacheLifetimeSecs = 60

// Builder configures a Kadis instance before it joins the mesh.
type Builder struct {
	bootstraps    []string
	port          uint16
	cacheLifetime uint64
	codec         valuecodec.Codec
	logger        *zap.Logger
}

// NewBuilder returns a Builder with Kadis's defaults: no bootstraps (a
// fresh standalone mesh), port 0 (let the OS choose), a 60 second cache
// lifetime and the reference binary value codec.
func NewBuilder() *Builder {
	return &Builder{
		cacheLifetime: defaultCacheLifetimeSecs,
		codec:         valuecodec.NewBinaryCodec(),
	}
}

// Bootstraps sets the peers dialed on startup to join an existing mesh.
func (b *Builder) Bootstraps(addrs []string) *Builder {
	b.bootstraps = addrs
	return b
}

// Port sets the local listen port.
func (b *Builder) Port(port uint16) *Builder {
	b.port = port
	return b
}

// CacheLifetime sets how often, in seconds, the read cache is cleared.
func (b *Builder) CacheLifetime(secs uint64) *Builder {
	b.cacheLifetime = secs
	return b
}

// Codec overrides the reference value codec.
func (b *Builder) Codec(c valuecodec.Codec) *Builder {
	b.codec = c
	return b
}

// Logger sets the structured logger used for lifecycle and DHT events.
func (b *Builder) Logger(logger *zap.Logger) *Builder {
	b.logger = logger
	return b
}

// Init generates a fresh identity, starts the QUIC transport listening on
// Port and dials every bootstrap, and returns a ready-to-use Kadis handle.
func (b *Builder) Init(ctx context.Context) (*Kadis, error) {
	id, err := identity.Generate()
	if err != nil {
		return nil, fmt.Errorf("kadis: generate identity: %w", err)
	}

	listenAddr := fmt.Sprintf("0.0.0.0:%d", b.port)
	transport, err := kadnet.NewQUICTransport(listenAddr, b.bootstraps, b.logger)
	if err != nil {
		return nil, fmt.Errorf("kadis: create transport: %w", err)
	}

	n, err := node.New(ctx, transport, node.Config{
		CacheLifetime: secondsToDuration(b.cacheLifetime),
		Logger:        b.logger,
		HasBootstraps: len(b.bootstraps) > 0,
	})
	if err != nil {
		return nil, fmt.Errorf("kadis: start node: %w", err)
	}

	return &Kadis{
		node:  n,
		hash:  hashcmd.New(n),
		list:  listcmd.New(n),
		codec: b.codec,
		id:    id,
	}, nil
}

// InitInMemory is the in-process counterpart of Init, backed by a shared
// kadnet.MemoryRegistry rather than real networking. Intended for tests and
// single-process demos.
func InitInMemory(ctx context.Context, label string, registry *kadnet.MemoryRegistry, b *Builder) (*Kadis, error) {
	if b == nil {
		b = NewBuilder()
	}

	id, err := identity.Generate()
	if err != nil {
		return nil, fmt.Errorf("kadis: generate identity: %w", err)
	}

	transport := kadnet.NewMemoryTransport(label, registry)
	n, err := node.New(ctx, transport, node.Config{
		CacheLifetime: secondsToDuration(b.cacheLifetime),
		Logger:        b.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("kadis: start node: %w", err)
	}

	return &Kadis{
		node:  n,
		hash:  hashcmd.New(n),
		list:  listcmd.New(n),
		codec: b.codec,
		id:    id,
	}, nil
}

// Kadis is a handle to a running Kadis node, exposing the hash and list
// commands over a pluggable value codec.
type Kadis struct {
	node  *node.Node
	hash  *hashcmd.Translator
	list  *listcmd.Translator
	codec valuecodec.Codec
	id    *identity.Identity
}

// Close stops the underlying node and its transport.
func (k *Kadis) Close() {
	k.node.Close()
}

// Identity returns this instance's peer identity.
func (k *Kadis) Identity() *identity.Identity {
	return k.id
}

func (k *Kadis) encode(v interface{}) ([]byte, error) {
	return k.codec.Encode(v)
}

func (k *Kadis) decode(data []byte, v interface{}) error {
	return k.codec.Decode(data, v)
}

// --- hash commands ---

func (k *Kadis) HDel(key string, fields ...string) error {
	return k.hash.Del(key, fields)
}

func (k *Kadis) HExists(key, field string) (bool, error) {
	return k.hash.Exists(key, field)
}

func (k *Kadis) HGet(key, field string, out interface{}) error {
	raw, err := k.hash.Get(key, field)
	if err != nil {
		return err
	}
	return k.decode(raw, out)
}

func (k *Kadis) HGetAll(key string, factory func() interface{}) (map[string]interface{}, error) {
	raw, err := k.hash.GetAll(key)
	if err != nil {
		return nil, err
	}
	out := make(map[string]interface{}, len(raw))
	for field, data := range raw {
		v := factory()
		if err := k.decode(data, v); err != nil {
			return nil, err
		}
		out[field] = v
	}
	return out, nil
}

func (k *Kadis) HKeys(key string) ([]string, error) {
	return k.hash.Keys(key)
}

func (k *Kadis) HLen(key string) (int, error) {
	return k.hash.Len(key)
}

func (k *Kadis) HSet(key, field string, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.hash.Set(key, field, data)
}

func (k *Kadis) HSetNx(key, field string, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.hash.SetNx(key, field, data)
}

// HIncr increments field by delta, an integer widened to float32.
func (k *Kadis) HIncr(key, field string, delta int64) error {
	return k.hash.Incr(key, field, float32(delta))
}

// HIncrFloat increments field by a float32 delta directly.
func (k *Kadis) HIncrFloat(key, field string, delta float32) error {
	return k.hash.Incr(key, field, delta)
}

// HVals returns the decoded value of every field in key, in the same order
// as HKeys.
func (k *Kadis) HVals(key string, factory func() interface{}) ([]interface{}, error) {
	raws, err := k.hash.Vals(key)
	if err != nil {
		return nil, err
	}
	return k.decodeAll(raws, factory)
}

// HSetMultiple sets every field in fields on key.
func (k *Kadis) HSetMultiple(key string, fields map[string]interface{}) error {
	names := make([]string, 0, len(fields))
	values := make([][]byte, 0, len(fields))
	for field, value := range fields {
		data, err := k.encode(value)
		if err != nil {
			return err
		}
		names = append(names, field)
		values = append(values, data)
	}
	return k.hash.SetM(key, names, values)
}

// --- list commands ---

func (k *Kadis) LPush(key string, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.list.Push(key, data, false)
}

func (k *Kadis) RPush(key string, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.list.Push(key, data, true)
}

func (k *Kadis) LPushX(key string, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.list.PushX(key, data, false)
}

func (k *Kadis) RPushX(key string, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.list.PushX(key, data, true)
}

func (k *Kadis) LPop(key string, out interface{}) error {
	raw, err := k.list.Pop(key, false)
	if err != nil {
		return err
	}
	return k.decode(raw, out)
}

func (k *Kadis) RPop(key string, out interface{}) error {
	raw, err := k.list.Pop(key, true)
	if err != nil {
		return err
	}
	return k.decode(raw, out)
}

func (k *Kadis) LIndex(key string, index int, out interface{}) error {
	raw, err := k.list.Index(key, index)
	if err != nil {
		return err
	}
	return k.decode(raw, out)
}

func (k *Kadis) LInsertBefore(key string, index int, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.list.Insert(key, index, data, false)
}

func (k *Kadis) LInsertAfter(key string, index int, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.list.Insert(key, index, data, true)
}

func (k *Kadis) LLen(key string) (int, error) {
	return k.list.Len(key)
}

func (k *Kadis) LRange(key string, start, stop int, factory func() interface{}) ([]interface{}, error) {
	raws, err := k.list.Range(key, start, stop)
	if err != nil {
		return nil, err
	}
	return k.decodeAll(raws, factory)
}

func (k *Kadis) LRem(key string, index int, out interface{}) error {
	raw, err := k.list.Rem(key, index)
	if err != nil {
		return err
	}
	return k.decode(raw, out)
}

func (k *Kadis) LSet(key string, index int, value interface{}) error {
	data, err := k.encode(value)
	if err != nil {
		return err
	}
	return k.list.Set(key, index, data)
}

func (k *Kadis) LTrim(key string, start, stop int) error {
	return k.list.Trim(key, start, stop)
}

// LPos finds the rank-th match of probe in key; rank must not be zero.
func (k *Kadis) LPos(key string, probe interface{}, rank int) (*int, error) {
	data, err := k.encode(probe)
	if err != nil {
		return nil, err
	}
	return k.list.Pos(key, data, rank)
}

func (k *Kadis) LCollect(key string, factory func() interface{}) ([]interface{}, error) {
	raws, err := k.list.Collect(key)
	if err != nil {
		return nil, err
	}
	return k.decodeAll(raws, factory)
}

func (k *Kadis) RPopLPush(src, dst string, out interface{}) error {
	raw, err := k.list.RPopLPush(src, dst)
	if err != nil {
		return err
	}
	return k.decode(raw, out)
}

func (k *Kadis) decodeAll(raws [][]byte, factory func() interface{}) ([]interface{}, error) {
	out := make([]interface{}, 0, len(raws))
	for _, raw := range raws {
		v := factory()
		if err := k.decode(raw, v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func secondsToDuration(secs uint64) time.Duration {
	return time.Duration(secs) * time.Second
}
