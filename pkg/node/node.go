// Package node implements a synchronous-looking Get/Put/Remove API over an
// event-driven kadnet.Transport, with completion correlation and a
// short-TTL read cache.
package node

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/giraffekey/kadis/internal/kadnet"
)

const defaultBootstrapWarmup = 100 * time.Millisecond

// Node is the façade the hash/list command translators are built on:
// cache-first get, quorum-one reads and writes, unexpiring puts, and a
// channel-based completion-correlation primitive in place of a busy-poll
// wait loop.
type Node struct {
	transport kadnet.Transport
	cache     *readCache
	logger    *zap.Logger

	mu         sync.Mutex
	pendingGet map[string]chan kadnet.Event
	pendingPut map[string]chan kadnet.Event

	cancel context.CancelFunc
	pumpWG sync.WaitGroup
}

// Config configures a Node.
type Config struct {
	// CacheLifetime is how often the read cache is cleared wholesale.
	// Defaults to 60 seconds.
	CacheLifetime time.Duration
	Logger        *zap.Logger

	// HasBootstraps, when true, makes New sleep briefly after starting the
	// transport to let initial dials progress. A pragmatic warm-up, not a
	// correctness requirement.
	HasBootstraps bool
}

// New constructs a Node over transport, starting its event pump and cache
// eviction loop as background goroutines.
func New(ctx context.Context, transport kadnet.Transport, cfg Config) (*Node, error) {
	if cfg.CacheLifetime <= 0 {
		cfg.CacheLifetime = 60 * time.Second
	}

	runCtx, cancel := context.WithCancel(ctx)

	if err := transport.Start(runCtx); err != nil {
		cancel()
		return nil, err
	}

	n := &Node{
		transport:  transport,
		cache:      newReadCache(cfg.CacheLifetime),
		logger:     cfg.Logger,
		pendingGet: make(map[string]chan kadnet.Event),
		pendingPut: make(map[string]chan kadnet.Event),
		cancel:     cancel,
	}

	n.cache.start()

	n.pumpWG.Add(1)
	go n.pump()

	if cfg.HasBootstraps {
		time.Sleep(defaultBootstrapWarmup)
	}

	if n.logger != nil {
		n.logger.Info("node started")
	}

	return n, nil
}

// pump is the event loop: it reads transport completions and resolves the
// matching pending request's channel. Runs for the Node's lifetime.
func (n *Node) pump() {
	defer n.pumpWG.Done()

	for ev := range n.transport.Events() {
		switch ev.Kind {
		case kadnet.EventGetFound, kadnet.EventGetNotFound, kadnet.EventGetQuorumFailed, kadnet.EventGetTimeout:
			n.resolve(n.pendingGet, ev)
		case kadnet.EventPutOk, kadnet.EventPutQuorumFailed, kadnet.EventPutTimeout:
			n.resolve(n.pendingPut, ev)
		}

		if n.logger != nil {
			n.logger.Info("dht event", zap.Int("kind", int(ev.Kind)), zap.String("key", ev.Key))
		}
	}
}

// resolve delivers ev to the channel waiting on ev.Key, if any, then clears
// the slot — consume-on-observe. The map lock is held only for the
// lookup/delete, never across the send.
func (n *Node) resolve(pending map[string]chan kadnet.Event, ev kadnet.Event) {
	n.mu.Lock()
	ch, ok := pending[ev.Key]
	if ok {
		delete(pending, ev.Key)
	}
	n.mu.Unlock()

	if ok {
		ch <- ev
	}
}

func (n *Node) register(pending map[string]chan kadnet.Event, key string) chan kadnet.Event {
	ch := make(chan kadnet.Event, 1)
	n.mu.Lock()
	pending[key] = ch
	n.mu.Unlock()
	return ch
}

// Get returns the value at key. A cache hit short-circuits; otherwise it
// submits a quorum-one get and awaits the correlated completion.
func (n *Node) Get(key string) ([]byte, error) {
	if v, ok := n.cache.get(key); ok {
		return v, nil
	}

	ch := n.register(n.pendingGet, key)
	n.transport.SubmitGet(key)
	ev := <-ch

	switch ev.Kind {
	case kadnet.EventGetFound:
		n.cache.put(key, ev.Value)
		return ev.Value, nil
	case kadnet.EventGetNotFound:
		return nil, &GetError{Key: key, Kind: GetNotFound}
	case kadnet.EventGetQuorumFailed:
		return nil, &GetError{Key: key, Kind: GetQuorumFailed}
	default:
		return nil, &GetError{Key: key, Kind: GetTimeout}
	}
}

// Put stores an unexpiring record at key with quorum one.
func (n *Node) Put(key string, value []byte) error {
	ch := n.register(n.pendingPut, key)
	n.transport.SubmitPut(key, value)
	ev := <-ch

	switch ev.Kind {
	case kadnet.EventPutOk:
		n.cache.put(key, value)
		return nil
	case kadnet.EventPutQuorumFailed:
		return &PutError{Key: key, Kind: PutQuorumFailed}
	default:
		return &PutError{Key: key, Kind: PutTimeout}
	}
}

// Remove issues a fire-and-forget removal hint and evicts key from cache.
// It does not await a completion; the transport contract defines none.
func (n *Node) Remove(key string) {
	n.transport.SubmitRemove(key)
	n.cache.evict(key)
}

// Close stops the transport, the event pump and the cache eviction loop.
func (n *Node) Close() {
	n.cancel()
	_ = n.transport.Stop()
	n.pumpWG.Wait()
	n.cache.close()
}
