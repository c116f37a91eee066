package kadnet

import (
	"context"
	"crypto/rand"
	"crypto/tls"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/flynn/noise"
	"github.com/quic-go/quic-go"
	"go.uber.org/zap"
)

// requestTimeout bounds how long a get/put waits for a peer response before
// the façade is told Timeout.
const requestTimeout = 5 * time.Second

// peerStaleTimeout is how long a routing table entry can go untouched
// before staleSweepLoop evicts it in favor of its replacement-cache
// contender, if any.
const peerStaleTimeout = 15 * time.Minute

// staleSweepInterval is how often staleSweepLoop runs.
const staleSweepInterval = 5 * time.Minute

// QUICTransport is the real network Transport: QUIC streams carrying
// Noise-XX-encrypted, CBOR-framed messages between peers, with a Kademlia
// routing table used to pick the believed-closest peer for each key.
// Grounded on pkg/transport/quic/quic.go for the listener/dial shape; the
// teacher's own internal/dht.iterativeGet never implements more than a
// stub ("currently just returns not found") — this fills that gap with a
// one-hop route-to-closest-known-peer resolution, falling back to local
// storage when no peer is closer than self.
type QUICTransport struct {
	id         NodeID
	listenAddr string
	bootstraps []string
	logger     *zap.Logger

	noiseStatic noise.DHKey

	routing *RoutingTable

	storeMu sync.RWMutex
	store   map[string][]byte

	limiter *peerRateLimiter

	listener *quic.Listener
	peerAddr map[NodeID]string // known dial address per peer, keyed by NodeID

	events chan Event

	seqMu sync.Mutex
	seq   uint64

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewQUICTransport creates a transport listening on listenAddr (host:port,
// port 0 for an ephemeral port) that will dial bootstraps on Start.
func NewQUICTransport(listenAddr string, bootstraps []string, logger *zap.Logger) (*QUICTransport, error) {
	staticPriv, staticPub, err := generateNoiseKeypair()
	if err != nil {
		return nil, fmt.Errorf("kadnet: generate noise keypair: %w", err)
	}

	id := NewNodeID(staticPub)

	return &QUICTransport{
		id:          id,
		listenAddr:  listenAddr,
		bootstraps:  bootstraps,
		logger:      logger,
		noiseStatic: noise.DHKey{Private: staticPriv, Public: staticPub},
		routing:     NewRoutingTable(id),
		store:       make(map[string][]byte),
		peerAddr:    make(map[NodeID]string),
		limiter:     newPeerRateLimiter(20, 30*time.Second, 10*time.Minute),
		events:      make(chan Event, 64),
	}, nil
}

func generateNoiseKeypair() (priv, pub []byte, err error) {
	dh := noise.DH25519
	kp, err := dh.GenerateKeypair(rand.Reader)
	if err != nil {
		return nil, nil, err
	}
	return kp.Private, kp.Public, nil
}

func (t *QUICTransport) ID() NodeID { return t.id }

func (t *QUICTransport) Start(ctx context.Context) error {
	t.ctx, t.cancel = context.WithCancel(ctx)

	tlsConf, err := selfSignedTLSConfig()
	if err != nil {
		return fmt.Errorf("kadnet: build TLS config: %w", err)
	}

	ln, err := quic.ListenAddr(t.listenAddr, tlsConf, &quic.Config{
		MaxIdleTimeout:  5 * time.Minute,
		KeepAlivePeriod: 30 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("kadnet: listen on %s: %w", t.listenAddr, err)
	}
	t.listener = ln

	if t.logger != nil {
		t.logger.Info("kadnet listening", zap.String("addr", ln.Addr().String()), zap.String("node_id", t.id.String()))
	}

	t.wg.Add(1)
	go t.acceptLoop()

	t.wg.Add(1)
	go t.staleSweepLoop()

	for _, addr := range t.bootstraps {
		t.wg.Add(1)
		go t.bootstrap(addr)
	}

	return nil
}

// staleSweepLoop periodically evicts routing table entries that haven't
// answered a request or been reconfirmed via bootstrap in peerStaleTimeout,
// promoting each bucket's most recent replacement-cache contender in their
// place.
func (t *QUICTransport) staleSweepLoop() {
	defer t.wg.Done()

	ticker := time.NewTicker(staleSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-t.ctx.Done():
			return
		case <-ticker.C:
			evicted := t.routing.RemoveStale(peerStaleTimeout)
			if evicted > 0 && t.logger != nil {
				t.logger.Info("evicted stale routing table peers",
					zap.Int("evicted", evicted),
					zap.Int("routing_table_size", t.routing.Size()))
			}
		}
	}
}

func (t *QUICTransport) Stop() error {
	if t.cancel != nil {
		t.cancel()
	}
	if t.listener != nil {
		_ = t.listener.Close()
	}
	t.wg.Wait()
	close(t.events)
	return nil
}

func (t *QUICTransport) Events() <-chan Event { return t.events }

func (t *QUICTransport) nextSeq() uint64 {
	t.seqMu.Lock()
	defer t.seqMu.Unlock()
	t.seq++
	return t.seq
}

// SubmitGet resolves the believed-closest peer for key and either answers
// from local storage or queries that peer over the network.
func (t *QUICTransport) SubmitGet(key string) {
	go func() {
		target := NewNodeID([]byte(key))
		peer := t.closestPeer(target)

		if peer == nil {
			t.storeMu.RLock()
			value, ok := t.store[key]
			t.storeMu.RUnlock()
			if ok {
				t.events <- Event{Kind: EventGetFound, Key: key, Value: value}
			} else {
				t.events <- Event{Kind: EventGetNotFound, Key: key}
			}
			return
		}

		frame := newFrame(KindGetRequest, t.id.String(), t.nextSeq(), GetRequestBody{Key: key})
		resp, err := t.roundTrip(peer, frame)
		if err != nil {
			t.events <- Event{Kind: EventGetTimeout, Key: key}
			return
		}

		body, err := decodeBody[GetResponseBody](resp)
		if err != nil {
			t.events <- Event{Kind: EventGetTimeout, Key: key}
			return
		}
		if body.Found {
			t.events <- Event{Kind: EventGetFound, Key: key, Value: body.Value}
		} else {
			t.events <- Event{Kind: EventGetNotFound, Key: key}
		}
	}()
}

// SubmitPut stores an unexpiring record. Quorum one is satisfied as soon as
// the believed-closest holder (possibly self) has acknowledged the write.
func (t *QUICTransport) SubmitPut(key string, value []byte) {
	go func() {
		target := NewNodeID([]byte(key))
		peer := t.closestPeer(target)

		if peer == nil {
			t.storeMu.Lock()
			t.store[key] = value
			t.storeMu.Unlock()
			t.events <- Event{Kind: EventPutOk, Key: key}
			return
		}

		frame := newFrame(KindPutRequest, t.id.String(), t.nextSeq(), PutRequestBody{Key: key, Value: value})
		resp, err := t.roundTrip(peer, frame)
		if err != nil {
			t.events <- Event{Kind: EventPutTimeout, Key: key}
			return
		}

		body, err := decodeBody[PutResponseBody](resp)
		if err != nil || !body.Ok {
			t.events <- Event{Kind: EventPutQuorumFailed, Key: key}
			return
		}
		t.events <- Event{Kind: EventPutOk, Key: key}
	}()
}

func (t *QUICTransport) SubmitRemove(key string) {
	go func() {
		target := NewNodeID([]byte(key))
		peer := t.closestPeer(target)

		if peer == nil {
			t.storeMu.Lock()
			delete(t.store, key)
			t.storeMu.Unlock()
			return
		}

		frame := newFrame(KindRemove, t.id.String(), t.nextSeq(), RemoveBody{Key: key})
		data, err := frame.Marshal()
		if err != nil {
			return
		}
		conn, err := t.dial(peer.Addr)
		if err != nil {
			return
		}
		defer conn.CloseWithError(0, "")
		stream, err := conn.OpenStreamSync(t.ctx)
		if err != nil {
			return
		}
		defer stream.Close()
		sess, err := dialSession(quicStreamConn{stream, conn}, t.noiseStatic.Private, t.noiseStatic.Public)
		if err != nil {
			return
		}
		_ = sess.writeFrame(data)
	}()
}

// closestPeer returns the known peer closest to target, or nil if self is
// strictly closer than every peer currently in the routing table, meaning
// the local node is responsible for the key.
func (t *QUICTransport) closestPeer(target NodeID) *Peer {
	candidates := t.routing.Closest(target, 1)
	if len(candidates) == 0 {
		return nil
	}
	best := candidates[0]
	if t.id.Distance(target).Less(best.ID.Distance(target)) {
		return nil
	}
	return best
}

func (t *QUICTransport) roundTrip(peer *Peer, frame *Frame) (*Frame, error) {
	data, err := frame.Marshal()
	if err != nil {
		return nil, err
	}

	conn, err := t.dial(peer.Addr)
	if err != nil {
		return nil, err
	}
	defer conn.CloseWithError(0, "")

	stream, err := conn.OpenStreamSync(t.ctx)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	sess, err := dialSession(quicStreamConn{stream, conn}, t.noiseStatic.Private, t.noiseStatic.Public)
	if err != nil {
		return nil, err
	}

	if err := sess.writeFrame(data); err != nil {
		return nil, err
	}

	stream.SetReadDeadline(time.Now().Add(requestTimeout))
	respData, err := sess.readFrame()
	if err != nil {
		return nil, err
	}

	resp := &Frame{}
	if err := resp.Unmarshal(respData); err != nil {
		return nil, err
	}
	peer.touch()
	t.routing.Add(peer)
	return resp, nil
}

func (t *QUICTransport) dial(addr string) (quic.Connection, error) {
	ctx, cancel := context.WithTimeout(t.ctx, requestTimeout)
	defer cancel()
	return quic.DialAddr(ctx, addr, &tls.Config{InsecureSkipVerify: true, NextProtos: []string{"kadis/1"}}, &quic.Config{
		MaxIdleTimeout: 5 * time.Minute,
	})
}

func (t *QUICTransport) acceptLoop() {
	defer t.wg.Done()
	for {
		conn, err := t.listener.Accept(t.ctx)
		if err != nil {
			return
		}
		t.wg.Add(1)
		go t.handleConn(conn)
	}
}

func (t *QUICTransport) handleConn(conn quic.Connection) {
	defer t.wg.Done()
	defer conn.CloseWithError(0, "")

	if !t.limiter.allow(conn.RemoteAddr().String()) {
		if t.logger != nil {
			t.logger.Warn("rate limited peer connection", zap.String("addr", conn.RemoteAddr().String()))
		}
		conn.CloseWithError(1, "rate limited")
		return
	}

	for {
		stream, err := conn.AcceptStream(t.ctx)
		if err != nil {
			return
		}
		t.wg.Add(1)
		go t.handleStream(stream, conn)
	}
}

func (t *QUICTransport) handleStream(stream quic.Stream, conn quic.Connection) {
	defer t.wg.Done()
	defer stream.Close()

	sess, err := acceptSession(quicStreamConn{stream, conn}, t.noiseStatic.Private, t.noiseStatic.Public)
	if err != nil {
		return
	}

	data, err := sess.readFrame()
	if err != nil {
		return
	}

	req := &Frame{}
	if err := req.Unmarshal(data); err != nil {
		return
	}

	resp := t.handleFrame(req)
	if resp == nil {
		return
	}
	out, err := resp.Marshal()
	if err != nil {
		return
	}
	_ = sess.writeFrame(out)
}

func (t *QUICTransport) handleFrame(req *Frame) *Frame {
	switch req.Kind {
	case KindGetRequest:
		body, err := decodeBody[GetRequestBody](req)
		if err != nil {
			return nil
		}
		t.storeMu.RLock()
		value, ok := t.store[body.Key]
		t.storeMu.RUnlock()
		return newFrame(KindGetResponse, t.id.String(), req.Seq, GetResponseBody{Key: body.Key, Found: ok, Value: value})

	case KindPutRequest:
		body, err := decodeBody[PutRequestBody](req)
		if err != nil {
			return nil
		}
		t.storeMu.Lock()
		t.store[body.Key] = body.Value
		t.storeMu.Unlock()
		return newFrame(KindPutResponse, t.id.String(), req.Seq, PutResponseBody{Key: body.Key, Ok: true})

	case KindRemove:
		body, err := decodeBody[RemoveBody](req)
		if err != nil {
			return nil
		}
		t.storeMu.Lock()
		delete(t.store, body.Key)
		t.storeMu.Unlock()
		return nil

	case KindPing:
		body, err := decodeBody[PingBody](req)
		if err != nil {
			return nil
		}
		return newFrame(KindPong, t.id.String(), req.Seq, PongBody{Token: body.Token})

	case KindFindNode:
		body, err := decodeBody[FindNodeBody](req)
		if err != nil {
			return nil
		}
		var target NodeID
		if _, err := fmt.Sscanf(body.Target, "%x", &target); err != nil {
			return nil
		}
		peers := t.routing.Closest(target, BucketSize)
		wire := make([]WirePeer, len(peers))
		for i, p := range peers {
			wire[i] = WirePeer{ID: p.ID.String(), Addr: p.Addr}
		}
		return newFrame(KindFindNodeResponse, t.id.String(), req.Seq, FindNodeResponseBody{Peers: wire})
	}
	return nil
}

func (t *QUICTransport) bootstrap(addr string) {
	defer t.wg.Done()
	conn, err := t.dial(addr)
	if err != nil {
		if t.logger != nil {
			t.logger.Warn("bootstrap dial failed", zap.String("addr", addr), zap.Error(err))
		}
		return
	}
	defer conn.CloseWithError(0, "")

	stream, err := conn.OpenStreamSync(t.ctx)
	if err != nil {
		return
	}
	defer stream.Close()

	sess, err := dialSession(quicStreamConn{stream, conn}, t.noiseStatic.Private, t.noiseStatic.Public)
	if err != nil {
		return
	}

	req := newFrame(KindFindNode, t.id.String(), t.nextSeq(), FindNodeBody{Target: t.id.String()})
	data, err := req.Marshal()
	if err != nil {
		return
	}
	if err := sess.writeFrame(data); err != nil {
		return
	}

	respData, err := sess.readFrame()
	if err != nil {
		return
	}
	resp := &Frame{}
	if err := resp.Unmarshal(respData); err != nil {
		return
	}
	body, err := decodeBody[FindNodeResponseBody](resp)
	if err != nil {
		return
	}

	t.routing.Add(&Peer{ID: t.id, Addr: addr, LastSeen: time.Now()})
	for _, wp := range body.Peers {
		var id NodeID
		if _, err := fmt.Sscanf(wp.ID, "%x", &id); err != nil {
			continue
		}
		t.routing.Add(&Peer{ID: id, Addr: wp.Addr, LastSeen: time.Now()})
	}
}

// quicStreamConn adapts a quic.Stream (plus its parent connection, for
// addressing) to net.Conn so Noise framing helpers can use plain io
// primitives.
type quicStreamConn struct {
	quic.Stream
	conn quic.Connection
}

func (c quicStreamConn) LocalAddr() net.Addr  { return c.conn.LocalAddr() }
func (c quicStreamConn) RemoteAddr() net.Addr { return c.conn.RemoteAddr() }

// selfSignedTLSConfig builds an ephemeral TLS certificate for the QUIC
// listener. Session security is provided by the Noise XX layer on top;
// QUIC/TLS here only needs to satisfy quic-go's requirement for a
// certificate.
func selfSignedTLSConfig() (*tls.Config, error) {
	cert, err := generateSelfSignedCert()
	if err != nil {
		return nil, err
	}
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		NextProtos:   []string{"kadis/1"},
	}, nil
}
