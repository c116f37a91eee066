package kadnet

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/flynn/noise"
)

// session wraps a net.Conn with a completed Noise XX handshake, giving the
// QUIC transport an encrypted, authenticated stream to exchange frames on.
// Grounded on the handshake shape in pkg/security/noiseik/protocol.go, but
// uses the XX pattern (neither side needs to know the other's static key
// ahead of time, matching an ephemeral-identity swarm with no admission
// control) instead of IK.
type session struct {
	conn net.Conn
	send *noise.CipherState
	recv *noise.CipherState
}

var cipherSuite = noise.NewCipherSuite(noise.DH25519, noise.CipherChaChaPoly, noise.HashBLAKE2b)

func newHandshakeState(staticPriv, staticPub []byte, initiator bool) (*noise.HandshakeState, error) {
	cfg := noise.Config{
		CipherSuite: cipherSuite,
		Random:      rand.Reader,
		Pattern:     noise.HandshakeXX,
		Initiator:   initiator,
		StaticKeypair: noise.DHKey{
			Private: staticPriv,
			Public:  staticPub,
		},
	}
	return noise.NewHandshakeState(cfg)
}

// dialSession performs the initiator side of the XX handshake over conn.
func dialSession(conn net.Conn, staticPriv, staticPub []byte) (*session, error) {
	hs, err := newHandshakeState(staticPriv, staticPub, true)
	if err != nil {
		return nil, fmt.Errorf("kadnet: init initiator handshake: %w", err)
	}

	// -> e
	msg1, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("kadnet: write handshake message 1: %w", err)
	}
	if err := writeFramed(conn, msg1); err != nil {
		return nil, err
	}

	// <- e, ee, s, es
	msg2, err := readFramed(conn)
	if err != nil {
		return nil, err
	}
	if _, _, _, err := hs.ReadMessage(nil, msg2); err != nil {
		return nil, fmt.Errorf("kadnet: read handshake message 2: %w", err)
	}

	// -> s, se
	msg3, cs1, cs2, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("kadnet: write handshake message 3: %w", err)
	}
	if err := writeFramed(conn, msg3); err != nil {
		return nil, err
	}

	return &session{conn: conn, send: cs1, recv: cs2}, nil
}

// acceptSession performs the responder side of the XX handshake over conn.
func acceptSession(conn net.Conn, staticPriv, staticPub []byte) (*session, error) {
	hs, err := newHandshakeState(staticPriv, staticPub, false)
	if err != nil {
		return nil, fmt.Errorf("kadnet: init responder handshake: %w", err)
	}

	msg1, err := readFramed(conn)
	if err != nil {
		return nil, err
	}
	if _, _, _, err := hs.ReadMessage(nil, msg1); err != nil {
		return nil, fmt.Errorf("kadnet: read handshake message 1: %w", err)
	}

	msg2, _, _, err := hs.WriteMessage(nil, nil)
	if err != nil {
		return nil, fmt.Errorf("kadnet: write handshake message 2: %w", err)
	}
	if err := writeFramed(conn, msg2); err != nil {
		return nil, err
	}

	msg3, err := readFramed(conn)
	if err != nil {
		return nil, err
	}
	_, cs1, cs2, err := hs.ReadMessage(nil, msg3)
	if err != nil {
		return nil, fmt.Errorf("kadnet: read handshake message 3: %w", err)
	}

	return &session{conn: conn, send: cs2, recv: cs1}, nil
}

func (s *session) writeFrame(plaintext []byte) error {
	ct := s.send.Encrypt(nil, nil, plaintext)
	return writeFramed(s.conn, ct)
}

func (s *session) readFrame() ([]byte, error) {
	ct, err := readFramed(s.conn)
	if err != nil {
		return nil, err
	}
	return s.recv.Decrypt(nil, nil, ct)
}

// writeFramed/readFramed implement a simple 4-byte big-endian length prefix
// around a payload.
func writeFramed(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("kadnet: write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("kadnet: write frame payload: %w", err)
	}
	return nil
}

func readFramed(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("kadnet: read frame length: %w", err)
	}
	payload := make([]byte, binary.BigEndian.Uint32(lenBuf[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("kadnet: read frame payload: %w", err)
	}
	return payload, nil
}
