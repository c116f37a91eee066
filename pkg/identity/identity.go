// Package identity generates the ephemeral per-process keypair that
// identifies a Kadis node: a fresh Ed25519 keypair and a peer identifier
// derived from it. DHT writes are not signed with it. There is no honeytag/BeeQuint encoding, X25519 key
// agreement, or human-readable handle here — none of that has a
// counterpart in a hash/list DHT library.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	"lukechampine.com/blake3"
)

// Identity is a Kadis node's ephemeral signing keypair.
type Identity struct {
	PublicKey  ed25519.PublicKey
	PrivateKey ed25519.PrivateKey

	peerID string
}

// Generate creates a fresh identity. Called once per process; identities
// are not persisted across restarts.
func Generate() (*Identity, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("identity: generate Ed25519 keypair: %w", err)
	}
	id := &Identity{PublicKey: pub, PrivateKey: priv}
	id.peerID = id.computePeerID()
	return id, nil
}

// PeerID returns a stable, human-printable identifier for this identity,
// derived by hashing the public key with BLAKE3 (the same primitive the
// DHT layer uses to place keys in the routing table).
func (id *Identity) PeerID() string {
	if id.peerID == "" {
		id.peerID = id.computePeerID()
	}
	return id.peerID
}

func (id *Identity) computePeerID() string {
	hash := blake3.Sum256(id.PublicKey)
	return fmt.Sprintf("%x", hash[:16])
}

// Sign signs data with the identity's private key.
func (id *Identity) Sign(data []byte) []byte {
	return ed25519.Sign(id.PrivateKey, data)
}

// Verify checks a signature produced by Sign against the given public key.
func Verify(publicKey ed25519.PublicKey, data, sig []byte) bool {
	return ed25519.Verify(publicKey, data, sig)
}
