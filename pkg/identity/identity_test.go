package identity

import (
	"crypto/ed25519"
	"testing"
)

func TestGenerate(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if len(id.PublicKey) != ed25519.PublicKeySize {
		t.Errorf("public key size = %d, want %d", len(id.PublicKey), ed25519.PublicKeySize)
	}
	if len(id.PrivateKey) != ed25519.PrivateKeySize {
		t.Errorf("private key size = %d, want %d", len(id.PrivateKey), ed25519.PrivateKeySize)
	}

	if id.PeerID() == "" {
		t.Error("PeerID should not be empty")
	}
}

func TestGenerateIsUnique(t *testing.T) {
	a, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	b, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if a.PeerID() == b.PeerID() {
		t.Error("two independently generated identities produced the same peer id")
	}
}

func TestSignVerifyRoundTrip(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	message := []byte("kh-fields-cats")
	sig := id.Sign(message)

	if !Verify(id.PublicKey, message, sig) {
		t.Error("Verify failed for a valid signature")
	}
	if Verify(id.PublicKey, []byte("different message"), sig) {
		t.Error("Verify should reject a signature over the wrong message")
	}
}

func TestPeerIDStable(t *testing.T) {
	id, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	first := id.PeerID()
	second := id.PeerID()
	if first != second {
		t.Errorf("PeerID not stable across calls: %q != %q", first, second)
	}
}
