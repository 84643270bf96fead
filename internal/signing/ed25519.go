package signing

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"
)

// Ed25519Scheme signs raw messages with Ed25519. Public keys travel as the
// 32 raw key bytes.
type Ed25519Scheme struct{}

func (Ed25519Scheme) Name() string { return "ed25519" }

func (Ed25519Scheme) Generate() (Signer, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Ed25519 key: %w", err)
	}
	return &ed25519Signer{key: priv, pub: pub}, nil
}

func (Ed25519Scheme) Verify(pub, sig []byte, message string) bool {
	// ed25519.Verify panics on a key of the wrong size; fail closed instead.
	if len(pub) != ed25519.PublicKeySize {
		return false
	}
	return ed25519.Verify(ed25519.PublicKey(pub), []byte(message), sig)
}

type ed25519Signer struct {
	key ed25519.PrivateKey
	pub ed25519.PublicKey
}

func (s *ed25519Signer) Public() []byte {
	return s.pub
}

func (s *ed25519Signer) Sign(message string) ([]byte, error) {
	return ed25519.Sign(s.key, []byte(message)), nil
}
