// Package signing provides the digital signature capability consumed by
// callers before a transaction payload is placed into a block. The chain
// structures never depend on a specific cryptosystem; each scheme variant
// implements the same sign/verify contract behind the Scheme interface.
package signing

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/exp/maps"
)

// Signer is a private-key capability bound to one key pair. Key material
// stays with the caller; the ledger only ever sees payloads and signatures.
type Signer interface {
	// Public returns the marshaled public key paired with this signer.
	Public() []byte
	// Sign authenticates exactly message under the paired public key.
	Sign(message string) ([]byte, error)
}

// Scheme is one signature scheme variant. Verify treats failures as data:
// it returns false for a mismatched key, a tampered message, or malformed
// key or signature bytes, and never panics past this boundary.
type Scheme interface {
	Name() string
	Generate() (Signer, error)
	Verify(pub, sig []byte, message string) bool
}

var schemes = map[string]Scheme{
	RSAScheme{}.Name():     RSAScheme{},
	Ed25519Scheme{}.Name(): Ed25519Scheme{},
}

// Lookup returns the scheme registered under name.
func Lookup(name string) (Scheme, error) {
	scheme, ok := schemes[name]
	if !ok {
		return nil, fmt.Errorf("unknown signature scheme: %s. Valid schemes are: %s", name, Names())
	}
	return scheme, nil
}

// Names lists the registered scheme names, sorted, pipe-separated.
func Names() string {
	names := maps.Keys(schemes)
	slices.Sort(names)
	return strings.Join(names, "|")
}
