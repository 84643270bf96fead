package ledger

import (
	"crypto/sha256"
	"encoding/hex"
)

// Sum returns the hex-encoded SHA-256 digest of data. Every hash in the
// ledger (Merkle leaves and nodes, block seals) routes through this single
// primitive so results stay comparable across components.
func Sum(data string) string {
	digest := sha256.Sum256([]byte(data))
	return hex.EncodeToString(digest[:])
}
