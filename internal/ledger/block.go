package ledger

import (
	"context"
	"fmt"
	"strings"
)

// Block is a single entry in the chain. It commits to its ordered
// transaction payloads through the Merkle root and to its predecessor
// through PrevHash; Nonce and Hash are populated by the seal.
type Block struct {
	Index        uint64   `json:"index"`
	Timestamp    int64    `json:"timestamp"`
	Transactions []string `json:"transactions"`
	PrevHash     string   `json:"prev_hash"`
	MerkleRoot   string   `json:"merkle_root"`
	Nonce        uint64   `json:"nonce"`
	Hash         string   `json:"hash"`
}

// NewBlock builds a fully sealed block: it captures a timestamp from clock,
// commits to the transactions via their Merkle root, and runs the
// proof-of-work search. The transaction slice is copied, so the block owns
// its payloads exclusively.
//
// PrevHash may be provisional; Chain.Add re-links and re-seals the block
// against the actual tip.
func NewBlock(ctx context.Context, index uint64, transactions []string, prevHash string, clock Clock, sealer *Sealer) (*Block, error) {
	txs := make([]string, len(transactions))
	copy(txs, transactions)

	b := &Block{
		Index:        index,
		Timestamp:    clock.Now().Unix(),
		Transactions: txs,
		PrevHash:     prevHash,
		MerkleRoot:   MerkleRoot(txs),
	}
	if err := b.seal(ctx, sealer); err != nil {
		return nil, fmt.Errorf("failed to seal block %d: %w", index, err)
	}
	return b, nil
}

func (b *Block) header() Header {
	return Header{
		Index:      b.Index,
		PrevHash:   b.PrevHash,
		Timestamp:  b.Timestamp,
		MerkleRoot: b.MerkleRoot,
	}
}

// ComputeHash reapplies the block hash formula to the current field values
// without searching. The Merkle root is re-derived from the current
// transactions rather than read from the stored field, so an in-place edit
// of the payloads breaks the b.Hash == b.ComputeHash() equality even when
// the stale root is left untouched.
func (b *Block) ComputeHash() string {
	h := b.header()
	h.MerkleRoot = MerkleRoot(b.Transactions)
	return h.HashWithNonce(b.Nonce)
}

// MeetsDifficulty reports whether the stored hash carries at least
// difficulty leading zero hex characters.
func (b *Block) MeetsDifficulty(difficulty int) bool {
	return strings.HasPrefix(b.Hash, strings.Repeat("0", difficulty))
}

// seal runs the proof-of-work search and stores the resulting nonce and
// hash. The previous nonce is never reusable after a field change because
// the seal covers every header field.
func (b *Block) seal(ctx context.Context, sealer *Sealer) error {
	nonce, hash, err := sealer.Seal(ctx, b.header())
	if err != nil {
		return err
	}
	b.Nonce = nonce
	b.Hash = hash
	return nil
}
