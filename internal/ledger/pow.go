package ledger

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

// ErrNonceExhausted is returned when the sealer reaches its configured
// MaxNonce without finding a satisfying hash.
var ErrNonceExhausted = errors.New("nonce space exhausted")

// sealChunkSize is the number of nonces scanned per parallel round. Rounds
// run in nonce order so the minimal satisfying nonce is still found first.
const sealChunkSize = 4096

// Header carries the block fields covered by the seal. The proof-of-work
// hash commits to every one of them, which is why a block must be re-sealed
// whenever its PrevHash is re-linked.
type Header struct {
	Index      uint64
	PrevHash   string
	Timestamp  int64
	MerkleRoot string
}

// HashWithNonce applies the block hash formula to the header under the
// given nonce.
func (h Header) HashWithNonce(nonce uint64) string {
	return Sum(fmt.Sprintf("%d%s%d%s%d", h.Index, h.PrevHash, h.Timestamp, h.MerkleRoot, nonce))
}

// Sealer searches the nonce space for a block hash with Difficulty leading
// zero hex characters. The search starts at nonce 0 and scans upward, so
// the result is always the minimal satisfying nonce and identical inputs
// seal identically.
//
// The zero MaxNonce means an unbounded search; a bounded sealer yields
// ErrNonceExhausted once the limit is passed. Workers above 1 partition
// each scan round across goroutines. This is the only CPU-bound hot path
// in the ledger; expected work grows with 16^Difficulty.
type Sealer struct {
	Difficulty int
	MaxNonce   uint64
	Workers    int

	attempts atomic.Uint64
}

// Attempts reports the total number of hash evaluations performed by this
// sealer across all Seal calls.
func (s *Sealer) Attempts() uint64 {
	return s.attempts.Load()
}

// Prefix returns the hex prefix a sealed hash must carry.
func (s *Sealer) Prefix() string {
	return strings.Repeat("0", s.Difficulty)
}

// Seal finds the smallest nonce whose block hash meets the difficulty and
// returns it together with that hash. The search is aborted when ctx is
// cancelled.
func (s *Sealer) Seal(ctx context.Context, h Header) (uint64, string, error) {
	prefix := s.Prefix()
	limit := s.MaxNonce
	if limit == 0 {
		limit = math.MaxUint64
	}

	if s.Workers > 1 {
		return s.sealParallel(ctx, h, prefix, limit)
	}

	for nonce := uint64(0); ; nonce++ {
		if nonce&0x3ff == 0 {
			if err := ctx.Err(); err != nil {
				return 0, "", err
			}
		}
		s.attempts.Add(1)
		candidate := h.HashWithNonce(nonce)
		if strings.HasPrefix(candidate, prefix) {
			return nonce, candidate, nil
		}
		if nonce == limit {
			return 0, "", ErrNonceExhausted
		}
	}
}

// sealParallel scans fixed-size nonce chunks in ascending order, racing
// Workers goroutines over interleaved residue classes within each chunk.
// Every worker stops at the first match in its own class, so the minimum
// over workers is the minimal match in the chunk and the deterministic
// minimal-nonce contract of Seal is preserved.
func (s *Sealer) sealParallel(ctx context.Context, h Header, prefix string, limit uint64) (uint64, string, error) {
	workers := s.Workers
	stride := uint64(workers)

	for chunkStart := uint64(0); ; {
		chunkEnd := chunkStart + sealChunkSize - 1
		if chunkEnd > limit || chunkEnd < chunkStart {
			chunkEnd = limit
		}

		found := make([]uint64, workers)
		hit := make([]bool, workers)

		eg, egCtx := errgroup.WithContext(ctx)
		for w := 0; w < workers; w++ {
			w := w
			eg.Go(func() error {
				for nonce := chunkStart + uint64(w); nonce >= chunkStart && nonce <= chunkEnd; nonce += stride {
					if err := egCtx.Err(); err != nil {
						return err
					}
					s.attempts.Add(1)
					if strings.HasPrefix(h.HashWithNonce(nonce), prefix) {
						found[w] = nonce
						hit[w] = true
						return nil
					}
				}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return 0, "", err
		}

		best := uint64(0)
		have := false
		for w := 0; w < workers; w++ {
			if hit[w] && (!have || found[w] < best) {
				best = found[w]
				have = true
			}
		}
		if have {
			return best, h.HashWithNonce(best), nil
		}

		if chunkEnd == limit {
			return 0, "", ErrNonceExhausted
		}
		chunkStart = chunkEnd + 1
	}
}
