package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClock() FixedClock {
	return FixedClock{Instant: time.Unix(1700000000, 0)}
}

func TestNewBlock(t *testing.T) {
	ctx := context.Background()
	sealer := &Sealer{Difficulty: 1}

	t.Run("FieldsPopulated", func(t *testing.T) {
		b, err := NewBlock(ctx, 1, []string{"A", "B", "C"}, "0", testClock(), sealer)
		require.NoError(t, err)

		assert.Equal(t, uint64(1), b.Index)
		assert.Equal(t, int64(1700000000), b.Timestamp)
		assert.Equal(t, MerkleRoot([]string{"A", "B", "C"}), b.MerkleRoot)
		assert.Equal(t, b.ComputeHash(), b.Hash)
		assert.True(t, b.MeetsDifficulty(1))
	})

	t.Run("ReproducibleUnderFixedClock", func(t *testing.T) {
		b1, err := NewBlock(ctx, 1, []string{"A"}, "0", testClock(), sealer)
		require.NoError(t, err)
		b2, err := NewBlock(ctx, 1, []string{"A"}, "0", testClock(), sealer)
		require.NoError(t, err)

		assert.Equal(t, b1.Nonce, b2.Nonce)
		assert.Equal(t, b1.Hash, b2.Hash)
	})

	t.Run("CopiesTransactions", func(t *testing.T) {
		txs := []string{"A", "B"}
		b, err := NewBlock(ctx, 1, txs, "0", testClock(), sealer)
		require.NoError(t, err)

		txs[0] = "tampered"
		assert.Equal(t, []string{"A", "B"}, b.Transactions)
		assert.Equal(t, b.ComputeHash(), b.Hash)
	})

	t.Run("SealError", func(t *testing.T) {
		bounded := &Sealer{Difficulty: 64, MaxNonce: 10}
		_, err := NewBlock(ctx, 1, []string{"A"}, "0", testClock(), bounded)
		require.ErrorIs(t, err, ErrNonceExhausted)
	})
}

func TestBlockComputeHash(t *testing.T) {
	ctx := context.Background()
	sealer := &Sealer{Difficulty: 1}

	b, err := NewBlock(ctx, 1, []string{"A", "B"}, "0", testClock(), sealer)
	require.NoError(t, err)

	// ComputeHash reapplies the formula without searching; tampering with
	// the payloads makes it diverge from the stored hash even though the
	// stored Merkle root field is untouched.
	b.Transactions = []string{"X", "Y"}
	assert.NotEqual(t, b.Hash, b.ComputeHash())
}
