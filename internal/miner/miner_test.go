package miner

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cairnlabs/cairn/internal/ledger"
	"github.com/cairnlabs/cairn/internal/output"
	"github.com/cairnlabs/cairn/internal/wallet"
)

// collectHandler records every exported block.
type collectHandler struct {
	blocks []ledger.Block
}

func (h *collectHandler) WriteBlock(_ context.Context, b *ledger.Block) error {
	h.blocks = append(h.blocks, *b)
	return nil
}

func (h *collectHandler) Close() error { return nil }

func testAccounts(t *testing.T) []*wallet.Account {
	t.Helper()
	alice, err := wallet.NewAccount("alice", "ed25519")
	require.NoError(t, err)
	bob, err := wallet.NewAccount("bob", "ed25519")
	require.NoError(t, err)
	return []*wallet.Account{alice, bob}
}

func TestMinerRun(t *testing.T) {
	ctx := context.Background()
	clock := ledger.FixedClock{Instant: time.Unix(1700000000, 0)}

	t.Run("MinesAndValidates", func(t *testing.T) {
		sealer := &ledger.Sealer{Difficulty: 1}
		chain, err := ledger.New(ctx, clock, sealer)
		require.NoError(t, err)

		sink := &collectHandler{}
		m, err := New(chain, clock, sealer, testAccounts(t), sink, 3, 2)
		require.NoError(t, err)

		require.NoError(t, m.Run(ctx))

		assert.Equal(t, uint64(3), m.Mined())
		assert.Equal(t, float64(3), testutil.ToFloat64(m.blocksSealed))
		assert.Equal(t, 4, chain.Len())
		require.NoError(t, chain.Validate(1))

		require.Len(t, sink.blocks, 3)
		for i, b := range sink.blocks {
			assert.Equal(t, uint64(i+1), b.Index)
			assert.Len(t, b.Transactions, 2)
			assert.Contains(t, b.Transactions[0], "Transaction #")
		}
		// Payer rotates per block.
		assert.Contains(t, sink.blocks[0].Transactions[0], "Payer: alice")
		assert.Contains(t, sink.blocks[1].Transactions[0], "Payer: bob")
	})

	t.Run("SkipsBlockWithInvalidSignature", func(t *testing.T) {
		sealer := &ledger.Sealer{Difficulty: 0}
		chain, err := ledger.New(ctx, clock, sealer)
		require.NoError(t, err)

		sink := &collectHandler{}
		m, err := New(chain, clock, sealer, testAccounts(t), sink, 2, 1)
		require.NoError(t, err)

		// Corrupt a signature in the first block's transactions; the
		// second block stays intact.
		defaultBuild := m.buildTxs
		calls := 0
		m.buildTxs = func(payer, recipient *wallet.Account) ([]signedTransaction, error) {
			txs, err := defaultBuild(payer, recipient)
			if err != nil {
				return nil, err
			}
			calls++
			if calls == 1 {
				txs[0].Signature[0] ^= 0xff
			}
			return txs, nil
		}

		require.NoError(t, m.Run(ctx))

		assert.Equal(t, 2, calls)
		assert.Equal(t, uint64(1), m.Mined())
		assert.Equal(t, float64(1), testutil.ToFloat64(m.blocksSealed))
		assert.Equal(t, 2, chain.Len())
		require.Len(t, sink.blocks, 1)
		assert.Contains(t, sink.blocks[0].Transactions[0], "Payer: bob")
		require.NoError(t, chain.Validate(0))
	})

	t.Run("NeedsTwoAccounts", func(t *testing.T) {
		sealer := &ledger.Sealer{Difficulty: 0}
		chain, err := ledger.New(ctx, clock, sealer)
		require.NoError(t, err)

		_, err = New(chain, clock, sealer, testAccounts(t)[:1], output.NopHandler{}, 1, 1)
		require.Error(t, err)
	})

	t.Run("StopsOnCancel", func(t *testing.T) {
		sealer := &ledger.Sealer{Difficulty: 0}
		chain, err := ledger.New(ctx, clock, sealer)
		require.NoError(t, err)

		m, err := New(chain, clock, sealer, testAccounts(t), output.NopHandler{}, 2, 1)
		require.NoError(t, err)

		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		require.Error(t, m.Run(cancelled))
	})
}
