// Package miner drives the ledger core: it builds signed transaction
// payloads, verifies every signature before inclusion, seals blocks, and
// appends them to the chain.
package miner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/schollz/progressbar/v3"

	"github.com/cairnlabs/cairn/internal/ledger"
	"github.com/cairnlabs/cairn/internal/output"
	"github.com/cairnlabs/cairn/internal/wallet"
)

const paymentAmount = 10

// signedTransaction pairs a payload with the material needed to verify it.
type signedTransaction struct {
	Payload   string
	PublicKey []byte
	Signature []byte
}

type Miner struct {
	chain        *ledger.Chain
	clock        ledger.Clock
	sealer       *ledger.Sealer
	accounts     []*wallet.Account
	out          output.Handler
	blocks       uint
	transactions uint

	// buildTxs produces the signed transactions for one block. It defaults
	// to buildTransactions and exists so a broken signature can be injected
	// under test.
	buildTxs func(payer, recipient *wallet.Account) ([]signedTransaction, error)

	mined        uint64
	blocksSealed prometheus.Counter
	sealDuration prometheus.Histogram
}

// New wires a miner over an existing chain. accounts must hold at least
// two entries; payer and recipient rotate through them block by block.
func New(chain *ledger.Chain, clock ledger.Clock, sealer *ledger.Sealer, accounts []*wallet.Account, out output.Handler, blocks, transactions uint) (*Miner, error) {
	if len(accounts) < 2 {
		return nil, fmt.Errorf("miner needs at least 2 accounts, got %d", len(accounts))
	}
	m := &Miner{
		chain:        chain,
		clock:        clock,
		sealer:       sealer,
		accounts:     accounts,
		out:          out,
		blocks:       blocks,
		transactions: transactions,
		blocksSealed: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        prometheus.BuildFQName("cairn", "miner", "blocks_sealed_total"),
			Help:        "Total blocks sealed and appended by the miner",
			ConstLabels: prometheus.Labels{"source": "miner"},
		}),
		sealDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        prometheus.BuildFQName("cairn", "miner", "seal_duration_seconds"),
			Help:        "Wall-clock time spent sealing one block, re-link included",
			ConstLabels: prometheus.Labels{"source": "miner"},
		}),
	}
	m.buildTxs = m.buildTransactions
	return m, nil
}

// Mined reports how many blocks this miner has appended.
func (m *Miner) Mined() uint64 {
	return m.mined
}

// Collectors returns the miner-owned Prometheus collectors for
// registration with a metrics server.
func (m *Miner) Collectors() []prometheus.Collector {
	return []prometheus.Collector{m.blocksSealed, m.sealDuration}
}

// Run mines the configured number of blocks and validates the resulting
// chain. A block whose transactions fail signature verification is skipped
// with a warning rather than appended.
func (m *Miner) Run(ctx context.Context) error {
	bar := newProgressBar(int64(m.blocks))

	for i := uint(0); i < m.blocks; i++ {
		payer := m.accounts[int(i)%len(m.accounts)]
		recipient := m.accounts[int(i+1)%len(m.accounts)]

		txs, err := m.buildTxs(payer, recipient)
		if err != nil {
			return errors.WithMessage(err, "failed to build transactions")
		}

		if !verifyAll(payer, txs) {
			slog.Warn("Invalid transaction signature detected, skipping block", "payer", payer.Name)
			continue
		}

		tip := m.chain.Tip()
		sealStart := time.Now()
		block, err := ledger.NewBlock(ctx, tip.Index+1, payloads(txs), tip.Hash, m.clock, m.sealer)
		if err != nil {
			return errors.WithMessage(err, "failed to build block")
		}
		if err := m.chain.Add(ctx, block); err != nil {
			return errors.WithMessage(err, "failed to append block")
		}
		m.sealDuration.Observe(time.Since(sealStart).Seconds())
		m.blocksSealed.Inc()
		m.mined++

		sealed := m.chain.Tip()
		slog.Debug("Block sealed", "height", sealed.Index, "nonce", sealed.Nonce, "hash", sealed.Hash)

		if err := m.out.WriteBlock(ctx, &sealed); err != nil {
			return errors.WithMessage(err, "failed to export block")
		}

		if bar != nil {
			if err := bar.Add(1); err != nil {
				slog.Warn("Failed to update progress bar", "error", err)
			}
		}
	}

	if bar != nil {
		if err := bar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}

	if err := m.chain.Validate(m.sealer.Difficulty); err != nil {
		return errors.WithMessage(err, "chain validation failed after mining")
	}
	slog.Info("Chain is valid", "height", m.chain.Tip().Index, "blocks", m.chain.Len())

	return nil
}

// buildTransactions creates and signs the payment payloads for one block.
func (m *Miner) buildTransactions(payer, recipient *wallet.Account) ([]signedTransaction, error) {
	txs := make([]signedTransaction, 0, m.transactions)
	for j := uint(0); j < m.transactions; j++ {
		id, err := wallet.NewTransactionID()
		if err != nil {
			return nil, err
		}
		payload := wallet.PaymentPayload(id, payer, recipient, paymentAmount)
		sig, err := payer.Sign(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to sign transaction %s: %w", id, err)
		}
		txs = append(txs, signedTransaction{
			Payload:   payload,
			PublicKey: payer.PublicKey(),
			Signature: sig,
		})
	}
	return txs, nil
}

func verifyAll(payer *wallet.Account, txs []signedTransaction) bool {
	for _, tx := range txs {
		if !payer.Verify(tx.PublicKey, tx.Signature, tx.Payload) {
			return false
		}
	}
	return true
}

func payloads(txs []signedTransaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Payload
	}
	return out
}

func newProgressBar(total int64) *progressbar.ProgressBar {
	if total <= 1 {
		return nil
	}
	return progressbar.NewOptions64(
		total,
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription("Mining blocks..."),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
