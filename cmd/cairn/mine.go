package cairn

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cairnlabs/cairn/internal/config"
	"github.com/cairnlabs/cairn/internal/ledger"
	"github.com/cairnlabs/cairn/internal/metrics"
	"github.com/cairnlabs/cairn/internal/miner"
	"github.com/cairnlabs/cairn/internal/output"
	"github.com/cairnlabs/cairn/internal/wallet"
)

var mineConfig config.MineConfig

var MineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a chain of blocks from signed transactions",
	Long:  `Mine builds a fresh chain from genesis, seals the requested number of blocks of signed transactions, validates the result, and optionally exports the blocks.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if parent := cmd.Parent(); parent != nil && parent.PreRunE != nil {
			if err := parent.PreRunE(parent, args); err != nil {
				return err
			}
		}

		mineConfig = config.LoadMineConfigFromCLI()
		if err := mineConfig.Validate(); err != nil {
			return fmt.Errorf("invalid Mine configuration: %w", err)
		}
		slog.Debug("Command-line arguments", "mineConfig", mineConfig)

		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		handleInterrupt(cancel)

		return mine(ctx, mineConfig)
	},
}

func init() {
	MineCmd.Flags().UintP("blocks", "b", 3, "Number of blocks to mine")
	MineCmd.Flags().UintP("transactions", "t", 3, "Transactions per block")
	MineCmd.Flags().UintP("difficulty", "d", 4, "Required leading zero hex characters in block hashes")
	MineCmd.Flags().StringP("scheme", "s", "rsa", "Transaction signature scheme")
	MineCmd.Flags().UintP("workers", "w", 1, "Nonce search workers (advanced)")
	MineCmd.Flags().Uint64("max-nonce", 0, "Abort the nonce search past this bound, 0 for unbounded (advanced)")
	MineCmd.Flags().StringP("format", "f", "none", "Block export format (json|tsv|none)")
	MineCmd.Flags().StringP("out", "o", "out", "Block export directory")
	MineCmd.Flags().Bool("enable-prometheus", false, "Enable Prometheus metrics server")
	MineCmd.Flags().String("prometheus-addr", "0.0.0.0:2112", "Address and port of the Prometheus metrics server")

	if err := viper.BindPFlags(MineCmd.Flags()); err != nil {
		slog.Error("Failed to bind MineCmd flags", "error", err)
	}
}

func mine(ctx context.Context, cfg config.MineConfig) error {
	sealer := &ledger.Sealer{
		Difficulty: int(cfg.Difficulty),
		MaxNonce:   cfg.MaxNonce,
		Workers:    int(cfg.Workers),
	}
	clock := ledger.SystemClock{}

	slog.Info("Sealing genesis block", "difficulty", cfg.Difficulty)
	chain, err := ledger.New(ctx, clock, sealer)
	if err != nil {
		return fmt.Errorf("failed to initialize chain: %w", err)
	}

	accounts, err := makeAccounts(cfg.Scheme)
	if err != nil {
		return err
	}

	outputHandler, err := makeOutputHandler(cfg)
	if err != nil {
		return err
	}
	defer outputHandler.Close()

	m, err := miner.New(chain, clock, sealer, accounts, outputHandler, cfg.Blocks, cfg.Transactions)
	if err != nil {
		return err
	}

	if cfg.EnablePrometheus {
		server, err := metrics.CreateMetricsServer(chain, sealer, cfg.PrometheusAddr, m.Collectors()...)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		slog.Info("Prometheus metrics server started", "addr", cfg.PrometheusAddr)
		defer shutdownMetricsServer(server)
	}

	if err := m.Run(ctx); err != nil {
		return fmt.Errorf("mining failed: %w", err)
	}

	slog.Info("Mining finished",
		"blocks", m.Mined(),
		"hashAttempts", sealer.Attempts(),
		"tipHash", chain.Tip().Hash)

	return nil
}

func makeAccounts(scheme string) ([]*wallet.Account, error) {
	names := []string{"alice", "bob"}
	accounts := make([]*wallet.Account, 0, len(names))
	for _, name := range names {
		account, err := wallet.NewAccount(name, scheme)
		if err != nil {
			return nil, fmt.Errorf("failed to create account %s: %w", name, err)
		}
		slog.Debug("Account created", "name", name, "address", account.Address())
		accounts = append(accounts, account)
	}
	return accounts, nil
}

func makeOutputHandler(cfg config.MineConfig) (output.Handler, error) {
	switch cfg.Format {
	case "json":
		return output.NewJSONHandler(cfg.Output)
	case "tsv":
		return output.NewTSVHandler(cfg.Output)
	default:
		return output.NopHandler{}, nil
	}
}

func shutdownMetricsServer(server *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("Failed to shut down metrics server", "error", err)
	}
}

// handleInterrupt handles interrupt signals for graceful shutdown.
func handleInterrupt(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()
}
