package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() MineConfig {
	return MineConfig{
		Blocks:       3,
		Transactions: 3,
		Difficulty:   4,
		Scheme:       "rsa",
		Workers:      1,
		Format:       "none",
	}
}

func TestMineConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	t.Run("ZeroBlocks", func(t *testing.T) {
		cfg := validConfig()
		cfg.Blocks = 0
		assert.ErrorContains(t, cfg.Validate(), "--blocks")
	})

	t.Run("ZeroTransactions", func(t *testing.T) {
		cfg := validConfig()
		cfg.Transactions = 0
		assert.ErrorContains(t, cfg.Validate(), "--transactions")
	})

	t.Run("DifficultyOverDigestLength", func(t *testing.T) {
		cfg := validConfig()
		cfg.Difficulty = 65
		assert.ErrorContains(t, cfg.Validate(), "--difficulty")
	})

	t.Run("ZeroWorkers", func(t *testing.T) {
		cfg := validConfig()
		cfg.Workers = 0
		assert.ErrorContains(t, cfg.Validate(), "--workers")
	})

	t.Run("BadFormat", func(t *testing.T) {
		cfg := validConfig()
		cfg.Format = "xml"
		assert.ErrorContains(t, cfg.Validate(), "invalid output format")
	})

	t.Run("BadScheme", func(t *testing.T) {
		cfg := validConfig()
		cfg.Scheme = "dsa"
		assert.ErrorContains(t, cfg.Validate(), "unknown signature scheme")
	})
}
