package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/cairnlabs/cairn/internal/signing"
)

// hexDigestLen bounds the difficulty: a SHA-256 hex digest has 64 chars.
const hexDigestLen = 64

var validFormats = map[string]bool{
	"json": true,
	"tsv":  true,
	"none": true,
}

type MineConfig struct {
	Blocks           uint
	Transactions     uint
	Difficulty       uint
	Scheme           string
	Workers          uint
	MaxNonce         uint64
	Format           string
	Output           string
	EnablePrometheus bool
	PrometheusAddr   string
}

func (c MineConfig) Validate() error {
	if c.Blocks == 0 {
		return fmt.Errorf("--blocks must be at least 1")
	}
	if c.Transactions == 0 {
		return fmt.Errorf("--transactions must be at least 1")
	}
	if c.Difficulty > hexDigestLen {
		return fmt.Errorf("--difficulty must be at most %d", hexDigestLen)
	}
	if c.Workers == 0 {
		return fmt.Errorf("--workers must be at least 1")
	}
	if !validFormats[c.Format] {
		return fmt.Errorf("invalid output format: %s. Valid formats are: json|tsv|none", c.Format)
	}
	if _, err := signing.Lookup(c.Scheme); err != nil {
		return err
	}
	return nil
}

func LoadMineConfigFromCLI() MineConfig {
	return MineConfig{
		Blocks:           viper.GetUint("blocks"),
		Transactions:     viper.GetUint("transactions"),
		Difficulty:       viper.GetUint("difficulty"),
		Scheme:           viper.GetString("scheme"),
		Workers:          viper.GetUint("workers"),
		MaxNonce:         viper.GetUint64("max-nonce"),
		Format:           viper.GetString("format"),
		Output:           viper.GetString("out"),
		EnablePrometheus: viper.GetBool("enable-prometheus"),
		PrometheusAddr:   viper.GetString("prometheus-addr"),
	}
}
