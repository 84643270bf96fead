package cairn

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"golang.org/x/exp/maps"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	validLogLevels = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	validLogLevelsStr = func() string {
		names := maps.Keys(validLogLevels)
		slices.Sort(names)
		return strings.Join(names, "|")
	}()
)

const (
	logFormatJSON = "json"
	logFormatText = "text"
)

var RootCmd = &cobra.Command{
	Use:   "cairn",
	Short: "Mine a minimal proof-of-work ledger",
	Long:  `cairn builds an append-only ledger of proof-of-work sealed blocks committing to signed transactions.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setupLogger(viper.GetString("logLevel"), viper.GetString("logFormat")); err != nil {
			return err
		}
		slog.Debug("Application started", "version", Version)
		return nil
	},
}

// setupLogger installs the default slog logger from the level and format
// flags.
func setupLogger(logLevel, logFormat string) error {
	level, exists := validLogLevels[logLevel]
	if !exists {
		return fmt.Errorf("invalid log level: %s. Valid log levels are: %s", logLevel, validLogLevelsStr)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch logFormat {
	case logFormatJSON:
		handler = slog.NewJSONHandler(os.Stdout, opts)
	case logFormatText:
		handler = slog.NewTextHandler(os.Stdout, opts)
	default:
		return fmt.Errorf("invalid log format: %s. Valid log formats are: %s|%s", logFormat, logFormatJSON, logFormatText)
	}
	slog.SetDefault(slog.New(handler))

	return nil
}

func init() {
	RootCmd.PersistentFlags().StringP("logLevel", "l", "info", fmt.Sprintf("set log level (%s)", validLogLevelsStr))
	RootCmd.PersistentFlags().String("logFormat", logFormatJSON, fmt.Sprintf("set log format (%s|%s)", logFormatJSON, logFormatText))
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		slog.Error("Failed to bind rootCmd flags", "error", err)
	}

	RootCmd.SilenceUsage = true
	RootCmd.SilenceErrors = true

	viper.SetConfigName("config")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.cairn")
	viper.AddConfigPath("/etc/cairn")

	viper.SetEnvPrefix("cairn")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	RootCmd.AddCommand(MineCmd)
	RootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := viper.ReadInConfig(); err == nil {
		slog.Info("Using config file", "file", viper.ConfigFileUsed())
	}

	if err := RootCmd.Execute(); err != nil {
		slog.Error("An error occurred", "error", err)
		os.Exit(1)
	}
}
