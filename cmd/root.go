// Package cmd implements the CLI commands for LangSearch using Cobra.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/langsearch/core"
	"github.com/gaurav-prasanna/langsearch/internal/config"
	"github.com/gaurav-prasanna/langsearch/internal/logger"
)

// Persistent flag variables.
var (
	flagConfig    string
	flagLogLevel  string
	flagLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "langsearch",
	Short: "LangSearch: search the web and summarize the top results with an LLM",
	Long: `LangSearch runs a web search, scrapes short excerpts from the top results,
and asks a hosted model (Groq by default) for a one-paragraph summary.

Usage:
  langsearch search <query> [flags]
  langsearch serve [flags]

The summarizer key is read from GROQ_API_KEY.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: trace, debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: console or json")
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command's
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		// The empty-query warning has already been shown.
		if !errors.Is(err, core.ErrEmptyQuery) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// loadSettings loads the config file and environment, applies the
// persistent log flags, and builds the logger.
func loadSettings(cmd *cobra.Command) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("initializing logger: %w", err)
	}
	return cfg, log, nil
}
