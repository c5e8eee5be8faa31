// Package cmd implements the CLI commands for MailPipe using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gaurav-prasanna/mailpipe/config"
)

var (
	configFile string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "mailpipe",
	Short: "MailPipe: sanitize, format and export email-safe HTML",
	Long: `MailPipe cleans untrusted HTML into markup that is safe to edit and send
by email, formats it for reading, and exports finished messages as HTML
documents, plain text, JSON or PDF proofs.

Usage:
  mailpipe sanitize <file|url|-> [flags]
  mailpipe export <source>... --html [flags]`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default $XDG_CONFIG_HOME/mailpipe/mailpipe.yaml)")
	rootCmd.PersistentFlags().String("log_level", "", "log level: debug, info, warn, error or none")
	_ = viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log_level"))
}

// setup resolves configuration and builds the logger before any command runs.
func setup(*cobra.Command, []string) error {
	c, err := config.Load(viper.GetViper(), configFile)
	if err != nil {
		return err
	}
	log, err := config.NewLogger(c.LogLevel)
	if err != nil {
		return err
	}

	cfg, logger = c, log
	if used := viper.ConfigFileUsed(); used != "" {
		logger.Debug("Using configuration file", zap.String("path", used))
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
