package main

import (
	"bufio"
	"io"
	"log/slog"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/credkit"
	"github.com/MrEthical07/credkit/config"
	"github.com/MrEthical07/credkit/internal/logging"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for credctl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "credctl",
		Short: "credctl - credkit token and password tooling",
		Long: `credctl issues and verifies HS256 bearer tokens, hashes and checks
passwords, and reports on a credkit configuration. Settings come from
--config, CREDKIT_* environment variables and flags, in that order.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")
	config.RegisterFlags(cmd.PersistentFlags())

	cmd.AddCommand(NewTokenCmd())
	cmd.AddCommand(NewPasswordCmd())
	cmd.AddCommand(NewConfigCmd())
	cmd.AddCommand(NewBenchCmd())

	return cmd
}

// loadSettings reads settings for cmd and builds its logger. Logs go to
// stderr so command output stays machine readable.
func loadSettings(cmd *cobra.Command) (config.Settings, *slog.Logger, error) {
	settings, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return config.Settings{}, nil, err
	}
	logger := logging.Setup("credctl", version, settings.Log.Format, settings.Log.Level, cmd.ErrOrStderr())
	return settings, logger, nil
}

// buildEngine loads settings and starts an engine. Callers must Close it.
func buildEngine(cmd *cobra.Command) (*credkit.Engine, config.Settings, error) {
	settings, logger, err := loadSettings(cmd)
	if err != nil {
		return nil, config.Settings{}, err
	}

	engine, err := credkit.New().
		WithConfig(settings.Signing).
		WithLogger(logger).
		WithMetricsEnabled(settings.Metrics.Enabled).
		WithLatencyHistograms(settings.Metrics.EnableLatencyHistograms).
		Build()
	if err != nil {
		return nil, config.Settings{}, oops.In("credctl").Wrapf(err, "build engine")
	}
	return engine, settings, nil
}

// readSecretInput returns the first line of r without its line ending.
// Passwords are read from stdin so they stay out of shell history.
func readSecretInput(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", oops.Wrapf(err, "read stdin")
	}
	return strings.TrimRight(line, "\r\n"), nil
}
