package main

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/credkit"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Validate, lint and summarize the loaded configuration",
	}
	cmd.AddCommand(newConfigLintCmd())
	cmd.AddCommand(newConfigReportCmd())
	cmd.AddCommand(newConfigSecretCmd())
	return cmd
}

func parseSeverity(s string) (credkit.LintSeverity, error) {
	switch strings.ToUpper(s) {
	case "INFO":
		return credkit.LintInfo, nil
	case "WARN":
		return credkit.LintWarn, nil
	case "HIGH":
		return credkit.LintHigh, nil
	default:
		return 0, fmt.Errorf("unknown severity %q (want INFO, WARN or HIGH)", s)
	}
}

func newConfigLintCmd() *cobra.Command {
	var failOn string

	cmd := &cobra.Command{
		Use:   "lint",
		Short: "Validate the config and list weak settings",
		Long: `Validate the config and list weak settings, one per line. Exits
non-zero when validation fails or a finding reaches --fail-on.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			threshold, err := parseSeverity(failOn)
			if err != nil {
				return err
			}
			settings, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			if err := settings.Signing.Validate(); err != nil {
				return err
			}

			result := settings.Signing.Lint()
			if len(result) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no findings")
				return nil
			}
			for _, w := range result {
				fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s: %s\n", w.Severity, w.Code, w.Message)
			}
			return result.AsError(threshold)
		},
	}

	cmd.Flags().StringVar(&failOn, "fail-on", "HIGH", "lowest severity that fails the command")

	return cmd
}

func newConfigReportCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print a secret-free summary of the config",
		RunE: func(cmd *cobra.Command, _ []string) error {
			settings, _, err := loadSettings(cmd)
			if err != nil {
				return err
			}
			report := settings.Signing.SecurityReport()

			if jsonOutput {
				out, err := json.MarshalIndent(report, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to format JSON: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), string(out))
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), formatReport(report))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output the report as JSON")

	return cmd
}

func formatReport(r credkit.SecurityReport) string {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	_, _ = fmt.Fprintf(w, "signing algorithm\t%s\n", r.SigningAlgorithm)
	_, _ = fmt.Fprintf(w, "secret bytes\t%d (strong: %t)\n", r.SecretBytes, r.SecretStrong)
	_, _ = fmt.Fprintf(w, "default ttl\t%s\n", r.DefaultTTL)
	_, _ = fmt.Fprintf(w, "revocation\t%t\n", r.Revocation)
	_, _ = fmt.Fprintf(w, "password algorithm\t%s (cost %d)\n", r.Password.Algorithm, r.Password.Cost)
	_, _ = fmt.Fprintf(w, "max password bytes\t%d\n", r.Password.MaxPasswordBytes)
	_, _ = fmt.Fprintf(w, "workers / queue\t%d / %d\n", r.Workers, r.QueueSize)
	_, _ = fmt.Fprintf(w, "lint findings\t%s\n", strings.Join(r.LintCodes, ", "))
	_, _ = fmt.Fprintf(w, "high findings\t%d\n", r.HighFindings)

	_ = w.Flush()
	return sb.String()
}

func newConfigSecretCmd() *cobra.Command {
	var size int

	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Generate a random signing secret",
		Long: `Print a hex-encoded random secret suitable for the secret key or
CREDKIT_SECRET. The decoded hex string itself is used as the key bytes.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if size < credkit.MinSecretBytes {
				return fmt.Errorf("--bytes must be at least %d", credkit.MinSecretBytes)
			}
			buf := make([]byte, size)
			if _, err := rand.Read(buf); err != nil {
				return fmt.Errorf("failed to read random bytes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(buf))
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "bytes", credkit.MinSecretBytes, "random bytes to generate")

	return cmd
}
