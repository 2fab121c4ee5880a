package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MrEthical07/credkit/password"
)

// NewPasswordCmd creates the password command group. Every subcommand reads
// the plaintext from the first line of stdin.
func NewPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Hash, compare and grade passwords read from stdin",
	}
	cmd.AddCommand(newPasswordHashCmd())
	cmd.AddCommand(newPasswordCompareCmd())
	cmd.AddCommand(newPasswordStrengthCmd())
	return cmd
}

// passwordService builds a standalone hasher; no signing secret is needed.
func passwordService(cmd *cobra.Command) (*password.Service, error) {
	settings, _, err := loadSettings(cmd)
	if err != nil {
		return nil, err
	}
	return password.New(settings.Signing.PasswordServiceConfig())
}

func newPasswordHashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash",
		Short: "Hash a password with the configured algorithm",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plaintext, err := readSecretInput(cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := passwordService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			hash, err := svc.Hash(cmd.Context(), plaintext)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}

func newPasswordCompareCmd() *cobra.Command {
	var hash string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Check a password against a stored hash",
		Long: `Check a password against --hash. Prints "match" or "mismatch", and
"rehash" on a second line when the hash uses weaker parameters than the
current config. A mismatch exits non-zero.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			plaintext, err := readSecretInput(cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := passwordService(cmd)
			if err != nil {
				return err
			}
			defer svc.Close()

			ok, err := svc.Compare(cmd.Context(), plaintext, hash)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "mismatch")
				return fmt.Errorf("password does not match")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "match")

			needs, err := svc.NeedsRehash(hash)
			if err != nil {
				return err
			}
			if needs {
				fmt.Fprintln(cmd.OutOrStdout(), "rehash")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&hash, "hash", "", "stored password hash")
	_ = cmd.MarkFlagRequired("hash")

	return cmd
}

func newPasswordStrengthCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "strength",
		Short: "Grade a password and list policy violations as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			plaintext, err := readSecretInput(cmd.InOrStdin())
			if err != nil {
				return err
			}
			out, err := json.Marshal(password.ValidateStrength(plaintext))
			if err != nil {
				return fmt.Errorf("failed to format assessment: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
