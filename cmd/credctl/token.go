package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/credkit/token"
)

type issueConfig struct {
	subject string
	claims  []string
	ttl     time.Duration
}

// NewTokenCmd creates the token command group.
func NewTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and verify bearer tokens",
	}
	cmd.AddCommand(newTokenIssueCmd())
	cmd.AddCommand(newTokenVerifyCmd())
	return cmd
}

func newTokenIssueCmd() *cobra.Command {
	cfg := &issueConfig{}

	cmd := &cobra.Command{
		Use:   "issue",
		Short: "Sign a token for a subject",
		Long: `Sign a token for --sub. Extra claims are given as --claim key=value;
values that parse as numbers or booleans are stored as such.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTokenIssue(cmd, cfg)
		},
	}

	cmd.Flags().StringVar(&cfg.subject, "sub", "", "token subject")
	cmd.Flags().StringArrayVar(&cfg.claims, "claim", nil, "extra claim as key=value (repeatable)")
	cmd.Flags().DurationVar(&cfg.ttl, "for", 0, "token lifetime (default: configured TTL)")

	return cmd
}

func runTokenIssue(cmd *cobra.Command, cfg *issueConfig) error {
	extra, err := parseClaimFlags(cfg.claims)
	if err != nil {
		return err
	}
	claims, err := token.NewClaims(cfg.subject, extra)
	if err != nil {
		return err
	}

	engine, _, err := buildEngine(cmd)
	if err != nil {
		return err
	}
	defer engine.Close()

	var tok string
	if cfg.ttl > 0 {
		tok, err = engine.GenerateTokenWithTTL(claims, cfg.ttl)
	} else {
		tok, err = engine.GenerateToken(claims)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), tok)
	return nil
}

func newTokenVerifyCmd() *cobra.Command {
	var header bool

	cmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Verify a token and print its claims",
		Long: `Verify a token and print its claims as JSON. With --header the
argument is a full Authorization header value such as "Bearer <token>".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, _, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			var claims token.Claims
			if header {
				claims, err = engine.Authenticate(cmd.Context(), args[0])
			} else {
				claims, err = engine.VerifyToken(args[0])
			}
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(claims, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to format claims: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().BoolVar(&header, "header", false, "argument is an Authorization header value")

	return cmd
}

func parseClaimFlags(raw []string) (map[string]any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, oops.With("claim", kv).Errorf("claim must be key=value")
		}
		out[key] = parseClaimValue(value)
	}
	return out, nil
}

func parseClaimValue(v string) any {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	if n, err := strconv.ParseInt(v, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return f
	}
	return v
}
