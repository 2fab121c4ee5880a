package credkit

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// LintSeverity ranks a LintWarning.
type LintSeverity int

const (
	LintInfo LintSeverity = iota
	LintWarn
	LintHigh
)

func (s LintSeverity) String() string {
	switch s {
	case LintHigh:
		return "HIGH"
	case LintWarn:
		return "WARN"
	default:
		return "INFO"
	}
}

// MarshalText renders the severity by name.
func (s LintSeverity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// LintWarning is one finding about a config that is valid but questionable.
type LintWarning struct {
	Code     string       `json:"code"`
	Severity LintSeverity `json:"severity"`
	Message  string       `json:"message"`
}

// LintResult is the ordered list of findings returned by Lint.
type LintResult []LintWarning

// Codes returns the warning codes in order.
func (r LintResult) Codes() []string {
	out := make([]string, 0, len(r))
	for _, w := range r {
		out = append(out, w.Code)
	}
	return out
}

// BySeverity returns the warnings at or above threshold.
func (r LintResult) BySeverity(threshold LintSeverity) LintResult {
	var out LintResult
	for _, w := range r {
		if w.Severity >= threshold {
			out = append(out, w)
		}
	}
	return out
}

// AsError joins the warnings at or above threshold into one error, or returns nil.
func (r LintResult) AsError(threshold LintSeverity) error {
	hits := r.BySeverity(threshold)
	if len(hits) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(hits))
	for _, w := range hits {
		msgs = append(msgs, fmt.Sprintf("[%s] %s: %s", w.Severity, w.Code, w.Message))
	}
	return errors.New("config lint: " + strings.Join(msgs, "; "))
}

// Lint inspects c for settings that Validate accepts but that weaken the
// deployment. It never fails; callers choose a threshold with AsError.
func (c SigningConfig) Lint() LintResult {
	var ws LintResult
	add := func(code string, sev LintSeverity, format string, args ...any) {
		ws = append(ws, LintWarning{Code: code, Severity: sev, Message: fmt.Sprintf(format, args...)})
	}

	if n := len(c.Secret); n > 0 && n < MinSecretBytes {
		add("secret_short", LintHigh, "secret is %d bytes; HS256 wants at least %d", n, MinSecretBytes)
	}
	if len(c.Secret) >= MinSecretBytes && distinctBytes(c.Secret) < 8 {
		add("secret_low_entropy", LintHigh, "secret uses only %d distinct byte values", distinctBytes(c.Secret))
	}

	if c.DefaultTTL > time.Hour {
		add("default_ttl_long", LintWarn, "DefaultTTL %s exceeds 1h with no revocation", c.DefaultTTL)
	}
	if c.DefaultTTL%time.Second != 0 {
		add("default_ttl_truncated", LintInfo, "DefaultTTL %s is truncated to whole seconds", c.DefaultTTL)
	}

	switch c.Password.Algorithm {
	case AlgorithmArgon2id:
		if c.Password.Memory < 64*1024 {
			add("argon2_memory_low", LintWarn, "argon2id memory %d KiB is below 65536 KiB", c.Password.Memory)
		}
		if c.HashCost < 2 {
			add("argon2_time_low", LintWarn, "argon2id time cost %d is below 2", c.HashCost)
		}
		if c.Password.KeyLength < 32 {
			add("argon2_key_short", LintInfo, "argon2id key length %d is below 32", c.Password.KeyLength)
		}
	case AlgorithmBcrypt:
		add("bcrypt_selected", LintInfo, "bcrypt truncates input at 72 bytes; argon2id is preferred")
		if c.HashCost < 10 {
			add("bcrypt_cost_low", LintWarn, "bcrypt cost %d is below 10", c.HashCost)
		}
	}

	if c.Password.MaxPasswordBytes > 4096 {
		add("max_password_bytes_large", LintWarn, "MaxPasswordBytes %d lets callers submit very large inputs", c.Password.MaxPasswordBytes)
	}

	return ws
}

func distinctBytes(b []byte) int {
	var seen [256]bool
	n := 0
	for _, c := range b {
		if !seen[c] {
			seen[c] = true
			n++
		}
	}
	return n
}
