package credkit

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MrEthical07/credkit/password"
	"github.com/MrEthical07/credkit/token"
)

// Password algorithm names accepted by PasswordConfig.Algorithm.
const (
	AlgorithmArgon2id = password.AlgorithmArgon2id
	AlgorithmBcrypt   = password.AlgorithmBcrypt
)

// MinSecretBytes is the HS256 key length below which Lint reports secret_short.
const MinSecretBytes = 32

const redacted = "[REDACTED]"

// SigningConfig is the process-wide credential configuration: the token signing
// secret, the default token lifetime and the password hashing cost factor.
//
// A SigningConfig is built once at startup, validated, and handed to
// [Builder]. The engine keeps its own copy, so later changes to the caller's
// value (including its Secret slice) have no effect. The secret is never
// printed, logged or serialized.
type SigningConfig struct {
	Secret     []byte        `json:"-"`
	DefaultTTL time.Duration `json:"default_ttl"`
	// HashCost is the argon2id time cost, or the bcrypt log2 work factor when
	// Password.Algorithm is bcrypt.
	HashCost uint32         `json:"hash_cost"`
	Password PasswordConfig `json:"password"`
}

// PasswordConfig holds the hashing knobs beyond the cost factor. Memory,
// Parallelism, SaltLength and KeyLength apply to argon2id only.
type PasswordConfig struct {
	Algorithm        string `json:"algorithm"`
	Memory           uint32 `json:"memory_kib"`
	Parallelism      uint8  `json:"parallelism"`
	SaltLength       uint32 `json:"salt_length"`
	KeyLength        uint32 `json:"key_length"`
	MaxPasswordBytes int    `json:"max_password_bytes"`
	Workers          int    `json:"workers"`
	QueueSize        int    `json:"queue_size"`
}

// DefaultSigningConfig returns a working configuration with argon2id at OWASP
// parameters and a 15 minute token lifetime. Secret is left empty; callers must
// supply one.
func DefaultSigningConfig() SigningConfig {
	return SigningConfig{
		DefaultTTL: 15 * time.Minute,
		HashCost:   3,
		Password: PasswordConfig{
			Algorithm:        AlgorithmArgon2id,
			Memory:           64 * 1024,
			Parallelism:      2,
			SaltLength:       16,
			KeyLength:        32,
			MaxPasswordBytes: password.DefaultMaxPasswordBytes,
			QueueSize:        password.DefaultQueueSize,
		},
	}
}

// HighSecurityConfig tightens DefaultSigningConfig: shorter tokens and a more
// expensive hash.
func HighSecurityConfig() SigningConfig {
	cfg := DefaultSigningConfig()
	cfg.DefaultTTL = 5 * time.Minute
	cfg.HashCost = 4
	cfg.Password.Memory = 128 * 1024
	cfg.Password.Parallelism = 4
	cfg.Password.SaltLength = 32
	cfg.Password.MaxPasswordBytes = 256
	return cfg
}

// Validate reports the first setting that would make the engine unusable.
// Settings that work but are weak are reported by Lint instead.
func (c SigningConfig) Validate() error {
	if len(c.Secret) == 0 {
		return errors.New("signing secret must not be empty")
	}
	if c.DefaultTTL < time.Second {
		return errors.New("DefaultTTL must be at least 1s")
	}
	if err := c.PasswordServiceConfig().Validate(); err != nil {
		return fmt.Errorf("password: %w", err)
	}
	return nil
}

// String renders the config with the secret redacted.
func (c SigningConfig) String() string {
	return fmt.Sprintf(
		"SigningConfig{Secret:%s DefaultTTL:%s HashCost:%d Algorithm:%s}",
		redacted, c.DefaultTTL, c.HashCost, c.Password.Algorithm,
	)
}

// GoString keeps %#v from printing the secret bytes.
func (c SigningConfig) GoString() string {
	return c.String()
}

// LogValue implements slog.LogValuer.
func (c SigningConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("secret", redacted),
		slog.Int("secret_bytes", len(c.Secret)),
		slog.Duration("default_ttl", c.DefaultTTL),
		slog.Any("hash_cost", c.HashCost),
		slog.String("algorithm", c.Password.Algorithm),
	)
}

func (c SigningConfig) tokenConfig(now func() time.Time) token.Config {
	return token.Config{
		Secret:     cloneBytes(c.Secret),
		DefaultTTL: c.DefaultTTL,
		Now:        now,
	}
}

// PasswordServiceConfig maps c onto a standalone password.Config, for callers
// that hash without issuing tokens.
func (c SigningConfig) PasswordServiceConfig() password.Config {
	return password.Config{
		Algorithm:        c.Password.Algorithm,
		Cost:             c.HashCost,
		Memory:           c.Password.Memory,
		Parallelism:      c.Password.Parallelism,
		SaltLength:       c.Password.SaltLength,
		KeyLength:        c.Password.KeyLength,
		MaxPasswordBytes: c.Password.MaxPasswordBytes,
		Workers:          c.Password.Workers,
		QueueSize:        c.Password.QueueSize,
	}
}

func cloneConfig(cfg SigningConfig) SigningConfig {
	out := cfg
	out.Secret = cloneBytes(cfg.Secret)
	return out
}

func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
