package config

import (
	"bytes"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/MrEthical07/credkit"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "CREDKIT_"

// Settings is everything a credkit process needs at startup.
type Settings struct {
	Signing credkit.SigningConfig
	Log     LogSettings
	Metrics credkit.MetricsConfig
}

// LogSettings selects the slog handler.
type LogSettings struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// document mirrors the YAML layout.
type document struct {
	Secret     string        `koanf:"secret"`
	SecretFile string        `koanf:"secret_file"`
	DefaultTTL time.Duration `koanf:"default_ttl"`
	HashCost   uint32        `koanf:"hash_cost"`
	Password   struct {
		Algorithm        string `koanf:"algorithm"`
		Memory           uint32 `koanf:"memory_kib"`
		Parallelism      uint8  `koanf:"parallelism"`
		SaltLength       uint32 `koanf:"salt_length"`
		KeyLength        uint32 `koanf:"key_length"`
		MaxPasswordBytes int    `koanf:"max_password_bytes"`
		Workers          int    `koanf:"workers"`
		QueueSize        int    `koanf:"queue_size"`
	} `koanf:"password"`
	Log     LogSettings `koanf:"log"`
	Metrics struct {
		Enabled bool `koanf:"enabled"`
		Latency bool `koanf:"latency"`
	} `koanf:"metrics"`
}

// flagKeys maps flag names to config keys. Only these flags are read.
var flagKeys = map[string]string{
	"secret-file": "secret_file",
	"ttl":         "default_ttl",
	"hash-cost":   "hash_cost",
	"algorithm":   "password.algorithm",
	"log-format":  "log.format",
	"log-level":   "log.level",
	"metrics":     "metrics.enabled",
}

// RegisterFlags adds the flags Load understands to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("secret-file", "", "file holding the HMAC signing secret")
	fs.Duration("ttl", 0, "default token lifetime")
	fs.Uint32("hash-cost", 0, "argon2id time cost or bcrypt work factor")
	fs.String("algorithm", "", "password algorithm: argon2id or bcrypt")
	fs.String("log-format", "text", "log format: text or json")
	fs.String("log-level", "info", "log level")
	fs.Bool("metrics", false, "record engine metrics")
}

// Default returns the settings Load starts from.
func Default() Settings {
	return Settings{
		Signing: credkit.DefaultSigningConfig(),
		Log:     LogSettings{Format: "text", Level: "info"},
	}
}

// Load merges defaults, the YAML file at path (skipped when path is empty),
// the environment and flags. flags may be nil. The result is not validated;
// pass Signing to credkit.New().WithConfig and let Build reject it.
func Load(path string, flags *pflag.FlagSet) (Settings, error) {
	errb := oops.In("config").With("path", path)
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Settings{}, errb.Wrapf(err, "read config file")
		}
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	}), nil); err != nil {
		return Settings{}, errb.Wrapf(err, "read environment")
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return Settings{}, errb.Wrapf(err, "read flags")
		}
	}

	doc := fromSettings(Default())
	if err := k.Unmarshal("", &doc); err != nil {
		return Settings{}, errb.Wrapf(err, "decode config")
	}

	secret, err := resolveSecret(doc.Secret, doc.SecretFile)
	if err != nil {
		return Settings{}, errb.With("secret_file", doc.SecretFile).Wrap(err)
	}

	return doc.settings(secret), nil
}

func envKey(k, v string) (string, any) {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	return strings.ReplaceAll(k, "__", "."), v
}

func resolveSecret(inline, path string) ([]byte, error) {
	if inline != "" && path != "" {
		return nil, oops.Errorf("secret and secret_file are mutually exclusive")
	}
	if path == "" {
		return []byte(inline), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, oops.Wrapf(err, "read secret file")
	}
	return bytes.TrimRight(raw, "\r\n"), nil
}

func fromSettings(s Settings) document {
	var d document
	d.DefaultTTL = s.Signing.DefaultTTL
	d.HashCost = s.Signing.HashCost
	d.Password.Algorithm = s.Signing.Password.Algorithm
	d.Password.Memory = s.Signing.Password.Memory
	d.Password.Parallelism = s.Signing.Password.Parallelism
	d.Password.SaltLength = s.Signing.Password.SaltLength
	d.Password.KeyLength = s.Signing.Password.KeyLength
	d.Password.MaxPasswordBytes = s.Signing.Password.MaxPasswordBytes
	d.Password.Workers = s.Signing.Password.Workers
	d.Password.QueueSize = s.Signing.Password.QueueSize
	d.Log = s.Log
	d.Metrics.Enabled = s.Metrics.Enabled
	d.Metrics.Latency = s.Metrics.EnableLatencyHistograms
	return d
}

func (d document) settings(secret []byte) Settings {
	return Settings{
		Signing: credkit.SigningConfig{
			Secret:     secret,
			DefaultTTL: d.DefaultTTL,
			HashCost:   d.HashCost,
			Password: credkit.PasswordConfig{
				Algorithm:        d.Password.Algorithm,
				Memory:           d.Password.Memory,
				Parallelism:      d.Password.Parallelism,
				SaltLength:       d.Password.SaltLength,
				KeyLength:        d.Password.KeyLength,
				MaxPasswordBytes: d.Password.MaxPasswordBytes,
				Workers:          d.Password.Workers,
				QueueSize:        d.Password.QueueSize,
			},
		},
		Log: d.Log,
		Metrics: credkit.MetricsConfig{
			Enabled:                 d.Metrics.Enabled,
			EnableLatencyHistograms: d.Metrics.Latency,
		},
	}
}
