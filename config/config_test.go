package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/credkit"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaultsOnly(t *testing.T) {
	s, err := Load("", nil)
	require.NoError(t, err)

	want := credkit.DefaultSigningConfig()
	assert.Equal(t, want.DefaultTTL, s.Signing.DefaultTTL)
	assert.Equal(t, want.HashCost, s.Signing.HashCost)
	assert.Equal(t, want.Password, s.Signing.Password)
	assert.Empty(t, s.Signing.Secret)
	assert.Equal(t, "text", s.Log.Format)
	assert.Equal(t, "info", s.Log.Level)
	assert.False(t, s.Metrics.Enabled)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	path := writeFile(t, "credkit.yaml", `
secret: yaml-secret-yaml-secret-yaml-sec
default_ttl: 5m
hash_cost: 12
password:
  algorithm: bcrypt
  max_password_bytes: 72
log:
  format: json
metrics:
  enabled: true
  latency: true
`)

	s, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte("yaml-secret-yaml-secret-yaml-sec"), s.Signing.Secret)
	assert.Equal(t, 5*time.Minute, s.Signing.DefaultTTL)
	assert.Equal(t, uint32(12), s.Signing.HashCost)
	assert.Equal(t, credkit.AlgorithmBcrypt, s.Signing.Password.Algorithm)
	assert.Equal(t, 72, s.Signing.Password.MaxPasswordBytes)
	assert.Equal(t, uint8(2), s.Signing.Password.Parallelism, "untouched keys keep defaults")
	assert.Equal(t, "json", s.Log.Format)
	assert.Equal(t, "info", s.Log.Level)
	assert.True(t, s.Metrics.Enabled)
	assert.True(t, s.Metrics.EnableLatencyHistograms)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeFile(t, "credkit.yaml", "default_ttl: 5m\nhash_cost: 2\n")
	t.Setenv("CREDKIT_DEFAULT_TTL", "90s")
	t.Setenv("CREDKIT_PASSWORD__MEMORY_KIB", "32768")
	t.Setenv("CREDKIT_SECRET", "env-secret-env-secret-env-secret")

	s, err := Load(path, nil)
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, s.Signing.DefaultTTL)
	assert.Equal(t, uint32(2), s.Signing.HashCost)
	assert.Equal(t, uint32(32768), s.Signing.Password.Memory)
	assert.Equal(t, []byte("env-secret-env-secret-env-secret"), s.Signing.Secret)
}

func TestLoadFlagsOverrideEverything(t *testing.T) {
	path := writeFile(t, "credkit.yaml", "default_ttl: 5m\nlog:\n  level: warn\n")
	t.Setenv("CREDKIT_DEFAULT_TTL", "90s")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--ttl", "30s", "--metrics"}))

	s, err := Load(path, fs)
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, s.Signing.DefaultTTL)
	assert.True(t, s.Metrics.Enabled)
	assert.Equal(t, "warn", s.Log.Level, "unset flags do not override the file")
	assert.Equal(t, "text", s.Log.Format)
}

func TestLoadSecretFile(t *testing.T) {
	secretPath := writeFile(t, "secret", "file-secret-file-secret-file-sec\n")
	path := writeFile(t, "credkit.yaml", "secret_file: "+secretPath+"\n")

	s, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, []byte("file-secret-file-secret-file-sec"), s.Signing.Secret)
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), nil)
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "default_ttl: [\n"), nil)
		assert.Error(t, err)
	})

	t.Run("bad duration", func(t *testing.T) {
		_, err := Load(writeFile(t, "bad.yaml", "default_ttl: soon\n"), nil)
		assert.Error(t, err)
	})

	t.Run("secret and secret_file", func(t *testing.T) {
		secretPath := writeFile(t, "secret", "x")
		_, err := Load(writeFile(t, "both.yaml", "secret: abc\nsecret_file: "+secretPath+"\n"), nil)
		assert.ErrorContains(t, err, "mutually exclusive")
	})

	t.Run("missing secret file", func(t *testing.T) {
		_, err := Load(writeFile(t, "c.yaml", "secret_file: /nonexistent/credkit-secret\n"), nil)
		assert.Error(t, err)
	})
}

func TestLoadedSettingsBuildEngine(t *testing.T) {
	path := writeFile(t, "credkit.yaml", `
secret: built-secret-built-secret-built-s
hash_cost: 1
password:
  memory_kib: 8192
  parallelism: 1
  workers: 1
`)
	s, err := Load(path, nil)
	require.NoError(t, err)

	engine, err := credkit.New().WithConfig(s.Signing).Build()
	require.NoError(t, err)
	engine.Close()
}

func TestEnvKey(t *testing.T) {
	k, v := envKey("CREDKIT_PASSWORD__SALT_LENGTH", "32")
	assert.Equal(t, "password.salt_length", k)
	assert.Equal(t, "32", v)
}
