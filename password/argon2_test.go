package password

import (
	"errors"
	"strings"
	"testing"
)

func fastArgon2Config() Config {
	return Config{
		Algorithm:   AlgorithmArgon2id,
		Cost:        1,
		Memory:      minMemoryKB,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func TestArgon2HashFormat(t *testing.T) {
	c := newArgon2Codec(fastArgon2Config())

	hash, err := c.hash([]byte("P@ssw0rd-Ascii"))
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=8192,t=1,p=1$") {
		t.Fatalf("unexpected PHC prefix: %s", hash)
	}

	ok, err := c.verify([]byte("P@ssw0rd-Ascii"), hash)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if !ok {
		t.Fatal("expected password verification to succeed")
	}
}

func TestArgon2VerifyUsesEmbeddedParameters(t *testing.T) {
	weak := newArgon2Codec(fastArgon2Config())
	hash, err := weak.hash([]byte("portable-password"))
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}

	strongCfg := fastArgon2Config()
	strongCfg.Cost = 2
	strongCfg.Memory = 16 * 1024
	strong := newArgon2Codec(strongCfg)

	ok, err := strong.verify([]byte("portable-password"), hash)
	if err != nil || !ok {
		t.Fatalf("expected verification with embedded parameters: ok=%v err=%v", ok, err)
	}

	needs, err := strong.needsRehash(hash)
	if err != nil {
		t.Fatalf("needsRehash error: %v", err)
	}
	if !needs {
		t.Fatal("expected weaker hash to need rehash")
	}

	needs, err = weak.needsRehash(hash)
	if err != nil || needs {
		t.Fatalf("expected same parameters not to need rehash: needs=%v err=%v", needs, err)
	}
}

func TestArgon2RejectsMalformedHashes(t *testing.T) {
	c := newArgon2Codec(fastArgon2Config())
	good, err := c.hash([]byte("malformed-tests"))
	if err != nil {
		t.Fatalf("hash error: %v", err)
	}
	parts := strings.Split(good, "$")

	cases := map[string]string{
		"not phc":          "not-a-phc-hash",
		"wrong version":    strings.Replace(good, "$v=19$", "$v=18$", 1),
		"missing param":    "$argon2id$v=19$m=8192,t=1$" + parts[4] + "$" + parts[5],
		"unknown param":    "$argon2id$v=19$m=8192,t=1,x=1$" + parts[4] + "$" + parts[5],
		"tiny memory":      "$argon2id$v=19$m=1,t=1,p=1$" + parts[4] + "$" + parts[5],
		"huge memory":      "$argon2id$v=19$m=4294967295,t=1,p=1$" + parts[4] + "$" + parts[5],
		"huge time":        "$argon2id$v=19$m=8192,t=100000,p=1$" + parts[4] + "$" + parts[5],
		"bad salt":         "$argon2id$v=19$m=8192,t=1,p=1$!!!$" + parts[5],
		"short salt":       "$argon2id$v=19$m=8192,t=1,p=1$AAAA$" + parts[5],
		"bad digest":       "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$***",
		"empty digest":     "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "$",
		"extra segment":    good + "$extra",
		"other algorithm":  strings.Replace(good, "argon2id", "argon2i", 1),
		"leading garbage":  "x" + good,
		"padded base64":    "$argon2id$v=19$m=8192,t=1,p=1$" + parts[4] + "==$" + parts[5],
	}

	for name, encoded := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := c.verify([]byte("malformed-tests"), encoded); !errors.Is(err, ErrHashMalformed) {
				t.Fatalf("expected ErrHashMalformed, got %v", err)
			}
		})
	}
}

func TestValidateArgon2Config(t *testing.T) {
	if err := validateArgon2Config(fastArgon2Config()); err != nil {
		t.Fatalf("expected fast config to be valid: %v", err)
	}

	bad := []func(*Config){
		func(c *Config) { c.Memory = 1024 },
		func(c *Config) { c.Cost = 0 },
		func(c *Config) { c.Cost = 1000 },
		func(c *Config) { c.Parallelism = 0 },
		func(c *Config) { c.SaltLength = 8 },
		func(c *Config) { c.KeyLength = 8 },
	}
	for i, mutate := range bad {
		cfg := fastArgon2Config()
		mutate(&cfg)
		if err := validateArgon2Config(cfg); err == nil {
			t.Fatalf("case %d: expected invalid config to be rejected", i)
		}
	}
}
