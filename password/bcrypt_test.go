package password

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestBcryptHashAndCompare(t *testing.T) {
	s := newTestService(t, Config{Algorithm: AlgorithmBcrypt, Cost: 4})
	ctx := context.Background()

	if s.Algorithm() != AlgorithmBcrypt {
		t.Fatalf("unexpected algorithm %q", s.Algorithm())
	}

	hash, err := s.Hash(ctx, "bcrypt-password")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if !strings.HasPrefix(hash, "$2a$04$") {
		t.Fatalf("unexpected bcrypt prefix: %s", hash)
	}

	ok, err := s.Compare(ctx, "bcrypt-password", hash)
	if err != nil || !ok {
		t.Fatalf("expected match: ok=%v err=%v", ok, err)
	}
	ok, err = s.Compare(ctx, "other-password", hash)
	if err != nil || ok {
		t.Fatalf("expected mismatch: ok=%v err=%v", ok, err)
	}
}

func TestBcryptDefaultLimitIs72Bytes(t *testing.T) {
	s := newTestService(t, Config{Algorithm: AlgorithmBcrypt, Cost: 4})

	if _, err := s.Hash(context.Background(), strings.Repeat("x", 73)); !errors.Is(err, ErrSecretTooLong) {
		t.Fatalf("expected ErrSecretTooLong, got %v", err)
	}
}

func TestBcryptNeedsRehash(t *testing.T) {
	low := newTestService(t, Config{Algorithm: AlgorithmBcrypt, Cost: 4})
	high := newTestService(t, Config{Algorithm: AlgorithmBcrypt, Cost: 5})

	hash, err := low.Hash(context.Background(), "rehash-me")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	if needs, err := low.NeedsRehash(hash); err != nil || needs {
		t.Fatalf("expected no rehash at same cost: needs=%v err=%v", needs, err)
	}
	if needs, err := high.NeedsRehash(hash); err != nil || !needs {
		t.Fatalf("expected rehash at higher cost: needs=%v err=%v", needs, err)
	}

	argonHash, err := newTestService(t, fastArgon2Config()).Hash(context.Background(), "rehash-me")
	if err != nil {
		t.Fatalf("argon2 Hash error: %v", err)
	}
	if needs, err := low.NeedsRehash(argonHash); err != nil || !needs {
		t.Fatalf("expected argon2id hash to need rehash under bcrypt: needs=%v err=%v", needs, err)
	}
}

func TestBcryptMalformed(t *testing.T) {
	s := newTestService(t, Config{Algorithm: AlgorithmBcrypt, Cost: 4})

	if _, err := s.Compare(context.Background(), "x", "$2b$99$abcdefghijklmnopqrstuvwxyzabcdefghijklmnopqrstuvwxyz012"); !errors.Is(err, ErrHashMalformed) {
		t.Fatalf("expected ErrHashMalformed for invalid cost, got %v", err)
	}
	if _, err := s.Compare(context.Background(), "x", "$2b$"); !errors.Is(err, ErrHashMalformed) {
		t.Fatalf("expected ErrHashMalformed for truncated hash, got %v", err)
	}
}
