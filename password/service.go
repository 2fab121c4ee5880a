package password

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/MrEthical07/credkit/internal/workpool"
)

const (
	// AlgorithmArgon2id selects argon2id PHC hashes.
	AlgorithmArgon2id = "argon2id"
	// AlgorithmBcrypt selects bcrypt hashes.
	AlgorithmBcrypt = "bcrypt"

	// DefaultMaxPasswordBytes bounds plaintext size when Config.MaxPasswordBytes is zero.
	DefaultMaxPasswordBytes = 1024
	// DefaultQueueSize is used when Config.QueueSize is zero.
	DefaultQueueSize = 64
)

// Config tunes hashing. Cost is the cost factor: argon2id iterations, or the
// bcrypt log2 work factor. Memory, Parallelism, SaltLength and KeyLength apply
// to argon2id only.
type Config struct {
	Algorithm        string
	Cost             uint32
	Memory           uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MaxPasswordBytes int

	// Workers and QueueSize size the pool hashing runs on.
	Workers   int
	QueueSize int
}

// DefaultConfig returns argon2id parameters in line with OWASP guidance.
func DefaultConfig() Config {
	return Config{
		Algorithm:        AlgorithmArgon2id,
		Cost:             3,
		Memory:           64 * 1024,
		Parallelism:      2,
		SaltLength:       16,
		KeyLength:        32,
		MaxPasswordBytes: DefaultMaxPasswordBytes,
		QueueSize:        DefaultQueueSize,
	}
}

// Validate reports the first problem with cfg.
func (c Config) Validate() error {
	if c.MaxPasswordBytes < 0 {
		return errors.New("password max bytes must be >= 0")
	}
	if c.Workers < 0 || c.QueueSize < 0 {
		return errors.New("password worker and queue sizes must be >= 0")
	}
	switch c.Algorithm {
	case AlgorithmArgon2id:
		return validateArgon2Config(c)
	case AlgorithmBcrypt:
		return validateBcryptConfig(c)
	default:
		return fmt.Errorf("unsupported password algorithm %q", c.Algorithm)
	}
}

type codec interface {
	algorithm() string
	hash(secret []byte) (string, error)
	verify(secret []byte, encoded string) (bool, error)
	validate(encoded string) error
	needsRehash(encoded string) (bool, error)
}

// Service hashes and compares passwords on a bounded worker pool so the
// expensive key derivation never runs on the caller's goroutine.
//
// Service is safe for concurrent use. Close releases the workers.
type Service struct {
	maxBytes int
	primary  codec
	argon2   *argon2Codec
	bcrypt   *bcryptCodec
	pool     *workpool.Pool
}

// New validates cfg and starts the worker pool.
func New(cfg Config) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxPasswordBytes == 0 {
		cfg.MaxPasswordBytes = DefaultMaxPasswordBytes
		if cfg.Algorithm == AlgorithmBcrypt {
			cfg.MaxPasswordBytes = BcryptMaxPasswordBytes
		}
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = DefaultQueueSize
	}

	s := &Service{
		maxBytes: cfg.MaxPasswordBytes,
		pool:     workpool.New(workpool.Config{Workers: cfg.Workers, QueueSize: cfg.QueueSize}),
	}

	// Both codecs exist so that hashes written under the other algorithm can
	// still be compared and flagged for rehash.
	argonCfg := cfg
	bcryptCfg := cfg
	switch cfg.Algorithm {
	case AlgorithmBcrypt:
		argonCfg = DefaultConfig()
		s.bcrypt = newBcryptCodec(bcryptCfg)
		s.argon2 = newArgon2Codec(argonCfg)
		s.primary = s.bcrypt
	default:
		bcryptCfg.Cost = 10
		s.argon2 = newArgon2Codec(argonCfg)
		s.bcrypt = newBcryptCodec(bcryptCfg)
		s.primary = s.argon2
	}

	return s, nil
}

// Algorithm returns the algorithm new hashes are produced with.
func (s *Service) Algorithm() string {
	return s.primary.algorithm()
}

// Close waits for in-flight work and stops the workers.
func (s *Service) Close() {
	if s == nil {
		return
	}
	s.pool.Close()
}

// PoolStats describes the hashing pool at one instant.
type PoolStats struct {
	Queued    int
	InFlight  int64
	Completed uint64
}

// Stats reports the hashing pool's queue depth and throughput.
func (s *Service) Stats() PoolStats {
	return PoolStats{
		Queued:    s.pool.Queued(),
		InFlight:  s.pool.InFlight(),
		Completed: s.pool.Completed(),
	}
}

// Pending is the future result of Submit.
type Pending struct {
	f *workpool.Future[string]
}

// Done is closed when the hash is ready.
func (p *Pending) Done() <-chan struct{} { return p.f.Done() }

// Wait blocks until the hash is ready.
func (p *Pending) Wait() (string, error) { return p.f.Wait() }

// Submit queues a hash of plaintext and returns without waiting for it.
//
// ctx bounds only the wait for queue space; a queued hash always runs to
// completion.
func (s *Service) Submit(ctx context.Context, plaintext string) (*Pending, error) {
	if err := s.checkPlaintext(plaintext); err != nil {
		return nil, err
	}

	secret := []byte(plaintext)
	f, err := workpool.Go(ctx, s.pool, func() (string, error) {
		return s.primary.hash(secret)
	})
	if err != nil {
		return nil, fmt.Errorf("dispatch hash: %w", err)
	}
	return &Pending{f: f}, nil
}

// Hash derives a salted one-way hash of plaintext. The result embeds the
// algorithm, parameters, salt and digest.
func (s *Service) Hash(ctx context.Context, plaintext string) (string, error) {
	p, err := s.Submit(ctx, plaintext)
	if err != nil {
		return "", err
	}
	return p.Wait()
}

// Compare reports whether plaintext matches encoded. A mismatch is (false, nil);
// an error means encoded could not be parsed (ErrHashMalformed) or the work
// could not be dispatched.
func (s *Service) Compare(ctx context.Context, plaintext, encoded string) (bool, error) {
	c, err := s.codecFor(encoded)
	if err != nil {
		return false, err
	}
	if err := c.validate(encoded); err != nil {
		return false, err
	}
	// Longer inputs are refused by Hash, so they cannot match any stored hash.
	if len(plaintext) > s.maxBytes {
		return false, nil
	}

	secret := []byte(plaintext)
	ok, err := workpool.Do(ctx, s.pool, func() (bool, error) {
		return c.verify(secret, encoded)
	})
	if err != nil {
		if errors.Is(err, ErrHashMalformed) {
			return false, err
		}
		return false, fmt.Errorf("dispatch compare: %w", err)
	}
	return ok, nil
}

// NeedsRehash reports whether encoded was produced by a different algorithm or
// with weaker parameters than the current configuration.
func (s *Service) NeedsRehash(encoded string) (bool, error) {
	c, err := s.codecFor(encoded)
	if err != nil {
		return false, err
	}
	if c != s.primary {
		if err := c.validate(encoded); err != nil {
			return false, err
		}
		return true, nil
	}
	return c.needsRehash(encoded)
}

// ValidateStrength is the method form of the package-level ValidateStrength.
func (s *Service) ValidateStrength(plaintext string) StrengthAssessment {
	return ValidateStrength(plaintext)
}

func (s *Service) checkPlaintext(plaintext string) error {
	if plaintext == "" {
		return emptySecret()
	}
	if len(plaintext) > s.maxBytes {
		return secretTooLong(s.maxBytes)
	}
	return nil
}

func (s *Service) codecFor(encoded string) (codec, error) {
	switch {
	case strings.HasPrefix(encoded, argon2Prefix):
		return s.argon2, nil
	case isBcryptHash(encoded):
		return s.bcrypt, nil
	default:
		return nil, hashMalformed("unrecognized hash format")
	}
}
