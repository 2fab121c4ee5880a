package password

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BcryptMaxPasswordBytes is the most input bcrypt reads; longer plaintexts are refused.
const BcryptMaxPasswordBytes = 72

var bcryptPrefixes = []string{"$2a$", "$2b$", "$2y$"}

type bcryptCodec struct {
	cost int
}

func newBcryptCodec(cfg Config) *bcryptCodec {
	return &bcryptCodec{cost: int(cfg.Cost)}
}

func (b *bcryptCodec) algorithm() string { return AlgorithmBcrypt }

func (b *bcryptCodec) hash(secret []byte) (string, error) {
	out, err := bcrypt.GenerateFromPassword(secret, b.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(out), nil
}

func (b *bcryptCodec) verify(secret []byte, encoded string) (bool, error) {
	if err := b.validate(encoded); err != nil {
		return false, err
	}
	// bcrypt reads only the first 72 bytes; longer input must not match on a shared prefix.
	if len(secret) > BcryptMaxPasswordBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), secret)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, hashMalformed(err.Error())
	}
}

func (b *bcryptCodec) validate(encoded string) error {
	if !isBcryptHash(encoded) {
		return hashMalformed("unsupported algorithm")
	}
	if _, err := bcrypt.Cost([]byte(encoded)); err != nil {
		return hashMalformed("invalid bcrypt hash")
	}
	return nil
}

func (b *bcryptCodec) needsRehash(encoded string) (bool, error) {
	if err := b.validate(encoded); err != nil {
		return false, err
	}
	cost, _ := bcrypt.Cost([]byte(encoded))
	return cost < b.cost, nil
}

func isBcryptHash(encoded string) bool {
	for _, p := range bcryptPrefixes {
		if strings.HasPrefix(encoded, p) {
			return true
		}
	}
	return false
}

func validateBcryptConfig(cfg Config) error {
	if int(cfg.Cost) < bcrypt.MinCost || int(cfg.Cost) > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}
	if cfg.MaxPasswordBytes > BcryptMaxPasswordBytes {
		return fmt.Errorf("bcrypt accepts at most %d password bytes", BcryptMaxPasswordBytes)
	}
	return nil
}
