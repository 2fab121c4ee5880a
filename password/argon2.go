package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	minMemoryKB    uint32 = 8 * 1024
	minTimeCost    uint32 = 1
	minParallelism uint8  = 1
	minSaltLength  uint32 = 16
	minKeyLength   uint32 = 16

	// Upper bounds for parameters read back from stored hashes. A crafted hash
	// must not be able to demand gigabytes of memory or minutes of CPU.
	maxMemoryKB  uint32 = 1 << 20
	maxTimeCost  uint32 = 64
	maxKeyLength uint32 = 1024

	argon2Prefix = "$" + AlgorithmArgon2id + "$"
)

type argon2Codec struct {
	memory      uint32
	time        uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func newArgon2Codec(cfg Config) *argon2Codec {
	return &argon2Codec{
		memory:      cfg.Memory,
		time:        cfg.Cost,
		parallelism: cfg.Parallelism,
		saltLength:  cfg.SaltLength,
		keyLength:   cfg.KeyLength,
	}
}

func (a *argon2Codec) algorithm() string { return AlgorithmArgon2id }

func (a *argon2Codec) hash(secret []byte) (string, error) {
	salt := make([]byte, a.saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("read salt: %w", err)
	}

	digest := argon2.IDKey(secret, salt, a.time, a.memory, a.parallelism, a.keyLength)

	return fmt.Sprintf(
		"$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		AlgorithmArgon2id,
		argon2.Version,
		a.memory,
		a.time,
		a.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(digest),
	), nil
}

func (a *argon2Codec) verify(secret []byte, encoded string) (bool, error) {
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	computed := argon2.IDKey(
		secret,
		parsed.salt,
		parsed.time,
		parsed.memory,
		parsed.parallelism,
		uint32(len(parsed.hash)),
	)

	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1, nil
}

func (a *argon2Codec) validate(encoded string) error {
	_, err := parsePHC(encoded)
	return err
}

func (a *argon2Codec) needsRehash(encoded string) (bool, error) {
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false, err
	}

	switch {
	case a.memory > parsed.memory,
		a.time > parsed.time,
		a.parallelism > parsed.parallelism,
		a.keyLength != uint32(len(parsed.hash)),
		a.saltLength > uint32(len(parsed.salt)):
		return true, nil
	default:
		return false, nil
	}
}

func parsePHC(encoded string) (*parsedPHC, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, hashMalformed("invalid PHC format")
	}

	if parts[1] != AlgorithmArgon2id {
		return nil, hashMalformed("unsupported algorithm")
	}

	versionPart := parts[2]
	if !strings.HasPrefix(versionPart, "v=") {
		return nil, hashMalformed("missing argon2 version")
	}
	version, err := strconv.Atoi(strings.TrimPrefix(versionPart, "v="))
	if err != nil {
		return nil, hashMalformed("invalid argon2 version")
	}
	if version != argon2.Version {
		return nil, hashMalformed("unsupported argon2 version")
	}

	params, err := parseParams(parts[3])
	if err != nil {
		return nil, err
	}

	salt, err := base64.RawStdEncoding.Strict().DecodeString(parts[4])
	if err != nil {
		return nil, hashMalformed("invalid salt encoding")
	}
	if len(salt) < int(minSaltLength) {
		return nil, hashMalformed("invalid salt length")
	}

	digest, err := base64.RawStdEncoding.Strict().DecodeString(parts[5])
	if err != nil {
		return nil, hashMalformed("invalid hash encoding")
	}
	if len(digest) < int(minKeyLength) || len(digest) > int(maxKeyLength) {
		return nil, hashMalformed("invalid hash length")
	}

	return &parsedPHC{
		memory:      params.memory,
		time:        params.time,
		parallelism: params.parallelism,
		salt:        salt,
		hash:        digest,
	}, nil
}

type parsedParams struct {
	memory      uint32
	time        uint32
	parallelism uint8
}

func parseParams(part string) (*parsedParams, error) {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return nil, hashMalformed("invalid parameter format")
	}

	var (
		memorySet, timeSet, parallelismSet bool
		params                             parsedParams
	)

	for _, pair := range pairs {
		kv := strings.SplitN(pair, "=", 2)
		if len(kv) != 2 {
			return nil, hashMalformed("invalid parameter entry")
		}

		switch kv[0] {
		case "m":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(minMemoryKB) || v > uint64(maxMemoryKB) {
				return nil, hashMalformed("invalid memory parameter")
			}
			params.memory = uint32(v)
			memorySet = true
		case "t":
			v, err := strconv.ParseUint(kv[1], 10, 32)
			if err != nil || v < uint64(minTimeCost) || v > uint64(maxTimeCost) {
				return nil, hashMalformed("invalid time parameter")
			}
			params.time = uint32(v)
			timeSet = true
		case "p":
			v, err := strconv.ParseUint(kv[1], 10, 8)
			if err != nil || v < uint64(minParallelism) {
				return nil, hashMalformed("invalid parallelism parameter")
			}
			params.parallelism = uint8(v)
			parallelismSet = true
		default:
			return nil, hashMalformed("unsupported parameter")
		}
	}

	if !memorySet || !timeSet || !parallelismSet {
		return nil, hashMalformed("missing parameters")
	}

	return &params, nil
}

func validateArgon2Config(cfg Config) error {
	if cfg.Memory < minMemoryKB || cfg.Memory > maxMemoryKB {
		return fmt.Errorf("password memory must be between %d and %d KiB", minMemoryKB, maxMemoryKB)
	}
	if cfg.Cost < minTimeCost || cfg.Cost > maxTimeCost {
		return fmt.Errorf("argon2id cost must be between %d and %d", minTimeCost, maxTimeCost)
	}
	if cfg.Parallelism < minParallelism {
		return fmt.Errorf("password parallelism must be >= %d", minParallelism)
	}
	if cfg.SaltLength < minSaltLength {
		return fmt.Errorf("password salt length must be >= %d", minSaltLength)
	}
	if cfg.KeyLength < minKeyLength || cfg.KeyLength > maxKeyLength {
		return fmt.Errorf("password key length must be between %d and %d", minKeyLength, maxKeyLength)
	}
	return nil
}
