package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Config carries what a Service needs from the process-wide signing config.
//
// Config is copied by New; later changes to the caller's value have no effect.
type Config struct {
	Secret     []byte
	DefaultTTL time.Duration
	// Now overrides the clock. Nil means time.Now.
	Now func() time.Time
}

// Service issues and verifies tokens. It holds no mutable state and is safe for
// concurrent use.
type Service struct {
	secret     []byte
	defaultTTL time.Duration
	now        func() time.Time
	parser     *jwt.Parser
}

// New validates cfg and returns a Service.
func New(cfg Config) (*Service, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if cfg.DefaultTTL < time.Second {
		return nil, errors.New("token default TTL must be at least one second")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)

	// Expiry and the mandatory claims are checked by Verify itself once the
	// signature is known to be good.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
		jwt.WithStrictDecoding(),
	)

	return &Service{
		secret:     secret,
		defaultTTL: cfg.DefaultTTL,
		now:        cfg.Now,
		parser:     parser,
	}, nil
}

// DefaultTTL returns the lifetime used by Generate.
func (s *Service) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Generate signs claims with the default TTL.
func (s *Service) Generate(claims Claims) (string, error) {
	return s.GenerateWithTTL(claims, s.defaultTTL)
}

// GenerateWithTTL signs claims with an explicit lifetime. ttl is truncated to
// whole seconds and must be at least one second.
//
// The returned token verifies, under the same secret and before expiry, to
// claims merged with the computed iat, exp and jti.
func (s *Service) GenerateWithTTL(claims Claims, ttl time.Duration) (string, error) {
	if ttl < time.Second {
		return "", invalidClaims("ttl must be at least one second", "ttl", ttl.String())
	}
	if claims.Subject == "" {
		return "", invalidClaims("subject is required")
	}
	if claims.IssuedAt != 0 || claims.ExpiresAt != 0 || claims.TokenID != "" {
		return "", invalidClaims("iat, exp and jti are computed by the issuer")
	}
	extra, err := normalizeExtra(claims.Extra)
	if err != nil {
		return "", err
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("generate token id: %w", err)
	}

	issuedAt := s.now().Unix()
	merged := Claims{
		Subject:   claims.Subject,
		TokenID:   id.String(),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt + int64(ttl/time.Second),
		Extra:     extra,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, merged).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses tokenString, checks its signature and then its expiry.
//
// Failures wrap ErrTokenMalformed, ErrTokenSignatureInvalid or ErrTokenExpired.
// Callers facing untrusted clients should not distinguish between them.
func (s *Service) Verify(tokenString string) (Claims, error) {
	var claims Claims
	_, err := s.parser.ParseWithClaims(tokenString, &claims, s.keyFunc)
	if err != nil {
		return Claims{}, classifyParseError(err)
	}

	if claims.Subject == "" || claims.IssuedAt == 0 || claims.ExpiresAt == 0 || claims.TokenID == "" {
		return Claims{}, malformed("mandatory claims missing")
	}

	now := s.now().Unix()
	if now > claims.ExpiresAt {
		return Claims{}, expired(claims.ExpiresAt, now)
	}

	return claims, nil
}

// ExtractToken is the method form of the package-level ExtractToken.
func (s *Service) ExtractToken(headerValue string) (string, error) {
	return ExtractToken(headerValue)
}

func (s *Service) keyFunc(t *jwt.Token) (interface{}, error) {
	if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
		return nil, fmt.Errorf("unexpected signing algorithm: %s", t.Method.Alg())
	}
	return s.secret, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return signatureInvalid(err.Error())
	default:
		return malformed(err.Error())
	}
}
