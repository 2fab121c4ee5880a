package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	claimSubject   = "sub"
	claimIssuedAt  = "iat"
	claimExpiresAt = "exp"
	claimTokenID   = "jti"

	// Largest integer a float64 holds exactly; larger caller numbers would not
	// survive a round trip through the payload.
	maxExactInteger = 1 << 53
)

// Reserved claim names may not appear in Claims.Extra. The long forms are
// rejected too so callers cannot smuggle a second, conflicting subject or expiry.
var reservedClaims = map[string]struct{}{
	claimSubject:   {},
	claimIssuedAt:  {},
	claimExpiresAt: {},
	claimTokenID:   {},
	"nbf":          {},
	"iss":          {},
	"aud":          {},
	"subject":      {},
	"issuedAt":     {},
	"expiresAt":    {},
}

// Claims is the claim set carried by a token.
//
// Subject is supplied by the caller. TokenID, IssuedAt and ExpiresAt are computed
// by [Service.Generate] and must be left zero on input. Extra holds caller claims
// whose values are strings, booleans or numbers; numbers are held as float64.
type Claims struct {
	Subject   string
	TokenID   string
	IssuedAt  int64
	ExpiresAt int64
	Extra     map[string]any
}

// NewClaims validates subject and extra and returns a Claims ready for
// Generate. The extra map is copied.
func NewClaims(subject string, extra map[string]any) (Claims, error) {
	if subject == "" {
		return Claims{}, invalidClaims("subject is required")
	}
	normalized, err := normalizeExtra(extra)
	if err != nil {
		return Claims{}, err
	}
	return Claims{Subject: subject, Extra: normalized}, nil
}

// IssuedAtTime returns IssuedAt as a time.Time.
func (c Claims) IssuedAtTime() time.Time { return time.Unix(c.IssuedAt, 0) }

// ExpiresAtTime returns ExpiresAt as a time.Time.
func (c Claims) ExpiresAtTime() time.Time { return time.Unix(c.ExpiresAt, 0) }

// TTL is ExpiresAt minus IssuedAt.
func (c Claims) TTL() time.Duration {
	return time.Duration(c.ExpiresAt-c.IssuedAt) * time.Second
}

// MarshalJSON flattens the mandatory claims and Extra into one object. Map keys
// are emitted sorted, which keeps the serialization deterministic.
func (c Claims) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(c.Extra)+4)
	for k, v := range c.Extra {
		m[k] = v
	}
	m[claimSubject] = c.Subject
	m[claimIssuedAt] = c.IssuedAt
	m[claimExpiresAt] = c.ExpiresAt
	if c.TokenID != "" {
		m[claimTokenID] = c.TokenID
	}
	return json.Marshal(m)
}

// UnmarshalJSON is strict: mandatory claims must have the right types, and
// unknown claims must be scalar.
func (c *Claims) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("claims must be a JSON object")
	}

	out := Claims{Extra: make(map[string]any, len(raw))}
	for k, v := range raw {
		var err error
		switch k {
		case claimSubject:
			out.Subject, err = stringClaim(k, v)
		case claimTokenID:
			out.TokenID, err = stringClaim(k, v)
		case claimIssuedAt:
			out.IssuedAt, err = epochClaim(k, v)
		case claimExpiresAt:
			out.ExpiresAt, err = epochClaim(k, v)
		default:
			if _, reserved := reservedClaims[k]; reserved {
				return fmt.Errorf("unexpected reserved claim %q", k)
			}
			nv, ok := normalizeValue(v)
			if !ok {
				return fmt.Errorf("unsupported value for claim %q", k)
			}
			out.Extra[k] = nv
		}
		if err != nil {
			return err
		}
	}

	*c = out
	return nil
}

// The jwt.Claims accessors below let the parser treat Claims as a claim set.

func (c Claims) GetExpirationTime() (*jwt.NumericDate, error) {
	if c.ExpiresAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.ExpiresAt, 0)), nil
}

func (c Claims) GetIssuedAt() (*jwt.NumericDate, error) {
	if c.IssuedAt == 0 {
		return nil, nil
	}
	return jwt.NewNumericDate(time.Unix(c.IssuedAt, 0)), nil
}

func (c Claims) GetNotBefore() (*jwt.NumericDate, error) { return nil, nil }

func (c Claims) GetIssuer() (string, error) { return "", nil }

func (c Claims) GetSubject() (string, error) { return c.Subject, nil }

func (c Claims) GetAudience() (jwt.ClaimStrings, error) { return nil, nil }

func normalizeExtra(extra map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(extra))
	for k, v := range extra {
		if k == "" {
			return nil, invalidClaims("claim name must not be empty")
		}
		if _, reserved := reservedClaims[k]; reserved {
			return nil, invalidClaims("reserved claim supplied", "claim", k)
		}
		nv, ok := normalizeValue(v)
		if !ok {
			return nil, invalidClaims("unsupported claim value", "claim", k, "type", fmt.Sprintf("%T", v))
		}
		out[k] = nv
	}
	return out, nil
}

func normalizeValue(v any) (any, bool) {
	switch n := v.(type) {
	case string, bool:
		return n, true
	case float64:
		return n, !math.IsNaN(n) && !math.IsInf(n, 0)
	case float32:
		return normalizeValue(float64(n))
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil, false
		}
		return normalizeValue(f)
	case int:
		return exactInt(int64(n))
	case int8:
		return exactInt(int64(n))
	case int16:
		return exactInt(int64(n))
	case int32:
		return exactInt(int64(n))
	case int64:
		return exactInt(n)
	case uint:
		return exactUint(uint64(n))
	case uint8:
		return exactUint(uint64(n))
	case uint16:
		return exactUint(uint64(n))
	case uint32:
		return exactUint(uint64(n))
	case uint64:
		return exactUint(n)
	default:
		return nil, false
	}
}

func exactInt(n int64) (any, bool) {
	if n > maxExactInteger || n < -maxExactInteger {
		return nil, false
	}
	return float64(n), true
}

func exactUint(n uint64) (any, bool) {
	if n > maxExactInteger {
		return nil, false
	}
	return float64(n), true
}

func stringClaim(name string, v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("claim %q must be a string", name)
	}
	return s, nil
}

func epochClaim(name string, v any) (int64, error) {
	n, ok := v.(json.Number)
	if !ok {
		return 0, fmt.Errorf("claim %q must be a number", name)
	}
	secs, err := n.Int64()
	if err != nil {
		return 0, fmt.Errorf("claim %q must be whole epoch seconds", name)
	}
	return secs, nil
}
