package token

import (
	"errors"

	"github.com/samber/oops"
)

var (
	// ErrInvalidClaims is returned by Generate and NewClaims when the subject is
	// missing, a reserved claim is supplied, or a claim value has an unsupported type.
	ErrInvalidClaims = errors.New("invalid claims")
	// ErrTokenMalformed is returned when a token cannot be parsed into a header,
	// payload and signature, or the payload lacks the mandatory claims.
	ErrTokenMalformed = errors.New("token malformed")
	// ErrTokenSignatureInvalid is returned when the signature does not match the
	// payload under the configured secret.
	ErrTokenSignatureInvalid = errors.New("token signature invalid")
	// ErrTokenExpired is returned for a correctly signed token past its exp.
	ErrTokenExpired = errors.New("token expired")
	// ErrHeaderMalformed is returned by ExtractToken when the value is not
	// "Bearer <token>".
	ErrHeaderMalformed = errors.New("authorization header malformed")
)

func invalidClaims(reason string, attrs ...any) error {
	return oops.Code("INVALID_CLAIMS").With("reason", reason).With(attrs...).Wrap(ErrInvalidClaims)
}

func malformed(reason string) error {
	return oops.Code("TOKEN_MALFORMED").With("reason", reason).Wrap(ErrTokenMalformed)
}

func signatureInvalid(reason string) error {
	return oops.Code("TOKEN_SIGNATURE_INVALID").With("reason", reason).Wrap(ErrTokenSignatureInvalid)
}

func expired(expiresAt, now int64) error {
	return oops.Code("TOKEN_EXPIRED").
		With("expires_at", expiresAt).
		With("now", now).
		Wrap(ErrTokenExpired)
}

func headerMalformed(reason string) error {
	return oops.Code("HEADER_MALFORMED").With("reason", reason).Wrap(ErrHeaderMalformed)
}
