package password

import (
	"errors"

	"github.com/samber/oops"
)

var (
	// ErrEmptySecret is returned by Hash for an empty plaintext.
	ErrEmptySecret = errors.New("password must not be empty")
	// ErrSecretTooLong is returned by Hash when the plaintext exceeds MaxPasswordBytes.
	ErrSecretTooLong = errors.New("password too long")
	// ErrHashMalformed is returned when a stored hash cannot be parsed into
	// algorithm, parameters, salt and digest.
	ErrHashMalformed = errors.New("password hash malformed")
)

func hashMalformed(reason string) error {
	return oops.Code("PASSWORD_HASH_MALFORMED").With("reason", reason).Wrap(ErrHashMalformed)
}

func emptySecret() error {
	return oops.Code("PASSWORD_EMPTY").Wrap(ErrEmptySecret)
}

func secretTooLong(limit int) error {
	return oops.Code("PASSWORD_TOO_LONG").With("max_bytes", limit).Wrap(ErrSecretTooLong)
}
