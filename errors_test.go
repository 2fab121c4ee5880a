package credkit

import (
	"errors"
	"fmt"
	"testing"
)

func TestPublicErrorCollapsesAuthFailures(t *testing.T) {
	for _, err := range []error{
		ErrTokenMalformed,
		ErrTokenSignatureInvalid,
		ErrTokenExpired,
		ErrHeaderMalformed,
		fmt.Errorf("wrapped: %w", ErrTokenExpired),
	} {
		if !Unauthenticated(err) {
			t.Fatalf("%v should be unauthenticated", err)
		}
		if got := PublicError(err); got != ErrUnauthenticated {
			t.Fatalf("PublicError(%v) = %v", err, got)
		}
	}
}

func TestPublicErrorPassesOtherErrors(t *testing.T) {
	if PublicError(nil) != nil {
		t.Fatal("nil must stay nil")
	}
	for _, err := range []error{ErrInvalidClaims, ErrEmptySecret, ErrHashMalformed, errors.New("boom")} {
		if Unauthenticated(err) {
			t.Fatalf("%v must not be unauthenticated", err)
		}
		if got := PublicError(err); got != err {
			t.Fatalf("PublicError(%v) = %v", err, got)
		}
	}
}
