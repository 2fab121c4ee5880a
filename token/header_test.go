package token

import (
	"errors"
	"testing"
)

func TestExtractToken(t *testing.T) {
	got, err := ExtractToken("Bearer abc123")
	if err != nil {
		t.Fatalf("expected valid header to parse: %v", err)
	}
	if got != "abc123" {
		t.Fatalf("expected abc123, got %q", got)
	}
}

func TestExtractTokenRejectsMalformedHeaders(t *testing.T) {
	for _, value := range []string{
		"bearer abc123",
		"Bearer  abc123",
		"abc123",
		"",
		"Bearer",
		"Bearer ",
		"Bearer abc123 ",
		"Bearer abc\t123",
		" Bearer abc123",
		"Basic dXNlcjpwYXNz",
		"BEARER abc123",
	} {
		if _, err := ExtractToken(value); !errors.Is(err, ErrHeaderMalformed) {
			t.Fatalf("header %q: expected ErrHeaderMalformed, got %v", value, err)
		}
	}
}
