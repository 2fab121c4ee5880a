package token

import (
	"strings"
	"unicode"
)

const bearerPrefix = "Bearer "

// ExtractToken returns the credential from an Authorization header value of the
// exact form "Bearer <token>". The scheme is case-sensitive, exactly one space
// separates it from the token, and the token must be non-empty with no
// whitespace or control characters. It does not verify the token.
func ExtractToken(headerValue string) (string, error) {
	if !strings.HasPrefix(headerValue, bearerPrefix) {
		return "", headerMalformed("missing bearer scheme")
	}

	tok := headerValue[len(bearerPrefix):]
	if tok == "" {
		return "", headerMalformed("empty token")
	}
	for _, r := range tok {
		if unicode.IsSpace(r) || unicode.IsControl(r) {
			return "", headerMalformed("token contains whitespace or control characters")
		}
	}

	return tok, nil
}
