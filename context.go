package credkit

import (
	"context"

	"github.com/MrEthical07/credkit/token"
)

type claimsContextKey struct{}

// WithClaims returns a copy of ctx carrying verified claims.
func WithClaims(ctx context.Context, claims token.Claims) context.Context {
	return context.WithValue(ctx, claimsContextKey{}, claims)
}

// ClaimsFromContext returns the claims stored by WithClaims.
func ClaimsFromContext(ctx context.Context) (token.Claims, bool) {
	if ctx == nil {
		return token.Claims{}, false
	}
	claims, ok := ctx.Value(claimsContextKey{}).(token.Claims)
	return claims, ok
}
