package middleware

import (
	"net/http"

	"github.com/MrEthical07/credkit"
	"github.com/MrEthical07/credkit/token"
)

const authorizationHeader = "Authorization"

// Claims returns the verified claims stored by Guard or Optional.
func Claims(r *http.Request) (token.Claims, bool) {
	return credkit.ClaimsFromContext(r.Context())
}

// Guard returns middleware that admits only requests carrying a valid bearer
// token.
func Guard(engine *credkit.Engine) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if engine == nil {
				unauthorized(w)
				return
			}

			claims, err := engine.Authenticate(r.Context(), r.Header.Get(authorizationHeader))
			if err != nil {
				unauthorized(w)
				return
			}

			next.ServeHTTP(w, r.WithContext(credkit.WithClaims(r.Context(), claims)))
		})
	}
}

// Optional returns middleware that verifies a bearer token when the request
// has an Authorization header and passes anonymous requests through untouched.
// A header that is present but invalid is still rejected.
func Optional(engine *credkit.Engine) func(http.Handler) http.Handler {
	guard := Guard(engine)
	return func(next http.Handler) http.Handler {
		guarded := guard(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, present := r.Header[authorizationHeader]; !present {
				next.ServeHTTP(w, r)
				return
			}
			guarded.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="credkit"`)
	http.Error(w, credkit.ErrUnauthenticated.Error(), http.StatusUnauthorized)
}
