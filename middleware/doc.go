// Package middleware adapts credkit.Engine to net/http.
//
// # Guards
//
//   - [Guard] rejects any request without a valid bearer token.
//   - [Optional] verifies a token when one is sent and lets anonymous requests
//     through.
//
// Both read the Authorization header, call Engine.Authenticate, and store the
// verified claims in the request context for [Claims] to read.
//
// Every failure produces the same 401 response with the same body. Whether the
// token was missing, forged, malformed or expired is visible only in the
// engine's logs and metrics.
package middleware
