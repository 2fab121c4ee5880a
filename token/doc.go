// Package token issues and verifies compact HS256 session tokens and parses
// bearer credentials out of Authorization header values.
//
// # Token format
//
// Tokens are JWS compact strings:
//
//	base64url(header).base64url(claims).base64url(hmac-sha256)
//
// Claims are serialized with sorted keys, so identical claim sets always produce
// identical payload segments. Every token carries sub, iat, exp and jti; caller
// claims ride alongside in [Claims.Extra].
//
// # Verification order
//
// [Service.Verify] checks structure, then the signature, and only then expiry. A
// tampered token therefore never reveals whether it would have been expired.
//
// # What this package must NOT do
//
//   - Keep any state between calls (no revocation list, no replay cache).
//   - Tolerate clock skew: now > exp is expired.
//   - Import the password package or the credkit root package.
package token
