// Package credkit issues and verifies signed session tokens and hashes,
// compares and grades user passwords.
//
// The work is split across two independent packages: [token] for HS256 session
// tokens and [password] for argon2id/bcrypt hashing. This package ties them to
// one [SigningConfig] through a [Builder] and an [Engine] that adds structured
// logging, metrics and trace spans.
//
// # Architecture boundaries
//
// credkit keeps no state beyond its configuration. Tokens are self-contained
// and expire on their own; there is no revocation list, session store or rate
// limiter. Persisting users and hashes is the caller's job.
//
// # Errors
//
// Token and header failures keep distinct kinds ([ErrTokenMalformed],
// [ErrTokenSignatureInvalid], [ErrTokenExpired], [ErrHeaderMalformed]) for logs
// and metrics. [PublicError] collapses them into [ErrUnauthenticated] before
// anything reaches an untrusted client.
//
// # Performance contract
//
// Token operations are synchronous and allocation-light. Password hashing and
// comparison run on a bounded worker pool; the caller blocks until the result
// is ready, and a context only bounds the wait for a free slot.
package credkit
