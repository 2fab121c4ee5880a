// Package password hashes, compares and grades user passwords.
//
// # Output format
//
// argon2id hashes are encoded in PHC string format:
//
//	$argon2id$v=19$m=<memory>,t=<cost>,p=<threads>$<salt>$<hash>
//
// bcrypt hashes use the standard modular crypt form ($2a$, $2b$, $2y$). Compare
// accepts either, whatever algorithm the [Service] is configured to produce, and
// [Service.NeedsRehash] flags hashes that should be upgraded on the next
// successful login.
//
// # Scheduling
//
// Hash and Compare run key derivation on the Service's worker pool. The caller
// blocks until the result is ready; cancellation is honoured only while waiting
// for a free slot.
//
// # What this package must NOT do
//
//   - Store or retrieve passwords. Callers supply plaintext and receive hashes.
//   - Import any other credkit package except internal/workpool.
//   - Log plaintext passwords or hashes.
package password
