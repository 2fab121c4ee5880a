package security

import "time"

// PasswordReport describes the configured password hashing.
type PasswordReport struct {
	Algorithm        string
	Cost             uint32
	Memory           uint32
	Parallelism      uint8
	SaltLength       uint32
	KeyLength        uint32
	MaxPasswordBytes int
}

// Report is a flattened, secret-free view of a signing configuration.
type Report struct {
	SigningAlgorithm string
	SecretBytes      int
	SecretStrong     bool
	DefaultTTL       time.Duration
	DefaultTTLWhole  bool
	Revocation       bool
	ClockSkew        time.Duration
	Password         PasswordReport
	BcryptTruncates  bool
	Workers          int
	QueueSize        int
	LintCodes        []string
	HighFindings     int
}

// ReportInput is what BuildReport needs from the caller's config.
type ReportInput struct {
	SigningAlgorithm string
	SecretBytes      int
	MinSecretBytes   int
	DefaultTTL       time.Duration
	Password         PasswordReport
	Workers          int
	QueueSize        int
	LintCodes        []string
	HighFindings     int
}

// BuildReport derives the report fields. Revocation and clock skew are always
// reported as off because tokens are stateless and checked against the local
// clock only.
func BuildReport(input ReportInput) Report {
	codes := make([]string, len(input.LintCodes))
	copy(codes, input.LintCodes)

	return Report{
		SigningAlgorithm: input.SigningAlgorithm,
		SecretBytes:      input.SecretBytes,
		SecretStrong:     input.SecretBytes >= input.MinSecretBytes,
		DefaultTTL:       input.DefaultTTL.Truncate(time.Second),
		DefaultTTLWhole:  input.DefaultTTL%time.Second == 0,
		Revocation:       false,
		ClockSkew:        0,
		Password:         input.Password,
		BcryptTruncates:  input.Password.Algorithm == "bcrypt",
		Workers:          input.Workers,
		QueueSize:        input.QueueSize,
		LintCodes:        codes,
		HighFindings:     input.HighFindings,
	}
}
