package credkit

import (
	"runtime"

	"github.com/MrEthical07/credkit/internal/security"
	"github.com/MrEthical07/credkit/password"
)

// SecurityReport is a secret-free summary of a SigningConfig, suitable for
// startup logs and operator tooling.
type SecurityReport = security.Report

// PasswordConfigReport is the password part of a SecurityReport.
type PasswordConfigReport = security.PasswordReport

// SecurityReport summarizes c.
func (c SigningConfig) SecurityReport() SecurityReport {
	lint := c.Lint()

	workers := c.Password.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	queue := c.Password.QueueSize
	if queue <= 0 {
		queue = password.DefaultQueueSize
	}
	maxBytes := c.Password.MaxPasswordBytes
	if maxBytes <= 0 {
		maxBytes = password.DefaultMaxPasswordBytes
		if c.Password.Algorithm == AlgorithmBcrypt {
			maxBytes = password.BcryptMaxPasswordBytes
		}
	}

	return security.BuildReport(security.ReportInput{
		SigningAlgorithm: "HS256",
		SecretBytes:      len(c.Secret),
		MinSecretBytes:   MinSecretBytes,
		DefaultTTL:       c.DefaultTTL,
		Password: security.PasswordReport{
			Algorithm:        c.Password.Algorithm,
			Cost:             c.HashCost,
			Memory:           c.Password.Memory,
			Parallelism:      c.Password.Parallelism,
			SaltLength:       c.Password.SaltLength,
			KeyLength:        c.Password.KeyLength,
			MaxPasswordBytes: maxBytes,
		},
		Workers:      workers,
		QueueSize:    queue,
		LintCodes:    lint.Codes(),
		HighFindings: len(lint.BySeverity(LintHigh)),
	})
}

// SecurityReport summarizes the engine's configuration.
func (e *Engine) SecurityReport() SecurityReport {
	if e == nil {
		return SecurityReport{}
	}
	return e.config.SecurityReport()
}
