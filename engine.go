package credkit

import (
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrEthical07/credkit/password"
	"github.com/MrEthical07/credkit/token"
)

// Engine pairs a token service and a password service built from one
// SigningConfig, adding logging, metrics and trace spans. The two services stay
// independent; Engine only routes calls.
//
// Engine methods are safe for concurrent use after Build.
type Engine struct {
	config    SigningConfig
	tokens    *token.Service
	passwords *password.Service
	metrics   *Metrics
	logger    *slog.Logger
	tracer    trace.Tracer
	closed    atomic.Bool
}

// Close waits for queued password work and stops the hashing workers.
func (e *Engine) Close() {
	if e == nil || !e.closed.CompareAndSwap(false, true) {
		return
	}
	e.passwords.Close()
}

// Tokens returns the underlying token service.
func (e *Engine) Tokens() *token.Service { return e.tokens }

// Passwords returns the underlying password service.
func (e *Engine) Passwords() *password.Service { return e.passwords }

// MetricsSnapshot returns a copy of the engine counters and histograms.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters:      map[MetricID]uint64{},
			Histograms:    map[MetricID][]uint64{},
			HistogramSums: map[MetricID]time.Duration{},
		}
	}
	return e.metrics.Snapshot()
}

// PoolStats reports the password hashing pool.
func (e *Engine) PoolStats() password.PoolStats {
	if e == nil || e.passwords == nil {
		return password.PoolStats{}
	}
	return e.passwords.Stats()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) observe(id MetricID, start time.Time) {
	if e.metrics.LatencyEnabled() {
		e.metrics.Observe(id, time.Since(start))
	}
}

func (e *Engine) ready() error {
	if e == nil || e.tokens == nil || e.passwords == nil || e.closed.Load() {
		return ErrEngineNotReady
	}
	return nil
}

// GenerateToken issues a token for claims with the configured default TTL.
func (e *Engine) GenerateToken(claims token.Claims) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}
	return e.GenerateTokenWithTTL(claims, e.tokens.DefaultTTL())
}

// GenerateTokenWithTTL issues a token for claims that lives for ttl.
func (e *Engine) GenerateTokenWithTTL(claims token.Claims, ttl time.Duration) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	tok, err := e.tokens.GenerateWithTTL(claims, ttl)
	if err != nil {
		e.metricInc(MetricTokenIssueRejected)
		e.logger.Warn("token generation rejected", "error", err)
		return "", err
	}

	e.metricInc(MetricTokenIssued)
	e.logger.Debug("token issued", "sub", claims.Subject, "ttl", ttl)
	return tok, nil
}

// VerifyToken checks tokenString and returns its claims. Errors keep their
// diagnostic kind; pass them through PublicError before showing a client.
func (e *Engine) VerifyToken(tokenString string) (token.Claims, error) {
	if err := e.ready(); err != nil {
		return token.Claims{}, err
	}

	start := time.Now()
	claims, err := e.tokens.Verify(tokenString)
	e.observe(MetricVerifyLatency, start)
	if err != nil {
		e.recordVerifyFailure(context.Background(), err)
		return token.Claims{}, err
	}

	e.metricInc(MetricTokenVerified)
	return claims, nil
}

// ExtractToken returns the bearer credential from an Authorization header value.
func (e *Engine) ExtractToken(headerValue string) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	tok, err := token.ExtractToken(headerValue)
	if err != nil {
		e.metricInc(MetricHeaderMalformed)
		return "", err
	}
	return tok, nil
}

// Authenticate extracts and verifies the bearer token in headerValue.
func (e *Engine) Authenticate(ctx context.Context, headerValue string) (token.Claims, error) {
	if err := e.ready(); err != nil {
		return token.Claims{}, err
	}

	ctx, span := e.tracer.Start(ctx, "credkit.Authenticate")
	defer span.End()

	tok, err := e.ExtractToken(headerValue)
	if err != nil {
		e.logger.DebugContext(ctx, "authorization header rejected", "error", err)
		endSpan(span, err)
		return token.Claims{}, err
	}

	start := time.Now()
	claims, err := e.tokens.Verify(tok)
	e.observe(MetricVerifyLatency, start)
	if err != nil {
		e.recordVerifyFailure(ctx, err)
		endSpan(span, err)
		return token.Claims{}, err
	}

	e.metricInc(MetricTokenVerified)
	span.SetAttributes(attribute.String("enduser.id", claims.Subject))
	return claims, nil
}

func (e *Engine) recordVerifyFailure(ctx context.Context, err error) {
	switch {
	case errors.Is(err, ErrTokenExpired):
		e.metricInc(MetricTokenExpired)
	case errors.Is(err, ErrTokenSignatureInvalid):
		e.metricInc(MetricTokenSignatureInvalid)
	default:
		e.metricInc(MetricTokenMalformed)
	}
	e.logger.DebugContext(ctx, "token rejected", "error", err)
}

// HashPassword hashes plaintext on the worker pool. EmptySecret and other
// failures are logged at error level and returned.
func (e *Engine) HashPassword(ctx context.Context, plaintext string) (string, error) {
	if err := e.ready(); err != nil {
		return "", err
	}

	ctx, span := e.tracer.Start(ctx, "credkit.HashPassword",
		trace.WithAttributes(attribute.String("credkit.algorithm", e.passwords.Algorithm())))
	defer span.End()

	start := time.Now()
	hash, err := e.passwords.Hash(ctx, plaintext)
	e.observe(MetricHashLatency, start)
	if err != nil {
		e.metricInc(MetricPasswordHashRejected)
		e.logger.ErrorContext(ctx, "password hash failed", "error", err)
		endSpan(span, err)
		return "", err
	}

	e.metricInc(MetricPasswordHashed)
	return hash, nil
}

// ComparePassword reports whether plaintext matches hash. A mismatch is
// (false, nil). A malformed hash is logged at error level and returned.
func (e *Engine) ComparePassword(ctx context.Context, plaintext, hash string) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}

	ctx, span := e.tracer.Start(ctx, "credkit.ComparePassword")
	defer span.End()

	start := time.Now()
	ok, err := e.passwords.Compare(ctx, plaintext, hash)
	e.observe(MetricCompareLatency, start)
	if err != nil {
		if errors.Is(err, ErrHashMalformed) {
			e.metricInc(MetricPasswordHashMalformed)
		}
		e.logger.ErrorContext(ctx, "password compare failed", "error", err)
		endSpan(span, err)
		return false, err
	}

	if ok {
		e.metricInc(MetricPasswordMatch)
	} else {
		e.metricInc(MetricPasswordMismatch)
	}
	span.SetAttributes(attribute.Bool("credkit.match", ok))
	return ok, nil
}

// NeedsRehash reports whether hash should be replaced after a successful
// compare because the configured algorithm or parameters changed.
func (e *Engine) NeedsRehash(hash string) (bool, error) {
	if err := e.ready(); err != nil {
		return false, err
	}
	needs, err := e.passwords.NeedsRehash(hash)
	if err != nil {
		e.metricInc(MetricPasswordHashMalformed)
		e.logger.Error("rehash check failed", "error", err)
		return false, err
	}
	if needs {
		e.metricInc(MetricPasswordRehashNeeded)
	}
	return needs, nil
}

// ValidatePasswordStrength grades plaintext against the fixed policy. It is a
// pure check and works on a closed or nil engine.
func (e *Engine) ValidatePasswordStrength(plaintext string) password.StrengthAssessment {
	a := password.ValidateStrength(plaintext)
	if !a.IsValid {
		e.metricInc(MetricPasswordStrengthRejected)
	}
	return a
}

func endSpan(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
