package credkit

import (
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/MrEthical07/credkit/internal/logging"
	"github.com/MrEthical07/credkit/password"
	"github.com/MrEthical07/credkit/token"
)

const instrumentationName = "github.com/MrEthical07/credkit"

// Builder assembles an Engine. Configure it during startup, call Build once,
// and discard it.
type Builder struct {
	config         SigningConfig
	metrics        MetricsConfig
	logger         *slog.Logger
	tracerProvider trace.TracerProvider
	now            func() time.Time

	built bool
}

// New returns a Builder seeded with DefaultSigningConfig. A secret must still
// be supplied with WithSecret or WithConfig.
func New() *Builder {
	return &Builder{
		config: DefaultSigningConfig(),
	}
}

// WithConfig replaces the whole signing config. cfg is copied.
func (b *Builder) WithConfig(cfg SigningConfig) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithSecret sets the HMAC signing secret. secret is copied.
func (b *Builder) WithSecret(secret []byte) *Builder {
	b.config.Secret = cloneBytes(secret)
	return b
}

// WithLogger sets the engine logger. Without it the engine logs nothing.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// WithTracerProvider sets where spans go. The default is the global provider.
func (b *Builder) WithTracerProvider(tp trace.TracerProvider) *Builder {
	b.tracerProvider = tp
	return b
}

// WithClock overrides the token clock, mainly for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// WithMetricsEnabled turns the engine counters on or off.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms turns latency histograms on or off. They also need
// metrics enabled.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the config and starts the engine. A Builder builds at most
// once.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	tokens, err := token.New(cfg.tokenConfig(b.now))
	if err != nil {
		return nil, err
	}

	passwords, err := password.New(cfg.PasswordServiceConfig())
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = logging.Discard()
	}
	tp := b.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}

	engine := &Engine{
		config:    cfg,
		tokens:    tokens,
		passwords: passwords,
		metrics:   NewMetrics(b.metrics),
		logger:    logger.With("component", "credkit"),
		tracer:    tp.Tracer(instrumentationName),
	}

	for _, w := range cfg.Lint().BySeverity(LintWarn) {
		engine.logger.Warn("signing config lint", "code", w.Code, "severity", w.Severity.String(), "detail", w.Message)
	}
	engine.logger.Info("engine ready", "config", cfg)

	b.built = true
	return engine, nil
}
