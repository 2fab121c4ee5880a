package credkit

import (
	"context"
	"testing"

	"github.com/MrEthical07/credkit/token"
)

func newBenchmarkEngine(b *testing.B, metrics bool) *Engine {
	b.Helper()
	cfg := DefaultSigningConfig()
	cfg.Secret = []byte("benchmark-secret-benchmark-secret")
	cfg.HashCost = 1
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Parallelism = 1

	engine, err := New().WithConfig(cfg).WithMetricsEnabled(metrics).WithLatencyHistograms(metrics).Build()
	if err != nil {
		b.Fatalf("build failed: %v", err)
	}
	b.Cleanup(engine.Close)
	return engine
}

func benchmarkToken(b *testing.B, engine *Engine) string {
	b.Helper()
	claims, err := token.NewClaims("user-1", map[string]any{"role": "member"})
	if err != nil {
		b.Fatalf("claims failed: %v", err)
	}
	tok, err := engine.GenerateToken(claims)
	if err != nil {
		b.Fatalf("generate failed: %v", err)
	}
	return tok
}

func BenchmarkGenerateToken(b *testing.B) {
	engine := newBenchmarkEngine(b, false)
	claims, err := token.NewClaims("user-1", map[string]any{"role": "member"})
	if err != nil {
		b.Fatalf("claims failed: %v", err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.GenerateToken(claims); err != nil {
			b.Fatalf("generate failed: %v", err)
		}
	}
}

func BenchmarkVerifyToken(b *testing.B) {
	engine := newBenchmarkEngine(b, false)
	tok := benchmarkToken(b, engine)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.VerifyToken(tok); err != nil {
			b.Fatalf("verify failed: %v", err)
		}
	}
}

func BenchmarkAuthenticateWithMetrics(b *testing.B) {
	engine := newBenchmarkEngine(b, true)
	header := "Bearer " + benchmarkToken(b, engine)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if _, err := engine.Authenticate(ctx, header); err != nil {
				b.Errorf("authenticate failed: %v", err)
				return
			}
		}
	})
}

func BenchmarkHashPassword(b *testing.B) {
	engine := newBenchmarkEngine(b, false)
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.HashPassword(ctx, "correct-password-123"); err != nil {
			b.Fatalf("hash failed: %v", err)
		}
	}
}
