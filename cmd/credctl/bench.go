package main

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/MrEthical07/credkit"
	"github.com/MrEthical07/credkit/token"
)

type benchConfig struct {
	ops         int
	hashOps     int
	concurrency int
}

// NewBenchCmd creates the bench subcommand.
func NewBenchCmd() *cobra.Command {
	cfg := &benchConfig{}

	cmd := &cobra.Command{
		Use:   "bench",
		Short: "Measure token verification and password hashing throughput",
		Long: `Run a verify phase and a hash phase against an in-process engine built
from the loaded config, then print ops/sec and latency percentiles.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cfg.ops <= 0 || cfg.hashOps <= 0 || cfg.concurrency <= 0 {
				return fmt.Errorf("ops, hash-ops and concurrency must be > 0")
			}
			engine, _, err := buildEngine(cmd)
			if err != nil {
				return err
			}
			defer engine.Close()

			verify, err := runVerifyPhase(engine, cfg.ops, cfg.concurrency)
			if err != nil {
				return err
			}
			hash := runHashPhase(cmd.Context(), engine, cfg.hashOps, cfg.concurrency)

			fmt.Fprintln(cmd.OutOrStdout(), "---- results ----")
			fmt.Fprintln(cmd.OutOrStdout(), formatStats("verify", verify))
			fmt.Fprintln(cmd.OutOrStdout(), formatStats("hash", hash))
			return nil
		},
	}

	cmd.Flags().IntVar(&cfg.ops, "ops", 100000, "token verifications to run")
	cmd.Flags().IntVar(&cfg.hashOps, "hash-ops", 64, "password hashes to run")
	cmd.Flags().IntVar(&cfg.concurrency, "concurrency", 32, "concurrent callers")

	return cmd
}

func runVerifyPhase(engine *credkit.Engine, ops, concurrency int) (phaseStats, error) {
	const distinctTokens = 256
	tokens := make([]string, distinctTokens)
	for i := range tokens {
		claims, err := token.NewClaims(uuid.NewString(), map[string]any{"seq": i})
		if err != nil {
			return phaseStats{}, err
		}
		if tokens[i], err = engine.GenerateToken(claims); err != nil {
			return phaseStats{}, err
		}
	}

	return runPhase(ops, concurrency, func(i int) error {
		_, err := engine.VerifyToken(tokens[i%distinctTokens])
		return err
	}), nil
}

func runHashPhase(ctx context.Context, engine *credkit.Engine, ops, concurrency int) phaseStats {
	return runPhase(ops, concurrency, func(i int) error {
		_, err := engine.HashPassword(ctx, fmt.Sprintf("bench-password-%d", i))
		return err
	})
}

// runPhase calls op ops times from concurrency goroutines.
func runPhase(ops, concurrency int, op func(i int) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				t0 := time.Now()
				err := op(i)
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	return computeStats(time.Since(start), latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total, failures: failures}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

// percentile expects sorted samples.
func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	return samples[(len(samples)-1)*p/100]
}

func formatStats(name string, s phaseStats) string {
	return fmt.Sprintf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
