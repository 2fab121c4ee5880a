package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrEthical07/credkit"
	"github.com/MrEthical07/credkit/password"
)

type fakeSource struct {
	snapshot credkit.MetricsSnapshot
	stats    password.PoolStats
}

func (f fakeSource) MetricsSnapshot() credkit.MetricsSnapshot { return f.snapshot }
func (f fakeSource) PoolStats() password.PoolStats            { return f.stats }

func TestCollectorDisabledMetricsOnlyPool(t *testing.T) {
	c := NewCollectorFromSource(fakeSource{
		snapshot: credkit.MetricsSnapshot{
			Counters:   map[credkit.MetricID]uint64{},
			Histograms: map[credkit.MetricID][]uint64{},
		},
	})

	assert.Equal(t, 3, testutil.CollectAndCount(c))
}

func TestCollectorCounters(t *testing.T) {
	c := NewCollectorFromSource(fakeSource{
		snapshot: credkit.MetricsSnapshot{
			Counters: map[credkit.MetricID]uint64{
				credkit.MetricTokenIssued:  7,
				credkit.MetricTokenExpired: 2,
			},
		},
		stats: password.PoolStats{Queued: 1, InFlight: 2, Completed: 30},
	})

	expected := `
# HELP credkit_token_issued_total Tokens issued.
# TYPE credkit_token_issued_total counter
credkit_token_issued_total 7
# HELP credkit_password_pool_in_flight Password jobs currently running.
# TYPE credkit_password_pool_in_flight gauge
credkit_password_pool_in_flight 2
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"credkit_token_issued_total", "credkit_password_pool_in_flight"))
}

func TestCollectorHistogram(t *testing.T) {
	c := NewCollectorFromSource(fakeSource{
		snapshot: credkit.MetricsSnapshot{
			Counters: map[credkit.MetricID]uint64{},
			Histograms: map[credkit.MetricID][]uint64{
				credkit.MetricHashLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
			HistogramSums: map[credkit.MetricID]time.Duration{
				credkit.MetricHashLatency: 4500 * time.Millisecond,
			},
		},
	})

	expected := `
# HELP credkit_password_hash_latency_seconds Password hash latency including queue wait.
# TYPE credkit_password_hash_latency_seconds histogram
credkit_password_hash_latency_seconds_bucket{le="0.005"} 1
credkit_password_hash_latency_seconds_bucket{le="0.01"} 3
credkit_password_hash_latency_seconds_bucket{le="0.025"} 6
credkit_password_hash_latency_seconds_bucket{le="0.05"} 10
credkit_password_hash_latency_seconds_bucket{le="0.1"} 15
credkit_password_hash_latency_seconds_bucket{le="0.25"} 21
credkit_password_hash_latency_seconds_bucket{le="0.5"} 28
credkit_password_hash_latency_seconds_bucket{le="+Inf"} 36
credkit_password_hash_latency_seconds_sum 4.5
credkit_password_hash_latency_seconds_count 36
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"credkit_password_hash_latency_seconds"))
}

func TestCollectorRegistersCleanly(t *testing.T) {
	reg := prom.NewPedanticRegistry()
	require.NoError(t, reg.Register(NewCollectorFromSource(fakeSource{})))
	_, err := reg.Gather()
	require.NoError(t, err)
}

func TestHandlerServesEngineMetrics(t *testing.T) {
	cfg := credkit.DefaultSigningConfig()
	cfg.Secret = []byte("prometheus-secret-prometheus-sec")
	cfg.HashCost = 1
	cfg.Password.Memory = 8 * 1024
	cfg.Password.Parallelism = 1
	engine, err := credkit.New().WithConfig(cfg).WithMetricsEnabled(true).Build()
	require.NoError(t, err)
	defer engine.Close()

	_ = engine.ValidatePasswordStrength("weak")

	rec := httptest.NewRecorder()
	NewCollector(engine).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "credkit_password_strength_rejected_total 1")
	assert.Contains(t, rec.Body.String(), "credkit_password_pool_queued 0")
}
