package internaldefs

import (
	"github.com/MrEthical07/credkit"
)

// CounterDef maps an engine counter to an exported name.
type CounterDef struct {
	ID   credkit.MetricID
	Name string
	Help string
}

// HistogramDef maps an engine latency histogram to an exported name.
type HistogramDef struct {
	ID   credkit.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter in a fixed order.
var CounterDefs = []CounterDef{
	{ID: credkit.MetricTokenIssued, Name: "credkit_token_issued_total", Help: "Tokens issued."},
	{ID: credkit.MetricTokenIssueRejected, Name: "credkit_token_issue_rejected_total", Help: "Token issue requests rejected for invalid claims or TTL."},
	{ID: credkit.MetricTokenVerified, Name: "credkit_token_verified_total", Help: "Tokens that passed verification."},
	{ID: credkit.MetricTokenMalformed, Name: "credkit_token_malformed_total", Help: "Tokens rejected as malformed."},
	{ID: credkit.MetricTokenSignatureInvalid, Name: "credkit_token_signature_invalid_total", Help: "Tokens rejected for a bad signature."},
	{ID: credkit.MetricTokenExpired, Name: "credkit_token_expired_total", Help: "Correctly signed tokens rejected as expired."},
	{ID: credkit.MetricHeaderMalformed, Name: "credkit_header_malformed_total", Help: "Authorization headers not of the form \"Bearer <token>\"."},
	{ID: credkit.MetricPasswordHashed, Name: "credkit_password_hashed_total", Help: "Passwords hashed."},
	{ID: credkit.MetricPasswordHashRejected, Name: "credkit_password_hash_rejected_total", Help: "Hash requests rejected (empty or oversized input, pool closed)."},
	{ID: credkit.MetricPasswordMatch, Name: "credkit_password_match_total", Help: "Password comparisons that matched."},
	{ID: credkit.MetricPasswordMismatch, Name: "credkit_password_mismatch_total", Help: "Password comparisons that did not match."},
	{ID: credkit.MetricPasswordHashMalformed, Name: "credkit_password_hash_malformed_total", Help: "Stored hashes that could not be parsed."},
	{ID: credkit.MetricPasswordRehashNeeded, Name: "credkit_password_rehash_needed_total", Help: "Stored hashes found weaker than the current parameters."},
	{ID: credkit.MetricPasswordStrengthRejected, Name: "credkit_password_strength_rejected_total", Help: "Passwords failing the strength policy."},
}

// HistogramDefs lists every exported latency histogram.
var HistogramDefs = []HistogramDef{
	{ID: credkit.MetricVerifyLatency, Name: "credkit_token_verify_latency_seconds", Help: "Token verification latency."},
	{ID: credkit.MetricHashLatency, Name: "credkit_password_hash_latency_seconds", Help: "Password hash latency including queue wait."},
	{ID: credkit.MetricCompareLatency, Name: "credkit_password_compare_latency_seconds", Help: "Password compare latency including queue wait."},
}

// Pool gauge names.
const (
	PoolQueuedName    = "credkit_password_pool_queued"
	PoolInFlightName  = "credkit_password_pool_in_flight"
	PoolCompletedName = "credkit_password_pool_completed_total"
)

// BucketCount is the number of histogram buckets, the last one unbounded.
const BucketCount = 8

// HistogramUpperBounds are the finite bucket bounds in seconds.
var HistogramUpperBounds = [BucketCount - 1]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5}

// HistogramBoundSuffix names each bucket for exporters without native histograms.
var HistogramBoundSuffix = [BucketCount]string{
	"0_005",
	"0_01",
	"0_025",
	"0_05",
	"0_1",
	"0_25",
	"0_5",
	"inf",
}

// NormalizeBuckets pads or truncates raw to BucketCount entries.
func NormalizeBuckets(raw []uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	for i := 0; i < len(out) && i < len(raw); i++ {
		out[i] = raw[i]
	}
	return out
}

// CumulativeBuckets converts per-bucket counts to running totals.
func CumulativeBuckets(raw [BucketCount]uint64) [BucketCount]uint64 {
	var out [BucketCount]uint64
	var running uint64
	for i := 0; i < len(raw); i++ {
		running += raw[i]
		out[i] = running
	}
	return out
}
