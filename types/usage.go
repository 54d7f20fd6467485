package types

import (
	"fmt"
	"math"
)

// UsageStats records resource consumption for a single model interaction or
// an aggregation of sequential interactions: token counts, cache metrics,
// and wall-clock latency.
//
// Cache semantics: 0 means "no cache used" or "provider doesn't support
// caching" — providers without cache support simply report 0.
//
// The token math invariant (input + output == total) catches provider bugs
// where reported counts don't add up, which has been observed in production.
type UsageStats struct {
	InputTokens              int     `json:"input_tokens"`
	OutputTokens             int     `json:"output_tokens"`
	TotalTokens              int     `json:"total_tokens"`
	CacheReadInputTokens     int     `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int     `json:"cache_creation_input_tokens"`
	LatencyMS                float64 `json:"latency_ms"`
}

// NewUsageStats validates s and returns it together with any advisory
// diagnostics. Diagnostics (for example a zero-latency report with nonzero
// tokens outside the full-cache-hit exception) never fail construction.
func NewUsageStats(s UsageStats) (UsageStats, []Diagnostic, error) {
	if err := s.Validate(); err != nil {
		return UsageStats{}, nil, err
	}
	return s, s.diagnostics(), nil
}

// ZeroUsage returns the additive identity: no tokens, no latency.
func ZeroUsage() UsageStats { return UsageStats{} }

// Validate checks the hard invariants: non-negative counters, finite
// latency, token math, and cache consistency.
func (s UsageStats) Validate() error {
	counters := []struct {
		name  string
		value int
	}{
		{"input_tokens", s.InputTokens},
		{"output_tokens", s.OutputTokens},
		{"total_tokens", s.TotalTokens},
		{"cache_read_input_tokens", s.CacheReadInputTokens},
		{"cache_creation_input_tokens", s.CacheCreationInputTokens},
	}
	for _, c := range counters {
		if c.value < 0 {
			return newValidationError(c.name, RuleNegative, "must be >= 0, got %d", c.value)
		}
	}
	if math.IsNaN(s.LatencyMS) || math.IsInf(s.LatencyMS, 0) {
		return newValidationError("latency_ms", RuleNonFinite, "latency must be finite")
	}
	if s.LatencyMS < 0 {
		return newValidationError("latency_ms", RuleNegative, "must be >= 0, got %v", s.LatencyMS)
	}
	if calculated := s.InputTokens + s.OutputTokens; calculated != s.TotalTokens {
		return newValidationError("total_tokens", RuleTokenMath,
			"token math mismatch: input(%d) + output(%d) = %d, but total_tokens=%d",
			s.InputTokens, s.OutputTokens, calculated, s.TotalTokens)
	}
	if s.CacheReadInputTokens > s.InputTokens {
		return newValidationError("cache_read_input_tokens", RuleCacheOverrun,
			"cache reads (%d) exceed input tokens (%d)",
			s.CacheReadInputTokens, s.InputTokens)
	}
	return nil
}

// diagnostics reports plausibility anomalies: nonzero token counts with a
// zero latency are physically implausible unless every input token was
// served from cache and no output was generated.
func (s UsageStats) diagnostics() []Diagnostic {
	if s.TotalTokens > 0 && s.LatencyMS == 0 && !s.isFullCacheHit() {
		return []Diagnostic{{
			Field: "latency_ms",
			Message: fmt.Sprintf("zero latency reported for %d tokens outside a full cache hit",
				s.TotalTokens),
		}}
	}
	return nil
}

// isFullCacheHit reports whether every input token was served from cache
// and no output was generated.
func (s UsageStats) isFullCacheHit() bool {
	return s.CacheReadInputTokens == s.InputTokens && s.OutputTokens == 0
}

// Add returns the component-wise sum of two usage records, latency
// included. Addition assumes sequential accounting; parallel branches must
// be aggregated separately by the caller. The sum satisfies every
// UsageStats invariant whenever both operands do, because all invariants
// are linear.
func (s UsageStats) Add(other UsageStats) UsageStats {
	return UsageStats{
		InputTokens:              s.InputTokens + other.InputTokens,
		OutputTokens:             s.OutputTokens + other.OutputTokens,
		TotalTokens:              s.TotalTokens + other.TotalTokens,
		CacheReadInputTokens:     s.CacheReadInputTokens + other.CacheReadInputTokens,
		CacheCreationInputTokens: s.CacheCreationInputTokens + other.CacheCreationInputTokens,
		LatencyMS:                s.LatencyMS + other.LatencyMS,
	}
}

// CacheEfficiency returns the fraction of input tokens served from cache,
// between 0.0 and 1.0. Returns 0.0 when there were no input tokens.
func (s UsageStats) CacheEfficiency() float64 {
	if s.InputTokens == 0 {
		return 0.0
	}
	return float64(s.CacheReadInputTokens) / float64(s.InputTokens)
}

// TotalCacheTokens returns the sum of cache read and creation tokens,
// useful for cost calculations where providers price cache operations
// separately.
func (s UsageStats) TotalCacheTokens() int {
	return s.CacheReadInputTokens + s.CacheCreationInputTokens
}

// IsEmpty reports whether the record carries no consumption at all.
func (s UsageStats) IsEmpty() bool {
	return s.TotalTokens == 0 && s.LatencyMS == 0
}

func (s *UsageStats) UnmarshalJSON(data []byte) error {
	type wire UsageStats
	var w wire
	if err := decodeStrict(data, &w, "usage"); err != nil {
		return err
	}
	u := UsageStats(w)
	if err := u.Validate(); err != nil {
		return err
	}
	warn(u.diagnostics())
	*s = u
	return nil
}
