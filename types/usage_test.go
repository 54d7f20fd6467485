package types

import (
	"encoding/json"
	"math"
	"testing"
)

func TestUsageStats_Validate(t *testing.T) {
	t.Parallel()

	valid := UsageStats{
		InputTokens:              100,
		OutputTokens:             50,
		TotalTokens:              150,
		CacheReadInputTokens:     30,
		CacheCreationInputTokens: 20,
		LatencyMS:                1200,
	}
	got, diags, err := NewUsageStats(valid)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if got != valid {
		t.Fatalf("value changed during construction: %+v", got)
	}
	if eff := got.CacheEfficiency(); eff != 0.3 {
		t.Fatalf("expected cache efficiency 0.3, got %v", eff)
	}
	if total := got.TotalCacheTokens(); total != 50 {
		t.Fatalf("expected 50 total cache tokens, got %d", total)
	}

	cases := []struct {
		name string
		s    UsageStats
		rule string
	}{
		{"negative input", UsageStats{InputTokens: -1, TotalTokens: -1}, RuleNegative},
		{"negative latency", UsageStats{LatencyMS: -0.5}, RuleNegative},
		{"NaN latency", UsageStats{LatencyMS: math.NaN()}, RuleNonFinite},
		{"Inf latency", UsageStats{LatencyMS: math.Inf(1)}, RuleNonFinite},
		{"token math", UsageStats{InputTokens: 10, OutputTokens: 5, TotalTokens: 16}, RuleTokenMath},
		{"cache overrun", UsageStats{InputTokens: 10, OutputTokens: 0, TotalTokens: 10, CacheReadInputTokens: 11}, RuleCacheOverrun},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := NewUsageStats(tt.s)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if got := ruleOf(t, err); got != tt.rule {
				t.Fatalf("expected rule %q, got %q", tt.rule, got)
			}
		})
	}
}

func TestUsageStats_LatencyDiagnostics(t *testing.T) {
	t.Parallel()

	// Zero latency with real token consumption is implausible.
	implausible := UsageStats{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}
	_, diags, err := NewUsageStats(implausible)
	if err != nil {
		t.Fatalf("diagnostic must not fail construction: %v", err)
	}
	if len(diags) != 1 || diags[0].Field != "latency_ms" {
		t.Fatalf("expected one latency diagnostic, got %v", diags)
	}

	// A full cache hit is the one legitimate zero-latency case.
	fullHit := UsageStats{InputTokens: 10, TotalTokens: 10, CacheReadInputTokens: 10}
	_, diags, err = NewUsageStats(fullHit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("full cache hit must not warn, got %v", diags)
	}
}

func TestUsageStats_Add(t *testing.T) {
	t.Parallel()

	a := UsageStats{InputTokens: 10, OutputTokens: 5, TotalTokens: 15, CacheReadInputTokens: 4, LatencyMS: 100}
	b := UsageStats{InputTokens: 20, OutputTokens: 10, TotalTokens: 30, CacheCreationInputTokens: 7, LatencyMS: 250}

	sum := a.Add(b)
	want := UsageStats{
		InputTokens:              30,
		OutputTokens:             15,
		TotalTokens:              45,
		CacheReadInputTokens:     4,
		CacheCreationInputTokens: 7,
		LatencyMS:                350,
	}
	if sum != want {
		t.Fatalf("unexpected sum: %+v", sum)
	}
	if sum.Validate() != nil {
		t.Fatal("sum of valid operands must be valid")
	}

	// Add is value-semantics: operands are untouched.
	if a.TotalTokens != 15 || b.TotalTokens != 30 {
		t.Fatal("Add mutated an operand")
	}

	// ZeroUsage is the additive identity.
	if a.Add(ZeroUsage()) != a || ZeroUsage().Add(a) != a {
		t.Fatal("ZeroUsage is not the additive identity")
	}
	if !ZeroUsage().IsEmpty() {
		t.Fatal("ZeroUsage must be empty")
	}
}

func TestUsageStats_StrictDecode(t *testing.T) {
	t.Parallel()

	var u UsageStats
	good := `{"input_tokens":3,"output_tokens":2,"total_tokens":5,"cache_read_input_tokens":0,"cache_creation_input_tokens":0,"latency_ms":12.5}`
	if err := json.Unmarshal([]byte(good), &u); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if u.TotalTokens != 5 {
		t.Fatalf("unexpected decode result: %+v", u)
	}

	// Unknown fields are a schema violation, not silently dropped.
	extra := `{"input_tokens":3,"output_tokens":2,"total_tokens":5,"surprise":1}`
	if err := json.Unmarshal([]byte(extra), &u); err == nil {
		t.Fatal("expected unknown field rejection")
	}

	// Invariants apply on decode, not just construction.
	bad := `{"input_tokens":3,"output_tokens":2,"total_tokens":99}`
	if err := json.Unmarshal([]byte(bad), &u); err == nil {
		t.Fatal("expected token math rejection")
	}
}
