package types

import (
	"encoding/json"
	"math"
	"testing"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestBudgetConfig_Validate(t *testing.T) {
	t.Parallel()

	if _, err := NewBudgetConfig(BudgetConfig{TokenLimit: intPtr(1000), Strategy: BudgetHardCap}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := NewBudgetConfig(BudgetConfig{Strategy: BudgetSoftNotify}); err != nil {
		t.Fatalf("unbounded soft_notify must be legal: %v", err)
	}

	cases := []struct {
		name string
		cfg  BudgetConfig
		rule string
	}{
		{"unknown strategy", BudgetConfig{Strategy: "explode"}, RuleDiscriminator},
		{"zero token limit", BudgetConfig{TokenLimit: intPtr(0), Strategy: BudgetSoftNotify}, RuleOutOfRange},
		{"negative time limit", BudgetConfig{TimeLimitMS: floatPtr(-1), Strategy: BudgetSoftNotify}, RuleOutOfRange},
		{"NaN time limit", BudgetConfig{TimeLimitMS: floatPtr(math.NaN()), Strategy: BudgetSoftNotify}, RuleNonFinite},
		{"unbounded hard cap", BudgetConfig{Strategy: BudgetHardCap}, RuleStrategy},
	}
	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBudgetConfig(tt.cfg)
			if err == nil {
				t.Fatal("expected rejection")
			}
			if got := ruleOf(t, err); got != tt.rule {
				t.Fatalf("expected rule %q, got %q", tt.rule, got)
			}
		})
	}
}

func TestBudgetConfig_Exceeded(t *testing.T) {
	t.Parallel()

	cfg := BudgetConfig{TokenLimit: intPtr(100), TimeLimitMS: floatPtr(1000), Strategy: BudgetHardCap}

	under := UsageStats{InputTokens: 60, OutputTokens: 40, TotalTokens: 100, LatencyMS: 1000}
	if cfg.Exceeded(under) {
		t.Fatal("at-limit usage must not count as exceeded")
	}

	overTokens := UsageStats{InputTokens: 61, OutputTokens: 40, TotalTokens: 101, LatencyMS: 500}
	if !cfg.Exceeded(overTokens) {
		t.Fatal("expected token breach")
	}

	overTime := UsageStats{InputTokens: 1, OutputTokens: 0, TotalTokens: 1, LatencyMS: 1000.5}
	if !cfg.Exceeded(overTime) {
		t.Fatal("expected time breach")
	}

	unbounded := BudgetConfig{Strategy: BudgetSoftNotify}
	if !unbounded.IsUnbounded() {
		t.Fatal("expected unbounded")
	}
	if unbounded.Exceeded(overTokens) {
		t.Fatal("unbounded budget can never be exceeded")
	}
}

func TestBudgetConfig_StrictDecode(t *testing.T) {
	t.Parallel()

	var cfg BudgetConfig
	if err := json.Unmarshal([]byte(`{"token_limit":500,"strategy":"hard_cap"}`), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.TokenLimit == nil || *cfg.TokenLimit != 500 {
		t.Fatalf("unexpected decode result: %+v", cfg)
	}

	if err := json.Unmarshal([]byte(`{"strategy":"hard_cap"}`), &cfg); err == nil {
		t.Fatal("expected unbounded hard cap rejection on decode")
	}
	if err := json.Unmarshal([]byte(`{"strategy":"soft_notify","typo":true}`), &cfg); err == nil {
		t.Fatal("expected unknown field rejection")
	}
}
