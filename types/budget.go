package types

import "math"

// BudgetStrategy selects what happens when a run breaches its budget.
type BudgetStrategy string

const (
	// BudgetHardCap aborts execution on limit breach.
	BudgetHardCap BudgetStrategy = "hard_cap"
	// BudgetSoftNotify flags the breach but lets execution continue.
	BudgetSoftNotify BudgetStrategy = "soft_notify"
)

// Validate checks that the strategy is one of the known values.
func (s BudgetStrategy) Validate() error {
	switch s {
	case BudgetHardCap, BudgetSoftNotify:
		return nil
	default:
		return newValidationError("strategy", RuleDiscriminator,
			"unknown budget strategy %q", string(s))
	}
}

// BudgetConfig is the a-priori resource contract for a run. UsageStats is
// the a-posteriori report; the runtime compares the two to decide whether
// to halt (hard cap) or merely flag (soft notify) a run.
type BudgetConfig struct {
	TokenLimit  *int           `json:"token_limit,omitempty"`
	TimeLimitMS *float64       `json:"time_limit_ms,omitempty"`
	Strategy    BudgetStrategy `json:"strategy"`
}

// NewBudgetConfig validates cfg and returns it.
func NewBudgetConfig(cfg BudgetConfig) (BudgetConfig, error) {
	if err := cfg.Validate(); err != nil {
		return BudgetConfig{}, err
	}
	return cfg, nil
}

// Validate checks strategy/limit coherence and limit sanity. An unbounded
// hard cap is rejected as meaningless.
func (b BudgetConfig) Validate() error {
	if err := b.Strategy.Validate(); err != nil {
		return err
	}
	if b.TokenLimit != nil && *b.TokenLimit <= 0 {
		return newValidationError("token_limit", RuleOutOfRange,
			"must be positive, got %d", *b.TokenLimit)
	}
	if b.TimeLimitMS != nil {
		if math.IsNaN(*b.TimeLimitMS) || math.IsInf(*b.TimeLimitMS, 0) {
			return newValidationError("time_limit_ms", RuleNonFinite, "time limit must be finite")
		}
		if *b.TimeLimitMS <= 0 {
			return newValidationError("time_limit_ms", RuleOutOfRange,
				"must be positive, got %v", *b.TimeLimitMS)
		}
	}
	if b.Strategy == BudgetHardCap && b.IsUnbounded() {
		return newValidationError("strategy", RuleStrategy,
			"hard_cap requires at least one of token_limit or time_limit_ms")
	}
	return nil
}

// IsUnbounded reports whether neither limit is set.
func (b BudgetConfig) IsUnbounded() bool {
	return b.TokenLimit == nil && b.TimeLimitMS == nil
}

// Exceeded reports whether the usage report breaches either limit.
func (b BudgetConfig) Exceeded(u UsageStats) bool {
	if b.TokenLimit != nil && u.TotalTokens > *b.TokenLimit {
		return true
	}
	if b.TimeLimitMS != nil && u.LatencyMS > *b.TimeLimitMS {
		return true
	}
	return false
}

func (b *BudgetConfig) UnmarshalJSON(data []byte) error {
	type wire BudgetConfig
	var w wire
	if err := decodeStrict(data, &w, "budget"); err != nil {
		return err
	}
	cfg := BudgetConfig(w)
	if err := cfg.Validate(); err != nil {
		return err
	}
	*b = cfg
	return nil
}
