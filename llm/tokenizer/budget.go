package tokenizer

import (
	"github.com/ActraStride/xulcan/types"
)

// BudgetReport is the outcome of a pre-flight budget check: the
// estimated prompt size against the run's token limit.
type BudgetReport struct {
	EstimatedTokens int
	TokenLimit      *int
	Exceeded        bool
	// Abort is set when the breach is fatal under the budget's
	// strategy. A soft_notify breach reports Exceeded without Abort.
	Abort bool
}

// Remaining returns the tokens left under the limit, or -1 when the
// budget is unbounded.
func (r BudgetReport) Remaining() int {
	if r.TokenLimit == nil {
		return -1
	}
	left := *r.TokenLimit - r.EstimatedTokens
	if left < 0 {
		return 0
	}
	return left
}

// CheckBudget estimates the token cost of messages with t and compares
// it against budget. Time limits cannot be checked before a run
// happens, so only the token limit participates.
func CheckBudget(t Tokenizer, messages []types.UnifiedMessage, budget types.BudgetConfig) (BudgetReport, error) {
	if err := budget.Validate(); err != nil {
		return BudgetReport{}, err
	}

	estimated, err := t.CountMessages(messages)
	if err != nil {
		return BudgetReport{}, err
	}

	report := BudgetReport{
		EstimatedTokens: estimated,
		TokenLimit:      budget.TokenLimit,
	}
	if budget.TokenLimit != nil && estimated > *budget.TokenLimit {
		report.Exceeded = true
		report.Abort = budget.Strategy == types.BudgetHardCap
	}
	return report, nil
}

// FitsContext reports whether the estimated conversation fits the
// tokenizer's model context, leaving reserve tokens for the reply.
func FitsContext(t Tokenizer, messages []types.UnifiedMessage, reserve int) (bool, int, error) {
	estimated, err := t.CountMessages(messages)
	if err != nil {
		return false, 0, err
	}
	return estimated+reserve <= t.MaxTokens(), estimated, nil
}
