// Package budget computes character-budget usage against the optional
// per-agent limits and classifies the result.
package budget

import (
	"fmt"

	"github.com/arthur-debert/agentsync/pkg/types"
)

// warnThreshold is the fraction of the limit above which usage draws a
// warning. Usage equal to the limit is still valid.
const warnThreshold = 0.8

// Result classifies one budget evaluation.
type Result struct {
	Valid    bool
	Errors   []string
	Warnings []string
	Usage    types.BudgetUsage
}

// Evaluate measures content against an optional character limit.
func Evaluate(content string, max *uint64) Result {
	return EvaluateCount(uint64(len(content)), max)
}

// EvaluateCount classifies a raw character count against an optional
// limit: over the limit is an error, above 80% of it is a warning.
func EvaluateCount(current uint64, max *uint64) Result {
	if max == nil {
		return Result{Valid: true, Usage: types.UnlimitedBudgetUsage(current)}
	}

	usage := types.NewBudgetUsage(current, max)
	result := Result{Valid: usage.WithinLimit, Usage: usage}

	switch {
	case !usage.WithinLimit:
		result.Errors = append(result.Errors, fmt.Sprintf(
			"content exceeds character limit: %d / %d (%.1f%%)",
			current, *max, *usage.Percentage))
	case float64(current) > warnThreshold*float64(*max):
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"content uses %.1f%% of character limit (%d / %d)",
			*usage.Percentage, current, *max))
	}

	return result
}

// EvaluateCombined sums the character counts of several content units
// sharing one agent-wide limit and classifies the total.
func EvaluateCombined(units map[string]string, max *uint64) Result {
	var total uint64
	for _, content := range units {
		total += uint64(len(content))
	}
	return EvaluateCount(total, max)
}
