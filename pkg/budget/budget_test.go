package budget_test

import (
	"strings"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func limit(n uint64) *uint64 { return &n }

func TestEvaluateUnlimited(t *testing.T) {
	result := budget.Evaluate(strings.Repeat("x", 500000), nil)

	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Nil(t, result.Usage.MaxChars)
	assert.True(t, result.Usage.WithinLimit)
	assert.Equal(t, uint64(500000), result.Usage.CurrentChars)
}

func TestEvaluateClassification(t *testing.T) {
	tests := []struct {
		name      string
		chars     int
		max       uint64
		valid     bool
		wantWarn  bool
		wantError bool
	}{
		{name: "well_under_limit", chars: 50, max: 100, valid: true},
		{name: "exactly_at_threshold", chars: 80, max: 100, valid: true},
		{name: "just_over_threshold", chars: 81, max: 100, valid: true, wantWarn: true},
		{name: "at_limit_is_valid", chars: 100, max: 100, valid: true, wantWarn: true},
		{name: "one_over_limit", chars: 101, max: 100, valid: false, wantError: true},
		{name: "copilot_sized_overflow", chars: 9000, max: 8000, valid: false, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := budget.Evaluate(strings.Repeat("x", tt.chars), limit(tt.max))

			assert.Equal(t, tt.valid, result.Valid)
			assert.Equal(t, tt.valid, result.Usage.WithinLimit)
			if tt.wantError {
				require.NotEmpty(t, result.Errors)
				assert.Contains(t, result.Errors[0], "exceeds character limit")
			} else {
				assert.Empty(t, result.Errors)
			}
			if tt.wantWarn {
				require.NotEmpty(t, result.Warnings)
				assert.Contains(t, result.Warnings[0], "% of character limit")
			} else {
				assert.Empty(t, result.Warnings)
			}
		})
	}
}

func TestEvaluatePercentage(t *testing.T) {
	result := budget.Evaluate(strings.Repeat("x", 25), limit(100))

	require.NotNil(t, result.Usage.Percentage)
	assert.InDelta(t, 25.0, *result.Usage.Percentage, 0.001)
}

func TestEvaluateCombined(t *testing.T) {
	units := map[string]string{
		"AGENTS.md": strings.Repeat("a", 60),
		"deploy.md": strings.Repeat("b", 25),
		"review.md": strings.Repeat("c", 5),
	}

	// 90 chars against a 100 limit: valid, but over the 80% threshold.
	result := budget.EvaluateCombined(units, limit(100))
	assert.True(t, result.Valid)
	assert.NotEmpty(t, result.Warnings)
	assert.Equal(t, uint64(90), result.Usage.CurrentChars)

	// Same content against a 50 limit fails.
	result = budget.EvaluateCombined(units, limit(50))
	assert.False(t, result.Valid)
	assert.NotEmpty(t, result.Errors)
}
