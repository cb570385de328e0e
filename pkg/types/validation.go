package types

// BudgetUsage is a snapshot of character-budget consumption for a target.
type BudgetUsage struct {
	// CurrentChars is the character count being deployed.
	CurrentChars uint64 `json:"currentChars"`

	// MaxChars is the agent's limit, nil when unlimited.
	MaxChars *uint64 `json:"maxChars,omitempty"`

	// Percentage is CurrentChars/MaxChars*100 when a limit is set.
	Percentage *float64 `json:"percentage,omitempty"`

	// WithinLimit is true when CurrentChars <= MaxChars, or always for
	// unlimited targets.
	WithinLimit bool `json:"withinLimit"`
}

// NewBudgetUsage computes usage against an optional limit. Equality to
// the limit counts as within it.
func NewBudgetUsage(current uint64, max *uint64) BudgetUsage {
	usage := BudgetUsage{
		CurrentChars: current,
		MaxChars:     max,
		WithinLimit:  true,
	}
	if max != nil {
		pct := float64(current) / float64(*max) * 100
		usage.Percentage = &pct
		usage.WithinLimit = current <= *max
	}
	return usage
}

// UnlimitedBudgetUsage reports usage for a target with no limit.
func UnlimitedBudgetUsage(current uint64) BudgetUsage {
	return BudgetUsage{CurrentChars: current, WithinLimit: true}
}

// ValidationReport is the merged result of adapter-specific and
// selection-scoped validation. Errors block deployment; warnings are
// informational only.
type ValidationReport struct {
	Valid    bool        `json:"valid"`
	Errors   []string    `json:"errors"`
	Warnings []string    `json:"warnings"`
	Budget   BudgetUsage `json:"budgetUsage"`
}

// ValidationSuccess returns a passing report with the given budget.
func ValidationSuccess(budget BudgetUsage) *ValidationReport {
	return &ValidationReport{Valid: true, Budget: budget}
}

// ValidationFailure returns a failing report carrying the given errors.
func ValidationFailure(errs []string, budget BudgetUsage) *ValidationReport {
	return &ValidationReport{Valid: false, Errors: errs, Budget: budget}
}

// WithWarnings attaches warnings and returns the report for chaining.
func (r *ValidationReport) WithWarnings(warnings ...string) *ValidationReport {
	r.Warnings = append(r.Warnings, warnings...)
	return r
}

// Merge folds another report into this one: errors and warnings are
// unioned, validity is the conjunction of both sides.
func (r *ValidationReport) Merge(other *ValidationReport) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Valid = r.Valid && other.Valid && len(r.Errors) == 0
}
