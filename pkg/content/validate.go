package content

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/resolver"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Validator checks pack selections for deployability: pack integrity,
// agent compatibility, dependency resolvability, and the shared
// character budget.
type Validator struct {
	loader   *Loader
	resolver *resolver.Resolver
}

// NewValidator creates a Validator over the given loader.
func NewValidator(loader *Loader) *Validator {
	return &Validator{
		loader:   loader,
		resolver: resolver.New(loader),
	}
}

// ValidatePack checks one pack in isolation: its definition parses,
// its files exist, and its direct dependencies are present.
func (v *Validator) ValidatePack(packID string) *types.ValidationReport {
	pack, err := v.loader.Load(packID)
	if err != nil {
		return types.ValidationFailure([]string{err.Error()}, types.BudgetUsage{WithinLimit: true})
	}

	report := types.ValidationSuccess(types.UnlimitedBudgetUsage(pack.CharacterCount))

	for _, file := range pack.Files {
		if _, err := os.Stat(filepath.Join(pack.Path, file)); err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("[%s] file not found: %s", packID, file))
			report.Valid = false
		}
	}

	for _, dep := range pack.Dependencies {
		if _, err := v.loader.Pack(dep); err != nil {
			report.Errors = append(report.Errors,
				fmt.Sprintf("[%s] dependency not found: %s", packID, dep))
			report.Valid = false
		}
	}

	return report
}

// ValidateSelection checks a selection against one agent: every pack
// must be valid, target the agent, resolve without cycles, and the
// combined content must fit maxChars (nil means unlimited).
func (v *Validator) ValidateSelection(packIDs []string, agentID string, maxChars *uint64) (*types.ValidationReport, error) {
	report := types.ValidationSuccess(types.BudgetUsage{WithinLimit: true})

	for _, id := range packIDs {
		report.Merge(v.ValidatePack(id))

		pack, err := v.loader.Pack(id)
		if err != nil {
			continue
		}
		if agentID != "" && !pack.SupportsAgent(agentID) {
			report.Errors = append(report.Errors,
				fmt.Sprintf("[%s] pack does not target agent %q", id, agentID))
			report.Valid = false
		}
	}

	if !report.Valid {
		return report, nil
	}

	order, err := v.resolver.ResolveAll(packIDs)
	if err != nil {
		if errors.IsCode(err, errors.ErrPackCycle) {
			return types.ValidationFailure([]string{err.Error()}, report.Budget), nil
		}
		return nil, err
	}

	generator := &Generator{loader: v.loader, resolver: v.resolver}
	info, err := generator.Budget(order, maxChars)
	if err != nil {
		return nil, err
	}

	report.Budget = types.NewBudgetUsage(info.TotalChars, maxChars)
	if maxChars != nil {
		switch {
		case !info.WithinLimit:
			report.Errors = append(report.Errors, fmt.Sprintf(
				"selection exceeds %s character limit: %d / %d",
				agentID, info.TotalChars, *maxChars))
			report.Valid = false
		case info.Percentage != nil && *info.Percentage > 80:
			report.WithWarnings(fmt.Sprintf(
				"selection uses %.1f%% of %s character limit",
				*info.Percentage, agentID))
		}
	}

	return report, nil
}
