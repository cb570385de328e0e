package content

import (
	"fmt"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/budget"
	"github.com/arthur-debert/agentsync/pkg/resolver"
)

// GenerateOptions control the shape of the generated document.
type GenerateOptions struct {
	// IncludeMetadata appends the character budget section.
	IncludeMetadata bool

	// InlineContent embeds the pack content directly instead of
	// emitting import references.
	InlineContent bool
}

// DefaultGenerateOptions matches what the deploy pipeline uses.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{IncludeMetadata: true, InlineContent: false}
}

// PackBudget is the measured size of one pack in a composition.
type PackBudget struct {
	PackID string `json:"packId"`
	Chars  uint64 `json:"chars"`
	Words  uint64 `json:"words"`
}

// BudgetInfo sums a composition's size, optionally against an agent
// character limit.
type BudgetInfo struct {
	TotalChars  uint64       `json:"totalChars"`
	MaxChars    *uint64      `json:"maxChars,omitempty"`
	Percentage  *float64     `json:"percentage,omitempty"`
	WithinLimit bool         `json:"withinLimit"`
	Breakdown   []PackBudget `json:"packBreakdown"`
}

// Generator produces the canonical AGENTS.md text from a pack
// selection. Pack order follows dependency resolution, so a reader
// sees prerequisites before the packs relying on them.
type Generator struct {
	loader   *Loader
	resolver *resolver.Resolver
}

// NewGenerator creates a Generator over the given loader.
func NewGenerator(loader *Loader) *Generator {
	return &Generator{
		loader:   loader,
		resolver: resolver.New(loader),
	}
}

// Budget measures the combined size of the selection, against the
// agent limit when one is given.
func (g *Generator) Budget(packIDs []string, maxChars *uint64) (*BudgetInfo, error) {
	info := &BudgetInfo{WithinLimit: true, MaxChars: maxChars}

	for _, id := range packIDs {
		pack, err := g.loader.Load(id)
		if err != nil {
			return nil, err
		}
		info.TotalChars += pack.CharacterCount
		info.Breakdown = append(info.Breakdown, PackBudget{
			PackID: id,
			Chars:  pack.CharacterCount,
			Words:  pack.WordCount,
		})
	}

	if maxChars != nil {
		result := budget.EvaluateCount(info.TotalChars, maxChars)
		info.WithinLimit = result.Valid
		info.Percentage = result.Usage.Percentage
	}
	return info, nil
}

// Generate renders the AGENTS.md document for the selection. The
// selection is expanded through dependency resolution first.
func (g *Generator) Generate(packIDs []string, opts GenerateOptions) (string, *BudgetInfo, error) {
	order, err := g.resolver.ResolveAll(packIDs)
	if err != nil {
		return "", nil, err
	}

	packs := make([]*LoadedPack, 0, len(order))
	for _, id := range order {
		pack, err := g.loader.Load(id)
		if err != nil {
			return "", nil, err
		}
		packs = append(packs, pack)
	}

	var lines []string
	lines = append(lines,
		"# AGENTS.md — Mandatory Agent Behavior & Workflow Standards",
		"",
		"Non-negotiable rules for all AI agents. Violations constitute workflow failures.",
		"",
		"---",
		"",
		"## Active Rule Packs",
		"")

	for _, pack := range packs {
		lines = append(lines, fmt.Sprintf("- **%s** (`packs/%s/`) — %s",
			pack.Name, pack.ID, pack.Description))
	}
	lines = append(lines, "", "---", "")

	if opts.InlineContent {
		for _, pack := range packs {
			lines = append(lines,
				fmt.Sprintf("<!-- Pack: %s v%s -->", pack.ID, pack.Version),
				pack.Content,
				"")
		}
	} else {
		lines = append(lines, "<!-- BEGIN PACK IMPORTS -->", "")
		for _, pack := range packs {
			for _, file := range pack.Files {
				lines = append(lines, fmt.Sprintf("@packs/%s/%s", pack.ID, file))
			}
			lines = append(lines, "")
		}
		lines = append(lines, "<!-- END PACK IMPORTS -->", "")
	}

	lines = append(lines, "---", "")

	info, err := g.Budget(order, nil)
	if err != nil {
		return "", nil, err
	}

	if opts.IncludeMetadata {
		lines = append(lines, "## Configuration", "", "**Character Budget:**")
		var totalWords uint64
		for _, item := range info.Breakdown {
			lines = append(lines, fmt.Sprintf("- %s: ~%d words (~%d chars)",
				item.PackID, item.Words, item.Chars))
			totalWords += item.Words
		}
		lines = append(lines, fmt.Sprintf("- **Total:** ~%d words (~%d chars)",
			totalWords, info.TotalChars))
	}

	return strings.Join(lines, "\n"), info, nil
}
