package agents

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/convert"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Codex deploys the rules document as a prompt under ~/.codex/prompts
// with the /prompts: naming convention. User scope only.
type Codex struct {
	Base
}

// NewCodex creates the Codex adapter.
func NewCodex(def types.AgentDefinition, deps Deps) *Codex {
	return &Codex{Base: NewBase(def, deps)}
}

func (c *Codex) configDir() string {
	return userPath(c.paths.UserHome(), ".codex")
}

func (c *Codex) promptsDir() string {
	return filepath.Join(c.configDir(), "prompts")
}

func (c *Codex) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := c.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	doc = convert.AddFrontmatter(doc, map[string]string{
		"name":        "/prompts:agents",
		"description": "AGENTS.md mandatory rules",
	})

	prepared := types.NewPreparedDeployment(doc)
	prepared.Format = types.FormatFrontmatter
	prepared.AddTargetPath(c.paths.RulesFile())
	prepared.AddTargetPath(filepath.Join(c.promptsDir(), "agents.md"))
	c.prepareCommands(prepared, cfg.CommandIDs, c.promptsDir())
	return prepared, nil
}

func (c *Codex) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := c.budgetReport(prepared)

	if !convert.HasFrontmatter(prepared.Content) {
		report.WithWarnings("content should carry YAML frontmatter for Codex")
	}
	for name, rendered := range prepared.Commands {
		if !convert.HasFrontmatter(rendered) {
			report.WithWarnings(fmt.Sprintf("prompt %q should carry YAML frontmatter", name))
		}
	}
	return report, nil
}

func (c *Codex) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := c.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{DeployedFiles: []string{rulesFile}}

	if err := c.deployLink(result, filepath.Join(c.promptsDir(), "agents.md"), rulesFile, cfg.Force); err != nil {
		return nil, err
	}
	if err := c.deployCommands(result, prepared, c.promptsDir(), cfg.Force, "prompts"); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *Codex) Rollback(state *types.DeploymentState) error {
	return c.removeCreatedFiles(state)
}

func (c *Codex) Status() (types.AgentStatus, error) {
	return dirStatus(c.configDir(), filepath.Join(c.promptsDir(), "agents.md")), nil
}

func (c *Codex) SupportsProjectScope() bool { return false }

func (c *Codex) SupportsUserScope() bool { return true }
