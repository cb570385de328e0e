package agents

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/convert"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Claude deploys the rules document as ~/.claude/CLAUDE.md (a link
// back to the canonical AGENTS.md) plus slash commands under
// ~/.claude/commands. Project scope links .claude/CLAUDE.md inside the
// project instead.
type Claude struct {
	Base
}

// NewClaude creates the Claude adapter.
func NewClaude(def types.AgentDefinition, deps Deps) *Claude {
	return &Claude{Base: NewBase(def, deps)}
}

func (c *Claude) configDir() string {
	return userPath(c.paths.UserHome(), ".claude")
}

func (c *Claude) commandsDir() string {
	return filepath.Join(c.configDir(), "commands")
}

func (c *Claude) referencesDir() string {
	return filepath.Join(c.configDir(), "references")
}

func (c *Claude) projectRulesPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".claude", "CLAUDE.md")
}

func (c *Claude) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := c.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	// Claude reads YAML frontmatter on its rules files.
	doc = convert.AddFrontmatter(doc, map[string]string{
		"name":    "AGENTS.md Rules",
		"version": "2.0",
	})

	prepared := types.NewPreparedDeployment(doc)
	prepared.Format = types.FormatFrontmatter
	prepared.AddTargetPath(c.paths.RulesFile())

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := c.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		prepared.AddTargetPath(c.projectRulesPath(projectRoot))
		return prepared, nil
	}

	prepared.AddTargetPath(filepath.Join(c.configDir(), "CLAUDE.md"))
	c.prepareCommands(prepared, cfg.CommandIDs, c.commandsDir())
	return prepared, nil
}

func (c *Claude) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := c.budgetReport(prepared)

	// Frontmatter is recommended for Claude, not required.
	if !convert.HasFrontmatter(prepared.Content) {
		report.WithWarnings("rules document should carry YAML frontmatter")
	}
	for name, rendered := range prepared.Commands {
		if !convert.HasFrontmatter(rendered) {
			report.WithWarnings(fmt.Sprintf("command %q should carry YAML frontmatter", name))
		}
	}
	return report, nil
}

func (c *Claude) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := c.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{DeployedFiles: []string{rulesFile}}

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := c.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		target := c.projectRulesPath(projectRoot)
		if err := c.deployLink(result, target, rulesFile, cfg.Force); err != nil {
			return nil, err
		}
		result.ManualSteps = append(result.ManualSteps, fmt.Sprintf(
			"Project rules deployed to %s. Claude reads this file automatically.", target))
		return result, nil
	}

	if err := c.deployLink(result, filepath.Join(c.configDir(), "CLAUDE.md"), rulesFile, cfg.Force); err != nil {
		return nil, err
	}
	if err := c.deployCommands(result, prepared, c.commandsDir(), cfg.Force, "commands"); err != nil {
		return nil, err
	}
	if err := c.deployReferences(result, prepared, cfg.Force); err != nil {
		return nil, err
	}
	return result, nil
}

// deployReferences links staged out-reference files from the agentsync
// references dir into ~/.claude/references.
func (c *Claude) deployReferences(result *types.DeployResult, prepared *types.PreparedDeployment, force bool) error {
	if len(prepared.OutReferences) == 0 {
		return nil
	}
	for relPath := range prepared.OutReferences {
		source := filepath.Join(c.paths.ReferencesDir(), relPath)
		destination := filepath.Join(c.referencesDir(), relPath)
		if err := c.deployLink(result, destination, source, force); err != nil {
			return err
		}
	}
	return nil
}

func (c *Claude) Rollback(state *types.DeploymentState) error {
	return c.removeCreatedFiles(state)
}

func (c *Claude) Status() (types.AgentStatus, error) {
	return dirStatus(c.configDir(), filepath.Join(c.configDir(), "CLAUDE.md")), nil
}

func (c *Claude) SupportsProjectScope() bool { return true }

func (c *Claude) SupportsUserScope() bool { return true }
