package agents

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/types"
)

// Cursor deploys slash commands under ~/.cursor/commands and, at
// project scope, links .cursor/rules.md. Cursor has no user-level
// rules file, so user scope ends with a manual User Rule step.
type Cursor struct {
	Base
}

// NewCursor creates the Cursor adapter.
func NewCursor(def types.AgentDefinition, deps Deps) *Cursor {
	return &Cursor{Base: NewBase(def, deps)}
}

func (c *Cursor) configDir() string {
	return userPath(c.paths.UserHome(), ".cursor")
}

func (c *Cursor) commandsDir() string {
	return filepath.Join(c.configDir(), "commands")
}

func (c *Cursor) referencesDir() string {
	return filepath.Join(c.configDir(), "out-references")
}

func (c *Cursor) projectRulesPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".cursor", "rules.md")
}

func (c *Cursor) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := c.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)
	prepared.AddTargetPath(c.paths.RulesFile())

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := c.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		prepared.AddTargetPath(c.projectRulesPath(projectRoot))
		return prepared, nil
	}

	c.prepareCommands(prepared, cfg.CommandIDs, c.commandsDir())
	return prepared, nil
}

func (c *Cursor) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := c.budgetReport(prepared)
	for name := range prepared.Commands {
		if !strings.HasSuffix(name, ".md") {
			report.WithWarnings(fmt.Sprintf("command %q should have a .md extension", name))
		}
	}
	return report, nil
}

func (c *Cursor) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
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
			"Project rules deployed to %s. Cursor reads this file automatically.", target))
		return result, nil
	}

	if err := c.deployCommands(result, prepared, c.commandsDir(), cfg.Force, "commands"); err != nil {
		return nil, err
	}

	for relPath := range prepared.OutReferences {
		source := filepath.Join(c.paths.ReferencesDir(), relPath)
		destination := filepath.Join(c.referencesDir(), relPath)
		if err := c.deployLink(result, destination, source, cfg.Force); err != nil {
			return nil, err
		}
	}

	result.ManualSteps = append(result.ManualSteps, fmt.Sprintf(
		"Add a Cursor User Rule (Settings > Rules for AI) pointing at %s, "+
			"or reference it with @%s in prompts.", rulesFile, rulesFile))

	if result.Method == "" {
		result.Method = types.LinkSymlink
	}
	return result, nil
}

func (c *Cursor) Rollback(state *types.DeploymentState) error {
	return c.removeCreatedFiles(state)
}

func (c *Cursor) Status() (types.AgentStatus, error) {
	if dirHasEntries(c.commandsDir()) {
		return types.StatusConfigured, nil
	}
	return dirStatus(c.configDir(), ""), nil
}

func (c *Cursor) SupportsProjectScope() bool { return true }

func (c *Cursor) SupportsUserScope() bool { return true }
