package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/convert"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Gemini deploys ~/.gemini/GEMINI.md as a link to the canonical rules
// plus TOML commands under ~/.gemini/commands. The same adapter serves
// Antigravity, which additionally stages its global workflows dir.
// Project scope writes a GEMINI.md import stub into .gemini/.
type Gemini struct {
	Base
	antigravity bool
}

// NewGemini creates the Gemini CLI adapter.
func NewGemini(def types.AgentDefinition, deps Deps) *Gemini {
	return &Gemini{Base: NewBase(def, deps)}
}

// NewAntigravity creates the Antigravity variant of the Gemini adapter.
func NewAntigravity(def types.AgentDefinition, deps Deps) *Gemini {
	return &Gemini{Base: NewBase(def, deps), antigravity: true}
}

func (g *Gemini) configDir() string {
	return userPath(g.paths.UserHome(), ".gemini")
}

func (g *Gemini) commandsDir() string {
	return filepath.Join(g.configDir(), "commands")
}

func (g *Gemini) workflowsDir() string {
	return filepath.Join(g.configDir(), "antigravity", "global_workflows")
}

func (g *Gemini) projectRulesPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".gemini", "GEMINI.md")
}

func (g *Gemini) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := g.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)
	prepared.Format = types.FormatTOML
	prepared.AddTargetPath(g.paths.RulesFile())

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := g.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		prepared.AddTargetPath(g.projectRulesPath(projectRoot))
		return prepared, nil
	}

	prepared.AddTargetPath(filepath.Join(g.configDir(), "GEMINI.md"))
	g.prepareCommands(prepared, cfg.CommandIDs, g.commandsDir())
	if g.antigravity {
		prepared.AddTargetPath(g.workflowsDir())
	}
	return prepared, nil
}

func (g *Gemini) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := g.budgetReport(prepared)

	for name, rendered := range prepared.Commands {
		if strings.HasSuffix(name, ".toml") {
			if err := convert.ValidateTOML(rendered); err != nil {
				report.Errors = append(report.Errors,
					fmt.Sprintf("invalid TOML in command %q: %v", name, err))
				report.Valid = false
			}
		}
	}
	return report, nil
}

func (g *Gemini) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := g.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{DeployedFiles: []string{rulesFile}}

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := g.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		target := g.projectRulesPath(projectRoot)
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return nil, errors.FSWrap(err, filepath.Dir(target), "failed to create .gemini directory")
		}
		// Gemini follows @-imports, so the project file is a small stub
		// referencing the canonical document.
		stub := fmt.Sprintf("# Gemini Configuration\n\nThis file imports AGENTS.md rules.\n\n@%s\n", rulesFile)
		if err := os.WriteFile(target, []byte(stub), 0644); err != nil {
			return nil, errors.FSWrap(err, target, "failed to write GEMINI.md")
		}
		result.Method = types.LinkCopy
		result.DeployedFiles = append(result.DeployedFiles, target)
		result.ManualSteps = append(result.ManualSteps, fmt.Sprintf(
			"Project rules deployed to %s. Gemini reads this file automatically.", target))
		return result, nil
	}

	if err := g.deployLink(result, filepath.Join(g.configDir(), "GEMINI.md"), rulesFile, cfg.Force); err != nil {
		return nil, err
	}
	if err := g.deployCommands(result, prepared, g.commandsDir(), cfg.Force, "commands"); err != nil {
		return nil, err
	}
	if g.antigravity {
		if err := os.MkdirAll(g.workflowsDir(), 0755); err != nil {
			return nil, errors.FSWrap(err, g.workflowsDir(), "failed to create workflows directory")
		}
	}
	return result, nil
}

func (g *Gemini) Rollback(state *types.DeploymentState) error {
	return g.removeCreatedFiles(state)
}

func (g *Gemini) Status() (types.AgentStatus, error) {
	return dirStatus(g.configDir(), filepath.Join(g.configDir(), "GEMINI.md")), nil
}

func (g *Gemini) SupportsProjectScope() bool { return true }

func (g *Gemini) SupportsUserScope() bool { return true }
