package agents

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/types"
)

// Placeholder serves agents whose configuration paths have not been
// verified. It writes the canonical rules document and makes a
// best-effort copy into the declared config path when its parent
// directory already exists; everything else becomes a manual step.
type Placeholder struct {
	Base
}

// NewPlaceholder creates a placeholder adapter for the definition.
func NewPlaceholder(def types.AgentDefinition, deps Deps) *Placeholder {
	return &Placeholder{Base: NewBase(def, deps)}
}

// configPath expands the first declared config path, or "" when the
// definition has none.
func (p *Placeholder) configPath() string {
	if len(p.def.ConfigPaths) == 0 {
		return ""
	}
	raw := p.def.ConfigPaths[0]
	if strings.HasPrefix(raw, "~/") {
		return filepath.Join(p.paths.UserHome(), raw[2:])
	}
	return raw
}

func (p *Placeholder) verified() bool {
	return !strings.Contains(strings.ToLower(p.def.Notes), "placeholder") &&
		!strings.Contains(strings.ToLower(p.def.Notes), "unverified")
}

func (p *Placeholder) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := p.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)
	prepared.Format = p.def.Format
	prepared.AddTargetPath(p.paths.RulesFile())
	if configPath := p.configPath(); configPath != "" {
		prepared.AddTargetPath(configPath)
	}
	return prepared, nil
}

func (p *Placeholder) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := p.budgetReport(prepared)

	if !p.verified() {
		report.WithWarnings(fmt.Sprintf(
			"agent %q has unverified configuration paths; deployment may not take effect", p.def.ID))
	}
	if configPath := p.configPath(); configPath != "" {
		if _, err := os.Stat(filepath.Dir(configPath)); err != nil {
			report.WithWarnings(fmt.Sprintf(
				"config directory %s does not exist; the agent may not be installed",
				filepath.Dir(configPath)))
		}
	}
	return report, nil
}

func (p *Placeholder) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := p.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{Method: types.LinkCopy, DeployedFiles: []string{rulesFile}}

	if !p.verified() {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"agent %q has unverified paths; deployment may be incomplete", p.def.ID))
	}

	if configPath := p.configPath(); configPath != "" {
		if _, err := os.Stat(filepath.Dir(configPath)); err == nil {
			if err := os.WriteFile(configPath, []byte(prepared.Content), 0644); err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"could not write to %s: %v", configPath, err))
			} else {
				result.DeployedFiles = append(result.DeployedFiles, configPath)
			}
		} else {
			result.ManualSteps = append(result.ManualSteps, fmt.Sprintf(
				"When %s is installed, copy or link %s to %s.", p.def.ID, rulesFile, configPath))
		}
	}
	return result, nil
}

func (p *Placeholder) Rollback(state *types.DeploymentState) error {
	return p.removeCreatedFiles(state)
}

func (p *Placeholder) Status() (types.AgentStatus, error) {
	configPath := p.configPath()
	if configPath == "" {
		return types.StatusNotInstalled, nil
	}
	if _, err := os.Stat(filepath.Dir(configPath)); err != nil {
		return types.StatusNotInstalled, nil
	}
	if _, err := os.Stat(configPath); err == nil {
		return types.StatusConfigured, nil
	}
	return types.StatusInstalled, nil
}

func (p *Placeholder) SupportsProjectScope() bool {
	return p.def.Strategy == "symlink" || p.def.Strategy == "copy"
}

func (p *Placeholder) SupportsUserScope() bool { return true }
