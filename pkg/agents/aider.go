package agents

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Aider points its YAML config at the canonical rules document via the
// read directive: ~/.aider.conf.yml at user scope, .aider.conf.yml in
// the project root at project scope. An existing config is merged, not
// replaced.
type Aider struct {
	Base
}

// NewAider creates the Aider adapter.
func NewAider(def types.AgentDefinition, deps Deps) *Aider {
	return &Aider{Base: NewBase(def, deps)}
}

func (a *Aider) userConfigPath() string {
	return userPath(a.paths.UserHome(), ".aider.conf.yml")
}

func (a *Aider) projectConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".aider.conf.yml")
}

func (a *Aider) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := a.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)
	prepared.Format = types.FormatYAML
	prepared.AddTargetPath(a.paths.RulesFile())

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := a.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		prepared.AddTargetPath(a.projectConfigPath(projectRoot))
	} else {
		prepared.AddTargetPath(a.userConfigPath())
	}
	return prepared, nil
}

func (a *Aider) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := a.budgetReport(prepared)
	if len(prepared.Commands) > 0 {
		report.WithWarnings("aider loads commands from its config, not separate files; commands are ignored")
	}
	return report, nil
}

func (a *Aider) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := a.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{Method: types.LinkCopy, DeployedFiles: []string{rulesFile}}

	configPath := a.userConfigPath()
	if cfg.Scope == types.ScopeProject {
		projectRoot, err := a.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		configPath = a.projectConfigPath(projectRoot)
	}

	if err := a.updateConfig(configPath, rulesFile); err != nil {
		return nil, err
	}
	result.DeployedFiles = append(result.DeployedFiles, configPath)
	result.ManualSteps = append(result.ManualSteps, fmt.Sprintf(
		"Aider reads %s through the read directive in %s on every run.", rulesFile, configPath))
	return result, nil
}

// updateConfig adds the rules file to the config's read list,
// preserving any existing settings.
func (a *Aider) updateConfig(configPath, rulesFile string) error {
	config := map[string]interface{}{}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, &config); err != nil {
			return errors.Wrapf(err, errors.ErrFormatConversion,
				"existing config %s is not valid YAML", configPath)
		}
	}

	reads := []interface{}{}
	switch existing := config["read"].(type) {
	case []interface{}:
		reads = existing
	case string:
		reads = []interface{}{existing}
	}
	for _, entry := range reads {
		if entry == rulesFile {
			config["read"] = reads
			return a.writeConfig(configPath, config)
		}
	}
	config["read"] = append(reads, rulesFile)
	return a.writeConfig(configPath, config)
}

func (a *Aider) writeConfig(configPath string, config map[string]interface{}) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, errors.ErrFormatConversion, "failed to serialize aider config")
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.FSWrap(err, configPath, "failed to write aider config")
	}
	return nil
}

func (a *Aider) Rollback(state *types.DeploymentState) error {
	return a.removeCreatedFiles(state)
}

func (a *Aider) Status() (types.AgentStatus, error) {
	if _, err := os.Stat(a.userConfigPath()); err == nil {
		return types.StatusConfigured, nil
	}
	return types.StatusNotInstalled, nil
}

func (a *Aider) SupportsProjectScope() bool { return true }

func (a *Aider) SupportsUserScope() bool { return true }
