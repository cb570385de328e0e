package agents

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/agentsync/pkg/convert"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Cline embeds the rules and commands into a config.json, written to
// .cline/ in the project or ~/.cline/ for user scope. Cline does not
// follow links, so the config is always a real file.
type Cline struct {
	Base
}

// NewCline creates the Cline adapter.
func NewCline(def types.AgentDefinition, deps Deps) *Cline {
	return &Cline{Base: NewBase(def, deps)}
}

func (c *Cline) userConfigPath() string {
	return userPath(c.paths.UserHome(), ".cline", "config.json")
}

func (c *Cline) projectConfigPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".cline", "config.json")
}

type clineCommand struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

type clineConfig struct {
	Version   string         `json:"version"`
	RulesPath string         `json:"agentsMdPath"`
	Commands  []clineCommand `json:"commands"`
	Rules     string         `json:"rules"`
}

func (c *Cline) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := c.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)
	prepared.Format = types.FormatJSON
	prepared.AddTargetPath(c.paths.RulesFile())

	commands := make([]clineCommand, 0, len(cfg.CommandIDs))
	for _, id := range cfg.CommandIDs {
		entry := clineCommand{
			Name:        id,
			Description: "Custom command: " + id,
			Content:     "Execute this command to perform the specified action.",
		}
		if cmd, err := c.commands.Load(id); err == nil {
			entry.Description = cmd.Description
			entry.Content = cmd.Content
		}
		commands = append(commands, entry)
	}

	config := clineConfig{
		Version:   "1.0",
		RulesPath: c.paths.RulesFile(),
		Commands:  commands,
		Rules:     doc,
	}
	rendered, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrFormatConversion, "failed to serialize cline config")
	}
	prepared.AddConfigFile("config.json", string(rendered))

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := c.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		prepared.AddTargetPath(c.projectConfigPath(projectRoot))
	} else {
		prepared.AddTargetPath(c.userConfigPath())
	}
	return prepared, nil
}

func (c *Cline) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := c.budgetReport(prepared)

	for name, rendered := range prepared.ConfigFiles {
		if strings.HasSuffix(name, ".json") {
			if err := convert.ValidateJSON(rendered); err != nil {
				report.Errors = append(report.Errors,
					fmt.Sprintf("invalid JSON in config %q: %v", name, err))
				report.Valid = false
			}
		}
	}
	return report, nil
}

func (c *Cline) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := c.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{Method: types.LinkCopy, DeployedFiles: []string{rulesFile}}

	configPath := c.userConfigPath()
	if cfg.Scope == types.ScopeProject {
		projectRoot, err := c.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		configPath = c.projectConfigPath(projectRoot)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return nil, errors.FSWrap(err, filepath.Dir(configPath), "failed to create .cline directory")
	}
	if err := os.WriteFile(configPath, []byte(prepared.ConfigFiles["config.json"]), 0644); err != nil {
		return nil, errors.FSWrap(err, configPath, "failed to write cline config")
	}
	result.DeployedFiles = append(result.DeployedFiles, configPath)
	return result, nil
}

func (c *Cline) Rollback(state *types.DeploymentState) error {
	return c.removeCreatedFiles(state)
}

func (c *Cline) Status() (types.AgentStatus, error) {
	configDir := userPath(c.paths.UserHome(), ".cline")
	return dirStatus(configDir, c.userConfigPath()), nil
}

func (c *Cline) SupportsProjectScope() bool { return true }

func (c *Cline) SupportsUserScope() bool { return true }
