package agents

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/project"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Copilot writes inline content into .github/copilot-instructions.md.
// Project scope only, no imports, no commands: the 8K ceiling rules
// everything else out.
type Copilot struct {
	Base
}

// NewCopilot creates the Copilot adapter.
func NewCopilot(def types.AgentDefinition, deps Deps) *Copilot {
	return &Copilot{Base: NewBase(def, deps)}
}

func (c *Copilot) instructionsPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".github", "copilot-instructions.md")
}

func (c *Copilot) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	if cfg.Scope != types.ScopeProject {
		return nil, errors.New(errors.ErrValidationFailed,
			"copilot only supports project-level deployment")
	}

	doc, err := c.generateRules(cfg.PackIDs, true)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)

	projectRoot, err := c.resolveProjectPath(cfg)
	if err != nil {
		return nil, err
	}
	prepared.AddTargetPath(c.instructionsPath(projectRoot))
	return prepared, nil
}

func (c *Copilot) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := c.budgetReport(prepared)

	if len(prepared.Commands) > 0 {
		report.WithWarnings("copilot does not support custom commands; they will be ignored")
	}
	// The 8K ceiling is tight enough to flag early.
	if p := report.Budget.Percentage; p != nil && *p > 70 && *p <= 80 {
		report.WithWarnings("content is approaching copilot's 8K limit; consider trimming packs")
	}
	return report, nil
}

func (c *Copilot) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	projectRoot, err := c.resolveProjectPath(cfg)
	if err != nil {
		return nil, err
	}

	target := c.instructionsPath(projectRoot)
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return nil, errors.FSWrap(err, filepath.Dir(target), "failed to create .github directory")
	}
	// Inline content, never a link: Copilot reads the file from the
	// repository checkout.
	if err := os.WriteFile(target, []byte(prepared.Content), 0644); err != nil {
		return nil, errors.FSWrap(err, target, "failed to write instructions")
	}

	return &types.DeployResult{
		Method:        types.LinkCopy,
		DeployedFiles: []string{target},
	}, nil
}

func (c *Copilot) Rollback(state *types.DeploymentState) error {
	return c.removeCreatedFiles(state)
}

func (c *Copilot) Status() (types.AgentStatus, error) {
	// Copilot is a cloud service; presence of instructions in the
	// current project is the only observable signal.
	if root := project.DetectRoot(); root != "" {
		if _, err := os.Stat(c.instructionsPath(root)); err == nil {
			return types.StatusConfigured, nil
		}
	}
	return types.StatusInstalled, nil
}

func (c *Copilot) SupportsProjectScope() bool { return true }

func (c *Copilot) SupportsUserScope() bool { return false }
