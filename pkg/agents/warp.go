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

// Warp deploys commands as workflow YAML files copied into
// ~/.warp/workflows. Warp has no rules-file support, so the canonical
// document is only referenced in a manual step.
type Warp struct {
	Base
}

// NewWarp creates the Warp adapter.
func NewWarp(def types.AgentDefinition, deps Deps) *Warp {
	return &Warp{Base: NewBase(def, deps)}
}

func (w *Warp) configDir() string {
	return userPath(w.paths.UserHome(), ".warp")
}

func (w *Warp) workflowsDir() string {
	return filepath.Join(w.configDir(), "workflows")
}

func (w *Warp) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := w.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)
	prepared.Format = types.FormatYAML
	prepared.AddTargetPath(w.paths.RulesFile())
	w.prepareCommands(prepared, cfg.CommandIDs, w.workflowsDir())
	return prepared, nil
}

func (w *Warp) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := w.budgetReport(prepared)

	for name, rendered := range prepared.Commands {
		if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
			if err := convert.ValidateYAML(rendered); err != nil {
				report.Errors = append(report.Errors,
					fmt.Sprintf("invalid YAML in workflow %q: %v", name, err))
				report.Valid = false
			}
		}
	}
	return report, nil
}

func (w *Warp) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := w.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{Method: types.LinkCopy, DeployedFiles: []string{rulesFile}}

	if len(prepared.Commands) > 0 {
		buildDir := w.paths.AgentBuildDir(w.def.ID, "workflows")
		if err := os.MkdirAll(buildDir, 0755); err != nil {
			return nil, errors.FSWrap(err, buildDir, "failed to create build directory")
		}
		if err := os.MkdirAll(w.workflowsDir(), 0755); err != nil {
			return nil, errors.FSWrap(err, w.workflowsDir(), "failed to create workflows directory")
		}

		// Warp watches its workflows directory for real files; links
		// are not picked up reliably, so workflows are written twice.
		for name, rendered := range prepared.Commands {
			buildPath := filepath.Join(buildDir, name)
			if err := os.WriteFile(buildPath, []byte(rendered), 0644); err != nil {
				return nil, errors.FSWrap(err, buildPath, "failed to write workflow")
			}
			workflowPath := filepath.Join(w.workflowsDir(), name)
			if err := os.WriteFile(workflowPath, []byte(rendered), 0644); err != nil {
				return nil, errors.FSWrap(err, workflowPath, "failed to copy workflow")
			}
			result.DeployedFiles = append(result.DeployedFiles, workflowPath)
		}
	}

	result.ManualSteps = append(result.ManualSteps, fmt.Sprintf(
		"Warp has no built-in rules support. Reference %s in prompts; "+
			"workflows are installed under %s.", rulesFile, w.workflowsDir()))
	return result, nil
}

func (w *Warp) Rollback(state *types.DeploymentState) error {
	return w.removeCreatedFiles(state)
}

func (w *Warp) Status() (types.AgentStatus, error) {
	if dirHasEntries(w.workflowsDir()) {
		return types.StatusConfigured, nil
	}
	return dirStatus(w.configDir(), ""), nil
}

func (w *Warp) SupportsProjectScope() bool { return false }

func (w *Warp) SupportsUserScope() bool { return true }
