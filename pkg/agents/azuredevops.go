package agents

import (
	"fmt"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/types"
)

// AzureDevOps links the rules document to ~/.azure-devops/agents.md,
// or .azure-pipelines/agents.md inside a project, for pipeline agents
// to pick up.
type AzureDevOps struct {
	Base
}

// NewAzureDevOps creates the Azure DevOps adapter.
func NewAzureDevOps(def types.AgentDefinition, deps Deps) *AzureDevOps {
	return &AzureDevOps{Base: NewBase(def, deps)}
}

func (a *AzureDevOps) configDir() string {
	return userPath(a.paths.UserHome(), ".azure-devops")
}

func (a *AzureDevOps) userRulesPath() string {
	return filepath.Join(a.configDir(), "agents.md")
}

func (a *AzureDevOps) projectRulesPath(projectRoot string) string {
	return filepath.Join(projectRoot, ".azure-pipelines", "agents.md")
}

func (a *AzureDevOps) Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error) {
	doc, err := a.generateRules(cfg.PackIDs, false)
	if err != nil {
		return nil, err
	}

	prepared := types.NewPreparedDeployment(doc)
	prepared.AddTargetPath(a.paths.RulesFile())

	if cfg.Scope == types.ScopeProject {
		projectRoot, err := a.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		prepared.AddTargetPath(a.projectRulesPath(projectRoot))
	} else {
		prepared.AddTargetPath(a.userRulesPath())
	}
	return prepared, nil
}

func (a *AzureDevOps) Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report := a.budgetReport(prepared)
	if len(prepared.Commands) > 0 {
		report.WithWarnings("azure devops does not support custom commands; they will be ignored")
	}
	return report, nil
}

func (a *AzureDevOps) Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error) {
	rulesFile, err := a.writeRulesFile(prepared.Content)
	if err != nil {
		return nil, err
	}
	result := &types.DeployResult{DeployedFiles: []string{rulesFile}}

	target := a.userRulesPath()
	if cfg.Scope == types.ScopeProject {
		projectRoot, err := a.resolveProjectPath(cfg)
		if err != nil {
			return nil, err
		}
		target = a.projectRulesPath(projectRoot)
	}

	if err := a.deployLink(result, target, rulesFile, cfg.Force); err != nil {
		return nil, err
	}
	result.ManualSteps = append(result.ManualSteps, fmt.Sprintf(
		"Reference %s from your pipeline definitions to enforce the rules.", target))
	return result, nil
}

func (a *AzureDevOps) Rollback(state *types.DeploymentState) error {
	return a.removeCreatedFiles(state)
}

func (a *AzureDevOps) Status() (types.AgentStatus, error) {
	return dirStatus(a.configDir(), a.userRulesPath()), nil
}

func (a *AzureDevOps) SupportsProjectScope() bool { return true }

func (a *AzureDevOps) SupportsUserScope() bool { return true }
