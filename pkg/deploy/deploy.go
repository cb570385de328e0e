// Package deploy runs the deployment pipeline: adapter preparation,
// validation, backup, deployment, state recording, and rollback. It is
// the only layer that coordinates across adapters, backups, and the
// state store; adapters never touch state or backups themselves.
package deploy

import (
	"fmt"
	"strings"
	"time"

	"github.com/arthur-debert/agentsync/pkg/agents"
	"github.com/arthur-debert/agentsync/pkg/backup"
	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/content"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/arthur-debert/agentsync/pkg/registry"
	"github.com/arthur-debert/agentsync/pkg/state"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Stage identifies where in the pipeline a run is, or where it aborted.
type Stage string

const (
	StagePreparing  Stage = "preparing"
	StageValidating Stage = "validating"
	StageBackingUp  Stage = "backing_up"
	StageDeploying  Stage = "deploying"
	StageRecording  Stage = "recording"
	StageRecorded   Stage = "recorded"
)

// AbortedError is the terminal state of a failed pipeline run: the
// stage that failed and the underlying error. When a failed deployment
// also failed to restore its backup, RestoreErr carries that second
// failure separately so it is never mistaken for success or swallowed.
type AbortedError struct {
	Stage      Stage
	Err        error
	RestoreErr error
}

func (e *AbortedError) Error() string {
	msg := fmt.Sprintf("deployment aborted at %s: %v", e.Stage, e.Err)
	if e.RestoreErr != nil {
		msg += fmt.Sprintf("; backup restore also failed: %v", e.RestoreErr)
	}
	return msg
}

func (e *AbortedError) Unwrap() error { return e.Err }

func abort(stage Stage, err error) error {
	return &AbortedError{Stage: stage, Err: err}
}

// Outcome is the full result of one successful deployment run.
type Outcome struct {
	AgentID   string                  `json:"agentId"`
	Stage     Stage                   `json:"stage"`
	Report    *types.ValidationReport `json:"report"`
	Result    *types.DeployResult     `json:"result"`
	State     *types.DeploymentState  `json:"state"`
	BackupDir string                  `json:"backupDir,omitempty"`
}

// Preview describes what a deployment would do without touching the
// filesystem.
type Preview struct {
	AgentID     string                  `json:"agentId"`
	Content     string                  `json:"content"`
	TargetPaths []string                `json:"targetPaths"`
	Commands    []string                `json:"commands"`
	Report      *types.ValidationReport `json:"report"`
}

// AgentReport pairs an agent's installation status with its latest
// recorded deployment, if any.
type AgentReport struct {
	AgentID    string                 `json:"agentId"`
	Name       string                 `json:"name"`
	Status     types.AgentStatus      `json:"status"`
	LastDeploy *types.DeploymentState `json:"lastDeploy,omitempty"`
}

// Orchestrator drives deployments across the adapter registry.
type Orchestrator struct {
	adapters  *registry.Registry[agents.Adapter]
	backups   *backup.Manager
	states    *state.Store
	validator *content.Validator
	now       func() time.Time
}

// New wires an Orchestrator over the adapter registry, taking backup
// retention from the loaded configuration.
func New(adapters *registry.Registry[agents.Adapter], p paths.Paths, packs *content.Loader, cfg *config.Config) *Orchestrator {
	return &Orchestrator{
		adapters:  adapters,
		backups:   backup.New(p.BackupRoot()).WithRetention(cfg.Backup.Retention),
		states:    state.New(p.StateFile()).WithLimit(cfg.State.History),
		validator: content.NewValidator(packs),
		now:       time.Now,
	}
}

// WithClock overrides the timestamp source; used by tests.
func (o *Orchestrator) WithClock(now func() time.Time) *Orchestrator {
	o.now = now
	return o
}

func (o *Orchestrator) adapter(agentID string) (agents.Adapter, error) {
	adapter, err := o.adapters.Get(agentID)
	if err != nil {
		return nil, errors.Newf(errors.ErrAgentNotFound, "unknown agent %q", agentID)
	}
	return adapter, nil
}

func checkScope(adapter agents.Adapter, scope types.Scope) error {
	switch scope {
	case types.ScopeProject:
		if !adapter.SupportsProjectScope() {
			return errors.Newf(errors.ErrValidationFailed,
				"agent %q does not support project-level deployment", adapter.AgentID())
		}
	case types.ScopeUser:
		if !adapter.SupportsUserScope() {
			return errors.Newf(errors.ErrValidationFailed,
				"agent %q does not support user-level deployment", adapter.AgentID())
		}
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown scope %q", scope)
	}
	return nil
}

// validate runs the adapter's own checks plus the shared selection
// validation (pack existence, agent compatibility, dependency cycles,
// full-selection character budget) and merges the reports.
func (o *Orchestrator) validate(adapter agents.Adapter, cfg *types.DeploymentConfig, prepared *types.PreparedDeployment) (*types.ValidationReport, error) {
	report, err := adapter.Validate(prepared)
	if err != nil {
		return nil, err
	}
	selection, err := o.validator.ValidateSelection(cfg.PackIDs, cfg.AgentID, adapter.CharacterLimit())
	if err != nil {
		return nil, err
	}
	report.Merge(selection)
	return report, nil
}

// Deploy runs the full pipeline for one agent. Existing target files
// are backed up before the adapter writes; a failed deployment restores
// the backup and the restore error, if any, never masks the deployment
// error.
func (o *Orchestrator) Deploy(cfg *types.DeploymentConfig) (*Outcome, error) {
	logger := logging.GetLogger("deploy")

	adapter, err := o.adapter(cfg.AgentID)
	if err != nil {
		return nil, err
	}
	if err := checkScope(adapter, cfg.Scope); err != nil {
		return nil, err
	}

	prepared, err := adapter.Prepare(cfg)
	if err != nil {
		return nil, abort(StagePreparing, err)
	}

	report, err := o.validate(adapter, cfg, prepared)
	if err != nil {
		return nil, abort(StageValidating, err)
	}
	if !report.Valid {
		return nil, abort(StageValidating, errors.Newf(errors.ErrValidationFailed,
			"deployment validation failed: %s", strings.Join(report.Errors, "; ")))
	}

	backupDir, err := o.backups.CreateBackup(cfg.AgentID, prepared.TargetPaths)
	if err != nil {
		return nil, abort(StageBackingUp, err)
	}

	result, err := adapter.Deploy(prepared, cfg)
	if err != nil {
		aborted := &AbortedError{Stage: StageDeploying, Err: err}
		if backupDir != "" {
			if restoreErr := o.backups.RestoreBackup(backupDir, prepared.TargetPaths); restoreErr != nil {
				logger.Error().Err(restoreErr).Str("agent", cfg.AgentID).
					Str("backup", backupDir).Msg("failed to restore backup after deploy failure")
				aborted.RestoreErr = restoreErr
			}
		}
		return nil, aborted
	}

	deployState := types.DeploymentState{
		AgentID:       cfg.AgentID,
		Timestamp:     o.now().UTC(),
		DeployedPacks: cfg.PackIDs,
		DeployedCmds:  cfg.CommandIDs,
		FilesCreated:  result.DeployedFiles,
		BackupPath:    backupDir,
		Method:        string(result.Method),
		Scope:         cfg.Scope,
		ProjectPath:   cfg.ProjectPath,
	}
	if err := o.states.Record(deployState); err != nil {
		return nil, abort(StageRecording, err)
	}

	logger.Info().Str("agent", cfg.AgentID).Str("scope", string(cfg.Scope)).
		Strs("packs", cfg.PackIDs).Int("files", len(result.DeployedFiles)).
		Msg("deployment complete")

	return &Outcome{
		AgentID:   cfg.AgentID,
		Stage:     StageRecorded,
		Report:    report,
		Result:    result,
		State:     &deployState,
		BackupDir: backupDir,
	}, nil
}

// ValidateDeployment runs preparation and validation without deploying.
func (o *Orchestrator) ValidateDeployment(cfg *types.DeploymentConfig) (*types.ValidationReport, error) {
	adapter, err := o.adapter(cfg.AgentID)
	if err != nil {
		return nil, err
	}
	if err := checkScope(adapter, cfg.Scope); err != nil {
		return nil, err
	}
	prepared, err := adapter.Prepare(cfg)
	if err != nil {
		return nil, err
	}
	return o.validate(adapter, cfg, prepared)
}

// PreviewDeployment shows the content and paths a deployment would
// produce without writing anything.
func (o *Orchestrator) PreviewDeployment(cfg *types.DeploymentConfig) (*Preview, error) {
	adapter, err := o.adapter(cfg.AgentID)
	if err != nil {
		return nil, err
	}
	if err := checkScope(adapter, cfg.Scope); err != nil {
		return nil, err
	}
	prepared, err := adapter.Prepare(cfg)
	if err != nil {
		return nil, err
	}
	report, err := o.validate(adapter, cfg, prepared)
	if err != nil {
		return nil, err
	}

	commands := make([]string, 0, len(prepared.Commands))
	for name := range prepared.Commands {
		commands = append(commands, name)
	}

	return &Preview{
		AgentID:     cfg.AgentID,
		Content:     prepared.Content,
		TargetPaths: prepared.TargetPaths,
		Commands:    commands,
		Report:      report,
	}, nil
}

// Rollback undoes a recorded deployment for an agent. With a nil
// timestamp the latest deployment is rolled back and removed from
// history; with a timestamp the matching entry is rolled back, and
// removed only when it is also the latest, since older entries were
// already superseded.
func (o *Orchestrator) Rollback(agentID string, ts *time.Time) (*types.DeploymentState, error) {
	logger := logging.GetLogger("deploy")

	adapter, err := o.adapter(agentID)
	if err != nil {
		return nil, err
	}

	var target *types.DeploymentState
	if ts != nil {
		target, err = o.states.FindByTimestamp(agentID, *ts)
	} else {
		target, err = o.states.Latest(agentID)
	}
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, errors.Newf(errors.ErrNotFound, "no recorded deployment for agent %q", agentID)
	}

	if err := adapter.Rollback(target); err != nil {
		return nil, err
	}

	if target.BackupPath != "" {
		if err := o.backups.RestoreBackup(target.BackupPath, target.FilesCreated); err != nil {
			logger.Warn().Err(err).Str("agent", agentID).
				Str("backup", target.BackupPath).Msg("backup restore incomplete")
		}
	}

	latest, err := o.states.Latest(agentID)
	if err != nil {
		return nil, err
	}
	if latest != nil && latest.Timestamp.Equal(target.Timestamp) {
		if _, err := o.states.RemoveLatest(agentID); err != nil {
			return nil, err
		}
	}

	logger.Info().Str("agent", agentID).Time("deployedAt", target.Timestamp).
		Msg("rollback complete")
	return target, nil
}

// Status reports one agent's installation status and latest deployment.
func (o *Orchestrator) Status(agentID string) (*AgentReport, error) {
	adapter, err := o.adapter(agentID)
	if err != nil {
		return nil, err
	}
	status, err := adapter.Status()
	if err != nil {
		return nil, err
	}
	latest, err := o.states.Latest(agentID)
	if err != nil {
		return nil, err
	}
	return &AgentReport{
		AgentID:    agentID,
		Name:       adapter.Definition().Name,
		Status:     status,
		LastDeploy: latest,
	}, nil
}

// StatusAll reports every registered agent in registry order.
func (o *Orchestrator) StatusAll() ([]AgentReport, error) {
	ids := o.adapters.List()
	reports := make([]AgentReport, 0, len(ids))
	for _, id := range ids {
		report, err := o.Status(id)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}
	return reports, nil
}

// History returns the recorded deployments for an agent, oldest first.
func (o *Orchestrator) History(agentID string) ([]types.DeploymentState, error) {
	if _, err := o.adapter(agentID); err != nil {
		return nil, err
	}
	return o.states.History(agentID)
}
