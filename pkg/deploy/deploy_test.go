// Test Type: Integration Test
// Description: Tests for the deployment pipeline end to end over a temp
// home: validate, backup, deploy, state recording, and rollback

package deploy_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentsync/pkg/agents"
	"github.com/arthur-debert/agentsync/pkg/config"
	"github.com/arthur-debert/agentsync/pkg/content"
	"github.com/arthur-debert/agentsync/pkg/deploy"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/arthur-debert/agentsync/pkg/registry"
	"github.com/arthur-debert/agentsync/pkg/types"
)

type fixture struct {
	paths        paths.Paths
	packs        *content.Loader
	registry     *registry.Registry[agents.Adapter]
	orchestrator *deploy.Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	userHome := t.TempDir()
	p := paths.NewAt(filepath.Join(userHome, ".agentsync"), userHome)

	packDir := filepath.Join(p.PacksDir(), "core")
	require.NoError(t, os.MkdirAll(packDir, 0755))
	pack, err := json.Marshal(types.RulePack{
		ID: "core", Name: "Core", Description: "core rules", Files: []string{"core.md"},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(packDir, "pack.json"), pack, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(packDir, "core.md"), []byte("always review tests"), 0644))
	require.NoError(t, os.MkdirAll(p.CommandsDir(), 0755))

	packs := content.NewLoader(p.PacksDir())
	reg, err := agents.NewRegistry(agents.Deps{
		Paths:    p,
		Packs:    packs,
		Commands: content.NewCommandLoader(p.CommandsDir()),
	})
	require.NoError(t, err)

	return &fixture{
		paths:        p,
		packs:        packs,
		registry:     reg,
		orchestrator: deploy.New(reg, p, packs, config.Default()),
	}
}

func userConfig(agentID string) *types.DeploymentConfig {
	return &types.DeploymentConfig{
		AgentID: agentID,
		PackIDs: []string{"core"},
		Scope:   types.ScopeUser,
	}
}

func TestDeployRecordsState(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.orchestrator.Deploy(userConfig("claude"))
	require.NoError(t, err)
	require.NotNil(t, outcome.Result)
	assert.Equal(t, deploy.StageRecorded, outcome.Stage)
	assert.True(t, outcome.Report.Valid)
	// Nothing existed beforehand, so no backup was taken
	assert.Empty(t, outcome.BackupDir)

	link := filepath.Join(f.paths.UserHome(), ".claude", "CLAUDE.md")
	assert.Contains(t, outcome.Result.DeployedFiles, link)

	history, err := f.orchestrator.History("claude")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, []string{"core"}, history[0].DeployedPacks)
	assert.Equal(t, types.ScopeUser, history[0].Scope)
}

func TestDeployBacksUpExistingTarget(t *testing.T) {
	f := newFixture(t)

	// A previously deployed symlink at the destination; force replaces it
	claudeDir := filepath.Join(f.paths.UserHome(), ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	old := filepath.Join(claudeDir, "old-rules.md")
	require.NoError(t, os.WriteFile(old, []byte("old rules"), 0644))
	require.NoError(t, os.Symlink(old, filepath.Join(claudeDir, "CLAUDE.md")))

	cfg := userConfig("claude")
	cfg.Force = true
	outcome, err := f.orchestrator.Deploy(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.BackupDir)

	backedUp := filepath.Join(outcome.BackupDir, "CLAUDE.md")
	data, err := os.ReadFile(backedUp)
	require.NoError(t, err)
	assert.Equal(t, "old rules", string(data))

	// The link now resolves to the canonical rules file
	target, err := os.Readlink(filepath.Join(claudeDir, "CLAUDE.md"))
	require.NoError(t, err)
	assert.Equal(t, f.paths.RulesFile(), target)
}

func TestDeployFailureLeavesNoState(t *testing.T) {
	f := newFixture(t)

	// A plain file at the destination blocks linking without force
	claudeDir := filepath.Join(f.paths.UserHome(), ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	existing := filepath.Join(claudeDir, "CLAUDE.md")
	require.NoError(t, os.WriteFile(existing, []byte("user notes"), 0644))

	_, err := f.orchestrator.Deploy(userConfig("claude"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrLinkExists))

	var aborted *deploy.AbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, deploy.StageDeploying, aborted.Stage)
	assert.NoError(t, aborted.RestoreErr)

	// The original file survived and nothing was recorded
	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "user notes", string(data))

	history, err := f.orchestrator.History("claude")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestDeployFailureRestoresRulesFile(t *testing.T) {
	f := newFixture(t)

	// The canonical document from a previous run
	require.NoError(t, os.MkdirAll(filepath.Dir(f.paths.RulesFile()), 0755))
	require.NoError(t, os.WriteFile(f.paths.RulesFile(), []byte("previous canonical rules"), 0644))

	// A plain file where the .cline directory should go fails the deploy
	// after the rules file has already been rewritten
	require.NoError(t, os.WriteFile(filepath.Join(f.paths.UserHome(), ".cline"), []byte("in the way"), 0644))

	_, err := f.orchestrator.Deploy(userConfig("cline"))
	require.Error(t, err)

	var aborted *deploy.AbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, deploy.StageDeploying, aborted.Stage)
	assert.NoError(t, aborted.RestoreErr)

	// The backup restore brought the original document back
	data, err := os.ReadFile(f.paths.RulesFile())
	require.NoError(t, err)
	assert.Equal(t, "previous canonical rules", string(data))
}

func TestDeployHistoryFollowsConfiguredLimit(t *testing.T) {
	f := newFixture(t)
	cfg := config.Default()
	cfg.State.History = 2
	orch := deploy.New(f.registry, f.paths, f.packs, cfg)

	for i := 0; i < 3; i++ {
		_, err := orch.Deploy(userConfig("claude"))
		require.NoError(t, err)
	}

	history, err := orch.History("claude")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestDeployUnknownAgent(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.Deploy(userConfig("emacs"))
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrAgentNotFound))
}

func TestDeployScopeRejection(t *testing.T) {
	f := newFixture(t)

	// Codex is user-scope only
	cfg := userConfig("codex")
	cfg.Scope = types.ScopeProject
	cfg.ProjectPath = t.TempDir()
	_, err := f.orchestrator.Deploy(cfg)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidationFailed))
	assert.Contains(t, err.Error(), "project-level")
}

func TestDeployValidationFailureAborts(t *testing.T) {
	f := newFixture(t)

	// A pack over copilot's 8K inline limit
	big := make([]byte, 10_000)
	for i := range big {
		big[i] = 'b'
	}
	bigDir := filepath.Join(f.paths.PacksDir(), "big")
	require.NoError(t, os.MkdirAll(bigDir, 0755))
	pack, err := json.Marshal(types.RulePack{ID: "big", Name: "Big", Files: []string{"big.md"}})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(bigDir, "pack.json"), pack, 0644))
	require.NoError(t, os.WriteFile(filepath.Join(bigDir, "big.md"), big, 0644))

	project := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(project, "go.mod"), []byte("module demo\n"), 0644))

	_, err = f.orchestrator.Deploy(&types.DeploymentConfig{
		AgentID:     "copilot",
		PackIDs:     []string{"big"},
		Scope:       types.ScopeProject,
		ProjectPath: project,
	})
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrValidationFailed))

	var aborted *deploy.AbortedError
	require.ErrorAs(t, err, &aborted)
	assert.Equal(t, deploy.StageValidating, aborted.Stage)

	// Nothing was written to the project
	_, err = os.Stat(filepath.Join(project, ".github"))
	assert.True(t, os.IsNotExist(err))
}

func TestRollbackLatest(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.orchestrator.Deploy(userConfig("claude"))
	require.NoError(t, err)
	link := filepath.Join(f.paths.UserHome(), ".claude", "CLAUDE.md")
	require.Contains(t, outcome.Result.DeployedFiles, link)

	rolled, err := f.orchestrator.Rollback("claude", nil)
	require.NoError(t, err)
	assert.Equal(t, "claude", rolled.AgentID)

	_, err = os.Lstat(link)
	assert.True(t, os.IsNotExist(err))

	history, err := f.orchestrator.History("claude")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRollbackRestoresBackup(t *testing.T) {
	f := newFixture(t)

	claudeDir := filepath.Join(f.paths.UserHome(), ".claude")
	require.NoError(t, os.MkdirAll(claudeDir, 0755))
	old := filepath.Join(claudeDir, "old-rules.md")
	require.NoError(t, os.WriteFile(old, []byte("old rules"), 0644))
	require.NoError(t, os.Symlink(old, filepath.Join(claudeDir, "CLAUDE.md")))

	cfg := userConfig("claude")
	cfg.Force = true
	outcome, err := f.orchestrator.Deploy(cfg)
	require.NoError(t, err)
	require.NotEmpty(t, outcome.BackupDir)

	_, err = f.orchestrator.Rollback("claude", nil)
	require.NoError(t, err)

	// The pre-deployment content is back in place
	data, err := os.ReadFile(filepath.Join(claudeDir, "CLAUDE.md"))
	require.NoError(t, err)
	assert.Equal(t, "old rules", string(data))
}

func TestRollbackWithoutHistory(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator.Rollback("claude", nil)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}

func TestRollbackByTimestamp(t *testing.T) {
	f := newFixture(t)

	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f.orchestrator.WithClock(func() time.Time { return ts })

	_, err := f.orchestrator.Deploy(userConfig("claude"))
	require.NoError(t, err)

	rolled, err := f.orchestrator.Rollback("claude", &ts)
	require.NoError(t, err)
	assert.True(t, rolled.Timestamp.Equal(ts))

	missing := ts.Add(time.Hour)
	_, err = f.orchestrator.Rollback("claude", &missing)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrNotFound))
}

func TestValidateDeployment(t *testing.T) {
	f := newFixture(t)

	report, err := f.orchestrator.ValidateDeployment(userConfig("claude"))
	require.NoError(t, err)
	assert.True(t, report.Valid)

	// Validation never writes the rules file
	_, err = os.Stat(f.paths.RulesFile())
	assert.True(t, os.IsNotExist(err))
}

func TestPreviewDeployment(t *testing.T) {
	f := newFixture(t)

	preview, err := f.orchestrator.PreviewDeployment(userConfig("claude"))
	require.NoError(t, err)
	assert.Contains(t, preview.Content, "@packs/core/core.md")
	assert.Contains(t, preview.TargetPaths, f.paths.RulesFile())
	assert.True(t, preview.Report.Valid)

	_, err = os.Stat(f.paths.RulesFile())
	assert.True(t, os.IsNotExist(err))
}

func TestStatus(t *testing.T) {
	f := newFixture(t)

	report, err := f.orchestrator.Status("claude")
	require.NoError(t, err)
	assert.Equal(t, types.StatusNotInstalled, report.Status)
	assert.Nil(t, report.LastDeploy)

	_, err = f.orchestrator.Deploy(userConfig("claude"))
	require.NoError(t, err)

	report, err = f.orchestrator.Status("claude")
	require.NoError(t, err)
	assert.Equal(t, types.StatusConfigured, report.Status)
	require.NotNil(t, report.LastDeploy)
	assert.Equal(t, []string{"core"}, report.LastDeploy.DeployedPacks)
}

func TestStatusAll(t *testing.T) {
	f := newFixture(t)

	reports, err := f.orchestrator.StatusAll()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(reports), 13)
}
