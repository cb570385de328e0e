package paths_test

import (
	"path/filepath"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv(paths.EnvHome, "")
	t.Setenv(paths.EnvStateDir, "")

	p, err := paths.New()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(home, ".agentsync"), p.Home())
	assert.Equal(t, filepath.Join(home, ".agentsync", "AGENTS.md"), p.RulesFile())
	assert.Equal(t, filepath.Join(home, ".agentsync", "deployment-state.json"), p.StateFile())
	assert.Equal(t, filepath.Join(home, ".agentsync", "backups"), p.BackupRoot())
}

func TestHomeOverride(t *testing.T) {
	override := t.TempDir()
	t.Setenv(paths.EnvHome, override)
	t.Setenv(paths.EnvStateDir, "")

	p, err := paths.New()
	require.NoError(t, err)

	assert.Equal(t, override, p.Home())
	assert.Equal(t, filepath.Join(override, "packs"), p.PacksDir())
	assert.Equal(t, filepath.Join(override, "commands"), p.CommandsDir())
	assert.Equal(t, filepath.Join(override, "out-references"), p.ReferencesDir())
}

func TestStateDirOverride(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv(paths.EnvHome, t.TempDir())
	t.Setenv(paths.EnvStateDir, stateDir)

	p, err := paths.New()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(stateDir, "deployment-state.json"), p.StateFile())
}

func TestAgentBuildDir(t *testing.T) {
	p := paths.NewAt("/data/agentsync", "/home/user")

	assert.Equal(t,
		filepath.Join("/data/agentsync", "build", "claude", "commands"),
		p.AgentBuildDir("claude", "commands"))
	assert.Equal(t,
		filepath.Join("/data/agentsync", "build", "warp"),
		p.AgentBuildDir("warp"))
}
