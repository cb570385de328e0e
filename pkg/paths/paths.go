// Package paths provides centralized path handling for agentsync.
// It implements XDG Base Directory specification compliance and provides
// a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/arthur-debert/agentsync/pkg/errors"
)

// Environment variable names
const (
	// EnvHome overrides the agentsync home directory
	EnvHome = "AGENTSYNC_HOME"

	// EnvStateDir overrides the XDG state directory for agentsync
	EnvStateDir = "AGENTSYNC_STATE_DIR"
)

// Directory and file names within the agentsync home.
// IMPORTANT: These constants define agentsync's on-disk layout and are
// NOT user-configurable. They must remain consistent across installations
// so that state and backups written by one version are readable by the
// next.
const (
	// HomeDirName is the dot-directory used when no XDG override applies
	HomeDirName = ".agentsync"

	// RulesFileName is the canonical generated rules document
	RulesFileName = "AGENTS.md"

	// StateFileName is the persisted deployment-state document
	StateFileName = "deployment-state.json"

	// BackupsDir holds per-agent backup trees
	BackupsDir = "backups"

	// BuildDir holds rendered per-agent command files
	BuildDir = "build"

	// PacksDir holds rule pack definitions and content
	PacksDir = "packs"

	// CommandsDir holds custom command definitions
	CommandsDir = "commands"

	// ReferencesDir holds out-of-document reference files
	ReferencesDir = "out-references"

	// LogFileName is the name of the log file
	LogFileName = "agentsync.log"
)

// Paths provides centralized path management for agentsync
type Paths interface {
	// Home is the agentsync home directory (~/.agentsync by default).
	Home() string

	// RulesFile is the canonical AGENTS.md the targets link back to.
	RulesFile() string

	// StateFile is the deployment-state document path.
	StateFile() string

	// BackupRoot is the root of the per-agent backup tree.
	BackupRoot() string

	// AgentBuildDir is the build output directory for one agent's
	// rendered files (e.g. build/claude/commands).
	AgentBuildDir(agentID string, parts ...string) string

	// PacksDir is the rule pack definitions directory.
	PacksDir() string

	// CommandsDir is the custom command definitions directory.
	CommandsDir() string

	// ReferencesDir is the out-references source directory.
	ReferencesDir() string

	// LogFile is the deployment log path.
	LogFile() string

	// UserHome is the user's home directory.
	UserHome() string
}

type paths struct {
	home     string
	userHome string
}

// New creates a Paths instance. The agentsync home is resolved from
// AGENTSYNC_HOME, falling back to ~/.agentsync.
func New() (Paths, error) {
	userHome, err := os.UserHomeDir()
	if err != nil {
		userHome = xdg.Home
	}
	if userHome == "" {
		return nil, errors.New(errors.ErrConfiguration, "cannot determine home directory")
	}

	home := os.Getenv(EnvHome)
	if home == "" {
		home = filepath.Join(userHome, HomeDirName)
	}

	return &paths{home: home, userHome: userHome}, nil
}

// NewAt creates a Paths instance rooted at an explicit home directory.
// Used by tests and by callers that manage their own layout.
func NewAt(home, userHome string) Paths {
	return &paths{home: home, userHome: userHome}
}

func (p *paths) Home() string {
	return p.home
}

func (p *paths) RulesFile() string {
	return filepath.Join(p.home, RulesFileName)
}

func (p *paths) StateFile() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return filepath.Join(dir, StateFileName)
	}
	return filepath.Join(p.home, StateFileName)
}

func (p *paths) BackupRoot() string {
	return filepath.Join(p.home, BackupsDir)
}

func (p *paths) AgentBuildDir(agentID string, parts ...string) string {
	elems := append([]string{p.home, BuildDir, agentID}, parts...)
	return filepath.Join(elems...)
}

func (p *paths) PacksDir() string {
	return filepath.Join(p.home, PacksDir)
}

func (p *paths) CommandsDir() string {
	return filepath.Join(p.home, CommandsDir)
}

func (p *paths) ReferencesDir() string {
	return filepath.Join(p.home, ReferencesDir)
}

func (p *paths) LogFile() string {
	return filepath.Join(xdg.StateHome, "agentsync", LogFileName)
}

func (p *paths) UserHome() string {
	return p.userHome
}
