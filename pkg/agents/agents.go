// Package agents defines the adapter contract every supported agent
// implements and the concrete adapters for each one. An adapter knows
// where its agent reads configuration from, what format it expects,
// and how to stage, validate, write, and undo a deployment there. The
// orchestrator in pkg/deploy drives adapters through that life cycle
// and owns backups and state; adapters only touch their own files.
package agents

import (
	"github.com/arthur-debert/agentsync/pkg/content"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Adapter is the per-agent deployment contract.
type Adapter interface {
	// AgentID is the canonical lowercase agent identifier.
	AgentID() string

	// Definition returns the agent's registry entry.
	Definition() *types.AgentDefinition

	// Prepare stages everything the deployment will write: the rendered
	// rules document, command files, config files, and the full list of
	// target paths. Prepare must not touch the filesystem outside the
	// build directory.
	Prepare(cfg *types.DeploymentConfig) (*types.PreparedDeployment, error)

	// Validate checks the prepared deployment against the agent's
	// character budget and format constraints.
	Validate(prepared *types.PreparedDeployment) (*types.ValidationReport, error)

	// Deploy writes the prepared deployment to the agent's locations.
	Deploy(prepared *types.PreparedDeployment, cfg *types.DeploymentConfig) (*types.DeployResult, error)

	// Rollback removes the files a recorded deployment created.
	Rollback(state *types.DeploymentState) error

	// Status reports whether the agent is installed and configured.
	Status() (types.AgentStatus, error)

	// SupportsProjectScope reports whether project-level deployment is
	// available for this agent.
	SupportsProjectScope() bool

	// SupportsUserScope reports whether user-level deployment is
	// available for this agent.
	SupportsUserScope() bool

	// CharacterLimit is the agent's character ceiling, nil when
	// unlimited.
	CharacterLimit() *uint64
}

// Deps carries the shared collaborators adapters are built with.
type Deps struct {
	Paths    paths.Paths
	Packs    *content.Loader
	Commands *content.CommandLoader
}
