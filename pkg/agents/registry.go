package agents

import (
	_ "embed"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/registry"
	"github.com/arthur-debert/agentsync/pkg/types"
)

//go:embed embedded/agents.toml
var agentsTOML []byte

type registryFile struct {
	Agents []types.AgentDefinition `toml:"agents"`
}

// LoadDefinitions parses the embedded agent registry.
func LoadDefinitions() ([]types.AgentDefinition, error) {
	return parseDefinitions(agentsTOML)
}

// LoadDefinitionsFrom parses agent definitions from an external TOML
// file, replacing the embedded registry.
func LoadDefinitionsFrom(path string) ([]types.AgentDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FSWrap(err, path, "failed to read agent registry")
	}
	return parseDefinitions(data)
}

func parseDefinitions(data []byte) ([]types.AgentDefinition, error) {
	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfiguration, "failed to parse agent registry")
	}
	return file.Agents, nil
}

// NewRegistry builds the adapter registry: one adapter per agent in
// the embedded definitions, keyed by agent id. Agents without a
// dedicated adapter get the placeholder.
func NewRegistry(deps Deps) (*registry.Registry[Adapter], error) {
	defs, err := LoadDefinitions()
	if err != nil {
		return nil, err
	}
	return NewRegistryWith(defs, deps)
}

// NewRegistryWith builds the adapter registry from explicit
// definitions, e.g. a user-supplied registry file.
func NewRegistryWith(defs []types.AgentDefinition, deps Deps) (*registry.Registry[Adapter], error) {
	reg := registry.New[Adapter]()
	for i := range defs {
		def := defs[i]
		adapter := adapterFor(def, deps)
		if err := reg.Register(adapter.AgentID(), adapter); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

func adapterFor(def types.AgentDefinition, deps Deps) Adapter {
	switch def.ID {
	case "cursor":
		return NewCursor(def, deps)
	case "claude":
		return NewClaude(def, deps)
	case "copilot":
		return NewCopilot(def, deps)
	case "gemini":
		return NewGemini(def, deps)
	case "antigravity":
		return NewAntigravity(def, deps)
	case "codex":
		return NewCodex(def, deps)
	case "cline":
		return NewCline(def, deps)
	case "warp":
		return NewWarp(def, deps)
	case "aider":
		return NewAider(def, deps)
	case "azuredevops":
		return NewAzureDevOps(def, deps)
	default:
		return NewPlaceholder(def, deps)
	}
}
