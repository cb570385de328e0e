package types

// AgentDefinition is the declarative description of a supported agent,
// loaded from the embedded agent registry file.
type AgentDefinition struct {
	// ID is the canonical lowercase agent identifier.
	ID string `toml:"id" json:"id"`

	// Name is the human-readable agent name.
	Name string `toml:"name" json:"name"`

	// ConfigPaths are the locations (relative to home) the agent reads
	// its configuration from.
	ConfigPaths []string `toml:"config_paths" json:"configPaths"`

	// RulesSupport is one of "native", "config", "manual", "none".
	RulesSupport string `toml:"rules_support" json:"rulesSupport"`

	// CommandFormat is one of "slash", "prompts-prefix", "cli",
	// "workflow", "inline".
	CommandFormat string `toml:"command_format" json:"commandFormat"`

	// Limits holds the agent's character budget.
	Limits CharacterLimits `toml:"limits" json:"characterLimits"`

	// Strategy is one of "symlink", "copy", "inline".
	Strategy string `toml:"strategy" json:"deploymentStrategy"`

	// Format is the file format the agent expects.
	Format FileFormat `toml:"format" json:"fileFormat"`

	// RequiresFrontmatter marks agents whose rules files should carry
	// YAML frontmatter.
	RequiresFrontmatter bool `toml:"requires_frontmatter" json:"requiresFrontmatter"`

	// Notes is free-form guidance shown to the user.
	Notes string `toml:"notes" json:"notes,omitempty"`
}

// CharacterLimits is the budget an agent imposes on deployed content.
type CharacterLimits struct {
	// MaxChars is the hard character ceiling, nil for unlimited.
	MaxChars *uint64 `toml:"max_chars" json:"maxChars,omitempty"`

	// SupportsOutReferences is true when the agent can follow content
	// split into referenced files.
	SupportsOutReferences bool `toml:"supports_out_references" json:"supportsOutReferences"`
}

// Limit returns the max character count, or nil when unlimited.
func (d *AgentDefinition) Limit() *uint64 {
	return d.Limits.MaxChars
}
