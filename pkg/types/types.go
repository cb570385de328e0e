package types

// Scope selects whether a deployment writes to the user-global
// configuration location or a project-local one.
type Scope string

const (
	ScopeUser    Scope = "user"
	ScopeProject Scope = "project"
)

// LinkMethod records which tier of the link fallback chain succeeded.
// It is always returned by the link creator at creation time, never
// inferred after the fact.
type LinkMethod string

const (
	// LinkSymlink is a native symbolic link.
	LinkSymlink LinkMethod = "symlink"

	// LinkJunction is a Windows directory junction.
	LinkJunction LinkMethod = "junction"

	// LinkHardlink is a hard link (files only, same volume).
	LinkHardlink LinkMethod = "hardlink"

	// LinkCopy is a plain copy, the last-resort fallback.
	LinkCopy LinkMethod = "copy"

	// LinkExisting means the destination already resolved to the source
	// and nothing was mutated.
	LinkExisting LinkMethod = "existing"
)

// FileFormat is the on-disk format a target expects its configuration in.
type FileFormat string

const (
	FormatMarkdown    FileFormat = "markdown"
	FormatFrontmatter FileFormat = "markdown-frontmatter"
	FormatTOML        FileFormat = "toml"
	FormatYAML        FileFormat = "yaml"
	FormatJSON        FileFormat = "json"
)

// AgentStatus describes the deployment state of a target agent on this
// machine.
type AgentStatus string

const (
	// StatusNotInstalled means the agent application is not present.
	StatusNotInstalled AgentStatus = "not_installed"

	// StatusInstalled means the agent is present but has no rules file.
	StatusInstalled AgentStatus = "installed"

	// StatusConfigured means the agent has a deployed rules file.
	StatusConfigured AgentStatus = "configured"

	// StatusOutdated means the deployed rules file no longer matches the
	// canonical source.
	StatusOutdated AgentStatus = "outdated"
)
