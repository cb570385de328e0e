package types

// RulePack is a named, independently addressable piece of rules content
// with declared dependencies on other packs.
type RulePack struct {
	ID           string       `toml:"id" json:"id"`
	Name         string       `toml:"name" json:"name"`
	Version      string       `toml:"version" json:"version"`
	Description  string       `toml:"description" json:"description"`
	Dependencies []string     `toml:"dependencies" json:"dependencies"`
	TargetAgents []string     `toml:"target_agents" json:"targetAgents"`
	Files        []string     `toml:"files" json:"files"`
	Metadata     PackMetadata `toml:"metadata" json:"metadata"`
}

// PackMetadata carries the pack's declared size and classification.
type PackMetadata struct {
	WordCount      uint64   `toml:"word_count" json:"wordCount"`
	CharacterCount uint64   `toml:"character_count" json:"characterCount"`
	Category       string   `toml:"category" json:"category"`
	Tags           []string `toml:"tags" json:"tags"`
}

// SupportsAgent reports whether the pack targets the given agent. An
// empty TargetAgents list means the pack is universal.
func (p *RulePack) SupportsAgent(agentID string) bool {
	if len(p.TargetAgents) == 0 {
		return true
	}
	for _, id := range p.TargetAgents {
		if id == agentID || id == "*" {
			return true
		}
	}
	return false
}

// Command is a custom command deployable alongside the rules document.
type Command struct {
	ID          string   `toml:"id" json:"id"`
	Description string   `toml:"description" json:"description"`
	File        string   `toml:"file" json:"file"`
	Agents      []string `toml:"agents" json:"agents"`
}

// SupportsAgent reports whether the command can be deployed to the given
// agent. An empty Agents list means any agent.
func (c *Command) SupportsAgent(agentID string) bool {
	if len(c.Agents) == 0 {
		return true
	}
	for _, id := range c.Agents {
		if id == agentID || id == "*" {
			return true
		}
	}
	return false
}
