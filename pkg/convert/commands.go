package convert

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/agentsync/pkg/errors"
)

// ToClaudeCommand renders a command as markdown with YAML frontmatter,
// the format Claude reads from ~/.claude/commands.
func ToClaudeCommand(name, description, content string) string {
	return AddFrontmatter(content, map[string]string{
		"name":        name,
		"description": description,
	})
}

// ToCursorCommand renders a command as a plain markdown slash-command
// file with a descriptive header.
func ToCursorCommand(name, description, content string) string {
	return fmt.Sprintf("# /%s\n\n%s\n\n---\n\n%s", name, description, content)
}

// ToCodexPrompt renders a command as a Codex prompt file; the name
// carries the /prompts: prefix Codex expects.
func ToCodexPrompt(name, description, content string) string {
	return AddFrontmatter(content, map[string]string{
		"name":        "/prompts:" + name,
		"description": description,
	})
}

// ToGeminiCommand renders a command as the TOML structure the Gemini CLI
// loads from its commands directory.
func ToGeminiCommand(name, description, content string) (string, error) {
	return ToTOML(content, map[string]string{
		"name":        name,
		"description": description,
		"type":        "command",
	})
}

// ToAiderCommand renders a command as the YAML document Aider loads.
func ToAiderCommand(name, description, content string) (string, error) {
	return ToYAML(content, map[string]string{
		"name":        name,
		"description": description,
		"type":        "command",
	})
}

// warpWorkflow is Warp's on-disk workflow schema.
type warpWorkflow struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Steps       []warpStep `yaml:"steps"`
}

type warpStep struct {
	Command     string `yaml:"command"`
	Description string `yaml:"description,omitempty"`
}

// ToWarpWorkflow renders a command as a Warp workflow definition.
func ToWarpWorkflow(name, description, content string) (string, error) {
	workflow := warpWorkflow{
		Name:        name,
		Description: description,
		Steps: []warpStep{{
			Command:     fmt.Sprintf("# %s\n%s", description, content),
			Description: fmt.Sprintf("Execute %s command", name),
		}},
	}

	data, err := yaml.Marshal(workflow)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFormatConversion, "YAML serialization failed")
	}
	return string(data), nil
}

// ToClineCommand renders a command as the JSON structure written into
// Cline's config directory.
func ToClineCommand(name, description, content string) (string, error) {
	return ToJSON(content, map[string]interface{}{
		"name":        name,
		"description": description,
		"type":        "command",
		"metadata": map[string]string{
			"version": "1.0",
			"format":  "markdown",
		},
	})
}
