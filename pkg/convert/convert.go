// Package convert renders the canonical markdown content into the file
// formats the individual agents expect: markdown with YAML frontmatter,
// TOML, YAML, and JSON.
package convert

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/agentsync/pkg/errors"
)

// AddFrontmatter prepends a YAML frontmatter block to markdown content.
// Keys are emitted in sorted order so output is deterministic.
func AddFrontmatter(content string, frontmatter map[string]string) string {
	var b strings.Builder
	b.WriteString("---\n")
	for _, key := range sortedKeys(frontmatter) {
		b.WriteString(fmt.Sprintf("%s: %q\n", key, frontmatter[key]))
	}
	b.WriteString("---\n\n")
	b.WriteString(content)
	return b.String()
}

// HasFrontmatter reports whether content starts with a YAML frontmatter
// block.
func HasFrontmatter(content string) bool {
	return strings.HasPrefix(content, "---\n") && strings.Contains(content[4:], "\n---")
}

// ParseFrontmatter splits content into its frontmatter map and the
// remaining body. Content without frontmatter returns a nil map and the
// input unchanged.
func ParseFrontmatter(content string) (map[string]string, string) {
	if !strings.HasPrefix(content, "---\n") {
		return nil, content
	}

	end := strings.Index(content[4:], "\n---")
	if end < 0 {
		return nil, content
	}

	block := content[4 : 4+end]
	body := strings.TrimLeft(content[4+end+4:], "\n")

	frontmatter := make(map[string]string)
	if err := yaml.Unmarshal([]byte(block), &frontmatter); err != nil {
		// Fall back to treating it as opaque text; malformed frontmatter
		// is a validation concern, not a parse hard-stop.
		return nil, content
	}
	return frontmatter, body
}

// tomlDocument is the shape written for TOML-consuming agents.
type tomlDocument struct {
	Name        string `toml:"name,omitempty"`
	Description string `toml:"description,omitempty"`
	Type        string `toml:"type,omitempty"`
	Content     string `toml:"content"`
}

// ToTOML wraps markdown content in a TOML document with optional
// metadata fields.
func ToTOML(content string, meta map[string]string) (string, error) {
	doc := tomlDocument{
		Name:        meta["name"],
		Description: meta["description"],
		Type:        meta["type"],
		Content:     content,
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFormatConversion, "TOML serialization failed")
	}
	return string(data), nil
}

// yamlDocument is the shape written for YAML-consuming agents.
type yamlDocument struct {
	Name        string `yaml:"name,omitempty"`
	Description string `yaml:"description,omitempty"`
	Type        string `yaml:"type,omitempty"`
	Content     string `yaml:"content"`
}

// ToYAML wraps markdown content in a YAML document with optional
// metadata fields.
func ToYAML(content string, meta map[string]string) (string, error) {
	doc := yamlDocument{
		Name:        meta["name"],
		Description: meta["description"],
		Type:        meta["type"],
		Content:     content,
	}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFormatConversion, "YAML serialization failed")
	}
	return string(data), nil
}

// ToJSON wraps markdown content in a JSON object alongside the given
// metadata values.
func ToJSON(content string, meta map[string]interface{}) (string, error) {
	obj := make(map[string]interface{}, len(meta)+1)
	for k, v := range meta {
		obj[k] = v
	}
	obj["content"] = content

	data, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrFormatConversion, "JSON serialization failed")
	}
	return string(data), nil
}

// ValidateTOML checks content parses as TOML.
func ValidateTOML(content string) error {
	var v interface{}
	if err := toml.Unmarshal([]byte(content), &v); err != nil {
		return errors.Wrap(err, errors.ErrFormatConversion, "invalid TOML")
	}
	return nil
}

// ValidateYAML checks content parses as YAML.
func ValidateYAML(content string) error {
	var v interface{}
	if err := yaml.Unmarshal([]byte(content), &v); err != nil {
		return errors.Wrap(err, errors.ErrFormatConversion, "invalid YAML")
	}
	return nil
}

// ValidateJSON checks content parses as JSON.
func ValidateJSON(content string) error {
	var v interface{}
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return errors.Wrap(err, errors.ErrFormatConversion, "invalid JSON")
	}
	return nil
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
