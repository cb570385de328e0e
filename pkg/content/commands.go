package content

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/agentsync/pkg/convert"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// LoadedCommand is a command definition together with its body text,
// stripped of frontmatter.
type LoadedCommand struct {
	types.Command
	Content string
}

// CommandLoader reads custom commands from a directory of markdown
// files carrying YAML frontmatter. Like the pack Loader, the cache is
// explicit and owned by the caller.
type CommandLoader struct {
	root string

	mu    sync.Mutex
	cache map[string]*LoadedCommand
}

// NewCommandLoader creates a CommandLoader over the given directory.
func NewCommandLoader(commandsDir string) *CommandLoader {
	return &CommandLoader{
		root:  commandsDir,
		cache: make(map[string]*LoadedCommand),
	}
}

// List returns the ids of every command file, sorted. A missing
// commands directory yields an empty list.
func (l *CommandLoader) List() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.FSWrap(err, l.root, "failed to list commands")
	}

	var ids []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(entry.Name(), ".md"))
	}
	sort.Strings(ids)
	return ids, nil
}

// Load returns one command by id, cached until Invalidate.
func (l *CommandLoader) Load(id string) (*LoadedCommand, error) {
	l.mu.Lock()
	if cached, ok := l.cache[id]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	path := filepath.Join(l.root, id+".md")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrCommandInvalid, "command not found: %s", id)
		}
		return nil, errors.FSWrap(err, path, "failed to read command")
	}

	meta, body := convert.ParseFrontmatter(string(data))
	cmd := &LoadedCommand{
		Command: types.Command{
			ID:          id,
			Description: meta["description"],
			File:        id + ".md",
		},
		Content: strings.TrimSpace(body),
	}
	if agents := meta["agents"]; agents != "" {
		for _, a := range strings.Split(agents, ",") {
			if a = strings.TrimSpace(a); a != "" {
				cmd.Agents = append(cmd.Agents, a)
			}
		}
	}

	l.mu.Lock()
	l.cache[id] = cmd
	l.mu.Unlock()
	return cmd, nil
}

// Invalidate drops every cached command.
func (l *CommandLoader) Invalidate() {
	l.mu.Lock()
	l.cache = make(map[string]*LoadedCommand)
	l.mu.Unlock()
}

// FormatFor renders a loaded command in the format the given agent
// consumes, returning the deployed file name and its content.
func FormatFor(cmd *LoadedCommand, agentID string) (string, string, error) {
	switch strings.ToLower(agentID) {
	case "cursor":
		return cmd.ID + ".md", convert.ToCursorCommand(cmd.ID, cmd.Description, cmd.Content), nil
	case "claude":
		return cmd.ID + ".md", convert.ToClaudeCommand(cmd.ID, cmd.Description, cmd.Content), nil
	case "codex":
		return cmd.ID + ".md", convert.ToCodexPrompt(cmd.ID, cmd.Description, cmd.Content), nil
	case "gemini", "antigravity":
		out, err := convert.ToGeminiCommand(cmd.ID, cmd.Description, cmd.Content)
		return cmd.ID + ".toml", out, err
	case "aider":
		out, err := convert.ToAiderCommand(cmd.ID, cmd.Description, cmd.Content)
		return cmd.ID + ".yaml", out, err
	case "warp":
		out, err := convert.ToWarpWorkflow(cmd.ID, cmd.Description, cmd.Content)
		return cmd.ID + ".yaml", out, err
	case "cline":
		out, err := convert.ToClineCommand(cmd.ID, cmd.Description, cmd.Content)
		return cmd.ID + ".json", out, err
	default:
		return "", "", errors.Newf(errors.ErrCommandInvalid,
			"agent %q does not support custom commands", agentID)
	}
}
