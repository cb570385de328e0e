package agents

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/agentsync/pkg/budget"
	"github.com/arthur-debert/agentsync/pkg/content"
	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/link"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/paths"
	"github.com/arthur-debert/agentsync/pkg/project"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// Base carries the state and behavior shared by every adapter:
// document generation, command staging, project resolution, the
// budget check, and file-removal rollback.
type Base struct {
	def      types.AgentDefinition
	paths    paths.Paths
	gen      *content.Generator
	commands *content.CommandLoader
}

// NewBase wires a Base from the shared dependencies.
func NewBase(def types.AgentDefinition, deps Deps) Base {
	return Base{
		def:      def,
		paths:    deps.Paths,
		gen:      content.NewGenerator(deps.Packs),
		commands: deps.Commands,
	}
}

func (b *Base) AgentID() string { return b.def.ID }

func (b *Base) Definition() *types.AgentDefinition { return &b.def }

func (b *Base) CharacterLimit() *uint64 { return b.def.Limits.MaxChars }

// generateRules renders the canonical document for the selection.
// Inline mode embeds pack content directly instead of file references,
// for agents that cannot follow imports.
func (b *Base) generateRules(packIDs []string, inline bool) (string, error) {
	doc, _, err := b.gen.Generate(packIDs, content.GenerateOptions{
		IncludeMetadata: !inline,
		InlineContent:   inline,
	})
	return doc, err
}

// prepareCommands renders each selected command in this agent's format
// and stages it, registering the deployed path under commandsDir for
// backup. Commands that fail to load get a minimal fallback body so a
// stale command id does not sink the whole deployment.
func (b *Base) prepareCommands(prepared *types.PreparedDeployment, commandIDs []string, commandsDir string) {
	logger := logging.GetLogger("agents")

	for _, id := range commandIDs {
		name, rendered, err := b.loadCommand(id)
		if err != nil {
			logger.Warn().Str("agent", b.def.ID).Str("command", id).Err(err).
				Msg("falling back to stub command")
			name, rendered = b.stubCommand(id)
		}
		prepared.AddCommand(name, rendered)
		prepared.AddTargetPath(filepath.Join(commandsDir, name))
	}

	if len(commandIDs) > 0 {
		prepared.AddTargetPath(commandsDir)
	}
}

func (b *Base) loadCommand(id string) (string, string, error) {
	cmd, err := b.commands.Load(id)
	if err != nil {
		return "", "", err
	}
	if !cmd.SupportsAgent(b.def.ID) {
		return "", "", errors.Newf(errors.ErrCommandInvalid,
			"command %q is not compatible with agent %q", id, b.def.ID)
	}
	return content.FormatFor(cmd, b.def.ID)
}

func (b *Base) stubCommand(id string) (string, string) {
	stub := &content.LoadedCommand{Content: "Execute this command to perform the specified action."}
	stub.ID = id
	stub.Description = "Custom command: " + id
	name, rendered, err := content.FormatFor(stub, b.def.ID)
	if err != nil {
		return id + ".md", stub.Content
	}
	return name, rendered
}

// writeRulesFile writes the canonical document into the agentsync home
// and returns its path. Every deploy refreshes this file first; the
// per-agent links all resolve back to it.
func (b *Base) writeRulesFile(doc string) (string, error) {
	if err := os.MkdirAll(b.paths.Home(), 0755); err != nil {
		return "", errors.FSWrap(err, b.paths.Home(), "failed to create agentsync home")
	}
	rulesFile := b.paths.RulesFile()
	if err := os.WriteFile(rulesFile, []byte(doc), 0644); err != nil {
		return "", errors.FSWrap(err, rulesFile, "failed to write rules file")
	}
	return rulesFile, nil
}

// resolveProjectPath returns the project root for a project-scope run,
// either the configured path (validated) or the detected one.
func (b *Base) resolveProjectPath(cfg *types.DeploymentConfig) (string, error) {
	if cfg.ProjectPath != "" {
		if _, err := os.Stat(cfg.ProjectPath); err != nil {
			return "", errors.Newf(errors.ErrConfiguration,
				"project path does not exist: %s", cfg.ProjectPath)
		}
		if !project.IsValidRoot(cfg.ProjectPath) {
			return "", errors.Newf(errors.ErrConfiguration,
				"path is not a valid project root: %s", cfg.ProjectPath)
		}
		return cfg.ProjectPath, nil
	}
	root := project.DetectRoot()
	if root == "" {
		return "", errors.New(errors.ErrConfiguration,
			"no project path provided and no project root detected")
	}
	return root, nil
}

// deployLink creates a link at destination pointing back at source and
// records it in the result.
func (b *Base) deployLink(result *types.DeployResult, destination, source string, force bool) error {
	if parent := filepath.Dir(destination); parent != "" {
		if err := os.MkdirAll(parent, 0755); err != nil {
			return errors.FSWrap(err, parent, "failed to create directory")
		}
	}
	method, warning, err := link.CreateLink(destination, source, force)
	if err != nil {
		return err
	}
	result.Method = method
	result.DeployedFiles = append(result.DeployedFiles, destination)
	if warning != "" {
		result.Warnings = append(result.Warnings, warning)
	}
	return nil
}

// deployCommands writes staged command files into the agent build
// directory and links them into commandsDir.
func (b *Base) deployCommands(result *types.DeployResult, prepared *types.PreparedDeployment, commandsDir string, force bool, buildParts ...string) error {
	if len(prepared.Commands) == 0 {
		return nil
	}

	buildDir := b.paths.AgentBuildDir(b.def.ID, buildParts...)
	if err := os.MkdirAll(buildDir, 0755); err != nil {
		return errors.FSWrap(err, buildDir, "failed to create build directory")
	}
	if err := os.MkdirAll(commandsDir, 0755); err != nil {
		return errors.FSWrap(err, commandsDir, "failed to create commands directory")
	}

	for name, rendered := range prepared.Commands {
		buildPath := filepath.Join(buildDir, name)
		if err := os.WriteFile(buildPath, []byte(rendered), 0644); err != nil {
			return errors.FSWrap(err, buildPath, "failed to write command")
		}
		if err := b.deployLink(result, filepath.Join(commandsDir, name), buildPath, force); err != nil {
			return err
		}
	}
	return nil
}

// removeCreatedFiles is the shared rollback: every file or symlink the
// deployment created is removed, directories are left alone.
func (b *Base) removeCreatedFiles(state *types.DeploymentState) error {
	for _, path := range state.FilesCreated {
		info, err := os.Lstat(path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return errors.Wrapf(err, errors.ErrRollbackFailed, "failed to inspect %s", path)
		}
		if info.IsDir() {
			continue
		}
		if err := os.Remove(path); err != nil {
			return errors.Wrapf(err, errors.ErrRollbackFailed, "failed to remove %s", path)
		}
	}
	return nil
}

// budgetReport runs the shared character-budget check and converts it
// into a validation report.
func (b *Base) budgetReport(prepared *types.PreparedDeployment) *types.ValidationReport {
	res := budget.EvaluateCount(prepared.CharCount, b.def.Limits.MaxChars)
	if !res.Valid {
		return types.ValidationFailure(res.Errors, res.Usage)
	}
	return types.ValidationSuccess(res.Usage).WithWarnings(res.Warnings...)
}

// dirStatus classifies an agent by the presence of its config dir and
// a marker path inside it.
func dirStatus(configDir, marker string) types.AgentStatus {
	if _, err := os.Stat(configDir); err != nil {
		return types.StatusNotInstalled
	}
	if marker != "" {
		if _, err := os.Lstat(marker); err == nil {
			return types.StatusConfigured
		}
	}
	return types.StatusInstalled
}

// dirHasEntries reports whether dir exists and is non-empty.
func dirHasEntries(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

func userPath(home string, parts ...string) string {
	return filepath.Join(append([]string{home}, parts...)...)
}
