// Test Type: Unit Test
// Description: Tests for pack loading, caching, document generation,
// and selection validation

package content_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/agentsync/pkg/content"
	"github.com/arthur-debert/agentsync/pkg/types"
)

func writePack(t *testing.T, root string, pack types.RulePack, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, pack.ID)
	require.NoError(t, os.MkdirAll(dir, 0755))

	data, err := json.Marshal(pack)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, content.PackFileName), data, 0644))

	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0644))
	}
}

func TestLoader_Load(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{
		ID:    "core",
		Name:  "Core Rules",
		Files: []string{"a.md", "b.md"},
	}, map[string]string{
		"a.md": "rule one",
		"b.md": "rule two",
	})

	loader := content.NewLoader(root)
	pack, err := loader.Load("core")
	require.NoError(t, err)

	assert.Equal(t, "rule one\n\n---\n\nrule two", pack.Content)
	assert.Equal(t, uint64(4), pack.WordCount)
	assert.Equal(t, uint64(len(pack.Content)), pack.CharacterCount)
}

func TestLoader_MissingPack(t *testing.T) {
	loader := content.NewLoader(t.TempDir())
	_, err := loader.Load("ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pack not found")
}

func TestLoader_CacheAndInvalidate(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{ID: "core", Files: []string{"a.md"}},
		map[string]string{"a.md": "before"})

	loader := content.NewLoader(root)
	pack, err := loader.Load("core")
	require.NoError(t, err)
	assert.Equal(t, "before", pack.Content)

	// Change on disk; the cached copy must survive until invalidation.
	require.NoError(t, os.WriteFile(filepath.Join(root, "core", "a.md"), []byte("after"), 0644))

	pack, err = loader.Load("core")
	require.NoError(t, err)
	assert.Equal(t, "before", pack.Content)

	loader.Invalidate()
	pack, err = loader.Load("core")
	require.NoError(t, err)
	assert.Equal(t, "after", pack.Content)
}

func TestLoader_List(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{ID: "zeta", Files: []string{"a.md"}},
		map[string]string{"a.md": "z"})
	writePack(t, root, types.RulePack{ID: "alpha", Files: []string{"a.md"}},
		map[string]string{"a.md": "a"})
	// A directory without pack.json is not a pack
	require.NoError(t, os.MkdirAll(filepath.Join(root, "not-a-pack"), 0755))

	loader := content.NewLoader(root)
	ids, err := loader.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "zeta"}, ids)
}

func TestGenerator_Generate(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{
		ID: "base", Name: "Base", Description: "foundations", Files: []string{"base.md"},
	}, map[string]string{"base.md": "base rules"})
	writePack(t, root, types.RulePack{
		ID: "git", Name: "Git", Description: "git workflow",
		Dependencies: []string{"base"}, Files: []string{"git.md"},
	}, map[string]string{"git.md": "git rules"})

	gen := content.NewGenerator(content.NewLoader(root))
	doc, info, err := gen.Generate([]string{"git"}, content.DefaultGenerateOptions())
	require.NoError(t, err)

	// Dependency order: base content is referenced before git
	baseIdx := strings.Index(doc, "@packs/base/base.md")
	gitIdx := strings.Index(doc, "@packs/git/git.md")
	require.GreaterOrEqual(t, baseIdx, 0)
	require.GreaterOrEqual(t, gitIdx, 0)
	assert.Less(t, baseIdx, gitIdx)

	assert.Contains(t, doc, "## Active Rule Packs")
	assert.Contains(t, doc, "- **Base** (`packs/base/`) — foundations")
	assert.Contains(t, doc, "## Configuration")
	assert.Equal(t, uint64(len("base rules")+len("git rules")), info.TotalChars)
}

func TestGenerator_InlineContent(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{
		ID: "base", Name: "Base", Version: "1.0.0", Files: []string{"base.md"},
	}, map[string]string{"base.md": "base rules"})

	gen := content.NewGenerator(content.NewLoader(root))
	doc, _, err := gen.Generate([]string{"base"},
		content.GenerateOptions{InlineContent: true})
	require.NoError(t, err)

	assert.Contains(t, doc, "<!-- Pack: base v1.0.0 -->")
	assert.Contains(t, doc, "base rules")
	assert.NotContains(t, doc, "@packs/")
	assert.NotContains(t, doc, "## Configuration")
}

func TestValidator_ValidatePack(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{
		ID: "broken", Files: []string{"present.md"},
		Dependencies: []string{"missing-dep"},
	}, map[string]string{"present.md": "ok"})

	v := content.NewValidator(content.NewLoader(root))
	report := v.ValidatePack("broken")
	assert.False(t, report.Valid)
	require.Len(t, report.Errors, 1)
	assert.Contains(t, report.Errors[0], "dependency not found: missing-dep")
}

func TestValidator_ValidateSelection(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{
		ID: "universal", Files: []string{"u.md"},
	}, map[string]string{"u.md": strings.Repeat("x", 90)})
	writePack(t, root, types.RulePack{
		ID: "cursor-only", TargetAgents: []string{"cursor"}, Files: []string{"c.md"},
	}, map[string]string{"c.md": "cursor rules"})

	v := content.NewValidator(content.NewLoader(root))

	t.Run("incompatible_agent_fails", func(t *testing.T) {
		report, err := v.ValidateSelection([]string{"cursor-only"}, "claude", nil)
		require.NoError(t, err)
		assert.False(t, report.Valid)
		assert.Contains(t, report.Errors[0], `does not target agent "claude"`)
	})

	t.Run("over_limit_fails", func(t *testing.T) {
		limit := uint64(50)
		report, err := v.ValidateSelection([]string{"universal"}, "copilot", &limit)
		require.NoError(t, err)
		assert.False(t, report.Valid)
		assert.Contains(t, report.Errors[0], "exceeds copilot character limit")
	})

	t.Run("near_limit_warns", func(t *testing.T) {
		limit := uint64(100)
		report, err := v.ValidateSelection([]string{"universal"}, "copilot", &limit)
		require.NoError(t, err)
		assert.True(t, report.Valid)
		require.Len(t, report.Warnings, 1)
		assert.Contains(t, report.Warnings[0], "90.0% of copilot character limit")
	})

	t.Run("unlimited_passes", func(t *testing.T) {
		report, err := v.ValidateSelection([]string{"universal"}, "cursor", nil)
		require.NoError(t, err)
		assert.True(t, report.Valid)
		assert.Empty(t, report.Warnings)
	})
}

func TestValidator_SelectionCycle(t *testing.T) {
	root := t.TempDir()
	writePack(t, root, types.RulePack{
		ID: "a", Dependencies: []string{"b"}, Files: []string{"a.md"},
	}, map[string]string{"a.md": "a"})
	writePack(t, root, types.RulePack{
		ID: "b", Dependencies: []string{"a"}, Files: []string{"b.md"},
	}, map[string]string{"b.md": "b"})

	v := content.NewValidator(content.NewLoader(root))
	report, err := v.ValidateSelection([]string{"a"}, "claude", nil)
	require.NoError(t, err)
	assert.False(t, report.Valid)
	assert.Contains(t, report.Errors[0], "circular dependency detected")
}
