package link_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/link"
	"github.com/arthur-debert/agentsync/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestCreateLinkSymlink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "source", "AGENTS.md")
	dest := filepath.Join(dir, "dest", "CLAUDE.md")
	writeFile(t, source, "rules")

	method, warning, err := link.CreateLink(dest, source, false)
	require.NoError(t, err)
	assert.Equal(t, types.LinkSymlink, method)
	assert.Empty(t, warning)

	// Content is reachable through the link.
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "rules", string(got))
}

func TestCreateLinkParentDirsCreated(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "AGENTS.md")
	dest := filepath.Join(dir, "a", "b", "c", "AGENTS.md")
	writeFile(t, source, "x")

	method, _, err := link.CreateLink(dest, source, false)
	require.NoError(t, err)
	assert.Equal(t, types.LinkSymlink, method)
}

func TestCreateLinkIdempotent(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "AGENTS.md")
	dest := filepath.Join(dir, "CLAUDE.md")
	writeFile(t, source, "x")

	_, _, err := link.CreateLink(dest, source, false)
	require.NoError(t, err)

	// Re-linking the same source is a no-op, even without force.
	method, warning, err := link.CreateLink(dest, source, false)
	require.NoError(t, err)
	assert.Equal(t, types.LinkExisting, method)
	assert.Empty(t, warning)
}

func TestCreateLinkExistingHardlink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "AGENTS.md")
	dest := filepath.Join(dir, "hardlinked.md")
	writeFile(t, source, "x")
	require.NoError(t, os.Link(source, dest))

	// File identity catches hard links as "already points at source".
	method, _, err := link.CreateLink(dest, source, false)
	require.NoError(t, err)
	assert.Equal(t, types.LinkExisting, method)
}

func TestCreateLinkConflictWithoutForce(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "AGENTS.md")
	other := filepath.Join(dir, "other.md")
	dest := filepath.Join(dir, "CLAUDE.md")
	writeFile(t, source, "x")
	writeFile(t, other, "y")
	require.NoError(t, os.Symlink(other, dest))

	_, _, err := link.CreateLink(dest, source, false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrLinkExists))
}

func TestCreateLinkForceReplacesSymlink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "AGENTS.md")
	other := filepath.Join(dir, "other.md")
	dest := filepath.Join(dir, "CLAUDE.md")
	writeFile(t, source, "new")
	writeFile(t, other, "old")
	require.NoError(t, os.Symlink(other, dest))

	method, _, err := link.CreateLink(dest, source, true)
	require.NoError(t, err)
	assert.Equal(t, types.LinkSymlink, method)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(got))
}

func TestCreateLinkForceNeverDeletesPlainFile(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "AGENTS.md")
	dest := filepath.Join(dir, "CLAUDE.md")
	writeFile(t, source, "new")
	writeFile(t, dest, "precious user data")

	_, _, err := link.CreateLink(dest, source, true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrWouldOverwrite))

	// The existing file is untouched.
	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "precious user data", string(got))
}

func TestCreateLinkForceNeverDeletesDirectory(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "srcdir")
	dest := filepath.Join(dir, "destdir")
	require.NoError(t, os.MkdirAll(source, 0755))
	require.NoError(t, os.MkdirAll(dest, 0755))
	writeFile(t, filepath.Join(dest, "keep.txt"), "keep")

	_, _, err := link.CreateLink(dest, source, true)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrWouldOverwrite))
	assert.FileExists(t, filepath.Join(dest, "keep.txt"))
}

func TestCreateLinkMissingSource(t *testing.T) {
	dir := t.TempDir()

	_, _, err := link.CreateLink(filepath.Join(dir, "dest"), filepath.Join(dir, "missing"), false)
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrSourceNotFound))
}

func TestCreateLinkDirectory(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "refs")
	dest := filepath.Join(dir, ".claude", "references")
	writeFile(t, filepath.Join(source, "api.md"), "api docs")

	method, _, err := link.CreateLink(dest, source, false)
	require.NoError(t, err)
	assert.Equal(t, types.LinkSymlink, method)
	assert.FileExists(t, filepath.Join(dest, "api.md"))
}

func TestRemoveLink(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "AGENTS.md")
	dest := filepath.Join(dir, "CLAUDE.md")
	writeFile(t, source, "x")

	// Absent path is a no-op.
	require.NoError(t, link.RemoveLink(dest))

	_, _, err := link.CreateLink(dest, source, false)
	require.NoError(t, err)
	require.NoError(t, link.RemoveLink(dest))

	_, err = os.Lstat(dest)
	assert.True(t, os.IsNotExist(err))

	// The source survives link removal.
	assert.FileExists(t, source)
}

func TestRemoveLinkCopiedDirectory(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "copied")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "nested"), 0755))
	writeFile(t, filepath.Join(target, "nested", "f.txt"), "x")

	require.NoError(t, link.RemoveLink(target))
	_, err := os.Stat(target)
	assert.True(t, os.IsNotExist(err))
}

func TestCheckSymlinkSupport(t *testing.T) {
	ok, msg := link.CheckSymlinkSupport()
	assert.True(t, ok)
	assert.NotEmpty(t, msg)
}
