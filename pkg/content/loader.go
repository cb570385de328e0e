// Package content loads rule packs and custom commands from the
// agentsync home, generates the canonical AGENTS.md document, and
// validates selections against agent compatibility and budgets.
package content

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// PackFileName is the pack definition file inside each pack directory.
const PackFileName = "pack.json"

// fileSeparator joins the markdown files of a pack into one content
// blob.
const fileSeparator = "\n\n---\n\n"

// LoadedPack is a pack definition together with its assembled content
// and measured size.
type LoadedPack struct {
	types.RulePack
	Path           string
	Content        string
	WordCount      uint64
	CharacterCount uint64
}

// Loader reads packs from a packs directory, caching loaded packs
// until the cache is explicitly invalidated. Callers own the Loader;
// there is no process-wide instance.
type Loader struct {
	root string

	mu    sync.Mutex
	cache map[string]*LoadedPack
}

// NewLoader creates a Loader over the given packs directory.
func NewLoader(packsDir string) *Loader {
	return &Loader{
		root:  packsDir,
		cache: make(map[string]*LoadedPack),
	}
}

// List returns the ids of every pack directory carrying a pack.json,
// sorted. A missing packs directory yields an empty list.
func (l *Loader) List() ([]string, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.FSWrap(err, l.root, "failed to list packs")
	}

	var ids []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(l.root, entry.Name(), PackFileName)); err == nil {
			ids = append(ids, entry.Name())
		}
	}
	sort.Strings(ids)
	return ids, nil
}

// Pack returns the pack definition for id. Satisfies
// resolver.PackSource.
func (l *Loader) Pack(id string) (*types.RulePack, error) {
	loaded, err := l.Load(id)
	if err != nil {
		return nil, err
	}
	return &loaded.RulePack, nil
}

// Load returns the pack with its content assembled from its files, in
// declaration order. Results are cached until Invalidate.
func (l *Loader) Load(id string) (*LoadedPack, error) {
	l.mu.Lock()
	if cached, ok := l.cache[id]; ok {
		l.mu.Unlock()
		return cached, nil
	}
	l.mu.Unlock()

	loaded, err := l.read(id)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[id] = loaded
	l.mu.Unlock()
	return loaded, nil
}

// Invalidate drops every cached pack so the next Load re-reads from
// disk.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cache = make(map[string]*LoadedPack)
	l.mu.Unlock()
}

// InvalidatePack drops a single pack from the cache.
func (l *Loader) InvalidatePack(id string) {
	l.mu.Lock()
	delete(l.cache, id)
	l.mu.Unlock()
}

func (l *Loader) read(id string) (*LoadedPack, error) {
	logger := logging.GetLogger("content")
	packDir := filepath.Join(l.root, id)

	data, err := os.ReadFile(filepath.Join(packDir, PackFileName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Newf(errors.ErrPackNotFound, "pack not found: %s", id)
		}
		return nil, errors.FSWrap(err, packDir, "failed to read pack definition")
	}

	var pack types.RulePack
	if err := json.Unmarshal(data, &pack); err != nil {
		return nil, errors.Wrapf(err, errors.ErrPackNotFound, "failed to parse pack %q", id)
	}

	contents := make([]string, 0, len(pack.Files))
	for _, file := range pack.Files {
		path := filepath.Join(packDir, file)
		if !strings.HasPrefix(path, packDir+string(os.PathSeparator)) {
			return nil, errors.Newf(errors.ErrFileSystem, "pack file escapes pack directory: %s", file)
		}
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.FSWrap(err, path, "failed to read pack file")
		}
		contents = append(contents, string(blob))
	}

	content := strings.Join(contents, fileSeparator)
	loaded := &LoadedPack{
		RulePack:       pack,
		Path:           packDir,
		Content:        content,
		WordCount:      uint64(len(strings.Fields(content))),
		CharacterCount: uint64(len(content)),
	}

	logger.Debug().Str("pack", id).Uint64("chars", loaded.CharacterCount).Msg("loaded pack")
	return loaded, nil
}
