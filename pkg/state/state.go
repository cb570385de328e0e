// Package state persists the bounded per-agent deployment history used
// for status and rollback queries.
package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/arthur-debert/agentsync/pkg/errors"
	"github.com/arthur-debert/agentsync/pkg/logging"
	"github.com/arthur-debert/agentsync/pkg/types"
)

// MaxHistory is the default bound on retained deployments per agent;
// the oldest entries are evicted first. Overridable via WithLimit.
const MaxHistory = 10

// documentVersion tags the on-disk state format.
const documentVersion = "1.0"

// document is the single versioned state file: a map from agent id to an
// ordered deployment list, newest last.
type document struct {
	Version     string                             `json:"version"`
	Deployments map[string][]types.DeploymentState `json:"deployments"`
}

func newDocument() *document {
	return &document{
		Version:     documentVersion,
		Deployments: make(map[string][]types.DeploymentState),
	}
}

// Store reads and writes the deployment-state document. All mutations
// are serialized through a mutex: the document is rewritten whole on
// every change, so concurrent writers would otherwise lose updates.
type Store struct {
	mu    sync.Mutex
	path  string
	limit int
}

// New creates a Store persisting at the given file path.
func New(path string) *Store {
	return &Store{path: path, limit: MaxHistory}
}

// WithLimit overrides the per-agent history bound. Values below 1 are
// ignored.
func (s *Store) WithLimit(n int) *Store {
	if n > 0 {
		s.limit = n
	}
	return s
}

// Path returns the state file location.
func (s *Store) Path() string {
	return s.path
}

// Record appends a deployment to the agent's history, evicting the
// oldest entries beyond MaxHistory, and persists the document.
func (s *Store) Record(state types.DeploymentState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	history := append(doc.Deployments[state.AgentID], state)
	if len(history) > s.limit {
		history = history[len(history)-s.limit:]
	}
	doc.Deployments[state.AgentID] = history

	return s.save(doc)
}

// Latest returns the most recent deployment for an agent, or nil when
// none is recorded.
func (s *Store) Latest(agentID string) (*types.DeploymentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	history := doc.Deployments[agentID]
	if len(history) == 0 {
		return nil, nil
	}
	latest := history[len(history)-1]
	return &latest, nil
}

// History returns all recorded deployments for an agent, oldest first.
// A missing document or unknown agent yields an empty slice.
func (s *Store) History(agentID string) ([]types.DeploymentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}
	return doc.Deployments[agentID], nil
}

// RemoveLatest pops the most recent deployment for an agent and persists
// the change. It returns the removed entry, or nil when there was none.
func (s *Store) RemoveLatest(agentID string) (*types.DeploymentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	history := doc.Deployments[agentID]
	if len(history) == 0 {
		return nil, nil
	}

	removed := history[len(history)-1]
	doc.Deployments[agentID] = history[:len(history)-1]

	if err := s.save(doc); err != nil {
		return nil, err
	}
	return &removed, nil
}

// FindByTimestamp returns the deployment recorded at exactly ts, or nil
// when no entry matches.
func (s *Store) FindByTimestamp(agentID string, ts time.Time) (*types.DeploymentState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, state := range doc.Deployments[agentID] {
		if state.Timestamp.Equal(ts) {
			found := state
			return &found, nil
		}
	}
	return nil, nil
}

// Clear drops all recorded history for an agent.
func (s *Store) Clear(agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.load()
	if err != nil {
		return err
	}

	delete(doc.Deployments, agentID)
	return s.save(doc)
}

// load reads the document; a missing file is an empty document, not an
// error.
func (s *Store) load() (*document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return newDocument(), nil
		}
		return nil, errors.Wrapf(err, errors.ErrState, "failed to read state file %s", s.path)
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, errors.ErrState, "failed to parse state file %s", s.path)
	}
	if doc.Deployments == nil {
		doc.Deployments = make(map[string][]types.DeploymentState)
	}
	return &doc, nil
}

func (s *Store) save(doc *document) error {
	logger := logging.GetLogger("state")

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return errors.FSWrap(err, s.path, "failed to create state directory")
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, errors.ErrState, "failed to serialize state")
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.FSWrap(err, s.path, "failed to write state file")
	}

	logger.Trace().Str("path", s.path).Msg("state persisted")
	return nil
}
