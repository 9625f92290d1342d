// Package agent provides the in-memory agent store backed by on-disk JSON
// snapshots. Each live agent is keyed by an opaque session id minted at
// creation or reload time; snapshot files are keyed by agent name and survive
// restarts, the ids do not.
package agent

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/convokehq/convoke/core"
	"github.com/convokehq/convoke/logging"
)

// snapshot is the persisted form of an agent. LastActivity is runtime state
// and intentionally not written to disk.
type snapshot struct {
	Name    string   `json:"name"`
	Context string   `json:"context"`
	Tools   []string `json:"tools"`
}

// Summary is the listing form of a live agent.
type Summary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Store maps session ids to agent definitions and persists each definition as
// a JSON file named after the agent under the configured directory. All
// methods are safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	dir      string
	sessions map[string]core.Agent
	logger   logging.Logger
}

// StoreOptions configures a Store.
type StoreOptions struct {
	Logger logging.Logger
}

// NewStore constructs a Store persisting snapshots under dir.
func NewStore(dir string, optFns ...func(o *StoreOptions)) *Store {
	opts := StoreOptions{Logger: logging.NoOpLogger{}}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		dir:      dir,
		sessions: make(map[string]core.Agent),
		logger:   opts.Logger,
	}
}

// Create registers a new agent, returning its fresh session id. The snapshot
// file for the name is overwritten if present (last write wins), but a name
// already live in memory is rejected: plans address agents by name, and two
// live agents sharing one would make assignment ambiguous.
func (s *Store) Create(name, agentContext string, tools []string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("agent name must not be empty")
	}
	if strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("agent name %q must not contain path separators", name)
	}
	if tools == nil {
		tools = []string{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.sessions {
		if a.Name == name {
			return "", fmt.Errorf("agent %q already exists", name)
		}
	}

	id := core.NewID()
	s.sessions[id] = core.Agent{Name: name, Context: agentContext, Tools: tools}

	if err := s.persistLocked(name, agentContext, tools); err != nil {
		delete(s.sessions, id)
		return "", err
	}

	s.logger.Info("agent created", "agent", name, "session_id", id, "tools", len(tools))

	return id, nil
}

func (s *Store) persistLocked(name, agentContext string, tools []string) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create agents directory: %w", err)
	}
	raw, err := json.MarshalIndent(snapshot{Name: name, Context: agentContext, Tools: tools}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode agent %q: %w", name, err)
	}
	path := filepath.Join(s.dir, name+".json")
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("persist agent %q: %w", name, err)
	}
	return nil
}

// LoadAll rehydrates every snapshot in the agents directory, assigning each a
// fresh session id. Unreadable snapshots and duplicate names are skipped with
// a warning rather than failing startup. A missing directory is created.
func (s *Store) LoadAll() error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create agents directory: %w", err)
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("read agents directory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		path := filepath.Join(s.dir, e.Name())

		raw, err := os.ReadFile(path)
		if err != nil {
			s.logger.Warn("agent snapshot unreadable", "path", path, "error", err)
			continue
		}
		var snap snapshot
		if err := json.Unmarshal(raw, &snap); err != nil || snap.Name == "" {
			s.logger.Warn("agent snapshot malformed", "path", path, "error", err)
			continue
		}

		if s.nameLiveLocked(snap.Name) {
			s.logger.Warn("agent snapshot shadows live agent, skipped", "agent", snap.Name, "path", path)
			continue
		}

		if snap.Tools == nil {
			snap.Tools = []string{}
		}
		id := core.NewID()
		s.sessions[id] = core.Agent{Name: snap.Name, Context: snap.Context, Tools: snap.Tools}

		s.logger.Info("agent loaded", "agent", snap.Name, "session_id", id)
	}

	return nil
}

func (s *Store) nameLiveLocked(name string) bool {
	for _, a := range s.sessions {
		if a.Name == name {
			return true
		}
	}
	return false
}

// Get returns the agent for a session id.
func (s *Store) Get(id string) (core.Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.sessions[id]
	return a, ok
}

// FindByName returns the session id of the live agent with the given name.
func (s *Store) FindByName(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for id, a := range s.sessions {
		if a.Name == name {
			return id, true
		}
	}
	return "", false
}

// Names returns the display names of all live agents.
func (s *Store) Names() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.sessions))
	for _, a := range s.sessions {
		names = append(names, a.Name)
	}
	return names
}

// List returns id/name summaries of all live agents.
func (s *Store) List() []Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Summary, 0, len(s.sessions))
	for id, a := range s.sessions {
		out = append(out, Summary{ID: id, Name: a.Name})
	}
	return out
}

// Touch records activity on a session, updating the agent's LastActivity.
func (s *Store) Touch(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.sessions[id]
	if !ok {
		return
	}
	now := time.Now().UTC()
	a.LastActivity = &now
	s.sessions[id] = a
}

// Len returns the number of live agents.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
