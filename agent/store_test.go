package agent

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_CreateAndGet(t *testing.T) {
	s := NewStore(t.TempDir())

	id, err := s.Create("Coder", "writes code", []string{"calculator"})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	a, ok := s.Get(id)
	require.True(t, ok)
	assert.Equal(t, "Coder", a.Name)
	assert.Equal(t, "writes code", a.Context)
	assert.Equal(t, []string{"calculator"}, a.Tools)
	assert.Nil(t, a.LastActivity)

	_, ok = s.Get("no-such-session")
	assert.False(t, ok)
}

func TestStore_CreatePersistsSnapshot(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	_, err := s.Create("Researcher", "background", nil)
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "Researcher.json"))
	require.NoError(t, err)

	var snap struct {
		Name    string   `json:"name"`
		Context string   `json:"context"`
		Tools   []string `json:"tools"`
	}
	require.NoError(t, json.Unmarshal(raw, &snap))
	assert.Equal(t, "Researcher", snap.Name)
	assert.Equal(t, "background", snap.Context)
	assert.Equal(t, []string{}, snap.Tools)
}

func TestStore_CreateRejectsDuplicateName(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.Create("Coder", "", nil)
	require.NoError(t, err)

	_, err = s.Create("Coder", "different context", nil)
	assert.ErrorContains(t, err, "already exists")
	assert.Equal(t, 1, s.Len())
}

func TestStore_CreateValidatesName(t *testing.T) {
	s := NewStore(t.TempDir())

	_, err := s.Create("  ", "", nil)
	assert.Error(t, err)

	_, err = s.Create("../escape", "", nil)
	assert.Error(t, err)
}

func TestStore_LoadAllAssignsFreshIDs(t *testing.T) {
	dir := t.TempDir()

	first := NewStore(dir)
	origID, err := first.Create("Coder", "writes code", []string{"calculator"})
	require.NoError(t, err)

	second := NewStore(dir)
	require.NoError(t, second.LoadAll())
	require.Equal(t, 1, second.Len())

	newID, ok := second.FindByName("Coder")
	require.True(t, ok)
	assert.NotEqual(t, origID, newID, "reload must mint a fresh session id")

	a, ok := second.Get(newID)
	require.True(t, ok)
	assert.Equal(t, "writes code", a.Context)
	assert.Equal(t, []string{"calculator"}, a.Tools)
}

func TestStore_LoadAllSkipsMalformedSnapshots(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{not json"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	s := NewStore(dir)
	require.NoError(t, s.LoadAll())
	assert.Equal(t, 0, s.Len())
}

func TestStore_LoadAllMissingDirIsCreated(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "agents")

	s := NewStore(dir)
	require.NoError(t, s.LoadAll())

	_, err := os.Stat(dir)
	assert.NoError(t, err)
}

func TestStore_Touch(t *testing.T) {
	s := NewStore(t.TempDir())
	id, err := s.Create("Coder", "", nil)
	require.NoError(t, err)

	s.Touch(id)

	a, ok := s.Get(id)
	require.True(t, ok)
	require.NotNil(t, a.LastActivity)

	// Touching an unknown session is a no-op.
	s.Touch("no-such-session")
}

func TestStore_ListAndNames(t *testing.T) {
	s := NewStore(t.TempDir())
	_, err := s.Create("Coder", "", nil)
	require.NoError(t, err)
	_, err = s.Create("Researcher", "", nil)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"Coder", "Researcher"}, s.Names())

	list := s.List()
	require.Len(t, list, 2)
	for _, summary := range list {
		assert.NotEmpty(t, summary.ID)
		assert.NotEmpty(t, summary.Name)
	}
}
