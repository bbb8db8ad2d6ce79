package ident

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeAuthorsMap(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "authors.map")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadMapAndResolve(t *testing.T) {
	path := writeAuthorsMap(t, "# comment\n\nalice = Alice Smith <alice@example.com>\nbob=Bob Jones<bob@example.com>\n")
	m, err := LoadMap(path)
	require.NoError(t, err)

	assert.Equal(t, Identity{Name: "Alice Smith", Email: "alice@example.com"}, m.Resolve("alice"))
	assert.Equal(t, Identity{Name: "Bob Jones", Email: "bob@example.com"}, m.Resolve("bob"))
}

func TestResolveFallsBackToBareUsername(t *testing.T) {
	path := writeAuthorsMap(t, "alice = Alice Smith <alice@example.com>\n")
	m, err := LoadMap(path)
	require.NoError(t, err)

	assert.Equal(t, Identity{Name: "carol", Email: ""}, m.Resolve("carol"))
}

func TestResolveOnNilMapFallsBack(t *testing.T) {
	var m *Map
	assert.Equal(t, Identity{Name: "dave", Email: ""}, m.Resolve("dave"))
}

func TestLoadMapRejectsMalformedLine(t *testing.T) {
	path := writeAuthorsMap(t, "not a valid line\n")
	_, err := LoadMap(path)
	assert.Error(t, err)
}

func TestLoadMapMissingFile(t *testing.T) {
	_, err := LoadMap(filepath.Join(t.TempDir(), "nope.map"))
	assert.Error(t, err)
}

func TestHostIdentityEnvironmentOverride(t *testing.T) {
	t.Setenv("GIT_AUTHOR_NAME", "Test User")
	t.Setenv("GIT_AUTHOR_EMAIL", "test@example.com")
	id := HostIdentity()
	assert.Equal(t, "Test User", id.Name)
	assert.Equal(t, "test@example.com", id.Email)
}
