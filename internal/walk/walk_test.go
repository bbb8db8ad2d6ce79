package walk

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func TestDiscoverFindsRCSFilesUnderDirectory(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "RCS", "a.c,v"))
	touch(t, filepath.Join(root, "RCS", "b.c,v"))
	touch(t, filepath.Join(root, "README"))

	found, missing := Discover([]string{root}, nil)
	assert.Empty(t, missing)
	require.Len(t, found, 2)
	for _, f := range found {
		assert.Contains(t, f, ",v")
	}
}

func TestDiscoverHonorsIgnoreGlob(t *testing.T) {
	root := t.TempDir()
	touch(t, filepath.Join(root, "keep.c,v"))
	touch(t, filepath.Join(root, "skip.tmp,v"))

	found, missing := Discover([]string{root}, []string{"skip.tmp,v"})
	assert.Empty(t, missing)
	require.Len(t, found, 1)
	assert.Contains(t, found[0], "keep.c,v")
}

func TestDiscoverAcceptsBarePlainFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "single.c,v")
	touch(t, path)

	found, missing := Discover([]string{path}, nil)
	assert.Empty(t, missing)
	require.Equal(t, []string{path}, found)
}

func TestDiscoverReportsMissingArgumentAndContinues(t *testing.T) {
	root := t.TempDir()
	present := filepath.Join(root, "present.c,v")
	touch(t, present)
	absent := filepath.Join(root, "absent.c,v")

	found, missing := Discover([]string{absent, present}, nil)
	require.Equal(t, []string{absent}, missing)
	require.Equal(t, []string{present}, found)
}

func TestLogicalNameStripsRCSDirectoryAndSuffix(t *testing.T) {
	assert.Equal(t, filepath.Join("src", "m.c"), LogicalName(filepath.Join("src", "RCS", "m.c,v")))
	assert.Equal(t, "m.c", LogicalName(filepath.Join("RCS", "m.c,v")))
	assert.Equal(t, "m.c", LogicalName("m.c,v"))
}
