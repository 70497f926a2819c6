package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tree(t *testing.T, files ...string) string {
	t.Helper()
	dir := t.TempDir()
	for _, f := range files {
		p := filepath.Join(dir, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0755))
		require.NoError(t, os.WriteFile(p, []byte("{}"), 0644))
	}
	return dir
}

func TestScanDir(t *testing.T) {
	dir := tree(t, "chicago.json", "nyc/manhattan.yaml", "notes.txt", "bundles/paris.zip")
	list, err := ScanDir(dir)
	require.NoError(t, err)
	var rels []string
	for _, e := range list {
		rels = append(rels, e.Rel)
	}
	assert.Equal(t, []string{"bundles/paris.zip", "chicago.json", "nyc/manhattan.yaml"}, rels)

	list, err = ScanDir(filepath.Join(dir, "missing"))
	assert.NoError(t, err)
	assert.Empty(t, list)
}

func TestResolve(t *testing.T) {
	dir := tree(t, "chicago-loop.zip", "chicago_loop.json", "new york/manhattan.yaml")
	bases := []string{dir}

	p, err := Resolve("Chicago Loop", bases)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chicago_loop.json"), p)

	p, err = Resolve("manhattan", bases)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new york", "manhattan.yaml"), p)

	p, err = Resolve("newyork", bases)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "new york", "manhattan.yaml"), p)

	_, err = Resolve("tokyo", bases)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveExistingFile(t *testing.T) {
	dir := tree(t, "a.json")
	p := filepath.Join(dir, "a.json")
	got, err := Resolve(p, nil)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}
