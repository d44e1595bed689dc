package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLexicographicFilesIsBreadthFirst(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b/z", "b/a", "a/c/d", "a/b", "z", "c"} {
		writeFile(t, filepath.Join(root, p), p)
	}

	files, err := LexicographicFiles(root)
	require.NoError(t, err)

	var rel []string
	for _, f := range files {
		r, err := filepath.Rel(root, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	assert.Equal(t, []string{"c", "z", "a/b", "b/a", "b/z", "a/c/d"}, rel)
}

func TestLexicographicFilesMissingRoot(t *testing.T) {
	_, err := LexicographicFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
