package knowledge

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "smart_cities.txt"), []byte("smart city content"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "land_use_zoning.txt"), []byte("zoning content"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("ignored"), 0o644))

	docs, err := LoadDir(dir)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	bySource := map[string]string{}
	for _, d := range docs {
		bySource[d.Source] = d.Content
	}
	assert.Equal(t, "smart city content", bySource["smart_cities.txt"])
	assert.Equal(t, "zoning content", bySource["land_use_zoning.txt"])
}

func TestLoadDirEmpty(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadDir(dir)
	assert.ErrorContains(t, err, "no .txt documents")
}

func TestLoadDirMissing(t *testing.T) {
	_, err := LoadDir(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}

func TestSplitContentShort(t *testing.T) {
	chunks := SplitContent("short document")
	require.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0])
}

func TestSplitContentOverlap(t *testing.T) {
	para := strings.Repeat("urban planning policy text ", 20)
	content := para + "\n\n" + para + "\n\n" + para

	chunks := SplitContent(content)
	require.Greater(t, len(chunks), 1)

	for _, c := range chunks {
		assert.LessOrEqual(t, len(c), ChunkSize)
		assert.NotEmpty(t, c)
	}

	// Consecutive chunks share text because of the overlap.
	head := chunks[1][:50]
	assert.Contains(t, chunks[0], head)
}

func TestSplitContentCoversAll(t *testing.T) {
	content := strings.Repeat("a", 2500)
	chunks := SplitContent(content)
	total := 0
	for _, c := range chunks {
		total += len(c)
	}
	assert.GreaterOrEqual(t, total, len(content))
}
