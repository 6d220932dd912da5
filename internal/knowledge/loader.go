package knowledge

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Document is one knowledge base file.
type Document struct {
	// Source is the file basename, the key access control uses.
	Source string

	// Content is the file text.
	Content string
}

// ChunkSize and ChunkOverlap shape SplitContent for embedding: pieces small
// enough to embed well, overlapping so sentences spanning a boundary are not
// lost.
const (
	ChunkSize    = 1000
	ChunkOverlap = 200
)

// LoadDir reads every .txt file under dir, recursively. Non-text files are
// ignored.
func LoadDir(dir string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".txt") {
			return nil
		}
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		docs = append(docs, Document{
			Source:  d.Name(),
			Content: string(content),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading knowledge base from %s: %w", dir, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("no .txt documents found in %s", dir)
	}
	return docs, nil
}

// SplitContent breaks content into overlapping chunks for embedding. Breaks
// prefer paragraph, then line, then word boundaries near the chunk size.
func SplitContent(content string) []string {
	if len(content) <= ChunkSize {
		return []string{content}
	}

	var chunks []string
	start := 0
	for start < len(content) {
		end := start + ChunkSize
		if end >= len(content) {
			chunks = append(chunks, content[start:])
			break
		}
		cut := breakPoint(content[start:end])
		chunks = append(chunks, content[start:start+cut])
		next := start + cut - ChunkOverlap
		if next <= start {
			next = start + cut
		}
		start = next
	}
	return chunks
}

// breakPoint finds the best split position in a window, preferring paragraph
// breaks, then newlines, then spaces, scanning the last quarter of the
// window.
func breakPoint(window string) int {
	floor := len(window) * 3 / 4
	for _, sep := range []string{"\n\n", "\n", " "} {
		if i := strings.LastIndex(window, sep); i > floor {
			return i + len(sep)
		}
	}
	return len(window)
}
