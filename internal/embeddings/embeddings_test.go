package embeddings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionForModel(t *testing.T) {
	tests := []struct {
		model string
		dim   int
		known bool
	}{
		{"BAAI/bge-small-en-v1.5", 384, true},
		{"BAAI/bge-base-en-v1.5", 768, true},
		{"BAAI/bge-small-zh-v1.5", 512, true},
		{"sentence-transformers/all-MiniLM-L6-v2", 384, true},
		{"openai/text-embedding-3-small", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			dim, ok := DimensionForModel(tt.model)
			assert.Equal(t, tt.known, ok)
			assert.Equal(t, tt.dim, dim)
		})
	}
}

func TestProviderInterface(t *testing.T) {
	// Both the CGO and stub builds must satisfy Provider.
	var _ Provider = (*FastEmbedProvider)(nil)
}
