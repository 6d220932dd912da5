package embeddings

import (
	"errors"

	"github.com/civitaslabs/planqd/internal/vectorstore"
)

var (
	// ErrEmptyInput indicates empty or nil input texts.
	ErrEmptyInput = errors.New("empty or nil input texts")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("embedding generation failed")

	// ErrFastEmbedNotAvailable is returned when the binary was built
	// without CGO support.
	ErrFastEmbedNotAvailable = errors.New("fastembed: not available (binary built without CGO support)")
)

// Config holds configuration for the FastEmbed provider.
type Config struct {
	// Model is the embedding model. Default: BAAI/bge-small-en-v1.5.
	Model string

	// CacheDir is the directory to cache model files.
	CacheDir string

	// MaxLength is the maximum input sequence length. Default: 512.
	MaxLength int
}

// Provider generates embeddings and knows its output dimension.
type Provider interface {
	vectorstore.Embedder

	// Dimension returns the embedding dimension of the current model.
	Dimension() int

	// Close releases resources held by the provider.
	Close() error
}

// modelDimensions maps supported model names to embedding dimensions.
var modelDimensions = map[string]int{
	"BAAI/bge-small-en-v1.5":                 384,
	"BAAI/bge-small-en":                      384,
	"BAAI/bge-base-en-v1.5":                  768,
	"BAAI/bge-base-en":                       768,
	"BAAI/bge-small-zh-v1.5":                 512,
	"sentence-transformers/all-MiniLM-L6-v2": 384,
}

// DimensionForModel returns the embedding dimension for a supported model
// name.
func DimensionForModel(model string) (int, bool) {
	dim, ok := modelDimensions[model]
	return dim, ok
}
