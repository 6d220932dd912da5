package vectorstore

import (
	"context"
	"errors"
)

// Sentinel errors for vector store operations.
var (
	// ErrCollectionNotFound is returned when a collection does not exist.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEmptyDocuments indicates empty or nil documents.
	ErrEmptyDocuments = errors.New("empty or nil documents")

	// ErrConnectionFailed indicates gRPC connection issues.
	ErrConnectionFailed = errors.New("failed to connect to Qdrant")

	// ErrEmbeddingFailed indicates embedding generation failure.
	ErrEmbeddingFailed = errors.New("failed to generate embeddings")
)

// Embedder generates vector embeddings from text.
type Embedder interface {
	// EmbedDocuments generates embeddings for multiple texts, one per input.
	EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error)

	// EmbedQuery generates an embedding for a single query. Some models
	// optimize differently for queries vs documents.
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
}

// Document is a knowledge base document (or document chunk) to index.
type Document struct {
	// ID is the unique identifier. Empty IDs are assigned at insertion.
	ID string

	// Content is the text to embed and store.
	Content string

	// Source is the originating knowledge base file, carried through to
	// search results so access control can key on it.
	Source string
}

// SearchResult is one similarity search hit.
type SearchResult struct {
	ID      string
	Content string
	Source  string

	// Similarity is in [0, 1], higher is more similar.
	Similarity float64
}

// Store indexes documents and serves similarity search over them.
type Store interface {
	// AddDocuments embeds and stores documents, returning their IDs.
	AddDocuments(ctx context.Context, docs []Document) ([]string, error)

	// Search returns up to k documents similar to the query, most similar
	// first.
	Search(ctx context.Context, query string, k int) ([]SearchResult, error)

	// Count reports the number of indexed documents.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close() error
}
