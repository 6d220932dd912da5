package vectorstore

import (
	"context"

	"github.com/civitaslabs/planqd/internal/retrieval"
)

// IndexAdapter exposes a Store as the retrieval layer's VectorIndex.
// Stores report cosine similarity (higher is better); retrieval expects
// distances (lower is better), so hits are converted as 1 - similarity.
type IndexAdapter struct {
	store Store
}

// NewIndexAdapter wraps a Store for the retrieval layer.
func NewIndexAdapter(store Store) *IndexAdapter {
	return &IndexAdapter{store: store}
}

// SimilaritySearch implements retrieval.VectorIndex.
func (a *IndexAdapter) SimilaritySearch(ctx context.Context, query string, k int) ([]retrieval.VectorHit, error) {
	results, err := a.store.Search(ctx, query, k)
	if err != nil {
		return nil, err
	}
	hits := make([]retrieval.VectorHit, len(results))
	for i, r := range results {
		hits[i] = retrieval.VectorHit{
			Content:  r.Content,
			Source:   r.Source,
			Distance: 1 - r.Similarity,
		}
	}
	return hits, nil
}
