package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	results []SearchResult
	err     error
}

func (f *fakeStore) AddDocuments(ctx context.Context, docs []Document) ([]string, error) {
	return nil, nil
}

func (f *fakeStore) Search(ctx context.Context, query string, k int) ([]SearchResult, error) {
	return f.results, f.err
}

func (f *fakeStore) Count(ctx context.Context) (int, error) { return len(f.results), nil }

func (f *fakeStore) Close() error { return nil }

func TestIndexAdapter(t *testing.T) {
	t.Run("similarity converted to distance", func(t *testing.T) {
		store := &fakeStore{results: []SearchResult{
			{Content: "body", Source: "smart_cities.txt", Similarity: 0.85},
			{Content: "other", Source: "complete_streets.txt", Similarity: 0.2},
		}}
		adapter := NewIndexAdapter(store)

		hits, err := adapter.SimilaritySearch(context.Background(), "transit", 3)

		require.NoError(t, err)
		require.Len(t, hits, 2)
		assert.InDelta(t, 0.15, hits[0].Distance, 1e-9)
		assert.InDelta(t, 0.8, hits[1].Distance, 1e-9)
		assert.Equal(t, "smart_cities.txt", hits[0].Source)
	})

	t.Run("store error propagates", func(t *testing.T) {
		adapter := NewIndexAdapter(&fakeStore{err: errors.New("index offline")})

		_, err := adapter.SimilaritySearch(context.Background(), "transit", 3)

		assert.Error(t, err)
	})
}
