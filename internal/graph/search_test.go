package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeRunner returns canned rows per cypher fragment and records calls.
type fakeRunner struct {
	rows    map[string][]map[string]any // keyed by a distinctive substring
	err     error
	queries []string
	params  []map[string]any
}

func (f *fakeRunner) Run(ctx context.Context, cypher string, params map[string]any) ([]map[string]any, error) {
	f.queries = append(f.queries, cypher)
	f.params = append(f.params, params)
	if f.err != nil {
		return nil, f.err
	}
	for fragment, rows := range f.rows {
		if strings.Contains(cypher, fragment) {
			return rows, nil
		}
	}
	return nil, nil
}

func newTestStore(runner runner) *Store {
	return &Store{runner: runner, logger: zap.NewNop()}
}

func TestDirectSearch(t *testing.T) {
	t.Run("maps document, chunk, and concept rows", func(t *testing.T) {
		fake := &fakeRunner{rows: map[string][]map[string]any{
			"is_chunk": {
				{"content": "doc body", "name": nil, "source": "smart_cities.txt", "graph_score": 0.8, "is_chunk": false},
				{"content": "chunk body", "name": nil, "source": "civic_participation.txt", "graph_score": 0.8, "is_chunk": true},
				{"content": nil, "name": "zoning", "source": nil, "graph_score": 0.9, "is_chunk": false},
			},
		}}
		store := newTestStore(fake)

		hits, err := store.DirectSearch(context.Background(), "zoning")

		require.NoError(t, err)
		require.Len(t, hits, 3)
		assert.Equal(t, "doc body", hits[0].Content)
		assert.False(t, hits[0].IsChunk)
		assert.True(t, hits[1].IsChunk)
		assert.Equal(t, "zoning", hits[2].ConceptName)
		assert.Empty(t, hits[2].Source)
		assert.InDelta(t, 0.9, hits[2].Score, 1e-9)
	})

	t.Run("propagates runner errors", func(t *testing.T) {
		store := newTestStore(&fakeRunner{err: errors.New("connection reset")})

		_, err := store.DirectSearch(context.Background(), "zoning")

		assert.Error(t, err)
	})
}

func TestTraversalSearch(t *testing.T) {
	fake := &fakeRunner{rows: map[string][]map[string]any{
		"MENTIONS": {
			{"content": "mentions body", "source": "smart_cities.txt", "concept": "public transit", "relevance": 1.0},
			{"content": "direct body", "source": "civic_participation.txt", "concept": "direct_match", "relevance": 0.9},
		},
	}}
	store := newTestStore(fake)

	hits, err := store.TraversalSearch(context.Background(), "how will transit change")

	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "public transit", hits[0].Concept)
	assert.InDelta(t, 1.0, hits[0].Score, 1e-9)
	assert.Equal(t, "direct_match", hits[1].Concept)
}

func TestRelatedConceptSearch(t *testing.T) {
	fake := &fakeRunner{rows: map[string][]map[string]any{
		"BELONGS_TO": {
			{"content": "widened body", "source": "complete_streets.txt", "original_concept": "public transit", "related_concept": "walkability", "relevance": 0.7},
		},
	}}
	store := newTestStore(fake)

	hits, err := store.RelatedConceptSearch(context.Background(), "transit")

	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "public transit", hits[0].OriginalConcept)
	assert.Equal(t, "walkability", hits[0].RelatedConcept)
	assert.InDelta(t, 0.7, hits[0].Score, 1e-9)
}

func TestFullContent(t *testing.T) {
	t.Run("direct content wins", func(t *testing.T) {
		fake := &fakeRunner{rows: map[string][]map[string]any{
			"has_chunks": {{"content": "whole document", "has_chunks": false}},
		}}
		store := newTestStore(fake)

		content, err := store.FullContent(context.Background(), "smart_cities.txt")

		require.NoError(t, err)
		assert.Equal(t, "whole document", content)
	})

	t.Run("chunked document reassembled in index order", func(t *testing.T) {
		fake := &fakeRunner{rows: map[string][]map[string]any{
			"has_chunks": {{"content": nil, "has_chunks": true}},
			"chunk_index": {
				{"content": "part one ", "index": int64(0)},
				{"content": "part two", "index": int64(1)},
			},
		}}
		store := newTestStore(fake)

		content, err := store.FullContent(context.Background(), "civic_participation.txt")

		require.NoError(t, err)
		assert.Equal(t, "part one part two", content)
	})

	t.Run("unknown document yields empty", func(t *testing.T) {
		store := newTestStore(&fakeRunner{})

		content, err := store.FullContent(context.Background(), "nonexistent.txt")

		require.NoError(t, err)
		assert.Empty(t, content)
	})
}

func TestCount(t *testing.T) {
	fake := &fakeRunner{rows: map[string][]map[string]any{
		"count(n)": {{"count": int64(42)}},
	}}
	store := newTestStore(fake)

	count, err := store.Count(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 42, count)
}
