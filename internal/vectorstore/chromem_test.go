package vectorstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// hashEmbedder produces deterministic unit vectors without a model, enough
// for exercising store plumbing.
type hashEmbedder struct{}

func (hashEmbedder) embed(text string) []float32 {
	v := make([]float32, 8)
	for i, b := range []byte(text) {
		v[i%8] += float32(b) / 255
	}
	var norm float32
	for _, x := range v {
		norm += x * x
	}
	if norm == 0 {
		v[0] = 1
		return v
	}
	inv := 1 / sqrt32(norm)
	for i := range v {
		v[i] *= inv
	}
	return v
}

func sqrt32(x float32) float32 {
	z := x
	for i := 0; i < 20; i++ {
		z = (z + x/z) / 2
	}
	return z
}

func (h hashEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = h.embed(t)
	}
	return out, nil
}

func (h hashEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	return h.embed(text), nil
}

func TestChromemStore(t *testing.T) {
	newStore := func(t *testing.T) *ChromemStore {
		t.Helper()
		store, err := NewChromemStore(ChromemConfig{
			Path:       t.TempDir(),
			Collection: "planqd_test",
			VectorSize: 8,
		}, hashEmbedder{}, zap.NewNop())
		require.NoError(t, err)
		return store
	}

	t.Run("add then search round trips source metadata", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		ids, err := store.AddDocuments(ctx, []Document{
			{ID: "d1", Content: "transit oriented development near stations", Source: "smart_cities.txt"},
			{ID: "d2", Content: "stormwater management and green infrastructure", Source: "sustainable_development.txt"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"d1", "d2"}, ids)

		results, err := store.Search(ctx, "transit oriented development near stations", 2)
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "smart_cities.txt", results[0].Source)

		count, err := store.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("search caps k at collection size", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.AddDocuments(ctx, []Document{
			{ID: "d1", Content: "only document", Source: "smart_cities.txt"},
		})
		require.NoError(t, err)

		results, err := store.Search(ctx, "document", 10)
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("empty batch rejected", func(t *testing.T) {
		store := newStore(t)

		_, err := store.AddDocuments(context.Background(), nil)

		assert.ErrorIs(t, err, ErrEmptyDocuments)
	})

	t.Run("search on missing collection", func(t *testing.T) {
		store := newStore(t)

		_, err := store.Search(context.Background(), "anything", 3)

		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("nil embedder rejected", func(t *testing.T) {
		_, err := NewChromemStore(ChromemConfig{Path: t.TempDir()}, nil, zap.NewNop())

		assert.ErrorIs(t, err, ErrInvalidConfig)
	})
}
