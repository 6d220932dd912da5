package main

import (
	"context"
	"fmt"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/config"
	"github.com/civitaslabs/planqd/internal/embeddings"
	"github.com/civitaslabs/planqd/internal/generation"
	"github.com/civitaslabs/planqd/internal/graph"
	"github.com/civitaslabs/planqd/internal/logging"
	"github.com/civitaslabs/planqd/internal/memory"
	"github.com/civitaslabs/planqd/internal/pipeline"
	"github.com/civitaslabs/planqd/internal/retrieval"
	"github.com/civitaslabs/planqd/internal/services"
	"github.com/civitaslabs/planqd/internal/vectorstore"
)

// newPolicy loads the registry override when configured, otherwise the
// built-in demo registry.
func newPolicy(cfg *config.Config) (*authz.Policy, error) {
	if cfg.Knowledge.RegistryPath != "" {
		reg, err := authz.LoadRegistry(cfg.Knowledge.RegistryPath)
		if err != nil {
			return nil, fmt.Errorf("loading access registry: %w", err)
		}
		return authz.NewPolicy(reg), nil
	}
	return authz.NewPolicy(authz.NewDefaultRegistry()), nil
}

// buildBackends constructs the embedder and both retrieval backends, which
// is all ingestion needs.
func buildBackends(ctx context.Context, cfg *config.Config, logger *logging.Logger) (embeddings.Provider, vectorstore.Store, *graph.Store, error) {
	embedder, err := embeddings.NewFastEmbedProvider(embeddings.Config{
		Model:     cfg.Embeddings.Model,
		CacheDir:  cfg.Embeddings.CacheDir,
		MaxLength: cfg.Embeddings.MaxLength,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing embeddings: %w", err)
	}

	store, err := vectorstore.NewStore(cfg, embedder, logger.Underlying())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("initializing vector store: %w", err)
	}

	graphStore, err := graph.NewStore(ctx, cfg.Graph, logger.Underlying())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connecting to graph: %w", err)
	}

	return embedder, store, graphStore, nil
}

// buildServices constructs all backends and the pipeline. The returned
// registry owns the backend connections; call Close on shutdown.
func buildServices(ctx context.Context, cfg *config.Config, logger *logging.Logger) (services.Registry, error) {
	policy, err := newPolicy(cfg)
	if err != nil {
		return nil, err
	}

	embedder, store, graphStore, err := buildBackends(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	var mem *memory.Manager
	if cfg.Memory.Enabled {
		mem, err = memory.New(cfg.Memory, embedder, logger.Underlying())
		if err != nil {
			return nil, fmt.Errorf("initializing conversation memory: %w", err)
		}
	}

	generator, err := generation.NewFromConfig(ctx, cfg.Generation)
	if err != nil {
		return nil, fmt.Errorf("initializing generator: %w", err)
	}

	retriever := retrieval.NewRetriever(
		vectorstore.NewIndexAdapter(store),
		graphStore,
		policy,
		retrieval.DefaultExpansions(),
		cfg.Retrieval,
		logger,
	)

	var pipeMem pipeline.Memory
	if mem != nil {
		pipeMem = mem
	}
	pipe := pipeline.New(policy, retriever, generator, pipeMem, cfg.Retrieval.ResultCap, logger)

	return services.NewRegistry(services.Options{
		Policy:      policy,
		Embedder:    embedder,
		VectorStore: store,
		Graph:       graphStore,
		Memory:      mem,
		Retriever:   retriever,
		Generator:   generator,
		Pipeline:    pipe,
	}), nil
}
