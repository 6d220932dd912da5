package services

import (
	"context"
	"errors"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/embeddings"
	"github.com/civitaslabs/planqd/internal/generation"
	"github.com/civitaslabs/planqd/internal/graph"
	"github.com/civitaslabs/planqd/internal/memory"
	"github.com/civitaslabs/planqd/internal/pipeline"
	"github.com/civitaslabs/planqd/internal/retrieval"
	"github.com/civitaslabs/planqd/internal/vectorstore"
)

// Registry provides access to all planqd services.
// Use accessor methods to retrieve individual services.
type Registry interface {
	Policy() *authz.Policy
	Embedder() embeddings.Provider
	VectorStore() vectorstore.Store
	Graph() *graph.Store
	Memory() *memory.Manager
	Retriever() *retrieval.Retriever
	Generator() generation.Generator
	Pipeline() *pipeline.Pipeline

	// Close releases backend connections in reverse construction order.
	Close(ctx context.Context) error
}

// Options configures the registry with service instances. Memory may be nil
// when conversation memory is disabled.
type Options struct {
	Policy      *authz.Policy
	Embedder    embeddings.Provider
	VectorStore vectorstore.Store
	Graph       *graph.Store
	Memory      *memory.Manager
	Retriever   *retrieval.Retriever
	Generator   generation.Generator
	Pipeline    *pipeline.Pipeline
}

type registry struct {
	policy      *authz.Policy
	embedder    embeddings.Provider
	vectorStore vectorstore.Store
	graph       *graph.Store
	memory      *memory.Manager
	retriever   *retrieval.Retriever
	generator   generation.Generator
	pipeline    *pipeline.Pipeline
}

// NewRegistry creates a new service registry.
func NewRegistry(opts Options) Registry {
	return &registry{
		policy:      opts.Policy,
		embedder:    opts.Embedder,
		vectorStore: opts.VectorStore,
		graph:       opts.Graph,
		memory:      opts.Memory,
		retriever:   opts.Retriever,
		generator:   opts.Generator,
		pipeline:    opts.Pipeline,
	}
}

func (r *registry) Policy() *authz.Policy            { return r.policy }
func (r *registry) Embedder() embeddings.Provider    { return r.embedder }
func (r *registry) VectorStore() vectorstore.Store   { return r.vectorStore }
func (r *registry) Graph() *graph.Store              { return r.graph }
func (r *registry) Memory() *memory.Manager          { return r.memory }
func (r *registry) Retriever() *retrieval.Retriever  { return r.retriever }
func (r *registry) Generator() generation.Generator  { return r.generator }
func (r *registry) Pipeline() *pipeline.Pipeline     { return r.pipeline }

func (r *registry) Close(ctx context.Context) error {
	var errs []error

	if r.graph != nil {
		if err := r.graph.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if r.vectorStore != nil {
		if err := r.vectorStore.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	if r.embedder != nil {
		if err := r.embedder.Close(); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}
