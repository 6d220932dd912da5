package retrieval

import (
	"context"
	"fmt"
	"hash/fnv"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/config"
	"github.com/civitaslabs/planqd/internal/logging"
)

var tracer = otel.Tracer("planqd.retrieval")

// VectorHit is one nearest-neighbor result from the vector index.
type VectorHit struct {
	Content  string
	Source   string
	Distance float64 // lower is better
}

// VectorIndex is the similarity-search surface of the vector store.
type VectorIndex interface {
	SimilaritySearch(ctx context.Context, query string, k int) ([]VectorHit, error)
}

// GraphHit is one record from a knowledge graph search.
type GraphHit struct {
	Content string
	Source  string
	Score   float64 // relevance, higher is better

	// ConceptName is set for concept-name matches, which have no source.
	ConceptName string

	// IsChunk marks partial content that should be upgraded to the full
	// document when available.
	IsChunk bool

	// Concept is the traversal concept that led to this document, or
	// "direct_match" for content matches.
	Concept string

	// OriginalConcept and RelatedConcept describe a category-widening hop.
	OriginalConcept string
	RelatedConcept  string
}

// GraphSearcher is the pattern-search surface of the knowledge graph.
type GraphSearcher interface {
	// DirectSearch finds documents, chunks, and concepts whose text
	// contains the term.
	DirectSearch(ctx context.Context, term string) ([]GraphHit, error)

	// TraversalSearch finds documents mentioning concepts that match the
	// query, plus direct content matches. Runs on the raw query only.
	TraversalSearch(ctx context.Context, query string) ([]GraphHit, error)

	// RelatedConceptSearch finds documents mentioning concepts that share
	// a category with a concept matching the query.
	RelatedConceptSearch(ctx context.Context, query string) ([]GraphHit, error)

	// FullContent returns the assembled full text of a document, or ""
	// when unavailable.
	FullContent(ctx context.Context, source string) (string, error)
}

// Retriever fans a query out to both backends and applies per-candidate
// access control. Both fan-outs are bounded by the configured backend
// timeout; a timed-out or failing backend contributes zero candidates.
type Retriever struct {
	vector     VectorIndex
	graph      GraphSearcher
	policy     *authz.Policy
	expansions ExpansionTable
	cfg        config.RetrievalConfig
	logger     *logging.Logger
	metrics    *retrievalMetrics
}

// NewRetriever creates a Retriever. A nil expansion table gets the default.
func NewRetriever(vector VectorIndex, graph GraphSearcher, policy *authz.Policy, expansions ExpansionTable, cfg config.RetrievalConfig, logger *logging.Logger) *Retriever {
	if expansions == nil {
		expansions = DefaultExpansions()
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Retriever{
		vector:     vector,
		graph:      graph,
		policy:     policy,
		expansions: expansions,
		cfg:        cfg,
		logger:     logger,
		metrics:    newRetrievalMetrics(),
	}
}

// Retrieve runs both backends for the query on behalf of userID and returns
// their candidate lists separately; scores are not comparable across the two.
func (r *Retriever) Retrieve(ctx context.Context, userID, query string) (vector, graph []Candidate) {
	ctx, span := tracer.Start(ctx, "Retriever.Retrieve")
	defer span.End()

	terms := r.expansions.Expand(query)
	span.SetAttributes(attribute.Int("expansion_terms", len(terms)))

	vector = r.retrieveVector(ctx, userID, terms)
	graph = r.retrieveGraph(ctx, userID, query, terms)

	r.metrics.recordCandidates(ctx, "vector", vector)
	r.metrics.recordCandidates(ctx, "graph", graph)

	span.SetAttributes(
		attribute.Int("vector_candidates", len(vector)),
		attribute.Int("graph_candidates", len(graph)),
	)
	return vector, graph
}

// retrieveVector searches the vector index once per expansion term,
// deduplicates across the per-term result sets, and applies access control.
func (r *Retriever) retrieveVector(ctx context.Context, userID string, terms []string) []Candidate {
	ctx, span := tracer.Start(ctx, "Retriever.vector")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.BackendTimeout.Duration())
	defer cancel()

	var hits []VectorHit
	searched := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, done := searched[term]; done {
			continue
		}
		searched[term] = struct{}{}
		if ctx.Err() != nil {
			r.logger.Warn(ctx, "vector backend timed out, using partial results",
				zap.Int("hits_so_far", len(hits)))
			r.metrics.recordTimeout(ctx, "vector")
			break
		}
		results, err := r.vector.SimilaritySearch(ctx, term, r.cfg.VectorK)
		if err != nil {
			r.logger.Warn(ctx, "vector search failed for term",
				zap.String("term", term), zap.Error(err))
			continue
		}
		r.logger.Trace(ctx, "vector term searched",
			zap.String("term", term), zap.Int("results", len(results)))
		hits = append(hits, results...)
	}

	hits = dedupeVectorHits(hits)

	// Last resort: one wider search over the single-word terms.
	if len(hits) == 0 && ctx.Err() == nil {
		keyTerms := SingleWordTerms(terms)
		if keyTerms != "" {
			results, err := r.vector.SimilaritySearch(ctx, keyTerms, r.cfg.LenientK)
			if err != nil {
				r.logger.Warn(ctx, "lenient vector search failed", zap.Error(err))
			} else {
				hits = results
			}
		}
	}

	candidates := make([]Candidate, 0, len(hits))
	for _, hit := range hits {
		if hit.Content == "" {
			continue
		}
		decision := r.policy.CheckDocumentAccess(userID, hit.Source)
		switch {
		case decision.Allowed:
			candidates = append(candidates, Candidate{
				Content: hit.Content,
				Source:  hit.Source,
				Method:  MethodVector,
				Score:   hit.Distance,
			})
		case r.policy.IsRestricted(hit.Source):
			candidates = append(candidates, NewAccessDeniedStub(hit.Source, decision.Reason))
		}
		// Denied and not restricted: dropped silently.
	}
	return candidates
}

// dedupeVectorHits removes duplicates across expansion-term result sets by
// hashing the first 100 characters of content. First occurrence wins.
func dedupeVectorHits(hits []VectorHit) []VectorHit {
	seen := make(map[uint64]struct{}, len(hits))
	unique := hits[:0:0]
	for _, hit := range hits {
		h := contentHash(hit.Content)
		if _, dup := seen[h]; dup {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, hit)
	}
	return unique
}

// contentHash fingerprints the first 100 characters of content.
func contentHash(content string) uint64 {
	if len(content) > 100 {
		content = content[:100]
	}
	h := fnv.New64a()
	h.Write([]byte(content))
	return h.Sum64()
}

// retrieveGraph runs the three graph searches: direct containment per
// expansion term, concept traversal on the raw query, and the
// related-concept widening step when traversal found little.
func (r *Retriever) retrieveGraph(ctx context.Context, userID, query string, terms []string) []Candidate {
	ctx, span := tracer.Start(ctx, "Retriever.graph")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.BackendTimeout.Duration())
	defer cancel()

	var candidates []Candidate

	searched := make(map[string]struct{}, len(terms))
	for _, term := range terms {
		if _, done := searched[term]; done {
			continue
		}
		searched[term] = struct{}{}
		if ctx.Err() != nil {
			r.logger.Warn(ctx, "graph backend timed out, using partial results",
				zap.Int("candidates_so_far", len(candidates)))
			r.metrics.recordTimeout(ctx, "graph")
			return candidates
		}
		hits, err := r.graph.DirectSearch(ctx, term)
		if err != nil {
			r.logger.Warn(ctx, "graph direct search failed for term",
				zap.String("term", term), zap.Error(err))
			continue
		}
		for _, hit := range hits {
			if c, ok := r.directCandidate(ctx, userID, hit); ok {
				candidates = append(candidates, c)
			}
		}
	}

	hits, err := r.graph.TraversalSearch(ctx, query)
	if err != nil {
		r.logger.Warn(ctx, "graph traversal search failed", zap.Error(err))
	} else {
		for _, hit := range hits {
			if c, ok := r.traversalCandidate(ctx, userID, hit); ok {
				candidates = append(candidates, c)
			}
		}
	}

	// Widen through shared categories only when the graph found little.
	if len(candidates) < 3 && ctx.Err() == nil {
		related, err := r.graph.RelatedConceptSearch(ctx, query)
		if err != nil {
			r.logger.Warn(ctx, "related concept search failed", zap.Error(err))
		} else {
			for _, hit := range related {
				if c, ok := r.relatedCandidate(userID, hit); ok {
					candidates = append(candidates, c)
				}
			}
		}
	}

	return candidates
}

// directCandidate converts a direct-search hit, upgrading chunks to full
// document content when the graph can supply it.
func (r *Retriever) directCandidate(ctx context.Context, userID string, hit GraphHit) (Candidate, bool) {
	// Concept-name matches carry no document and are not access-controlled.
	if hit.ConceptName != "" {
		return Candidate{
			Content: hit.ConceptName,
			Method:  MethodGraphDirect,
			Score:   hit.Score,
		}, true
	}

	decision := r.policy.CheckDocumentAccess(userID, hit.Source)
	if !decision.Allowed {
		if r.policy.IsRestricted(hit.Source) {
			return NewAccessDeniedStub(hit.Source, decision.Reason), true
		}
		return Candidate{}, false
	}
	if hit.Content == "" {
		return Candidate{}, false
	}

	content := hit.Content
	if hit.IsChunk && hit.Source != "" {
		if full, err := r.graph.FullContent(ctx, hit.Source); err != nil {
			r.logger.Warn(ctx, "full content fetch failed",
				zap.String("source", hit.Source), zap.Error(err))
		} else if full != "" {
			content = full
		}
	}

	return Candidate{
		Content: content,
		Source:  hit.Source,
		Method:  MethodGraphDirect,
		Score:   hit.Score,
	}, true
}

// traversalCandidate converts a traversal hit, preferring the assembled full
// document over the stored excerpt when it is longer.
func (r *Retriever) traversalCandidate(ctx context.Context, userID string, hit GraphHit) (Candidate, bool) {
	decision := r.policy.CheckDocumentAccess(userID, hit.Source)
	if !decision.Allowed {
		if r.policy.IsRestricted(hit.Source) {
			return NewAccessDeniedStub(hit.Source, decision.Reason), true
		}
		return Candidate{}, false
	}
	if hit.Content == "" {
		return Candidate{}, false
	}

	content := hit.Content
	if hit.Source != "" {
		if full, err := r.graph.FullContent(ctx, hit.Source); err != nil {
			r.logger.Warn(ctx, "full content fetch failed",
				zap.String("source", hit.Source), zap.Error(err))
		} else if len(full) > len(content) {
			content = full
		}
	}

	if hit.Concept != "" && hit.Concept != "direct_match" {
		content = fmt.Sprintf("%s\n[Related to concept: %s]", content, hit.Concept)
	}

	return Candidate{
		Content: content,
		Source:  hit.Source,
		Method:  MethodGraphTraversal,
		Score:   hit.Score,
	}, true
}

// relatedCandidate converts a category-widening hit.
func (r *Retriever) relatedCandidate(userID string, hit GraphHit) (Candidate, bool) {
	decision := r.policy.CheckDocumentAccess(userID, hit.Source)
	if !decision.Allowed {
		if r.policy.IsRestricted(hit.Source) {
			return NewAccessDeniedStub(hit.Source, decision.Reason), true
		}
		return Candidate{}, false
	}
	if hit.Content == "" {
		return Candidate{}, false
	}

	content := fmt.Sprintf("%s\n[Related concepts: %s → %s]",
		hit.Content, hit.OriginalConcept, hit.RelatedConcept)

	return Candidate{
		Content: content,
		Source:  hit.Source,
		Method:  MethodRelatedConcepts,
		Score:   hit.Score,
	}, true
}
