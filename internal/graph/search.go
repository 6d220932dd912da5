package graph

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"github.com/civitaslabs/planqd/internal/retrieval"
)

// directSearchQuery finds documents, chunks, and concept names containing
// the term. Document and chunk matches score 0.8; concept names, being
// curated vocabulary, score 0.9.
const directSearchQuery = `
MATCH (node:Document)
WHERE node.content CONTAINS $query
WITH node, 0.8 as graph_score
RETURN node.content as content,
      null as name,
      node.source as source,
      graph_score,
      false as is_chunk
LIMIT 2

UNION

MATCH (d:Document)-[:HAS_CHUNK]->(c:DocumentChunk)
WHERE c.content CONTAINS $query
WITH d, c, 0.8 as graph_score
RETURN c.content as content,
      null as name,
      d.source as source,
      graph_score,
      true as is_chunk
LIMIT 3

UNION

MATCH (node:Concept)
WHERE node.name CONTAINS $query
WITH node, 0.9 as graph_score
RETURN null as content,
      node.name as name,
      null as source,
      graph_score,
      false as is_chunk
LIMIT 2
`

// traversalQuery walks concept mentions at relevance 1.0 and adds direct
// content matches at 0.9.
const traversalQuery = `
MATCH (c:Concept)
WHERE toLower(c.name) CONTAINS toLower($query)
MATCH (c)<-[:MENTIONS]-(d:Document)
RETURN d.content as content,
       d.source as source,
       c.name as concept,
       1.0 as relevance
LIMIT 5

UNION

MATCH (d:Document)
WHERE toLower(d.content) CONTAINS toLower($query)
RETURN d.content as content,
       d.source as source,
       'direct_match' as concept,
       0.9 as relevance
LIMIT 3
`

// relatedConceptsQuery widens through concepts sharing a category with a
// concept matching the query, at relevance 0.7.
const relatedConceptsQuery = `
MATCH (c1:Concept)-[:BELONGS_TO]->(cat:Category)<-[:BELONGS_TO]-(c2:Concept)
WHERE toLower(c1.name) CONTAINS toLower($query)
  AND c1 <> c2
MATCH (c2)-[:MENTIONED_IN]->(d:Document)
RETURN d.content as content,
       d.source as source,
       c1.name as original_concept,
       c2.name as related_concept,
       0.7 as relevance
LIMIT 5
`

const fullContentQuery = `
MATCH (d:Document {source: $source})
RETURN d.content AS content,
      EXISTS((d)-[:HAS_CHUNK]->()) AS has_chunks
`

const chunksQuery = `
MATCH (d:Document {source: $source})-[:HAS_CHUNK]->(c:DocumentChunk)
RETURN c.content AS content, c.chunk_index AS index
ORDER BY c.chunk_index
`

func rowString(row map[string]any, key string) string {
	v, _ := row[key].(string)
	return v
}

func rowFloat(row map[string]any, key string) float64 {
	switch v := row[key].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	default:
		return 0
	}
}

func rowBool(row map[string]any, key string) bool {
	v, _ := row[key].(bool)
	return v
}

// DirectSearch implements retrieval.GraphSearcher.
func (s *Store) DirectSearch(ctx context.Context, term string) ([]retrieval.GraphHit, error) {
	ctx, span := tracer.Start(ctx, "Store.DirectSearch")
	defer span.End()
	span.SetAttributes(attribute.String("term", term))

	rows, err := s.runner.Run(ctx, directSearchQuery, map[string]any{"query": term})
	if err != nil {
		return nil, fmt.Errorf("direct graph search: %w", err)
	}

	hits := make([]retrieval.GraphHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, retrieval.GraphHit{
			Content:     rowString(row, "content"),
			ConceptName: rowString(row, "name"),
			Source:      rowString(row, "source"),
			Score:       rowFloat(row, "graph_score"),
			IsChunk:     rowBool(row, "is_chunk"),
		})
	}
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return hits, nil
}

// TraversalSearch implements retrieval.GraphSearcher.
func (s *Store) TraversalSearch(ctx context.Context, query string) ([]retrieval.GraphHit, error) {
	ctx, span := tracer.Start(ctx, "Store.TraversalSearch")
	defer span.End()

	rows, err := s.runner.Run(ctx, traversalQuery, map[string]any{"query": query})
	if err != nil {
		return nil, fmt.Errorf("concept traversal search: %w", err)
	}

	hits := make([]retrieval.GraphHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, retrieval.GraphHit{
			Content: rowString(row, "content"),
			Source:  rowString(row, "source"),
			Concept: rowString(row, "concept"),
			Score:   rowFloat(row, "relevance"),
		})
	}
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return hits, nil
}

// RelatedConceptSearch implements retrieval.GraphSearcher.
func (s *Store) RelatedConceptSearch(ctx context.Context, query string) ([]retrieval.GraphHit, error) {
	ctx, span := tracer.Start(ctx, "Store.RelatedConceptSearch")
	defer span.End()

	rows, err := s.runner.Run(ctx, relatedConceptsQuery, map[string]any{"query": query})
	if err != nil {
		return nil, fmt.Errorf("related concepts search: %w", err)
	}

	hits := make([]retrieval.GraphHit, 0, len(rows))
	for _, row := range rows {
		hits = append(hits, retrieval.GraphHit{
			Content:         rowString(row, "content"),
			Source:          rowString(row, "source"),
			OriginalConcept: rowString(row, "original_concept"),
			RelatedConcept:  rowString(row, "related_concept"),
			Score:           rowFloat(row, "relevance"),
		})
	}
	span.SetAttributes(attribute.Int("hits", len(hits)))
	return hits, nil
}

// FullContent implements retrieval.GraphSearcher. Small documents store
// content on the node; large ones are reassembled from chunks ordered by
// chunk index. Returns "" when the document is unknown or has no content.
func (s *Store) FullContent(ctx context.Context, source string) (string, error) {
	ctx, span := tracer.Start(ctx, "Store.FullContent")
	defer span.End()
	span.SetAttributes(attribute.String("source", source))

	rows, err := s.runner.Run(ctx, fullContentQuery, map[string]any{"source": source})
	if err != nil {
		return "", fmt.Errorf("fetching document content: %w", err)
	}
	if len(rows) == 0 {
		return "", nil
	}

	if content := rowString(rows[0], "content"); content != "" {
		return content, nil
	}
	if !rowBool(rows[0], "has_chunks") {
		return "", nil
	}

	chunkRows, err := s.runner.Run(ctx, chunksQuery, map[string]any{"source": source})
	if err != nil {
		return "", fmt.Errorf("fetching document chunks: %w", err)
	}

	var b strings.Builder
	for _, row := range chunkRows {
		b.WriteString(rowString(row, "content"))
	}
	return b.String(), nil
}
