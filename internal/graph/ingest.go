package graph

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Document is one knowledge base file to ingest into the graph.
type Document struct {
	Source  string
	Content string
}

// concepts is the fixed urban planning vocabulary extracted from documents.
var concepts = []string{
	"urban design", "zoning", "land use", "transportation", "sustainability",
	"public space", "infrastructure", "housing", "community development",
	"city planning", "green space", "smart city", "urban renewal",
	"mixed-use development", "transit-oriented development", "urban density",
	"affordable housing", "complete streets", "climate resilience",
	"walkability", "bicycle infrastructure", "public transit", "green infrastructure",
	"traffic calming", "urban heat island", "stormwater management", "economic development",
	"inclusive design", "tactical urbanism", "form-based code", "new urbanism",
	"gentrification", "urban sprawl", "placemaking", "historic preservation",
	"civic participation", "public engagement", "community involvement", "participatory planning",
	"charrettes", "public hearings", "citizen advisory", "community feedback",
	"stakeholder engagement", "public input", "grassroots planning",
}

// categoryMap assigns concepts to categories; unmapped concepts fall into
// "General".
var categoryMap = map[string]string{
	"transportation": "Mobility", "complete streets": "Mobility",
	"public transit": "Mobility", "bicycle infrastructure": "Mobility",
	"walkability": "Mobility", "traffic calming": "Mobility",

	"housing": "Housing", "affordable housing": "Housing",
	"mixed-use development": "Housing", "urban density": "Housing",
	"gentrification": "Housing",

	"sustainability": "Environment", "climate resilience": "Environment",
	"green infrastructure": "Environment", "urban heat island": "Environment",
	"stormwater management": "Environment",

	"zoning": "Land Use", "land use": "Land Use",
	"form-based code": "Land Use", "new urbanism": "Land Use",
	"urban sprawl": "Land Use",

	"public space": "Public Realm", "placemaking": "Public Realm",
	"tactical urbanism": "Public Realm", "historic preservation": "Public Realm",

	"smart city": "Technology", "infrastructure": "Technology",

	"civic participation": "Public Engagement", "public engagement": "Public Engagement",
	"community involvement": "Public Engagement", "participatory planning": "Public Engagement",
	"charrettes": "Public Engagement", "public hearings": "Public Engagement",
	"citizen advisory": "Public Engagement", "community feedback": "Public Engagement",
	"stakeholder engagement": "Public Engagement", "public input": "Public Engagement",
	"grassroots planning": "Public Engagement",
}

const ingestBatchSize = 10

const clearGraphQuery = `MATCH (n) DETACH DELETE n`

const createDocumentsQuery = `
UNWIND $batch as row
MERGE (d:Document {source: row.source})
SET d.content_preview = row.content_preview,
    d.content_length = row.content_length
`

const setContentQuery = `
MATCH (d:Document {source: $source})
SET d.content = $content
`

const createConceptsQuery = `
UNWIND $batch as row
MERGE (c:Concept {name: row.concept})
SET c.category = row.category
WITH c, row
MATCH (d:Document {source: row.source})
MERGE (d)-[:MENTIONS]->(c)
MERGE (c)-[:MENTIONED_IN]->(d)
WITH c, row
MERGE (cat:Category {name: row.category})
MERGE (c)-[:BELONGS_TO]->(cat)
`

const relateConceptsQuery = `
UNWIND $batch as row
MATCH (c1:Concept {name: row.concept1})
MATCH (c2:Concept {name: row.concept2})
MERGE (c1)-[:RELATED_TO {source: row.source}]->(c2)
`

var indexQueries = []string{
	`CREATE INDEX document_content_preview_idx IF NOT EXISTS
FOR (d:Document) ON (d.content_preview)`,
	`CREATE INDEX concept_name_idx IF NOT EXISTS
FOR (c:Concept) ON (c.name)`,
}

// Ingest rebuilds the knowledge graph from the given documents: document
// nodes with previews and full content, concept extraction with category
// assignment, co-occurrence edges, and search indexes. The existing graph
// is cleared first.
func (s *Store) Ingest(ctx context.Context, docs []Document) error {
	ctx, span := tracer.Start(ctx, "Store.Ingest")
	defer span.End()
	span.SetAttributes(attribute.Int("documents", len(docs)))

	if _, err := s.runner.Run(ctx, clearGraphQuery, nil); err != nil {
		return fmt.Errorf("clearing graph: %w", err)
	}

	for start := 0; start < len(docs); start += ingestBatchSize {
		end := start + ingestBatchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := make([]map[string]any, 0, end-start)
		for _, doc := range docs[start:end] {
			batch = append(batch, map[string]any{
				"source":          doc.Source,
				"content_preview": preview(doc.Content),
				"content_length":  len(doc.Content),
			})
		}
		if _, err := s.runner.Run(ctx, createDocumentsQuery, map[string]any{"batch": batch}); err != nil {
			return fmt.Errorf("creating document nodes: %w", err)
		}
	}

	for _, doc := range docs {
		if _, err := s.runner.Run(ctx, setContentQuery, map[string]any{
			"source":  doc.Source,
			"content": doc.Content,
		}); err != nil {
			return fmt.Errorf("storing content for %s: %w", doc.Source, err)
		}
	}

	for _, doc := range docs {
		if err := s.ingestConcepts(ctx, doc); err != nil {
			return err
		}
	}

	for _, q := range indexQueries {
		if _, err := s.runner.Run(ctx, q, nil); err != nil {
			s.logger.Warn("index creation failed", zap.Error(err))
		}
	}

	s.logger.Info("knowledge graph ingested", zap.Int("documents", len(docs)))
	return nil
}

// ingestConcepts extracts the concept vocabulary present in one document and
// writes mention and co-occurrence edges.
func (s *Store) ingestConcepts(ctx context.Context, doc Document) error {
	contentLower := strings.ToLower(doc.Content)

	var found []string
	conceptBatch := make([]map[string]any, 0)
	for _, concept := range concepts {
		if !strings.Contains(contentLower, concept) {
			continue
		}
		found = append(found, concept)
		category, ok := categoryMap[concept]
		if !ok {
			category = "General"
		}
		conceptBatch = append(conceptBatch, map[string]any{
			"concept":  concept,
			"source":   doc.Source,
			"category": category,
		})
	}
	if len(conceptBatch) == 0 {
		return nil
	}

	if _, err := s.runner.Run(ctx, createConceptsQuery, map[string]any{"batch": conceptBatch}); err != nil {
		return fmt.Errorf("creating concepts for %s: %w", doc.Source, err)
	}

	relationBatch := make([]map[string]any, 0)
	for i, c1 := range found {
		for _, c2 := range found[i+1:] {
			relationBatch = append(relationBatch, map[string]any{
				"concept1": c1,
				"concept2": c2,
				"source":   doc.Source,
			})
		}
	}
	if len(relationBatch) == 0 {
		return nil
	}
	if _, err := s.runner.Run(ctx, relateConceptsQuery, map[string]any{"batch": relationBatch}); err != nil {
		return fmt.Errorf("relating concepts for %s: %w", doc.Source, err)
	}
	return nil
}

// preview truncates content for the indexed preview property.
func preview(content string) string {
	if len(content) > 500 {
		return content[:500] + "..."
	}
	return content
}
