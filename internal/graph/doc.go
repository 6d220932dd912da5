// Package graph is the Neo4j knowledge graph backend: concept and document
// search for retrieval, chunk reassembly, and knowledge base ingestion.
//
// The graph schema has Document nodes (content plus a 500-char preview),
// Concept nodes from a fixed urban planning vocabulary, Category nodes, and
// optionally DocumentChunk nodes for content too large to index whole.
// Edges: MENTIONS/MENTIONED_IN between documents and concepts, BELONGS_TO
// from concepts to categories, RELATED_TO between concepts co-occurring in a
// document, HAS_CHUNK from documents to chunks.
package graph
