// Package retrieval produces scored candidate documents for a query by
// fanning out to two backends: embedding similarity search over the vector
// store and pattern search over the knowledge graph.
//
// The two backends score on incompatible scales. Vector candidates carry a
// distance (lower is better); graph candidates carry a relevance (higher is
// better). Candidates keep their method tag so the fusion layer can rank
// across scales without pretending they are comparable.
//
// Access control is applied per candidate at the moment of retrieval: a
// denied hit on a restricted document becomes an access-denied stub so the
// context assembler can count and summarize restrictions, while a denied hit
// on an ungated document is dropped silently.
//
// Backend failures and timeouts degrade to an empty candidate list for that
// backend; they are logged and never surfaced to the caller.
package retrieval
