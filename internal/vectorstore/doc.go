// Package vectorstore provides the embedding index over the knowledge base.
//
// Two implementations exist: an embedded chromem-go store that persists to
// local gob files and needs no external service, and a Qdrant store speaking
// gRPC to an external server. Both embed documents through the shared
// Embedder interface and report similarity scores, higher is better; the
// retrieval adapter converts those to distances.
package vectorstore
