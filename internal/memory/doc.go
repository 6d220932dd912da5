// Package memory persists conversation history in Postgres with pgvector
// embeddings, serving two kinds of context: the current session transcript
// and semantically similar exchanges from past sessions.
//
// Every turn is recorded, including denials, so follow-up questions about a
// refused topic stay coherent.
package memory
