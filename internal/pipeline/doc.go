// Package pipeline runs a query end to end: the topic-level privilege gate,
// canned role fallbacks, conversation memory, hybrid retrieval, fusion
// ranking, context assembly, and answer generation.
//
// Every turn is recorded to conversation memory, including denials, so a
// session transcript reflects what the user actually saw.
package pipeline
