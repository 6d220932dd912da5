// Package generation wraps the answer-generating language model behind a
// narrow interface. The pipeline builds the full prompt; this package only
// sends it and returns the completion.
package generation
