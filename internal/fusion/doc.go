// Package fusion merges candidate lists from the vector and graph backends
// into one ranked context list.
//
// The two backends score on incompatible scales, so ordering never compares
// raw scores across methods. Candidates are grouped by retrieval method
// first, then ordered by normalized score within each group. Duplicates are
// collapsed before ranking, with vector results taking precedence over graph
// results for the same document.
package fusion
