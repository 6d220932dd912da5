package fusion

import (
	"hash/fnv"
	"sort"
	"strings"

	"github.com/civitaslabs/planqd/internal/retrieval"
)

// DefaultResultCap bounds the fused context list when no explicit cap is
// configured.
const DefaultResultCap = 10

// key identifies a logical document fragment for deduplication. Two
// candidates collide when they name the same source and their content starts
// the same way; the content prefix keeps distinct chunks of one document
// apart.
type key struct {
	source string
	prefix uint64
}

func dedupeKey(c retrieval.Candidate) key {
	content := strings.TrimSpace(c.Content)
	if len(content) > 100 {
		content = content[:100]
	}
	h := fnv.New64a()
	h.Write([]byte(content))
	return key{source: c.Source, prefix: h.Sum64()}
}

// Fuse merges the vector and graph candidate lists into one ranked list of
// at most limit entries. Ranking is two-level: method rank first, normalized
// score second. The cap is applied after ranking so a graph hit can never
// crowd out a vector hit. Fuse is pure; calling it again on its own output
// returns the same list.
func Fuse(vector, graph []retrieval.Candidate, limit int) []retrieval.Candidate {
	if limit <= 0 {
		limit = DefaultResultCap
	}

	merged := make([]retrieval.Candidate, 0, len(vector)+len(graph))
	index := make(map[key]int, len(vector)+len(graph))

	add := func(c retrieval.Candidate) {
		k := dedupeKey(c)
		i, seen := index[k]
		if !seen {
			index[k] = len(merged)
			merged = append(merged, c)
			return
		}
		merged[i] = resolve(merged[i], c)
	}

	// Vector candidates enter first so they hold position on collision.
	for _, c := range vector {
		add(c)
	}
	for _, c := range graph {
		add(c)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return less(merged[i], merged[j])
	})

	if len(merged) > limit {
		merged = merged[:limit]
	}
	return merged
}

// resolve picks the survivor of a dedupe collision. A vector candidate
// always beats a non-vector one; within one method the better
// method-specific score wins.
func resolve(existing, incoming retrieval.Candidate) retrieval.Candidate {
	if existing.Method == retrieval.MethodVector && incoming.Method != retrieval.MethodVector {
		return existing
	}
	if incoming.Method == retrieval.MethodVector && existing.Method != retrieval.MethodVector {
		return incoming
	}
	if existing.Method == incoming.Method && betterSameMethod(incoming, existing) {
		return incoming
	}
	return existing
}

// betterSameMethod reports whether a has the better method-specific score
// than b, both holding the same method. Vector scores are distances, so
// lower wins; everything else is a relevance, higher wins.
func betterSameMethod(a, b retrieval.Candidate) bool {
	if a.Method == retrieval.MethodVector {
		return a.Score < b.Score
	}
	return a.Score > b.Score
}

// less is the fused ordering: method rank ascending, then normalized score
// descending.
func less(a, b retrieval.Candidate) bool {
	if a.Method.Rank() != b.Method.Rank() {
		return a.Method.Rank() < b.Method.Rank()
	}
	return a.NormalizedScore() > b.NormalizedScore()
}
