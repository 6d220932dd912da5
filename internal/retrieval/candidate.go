package retrieval

// Method identifies which retrieval path produced a candidate. The zero
// value is invalid; every candidate is tagged at construction.
type Method int

const (
	// MethodVector is embedding similarity search. Scores are distances,
	// lower is better.
	MethodVector Method = iota + 1

	// MethodGraphDirect is substring containment search over document
	// content, chunks, and concept names. Scores are fixed relevances.
	MethodGraphDirect

	// MethodGraphTraversal is concept-to-document traversal on the raw
	// query. Scores are fixed relevances.
	MethodGraphTraversal

	// MethodRelatedConcepts is the category-widening fallback search.
	MethodRelatedConcepts

	// MethodAccessDenied marks a restricted document the user may not read.
	// Content is a restriction placeholder, never the document text.
	MethodAccessDenied
)

// String returns the method's wire/log name.
func (m Method) String() string {
	switch m {
	case MethodVector:
		return "vector"
	case MethodGraphDirect:
		return "graph_direct"
	case MethodGraphTraversal:
		return "graph_traversal"
	case MethodRelatedConcepts:
		return "related_concepts"
	case MethodAccessDenied:
		return "access_denied"
	default:
		return "unknown"
	}
}

// Rank is the fusion ordering priority of the method; lower ranks first.
// Method identity dominates score in fusion: any vector hit outranks any
// graph hit regardless of their raw scores.
func (m Method) Rank() int {
	switch m {
	case MethodVector:
		return 1
	case MethodGraphDirect:
		return 2
	case MethodGraphTraversal:
		return 3
	case MethodRelatedConcepts:
		return 4
	default:
		return 5
	}
}

// Candidate is an ephemeral scored document fragment produced by one
// retrieval backend for one query. Never persisted.
type Candidate struct {
	// Content is the document text, or a restriction placeholder for
	// access-denied stubs.
	Content string

	// Source is the originating document key. Empty for concept-name hits,
	// which have no backing document.
	Source string

	// Method tags the retrieval path; it determines Score semantics.
	Method Method

	// Score is method-specific: a distance for MethodVector (lower is
	// better), a relevance for graph methods (higher is better), and zero
	// for access-denied stubs.
	Score float64

	// Reason carries the denial reason on access-denied stubs.
	Reason string
}

// NormalizedScore maps the method-specific score onto a shared 0-1 scale
// where higher is better, used only to break ties within one method rank.
func (c Candidate) NormalizedScore() float64 {
	switch c.Method {
	case MethodVector:
		d := c.Score
		if d > 1 {
			d = 1
		}
		return 1 - d
	case MethodAccessDenied:
		return 0
	default:
		return c.Score
	}
}

// restrictedPlaceholder replaces document text on access-denied stubs.
const restrictedPlaceholder = "[ACCESS RESTRICTED] You don't have permission to access this document."

// NewAccessDeniedStub builds the sentinel candidate for a restricted
// document the user may not read.
func NewAccessDeniedStub(source, reason string) Candidate {
	return Candidate{
		Content: restrictedPlaceholder,
		Source:  source,
		Method:  MethodAccessDenied,
		Reason:  reason,
	}
}
