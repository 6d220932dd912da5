package retrieval

import (
	"sort"
	"strings"
)

// ExpansionTable maps query substrings to related search terms. It is an
// injectable value so alternative expansion strategies can be swapped in
// without touching the retrieval loop.
type ExpansionTable map[string][]string

// DefaultExpansions maps common question phrasings to the vocabulary the
// knowledge base actually uses.
func DefaultExpansions() ExpansionTable {
	return ExpansionTable{
		"get involved":    {"civic participation", "public engagement", "community involvement", "participation"},
		"participate":     {"civic participation", "public engagement", "community involvement", "citizen engagement"},
		"urban planning":  {"city planning", "urban design", "community development", "planning process"},
		"local planning":  {"city planning", "urban planning", "municipal planning", "community planning"},
		"initiatives":     {"programs", "projects", "development", "plans", "engagement"},
		"housing":         {"affordable housing", "residential development", "housing policy", "homes"},
		"transportation":  {"transit", "mobility", "complete streets", "transportation planning"},
		"sustainability":  {"sustainable development", "green infrastructure", "climate resilience"},
		"development":     {"urban development", "construction", "growth", "redevelopment"},
		"community":       {"neighborhood", "local", "public", "residents"},
		"budget cut":      {"municipal budget", "budget reduction", "budget planning", "fiscal management", "cost efficiency"},
		"trim budget":     {"municipal budget", "budget reduction", "fiscal management", "cost saving", "budget efficiency"},
		"reduce expenses": {"municipal budget", "cost cutting", "financial planning", "budget management", "efficiency"},
		"financial":       {"budget", "municipal finance", "fiscal planning", "economic impact", "revenue", "funding"},
	}
}

// civicEngagementTerms widen searches for how-to-participate questions,
// which rarely share vocabulary with the planning documents answering them.
var civicEngagementTerms = []string{
	"civic participation", "public participation", "community engagement",
	"public involvement", "citizen participation", "community input",
	"stakeholder engagement", "planning process",
}

// Expand produces the ordered list of search terms for a query: the
// lowercased query itself, its individual keywords (words longer than three
// characters), then expansion terms for every table key the query contains.
// The first entry is always the full query.
func (t ExpansionTable) Expand(query string) []string {
	processed := strings.ToLower(query)
	terms := []string{processed}

	for _, word := range strings.Fields(processed) {
		if len(word) > 3 {
			terms = append(terms, word)
		}
	}

	// Sorted key order keeps expansion deterministic across runs.
	keys := make([]string, 0, len(t))
	for key := range t {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if strings.Contains(processed, key) {
			terms = append(terms, t[key]...)
		}
	}

	if strings.Contains(processed, "get involved") ||
		(strings.Contains(processed, "how can i") && strings.Contains(processed, "local planning")) {
		terms = append(terms, civicEngagementTerms...)
	}

	return terms
}

// SingleWordTerms extracts the single-word entries from a term list, used
// for the lenient fallback search when expansion terms yield nothing.
func SingleWordTerms(terms []string) string {
	words := make([]string, 0, len(terms))
	for _, term := range terms {
		if len(strings.Fields(term)) == 1 {
			words = append(words, term)
		}
	}
	return strings.Join(words, " ")
}
