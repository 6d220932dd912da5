package classify

import (
	"regexp"
	"strings"
)

// sensitiveFinancialTerms are phrases that alone mark a query as admin-only.
var sensitiveFinancialTerms = []string{
	"budget forecast", "financial projection", "property tax revenue", "municipal bond performance",
	"development investment risk", "infrastructure maintenance cost", "roi analysis", "roi for",
	"debt service ratio", "capital improvement budget", "financing gap", "bond performance",
	"tax revenue projection", "financial metrics", "budget allocation", "cost analysis",
	"return on investment", "profit analysis", "financial performance", "investment return",
}

// adminQueryPatterns match financial, strategic, and sensitive-data phrasing
// that requires administrative privilege.
var adminQueryPatterns = []*regexp.Regexp{
	// Financial and budgetary
	regexp.MustCompile(`\b(?:budget|financial|finance|cost|revenue|tax|bond|investment|roi|profit|expense)\b.*\b(?:forecast|projection|analysis|data|metrics|numbers)\b`),
	regexp.MustCompile(`\b(?:show|give|provide).*\b(?:budget|financial|finance|revenue|tax)\b`),
	regexp.MustCompile(`\b(?:property tax|municipal bond|infrastructure cost|development investment|budget forecast)\b`),
	regexp.MustCompile(`\bdo the numbers justify\b`),
	regexp.MustCompile(`\b(?:financial performance|market projections|budget projections)\b`),
	regexp.MustCompile(`\b(?:debt service|financing|funding allocation|capital improvement)\b`),

	// Strategic planning and management
	regexp.MustCompile(`\b(?:strategic|management|administrative|departmental)\b.*\b(?:planning|coordination|restructur|workflow)\b`),
	regexp.MustCompile(`\b(?:staff|resource|budget).*\b(?:allocation|management|cut|reduction)\b`),
	regexp.MustCompile(`\b(?:interdepartmental|cross-departmental|coordination|collaboration)\b`),

	// Sensitive data requests
	regexp.MustCompile(`\b(?:confidential|internal|restricted|sensitive|classified)\b`),
	regexp.MustCompile(`\b(?:show me|give me|provide).*\b(?:all|complete|detailed|comprehensive)\b.*\b(?:data|metrics|analysis|report)\b`),
}

// IsAdminTopic reports whether the query asks for admin-level information.
// Pure function over the static term and pattern tables.
func IsAdminTopic(query string) bool {
	lower := strings.ToLower(query)

	for _, term := range sensitiveFinancialTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	for _, pattern := range adminQueryPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}
