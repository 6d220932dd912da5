package classify

import (
	"regexp"
	"strings"
)

// plannerKeywords indicate planner-specific topics when several co-occur.
var plannerKeywords = []string{
	// Technical planning terms
	"zoning", "ordinance", "subdivision", "variance", "setback", "floor area ratio",
	"density bonus", "conditional use", "special permit", "site plan", "plat",
	"easement", "right of way", "eminent domain", "land use designation",

	// Professional planning processes
	"master plan", "comprehensive plan", "general plan", "strategic plan",
	"environmental impact", "traffic impact", "fiscal impact", "planning commission",
	"zoning board", "design review", "public hearing", "entitlement",

	// Technical regulations
	"building code", "fire code", "accessibility standards", "parking requirements",
	"landscaping requirements", "signage regulations", "historic preservation",
	"overlay district", "planned unit development", "mixed use zoning",

	// Infrastructure planning
	"utility planning", "infrastructure capacity", "capital improvement",
	"transportation planning", "transit oriented development", "complete streets",
	"stormwater management", "sewer capacity", "water system planning",

	// Economic development tools
	"tax increment financing", "redevelopment agency", "enterprise zone",
	"opportunity zone", "development agreement", "public private partnership",
	"economic impact analysis", "feasibility study", "market analysis",

	// Advanced planning concepts
	"growth boundary", "carrying capacity", "build out analysis",
	"demographic projection", "land supply analysis", "housing element",
	"circulation element", "open space element", "safety element",
}

// plannerPhrases are exact phrases that alone indicate a planner topic.
var plannerPhrases = []string{
	"planning commission approval",
	"zoning code amendment",
	"environmental review process",
	"development impact fees",
	"affordable housing requirements",
	"parking demand analysis",
	"traffic level of service",
	"general plan amendment",
	"specific plan development",
	"design guidelines compliance",
	"subdivision map approval",
	"conditional use permit",
	"variance application process",
	"historic designation process",
	"environmental impact report",
	"negative declaration",
	"categorical exemption",
	"development agreement negotiation",
	"inclusionary housing policy",
	"growth management strategy",
}

// criticalPlannerKeywords almost always indicate planner topics on their own.
var criticalPlannerKeywords = []string{
	"zoning", "ordinance", "variance", "conditional use", "planning commission",
	"environmental impact", "subdivision", "entitlement", "general plan",
}

// regulatoryPatterns match regulatory language regardless of keyword tables.
var regulatoryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`code\s+section`),
	regexp.MustCompile(`municipal\s+code`),
	regexp.MustCompile(`planning\s+regulation`),
	regexp.MustCompile(`development\s+standard`),
	regexp.MustCompile(`regulatory\s+requirement`),
	regexp.MustCompile(`permit\s+process`),
	regexp.MustCompile(`approval\s+process`),
	regexp.MustCompile(`compliance\s+with`),
}

// IsPlannerTopic reports whether the query is about topics that require
// planner privileges. Pure function over the static tables.
func IsPlannerTopic(query string) bool {
	if query == "" {
		return false
	}
	lower := strings.ToLower(query)

	// Exact phrase matches first (higher confidence).
	for _, phrase := range plannerPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	// Two or more planning keywords make a planner topic likely.
	count := 0
	for _, keyword := range plannerKeywords {
		if strings.Contains(lower, keyword) {
			count++
			if count >= 2 {
				return true
			}
		}
	}

	for _, keyword := range criticalPlannerKeywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	for _, pattern := range regulatoryPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}

// technicalPlanningTerms mirror the planner-only vocabulary used by the
// admin/planner split in the gate's planner check.
var technicalPlanningTerms = []string{
	"comprehensive planning", "zoning ordinance", "development control rules", "planning methodology",
	"spatial analysis", "land use planning", "technical standards", "professional practice",
	"urban density analysis", "transit oriented development technical", "climate resilient planning comprehensive",
}

// plannerQueryPatterns match technical planning phrasing for the gate.
var plannerQueryPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(?:zoning|land use|tod|transit.oriented|form.based codes|mixed.use)\b.*\b(?:implementation|technical|professional|practice|comprehensive|strategy|strategies)\b`),
	regexp.MustCompile(`\b(?:climate resilient|comprehensive|technical)\b.*\b(?:planning|development|strategy|strategies)\b`),
	regexp.MustCompile(`\b(?:urban density|professional practice|commercial development)\b.*\b(?:planning|technical|analysis)\b`),
	regexp.MustCompile(`\b(?:development control|building bylaws|planning standards|zoning ordinance)\b`),
	regexp.MustCompile(`\b(?:implement|implementing).*\b(?:comprehensive|zoning|planning)\b.*\b(?:strategies|strategy|approach)\b`),
	regexp.MustCompile(`\b(?:spatial analysis|gis|mapping|modeling|forecasting)\b.*\b(?:technical|professional|planning)\b`),
	regexp.MustCompile(`\b(?:planning methodology|technical standards|professional guidelines)\b`),
	regexp.MustCompile(`\b(?:environmental impact|traffic study|market analysis)\b.*\b(?:technical|professional)\b`),
}

// IsTechnicalPlanningQuery reports whether the query uses the narrower
// technical-planning vocabulary the gate checks for citizens.
func IsTechnicalPlanningQuery(query string) bool {
	lower := strings.ToLower(query)

	for _, term := range technicalPlanningTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}
	for _, pattern := range plannerQueryPatterns {
		if pattern.MatchString(lower) {
			return true
		}
	}
	return false
}
