package classify

import (
	"github.com/civitaslabs/planqd/internal/authz"
)

// Classification is the topic-level privilege assessment of a query.
type Classification struct {
	AdminTopic   bool
	PlannerTopic bool
}

// Classify runs both detectors over the query. Deterministic, no I/O.
func Classify(query string) Classification {
	return Classification{
		AdminTopic:   IsAdminTopic(query),
		PlannerTopic: IsPlannerTopic(query) || IsTechnicalPlanningQuery(query),
	}
}

// Denial messages are complete user-facing responses, not error strings.
const (
	plannerAdminDenial = `[DENIED] ACCESS RESTRICTED

This query requires administrative privileges. The information you're requesting involves financial data, budget details, or strategic management information that is only available to administrative users.

As a planner, you have access to technical planning documents and professional guidance, but not to financial projections, budget data, or administrative strategic information.

Please contact your administrator if you need access to this information for official planning purposes.`

	citizenAdminDenial = `[DENIED] ACCESS RESTRICTED

This query requires administrative privileges. The information you're requesting involves financial data, budget details, or strategic management information that is only available to administrative users.

As a citizen, you have access to public information about urban planning concepts, community services, and general planning principles, but not to detailed financial data or administrative information.

For questions about city services, public programs, or general planning concepts, I'm happy to help with publicly available information.`

	citizenPlannerDenial = `[DENIED] ACCESS RESTRICTED

This query requires professional planning privileges. The information you're requesting involves technical planning documents, professional methodologies, or detailed implementation guidance that is only available to planning professionals.

As a citizen, you have access to public information about urban planning concepts, community involvement opportunities, and general planning principles.

For questions about how planning decisions affect your community or how to participate in planning processes, I'm happy to help with publicly available information.`
)

// Gate is the topic-level pre-retrieval access check. Cheap and
// document-independent; it runs before any backend is touched.
type Gate struct{}

// NewGate creates a Gate.
func NewGate() *Gate {
	return &Gate{}
}

// ShouldDeny decides whether the query is above the privilege of the given
// role set. Returns the denial message when denied; the message differs by
// which topic type triggered it.
//
// Admins are never pre-denied. Planners are denied only on admin topics.
// Citizens are denied on either topic type.
func (g *Gate) ShouldDeny(roles []authz.Role, query string) (bool, string) {
	c := Classify(query)
	return g.shouldDenyClassified(roles, c)
}

func (g *Gate) shouldDenyClassified(roles []authz.Role, c Classification) (bool, string) {
	if hasRole(roles, authz.RoleAdmin) {
		return false, ""
	}

	if hasRole(roles, authz.RolePlanner) {
		if c.AdminTopic {
			return true, plannerAdminDenial
		}
		return false, ""
	}

	if hasRole(roles, authz.RoleCitizen) {
		if c.AdminTopic {
			return true, citizenAdminDenial
		}
		if c.PlannerTopic {
			return true, citizenPlannerDenial
		}
	}
	return false, ""
}

func hasRole(roles []authz.Role, want authz.Role) bool {
	for _, r := range roles {
		if r == want {
			return true
		}
	}
	return false
}
