package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civitaslabs/planqd/internal/authz"
)

func TestIsAdminTopic(t *testing.T) {
	tests := []struct {
		query string
		want  bool
	}{
		{"Show me the city's budget forecast", true},
		{"What is the municipal bond performance this quarter?", true},
		{"Do the numbers justify tax breaks for this corridor project?", true},
		{"Show me all detailed metrics for the transit report", true},
		{"give me the revenue figures", true},
		{"What are the principles of transit-oriented development?", false},
		{"How do I plant a community garden?", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAdminTopic(tt.query))
		})
	}
}

func TestIsPlannerTopic(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"critical keyword alone", "What does zoning mean for my street?", true},
		{"exact phrase", "How do I file a conditional use permit?", true},
		{"two keywords", "Does the master plan cover parking requirements?", true},
		{"regulatory pattern", "Walk me through the permit process for a deck", true},
		{"mid-word substring match preserved", "The coordinance committee met today", true},
		{"single non-critical keyword", "Where can I see the master plan?", false},
		{"plain question", "When is the next farmers market?", false},
		{"empty query", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPlannerTopic(tt.query))
		})
	}
}

func TestIsTechnicalPlanningQuery(t *testing.T) {
	assert.True(t, IsTechnicalPlanningQuery("Explain the planning methodology for corridor studies"))
	assert.True(t, IsTechnicalPlanningQuery("How can we implement comprehensive zoning strategies?"))
	assert.False(t, IsTechnicalPlanningQuery("How do I report a pothole?"))
}

func TestClassifyCaseInsensitive(t *testing.T) {
	c := Classify("SHOW ME THE BUDGET FORECAST")
	assert.True(t, c.AdminTopic)

	c = Classify("ZONING VARIANCE ORDINANCE")
	assert.True(t, c.PlannerTopic)
}

func TestGateShouldDeny(t *testing.T) {
	gate := NewGate()

	adminTopicQuery := "Show me the budget forecast for next year"
	plannerTopicQuery := "What is the zoning variance ordinance for this parcel?"
	plainQuery := "How can I get involved in local planning?"

	tests := []struct {
		name      string
		roles     []authz.Role
		query     string
		wantDeny  bool
		wantWords string
	}{
		{
			name:  "admin never pre-denied on admin topic",
			roles: []authz.Role{authz.RoleAdmin},
			query: adminTopicQuery,
		},
		{
			name:  "admin never pre-denied on planner topic",
			roles: []authz.Role{authz.RoleAdmin},
			query: plannerTopicQuery,
		},
		{
			name:      "planner denied admin topic",
			roles:     []authz.Role{authz.RolePlanner},
			query:     adminTopicQuery,
			wantDeny:  true,
			wantWords: "administrative privileges",
		},
		{
			name:  "planner allowed planner topic",
			roles: []authz.Role{authz.RolePlanner},
			query: plannerTopicQuery,
		},
		{
			name:      "citizen denied admin topic",
			roles:     []authz.Role{authz.RoleCitizen},
			query:     adminTopicQuery,
			wantDeny:  true,
			wantWords: "administrative privileges",
		},
		{
			name:      "citizen denied planner topic",
			roles:     []authz.Role{authz.RoleCitizen},
			query:     plannerTopicQuery,
			wantDeny:  true,
			wantWords: "professional planning privileges",
		},
		{
			name:  "citizen allowed plain query",
			roles: []authz.Role{authz.RoleCitizen},
			query: plainQuery,
		},
		{
			name:  "planner role wins over citizen role in mixed set",
			roles: []authz.Role{authz.RolePlanner, authz.RoleCitizen},
			query: plannerTopicQuery,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deny, msg := gate.ShouldDeny(tt.roles, tt.query)
			assert.Equal(t, tt.wantDeny, deny)
			if tt.wantDeny {
				assert.True(t, strings.Contains(msg, tt.wantWords),
					"message %q should contain %q", msg, tt.wantWords)
			} else {
				assert.Empty(t, msg)
			}
		})
	}
}
