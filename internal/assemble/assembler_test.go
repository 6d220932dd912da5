package assemble

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/retrieval"
)

func normal(content string) retrieval.Candidate {
	return retrieval.Candidate{Content: content, Source: "smart_cities.txt", Method: retrieval.MethodGraphDirect, Score: 0.8}
}

func denied() retrieval.Candidate {
	return retrieval.NewAccessDeniedStub("land_use_zoning.txt", "requires higher permissions")
}

func TestAssemble(t *testing.T) {
	t.Run("no restrictions joins content in order", func(t *testing.T) {
		got := Assemble([]retrieval.Candidate{normal("first"), normal("second")}, []authz.Role{authz.RoleCitizen})

		assert.Equal(t, "first\n\nsecond", got.Context)
		assert.Zero(t, got.RestrictedCount)
		assert.False(t, got.Suppressed)
	})

	t.Run("citizen loses everything on any restriction", func(t *testing.T) {
		got := Assemble([]retrieval.Candidate{normal("usable content"), denied()}, []authz.Role{authz.RoleCitizen})

		assert.Equal(t, citizenNotice, got.Context)
		assert.NotContains(t, got.Context, "usable content")
		assert.Equal(t, 1, got.RestrictedCount)
		assert.True(t, got.Suppressed)
	})

	t.Run("planner keeps content with a counted disclosure", func(t *testing.T) {
		got := Assemble([]retrieval.Candidate{normal("usable content"), denied(), denied()}, []authz.Role{authz.RolePlanner})

		assert.Contains(t, got.Context, "2 document(s)")
		assert.Contains(t, got.Context, "usable content")
		assert.Equal(t, 2, got.RestrictedCount)
		assert.False(t, got.Suppressed)
	})

	t.Run("admin treated like planner", func(t *testing.T) {
		got := Assemble([]retrieval.Candidate{normal("body"), denied()}, []authz.Role{authz.RoleAdmin})

		assert.Contains(t, got.Context, "1 document(s)")
		assert.Contains(t, got.Context, "body")
	})

	t.Run("mixed citizen and planner roles do not suppress", func(t *testing.T) {
		got := Assemble([]retrieval.Candidate{normal("body"), denied()}, []authz.Role{authz.RoleCitizen, authz.RolePlanner})

		assert.Contains(t, got.Context, "body")
		assert.False(t, got.Suppressed)
	})

	t.Run("only restrictions for planner yields notice alone", func(t *testing.T) {
		got := Assemble([]retrieval.Candidate{denied()}, []authz.Role{authz.RolePlanner})

		assert.Equal(t, "[ACCESS RESTRICTED: You don't have permission to access 1 document(s) related to this topic.]", got.Context)
	})

	t.Run("empty input yields empty context", func(t *testing.T) {
		got := Assemble(nil, []authz.Role{authz.RoleCitizen})

		assert.Empty(t, got.Context)
	})
}
