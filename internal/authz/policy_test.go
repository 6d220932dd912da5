package authz

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckDocumentAccess(t *testing.T) {
	policy := NewPolicy(NewDefaultRegistry())

	tests := []struct {
		name        string
		userID      string
		source      string
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "unknown user",
			userID:      "ghost",
			source:      "smart_cities.txt",
			wantAllowed: false,
			wantReason:  "User not found in the system.",
		},
		{
			name:        "empty source",
			userID:      "citizen1",
			source:      "",
			wantAllowed: false,
			wantReason:  "Document source not specified.",
		},
		{
			name:        "citizen granted document",
			userID:      "citizen1",
			source:      "civic_participation.txt",
			wantAllowed: true,
		},
		{
			name:        "citizen denied restricted document",
			userID:      "citizen1",
			source:      "land_use_zoning.txt",
			wantAllowed: false,
			wantReason:  "Access denied: 'land_use_zoning.txt' requires administrative privileges.",
		},
		{
			name:        "citizen denied ungranted unrestricted document",
			userID:      "citizen1",
			source:      "urban_planning_history.txt",
			wantAllowed: false,
			wantReason:  "Access denied: 'urban_planning_history.txt' is not available for your role.",
		},
		{
			name:        "unknown document",
			userID:      "citizen1",
			source:      "secret_dossier.txt",
			wantAllowed: false,
			wantReason:  "Access denied: Document 'secret_dossier.txt' not found or requires higher permissions.",
		},
		{
			name:        "planner granted restricted document",
			userID:      "planner1",
			source:      "planning_professional_practice.txt",
			wantAllowed: true,
		},
		{
			name:        "full path reduced to basename",
			userID:      "citizen1",
			source:      "/srv/kb/docs/civic_participation.txt",
			wantAllowed: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := policy.CheckDocumentAccess(tt.userID, tt.source)
			assert.Equal(t, tt.wantAllowed, d.Allowed)
			assert.Equal(t, tt.wantReason, d.Reason)
		})
	}
}

// Admin access holds for every registry document, restricted or not, with no
// reason attached.
func TestAdminOverride(t *testing.T) {
	reg := NewDefaultRegistry()
	policy := NewPolicy(reg)

	for name := range reg.Documents {
		d := policy.CheckDocumentAccess("admin1", name)
		assert.True(t, d.Allowed, "admin denied %s", name)
		assert.Empty(t, d.Reason)
	}

	// Restricted document absent from every grant list still allowed.
	d := policy.CheckDocumentAccess("admin1", "urban_economics_development.txt")
	assert.True(t, d.Allowed)
	assert.Empty(t, d.Reason)
}

func TestIsRestricted(t *testing.T) {
	policy := NewPolicy(NewDefaultRegistry())

	assert.True(t, policy.IsRestricted("land_use_zoning.txt"))
	assert.True(t, policy.IsRestricted("/kb/land_use_zoning.txt"))
	assert.False(t, policy.IsRestricted("smart_cities.txt"))
	assert.False(t, policy.IsRestricted("unknown.txt"))
	assert.False(t, policy.IsRestricted(""))
}

func TestAccessibleDocuments(t *testing.T) {
	reg := NewDefaultRegistry()
	policy := NewPolicy(reg)

	citizen := policy.AccessibleDocuments("citizen1")
	assert.Len(t, citizen, len(reg.Grants[RoleCitizen]))
	assert.Contains(t, citizen, "civic_participation.txt")
	assert.NotContains(t, citizen, "land_use_zoning.txt")

	admin := policy.AccessibleDocuments("admin1")
	assert.Len(t, admin, len(reg.Documents))

	assert.Empty(t, policy.AccessibleDocuments("ghost"))
}

func TestLoadRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	content := `
users:
  - id: inspector1
    name: Dana
    roles: [planner, admin]
documents:
  inspections.txt:
    restricted: true
grants:
  planner:
    - inspections.txt
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	user, ok := reg.Users["inspector1"]
	require.True(t, ok)
	assert.True(t, user.HasRole(RoleAdmin))
	assert.True(t, reg.Documents["inspections.txt"].Restricted)
	assert.Equal(t, []string{"inspections.txt"}, reg.Grants[RolePlanner])

	_, err = LoadRegistry(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadRegistryRejectsInvalidUsers(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "registry.yaml")
	content := `
users:
  - id: rolefree
    name: Nobody
    roles: []
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := LoadRegistry(path)
	assert.ErrorContains(t, err, "no roles")
}
