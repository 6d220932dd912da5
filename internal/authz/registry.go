package authz

import (
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Role is a user's access level.
type Role string

const (
	RoleCitizen Role = "citizen"
	RolePlanner Role = "planner"
	RoleAdmin   Role = "admin"
)

// User is a registered user with one or more roles.
type User struct {
	ID    string `koanf:"id"`
	Name  string `koanf:"name"`
	Roles []Role `koanf:"roles"`
}

// HasRole reports whether the user holds the given role.
func (u User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// DocumentInfo carries the registry attributes of a knowledge base document.
type DocumentInfo struct {
	// Restricted documents require elevated privilege independent of grants.
	Restricted bool `koanf:"restricted"`
}

// Registry is the read-only user/document/grant table set. It is built once
// at process start and never mutated afterwards, so it is safe for
// concurrent reads without locking.
type Registry struct {
	Users     map[string]User
	Documents map[string]DocumentInfo
	Grants    map[Role][]string
}

// registryFile is the YAML shape of an external registry override.
type registryFile struct {
	Users     []User                  `koanf:"users"`
	Documents map[string]DocumentInfo `koanf:"documents"`
	Grants    map[string][]string     `koanf:"grants"`
}

// LoadRegistry reads a registry from a YAML file.
func LoadRegistry(path string) (*Registry, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading registry file: %w", err)
	}

	k := koanf.New(".")
	if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("parsing registry file %s: %w", path, err)
	}

	var file registryFile
	if err := k.Unmarshal("", &file); err != nil {
		return nil, fmt.Errorf("unmarshaling registry file %s: %w", path, err)
	}

	reg := &Registry{
		Users:     make(map[string]User, len(file.Users)),
		Documents: file.Documents,
		Grants:    make(map[Role][]string, len(file.Grants)),
	}
	for _, u := range file.Users {
		if u.ID == "" {
			return nil, fmt.Errorf("registry file %s: user with empty id", path)
		}
		if len(u.Roles) == 0 {
			return nil, fmt.Errorf("registry file %s: user %q has no roles", path, u.ID)
		}
		reg.Users[u.ID] = u
	}
	for role, docs := range file.Grants {
		reg.Grants[Role(role)] = docs
	}
	if reg.Documents == nil {
		reg.Documents = map[string]DocumentInfo{}
	}
	return reg, nil
}

// NewDefaultRegistry returns the built-in urban planning knowledge base
// registry: three demo users and the document set with its restricted flags
// and per-role grant lists.
func NewDefaultRegistry() *Registry {
	return &Registry{
		Users: map[string]User{
			"planner1": {ID: "planner1", Name: "Alice", Roles: []Role{RolePlanner}},
			"citizen1": {ID: "citizen1", Name: "Bob", Roles: []Role{RoleCitizen}},
			"admin1":   {ID: "admin1", Name: "Charlie", Roles: []Role{RoleAdmin}},
		},
		Documents: map[string]DocumentInfo{
			"urban_planning_basics.txt":                      {Restricted: false},
			"smart_cities.txt":                               {Restricted: false},
			"sustainable_development.txt":                    {Restricted: false},
			"mixed_use_development.txt":                      {Restricted: false},
			"transit_oriented_development.txt":               {Restricted: false},
			"urban_density.txt":                              {Restricted: false},
			"affordable_housing.txt":                         {Restricted: false},
			"complete_streets.txt":                           {Restricted: false},
			"climate_resilient_planning.txt":                 {Restricted: false},
			"climate_resilient_planning_comprehensive.txt":   {Restricted: true},
			"civic_participation.txt":                        {Restricted: false},
			"urban_planning_history.txt":                     {Restricted: false},
			"urban_planning_principles.txt":                  {Restricted: false},
			"urban_economics_development.txt":                {Restricted: true},
			"commercial_development_planning.txt":            {Restricted: true},
			"public_engagement_processes.txt":                {Restricted: false},
			"urban_planning_comprehensive_faq.txt":           {Restricted: false},
			"urban_planning_faqs.txt":                        {Restricted: false},
			"urban_design_public_spaces.txt":                 {Restricted: false},
			"urban_density_quality_of_life.txt":              {Restricted: true},
			"transit_oriented_development_comprehensive.txt": {Restricted: true},
			"land_use_zoning.txt":                            {Restricted: true},
			"planning_professional_practice.txt":             {Restricted: true},
			"commercial_development_citizen_guide.txt":       {Restricted: false},
			"commercial_space_setup_guide.txt":               {Restricted: false},
		},
		Grants: map[Role][]string{
			RolePlanner: {
				"urban_planning_basics.txt",
				"smart_cities.txt",
				"sustainable_development.txt",
				"mixed_use_development.txt",
				"transit_oriented_development.txt",
				"urban_density.txt",
				"affordable_housing.txt",
				"complete_streets.txt",
				"climate_resilient_planning.txt",
				"climate_resilient_planning_comprehensive.txt",
				"civic_participation.txt",
				"urban_planning_history.txt",
				"urban_planning_principles.txt",
				"urban_planning_comprehensive_faq.txt",
				"urban_planning_faqs.txt",
				"planning_professional_practice.txt",
				"urban_design_public_spaces.txt",
				"urban_density_quality_of_life.txt",
				"transit_oriented_development_comprehensive.txt",
			},
			// Citizens see public-facing information only.
			RoleCitizen: {
				"smart_cities.txt",
				"mixed_use_development.txt",
				"complete_streets.txt",
				"affordable_housing.txt",
				"civic_participation.txt",
				"urban_planning_faqs.txt",
				"commercial_development_citizen_guide.txt",
				"commercial_space_setup_guide.txt",
				"urban_design_public_spaces.txt",
				"public_engagement_processes.txt",
			},
			// Admins get everything through the override in Policy, not grants.
			RoleAdmin: {},
		},
	}
}
