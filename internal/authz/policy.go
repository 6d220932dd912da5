package authz

import (
	"fmt"
	"path/filepath"
)

// Decision is the outcome of a per-document access check. Reason is empty
// when access is allowed.
type Decision struct {
	Allowed bool
	Reason  string
}

// Policy answers per-document access questions against a Registry.
type Policy struct {
	reg *Registry
}

// NewPolicy creates a Policy over the given registry.
func NewPolicy(reg *Registry) *Policy {
	return &Policy{reg: reg}
}

// User looks up a registered user by ID.
func (p *Policy) User(userID string) (User, bool) {
	u, ok := p.reg.Users[userID]
	return u, ok
}

// CheckDocumentAccess decides whether userID may read the document at
// source. Source may be a full path; only the basename is consulted.
//
// The denial reason distinguishes three cases: the document is restricted,
// the document exists but is not granted to any of the user's roles, or the
// document is unknown to the registry.
func (p *Policy) CheckDocumentAccess(userID, source string) Decision {
	user, ok := p.reg.Users[userID]
	if !ok {
		return Decision{Reason: "User not found in the system."}
	}
	if source == "" {
		return Decision{Reason: "Document source not specified."}
	}

	name := filepath.Base(source)

	// Admin override beats every other rule, including the restricted flag.
	if user.HasRole(RoleAdmin) {
		return Decision{Allowed: true}
	}

	for _, role := range user.Roles {
		for _, granted := range p.reg.Grants[role] {
			if granted == name {
				return Decision{Allowed: true}
			}
		}
	}

	if info, exists := p.reg.Documents[name]; exists {
		if info.Restricted {
			return Decision{Reason: fmt.Sprintf("Access denied: '%s' requires administrative privileges.", name)}
		}
		return Decision{Reason: fmt.Sprintf("Access denied: '%s' is not available for your role.", name)}
	}
	return Decision{Reason: fmt.Sprintf("Access denied: Document '%s' not found or requires higher permissions.", name)}
}

// IsRestricted reports whether the document at source carries the restricted
// flag, independent of any user. Used by retrieval to decide whether a denied
// hit surfaces as an access-denied stub or is dropped silently.
func (p *Policy) IsRestricted(source string) bool {
	if source == "" {
		return false
	}
	return p.reg.Documents[filepath.Base(source)].Restricted
}

// AccessibleDocuments returns the set of document names userID may read:
// the union of grants across the user's roles, or the full registry for
// admins. Unknown users get an empty set.
func (p *Policy) AccessibleDocuments(userID string) map[string]struct{} {
	docs := make(map[string]struct{})
	user, ok := p.reg.Users[userID]
	if !ok {
		return docs
	}

	if user.HasRole(RoleAdmin) {
		for name := range p.reg.Documents {
			docs[name] = struct{}{}
		}
		return docs
	}

	for _, role := range user.Roles {
		for _, granted := range p.reg.Grants[role] {
			docs[granted] = struct{}{}
		}
	}
	return docs
}
