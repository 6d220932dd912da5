package assemble

import (
	"fmt"
	"strings"

	"github.com/civitaslabs/planqd/internal/authz"
	"github.com/civitaslabs/planqd/internal/retrieval"
)

// citizenNotice is the entire context for a citizen query that touched
// restricted material. Normal content is discarded, never partially shown.
const citizenNotice = "[ACCESS RESTRICTED: This information requires planner privileges. Please contact a planning professional for assistance.]"

// elevatedNoticeFormat discloses how many documents were withheld from a
// planner or admin alongside the content they may read.
const elevatedNoticeFormat = "[ACCESS RESTRICTED: You don't have permission to access %d document(s) related to this topic.]"

// Result is the assembled context plus what the caller needs to decide on
// fallbacks and logging.
type Result struct {
	// Context is the text block placed into the generation prompt. Empty
	// when retrieval produced nothing usable.
	Context string

	// RestrictedCount is the number of access-denied candidates seen.
	RestrictedCount int

	// Suppressed reports that restriction policy discarded all normal
	// content for this role set.
	Suppressed bool
}

// Assemble builds the generation context from ranked candidates for a user
// holding the given roles. Normal content is joined with blank lines in rank
// order; restricted candidates trigger the role-dependent notice.
func Assemble(ranked []retrieval.Candidate, roles []authz.Role) Result {
	var normal []string
	restricted := 0
	for _, c := range ranked {
		if c.Method == retrieval.MethodAccessDenied {
			restricted++
			continue
		}
		normal = append(normal, c.Content)
	}

	if restricted == 0 {
		return Result{Context: strings.Join(normal, "\n\n")}
	}

	if citizenOnly(roles) {
		return Result{
			Context:         citizenNotice,
			RestrictedCount: restricted,
			Suppressed:      true,
		}
	}

	notice := fmt.Sprintf(elevatedNoticeFormat, restricted)
	parts := append([]string{notice}, normal...)
	return Result{
		Context:         strings.Join(parts, "\n\n"),
		RestrictedCount: restricted,
	}
}

// citizenOnly reports whether the role set carries no elevated role.
func citizenOnly(roles []authz.Role) bool {
	for _, r := range roles {
		if r == authz.RolePlanner || r == authz.RoleAdmin {
			return false
		}
	}
	return true
}
