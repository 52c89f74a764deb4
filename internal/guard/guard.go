package guard

import (
	"github.com/mithibai-cc/ats-backend/internal/profile"
	"github.com/mithibai-cc/ats-backend/internal/session"
)

// Action is the outcome kind of a route-guard evaluation.
type Action int

const (
	Render Action = iota
	Wait
	Redirect
)

// Decision is the render/block/redirect outcome for a view.
type Decision struct {
	Action Action
	Target string
}

// View routes mirrored from the application's navigation map.
const (
	LoginRoute              = "/verification"
	UserDashboardRoute      = "/dashboard/user"
	CommitteeDashboardRoute = "/dashboard/committee"
	AdminDashboardRoute     = "/dashboard/admin"
)

// HomeFor maps a role to its dashboard. Unknown or empty roles land on
// the user dashboard.
func HomeFor(role profile.Role) string {
	switch role {
	case profile.RoleAdmin:
		return AdminDashboardRoute
	case profile.RoleCommittee:
		return CommitteeDashboardRoute
	default:
		return UserDashboardRoute
	}
}

// Evaluate decides whether a view renders, waits, or redirects for the
// given session state. required is empty for role-agnostic entry views.
//
// Pure function of its inputs; safe to re-evaluate on every render.
// Identity absence always wins over role mismatch.
func Evaluate(required profile.Role, st session.State) Decision {
	if st.Loading {
		return Decision{Action: Wait}
	}

	if st.Identity == nil {
		return Decision{Action: Redirect, Target: LoginRoute}
	}

	role := st.Role()

	if required != "" && role != required {
		return Decision{Action: Redirect, Target: HomeFor(role)}
	}

	// Entry views never render for an already-classified user.
	if required == "" && role != "" {
		return Decision{Action: Redirect, Target: HomeFor(role)}
	}

	return Decision{Action: Render}
}
