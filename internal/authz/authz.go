// Package authz decides, for every operation and principal, whether
// the operation is permitted. It is a pure predicate layer: decisions
// depend only on the principal's role and id and on the id of the
// resource owner, never on stored state.
package authz

import (
	"github.com/hmuro/productivity-tracker/internal/models"
)

// Principal is the authenticated caller.
type Principal struct {
	ID   uint64
	Role models.Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

type Action string

const (
	ActionCreateTask       Action = "task:create"
	ActionListTasks        Action = "task:list"
	ActionReadTask         Action = "task:read"
	ActionUpdateTaskFields Action = "task:update-fields"
	ActionUpdateTaskStatus Action = "task:update-status"
	ActionDeleteTask       Action = "task:delete"
	ActionCommentTask      Action = "task:comment"

	ActionListUsers  Action = "user:list"
	ActionReadUser   Action = "user:read"
	ActionUpdateUser Action = "user:update"
	ActionDeleteUser Action = "user:delete"

	ActionViewPerformance Action = "analytics:performance"
	ActionViewDashboard   Action = "analytics:dashboard"
	ActionViewTeam        Action = "analytics:team"
)

// Decision is the outcome of an authorization check. Reason is set
// only on denial and is safe to surface to the caller.
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Reason: reason}
}

// rule states who may perform an action: admins when admin is set,
// employees when owner is set and the principal owns the resource.
type rule struct {
	admin bool
	owner bool
}

var rules = map[Action]rule{
	ActionCreateTask:       {admin: true},
	ActionListTasks:        {admin: true, owner: true},
	ActionReadTask:         {admin: true, owner: true},
	ActionUpdateTaskFields: {admin: true},
	ActionUpdateTaskStatus: {admin: true, owner: true},
	ActionDeleteTask:       {admin: true},
	ActionCommentTask:      {admin: true, owner: true},

	ActionListUsers:  {admin: true},
	ActionReadUser:   {admin: true, owner: true},
	ActionUpdateUser: {admin: true},
	ActionDeleteUser: {admin: true},

	ActionViewPerformance: {admin: true, owner: true},
	ActionViewDashboard:   {admin: true},
	ActionViewTeam:        {admin: true},
}

// CanPerform decides whether the principal may perform action on a
// resource owned by ownerID. For self-scoped actions (reading a user,
// viewing performance) ownerID is the target user's id; for unscoped
// admin actions it is ignored.
func CanPerform(p Principal, action Action, ownerID uint64) Decision {
	r, ok := rules[action]
	if !ok {
		return deny("unknown action")
	}

	switch p.Role {
	case models.RoleAdmin:
		if r.admin {
			return allow()
		}
	case models.RoleEmployee:
		if r.owner && p.ID == ownerID {
			return allow()
		}
	}

	return deny("role " + string(p.Role) + " is not permitted to perform " + string(action))
}
