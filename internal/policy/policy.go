// Package policy is the single access-control table for every entity
// operation. Anything the table does not grant is denied.
package policy

import (
	"fmt"

	"natesa/backend/internal/model"
	pkgerrors "natesa/backend/pkg/errors"
)

// Operation a request performs against an entity.
type Operation int

const (
	OpList Operation = iota
	OpRead
	OpCreate
	OpUpdate
	OpDelete
)

func (o Operation) String() string {
	switch o {
	case OpList:
		return "list"
	case OpRead:
		return "read"
	case OpCreate:
		return "create"
	case OpUpdate:
		return "update"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Entity names a record type guarded by the policy.
type Entity string

const (
	EntityUser   Entity = "user"
	EntityBranch Entity = "branch"
	EntityAlumni Entity = "alumni"
	EntityEvent  Entity = "event"
	EntityNews   Entity = "news"
)

// Access how much of an entity a role reaches for one operation.
type Access int

const (
	AccessNone Access = iota
	AccessSelf
	AccessOwnBranch
	AccessAll
)

// Identity the authenticated caller. The zero value is anonymous.
type Identity struct {
	UserID   uint
	Role     string
	BranchID *uint
}

// Anonymous identity for unauthenticated requests.
func Anonymous() Identity { return Identity{} }

// IsAnonymous reports whether no user is attached to the request.
func (i Identity) IsAnonymous() bool { return i.UserID == 0 && i.Role == "" }

// Scope facts about the target record the decision depends on.
type Scope struct {
	BranchID *uint
	OwnerID  uint
}

// BranchScope scope of a record owned by a branch.
func BranchScope(branchID uint) Scope { return Scope{BranchID: &branchID} }

// ListFilter the implicit restriction a caller's list query must carry.
type ListFilter struct {
	BranchID *uint
	OwnerID  *uint
}

var (
	ErrBranchUnassigned = pkgerrors.Configuration("bec account has no branch assigned")
	ErrOutsideBranch    = pkgerrors.Forbidden("record belongs to another branch")
	ErrNotSelf          = pkgerrors.Forbidden("only the record owner may perform this action")
	ErrRoleGrant        = pkgerrors.Forbidden("caller may not assign this role")
	ErrPrivilegedField  = pkgerrors.Forbidden("caller may not change role, branch, status or office fields")
)

// PrivilegedUserFields user columns a self-scoped writer may not change.
var PrivilegedUserFields = []string{"role", "branch_id", "status", "is_bec_member", "nec_position", "bec_position"}

const roleAnonymous = ""

type grants map[Entity]map[Operation]Access

func ops(list, read, create, update, del Access) map[Operation]Access {
	return map[Operation]Access{
		OpList:   list,
		OpRead:   read,
		OpCreate: create,
		OpUpdate: update,
		OpDelete: del,
	}
}

const (
	none   = AccessNone
	self   = AccessSelf
	branch = AccessOwnBranch
	all    = AccessAll
)

// table role → entity → operation → access
var table = map[string]grants{
	roleAnonymous: {
		EntityUser:   ops(none, none, all, none, none),
		EntityBranch: ops(all, all, none, none, none),
		EntityEvent:  ops(all, all, none, none, none),
		EntityNews:   ops(all, all, none, none, none),
	},
	model.RoleAdmin: {
		EntityUser:   ops(all, all, all, all, all),
		EntityBranch: ops(all, all, all, all, all),
		EntityAlumni: ops(all, all, all, all, all),
		EntityEvent:  ops(all, all, all, all, all),
		EntityNews:   ops(all, all, all, all, all),
	},
	model.RoleNEC: {
		EntityUser:   ops(all, all, all, all, all),
		EntityBranch: ops(all, all, none, none, none),
		EntityAlumni: ops(all, all, all, all, all),
		EntityEvent:  ops(all, all, all, all, all),
		EntityNews:   ops(all, all, all, all, all),
	},
	model.RoleBEC: {
		EntityUser:   ops(branch, all, branch, branch, branch),
		EntityBranch: ops(all, all, none, none, none),
		EntityAlumni: ops(branch, branch, branch, branch, branch),
		EntityEvent:  ops(all, all, branch, branch, branch),
		EntityNews:   ops(all, all, branch, branch, branch),
	},
	model.RoleMember: {
		EntityUser:   ops(none, all, none, self, self),
		EntityBranch: ops(all, all, none, none, none),
		EntityEvent:  ops(all, all, none, none, none),
		EntityNews:   ops(all, all, none, none, none),
	},
	model.RoleAlumni: {
		EntityUser:   ops(none, all, none, self, self),
		EntityBranch: ops(all, all, none, none, none),
		EntityAlumni: ops(self, self, none, none, none),
		EntityEvent:  ops(all, all, none, none, none),
		EntityNews:   ops(all, all, none, none, none),
	},
}

// AccessFor looks up the table. Unknown roles, entities and operations get AccessNone.
func AccessFor(id Identity, op Operation, entity Entity) Access {
	role := id.Role
	if id.IsAnonymous() {
		role = roleAnonymous
	} else if role == roleAnonymous {
		return AccessNone
	}
	byEntity, ok := table[role]
	if !ok {
		return AccessNone
	}
	byOp, ok := byEntity[entity]
	if !ok {
		return AccessNone
	}
	return byOp[op]
}

// Authorize returns nil when id may perform op on a record with the given scope.
// For OpList the scope is ignored; use ListScope to obtain the query filter.
func Authorize(id Identity, op Operation, entity Entity, scope Scope) error {
	switch AccessFor(id, op, entity) {
	case AccessAll:
		return nil
	case AccessOwnBranch:
		if id.BranchID == nil {
			return ErrBranchUnassigned
		}
		if op == OpList {
			return nil
		}
		if scope.BranchID == nil || *scope.BranchID != *id.BranchID {
			return ErrOutsideBranch
		}
		return nil
	case AccessSelf:
		if id.UserID == 0 {
			return ErrNotSelf
		}
		if op == OpList {
			return nil
		}
		if scope.OwnerID != id.UserID {
			return ErrNotSelf
		}
		return nil
	default:
		return deny(id, op, entity)
	}
}

// ListScope authorizes a list and returns the filter the query must apply.
func ListScope(id Identity, entity Entity) (ListFilter, error) {
	if err := Authorize(id, OpList, entity, Scope{}); err != nil {
		return ListFilter{}, err
	}
	switch AccessFor(id, OpList, entity) {
	case AccessOwnBranch:
		b := *id.BranchID
		return ListFilter{BranchID: &b}, nil
	case AccessSelf:
		u := id.UserID
		return ListFilter{OwnerID: &u}, nil
	default:
		return ListFilter{}, nil
	}
}

// CanGrant checks whether id may create or move a user into role.
func CanGrant(id Identity, role string) error {
	var allowed []string
	switch {
	case id.IsAnonymous():
		allowed = []string{model.RoleMember, model.RoleAlumni}
	case id.Role == model.RoleAdmin:
		return nil
	case id.Role == model.RoleNEC:
		allowed = []string{model.RoleNEC, model.RoleBEC, model.RoleMember, model.RoleAlumni}
	case id.Role == model.RoleBEC:
		allowed = []string{model.RoleBEC, model.RoleMember, model.RoleAlumni}
	}
	if model.IsOneOf(role, allowed) {
		return nil
	}
	return ErrRoleGrant
}

func deny(id Identity, op Operation, entity Entity) error {
	role := id.Role
	if id.IsAnonymous() {
		return pkgerrors.Forbidden(fmt.Sprintf("authentication required to %s %s", op, entity))
	}
	return pkgerrors.Forbidden(fmt.Sprintf("role %q may not %s %s", role, op, entity))
}
