package usecase

import (
	"slices"

	domainErrors "github.com/polkiloo/eshop/internal/domain/errors"
	"github.com/polkiloo/eshop/internal/domain/model"
)

// Operation names an order workflow entry point guarded by the policy.
type Operation string

const (
	OpListAll      Operation = "orders.list_all"
	OpGetByID      Operation = "orders.get"
	OpListForUser  Operation = "orders.list_for_user"
	OpListByStatus Operation = "orders.list_by_status"
	OpCreate       Operation = "orders.create"
	OpUpdate       Operation = "orders.update"
	OpChangeStatus Operation = "orders.change_status"
	OpDelete       Operation = "orders.delete"
)

// Rule lists roles allowed to run an operation. With SelfOnly set, requesters
// without an elevated role may only act on their own orders.
type Rule struct {
	Roles    []model.Role
	SelfOnly bool
}

// Policy maps operations to access rules. Operations missing from the table are denied.
type Policy map[Operation]Rule

var (
	staffRoles = []model.Role{model.RoleAdmin, model.RoleRoot}
	anyRole    = []model.Role{model.RoleUser, model.RoleAdmin, model.RoleRoot}
)

// DefaultPolicy returns the access table used by the service.
func DefaultPolicy() Policy {
	return Policy{
		OpListAll:      {Roles: staffRoles},
		OpGetByID:      {Roles: staffRoles},
		OpListByStatus: {Roles: staffRoles},
		OpListForUser:  {Roles: anyRole, SelfOnly: true},
		OpCreate:       {Roles: anyRole, SelfOnly: true},
		OpUpdate:       {Roles: staffRoles},
		OpChangeStatus: {Roles: staffRoles},
		OpDelete:       {Roles: staffRoles},
	}
}

// Authorize checks that the requester holds one of the roles required by op.
func (p Policy) Authorize(req model.Requester, op Operation) error {
	if req.UserID == 0 {
		return domainErrors.ErrUnauthorized
	}
	rule, ok := p[op]
	if !ok {
		return domainErrors.ErrForbidden
	}
	for _, role := range req.Roles {
		if slices.Contains(rule.Roles, role) {
			return nil
		}
	}
	return domainErrors.ErrForbidden
}

// AuthorizeTarget checks the self rule of op for an operation scoped to ownerID.
func (p Policy) AuthorizeTarget(req model.Requester, op Operation, ownerID int64) error {
	if p[op].SelfOnly && !req.Elevated() && req.UserID != ownerID {
		return domainErrors.ErrForbidden
	}
	return nil
}

// AuthorizeLogin checks the self rule of op by login, ahead of any user lookup.
func (p Policy) AuthorizeLogin(req model.Requester, op Operation, login string) error {
	if p[op].SelfOnly && !req.Elevated() && req.Login != login {
		return domainErrors.ErrForbidden
	}
	return nil
}
