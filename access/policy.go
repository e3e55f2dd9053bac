// Package access decides whether a caller may invoke an endpoint.
package access

import (
	"errors"
	"fmt"
	"math"

	"school-api/model"
)

var (
	ErrForbidden     = errors.New("permission denied")
	ErrScopeMismatch = errors.New("permission denied for the requested grade or class")
)

// Policy is the authorization requirement of one endpoint.
//
// Roles lists the permitted roles; AnyRole admits every authenticated caller.
// ScopeFields names request fields a student's own identity must match. Teachers
// are never scope-checked.
type Policy struct {
	Roles       []model.Role
	AnyRole     bool
	ScopeFields []string
}

func Allow(roles ...model.Role) Policy {
	return Policy{Roles: roles}
}

// Authenticated admits any role.
func Authenticated() Policy {
	return Policy{AnyRole: true}
}

// Matching returns a copy of p that also requires students to match fields.
func (p Policy) Matching(fields ...string) Policy {
	p.ScopeFields = append(append([]string{}, p.ScopeFields...), fields...)
	return p
}

// Permits reports whether role is admitted, without looking at request scope.
func (p Policy) Permits(role model.Role) bool {
	if p.AnyRole {
		return role.Valid()
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Authorize checks identity against p. scoped holds the request's values for p.ScopeFields.
func Authorize(identity model.Identity, p Policy, scoped map[string]any) error {
	if !p.Permits(identity.Role) {
		return ErrForbidden
	}
	if len(p.ScopeFields) == 0 || identity.Role == model.RoleTeacher {
		return nil
	}

	for _, field := range p.ScopeFields {
		own, ok := identity.ScopeValue(field)
		if !ok {
			return fmt.Errorf("%w: unknown scope field %q", ErrScopeMismatch, field)
		}
		requested, ok := asInt(scoped[field])
		if !ok || requested != own {
			return ErrScopeMismatch
		}
	}
	return nil
}

func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	}
	return 0, false
}
