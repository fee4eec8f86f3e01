// Package auth verifies bearer tokens issued by the external identity
// provider and exposes the authenticated principal to handlers. Identity
// management itself lives outside this service; only the role claim matters
// here.
package auth

import (
	"context"
	"errors"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// Principal is the authenticated caller.
type Principal struct {
	UserID string
	Role   Role
}

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

type principalKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

func ValidRole(role Role) bool {
	switch role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	default:
		return false
	}
}
