package auth

import (
	"context"
	"slices"
)

// Role is a staff role carried in the token.
type Role string

const (
	RoleAdmin  Role = "ADMINISTRADOR"
	RoleHR     Role = "RRHH"
	RoleMentor Role = "MENTOR"
)

// Role sets used to gate routes.
var (
	Readers   = []Role{RoleAdmin, RoleHR, RoleMentor}
	Managers  = []Role{RoleAdmin, RoleHR}
	Recorders = []Role{RoleAdmin, RoleMentor}
	Admins    = []Role{RoleAdmin}
)

// ParseRole validates a role string from storage or a token.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	switch r {
	case RoleAdmin, RoleHR, RoleMentor:
		return r, true
	}
	return "", false
}

// Actor is the authenticated caller.
type Actor struct {
	ID   int64  `json:"id"`
	DNI  string `json:"dni"`
	Role Role   `json:"role"`
}

// HasRole reports whether the actor's role is in roles.
func (a Actor) HasRole(roles ...Role) bool {
	return slices.Contains(roles, a.Role)
}

type contextKey string

const actorKey contextKey = "actor"

// WithActor は context に認証済みの Actor をセットする
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey, a)
}

// ActorFromContext は context から Actor を取得する
func ActorFromContext(ctx context.Context) (Actor, bool) {
	a, ok := ctx.Value(actorKey).(Actor)
	return a, ok
}
