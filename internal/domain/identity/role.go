package identity

import (
	"strings"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role identifies which queue of the booking workflow an actor works.
type Role string

const (
	RoleClient   Role = "client"
	RoleManager  Role = "manager"
	RoleVP       Role = "vp"
	RolePVSir    Role = "pv_sir"
	RoleAccounts Role = "accounts"
	RoleIT       Role = "it"
	RoleMaterial Role = "material"
	RoleAdmin    Role = "admin"
)

// AllRoles returns every known role
func AllRoles() []Role {
	return []Role{
		RoleClient,
		RoleManager,
		RoleVP,
		RolePVSir,
		RoleAccounts,
		RoleIT,
		RoleMaterial,
		RoleAdmin,
	}
}

// IsValid checks if the role is a known role
func (r Role) IsValid() bool {
	switch r {
	case RoleClient, RoleManager, RoleVP, RolePVSir, RoleAccounts, RoleIT, RoleMaterial, RoleAdmin:
		return true
	}
	return false
}

// String returns the string representation
func (r Role) String() string {
	return string(r)
}

// IsStaff reports whether the role belongs to the publisher side
func (r Role) IsStaff() bool {
	return r.IsValid() && r != RoleClient
}

// ParseRole parses a role name, case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.NewValidationError("unknown role %q", s)
	}
	return r, nil
}

// Actor is the authenticated caller of an engine operation.
// Authentication happens outside the core; the engines trust these values.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// NewActor creates an actor, rejecting empty ids and unknown roles
func NewActor(id uuid.UUID, role Role) (Actor, error) {
	if id == uuid.Nil {
		return Actor{}, shared.NewValidationError("actor id is required")
	}
	if !role.IsValid() {
		return Actor{}, shared.NewValidationError("unknown role %q", role)
	}
	return Actor{ID: id, Role: role}, nil
}

// SystemActor is used for transitions the engines fire on their own
// (release order routing, expiry sweeps).
var SystemActor = Actor{ID: uuid.Nil, Role: RoleAdmin}

// IsSystem reports whether this is the internal system actor
func (a Actor) IsSystem() bool {
	return a.ID == uuid.Nil
}

// Can reports whether the actor's role is permitted to perform action
func (a Actor) Can(action Action) bool {
	return Permitted(a.Role, action)
}

// Require fails with Forbidden when the actor's role may not perform action
func (a Actor) Require(action Action) error {
	if !a.Can(action) {
		return shared.NewForbiddenError("role %s is not allowed to %s", a.Role, action)
	}
	return nil
}
