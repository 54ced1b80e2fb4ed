package identity

import (
	"context"
	"strings"

	"github.com/adbook/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User is a directory entry used to address notifications.
// Accounts are provisioned outside this service; the booking core only reads them.
type User struct {
	shared.BaseEntity
	Name   string
	Email  string
	Role   Role
	Active bool
}

// NewUser creates an active directory entry
func NewUser(name, email string, role Role) (*User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewValidationError("user name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("unknown role %q", role)
	}
	return &User{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Email:      strings.ToLower(strings.TrimSpace(email)),
		Role:       role,
		Active:     true,
	}, nil
}

// Actor returns the user as a workflow actor
func (u *User) Actor() Actor {
	return Actor{ID: u.ID, Role: u.Role}
}

// UserDirectory resolves notification recipients
type UserDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	// FindActiveIDsByRole returns the ids of active users holding any of the roles
	FindActiveIDsByRole(ctx context.Context, roles ...Role) ([]uuid.UUID, error)
	Save(ctx context.Context, user *User) error
}
