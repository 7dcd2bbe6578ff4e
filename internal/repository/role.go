package repository

import (
	"context"
	"errors"

	"github.com/NTying/VideoAppWebAPI/internal/domain"
)

// ErrRoleNotFound is returned when no role matches the lookup key.
var ErrRoleNotFound = errors.New("role not found")

// RoleRepository defines persistence operations for roles and memberships.
type RoleRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, role *domain.Role) (int64, error)
	GetByName(ctx context.Context, name string) (*domain.Role, error)
	Exists(ctx context.Context, name string) (bool, error)

	// AddMember assigns the role to the user. Assigning an existing
	// membership again is an error surfaced by the unique constraint.
	AddMember(ctx context.Context, userID, roleID int64) error
	IsMember(ctx context.Context, userID, roleID int64) (bool, error)

	// RolesForUser returns the names of the user's roles in role-id order.
	RolesForUser(ctx context.Context, userID int64) ([]string, error)
}
