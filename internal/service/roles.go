package service

import (
	"context"

	"github.com/NTying/VideoAppWebAPI/internal/domain"
	"github.com/NTying/VideoAppWebAPI/internal/repository"
)

// RoleService exposes role existence, creation and membership operations.
type RoleService interface {
	RoleExists(ctx context.Context, name string) (bool, error)
	CreateRole(ctx context.Context, name string) (*domain.Role, error)
	IsInRole(ctx context.Context, userID int64, name string) (bool, error)
	AddToRole(ctx context.Context, userID int64, name string) error
	RolesFor(ctx context.Context, userID int64) ([]string, error)
}

type roleService struct {
	roles repository.RoleRepository
}

func NewRoleService(roles repository.RoleRepository) RoleService {
	return &roleService{roles: roles}
}

func (s *roleService) RoleExists(ctx context.Context, name string) (bool, error) {
	return s.roles.Exists(ctx, name)
}

func (s *roleService) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	role := &domain.Role{Name: name}
	if _, err := s.roles.Create(ctx, role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *roleService) IsInRole(ctx context.Context, userID int64, name string) (bool, error) {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return false, err
	}
	return s.roles.IsMember(ctx, userID, role.ID)
}

func (s *roleService) AddToRole(ctx context.Context, userID int64, name string) error {
	role, err := s.roles.GetByName(ctx, name)
	if err != nil {
		return err
	}
	return s.roles.AddMember(ctx, userID, role.ID)
}

func (s *roleService) RolesFor(ctx context.Context, userID int64) ([]string, error) {
	return s.roles.RolesForUser(ctx, userID)
}
