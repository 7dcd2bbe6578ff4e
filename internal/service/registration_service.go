package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/NTying/VideoAppWebAPI/internal/repository"
)

// RegistrationService bootstraps an account: default role, user record and
// role membership, each created only if absent. Calling Register twice with
// the same username is a no-op on the second call; an existing user's email
// and password are left untouched.
type RegistrationService interface {
	Register(ctx context.Context, username, email, password string) error
}

type registrationService struct {
	creds       CredentialService
	roles       RoleService
	defaultRole string
	logger      *logrus.Logger
}

func NewRegistrationService(creds CredentialService, roles RoleService, defaultRole string, logger *logrus.Logger) RegistrationService {
	return &registrationService{
		creds:       creds,
		roles:       roles,
		defaultRole: defaultRole,
		logger:      logger,
	}
}

func (s *registrationService) Register(ctx context.Context, username, email, password string) error {
	exists, err := s.roles.RoleExists(ctx, s.defaultRole)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRoleCreation, err)
	}
	if !exists {
		if _, err := s.roles.CreateRole(ctx, s.defaultRole); err != nil {
			return fmt.Errorf("%w: %w", ErrRoleCreation, err)
		}
		s.logger.Infof("created default role %q", s.defaultRole)
	}

	user, err := s.creds.FindByUsername(ctx, username)
	if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
		return fmt.Errorf("%w: %w", ErrUserCreation, err)
	}
	if user == nil {
		user, err = s.creds.CreateUser(ctx, username, email, password)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUserCreation, err)
		}
	}

	member, err := s.roles.IsInRole(ctx, user.ID, s.defaultRole)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrRoleAssignment, err)
	}
	if !member {
		if err := s.roles.AddToRole(ctx, user.ID, s.defaultRole); err != nil {
			return fmt.Errorf("%w: %w", ErrRoleAssignment, err)
		}
	}

	return nil
}
