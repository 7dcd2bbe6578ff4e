package service

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/NTying/VideoAppWebAPI/internal/cache"
	"github.com/NTying/VideoAppWebAPI/internal/repository"
	"github.com/NTying/VideoAppWebAPI/internal/token"
)

const cacheWriteTimeout = 10 * time.Second

// AuthService authenticates users and issues bearer tokens.
type AuthService interface {
	// Login verifies the credentials and returns a signed token. It fails
	// with ErrInvalidCredentials for an unknown user or wrong password and
	// with *AccountLockedError while the account is locked out.
	Login(ctx context.Context, username, password string) (string, error)
}

type authService struct {
	creds    CredentialService
	roles    RoleService
	issuer   *token.Issuer
	sessions *cache.Cache[string]
	logger   *logrus.Logger
}

func NewAuthService(creds CredentialService, roles RoleService, issuer *token.Issuer, sessions *cache.Cache[string], logger *logrus.Logger) AuthService {
	return &authService{
		creds:    creds,
		roles:    roles,
		issuer:   issuer,
		sessions: sessions,
		logger:   logger,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.creds.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// No counter exists for an absent user; fail without side effects.
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if user.LockedOut(time.Now()) {
		return "", &AccountLockedError{Until: *user.LockoutUntil}
	}

	if !s.creds.VerifyPassword(user, password) {
		until, err := s.creds.RecordFailure(ctx, user)
		if err != nil {
			return "", err
		}
		if until != nil {
			s.logger.Warnf("account %q locked until %s after repeated failures", user.Username, until.Format(time.RFC3339))
		}
		return "", ErrInvalidCredentials
	}

	if err := s.creds.ResetFailures(ctx, user); err != nil {
		return "", err
	}

	roles, err := s.roles.RolesFor(ctx, user.ID)
	if err != nil {
		return "", err
	}

	signed, err := s.issuer.Issue(user.Username, roles)
	if err != nil {
		return "", err
	}

	// The cache is best effort and must not hold up the response: the
	// write runs detached from the request with its own deadline, and a
	// failure is logged, never surfaced.
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), cacheWriteTimeout)
		defer cancel()
		if err := s.sessions.Set(cacheCtx, user.Username, signed); err != nil {
			s.logger.Warnf("cache session for %q: %v", user.Username, err)
		}
	}()

	return signed, nil
}
