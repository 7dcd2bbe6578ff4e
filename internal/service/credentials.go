package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/NTying/VideoAppWebAPI/internal/domain"
	"github.com/NTying/VideoAppWebAPI/internal/repository"
)

// PasswordPolicy describes the character requirements enforced on new
// passwords.
type PasswordPolicy struct {
	MinLength        int
	RequireDigit     bool
	RequireLowercase bool
	RequireUppercase bool
	RequireSymbol    bool
}

// Validate checks the password against the policy.
func (p PasswordPolicy) Validate(password string) error {
	if len(password) < p.MinLength {
		return fmt.Errorf("password must be at least %d characters", p.MinLength)
	}
	var hasDigit, hasLower, hasUpper, hasSymbol bool
	for _, r := range password {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		default:
			hasSymbol = true
		}
	}
	if p.RequireDigit && !hasDigit {
		return errors.New("password must contain a digit")
	}
	if p.RequireLowercase && !hasLower {
		return errors.New("password must contain a lowercase letter")
	}
	if p.RequireUppercase && !hasUpper {
		return errors.New("password must contain an uppercase letter")
	}
	if p.RequireSymbol && !hasSymbol {
		return errors.New("password must contain a symbol")
	}
	return nil
}

// CredentialService owns password verification and the failure-counter and
// lockout transitions. It is the only component that touches password hashes.
type CredentialService interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	VerifyPassword(user *domain.User, password string) bool
	// RecordFailure bumps the user's failed-access counter atomically and
	// returns the lockout end when the configured threshold was crossed.
	RecordFailure(ctx context.Context, user *domain.User) (*time.Time, error)
	ResetFailures(ctx context.Context, user *domain.User) error
	CreateUser(ctx context.Context, username, email, password string) (*domain.User, error)
}

type credentialService struct {
	users            repository.UserRepository
	policy           PasswordPolicy
	lockoutThreshold int
	lockoutDuration  time.Duration
}

func NewCredentialService(users repository.UserRepository, policy PasswordPolicy, lockoutThreshold int, lockoutDuration time.Duration) CredentialService {
	return &credentialService{
		users:            users,
		policy:           policy,
		lockoutThreshold: lockoutThreshold,
		lockoutDuration:  lockoutDuration,
	}
}

func (s *credentialService) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.GetByUsername(ctx, username)
}

func (s *credentialService) VerifyPassword(user *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

func (s *credentialService) RecordFailure(ctx context.Context, user *domain.User) (*time.Time, error) {
	lockUntil := time.Now().UTC().Add(s.lockoutDuration)
	count, until, err := s.users.RecordFailure(ctx, user.ID, s.lockoutThreshold, lockUntil)
	if err != nil {
		return nil, err
	}
	user.FailedCount = count
	user.LockoutUntil = until
	return until, nil
}

func (s *credentialService) ResetFailures(ctx context.Context, user *domain.User) error {
	if err := s.users.ResetFailures(ctx, user.ID); err != nil {
		return err
	}
	user.FailedCount = 0
	user.LockoutUntil = nil
	return nil
}

func (s *credentialService) CreateUser(ctx context.Context, username, email, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	if username == "" {
		return nil, errors.New("username is required")
	}
	if err := s.policy.Validate(password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		Username:      username,
		Email:         email,
		PasswordHash:  string(hash),
		SecurityStamp: uuid.NewString(),
	}
	if _, err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
