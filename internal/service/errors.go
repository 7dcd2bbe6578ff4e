package service

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials covers both unknown username and wrong password;
	// the two cases are deliberately indistinguishable to the caller.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrRoleCreation indicates the default role could not be created.
	ErrRoleCreation = errors.New("create role failed")
	// ErrUserCreation indicates the user record could not be created.
	ErrUserCreation = errors.New("create user failed")
	// ErrRoleAssignment indicates the role could not be assigned to the user.
	ErrRoleAssignment = errors.New("assign role failed")
)

// AccountLockedError is returned for login attempts against a locked account.
// It carries the instant the lockout ends.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account locked until %s", e.Until.Format(time.RFC3339))
}
