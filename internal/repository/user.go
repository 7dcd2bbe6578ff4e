package repository

import (
	"context"
	"errors"
	"time"

	"github.com/NTying/VideoAppWebAPI/internal/domain"
)

// ErrUserNotFound is returned when no user matches the lookup key.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence operations for User entities, including
// the failure-counter and lockout state transitions.
type UserRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// RecordFailure increments the failed-access counter and, when the new
	// count reaches threshold, sets the lockout end to lockUntil. Increment
	// and threshold check happen in a single statement so concurrent failed
	// logins against the same account cannot lose updates. It returns the
	// new counter value and the lockout end, if any.
	RecordFailure(ctx context.Context, id int64, threshold int, lockUntil time.Time) (int, *time.Time, error)

	// ResetFailures zeroes the failed-access counter and clears any lockout.
	ResetFailures(ctx context.Context, id int64) error
}
