package domain

import "time"

// User represents an account of the system. Failure counting and lockout
// state live on the user row and are mutated only through the repository.
type User struct {
	ID            int64
	Username      string
	Email         string
	PasswordHash  string
	SecurityStamp string
	FailedCount   int
	LockoutUntil  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// LockedOut reports whether the user is locked out at the given instant.
func (u *User) LockedOut(now time.Time) bool {
	return u.LockoutUntil != nil && u.LockoutUntil.After(now)
}
