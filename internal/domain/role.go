package domain

import "time"

// Role is a named group users can be assigned to. Membership is carried by
// the user_roles relation; a (user, role) pair exists at most once.
type Role struct {
	ID        int64
	Name      string
	CreatedAt time.Time
}
