package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/NTying/VideoAppWebAPI/internal/domain"
	"github.com/NTying/VideoAppWebAPI/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	security_stamp TEXT NOT NULL,
	failed_count INTEGER NOT NULL DEFAULT 0,
	lockout_until DATETIME,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, email, password_hash, security_stamp, failed_count, lockout_until, created_at, updated_at)
VALUES (?, ?, ?, ?, 0, NULL, ?, ?)`,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.SecurityStamp,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("user already exists: %w", err)
		}
		return 0, fmt.Errorf("insert user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, email, password_hash, security_stamp, failed_count, lockout_until, created_at, updated_at
FROM users
WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, email, password_hash, security_stamp, failed_count, lockout_until, created_at, updated_at
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

// RecordFailure bumps the counter and arms the lockout in one statement so
// the threshold check cannot race a concurrent increment.
func (r *UserRepository) RecordFailure(ctx context.Context, id int64, threshold int, lockUntil time.Time) (int, *time.Time, error) {
	row := r.db.QueryRowContext(ctx, `
UPDATE users
SET failed_count = failed_count + 1,
    lockout_until = CASE WHEN failed_count + 1 >= ? THEN ? ELSE lockout_until END,
    updated_at = ?
WHERE id = ?
RETURNING failed_count, lockout_until`,
		threshold,
		lockUntil.UTC(),
		time.Now().UTC(),
		id,
	)

	var count int
	var until sql.NullTime
	if err := row.Scan(&count, &until); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil, repository.ErrUserNotFound
		}
		return 0, nil, fmt.Errorf("record failed access: %w", err)
	}
	if until.Valid {
		t := until.Time
		return count, &t, nil
	}
	return count, nil, nil
}

func (r *UserRepository) ResetFailures(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `
UPDATE users
SET failed_count = 0, lockout_until = NULL, updated_at = ?
WHERE id = ?`,
		time.Now().UTC(),
		id,
	); err != nil {
		return fmt.Errorf("reset failed access: %w", err)
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...any) error
}) (*domain.User, error) {
	var user domain.User
	var lockout sql.NullTime
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.SecurityStamp,
		&user.FailedCount,
		&lockout,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	if lockout.Valid {
		t := lockout.Time
		user.LockoutUntil = &t
	}
	return &user, nil
}
