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

const createRolesTables = `
CREATE TABLE IF NOT EXISTS roles (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE,
	created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS user_roles (
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	role_id INTEGER NOT NULL REFERENCES roles(id) ON DELETE CASCADE,
	PRIMARY KEY (user_id, role_id)
);
`

type RoleRepository struct {
	db *sql.DB
}

func NewRoleRepository(db *sql.DB) repository.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createRolesTables); err != nil {
		return fmt.Errorf("create roles tables: %w", err)
	}
	return nil
}

func (r *RoleRepository) Create(ctx context.Context, role *domain.Role) (int64, error) {
	role.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO roles (name, created_at)
VALUES (?, ?)`,
		role.Name,
		role.CreatedAt,
	)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") {
			return 0, fmt.Errorf("role already exists: %w", err)
		}
		return 0, fmt.Errorf("insert role: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("role last insert id: %w", err)
	}
	role.ID = id
	return id, nil
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*domain.Role, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, name, created_at
FROM roles
WHERE name = ?`,
		name,
	)

	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRoleNotFound
		}
		return nil, fmt.Errorf("scan role: %w", err)
	}
	return &role, nil
}

func (r *RoleRepository) Exists(ctx context.Context, name string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM roles WHERE name = ?`, name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check role exists: %w", err)
	}
	return true, nil
}

func (r *RoleRepository) AddMember(ctx context.Context, userID, roleID int64) error {
	if _, err := r.db.ExecContext(ctx, `
INSERT INTO user_roles (user_id, role_id)
VALUES (?, ?)`,
		userID,
		roleID,
	); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "unique") || strings.Contains(strings.ToLower(err.Error()), "primary key") {
			return fmt.Errorf("membership already exists: %w", err)
		}
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

func (r *RoleRepository) IsMember(ctx context.Context, userID, roleID int64) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, `
SELECT 1 FROM user_roles WHERE user_id = ? AND role_id = ?`,
		userID,
		roleID,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("check membership: %w", err)
	}
	return true, nil
}

func (r *RoleRepository) RolesForUser(ctx context.Context, userID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT r.name
FROM roles r
JOIN user_roles ur ON ur.role_id = r.id
WHERE ur.user_id = ?
ORDER BY r.id`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query user roles: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan role name: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user roles: %w", err)
	}
	return names, nil
}
