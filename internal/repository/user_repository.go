package repository

import (
	"database/sql"

	"github.com/lib/pq"

	"dha-governance/internal/models"
)

// UserRepository handles the local user directory mirror and permission
// lookups. Users are authenticated upstream; this table only mirrors the
// identity claims seen in tokens.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertFromClaims mirrors the token identity into the users table
func (r *UserRepository) UpsertFromClaims(oid, email, displayName string) (*models.User, error) {
	query := `
		INSERT INTO users (oid, email, display_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (oid) DO UPDATE SET
			email = EXCLUDED.email,
			display_name = CASE WHEN EXCLUDED.display_name <> '' THEN EXCLUDED.display_name ELSE users.display_name END,
			updated_at = NOW()
		RETURNING id, oid, email, display_name, is_active, created_at, updated_at
	`

	var user models.User
	err := r.db.QueryRow(query, oid, email, displayName).Scan(
		&user.ID,
		&user.OID,
		&user.Email,
		&user.DisplayName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// GetByOID retrieves a user by their directory object ID
func (r *UserRepository) GetByOID(oid string) (*models.User, error) {
	var user models.User
	query := `
		SELECT id, oid, email, display_name, is_active, created_at, updated_at
		FROM users
		WHERE oid = $1
	`

	err := r.db.QueryRow(query, oid).Scan(
		&user.ID,
		&user.OID,
		&user.Email,
		&user.DisplayName,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// HasPermission checks whether any of the given roles grants the permission key
func (r *UserRepository) HasPermission(roles []string, permissionKey string) (bool, error) {
	if len(roles) == 0 {
		return false, nil
	}

	var granted bool
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM roles r
			JOIN role_permissions rp ON rp.role_id = r.id
			JOIN permissions p ON p.id = rp.permission_id
			WHERE r.name = ANY($1) AND p.key = $2
		)
	`

	err := r.db.QueryRow(query, pq.Array(roles), permissionKey).Scan(&granted)
	return granted, err
}
