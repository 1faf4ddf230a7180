package repository

import (
	"database/sql"
	"time"

	"dha-governance/internal/models"
)

// MembershipRepository handles database operations for board memberships
type MembershipRepository struct {
	db *sql.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *sql.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Upsert creates or updates the membership for (board, user). A user has at
// most one membership row per board; re-upserting replaces it in place.
func (r *MembershipRepository) Upsert(member *models.BoardMember) error {
	query := `
		INSERT INTO board_members (board_id, user_oid, role, is_active, effective_from, effective_to, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (board_id, user_oid)
		DO UPDATE SET
			role = EXCLUDED.role,
			is_active = EXCLUDED.is_active,
			effective_from = EXCLUDED.effective_from,
			effective_to = EXCLUDED.effective_to,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRow(
		query,
		member.BoardID,
		member.UserOID,
		member.Role,
		member.IsActive,
		member.EffectiveFrom,
		member.EffectiveTo,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

// ListByBoard retrieves memberships for a board, joined to directory names
func (r *MembershipRepository) ListByBoard(boardID int64, includeInactive bool) ([]models.BoardMember, error) {
	query := `
		SELECT m.id, m.board_id, m.user_oid, m.role, m.is_active,
		       m.effective_from, m.effective_to, m.created_at, m.updated_at,
		       COALESCE(u.display_name, ''), COALESCE(u.email, '')
		FROM board_members m
		LEFT JOIN users u ON u.oid = m.user_oid
		WHERE m.board_id = $1 AND ($2 OR m.is_active)
		ORDER BY m.role DESC, m.created_at
	`

	rows, err := r.db.Query(query, boardID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice instead of nil to avoid JSON null
	members := []models.BoardMember{}
	for rows.Next() {
		var m models.BoardMember
		err := rows.Scan(
			&m.ID,
			&m.BoardID,
			&m.UserOID,
			&m.Role,
			&m.IsActive,
			&m.EffectiveFrom,
			&m.EffectiveTo,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.DisplayName,
			&m.Email,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

// GetMembership retrieves the membership row for (board, user)
func (r *MembershipRepository) GetMembership(boardID int64, userOID string) (*models.BoardMember, error) {
	var m models.BoardMember
	query := `
		SELECT id, board_id, user_oid, role, is_active, effective_from, effective_to, created_at, updated_at
		FROM board_members
		WHERE board_id = $1 AND user_oid = $2
	`

	err := r.db.QueryRow(query, boardID, userOID).Scan(
		&m.ID,
		&m.BoardID,
		&m.UserOID,
		&m.Role,
		&m.IsActive,
		&m.EffectiveFrom,
		&m.EffectiveTo,
		&m.CreatedAt,
		&m.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &m, nil
}

// CountEligibleVoters counts members currently inside their effective window
func (r *MembershipRepository) CountEligibleVoters(boardID int64, at time.Time) (int, error) {
	var count int
	query := `
		SELECT COUNT(*)
		FROM board_members
		WHERE board_id = $1
		  AND is_active
		  AND effective_from <= $2
		  AND (effective_to IS NULL OR effective_to > $2)
	`
	err := r.db.QueryRow(query, boardID, at).Scan(&count)
	return count, err
}

// ListEligibleVoters retrieves members currently inside their effective window
func (r *MembershipRepository) ListEligibleVoters(boardID int64, at time.Time) ([]models.BoardMember, error) {
	query := `
		SELECT m.id, m.board_id, m.user_oid, m.role, m.is_active,
		       m.effective_from, m.effective_to, m.created_at, m.updated_at,
		       COALESCE(u.display_name, ''), COALESCE(u.email, '')
		FROM board_members m
		LEFT JOIN users u ON u.oid = m.user_oid
		WHERE m.board_id = $1
		  AND m.is_active
		  AND m.effective_from <= $2
		  AND (m.effective_to IS NULL OR m.effective_to > $2)
		ORDER BY m.created_at
	`

	rows, err := r.db.Query(query, boardID, at)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []models.BoardMember{}
	for rows.Next() {
		var m models.BoardMember
		err := rows.Scan(
			&m.ID,
			&m.BoardID,
			&m.UserOID,
			&m.Role,
			&m.IsActive,
			&m.EffectiveFrom,
			&m.EffectiveTo,
			&m.CreatedAt,
			&m.UpdatedAt,
			&m.DisplayName,
			&m.Email,
		)
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}

	return members, rows.Err()
}
