package repository

import (
	"database/sql"

	"dha-governance/internal/models"
)

// BoardRepository handles database operations for governance boards
type BoardRepository struct {
	db *sql.DB
}

// NewBoardRepository creates a new board repository
func NewBoardRepository(db *sql.DB) *BoardRepository {
	return &BoardRepository{db: db}
}

// Create inserts a new board
func (r *BoardRepository) Create(board *models.Board) error {
	query := `
		INSERT INTO boards (name, is_active, created_by_oid)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRow(query, board.Name, board.IsActive, board.CreatedByOID).
		Scan(&board.ID, &board.CreatedAt, &board.UpdatedAt)
}

// GetByID retrieves a board by ID
func (r *BoardRepository) GetByID(id int64) (*models.Board, error) {
	var board models.Board
	query := `
		SELECT id, name, is_active, created_by_oid, created_at, updated_at
		FROM boards
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&board.ID,
		&board.Name,
		&board.IsActive,
		&board.CreatedByOID,
		&board.CreatedAt,
		&board.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &board, nil
}

// Update updates a board's name and active flag
func (r *BoardRepository) Update(board *models.Board) error {
	query := `
		UPDATE boards
		SET name = $1, is_active = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at
	`

	return r.db.QueryRow(query, board.Name, board.IsActive, board.ID).Scan(&board.UpdatedAt)
}

// List retrieves boards with their current active member counts
func (r *BoardRepository) List(includeInactive bool) ([]models.BoardWithStats, error) {
	query := `
		SELECT b.id, b.name, b.is_active, b.created_by_oid, b.created_at, b.updated_at,
		       COUNT(m.id) FILTER (
		           WHERE m.is_active
		             AND m.effective_from <= NOW()
		             AND (m.effective_to IS NULL OR m.effective_to > NOW())
		       ) AS active_member_count
		FROM boards b
		LEFT JOIN board_members m ON m.board_id = b.id
		WHERE ($1 OR b.is_active)
		GROUP BY b.id
		ORDER BY b.name
	`

	rows, err := r.db.Query(query, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice instead of nil to avoid JSON null
	boards := []models.BoardWithStats{}
	for rows.Next() {
		var b models.BoardWithStats
		err := rows.Scan(
			&b.ID,
			&b.Name,
			&b.IsActive,
			&b.CreatedByOID,
			&b.CreatedAt,
			&b.UpdatedAt,
			&b.ActiveMemberCount,
		)
		if err != nil {
			return nil, err
		}
		boards = append(boards, b)
	}

	return boards, rows.Err()
}
