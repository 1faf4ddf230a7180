package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"dha-governance/internal/models"
)

// CriteriaRepository handles database operations for criteria versions
type CriteriaRepository struct {
	db *sql.DB
}

// NewCriteriaRepository creates a new criteria repository
func NewCriteriaRepository(db *sql.DB) *CriteriaRepository {
	return &CriteriaRepository{db: db}
}

// BeginTx starts a transaction for the publish swap
func (r *CriteriaRepository) BeginTx() (*sql.Tx, error) {
	return r.db.Begin()
}

// CreateDraft inserts a new draft version with the next version number for the
// board. The (board_id, version_no) unique constraint backs the assignment
// against concurrent creates.
func (r *CriteriaRepository) CreateDraft(version *models.CriteriaVersion) error {
	criteriaJSON, err := json.Marshal(version.Criteria)
	if err != nil {
		return fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `
		INSERT INTO criteria_versions (board_id, version_no, status, criteria, created_by_oid)
		SELECT $1, COALESCE(MAX(version_no), 0) + 1, 'draft', $2, $3
		FROM criteria_versions
		WHERE board_id = $1
		RETURNING id, version_no, status, created_at, updated_at
	`

	return r.db.QueryRow(query, version.BoardID, criteriaJSON, version.CreatedByOID).Scan(
		&version.ID,
		&version.VersionNo,
		&version.Status,
		&version.CreatedAt,
		&version.UpdatedAt,
	)
}

// GetByID retrieves a criteria version by ID
func (r *CriteriaRepository) GetByID(id int64) (*models.CriteriaVersion, error) {
	query := `
		SELECT id, board_id, version_no, status, criteria, published_at, published_by_oid,
		       created_by_oid, created_at, updated_at
		FROM criteria_versions
		WHERE id = $1
	`
	return r.scanVersion(r.db.QueryRow(query, id))
}

// UpdateDraftCriteria replaces the criteria of a version, only while it is
// still a draft. Returns false when the version is no longer a draft.
func (r *CriteriaRepository) UpdateDraftCriteria(versionID int64, criteria []models.Criterion) (bool, error) {
	criteriaJSON, err := json.Marshal(criteria)
	if err != nil {
		return false, fmt.Errorf("failed to marshal criteria: %w", err)
	}

	query := `
		UPDATE criteria_versions
		SET criteria = $1, updated_at = NOW()
		WHERE id = $2 AND status = 'draft'
	`

	result, err := r.db.Exec(query, criteriaJSON, versionID)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}

// GetPublished retrieves the board's currently published version, nil if none
func (r *CriteriaRepository) GetPublished(boardID int64) (*models.CriteriaVersion, error) {
	query := `
		SELECT id, board_id, version_no, status, criteria, published_at, published_by_oid,
		       created_by_oid, created_at, updated_at
		FROM criteria_versions
		WHERE board_id = $1 AND status = 'published'
	`
	return r.scanVersion(r.db.QueryRow(query, boardID))
}

// ListByBoard retrieves all versions for a board, newest first
func (r *CriteriaRepository) ListByBoard(boardID int64) ([]models.CriteriaVersion, error) {
	query := `
		SELECT id, board_id, version_no, status, criteria, published_at, published_by_oid,
		       created_by_oid, created_at, updated_at
		FROM criteria_versions
		WHERE board_id = $1
		ORDER BY version_no DESC
	`

	rows, err := r.db.Query(query, boardID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Initialize with empty slice instead of nil to avoid JSON null
	versions := []models.CriteriaVersion{}
	for rows.Next() {
		var v models.CriteriaVersion
		var criteriaJSON []byte
		err := rows.Scan(
			&v.ID,
			&v.BoardID,
			&v.VersionNo,
			&v.Status,
			&criteriaJSON,
			&v.PublishedAt,
			&v.PublishedByOID,
			&v.CreatedByOID,
			&v.CreatedAt,
			&v.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(criteriaJSON, &v.Criteria); err != nil {
			return nil, fmt.Errorf("failed to unmarshal criteria for version %d: %w", v.ID, err)
		}
		versions = append(versions, v)
	}

	return versions, rows.Err()
}

// GetByIDForUpdate locks and retrieves a version inside a transaction
func (r *CriteriaRepository) GetByIDForUpdate(tx *sql.Tx, id int64) (*models.CriteriaVersion, error) {
	query := `
		SELECT id, board_id, version_no, status, criteria, published_at, published_by_oid,
		       created_by_oid, created_at, updated_at
		FROM criteria_versions
		WHERE id = $1
		FOR UPDATE
	`
	return r.scanVersion(tx.QueryRow(query, id))
}

// RetirePublished retires the board's published version inside a transaction
func (r *CriteriaRepository) RetirePublished(tx *sql.Tx, boardID int64) error {
	query := `
		UPDATE criteria_versions
		SET status = 'retired', updated_at = NOW()
		WHERE board_id = $1 AND status = 'published'
	`
	_, err := tx.Exec(query, boardID)
	return err
}

// MarkPublished publishes a version inside a transaction
func (r *CriteriaRepository) MarkPublished(tx *sql.Tx, versionID int64, publishedByOID string) error {
	query := `
		UPDATE criteria_versions
		SET status = 'published', published_at = NOW(), published_by_oid = $1, updated_at = NOW()
		WHERE id = $2
	`
	_, err := tx.Exec(query, publishedByOID, versionID)
	return err
}

// scanVersion scans a single version row including the embedded criteria JSON
func (r *CriteriaRepository) scanVersion(row *sql.Row) (*models.CriteriaVersion, error) {
	var v models.CriteriaVersion
	var criteriaJSON []byte

	err := row.Scan(
		&v.ID,
		&v.BoardID,
		&v.VersionNo,
		&v.Status,
		&criteriaJSON,
		&v.PublishedAt,
		&v.PublishedByOID,
		&v.CreatedByOID,
		&v.CreatedAt,
		&v.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(criteriaJSON, &v.Criteria); err != nil {
		return nil, fmt.Errorf("failed to unmarshal criteria for version %d: %w", v.ID, err)
	}

	return &v, nil
}
