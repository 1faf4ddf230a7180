package repository

import (
	"database/sql"

	"dha-governance/internal/models"
)

// ProjectRepository handles database operations for projects
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// CreateTx creates a project inside the caller's conversion transaction
func (r *ProjectRepository) CreateTx(tx *sql.Tx, project *models.Project) error {
	query := `
		INSERT INTO projects (name, description, source_submission_id, created_by_oid)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	return tx.QueryRow(
		query,
		project.Name,
		project.Description,
		project.SourceSubmissionID,
		project.CreatedByOID,
	).Scan(&project.ID, &project.CreatedAt)
}

// GetByID retrieves a project by ID
func (r *ProjectRepository) GetByID(id int64) (*models.Project, error) {
	var project models.Project
	query := `
		SELECT id, name, description, source_submission_id, created_by_oid, created_at
		FROM projects
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&project.ID,
		&project.Name,
		&project.Description,
		&project.SourceSubmissionID,
		&project.CreatedByOID,
		&project.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &project, nil
}
