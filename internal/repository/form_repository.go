package repository

import (
	"database/sql"

	"dha-governance/internal/models"
)

// FormRepository handles database operations for intake forms
type FormRepository struct {
	db *sql.DB
}

// NewFormRepository creates a new form repository
func NewFormRepository(db *sql.DB) *FormRepository {
	return &FormRepository{db: db}
}

// Create creates a new intake form
func (r *FormRepository) Create(form *models.IntakeForm) error {
	query := `
		INSERT INTO intake_forms (name, description, is_active, governance_mode, governance_board_id, created_by_oid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRow(
		query,
		form.Name,
		form.Description,
		form.IsActive,
		form.GovernanceMode,
		form.GovernanceBoardID,
		form.CreatedByOID,
	).Scan(&form.ID, &form.CreatedAt, &form.UpdatedAt)
}

// GetByID retrieves a form by ID
func (r *FormRepository) GetByID(id int64) (*models.IntakeForm, error) {
	var form models.IntakeForm
	query := `
		SELECT id, name, description, is_active, governance_mode, governance_board_id,
			created_by_oid, created_at, updated_at
		FROM intake_forms
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&form.ID,
		&form.Name,
		&form.Description,
		&form.IsActive,
		&form.GovernanceMode,
		&form.GovernanceBoardID,
		&form.CreatedByOID,
		&form.CreatedAt,
		&form.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &form, nil
}

// Update updates a form's settings
func (r *FormRepository) Update(form *models.IntakeForm) error {
	query := `
		UPDATE intake_forms
		SET name = $1, description = $2, is_active = $3, governance_mode = $4,
			governance_board_id = $5, updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	return r.db.QueryRow(
		query,
		form.Name,
		form.Description,
		form.IsActive,
		form.GovernanceMode,
		form.GovernanceBoardID,
		form.ID,
	).Scan(&form.UpdatedAt)
}

// List retrieves all forms, newest first
func (r *FormRepository) List(includeInactive bool) ([]models.IntakeForm, error) {
	query := `
		SELECT id, name, description, is_active, governance_mode, governance_board_id,
			created_by_oid, created_at, updated_at
		FROM intake_forms
	`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	forms := []models.IntakeForm{}
	for rows.Next() {
		var form models.IntakeForm
		err := rows.Scan(
			&form.ID,
			&form.Name,
			&form.Description,
			&form.IsActive,
			&form.GovernanceMode,
			&form.GovernanceBoardID,
			&form.CreatedByOID,
			&form.CreatedAt,
			&form.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		forms = append(forms, form)
	}

	return forms, rows.Err()
}
