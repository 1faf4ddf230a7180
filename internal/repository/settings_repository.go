package repository

import (
	"database/sql"

	"dha-governance/internal/models"
)

// SettingsRepository handles database operations for the governance settings singleton
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetOrCreate returns the singleton settings row, creating it disabled on
// first read. The insert races benignly: both writers insert, the earlier row
// by id wins every later read.
func (r *SettingsRepository) GetOrCreate() (*models.GovernanceSettings, error) {
	settings, err := r.get()
	if err != nil {
		return nil, err
	}
	if settings != nil {
		return settings, nil
	}

	query := `
		INSERT INTO governance_settings (governance_enabled)
		VALUES (FALSE)
	`
	if _, err := r.db.Exec(query); err != nil {
		return nil, err
	}

	return r.get()
}

// Update sets the global governance flag
func (r *SettingsRepository) Update(enabled bool, actorOID string) (*models.GovernanceSettings, error) {
	settings, err := r.GetOrCreate()
	if err != nil {
		return nil, err
	}

	query := `
		UPDATE governance_settings
		SET governance_enabled = $1, updated_at = NOW(), updated_by_oid = $2
		WHERE id = $3
		RETURNING id, governance_enabled, updated_at, updated_by_oid
	`

	var updated models.GovernanceSettings
	err = r.db.QueryRow(query, enabled, actorOID, settings.ID).Scan(
		&updated.ID,
		&updated.GovernanceEnabled,
		&updated.UpdatedAt,
		&updated.UpdatedByOID,
	)
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

func (r *SettingsRepository) get() (*models.GovernanceSettings, error) {
	var settings models.GovernanceSettings
	query := `
		SELECT id, governance_enabled, updated_at, updated_by_oid
		FROM governance_settings
		ORDER BY id
		LIMIT 1
	`

	err := r.db.QueryRow(query).Scan(
		&settings.ID,
		&settings.GovernanceEnabled,
		&settings.UpdatedAt,
		&settings.UpdatedByOID,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &settings, nil
}
