package repository

import (
	"database/sql"

	"dha-governance/internal/models"
)

// EncryptedRecordRepository stores Vault transit ciphertexts for sensitive
// free-text fields
type EncryptedRecordRepository struct {
	db *sql.DB
}

// NewEncryptedRecordRepository creates a new encrypted record repository
func NewEncryptedRecordRepository(db *sql.DB) *EncryptedRecordRepository {
	return &EncryptedRecordRepository{db: db}
}

// Create stores a ciphertext and returns its ID
func (r *EncryptedRecordRepository) Create(record *models.EncryptedRecord) error {
	query := `
		INSERT INTO encrypted_records (entity_type, entity_ref, ciphertext)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	return r.db.QueryRow(
		query,
		record.EntityType,
		record.EntityRef,
		record.Ciphertext,
	).Scan(&record.ID, &record.CreatedAt)
}

// GetByID retrieves a ciphertext by ID
func (r *EncryptedRecordRepository) GetByID(id int64) (*models.EncryptedRecord, error) {
	var record models.EncryptedRecord
	query := `
		SELECT id, entity_type, entity_ref, ciphertext, created_at
		FROM encrypted_records
		WHERE id = $1
	`

	err := r.db.QueryRow(query, id).Scan(
		&record.ID,
		&record.EntityType,
		&record.EntityRef,
		&record.Ciphertext,
		&record.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &record, nil
}
