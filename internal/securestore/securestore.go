// Package securestore encrypts sensitive governance free text (vote comments,
// decision reasons) through Vault's transit engine and keeps only ciphertext
// in the database.
package securestore

import (
	"fmt"
	"log/slog"

	"dha-governance/internal/models"
	"dha-governance/internal/repository"
	"dha-governance/internal/vault"
)

// GovernanceKeyName is the transit key all governance records are sealed with
const GovernanceKeyName = "governance-records"

// SecureStore seals and unseals sensitive fields. When Vault is disabled the
// store reports disabled and callers keep the field in plaintext.
type SecureStore struct {
	vaultClient *vault.Client
	recordRepo  *repository.EncryptedRecordRepository
}

// New creates a secure store. A nil vault client yields a disabled store.
func New(vaultClient *vault.Client, recordRepo *repository.EncryptedRecordRepository) (*SecureStore, error) {
	store := &SecureStore{
		vaultClient: vaultClient,
		recordRepo:  recordRepo,
	}

	if vaultClient != nil {
		if err := vaultClient.CreateKey(GovernanceKeyName, "aes256-gcm96"); err != nil {
			return nil, fmt.Errorf("failed to create governance key: %w", err)
		}
		slog.Info("Secure store initialized", "key", GovernanceKeyName)
	} else {
		slog.Info("Secure store disabled, sensitive fields stay in plaintext")
	}

	return store, nil
}

// Enabled reports whether sealing is available
func (s *SecureStore) Enabled() bool {
	return s != nil && s.vaultClient != nil
}

// Seal encrypts a value and stores the ciphertext, returning the record ID
func (s *SecureStore) Seal(entityType, entityRef, plaintext string) (int64, error) {
	if !s.Enabled() {
		return 0, fmt.Errorf("secure store is disabled")
	}

	ciphertext, err := s.vaultClient.Encrypt(GovernanceKeyName, []byte(plaintext), map[string]string{"entity": entityRef})
	if err != nil {
		return 0, fmt.Errorf("failed to encrypt %s: %w", entityType, err)
	}

	record := &models.EncryptedRecord{
		EntityType: entityType,
		EntityRef:  entityRef,
		Ciphertext: ciphertext,
	}
	if err := s.recordRepo.Create(record); err != nil {
		return 0, fmt.Errorf("failed to store ciphertext: %w", err)
	}

	return record.ID, nil
}

// Unseal decrypts a stored record
func (s *SecureStore) Unseal(recordID int64) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("secure store is disabled")
	}

	record, err := s.recordRepo.GetByID(recordID)
	if err != nil {
		return "", fmt.Errorf("failed to load record: %w", err)
	}
	if record == nil {
		return "", fmt.Errorf("encrypted record %d not found", recordID)
	}

	plaintext, err := s.vaultClient.Decrypt(GovernanceKeyName, record.Ciphertext, map[string]string{"entity": record.EntityRef})
	if err != nil {
		return "", fmt.Errorf("failed to decrypt %s: %w", record.EntityType, err)
	}

	return string(plaintext), nil
}
