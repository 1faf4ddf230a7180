package securestore

import (
	"strings"
	"testing"

	"dha-governance/internal/repository"
	"dha-governance/internal/testutil"
	"dha-governance/internal/vault"
)

func TestSealUnsealRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := testutil.SetupTestContainers(t)
	defer tc.Cleanup(t)

	vaultClient, err := vault.NewClient(&vault.Config{
		Address:      tc.VaultAddr,
		Token:        tc.VaultToken,
		TransitMount: "transit",
	})
	if err != nil {
		t.Fatalf("Failed to create vault client: %v", err)
	}

	recordRepo := repository.NewEncryptedRecordRepository(tc.DB)
	store, err := New(vaultClient, recordRepo)
	if err != nil {
		t.Fatalf("Failed to create secure store: %v", err)
	}

	if !store.Enabled() {
		t.Fatal("Store with a vault client should be enabled")
	}

	plaintext := "Strong strategic case, delivery risk is real"
	recordID, err := store.Seal("vote_comment", "submission:1:voter:oid-member-1", plaintext)
	if err != nil {
		t.Fatalf("Failed to seal: %v", err)
	}
	if recordID == 0 {
		t.Error("Seal should return a record id")
	}

	// Only ciphertext reaches the database
	record, err := recordRepo.GetByID(recordID)
	if err != nil {
		t.Fatalf("Failed to load record: %v", err)
	}
	if record.Ciphertext == plaintext || strings.Contains(record.Ciphertext, "delivery risk") {
		t.Error("Stored value should not contain the plaintext")
	}
	if !strings.HasPrefix(record.Ciphertext, "vault:") {
		t.Errorf("Expected a transit ciphertext, got %q", record.Ciphertext)
	}

	got, err := store.Unseal(recordID)
	if err != nil {
		t.Fatalf("Failed to unseal: %v", err)
	}
	if got != plaintext {
		t.Errorf("Round trip mismatch: expected %q, got %q", plaintext, got)
	}

	// Unknown record
	if _, err := store.Unseal(999999); err == nil {
		t.Error("Unsealing a missing record should fail")
	}
}

func TestDisabledStore(t *testing.T) {
	var store *SecureStore
	if store.Enabled() {
		t.Error("Nil store should report disabled")
	}

	disabled, err := New(nil, nil)
	if err != nil {
		t.Fatalf("Failed to create disabled store: %v", err)
	}
	if disabled.Enabled() {
		t.Error("Store without a vault client should report disabled")
	}
	if _, err := disabled.Seal("vote_comment", "ref", "secret"); err == nil {
		t.Error("Sealing on a disabled store should fail")
	}
	if _, err := disabled.Unseal(1); err == nil {
		t.Error("Unsealing on a disabled store should fail")
	}
}
