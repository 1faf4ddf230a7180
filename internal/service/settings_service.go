package service

import (
	"fmt"
	"log/slog"

	"dha-governance/internal/database"
	"dha-governance/internal/models"
	"dha-governance/internal/repository"
)

// SettingsService handles the global governance switch and resolves the
// governance defaults a new submission starts with
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	probe        *database.GovernanceProbe
	auditService *AuditService
}

// NewSettingsService creates a new settings service
func NewSettingsService(
	settingsRepo *repository.SettingsRepository,
	probe *database.GovernanceProbe,
	auditService *AuditService,
) *SettingsService {
	return &SettingsService{
		settingsRepo: settingsRepo,
		probe:        probe,
		auditService: auditService,
	}
}

// GetSettings retrieves the governance settings singleton
func (s *SettingsService) GetSettings() (*models.GovernanceSettings, error) {
	if !s.probe.Provisioned() {
		return nil, unavailablef("governance is not provisioned")
	}
	return s.settingsRepo.GetOrCreate()
}

// UpdateSettings flips the global governance switch
func (s *SettingsService) UpdateSettings(enabled bool, actorOID string) (*models.GovernanceSettings, error) {
	if !s.probe.Provisioned() {
		return nil, unavailablef("governance is not provisioned")
	}

	before, err := s.settingsRepo.GetOrCreate()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}

	updated, err := s.settingsRepo.Update(enabled, actorOID)
	if err != nil {
		return nil, fmt.Errorf("failed to update settings: %w", err)
	}

	s.auditService.Log(actorOID, "update", "governance_settings", fmt.Sprintf("%d", updated.ID), before, updated)
	return updated, nil
}

// SubmissionDefaults is the governance state a new submission starts with
type SubmissionDefaults struct {
	Required bool
	Status   string
	BoardID  *int64
}

// ResolveSubmissionDefaults decides the initial governance state for a
// submission on the given form. Intake never fails on governance problems: if
// governance is unprovisioned, disabled, or unreadable, the submission starts
// skipped.
func (s *SettingsService) ResolveSubmissionDefaults(form *models.IntakeForm) SubmissionDefaults {
	skipped := SubmissionDefaults{Required: false, Status: models.GovernanceStatusSkipped}

	if !s.probe.Provisioned() {
		return skipped
	}

	settings, err := s.settingsRepo.GetOrCreate()
	if err != nil {
		slog.Warn("Governance settings unreadable, submission starts skipped", "error", err)
		return skipped
	}
	if !settings.GovernanceEnabled {
		return skipped
	}

	switch form.GovernanceMode {
	case models.GovernanceModeRequired:
		return SubmissionDefaults{
			Required: true,
			Status:   models.GovernanceStatusNotStarted,
			BoardID:  form.GovernanceBoardID,
		}
	case models.GovernanceModeOptional:
		// Starts outside the pipeline; a manager can apply governance later
		return SubmissionDefaults{
			Required: false,
			Status:   models.GovernanceStatusSkipped,
			BoardID:  form.GovernanceBoardID,
		}
	default:
		return skipped
	}
}
