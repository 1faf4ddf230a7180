package service

import (
	"fmt"

	"dha-governance/internal/models"
	"dha-governance/internal/repository"
)

// ConversionService handles the decision-gated conversion of submissions into
// projects
type ConversionService struct {
	submissionRepo *repository.SubmissionRepository
	projectRepo    *repository.ProjectRepository
	auditService   *AuditService
}

// NewConversionService creates a new conversion service
func NewConversionService(
	submissionRepo *repository.SubmissionRepository,
	projectRepo *repository.ProjectRepository,
	auditService *AuditService,
) *ConversionService {
	return &ConversionService{
		submissionRepo: submissionRepo,
		projectRepo:    projectRepo,
		auditService:   auditService,
	}
}

// CanConvert reports whether the governance gate allows converting the
// submission: either governance was never required, or the board decided
// "approved-now"
func CanConvert(submission *models.Submission) bool {
	if !submission.GovernanceRequired {
		return true
	}
	if submission.GovernanceStatus != models.GovernanceStatusDecided {
		return false
	}
	return submission.GovernanceDecision != nil && *submission.GovernanceDecision == models.DecisionApprovedNow
}

// Convert creates a project from a submission. The gate predicate is
// re-checked under a row lock so a concurrent governance change cannot slip a
// submission past the gate.
func (s *ConversionService) Convert(submissionID int64, actorOID string) (*models.Project, error) {
	tx, err := s.submissionRepo.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	submission, err := s.submissionRepo.GetByIDForUpdate(tx, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock submission: %w", err)
	}
	if submission == nil {
		return nil, notFoundf("submission %d not found", submissionID)
	}
	if submission.ConvertedProjectID != nil {
		return nil, conflictf("submission %d is already converted to project %d", submissionID, *submission.ConvertedProjectID)
	}
	if !CanConvert(submission) {
		return nil, conflictf("conversion requires governance decision: approved-now")
	}

	project := &models.Project{
		Name:               submission.Title,
		Description:        submission.Summary,
		SourceSubmissionID: &submission.ID,
		CreatedByOID:       actorOID,
	}
	if err := s.projectRepo.CreateTx(tx, project); err != nil {
		return nil, fmt.Errorf("failed to create project: %w", err)
	}
	if err := s.submissionRepo.MarkConverted(tx, submissionID, project.ID); err != nil {
		return nil, fmt.Errorf("failed to mark submission converted: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit conversion: %w", err)
	}

	s.auditService.Log(actorOID, "convert", "submission", fmt.Sprintf("%d", submissionID), nil, project)
	return project, nil
}
