package service

import (
	"fmt"
	"strings"

	"dha-governance/internal/models"
	"dha-governance/internal/repository"
)

// IntakeService handles business logic for intake forms and submissions
type IntakeService struct {
	formRepo        *repository.FormRepository
	submissionRepo  *repository.SubmissionRepository
	boardRepo       *repository.BoardRepository
	settingsService *SettingsService
	auditService    *AuditService
}

// NewIntakeService creates a new intake service
func NewIntakeService(
	formRepo *repository.FormRepository,
	submissionRepo *repository.SubmissionRepository,
	boardRepo *repository.BoardRepository,
	settingsService *SettingsService,
	auditService *AuditService,
) *IntakeService {
	return &IntakeService{
		formRepo:        formRepo,
		submissionRepo:  submissionRepo,
		boardRepo:       boardRepo,
		settingsService: settingsService,
		auditService:    auditService,
	}
}

// FormInput describes an intake form create or update
type FormInput struct {
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	IsActive          bool    `json:"is_active"`
	GovernanceMode    string  `json:"governance_mode"`
	GovernanceBoardID *int64  `json:"governance_board_id,omitempty"`
}

// CreateForm creates a new intake form
func (s *IntakeService) CreateForm(input FormInput, actorOID string) (*models.IntakeForm, error) {
	if err := s.validateFormInput(&input); err != nil {
		return nil, err
	}

	form := &models.IntakeForm{
		Name:              strings.TrimSpace(input.Name),
		Description:       input.Description,
		IsActive:          input.IsActive,
		GovernanceMode:    input.GovernanceMode,
		GovernanceBoardID: input.GovernanceBoardID,
		CreatedByOID:      actorOID,
	}
	if err := s.formRepo.Create(form); err != nil {
		return nil, fmt.Errorf("failed to create form: %w", err)
	}

	s.auditService.Log(actorOID, "create", "intake_form", fmt.Sprintf("%d", form.ID), nil, form)
	return form, nil
}

// UpdateForm updates an intake form's settings
func (s *IntakeService) UpdateForm(id int64, input FormInput, actorOID string) (*models.IntakeForm, error) {
	form, err := s.formRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil {
		return nil, notFoundf("form %d not found", id)
	}

	if err := s.validateFormInput(&input); err != nil {
		return nil, err
	}

	before := *form
	form.Name = strings.TrimSpace(input.Name)
	form.Description = input.Description
	form.IsActive = input.IsActive
	form.GovernanceMode = input.GovernanceMode
	form.GovernanceBoardID = input.GovernanceBoardID
	if err := s.formRepo.Update(form); err != nil {
		return nil, fmt.Errorf("failed to update form: %w", err)
	}

	s.auditService.Log(actorOID, "update", "intake_form", fmt.Sprintf("%d", form.ID), before, form)
	return form, nil
}

// GetForm retrieves a form by ID
func (s *IntakeService) GetForm(id int64) (*models.IntakeForm, error) {
	form, err := s.formRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if form == nil {
		return nil, notFoundf("form %d not found", id)
	}
	return form, nil
}

// ListForms retrieves intake forms
func (s *IntakeService) ListForms(includeInactive bool) ([]models.IntakeForm, error) {
	return s.formRepo.List(includeInactive)
}

// SubmissionInput describes a new intake submission
type SubmissionInput struct {
	FormID  int64   `json:"form_id"`
	Title   string  `json:"title"`
	Summary *string `json:"summary,omitempty"`
}

// CreateSubmission accepts a submission and stamps it with its resolved
// governance defaults. Intake stays available when governance is down.
func (s *IntakeService) CreateSubmission(input SubmissionInput, actorOID string) (*models.Submission, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, validationf("title is required")
	}

	form, err := s.formRepo.GetByID(input.FormID)
	if err != nil {
		return nil, fmt.Errorf("failed to get form: %w", err)
	}
	if form == nil {
		return nil, notFoundf("form %d not found", input.FormID)
	}
	if !form.IsActive {
		return nil, validationf("form %d is not accepting submissions", form.ID)
	}

	defaults := s.settingsService.ResolveSubmissionDefaults(form)

	submission := &models.Submission{
		FormID:             form.ID,
		Title:              title,
		Summary:            input.Summary,
		Status:             models.SubmissionStatusSubmitted,
		CreatedByOID:       actorOID,
		GovernanceRequired: defaults.Required,
		GovernanceStatus:   defaults.Status,
		GovernanceBoardID:  defaults.BoardID,
	}
	if err := s.submissionRepo.Create(submission); err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	s.auditService.Log(actorOID, "create", "submission", fmt.Sprintf("%d", submission.ID), nil, submission)
	return submission, nil
}

// GetSubmission retrieves a submission by ID
func (s *IntakeService) GetSubmission(id int64) (*models.Submission, error) {
	submission, err := s.submissionRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, notFoundf("submission %d not found", id)
	}
	return submission, nil
}

func (s *IntakeService) validateFormInput(input *FormInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return validationf("form name is required")
	}

	switch input.GovernanceMode {
	case models.GovernanceModeOff, models.GovernanceModeOptional, models.GovernanceModeRequired:
	case "":
		input.GovernanceMode = models.GovernanceModeOff
	default:
		return validationf("governance_mode must be one of off, optional, required")
	}

	if input.GovernanceMode != models.GovernanceModeOff {
		if input.GovernanceBoardID == nil {
			return validationf("governance_board_id is required when governance_mode is %s", input.GovernanceMode)
		}
		board, err := s.boardRepo.GetByID(*input.GovernanceBoardID)
		if err != nil {
			return fmt.Errorf("failed to get board: %w", err)
		}
		if board == nil {
			return notFoundf("board %d not found", *input.GovernanceBoardID)
		}
		if !board.IsActive {
			return validationf("board %d is not active", board.ID)
		}
	}

	return nil
}
