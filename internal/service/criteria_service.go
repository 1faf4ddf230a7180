package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"dha-governance/internal/models"
	"dha-governance/internal/repository"
)

// CriteriaService handles business logic for criteria versions
type CriteriaService struct {
	criteriaRepo *repository.CriteriaRepository
	boardRepo    *repository.BoardRepository
	auditService *AuditService
}

// NewCriteriaService creates a new criteria service
func NewCriteriaService(
	criteriaRepo *repository.CriteriaRepository,
	boardRepo *repository.BoardRepository,
	auditService *AuditService,
) *CriteriaService {
	return &CriteriaService{
		criteriaRepo: criteriaRepo,
		boardRepo:    boardRepo,
		auditService: auditService,
	}
}

// CriterionInput is one criterion as submitted; optional fields get defaults
// during normalization
type CriterionInput struct {
	ID        string  `json:"id,omitempty"`
	Name      string  `json:"name"`
	Weight    float64 `json:"weight"`
	Enabled   *bool   `json:"enabled,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

// CreateDraft creates the next draft version for a board
func (s *CriteriaService) CreateDraft(boardID int64, inputs []CriterionInput, actorOID string) (*models.CriteriaVersion, error) {
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, notFoundf("board %d not found", boardID)
	}

	criteria, err := normalizeCriteria(inputs)
	if err != nil {
		return nil, err
	}

	version := &models.CriteriaVersion{
		BoardID:      boardID,
		Status:       models.CriteriaStatusDraft,
		Criteria:     criteria,
		CreatedByOID: actorOID,
	}
	if err := s.criteriaRepo.CreateDraft(version); err != nil {
		return nil, fmt.Errorf("failed to create draft: %w", err)
	}

	s.auditService.Log(actorOID, "create_draft", "criteria_version", fmt.Sprintf("%d", version.ID), nil, version)
	return version, nil
}

// UpdateDraft replaces the criteria of a draft version. Published and retired
// versions are immutable.
func (s *CriteriaService) UpdateDraft(versionID int64, inputs []CriterionInput, actorOID string) (*models.CriteriaVersion, error) {
	version, err := s.criteriaRepo.GetByID(versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	if version == nil {
		return nil, notFoundf("criteria version %d not found", versionID)
	}
	if version.Status != models.CriteriaStatusDraft {
		return nil, conflictf("criteria version %d is %s and cannot be edited", versionID, version.Status)
	}

	criteria, err := normalizeCriteria(inputs)
	if err != nil {
		return nil, err
	}

	updated, err := s.criteriaRepo.UpdateDraftCriteria(versionID, criteria)
	if err != nil {
		return nil, fmt.Errorf("failed to update draft: %w", err)
	}
	if !updated {
		// Lost a race with a concurrent publish
		return nil, conflictf("criteria version %d is no longer a draft", versionID)
	}

	s.auditService.Log(actorOID, "update_draft", "criteria_version", fmt.Sprintf("%d", versionID), version.Criteria, criteria)
	return s.criteriaRepo.GetByID(versionID)
}

// Publish makes a draft version the board's published version, retiring the
// previously published one in the same transaction
func (s *CriteriaService) Publish(versionID int64, actorOID string) (*models.CriteriaVersion, error) {
	version, err := s.criteriaRepo.GetByID(versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get version: %w", err)
	}
	if version == nil {
		return nil, notFoundf("criteria version %d not found", versionID)
	}

	tx, err := s.criteriaRepo.BeginTx()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	locked, err := s.criteriaRepo.GetByIDForUpdate(tx, versionID)
	if err != nil {
		return nil, fmt.Errorf("failed to lock version: %w", err)
	}
	if locked.Status != models.CriteriaStatusDraft {
		return nil, conflictf("criteria version %d is %s and cannot be published", versionID, locked.Status)
	}

	if err := validatePublishable(locked.Criteria); err != nil {
		return nil, err
	}

	if err := s.criteriaRepo.RetirePublished(tx, locked.BoardID); err != nil {
		return nil, fmt.Errorf("failed to retire published version: %w", err)
	}
	if err := s.criteriaRepo.MarkPublished(tx, versionID, actorOID); err != nil {
		return nil, fmt.Errorf("failed to publish version: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit publish: %w", err)
	}

	s.auditService.Log(actorOID, "publish", "criteria_version", fmt.Sprintf("%d", versionID), version, nil)
	return s.criteriaRepo.GetByID(versionID)
}

// GetVersion retrieves a criteria version by ID
func (s *CriteriaService) GetVersion(versionID int64) (*models.CriteriaVersion, error) {
	version, err := s.criteriaRepo.GetByID(versionID)
	if err != nil {
		return nil, err
	}
	if version == nil {
		return nil, notFoundf("criteria version %d not found", versionID)
	}
	return version, nil
}

// GetPublished retrieves a board's published criteria version, or nil
func (s *CriteriaService) GetPublished(boardID int64) (*models.CriteriaVersion, error) {
	return s.criteriaRepo.GetPublished(boardID)
}

// ListVersions retrieves all versions for a board, newest first
func (s *CriteriaService) ListVersions(boardID int64) ([]models.CriteriaVersion, error) {
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, notFoundf("board %d not found", boardID)
	}
	return s.criteriaRepo.ListByBoard(boardID)
}

// normalizeCriteria validates raw criteria input and fills defaults: enabled
// defaults to true, sort order to input position, id to a generated slug
func normalizeCriteria(inputs []CriterionInput) ([]models.Criterion, error) {
	if len(inputs) == 0 {
		return nil, validationf("at least one criterion is required")
	}

	criteria := make([]models.Criterion, 0, len(inputs))
	seen := map[string]bool{}
	for i, input := range inputs {
		name := strings.TrimSpace(input.Name)
		if name == "" {
			return nil, validationf("criterion %d: name is required", i+1)
		}
		if input.Weight < 0 || input.Weight > 100 {
			return nil, validationf("criterion %q: weight must be between 0 and 100", name)
		}

		id := strings.TrimSpace(input.ID)
		if id == "" {
			id = uuid.New().String()
		}
		if seen[id] {
			return nil, validationf("criterion id %q appears more than once", id)
		}
		seen[id] = true

		enabled := true
		if input.Enabled != nil {
			enabled = *input.Enabled
		}
		sortOrder := i + 1
		if input.SortOrder != nil {
			sortOrder = *input.SortOrder
		}

		criteria = append(criteria, models.Criterion{
			ID:        id,
			Name:      name,
			Weight:    input.Weight,
			Enabled:   enabled,
			SortOrder: sortOrder,
		})
	}

	return criteria, nil
}

// validatePublishable enforces the publish gate: enabled weights must total 100
func validatePublishable(criteria []models.Criterion) error {
	var sum float64
	var enabled int
	for _, c := range criteria {
		if c.Enabled {
			sum += c.Weight
			enabled++
		}
	}
	if enabled == 0 {
		return validationf("at least one enabled criterion is required to publish")
	}
	if math.Abs(sum-100) > 0.001 {
		return validationf("active criteria weight must total 100, got %.2f", sum)
	}
	return nil
}
