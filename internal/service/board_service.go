package service

import (
	"fmt"
	"strings"
	"time"

	"dha-governance/internal/models"
	"dha-governance/internal/repository"
)

// BoardService handles business logic for boards and their memberships
type BoardService struct {
	boardRepo      *repository.BoardRepository
	membershipRepo *repository.MembershipRepository
	userRepo       *repository.UserRepository
	auditService   *AuditService
}

// NewBoardService creates a new board service
func NewBoardService(
	boardRepo *repository.BoardRepository,
	membershipRepo *repository.MembershipRepository,
	userRepo *repository.UserRepository,
	auditService *AuditService,
) *BoardService {
	return &BoardService{
		boardRepo:      boardRepo,
		membershipRepo: membershipRepo,
		userRepo:       userRepo,
		auditService:   auditService,
	}
}

// CreateBoard creates a new governance board
func (s *BoardService) CreateBoard(name string, actorOID string) (*models.Board, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, validationf("board name is required")
	}

	board := &models.Board{
		Name:         name,
		IsActive:     true,
		CreatedByOID: actorOID,
	}
	if err := s.boardRepo.Create(board); err != nil {
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.auditService.Log(actorOID, "create", "board", fmt.Sprintf("%d", board.ID), nil, board)
	return board, nil
}

// UpdateBoard applies a partial update to a board; nil fields are left as is
func (s *BoardService) UpdateBoard(id int64, name *string, isActive *bool, actorOID string) (*models.Board, error) {
	board, err := s.boardRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, notFoundf("board %d not found", id)
	}

	before := *board
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, validationf("board name must not be empty")
		}
		board.Name = trimmed
	}
	if isActive != nil {
		board.IsActive = *isActive
	}
	if err := s.boardRepo.Update(board); err != nil {
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	s.auditService.Log(actorOID, "update", "board", fmt.Sprintf("%d", board.ID), before, board)
	return board, nil
}

// GetBoard retrieves a board by ID
func (s *BoardService) GetBoard(id int64) (*models.Board, error) {
	board, err := s.boardRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, notFoundf("board %d not found", id)
	}
	return board, nil
}

// ListBoards retrieves boards with membership counts
func (s *BoardService) ListBoards(includeInactive bool) ([]models.BoardWithStats, error) {
	return s.boardRepo.List(includeInactive)
}

// MembershipInput describes a membership assignment
type MembershipInput struct {
	UserOID       string     `json:"user_oid"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"is_active"`
	EffectiveFrom *time.Time `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

// UpsertMembership adds a user to a board or updates their existing membership
func (s *BoardService) UpsertMembership(boardID int64, input MembershipInput, actorOID string) (*models.BoardMember, error) {
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		return nil, fmt.Errorf("failed to get board: %w", err)
	}
	if board == nil {
		return nil, notFoundf("board %d not found", boardID)
	}

	if strings.TrimSpace(input.UserOID) == "" {
		return nil, validationf("user_oid is required")
	}
	role := strings.TrimSpace(input.Role)
	if role != models.MemberRoleChair {
		role = models.MemberRoleMember
	}

	user, err := s.userRepo.GetByOID(input.UserOID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if user == nil {
		return nil, notFoundf("user %s not found", input.UserOID)
	}

	effectiveFrom := time.Now()
	if input.EffectiveFrom != nil {
		effectiveFrom = *input.EffectiveFrom
	}
	if input.EffectiveTo != nil && !input.EffectiveTo.After(effectiveFrom) {
		return nil, validationf("effective_to must be after effective_from")
	}

	member := &models.BoardMember{
		BoardID:       boardID,
		UserOID:       input.UserOID,
		Role:          role,
		IsActive:      input.IsActive,
		EffectiveFrom: effectiveFrom,
		EffectiveTo:   input.EffectiveTo,
	}
	if err := s.membershipRepo.Upsert(member); err != nil {
		return nil, fmt.Errorf("failed to upsert membership: %w", err)
	}

	s.auditService.Log(actorOID, "upsert", "board_member", fmt.Sprintf("%d", member.ID), nil, member)
	return member, nil
}

// ListMembers retrieves a board's members
func (s *BoardService) ListMembers(boardID int64, includeInactive bool) ([]models.BoardMember, error) {
	board, err := s.boardRepo.GetByID(boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, notFoundf("board %d not found", boardID)
	}
	return s.membershipRepo.ListByBoard(boardID, includeInactive)
}

// EligibilityAt resolves a user's voting and deciding rights on a board at a
// point in time
func (s *BoardService) EligibilityAt(boardID int64, userOID string, at time.Time) (*models.Eligibility, error) {
	member, err := s.membershipRepo.GetMembership(boardID, userOID)
	if err != nil {
		return nil, err
	}

	eligibility := &models.Eligibility{}
	if member != nil && member.EligibleAt(at) {
		eligibility.CanVote = true
		eligibility.CanDecide = member.Role == models.MemberRoleChair
	}
	return eligibility, nil
}
