package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dha-governance/internal/middleware"
	"dha-governance/internal/service"
)

// BoardRequest represents the request body for creating boards
type BoardRequest struct {
	Name string `json:"name"`
}

// BoardUpdateRequest is a partial update; absent fields are left unchanged
type BoardUpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	IsActive *bool   `json:"is_active,omitempty"`
}

// BoardHandler handles governance board requests
type BoardHandler struct {
	boardService *service.BoardService
}

// NewBoardHandler creates a new board handler
func NewBoardHandler(boardService *service.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
	}
}

// CreateBoard creates a new board
// @Summary Create board
// @Description Create a new governance board
// @Tags Boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body BoardRequest true "Board"
// @Success 201 {object} models.Board
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 403 {object} map[string]string "Permission denied"
// @Router /governance/boards [post]
func (h *BoardHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	var req BoardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	board, err := h.boardService.CreateBoard(req.Name, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, board)
}

// ListBoards retrieves all boards
// @Summary List boards
// @Description List governance boards with member counts
// @Tags Boards
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include inactive boards"
// @Success 200 {array} models.BoardWithStats
// @Router /governance/boards [get]
func (h *BoardHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	boards, err := h.boardService.ListBoards(includeInactive)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, boards)
}

// GetBoard retrieves a board by ID
// @Summary Get board
// @Description Get a governance board by ID
// @Tags Boards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Success 200 {object} models.Board
// @Failure 404 {object} map[string]string "Board not found"
// @Router /governance/boards/{id} [get]
func (h *BoardHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidBoardID, http.StatusBadRequest)
		return
	}

	board, err := h.boardService.GetBoard(id)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, board)
}

// UpdateBoard updates a board
// @Summary Update board
// @Description Update a board's name and active flag
// @Tags Boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Param request body BoardUpdateRequest true "Board"
// @Success 200 {object} models.Board
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Board not found"
// @Router /governance/boards/{id} [put]
func (h *BoardHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidBoardID, http.StatusBadRequest)
		return
	}

	var req BoardUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	board, err := h.boardService.UpdateBoard(id, req.Name, req.IsActive, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, board)
}

// UpsertMembership adds or updates a board membership
// @Summary Upsert board membership
// @Description Add a user to a board or update their role and effective window
// @Tags Boards
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Param request body service.MembershipInput true "Membership"
// @Success 200 {object} models.BoardMember
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Board or user not found"
// @Router /governance/boards/{id}/members [put]
func (h *BoardHandler) UpsertMembership(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	boardID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidBoardID, http.StatusBadRequest)
		return
	}

	var input service.MembershipInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	member, err := h.boardService.UpsertMembership(boardID, input, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, member)
}

// ListMembers retrieves a board's members
// @Summary List board members
// @Description List a board's members with their roles and effective windows
// @Tags Boards
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Param include_inactive query bool false "Include inactive members"
// @Success 200 {array} models.BoardMember
// @Failure 404 {object} map[string]string "Board not found"
// @Router /governance/boards/{id}/members [get]
func (h *BoardHandler) ListMembers(w http.ResponseWriter, r *http.Request) {
	boardID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidBoardID, http.StatusBadRequest)
		return
	}

	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	members, err := h.boardService.ListMembers(boardID, includeInactive)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, members)
}
