package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dha-governance/internal/middleware"
	"dha-governance/internal/service"
)

// CriteriaRequest represents the request body for creating/updating criteria drafts
type CriteriaRequest struct {
	Criteria []service.CriterionInput `json:"criteria"`
}

// CriteriaHandler handles criteria version requests
type CriteriaHandler struct {
	criteriaService *service.CriteriaService
}

// NewCriteriaHandler creates a new criteria handler
func NewCriteriaHandler(criteriaService *service.CriteriaService) *CriteriaHandler {
	return &CriteriaHandler{
		criteriaService: criteriaService,
	}
}

// CreateDraft creates a new draft criteria version for a board
// @Summary Create criteria draft
// @Description Create the next draft criteria version for a board
// @Tags Criteria
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Param request body CriteriaRequest true "Criteria"
// @Success 201 {object} models.CriteriaVersion
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Board not found"
// @Router /governance/boards/{id}/criteria-versions [post]
func (h *CriteriaHandler) CreateDraft(w http.ResponseWriter, r *http.Request) {
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

	var req CriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	version, err := h.criteriaService.CreateDraft(boardID, req.Criteria, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, version)
}

// ListVersions retrieves all criteria versions for a board
// @Summary List criteria versions
// @Description List a board's criteria versions, newest first
// @Tags Criteria
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Success 200 {array} models.CriteriaVersion
// @Failure 404 {object} map[string]string "Board not found"
// @Router /governance/boards/{id}/criteria-versions [get]
func (h *CriteriaHandler) ListVersions(w http.ResponseWriter, r *http.Request) {
	boardID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidBoardID, http.StatusBadRequest)
		return
	}

	versions, err := h.criteriaService.ListVersions(boardID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, versions)
}

// GetPublished retrieves a board's published criteria version
// @Summary Get published criteria
// @Description Get the board's currently published criteria version
// @Tags Criteria
// @Produce json
// @Security BearerAuth
// @Param id path int true "Board ID"
// @Success 200 {object} models.CriteriaVersion
// @Failure 404 {object} map[string]string "No published version"
// @Router /governance/boards/{id}/criteria-versions/published [get]
func (h *CriteriaHandler) GetPublished(w http.ResponseWriter, r *http.Request) {
	boardID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidBoardID, http.StatusBadRequest)
		return
	}

	version, err := h.criteriaService.GetPublished(boardID)
	if err != nil {
		serviceError(w, err)
		return
	}
	if version == nil {
		http.Error(w, "No published criteria version", http.StatusNotFound)
		return
	}

	JSONResponse(w, version)
}

// GetVersion retrieves a criteria version by ID
// @Summary Get criteria version
// @Description Get a criteria version with its criteria
// @Tags Criteria
// @Produce json
// @Security BearerAuth
// @Param id path int true "Version ID"
// @Success 200 {object} models.CriteriaVersion
// @Failure 404 {object} map[string]string "Version not found"
// @Router /governance/criteria-versions/{id} [get]
func (h *CriteriaHandler) GetVersion(w http.ResponseWriter, r *http.Request) {
	versionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidVersionID, http.StatusBadRequest)
		return
	}

	version, err := h.criteriaService.GetVersion(versionID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, version)
}

// UpdateDraft replaces the criteria of a draft version
// @Summary Update criteria draft
// @Description Replace the criteria of a draft version
// @Tags Criteria
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Version ID"
// @Param request body CriteriaRequest true "Criteria"
// @Success 200 {object} models.CriteriaVersion
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 409 {object} map[string]string "Version is not a draft"
// @Router /governance/criteria-versions/{id} [put]
func (h *CriteriaHandler) UpdateDraft(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	versionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidVersionID, http.StatusBadRequest)
		return
	}

	var req CriteriaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	version, err := h.criteriaService.UpdateDraft(versionID, req.Criteria, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, version)
}

// Publish publishes a draft criteria version
// @Summary Publish criteria version
// @Description Publish a draft, retiring the board's previously published version
// @Tags Criteria
// @Produce json
// @Security BearerAuth
// @Param id path int true "Version ID"
// @Success 200 {object} models.CriteriaVersion
// @Failure 400 {object} map[string]string "Weights do not total 100"
// @Failure 409 {object} map[string]string "Version is not a draft"
// @Router /governance/criteria-versions/{id}/publish [post]
func (h *CriteriaHandler) Publish(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	versionID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidVersionID, http.StatusBadRequest)
		return
	}

	version, err := h.criteriaService.Publish(versionID, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, version)
}
