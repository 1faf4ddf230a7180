package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"dha-governance/internal/middleware"
	"dha-governance/internal/service"
)

// FormHandler handles intake form requests
type FormHandler struct {
	intakeService *service.IntakeService
}

// NewFormHandler creates a new form handler
func NewFormHandler(intakeService *service.IntakeService) *FormHandler {
	return &FormHandler{
		intakeService: intakeService,
	}
}

// CreateForm creates a new intake form
// @Summary Create intake form
// @Description Create an intake form with its governance mode
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.FormInput true "Form"
// @Success 201 {object} models.IntakeForm
// @Failure 400 {object} map[string]string "Invalid request"
// @Router /forms [post]
func (h *FormHandler) CreateForm(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	var input service.FormInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	form, err := h.intakeService.CreateForm(input, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, form)
}

// ListForms retrieves intake forms
// @Summary List intake forms
// @Description List intake forms
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param include_inactive query bool false "Include inactive forms"
// @Success 200 {array} models.IntakeForm
// @Router /forms [get]
func (h *FormHandler) ListForms(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"

	forms, err := h.intakeService.ListForms(includeInactive)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, forms)
}

// GetForm retrieves a form by ID
// @Summary Get intake form
// @Description Get an intake form by ID
// @Tags Forms
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Success 200 {object} models.IntakeForm
// @Failure 404 {object} map[string]string "Form not found"
// @Router /forms/{id} [get]
func (h *FormHandler) GetForm(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidFormID, http.StatusBadRequest)
		return
	}

	form, err := h.intakeService.GetForm(id)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, form)
}

// UpdateForm updates an intake form
// @Summary Update intake form
// @Description Update an intake form's settings and governance mode
// @Tags Forms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Form ID"
// @Param request body service.FormInput true "Form"
// @Success 200 {object} models.IntakeForm
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Form not found"
// @Router /forms/{id} [put]
func (h *FormHandler) UpdateForm(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, ErrMsgInvalidFormID, http.StatusBadRequest)
		return
	}

	var input service.FormInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	form, err := h.intakeService.UpdateForm(id, input, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, form)
}
