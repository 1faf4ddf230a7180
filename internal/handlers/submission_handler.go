package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"dha-governance/internal/middleware"
	"dha-governance/internal/service"
)

// ApplyGovernanceRequest represents the request body for routing a submission
// into review
type ApplyGovernanceRequest struct {
	BoardID *int64 `json:"board_id,omitempty"`
}

// StartReviewRequest represents the request body for opening voting
type StartReviewRequest struct {
	VoteDeadlineAt *time.Time `json:"vote_deadline_at,omitempty"`
}

// SubmissionHandler handles intake submissions and their governance workflow
type SubmissionHandler struct {
	intakeService     *service.IntakeService
	reviewService     *service.ReviewService
	conversionService *service.ConversionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(
	intakeService *service.IntakeService,
	reviewService *service.ReviewService,
	conversionService *service.ConversionService,
) *SubmissionHandler {
	return &SubmissionHandler{
		intakeService:     intakeService,
		reviewService:     reviewService,
		conversionService: conversionService,
	}
}

// CreateSubmission accepts a new intake submission
// @Summary Create submission
// @Description Submit a request through an intake form. Succeeds even when governance is unavailable.
// @Tags Submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body service.SubmissionInput true "Submission"
// @Success 201 {object} models.Submission
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Form not found"
// @Router /submissions [post]
func (h *SubmissionHandler) CreateSubmission(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	var input service.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	submission, err := h.intakeService.CreateSubmission(input, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, submission)
}

// GetSubmission retrieves a submission by ID
// @Summary Get submission
// @Description Get a submission with its governance state
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.Submission
// @Failure 404 {object} map[string]string "Submission not found"
// @Router /submissions/{id} [get]
func (h *SubmissionHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	submission, err := h.intakeService.GetSubmission(id)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, submission)
}

// ApplyGovernance routes a submission into the review pipeline
// @Summary Apply governance
// @Description Route a skipped submission into the review pipeline
// @Tags Governance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body ApplyGovernanceRequest false "Board override"
// @Success 200 {object} models.Submission
// @Failure 409 {object} map[string]string "Submission already in governance"
// @Router /governance/submissions/{id}/apply [post]
func (h *SubmissionHandler) ApplyGovernance(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	var req ApplyGovernanceRequest
	if r.Body != nil {
		// Body is optional
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	submission, err := h.reviewService.ApplyGovernance(id, req.BoardID, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, submission)
}

// SkipGovernance exempts a submission from review
// @Summary Skip governance
// @Description Exempt a not-started submission from review
// @Tags Governance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.Submission
// @Failure 409 {object} map[string]string "Review already started"
// @Router /governance/submissions/{id}/skip [post]
func (h *SubmissionHandler) SkipGovernance(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	submission, err := h.reviewService.SkipGovernance(id, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, submission)
}

// StartReview opens voting on a submission
// @Summary Start review
// @Description Open voting on a not-started submission. Requires published criteria.
// @Tags Governance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body StartReviewRequest false "Voting deadline"
// @Success 200 {object} models.Submission
// @Failure 409 {object} map[string]string "No published criteria or wrong state"
// @Router /governance/submissions/{id}/start-review [post]
func (h *SubmissionHandler) StartReview(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	var req StartReviewRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	submission, err := h.reviewService.StartReview(id, req.VoteDeadlineAt, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, submission)
}

// SubmitVote records the caller's vote on a submission
// @Summary Submit vote
// @Description Cast or replace the caller's scores for a submission in review
// @Tags Governance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body service.VoteInput true "Scores"
// @Success 200 {object} models.Vote
// @Failure 400 {object} map[string]string "Invalid scores"
// @Failure 403 {object} map[string]string "Not an eligible voter"
// @Failure 409 {object} map[string]string "Not in review or deadline passed"
// @Router /governance/submissions/{id}/votes [put]
func (h *SubmissionHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	voterOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	var input service.VoteInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	vote, err := h.reviewService.SubmitVote(id, voterOID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, vote)
}

// Decide records the chair's decision
// @Summary Record decision
// @Description Record the board chair's decision, freezing the priority score
// @Tags Governance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Param request body service.DecisionInput true "Decision"
// @Success 200 {object} models.Submission
// @Failure 403 {object} map[string]string "Not the board chair"
// @Failure 409 {object} map[string]string "Quorum not met or already decided"
// @Router /governance/submissions/{id}/decision [post]
func (h *SubmissionHandler) Decide(w http.ResponseWriter, r *http.Request) {
	deciderOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	var input service.DecisionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, ErrMsgInvalidRequestBody, http.StatusBadRequest)
		return
	}

	submission, err := h.reviewService.Decide(id, deciderOID, input)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, submission)
}

// GetReviewDetails retrieves the full governance picture of a submission
// @Summary Get review details
// @Description Get a submission's review state, votes, score summary, and the caller's eligibility
// @Tags Governance
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 200 {object} models.ReviewDetails
// @Failure 404 {object} map[string]string "Submission not found"
// @Router /governance/submissions/{id}/review [get]
func (h *SubmissionHandler) GetReviewDetails(w http.ResponseWriter, r *http.Request) {
	viewerOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	details, err := h.reviewService.GetReviewDetails(id, viewerOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, details)
}

// Convert converts a submission into a project
// @Summary Convert submission
// @Description Create a project from a submission. Gated on the governance decision.
// @Tags Submissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Submission ID"
// @Success 201 {object} models.Project
// @Failure 409 {object} map[string]string "Governance gate not passed"
// @Router /submissions/{id}/convert [post]
func (h *SubmissionHandler) Convert(w http.ResponseWriter, r *http.Request) {
	actorOID, ok := middleware.GetUserOID(r)
	if !ok {
		http.Error(w, ErrMsgUserOIDNotFound, http.StatusUnauthorized)
		return
	}

	id, err := h.submissionID(r)
	if err != nil {
		http.Error(w, ErrMsgInvalidSubmissionID, http.StatusBadRequest)
		return
	}

	project, err := h.conversionService.Convert(id, actorOID)
	if err != nil {
		serviceError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	JSONResponse(w, project)
}

func (h *SubmissionHandler) submissionID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}
