package handlers

import (
	"net/http"
	"strconv"

	"dha-governance/internal/repository"
	"dha-governance/internal/service"
)

// QueueHandler handles governance queue requests
type QueueHandler struct {
	reviewService *service.ReviewService
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(reviewService *service.ReviewService) *QueueHandler {
	return &QueueHandler{
		reviewService: reviewService,
	}
}

// GetQueue retrieves the governance queue
// @Summary Get governance queue
// @Description List submissions in governance, highest priority first
// @Tags Governance
// @Produce json
// @Security BearerAuth
// @Param board_id query int false "Filter by board"
// @Param governance_status query string false "Filter by governance status"
// @Param decision query string false "Filter by decision"
// @Param page query int false "Page number"
// @Param limit query int false "Page size"
// @Success 200 {object} models.QueuePage
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /governance/queue [get]
func (h *QueueHandler) GetQueue(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := repository.QueueFilter{
		GovernanceStatus: query.Get("governance_status"),
		Decision:         query.Get("decision"),
	}
	if boardIDStr := query.Get("board_id"); boardIDStr != "" {
		boardID, err := strconv.ParseInt(boardIDStr, 10, 64)
		if err != nil {
			http.Error(w, ErrMsgInvalidBoardID, http.StatusBadRequest)
			return
		}
		filter.BoardID = &boardID
	}
	filter.Page, _ = strconv.Atoi(query.Get("page"))
	filter.Limit, _ = strconv.Atoi(query.Get("limit"))

	page, err := h.reviewService.ListQueue(filter)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, page)
}
