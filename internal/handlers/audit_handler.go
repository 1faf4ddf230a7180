package handlers

import (
	"net/http"
	"strconv"

	"dha-governance/internal/service"
)

// AuditHandler handles audit log requests
type AuditHandler struct {
	auditService *service.AuditService
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditService) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
	}
}

// ListAuditLogs retrieves audit log entries
// @Summary List audit logs
// @Description List audit log entries, newest first, optionally filtered by entity
// @Tags Audit
// @Produce json
// @Security BearerAuth
// @Param entity_type query string false "Filter by entity type"
// @Param entity_id query string false "Filter by entity ID"
// @Param limit query int false "Maximum entries"
// @Success 200 {array} models.AuditLog
// @Failure 401 {object} map[string]string "Unauthorized"
// @Router /audit-logs [get]
func (h *AuditHandler) ListAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit, _ := strconv.Atoi(query.Get("limit"))

	logs, err := h.auditService.List(query.Get("entity_type"), query.Get("entity_id"), limit)
	if err != nil {
		serviceError(w, err)
		return
	}

	JSONResponse(w, logs)
}
