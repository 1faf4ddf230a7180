package middleware

import (
	"database/sql"
	"net/http"

	"dha-governance/internal/models"
	"dha-governance/internal/repository"
)

// AuditMiddleware logs security-related actions
type AuditMiddleware struct {
	auditRepo *repository.AuditRepository
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(db *sql.DB) *AuditMiddleware {
	return &AuditMiddleware{
		auditRepo: repository.NewAuditRepository(db),
	}
}

// Log logs an action to the audit log after the request completes
func (m *AuditMiddleware) Log(action, entityType string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Call the next handler first
			next.ServeHTTP(w, r)

			// Get the actor from context if available
			var actorOID *string
			if oid, ok := GetUserOID(r); ok {
				actorOID = &oid
			}

			log := &models.AuditLog{
				ActorOID:   actorOID,
				Action:     action,
				EntityType: entityType,
				EntityID:   r.PathValue("id"),
				IPAddress:  getIP(r),
				UserAgent:  r.UserAgent(),
			}

			// Save to database (ignore errors to not block the request)
			_ = m.auditRepo.Create(log)
		})
	}
}
