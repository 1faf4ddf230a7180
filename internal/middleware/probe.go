package middleware

import (
	"net/http"

	"dha-governance/internal/database"
)

// ProbeMiddleware gates governance endpoints on the availability probe. When
// the governance schema has not been provisioned yet, governance endpoints
// answer 503 while the rest of the application keeps working.
type ProbeMiddleware struct {
	probe *database.GovernanceProbe
}

// NewProbeMiddleware creates a new probe middleware
func NewProbeMiddleware(probe *database.GovernanceProbe) *ProbeMiddleware {
	return &ProbeMiddleware{probe: probe}
}

// RequireGovernance rejects requests while governance is unprovisioned
func (m *ProbeMiddleware) RequireGovernance(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.probe.Provisioned() {
			respondWithError(w, http.StatusServiceUnavailable, "Governance is not available")
			return
		}
		next.ServeHTTP(w, r)
	})
}
