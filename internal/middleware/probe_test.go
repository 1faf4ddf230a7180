package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dha-governance/internal/database"
	"dha-governance/internal/testutil"
)

func TestRequireGovernance(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := testutil.SetupPostgres(t)
	defer tc.Cleanup(t)

	handler := func(probe *database.GovernanceProbe) http.Handler {
		return NewProbeMiddleware(probe).RequireGovernance(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}),
		)
	}

	// Provisioned schema passes through
	req := httptest.NewRequest(http.MethodGet, "/api/v1/governance/settings", nil)
	res := testutil.NewTestResponse()
	handler(database.NewGovernanceProbe(tc.DB)).ServeHTTP(res, req)
	res.AssertStatusOK(t)

	// Without the governance schema the endpoint answers 503
	if _, err := tc.DB.Exec(`ALTER TABLE governance_settings RENAME TO governance_settings_hidden`); err != nil {
		t.Fatalf("Failed to rename table: %v", err)
	}
	defer tc.DB.Exec(`ALTER TABLE governance_settings_hidden RENAME TO governance_settings`)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/governance/settings", nil)
	res = testutil.NewTestResponse()
	handler(database.NewGovernanceProbe(tc.DB)).ServeHTTP(res, req)
	res.AssertStatus(t, http.StatusServiceUnavailable)
}
