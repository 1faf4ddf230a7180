package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"dha-governance/internal/config"
	"dha-governance/internal/repository"
	"dha-governance/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
)

func TestAuthenticate(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := testutil.SetupPostgres(t)
	defer tc.Cleanup(t)

	userRepo := repository.NewUserRepository(tc.DB)
	authMw := NewAuthMiddleware(config.JWTConfig{Secret: "test-secret-key-for-testing-only"}, userRepo)
	authHelper := testutil.NewAuthHelper()

	var gotOID string
	var gotRoles []string
	handler := authMw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotOID, _ = GetUserOID(r)
		gotRoles = GetUserRoles(r)
		w.WriteHeader(http.StatusOK)
	}))

	// Missing header
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	res := testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusUnauthorized(t)

	// Malformed header
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Basic something")
	res = testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusUnauthorized(t)

	// Garbage token
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	res = testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusUnauthorized(t)

	// Token signed with a different secret
	wrongHelper := &testutil.AuthHelper{JWTSecret: []byte("some-other-secret")}
	token, err := wrongHelper.GenerateToken("oid-x", "x@test.com", "X", nil)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusUnauthorized(t)

	// Valid token passes and puts the principal on the context
	token, err = authHelper.GenerateToken("oid-valid", "valid@test.com", "Valid User", []string{"board_member"})
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusOK(t)

	if gotOID != "oid-valid" {
		t.Errorf("Expected oid-valid on context, got %q", gotOID)
	}
	if len(gotRoles) != 1 || gotRoles[0] != "board_member" {
		t.Errorf("Expected roles [board_member], got %v", gotRoles)
	}

	// The identity is mirrored into the local user directory
	user, err := userRepo.GetByOID("oid-valid")
	if err != nil {
		t.Fatalf("Failed to load mirrored user: %v", err)
	}
	if user == nil || user.Email != "valid@test.com" {
		t.Errorf("Authenticated identity should be mirrored, got %+v", user)
	}
}

func TestAuthenticateRejectsUnexpectedSigningMethod(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := testutil.SetupPostgres(t)
	defer tc.Cleanup(t)

	userRepo := repository.NewUserRepository(tc.DB)
	authMw := NewAuthMiddleware(config.JWTConfig{Secret: "test-secret-key-for-testing-only"}, userRepo)

	// alg=none style token must not pass even with a matching payload
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "oid-evil"})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}

	handler := authMw.Authenticate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	res := testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusUnauthorized(t)
}

func TestRequirePermission(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	tc := testutil.SetupPostgres(t)
	defer tc.Cleanup(t)

	userRepo := repository.NewUserRepository(tc.DB)
	authMw := NewAuthMiddleware(config.JWTConfig{Secret: "test-secret-key-for-testing-only"}, userRepo)
	rbacMw := NewRBACMiddleware(tc.DB)
	authHelper := testutil.NewAuthHelper()

	handler := authMw.Authenticate(
		rbacMw.RequirePermission("can_decide_governance")(
			http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}),
		),
	)

	// board_chair carries can_decide_governance
	token, err := authHelper.GenerateToken("oid-chair", "chair@test.com", "Chair", []string{"board_chair"})
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res := testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusOK(t)

	// board_member does not
	token, err = authHelper.GenerateToken("oid-member", "member@test.com", "Member", []string{"board_member"})
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusForbidden(t)

	// No roles at all
	token, err = authHelper.GenerateToken("oid-nobody", "nobody@test.com", "Nobody", nil)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}
	req = httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	res = testutil.NewTestResponse()
	handler.ServeHTTP(res, req)
	res.AssertStatusForbidden(t)
}
