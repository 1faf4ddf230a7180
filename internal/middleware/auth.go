package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"dha-governance/internal/config"
	"dha-governance/internal/repository"
)

type contextKey string

const (
	UserOIDKey   contextKey = "user_oid"
	UserEmailKey contextKey = "user_email"
	UserRolesKey contextKey = "user_roles"
)

// Claims are the token claims issued by the platform identity service
type Claims struct {
	Email       string   `json:"email"`
	DisplayName string   `json:"name"`
	Roles       []string `json:"roles"`
	jwt.RegisteredClaims
}

// AuthMiddleware validates JWT tokens issued by the identity service and
// mirrors the identity into the local user directory
type AuthMiddleware struct {
	cfg      config.JWTConfig
	userRepo *repository.UserRepository
}

// NewAuthMiddleware creates a new auth middleware
func NewAuthMiddleware(cfg config.JWTConfig, userRepo *repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{
		cfg:      cfg,
		userRepo: userRepo,
	}
}

// Authenticate validates the JWT token and adds the principal to context
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Get the Authorization header
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondWithError(w, http.StatusUnauthorized, "Missing authorization header")
			return
		}

		// Extract the token
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondWithError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := m.validateToken(parts[1])
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		oid := claims.Subject
		if oid == "" {
			respondWithError(w, http.StatusUnauthorized, "Token has no subject")
			return
		}

		// Mirror the identity locally so display names and emails resolve
		if _, err := m.userRepo.UpsertFromClaims(oid, claims.Email, claims.DisplayName); err != nil {
			respondWithError(w, http.StatusInternalServerError, "Failed to resolve user")
			return
		}

		ctx := context.WithValue(r.Context(), UserOIDKey, oid)
		ctx = context.WithValue(ctx, UserEmailKey, claims.Email)
		ctx = context.WithValue(ctx, UserRolesKey, claims.Roles)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *AuthMiddleware) validateToken(tokenString string) (*Claims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256"}),
	}
	if m.cfg.Issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(m.cfg.Issuer))
	}
	if m.cfg.Audience != "" {
		parserOptions = append(parserOptions, jwt.WithAudience(m.cfg.Audience))
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(m.cfg.Secret), nil
	}, parserOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	return claims, nil
}

// GetUserOID retrieves the principal's directory object ID from the request context
func GetUserOID(r *http.Request) (string, bool) {
	oid, ok := r.Context().Value(UserOIDKey).(string)
	return oid, ok && oid != ""
}

// GetUserEmail retrieves the user email from the request context
func GetUserEmail(r *http.Request) (string, bool) {
	email, ok := r.Context().Value(UserEmailKey).(string)
	return email, ok
}

// GetUserRoles retrieves the principal's roles from the request context
func GetUserRoles(r *http.Request) []string {
	roles, ok := r.Context().Value(UserRolesKey).([]string)
	if !ok {
		return nil
	}
	return roles
}

// Helper function to respond with JSON error
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
