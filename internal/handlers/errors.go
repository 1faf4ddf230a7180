package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"dha-governance/internal/service"
)

// serviceError maps a service error kind to its HTTP status. Unclassified
// errors become 500 without leaking their message.
func serviceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.Is(err, service.ErrConflict):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrUnavailable):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		slog.Error("Internal error", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}
