package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rafael/central-backend/internal/domain"
	"github.com/rafael/central-backend/internal/service"
	"gorm.io/gorm"
)

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeServiceError maps business errors onto HTTP statuses. Validation
// failures keep their full message list so the client sees every
// problem in one response.
func writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"errors": validationErr.Messages})
		return
	}

	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid credentials")
	case errors.Is(err, service.ErrNotApproved):
		writeError(w, http.StatusForbidden, "account pending administrator approval")
	case errors.Is(err, service.ErrNoActiveSession):
		writeError(w, http.StatusNotFound, "no active session found")
	case errors.Is(err, service.ErrNotAdmin):
		writeError(w, http.StatusForbidden, "admin access required")
	case errors.Is(err, service.ErrLevelsNotConfigured):
		writeError(w, http.StatusInternalServerError, "no levels configured")
	case errors.Is(err, domain.ErrTeamExists):
		writeError(w, http.StatusBadRequest, "user already owns a team")
	case errors.Is(err, domain.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, "team not found")
	case errors.Is(err, domain.ErrNotTeamMember):
		writeError(w, http.StatusForbidden, "not a member of this team")
	case errors.Is(err, domain.ErrNotTeamAdmin):
		writeError(w, http.StatusForbidden, "team admin access required")
	case errors.Is(err, domain.ErrInvitePending):
		writeError(w, http.StatusBadRequest, "an invitation is already pending for this email")
	case errors.Is(err, domain.ErrAlreadyMember):
		writeError(w, http.StatusBadRequest, "already a member of this team")
	case errors.Is(err, domain.ErrInvitationNotFound):
		writeError(w, http.StatusNotFound, "invitation not found")
	case errors.Is(err, domain.ErrInvitationInvalid):
		writeError(w, http.StatusBadRequest, "invitation is no longer valid")
	case errors.Is(err, domain.ErrInvitationExpired):
		writeError(w, http.StatusBadRequest, "invitation has expired")
	case errors.Is(err, gorm.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// clientIP prefers the forwarded address set by a proxy and falls back
// to the connection's remote address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
