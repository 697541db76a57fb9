package handlers

import (
	"net/http"
	"strconv"

	apiContext "larry/internal/api/context"
	"larry/internal/pkg/errors"
	"larry/internal/platform/audit"
	"larry/internal/platform/auth"
)

type AuditHandler struct {
	auditLog *audit.Logger
}

func NewAuditHandler(auditLog *audit.Logger) *AuditHandler {
	return &AuditHandler{auditLog: auditLog}
}

// List returns the caller's own audit trail.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	entries, err := h.auditLog.List(claims.ClientID, limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"entries": entries,
	})
}
