package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"larry/internal/pkg/errors"
	"larry/internal/platform/audit"
	"larry/internal/platform/auth"
	"larry/internal/platform/repositories"
)

type AuthHandler struct {
	clientRepo *repositories.ClientRepository
	tokenSvc   *auth.TokenService
	auditLog   *audit.Logger
}

func NewAuthHandler(clientRepo *repositories.ClientRepository, tokenSvc *auth.TokenService, auditLog *audit.Logger) *AuthHandler {
	return &AuthHandler{
		clientRepo: clientRepo,
		tokenSvc:   tokenSvc,
		auditLog:   auditLog,
	}
}

type TokenRequest struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type TokenResponse struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	Scopes      []string `json:"scopes"`
}

// Token exchanges client credentials for an access token.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req TokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}
	if req.ClientID == "" || req.ClientSecret == "" {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "client_id and client_secret are required", nil)
		return
	}

	client, err := h.clientRepo.Authenticate(req.ClientID, req.ClientSecret)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Database error", nil)
		return
	}
	if client == nil {
		errors.WriteError(w, http.StatusUnauthorized, errors.ErrCodeUnauthorized, "Invalid credentials", nil)
		return
	}

	accessToken, err := h.tokenSvc.GenerateAccessToken(client.ID, client.Scopes)
	if err != nil {
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Failed to generate token", nil)
		return
	}

	if err := h.clientRepo.UpdateLastUsed(client.ID); err != nil {
		log.Warn().Err(err).Str("client_id", client.ID).Msg("failed to update client last_used_at")
	}

	h.auditLog.Log(r, client.ID, audit.ActionTokenIssue, audit.ResourceClient, client.ID, nil)

	errors.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(h.tokenSvc.TTL().Seconds()),
		Scopes:      client.Scopes,
	})
}
