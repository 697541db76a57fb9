package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	apiContext "larry/internal/api/context"
	"larry/internal/engine/codes"
	"larry/internal/pkg/errors"
	"larry/internal/platform/audit"
	"larry/internal/platform/auth"
)

type CodeHandler struct {
	svc      *codes.Service
	auditLog *audit.Logger
}

func NewCodeHandler(svc *codes.Service, auditLog *audit.Logger) *CodeHandler {
	return &CodeHandler{svc: svc, auditLog: auditLog}
}

type CreateCodeResponse struct {
	Code    *codes.Code `json:"code"`
	DataURI string      `json:"data_uri"`
}

type ListCodesResponse struct {
	Codes []*codes.Code `json:"codes"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
	Total int64         `json:"total"`
}

func (h *CodeHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	var req codes.RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "Invalid request body", nil)
		return
	}

	code, rendered, err := h.svc.Create(&req, claims.ClientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	h.auditLog.Log(r, claims.ClientID, audit.ActionCodeCreate, audit.ResourceCode, code.ID, map[string]interface{}{
		"image_sha256": code.ImageSHA256,
		"cache_hit":    rendered.CacheHit,
	})

	w.Header().Set("Location", "/api/v1/codes/"+code.ID)
	errors.WriteJSON(w, http.StatusCreated, CreateCodeResponse{
		Code:    code,
		DataURI: rendered.DataURI(),
	})
}

func (h *CodeHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 50
	}

	list, err := h.svc.List(claims.ClientID, limit, (page-1)*limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	total, err := h.svc.Count(claims.ClientID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	if list == nil {
		list = []*codes.Code{}
	}

	errors.WriteJSON(w, http.StatusOK, ListCodesResponse{
		Codes: list,
		Page:  page,
		Limit: limit,
		Total: total,
	})
}

func (h *CodeHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	code, err := h.svc.Get(claims.ClientID, param(r, "code_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	errors.WriteJSON(w, http.StatusOK, code)
}

func (h *CodeHandler) Image(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)

	_, rendered, err := h.svc.Image(claims.ClientID, param(r, "code_id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writePNG(w, rendered)
}

func (h *CodeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := r.Context().Value(apiContext.Claims).(*auth.Claims)
	id := param(r, "code_id")

	if err := h.svc.Delete(claims.ClientID, id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	h.auditLog.Log(r, claims.ClientID, audit.ActionCodeDelete, audit.ResourceCode, id, nil)

	w.WriteHeader(http.StatusNoContent)
}
