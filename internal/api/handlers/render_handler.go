package handlers

import (
	"net/http"
	"strconv"

	"larry/internal/engine/codes"
	"larry/internal/pkg/errors"
)

const (
	FormatPNG     = "png"
	FormatDataURI = "data_uri"
)

// RenderHandler serves the public, non-persisting render endpoint.
type RenderHandler struct {
	svc *codes.Service
}

func NewRenderHandler(svc *codes.Service) *RenderHandler {
	return &RenderHandler{svc: svc}
}

type DataURIResponse struct {
	DataURI string `json:"data_uri"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	SHA256  string `json:"sha256"`
}

// Render handles GET /qr?content=&label=&format=&font_size=.
func (h *RenderHandler) Render(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := &codes.RenderRequest{
		Content: q.Get("content"),
		Label:   q.Get("label"),
	}
	if fs := q.Get("font_size"); fs != "" {
		size, err := strconv.Atoi(fs)
		if err != nil {
			errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "font_size must be an integer", nil)
			return
		}
		req.FontSize = size
	}

	format := q.Get("format")
	if format == "" {
		format = FormatPNG
	}
	if format != FormatPNG && format != FormatDataURI {
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "format must be png or data_uri", nil)
		return
	}

	rendered, err := h.svc.Render(req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	if format == FormatDataURI {
		errors.WriteJSON(w, http.StatusOK, DataURIResponse{
			DataURI: rendered.DataURI(),
			Width:   rendered.Width,
			Height:  rendered.Height,
			SHA256:  rendered.SHA256,
		})
		return
	}

	writePNG(w, rendered)
}
