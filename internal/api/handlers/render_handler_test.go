package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apiContext "larry/internal/api/context"
	"larry/internal/engine/codes"
	"larry/internal/engine/qrcode"
	"larry/internal/platform/auth"
)

func TestRenderHandler_CustomFont(t *testing.T) {
	svc, err := codes.NewService(nil, nil, codes.Options{FontFile: qrcode.BundledFontPath, FontSize: 14})
	require.NoError(t, err)
	h := NewRenderHandler(svc)

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"Default Size", "content=A&label=Hello", http.StatusOK},
		{"Explicit Size", "content=A&label=Hello&font_size=24", http.StatusOK},
		{"Size Too Large", "content=A&font_size=200", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.Render(rr, httptest.NewRequest(http.MethodGet, "/qr?"+tt.query, nil))
			assert.Equal(t, tt.want, rr.Code, rr.Body.String())
		})
	}
}

func TestCodeHandler_RenderOnlyService(t *testing.T) {
	svc, err := codes.NewService(nil, nil, codes.Options{})
	require.NoError(t, err)
	h := NewCodeHandler(svc, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/codes", nil)
	req = req.WithContext(context.WithValue(req.Context(), apiContext.Claims, &auth.Claims{ClientID: "cli_1"}))
	rr := httptest.NewRecorder()
	h.List(rr, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
