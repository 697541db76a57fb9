package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog/log"

	apiContext "larry/internal/api/context"
	"larry/internal/engine/codes"
	"larry/internal/engine/qrcode"
	"larry/internal/pkg/errors"
)

func param(r *http.Request, name string) string {
	ps, _ := r.Context().Value(apiContext.Params).(httprouter.Params)
	return ps.ByName(name)
}

// writeServiceError maps engine errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case stderrors.Is(err, codes.ErrInvalidRequest),
		stderrors.Is(err, qrcode.ErrEmptyContent),
		stderrors.Is(err, qrcode.ErrInvalidFontSize):
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, err.Error(), nil)
	case stderrors.Is(err, qrcode.ErrNoCustomFont):
		errors.WriteError(w, http.StatusBadRequest, errors.ErrCodeInvalidInput, "font_size requires a custom font to be configured", nil)
	case stderrors.Is(err, qrcode.ErrEncoding):
		errors.WriteError(w, http.StatusUnprocessableEntity, errors.ErrCodeUnencodable, "Content cannot be encoded as a QR code", nil)
	case stderrors.Is(err, codes.ErrCodeNotFound):
		errors.WriteError(w, http.StatusNotFound, errors.ErrCodeNotFound, "Code not found", nil)
	default:
		log.Error().Err(err).
			Interface("request_id", r.Context().Value(apiContext.RequestID)).
			Str("path", r.URL.Path).
			Msg("request failed")
		errors.WriteError(w, http.StatusInternalServerError, errors.ErrCodeInternal, "Internal server error", nil)
	}
}

func writePNG(w http.ResponseWriter, rendered *codes.Rendered) {
	w.Header().Set("Content-Type", qrcode.MIMEType)
	w.Header().Set("ETag", `"`+rendered.SHA256+`"`)
	if rendered.CacheHit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	w.WriteHeader(http.StatusOK)
	w.Write(rendered.PNG)
}
