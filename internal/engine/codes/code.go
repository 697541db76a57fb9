package codes

import (
	"errors"

	"larry/internal/engine/qrcode"
)

var (
	// ErrCodeNotFound is returned when no stored code has the requested id.
	ErrCodeNotFound = errors.New("code not found")
	// ErrInvalidRequest wraps every validation failure of a RenderRequest.
	ErrInvalidRequest = errors.New("invalid render request")
	// ErrNoRepository is returned by persistence operations on a render-only service.
	ErrNoRepository = errors.New("service has no repository")
)

// Code is a stored QR code. The image itself is not stored; it is rendered
// again from these fields on demand.
type Code struct {
	ID          string `json:"id"`
	Content     string `json:"content"`
	LabelText   string `json:"label"`
	FontSize    int    `json:"font_size"` // 0 when rendered with the bitmap font
	Encoder     string `json:"encoder"`
	ImageSHA256 string `json:"image_sha256"`
	ImageSize   int    `json:"image_size"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	CreatedBy   string `json:"created_by"`
	CreatedAt   int64  `json:"created_at"`
	ExpiresAt   *int64 `json:"expires_at,omitempty"`
}

// RenderRequest describes a QR code to render.
type RenderRequest struct {
	Content       string `json:"content"`
	Label         string `json:"label"`
	FontSize      int    `json:"font_size,omitempty"`
	ExpiresInDays int    `json:"expires_in_days,omitempty"`
}

// Rendered is a rendered PNG and its dimensions.
type Rendered struct {
	PNG      []byte `json:"-"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	SHA256   string `json:"sha256"`
	CacheHit bool   `json:"cache_hit"`
}

func (r *Rendered) DataURI() string {
	return qrcode.DataURI(r.PNG)
}
