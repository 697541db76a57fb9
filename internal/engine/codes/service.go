package codes

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"image/png"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"larry/internal/engine/qrcode"
)

// Options holds the rendering defaults of a Service.
type Options struct {
	// DefaultLabel is drawn when a request has no label.
	DefaultLabel string
	// FontFile enables a custom font for every label. Empty selects the
	// built-in bitmap font.
	FontFile string
	// FontSize is used when a request does not set one.
	FontSize int
	// Encoder names the symbol encoder backend.
	Encoder string
	// Retention is the lifetime of stored codes without an explicit expiry.
	// Zero keeps them forever.
	Retention time.Duration
	// Fonts resolves FontFile. Nil reads from the OS.
	Fonts *qrcode.FontLoader
}

type Stats struct {
	Rendered     uint64
	CacheHits    uint64
	CacheMisses  uint64
	CacheEntries int64
}

type Service struct {
	repo  *Repository
	cache *RenderCache
	opts  Options

	rendered    atomic.Uint64
	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
}

// NewService builds a service. repo may be nil for render-only use.
func NewService(repo *Repository, cache *RenderCache, opts Options) (*Service, error) {
	if opts.Encoder == "" {
		opts.Encoder = qrcode.EncoderSkip
	}
	if _, err := qrcode.EncoderByName(opts.Encoder); err != nil {
		return nil, err
	}
	if opts.Fonts == nil {
		opts.Fonts = qrcode.NewFontLoader(nil)
	}

	return &Service{
		repo:  repo,
		cache: cache,
		opts:  opts,
	}, nil
}

// renderSpec is a request with the service defaults applied.
type renderSpec struct {
	content  string
	label    string
	fontSize int
	encoder  string
}

func (s *Service) resolve(req *RenderRequest) (renderSpec, error) {
	spec := renderSpec{
		content: req.Content,
		label:   req.Label,
		encoder: s.opts.Encoder,
	}
	if spec.label == "" {
		spec.label = s.opts.DefaultLabel
	}

	if s.opts.FontFile == "" {
		if req.FontSize != 0 {
			return spec, qrcode.ErrNoCustomFont
		}
		return spec, nil
	}

	spec.fontSize = req.FontSize
	if spec.fontSize == 0 {
		spec.fontSize = s.opts.FontSize
	}
	if spec.fontSize == 0 {
		spec.fontSize = qrcode.DefaultFontSize
	}
	return spec, nil
}

// Render validates req and returns the PNG, using the cache when possible.
func (s *Service) Render(req *RenderRequest) (*Rendered, error) {
	if err := ValidateRequest(req); err != nil {
		return nil, err
	}

	spec, err := s.resolve(req)
	if err != nil {
		return nil, err
	}
	return s.render(spec)
}

func (s *Service) render(spec renderSpec) (*Rendered, error) {
	key := CacheKey(spec.content, spec.label, spec.fontSize, spec.encoder)
	if rendered, ok := s.cache.Get(key); ok {
		s.cacheHits.Add(1)
		return rendered, nil
	}
	s.cacheMisses.Add(1)

	var labelOpts []qrcode.LabelOption
	if spec.fontSize != 0 {
		labelOpts = append(labelOpts, qrcode.WithFontFile(s.opts.FontFile), qrcode.WithFontLoader(s.opts.Fonts))
	}
	label := qrcode.NewLabel(spec.label, labelOpts...)
	if spec.fontSize != 0 {
		if err := label.SetFontSize(spec.fontSize); err != nil {
			return nil, err
		}
	}

	enc, err := qrcode.EncoderByName(spec.encoder)
	if err != nil {
		return nil, err
	}

	code, err := qrcode.New(spec.content, label, qrcode.WithEncoder(enc))
	if err != nil {
		return nil, err
	}

	b, err := code.ImageBytes()
	if err != nil {
		return nil, err
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("codes: reading rendered png: %w", err)
	}

	sum := sha256.Sum256(b)
	rendered := &Rendered{
		PNG:    b,
		Width:  cfg.Width,
		Height: cfg.Height,
		SHA256: hex.EncodeToString(sum[:]),
	}

	s.rendered.Add(1)
	s.cache.Set(key, rendered)

	return rendered, nil
}

// Create renders req and stores the result.
func (s *Service) Create(req *RenderRequest, createdBy string) (*Code, *Rendered, error) {
	if s.repo == nil {
		return nil, nil, ErrNoRepository
	}

	if err := ValidateRequest(req); err != nil {
		return nil, nil, err
	}
	spec, err := s.resolve(req)
	if err != nil {
		return nil, nil, err
	}

	rendered, err := s.render(spec)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	code := &Code{
		ID:          uuid.New().String(),
		Content:     spec.content,
		LabelText:   spec.label,
		FontSize:    spec.fontSize,
		Encoder:     spec.encoder,
		ImageSHA256: rendered.SHA256,
		ImageSize:   len(rendered.PNG),
		Width:       rendered.Width,
		Height:      rendered.Height,
		CreatedBy:   createdBy,
		CreatedAt:   now.Unix(),
	}

	switch {
	case req.ExpiresInDays > 0:
		exp := now.Add(time.Duration(req.ExpiresInDays) * 24 * time.Hour).Unix()
		code.ExpiresAt = &exp
	case s.opts.Retention > 0:
		exp := now.Add(s.opts.Retention).Unix()
		code.ExpiresAt = &exp
	}

	if err := s.repo.Create(code); err != nil {
		return nil, nil, err
	}

	log.Info().
		Str("code_id", code.ID).
		Str("created_by", createdBy).
		Int("bytes", code.ImageSize).
		Msg("code created")

	return code, rendered, nil
}

// Get, List, Delete, Image and Count only see codes created by owner.
// An empty owner sees every code. A code owned by someone else is reported
// as ErrCodeNotFound.
func (s *Service) Get(owner, id string) (*Code, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.GetByID(id, owner)
}

func (s *Service) List(owner string, limit, offset int) ([]*Code, error) {
	if s.repo == nil {
		return nil, ErrNoRepository
	}
	return s.repo.List(owner, limit, offset)
}

func (s *Service) Delete(owner, id string) error {
	if s.repo == nil {
		return ErrNoRepository
	}
	return s.repo.Delete(id, owner)
}

// Image renders a stored code again from its recorded inputs.
func (s *Service) Image(owner, id string) (*Code, *Rendered, error) {
	code, err := s.Get(owner, id)
	if err != nil {
		return nil, nil, err
	}

	rendered, err := s.render(renderSpec{
		content:  code.Content,
		label:    code.LabelText,
		fontSize: code.FontSize,
		encoder:  code.Encoder,
	})
	if err != nil {
		return nil, nil, err
	}

	if rendered.SHA256 != code.ImageSHA256 {
		// A different font file or library version changes the pixels.
		log.Warn().
			Str("code_id", code.ID).
			Str("stored_sha256", code.ImageSHA256).
			Str("rendered_sha256", rendered.SHA256).
			Msg("re-rendered code differs from the stored checksum")
	}

	return code, rendered, nil
}

// PurgeExpired deletes stored codes that expired at or before now.
func (s *Service) PurgeExpired(now time.Time) (int64, error) {
	if s.repo == nil {
		return 0, ErrNoRepository
	}
	return s.repo.DeleteExpired(now.Unix())
}

// Count returns the number of stored codes of owner.
func (s *Service) Count(owner string) (int64, error) {
	if s.repo == nil {
		return 0, ErrNoRepository
	}
	return s.repo.Count(owner)
}

func (s *Service) Stats() Stats {
	return Stats{
		Rendered:     s.rendered.Load(),
		CacheHits:    s.cacheHits.Load(),
		CacheMisses:  s.cacheMisses.Load(),
		CacheEntries: s.cache.Len(),
	}
}
