package codes

import (
	"bytes"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larry/internal/engine/qrcode"
)

func newTestService(t *testing.T, opts Options) *Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupTestDB(t)), NewRenderCache(time.Minute, 100), opts)
	require.NoError(t, err)
	return svc
}

func TestNewService_UnknownEncoder(t *testing.T) {
	_, err := NewService(nil, nil, Options{Encoder: "zxing"})
	assert.ErrorIs(t, err, qrcode.ErrUnknownEncoder)
}

func TestService_Render(t *testing.T) {
	svc := newTestService(t, Options{DefaultLabel: "Scan me"})

	t.Run("renders png", func(t *testing.T) {
		rendered, err := svc.Render(&RenderRequest{Content: "https://example.com", Label: "Example"})
		require.NoError(t, err)

		img, err := png.Decode(bytes.NewReader(rendered.PNG))
		require.NoError(t, err)
		assert.Equal(t, rendered.Width, img.Bounds().Dx())
		assert.Equal(t, rendered.Height, img.Bounds().Dy())
		assert.Len(t, rendered.SHA256, 64)
		assert.True(t, strings.HasPrefix(rendered.DataURI(), "data:image/png;base64,"))
	})

	t.Run("matches the library output", func(t *testing.T) {
		rendered, err := svc.Render(&RenderRequest{Content: "A", Label: "line1\nline2"})
		require.NoError(t, err)

		code, err := qrcode.New("A", qrcode.NewLabel("line1\nline2"))
		require.NoError(t, err)
		want, err := code.ImageBytes()
		require.NoError(t, err)

		assert.Equal(t, want, rendered.PNG)
	})

	t.Run("applies the default label", func(t *testing.T) {
		rendered, err := svc.Render(&RenderRequest{Content: "A"})
		require.NoError(t, err)

		code, err := qrcode.New("A", qrcode.NewLabel("Scan me"))
		require.NoError(t, err)
		want, err := code.ImageBytes()
		require.NoError(t, err)

		assert.Equal(t, want, rendered.PNG)
	})

	t.Run("serves repeats from the cache", func(t *testing.T) {
		before := svc.Stats()

		first, err := svc.Render(&RenderRequest{Content: "cached", Label: "c"})
		require.NoError(t, err)
		assert.False(t, first.CacheHit)

		second, err := svc.Render(&RenderRequest{Content: "cached", Label: "c"})
		require.NoError(t, err)
		assert.True(t, second.CacheHit)
		assert.Equal(t, first.PNG, second.PNG)

		after := svc.Stats()
		assert.Equal(t, before.Rendered+1, after.Rendered)
		assert.Equal(t, before.CacheHits+1, after.CacheHits)
		assert.Equal(t, before.CacheMisses+1, after.CacheMisses)
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		_, err := svc.Render(&RenderRequest{})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	})

	t.Run("font size needs a font file", func(t *testing.T) {
		_, err := svc.Render(&RenderRequest{Content: "A", FontSize: 12})
		assert.ErrorIs(t, err, qrcode.ErrNoCustomFont)
	})
}

func TestService_RenderWithFont(t *testing.T) {
	svc := newTestService(t, Options{FontFile: qrcode.BundledFontPath, FontSize: 14})

	small, err := svc.Render(&RenderRequest{Content: "A", Label: "Scan me"})
	require.NoError(t, err)
	large, err := svc.Render(&RenderRequest{Content: "A", Label: "Scan me", FontSize: 48})
	require.NoError(t, err)

	assert.Greater(t, large.Height, small.Height)
}

func TestService_Create(t *testing.T) {
	svc := newTestService(t, Options{DefaultLabel: "Scan me", Retention: 24 * time.Hour})

	code, rendered, err := svc.Create(&RenderRequest{Content: "https://example.com"}, "client1")
	require.NoError(t, err)

	assert.NotEmpty(t, code.ID)
	assert.Equal(t, "Scan me", code.LabelText)
	assert.Equal(t, "skip2", code.Encoder)
	assert.Equal(t, rendered.SHA256, code.ImageSHA256)
	assert.Equal(t, len(rendered.PNG), code.ImageSize)
	require.NotNil(t, code.ExpiresAt)
	assert.InDelta(t, time.Now().Add(24*time.Hour).Unix(), *code.ExpiresAt, 5)

	fetched, err := svc.Get("client1", code.ID)
	require.NoError(t, err)
	assert.Equal(t, code, fetched)

	list, err := svc.List("client1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	n, err := svc.Count("client1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, image, err := svc.Image("client1", code.ID)
	require.NoError(t, err)
	assert.Equal(t, rendered.PNG, image.PNG)

	require.NoError(t, svc.Delete("client1", code.ID))
	_, err = svc.Get("client1", code.ID)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	_, _, err = svc.Image("client1", code.ID)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestService_RenderLongContent(t *testing.T) {
	svc := newTestService(t, Options{})

	t.Run("numeric content above the byte capacity", func(t *testing.T) {
		rendered, err := svc.Render(&RenderRequest{Content: strings.Repeat("7", 4000)})
		require.NoError(t, err)
		assert.NotEmpty(t, rendered.PNG)
	})

	t.Run("byte content above the byte capacity", func(t *testing.T) {
		_, err := svc.Render(&RenderRequest{Content: strings.Repeat("x", 4000)})
		assert.ErrorIs(t, err, qrcode.ErrEncoding)
		assert.NotErrorIs(t, err, ErrInvalidRequest)
	})
}

func TestService_OtherClientsCodes(t *testing.T) {
	svc := newTestService(t, Options{})

	code, _, err := svc.Create(&RenderRequest{Content: "private"}, "client1")
	require.NoError(t, err)

	_, err = svc.Get("client2", code.ID)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	_, _, err = svc.Image("client2", code.ID)
	assert.ErrorIs(t, err, ErrCodeNotFound)
	assert.ErrorIs(t, svc.Delete("client2", code.ID), ErrCodeNotFound)

	list, err := svc.List("client2", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = svc.Get("client1", code.ID)
	assert.NoError(t, err)
}

func TestService_CreateExpiry(t *testing.T) {
	svc := newTestService(t, Options{})

	code, _, err := svc.Create(&RenderRequest{Content: "forever"}, "client1")
	require.NoError(t, err)
	assert.Nil(t, code.ExpiresAt)

	code, _, err = svc.Create(&RenderRequest{Content: "two days", ExpiresInDays: 2}, "client1")
	require.NoError(t, err)
	require.NotNil(t, code.ExpiresAt)

	purged, err := svc.PurgeExpired(time.Now())
	require.NoError(t, err)
	assert.Zero(t, purged)

	purged, err = svc.PurgeExpired(time.Now().Add(72 * time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)
}

func TestService_RenderOnly(t *testing.T) {
	svc, err := NewService(nil, nil, Options{})
	require.NoError(t, err)

	_, err = svc.Render(&RenderRequest{Content: "A"})
	require.NoError(t, err)

	_, _, err = svc.Create(&RenderRequest{Content: "A"}, "cli")
	assert.ErrorIs(t, err, ErrNoRepository)
	_, err = svc.List("", 10, 0)
	assert.ErrorIs(t, err, ErrNoRepository)
	_, err = svc.PurgeExpired(time.Now())
	assert.ErrorIs(t, err, ErrNoRepository)
}
