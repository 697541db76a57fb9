package qrcode_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larry/internal/engine/qrcode"
)

func TestEncoders(t *testing.T) {
	t.Parallel()

	encoders := map[string]qrcode.SymbolEncoder{
		qrcode.EncoderSkip:      qrcode.SkipEncoder{},
		qrcode.EncoderBoombuler: qrcode.BarcodeEncoder{},
	}

	for name, enc := range encoders {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			bitmap, err := enc.Encode("A")
			require.NoError(t, err)

			side := 21 + 2*qrcode.BorderModules
			require.Len(t, bitmap, side)
			for _, row := range bitmap {
				require.Len(t, row, side)
			}

			for i := 0; i < qrcode.BorderModules; i++ {
				for j := 0; j < side; j++ {
					assert.False(t, bitmap[i][j], "top quiet zone")
					assert.False(t, bitmap[side-1-i][j], "bottom quiet zone")
					assert.False(t, bitmap[j][i], "left quiet zone")
					assert.False(t, bitmap[j][side-1-i], "right quiet zone")
				}
			}
			assert.True(t, bitmap[qrcode.BorderModules][qrcode.BorderModules], "finder pattern corner")

			_, err = enc.Encode(strings.Repeat("x", 5000))
			assert.ErrorIs(t, err, qrcode.ErrEncoding)
		})
	}
}

func TestEncoderByName(t *testing.T) {
	t.Parallel()

	enc, err := qrcode.EncoderByName("")
	require.NoError(t, err)
	assert.IsType(t, qrcode.SkipEncoder{}, enc)

	enc, err = qrcode.EncoderByName(qrcode.EncoderBoombuler)
	require.NoError(t, err)
	assert.IsType(t, qrcode.BarcodeEncoder{}, enc)

	_, err = qrcode.EncoderByName("zxing")
	assert.ErrorIs(t, err, qrcode.ErrUnknownEncoder)

	code, err := qrcode.New("A", nil, qrcode.WithEncoder(qrcode.BarcodeEncoder{}))
	require.NoError(t, err)
	_, err = code.ImageBytes()
	assert.NoError(t, err)
}
