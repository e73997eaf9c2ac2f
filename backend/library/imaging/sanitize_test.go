package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func solidNRGBA(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestSanitizeTransparentPNGStaysPNG(t *testing.T) {
	src := solidNRGBA(8, 8, color.NRGBA{R: 200, G: 10, B: 10, A: 128})
	raw := encodePNG(t, src)

	s := Sanitizer{Enabled: true}
	out, err := s.Sanitize(raw)
	require.NoError(t, err)
	assert.Equal(t, "_clean.png", out.Suffix)

	decoded, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	_, _, _, a := decoded.At(4, 4).RGBA()
	assert.NotEqual(t, uint32(0xffff), a, "alpha should survive re-encoding")
}

func TestSanitizeOpaqueImageBecomesJPEG(t *testing.T) {
	src := solidNRGBA(8, 8, color.NRGBA{R: 10, G: 200, B: 10, A: 255})
	raw := encodePNG(t, src)

	s := Sanitizer{Enabled: true}
	out, err := s.Sanitize(raw)
	require.NoError(t, err)
	assert.Equal(t, "_clean.jpg", out.Suffix)

	_, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

// alphaChannelImage defeats the png encoder's opaque shortcut so the
// fixture is written as truecolor-with-alpha even when fully opaque.
type alphaChannelImage struct{ *image.NRGBA }

func (alphaChannelImage) Opaque() bool { return false }

func TestSanitizeOpaqueAlphaChannelPNGStaysPNG(t *testing.T) {
	src := solidNRGBA(8, 8, color.NRGBA{R: 40, G: 40, B: 220, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, alphaChannelImage{src}))

	s := Sanitizer{Enabled: true}
	out, err := s.Sanitize(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "_clean.png", out.Suffix, "alpha channel decides the format, not pixel opacity")

	decoded, format, err := image.Decode(bytes.NewReader(out.Data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.IsType(t, &image.NRGBA{}, decoded, "alpha channel should survive re-encoding")
}

func TestSanitizeIdempotent(t *testing.T) {
	s := Sanitizer{Enabled: true}

	cases := []struct {
		name   string
		raw    []byte
		suffix string
	}{
		{"transparent png", encodePNG(t, solidNRGBA(8, 8, color.NRGBA{R: 200, G: 10, B: 10, A: 128})), "_clean.png"},
		{"opaque jpeg", encodeJPEG(t, solidNRGBA(8, 8, color.NRGBA{R: 90, G: 90, B: 90, A: 255})), "_clean.jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			first, err := s.Sanitize(tc.raw)
			require.NoError(t, err)
			require.Equal(t, tc.suffix, first.Suffix)

			second, err := s.Sanitize(first.Data)
			require.NoError(t, err)
			assert.Equal(t, first.Suffix, second.Suffix)

			third, err := s.Sanitize(second.Data)
			require.NoError(t, err)
			assert.Equal(t, second.Suffix, third.Suffix)
		})
	}

	// The opaque alpha-channel case converges to PNG and stays there.
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, alphaChannelImage{solidNRGBA(8, 8, color.NRGBA{R: 1, G: 2, B: 3, A: 255})}))
	first, err := s.Sanitize(buf.Bytes())
	require.NoError(t, err)
	require.Equal(t, "_clean.png", first.Suffix)
	second, err := s.Sanitize(first.Data)
	require.NoError(t, err)
	assert.Equal(t, "_clean.png", second.Suffix)
}

func TestSanitizeJPEGInput(t *testing.T) {
	src := solidNRGBA(8, 8, color.NRGBA{R: 90, G: 90, B: 90, A: 255})
	raw := encodeJPEG(t, src)

	s := Sanitizer{Enabled: true}
	out, err := s.Sanitize(raw)
	require.NoError(t, err)
	assert.Equal(t, "_clean.jpg", out.Suffix)
}

func TestSanitizeDisabled(t *testing.T) {
	s := Sanitizer{Enabled: false}
	_, err := s.Sanitize([]byte("anything"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestSanitizeGarbage(t *testing.T) {
	s := Sanitizer{Enabled: true}
	_, err := s.Sanitize([]byte("definitely not an image"))
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCleanName(t *testing.T) {
	assert.Equal(t, "photo_clean.jpg", CleanName("photo.png", "_clean.jpg"))
	assert.Equal(t, "photo_clean.png", CleanName("photo.jpeg", "_clean.png"))
	assert.Equal(t, "noext_clean.jpg", CleanName("noext", "_clean.jpg"))
	assert.Equal(t, "a.b_clean.jpg", CleanName("a.b.c", "_clean.jpg"))
}
