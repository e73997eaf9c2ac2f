package imaging

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	"image/png"
	"strings"

	_ "image/gif"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// ErrUnavailable reports that image processing is switched off or the
// input cannot be decoded as a raster image.
var ErrUnavailable = errors.New("image processing unavailable")

// Processed is a re-encoded image together with the filename suffix its
// format dictates.
type Processed struct {
	Data   []byte
	Suffix string
}

// Sanitizer re-encodes raster uploads, which strips EXIF and any other
// embedded metadata. Images with transparency become PNG, everything
// else becomes JPEG.
type Sanitizer struct {
	Enabled bool
}

const jpegQuality = 90

func (s Sanitizer) Sanitize(raw []byte) (*Processed, error) {
	if !s.Enabled {
		return nil, ErrUnavailable
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var buf bytes.Buffer
	if hasAlpha(img) {
		nrgba := toNRGBA(img)
		if err := png.Encode(&buf, keepAlpha{nrgba}); err != nil {
			return nil, err
		}
		return &Processed{Data: buf.Bytes(), Suffix: "_clean.png"}, nil
	}

	rgba := toOpaqueRGBA(img)
	if err := jpeg.Encode(&buf, rgba, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return &Processed{Data: buf.Bytes(), Suffix: "_clean.jpg"}, nil
}

// CleanName rewrites an original filename with the sanitized suffix:
// photo.png -> photo_clean.png.
func CleanName(original string, suffix string) string {
	base := original
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base + suffix
}

// hasAlpha reports whether the source carried an alpha channel. The
// decoders produce NRGBA variants only for alpha-channel inputs, so
// those count even when every pixel happens to be opaque; palette
// images get the per-pixel check since their type says nothing about
// transparency.
func hasAlpha(img image.Image) bool {
	switch m := img.(type) {
	case *image.NRGBA, *image.NRGBA64, *image.NYCbCrA:
		return true
	case *image.RGBA:
		return !m.Opaque()
	case *image.RGBA64:
		return !m.Opaque()
	case *image.Paletted:
		return !m.Opaque()
	default:
		return false
	}
}

// keepAlpha hides the underlying image's Opaque fast path so the png
// encoder writes the alpha channel even when every pixel is opaque.
// Without it a re-sanitized image would lose the channel and flip to
// JPEG on the next pass.
type keepAlpha struct{ *image.NRGBA }

func (keepAlpha) Opaque() bool { return false }

func toNRGBA(img image.Image) *image.NRGBA {
	if m, ok := img.(*image.NRGBA); ok {
		return m
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// toOpaqueRGBA flattens the image onto a white background so stray
// alpha never turns into black fringes in the JPEG.
func toOpaqueRGBA(img image.Image) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Over)
	return dst
}
