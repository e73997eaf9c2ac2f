package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"
)

// Placement controls where and how a design lands on the container.
// PosX/PosY are the design center in percent of the container size,
// Scale is the design width in percent of the container width,
// Rotation is clockwise degrees. MaskOpacity is 0-100 and MaskFeather
// is the blur radius in pixels.
type Placement struct {
	PosX        float64
	PosY        float64
	Scale       float64
	Rotation    float64
	MaskOpacity float64
	MaskFeather float64
	MaskInvert  bool
}

// Compose renders the design (optionally masked) onto the container and
// returns the result as JPEG bytes.
func Compose(container []byte, design []byte, mask []byte, p Placement) ([]byte, error) {
	containerImg, _, err := image.Decode(bytes.NewReader(container))
	if err != nil {
		return nil, fmt.Errorf("decode container: %w", err)
	}
	designImg, _, err := image.Decode(bytes.NewReader(design))
	if err != nil {
		return nil, fmt.Errorf("decode design: %w", err)
	}
	var maskImg image.Image
	if len(mask) > 0 {
		maskImg, _, err = image.Decode(bytes.NewReader(mask))
		if err != nil {
			return nil, fmt.Errorf("decode mask: %w", err)
		}
	}

	out, err := composeNRGBA(containerImg, designImg, maskImg, p)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, toOpaqueRGBA(out), &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func composeNRGBA(container image.Image, design image.Image, mask image.Image, p Placement) (*image.NRGBA, error) {
	base := toNRGBA(container)
	cw, ch := base.Bounds().Dx(), base.Bounds().Dy()
	if cw == 0 || ch == 0 {
		return nil, fmt.Errorf("container has no pixels")
	}

	overlay := scaleDesign(design, cw, p.Scale)

	if mask != nil {
		applyMask(overlay, mask, p)
	}

	if p.Rotation != 0 {
		overlay = rotateClockwise(overlay, p.Rotation)
	}

	dw, dh := overlay.Bounds().Dx(), overlay.Bounds().Dy()
	px := int(math.Round(p.PosX/100*float64(cw) - float64(dw)/2))
	py := int(math.Round(p.PosY/100*float64(ch) - float64(dh)/2))

	target := image.Rect(px, py, px+dw, py+dh)
	xdraw.Draw(base, target, overlay, overlay.Bounds().Min, xdraw.Over)
	return base, nil
}

// scaleDesign resizes the design so its width is scalePct percent of
// the container width, preserving aspect ratio. Never collapses below
// one pixel.
func scaleDesign(design image.Image, containerWidth int, scalePct float64) *image.NRGBA {
	src := toNRGBA(design)
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == 0 || sh == 0 {
		return image.NewNRGBA(image.Rect(0, 0, 1, 1))
	}

	targetW := int(math.Round(float64(containerWidth) * scalePct / 100))
	if targetW < 1 {
		targetW = 1
	}
	targetH := int(math.Round(float64(sh) * float64(targetW) / float64(sw)))
	if targetH < 1 {
		targetH = 1
	}
	if targetW == sw && targetH == sh {
		return src
	}

	dst := image.NewNRGBA(image.Rect(0, 0, targetW, targetH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// applyMask multiplies the mask (resized to the design, optionally
// inverted, feathered and attenuated) into the design's alpha channel.
func applyMask(design *image.NRGBA, mask image.Image, p Placement) {
	dw, dh := design.Bounds().Dx(), design.Bounds().Dy()

	gray := toGray(mask)
	if gray.Bounds().Dx() != dw || gray.Bounds().Dy() != dh {
		resized := image.NewGray(image.Rect(0, 0, dw, dh))
		xdraw.CatmullRom.Scale(resized, resized.Bounds(), gray, gray.Bounds(), xdraw.Src, nil)
		gray = resized
	}

	if p.MaskInvert {
		for i := range gray.Pix {
			gray.Pix[i] = 255 - gray.Pix[i]
		}
	}

	if p.MaskFeather > 0 {
		blurGray(gray, p.MaskFeather)
	}

	opacity := p.MaskOpacity
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 100 {
		opacity = 100
	}
	if opacity < 100 {
		for i := range gray.Pix {
			gray.Pix[i] = uint8(float64(gray.Pix[i]) * opacity / 100)
		}
	}

	// Multiply into the existing alpha so transparent design regions
	// stay transparent.
	for y := 0; y < dh; y++ {
		for x := 0; x < dw; x++ {
			ai := design.PixOffset(x, y) + 3
			m := int(gray.GrayAt(x, y).Y)
			design.Pix[ai] = uint8(int(design.Pix[ai]) * m / 255)
		}
	}
}

// rotateClockwise rotates the image by deg degrees clockwise onto an
// expanded canvas that fits the whole rotated bounding box.
func rotateClockwise(src *image.NRGBA, deg float64) *image.NRGBA {
	theta := deg * math.Pi / 180
	sin, cos := math.Sin(theta), math.Cos(theta)

	// The epsilon keeps right-angle rotations from picking up a stray
	// pixel through floating point noise.
	sw, sh := float64(src.Bounds().Dx()), float64(src.Bounds().Dy())
	dw := int(math.Ceil(math.Abs(sw*cos) + math.Abs(sh*sin) - 1e-9))
	dh := int(math.Ceil(math.Abs(sw*sin) + math.Abs(sh*cos) - 1e-9))
	if dw < 1 {
		dw = 1
	}
	if dh < 1 {
		dh = 1
	}

	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))

	// Screen coordinates grow downward, so this matrix rotates
	// clockwise about the source center onto the destination center.
	scx, scy := sw/2, sh/2
	dcx, dcy := float64(dw)/2, float64(dh)/2
	m := f64.Aff3{
		cos, -sin, dcx - cos*scx + sin*scy,
		sin, cos, dcy - sin*scx - cos*scy,
	}
	xdraw.CatmullRom.Transform(dst, m, src, src.Bounds(), xdraw.Over, nil)
	return dst
}

func toGray(img image.Image) *image.Gray {
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	b := img.Bounds()
	dst := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	xdraw.Draw(dst, dst.Bounds(), img, b.Min, xdraw.Src)
	return dst
}
