package imaging

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	red   = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
)

func TestComposeCentersDesign(t *testing.T) {
	container := solidNRGBA(100, 100, white)
	design := solidNRGBA(50, 50, red)

	out, err := composeNRGBA(container, design, nil, Placement{
		PosX: 50, PosY: 50, Scale: 50, MaskOpacity: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, 100, out.Bounds().Dx())
	assert.Equal(t, 100, out.Bounds().Dy())

	// Design covers the central 50x50 block.
	assert.Equal(t, red, out.NRGBAAt(50, 50))
	assert.Equal(t, red, out.NRGBAAt(30, 30))
	assert.Equal(t, white, out.NRGBAAt(10, 10))
	assert.Equal(t, white, out.NRGBAAt(90, 90))
}

func TestComposeOffCenterPlacement(t *testing.T) {
	container := solidNRGBA(100, 100, white)
	design := solidNRGBA(20, 20, red)

	// Center at (25%, 25%) with a 20px design: covers 15..35.
	out, err := composeNRGBA(container, design, nil, Placement{
		PosX: 25, PosY: 25, Scale: 20, MaskOpacity: 100,
	})
	require.NoError(t, err)

	assert.Equal(t, red, out.NRGBAAt(25, 25))
	assert.Equal(t, white, out.NRGBAAt(50, 50))
	assert.Equal(t, white, out.NRGBAAt(75, 75))
}

func TestComposeMaskOpacityZeroLeavesContainerUntouched(t *testing.T) {
	container := solidNRGBA(60, 60, white)
	design := solidNRGBA(30, 30, red)
	mask := solidNRGBA(30, 30, white)

	out, err := composeNRGBA(container, design, mask, Placement{
		PosX: 50, PosY: 50, Scale: 50, MaskOpacity: 0,
	})
	require.NoError(t, err)

	plain := toNRGBA(solidNRGBA(60, 60, white))
	assert.True(t, bytes.Equal(plain.Pix, out.Pix), "fully transparent overlay must not change any pixel")
}

func TestComposeBlackMaskHidesDesign(t *testing.T) {
	container := solidNRGBA(60, 60, white)
	design := solidNRGBA(30, 30, red)
	mask := solidNRGBA(30, 30, color.NRGBA{A: 255})

	out, err := composeNRGBA(container, design, mask, Placement{
		PosX: 50, PosY: 50, Scale: 50, MaskOpacity: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, white, out.NRGBAAt(30, 30))
}

func TestComposeMaskInvert(t *testing.T) {
	container := solidNRGBA(60, 60, white)
	design := solidNRGBA(30, 30, red)
	// Black mask inverted reads as fully white: design shows through.
	mask := solidNRGBA(30, 30, color.NRGBA{A: 255})

	out, err := composeNRGBA(container, design, mask, Placement{
		PosX: 50, PosY: 50, Scale: 50, MaskOpacity: 100, MaskInvert: true,
	})
	require.NoError(t, err)
	assert.Equal(t, red, out.NRGBAAt(30, 30))
}

func TestRotateQuarterTurnSwapsDimensions(t *testing.T) {
	src := solidNRGBA(50, 20, red)
	out := rotateClockwise(src, 90)
	assert.Equal(t, 20, out.Bounds().Dx())
	assert.Equal(t, 50, out.Bounds().Dy())

	out = rotateClockwise(src, 180)
	assert.Equal(t, 50, out.Bounds().Dx())
	assert.Equal(t, 20, out.Bounds().Dy())
}

func TestRotateExpandsBoundingBox(t *testing.T) {
	src := solidNRGBA(40, 40, red)
	out := rotateClockwise(src, 45)
	// 40 * sqrt(2) ~ 56.6.
	assert.GreaterOrEqual(t, out.Bounds().Dx(), 56)
	assert.LessOrEqual(t, out.Bounds().Dx(), 58)
	assert.Equal(t, out.Bounds().Dx(), out.Bounds().Dy())
}

func TestComposeTinyScaleNeverCollapses(t *testing.T) {
	container := solidNRGBA(10, 10, white)
	design := solidNRGBA(400, 400, red)

	out, err := composeNRGBA(container, design, nil, Placement{
		PosX: 50, PosY: 50, Scale: 0.01, MaskOpacity: 100,
	})
	require.NoError(t, err)
	assert.Equal(t, 10, out.Bounds().Dx())
}

func TestComposeEncodesJPEG(t *testing.T) {
	container := encodePNG(t, solidNRGBA(40, 40, white))
	design := encodePNG(t, solidNRGBA(20, 20, red))

	data, err := Compose(container, design, nil, Placement{
		PosX: 50, PosY: 50, Scale: 50, MaskOpacity: 100,
	})
	require.NoError(t, err)

	_, format, err := image.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)
}

func TestComposeRejectsGarbage(t *testing.T) {
	_, err := Compose([]byte("nope"), []byte("nope"), nil, Placement{})
	assert.Error(t, err)
}

func TestBlurGrayPreservesFlatRegions(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 20, 20))
	for i := range img.Pix {
		img.Pix[i] = 200
	}
	blurGray(img, 3)
	for i := range img.Pix {
		assert.Equal(t, uint8(200), img.Pix[i])
	}
}

func TestBlurGraySoftensEdge(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 40, 1))
	for x := 20; x < 40; x++ {
		img.Pix[x] = 255
	}
	blurGray(img, 2)
	// The step should now be a ramp.
	edge := img.Pix[20]
	assert.Greater(t, edge, uint8(0))
	assert.Less(t, edge, uint8(255))
}
