package imaging

import (
	"image"
	"math"
)

// blurGray approximates a gaussian blur with the given sigma using
// three successive box blurs. Good enough for feathering masks and far
// cheaper than a true gaussian kernel.
func blurGray(img *image.Gray, sigma float64) {
	if sigma <= 0 {
		return
	}
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	src := make([]float64, w*h)
	for i, p := range img.Pix {
		src[i] = float64(p)
	}
	tmp := make([]float64, w*h)

	for _, r := range boxesForGauss(sigma, 3) {
		boxBlurH(src, tmp, w, h, r)
		boxBlurV(tmp, src, w, h, r)
	}

	for i := range img.Pix {
		v := math.Round(src[i])
		if v < 0 {
			v = 0
		}
		if v > 255 {
			v = 255
		}
		img.Pix[i] = uint8(v)
	}
}

// boxesForGauss picks n box radii whose repeated application matches a
// gaussian of the given sigma.
func boxesForGauss(sigma float64, n int) []int {
	wIdeal := math.Sqrt(12*sigma*sigma/float64(n) + 1)
	wl := int(math.Floor(wIdeal))
	if wl%2 == 0 {
		wl--
	}
	wu := wl + 2

	mIdeal := (12*sigma*sigma - float64(n*wl*wl) - float64(4*n*wl) - float64(3*n)) /
		(float64(-4*wl) - 4)
	m := int(math.Round(mIdeal))

	sizes := make([]int, n)
	for i := 0; i < n; i++ {
		if i < m {
			sizes[i] = (wl - 1) / 2
		} else {
			sizes[i] = (wu - 1) / 2
		}
	}
	return sizes
}

func boxBlurH(src, dst []float64, w, h, r int) {
	if r <= 0 {
		copy(dst, src)
		return
	}
	scale := 1 / float64(2*r+1)
	for y := 0; y < h; y++ {
		row := y * w
		sum := 0.0
		for x := -r; x <= r; x++ {
			sum += src[row+clampInt(x, 0, w-1)]
		}
		for x := 0; x < w; x++ {
			dst[row+x] = sum * scale
			sum += src[row+clampInt(x+r+1, 0, w-1)] - src[row+clampInt(x-r, 0, w-1)]
		}
	}
}

func boxBlurV(src, dst []float64, w, h, r int) {
	if r <= 0 {
		copy(dst, src)
		return
	}
	scale := 1 / float64(2*r+1)
	for x := 0; x < w; x++ {
		sum := 0.0
		for y := -r; y <= r; y++ {
			sum += src[clampInt(y, 0, h-1)*w+x]
		}
		for y := 0; y < h; y++ {
			dst[y*w+x] = sum * scale
			sum += src[clampInt(y+r+1, 0, h-1)*w+x] - src[clampInt(y-r, 0, h-1)*w+x]
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
