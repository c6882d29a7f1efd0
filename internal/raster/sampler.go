package raster

import (
	"image"
	"math"
)

// SampleTexture returns the bilinearly filtered texel at (u, v). UVs
// repeat outside [0,1), which bark relies on since v grows with arc length.
func SampleTexture(tex *image.NRGBA, u, v float64) (r, g, b, a uint8) {
	w, h := tex.Rect.Dx(), tex.Rect.Dy()

	// Texel centers sit at half-integer coordinates.
	fx := repeat(u)*float64(w) - 0.5
	fy := repeat(v)*float64(h) - 0.5
	x0f, y0f := math.Floor(fx), math.Floor(fy)
	dx, dy := fx-x0f, fy-y0f

	x0, x1 := wrapIndex(int(x0f), w), wrapIndex(int(x0f)+1, w)
	y0, y1 := wrapIndex(int(y0f), h), wrapIndex(int(y0f)+1, h)

	i00 := y0*tex.Stride + x0*4
	i10 := y0*tex.Stride + x1*4
	i01 := y1*tex.Stride + x0*4
	i11 := y1*tex.Stride + x1*4

	w00 := (1 - dx) * (1 - dy)
	w10 := dx * (1 - dy)
	w01 := (1 - dx) * dy
	w11 := dx * dy

	pix := tex.Pix
	var out [4]uint8
	for c := 0; c < 4; c++ {
		f := float64(pix[i00+c])*w00 + float64(pix[i10+c])*w10 +
			float64(pix[i01+c])*w01 + float64(pix[i11+c])*w11
		out[c] = uint8(f + 0.5)
	}
	return out[0], out[1], out[2], out[3]
}

func repeat(t float64) float64 {
	return t - math.Floor(t)
}

func wrapIndex(i, n int) int {
	i %= n
	if i < 0 {
		i += n
	}
	return i
}
