package raster

import (
	"image"
	"math"

	"proctree-renderer/internal/mathutil"
)

// Surface is the per-mesh shading input: a flat tint, an optional texture
// multiplied by it, and the alpha cutoff below which pixels are discarded.
type Surface struct {
	R, G, B, A uint8
	Tex        *image.NRGBA
	AlphaTest  uint8
}

// RasterizeTriangle rasterizes a single triangle with texture mapping, z-buffer,
// sRGB color space, lighting, and ACES tone mapping.
//
// This is the HOT PATH: no allocation in the inner loop.
// All lighting is flat-shaded (per-face, not per-pixel) and double-sided.
// UVs are indexed by vertex.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs [][2]float32,
	vi [3]int,
	s *Surface,
	lc *LightConfig,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	hasUV := s.Tex != nil && s.Tex.Rect.Dx() > 0 && s.Tex.Rect.Dy() > 0
	for _, i := range vi {
		if i >= len(uvs) {
			hasUV = false
			break
		}
	}

	var u0, v0uv, u1, v1uv, u2, v2uv float64
	if hasUV {
		u0, v0uv = float64(uvs[vi[0]][0]), float64(uvs[vi[0]][1])
		u1, v1uv = float64(uvs[vi[1]][0]), float64(uvs[vi[1]][1])
		u2, v2uv = float64(uvs[vi[2]][0]), float64(uvs[vi[2]][1])
	}

	// Face normal for flat shading
	e1x, e1y, e1z := x1-x0, y1-y0, z1-z0
	e2x, e2y, e2z := x2-x0, y2-y0, z2-z0
	n := [3]float64{
		e1y*e2z - e1z*e2y,
		e1z*e2x - e1x*e2z,
		e1x*e2y - e1y*e2x,
	}
	nl := math.Sqrt(n[0]*n[0] + n[1]*n[1] + n[2]*n[2])
	if nl < 1e-8 {
		return
	}
	shade := lc.ComputeShade(mathutil.Vec3{n[0] / nl, n[1] / nl, n[2] / nl})

	// Bounding box
	w, h := fb.Width, fb.Height
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	exposure := lc.Exposure
	invGamma := lc.InvGamma
	tr, tg, tb, ta := float64(s.R)/255, float64(s.G)/255, float64(s.B)/255, float64(s.A)/255

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if z <= fb.ZBuf[zIdx] {
				continue
			}

			cr, cg, cb, ca := uint8(255), uint8(255), uint8(255), uint8(255)
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0uv + w1*v1uv + w2*v2uv
				cr, cg, cb, ca = SampleTexture(s.Tex, u, v)
			}
			alpha := clamp255(float64(ca) * ta)
			if alpha < s.AlphaTest {
				continue
			}
			fb.ZBuf[zIdx] = z

			// Tint in linear space, then shade and tone map.
			lr := srgbToLinear[cr] * srgbToLinear[clamp255(tr*255)]
			lg := srgbToLinear[cg] * srgbToLinear[clamp255(tg*255)]
			lb := srgbToLinear[cb] * srgbToLinear[clamp255(tb*255)]

			fr := math.Pow(ACESTonemap(lr*shade*exposure), invGamma)
			fg := math.Pow(ACESTonemap(lg*shade*exposure), invGamma)
			ffb := math.Pow(ACESTonemap(lb*shade*exposure), invGamma)

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = clamp255(fr * 255)
			fb.Color[pxIdx+1] = clamp255(fg * 255)
			fb.Color[pxIdx+2] = clamp255(ffb * 255)
			fb.Color[pxIdx+3] = alpha
		}
	}
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
