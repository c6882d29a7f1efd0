package raster

import (
	"math"

	"proctree-renderer/internal/mathutil"
)

// LightConfig is a key light, a rim light and a sky/ground fill, combined
// into one flat shade per face.
type LightConfig struct {
	Key      mathutil.Vec3 // unit, toward the light
	Rim      mathutil.Vec3
	Half     mathutil.Vec3 // Blinn-Phong half vector of Key
	Ambient  float64
	Sky      float64 // fill from above, fading toward the horizon
	KeyInt   float64
	RimInt   float64
	SpecInt  float64
	SpecPow  float64
	Exposure float64
	InvGamma float64
}

// DefaultLightConfig returns a soft daylight setup: sun from the upper
// right, a cool rim from behind, and a strong sky fill so shaded bark
// stays readable.
func DefaultLightConfig() LightConfig {
	key := mathutil.Vec3{0.5, 0.8, 0.35}.Normalize()
	view := mathutil.Vec3{0, -0.25, -1}.Normalize()
	return LightConfig{
		Key:      key,
		Rim:      mathutil.Vec3{-0.4, 0.3, -0.55}.Normalize(),
		Half:     key.Sub(view).Normalize(),
		Ambient:  0.5,
		Sky:      0.45,
		KeyInt:   1.4,
		RimInt:   0.5,
		SpecInt:  0.2,
		SpecPow:  16,
		Exposure: 1.0,
		InvGamma: 1 / 2.2,
	}
}

// ComputeShade returns the light scalar for a unit face normal. Faces are
// lit from both sides.
func (lc *LightConfig) ComputeShade(n mathutil.Vec3) float64 {
	key := math.Abs(n.Dot(lc.Key))
	rim := math.Abs(n.Dot(lc.Rim))
	sky := ((1-math.Abs(n[1]))*0.5 + 0.5) * lc.Sky
	spec := math.Pow(math.Max(n.Dot(lc.Half), 0), lc.SpecPow) * lc.SpecInt
	return lc.Ambient + sky + key*lc.KeyInt + rim*lc.RimInt + spec
}

// srgbToLinear decodes an 8-bit sRGB channel.
var srgbToLinear [256]float64

func init() {
	for i := range srgbToLinear {
		srgbToLinear[i] = math.Pow(float64(i)/255, 2.2)
	}
}

// ACESTonemap applies the ACES filmic curve to a linear value.
func ACESTonemap(x float64) float64 {
	return (x * (2.51*x + 0.03)) / (x*(2.43*x+0.59) + 0.14)
}
