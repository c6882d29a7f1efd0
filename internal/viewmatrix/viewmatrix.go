// Package viewmatrix places the generated tree in front of the preview
// camera and projects mesh vertices to screen space.
package viewmatrix

import (
	"math"

	"proctree-renderer/internal/mathutil"
)

// DefaultFOV is the vertical field of view used when perspective is on.
const DefaultFOV = 35.0

// Camera describes the preview view.
type Camera struct {
	RotateY     float64 // model turn around the vertical axis, degrees
	Perspective bool
	FOV         float64 // degrees; 0 means DefaultFOV
	Top         bool    // look straight down instead of the 3/4 view
}

// Matrix returns the combined model and view rotation.
func (c Camera) Matrix() mathutil.Mat3 {
	view := mathutil.ViewDefault
	if c.Top {
		view = mathutil.ViewTop
	}
	return mathutil.Mat3Mul(view, mathutil.RotY(mathutil.Deg2Rad(c.RotateY)))
}

// Fit maps view-space coordinates onto the render target.
type Fit struct {
	Center [3]float64
	Scale  float64

	// Perspective setup, shared by every mesh in the frame.
	persp   bool
	zCenter float64
	camDist float64
}

// FitMeshes frames all vertices of meshes inside renderSize pixels,
// leaving margin pixels on each side.
func FitMeshes(cam Camera, R mathutil.Mat3, renderSize, margin int, meshes ...[][3]float32) Fit {
	lo := [3]float64{math.Inf(1), math.Inf(1), math.Inf(1)}
	hi := [3]float64{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	found := false
	for _, verts := range meshes {
		for _, v := range verts {
			t := R.MulVec3(mathutil.Vec3{float64(v[0]), float64(v[1]), float64(v[2])})
			for k := 0; k < 3; k++ {
				lo[k] = math.Min(lo[k], t[k])
				hi[k] = math.Max(hi[k], t[k])
			}
			found = true
		}
	}
	if !found {
		return Fit{Scale: 1}
	}

	f := Fit{Center: [3]float64{
		(lo[0] + hi[0]) / 2,
		(lo[1] + hi[1]) / 2,
		(lo[2] + hi[2]) / 2,
	}}
	span := math.Max(hi[0]-lo[0], hi[1]-lo[1])
	if span < 0.001 {
		span = 0.001
	}

	if cam.Perspective {
		fov := cam.FOV
		if fov == 0 {
			fov = DefaultFOV
		}
		xyMax := math.Max(span/2, 0.001)
		f.persp = true
		f.zCenter = f.Center[2]
		f.camDist = xyMax / math.Tan(mathutil.Deg2Rad(fov/2))
		// Nearer geometry grows; leave room for it.
		near := f.camDist / math.Max(f.camDist-(hi[2]-f.zCenter), 0.1)
		span *= near
	}

	inner := renderSize - 2*margin
	if inner < 1 {
		inner = 1
	}
	f.Scale = float64(inner) / span
	return f
}

// ProjectVertices transforms 3D vertices to 2D screen coordinates.
// Returns px, py, pz slices (screen X, screen Y, depth; larger is nearer).
func ProjectVertices(verts [][3]float32, R mathutil.Mat3, f Fit, renderSize int) ([]float64, []float64, []float64) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)

	half := float64(renderSize) / 2

	for i := range verts {
		v := mathutil.Vec3{float64(verts[i][0]), float64(verts[i][1]), float64(verts[i][2])}
		t := R.MulVec3(v)
		x, y := t[0]-f.Center[0], t[1]-f.Center[1]

		if f.persp {
			depth := math.Max(f.camDist-(t[2]-f.zCenter), 0.1)
			factor := f.camDist / depth
			x *= factor
			y *= factor
		}

		px[i] = x*f.Scale + half
		py[i] = -y*f.Scale + half
		pz[i] = t[2]
	}

	return px, py, pz
}
