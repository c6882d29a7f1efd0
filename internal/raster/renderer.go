package raster

import (
	"image"

	"proctree-renderer/internal/material"
	"proctree-renderer/internal/mesh"
	"proctree-renderer/internal/texture"
	"proctree-renderer/internal/viewmatrix"
)

// Options controls a single render.
type Options struct {
	Size        int // output edge in pixels before supersampling
	Supersample int
	Camera      viewmatrix.Camera
}

func (o Options) renderSize() int {
	ss := o.Supersample
	if ss < 1 {
		ss = 1
	}
	return o.Size * ss
}

// RenderTree draws the trunk and twig meshes into a square NRGBA image of
// Size×Supersample pixels. Both meshes share one framing so they line up.
// texResolver may be nil; textured materials then fall back to their tint.
func RenderTree(
	trunk, twig mesh.Buffers,
	mats material.Config,
	texResolver texture.Resolver,
	opts Options,
) *image.NRGBA {
	renderSize := opts.renderSize()
	if renderSize <= 0 {
		return image.NewNRGBA(image.Rect(0, 0, 0, 0))
	}

	R := opts.Camera.Matrix()
	margin := 16 * max(opts.Supersample, 1)
	fit := viewmatrix.FitMeshes(opts.Camera, R, renderSize, margin, trunk.Positions, twig.Positions)

	fb := NewFrameBuffer(renderSize, renderSize)
	lc := DefaultLightConfig()

	layers := []struct {
		buf mesh.Buffers
		mat material.Material
	}{
		{trunk, mats.Bark},
		{twig, mats.Leaf},
	}
	for _, l := range layers {
		if len(l.buf.Positions) == 0 {
			continue
		}
		px, py, pz := viewmatrix.ProjectVertices(l.buf.Positions, R, fit, renderSize)
		s := surfaceFor(l.mat, texResolver)
		for _, tri := range l.buf.Indices {
			vi := [3]int{int(tri[0]), int(tri[1]), int(tri[2])}
			RasterizeTriangle(fb, px, py, pz, l.buf.UVs, vi, &s, &lc)
		}
	}

	return fb.Image()
}

func surfaceFor(m material.Material, texResolver texture.Resolver) Surface {
	s := Surface{R: m.Color.R, G: m.Color.G, B: m.Color.B, A: m.Color.A, AlphaTest: m.AlphaTest}
	if s.A == 0 {
		s.A = 255
	}
	if m.Texture != nil && texResolver != nil {
		s.Tex = texResolver.Resolve(m.Texture.Stem())
	}
	return s
}
