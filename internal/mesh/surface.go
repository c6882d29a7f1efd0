package mesh

import (
	"fmt"
	"math"
	"runtime"

	"proctree-renderer/internal/mathutil"
	"proctree-renderer/internal/skeleton"

	"golang.org/x/sync/errgroup"
)

// SurfaceOptions tunes synthesis. The output does not depend on them.
type SurfaceOptions struct {
	// Workers bounds concurrent subtree synthesis. 0 means NumCPU,
	// 1 forces the serial path.
	Workers int
}

// Synthesize builds the tube mesh of every trunk and branch in sk.
//
// Rings of Segments vertices surround each spine point, consecutive rings
// are joined by bands of two outward-facing triangles per quad, branch
// bases are welded to the nearest parent ring and every tip is closed by
// a fan. V runs along the arc length times VMultiplier, U around the ring.
func Synthesize(sk *skeleton.Skeleton, opts SurfaceOptions) (Buffers, error) {
	p := sk.Params
	layout := NewLayout(sk, p.Segments)
	s := &surface{
		sk:     sk,
		layout: layout,
		frames: propagateFrames(sk),
		vMul:   p.VMultiplier,
		buf: Buffers{
			Positions: make([][3]float32, layout.Vertices),
			Normals:   make([][3]float32, layout.Vertices),
			UVs:       make([][2]float32, layout.Vertices),
			Indices:   make([][3]uint32, layout.Triangles),
		},
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	root := sk.Root()
	if workers == 1 || len(root.Children) < 2 {
		for i := range sk.Nodes {
			s.emitNode(i)
		}
	} else {
		// The trunk first, then every top-level branch subtree as one
		// unit. Each unit writes only its own layout ranges.
		s.emitNode(0)
		var g errgroup.Group
		g.SetLimit(workers)
		for _, c := range root.Children {
			nodes := sk.Subtree(c)
			g.Go(func() error {
				for _, i := range nodes {
					s.emitNode(i)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return Buffers{}, err
		}
	}

	if err := s.buf.Check(); err != nil {
		return Buffers{}, fmt.Errorf("mesh: surface: %w", err)
	}
	return s.buf, nil
}

type surface struct {
	sk     *skeleton.Skeleton
	layout *Layout
	frames [][]mathutil.Vec3
	vMul   float64
	buf    Buffers
}

func (s *surface) emitNode(i int) {
	n := &s.sk.Nodes[i]
	segs := s.layout.Segments
	tri := s.layout.TriOff[i]

	first := 0
	if n.Parent >= 0 {
		first = 1
	}
	for j := first; j < len(n.Spine); j++ {
		s.emitRing(s.layout.ringStart(s.sk, i, j), n.Spine[j], s.frames[i][j])
	}

	prev := -1
	if n.Parent >= 0 {
		prev = s.layout.weldRing(s.sk, i)
	}
	for j := first; j < len(n.Spine); j++ {
		cur := s.layout.ringStart(s.sk, i, j)
		if prev >= 0 {
			tri = s.band(tri, prev, cur, segs)
		}
		prev = cur
	}

	tri = s.fan(tri, prev, segs, false)
	if n.Parent < 0 {
		s.fan(tri, s.layout.ringStart(s.sk, i, 0), segs, true)
	}
}

// emitRing writes segs vertices around sp, starting at the frame normal and
// turning counterclockwise about the tangent.
func (s *surface) emitRing(start int, sp skeleton.SpinePoint, normal mathutil.Vec3) {
	segs := s.layout.Segments
	binormal := sp.Tangent.Cross(normal)
	v := float32(sp.Arc * s.vMul)
	for q := 0; q < segs; q++ {
		theta := 2 * math.Pi * float64(q) / float64(segs)
		radial := normal.Scale(math.Cos(theta)).Add(binormal.Scale(math.Sin(theta)))
		idx := start + q
		s.buf.Positions[idx] = sp.Position.Add(radial.Scale(sp.Radius)).Float32()
		s.buf.Normals[idx] = radial.Float32()
		s.buf.UVs[idx] = [2]float32{float32(q) / float32(segs), v}
	}
}

// band joins ring a to the next ring b with two triangles per quad. Both
// rings must already be written. A quad is split along a1-b0 unless only
// the a0-b1 diagonal gives two triangles agreeing with their vertex normals.
func (s *surface) band(tri, a, b, segs int) int {
	for q := 0; q < segs; q++ {
		next := (q + 1) % segs
		a0, a1 := uint32(a+q), uint32(a+next)
		b0, b1 := uint32(b+q), uint32(b+next)
		t0, t1 := [3]uint32{a0, a1, b0}, [3]uint32{a1, b1, b0}
		if !FacesOutward(&s.buf, t0) || !FacesOutward(&s.buf, t1) {
			u0, u1 := [3]uint32{a0, a1, b1}, [3]uint32{a0, b1, b0}
			if FacesOutward(&s.buf, u0) && FacesOutward(&s.buf, u1) {
				t0, t1 = u0, u1
			}
		}
		s.buf.Indices[tri] = t0
		s.buf.Indices[tri+1] = t1
		tri += 2
	}
	return tri
}

// fan closes a ring. The cap faces along the tangent unless reversed.
func (s *surface) fan(tri, ring, segs int, reversed bool) int {
	r0 := uint32(ring)
	for q := 1; q < segs-1; q++ {
		a, b := uint32(ring+q), uint32(ring+q+1)
		if reversed {
			a, b = b, a
		}
		s.buf.Indices[tri] = [3]uint32{r0, a, b}
		tri++
	}
	return tri
}
