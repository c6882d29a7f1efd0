// Package mesh turns a skeleton into the triangulated trunk and branch
// surface, and defines the buffer layout shared with the foliage placer.
package mesh

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Buffers holds one mesh as nested sequences. Indices are triangles
// referencing Positions; Normals and UVs run parallel to Positions.
type Buffers struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   [][3]uint32
}

// VertexCount returns the number of vertices.
func (b *Buffers) VertexCount() int {
	return len(b.Positions)
}

// TriangleCount returns the number of triangles.
func (b *Buffers) TriangleCount() int {
	return len(b.Indices)
}

// Check reports the first structural defect: mismatched attribute lengths,
// an index past the vertex count, or a non-finite value.
func (b *Buffers) Check() error {
	n := len(b.Positions)
	if len(b.Normals) != n || len(b.UVs) != n {
		return fmt.Errorf("mesh: attribute length mismatch: %d positions, %d normals, %d uvs",
			n, len(b.Normals), len(b.UVs))
	}
	for i := 0; i < n; i++ {
		if !finite3(b.Positions[i]) {
			return fmt.Errorf("mesh: non-finite position %d: %v", i, b.Positions[i])
		}
		if !finite3(b.Normals[i]) {
			return fmt.Errorf("mesh: non-finite normal %d: %v", i, b.Normals[i])
		}
		if !finite(b.UVs[i][0]) || !finite(b.UVs[i][1]) {
			return fmt.Errorf("mesh: non-finite uv %d: %v", i, b.UVs[i])
		}
	}
	for t, tri := range b.Indices {
		for _, idx := range tri {
			if int(idx) >= n {
				return fmt.Errorf("mesh: triangle %d index %d out of range (%d vertices)", t, idx, n)
			}
		}
	}
	return nil
}

// Bounds returns the axis-aligned bounding box of the positions.
// An empty mesh returns zero vectors.
func (b *Buffers) Bounds() (lo, hi [3]float32) {
	if len(b.Positions) == 0 {
		return
	}
	lo, hi = b.Positions[0], b.Positions[0]
	for _, p := range b.Positions[1:] {
		for k := 0; k < 3; k++ {
			lo[k] = math32.Min(lo[k], p[k])
			hi[k] = math32.Max(hi[k], p[k])
		}
	}
	return
}

// FacesOutward reports whether the counterclockwise face normal of tri
// agrees with the sum of its vertex normals. Degenerate triangles do not.
func FacesOutward(b *Buffers, tri [3]uint32) bool {
	p0, p1, p2 := b.Positions[tri[0]], b.Positions[tri[1]], b.Positions[tri[2]]
	var e1, e2, n [3]float64
	for k := 0; k < 3; k++ {
		e1[k] = float64(p1[k]) - float64(p0[k])
		e2[k] = float64(p2[k]) - float64(p0[k])
		n[k] = float64(b.Normals[tri[0]][k]) + float64(b.Normals[tri[1]][k]) + float64(b.Normals[tri[2]][k])
	}
	face := [3]float64{
		e1[1]*e2[2] - e1[2]*e2[1],
		e1[2]*e2[0] - e1[0]*e2[2],
		e1[0]*e2[1] - e1[1]*e2[0],
	}
	return face[0]*n[0]+face[1]*n[1]+face[2]*n[2] > 0
}

func finite(v float32) bool {
	return !math32.IsNaN(v) && !math32.IsInf(v, 0)
}

func finite3(v [3]float32) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}
