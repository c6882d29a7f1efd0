// Package assemble flattens nested mesh buffers into the flat arrays a GPU
// upload or a vertex-array consumer expects.
package assemble

import (
	"fmt"
	"math"

	"proctree-renderer/internal/mesh"

	"github.com/chewxy/math32"
)

// Flat is an upload-ready mesh. Exactly one of Indices16 and Indices32 is
// set, chosen by IndexWidth.
type Flat struct {
	Positions  []float32 // x, y, z per vertex
	Normals    []float32 // x, y, z per vertex
	UVs        []float32 // u, v per vertex
	Indices16  []uint16
	Indices32  []uint32
	IndexWidth int // 16 or 32
}

// VertexCount returns the number of vertices.
func (f *Flat) VertexCount() int {
	return len(f.Positions) / 3
}

// IndexCount returns the number of indices (three per triangle).
func (f *Flat) IndexCount() int {
	if f.IndexWidth == 16 {
		return len(f.Indices16)
	}
	return len(f.Indices32)
}

// Index returns the i-th index regardless of width.
func (f *Flat) Index(i int) uint32 {
	if f.IndexWidth == 16 {
		return uint32(f.Indices16[i])
	}
	return f.Indices32[i]
}

// Flatten converts b. Indices use 16 bits whenever the largest index fits.
// A buffer that fails mesh.Buffers.Check is a generator defect and is
// reported as an error.
func Flatten(b mesh.Buffers) (Flat, error) {
	if err := b.Check(); err != nil {
		return Flat{}, fmt.Errorf("assemble: %w", err)
	}

	n := b.VertexCount()
	f := Flat{
		Positions: make([]float32, 0, n*3),
		Normals:   make([]float32, 0, n*3),
		UVs:       make([]float32, 0, n*2),
	}
	for i := 0; i < n; i++ {
		f.Positions = append(f.Positions, b.Positions[i][:]...)
		f.Normals = append(f.Normals, b.Normals[i][:]...)
		f.UVs = append(f.UVs, b.UVs[i][:]...)
	}

	var maxIndex uint32
	for _, tri := range b.Indices {
		for _, idx := range tri {
			if idx > maxIndex {
				maxIndex = idx
			}
		}
	}

	if maxIndex <= math.MaxUint16 {
		f.IndexWidth = 16
		f.Indices16 = make([]uint16, 0, len(b.Indices)*3)
		for _, tri := range b.Indices {
			f.Indices16 = append(f.Indices16, uint16(tri[0]), uint16(tri[1]), uint16(tri[2]))
		}
	} else {
		f.IndexWidth = 32
		f.Indices32 = make([]uint32, 0, len(b.Indices)*3)
		for _, tri := range b.Indices {
			f.Indices32 = append(f.Indices32, tri[:]...)
		}
	}
	return f, nil
}

// NormalizeNormals rescales every normal of f to unit length in place.
// Zero normals are left as they are.
func NormalizeNormals(f *Flat) {
	for i := 0; i+2 < len(f.Normals); i += 3 {
		x, y, z := f.Normals[i], f.Normals[i+1], f.Normals[i+2]
		l := math32.Sqrt(x*x + y*y + z*z)
		if l < 1e-12 {
			continue
		}
		f.Normals[i], f.Normals[i+1], f.Normals[i+2] = x/l, y/l, z/l
	}
}
