// Package foliage places twig quads at the tips of terminal branches.
package foliage

import (
	"fmt"
	"math"

	"proctree-renderer/internal/mathutil"
	"proctree-renderer/internal/mesh"
	"proctree-renderer/internal/sequence"
	"proctree-renderer/internal/skeleton"
)

const (
	// MaxQuadsPerTip bounds the quads drawn at one tip.
	MaxQuadsPerTip = 2

	// lift tilts twigs upward relative to the branch direction.
	lift = 0.5

	// spinJitter is the largest random spin, in radians, about the branch axis.
	spinJitter = 0.5
)

// Place emits twig quads for every terminal node of sk.
//
// Each tip draws from its own generator derived from the tree seed and the
// node's traversal index, so placement never depends on how many values
// the skeleton builder consumed. A zero TwigScale places nothing.
func Place(sk *skeleton.Skeleton) (mesh.Buffers, error) {
	var buf mesh.Buffers
	scale := sk.Params.TwigScale
	if scale <= 0 {
		return buf, nil
	}

	base := sequence.New(sk.Params.Seed)
	for _, i := range sk.Terminals() {
		n := &sk.Nodes[i]
		g := base.Derive(uint64(i))
		count := 1 + int(g.Next()*MaxQuadsPerTip)
		for m := 0; m < count; m++ {
			spin := 2*math.Pi*float64(m)/float64(count) + g.Range(-spinJitter, spinJitter)
			quad(&buf, n.Tip().Position, n.Direction, spin, scale)
		}
	}

	if err := buf.Check(); err != nil {
		return mesh.Buffers{}, fmt.Errorf("foliage: %w", err)
	}
	return buf, nil
}

// quad appends one size×size quad rooted at tip. It extends along the
// branch direction tilted upward, is spun about the branch axis by spin,
// and always faces up.
func quad(buf *mesh.Buffers, tip, dir mathutil.Vec3, spin, size float64) {
	length := dir.Add(mathutil.UnitY.Scale(lift)).NormalizeOr(dir)
	side := mathutil.RotateAxis(dir.Perpendicular(), dir, spin)
	side = side.Sub(length.Scale(side.Dot(length))).NormalizeOr(length.Perpendicular())

	normal := side.Cross(length).Normalize()
	if normal[1] < 0 {
		side = side.Scale(-1)
		normal = normal.Scale(-1)
	}

	half := side.Scale(size / 2)
	up := length.Scale(size)
	corners := [4]mathutil.Vec3{
		tip.Sub(half),
		tip.Add(half),
		tip.Add(half).Add(up),
		tip.Sub(half).Add(up),
	}
	uvs := [4][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}}

	start := uint32(len(buf.Positions))
	for k, c := range corners {
		buf.Positions = append(buf.Positions, c.Float32())
		buf.Normals = append(buf.Normals, normal.Float32())
		buf.UVs = append(buf.UVs, uvs[k])
	}
	buf.Indices = append(buf.Indices,
		[3]uint32{start, start + 1, start + 2},
		[3]uint32{start, start + 2, start + 3},
	)
}
