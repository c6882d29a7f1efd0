package foliage

import (
	"testing"

	"proctree-renderer/internal/mathutil"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/sequence"
	"proctree-renderer/internal/skeleton"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func place(t *testing.T, p params.Tree) (*skeleton.Skeleton, int, [][3]float32) {
	t.Helper()
	sk, err := skeleton.Build(p, sequence.New(p.Seed))
	require.NoError(t, err)
	buf, err := Place(sk)
	require.NoError(t, err)
	require.Zero(t, buf.VertexCount()%4)
	assert.Equal(t, buf.VertexCount()/2, buf.TriangleCount())
	return sk, buf.VertexCount() / 4, buf.Positions
}

func TestEveryTerminalHasTwigs(t *testing.T) {
	sk, quads, pos := place(t, params.Defaults())
	terminals := sk.Terminals()
	require.Len(t, terminals, 32)
	assert.GreaterOrEqual(t, quads, len(terminals))
	assert.LessOrEqual(t, quads, len(terminals)*MaxQuadsPerTip)

	// Each terminal tip anchors at least one quad edge midpoint.
	for _, i := range terminals {
		tip := sk.Nodes[i].Tip().Position
		found := false
		for q := 0; q < quads; q++ {
			a := mathutil.Vec3{float64(pos[4*q][0]), float64(pos[4*q][1]), float64(pos[4*q][2])}
			b := mathutil.Vec3{float64(pos[4*q+1][0]), float64(pos[4*q+1][1]), float64(pos[4*q+1][2])}
			if a.Add(b).Scale(0.5).Dist(tip) < 1e-5 {
				found = true
				break
			}
		}
		assert.True(t, found, "terminal %d has no twig", i)
	}
}

func TestPlacementDeterministic(t *testing.T) {
	p := params.Defaults()
	sk, err := skeleton.Build(p, sequence.New(p.Seed))
	require.NoError(t, err)
	a, err := Place(sk)
	require.NoError(t, err)
	b, err := Place(sk)
	require.NoError(t, err)
	assert.Equal(t, a, b)

	p.Seed = 3
	_, _, other := place(t, p)
	assert.NotEqual(t, a.Positions, other)
}

func TestQuadsFaceUpAndScale(t *testing.T) {
	p := params.Defaults()
	sk, err := skeleton.Build(p, sequence.New(p.Seed))
	require.NoError(t, err)
	buf, err := Place(sk)
	require.NoError(t, err)

	for q := 0; q < buf.VertexCount()/4; q++ {
		n := buf.Normals[4*q]
		assert.GreaterOrEqual(t, n[1], float32(0))
		c0 := mathutil.Vec3{float64(buf.Positions[4*q][0]), float64(buf.Positions[4*q][1]), float64(buf.Positions[4*q][2])}
		c1 := mathutil.Vec3{float64(buf.Positions[4*q+1][0]), float64(buf.Positions[4*q+1][1]), float64(buf.Positions[4*q+1][2])}
		c3 := mathutil.Vec3{float64(buf.Positions[4*q+3][0]), float64(buf.Positions[4*q+3][1]), float64(buf.Positions[4*q+3][2])}
		assert.InDelta(t, p.TwigScale, c1.Dist(c0), 1e-5)
		assert.InDelta(t, p.TwigScale, c3.Dist(c0), 1e-5)

		assert.Equal(t, [2]float32{0, 0}, buf.UVs[4*q])
		assert.Equal(t, [2]float32{1, 1}, buf.UVs[4*q+2])
	}
}

func TestZeroLevelsTrunkTipFoliage(t *testing.T) {
	p := params.Defaults()
	p.Levels = 0
	sk, quads, _ := place(t, p)
	assert.Equal(t, []int{0}, sk.Terminals())
	assert.GreaterOrEqual(t, quads, 1)
	assert.LessOrEqual(t, quads, MaxQuadsPerTip)
}

func TestZeroScalePlacesNothing(t *testing.T) {
	p := params.Defaults()
	p.TwigScale = 0
	_, quads, _ := place(t, p)
	assert.Zero(t, quads)
}
