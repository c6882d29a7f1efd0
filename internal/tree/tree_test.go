package tree

import (
	"bytes"
	"encoding/binary"
	"math"
	"sync"
	"testing"

	"proctree-renderer/internal/mesh"
	"proctree-renderer/internal/params"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bytesOf serializes buffers so determinism is checked bit for bit.
func bytesOf(t *testing.T, b mesh.Buffers) []byte {
	t.Helper()
	var buf bytes.Buffer
	for _, v := range []any{b.Positions, b.Normals, b.UVs, b.Indices} {
		require.NoError(t, binary.Write(&buf, binary.LittleEndian, v))
	}
	return buf.Bytes()
}

func TestScenarioDefaults(t *testing.T) {
	p := params.Defaults()
	require.Equal(t, int64(256), p.Seed)
	require.Equal(t, 5, p.Levels)
	require.Equal(t, 6, p.Segments)
	require.Equal(t, 5, p.TreeSteps)

	res, err := Generate(p)
	require.NoError(t, err)

	sk := res.Skeleton
	counts := sk.LevelCounts()
	require.Len(t, counts, 6, "levels 0..5")
	for level, c := range counts {
		assert.Positive(t, c, "level %d", level)
	}

	// Every level-5 node is terminal and carries at least one twig quad.
	tips := map[[3]float32]bool{}
	for q := 0; q < res.Twig.VertexCount()/4; q++ {
		a, b := res.Twig.Positions[4*q], res.Twig.Positions[4*q+1]
		mid := [3]float32{(a[0] + b[0]) / 2, (a[1] + b[1]) / 2, (a[2] + b[2]) / 2}
		tips[mid] = true
	}
	for i, n := range sk.Nodes {
		if n.Level != 5 {
			continue
		}
		assert.True(t, n.Terminal(), "node %d", i)
		tip := n.Tip().Position
		found := false
		for mid := range tips {
			d := math.Abs(float64(mid[0])-tip[0]) + math.Abs(float64(mid[1])-tip[1]) + math.Abs(float64(mid[2])-tip[2])
			if d < 1e-4 {
				found = true
				break
			}
		}
		assert.True(t, found, "level-5 node %d has no twig", i)
	}

	total := res.Trunk.VertexCount() + res.Twig.VertexCount()
	assert.Equal(t, res.Stats.Rings*6+res.Stats.TwigQuads*4, total)
	assert.Equal(t, 6+62*2, res.Stats.Rings)

	require.NoError(t, res.Trunk.Check())
	require.NoError(t, res.Twig.Check())
}

func TestDeterminismByteIdentical(t *testing.T) {
	for _, seed := range []int64{1, 256, 777} {
		p := params.Defaults()
		p.Seed = seed
		a, err := Generate(p)
		require.NoError(t, err)
		b, err := GenerateWith(p, Options{Workers: 1})
		require.NoError(t, err)
		assert.Equal(t, bytesOf(t, a.Trunk), bytesOf(t, b.Trunk))
		assert.Equal(t, bytesOf(t, a.Twig), bytesOf(t, b.Twig))
	}
}

func TestConcurrentGenerationsStayIndependent(t *testing.T) {
	seeds := []int64{3, 5, 8, 13, 21, 34}
	want := make([][]byte, len(seeds))
	for i, s := range seeds {
		p := params.Defaults()
		p.Seed = s
		res, err := Generate(p)
		require.NoError(t, err)
		want[i] = bytesOf(t, res.Twig)
	}

	got := make([]mesh.Buffers, len(seeds))
	var wg sync.WaitGroup
	for i, s := range seeds {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p := params.Defaults()
			p.Seed = s
			res, err := Generate(p)
			if err == nil {
				got[i] = res.Twig
			}
		}()
	}
	wg.Wait()
	for i := range seeds {
		assert.Equal(t, want[i], bytesOf(t, got[i]), "seed %d", seeds[i])
	}
}

func TestIndexValidityAcrossParams(t *testing.T) {
	variants := []func(*params.Tree){
		func(p *params.Tree) {},
		func(p *params.Tree) { p.Segments = 3 },
		func(p *params.Tree) { p.Segments = 24; p.Levels = 3 },
		func(p *params.Tree) { p.TreeSteps = 0 },
		func(p *params.Tree) { p.TreeSteps = 35; p.TwistRate = 10; p.TrunkKink = 0.5 },
		func(p *params.Tree) { p.BranchFactor = 4; p.Levels = 4 },
		func(p *params.Tree) { p.DropAmount = 1; p.GrowAmount = -0.5; p.SweepAmount = -1 },
		func(p *params.Tree) { p.ClumpMin, p.ClumpMax = 0, 0 },
		func(p *params.Tree) { p.ClumpMin, p.ClumpMax = 1, 1 },
	}
	for k, mut := range variants {
		p := params.Defaults()
		mut(&p)
		res, err := Generate(p)
		require.NoError(t, err, "variant %d", k)
		for _, b := range []mesh.Buffers{res.Trunk, res.Twig} {
			n := uint32(b.VertexCount())
			for _, tri := range b.Indices {
				for _, idx := range tri {
					require.Less(t, idx, n, "variant %d", k)
				}
			}
			require.NoError(t, b.Check(), "variant %d", k)
		}
		assert.Equal(t, p.Levels, res.Stats.Depth, "variant %d", k)
	}
}

func TestZeroLevels(t *testing.T) {
	p := params.Defaults()
	p.Levels = 0
	res, err := Generate(p)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Stats.Nodes)
	assert.Equal(t, 1, res.Stats.Terminals)
	assert.GreaterOrEqual(t, res.Stats.TwigQuads, 1)
}

func TestValidationErrorSurfaces(t *testing.T) {
	p := params.Defaults()
	p.Levels = -1
	_, err := Generate(p)
	var verr *params.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "levels", verr.Field)
}
