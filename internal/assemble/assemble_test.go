package assemble

import (
	"testing"

	"proctree-renderer/internal/mesh"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() mesh.Buffers {
	return mesh.Buffers{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 2}, {0, 0, 1}, {0, 0, 0}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {0, 1}},
		Indices:   [][3]uint32{{0, 1, 2}},
	}
}

func TestFlattenSmallUses16Bit(t *testing.T) {
	f, err := Flatten(triangle())
	require.NoError(t, err)
	assert.Equal(t, 16, f.IndexWidth)
	assert.Equal(t, []uint16{0, 1, 2}, f.Indices16)
	assert.Nil(t, f.Indices32)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, f.Positions)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1}, f.UVs)
	assert.Equal(t, 3, f.VertexCount())
	assert.Equal(t, 3, f.IndexCount())
	assert.Equal(t, uint32(2), f.Index(2))
}

func TestFlattenLargeUses32Bit(t *testing.T) {
	const n = 70000
	b := mesh.Buffers{
		Positions: make([][3]float32, n),
		Normals:   make([][3]float32, n),
		UVs:       make([][2]float32, n),
		Indices:   [][3]uint32{{0, 1, n - 1}},
	}
	f, err := Flatten(b)
	require.NoError(t, err)
	assert.Equal(t, 32, f.IndexWidth)
	assert.Equal(t, []uint32{0, 1, n - 1}, f.Indices32)
	assert.Equal(t, uint32(n-1), f.Index(2))
}

func TestFlattenBoundaryIndexStays16Bit(t *testing.T) {
	const n = 65536
	b := mesh.Buffers{
		Positions: make([][3]float32, n),
		Normals:   make([][3]float32, n),
		UVs:       make([][2]float32, n),
		Indices:   [][3]uint32{{0, 1, n - 1}},
	}
	f, err := Flatten(b)
	require.NoError(t, err)
	assert.Equal(t, 16, f.IndexWidth)
	assert.Equal(t, uint16(65535), f.Indices16[2])
}

func TestFlattenRejectsDefects(t *testing.T) {
	b := triangle()
	b.Indices = [][3]uint32{{0, 1, 5}}
	_, err := Flatten(b)
	assert.ErrorContains(t, err, "assemble:")
}

func TestNormalizeNormals(t *testing.T) {
	f, err := Flatten(triangle())
	require.NoError(t, err)
	NormalizeNormals(&f)
	assert.Equal(t, []float32{0, 0, 1, 0, 0, 1, 0, 0, 0}, f.Normals)
}

func TestEmpty(t *testing.T) {
	f, err := Flatten(mesh.Buffers{})
	require.NoError(t, err)
	assert.Zero(t, f.VertexCount())
	assert.Zero(t, f.IndexCount())
}
