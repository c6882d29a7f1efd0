package preview

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/HugoSmits86/nativewebp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proctree-renderer/internal/config"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/tree"
)

func TestRenderAndWrite(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{RenderSize: 48, LeafTexture: config.NoTexture}
	cfg.Resolve(config.Flags{BaseDir: dir})

	r, err := NewRenderer(&cfg)
	require.NoError(t, err)

	res, err := tree.Generate(params.Defaults())
	require.NoError(t, err)

	img := r.Render(&res)
	require.Equal(t, 48, img.Bounds().Dx())
	opaque := 0
	for i := 3; i < len(img.Pix); i += 4 {
		if img.Pix[i] > 0 {
			opaque++
		}
	}
	assert.Positive(t, opaque)

	out := filepath.Join(dir, "nested", "tree.webp")
	require.NoError(t, WriteWebP(out, img))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := nativewebp.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, img.Bounds(), decoded.Bounds())

	entries, err := os.ReadDir(filepath.Dir(out))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestNewRendererRejectsBadColor(t *testing.T) {
	cfg := config.Config{LeafColor: "leafy"}
	cfg.Resolve(config.Flags{BaseDir: t.TempDir()})
	_, err := NewRenderer(&cfg)
	assert.Error(t, err)
}
