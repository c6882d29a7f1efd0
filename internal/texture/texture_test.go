package texture

import (
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ftrvxmtrx/tga"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
}

func writeJPEG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, jpeg.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4)), nil))
}

func writeTGA(t *testing.T, path string, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, tga.Encode(f, img))
}

func TestLoadTextureFormats(t *testing.T) {
	dir := t.TempDir()
	pngPath := filepath.Join(dir, "twig-1.png")
	jpgPath := filepath.Join(dir, "twig-2.jpg")
	jpegPath := filepath.Join(dir, "twig-2b.JPEG")
	tgaPath := filepath.Join(dir, "twig-3.tga")
	writePNG(t, pngPath, color.NRGBA{10, 120, 20, 200})
	writeJPEG(t, jpgPath)
	writeJPEG(t, jpegPath)
	writeTGA(t, tgaPath, color.NRGBA{200, 40, 60, 128})

	img, err := LoadTexture(pngPath)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{10, 120, 20, 200}, img.NRGBAAt(2, 2))

	for _, p := range []string{jpgPath, jpegPath} {
		img, err = LoadTexture(p)
		require.NoError(t, err, p)
		require.Equal(t, 4, img.Bounds().Dx(), p)
		c := img.NRGBAAt(1, 1)
		assert.Equal(t, uint8(255), c.A, p)
		assert.LessOrEqual(t, c.R, uint8(2), p)
	}

	img, err = LoadTexture(tgaPath)
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{200, 40, 60, 128}, img.NRGBAAt(3, 0))

	_, err = LoadTexture(filepath.Join(dir, "twig.bmp"))
	assert.ErrorContains(t, err, "unsupported format")
	_, err = LoadTexture(filepath.Join(dir, "missing.png"))
	assert.ErrorContains(t, err, "read")
}

func TestOptionStems(t *testing.T) {
	assert.Equal(t, "twig-1", OptionA.Stem())
	assert.Equal(t, "twig-2", OptionB.Stem())
	assert.Equal(t, "twig-3", OptionC.Stem())
	assert.Empty(t, Option(7).Stem())

	for in, want := range map[string]Option{"twig-3": OptionC, "B": OptionB, "1": OptionA} {
		got, err := ParseOption(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseOption("twig-4")
	assert.Error(t, err)

	var o Option
	require.NoError(t, o.UnmarshalText([]byte("twig-2")))
	assert.Equal(t, OptionB, o)
	b, err := OptionC.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "twig-3", string(b))
}

func TestIndexPrefersAlphaFormats(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "leaves")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeJPEG(t, filepath.Join(dir, "twig-1.jpg"))
	writePNG(t, filepath.Join(sub, "Twig-1.png"), color.NRGBA{0, 200, 0, 255})
	writeJPEG(t, filepath.Join(dir, "twig-2.jpg"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))

	idx := BuildIndex(dir)
	assert.Equal(t, 2, idx.Len())

	p, ok := idx.ResolvePath("twig-1")
	require.True(t, ok)
	assert.Equal(t, ".png", filepath.Ext(p))

	p, ok = idx.ResolvePath(`textures\TWIG-2.tga`)
	require.True(t, ok)
	assert.Equal(t, ".jpg", filepath.Ext(p))

	_, ok = idx.ResolvePath("twig-3")
	assert.False(t, ok)

	assert.Zero(t, BuildIndex(filepath.Join(dir, "missing")).Len())
}

func TestCacheResolve(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "twig-1.png"), color.NRGBA{10, 120, 20, 200})
	writeJPEG(t, filepath.Join(dir, "twig-2.jpg"))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "twig-3.png"), []byte("not a png"), 0o644))

	c := NewCache(BuildIndex(dir))

	var wg sync.WaitGroup
	got := make([]*image.NRGBA, 8)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = c.Option(OptionA)
		}(i)
	}
	wg.Wait()
	require.NotNil(t, got[0])
	for _, img := range got {
		assert.Same(t, got[0], img)
	}
	assert.Equal(t, color.NRGBA{10, 120, 20, 200}, got[0].NRGBAAt(1, 1))

	gray := c.Option(OptionB)
	require.NotNil(t, gray)
	assert.Equal(t, uint8(255), gray.NRGBAAt(0, 0).A)

	assert.Nil(t, c.Option(OptionC))
	assert.Nil(t, c.Resolve("bark"))
}
