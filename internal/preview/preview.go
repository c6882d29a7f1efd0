// Package preview renders a generated tree to a finished WebP image:
// rasterize, downsample, crop and center, encode.
package preview

import (
	"fmt"
	"image"
	"os"
	"path/filepath"

	"github.com/HugoSmits86/nativewebp"

	"proctree-renderer/internal/config"
	"proctree-renderer/internal/material"
	"proctree-renderer/internal/postprocess"
	"proctree-renderer/internal/raster"
	"proctree-renderer/internal/texture"
	"proctree-renderer/internal/tree"
	"proctree-renderer/internal/viewmatrix"
)

// Renderer holds the shared, read-only render resources. Safe for
// concurrent use.
type Renderer struct {
	Materials   material.Config
	Textures    texture.Resolver
	Size        int
	Supersample int
	FillRatio   float64
	Camera      viewmatrix.Camera
}

// NewRenderer builds a renderer from a resolved config, indexing the twig
// textures under the asset dir.
func NewRenderer(cfg *config.Config) (*Renderer, error) {
	mats, err := cfg.Materials()
	if err != nil {
		return nil, err
	}
	return &Renderer{
		Materials:   mats,
		Textures:    texture.NewCache(texture.BuildIndex(cfg.AssetDir)),
		Size:        cfg.RenderSize,
		Supersample: cfg.Supersample,
		FillRatio:   cfg.FillRatio,
		Camera:      cfg.Camera(),
	}, nil
}

// Render draws res into a Size×Size image.
func (r *Renderer) Render(res *tree.Result) *image.NRGBA {
	img := raster.RenderTree(res.Trunk, res.Twig, r.Materials, r.Textures, raster.Options{
		Size:        r.Size,
		Supersample: r.Supersample,
		Camera:      r.Camera,
	})
	if r.Supersample > 1 {
		img = postprocess.Downsample(img, r.Size)
	}
	return postprocess.CropAndCenter(img, r.Size, r.FillRatio)
}

// WriteWebP encodes img losslessly to path. The file is written under a
// temporary name and renamed so readers never see a partial image.
func WriteWebP(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("preview: mkdir %s: %w", filepath.Dir(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".preview-*.webp")
	if err != nil {
		return fmt.Errorf("preview: create %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := nativewebp.Encode(tmp, img, nil); err != nil {
		tmp.Close()
		return fmt.Errorf("preview: webp encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("preview: write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("preview: rename %s: %w", path, err)
	}
	return nil
}
