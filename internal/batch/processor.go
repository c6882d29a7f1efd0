// Package batch renders many seeds of one parameter set to WebP files.
package batch

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"proctree-renderer/internal/params"
	"proctree-renderer/internal/preview"
	"proctree-renderer/internal/tree"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir string
	Base      params.Tree
	Renderer  *preview.Renderer
	Workers   int
	// Progress receives periodic rate lines; nil disables them.
	Progress io.Writer
}

// Result holds the outcome of rendering one seed.
type Result struct {
	Seed      int64
	Image     string
	Vertices  int
	Triangles int
	Twigs     int
	Warnings  int
	Success   bool
	Error     string
}

// Run renders every seed using a worker pool. Per-seed failures are
// reported in the results; the returned error is only set when ctx is
// cancelled, in which case unprocessed seeds carry the context error.
func Run(ctx context.Context, cfg Config, seeds []int64) ([]Result, error) {
	total := len(seeds)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	if cfg.Progress != nil {
		go func() {
			ticker := time.NewTicker(2 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-done:
					return
				case <-ticker.C:
					p := processed.Load()
					if p > 0 {
						rate := float64(p) / time.Since(start).Seconds()
						fmt.Fprintf(cfg.Progress, "  [%d/%d] %.1f trees/sec\n", p, total, rate)
					}
				}
			}
		}()
	}
	defer close(done)

	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	seedChan := make(chan int, workers*2)

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			for idx := range seedChan {
				results[idx] = processSeed(cfg, seeds[idx])
				processed.Add(1)
			}
			return nil
		})
	}

	g.Go(func() error {
		defer close(seedChan)
		for i := range seeds {
			select {
			case seedChan <- i:
			case <-gctx.Done():
				for j := i; j < total; j++ {
					results[j] = Result{Seed: seeds[j], Error: gctx.Err().Error()}
				}
				return gctx.Err()
			}
		}
		return nil
	})

	err := g.Wait()
	return results, err
}

func processSeed(cfg Config, seed int64) Result {
	p := cfg.Base
	p.Seed = seed
	name := ImageName(seed)

	// Seeds already run in parallel; keep each generation serial.
	res, err := tree.GenerateWith(p, tree.Options{Workers: 1})
	if err != nil {
		return Result{Seed: seed, Error: err.Error()}
	}

	out := Result{
		Seed:      seed,
		Image:     name,
		Vertices:  res.Stats.TrunkVertices + res.Twig.VertexCount(),
		Triangles: res.Stats.TrunkTriangles + res.Twig.TriangleCount(),
		Twigs:     res.Stats.TwigQuads,
		Warnings:  res.Stats.Warnings,
	}

	img := cfg.Renderer.Render(&res)
	if err := preview.WriteWebP(filepath.Join(cfg.OutputDir, name), img); err != nil {
		out.Error = err.Error()
		return out
	}
	out.Success = true
	return out
}

// ImageName is the file name a seed renders to.
func ImageName(seed int64) string {
	return fmt.Sprintf("%d.webp", seed)
}
