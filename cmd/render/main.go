package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"proctree-renderer/internal/batch"
	"proctree-renderer/internal/config"
	"proctree-renderer/internal/logx"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/preview"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to config file (.json, .yaml, .toml)")
	paramsFile := flag.String("params", "", "Tree parameter file, merged onto the defaults")
	seedList := flag.String("seeds", "1-64", "Seeds to render, e.g. 1-64 or 3,7,10-12")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	baseDir := flag.String("base", "", "Base directory for relative paths (default: auto-detect)")
	assetDir := flag.String("assets", "", "Twig texture directory (default: <base>/assets)")
	outputDir := flag.String("output", "", "Output directory (default: <base>/renders)")
	size := flag.Int("size", 0, "Image size in pixels (default: 256)")
	top := flag.Bool("top", false, "Render a plan view looking straight down")
	verbose := flag.Bool("v", false, "Log generator diagnostics to stderr")

	var rotate *float64
	flag.Func("rotate", "Model rotation around the vertical axis, degrees", func(s string) error {
		var v float64
		if _, err := fmt.Sscan(s, &v); err != nil {
			return err
		}
		rotate = &v
		return nil
	})

	flag.Parse()
	logx.Verbose(*verbose)

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(config.Flags{
		BaseDir:    *baseDir,
		AssetDir:   *assetDir,
		ParamsFile: *paramsFile,
		OutputDir:  *outputDir,
		Size:       *size,
		Workers:    *workers,
		RotateY:    rotate,
	})
	if *top {
		cfg.TopView = true
	}

	seeds, err := batch.ParseSeeds(*seedList)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	base := params.Defaults()
	if cfg.ParamsFile != "" {
		base, err = params.Load(cfg.ParamsFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading params: %v\n", err)
			os.Exit(1)
		}
	}

	renderer, err := preview.NewRenderer(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Print summary
	fmt.Println("Procedural tree renderer → WebP")
	fmt.Printf("Seeds: %d, Workers: %d, Size: %d\n", len(seeds), cfg.Workers, cfg.RenderSize)
	fmt.Printf("Leaf texture: %s (assets: %s)\n", cfg.LeafTexture, cfg.AssetDir)
	fmt.Printf("Output: %s\n", cfg.OutputDir)
	fmt.Println("------------------------------------------------------------")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()

	results, runErr := batch.Run(ctx, batch.Config{
		OutputDir: cfg.OutputDir,
		Base:      base,
		Renderer:  renderer,
		Workers:   cfg.Workers,
		Progress:  os.Stdout,
	}, seeds)

	elapsed := time.Since(start)
	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Done in %.1fs\n", elapsed.Seconds())
	if runErr != nil {
		fmt.Printf("Interrupted: %v\n", runErr)
	}

	// Count results
	success := 0
	var failures []batch.Result
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failures = append(failures, r)
		}
	}

	fmt.Printf("Rendered: %d/%d\n", success, len(seeds))

	if len(failures) > 0 {
		fmt.Printf("\nFailed (%d):\n", len(failures))
		for _, e := range failures[:min(len(failures), 20)] {
			fmt.Printf("  seed %d: %s\n", e.Seed, e.Error)
		}
	}

	// Write manifest
	manifestPath := filepath.Join(cfg.OutputDir, "manifest.json")
	if err := batch.WriteManifest(manifestPath, results); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	} else {
		fmt.Printf("Manifest: %s\n", manifestPath)
	}

	if len(failures) > 0 {
		os.Exit(1)
	}
}
