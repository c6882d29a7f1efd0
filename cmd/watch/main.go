package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"proctree-renderer/internal/config"
	"proctree-renderer/internal/live"
	"proctree-renderer/internal/logx"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/preview"
	"proctree-renderer/internal/tree"
)

func main() {
	configFile := flag.String("config", "", "Path to config file (.json, .yaml, .toml)")
	baseDir := flag.String("base", "", "Base directory for relative paths (default: auto-detect)")
	assetDir := flag.String("assets", "", "Twig texture directory (default: <base>/assets)")
	outputDir := flag.String("output", "", "Directory for preview.webp (default: <base>/renders)")
	size := flag.Int("size", 0, "Preview size in pixels (default: 256)")
	verbose := flag.Bool("v", false, "Log generator diagnostics to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <params-file>\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()
	logx.Verbose(*verbose)

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	cfg.Resolve(config.Flags{
		BaseDir:    *baseDir,
		AssetDir:   *assetDir,
		ParamsFile: flag.Arg(0),
		OutputDir:  *outputDir,
		Size:       *size,
	})
	if cfg.ParamsFile == "" {
		flag.Usage()
		os.Exit(2)
	}

	// A missing file starts from the defaults and is picked up once created.
	base := params.Defaults()
	if _, err := os.Stat(cfg.ParamsFile); err == nil {
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

	out := filepath.Join(cfg.OutputDir, "preview.webp")
	session, err := live.NewSession(base, renderer, out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	report(session.Current(), nil)
	fmt.Printf("Watching %s → %s (Ctrl-C to stop)\n", cfg.ParamsFile, out)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	w := &live.Watcher{Session: session, Path: cfg.ParamsFile, OnReload: report}
	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func report(res *tree.Result, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Rejected: %v (keeping seed %d)\n", err, res.Params.Seed)
		return
	}
	s := res.Stats
	fmt.Printf("seed %d: %d nodes, %d vertices, %d triangles, %d twigs in %s\n",
		res.Params.Seed, s.Nodes, s.TrunkVertices, s.TrunkTriangles, s.TwigQuads, s.Elapsed.Round(time.Microsecond))
}
