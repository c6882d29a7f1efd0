package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"proctree-renderer/internal/assemble"
	"proctree-renderer/internal/logx"
	"proctree-renderer/internal/mesh"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/skeleton"
	"proctree-renderer/internal/tree"
)

func main() {
	seed := flag.Int64("seed", 0, "Override the seed (0 keeps the file's or default seed)")
	save := flag.String("save", "", "Write the resolved full parameter set to this file")
	verbose := flag.Bool("v", false, "Log generator diagnostics to stderr")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: inspect [flags] [params-file]\n")
		flag.PrintDefaults()
	}
	flag.Parse()
	logx.Verbose(*verbose)

	p := params.Defaults()
	if path := flag.Arg(0); path != "" {
		var err error
		p, err = params.Load(path)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	if *seed != 0 {
		p.Seed = *seed
	}

	res, err := tree.Generate(p)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	sk := res.Skeleton
	fmt.Printf("Seed: %d, Levels: %d, Segments: %d\n", p.Seed, p.Levels, p.Segments)
	fmt.Printf("Skeleton: %d nodes, depth %d, %d terminals\n", len(sk.Nodes), sk.Depth(), len(sk.Terminals()))
	for level, n := range sk.LevelCounts() {
		fmt.Printf("  level %d: %d\n", level, n)
	}
	root := sk.Root()
	fmt.Printf("  trunk: length %.3f, radius %.3f, %d spine points\n", root.Length, root.Radius, len(root.Spine))
	if tip := deepestTip(sk); tip > 0 {
		fmt.Printf("  deepest tip: node %d, path %s\n", tip, joinInts(sk.Path(tip)))
	}

	describe("Trunk", res.Trunk)
	describe("Twig", res.Twig)

	if len(sk.Warnings) > 0 {
		fmt.Printf("Warnings (%d):\n", len(sk.Warnings))
		for _, w := range sk.Warnings[:min(len(sk.Warnings), 20)] {
			fmt.Printf("  pruned level %d child of node %d (length %.2g)\n", w.Level, w.Parent, w.Length)
		}
	}
	fmt.Printf("Generated in %s\n", res.Stats.Elapsed)

	if *save != "" {
		if err := params.Save(*save, p); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Params: %s\n", *save)
	}
}

// deepestTip returns the first terminal on the deepest level.
func deepestTip(sk *skeleton.Skeleton) int {
	best := 0
	for _, i := range sk.Terminals() {
		if sk.Nodes[i].Level > sk.Nodes[best].Level {
			best = i
		}
	}
	return best
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return strings.Join(parts, " > ")
}

func describe(name string, b mesh.Buffers) {
	flat, err := assemble.Flatten(b)
	if err != nil {
		fmt.Printf("%s: invalid: %v\n", name, err)
		return
	}
	assemble.NormalizeNormals(&flat)

	bytes := 4*(len(flat.Positions)+len(flat.Normals)+len(flat.UVs)) + flat.IndexCount()*flat.IndexWidth/8
	fmt.Printf("%s: %d vertices, %d triangles, %d-bit indices, %d bytes\n",
		name, flat.VertexCount(), flat.IndexCount()/3, flat.IndexWidth, bytes)
	if flat.VertexCount() == 0 {
		return
	}
	lo, hi := b.Bounds()
	fmt.Printf("  BBox: X[%.2f, %.2f] Y[%.2f, %.2f] Z[%.2f, %.2f]\n", lo[0], hi[0], lo[1], hi[1], lo[2], hi[2])
	fmt.Printf("  Size: %.2f x %.2f x %.2f\n", hi[0]-lo[0], hi[1]-lo[1], hi[2]-lo[2])
}
