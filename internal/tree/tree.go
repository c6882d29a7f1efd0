// Package tree is the single entry point of the generator: parameters in,
// trunk and twig meshes out.
package tree

import (
	"fmt"
	"time"

	"proctree-renderer/internal/foliage"
	"proctree-renderer/internal/logx"
	"proctree-renderer/internal/mesh"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/sequence"
	"proctree-renderer/internal/skeleton"
)

// Result is one complete generation. Nothing in it is modified after
// Generate returns; consumers replace a Result as a whole.
type Result struct {
	Params   params.Tree
	Skeleton *skeleton.Skeleton
	Trunk    mesh.Buffers
	Twig     mesh.Buffers
	Stats    Stats
}

// Stats summarizes a Result for logs and manifests.
type Stats struct {
	Nodes          int
	Depth          int
	Terminals      int
	Rings          int
	TrunkVertices  int
	TrunkTriangles int
	TwigQuads      int
	Warnings       int
	Elapsed        time.Duration
}

// Options tunes how a Result is computed. The Result itself does not
// depend on them.
type Options struct {
	// Workers bounds concurrent surface synthesis; see mesh.SurfaceOptions.
	Workers int
}

// Generate builds the tree described by p with default options.
func Generate(p params.Tree) (Result, error) {
	return GenerateWith(p, Options{})
}

// GenerateWith builds the tree described by p. Invalid parameters are
// rejected with a *params.ValidationError before any work is done. Every
// call owns a fresh sequence generator seeded from p.Seed, so identical
// parameters always give identical buffers.
func GenerateWith(p params.Tree, opts Options) (Result, error) {
	start := time.Now()
	if err := p.Validate(); err != nil {
		return Result{}, err
	}

	sk, err := skeleton.Build(p, sequence.New(p.Seed))
	if err != nil {
		return Result{}, fmt.Errorf("tree: skeleton: %w", err)
	}

	trunk, err := mesh.Synthesize(sk, mesh.SurfaceOptions{Workers: opts.Workers})
	if err != nil {
		return Result{}, fmt.Errorf("tree: trunk mesh: %w", err)
	}

	twig, err := foliage.Place(sk)
	if err != nil {
		return Result{}, fmt.Errorf("tree: twig mesh: %w", err)
	}

	res := Result{
		Params:   p,
		Skeleton: sk,
		Trunk:    trunk,
		Twig:     twig,
		Stats: Stats{
			Nodes:          len(sk.Nodes),
			Depth:          sk.Depth(),
			Terminals:      len(sk.Terminals()),
			Rings:          trunk.VertexCount() / p.Segments,
			TrunkVertices:  trunk.VertexCount(),
			TrunkTriangles: trunk.TriangleCount(),
			TwigQuads:      twig.VertexCount() / 4,
			Warnings:       len(sk.Warnings),
			Elapsed:        time.Since(start),
		},
	}

	logx.Logger().Debug("tree: generated",
		"seed", p.Seed,
		"nodes", res.Stats.Nodes,
		"vertices", res.Stats.TrunkVertices+twig.VertexCount(),
		"warnings", res.Stats.Warnings,
		"elapsed", res.Stats.Elapsed)
	return res, nil
}
