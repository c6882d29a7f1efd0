package batch

import (
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proctree-renderer/internal/config"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/preview"
)

func TestParseSeeds(t *testing.T) {
	cases := map[string][]int64{
		"1-4":         {1, 2, 3, 4},
		"7":           {7},
		"3, 1-2 ,3,9": {3, 1, 2, 9},
		"-2--1,-5":    {-2, -1, -5},
		"10-10,,":     {10},

		"9223372036854775806-9223372036854775807":   {math.MaxInt64 - 1, math.MaxInt64},
		"-9223372036854775808--9223372036854775807": {math.MinInt64, math.MinInt64 + 1},
	}
	for in, want := range cases {
		got, err := ParseSeeds(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", ",", "a", "5-2", "1-x", "0-70000",
		"-9223372036854775808-9223372036854775807", "-5-9223372036854775807"} {
		_, err := ParseSeeds(in)
		assert.Error(t, err, in)
	}
}

func newConfig(t *testing.T) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := config.Config{RenderSize: 32, Supersample: 1}
	cfg.Resolve(config.Flags{BaseDir: dir})
	r, err := preview.NewRenderer(&cfg)
	require.NoError(t, err)

	base := params.Defaults()
	base.Levels = 2
	return Config{OutputDir: cfg.OutputDir, Base: base, Renderer: r, Workers: 2}
}

func TestRunWritesImagesAndManifest(t *testing.T) {
	cfg := newConfig(t)
	seeds := []int64{1, 2, 3}

	results, err := Run(context.Background(), cfg, seeds)
	require.NoError(t, err)
	require.Len(t, results, 3)
	for i, r := range results {
		assert.True(t, r.Success, r.Error)
		assert.Equal(t, seeds[i], r.Seed)
		assert.Positive(t, r.Vertices)
		assert.Positive(t, r.Triangles)
		assert.FileExists(t, filepath.Join(cfg.OutputDir, r.Image))
	}

	// Same seed renders the same mesh statistics.
	again, err := Run(context.Background(), cfg, seeds[:1])
	require.NoError(t, err)
	assert.Equal(t, results[0].Vertices, again[0].Vertices)

	path := filepath.Join(cfg.OutputDir, "manifest.json")
	require.NoError(t, WriteManifest(path, append(results, Result{Seed: 9, Error: "boom"})))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []ManifestEntry
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "2.webp", entries[1].Image)
	assert.Equal(t, results[2].Twigs, entries[2].Twigs)
}

func TestRunReportsInvalidParams(t *testing.T) {
	cfg := newConfig(t)
	cfg.Base.Segments = 1

	results, err := Run(context.Background(), cfg, []int64{5})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.False(t, results[0].Success)
	assert.Contains(t, results[0].Error, "segments")
}

func TestRunCancelled(t *testing.T) {
	cfg := newConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	seeds := []int64{1, 2, 3, 4, 5, 6, 7, 8}
	results, _ := Run(ctx, cfg, seeds)
	require.Len(t, results, len(seeds))
	for i, r := range results {
		assert.Equal(t, seeds[i], r.Seed)
		assert.True(t, r.Success || r.Error != "", "seed %d has no outcome", r.Seed)
	}
}
