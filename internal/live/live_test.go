package live

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"proctree-renderer/internal/config"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/preview"
	"proctree-renderer/internal/tree"
)

func smallTree() params.Tree {
	p := params.Defaults()
	p.Levels = 2
	return p
}

func ptr[T any](v T) *T { return &v }

func TestApplyMergesOntoLastKnownParams(t *testing.T) {
	s, err := NewSession(smallTree(), nil, "")
	require.NoError(t, err)
	first := s.Current()
	require.NotNil(t, first)

	res, err := s.Apply(params.Patch{Seed: ptr(int64(99))})
	require.NoError(t, err)
	assert.Equal(t, int64(99), res.Params.Seed)
	assert.Same(t, res, s.Current())

	// A later partial edit keeps the earlier seed.
	res, err = s.Apply(params.Patch{Segments: ptr(6)})
	require.NoError(t, err)
	assert.Equal(t, int64(99), res.Params.Seed)
	assert.Equal(t, 6, res.Params.Segments)
	assert.Equal(t, 2, s.Params().Levels)

	// Unchanged parameters do not regenerate.
	same, err := s.Apply(params.Patch{Segments: ptr(6)})
	require.NoError(t, err)
	assert.Same(t, res, same)
}

func TestInvalidEditKeepsPreviousTree(t *testing.T) {
	s, err := NewSession(smallTree(), nil, "")
	require.NoError(t, err)
	before := s.Current()

	res, err := s.Apply(params.Patch{Segments: ptr(2)})
	var verr *params.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "segments", verr.Field)
	assert.Same(t, before, res)
	assert.Same(t, before, s.Current())
	assert.Equal(t, smallTree(), s.Params())

	_, err = NewSession(params.Tree{}, nil, "")
	assert.Error(t, err)
}

func TestReadersSeeWholeResults(t *testing.T) {
	s, err := NewSession(smallTree(), nil, "")
	require.NoError(t, err)

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				r := s.Current()
				if !assert.NoError(t, r.Trunk.Check()) {
					return
				}
				if !assert.Equal(t, r.Params.Segments*r.Stats.Rings, r.Stats.TrunkVertices) {
					return
				}
			}
		}()
	}
	for seed := int64(1); seed <= 5; seed++ {
		_, err := s.Apply(params.Patch{Seed: ptr(seed), Segments: ptr(int(3 + seed))})
		require.NoError(t, err)
	}
	close(stop)
	wg.Wait()
}

func TestReloadWritesPreview(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Config{RenderSize: 32, Supersample: 1, LeafTexture: config.NoTexture}
	cfg.Resolve(config.Flags{BaseDir: dir})
	r, err := preview.NewRenderer(&cfg)
	require.NoError(t, err)

	out := filepath.Join(dir, "preview.webp")
	s, err := NewSession(smallTree(), r, out)
	require.NoError(t, err)
	first, err := os.ReadFile(out)
	require.NoError(t, err)

	pf := filepath.Join(dir, "tree.yaml")
	require.NoError(t, os.WriteFile(pf, []byte("seed: 7\nlevels: 3\n"), 0o644))
	res, err := s.Reload(pf)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Params.Levels)

	second, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	_, err = s.Reload(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
	assert.Same(t, res, s.Current())
}

func TestWatcherReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	pf := filepath.Join(dir, "tree.json")
	require.NoError(t, os.WriteFile(pf, []byte(`{"levels": 2}`), 0o644))

	s, err := NewSession(smallTree(), nil, "")
	require.NoError(t, err)

	type outcome struct {
		res *tree.Result
		err error
	}
	reloads := make(chan outcome, 8)
	w := &Watcher{
		Session:  s,
		Path:     pf,
		Debounce: 20 * time.Millisecond,
		OnReload: func(res *tree.Result, err error) {
			select {
			case reloads <- outcome{res, err}:
			default:
			}
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	runErr := make(chan error, 1)
	go func() { runErr <- w.Run(ctx) }()

	// Writes are repeated until the watcher has picked one up; extra
	// reloads of the same content are harmless.
	waitFor := func(body string, ok func(outcome) bool) outcome {
		t.Helper()
		deadline := time.Now().Add(5 * time.Second)
		for time.Now().Before(deadline) {
			require.NoError(t, os.WriteFile(pf, []byte(body), 0o644))
			timeout := time.After(300 * time.Millisecond)
		drain:
			for {
				select {
				case o := <-reloads:
					if ok(o) {
						return o
					}
				case <-timeout:
					break drain
				}
			}
		}
		t.Fatalf("no matching reload for %s", body)
		return outcome{}
	}

	o := waitFor(`{"seed": 42}`, func(o outcome) bool {
		return o.err == nil && o.res.Params.Seed == 42
	})
	assert.Same(t, o.res, s.Current())

	o = waitFor(`{"levels": 99}`, func(o outcome) bool {
		var verr *params.ValidationError
		return errors.As(o.err, &verr) && verr.Field == "levels"
	})
	assert.Equal(t, int64(42), s.Current().Params.Seed)
	assert.Same(t, o.res, s.Current())

	cancel()
	assert.NoError(t, <-runErr)
}
