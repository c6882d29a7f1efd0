// Package live keeps one current tree up to date with a stream of
// parameter edits and re-renders its preview.
package live

import (
	"fmt"
	"sync"
	"sync/atomic"

	"proctree-renderer/internal/logx"
	"proctree-renderer/internal/params"
	"proctree-renderer/internal/preview"
	"proctree-renderer/internal/tree"
)

// Session owns the last-known full parameter set and the current Result.
// Readers call Current at any time and always see a complete Result;
// updates are serialized.
type Session struct {
	mu      sync.Mutex // serializes Apply
	full    params.Tree
	current atomic.Pointer[tree.Result]

	renderer    *preview.Renderer // nil disables previews
	previewPath string
	opts        tree.Options
}

// NewSession generates the initial tree from base. renderer may be nil.
func NewSession(base params.Tree, renderer *preview.Renderer, previewPath string) (*Session, error) {
	s := &Session{renderer: renderer, previewPath: previewPath}
	res, err := tree.GenerateWith(base, s.opts)
	if err != nil {
		return nil, err
	}
	s.full = base
	if err := s.publish(&res); err != nil {
		return nil, err
	}
	return s, nil
}

// Current returns the latest successful Result.
func (s *Session) Current() *tree.Result {
	return s.current.Load()
}

// Params returns the last-known full parameter set.
func (s *Session) Params() params.Tree {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.full
}

// Apply merges p onto the last-known full set and regenerates. On any
// error the previous Result and parameters stay current.
func (s *Session) Apply(p params.Patch) (*tree.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := params.Merge(s.full, p)
	if err != nil {
		return s.current.Load(), err
	}
	if next == s.full {
		logx.Logger().Debug("live: parameters unchanged")
		return s.current.Load(), nil
	}

	res, err := tree.GenerateWith(next, s.opts)
	if err != nil {
		return s.current.Load(), err
	}
	if err := s.publish(&res); err != nil {
		return s.current.Load(), err
	}
	s.full = next
	return &res, nil
}

// Reload reads a full or partial parameter file and applies it.
func (s *Session) Reload(path string) (*tree.Result, error) {
	p, err := params.LoadPatch(path)
	if err != nil {
		return s.current.Load(), err
	}
	return s.Apply(p)
}

// publish renders the preview, then swaps res in.
func (s *Session) publish(res *tree.Result) error {
	if s.renderer != nil && s.previewPath != "" {
		img := s.renderer.Render(res)
		if err := preview.WriteWebP(s.previewPath, img); err != nil {
			return fmt.Errorf("live: %w", err)
		}
	}
	s.current.Store(res)
	logx.Logger().Info("live: swapped tree",
		"seed", res.Params.Seed,
		"vertices", res.Stats.TrunkVertices,
		"twigs", res.Stats.TwigQuads)
	return nil
}
