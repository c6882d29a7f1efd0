package live

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"proctree-renderer/internal/logx"
	"proctree-renderer/internal/tree"
)

// DefaultDebounce groups the burst of events editors emit on save.
const DefaultDebounce = 150 * time.Millisecond

// Watcher reloads a Session whenever its parameter file changes.
type Watcher struct {
	Session  *Session
	Path     string
	Debounce time.Duration

	// OnReload, when set, is called after every reload attempt from the
	// regeneration goroutine.
	OnReload func(res *tree.Result, err error)
}

// Run watches until ctx is done. The containing directory is watched so
// that editors replacing the file by rename keep being followed.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("live: watcher: %w", err)
	}
	defer fw.Close()

	abs, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("live: %s: %w", w.Path, err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("live: watch %s: %w", filepath.Dir(abs), err)
	}

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	ctx, cancel := context.WithCancel(ctx)

	// One pending reload at most; edits arriving mid-generation coalesce.
	kick := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-kick:
				res, err := w.Session.Reload(abs)
				if err != nil {
					logx.Logger().Warn("live: reload rejected, keeping previous tree", "path", abs, "err", err)
				}
				if w.OnReload != nil {
					w.OnReload(res, err)
				}
			}
		}
	}()
	defer func() {
		cancel()
		<-done
	}()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			logx.Logger().Debug("live: params changed", "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logx.Logger().Warn("live: watcher error", "err", err)
		case <-timer.C:
			select {
			case kick <- struct{}{}:
			default:
			}
		}
	}
}
