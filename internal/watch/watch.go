// Package watch runs an action once per burst of file-system changes.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	"github.com/romdo/go-debounced"
)

// DefaultOps are the operations that trigger the action when Config.Ops is
// left empty.
const DefaultOps = fsnotify.Create | fsnotify.Write | fsnotify.Remove | fsnotify.Rename

// Action is run with the last event of a burst in trailing mode, or the first
// one in immediate mode.
type Action func(ctx context.Context, ev fsnotify.Event) error

type Config struct {
	// Paths to watch. Directories are watched recursively, skipping hidden
	// directories and vendor.
	Paths []string

	// Wait is the quiet period that ends a burst.
	Wait time.Duration

	// Immediate runs the action on the first event of a burst instead of
	// after it.
	Immediate bool

	// Ops filters which events are passed to the debouncer.
	Ops fsnotify.Op
}

type Watcher struct {
	cfg       Config
	fsw       *fsnotify.Watcher
	debouncer *debounce.Debouncer[fsnotify.Event, struct{}]
}

// New creates a Watcher and starts watching cfg.Paths. Events are not
// delivered to action until Run is called.
func New(cfg Config, action Action, opts ...debounce.Option) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("%w: no paths to watch", debounce.ErrInvalidArgument)
	}
	if action == nil {
		return nil, fmt.Errorf("%w: nil action", debounce.ErrInvalidArgument)
	}
	if cfg.Ops == 0 {
		cfg.Ops = DefaultOps
	}

	if cfg.Immediate {
		opts = append(opts, debounce.Immediate())
	}

	d, err := debounce.NewDebouncer(
		cfg.Wait,
		func(ctx context.Context, ev fsnotify.Event) (struct{}, error) {
			return struct{}{}, action(ctx, ev)
		},
		opts...,
	)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{cfg: cfg, fsw: fsw, debouncer: d}
	for _, p := range cfg.Paths {
		if err := w.add(p); err != nil {
			_ = fsw.Close()

			return nil, err
		}
	}

	return w, nil
}

// add watches path, recursing into directories.
func (w *Watcher) add(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	if !info.IsDir() {
		return w.fsw.Add(path)
	}

	return filepath.WalkDir(path, func(p string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !de.IsDir() {
			return nil
		}
		if p != path && skipDir(de.Name()) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}

		return nil
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || name == "vendor"
}

// WatchList returns the paths currently being watched.
func (w *Watcher) WatchList() []string {
	return w.fsw.WatchList()
}

// Run delivers events to the debouncer until ctx is done or the watcher is
// closed. A pending action is canceled when Run returns; one that is already
// running is left to finish.
func (w *Watcher) Run(ctx context.Context) error {
	logger := zerolog.Ctx(ctx)
	defer w.debouncer.Cancel()

	logger.Info().
		Strs("paths", w.cfg.Paths).
		Dur("wait", w.cfg.Wait).
		Bool("immediate", w.cfg.Immediate).
		Msg("watching for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(ctx context.Context, ev fsnotify.Event) {
	logger := zerolog.Ctx(ctx)

	// New directories need to be watched too.
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() &&
			!skipDir(filepath.Base(ev.Name)) {
			if err := w.add(ev.Name); err != nil {
				logger.Warn().Err(err).Str("path", ev.Name).Msg("failed to watch")
			}
		}
	}

	if ev.Op&w.cfg.Ops == 0 {
		return
	}

	logger.Debug().Str("path", ev.Name).Stringer("op", ev.Op).Msg("change")
	f := w.debouncer.Call(ctx, ev)

	go func() {
		<-f.Done()
		res, _ := f.Result()
		report(logger, ev, res)
	}()
}

func report(logger *zerolog.Logger, ev fsnotify.Event, res debounce.Result[struct{}]) {
	switch {
	case res.Outcome == debounce.OutcomeSucceeded:
		logger.Info().Str("path", ev.Name).Msg("action completed")
	case res.Outcome == debounce.OutcomeFailed:
		logger.Error().Err(res.Err).Str("path", ev.Name).Msg("action failed")
	case errors.Is(res.Err, debounce.ErrCanceled):
		logger.Debug().Str("path", ev.Name).Msg("pending action canceled")
	}
}

// Close stops watching and cancels any pending action.
func (w *Watcher) Close() error {
	w.debouncer.Cancel()

	return w.fsw.Close()
}
