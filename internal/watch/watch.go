// Package watch triggers a callback when a local bookmark source changes.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Defaults for Watcher timing.
const (
	DefaultDebounce     = 200 * time.Millisecond
	DefaultPollInterval = 2 * time.Second
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must stay quiet before onChange runs.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval used in polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) { w.pollInterval = d }
}

// WithForcePoll skips fsnotify and always polls.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.logger = l }
}

// Watcher watches one file. The parent directory is watched so editors and
// exporters that replace the file by rename are still seen.
type Watcher struct {
	path         string
	onChange     func(context.Context)
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	logger       *zap.Logger
}

// New returns a Watcher for path. onChange runs on the Run goroutine, so a
// slow callback delays, and coalesces, later changes.
func New(path string, onChange func(context.Context), opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         abs,
		onChange:     onChange,
		debounce:     DefaultDebounce,
		pollInterval: DefaultPollInterval,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string { return w.path }

// Run watches until ctx is done. It returns nil on cancellation.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.forcePoll {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			if err = fsw.Add(filepath.Dir(w.path)); err == nil {
				defer fsw.Close()
				w.logger.Info("watching source", zap.String("path", w.path), zap.String("mode", "fsnotify"))
				return w.runNotify(ctx, fsw)
			}
			fsw.Close()
		}
		w.logger.Warn("fsnotify unavailable, polling", zap.String("path", w.path), zap.Error(err))
	}
	w.logger.Info("watching source", zap.String("path", w.path), zap.String("mode", "poll"))
	return w.runPoll(ctx)
}

func (w *Watcher) runNotify(ctx context.Context, fsw *fsnotify.Watcher) error {
	target := filepath.Base(w.path)
	d := newDebouncer(w.debounce)
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.logger.Warn("source removed", zap.String("path", w.path))
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.logger.Debug("source changed", zap.String("path", w.path), zap.String("op", ev.Op.String()))
				d.trigger()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))

		case <-d.C():
			w.onChange(ctx)
		}
	}
}

func (w *Watcher) runPoll(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	d := newDebouncer(w.debounce)
	defer d.stop()

	var lastMtime time.Time
	var lastSize int64
	if info, err := os.Stat(w.path); err == nil {
		lastMtime, lastSize = info.ModTime(), info.Size()
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case <-ticker.C:
			info, err := os.Stat(w.path)
			if err != nil {
				if !os.IsNotExist(err) {
					w.logger.Warn("watch error", zap.Error(err))
				}
				continue
			}
			if info.ModTime().Equal(lastMtime) && info.Size() == lastSize {
				continue
			}
			lastMtime, lastSize = info.ModTime(), info.Size()
			d.trigger()

		case <-d.C():
			w.onChange(ctx)
		}
	}
}

// debouncer is a resettable timer owned by a single goroutine.
type debouncer struct {
	d     time.Duration
	timer *time.Timer
}

func newDebouncer(d time.Duration) *debouncer {
	if d <= 0 {
		d = DefaultDebounce
	}
	t := time.NewTimer(d)
	t.Stop()
	return &debouncer{d: d, timer: t}
}

func (d *debouncer) trigger() { d.timer.Reset(d.d) }

func (d *debouncer) C() <-chan time.Time { return d.timer.C }

func (d *debouncer) stop() { d.timer.Stop() }
