package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

const defaultDebounce = 500 * time.Millisecond

// Watcher watches fixture files and reports each change once it has settled
type Watcher struct {
	paths    []string
	onChange func(path string)
	debounce time.Duration
	log      zerolog.Logger
	ready    chan struct{}
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before onChange runs
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher's logger
func WithLogger(l zerolog.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a watcher for paths. onChange runs on the goroutine that
// called Watch, one path at a time.
func New(paths []string, onChange func(path string), opts ...Option) *Watcher {
	w := &Watcher{
		paths:    append([]string(nil), paths...),
		onChange: onChange,
		debounce: defaultDebounce,
		log:      zerolog.Nop(),
		ready:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Ready is closed once every watch is registered
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Watch blocks until the context is cancelled or the underlying watcher
// fails. Directories are watched rather than files so that editors which
// replace a file on save are still seen.
func (w *Watcher) Watch(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	files, err := w.register(fw)
	if err != nil {
		return err
	}
	close(w.ready)

	pending := make(map[string]time.Time)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !files[abs] {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[abs] = time.Now().Add(w.debounce)
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn().Err(err).Msg("Watcher error")

		case <-timer.C:
			if next := w.flush(pending); next > 0 {
				timer.Reset(next)
			}

		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// register adds the parent directory of every path and returns the set of
// watched files
func (w *Watcher) register(fw *fsnotify.Watcher) (map[string]bool, error) {
	files := make(map[string]bool, len(w.paths))
	dirs := make(map[string]bool)
	var errs []error

	for _, path := range w.paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolve %s: %w", path, err))
			continue
		}

		dir := filepath.Dir(abs)
		if !dirs[dir] {
			if err := fw.Add(dir); err != nil {
				errs = append(errs, fmt.Errorf("watch %s: %w", dir, err))
				continue
			}
			dirs[dir] = true
		}

		files[abs] = true
		w.log.Info().Str("path", abs).Msg("Watching for changes")
	}

	if len(files) == 0 {
		if len(errs) == 0 {
			return nil, errors.New("no files to watch")
		}
		return nil, errors.Join(errs...)
	}
	for _, err := range errs {
		w.log.Warn().Err(err).Msg("Skipping path")
	}
	return files, nil
}

// flush runs onChange for every settled path and returns the wait until the
// next one settles, or zero if none is pending
func (w *Watcher) flush(pending map[string]time.Time) time.Duration {
	now := time.Now()
	var next time.Duration
	for path, due := range pending {
		if wait := due.Sub(now); wait > 0 {
			if next == 0 || wait < next {
				next = wait
			}
			continue
		}
		delete(pending, path)
		w.log.Info().Str("path", path).Msg("File changed")
		w.onChange(path)
	}
	return next
}
