// Package ingest turns payload files dropped into a directory into results.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/san-kum/odeview/internal/result"
)

const (
	DefaultDebounce = 50 * time.Millisecond
	payloadExt      = ".json"
)

// Event reports one payload file. Exactly one of Result and Err is set.
type Event struct {
	Name   string
	Path   string
	Result *result.Columnar
	Err    error
}

// Watcher watches a single directory for new or rewritten payload files.
type Watcher struct {
	dir      string
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *slog.Logger
}

func New(dir string, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("ingest: %s is not a directory", dir)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, err
	}

	return &Watcher{dir: dir, debounce: debounce, watcher: fw, logger: logger}, nil
}

func (w *Watcher) Dir() string { return w.dir }

// Run delivers an Event for every payload file created or written in the
// directory until ctx is done. Bursts of writes to the same file are
// collapsed into one event.
func (w *Watcher) Run(ctx context.Context, deliver func(Event)) error {
	defer w.watcher.Close()

	timer := time.NewTimer(0)
	<-timer.C

	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 || !IsPayload(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case <-timer.C:
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			pending = make(map[string]struct{})
			sort.Strings(paths)

			for _, p := range paths {
				deliver(w.load(p))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "dir", w.dir, "error", err)
		}
	}
}

func (w *Watcher) load(path string) Event {
	ev := Event{Name: Title(path), Path: path}
	ev.Result, ev.Err = LoadFile(path)
	if ev.Err != nil {
		w.logger.Warn("payload rejected", "path", path, "error", ev.Err)
	} else {
		w.logger.Info("payload loaded", "path", path, "points", ev.Result.Len())
	}
	return ev
}

// LoadFile decodes a payload file.
func LoadFile(path string) (*result.Columnar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r, err := result.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return r, nil
}

// Title is the file name without directory or extension.
func Title(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func IsPayload(path string) bool {
	return strings.EqualFold(filepath.Ext(path), payloadExt) && !strings.HasPrefix(filepath.Base(path), ".")
}
