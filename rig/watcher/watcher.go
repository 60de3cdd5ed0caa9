// Package watcher collects changes to files under directory trees, so a development server can tell pages which
// outputs of a build have changed.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
	"github.com/rs/zerolog"
)

// An Option configures a Watcher before it starts.
type Option func(*Watcher) error

// Include adds patterns for the files to watch.  Patterns match the base name of a file, so "*.js" matches
// "public/bundle.js".  Without any, every file is included.
func Include(patterns ...string) Option {
	return func(w *Watcher) (err error) {
		w.includes, err = compile(w.includes, patterns...)
		return
	}
}

// Exclude adds patterns for files to ignore, even when they are included.  Without any, files starting with a dot
// are ignored.
func Exclude(patterns ...string) Option {
	return func(w *Watcher) (err error) {
		w.excludes, err = compile(w.excludes, patterns...)
		return
	}
}

// Directory adds directories to watch, with everything below them.  Without any, the working directory is watched.
func Directory(paths ...string) Option {
	return func(w *Watcher) error {
		w.dirs = append(w.dirs, paths...)
		return nil
	}
}

func compile(seq []glob.Glob, patterns ...string) ([]glob.Glob, error) {
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, filepath.Separator)
		if err != nil {
			return nil, fmt.Errorf(`%w in %q`, err, pattern)
		}
		seq = append(seq, g)
	}
	return seq, nil
}

// A Watcher collects the names of changed files until they are taken with Changed.
type Watcher struct {
	includes []glob.Glob
	excludes []glob.Glob
	dirs     []string

	notify *fsnotify.Watcher
	alert  chan struct{}
	done   chan struct{}

	mu      sync.Mutex
	changed map[string]struct{}
}

// Start watches until ctx is done.
func Start(ctx context.Context, options ...Option) (*Watcher, error) {
	w := &Watcher{
		alert:   make(chan struct{}, 1),
		done:    make(chan struct{}),
		changed: make(map[string]struct{}),
	}
	for _, option := range options {
		err := option(w)
		if err != nil {
			return nil, err
		}
	}
	if len(w.dirs) == 0 {
		w.dirs = []string{`.`}
	}
	if len(w.excludes) == 0 {
		w.excludes = []glob.Glob{glob.MustCompile(`.*`, filepath.Separator)}
	}
	var err error
	w.notify, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	for _, dir := range w.dirs {
		err = w.add(dir)
		if err != nil {
			_ = w.notify.Close()
			return nil, err
		}
	}
	go w.run(ctx)
	return w, nil
}

// Alert receives a value when files have changed since the last call to Changed.
func (w *Watcher) Alert() <-chan struct{} { return w.alert }

// Done is closed once the watcher has stopped.
func (w *Watcher) Done() <-chan struct{} { return w.done }

// Changed returns the sorted names of files changed since the last call and forgets them.
func (w *Watcher) Changed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.changed))
	for name := range w.changed {
		names = append(names, name)
	}
	clear(w.changed)
	sort.Strings(names)
	return names
}

// add watches dir and every directory below it.
func (w *Watcher) add(dir string) error {
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return w.notify.Add(path)
		}
		return nil
	})
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.done)
	defer func() { _ = w.notify.Close() }()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.notify.Events:
			if !ok {
				return
			}
			w.notice(ctx, event)
		case err, ok := <-w.notify.Errors:
			if !ok {
				return
			}
			zerolog.Ctx(ctx).Warn().Err(err).Msg(`file changes may have been missed`)
		}
	}
}

func (w *Watcher) notice(ctx context.Context, event fsnotify.Event) {
	if event.Has(fsnotify.Create) {
		info, err := os.Stat(event.Name)
		if err == nil && info.IsDir() {
			// a directory renamed into the tree arrives with its contents.
			err = w.add(event.Name)
			if err != nil {
				zerolog.Ctx(ctx).Warn().Err(err).Str(`dir`, event.Name).Msg(`could not watch new directory`)
			}
			return
		}
	}
	if event.Has(fsnotify.Remove) {
		_ = w.notify.Remove(event.Name) // only directories are watched, and fsnotify may have dropped it already.
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return
	}
	if !w.match(event.Name) {
		return
	}
	w.mu.Lock()
	w.changed[event.Name] = struct{}{}
	w.mu.Unlock()
	select {
	case w.alert <- struct{}{}:
	default:
	}
}

func (w *Watcher) match(name string) bool {
	name = filepath.Base(name)
	included := len(w.includes) == 0
	for _, g := range w.includes {
		if g.Match(name) {
			included = true
			break
		}
	}
	if !included {
		return false
	}
	for _, g := range w.excludes {
		if g.Match(name) {
			return false
		}
	}
	return true
}
