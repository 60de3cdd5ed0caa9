// Package rig manages a configuration of HTTP handlers rigged together for developing a bundled web page.  Options
// register hooks that provide listeners, handlers and start-up work, such as running the bundler.
//
// Web pages can observe when their files have been rebuilt by subscribing to server sent events at BuildRoute.
package rig

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/swdunlop/globe-go/rig/hook"
	"github.com/swdunlop/globe-go/rig/watcher"
	"github.com/swdunlop/html-go/hog"
	sse "github.com/tmaxmax/go-sse"
)

// BuildRoute is where a rig publishes a "build" event each time a watched file changes.
const BuildRoute = `/_rig/build`

// settle is how long a rig waits for a burst of file changes to end before publishing a build event.
const settle = 100 * time.Millisecond

// Main serves a rig with the given options until interrupted.
func Main(options ...Option) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	return Serve(ctx, options...)
}

// Serve serves a rig with the given options until the context is cancelled.
func Serve(ctx context.Context, options ...Option) error {
	cfg, err := New(options...)
	if err != nil {
		return err
	}
	return cfg.Serve(ctx)
}

// New returns a new rig configuration.
func New(options ...Option) (*Config, error) {
	cfg := new(Config)
	err := cfg.Apply(options...)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// A Config is a rig configuration.
type Config struct {
	serve   bool            // true once Serve has been called
	serving bool            // true after Serve has been called and before it returns
	hooks   []any           // hooks to apply
	done    <-chan struct{} // closed when the rig starts to shut down
	watch   []watch
}

type watch struct {
	dir      string
	patterns []string
}

// Done returns a channel that will be closed when the rig starts to shut down.  This is nil unless the rig is serving.
func (cfg *Config) Done() <-chan struct{} {
	return cfg.done
}

// Hook adds hooks to the configuration, see the hook package for interfaces that hooks can implement.  This is
// normally done by various options.
func (cfg *Config) Hook(hooks ...any) {
	cfg.hooks = append(cfg.hooks, hooks...)
}

// Apply applies the given options to the config; should not be called after Serve.
func (cfg *Config) Apply(options ...Option) error {
	if cfg.serving {
		return errors.New(`cannot apply options while a rig is running`)
	} else if cfg.serve {
		return errors.New(`cannot apply options after a rig has been run`)
	}

	for _, option := range options {
		err := option(cfg)
		if err != nil {
			return err
		}
	}
	return nil
}

// Handler runs the start hooks and returns the HTTP handler of the rig without listening.  Watches are started
// and stop when the context is cancelled.
func (cfg *Config) Handler(ctx context.Context) (http.Handler, error) {
	hooks, err := hook.Order(cfg.hooks...)
	if err != nil {
		return nil, err
	}
	for _, it := range hooks {
		if impl, ok := it.(hook.Start); ok {
			err := impl.RigStart(ctx)
			if err != nil {
				return nil, err
			}
		}
	}

	mux := new(http.ServeMux)
	for _, it := range hooks {
		if impl, ok := it.(hook.Mux); ok {
			impl.RigMux(mux)
		}
	}
	if len(cfg.watch) > 0 {
		events, err := cfg.startWatch(ctx)
		if err != nil {
			return nil, err
		}
		mux.Handle(`GET `+BuildRoute, events)
	}
	return mux, nil
}

// Serve will run the configured rig on every listener provided by its hooks until the context is cancelled.
func (cfg *Config) Serve(ctx context.Context) error {
	cfg.serve = true
	cfg.serving = true

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cfg.done = ctx.Done()
	defer func() { cfg.done, cfg.serving = nil, false }()

	handler, err := cfg.Handler(ctx)
	if err != nil {
		return err
	}

	hooks, err := hook.Order(cfg.hooks...)
	if err != nil {
		return err
	}
	var svr http.Server
	svr.Handler = handler
	for _, it := range hooks {
		if impl, ok := it.(hook.Server); ok {
			impl.RigServer(&svr)
		}
	}

	var listens []hook.Listen
	for _, it := range cfg.hooks {
		if impl, ok := it.(hook.Listen); ok {
			listens = append(listens, impl)
		}
	}
	if len(listens) == 0 {
		return errors.New(`no listener configured, use local.Rig or tailscale.Rig`)
	}

	go func() {
		<-ctx.Done()
		_ = svr.Shutdown(context.Background())
	}()

	var group sync.WaitGroup
	errs := make([]error, len(listens))
	for i, it := range listens {
		lr, err := it.Listen(ctx)
		if err != nil {
			cancel()
			errs[i] = err
			break
		}
		// no need to close lr, svr.Shutdown will close it
		group.Add(1)
		go func() {
			defer group.Done()
			hog.From(ctx).Info().Stringer(`address`, lr.Addr()).Msg(`starting HTTP service`)
			err := svr.Serve(lr)
			hog.From(ctx).Info().Err(err).Stringer(`address`, lr.Addr()).Msg(`HTTP service stopped`)
			if err != http.ErrServerClosed {
				_ = lr.Close() // just in case, since we did not have a shutdown or server close.
				errs[i] = err
				cancel()
			}
		}()
	}
	group.Wait()
	return errors.Join(errs...)
}

// Watch will publish a "build" event at BuildRoute when any file in the given directory changes that matches one of
// the given glob patterns.  The data of the event lists the changed files, relative to their directory.  This is normally done by various options like esbuild.
//
// If nothing is being watched, BuildRoute will not be registered.
func (cfg *Config) Watch(dir string, patterns ...string) error {
	cfg.watch = append(cfg.watch, watch{dir, patterns})
	return nil
}

func (cfg *Config) startWatch(ctx context.Context) (*sse.Server, error) {
	var events sse.Server
	alerts := make(chan struct{}, 1)
	watchers := make([]*watcher.Watcher, len(cfg.watch))
	for i, w := range cfg.watch {
		err := os.MkdirAll(w.dir, 0o755)
		if err != nil {
			return nil, err
		}
		wr, err := watcher.Start(ctx, watcher.Directory(w.dir), watcher.Include(w.patterns...))
		if err != nil {
			return nil, err
		}
		watchers[i] = wr
		go func() {
			for {
				select {
				case <-wr.Done():
					return
				case <-wr.Alert():
					select {
					case alerts <- struct{}{}:
					default:
					}
				}
			}
		}()
	}
	go func() {
		defer func() { _ = events.Shutdown(context.Background()) }()
		for {
			select {
			case <-ctx.Done():
				return
			case <-alerts:
			}
			// let the rest of a build land before telling pages to reload.
			select {
			case <-ctx.Done():
				return
			case <-time.After(settle):
			}
			var changed []string
			for i, wr := range watchers {
				changed = append(changed, relativeTo(cfg.watch[i].dir, wr.Changed())...)
			}
			if len(changed) == 0 {
				continue // already published with an earlier alert.
			}
			id := uuid.NewString()
			msg := &sse.Message{ID: sse.ID(id), Type: sse.Type(`build`)}
			msg.AppendData(changed...)
			err := events.Publish(msg)
			if err != nil {
				hog.From(ctx).Warn().Err(err).Msg(`could not publish build event`)
				continue
			}
			hog.From(ctx).Debug().Str(`id`, id).Strs(`changed`, changed).Msg(`published build event`)
		}
	}()
	return &events, nil
}

// relativeTo converts names to slash separated paths relative to dir.
func relativeTo(dir string, names []string) []string {
	for i, name := range names {
		rel, err := filepath.Rel(dir, name)
		if err == nil {
			names[i] = filepath.ToSlash(rel)
		}
	}
	return names
}

// An Option is a function that modifies a Config before it is served.
type Option func(*Config) error
