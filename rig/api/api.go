// Package api rigs handlers, such as the build RPC endpoint or an embedded build, onto a rig's multiplexer.
package api

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"github.com/swdunlop/globe-go/rig"
)

// Rig returns a rig option that serves the handlers added by options.
func Rig(options ...Option) rig.Option {
	var cfg config
	cfg.apply(options...)
	return func(r *rig.Config) error {
		if cfg.err != nil {
			return cfg.err
		}
		r.Hook(&cfg)
		return nil
	}
}

// An Option adds handlers or middleware to an API.
type Option func(*config) error

// Handle serves handler at a http.ServeMux pattern, such as "GET /_rig/rpc".
func Handle(pattern string, handler http.Handler) Option {
	return func(cfg *config) error {
		return cfg.route(pattern, handler)
	}
}

// HandleFunc serves fn at a http.ServeMux pattern.
func HandleFunc(pattern string, fn func(w http.ResponseWriter, r *http.Request)) Option {
	return Handle(pattern, http.HandlerFunc(fn))
}

// FS serves a file system, such as an embedded build, at each of the patterns.
func FS(files fs.FS, patterns ...string) Option {
	return func(cfg *config) error {
		if len(patterns) == 0 {
			return errors.New(`no patterns given for a file system`)
		}
		handler := http.FileServer(http.FS(files))
		for _, pattern := range patterns {
			err := cfg.route(pattern, handler)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

// Use wraps the handlers added after it, up to the end of the enclosing Group or Prefix.  Middleware added first
// runs first.  Any func(http.Handler) http.Handler works, including the middleware written for chi.
func Use(fn func(http.Handler) http.Handler) Option {
	return func(cfg *config) error {
		cfg.middleware = append(cfg.middleware, fn)
		return nil
	}
}

// Group applies options so that any middleware they add does not reach handlers outside the group.
func Group(options ...Option) Option {
	return Prefix(``, options...)
}

// Prefix is a Group whose patterns have their path prefixed, so Prefix("/_rig", Handle("GET /rpc", h)) serves h at
// "GET /_rig/rpc".
func Prefix(prefix string, options ...Option) Option {
	return func(cfg *config) error {
		middleware, outer := cfg.middleware, cfg.prefix
		defer func() { cfg.middleware, cfg.prefix = middleware, outer }()
		cfg.middleware = middleware[:len(middleware):len(middleware)]
		cfg.prefix = outer + strings.TrimSuffix(prefix, `/`)
		for _, option := range options {
			err := option(cfg)
			if err != nil {
				return err
			}
		}
		return nil
	}
}

type config struct {
	middleware []func(http.Handler) http.Handler
	prefix     string
	routes     []route
	err        error
}

type route struct {
	pattern string
	handler http.Handler
}

func (cfg *config) apply(options ...Option) {
	for _, option := range options {
		cfg.err = option(cfg)
		if cfg.err != nil {
			return
		}
	}
}

// route adds handler at pattern, inside the current prefix and middleware.
func (cfg *config) route(pattern string, handler http.Handler) error {
	if cfg.prefix != `` {
		method, path, ok := strings.Cut(pattern, ` `)
		if !ok {
			method, path = ``, pattern
		}
		i := strings.Index(path, `/`)
		if i < 0 {
			return fmt.Errorf(`pattern %q has no path to prefix`, pattern)
		}
		pattern = strings.TrimSpace(method+` `+path[:i]+cfg.prefix+path[i:])
	}
	for i := len(cfg.middleware) - 1; i >= 0; i-- {
		handler = cfg.middleware[i](handler)
	}
	cfg.routes = append(cfg.routes, route{pattern, handler})
	return nil
}

// RigMux implements hook.Mux.
func (cfg *config) RigMux(mux *http.ServeMux) {
	for _, it := range cfg.routes {
		mux.Handle(it.pattern, it.handler)
	}
}
