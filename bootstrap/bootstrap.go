// Package bootstrap performs the one-time page setup for a globe viewer: it creates the container element, attaches it
// to the document body and constructs a single viewer bound to it.
//
// The sequence is linear and runs once per page load.  Running it twice in the same document produces two containers
// sharing one id; browsers resolve the id to the first of them.  Nothing guards against this.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/swdunlop/globe-go/page"
)

const (
	// DefaultContainer is the id of the element that hosts the viewer.
	DefaultContainer = `cesiumContainer`

	// DefaultBaseURL is where the library loads its workers and static data from, relative to the page.
	DefaultBaseURL = `./`
)

// A Library constructs viewers.  Implementations must deliver cfg.BaseURL to the library before construction since
// the library resolves its asset URLs while constructing.
type Library interface {
	NewViewer(cfg ViewerConfig) (Viewer, error)
}

// ViewerConfig is passed to a Library when constructing a viewer.
type ViewerConfig struct {
	Container string // id of an element attached to the document
	BaseURL   string // asset base path of the library
}

// A Viewer is an opaque handle returned by a Library.
type Viewer any

// Run creates the container element, appends it to the body of doc and constructs a viewer bound to it.  An error from
// the library, normally because the container id did not resolve to an attached element, is returned without retry.
func Run(ctx context.Context, doc page.Document, lib Library, options ...Option) (Viewer, error) {
	cfg, err := newConfig(options...)
	if err != nil {
		return nil, err
	}

	body := doc.Body()
	if body == nil {
		return nil, errors.New(`document has no body`)
	}
	div := doc.CreateElement(`div`)
	div.SetAttribute(`id`, cfg.container)
	body.AppendChild(div)

	zerolog.Ctx(ctx).Debug().
		Str(`container`, cfg.container).
		Str(`base_url`, cfg.baseURL).
		Msg(`requiring cesium`)
	viewer, err := lib.NewViewer(ViewerConfig{Container: cfg.container, BaseURL: cfg.baseURL})
	if err != nil {
		return nil, fmt.Errorf(`%w while constructing viewer in #%s`, err, cfg.container)
	}
	return viewer, nil
}

// An Option adjusts the bootstrap sequence.
type Option func(*config) error

// BaseURL sets the asset base path handed to the library.  Defaults to DefaultBaseURL.
func BaseURL(url string) Option {
	return func(cfg *config) error {
		cfg.baseURL = url
		return nil
	}
}

// Container sets the id of the container element.  Defaults to DefaultContainer.
func Container(id string) Option {
	return func(cfg *config) error {
		if id == `` {
			return errors.New(`container id must not be empty`)
		}
		cfg.container = id
		return nil
	}
}

// LibraryScript sets the import path of the library script used by Script.
func LibraryScript(path string) Option {
	return func(cfg *config) error {
		cfg.library = path
		return nil
	}
}

// Stylesheet sets the import path of the widget stylesheet used by Script.  An empty path omits the import.
func Stylesheet(path string) Option {
	return func(cfg *config) error {
		cfg.stylesheet = path
		return nil
	}
}

type config struct {
	baseURL    string
	container  string
	library    string
	stylesheet string
}

func newConfig(options ...Option) (*config, error) {
	cfg := &config{
		baseURL:    DefaultBaseURL,
		container:  DefaultContainer,
		library:    `script!./lib/CesiumUnminified/Cesium.js`,
		stylesheet: `./lib/Cesium/Widgets/widgets.css`,
	}
	for _, option := range options {
		err := option(cfg)
		if err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
