// Package bundle turns a declarative build configuration into a single script bundle plus emitted assets using esbuild.
//
// The configuration has the shape of a classic webpack configuration: an entry point, an output directory and
// filename, a development server content root and an ordered list of loader rules mapping path patterns to loader
// chains such as "style!css" or "file".
package bundle

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the configuration file name looked for by the command line.
const DefaultFile = `globe.yaml`

// Config is a build configuration.
type Config struct {
	// Extends names the preset this configuration starts from; see Preset.
	Extends string `yaml:"extends,omitempty"`

	// Entry is the file the build starts traversal from.
	Entry string `yaml:"entry"`

	Output    Output    `yaml:"output"`
	DevServer DevServer `yaml:"devServer"`
	Module    Module    `yaml:"module"`
	Plugins   Plugins   `yaml:"plugins"`

	// Dir is the directory that relative paths are resolved against, normally the directory of the configuration file.
	Dir string `yaml:"-"`
}

// Output describes where the bundle is written.
type Output struct {
	Path     string `yaml:"path"`
	Filename string `yaml:"filename"`

	// PublicPath prefixes the URLs of emitted assets and of the bundle in the generated page.
	PublicPath string `yaml:"publicPath"`
}

// DevServer configures the development server.
type DevServer struct {
	// ContentBase is the directory served during development.
	ContentBase string `yaml:"contentBase"`

	// LiveReload is a server-sent event route; when set, the bundle reloads the page on each "build" event.
	LiveReload string `yaml:"liveReload,omitempty"`
}

// Module configures how modules are loaded.
type Module struct {
	Loaders []Rule `yaml:"loaders"`

	// UnknownContextCritical reports require and import calls whose targets cannot be determined at build time.
	// When false these are silently left to run time.
	UnknownContextCritical bool `yaml:"unknownContextCritical"`
}

// A Rule maps modules whose absolute path matches Test to a loader chain.
type Rule struct {
	Test   string `yaml:"test"`
	Loader string `yaml:"loader"`
}

// Plugins holds optional build plugins.
type Plugins struct {
	HTML *HTMLPlugin `yaml:"html,omitempty"`
}

// HTMLPlugin generates an HTML page that loads the bundle.
type HTMLPlugin struct {
	// Template is an HTML file to start from; a blank page is used if empty.
	Template string `yaml:"template,omitempty"`

	// Filename is the page written to the output directory.  Defaults to index.html.
	Filename string `yaml:"filename,omitempty"`

	Inject Inject `yaml:"inject"`

	// Title is used for the blank page when there is no template.
	Title string `yaml:"title,omitempty"`
}

// Inject says where the bundle script tag goes: "body" (also spelled true), "head" or "false".
type Inject string

// Injection targets.
const (
	InjectBody Inject = `body`
	InjectHead Inject = `head`
	InjectNone Inject = `false`
)

// UnmarshalYAML accepts booleans as well as the target names.
func (inj *Inject) UnmarshalYAML(node *yaml.Node) error {
	switch node.Value {
	case `true`, `body`, ``:
		*inj = InjectBody
	case `head`:
		*inj = InjectHead
	case `false`:
		*inj = InjectNone
	default:
		return fmt.Errorf(`line %d: inject must be true, false, "head" or "body", not %q`, node.Line, node.Value)
	}
	return nil
}

// Load reads a configuration file.  The file's fields override those of the preset it extends.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var head struct {
		Extends string `yaml:"extends"`
	}
	err = yaml.Unmarshal(data, &head)
	if err != nil {
		return nil, fmt.Errorf(`%w while reading %v`, err, path)
	}
	cfg, err := Preset(head.Extends)
	if err != nil {
		return nil, fmt.Errorf(`%w in %v`, err, path)
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, fmt.Errorf(`%w while reading %v`, err, path)
	}
	cfg.Dir, err = filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf(`%w in %v`, err, path)
	}
	return cfg, nil
}

// Marshal returns the configuration as YAML.
func (cfg *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(cfg)
}

func (cfg *Config) applyDefaults() {
	if cfg.Dir == `` {
		cfg.Dir = `.`
	}
	if cfg.Entry == `` {
		cfg.Entry = `./app.js`
	}
	if cfg.Output.Path == `` {
		cfg.Output.Path = `public`
	}
	if cfg.Output.Filename == `` {
		cfg.Output.Filename = `bundle.js`
	}
	if cfg.DevServer.ContentBase == `` {
		cfg.DevServer.ContentBase = cfg.Output.Path
	}
	if html := cfg.Plugins.HTML; html != nil {
		if html.Filename == `` {
			html.Filename = `index.html`
		}
		if html.Inject == `` {
			html.Inject = InjectBody
		}
	}
}

// Validate checks the configuration, including every loader rule.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Entry == ``:
		return errors.New(`no entry point specified`)
	case cfg.Output.Path == ``:
		return errors.New(`no output path specified`)
	case cfg.Output.Filename == ``:
		return errors.New(`no output filename specified`)
	}
	_, err := compileRules(cfg.Module.Loaders)
	return err
}

// Abs resolves a configured path against the configuration directory.
func (cfg *Config) Abs(path string) string {
	if !filepath.IsAbs(path) {
		path = filepath.Join(cfg.Dir, path)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// Outfile is the absolute path of the bundle.
func (cfg *Config) Outfile() string {
	return filepath.Join(cfg.Abs(cfg.Output.Path), cfg.Output.Filename)
}
