package bundle

import (
	"fmt"
	"strings"
)

// Presets lists the names accepted by Preset.
var Presets = []string{`default`, `relaxed`, `source`}

// Preset returns a fresh copy of a named configuration.  The empty name is the same as "default".
//
//   - default bundles app.js into public/bundle.js, inlines stylesheets through "style!css" and emits images as files.
//   - relaxed is default with unknown require contexts tolerated and an explicitly empty public path.
//   - source is default plus the "script" loader for Cesium.js and a generated index.html from an index.html template,
//     for pages built against the unminified library sources.
func Preset(name string) (*Config, error) {
	cfg := &Config{
		Entry: `./app.js`,
		Output: Output{
			Path:     `public`,
			Filename: `bundle.js`,
		},
		DevServer: DevServer{
			ContentBase: `./public`,
		},
		Module: Module{
			Loaders: []Rule{
				{Test: `\.css$`, Loader: `style!css`},
				{Test: `\.(png|gif|jpg|jpeg)$`, Loader: `file-loader`},
			},
			UnknownContextCritical: true,
		},
	}
	switch name {
	case ``, `default`:
	case `relaxed`:
		cfg.Module.UnknownContextCritical = false
		cfg.Output.PublicPath = ``
	case `source`:
		cfg.Module.Loaders = append(cfg.Module.Loaders, Rule{Test: `Cesium\.js$`, Loader: `script`})
		cfg.Plugins.HTML = &HTMLPlugin{Template: `index.html`, Inject: InjectBody}
	default:
		return nil, fmt.Errorf(`unknown preset %q, expected one of %s`, name, strings.Join(Presets, `, `))
	}
	cfg.Extends = name
	cfg.applyDefaults()
	return cfg, nil
}
