package bootstrap

import (
	"bytes"
	"text/template"
)

// Script renders the bootstrap sequence as a JavaScript entry point for the bundler.  The base path is assigned
// before the library script is required, since the library reads it as soon as it runs.
func Script(options ...Option) ([]byte, error) {
	cfg, err := newConfig(options...)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	err = scriptTemplate.Execute(&buf, map[string]string{
		`BaseURL`:    cfg.baseURL,
		`Library`:    cfg.library,
		`Stylesheet`: cfg.stylesheet,
		`Container`:  cfg.container,
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var scriptTemplate = template.Must(template.New(`app.js`).Parse(`window.CESIUM_BASE_URL = '{{js .BaseURL}}';
require('{{js .Library}}');
{{- if .Stylesheet}}
require('{{js .Stylesheet}}');
{{- end}}
var Cesium = window.Cesium;

var div = document.createElement('div');
div.setAttribute('id', '{{js .Container}}');
document.body.appendChild(div);

var viewer = new Cesium.Viewer('{{js .Container}}');
`))
