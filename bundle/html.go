package bundle

import (
	"fmt"
	"os"

	"github.com/swdunlop/globe-go/page"
)

// renderPage produces the page of the HTML plugin, loading the given scripts and stylesheets.  These are URLs relative
// to the output directory and are prefixed with the public path.
func (cfg *Config) renderPage(scripts, stylesheets []string) ([]byte, error) {
	plugin := cfg.Plugins.HTML
	var doc *page.HTML
	if plugin.Template == `` {
		doc = page.Blank()
		if plugin.Title != `` {
			title := doc.CreateElement(`title`).(*page.Node)
			title.SetText(plugin.Title)
			doc.Head().AppendChild(title)
		}
	} else {
		f, err := os.Open(cfg.Abs(plugin.Template))
		if err != nil {
			return nil, fmt.Errorf(`%w while reading the HTML template`, err)
		}
		defer f.Close()
		doc, err = page.Parse(f)
		if err != nil {
			return nil, err
		}
	}

	if plugin.Inject != InjectNone {
		for _, href := range stylesheets {
			link := doc.CreateElement(`link`)
			link.SetAttribute(`href`, cfg.publicURL(href))
			link.SetAttribute(`rel`, `stylesheet`)
			doc.Head().AppendChild(link)
		}
		target := doc.Body()
		if plugin.Inject == InjectHead {
			target = doc.Head()
		}
		for _, src := range scripts {
			script := doc.CreateElement(`script`)
			script.SetAttribute(`type`, `text/javascript`)
			script.SetAttribute(`src`, cfg.publicURL(src))
			target.AppendChild(script)
		}
	}
	return doc.Bytes()
}

// publicURL prefixes rel with the public path verbatim, so the public path normally ends with a slash.
func (cfg *Config) publicURL(rel string) string {
	return cfg.Output.PublicPath + rel
}
