package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/swdunlop/globe-go/bootstrap"
	"github.com/swdunlop/globe-go/bundle"
	"github.com/swdunlop/globe-go/page"
	"github.com/swdunlop/html-go/hog"
	"github.com/swdunlop/zugzug-go"
	"github.com/swdunlop/zugzug-go/zug/parser"
)

func init() {
	tasks = append(tasks, zugzug.Tasks{
		{Name: "init", Use: "Writes app.js, index.html and globe.yaml for a new globe", Fn: runInit, Parser: parser.New(
			parser.String(&initDir, "dir", "d", "The directory of the new globe (default: the current directory)"),
			parser.String(&initBaseURL, "base-url", "b", "The base URL Cesium loads its assets from (default: \"./\")"),
		)},
	}...)
}

var (
	initDir     string
	initBaseURL string
)

func runInit(ctx context.Context) error {
	dir := initDir
	if dir == `` {
		dir = `.`
	}
	var options []bootstrap.Option
	if initBaseURL != `` {
		options = append(options, bootstrap.BaseURL(initBaseURL))
	}
	script, err := bootstrap.Script(options...)
	if err != nil {
		return err
	}
	index, err := indexPage(`Globe`)
	if err != nil {
		return err
	}
	cfg, err := bundle.Preset(`source`)
	if err != nil {
		return err
	}
	settings, err := cfg.Marshal()
	if err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
	}{
		{`app.js`, script},
		{`index.html`, index},
		{bundle.DefaultFile, settings},
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf(`%v already exists`, path)
		}
	}
	err = os.MkdirAll(dir, 0o755)
	if err != nil {
		return err
	}
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		err = os.WriteFile(path, f.data, 0o644)
		if err != nil {
			return fmt.Errorf(`%w while writing %v`, err, path)
		}
		hog.From(ctx).Info().Str(`path`, path).Msg(`wrote`)
	}
	hog.From(ctx).Info().Str(`dir`, filepath.Join(dir, `lib`)).Msg(`copy the Cesium and CesiumUnminified builds here`)
	return nil
}

// indexPage is the template of the source preset: a page whose container fills the window.
func indexPage(title string) ([]byte, error) {
	doc := page.Blank()
	head := doc.Head().(*page.Node)
	for _, it := range []struct{ tag, text string }{
		{`title`, title},
		{`style`, `html, body, #` + bootstrap.DefaultContainer + ` { width: 100%; height: 100%; margin: 0; padding: 0; overflow: hidden; }`},
	} {
		el := doc.CreateElement(it.tag).(*page.Node)
		el.SetText(it.text)
		head.AppendChild(el)
	}
	return doc.Bytes()
}
