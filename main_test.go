package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	initDir, initBaseURL, configFile = dir, ``, ``
	t.Cleanup(func() { initDir, configFile = ``, `` })

	err := runInit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	for name, content := range map[string]string{
		`lib/CesiumUnminified/Cesium.js`: "var Cesium = { Viewer: function(id){ this.id = id; } };\n",
		`lib/Cesium/Widgets/widgets.css`: ".cesium-widget { width: 100%; }\n",
	} {
		path := filepath.Join(dir, filepath.FromSlash(name))
		err = os.MkdirAll(filepath.Dir(path), 0o755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(path, []byte(content), 0o644)
		if err != nil {
			t.Fatal(err)
		}
	}

	configFile = filepath.Join(dir, `globe.yaml`)
	err = runBuild(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	bundle, err := os.ReadFile(filepath.Join(dir, `public`, `bundle.js`))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`CESIUM_BASE_URL`, `(0, eval)(`, `.cesium-widget`, `cesiumContainer`} {
		if !strings.Contains(string(bundle), want) {
			t.Fatalf(`expected %q in the bundle`, want)
		}
	}
	index, err := os.ReadFile(filepath.Join(dir, `public`, `index.html`))
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`<title>Globe</title>`, `#cesiumContainer`, `src="bundle.js"`} {
		if !strings.Contains(string(index), want) {
			t.Fatalf(`expected %q in the page:\n%s`, want, index)
		}
	}
}

func TestInitRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	initDir = dir
	t.Cleanup(func() { initDir = `` })
	err := os.WriteFile(filepath.Join(dir, `app.js`), []byte(`// mine`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	err = runInit(context.Background())
	if err == nil || !strings.Contains(err.Error(), `already exists`) {
		t.Fatalf(`expected an error about app.js, got %v`, err)
	}
	data, _ := os.ReadFile(filepath.Join(dir, `app.js`))
	if string(data) != `// mine` {
		t.Fatal(`app.js was overwritten`)
	}
}
