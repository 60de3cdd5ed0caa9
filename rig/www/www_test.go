package www

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestServeIndexWithEntityTag(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, `index.html`), []byte(`<h1>globe</h1>`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	svr := httptest.NewServer(Handler(dir))
	defer svr.Close()

	rsp, err := http.Get(svr.URL + `/`)
	if err != nil {
		t.Fatal(err)
	}
	rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		t.Fatalf(`expected 200, got %v`, rsp.Status)
	}
	tag := rsp.Header.Get(`ETag`)
	if !strings.HasPrefix(tag, `W/"`) {
		t.Fatalf(`expected a weak entity tag, got %q`, tag)
	}
	if got := rsp.Header.Get(`Cache-Control`); got != `no-cache` {
		t.Fatalf(`expected no-cache, got %q`, got)
	}

	req, _ := http.NewRequest(`GET`, svr.URL+`/`, nil)
	req.Header.Set(`If-None-Match`, tag)
	rsp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	rsp.Body.Close()
	if rsp.StatusCode != http.StatusNotModified {
		t.Fatalf(`expected 304 for an unchanged file, got %v`, rsp.Status)
	}
}

func TestEntityTagChangesWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, `bundle.js`)
	err := os.WriteFile(path, []byte(`console.log(1)`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	before, _ := os.Stat(path)
	err = os.WriteFile(path, []byte(`console.log(12)`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	later := before.ModTime().Add(time.Second)
	err = os.Chtimes(path, later, later)
	if err != nil {
		t.Fatal(err)
	}
	after, _ := os.Stat(path)
	if etag(before) == etag(after) {
		t.Fatalf(`expected the entity tag to change, got %v twice`, etag(after))
	}
}

func TestMissingFile(t *testing.T) {
	svr := httptest.NewServer(Handler(t.TempDir()))
	defer svr.Close()
	rsp, err := http.Get(svr.URL + `/missing.js`)
	if err != nil {
		t.Fatal(err)
	}
	rsp.Body.Close()
	if rsp.StatusCode != http.StatusNotFound {
		t.Fatalf(`expected 404, got %v`, rsp.Status)
	}
	if rsp.Header.Get(`ETag`) != `` {
		t.Fatal(`expected no entity tag for a missing file`)
	}
}

func TestStartCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), `public`)
	svr := &server{dir: dir}
	err := svr.RigStart(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		t.Fatalf(`expected %v to be created`, dir)
	}
}
