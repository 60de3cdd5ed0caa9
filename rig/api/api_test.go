package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/swdunlop/globe-go/rig"
)

func serve(t *testing.T, options ...Option) *httptest.Server {
	t.Helper()
	var cfg config
	cfg.apply(options...)
	if cfg.err != nil {
		t.Fatal(cfg.err)
	}
	mux := new(http.ServeMux)
	cfg.RigMux(mux)
	svr := httptest.NewServer(mux)
	t.Cleanup(svr.Close)
	return svr
}

func get(t *testing.T, url string) (*http.Response, string) {
	t.Helper()
	rsp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer rsp.Body.Close()
	body, err := io.ReadAll(rsp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return rsp, string(body)
}

func tag(value string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add(`X-Layer`, value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupScopesMiddleware(t *testing.T) {
	svr := serve(t,
		Group(
			Use(tag(`outer`)),
			Use(tag(`inner`)),
			HandleFunc(`GET /grouped`, func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, `grouped`) }),
		),
		HandleFunc(`GET /plain`, func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, `plain`) }),
	)

	rsp, body := get(t, svr.URL+`/grouped`)
	if body != `grouped` {
		t.Fatalf(`unexpected body %q`, body)
	}
	layers := rsp.Header.Values(`X-Layer`)
	if len(layers) != 2 || layers[0] != `outer` || layers[1] != `inner` {
		t.Fatalf(`expected the outer middleware to run first, got %v`, layers)
	}

	rsp, body = get(t, svr.URL+`/plain`)
	if body != `plain` || len(rsp.Header.Values(`X-Layer`)) != 0 {
		t.Fatalf(`expected middleware to stay in its group, got %q with %v`, body, rsp.Header.Values(`X-Layer`))
	}
}

func TestFS(t *testing.T) {
	svr := serve(t, FS(fstest.MapFS{`app.js`: {Data: []byte(`require('./widgets.css')`)}}, `GET /app.js`))
	_, body := get(t, svr.URL+`/app.js`)
	if body != `require('./widgets.css')` {
		t.Fatalf(`unexpected body %q`, body)
	}
}

func TestRigReportsOptionErrors(t *testing.T) {
	_, err := rig.New(Rig(FS(fstest.MapFS{})))
	if err == nil {
		t.Fatal(`expected an error for a file system without patterns`)
	}
}

func TestPrefix(t *testing.T) {
	svr := serve(t,
		Prefix(`/_rig/`,
			Use(tag(`rig`)),
			HandleFunc(`GET /rpc`, func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, `rpc`) }),
			Prefix(`/v1`, HandleFunc(`/status`, func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, `ok`) })),
		),
		HandleFunc(`GET /rpc`, func(w http.ResponseWriter, r *http.Request) { io.WriteString(w, `outside`) }),
	)
	for path, want := range map[string]string{
		`/_rig/rpc`:       `rpc`,
		`/_rig/v1/status`: `ok`,
		`/rpc`:            `outside`,
	} {
		rsp, body := get(t, svr.URL+path)
		if body != want {
			t.Fatalf(`%v: expected %q, got %q`, path, want, body)
		}
		if tagged := len(rsp.Header.Values(`X-Layer`)) > 0; tagged != (path != `/rpc`) {
			t.Fatalf(`%v: unexpected middleware layers %v`, path, rsp.Header.Values(`X-Layer`))
		}
	}
}

func TestPrefixNeedsPath(t *testing.T) {
	var cfg config
	cfg.apply(Prefix(`/_rig`, HandleFunc(`GET`, func(w http.ResponseWriter, r *http.Request) {})))
	if cfg.err == nil {
		t.Fatal(`expected an error for a pattern without a path`)
	}
}
