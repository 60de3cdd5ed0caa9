// Package www serves the built page and its assets from a content directory.
package www

import (
	"context"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/hook"
)

// Rig returns a rig option that configures a rig to serve static files from the given directory.  The files will have
// an entity tag associated with them that is invalidated when the file changes.
func Rig(dir string) rig.Option {
	return func(r *rig.Config) error {
		r.Hook(&server{dir: dir})
		return nil
	}
}

// Handler returns a handler that serves files from dir with weak entity tags and no-cache revalidation.
func Handler(dir string) http.Handler {
	return &server{dir: dir}
}

type server struct {
	dir string
}

var (
	_ hook.Mux       = (*server)(nil)
	_ hook.Start     = (*server)(nil)
	_ hook.Dependent = (*server)(nil)
)

// DependsOn makes the content directory wait for the bundler, which may be what creates it.
func (svr *server) DependsOn() []string { return []string{`esbuild`} }

func (svr *server) RigStart(ctx context.Context) error {
	return os.MkdirAll(svr.dir, 0o755)
}

func (svr *server) RigMux(mux *http.ServeMux) {
	mux.Handle(`GET /`, svr)
}

func (svr *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := path.Clean(`/` + r.URL.Path)
	if strings.HasSuffix(name, `/`) {
		name += `index.html`
	}
	info, err := os.Stat(filepath.Join(svr.dir, filepath.FromSlash(name)))
	if err == nil && info.IsDir() {
		info, err = os.Stat(filepath.Join(svr.dir, filepath.FromSlash(name), `index.html`))
	}
	if err == nil {
		w.Header().Set(`ETag`, etag(info))
	}
	w.Header().Set(`Cache-Control`, `no-cache`)
	http.FileServer(http.Dir(svr.dir)).ServeHTTP(w, r)
}

func etag(info os.FileInfo) string {
	return `W/"` + strconv.FormatInt(info.Size(), 16) + `-` + strconv.FormatInt(info.ModTime().UnixNano(), 16) + `"`
}
