//go:build deploy

package main

import (
	"embed"
	"io/fs"

	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/api"
)

//go:embed public
var publicFS embed.FS

func rigExtras() ([]rig.Option, error) {
	public, err := fs.Sub(publicFS, `public`)
	if err != nil {
		return nil, err
	}
	return []rig.Option{api.Rig(
		api.FS(public, `GET /`), // becomes index.html due to screwy Go behavior.
	)}, nil
}
