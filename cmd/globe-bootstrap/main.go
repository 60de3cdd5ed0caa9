//go:build js && !wasm

// Command globe-bootstrap is the browser entry point of a globe, compiled with GopherJS.  The page must load Cesium.js
// before this script.  A failure panics into the browser's global error handler.
package main

import (
	"context"

	"github.com/swdunlop/globe-go/bootstrap"
	"github.com/swdunlop/globe-go/page"
)

func main() {
	_, err := bootstrap.Run(context.Background(), page.Window(), bootstrap.Cesium{Runtime: bootstrap.Browser()})
	if err != nil {
		panic(err)
	}
}
