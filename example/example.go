// Command example rigs a development server for the globe in this directory.  Run it from this directory; with the
// deploy build tag it serves the embedded output of a previous build instead of building.
package main

import (
	"bytes"

	"github.com/rs/zerolog"
	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/local"
	"github.com/swdunlop/globe-go/rig/mrpc"
	"github.com/swdunlop/html-go/hog"
	"github.com/tinylib/msgp/msgp"
)

func main() {
	extras, err := rigExtras() // builds and watches the globe, or serves the embedded build with `deploy`.
	if err != nil {
		panic(err)
	}
	err = rig.Main(append([]rig.Option{
		local.Rig(
			local.TCP(`localhost:8080`),
		),
	}, extras...)...)
	if err != nil {
		panic(err)
	}
}

// traceRPC logs each RPC request, with its input as JSON when tracing is enabled.
func traceRPC(next mrpc.Handler) mrpc.Handler {
	return func(ctx *mrpc.Scope) {
		ctx.Context = hog.With(ctx, func(z zerolog.Context) zerolog.Context {
			return z.
				Str(`id`, ctx.ID).
				Str(`method`, ctx.Method).
				Str(`fn`, ctx.Function)
		})
		evt := hog.From(ctx).Trace()
		if evt.Enabled() {
			var buf bytes.Buffer
			_, err := msgp.UnmarshalAsJSON(&buf, ctx.Input)
			if err == nil && buf.Len() > 0 {
				evt = evt.RawJSON(`input`, buf.Bytes())
			}
			evt.Msg(`RPC request`)
		}
		next(ctx)
	}
}
