//go:build !deploy

package main

import (
	"github.com/swdunlop/globe-go/bundle"
	"github.com/swdunlop/globe-go/internal/devrpc"
	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/api"
	"github.com/swdunlop/globe-go/rig/esbuild"
	"github.com/swdunlop/globe-go/rig/mrpc"
	"github.com/swdunlop/globe-go/rig/www"
)

func rigExtras() ([]rig.Option, error) {
	cfg, err := bundle.Load(bundle.DefaultFile)
	if err != nil {
		return nil, err
	}
	cfg.DevServer.LiveReload = rig.BuildRoute
	b, err := bundle.New(cfg)
	if err != nil {
		return nil, err
	}
	return []rig.Option{
		esbuild.Rig(b),
		www.Rig(cfg.Abs(cfg.DevServer.ContentBase)),
		api.Rig(
			devrpc.API(`GET /_rig/rpc`, b, mrpc.Use(traceRPC)),
		),
	}, nil
}
