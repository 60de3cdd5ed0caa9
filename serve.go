package main

import (
	"context"
	"errors"
	"path/filepath"
	"sync/atomic"

	"github.com/swdunlop/globe-go/bundle"
	"github.com/swdunlop/globe-go/internal/devrpc"
	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/api"
	"github.com/swdunlop/globe-go/rig/esbuild"
	"github.com/swdunlop/globe-go/rig/local"
	"github.com/swdunlop/globe-go/rig/tailscale"
	"github.com/swdunlop/globe-go/rig/www"
	"github.com/swdunlop/html-go/hog"
	"github.com/swdunlop/zugzug-go"
	"github.com/swdunlop/zugzug-go/zug/parser"
	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"
)

// rigPrefix holds the development routes of serve, next to rig.BuildRoute.
const rigPrefix = `/_rig`

func init() {
	tasks = append(tasks, zugzug.Tasks{
		{Name: "serve", Use: "Builds the globe, serves it and rebuilds it when its sources change", Fn: runServe,
			Parser: parser.New(
				parser.String(&configFile, "config", "c", "The build configuration (default: globe.yaml, or the default preset)"),
			), Settings: zugzug.Settings{
				{Var: &listen.network, Name: `LISTEN_NETWORK`,
					Use: "Listening network for the address (default: \"tcp\" if Tailscale not used)"},
				{Var: &listen.address, Name: `LISTEN_ADDRESS`,
					Use: "Listening address for the service  (default: localhost:8080 if TCP used)"},

				{Var: &listen.tailscaleHostname, Name: `TAILSCALE_HOSTNAME`,
					Use: "Specifies the hostname on your Tailscale network"},
				{Var: &listen.tailscaleFunnel, Name: `TAILSCALE_FUNNEL`,
					Use: "Enables internet access via a Tailscale funnel"},
				{Var: &listen.tailscaleListen, Name: `TAILSCALE_LISTEN`,
					Use: "Listening address for clients from your Tailscale network (default: \":443\" or \":80\")"},
				{Var: &listen.tailscaleDir, Name: `TAILSCALE_DIR`,
					Use: "State directory for Tailscale"},
				{Var: &listen.tailscaleEphemeral, Name: `TAILSCALE_EPHEMERAL`,
					Use: "Removes the node from your Tailscale network once serve stops"},
				{Var: &listen.noTailscaleTLS, Name: `NO_TAILSCALE_TLS`,
					Use: "Disables TLS for Tailscale"},
			}},
	}...)
}

func runServe(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.DevServer.LiveReload = rig.BuildRoute
	b, err := bundle.New(cfg)
	if err != nil {
		return err
	}

	contentBase := cfg.Abs(cfg.DevServer.ContentBase)
	options := []rig.Option{
		esbuild.Rig(b),
		www.Rig(contentBase),
		api.Rig(api.Prefix(rigPrefix, devrpc.API(`GET /rpc`, b))),
	}
	if outdir := cfg.Abs(cfg.Output.Path); filepath.Clean(outdir) != filepath.Clean(contentBase) {
		// pages in the content base are not written by the bundler, so they need their own watch.
		options = append(options, func(r *rig.Config) error {
			return r.Watch(contentBase, esbuild.Patterns...)
		})
	}

	listeners, err := listen.options(ctx)
	if err != nil {
		b.Close()
		return err
	}
	return rig.Serve(ctx, append(options, listeners...)...)
}

// listening holds the settings that choose where serve listens.  Tailscale is used once any of its settings is
// given, and a local socket is used if a network is given or Tailscale is not.
type listening struct {
	network string
	address string

	tailscaleFunnel    bool
	tailscaleHostname  string
	tailscaleListen    string
	tailscaleDir       string
	tailscaleEphemeral bool
	noTailscaleTLS     bool
}

func (ls listening) usesTailscale() bool {
	return ls.tailscaleFunnel || ls.tailscaleListen != `` || ls.tailscaleHostname != `` || ls.tailscaleEphemeral
}

func (ls listening) options(ctx context.Context) ([]rig.Option, error) {
	var options []rig.Option
	if ls.usesTailscale() {
		option, err := ls.tailscale(ctx)
		if err != nil {
			return nil, err
		}
		options = append(options, option)
	} else if ls.network == `` {
		ls.network = `tcp`
	}
	if ls.network == `` {
		return options, nil
	}
	if ls.address == `` {
		if ls.network != `tcp` {
			return nil, errors.New(`LISTEN_ADDRESS must be specified for LISTEN_NETWORK other than "tcp"`)
		}
		ls.address = `localhost:8080`
	}
	return append(options, local.Rig(local.Listen(ls.network, ls.address))), nil
}

func (ls listening) tailscale(ctx context.Context) (rig.Option, error) {
	var options []tailscale.Option
	address := ls.tailscaleListen
	switch {
	case ls.tailscaleFunnel && ls.noTailscaleTLS:
		return nil, errors.New(`TAILSCALE_FUNNEL cannot be combined with NO_TAILSCALE_TLS`)
	case ls.tailscaleFunnel && address != ``:
		return nil, errors.New(`TAILSCALE_FUNNEL cannot be combined with TAILSCALE_LISTEN`)
	case ls.tailscaleFunnel:
		options = append(options, tailscale.Funnel())
	case ls.noTailscaleTLS:
		options = append(options, tailscale.NoTLS())
	}
	if address == `` {
		address = `:443`
		if ls.noTailscaleTLS {
			address = `:80`
		}
	}
	if ls.tailscaleHostname != `` {
		options = append(options, tailscale.Hostname(ls.tailscaleHostname))
	}
	if ls.tailscaleDir != `` {
		options = append(options, tailscale.Dir(ls.tailscaleDir))
	}
	if ls.tailscaleEphemeral {
		options = append(options, tailscale.Ephemeral())
	}

	log := hog.From(ctx)
	var quiet atomic.Bool // tailscale is chatty until it is up.
	options = append(options,
		tailscale.Logf(func(format string, args ...any) {
			if !quiet.Load() {
				log.Debug().Msgf(format, args...)
			}
		}),
		tailscale.HookUp(func(_ *tsnet.Server, status *ipnstate.Status) error {
			quiet.Store(true)
			if status.Self != nil {
				log.Info().Str(`name`, status.Self.DNSName).Msg(`connected to Tailscale`)
			}
			return nil
		}),
	)
	return tailscale.Rig(address, options...), nil
}

var (
	configFile string
	listen     listening
)
