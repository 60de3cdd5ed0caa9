// Package esbuild rigs a bundle builder into a rig, building before the rig listens and rebuilding whenever an input
// of the bundle changes.
package esbuild

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/swdunlop/globe-go/bundle"
	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/hook"
)

// Provides is the name of the dependency provided by the esbuild hook.
const Provides = `esbuild`

// Patterns are the output files that cause pages to reload when they change.
var Patterns = []string{`*.html`, `*.css`, `*.js`, `*.png`, `*.gif`, `*.jpg`, `*.jpeg`, `*.svg`}

// Rig returns a rig option that builds the bundle when the rig starts, then watches its inputs and rebuilds it until
// the rig stops.  The builder is closed when the rig stops.
func Rig(b *bundle.Builder, options ...Option) rig.Option {
	return func(r *rig.Config) error {
		cfg := &config{builder: b}
		for _, option := range options {
			option(cfg)
		}
		outdir := b.Config().Abs(b.Config().Output.Path)
		err := r.Watch(outdir, Patterns...)
		if err != nil {
			return err
		}
		r.Hook(cfg)
		return nil
	}
}

// An Option adjusts how the esbuild hook behaves.
type Option func(*config)

// Strict makes a failed initial build stop the rig instead of serving the last good output.
func Strict() Option {
	return func(cfg *config) { cfg.strict = true }
}

type config struct {
	builder *bundle.Builder
	strict  bool
}

var (
	_ hook.Start    = (*config)(nil)
	_ hook.Provider = (*config)(nil)
)

func (cfg *config) Provides() []string { return []string{Provides} }

func (cfg *config) RigStart(ctx context.Context) error {
	b := cfg.builder
	log := zerolog.Ctx(ctx)
	b.OnReport(func(report *bundle.Report) { logReport(log, report) })

	_, err := b.Build(ctx)
	if err != nil && (cfg.strict || ctx.Err() != nil) {
		b.Close()
		return fmt.Errorf(`%w while building %v`, err, filepath.Base(b.Config().Entry))
	}
	err = b.Watch()
	if err != nil {
		b.Close()
		return fmt.Errorf(`%w while watching for changes`, err)
	}
	go func() {
		<-ctx.Done()
		b.Close()
	}()
	return nil
}

func logReport(log *zerolog.Logger, report *bundle.Report) {
	for _, msg := range report.Warnings {
		log.Warn().Str(`id`, report.ID.String()).Msg(msg)
	}
	for _, msg := range report.Errors {
		log.Error().Str(`id`, report.ID.String()).Msg(msg)
	}
	if len(report.Errors) > 0 {
		log.Error().Object(`build`, report).Msg(`build failed`)
		return
	}
	log.Info().Object(`build`, report).Msg(`build succeeded`)
}
