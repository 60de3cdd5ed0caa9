package main

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/swdunlop/globe-go/bundle"
	"github.com/swdunlop/html-go/hog"
	"github.com/swdunlop/zugzug-go"
	"github.com/swdunlop/zugzug-go/zug/parser"
)

func init() {
	tasks = append(tasks, zugzug.Tasks{
		{Name: "build", Use: "Builds the globe once", Fn: runBuild, Parser: parser.New(
			parser.String(&configFile, "config", "c", "The build configuration (default: globe.yaml, or the default preset)"),
		)},
	}...)
}

func runBuild(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	report, err := bundle.Build(ctx, cfg)
	if report == nil {
		return err
	}
	log := hog.From(ctx)
	for _, msg := range report.Warnings {
		log.Warn().Msg(msg)
	}
	for _, f := range report.Files {
		log.Info().Str(`path`, f.Path).Str(`size`, humanize.Bytes(uint64(f.Size))).Msg(`wrote`)
	}
	if err != nil {
		return err
	}
	log.Info().Object(`build`, report).Msg(`build succeeded`)
	return nil
}

// loadConfig loads the configured build file; without one, globe.yaml is used if present, otherwise the default
// preset in the current directory.
func loadConfig() (*bundle.Config, error) {
	if configFile != `` {
		return bundle.Load(configFile)
	}
	cfg, err := bundle.Load(bundle.DefaultFile)
	if errors.Is(err, fs.ErrNotExist) {
		cfg, err = bundle.Preset(`default`)
		if err != nil {
			return nil, err
		}
		cfg.Dir, err = os.Getwd()
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}
