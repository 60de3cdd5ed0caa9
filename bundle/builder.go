package bundle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	esbuild "github.com/evanw/esbuild/pkg/api"
	"github.com/google/uuid"
)

// Build runs a single build of the configuration.  The report is returned even when the build fails.
func Build(ctx context.Context, cfg *Config) (*Report, error) {
	b, err := New(cfg)
	if err != nil {
		return nil, err
	}
	defer b.Close()
	return b.Build(ctx)
}

// A Builder holds an esbuild context for a configuration so it can be rebuilt and watched.
type Builder struct {
	cfg *Config
	ctx esbuild.BuildContext

	mu     sync.Mutex
	start  time.Time
	last   *Report
	recent []*Report // most recent last, for Build to find its own report
	hooks  []func(*Report)
}

const recentReports = 8

// New validates the configuration and prepares a builder.  Nothing is built until Build or Watch is called.
func New(cfg *Config) (*Builder, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	rules, err := compileRules(cfg.Module.Loaders)
	if err != nil {
		return nil, err
	}
	b := &Builder{cfg: cfg}
	ctx, ctxErr := esbuild.Context(b.options(rules))
	if ctxErr != nil {
		msgs := formatMessages(ctxErr.Errors, esbuild.ErrorMessage)
		return nil, fmt.Errorf(`esbuild failed to start: %s`, strings.Join(msgs, ``))
	}
	b.ctx = ctx
	return b, nil
}

// Config returns the configuration of the builder.
func (b *Builder) Config() *Config { return b.cfg }

func (b *Builder) options(rules []rule) esbuild.BuildOptions {
	cfg := b.cfg
	level := esbuild.LogLevelWarning
	if !cfg.Module.UnknownContextCritical {
		level = esbuild.LogLevelSilent
	}
	opts := esbuild.BuildOptions{
		AbsWorkingDir: cfg.Abs(`.`),
		EntryPoints:   []string{cfg.Abs(cfg.Entry)},
		Outfile:       cfg.Outfile(),
		PublicPath:    cfg.Output.PublicPath,
		Bundle:        true,
		Write:         false,
		Platform:      esbuild.PlatformBrowser,
		Format:        esbuild.FormatIIFE,
		LogLevel:      esbuild.LogLevelSilent, // messages are reported by the builder.
		LogOverride: map[string]esbuild.LogLevel{
			`unsupported-require-call`:   level,
			`unsupported-dynamic-import`: level,
			`indirect-require`:           level,
		},
		Plugins: []esbuild.Plugin{
			loaderPlugin(rules),
			{Name: `globe-emit`, Setup: b.setupEmit},
		},
	}
	if route := cfg.DevServer.LiveReload; route != `` {
		opts.Banner = map[string]string{`js`: reloadSnippet(route)}
	}
	return opts
}

func reloadSnippet(route string) string {
	return `(function(){if(typeof EventSource==="undefined")return;` +
		`new EventSource(` + jsString(route) + `).addEventListener("build",function(){location.reload();});})();`
}

// OnReport adds a function that is called with the report of every build, including those triggered by Watch.
func (b *Builder) OnReport(fn func(*Report)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, fn)
}

// Last returns the report of the most recent build, or nil.
func (b *Builder) Last() *Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.last
}

// Build rebuilds the bundle and writes its outputs.  Cancelling the context cancels the build.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	done := make(chan struct{})
	var result esbuild.BuildResult
	go func() {
		defer close(done)
		result = b.ctx.Rebuild()
	}()
	select {
	case <-done:
	case <-ctx.Done():
		b.ctx.Cancel()
		<-done
		return nil, ctx.Err()
	}
	report := b.find(result.Metafile)
	if report == nil {
		return nil, fmt.Errorf(`esbuild produced no result`)
	}
	return report, report.Err()
}

// find returns a recent report by id.  A watch may have replaced the last report by the time Build looks.
func (b *Builder) find(id string) *Report {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := len(b.recent) - 1; i >= 0; i-- {
		if b.recent[i].ID.String() == id {
			return b.recent[i]
		}
	}
	return nil
}

// Watch rebuilds the bundle whenever one of its inputs changes until Close is called.
func (b *Builder) Watch() error {
	return b.ctx.Watch(esbuild.WatchOptions{})
}

// Close releases the esbuild context, stopping any watch.
func (b *Builder) Close() {
	b.ctx.Dispose()
}

func (b *Builder) setupEmit(build esbuild.PluginBuild) {
	build.OnStart(func() (esbuild.OnStartResult, error) {
		b.mu.Lock()
		b.start = time.Now()
		b.mu.Unlock()
		return esbuild.OnStartResult{}, nil
	})
	build.OnEnd(func(result *esbuild.BuildResult) (esbuild.OnEndResult, error) {
		b.mu.Lock()
		report := &Report{ID: uuid.New(), Start: b.start}
		b.mu.Unlock()

		report.Errors = formatMessages(result.Errors, esbuild.ErrorMessage)
		report.Warnings = formatMessages(result.Warnings, esbuild.WarningMessage)
		if len(result.Errors) == 0 {
			err := b.emit(result.OutputFiles, report)
			if err != nil {
				report.Errors = append(report.Errors, err.Error())
			}
		}
		report.Duration = time.Since(report.Start)
		// Rebuild returns the result seen here, so the unused metafile carries the report id back to Build.
		result.Metafile = report.ID.String()

		b.mu.Lock()
		b.last = report
		b.recent = append(b.recent, report)
		if len(b.recent) > recentReports {
			b.recent = b.recent[len(b.recent)-recentReports:]
		}
		hooks := b.hooks
		b.mu.Unlock()
		for _, fn := range hooks {
			fn(report)
		}
		return esbuild.OnEndResult{}, nil
	})
}

// emit writes the output files of a build, followed by the page of the HTML plugin.
func (b *Builder) emit(files []esbuild.OutputFile, report *Report) error {
	cfg := b.cfg
	outdir := cfg.Abs(cfg.Output.Path)
	var scripts, stylesheets []string
	for _, file := range files {
		err := b.write(file.Path, file.Contents, report)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(outdir, file.Path)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		switch filepath.Ext(file.Path) {
		case `.js`:
			scripts = append(scripts, rel)
		case `.css`:
			stylesheets = append(stylesheets, rel)
		}
	}
	if cfg.Plugins.HTML == nil {
		return nil
	}
	html, err := cfg.renderPage(scripts, stylesheets)
	if err != nil {
		return err
	}
	return b.write(filepath.Join(outdir, cfg.Plugins.HTML.Filename), html, report)
}

func (b *Builder) write(path string, data []byte, report *Report) error {
	err := os.MkdirAll(filepath.Dir(path), 0o755)
	if err != nil {
		return err
	}
	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(b.cfg.Abs(`.`), path)
	if err != nil {
		rel = path
	}
	report.Files = append(report.Files, File{Path: filepath.ToSlash(rel), Size: int64(len(data))})
	return nil
}
