// Package devrpc lets tools and pages drive the bundler of a development server over an mrpc WebSocket:
//
//   - call build rebuilds the bundle and returns its report, which carries any build errors.
//   - call report returns the report of the last build, or fails with 404 if nothing has been built.
//   - start watch yields the last report and then every later report until the connection closes.
package devrpc

import (
	"context"
	"net/http"
	"sync"

	"github.com/swdunlop/globe-go/bundle"
	"github.com/swdunlop/globe-go/rig/api"
	"github.com/swdunlop/globe-go/rig/mrpc"
)

// ErrNoReport is returned by report before the first build.
var ErrNoReport error = &mrpc.Error{Code: http.StatusNotFound, Msg: `nothing has been built yet`}

// API returns an api.Option that serves the functions at route.  Options, such as mrpc.Use, are applied before the
// functions are registered.
func API(route string, b *bundle.Builder, options ...mrpc.Option) api.Option {
	svc := newService(b)
	return mrpc.API(route, append(options,
		mrpc.CallFn(`build`, func(ctx *mrpc.Scope, _ Request) (Report, error) {
			return svc.build(ctx)
		}),
		mrpc.CallFn(`report`, func(ctx *mrpc.Scope, _ Request) (Report, error) {
			return svc.report()
		}),
		mrpc.StartFn(`watch`, func(ctx *mrpc.Scope, _ Request, yield func(Report) error) error {
			return svc.watch(ctx, yield)
		}),
	)...)
}

type service struct {
	builder *bundle.Builder

	mu   sync.Mutex
	subs map[chan *bundle.Report]struct{}
}

func newService(b *bundle.Builder) *service {
	svc := &service{builder: b, subs: make(map[chan *bundle.Report]struct{})}
	b.OnReport(svc.publish)
	return svc
}

func (svc *service) build(ctx context.Context) (Report, error) {
	report, err := svc.builder.Build(ctx)
	if report == nil {
		return Report{}, err
	}
	// build failures are carried by the report.
	return reportOf(report), nil
}

func (svc *service) report() (Report, error) {
	report := svc.builder.Last()
	if report == nil {
		return Report{}, ErrNoReport
	}
	return reportOf(report), nil
}

func (svc *service) watch(ctx context.Context, yield func(Report) error) error {
	ch := make(chan *bundle.Report, 4)
	svc.mu.Lock()
	svc.subs[ch] = struct{}{}
	svc.mu.Unlock()
	defer func() {
		svc.mu.Lock()
		delete(svc.subs, ch)
		svc.mu.Unlock()
	}()

	if last := svc.builder.Last(); last != nil {
		err := yield(reportOf(last))
		if err != nil {
			return err
		}
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case report := <-ch:
			err := yield(reportOf(report))
			if err != nil {
				return err
			}
		}
	}
}

func (svc *service) publish(report *bundle.Report) {
	svc.mu.Lock()
	defer svc.mu.Unlock()
	for ch := range svc.subs {
		select {
		case ch <- report:
		default: // slow watchers miss reports rather than stall the builder.
		}
	}
}
