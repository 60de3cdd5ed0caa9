// Package mrpc serves functions over a WebSocket using MessagePack.  A client either calls a function for a single
// output or starts one that streams outputs until it ends, and may keep any number of requests in flight on one
// connection.
package mrpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/swdunlop/globe-go/rig/api"
	"github.com/swdunlop/globe-go/rig/mrpc/internal/protocol"
	"github.com/swdunlop/html-go/hog"
	"github.com/tinylib/msgp/msgp"
	"nhooyr.io/websocket"
)

// API returns an api.Option that serves the functions registered by options at route.
func API(route string, options ...Option) api.Option {
	return api.Handle(route, Handle(options...))
}

// Handle returns an http.Handler that upgrades each request to a WebSocket and serves requests from it until it
// closes.
func Handle(options ...Option) http.Handler {
	srv := &server{readLimit: -1, routes: make(map[route]Handler)}
	srv.handler = srv.dispatch
	for _, opt := range options {
		opt(srv)
	}
	return srv
}

// An Option configures the functions and middleware of a Handle.
type Option func(*server)

// ReadLimit limits the size of a request message in bytes.  The default of -1 imposes no limit.
func ReadLimit(limit int64) Option {
	return func(srv *server) { srv.readLimit = limit }
}

// Use wraps every request in middleware.  Middleware added later sees requests first.
func Use(fn func(Handler) Handler) Option {
	return func(srv *server) { srv.handler = fn(srv.handler) }
}

// A Handler handles one request, responding through its Scope.
type Handler func(*Scope)

// An Error fails a request with a status code.  Functions that fail with any other error fail with 500.
type Error struct {
	Code int
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

// Errorf returns an Error with the given status code.
func Errorf(code int, format string, args ...any) error {
	return &Error{Code: code, Msg: fmt.Sprintf(format, args...)}
}

func failure(err error) (int, string) {
	var e *Error
	if errors.As(err, &e) {
		return e.Code, e.Msg
	}
	return http.StatusInternalServerError, err.Error()
}

// For returns the scope of a request whose responses are passed to send.  Servers create scopes themselves; this is
// mostly useful for testing handlers.
func For(ctx context.Context, req protocol.Request, send func(bin []byte) error) *Scope {
	scope := &Scope{Request: req, send: send}
	scope.Context = context.WithValue(ctx, ctxKey{}, scope)
	return scope
}

// From returns the scope of the request that ctx was derived from, or nil.
func From(ctx context.Context) *Scope {
	scope, _ := ctx.Value(ctxKey{}).(*Scope)
	return scope
}

type ctxKey struct{}

// A Scope is the context of a request.  It is done when the connection closes.
type Scope struct {
	context.Context
	protocol.Request
	send func(bin []byte) error
}

// Succ answers a call with its output.
func (ctx *Scope) Succ(output msgp.MarshalSizer) error { return ctx.Respond(protocol.Succ, output) }

// Yield streams one output of a started function.
func (ctx *Scope) Yield(output msgp.MarshalSizer) error { return ctx.Respond(protocol.Yield, output) }

// End closes the stream of a started function.  Nothing more may be sent.
func (ctx *Scope) End() error {
	err := ctx.Respond(protocol.End, nil)
	ctx.send = nil
	return err
}

// Fail fails the request.  Nothing more may be sent.
func (ctx *Scope) Fail(code int, msg string) error {
	err := ctx.Respond(protocol.Failed, protocol.Fail{Code: code, Msg: msg})
	ctx.send = nil
	return err
}

// Respond sends a response with the given method and output.  Handlers should prefer Succ, Yield, End and Fail.
func (ctx *Scope) Respond(method string, output msgp.MarshalSizer) error {
	if ctx.send == nil {
		return fmt.Errorf(`request %q has already ended`, ctx.ID)
	}
	rs := protocol.Response{ID: ctx.ID, Method: method, Output: output}
	bin, err := rs.MarshalMsg(make([]byte, 0, rs.Msgsize()))
	if err != nil {
		return fmt.Errorf(`%w while encoding %v response`, err, method)
	}
	return ctx.send(bin)
}

type route struct{ method, function string }

type server struct {
	handler   Handler
	readLimit int64
	routes    map[route]Handler
}

// ServeHTTP implements http.Handler.
func (srv *server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		// Accept has already answered the request.
		hog.For(r).Warn().Err(err).Msg(`MRPC upgrade failed`)
		return
	}
	c.SetReadLimit(srv.readLimit)
	s := session{conn: c, handler: srv.handler}
	err = s.serve(r.Context())
	if err != nil {
		hog.For(r).Error().Err(err).Msg(`MRPC error`)
	}
}

func (srv *server) dispatch(ctx *Scope) {
	fn := srv.routes[route{ctx.Method, ctx.Function}]
	switch {
	case fn != nil:
		fn(ctx)
	case ctx.Method != protocol.Call && ctx.Method != protocol.Start:
		_ = ctx.Fail(http.StatusNotFound, fmt.Sprintf(`method %q not found`, ctx.Method))
	default:
		_ = ctx.Fail(http.StatusNotFound, fmt.Sprintf(`function %q not found`, ctx.Function))
	}
}

// A session serves the requests of one connection, each in its own goroutine.
type session struct {
	conn    *websocket.Conn
	handler Handler
	pending sync.WaitGroup
}

func (s *session) serve(ctx context.Context) error {
	defer func() { _ = s.conn.CloseNow() }()
	defer s.pending.Wait()
	// started functions run until this is cancelled, so it must happen before the wait.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	send := func(bin []byte) error {
		return s.conn.Write(ctx, websocket.MessageBinary, bin)
	}
	for {
		req, err := s.read(ctx)
		switch {
		case websocket.CloseStatus(err) >= 0:
			return nil
		case err != nil:
			return err
		case req == nil:
			continue
		}
		s.pending.Add(1)
		go func() {
			defer s.pending.Done()
			s.handler(For(ctx, *req, send))
		}()
	}
}

// read returns the next request, or nil if the next message is not binary.
func (s *session) read(ctx context.Context) (*protocol.Request, error) {
	mt, bin, err := s.conn.Read(ctx)
	if err != nil || mt != websocket.MessageBinary {
		return nil, err
	}
	var req protocol.Request
	_, err = req.UnmarshalMsg(bin)
	if err != nil {
		return nil, fmt.Errorf(`%w while decoding request`, err)
	}
	return &req, nil
}

// Input is satisfied by a pointer to a type that is decoded from a request.
type Input[T any] interface {
	*T
	msgp.Unmarshaler
}

// Output is satisfied by a pointer to a type that is encoded into a response.
type Output[T any] interface {
	*T
	msgp.MarshalSizer
}

func decode[I any, PI Input[I]](ctx *Scope) (I, bool) {
	var in I
	_, err := PI(&in).UnmarshalMsg(ctx.Input)
	if err != nil {
		_ = ctx.Fail(http.StatusNotAcceptable, fmt.Sprintf(`%v while decoding input`, err))
		return in, false
	}
	return in, true
}

// CallFn registers fn to answer calls to function with its output.  An input that cannot be decoded fails with 406.
func CallFn[I any, PI Input[I], O any, PO Output[O]](function string, fn func(*Scope, I) (O, error)) Option {
	return func(srv *server) {
		srv.routes[route{protocol.Call, function}] = func(ctx *Scope) {
			in, ok := decode[I, PI](ctx)
			if !ok {
				return
			}
			out, err := fn(ctx, in)
			if err != nil {
				_ = ctx.Fail(failure(err))
				return
			}
			_ = ctx.Succ(PO(&out))
		}
	}
}

// StartFn registers fn to stream outputs through yield when function is started.  The stream ends when fn returns,
// with a failure if it returns an error.  fn should return once ctx is done.
func StartFn[I any, PI Input[I], O any, PO Output[O]](function string, fn func(ctx *Scope, in I, yield func(O) error) error) Option {
	return func(srv *server) {
		srv.routes[route{protocol.Start, function}] = func(ctx *Scope) {
			in, ok := decode[I, PI](ctx)
			if !ok {
				return
			}
			err := fn(ctx, in, func(out O) error { return ctx.Yield(PO(&out)) })
			if err != nil {
				_ = ctx.Fail(failure(err))
				return
			}
			_ = ctx.End()
		}
	}
}
