// Package hook defines the interfaces a rig looks for in its hooks.  A hook implements any of them, and a rig calls
// each in turn: Start hooks when it starts, then Mux and Server hooks while building its server, then Listen hooks.
package hook

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
)

// Listen hooks provide the listener a rig serves on.  A rig serves on every Listen hook it has been given.
type Listen interface {
	Listen(ctx context.Context) (net.Listener, error)
}

// Start hooks are called, in dependency order, before a rig starts listening.  Returning an error aborts the rig.
type Start interface {
	RigStart(ctx context.Context) error
}

// Server hooks are called when the rig is setting up a new HTTP server.
type Server interface {
	RigServer(*http.Server)
}

// Mux hooks are called when the rig is setting up a new HTTP multiplexer.
type Mux interface {
	RigMux(*http.ServeMux)
}

// Order returns hooks in the order given, except that each Dependent comes after the hooks that provide what it
// depends on.  Depending on a name that nothing provides is allowed; a cycle is an error.
func Order(hooks ...any) ([]any, error) {
	providers := make(map[string][]int, len(hooks))
	for i, it := range hooks {
		if p, ok := it.(Provider); ok {
			for _, name := range p.Provides() {
				providers[name] = append(providers[name], i)
			}
		}
	}
	const (
		unvisited = iota
		visiting
		placed
	)
	state := make([]int, len(hooks))
	order := make([]any, 0, len(hooks))
	var visit func(i int, via string) error
	visit = func(i int, via string) error {
		switch state[i] {
		case placed:
			return nil
		case visiting:
			return fmt.Errorf(`hooks depend on each other through %q`, via)
		}
		state[i] = visiting
		if d, ok := hooks[i].(Dependent); ok {
			for _, name := range d.DependsOn() {
				deps := append([]int(nil), providers[name]...)
				sort.Ints(deps)
				for _, j := range deps {
					err := visit(j, name)
					if err != nil {
						return err
					}
				}
			}
		}
		state[i] = placed
		order = append(order, hooks[i])
		return nil
	}
	for i := range hooks {
		err := visit(i, ``)
		if err != nil {
			return nil, err
		}
	}
	return order, nil
}

// A Provider provides a name so that it can be referenced by a Dependent.
type Provider interface {
	Provides() []string
}

// A Dependent hook will not be called until all of its dependencies have been provided.
type Dependent interface {
	DependsOn() []string
}
