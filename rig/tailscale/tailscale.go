// Package tailscale serves a rig on a Tailscale network, so a globe under development can be viewed from other
// devices on the tailnet.
package tailscale

import (
	"context"
	"errors"
	"fmt"
	"net"

	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/hook"
	"tailscale.com/ipn/ipnstate"
	"tailscale.com/tsnet"
)

// Rig returns a rig.Option that joins the tailnet as a node and serves on address, such as ":443", of that node.
func Rig(address string, options ...Option) rig.Option {
	return func(r *rig.Config) error {
		n := &node{address: address}
		for _, option := range options {
			err := option(n)
			if err != nil {
				return err
			}
		}
		switch {
		case n.address == ``:
			return errors.New(`a Tailscale listener requires an address`)
		case n.funnel && n.plain:
			return errors.New(`funnels are required to use TLS by Tailscale`)
		}
		r.Hook(n)
		return nil
	}
}

// An Option configures the Tailscale node of a rig.
type Option func(*node) error

// Dir keeps the state of the node in dir, so it keeps its identity between runs.
func Dir(dir string) Option {
	return func(n *node) error {
		n.srv.Dir = dir
		return nil
	}
}

// Hostname names the node on the tailnet.  Defaults to the name of the program.
func Hostname(hostname string) Option {
	return func(n *node) error {
		n.srv.Hostname = hostname
		return nil
	}
}

// Ephemeral removes the node from the tailnet once it goes offline.
func Ephemeral() Option {
	return func(n *node) error {
		n.srv.Ephemeral = true
		return nil
	}
}

// Funnel lets clients from the internet connect through a Tailscale funnel.  Funnels require TLS.
func Funnel() Option {
	return func(n *node) error {
		n.funnel = true
		return nil
	}
}

// NoTLS serves plain HTTP to the tailnet.
func NoTLS() Option {
	return func(n *node) error {
		n.plain = true
		return nil
	}
}

// Logf receives the log of the node, which is verbose while connecting.  Without it, tsnet logs to the standard
// logger.
func Logf(fn func(format string, args ...any)) Option {
	return func(n *node) error {
		n.srv.Logf = fn
		return nil
	}
}

// HookUp calls fn once the node is connected and authorized, with the status of the node, which includes its
// addresses and name.  If fn fails, the node is closed and the rig stops.
func HookUp(fn func(*tsnet.Server, *ipnstate.Status) error) Option {
	return func(n *node) error {
		n.up = append(n.up, fn)
		return nil
	}
}

type node struct {
	srv     tsnet.Server
	address string
	funnel  bool
	plain   bool
	up      []func(*tsnet.Server, *ipnstate.Status) error
}

var _ hook.Listen = (*node)(nil)

// Listen implements hook.Listen by bringing the node up and listening on it.
func (n *node) Listen(ctx context.Context) (net.Listener, error) {
	status, err := n.srv.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf(`%w while connecting to Tailscale`, err)
	}
	for _, fn := range n.up {
		err = fn(&n.srv, status)
		if err != nil {
			_ = n.srv.Close()
			return nil, err
		}
	}
	var lr net.Listener
	switch {
	case n.funnel:
		lr, err = n.srv.ListenFunnel(`tcp`, n.address)
	case n.plain:
		lr, err = n.srv.Listen(`tcp`, n.address)
	default:
		lr, err = n.srv.ListenTLS(`tcp`, n.address)
	}
	if err != nil {
		_ = n.srv.Close()
		return nil, fmt.Errorf(`%w while listening on Tailscale %q`, err, n.address)
	}
	return lr, nil
}
