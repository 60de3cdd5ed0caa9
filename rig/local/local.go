// Package local serves a rig on a TCP or Unix socket of the local host.
package local

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"time"

	"github.com/swdunlop/globe-go/rig"
	"github.com/swdunlop/globe-go/rig/hook"
)

// Rig returns a rig.Option that serves on the socket described by options, which must include TCP, Unix or Listen.
func Rig(options ...Option) rig.Option {
	return func(r *rig.Config) error {
		l := new(listener)
		for _, option := range options {
			err := option(l)
			if err != nil {
				return err
			}
		}
		err := l.validate()
		if err != nil {
			return err
		}
		r.Hook(l)
		return nil
	}
}

// An Option configures a local listener.
type Option func(*listener) error

// TCP serves on a TCP address, such as "localhost:8080".
func TCP(address string) Option { return Listen(`tcp`, address) }

// Unix serves on a Unix socket at path.  A socket left at path by a server that has gone away is replaced.
func Unix(path string) Option { return Listen(`unix`, path) }

// Listen serves on an address of a network, which may be "tcp", "tcp4", "tcp6" or "unix".
func Listen(network, address string) Option {
	return func(l *listener) error {
		l.network, l.address = network, address
		return nil
	}
}

// KeepAlive sets the keepalive period of accepted TCP connections.
func KeepAlive(period time.Duration) Option {
	return ListenConfig(func(lc *net.ListenConfig) { lc.KeepAlive = period })
}

// ListenConfig adjusts the net.ListenConfig used to listen.
func ListenConfig(options ...func(*net.ListenConfig)) Option {
	return func(l *listener) error {
		for _, option := range options {
			option(&l.lc)
		}
		return nil
	}
}

type listener struct {
	network string
	address string
	lc      net.ListenConfig
}

var _ hook.Listen = (*listener)(nil)

func (l *listener) validate() error {
	switch l.network {
	case ``:
		return errors.New(`a local listener needs TCP, Unix or Listen`)
	case `tcp`, `tcp4`, `tcp6`, `unix`:
	default:
		return fmt.Errorf(`unsupported network %q for a local listener`, l.network)
	}
	if l.address == `` {
		return fmt.Errorf(`a local %v listener needs an address`, l.network)
	}
	return nil
}

// Listen implements hook.Listen.
func (l *listener) Listen(ctx context.Context) (net.Listener, error) {
	if l.network == `unix` {
		err := removeStaleSocket(l.address)
		if err != nil {
			return nil, err
		}
	}
	lr, err := l.lc.Listen(ctx, l.network, l.address)
	if err != nil {
		return nil, fmt.Errorf(`%w while listening on %v %q`, err, l.network, l.address)
	}
	return lr, nil
}

// removeStaleSocket removes the socket at path if nothing accepts connections on it.
func removeStaleSocket(path string) error {
	info, err := os.Lstat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil
	case err != nil:
		return err
	case info.Mode()&fs.ModeSocket == 0:
		return fmt.Errorf(`%q is not a socket`, path)
	}
	c, err := net.Dial(`unix`, path)
	if err == nil {
		_ = c.Close()
		return fmt.Errorf(`a server is already listening on %q`, path)
	}
	return os.Remove(path)
}
