package local

import (
	"context"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/swdunlop/globe-go/rig"
)

func configure(t *testing.T, options ...Option) *listener {
	t.Helper()
	l := new(listener)
	for _, option := range options {
		err := option(l)
		if err != nil {
			t.Fatal(err)
		}
	}
	err := l.validate()
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestListenTCP(t *testing.T) {
	l := configure(t, TCP(`127.0.0.1:0`), KeepAlive(time.Minute))
	if l.lc.KeepAlive != time.Minute {
		t.Fatalf(`expected a one minute keepalive, got %v`, l.lc.KeepAlive)
	}
	lr, err := l.Listen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer lr.Close()
	if !strings.HasPrefix(lr.Addr().String(), `127.0.0.1:`) {
		t.Fatalf(`unexpected address %v`, lr.Addr())
	}
}

func socketPath(t *testing.T) string {
	t.Helper()
	// socket paths are limited to about a hundred bytes, which a test's temporary directory may exceed.
	dir, err := os.MkdirTemp(``, `globe`)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, `globe.sock`)
}

func TestUnixReplacesStaleSocket(t *testing.T) {
	path := socketPath(t)
	old, err := net.ListenUnix(`unix`, &net.UnixAddr{Name: path, Net: `unix`})
	if err != nil {
		t.Fatal(err)
	}
	old.SetUnlinkOnClose(false)
	_ = old.Close()

	lr, err := configure(t, Unix(path)).Listen(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer lr.Close()
}

func TestUnixRefusesLiveSocket(t *testing.T) {
	path := socketPath(t)
	live, err := net.Listen(`unix`, path)
	if err != nil {
		t.Fatal(err)
	}
	defer live.Close()

	_, err = configure(t, Unix(path)).Listen(context.Background())
	if err == nil || !strings.Contains(err.Error(), `already listening`) {
		t.Fatalf(`expected a live socket to be kept, got %v`, err)
	}
}

func TestUnixRefusesOtherFiles(t *testing.T) {
	path := socketPath(t)
	err := os.WriteFile(path, []byte(`not a socket`), 0o644)
	if err != nil {
		t.Fatal(err)
	}
	_, err = configure(t, Unix(path)).Listen(context.Background())
	if err == nil {
		t.Fatal(`expected an error for a regular file`)
	}
}

func TestRigRejects(t *testing.T) {
	for name, options := range map[string][]Option{
		`nothing`:     nil,
		`no address`:  {Listen(`tcp`, ``)},
		`bad network`: {Listen(`udp`, `:8080`)},
	} {
		t.Run(name, func(t *testing.T) {
			_, err := rig.New(Rig(options...))
			if err == nil {
				t.Fatal(`expected an error`)
			}
		})
	}
}
