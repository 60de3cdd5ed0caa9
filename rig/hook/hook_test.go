package hook

import (
	"strings"
	"testing"
)

type named struct {
	name     string
	provides []string
	depends  []string
}

func (n named) Provides() []string  { return n.provides }
func (n named) DependsOn() []string { return n.depends }

func names(t *testing.T, hooks ...any) string {
	t.Helper()
	seq, err := Order(hooks...)
	if err != nil {
		t.Fatal(err)
	}
	var parts []string
	for _, it := range seq {
		parts = append(parts, it.(named).name)
	}
	return strings.Join(parts, ` `)
}

func TestOrderPlacesDependenciesFirst(t *testing.T) {
	www := named{name: `www`, depends: []string{`esbuild`}}
	api := named{name: `api`}
	esbuild := named{name: `esbuild`, provides: []string{`esbuild`}}
	got := names(t, www, api, esbuild)
	if got != `esbuild www api` {
		t.Fatalf(`unexpected order %q`, got)
	}
}

func TestOrderPreservesIndependentHooks(t *testing.T) {
	a, b, c := named{name: `a`}, named{name: `b`}, named{name: `c`}
	if got := names(t, a, b, c); got != `a b c` {
		t.Fatalf(`unexpected order %q`, got)
	}
}

func TestOrderAllowsMissingProviders(t *testing.T) {
	www := named{name: `www`, depends: []string{`esbuild`}}
	api := named{name: `api`}
	if got := names(t, www, api); got != `www api` {
		t.Fatalf(`unexpected order %q`, got)
	}
}

func TestOrderRejectsCycles(t *testing.T) {
	a := named{name: `a`, provides: []string{`a`}, depends: []string{`b`}}
	b := named{name: `b`, provides: []string{`b`}, depends: []string{`a`}}
	_, err := Order(a, b)
	if err == nil || !strings.Contains(err.Error(), `depend on each other`) {
		t.Fatalf(`expected a cycle error, got %v`, err)
	}
}
