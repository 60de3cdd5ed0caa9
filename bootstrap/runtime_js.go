//go:build js && !wasm

package bootstrap

import (
	"fmt"
	"strings"

	"github.com/gopherjs/gopherjs/js"
)

// Browser returns the Runtime of the page running this program.
func Browser() Runtime { return gopherRuntime{} }

type gopherRuntime struct{}

func (gopherRuntime) SetGlobal(name string, value any) {
	js.Global.Set(name, value)
}

func (gopherRuntime) Construct(path []string, args ...any) (ret any, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if jsErr, ok := r.(*js.Error); ok {
			ret, err = nil, jsErr
			return
		}
		panic(r)
	}()
	obj := js.Global
	for _, name := range path {
		obj = obj.Get(name)
		if obj == nil || obj == js.Undefined {
			return nil, fmt.Errorf(`%s is not defined`, strings.Join(path, `.`))
		}
	}
	return obj.New(args...), nil
}
