package bootstrap

import "strings"

// A Runtime is the JavaScript environment that hosts the library.
type Runtime interface {
	// SetGlobal assigns a property of the global object.
	SetGlobal(name string, value any)

	// Construct calls the constructor found by following path from the global object.  Exceptions thrown by the
	// constructor are returned as errors.
	Construct(path []string, args ...any) (any, error)
}

// Cesium is a Library binding for Cesium.  Cesium reads its asset base path from the CESIUM_BASE_URL global, so the
// binding assigns it immediately before constructing each viewer.
type Cesium struct {
	Runtime Runtime
}

var _ Library = Cesium{}

// viewerPath locates the viewer constructor.
var viewerPath = []string{`Cesium`, `Viewer`}

// NewViewer implements Library.
func (c Cesium) NewViewer(cfg ViewerConfig) (Viewer, error) {
	c.Runtime.SetGlobal(`CESIUM_BASE_URL`, cfg.BaseURL)
	return c.Runtime.Construct(viewerPath, cfg.Container)
}

// String names the constructor for logs.
func (c Cesium) String() string { return strings.Join(viewerPath, `.`) }
