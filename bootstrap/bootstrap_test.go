package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/swdunlop/globe-go/page"
)

// fakeRuntime behaves like a page that loaded Cesium: the viewer constructor throws when the container id does not
// resolve to an attached element.
type fakeRuntime struct {
	doc     page.Document
	calls   []string
	globals map[string]any
}

var errDeveloper = errors.New(`DeveloperError`)

func newFakeRuntime(doc page.Document) *fakeRuntime {
	return &fakeRuntime{doc: doc, globals: map[string]any{}}
}

func (rt *fakeRuntime) SetGlobal(name string, value any) {
	rt.calls = append(rt.calls, fmt.Sprintf(`set %s=%v`, name, value))
	rt.globals[name] = value
}

func (rt *fakeRuntime) Construct(path []string, args ...any) (any, error) {
	rt.calls = append(rt.calls, fmt.Sprintf(`new %s(%v)`, strings.Join(path, `.`), args[0]))
	if _, ok := rt.globals[`CESIUM_BASE_URL`]; !ok {
		return nil, fmt.Errorf(`%w: CESIUM_BASE_URL is not set`, errDeveloper)
	}
	id, _ := args[0].(string)
	if rt.doc.GetElementByID(id) == nil {
		return nil, fmt.Errorf(`%w: Element with id "%s" does not exist in the document.`, errDeveloper, id)
	}
	return &struct{ container string }{id}, nil
}

func TestRunCreatesOneContainerInBody(t *testing.T) {
	doc := page.Blank()
	viewer, err := Run(context.Background(), doc, Cesium{newFakeRuntime(doc)})
	if err != nil {
		t.Fatal(err)
	}
	if viewer == nil {
		t.Fatal(`expected a viewer`)
	}
	containers := doc.ElementsByID(DefaultContainer)
	if len(containers) != 1 {
		t.Fatalf(`expected exactly one container, got %d`, len(containers))
	}
	parent := containers[0].Parent()
	if parent == nil || !parent.Same(doc.Body()) {
		t.Fatal(`expected the container to be a child of the body`)
	}
	if got := containers[0].TagName(); got != `DIV` {
		t.Fatalf(`expected a DIV container, got %q`, got)
	}
}

func TestContainerIsLastChildOfBody(t *testing.T) {
	doc, err := page.Parse(strings.NewReader(`<body><header></header><main></main></body>`))
	if err != nil {
		t.Fatal(err)
	}
	_, err = Run(context.Background(), doc, Cesium{newFakeRuntime(doc)})
	if err != nil {
		t.Fatal(err)
	}
	children := doc.Body().(*page.Node).Children()
	if last := children[len(children)-1]; last.ID() != DefaultContainer {
		t.Fatalf(`expected the container last, got %s#%s`, last.TagName(), last.ID())
	}
}

func TestBaseURLIsSetBeforeConstruction(t *testing.T) {
	doc := page.Blank()
	rt := newFakeRuntime(doc)
	_, err := Run(context.Background(), doc, Cesium{rt}, BaseURL(`/static/cesium/`))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{
		`set CESIUM_BASE_URL=/static/cesium/`,
		`new Cesium.Viewer(cesiumContainer)`,
	}
	if strings.Join(rt.calls, `|`) != strings.Join(want, `|`) {
		t.Fatalf(`expected calls %q, got %q`, want, rt.calls)
	}
}

func TestMissingContainerFails(t *testing.T) {
	doc := page.Blank()
	_, err := Cesium{newFakeRuntime(doc)}.NewViewer(ViewerConfig{Container: `nowhere`, BaseURL: DefaultBaseURL})
	if !errors.Is(err, errDeveloper) {
		t.Fatalf(`expected a developer error, got %v`, err)
	}
}

func TestRunPropagatesConstructionError(t *testing.T) {
	// The runtime looks at a different document than the one the container is attached to.
	doc, other := page.Blank(), page.Blank()
	_, err := Run(context.Background(), doc, Cesium{newFakeRuntime(other)})
	if !errors.Is(err, errDeveloper) {
		t.Fatalf(`expected a developer error, got %v`, err)
	}
	if !strings.Contains(err.Error(), `#cesiumContainer`) {
		t.Fatalf(`expected the container in %q`, err)
	}
}

func TestRunTwiceDuplicatesContainer(t *testing.T) {
	doc := page.Blank()
	for i := 0; i < 2; i++ {
		_, err := Run(context.Background(), doc, Cesium{newFakeRuntime(doc)})
		if err != nil {
			t.Fatal(err)
		}
	}
	if n := len(doc.ElementsByID(DefaultContainer)); n != 2 {
		t.Fatalf(`expected two containers sharing an id, got %d`, n)
	}
}

func TestRunWithoutBody(t *testing.T) {
	_, err := Run(context.Background(), noBody{page.Blank()}, Cesium{newFakeRuntime(page.Blank())})
	if err == nil {
		t.Fatal(`expected an error`)
	}
}

type noBody struct{ *page.HTML }

func (noBody) Body() page.Element { return nil }

func TestEmptyContainerRejected(t *testing.T) {
	doc := page.Blank()
	_, err := Run(context.Background(), doc, Cesium{newFakeRuntime(doc)}, Container(``))
	if err == nil {
		t.Fatal(`expected an error`)
	}
	if n := len(doc.ElementsByID(``)); n != 0 {
		t.Fatalf(`expected nothing attached, got %d elements`, n)
	}
}

func TestScript(t *testing.T) {
	js, err := Script(BaseURL(`./`), Container(`globe`))
	if err != nil {
		t.Fatal(err)
	}
	src := string(js)
	order := []string{
		`window.CESIUM_BASE_URL = './';`,
		`require('script!./lib/CesiumUnminified/Cesium.js');`,
		`require('./lib/Cesium/Widgets/widgets.css');`,
		`div.setAttribute('id', 'globe');`,
		`document.body.appendChild(div);`,
		`new Cesium.Viewer('globe');`,
	}
	last := -1
	for _, want := range order {
		i := strings.Index(src, want)
		if i < 0 {
			t.Fatalf(`expected %q in:\n%s`, want, src)
		}
		if i < last {
			t.Fatalf(`expected %q after the previous statement in:\n%s`, want, src)
		}
		last = i
	}
}

func TestScriptWithoutStylesheet(t *testing.T) {
	js, err := Script(Stylesheet(``))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(js), `.css`) {
		t.Fatalf(`expected no stylesheet import in:\n%s`, js)
	}
}
