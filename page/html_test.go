package page

import (
	"strings"
	"testing"
)

func TestParseImpliesBody(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<title>globe</title><p>hi</p>`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Head() == nil {
		t.Fatal(`expected an implied head`)
	}
	body := doc.Body()
	if body == nil {
		t.Fatal(`expected an implied body`)
	}
	if got := body.TagName(); got != `BODY` {
		t.Fatalf(`expected BODY, got %q`, got)
	}
}

func TestDetachedElementsAreNotFound(t *testing.T) {
	doc := Blank()
	el := doc.CreateElement(`div`)
	el.SetAttribute(`id`, `x`)
	if doc.GetElementByID(`x`) != nil {
		t.Fatal(`a detached element must not be found`)
	}
	doc.Body().AppendChild(el)
	found := doc.GetElementByID(`x`)
	if found == nil {
		t.Fatal(`an attached element must be found`)
	}
	if !found.(*Node).Same(el) {
		t.Fatal(`found a different element`)
	}
	if p := found.(*Node).Parent(); p == nil || p.TagName() != `BODY` {
		t.Fatalf(`expected the body as parent, got %v`, p)
	}
}

func TestAppendChildMoves(t *testing.T) {
	doc := Blank()
	a := doc.CreateElement(`div`)
	b := doc.CreateElement(`span`)
	doc.Body().AppendChild(a)
	doc.Body().AppendChild(b)
	a.AppendChild(b)
	body := doc.Body().(*Node)
	if n := len(body.Children()); n != 1 {
		t.Fatalf(`expected 1 child of body, got %d`, n)
	}
	if n := len(a.(*Node).Children()); n != 1 {
		t.Fatalf(`expected 1 child of div, got %d`, n)
	}
}

func TestRender(t *testing.T) {
	doc := Blank()
	script := doc.CreateElement(`script`).(*Node)
	script.SetAttribute(`src`, `bundle.js`)
	script.SetAttribute(`src`, `./bundle.js`)
	doc.Body().AppendChild(script)
	out, err := doc.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	want := `<body><script src="./bundle.js"></script></body>`
	if !strings.Contains(string(out), want) {
		t.Fatalf(`expected %q in %s`, want, out)
	}
}
