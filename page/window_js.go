//go:build js && !wasm

package page

import (
	"fmt"

	"honnef.co/go/js/dom"
)

// Window returns the live document of the browser window running this program.
func Window() Document {
	return &window{dom.GetWindow().Document().(dom.HTMLDocument)}
}

type window struct {
	doc dom.HTMLDocument
}

func (w *window) CreateElement(tag string) Element {
	return &element{w.doc.CreateElement(tag)}
}

func (w *window) Head() Element {
	head := w.doc.Head()
	if head == nil {
		return nil
	}
	return &element{head}
}

func (w *window) Body() Element {
	body := w.doc.Body()
	if body == nil {
		return nil
	}
	return &element{body}
}

func (w *window) GetElementByID(id string) Element {
	el := w.doc.GetElementByID(id)
	if el == nil {
		return nil
	}
	return &element{el}
}

type element struct {
	el dom.Element
}

func (e *element) TagName() string                 { return e.el.TagName() }
func (e *element) ID() string                      { return e.el.ID() }
func (e *element) SetAttribute(name, value string) { e.el.SetAttribute(name, value) }

func (e *element) AppendChild(child Element) {
	c, ok := child.(*element)
	if !ok {
		panic(fmt.Sprintf(`cannot append %T to the browser document`, child))
	}
	e.el.AppendChild(c.el)
}
