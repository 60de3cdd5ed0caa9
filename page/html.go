package page

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// blank mirrors the page that is produced when no template is given.
const blank = `<!DOCTYPE html><html><head><meta charset="UTF-8"></head><body></body></html>`

// Parse reads an HTML document.  Missing html, head and body elements are implied as a browser would.
func Parse(r io.Reader) (*HTML, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf(`%w while parsing HTML`, err)
	}
	return &HTML{root: root}, nil
}

// Blank returns an empty document with a head and a body.
func Blank() *HTML {
	doc, err := Parse(strings.NewReader(blank))
	if err != nil {
		panic(err) // the blank page is a constant.
	}
	return doc
}

// HTML is an in-memory Document.
type HTML struct {
	root *html.Node
}

var _ Document = (*HTML)(nil)

// Render writes the document as HTML.
func (doc *HTML) Render(w io.Writer) error {
	return html.Render(w, doc.root)
}

// Bytes returns the rendered document.
func (doc *HTML) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	err := doc.Render(&buf)
	return buf.Bytes(), err
}

// CreateElement implements Document.
func (doc *HTML) CreateElement(tag string) Element {
	tag = strings.ToLower(tag)
	return &Node{&html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}}
}

// Head implements Document.
func (doc *HTML) Head() Element { return doc.find(atom.Head) }

// Body implements Document.
func (doc *HTML) Body() Element { return doc.find(atom.Body) }

func (doc *HTML) find(a atom.Atom) Element {
	var found *html.Node
	walk(doc.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
		}
		return found == nil
	})
	if found == nil {
		return nil
	}
	return &Node{found}
}

// GetElementByID implements Document.
func (doc *HTML) GetElementByID(id string) Element {
	all := doc.ElementsByID(id)
	if len(all) == 0 {
		return nil
	}
	return all[0]
}

// ElementsByID returns every attached element with the given id in document order.  Browsers return only the first
// from getElementById, but duplicates are legal markup and sometimes worth counting.
func (doc *HTML) ElementsByID(id string) []*Node {
	var seq []*Node
	walk(doc.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, `id`) == id {
			seq = append(seq, &Node{n})
		}
		return true
	})
	return seq
}

// walk visits n and its descendants in document order until fn returns false.
func walk(n *html.Node, fn func(*html.Node) bool) bool {
	if !fn(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, fn) {
			return false
		}
	}
	return true
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == `` && a.Key == key {
			return a.Val
		}
	}
	return ``
}

// Node is an Element of an HTML document.
type Node struct {
	n *html.Node
}

var _ Element = (*Node)(nil)

// TagName implements Element.  Like the browser, it returns the upper case tag name.
func (e *Node) TagName() string { return strings.ToUpper(e.n.Data) }

// ID implements Element.
func (e *Node) ID() string { return attr(e.n, `id`) }

// Attr returns the value of an attribute, or an empty string.
func (e *Node) Attr(name string) string { return attr(e.n, name) }

// SetAttribute implements Element.
func (e *Node) SetAttribute(name, value string) {
	for i, a := range e.n.Attr {
		if a.Namespace == `` && a.Key == name {
			e.n.Attr[i].Val = value
			return
		}
	}
	e.n.Attr = append(e.n.Attr, html.Attribute{Key: name, Val: value})
}

// AppendChild implements Element.  A child that is already attached elsewhere is moved.
func (e *Node) AppendChild(child Element) {
	c, ok := child.(*Node)
	if !ok {
		panic(fmt.Sprintf(`cannot append %T to an HTML document`, child))
	}
	if c.n.Parent != nil {
		c.n.Parent.RemoveChild(c.n)
	}
	e.n.AppendChild(c.n)
}

// SetText replaces the children of the element with a single text node.
func (e *Node) SetText(text string) {
	for c := e.n.FirstChild; c != nil; c = e.n.FirstChild {
		e.n.RemoveChild(c)
	}
	e.n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Parent returns the parent element, or nil if the element is detached or the root.
func (e *Node) Parent() *Node {
	if e.n.Parent == nil || e.n.Parent.Type != html.ElementNode {
		return nil
	}
	return &Node{e.n.Parent}
}

// Children returns the child elements, ignoring text and comments.
func (e *Node) Children() []*Node {
	var seq []*Node
	for c := e.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			seq = append(seq, &Node{c})
		}
	}
	return seq
}

// Same reports whether two elements refer to the same underlying node.
func (e *Node) Same(other Element) bool {
	o, ok := other.(*Node)
	return ok && o.n == e.n
}
