// Package page describes the small part of a web page document that the bootstrap and the HTML page plugin need.
//
// Two implementations exist: HTML, an in-memory tree backed by golang.org/x/net/html, and, when built with GopherJS,
// Window, which wraps the browser's live document.
package page

// A Document is a web page that elements can be created in and attached to.
type Document interface {
	// CreateElement returns a new, detached element with the given tag name.
	CreateElement(tag string) Element

	// Head returns the head element, or nil if the document has none.
	Head() Element

	// Body returns the body element, or nil if the document has none.
	Body() Element

	// GetElementByID returns the first attached element in document order with the given id, or nil.
	GetElementByID(id string) Element
}

// An Element is a node in a Document.
type Element interface {
	TagName() string
	ID() string
	SetAttribute(name, value string)

	// AppendChild attaches child as the last child of this element.  The child must come from the same Document
	// implementation.
	AppendChild(child Element)
}
