package dom

import (
	"strings"
	"sync/atomic"
)

// Document represents the root of a DOM tree and owns the collaborators that
// mutations report to: the revision counter, the notification bus, text
// listeners and live ranges.
type Document Node

// documentData holds data specific to Document nodes.
type documentData struct {
	revision      Revision
	bus           ChangeNotificationBus
	callbacks     []MutationCallback
	textListeners []TextListener
	ranges        map[*Range]struct{}
	textEvents    TextEventPolicy
}

// Revision is a monotonic counter bumped on every tree or text mutation.
type Revision interface {
	IncrementVersion() uint64
	Version() uint64
}

// RevisionCounter is the default Revision implementation. It is safe for
// concurrent use so that one counter can be shared across documents.
type RevisionCounter struct {
	v atomic.Uint64
}

// IncrementVersion bumps the counter and returns the new value.
func (c *RevisionCounter) IncrementVersion() uint64 {
	return c.v.Add(1)
}

// Version returns the current value.
func (c *RevisionCounter) Version() uint64 {
	return c.v.Load()
}

// sharedRevision is used by documents created without WithRevision, which
// keeps tree versions monotonic across all documents in the process.
var sharedRevision = &RevisionCounter{}

// TextEventPolicy selects which text listener events a whole-buffer
// replacement (SetData, AppendData) emits.
type TextEventPolicy int

const (
	// LegacyTextEvents reports only TextRemoved for a whole-buffer
	// replacement and nothing for AppendData.
	LegacyTextEvents TextEventPolicy = iota
	// SymmetricTextEvents additionally reports TextInserted for both.
	SymmetricTextEvents
)

// String returns the policy name used in configuration.
func (p TextEventPolicy) String() string {
	if p == SymmetricTextEvents {
		return "symmetric"
	}
	return "legacy"
}

// DocumentOption configures a Document.
type DocumentOption func(*documentData)

// WithRevision sets the revision counter the document increments.
func WithRevision(r Revision) DocumentOption {
	return func(d *documentData) {
		d.revision = r
	}
}

// WithNotificationBus routes change notifications to bus in addition to
// the callbacks registered on the document.
func WithNotificationBus(bus ChangeNotificationBus) DocumentOption {
	return func(d *documentData) {
		d.bus = bus
	}
}

// WithTextEventPolicy selects the text event policy.
func WithTextEventPolicy(p TextEventPolicy) DocumentOption {
	return func(d *documentData) {
		d.textEvents = p
	}
}

// NewDocument creates a new empty document.
func NewDocument(opts ...DocumentOption) *Document {
	node := newNode(DocumentNode, "#document", nil)
	node.documentData = &documentData{
		revision: sharedRevision,
		ranges:   make(map[*Range]struct{}),
	}
	for _, opt := range opts {
		opt(node.documentData)
	}
	doc := (*Document)(node)
	node.ownerDoc = doc
	return doc
}

// AsNode returns the underlying Node.
func (d *Document) AsNode() *Node {
	return (*Node)(d)
}

// Version returns the current tree version.
func (d *Document) Version() uint64 {
	return d.documentData.revision.Version()
}

// TextEventPolicy returns the document's text event policy.
func (d *Document) TextEventPolicy() TextEventPolicy {
	return d.documentData.textEvents
}

// SetTextEventPolicy changes the text event policy.
func (d *Document) SetTextEventPolicy(p TextEventPolicy) {
	d.documentData.textEvents = p
}

// CreateElement creates a new element with the given tag name.
func (d *Document) CreateElement(tagName string) *Element {
	return newElement(d, tagName)
}

// CreateTextNode creates a new text node.
func (d *Document) CreateTextNode(data string) *Node {
	n := newNode(TextNode, "#text", d)
	n.charData = &charData{units: toUnits(data)}
	return n
}

// CreateComment creates a new comment node.
func (d *Document) CreateComment(data string) *Node {
	n := newNode(CommentNode, "#comment", d)
	n.charData = &charData{units: toUnits(data)}
	return n
}

// DocumentElement returns the root element of the document.
func (d *Document) DocumentElement() *Element {
	for c := d.firstChild; c != nil; c = c.nextSibling {
		if c.nodeType == ElementNode {
			return (*Element)(c)
		}
	}
	return nil
}

// GetElementByID returns the first element in tree order whose id matches.
func (d *Document) GetElementByID(id string) *Element {
	if id == "" {
		return nil
	}
	var found *Element
	d.AsNode().walk(func(n *Node) bool {
		if el := n.AsElement(); el != nil && el.ID() == id {
			found = el
			return false
		}
		return true
	})
	return found
}

// GetElementsByTagName returns the elements with the given local name in
// tree order. "*" matches every element.
func (d *Document) GetElementsByTagName(name string) []*Element {
	name = strings.ToLower(name)
	var elements []*Element
	d.AsNode().walk(func(n *Node) bool {
		if el := n.AsElement(); el != nil && (name == "*" || el.LocalName() == name) {
			elements = append(elements, el)
		}
		return true
	})
	return elements
}

// TextNodes returns every Text node in tree order.
func (d *Document) TextNodes() []*Text {
	var nodes []*Text
	d.AsNode().walk(func(n *Node) bool {
		if t := n.AsText(); t != nil {
			nodes = append(nodes, t)
		}
		return true
	})
	return nodes
}

// walk visits descendants of n in tree order until fn returns false.
func (n *Node) walk(fn func(*Node) bool) bool {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		if !fn(c) || !c.walk(fn) {
			return false
		}
	}
	return true
}

// AddTextListener registers a listener for text inserted/removed events.
func (d *Document) AddTextListener(l TextListener) {
	if l == nil {
		return
	}
	d.documentData.textListeners = append(d.documentData.textListeners, l)
}

// RemoveTextListener unregisters a text listener.
func (d *Document) RemoveTextListener(l TextListener) {
	listeners := d.documentData.textListeners
	for i, cur := range listeners {
		if cur == l {
			d.documentData.textListeners = append(listeners[:i:i], listeners[i+1:]...)
			return
		}
	}
}

func (d *Document) incrementVersion() {
	d.documentData.revision.IncrementVersion()
}

func (d *Document) textInserted(n *Node, offset, length int) {
	for _, l := range d.documentData.textListeners {
		l.TextInserted(n, offset, length)
	}
}

func (d *Document) textRemoved(n *Node, offset, length int) {
	for _, l := range d.documentData.textListeners {
		l.TextRemoved(n, offset, length)
	}
}
