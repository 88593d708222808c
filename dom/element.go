package dom

import "strings"

// Element represents an element in the DOM.
type Element Node

// Attr is a single name/value attribute pair.
type Attr struct {
	Name  string
	Value string
}

// elementData holds data specific to Element nodes.
type elementData struct {
	localName  string
	tagName    string
	attributes []Attr
	watchers   map[string][]*attributeWatcher
	extensions map[string]any
}

type attributeWatcher struct {
	fn func(value string, present bool)
}

func newElement(doc *Document, name string) *Element {
	localName := strings.ToLower(name)
	n := newNode(ElementNode, strings.ToUpper(name), doc)
	n.elementData = &elementData{
		localName: localName,
		tagName:   strings.ToUpper(name),
	}
	return (*Element)(n)
}

// AsNode returns the underlying Node.
func (e *Element) AsNode() *Node {
	return (*Node)(e)
}

// TagName returns the uppercase tag name.
func (e *Element) TagName() string {
	return e.elementData.tagName
}

// LocalName returns the lowercase local name.
func (e *Element) LocalName() string {
	return e.elementData.localName
}

// ID returns the element's id attribute.
func (e *Element) ID() string {
	return e.GetAttribute("id")
}

// Attributes returns a copy of the element's attributes in order.
func (e *Element) Attributes() []Attr {
	return append([]Attr(nil), e.elementData.attributes...)
}

// GetAttribute returns the value of the named attribute, or "" if absent.
func (e *Element) GetAttribute(name string) string {
	v, _ := e.LookupAttribute(name)
	return v
}

// LookupAttribute returns the value of the named attribute and whether it
// is present.
func (e *Element) LookupAttribute(name string) (string, bool) {
	for _, a := range e.elementData.attributes {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute returns true if the named attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.LookupAttribute(name)
	return ok
}

// SetAttribute sets the value of the named attribute.
func (e *Element) SetAttribute(name, value string) {
	attrs := e.elementData.attributes
	oldValue := ""
	found := false
	for i := range attrs {
		if attrs[i].Name == name {
			oldValue = attrs[i].Value
			attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		e.elementData.attributes = append(attrs, Attr{Name: name, Value: value})
	}
	e.attributeChanged(name, oldValue, found, value, true)
}

// RemoveAttribute removes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	attrs := e.elementData.attributes
	for i, a := range attrs {
		if a.Name == name {
			e.elementData.attributes = append(attrs[:i:i], attrs[i+1:]...)
			e.attributeChanged(name, a.Value, true, "", false)
			return
		}
	}
}

func (e *Element) attributeChanged(name, oldValue string, hadOld bool, value string, present bool) {
	if doc := e.ownerDoc; doc != nil {
		doc.notifyMutation(&MutationRecord{
			Type:          MutationAttributes,
			Target:        e.AsNode(),
			AttributeName: name,
			OldValue:      oldValue,
			HasOldValue:   hadOld,
		})
	}
	for _, w := range e.elementData.watchers[name] {
		w.fn(value, present)
	}
}

// WatchAttribute registers fn to run after the named attribute is set or
// removed. The returned function cancels the registration.
func (e *Element) WatchAttribute(name string, fn func(value string, present bool)) (cancel func()) {
	if e.elementData.watchers == nil {
		e.elementData.watchers = make(map[string][]*attributeWatcher)
	}
	w := &attributeWatcher{fn: fn}
	e.elementData.watchers[name] = append(e.elementData.watchers[name], w)
	return func() {
		ws := e.elementData.watchers[name]
		for i, cur := range ws {
			if cur == w {
				e.elementData.watchers[name] = append(ws[:i:i], ws[i+1:]...)
				return
			}
		}
	}
}

// Extension returns the object stored under key, creating it with create on
// first use. Extensions live as long as the element and hold owned helper
// objects such as attribute-backed lists.
func (e *Element) Extension(key string, create func() any) any {
	if v, ok := e.elementData.extensions[key]; ok {
		return v
	}
	if create == nil {
		return nil
	}
	if e.elementData.extensions == nil {
		e.elementData.extensions = make(map[string]any)
	}
	v := create()
	e.elementData.extensions[key] = v
	return v
}

// TextContent returns the concatenated text of the element's descendants.
func (e *Element) TextContent() string {
	return e.AsNode().TextContent()
}

// SetTextContent replaces the element's children with a single text node.
func (e *Element) SetTextContent(text string) {
	e.AsNode().SetTextContent(text)
}
