// Package render keeps a rendered copy of every text node in sync with the
// document and dumps the resulting render tree.
package render

import (
	"slices"
	"unicode/utf16"

	"github.com/chrisuehlinger/vibedom/dom"
)

// Span is a range of UTF-16 code units that needs repainting.
type Span struct {
	Offset int
	Length int
}

// TextRenderer mirrors one character data node. It applies each
// (offset, removed, inserted) triple to its own copy instead of re-reading
// the whole buffer, and falls back to a full resync when a triple does not
// reproduce the node's data.
type TextRenderer struct {
	node    *dom.CharacterData
	text    []uint16
	dirty   []Span
	updates int
	resyncs int
}

// NewTextRenderer creates a renderer holding a copy of cd's current data.
func NewTextRenderer(cd *dom.CharacterData) *TextRenderer {
	return &TextRenderer{node: cd, text: utf16.Encode([]rune(cd.Data()))}
}

// OnContentReplaced implements dom.RendererSync.
func (r *TextRenderer) OnContentReplaced(offset, removedLength, insertedLength int) {
	r.updates++
	current := utf16.Encode([]rune(r.node.Data()))
	if offset < 0 || removedLength < 0 || insertedLength < 0 ||
		offset+removedLength > len(r.text) || offset+insertedLength > len(current) ||
		len(r.text)-removedLength+insertedLength != len(current) {
		r.resync(current)
		return
	}

	next := make([]uint16, 0, len(current))
	next = append(next, r.text[:offset]...)
	next = append(next, current[offset:offset+insertedLength]...)
	next = append(next, r.text[offset+removedLength:]...)
	if !slices.Equal(next, current) {
		r.resync(current)
		return
	}
	r.text = next
	r.dirty = append(r.dirty, Span{Offset: offset, Length: insertedLength})
}

func (r *TextRenderer) resync(current []uint16) {
	r.resyncs++
	r.text = current
	r.dirty = append(r.dirty, Span{Offset: 0, Length: len(current)})
}

// Text returns the rendered copy.
func (r *TextRenderer) Text() string {
	return string(utf16.Decode(r.text))
}

// InSync reports whether the rendered copy matches the node.
func (r *TextRenderer) InSync() bool {
	return r.Text() == r.node.Data()
}

// Dirty returns the spans changed since the last TakeDirty.
func (r *TextRenderer) Dirty() []Span {
	return slices.Clone(r.dirty)
}

// TakeDirty returns and clears the dirty spans.
func (r *TextRenderer) TakeDirty() []Span {
	d := r.dirty
	r.dirty = nil
	return d
}

// Updates returns how many change notifications the renderer received.
func (r *TextRenderer) Updates() int {
	return r.updates
}

// Resyncs returns how many notifications required a full copy.
func (r *TextRenderer) Resyncs() int {
	return r.resyncs
}

// Tree owns the text renderers of one document. Text nodes inserted after
// Attach get a renderer as they are added.
type Tree struct {
	doc       *dom.Document
	renderers map[*dom.Node]*TextRenderer
}

// Attach gives every character data node of doc a renderer.
func Attach(doc *dom.Document) *Tree {
	t := &Tree{doc: doc, renderers: make(map[*dom.Node]*TextRenderer)}
	t.attachSubtree(doc.AsNode())
	doc.RegisterMutationCallback(t)
	return t
}

// Renderer returns the renderer of n, or nil.
func (t *Tree) Renderer(n *dom.Node) *TextRenderer {
	return t.renderers[n]
}

// Len returns the number of attached renderers.
func (t *Tree) Len() int {
	return len(t.renderers)
}

// Stale returns the nodes whose rendered copy differs from their data.
func (t *Tree) Stale() []*dom.Node {
	var out []*dom.Node
	for n, r := range t.renderers {
		if !r.InSync() {
			out = append(out, n)
		}
	}
	return out
}

// Resyncs sums the resync counts of all renderers.
func (t *Tree) Resyncs() int {
	var total int
	for _, r := range t.renderers {
		total += r.Resyncs()
	}
	return total
}

// Detach removes every renderer and stops tracking insertions.
func (t *Tree) Detach() {
	t.doc.UnregisterMutationCallback(t)
	for n := range t.renderers {
		n.SetRenderer(nil)
	}
	clear(t.renderers)
}

// OnChildrenChanged implements dom.MutationCallback.
func (t *Tree) OnChildrenChanged(*dom.Node) {}

// OnMutation implements dom.MutationCallback.
func (t *Tree) OnMutation(record *dom.MutationRecord) {
	if record.Type != dom.MutationChildList {
		return
	}
	for _, n := range record.AddedNodes {
		t.attachSubtree(n)
	}
}

func (t *Tree) attachSubtree(n *dom.Node) {
	if cd := n.AsCharacterData(); cd != nil {
		if _, ok := t.renderers[n]; !ok {
			r := NewTextRenderer(cd)
			n.SetRenderer(r)
			t.renderers[n] = r
		}
		return
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		t.attachSubtree(c)
	}
}
