// Package html builds dom documents from HTML using golang.org/x/net/html
// as the underlying parser implementation.
package html

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/network"
)

// DefaultTextLengthLimit is the longest text node, in UTF-16 code units, the
// parser creates. Longer text is split across sibling text nodes.
const DefaultTextLengthLimit = 65536

type options struct {
	textLimit int
	docOpts   []dom.DocumentOption
}

// Option configures parsing.
type Option func(*options)

// WithTextLengthLimit sets the text node length limit. Values below one
// fall back to DefaultTextLengthLimit.
func WithTextLengthLimit(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.textLimit = n
		}
	}
}

// WithDocumentOptions passes options to the created document.
func WithDocumentOptions(opts ...dom.DocumentOption) Option {
	return func(o *options) {
		o.docOpts = append(o.docOpts, opts...)
	}
}

func newOptions(opts []Option) *options {
	o := &options{textLimit: DefaultTextLengthLimit}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Parse parses an HTML document from r.
func Parse(r io.Reader, opts ...Option) (*dom.Document, error) {
	o := newOptions(opts)
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	doc := dom.NewDocument(o.docOpts...)
	b := &builder{doc: doc, limit: o.textLimit}
	if err := b.appendChildren(doc.AsNode(), root); err != nil {
		return nil, err
	}
	return doc, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string, opts ...Option) (*dom.Document, error) {
	return Parse(strings.NewReader(s), opts...)
}

// ParseResource decodes a loaded resource using its charset and parses it.
func ParseResource(res *network.Resource, opts ...Option) (*dom.Document, error) {
	if res == nil {
		return nil, errors.New("parse html: nil resource")
	}
	if res.Error != nil {
		return nil, fmt.Errorf("load %s: %w", res.URL, res.Error)
	}
	text, err := res.Text()
	if err != nil {
		return nil, err
	}
	return ParseString(text, opts...)
}

// ParseFragment parses fragment in the context of the given element and
// returns the resulting nodes, owned by the element's document but not yet
// inserted.
func ParseFragment(context *dom.Element, fragment string, opts ...Option) ([]*dom.Node, error) {
	if context == nil {
		return nil, errors.New("parse fragment: nil context element")
	}
	o := newOptions(opts)
	name := context.LocalName()
	contextNode := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}
	netNodes, err := html.ParseFragment(strings.NewReader(fragment), contextNode)
	if err != nil {
		return nil, fmt.Errorf("parse fragment: %w", err)
	}

	b := &builder{doc: context.AsNode().OwnerDocument(), limit: o.textLimit}
	var nodes []*dom.Node
	for _, nn := range netNodes {
		converted, err := b.convert(nn)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, converted...)
	}
	return nodes, nil
}

type builder struct {
	doc   *dom.Document
	limit int
}

func (b *builder) appendChildren(parent *dom.Node, n *html.Node) error {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		nodes, err := b.convert(c)
		if err != nil {
			return err
		}
		for _, child := range nodes {
			if _, err := parent.AppendChild(child); err != nil {
				return err
			}
		}
	}
	return nil
}

// convert converts a golang.org/x/net/html node to dom nodes. Text yields
// one node per chunk; doctypes yield nothing.
func (b *builder) convert(n *html.Node) ([]*dom.Node, error) {
	switch n.Type {
	case html.ElementNode:
		el := b.doc.CreateElement(n.Data)
		for _, attr := range n.Attr {
			key := attr.Key
			if attr.Namespace != "" {
				key = attr.Namespace + ":" + key
			}
			el.SetAttribute(key, attr.Val)
		}
		if err := b.appendChildren(el.AsNode(), n); err != nil {
			return nil, err
		}
		return []*dom.Node{el.AsNode()}, nil
	case html.TextNode:
		return b.splitText(n.Data), nil
	case html.CommentNode:
		return []*dom.Node{b.doc.CreateComment(n.Data)}, nil
	}
	return nil, nil
}

// splitText distributes text over as many text nodes as the length limit
// requires. Chunks end on grapheme cluster boundaries; a single cluster
// longer than the limit gets a node of its own.
func (b *builder) splitText(text string) []*dom.Node {
	units := dom.EncodeUTF16(text)
	total := units.Len()
	var nodes []*dom.Node
	for offset := 0; offset < total; {
		node := b.doc.CreateTextNode("")
		cd := node.AsCharacterData()
		n := cd.ParserAppendUnits(units, offset, b.limit)
		if n == 0 {
			n = cd.ParserAppendUnits(units, offset, units.ClusterLen(offset))
		}
		nodes = append(nodes, node)
		offset += n
	}
	return nodes
}
