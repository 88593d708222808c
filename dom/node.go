package dom

import "strings"

// Node represents a node in the DOM tree. Document, Element, Text and
// CharacterData are views over the same struct.
type Node struct {
	nodeType   NodeType
	nodeName   string
	ownerDoc   *Document
	parentNode *Node

	firstChild  *Node
	lastChild   *Node
	prevSibling *Node
	nextSibling *Node

	// Type-specific data (only one will be non-nil based on nodeType)
	elementData  *elementData
	charData     *charData
	documentData *documentData

	renderer RendererSync
}

// newNode creates a new node with the given type and name.
func newNode(nodeType NodeType, nodeName string, ownerDoc *Document) *Node {
	return &Node{
		nodeType: nodeType,
		nodeName: nodeName,
		ownerDoc: ownerDoc,
	}
}

// NodeType returns the type of the node.
func (n *Node) NodeType() NodeType {
	return n.nodeType
}

// NodeName returns the name of the node.
// For elements, this is the tag name in uppercase.
// For text nodes, this is "#text".
// For comments, this is "#comment".
// For documents, this is "#document".
func (n *Node) NodeName() string {
	return n.nodeName
}

// OwnerDocument returns the Document that owns this node.
// For Document nodes, this returns nil.
func (n *Node) OwnerDocument() *Document {
	if n.nodeType == DocumentNode {
		return nil
	}
	return n.ownerDoc
}

// document returns the document this node belongs to, including itself.
func (n *Node) document() *Document {
	if n.nodeType == DocumentNode {
		return (*Document)(n)
	}
	return n.ownerDoc
}

// ParentNode returns the parent of this node.
func (n *Node) ParentNode() *Node {
	return n.parentNode
}

// FirstChild returns the first child of this node.
func (n *Node) FirstChild() *Node {
	return n.firstChild
}

// LastChild returns the last child of this node.
func (n *Node) LastChild() *Node {
	return n.lastChild
}

// NextSibling returns the next sibling of this node.
func (n *Node) NextSibling() *Node {
	return n.nextSibling
}

// PreviousSibling returns the previous sibling of this node.
func (n *Node) PreviousSibling() *Node {
	return n.prevSibling
}

// HasChildNodes returns true if this node has any children.
func (n *Node) HasChildNodes() bool {
	return n.firstChild != nil
}

// ChildNodes returns a snapshot of this node's children.
func (n *Node) ChildNodes() []*Node {
	var children []*Node
	for c := n.firstChild; c != nil; c = c.nextSibling {
		children = append(children, c)
	}
	return children
}

// index returns the position of this node among its siblings.
func (n *Node) index() int {
	i := 0
	for c := n.prevSibling; c != nil; c = c.prevSibling {
		i++
	}
	return i
}

// Contains returns true if other is this node or one of its descendants.
func (n *Node) Contains(other *Node) bool {
	for c := other; c != nil; c = c.parentNode {
		if c == n {
			return true
		}
	}
	return false
}

// SetRenderer attaches the renderer that mirrors this node's content.
// Passing nil detaches it.
func (n *Node) SetRenderer(r RendererSync) {
	n.renderer = r
}

// Renderer returns the renderer attached to this node, if any.
func (n *Node) Renderer() RendererSync {
	return n.renderer
}

// AsCharacterData returns the character data view of a Text or Comment node,
// or nil for other node types.
func (n *Node) AsCharacterData() *CharacterData {
	if n == nil || !n.nodeType.IsCharacterData() {
		return nil
	}
	return (*CharacterData)(n)
}

// AsElement returns the element view of an Element node, or nil.
func (n *Node) AsElement() *Element {
	if n == nil || n.nodeType != ElementNode {
		return nil
	}
	return (*Element)(n)
}

// AsDocument returns the Document view of a Document node, or nil.
func (n *Node) AsDocument() *Document {
	if n == nil || n.nodeType != DocumentNode {
		return nil
	}
	return (*Document)(n)
}

// AsText returns the Text view of a Text node, or nil.
func (n *Node) AsText() *Text {
	if n == nil || n.nodeType != TextNode {
		return nil
	}
	return (*Text)(n)
}

// NodeValue returns the value of the node.
// For text and comment nodes, this is the character data.
// For other nodes, this is the empty string.
func (n *Node) NodeValue() string {
	if cd := n.AsCharacterData(); cd != nil {
		return cd.Data()
	}
	return ""
}

// SetNodeValue sets the value of the node.
// This only has an effect on character data nodes.
func (n *Node) SetNodeValue(value string) {
	if cd := n.AsCharacterData(); cd != nil {
		cd.SetData(value)
	}
}

// TextContent returns the text content of this node and its descendants.
func (n *Node) TextContent() string {
	switch n.nodeType {
	case TextNode, CommentNode:
		return n.NodeValue()
	case DocumentNode:
		return ""
	}
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	for c := n.firstChild; c != nil; c = c.nextSibling {
		switch c.nodeType {
		case TextNode:
			sb.WriteString(c.NodeValue())
		case ElementNode:
			c.collectText(sb)
		}
	}
}

// SetTextContent replaces the children of an element with a single text
// node. On character data nodes it sets the data.
func (n *Node) SetTextContent(text string) {
	switch n.nodeType {
	case TextNode, CommentNode:
		n.SetNodeValue(text)
	case ElementNode:
		for n.firstChild != nil {
			_, _ = n.RemoveChild(n.firstChild)
		}
		if text != "" && n.ownerDoc != nil {
			_, _ = n.AppendChild(n.ownerDoc.CreateTextNode(text))
		}
	}
}

// AppendChild adds a node to the end of the list of children.
func (n *Node) AppendChild(child *Node) (*Node, error) {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts newChild before refChild. If refChild is nil,
// newChild is appended.
func (n *Node) InsertBefore(newChild, refChild *Node) (*Node, error) {
	if err := n.checkPreInsert(newChild, refChild); err != nil {
		return nil, err
	}
	if refChild == newChild {
		refChild = newChild.nextSibling
	}
	if newChild.parentNode != nil {
		if _, err := newChild.parentNode.RemoveChild(newChild); err != nil {
			return nil, err
		}
	}

	newChild.parentNode = n
	if refChild == nil {
		newChild.prevSibling = n.lastChild
		newChild.nextSibling = nil
		if n.lastChild != nil {
			n.lastChild.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		n.lastChild = newChild
	} else {
		newChild.nextSibling = refChild
		newChild.prevSibling = refChild.prevSibling
		if refChild.prevSibling != nil {
			refChild.prevSibling.nextSibling = newChild
		} else {
			n.firstChild = newChild
		}
		refChild.prevSibling = newChild
	}

	if doc := n.document(); doc != nil {
		doc.updateRangesForInsertion(n, newChild.index())
		doc.notifyMutation(&MutationRecord{
			Type:            MutationChildList,
			Target:          n,
			AddedNodes:      []*Node{newChild},
			PreviousSibling: newChild.prevSibling,
			NextSibling:     newChild.nextSibling,
		})
	}
	n.childrenChanged()
	return newChild, nil
}

// checkPreInsert validates an insertion per the DOM pre-insert rules.
func (n *Node) checkPreInsert(child, refChild *Node) error {
	if child == nil {
		return ErrHierarchy("The new child is nil.")
	}
	switch n.nodeType {
	case DocumentNode, ElementNode:
	default:
		return ErrHierarchy("This node type does not support children.")
	}
	if child.nodeType == DocumentNode {
		return ErrHierarchy("A document cannot be inserted as a child.")
	}
	if child.Contains(n) {
		return ErrHierarchy("The new child contains the parent.")
	}
	if refChild != nil && refChild.parentNode != n {
		return ErrNotFound("The node before which the new node is to be inserted is not a child of this node.")
	}
	if n.nodeType == DocumentNode {
		switch child.nodeType {
		case TextNode:
			return ErrHierarchy("Text nodes are not allowed as children of a document.")
		case ElementNode:
			if de := (*Document)(n).DocumentElement(); de != nil && de.AsNode() != child {
				return ErrHierarchy("Only one element on document allowed.")
			}
		}
	}
	return nil
}

// RemoveChild removes a child node from this node.
func (n *Node) RemoveChild(child *Node) (*Node, error) {
	if child == nil || child.parentNode != n {
		return nil, ErrNotFound("The node to be removed is not a child of this node.")
	}
	doc := n.document()
	oldIndex := child.index()
	if doc != nil {
		doc.updateRangesForRemoval(n, child, oldIndex)
	}

	prev, next := child.prevSibling, child.nextSibling
	if prev != nil {
		prev.nextSibling = next
	} else {
		n.firstChild = next
	}
	if next != nil {
		next.prevSibling = prev
	} else {
		n.lastChild = prev
	}
	child.parentNode = nil
	child.prevSibling = nil
	child.nextSibling = nil

	if doc != nil {
		doc.notifyMutation(&MutationRecord{
			Type:            MutationChildList,
			Target:          n,
			RemovedNodes:    []*Node{child},
			PreviousSibling: prev,
			NextSibling:     next,
		})
	}
	n.childrenChanged()
	return child, nil
}

// childrenChanged is the owner-side callback fired after the child list or
// a child's character data changed.
func (n *Node) childrenChanged() {
	doc := n.document()
	if doc == nil {
		return
	}
	doc.incrementVersion()
	doc.notifyChildrenChanged(n)
}
