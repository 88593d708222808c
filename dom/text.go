package dom

import "slices"

// Text represents a text node in the DOM.
type Text Node

// AsNode returns the underlying Node.
func (t *Text) AsNode() *Node {
	return (*Node)(t)
}

// AsCharacterData returns the character data view of this node.
func (t *Text) AsCharacterData() *CharacterData {
	return (*CharacterData)(t)
}

// Data returns the text content.
func (t *Text) Data() string {
	return t.AsCharacterData().Data()
}

// Length returns the length of the text in UTF-16 code units.
func (t *Text) Length() int {
	return t.AsCharacterData().Length()
}

// WholeText returns the text of this node and all adjacent text nodes.
func (t *Text) WholeText() string {
	first := t.AsNode()
	for first.prevSibling != nil && first.prevSibling.nodeType == TextNode {
		first = first.prevSibling
	}

	var result string
	for node := first; node != nil && node.nodeType == TextNode; node = node.nextSibling {
		result += node.NodeValue()
	}
	return result
}

// SplitText splits this text node at the given offset and returns the new
// node holding the text after it. The new node is inserted as the next
// sibling, and live ranges positioned after offset move into it.
func (t *Text) SplitText(offset int) (*Text, error) {
	cd := t.AsCharacterData()
	length := cd.Length()
	if offset < 0 || offset > length {
		return nil, ErrIndexSize("The offset is greater than the node's length.")
	}
	node := t.AsNode()
	var newNode *Node
	if node.ownerDoc != nil {
		newNode = node.ownerDoc.CreateTextNode("")
	} else {
		newNode = NewTextNode("")
	}
	// Copy code units so a surrogate pair split at offset survives.
	newNode.charData.units = slices.Clone(cd.charData.units[offset:])

	if parent := node.parentNode; parent != nil {
		if _, err := parent.InsertBefore(newNode, node.nextSibling); err != nil {
			return nil, err
		}
		if doc := node.document(); doc != nil {
			doc.moveRangesForSplit(node, newNode, offset)
		}
	}
	if err := cd.DeleteData(offset, length-offset); err != nil {
		return nil, err
	}
	return (*Text)(newNode), nil
}

// NewTextNode creates a new detached text node with the given data.
// The node has no owner document.
func NewTextNode(data string) *Node {
	node := newNode(TextNode, "#text", nil)
	node.charData = &charData{units: toUnits(data)}
	return node
}
