// Package dom provides the document model used by the rest of vibedom: a node
// tree, elements with attributes, and character data nodes whose mutations are
// reported to renderers, live ranges and mutation observers.
package dom

// NodeType represents the type of a Node as defined in the DOM specification.
type NodeType uint16

const (
	// ElementNode represents an Element node.
	ElementNode NodeType = 1
	// TextNode represents a Text node.
	TextNode NodeType = 3
	// CommentNode represents a Comment node.
	CommentNode NodeType = 8
	// DocumentNode represents a Document node.
	DocumentNode NodeType = 9
)

// String returns the string representation of the NodeType.
func (nt NodeType) String() string {
	switch nt {
	case ElementNode:
		return "ELEMENT_NODE"
	case TextNode:
		return "TEXT_NODE"
	case CommentNode:
		return "COMMENT_NODE"
	case DocumentNode:
		return "DOCUMENT_NODE"
	default:
		return "UNKNOWN_NODE"
	}
}

// IsCharacterData reports whether nodes of this type carry a text buffer.
func (nt NodeType) IsCharacterData() bool {
	return nt == TextNode || nt == CommentNode
}
