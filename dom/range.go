package dom

import "strings"

// Range is a live range: its boundary points follow character data and
// child list mutations of its document.
type Range struct {
	startContainer *Node
	startOffset    int
	endContainer   *Node
	endOffset      int
	ownerDocument  *Document
}

// CreateRange creates a live range collapsed at the start of the document.
func (d *Document) CreateRange() *Range {
	r := &Range{
		startContainer: d.AsNode(),
		endContainer:   d.AsNode(),
		ownerDocument:  d,
	}
	d.documentData.ranges[r] = struct{}{}
	return r
}

// Detach stops the range from tracking mutations.
func (r *Range) Detach() {
	if r.ownerDocument != nil {
		delete(r.ownerDocument.documentData.ranges, r)
	}
}

// StartContainer returns the node where the range starts.
func (r *Range) StartContainer() *Node {
	return r.startContainer
}

// StartOffset returns the offset within the start container.
func (r *Range) StartOffset() int {
	return r.startOffset
}

// EndContainer returns the node where the range ends.
func (r *Range) EndContainer() *Node {
	return r.endContainer
}

// EndOffset returns the offset within the end container.
func (r *Range) EndOffset() int {
	return r.endOffset
}

// Collapsed returns true if start and end are the same point.
func (r *Range) Collapsed() bool {
	return r.startContainer == r.endContainer && r.startOffset == r.endOffset
}

// SetStart sets the start boundary point. If the new start is after the
// end in the same container, the range collapses to it.
func (r *Range) SetStart(node *Node, offset int) error {
	if err := checkBoundary(node, offset); err != nil {
		return err
	}
	r.startContainer, r.startOffset = node, offset
	if node == r.endContainer && offset > r.endOffset {
		r.endOffset = offset
	}
	if node != r.endContainer && !r.sameRoot() {
		r.endContainer, r.endOffset = node, offset
	}
	return nil
}

// SetEnd sets the end boundary point. If the new end is before the start
// in the same container, the range collapses to it.
func (r *Range) SetEnd(node *Node, offset int) error {
	if err := checkBoundary(node, offset); err != nil {
		return err
	}
	r.endContainer, r.endOffset = node, offset
	if node == r.startContainer && offset < r.startOffset {
		r.startOffset = offset
	}
	if node != r.startContainer && !r.sameRoot() {
		r.startContainer, r.startOffset = node, offset
	}
	return nil
}

// Collapse collapses the range to its start or end.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.endContainer, r.endOffset = r.startContainer, r.startOffset
	} else {
		r.startContainer, r.startOffset = r.endContainer, r.endOffset
	}
}

// String returns the text selected by the range when both boundary points
// are in character data nodes. Text nodes between them are included in
// tree order.
func (r *Range) String() string {
	start, end := r.startContainer.AsCharacterData(), r.endContainer.AsCharacterData()
	if start == nil || end == nil {
		return ""
	}
	if start == end {
		s, _ := start.SubstringData(r.startOffset, r.endOffset-r.startOffset)
		return s
	}
	var sb strings.Builder
	s, _ := start.SubstringData(r.startOffset, start.Length())
	sb.WriteString(s)
	for n := nextInTreeOrder(r.startContainer); n != nil && n != r.endContainer; n = nextInTreeOrder(n) {
		if n.nodeType == TextNode {
			sb.WriteString(n.NodeValue())
		}
	}
	s, _ = end.SubstringData(0, r.endOffset)
	sb.WriteString(s)
	return sb.String()
}

func (r *Range) sameRoot() bool {
	return root(r.startContainer) == root(r.endContainer)
}

func root(n *Node) *Node {
	for n.parentNode != nil {
		n = n.parentNode
	}
	return n
}

func nextInTreeOrder(n *Node) *Node {
	if n.firstChild != nil {
		return n.firstChild
	}
	for ; n != nil; n = n.parentNode {
		if n.nextSibling != nil {
			return n.nextSibling
		}
	}
	return nil
}

// checkBoundary validates a boundary point.
func checkBoundary(node *Node, offset int) error {
	if node == nil {
		return ErrNotFound("The boundary node is nil.")
	}
	length := 0
	if cd := node.AsCharacterData(); cd != nil {
		length = cd.Length()
	} else {
		length = len(node.ChildNodes())
	}
	if offset < 0 || offset > length {
		return ErrIndexSize("The offset is larger than the node's length.")
	}
	return nil
}

// updateRangesForReplaceData applies the DOM "replace data" rules to every
// live range of the document:
//
//   - a boundary point in node with offset in (offset, offset+count] moves
//     to offset;
//   - a boundary point after offset+count shifts by inserted-count.
func (d *Document) updateRangesForReplaceData(node *Node, offset, count, inserted int) {
	for r := range d.documentData.ranges {
		if r.startContainer == node {
			r.startOffset = replacedOffset(r.startOffset, offset, count, inserted)
		}
		if r.endContainer == node {
			r.endOffset = replacedOffset(r.endOffset, offset, count, inserted)
		}
	}
}

func replacedOffset(point, offset, count, inserted int) int {
	switch {
	case point > offset && point <= offset+count:
		return offset
	case point > offset+count:
		return point + inserted - count
	}
	return point
}

// moveRangesForSplit moves boundary points past offset in node into the
// node created by SplitText, and bumps parent offsets that pointed after node.
func (d *Document) moveRangesForSplit(node, newNode *Node, offset int) {
	parent := node.parentNode
	index := node.index()
	for r := range d.documentData.ranges {
		if r.startContainer == node && r.startOffset > offset {
			r.startContainer, r.startOffset = newNode, r.startOffset-offset
		}
		if r.endContainer == node && r.endOffset > offset {
			r.endContainer, r.endOffset = newNode, r.endOffset-offset
		}
		if r.startContainer == parent && r.startOffset == index+1 {
			r.startOffset++
		}
		if r.endContainer == parent && r.endOffset == index+1 {
			r.endOffset++
		}
	}
}

// updateRangesForRemoval moves boundary points inside a removed subtree to
// the removal point and shifts parent offsets after it.
func (d *Document) updateRangesForRemoval(parent, removed *Node, oldIndex int) {
	for r := range d.documentData.ranges {
		if removed.Contains(r.startContainer) {
			r.startContainer, r.startOffset = parent, oldIndex
		}
		if removed.Contains(r.endContainer) {
			r.endContainer, r.endOffset = parent, oldIndex
		}
		if r.startContainer == parent && r.startOffset > oldIndex {
			r.startOffset--
		}
		if r.endContainer == parent && r.endOffset > oldIndex {
			r.endOffset--
		}
	}
}

// updateRangesForInsertion shifts parent offsets after an inserted child.
func (d *Document) updateRangesForInsertion(parent *Node, newIndex int) {
	for r := range d.documentData.ranges {
		if r.startContainer == parent && r.startOffset > newIndex {
			r.startOffset++
		}
		if r.endContainer == parent && r.endOffset > newIndex {
			r.endOffset++
		}
	}
}
