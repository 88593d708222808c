package dom

import (
	"errors"
	"testing"
)

func TestDocument_CreateElement(t *testing.T) {
	doc := NewDocument()
	el := doc.CreateElement("div")

	if el.TagName() != "DIV" {
		t.Errorf("Expected tag name 'DIV', got '%s'", el.TagName())
	}
	if el.LocalName() != "div" {
		t.Errorf("Expected local name 'div', got '%s'", el.LocalName())
	}
	if el.AsNode().NodeType() != ElementNode {
		t.Errorf("Expected ElementNode, got %v", el.AsNode().NodeType())
	}
	if el.AsNode().OwnerDocument() != doc {
		t.Error("Element should be owned by the document")
	}
}

func TestNode_AppendChild(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div").AsNode()
	a := doc.CreateTextNode("a")
	b := doc.CreateElement("span").AsNode()

	if _, err := parent.AppendChild(a); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}
	if _, err := parent.AppendChild(b); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}

	if parent.FirstChild() != a || parent.LastChild() != b {
		t.Error("Children are in the wrong order")
	}
	if a.NextSibling() != b || b.PreviousSibling() != a {
		t.Error("Sibling links are wrong")
	}
	if b.ParentNode() != parent {
		t.Error("Parent link is wrong")
	}
	if len(parent.ChildNodes()) != 2 {
		t.Errorf("Expected 2 children, got %d", len(parent.ChildNodes()))
	}
}

func TestNode_InsertBefore(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("ul").AsNode()
	first := doc.CreateElement("li").AsNode()
	second := doc.CreateElement("li").AsNode()
	_, _ = parent.AppendChild(second)

	if _, err := parent.InsertBefore(first, second); err != nil {
		t.Fatalf("InsertBefore failed: %v", err)
	}
	if parent.FirstChild() != first {
		t.Error("Expected first to be the first child")
	}

	other := doc.CreateElement("li").AsNode()
	_, err := parent.InsertBefore(doc.CreateElement("li").AsNode(), other)
	if !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestNode_InsertBeforeMovesNode(t *testing.T) {
	doc := NewDocument()
	a := doc.CreateElement("div").AsNode()
	b := doc.CreateElement("div").AsNode()
	child := doc.CreateTextNode("x")
	_, _ = a.AppendChild(child)

	if _, err := b.AppendChild(child); err != nil {
		t.Fatalf("AppendChild failed: %v", err)
	}
	if a.HasChildNodes() {
		t.Error("Child should be removed from its old parent")
	}
	if child.ParentNode() != b {
		t.Error("Child should belong to the new parent")
	}
}

func TestNode_HierarchyErrors(t *testing.T) {
	doc := NewDocument()
	outer := doc.CreateElement("div").AsNode()
	inner := doc.CreateElement("div").AsNode()
	_, _ = outer.AppendChild(inner)

	if _, err := inner.AppendChild(outer); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for a cycle, got %v", err)
	}
	text := doc.CreateTextNode("t")
	if _, err := text.AppendChild(doc.CreateTextNode("u")); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for a text parent, got %v", err)
	}
	if _, err := doc.AsNode().AppendChild(doc.CreateTextNode("u")); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for text under document, got %v", err)
	}
	_, _ = doc.AsNode().AppendChild(outer)
	if _, err := doc.AsNode().AppendChild(doc.CreateElement("html").AsNode()); !errors.Is(err, ErrHierarchyRequest) {
		t.Errorf("Expected HierarchyRequestError for a second document element, got %v", err)
	}
}

func TestNode_RemoveChild(t *testing.T) {
	doc := NewDocument()
	parent := doc.CreateElement("div").AsNode()
	a := doc.CreateTextNode("a")
	b := doc.CreateTextNode("b")
	c := doc.CreateTextNode("c")
	for _, n := range []*Node{a, b, c} {
		_, _ = parent.AppendChild(n)
	}

	if _, err := parent.RemoveChild(b); err != nil {
		t.Fatalf("RemoveChild failed: %v", err)
	}
	if a.NextSibling() != c || c.PreviousSibling() != a {
		t.Error("Siblings were not relinked")
	}
	if b.ParentNode() != nil || b.NextSibling() != nil || b.PreviousSibling() != nil {
		t.Error("Removed node still has links")
	}
	if _, err := parent.RemoveChild(b); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Expected NotFoundError, got %v", err)
	}
}

func TestNode_TextContent(t *testing.T) {
	doc := NewDocument()
	div := doc.CreateElement("div")
	span := doc.CreateElement("span")
	_, _ = div.AsNode().AppendChild(doc.CreateTextNode("Hello, "))
	_, _ = div.AsNode().AppendChild(span.AsNode())
	_, _ = span.AsNode().AppendChild(doc.CreateTextNode("World"))
	_, _ = div.AsNode().AppendChild(doc.CreateComment("ignored"))

	if got := div.TextContent(); got != "Hello, World" {
		t.Errorf("Expected 'Hello, World', got '%s'", got)
	}

	div.SetTextContent("replaced")
	if len(div.AsNode().ChildNodes()) != 1 || div.TextContent() != "replaced" {
		t.Errorf("SetTextContent did not replace children: %q", div.TextContent())
	}
	div.SetTextContent("")
	if div.AsNode().HasChildNodes() {
		t.Error("Empty SetTextContent should leave no children")
	}
}

func TestNode_MutationNotifications(t *testing.T) {
	revision := &RevisionCounter{}
	doc := NewDocument(WithRevision(revision))
	callback := &recordingCallback{}
	doc.RegisterMutationCallback(callback)
	parent := doc.CreateElement("div").AsNode()

	_, _ = parent.AppendChild(doc.CreateTextNode("x"))

	if revision.Version() != 1 {
		t.Errorf("Expected version 1, got %d", revision.Version())
	}
	if len(callback.records) != 1 || callback.records[0].Type != MutationChildList {
		t.Fatalf("Expected one childList record, got %v", callback.records)
	}
	if len(callback.childrenChanged) != 1 || callback.childrenChanged[0] != parent {
		t.Error("Expected children changed on the parent")
	}

	doc.UnregisterMutationCallback(callback)
	_, _ = parent.AppendChild(doc.CreateTextNode("y"))
	if len(callback.records) != 1 {
		t.Error("Unregistered callback should not be called")
	}
}

type recordingBus struct {
	owners  []*Node
	records []*MutationRecord
}

func (b *recordingBus) NotifyChildrenChanged(owner *Node) {
	b.owners = append(b.owners, owner)
}

func (b *recordingBus) NotifyMutation(record *MutationRecord) {
	b.records = append(b.records, record)
}

func TestDocument_NotificationBusIsPerDocument(t *testing.T) {
	busA, busB := &recordingBus{}, &recordingBus{}
	docA := NewDocument(WithNotificationBus(busA))
	NewDocument(WithNotificationBus(busB))

	el := docA.CreateElement("p").AsNode()
	_, _ = el.AppendChild(docA.CreateTextNode("a"))

	if len(busA.owners) != 1 || len(busA.records) != 1 {
		t.Errorf("Expected document A's bus to be notified, got %d/%d", len(busA.owners), len(busA.records))
	}
	if len(busB.owners) != 0 || len(busB.records) != 0 {
		t.Error("Document B's bus should not see document A's mutations")
	}
}

func TestDocument_SharedRevisionIsMonotonic(t *testing.T) {
	a, b := NewDocument(), NewDocument()
	before := a.Version()
	_, _ = b.CreateElement("div").AsNode().AppendChild(b.CreateTextNode("x"))
	if a.Version() <= before {
		t.Error("Documents without their own counter should share one")
	}
}

func TestDocument_GetElementByID(t *testing.T) {
	doc := NewDocument()
	root := doc.CreateElement("html")
	_, _ = doc.AsNode().AppendChild(root.AsNode())
	target := doc.CreateElement("span")
	target.SetAttribute("id", "target")
	_, _ = root.AsNode().AppendChild(target.AsNode())

	if doc.GetElementByID("target") != target {
		t.Error("Expected to find the element by id")
	}
	if doc.GetElementByID("missing") != nil {
		t.Error("Expected nil for a missing id")
	}
	if doc.DocumentElement() != root {
		t.Error("Expected the html element as document element")
	}
}

func TestDOMError(t *testing.T) {
	err := ErrIndexSize("too far")
	if !errors.Is(err, ErrIndexOutOfRange) {
		t.Error("IndexSize errors should match ErrIndexOutOfRange")
	}
	if errors.Is(err, ErrNodeNotFound) {
		t.Error("IndexSize errors should not match ErrNodeNotFound")
	}
	var domErr *DOMError
	if !errors.As(err, &domErr) || domErr.Name != "IndexSizeError" {
		t.Errorf("Expected *DOMError named IndexSizeError, got %v", err)
	}
	if ExceptionCode("IndexSizeError") != 1 {
		t.Errorf("Expected legacy code 1, got %d", ExceptionCode("IndexSizeError"))
	}
}
