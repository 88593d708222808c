package html

import (
	"errors"
	"strings"
	"testing"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/network"
)

func mustParse(t *testing.T, input string, opts ...Option) *dom.Document {
	t.Helper()
	doc, err := ParseString(input, opts...)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

func firstElement(t *testing.T, doc *dom.Document, name string) *dom.Element {
	t.Helper()
	els := doc.GetElementsByTagName(name)
	if len(els) == 0 {
		t.Fatalf("Could not find %s element", name)
	}
	return els[0]
}

func textChildren(el *dom.Element) []string {
	var out []string
	for _, c := range el.AsNode().ChildNodes() {
		if c.NodeType() == dom.TextNode {
			out = append(out, c.NodeValue())
		}
	}
	return out
}

func TestParse_BasicDocument(t *testing.T) {
	input := `<!DOCTYPE html>
<html>
<head><title>Test</title></head>
<body><p>Hello, World!</p></body>
</html>`

	doc := mustParse(t, input)

	root := doc.DocumentElement()
	if root == nil || root.TagName() != "HTML" {
		t.Fatalf("Expected html document element, got %v", root)
	}
	var hasHead, hasBody bool
	for _, c := range root.AsNode().ChildNodes() {
		if el := c.AsElement(); el != nil {
			switch el.LocalName() {
			case "head":
				hasHead = true
			case "body":
				hasBody = true
			}
		}
	}
	if !hasHead {
		t.Error("Missing head element")
	}
	if !hasBody {
		t.Error("Missing body element")
	}
	if got := firstElement(t, doc, "title").TextContent(); got != "Test" {
		t.Errorf("Expected title 'Test', got '%s'", got)
	}
}

func TestParse_MalformedHTML(t *testing.T) {
	// HTML5 parser should handle malformed HTML gracefully
	doc := mustParse(t, `<p>unclosed paragraph<div>nested div</p></div>`)

	if len(doc.GetElementsByTagName("div")) != 1 {
		t.Error("Expected the parser to recover the div")
	}
}

func TestParse_Attributes(t *testing.T) {
	doc := mustParse(t, `<div id="main" class="container" data-value="123">content</div>`)

	div := doc.GetElementByID("main")
	if div == nil {
		t.Fatal("Could not find div element")
	}
	if div.GetAttribute("class") != "container" {
		t.Errorf("Expected class='container', got '%s'", div.GetAttribute("class"))
	}
	if div.GetAttribute("data-value") != "123" {
		t.Errorf("Expected data-value='123', got '%s'", div.GetAttribute("data-value"))
	}
}

func TestParse_ForeignAttributes(t *testing.T) {
	doc := mustParse(t, `<svg viewBox="0 0 10 10"><use xlink:href="#a"/><polyline points="0,0 1,1"/></svg>`)

	use := firstElement(t, doc, "use")
	if got := use.GetAttribute("xlink:href"); got != "#a" {
		t.Errorf("Expected xlink:href='#a', got '%s'", got)
	}
	if got := firstElement(t, doc, "polyline").GetAttribute("points"); got != "0,0 1,1" {
		t.Errorf("Expected points='0,0 1,1', got '%s'", got)
	}
}

func TestParse_TextContent(t *testing.T) {
	doc := mustParse(t, `<div>Hello <span>World</span>!</div>`)

	if got := firstElement(t, doc, "div").TextContent(); got != "Hello World!" {
		t.Errorf("Expected 'Hello World!', got '%s'", got)
	}
}

func TestParse_EntityDecoding(t *testing.T) {
	doc := mustParse(t, `<p>&lt;a&gt; &amp; &copy; &#x1F600;</p>`)

	if got := firstElement(t, doc, "p").TextContent(); got != "<a> & © 😀" {
		t.Errorf("Expected decoded entities, got '%s'", got)
	}
}

func TestParse_Comments(t *testing.T) {
	doc := mustParse(t, `<body><!-- note --><p>x</p></body>`)

	body := firstElement(t, doc, "body")
	first := body.AsNode().FirstChild()
	if first == nil || first.NodeType() != dom.CommentNode {
		t.Fatalf("Expected a comment as first child, got %v", first)
	}
	if first.NodeValue() != " note " {
		t.Errorf("Expected ' note ', got '%s'", first.NodeValue())
	}
}

func TestParse_SplitsLongText(t *testing.T) {
	doc := mustParse(t, `<p>abcdefghij</p>`, WithTextLengthLimit(4))

	got := textChildren(firstElement(t, doc, "p"))
	want := []string{"abcd", "efgh", "ij"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected chunks %q, got %q", want, got)
	}
}

func TestParse_SplitRespectsGraphemeClusters(t *testing.T) {
	text := "ab" + "e\u0301" + "cd" + "\U0001F600" + "fg"
	doc := mustParse(t, "<p>"+text+"</p>", WithTextLengthLimit(3))

	chunks := textChildren(firstElement(t, doc, "p"))
	if strings.Join(chunks, "") != text {
		t.Fatalf("Expected chunks to join to the original text, got %q", chunks)
	}
	offset := 0
	for _, chunk := range chunks {
		n := dom.UTF16Length(chunk)
		if n == 0 || n > 3 {
			t.Errorf("Chunk %q has length %d, want 1..3", chunk, n)
		}
		offset += n
		if !dom.IsGraphemeBoundary(text, offset) {
			t.Errorf("Split at %d falls inside a grapheme cluster", offset)
		}
	}
	if chunks[0] != "ab" || chunks[1] != "e\u0301c" {
		t.Errorf("Expected chunks to start with ab and a decomposed e, got %q", chunks)
	}
}

func TestParse_ClusterLongerThanLimit(t *testing.T) {
	cluster := "e\u0301\u0301\u0301"
	doc := mustParse(t, "<p>x"+cluster+"y</p>", WithTextLengthLimit(2))

	got := textChildren(firstElement(t, doc, "p"))
	want := []string{"x", cluster, "y"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("Expected chunks %q, got %q", want, got)
	}
}

func TestParse_SplitsManyChunks(t *testing.T) {
	long := "e" + strings.Repeat("\u0301", 30)
	text := strings.Repeat("abc", 200) + long + strings.Repeat("\U0001F600", 50)
	doc := mustParse(t, "<p>"+text+"</p>", WithTextLengthLimit(2))

	chunks := textChildren(firstElement(t, doc, "p"))
	if strings.Join(chunks, "") != text {
		t.Fatal("Expected chunks to join to the original text")
	}
	if want := 300 + 1 + 50; len(chunks) != want {
		t.Errorf("Expected %d chunks, got %d", want, len(chunks))
	}
	if chunks[300] != long {
		t.Errorf("Expected the long cluster in a node of its own, got %q", chunks[300])
	}
}

func TestParse_DocumentOptions(t *testing.T) {
	doc := mustParse(t, `<p>x</p>`, WithDocumentOptions(dom.WithTextEventPolicy(dom.SymmetricTextEvents)))

	if doc.TextEventPolicy() != dom.SymmetricTextEvents {
		t.Errorf("Expected symmetric text events, got %v", doc.TextEventPolicy())
	}
}

func TestParseFragment(t *testing.T) {
	doc := mustParse(t, `<div id="host"></div>`)
	host := doc.GetElementByID("host")

	nodes, err := ParseFragment(host, `<p>Paragraph 1</p><p>Paragraph 2</p>`)
	if err != nil {
		t.Fatalf("ParseFragment failed: %v", err)
	}
	if len(nodes) != 2 {
		t.Fatalf("Expected 2 nodes, got %d", len(nodes))
	}
	for i, n := range nodes {
		el := n.AsElement()
		if el == nil || el.LocalName() != "p" {
			t.Errorf("Node %d: expected p element, got %s", i, n.NodeName())
		}
		if n.OwnerDocument() != doc {
			t.Errorf("Node %d: expected to be owned by the context document", i)
		}
		if n.ParentNode() != nil {
			t.Errorf("Node %d: expected to be detached", i)
		}
	}

	if _, err := ParseFragment(nil, "<p></p>"); err == nil {
		t.Error("Expected an error for a nil context")
	}
}

func TestParseResource(t *testing.T) {
	res := &network.Resource{
		Content:    []byte("<p>caf\xe9</p>"),
		Charset:    "windows-1252",
		StatusCode: 200,
	}
	doc, err := ParseResource(res)
	if err != nil {
		t.Fatalf("ParseResource failed: %v", err)
	}
	if got := firstElement(t, doc, "p").TextContent(); got != "café" {
		t.Errorf("Expected 'café', got '%s'", got)
	}

	failed := &network.Resource{URL: "http://example.invalid/", Error: errors.New("offline")}
	if _, err := ParseResource(failed); err == nil {
		t.Error("Expected an error for a failed resource")
	}
	if _, err := ParseResource(nil); err == nil {
		t.Error("Expected an error for a nil resource")
	}
}
