package render

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/svg"
)

// Dump renders the document tree: elements with their attributes, text and
// comments with quoted content and UTF-16 length, and a summary of the SVG
// lists bound to an element's attributes. Text nodes whose renderer is out
// of sync are marked.
func Dump(doc *dom.Document) string {
	root := treeprint.NewWithRoot("#document")
	for c := doc.AsNode().FirstChild(); c != nil; c = c.NextSibling() {
		dumpNode(root, c)
	}
	return root.String()
}

func dumpNode(parent treeprint.Tree, n *dom.Node) {
	switch n.NodeType() {
	case dom.ElementNode:
		el := n.AsElement()
		branch := parent.AddBranch(elementLabel(el))
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			dumpNode(branch, c)
		}
	case dom.TextNode, dom.CommentNode:
		cd := n.AsCharacterData()
		label := fmt.Sprintf("%s %q (%d)", n.NodeName(), cd.Data(), cd.Length())
		if r, ok := n.Renderer().(*TextRenderer); ok && !r.InSync() {
			label += " [stale]"
		}
		parent.AddNode(label)
	}
}

func elementLabel(el *dom.Element) string {
	var sb strings.Builder
	sb.WriteString("<" + el.LocalName())
	for _, attr := range el.Attributes() {
		fmt.Fprintf(&sb, " %s=%q", attr.Name, attr.Value)
	}
	sb.WriteString(">")
	for _, s := range listSummaries(el) {
		sb.WriteString(" [" + s + "]")
	}
	return sb.String()
}

// listSummaries describes the SVG lists an element carries.
func listSummaries(el *dom.Element) []string {
	var out []string
	switch el.LocalName() {
	case "polyline", "polygon":
		if el.HasAttribute("points") {
			out = append(out, fmt.Sprintf("SVGPointList: %d", svg.Points(el).Len()))
		}
	case "text", "tspan":
		if el.HasAttribute("rotate") {
			out = append(out, fmt.Sprintf("SVGNumberList: %d", svg.Numbers(el, "rotate").Len()))
		}
	}
	for _, attr := range []string{"requiredExtensions", "systemLanguage"} {
		if el.HasAttribute(attr) {
			out = append(out, fmt.Sprintf("SVGStringList %s: %d", attr, svg.Strings(el, attr).Len()))
		}
	}
	return out
}
