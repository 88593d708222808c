package js

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/svg"
)

var (
	nodeClass          *Class
	characterDataClass *Class
	textClass          *Class
	commentClass       *Class
	elementClass       *Class
	svgElementClass    *Class
	documentClass      *Class
)

// svgElementNames lists the elements bound with the SVG element class.
var svgElementNames = map[string]bool{
	"svg": true, "g": true, "path": true, "rect": true, "circle": true,
	"ellipse": true, "line": true, "polyline": true, "polygon": true,
	"text": true, "tspan": true, "use": true,
}

func init() {
	nodeClass = newNodeClass()
	characterDataClass = newCharacterDataClass()
	textClass = characterDataClass.Extend("Text",
		map[string]Getter{"wholeText": textWholeText},
		nil,
		map[string]Method{"splitText": textSplitText},
	)
	commentClass = characterDataClass.Extend("Comment", nil, nil, nil)
	elementClass = newElementClass()
	svgElementClass = newSVGElementClass()
	documentClass = newDocumentClass()
}

func classForNode(n *dom.Node) *Class {
	switch n.NodeType() {
	case dom.DocumentNode:
		return documentClass
	case dom.TextNode:
		return textClass
	case dom.CommentNode:
		return commentClass
	case dom.ElementNode:
		if svgElementNames[n.AsElement().LocalName()] {
			return svgElementClass
		}
		return elementClass
	}
	return nodeClass
}

func asNode(self any) *dom.Node {
	return self.(*dom.Node)
}

// nodeArg returns argument i as a node, throwing a TypeError otherwise.
func (c *Context) nodeArg(call goja.FunctionCall, i int, method string) *dom.Node {
	if i < len(call.Arguments) {
		if self, ok := c.Unwrap(call.Arguments[i]); ok {
			if n, ok := self.(*dom.Node); ok {
				return n
			}
		}
	}
	panic(c.vm.NewTypeError(fmt.Sprintf("%s: parameter %d is not of type 'Node'", method, i+1)))
}

func (c *Context) wrapNodes(nodes []*dom.Node) goja.Value {
	items := make([]any, len(nodes))
	for i, n := range nodes {
		items[i] = c.Wrap(n)
	}
	return c.vm.NewArray(items...)
}

func (c *Context) wrapElements(els []*dom.Element) goja.Value {
	items := make([]any, len(els))
	for i, el := range els {
		items[i] = c.Wrap(el)
	}
	return c.vm.NewArray(items...)
}

func newNodeClass() *Class {
	return &Class{
		Name: "Node",
		Get: map[string]Getter{
			"nodeType": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(int(asNode(self).NodeType()))
			},
			"nodeName": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(asNode(self).NodeName())
			},
			"nodeValue": func(c *Context, self any) goja.Value {
				n := asNode(self)
				if !n.NodeType().IsCharacterData() {
					return goja.Null()
				}
				return c.vm.ToValue(n.NodeValue())
			},
			"textContent": func(c *Context, self any) goja.Value {
				n := asNode(self)
				if n.NodeType() == dom.DocumentNode {
					return goja.Null()
				}
				return c.vm.ToValue(n.TextContent())
			},
			"ownerDocument": func(c *Context, self any) goja.Value {
				return c.Wrap(asNode(self).OwnerDocument())
			},
			"parentNode": func(c *Context, self any) goja.Value {
				return c.Wrap(asNode(self).ParentNode())
			},
			"firstChild": func(c *Context, self any) goja.Value {
				return c.Wrap(asNode(self).FirstChild())
			},
			"lastChild": func(c *Context, self any) goja.Value {
				return c.Wrap(asNode(self).LastChild())
			},
			"nextSibling": func(c *Context, self any) goja.Value {
				return c.Wrap(asNode(self).NextSibling())
			},
			"previousSibling": func(c *Context, self any) goja.Value {
				return c.Wrap(asNode(self).PreviousSibling())
			},
			"childNodes": func(c *Context, self any) goja.Value {
				return c.wrapNodes(asNode(self).ChildNodes())
			},
		},
		Put: map[string]Setter{
			"nodeValue": func(c *Context, self any, v goja.Value) {
				asNode(self).SetNodeValue(nullableString(v))
			},
			"textContent": func(c *Context, self any, v goja.Value) {
				asNode(self).SetTextContent(nullableString(v))
			},
		},
		Call: map[string]Method{
			"appendChild": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				child := c.nodeArg(call, 0, "appendChild")
				if _, err := asNode(self).AppendChild(child); err != nil {
					c.throw(err)
				}
				return c.Wrap(child)
			},
			"insertBefore": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				child := c.nodeArg(call, 0, "insertBefore")
				var ref *dom.Node
				if len(call.Arguments) > 1 && !goja.IsNull(call.Arguments[1]) && !goja.IsUndefined(call.Arguments[1]) {
					ref = c.nodeArg(call, 1, "insertBefore")
				}
				if _, err := asNode(self).InsertBefore(child, ref); err != nil {
					c.throw(err)
				}
				return c.Wrap(child)
			},
			"removeChild": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				child := c.nodeArg(call, 0, "removeChild")
				if _, err := asNode(self).RemoveChild(child); err != nil {
					c.throw(err)
				}
				return c.Wrap(child)
			},
			"hasChildNodes": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				return c.vm.ToValue(asNode(self).HasChildNodes())
			},
			"contains": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				if len(call.Arguments) == 0 || goja.IsNull(call.Arguments[0]) {
					return c.vm.ToValue(false)
				}
				return c.vm.ToValue(asNode(self).Contains(c.nodeArg(call, 0, "contains")))
			},
		},
	}
}

// nullableString converts a DOMString? argument: null becomes "".
func nullableString(v goja.Value) string {
	if v == nil || goja.IsNull(v) {
		return ""
	}
	return v.String()
}

func newCharacterDataClass() *Class {
	cd := func(self any) *dom.CharacterData {
		return asNode(self).AsCharacterData()
	}
	return nodeClass.Extend("CharacterData",
		map[string]Getter{
			"data": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(cd(self).Data())
			},
			"length": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(cd(self).Length())
			},
		},
		map[string]Setter{
			"data": func(c *Context, self any, v goja.Value) {
				cd(self).SetData(nullableString(v))
			},
		},
		map[string]Method{
			"substringData": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 2, "substringData")
				s, err := cd(self).SubstringData(int(toUint32(call.Arguments[0])), int(toUint32(call.Arguments[1])))
				if err != nil {
					c.throw(err)
				}
				return c.vm.ToValue(s)
			},
			"appendData": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "appendData")
				cd(self).AppendData(call.Arguments[0].String())
				return goja.Undefined()
			},
			"insertData": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 2, "insertData")
				if err := cd(self).InsertData(int(toUint32(call.Arguments[0])), call.Arguments[1].String()); err != nil {
					c.throw(err)
				}
				return goja.Undefined()
			},
			"deleteData": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 2, "deleteData")
				if err := cd(self).DeleteData(int(toUint32(call.Arguments[0])), int(toUint32(call.Arguments[1]))); err != nil {
					c.throw(err)
				}
				return goja.Undefined()
			},
			"replaceData": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 3, "replaceData")
				offset := int(toUint32(call.Arguments[0]))
				count := int(toUint32(call.Arguments[1]))
				if err := cd(self).ReplaceData(offset, count, call.Arguments[2].String()); err != nil {
					c.throw(err)
				}
				return goja.Undefined()
			},
		},
	)
}

func textWholeText(c *Context, self any) goja.Value {
	return c.vm.ToValue(asNode(self).AsText().WholeText())
}

func textSplitText(c *Context, self any, call goja.FunctionCall) goja.Value {
	c.requireArgs(call, 1, "splitText")
	newText, err := asNode(self).AsText().SplitText(int(toUint32(call.Arguments[0])))
	if err != nil {
		c.throw(err)
	}
	return c.Wrap(newText)
}

func newElementClass() *Class {
	el := func(self any) *dom.Element {
		return asNode(self).AsElement()
	}
	return nodeClass.Extend("Element",
		map[string]Getter{
			"tagName": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(el(self).TagName())
			},
			"localName": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(el(self).LocalName())
			},
			"id": func(c *Context, self any) goja.Value {
				return c.vm.ToValue(el(self).ID())
			},
		},
		map[string]Setter{
			"id": func(c *Context, self any, v goja.Value) {
				el(self).SetAttribute("id", v.String())
			},
		},
		map[string]Method{
			"getAttribute": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "getAttribute")
				if v, ok := el(self).LookupAttribute(call.Arguments[0].String()); ok {
					return c.vm.ToValue(v)
				}
				return goja.Null()
			},
			"setAttribute": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 2, "setAttribute")
				el(self).SetAttribute(call.Arguments[0].String(), call.Arguments[1].String())
				return goja.Undefined()
			},
			"removeAttribute": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "removeAttribute")
				el(self).RemoveAttribute(call.Arguments[0].String())
				return goja.Undefined()
			},
			"hasAttribute": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "hasAttribute")
				return c.vm.ToValue(el(self).HasAttribute(call.Arguments[0].String()))
			},
		},
	)
}

func newSVGElementClass() *Class {
	el := func(self any) *dom.Element {
		return asNode(self).AsElement()
	}
	return elementClass.Extend("SVGElement",
		map[string]Getter{
			"points": func(c *Context, self any) goja.Value {
				switch el(self).LocalName() {
				case "polyline", "polygon":
					return c.Wrap(svg.Points(el(self)))
				}
				return goja.Undefined()
			},
			"rotate": func(c *Context, self any) goja.Value {
				switch el(self).LocalName() {
				case "text", "tspan":
					return c.Wrap(svg.Numbers(el(self), "rotate"))
				}
				return goja.Undefined()
			},
			"requiredExtensions": func(c *Context, self any) goja.Value {
				return c.Wrap(svg.Strings(el(self), "requiredExtensions"))
			},
			"systemLanguage": func(c *Context, self any) goja.Value {
				return c.Wrap(svg.Strings(el(self), "systemLanguage"))
			},
		},
		nil, nil,
	)
}

func newDocumentClass() *Class {
	doc := func(self any) *dom.Document {
		return asNode(self).AsDocument()
	}
	return nodeClass.Extend("Document",
		map[string]Getter{
			"documentElement": func(c *Context, self any) goja.Value {
				return c.Wrap(doc(self).DocumentElement())
			},
			"body": func(c *Context, self any) goja.Value {
				if bodies := doc(self).GetElementsByTagName("body"); len(bodies) > 0 {
					return c.Wrap(bodies[0])
				}
				return goja.Null()
			},
		},
		nil,
		map[string]Method{
			"createElement": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "createElement")
				return c.Wrap(doc(self).CreateElement(call.Arguments[0].String()))
			},
			"createTextNode": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "createTextNode")
				return c.Wrap(doc(self).CreateTextNode(call.Arguments[0].String()))
			},
			"createComment": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "createComment")
				return c.Wrap(doc(self).CreateComment(call.Arguments[0].String()))
			},
			"getElementById": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "getElementById")
				return c.Wrap(doc(self).GetElementByID(call.Arguments[0].String()))
			},
			"getElementsByTagName": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "getElementsByTagName")
				return c.wrapElements(doc(self).GetElementsByTagName(call.Arguments[0].String()))
			},
		},
	)
}
