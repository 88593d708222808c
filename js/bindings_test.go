package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisuehlinger/vibedom/dom"
	"github.com/chrisuehlinger/vibedom/fonts"
	"github.com/chrisuehlinger/vibedom/svg"
)

func newScriptDocument(t *testing.T) (*dom.Document, *Context) {
	t.Helper()
	doc := dom.NewDocument()
	html := doc.CreateElement("html")
	body := doc.CreateElement("body")
	_, err := doc.AsNode().AppendChild(html.AsNode())
	require.NoError(t, err)
	_, err = html.AsNode().AppendChild(body.AsNode())
	require.NoError(t, err)

	c := NewContext()
	require.NoError(t, c.Set("document", doc))
	return doc, c
}

func TestCharacterDataBindings(t *testing.T) {
	doc, c := newScriptDocument(t)

	v := run(t, c, `
		var t = document.createTextNode("hello");
		document.body.appendChild(t);
		t.replaceData(1, 3, "EY");
		t.appendData("!");
		t.insertData(0, ">");
		t.deleteData(1, 1);
		[t.data, t.length, t.substringData(1, 2), t.nodeType].join("|");
	`)
	assert.Equal(t, ">EYo!|5|EY|3", v.String())

	texts := doc.TextNodes()
	require.Len(t, texts, 1)
	assert.Equal(t, ">EYo!", texts[0].Data())
}

func TestCharacterDataIndexSizeError(t *testing.T) {
	_, c := newScriptDocument(t)

	v := run(t, c, `
		var t = document.createTextNode("abc");
		var result;
		try {
			t.insertData(4, "x");
		} catch (e) {
			result = [e instanceof DOMException, e.name, e.code, t.data].join("|");
		}
		result;
	`)
	assert.Equal(t, "true|IndexSizeError|1|abc", v.String())

	v = run(t, c, `
		var t = document.createTextNode("abc");
		try { t.deleteData(-1, 1); "no error" } catch (e) { e.name }
	`)
	assert.Equal(t, "IndexSizeError", v.String(), "-1 wraps to 4294967295")

	_, err := c.Run("args.js", `document.createTextNode("x").substringData(0)`)
	assert.ErrorContains(t, err, "TypeError")
}

func TestTextSplitBinding(t *testing.T) {
	_, c := newScriptDocument(t)

	v := run(t, c, `
		var t = document.createTextNode("hello world");
		document.body.appendChild(t);
		var rest = t.splitText(5);
		[t.data, rest.data, t.nextSibling === rest, t.wholeText].join("|");
	`)
	assert.Equal(t, "hello| world|true|hello world", v.String())
}

func TestNodeBindingsHierarchyError(t *testing.T) {
	_, c := newScriptDocument(t)

	v := run(t, c, `
		var t = document.createTextNode("x");
		try { t.appendChild(document.createElement("p")); "no error" } catch (e) { e.name + ":" + e.code }
	`)
	assert.Equal(t, "HierarchyRequestError:3", v.String())

	_, err := c.Run("type.js", `document.body.appendChild({})`)
	assert.ErrorContains(t, err, "TypeError")
}

func TestElementBindings(t *testing.T) {
	doc, c := newScriptDocument(t)

	v := run(t, c, `
		var p = document.createElement("P");
		p.id = "para";
		p.setAttribute("class", "x");
		document.body.appendChild(p);
		p.textContent = "text";
		[p.tagName, p.localName, p.getAttribute("class"), p.getAttribute("missing"), p.hasAttribute("id"),
		 document.getElementById("para") === p, document.getElementsByTagName("p").length].join("|");
	`)
	assert.Equal(t, "P|p|x||true|true|1", v.String())

	p := doc.GetElementByID("para")
	require.NotNil(t, p)
	assert.Equal(t, "text", p.TextContent())

	run(t, c, `document.getElementById("para").removeAttribute("class")`)
	assert.False(t, p.HasAttribute("class"))
}

func TestPointListBinding(t *testing.T) {
	doc, c := newScriptDocument(t)
	poly := doc.CreateElement("polyline")
	poly.SetAttribute("points", "0,0 10,10")
	_, err := doc.DocumentElement().AsNode().AppendChild(poly.AsNode())
	require.NoError(t, err)
	require.NoError(t, c.Set("poly", poly))

	v := run(t, c, `
		var pts = poly.points;
		pts.appendItem({x: 20, y: 5});
		var first = pts.getItem(0);
		[pts.numberOfItems, first.x + "," + first.y, poly.points === pts].join("|");
	`)
	assert.Equal(t, "3|0,0|true", v.String())
	assert.Equal(t, "0,0 10,10 20,5", poly.GetAttribute("points"))

	v = run(t, c, `try { poly.points.getItem(3); "no error" } catch (e) { e.name }`)
	assert.Equal(t, "IndexSizeError", v.String())

	run(t, c, `poly.points.removeItem(0); poly.points.insertItemBefore({x: 1, y: 2}, 100)`)
	assert.Equal(t, "10,10 20,5 1,2", poly.GetAttribute("points"))

	v = run(t, c, `document.createElement("circle").points === undefined`)
	assert.True(t, v.ToBoolean())
}

func TestPointListRejectsBadPoints(t *testing.T) {
	doc, c := newScriptDocument(t)
	poly := doc.CreateElement("polyline")
	poly.SetAttribute("points", "0,0")
	_, err := doc.DocumentElement().AsNode().AppendChild(poly.AsNode())
	require.NoError(t, err)
	require.NoError(t, c.Set("poly", poly))

	for _, src := range []string{
		`poly.points.appendItem({})`,
		`poly.points.appendItem({x: 1})`,
		`poly.points.appendItem({x: undefined, y: 2})`,
		`poly.points.appendItem({x: NaN, y: 2})`,
		`poly.points.replaceItem({x: 1, y: Infinity}, 0)`,
		`poly.points.appendItem(3)`,
	} {
		v := run(t, c, `try { `+src+`; "no error" } catch (e) { e instanceof TypeError }`)
		assert.Equal(t, true, v.Export(), src)
	}
	assert.Equal(t, "0,0", poly.GetAttribute("points"))
	assert.Equal(t, 1, svg.Points(poly).Len())
}

func TestNumberAndStringListBindings(t *testing.T) {
	doc, c := newScriptDocument(t)
	text := doc.CreateElement("text")
	text.SetAttribute("rotate", "10 20")
	require.NoError(t, c.Set("text", text))

	v := run(t, c, `
		var r = text.rotate;
		r.replaceItem(15, 0);
		r.initialize(5) + "|" + r.length;
	`)
	assert.Equal(t, "5|1", v.String())
	assert.Equal(t, "5", text.GetAttribute("rotate"))

	_, err := c.Run("nan.js", `text.rotate.appendItem(NaN)`)
	assert.ErrorContains(t, err, "TypeError")

	run(t, c, `text.systemLanguage.appendItem("en"); text.systemLanguage.appendItem("fr")`)
	assert.Equal(t, "en fr", text.GetAttribute("systemLanguage"))
	assert.Equal(t, []string{"en", "fr"}, svg.Strings(text, "systemLanguage").Items())

	run(t, c, `text.systemLanguage.clear()`)
	assert.Zero(t, svg.Strings(text, "systemLanguage").Len())
}

func TestFontFaceBinding(t *testing.T) {
	registry := fonts.NewRegistry()
	require.NoError(t, registry.RegisterGoFonts())
	face := fonts.NewFace("Body")
	face.Weight = 700
	face.AddSource(fonts.NewLocalSource("Go Bold", registry))

	c := NewContext()
	require.NoError(t, c.Set("face", face))

	v := run(t, c, `[face.family, face.weight, face.style, face.status, face.load(), face.status].join("|")`)
	assert.Equal(t, "Body|bold|normal|unloaded|loaded|loaded", v.String())
	assert.Equal(t, fonts.Loaded, face.State())
}
