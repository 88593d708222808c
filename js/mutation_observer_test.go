package js

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMutationObserverCharacterData(t *testing.T) {
	_, c := newScriptDocument(t)

	run(t, c, `
		var seen = [];
		var t = document.createTextNode("abc");
		document.body.appendChild(t);
		var mo = new MutationObserver(function (records, observer) {
			records.forEach(function (r) {
				seen.push([r.type, r.target === t, r.oldValue, observer === mo].join(":"));
			});
		});
		mo.observe(document.body, {characterDataOldValue: true, subtree: true});
		t.appendData("d");
		t.replaceData(0, 1, "X");
	`)
	v := run(t, c, `seen.join("|")`)
	assert.Equal(t, "characterData:true:abc:true|characterData:true:abcd:true", v.String())
}

func TestMutationObserverChildList(t *testing.T) {
	_, c := newScriptDocument(t)

	run(t, c, `
		var seen = [];
		var mo = new MutationObserver(function (records) {
			records.forEach(function (r) {
				seen.push(r.type + ":" + r.addedNodes.length + ":" + r.removedNodes.length + ":" + r.oldValue);
			});
		});
		mo.observe(document.body, {childList: true});
		var p = document.createElement("p");
		document.body.appendChild(p);
		p.appendChild(document.createTextNode("not observed"));
		document.body.removeChild(p);
	`)
	v := run(t, c, `seen.join("|")`)
	assert.Equal(t, "childList:1:0:null|childList:0:1:null", v.String())
}

func TestMutationObserverTakeRecordsAndDisconnect(t *testing.T) {
	doc, c := newScriptDocument(t)

	v := run(t, c, `
		var calls = 0;
		var t = document.createTextNode("abc");
		document.body.appendChild(t);
		var mo = new MutationObserver(function () { calls++; });
		mo.observe(t, {characterData: true});
		t.data = "xyz";
		var taken = mo.takeRecords();
		taken.length + ":" + taken[0].type + ":" + taken[0].oldValue;
	`)
	assert.Equal(t, "1:characterData:null", v.String())
	assert.Equal(t, int64(0), run(t, c, `calls`).ToInteger())

	texts := doc.TextNodes()
	require.Len(t, texts, 1)
	require.NoError(t, texts[0].AsCharacterData().InsertData(0, ">"))
	c.DeliverMutations()
	assert.Equal(t, int64(1), run(t, c, `calls`).ToInteger())

	run(t, c, `mo.disconnect(); t.data = "gone";`)
	assert.Equal(t, int64(1), run(t, c, `calls`).ToInteger())
}

func TestMutationObserverAttributeFilter(t *testing.T) {
	_, c := newScriptDocument(t)

	run(t, c, `
		var seen = [];
		var mo = new MutationObserver(function (records) {
			records.forEach(function (r) { seen.push(r.attributeName + "=" + r.oldValue); });
		});
		mo.observe(document.body, {attributeFilter: ["id"], attributeOldValue: true});
		document.body.setAttribute("class", "ignored");
		document.body.id = "first";
		document.body.id = "second";
	`)
	v := run(t, c, `seen.join("|")`)
	assert.Equal(t, "id=null|id=first", v.String())
}

func TestMutationObserverMergesRegistrations(t *testing.T) {
	_, c := newScriptDocument(t)

	for i := 0; i < 8; i++ {
		run(t, c, `
			var t = document.createTextNode("abc");
			document.body.appendChild(t);
			var mo = new MutationObserver(function () {});
			mo.observe(document.body, {characterData: true, subtree: true});
			mo.observe(t, {characterDataOldValue: true});
			t.appendData("d");
			var seen = mo.takeRecords().map(function (r) { return r.oldValue; });
			mo.disconnect();
			document.body.removeChild(t);
		`)
		v := run(t, c, `seen.length + ":" + seen[0]`)
		assert.Equal(t, "1:abc", v.String())
	}
}

func TestMutationObserverEmptyOldValue(t *testing.T) {
	_, c := newScriptDocument(t)

	run(t, c, `
		var seen = [];
		var t = document.createTextNode("");
		document.body.appendChild(t);
		document.body.setAttribute("title", "");
		var mo = new MutationObserver(function (records) {
			records.forEach(function (r) { seen.push(r.type + "=" + JSON.stringify(r.oldValue)); });
		});
		mo.observe(document.body, {characterDataOldValue: true, attributeOldValue: true, subtree: true});
		t.appendData("x");
		document.body.setAttribute("title", "set");
		document.body.setAttribute("lang", "en");
	`)
	v := run(t, c, `seen.join("|")`)
	assert.Equal(t, `characterData=""|attributes=""|attributes=null`, v.String())
}

func TestMutationObserverOptionErrors(t *testing.T) {
	_, c := newScriptDocument(t)

	run(t, c, `var mo = new MutationObserver(function () {});`)
	for _, src := range []string{
		`mo.observe(document.body, {})`,
		`mo.observe(document.body)`,
		`mo.observe(document.body, {attributes: false, attributeOldValue: true})`,
		`mo.observe(document.body, {characterData: false, characterDataOldValue: true})`,
		`mo.observe({}, {childList: true})`,
		`new MutationObserver(42)`,
	} {
		_, err := c.Run("options.js", src)
		assert.ErrorContains(t, err, "TypeError", src)
	}
}

func TestMutationObserverCallbackError(t *testing.T) {
	_, c := newScriptDocument(t)

	_, err := c.Run("throwing.js", `
		var mo = new MutationObserver(function () { throw new Error("callback failed"); });
		mo.observe(document.body, {childList: true});
		document.body.appendChild(document.createTextNode("x"));
	`)
	require.NoError(t, err)
	errs := c.Errors()
	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "callback failed")
}
