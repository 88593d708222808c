package js

import (
	"slices"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/vibedom/dom"
)

// observerOptions holds the options passed to MutationObserver.observe.
type observerOptions struct {
	childList             bool
	attributes            bool
	characterData         bool
	subtree               bool
	attributeOldValue     bool
	characterDataOldValue bool
	attributeFilter       []string
}

func (o *observerOptions) matches(r *dom.MutationRecord) bool {
	switch r.Type {
	case dom.MutationChildList:
		return o.childList
	case dom.MutationAttributes:
		return o.attributes && (o.attributeFilter == nil || slices.Contains(o.attributeFilter, r.AttributeName))
	case dom.MutationCharacterData:
		return o.characterData
	}
	return false
}

// mutationObserver queues the records of the nodes it observes and hands
// them to its callback when the context delivers mutations.
type mutationObserver struct {
	callback goja.Callable
	targets  map[*dom.Node]*observerOptions
	docs     map[*dom.Document]bool
	pending  []*dom.MutationRecord
}

// OnChildrenChanged implements dom.MutationCallback.
func (mo *mutationObserver) OnChildrenChanged(*dom.Node) {}

// OnMutation implements dom.MutationCallback. Every registration that
// matches contributes to a single record, which carries the old value if
// any of them asked for it.
func (mo *mutationObserver) OnMutation(r *dom.MutationRecord) {
	matched, wantOld := false, false
	for target, opts := range mo.targets {
		if target != r.Target && !(opts.subtree && target.Contains(r.Target)) {
			continue
		}
		if !opts.matches(r) {
			continue
		}
		matched = true
		if (r.Type == dom.MutationAttributes && opts.attributeOldValue) ||
			(r.Type == dom.MutationCharacterData && opts.characterDataOldValue) {
			wantOld = true
		}
	}
	if !matched {
		return
	}
	record := *r
	if !wantOld {
		record.OldValue = ""
		record.HasOldValue = false
	}
	mo.pending = append(mo.pending, &record)
}

func (mo *mutationObserver) observe(target *dom.Node, opts *observerOptions) {
	mo.targets[target] = opts
	doc := target.AsDocument()
	if doc == nil {
		doc = target.OwnerDocument()
	}
	if doc != nil && !mo.docs[doc] {
		mo.docs[doc] = true
		doc.RegisterMutationCallback(mo)
	}
}

func (mo *mutationObserver) disconnect() {
	for doc := range mo.docs {
		doc.UnregisterMutationCallback(mo)
	}
	clear(mo.docs)
	clear(mo.targets)
	mo.pending = nil
}

func (mo *mutationObserver) takeRecords() []*dom.MutationRecord {
	records := mo.pending
	mo.pending = nil
	return records
}

// DeliverMutations invokes the callbacks of every observer with queued
// records until none are left. Run calls it after each script.
func (c *Context) DeliverMutations() {
	for {
		delivered := false
		for _, mo := range c.observers {
			records := mo.takeRecords()
			if len(records) == 0 {
				continue
			}
			delivered = true
			if _, err := mo.callback(goja.Undefined(), c.wrapRecords(records), c.Wrap(mo)); err != nil {
				c.recordError(err)
			}
		}
		if !delivered {
			return
		}
	}
}

func (c *Context) wrapRecords(records []*dom.MutationRecord) goja.Value {
	items := make([]any, len(records))
	for i, r := range records {
		obj := c.vm.NewObject()
		obj.Set("type", r.Type)
		obj.Set("target", c.Wrap(r.Target))
		obj.Set("addedNodes", c.wrapNodes(r.AddedNodes))
		obj.Set("removedNodes", c.wrapNodes(r.RemovedNodes))
		obj.Set("previousSibling", c.Wrap(r.PreviousSibling))
		obj.Set("nextSibling", c.Wrap(r.NextSibling))
		obj.Set("attributeName", c.stringOrNull(r.AttributeName))
		if r.HasOldValue {
			obj.Set("oldValue", r.OldValue)
		} else {
			obj.Set("oldValue", goja.Null())
		}
		items[i] = obj
	}
	return c.vm.NewArray(items...)
}

func (c *Context) stringOrNull(s string) goja.Value {
	if s == "" {
		return goja.Null()
	}
	return c.vm.ToValue(s)
}

func (c *Context) setupMutationObserver() {
	c.vm.Set("MutationObserver", func(call goja.ConstructorCall) *goja.Object {
		callback, ok := goja.AssertFunction(call.Argument(0))
		if !ok {
			panic(c.vm.NewTypeError("MutationObserver requires a callback function"))
		}
		mo := &mutationObserver{
			callback: callback,
			targets:  make(map[*dom.Node]*observerOptions),
			docs:     make(map[*dom.Document]bool),
		}
		c.observers = append(c.observers, mo)
		return c.Wrap(mo).(*goja.Object)
	})
}

// parseObserverOptions applies the MutationObserverInit defaulting rules.
func (c *Context) parseObserverOptions(v goja.Value) *observerOptions {
	opts := &observerOptions{}
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		panic(c.vm.NewTypeError("The options object must set at least one of 'attributes', 'characterData', or 'childList' to true."))
	}
	obj := v.ToObject(c.vm)
	get := func(name string) (bool, bool) {
		p := obj.Get(name)
		if p == nil || goja.IsUndefined(p) {
			return false, false
		}
		return p.ToBoolean(), true
	}

	opts.childList, _ = get("childList")
	opts.subtree, _ = get("subtree")
	opts.attributeOldValue, _ = get("attributeOldValue")
	opts.characterDataOldValue, _ = get("characterDataOldValue")
	attributes, attributesSet := get("attributes")
	characterData, characterDataSet := get("characterData")

	if filter := obj.Get("attributeFilter"); filter != nil && !goja.IsUndefined(filter) {
		var names []string
		if err := c.vm.ExportTo(filter, &names); err != nil {
			panic(c.vm.NewTypeError("attributeFilter must be a sequence of strings"))
		}
		opts.attributeFilter = append([]string{}, names...)
	}

	if !attributesSet && (opts.attributeOldValue || opts.attributeFilter != nil) {
		attributes = true
	}
	if !characterDataSet && opts.characterDataOldValue {
		characterData = true
	}
	opts.attributes = attributes
	opts.characterData = characterData

	switch {
	case !opts.childList && !opts.attributes && !opts.characterData:
		panic(c.vm.NewTypeError("The options object must set at least one of 'attributes', 'characterData', or 'childList' to true."))
	case opts.attributeOldValue && !opts.attributes:
		panic(c.vm.NewTypeError("The options object may only set 'attributeOldValue' to true when 'attributes' is true or not present."))
	case opts.attributeFilter != nil && !opts.attributes:
		panic(c.vm.NewTypeError("The options object may only set 'attributeFilter' when 'attributes' is true or not present."))
	case opts.characterDataOldValue && !opts.characterData:
		panic(c.vm.NewTypeError("The options object may only set 'characterDataOldValue' to true when 'characterData' is true or not present."))
	}
	return opts
}

var mutationObserverClass *Class

func init() {
	observer := func(self any) *mutationObserver {
		return self.(*mutationObserver)
	}
	mutationObserverClass = &Class{
		Name: "MutationObserver",
		Call: map[string]Method{
			"observe": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				target := c.nodeArg(call, 0, "observe")
				observer(self).observe(target, c.parseObserverOptions(call.Argument(1)))
				return goja.Undefined()
			},
			"disconnect": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				observer(self).disconnect()
				return goja.Undefined()
			},
			"takeRecords": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				return c.wrapRecords(observer(self).takeRecords())
			},
		},
	}
}
