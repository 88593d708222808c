package js

import (
	"maps"
	"slices"

	"github.com/dop251/goja"
)

// Getter reads a property of a bound object.
type Getter func(c *Context, self any) goja.Value

// Setter writes a property of a bound object.
type Setter func(c *Context, self any, v goja.Value)

// Method implements a callable property of a bound object.
type Method func(c *Context, self any, call goja.FunctionCall) goja.Value

// Class describes how script sees one kind of Go object. Each table is a
// capability: a property listed in Get is readable, in Put writable and in
// Call callable. Properties outside the tables are plain expandos stored on
// the wrapper.
type Class struct {
	Name string
	Get  map[string]Getter
	Put  map[string]Setter
	Call map[string]Method
}

// Extend returns a new class with the receiver's tables plus the given ones.
// Entries in the extension win.
func (cl *Class) Extend(name string, get map[string]Getter, put map[string]Setter, call map[string]Method) *Class {
	out := &Class{
		Name: name,
		Get:  maps.Clone(cl.Get),
		Put:  maps.Clone(cl.Put),
		Call: maps.Clone(cl.Call),
	}
	if out.Get == nil {
		out.Get = make(map[string]Getter)
	}
	if out.Put == nil {
		out.Put = make(map[string]Setter)
	}
	if out.Call == nil {
		out.Call = make(map[string]Method)
	}
	maps.Copy(out.Get, get)
	maps.Copy(out.Put, put)
	maps.Copy(out.Call, call)
	return out
}

// wrapper is the goja.DynamicObject behind every bound object.
type wrapper struct {
	ctx     *Context
	class   *Class
	self    any
	methods map[string]goja.Value
	expando map[string]goja.Value
}

func (w *wrapper) Get(key string) goja.Value {
	if w.ctx.disposed {
		return nil
	}
	if g, ok := w.class.Get[key]; ok {
		return g(w.ctx, w.self)
	}
	if m, ok := w.class.Call[key]; ok {
		if fn, ok := w.methods[key]; ok {
			return fn
		}
		fn := w.ctx.vm.ToValue(func(call goja.FunctionCall) goja.Value {
			return m(w.ctx, w.self, call)
		})
		w.methods[key] = fn
		return fn
	}
	switch key {
	case "toString":
		return w.ctx.vm.ToValue(func(goja.FunctionCall) goja.Value {
			return w.ctx.vm.ToValue("[object " + w.class.Name + "]")
		})
	case "constructor":
		return w.ctx.vm.ToValue(w.class.Name)
	}
	return w.expando[key]
}

func (w *wrapper) Set(key string, val goja.Value) bool {
	if s, ok := w.class.Put[key]; ok {
		s(w.ctx, w.self, val)
		return true
	}
	if _, ok := w.class.Get[key]; ok {
		return false
	}
	if _, ok := w.class.Call[key]; ok {
		return false
	}
	w.expando[key] = val
	return true
}

func (w *wrapper) Has(key string) bool {
	if _, ok := w.class.Get[key]; ok {
		return true
	}
	if _, ok := w.class.Call[key]; ok {
		return true
	}
	_, ok := w.expando[key]
	return ok
}

func (w *wrapper) Delete(key string) bool {
	if _, ok := w.expando[key]; ok {
		delete(w.expando, key)
		return true
	}
	return !w.Has(key)
}

func (w *wrapper) Keys() []string {
	keys := slices.Sorted(maps.Keys(w.class.Get))
	return append(keys, slices.Sorted(maps.Keys(w.expando))...)
}
