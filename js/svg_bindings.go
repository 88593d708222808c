package js

import (
	"math"

	"github.com/dop251/goja"

	"github.com/chrisuehlinger/vibedom/svg"
)

var (
	numberListClass *Class
	pointListClass  *Class
	stringListClass *Class
)

func init() {
	numberListClass = newListClass("SVGNumberList",
		func(c *Context, v float64) goja.Value { return c.vm.ToValue(v) },
		finiteFloat,
	)
	pointListClass = newListClass("SVGPointList",
		func(c *Context, p svg.Point) goja.Value {
			obj := c.vm.NewObject()
			obj.Set("x", p.X)
			obj.Set("y", p.Y)
			return obj
		},
		func(c *Context, v goja.Value) svg.Point {
			obj, ok := v.(*goja.Object)
			if !ok {
				panic(c.vm.NewTypeError("parameter 1 is not of type 'SVGPoint'"))
			}
			coord := func(name string) float64 {
				v := obj.Get(name)
				if v == nil || goja.IsUndefined(v) {
					panic(c.vm.NewTypeError("parameter 1 is not of type 'SVGPoint'"))
				}
				return finiteFloat(c, v)
			}
			return svg.Point{X: coord("x"), Y: coord("y")}
		},
	)
	stringListClass = newListClass("SVGStringList",
		func(c *Context, s string) goja.Value { return c.vm.ToValue(s) },
		func(c *Context, v goja.Value) string { return v.String() },
	)
}

func finiteFloat(c *Context, v goja.Value) float64 {
	f := v.ToFloat()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		panic(c.vm.NewTypeError("The provided float value is non-finite."))
	}
	return f
}

// newListClass binds an svg.List with the SVG list interface. Index
// arguments are unsigned long; accessing an index outside the list throws
// IndexSizeError.
func newListClass[T comparable](name string, toJS func(*Context, T) goja.Value, fromJS func(*Context, goja.Value) T) *Class {
	list := func(self any) *svg.List[T] {
		return self.(*svg.List[T])
	}
	index := func(c *Context, call goja.FunctionCall, i int) int {
		return int(toUint32(call.Argument(i)))
	}
	// checked returns the index argument, throwing when it is out of range.
	checked := func(c *Context, l *svg.List[T], call goja.FunctionCall, i int) int {
		idx := index(c, call, i)
		if _, ok := l.Lookup(idx); !ok {
			c.throwIndexSizeError()
		}
		return idx
	}
	count := func(c *Context, self any) goja.Value {
		return c.vm.ToValue(list(self).Len())
	}

	return &Class{
		Name: name,
		Get: map[string]Getter{
			"numberOfItems": count,
			"length":        count,
		},
		Call: map[string]Method{
			"clear": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				list(self).Clear()
				return goja.Undefined()
			},
			"initialize": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "initialize")
				return toJS(c, list(self).Initialize(fromJS(c, call.Arguments[0])))
			},
			"getItem": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "getItem")
				l := list(self)
				return toJS(c, l.Item(checked(c, l, call, 0)))
			},
			"insertItemBefore": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 2, "insertItemBefore")
				item := fromJS(c, call.Arguments[0])
				return toJS(c, list(self).InsertBefore(item, index(c, call, 1)))
			},
			"replaceItem": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 2, "replaceItem")
				l := list(self)
				item := fromJS(c, call.Arguments[0])
				return toJS(c, l.Replace(item, checked(c, l, call, 1)))
			},
			"removeItem": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "removeItem")
				l := list(self)
				return toJS(c, l.RemoveAt(checked(c, l, call, 0)))
			},
			"appendItem": func(c *Context, self any, call goja.FunctionCall) goja.Value {
				c.requireArgs(call, 1, "appendItem")
				return toJS(c, list(self).Append(fromJS(c, call.Arguments[0])))
			},
		},
	}
}
