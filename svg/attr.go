package svg

import "github.com/chrisuehlinger/vibedom/dom"

// boundList keeps a List and an element attribute in sync. List mutations
// serialize into the attribute; attribute writes from elsewhere reparse into
// the list without notifying the owner.
type boundList[T any] struct {
	list    *List[T]
	el      *dom.Element
	attr    string
	parse   func(string) ([]T, error)
	format  func([]T) string
	syncing bool
}

func bind[T comparable](el *dom.Element, attr, kind string, parse func(string) ([]T, error), format func([]T) string) *List[T] {
	v := el.Extension("svg."+kind+"."+attr, func() any {
		b := &boundList[T]{
			list:   NewList[T](),
			el:     el,
			attr:   attr,
			parse:  parse,
			format: format,
		}
		b.reload(el.GetAttribute(attr))
		b.list.SetOnChange(b.commit)
		el.WatchAttribute(attr, func(value string, present bool) {
			if b.syncing {
				return
			}
			b.reload(value)
		})
		return b
	})
	return v.(*boundList[T]).list
}

// reload replaces the list contents with the parsed attribute value. A value
// in error leaves the list empty.
func (b *boundList[T]) reload(value string) {
	items, err := b.parse(value)
	if err != nil {
		items = nil
	}
	b.list.reset(items)
}

func (b *boundList[T]) commit() {
	b.syncing = true
	defer func() { b.syncing = false }()
	b.el.SetAttribute(b.attr, b.format(b.list.items))
}

// Points returns the list bound to the element's points attribute
// (SVGPointList of polyline and polygon).
func Points(el *dom.Element) *List[Point] {
	return bind(el, "points", "points", ParsePoints, FormatPoints)
}

// Numbers returns the SVGNumberList bound to the named attribute, for
// example rotate on text elements.
func Numbers(el *dom.Element, attr string) *List[float64] {
	return bind(el, attr, "numbers", ParseNumbers, FormatNumbers)
}

// Strings returns the SVGStringList bound to the named attribute, for
// example requiredExtensions or systemLanguage.
func Strings(el *dom.Element, attr string) *List[string] {
	return bind(el, attr, "strings", ParseStrings, FormatStrings)
}
