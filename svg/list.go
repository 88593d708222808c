// Package svg implements the ordered item lists behind SVG list attributes
// such as points, rotate and systemLanguage.
package svg

import (
	"iter"
	"slices"
)

// List is an ordered, index-addressable list of items owned by an element.
//
// Index-based accessors never fail: an index outside [0, Len()) yields the
// list's null item. Lookup is the explicit variant that also reports whether
// the index was valid.
//
// Every mutation calls the owner's change callback after the list has been
// updated. List is not safe for concurrent use.
type List[T any] struct {
	items    []T
	null     T
	equal    func(a, b T) bool
	onChange func()
}

// NewList returns an empty list whose null item is the zero value of T.
func NewList[T comparable]() *List[T] {
	var zero T
	return NewListFunc(zero, func(a, b T) bool { return a == b })
}

// NewListFunc returns an empty list with an explicit null item and equality
// function, for item types that are not comparable.
func NewListFunc[T any](null T, equal func(a, b T) bool) *List[T] {
	return &List[T]{null: null, equal: equal}
}

// SetOnChange sets the owner callback run after every mutation.
func (l *List[T]) SetOnChange(fn func()) {
	l.onChange = fn
}

// Null returns the item returned for out-of-range indices.
func (l *List[T]) Null() T {
	return l.null
}

// Len returns the number of items.
func (l *List[T]) Len() int {
	return len(l.items)
}

// Clear removes all items.
func (l *List[T]) Clear() {
	clear(l.items)
	l.items = l.items[:0]
	l.changed()
}

// Initialize replaces the contents of the list with the single item.
func (l *List[T]) Initialize(item T) T {
	l.items = append(l.items[:0], item)
	l.changed()
	return item
}

// First returns the first item, or the null item when the list is empty.
func (l *List[T]) First() T {
	return l.Item(0)
}

// Last returns the last item, or the null item when the list is empty.
func (l *List[T]) Last() T {
	return l.Item(len(l.items) - 1)
}

// Item returns the item at index, or the null item when index is out of
// range.
func (l *List[T]) Item(index int) T {
	item, _ := l.Lookup(index)
	return item
}

// Lookup returns the item at index and whether index was in range.
func (l *List[T]) Lookup(index int) (T, bool) {
	if !l.inRange(index) {
		return l.null, false
	}
	return l.items[index], true
}

// InsertBefore inserts item before index. An index at or past the end
// appends; a negative index inserts at the front.
func (l *List[T]) InsertBefore(item T, index int) T {
	index = min(max(index, 0), len(l.items))
	l.items = slices.Insert(l.items, index, item)
	l.changed()
	return item
}

// Replace replaces the item at index and returns the new item. When index is
// out of range nothing changes and the null item is returned.
func (l *List[T]) Replace(item T, index int) T {
	if !l.inRange(index) {
		return l.null
	}
	l.items[index] = item
	l.changed()
	return item
}

// RemoveAt removes and returns the item at index. Later items shift left.
// When index is out of range nothing changes and the null item is returned.
func (l *List[T]) RemoveAt(index int) T {
	if !l.inRange(index) {
		return l.null
	}
	item := l.items[index]
	l.items = slices.Delete(l.items, index, index+1)
	l.changed()
	return item
}

// RemoveValue removes the first item equal to item and reports whether one
// was found.
func (l *List[T]) RemoveValue(item T) bool {
	i := slices.IndexFunc(l.items, func(cur T) bool { return l.equal(cur, item) })
	if i < 0 {
		return false
	}
	l.RemoveAt(i)
	return true
}

// Append adds item to the end of the list and returns it.
func (l *List[T]) Append(item T) T {
	l.items = append(l.items, item)
	l.changed()
	return item
}

// Items returns a copy of the items.
func (l *List[T]) Items() []T {
	return slices.Clone(l.items)
}

// All iterates over index/item pairs.
func (l *List[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range l.items {
			if !yield(i, item) {
				return
			}
		}
	}
}

// Release drops all items without notifying the owner. Lists bound to an
// element attribute live as long as the element and are reclaimed with it by
// the garbage collector; Release is for owners that drop a list while still
// holding it.
func (l *List[T]) Release() {
	clear(l.items)
	l.items = nil
}

// reset installs items without notifying the owner.
func (l *List[T]) reset(items []T) {
	l.items = items
}

func (l *List[T]) inRange(index int) bool {
	return index >= 0 && index < len(l.items)
}

func (l *List[T]) changed() {
	if l.onChange != nil {
		l.onChange()
	}
}
