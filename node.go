// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package concurrent

import (
	"reflect"
	"sync/atomic"
)

// node is the linked-list carrier shared by MPSC and MPMC. element is nulled
// out on consumption or removal; next is published with release semantics
// via Swap/Store and observed with acquire semantics via Load, matching the
// ordering the two queue implementations require of each other.
type node[E any] struct {
	element atomic.Pointer[E]
	next    atomic.Pointer[node[E]]
}

// isNilElement reports whether x is a nil-able value (pointer, interface,
// map, slice, func or chan) currently holding nil. Non-nilable kinds, such
// as numbers and structs, never count as nil.
func isNilElement[E any](x E) bool {
	v := reflect.ValueOf(x)
	if !v.IsValid() {
		// x's static type E is itself an interface (error, any, ...) and x
		// held a true nil interface value, which reflect.ValueOf cannot
		// re-box with a concrete Kind.
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v.IsNil()
	default:
		return false
	}
}

func newNode[E any](e E) *node[E] {
	n := &node[E]{}
	n.element.Store(&e)
	return n
}

func (n *node[E]) get() (E, bool) {
	p := n.element.Load()
	if p == nil {
		var zero E
		return zero, false
	}
	return *p, true
}

// clear nulls the element, marking the node a tombstone.
func (n *node[E]) clear() (E, bool) {
	p := n.element.Swap(nil)
	if p == nil {
		var zero E
		return zero, false
	}
	return *p, true
}

// casElementIf atomically clears the element if it currently equals want,
// as judged by eq. Used by MPMC.Remove.
func (n *node[E]) casElementIf(eq func(a, b E) bool, want E) bool {
	for {
		p := n.element.Load()
		if p == nil {
			return false
		}
		if !eq(*p, want) {
			return false
		}
		if n.element.CompareAndSwap(p, nil) {
			return true
		}
	}
}
