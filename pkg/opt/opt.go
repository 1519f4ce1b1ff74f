// Package opt provides a tagged optional value.
//
// A Value is either unset or set to a value of T. Unlike a sentinel such as
// -1 or "", an unset Value can always be told apart from a set zero value,
// which is how record fields express "key absent from the payload".
package opt

import "fmt"

// Value holds an optional value of type T. The zero Value is unset.
type Value[T any] struct {
	v  T
	ok bool
}

// Some returns a set Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, ok: true}
}

// None returns an unset Value.
func None[T any]() Value[T] {
	return Value[T]{}
}

// IsSet reports whether the value is set.
func (o Value[T]) IsSet() bool { return o.ok }

// Get returns the value and whether it is set.
func (o Value[T]) Get() (T, bool) { return o.v, o.ok }

// Or returns the value if set, otherwise def.
func (o Value[T]) Or(def T) T {
	if o.ok {
		return o.v
	}
	return def
}

// Set stores v and marks the value set.
func (o *Value[T]) Set(v T) {
	o.v = v
	o.ok = true
}

// Clear marks the value unset.
func (o *Value[T]) Clear() {
	var zero T
	o.v = zero
	o.ok = false
}

// Equal compares two values with eq. Two unset values are equal; a set and an
// unset value never are.
func (o Value[T]) Equal(other Value[T], eq func(a, b T) bool) bool {
	if o.ok != other.ok {
		return false
	}
	if !o.ok {
		return true
	}
	return eq(o.v, other.v)
}

// String returns the value formatted with %v, or "<unset>".
func (o Value[T]) String() string {
	if !o.ok {
		return "<unset>"
	}
	return fmt.Sprintf("%v", o.v)
}
