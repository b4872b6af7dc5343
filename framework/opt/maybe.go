// Package opt holds an optional value for settings such as per-call timeouts, where the
// zero value is itself a legal setting and cannot mean "unset".
package opt

import "fmt"

// Maybe is either empty or holds one value.
type Maybe[V any] struct {
	set bool
	v   V
}

// Some returns a Maybe holding v.
func Some[V any](v V) Maybe[V] { return Maybe[V]{set: true, v: v} }

// None returns an empty Maybe.
func None[V any]() Maybe[V] { return Maybe[V]{} }

func (m Maybe[V]) IsDefined() bool { return m.set }

// Value is the held value, or the zero V when empty.
func (m Maybe[V]) Value() V { return m.v }

// OrElse is the held value, or fallback when empty.
func (m Maybe[V]) OrElse(fallback V) V {
	if !m.set {
		return fallback
	}
	return m.v
}

func (m Maybe[V]) String() string {
	if !m.set {
		return "unset"
	}
	return fmt.Sprint(m.v)
}
