package store

import "fmt"

// Ref is a weak reference to a record of another collection. It holds only
// the id; the target is found through that collection's store, so a Ref
// never keeps a record alive or creates an ownership cycle.
type Ref[K comparable] struct {
	ID K
}

// RefTo returns a reference to id.
func RefTo[K comparable](id K) Ref[K] {
	return Ref[K]{ID: id}
}

// String returns the referenced id.
func (r Ref[K]) String() string {
	return fmt.Sprintf("ref(%v)", r.ID)
}

// Resolve returns the instance the reference points to, if it is bound.
func (s *Store[K, R]) Resolve(ref Ref[K]) (*R, bool) {
	return s.Lookup(ref.ID)
}
