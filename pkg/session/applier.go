package session

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Outcome is the type-erased form of Result.
type Outcome struct {
	ID      any
	Created bool
	Changes []string
	Issues  error
}

// Applier is the type-erased view of a Collection, for callers that pick
// collections by name at runtime.
type Applier interface {
	Name() string
	ApplyPayload(p wire.Payload) (Outcome, error)
	Snapshot() []wire.Payload
	Len() int
	Clear()
}

// ApplyPayload is Apply without the record type.
func (c *Collection[K, R]) ApplyPayload(p wire.Payload) (Outcome, error) {
	res, err := c.Apply(p)
	if err != nil {
		return Outcome{Issues: res.Issues}, err
	}
	return Outcome{
		ID:      res.ID,
		Created: res.Created,
		Changes: res.Changes.Paths(),
		Issues:  res.Issues,
	}, nil
}

// Snapshot encodes every live record, ordered by formatted id.
func (c *Collection[K, R]) Snapshot() []wire.Payload {
	type item struct {
		key string
		p   wire.Payload
	}
	var items []item
	c.store.Range(func(id K, r *R) bool {
		items = append(items, item{key: fmt.Sprint(id), p: c.table.Encode(r)})
		return true
	})
	slices.SortFunc(items, func(a, b item) int { return cmp.Compare(a.key, b.key) })
	out := make([]wire.Payload, len(items))
	for i, it := range items {
		out[i] = it.p
	}
	return out
}

var _ Applier = (*Collection[int, struct{}])(nil)
