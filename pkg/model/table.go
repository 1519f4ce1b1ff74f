package model

import (
	"fmt"

	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Table is the ordered list of field declarations of one record type. It
// drives decoding, encoding, comparing and syncing R.
//
// A Table is immutable after NewTable and safe for concurrent use.
type Table[R any] struct {
	name   string
	fields []Field[R]
	index  map[string]Field[R]
}

// NewTable builds a table from fields in declaration order. It panics if
// two fields share a wire key.
func NewTable[R any](name string, fields ...Field[R]) *Table[R] {
	t := &Table[R]{
		name:   name,
		fields: fields,
		index:  make(map[string]Field[R], len(fields)),
	}
	for _, f := range fields {
		if _, dup := t.index[f.Key()]; dup {
			panic(fmt.Sprintf("model: table %s: duplicate field %q", name, f.Key()))
		}
		t.index[f.Key()] = f
	}
	return t
}

// Name returns the table name used in errors and logs.
func (t *Table[R]) Name() string { return t.name }

// Fields returns the fields in declaration order.
func (t *Table[R]) Fields() []Field[R] {
	out := make([]Field[R], len(t.fields))
	copy(out, t.fields)
	return out
}

// Field returns the field with the given wire key.
func (t *Table[R]) Field(key string) (Field[R], bool) {
	f, ok := t.index[key]
	return f, ok
}

// Identity returns the identity fields in declaration order.
func (t *Table[R]) Identity() []Field[R] {
	var out []Field[R]
	for _, f := range t.fields {
		if f.IsIdentity() {
			out = append(out, f)
		}
	}
	return out
}

// Decode builds a new record from a payload. Unknown keys are ignored and
// absent or null keys leave their fields unset.
//
// If the payload lacks an identity field, Decode returns nil and a fatal
// *DecodeError. Otherwise the record is returned together with a
// *DecodeError listing any fields that were dropped or only partially
// understood, or nil when the payload was clean.
func (t *Table[R]) Decode(p wire.Payload) (*R, error) {
	d := &decoder{}
	r, ok := t.decodeObject(p, "", d)
	if !ok {
		return nil, d.err(t.name)
	}
	return r, d.err(t.name)
}

func (t *Table[R]) decodeObject(p wire.Payload, prefix string, d *decoder) (*R, bool) {
	r := new(R)
	if !t.decodeInto(r, p, prefix, d) {
		return nil, false
	}
	return r, true
}

// decodeInto walks the fields of r. It returns false if an identity field
// is absent or unusable.
func (t *Table[R]) decodeInto(r *R, p wire.Payload, prefix string, d *decoder) bool {
	ok := true
	for _, f := range t.fields {
		path := joinPath(prefix, f.Key())
		raw, present := p.Lookup(f.Key())
		if !present {
			if f.IsIdentity() {
				d.report(path, nil, ErrMissingIdentity)
				ok = false
			}
			continue
		}
		if !f.decode(r, raw, path, d) && f.IsIdentity() {
			d.report(path, raw, ErrMissingIdentity)
			ok = false
		}
	}
	return ok
}

// Equal reports whether a and b hold equal values for every field. Unset
// equals unset and never equals a set value. Two nil records are equal.
func (t *Table[R]) Equal(a, b *R) bool {
	if a == nil || b == nil {
		return a == b
	}
	for _, f := range t.fields {
		if !f.equal(a, b) {
			return false
		}
	}
	return true
}

// FieldEqual compares a single field of a and b.
func (t *Table[R]) FieldEqual(key string, a, b *R) (bool, error) {
	f, ok := t.index[key]
	if !ok {
		return false, fmt.Errorf("%s.%s: %w", t.name, key, ErrUnknownField)
	}
	return f.equal(a, b), nil
}

// Sync copies every set field of incoming into existing where the values
// differ and returns the paths written. Fields unset in incoming are left
// alone, so a partial record acts as a patch.
//
// Sync is idempotent: syncing the same incoming record twice yields an
// empty ChangeSet the second time.
func (t *Table[R]) Sync(existing, incoming *R) ChangeSet {
	var cs ChangeSet
	if existing == nil || incoming == nil {
		return cs
	}
	t.syncInto(existing, incoming, "", &cs)
	return cs
}

func (t *Table[R]) syncInto(dst, src *R, prefix string, cs *ChangeSet) {
	for _, f := range t.fields {
		f.sync(dst, src, joinPath(prefix, f.Key()), cs)
	}
}

// Patch decodes a partial payload and syncs it into dst. Identity fields
// need not be present and are never written: a present identity that
// differs from dst is reported as ErrIdentityMismatch. The returned error
// carries the decode issues, if any; the ChangeSet is valid either way.
func (t *Table[R]) Patch(dst *R, p wire.Payload) (ChangeSet, error) {
	var cs ChangeSet
	d := &decoder{}
	src := new(R)
	for _, f := range t.fields {
		raw, present := p.Lookup(f.Key())
		if !present {
			continue
		}
		if !f.decode(src, raw, f.Key(), d) {
			continue
		}
		if f.IsIdentity() {
			if dst != nil && !f.equal(dst, src) {
				d.report(f.Key(), raw, ErrIdentityMismatch)
			}
			continue
		}
		if dst != nil {
			f.sync(dst, src, f.Key(), &cs)
		}
	}
	return cs, d.err(t.name)
}

// Encode renders the set fields of r as a payload. Unrecognized enum
// values are omitted.
func (t *Table[R]) Encode(r *R) wire.Payload {
	p := wire.Payload{}
	if r == nil {
		return p
	}
	for _, f := range t.fields {
		if f.IsSet(r) {
			f.encode(r, p)
		}
	}
	return p
}

// Populated lists the top-level keys set on r, in declaration order. It
// describes a freshly created record as a ChangeSet.
func (t *Table[R]) Populated(r *R) ChangeSet {
	var cs ChangeSet
	if r == nil {
		return cs
	}
	for _, f := range t.fields {
		if f.IsSet(r) {
			cs.add(f.Key())
		}
	}
	return cs
}
