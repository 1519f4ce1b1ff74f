package model

import (
	"fmt"

	"github.com/peoplepower/ppsync-go/pkg/bag"
	"github.com/peoplepower/ppsync-go/pkg/opt"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// RecordField is an owned nested record. A nil pointer means absent.
type RecordField[R, C any] struct {
	key   string
	get   func(*R) **C
	table *Table[C]
}

// Record declares a nested record decoded with its own table.
func Record[R, C any](key string, get func(*R) **C, table *Table[C]) *RecordField[R, C] {
	return &RecordField[R, C]{key: key, get: get, table: table}
}

func (f *RecordField[R, C]) Key() string      { return f.key }
func (f *RecordField[R, C]) Kind() Kind       { return KindRecord }
func (f *RecordField[R, C]) IsIdentity() bool { return false }
func (f *RecordField[R, C]) IsSet(r *R) bool  { return *f.get(r) != nil }

// Table returns the nested record's table.
func (f *RecordField[R, C]) Table() *Table[C] { return f.table }

func (f *RecordField[R, C]) decode(r *R, raw any, path string, d *decoder) bool {
	obj, err := wire.ToObject(raw)
	if err != nil {
		d.report(path, raw, err)
		return false
	}
	child, ok := f.table.decodeObject(obj, path, d)
	if !ok {
		d.report(path, nil, ErrNestedDecode)
		return false
	}
	*f.get(r) = child
	return true
}

func (f *RecordField[R, C]) equal(a, b *R) bool {
	return f.table.Equal(*f.get(a), *f.get(b))
}

func (f *RecordField[R, C]) sync(dst, src *R, path string, cs *ChangeSet) {
	in := *f.get(src)
	if in == nil {
		return
	}
	cur := f.get(dst)
	if *cur == nil {
		*cur = in
		cs.add(path)
		return
	}
	f.table.syncInto(*cur, in, path, cs)
}

func (f *RecordField[R, C]) encode(r *R, p wire.Payload) {
	if c := *f.get(r); c != nil {
		p[f.key] = map[string]any(f.table.Encode(c))
	}
}

// RecordsField is an owned, ordered array of nested records.
type RecordsField[R, C any] struct {
	key   string
	get   func(*R) *opt.Value[[]*C]
	table *Table[C]
}

// Records declares an array of nested records. Elements that fail to
// decode are dropped and reported; sync aligns elements by position.
func Records[R, C any](key string, get func(*R) *opt.Value[[]*C], table *Table[C]) *RecordsField[R, C] {
	return &RecordsField[R, C]{key: key, get: get, table: table}
}

func (f *RecordsField[R, C]) Key() string      { return f.key }
func (f *RecordsField[R, C]) Kind() Kind       { return KindRecords }
func (f *RecordsField[R, C]) IsIdentity() bool { return false }
func (f *RecordsField[R, C]) IsSet(r *R) bool  { return f.get(r).IsSet() }

// Table returns the element table.
func (f *RecordsField[R, C]) Table() *Table[C] { return f.table }

func (f *RecordsField[R, C]) decode(r *R, raw any, path string, d *decoder) bool {
	arr, err := wire.ToArray(raw)
	if err != nil {
		d.report(path, raw, err)
		return false
	}
	out := make([]*C, 0, len(arr))
	for i, elem := range arr {
		ep := indexPath(path, i)
		obj, err := wire.ToObject(elem)
		if err != nil {
			d.report(ep, elem, fmt.Errorf("%w: %w", ErrNestedDecode, err))
			continue
		}
		child, ok := f.table.decodeObject(obj, ep, d)
		if !ok {
			d.report(ep, nil, ErrNestedDecode)
			continue
		}
		out = append(out, child)
	}
	f.get(r).Set(out)
	return true
}

func (f *RecordsField[R, C]) equal(a, b *R) bool {
	return f.get(a).Equal(*f.get(b), f.equalElems)
}

func (f *RecordsField[R, C]) equalElems(a, b []*C) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !f.table.Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// sync updates shared positions in place, appends trailing new elements
// and truncates trailing surplus ones. Surviving elements never move.
func (f *RecordsField[R, C]) sync(dst, src *R, path string, cs *ChangeSet) {
	in, ok := f.get(src).Get()
	if !ok {
		return
	}
	cur := f.get(dst)
	existing, ok := cur.Get()
	if !ok {
		cur.Set(in)
		cs.add(path)
		return
	}

	// The stored slice may be held by callers, so a resize builds a new one.
	shared := min(len(existing), len(in))
	out := existing
	if len(existing) != len(in) {
		out = make([]*C, len(in))
		copy(out, existing[:shared])
	}
	for i := 0; i < shared; i++ {
		if out[i] == nil {
			out[i] = in[i]
			cs.add(indexPath(path, i))
			continue
		}
		f.table.syncInto(out[i], in[i], indexPath(path, i), cs)
	}
	for i := shared; i < len(in); i++ {
		out[i] = in[i]
		cs.add(indexPath(path, i))
	}
	for i := len(in); i < len(existing); i++ {
		cs.add(indexPath(path, i))
	}
	cur.Set(out)
}

func (f *RecordsField[R, C]) encode(r *R, p wire.Payload) {
	elems, ok := f.get(r).Get()
	if !ok {
		return
	}
	out := make([]any, 0, len(elems))
	for _, c := range elems {
		if c != nil {
			out = append(out, map[string]any(f.table.Encode(c)))
		}
	}
	p[f.key] = out
}

// BagField is a dynamic attribute bag. A nil bag means absent.
type BagField[R any] struct {
	key string
	get func(*R) **bag.Bag
}

// Bag declares a schema-less string map such as localized text or template
// variables. Wire keys are stored in lexicographic order.
func Bag[R any](key string, get func(*R) **bag.Bag) *BagField[R] {
	return &BagField[R]{key: key, get: get}
}

func (f *BagField[R]) Key() string      { return f.key }
func (f *BagField[R]) Kind() Kind       { return KindBag }
func (f *BagField[R]) IsIdentity() bool { return false }
func (f *BagField[R]) IsSet(r *R) bool  { return *f.get(r) != nil }

func (f *BagField[R]) decode(r *R, raw any, path string, d *decoder) bool {
	obj, err := wire.ToObject(raw)
	if err != nil {
		d.report(path, raw, err)
		return false
	}
	b := &bag.Bag{}
	for _, k := range obj.Keys() {
		v, ok := obj.Lookup(k)
		if !ok {
			continue
		}
		s, err := wire.ToString(v)
		if err != nil {
			d.report(joinPath(path, k), v, err)
			continue
		}
		b.Set(k, s)
	}
	*f.get(r) = b
	return true
}

func (f *BagField[R]) equal(a, b *R) bool {
	return (*f.get(a)).Equal(*f.get(b))
}

// sync replaces the bag contents in place so holders of the bag see the
// new entries.
func (f *BagField[R]) sync(dst, src *R, path string, cs *ChangeSet) {
	in := *f.get(src)
	if in == nil {
		return
	}
	cur := f.get(dst)
	if *cur == nil {
		*cur = in
		cs.add(path)
		return
	}
	if (*cur).Equal(in) {
		return
	}
	(*cur).Replace(in)
	cs.add(path)
}

func (f *BagField[R]) encode(r *R, p wire.Payload) {
	b := *f.get(r)
	if b == nil {
		return
	}
	out := make(map[string]any, b.Len())
	for _, k := range b.Keys() {
		v, _ := b.Get(k)
		out[k] = v
	}
	p[f.key] = out
}
