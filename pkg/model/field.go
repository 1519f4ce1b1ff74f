package model

import (
	"errors"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/opt"
	"github.com/peoplepower/ppsync-go/pkg/store"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Field declares one wire key of records of type R: its type tag and
// the rules to decode, encode, compare and copy it.
//
// Fields are created with the constructors of this package and are
// immutable once part of a Table.
type Field[R any] interface {
	// Key is the wire key.
	Key() string

	// Kind is the type tag.
	Kind() Kind

	// IsIdentity reports whether the field is part of the record identity.
	IsIdentity() bool

	// IsSet reports whether r holds a value for the field.
	IsSet(r *R) bool

	decode(r *R, raw any, path string, d *decoder) bool
	equal(a, b *R) bool
	sync(dst, src *R, path string, cs *ChangeSet)
	encode(r *R, p wire.Payload)
}

// Scalar is a field holding a single value of T in an opt.Value.
type Scalar[R, T any] struct {
	key      string
	kind     Kind
	identity bool
	get      func(*R) *opt.Value[T]
	conv     func(any) (T, error)
	enc      func(T) (any, bool)
	eq       func(a, b T) bool
	clone    func(T) T
}

// Identity marks the field as part of the record identity. A payload
// without it cannot be decoded.
func (f *Scalar[R, T]) Identity() *Scalar[R, T] {
	f.identity = true
	return f
}

func (f *Scalar[R, T]) Key() string        { return f.key }
func (f *Scalar[R, T]) Kind() Kind         { return f.kind }
func (f *Scalar[R, T]) IsIdentity() bool   { return f.identity }
func (f *Scalar[R, T]) IsSet(r *R) bool    { return f.get(r).IsSet() }
func (f *Scalar[R, T]) equal(a, b *R) bool { return f.get(a).Equal(*f.get(b), f.eq) }

func (f *Scalar[R, T]) decode(r *R, raw any, path string, d *decoder) bool {
	v, err := f.conv(raw)
	if err != nil {
		d.report(path, raw, err)
		if !errors.Is(err, ErrUnrecognizedEnum) {
			return false
		}
	}
	f.get(r).Set(v)
	return true
}

func (f *Scalar[R, T]) sync(dst, src *R, path string, cs *ChangeSet) {
	in := *f.get(src)
	if !in.IsSet() {
		return
	}
	cur := f.get(dst)
	if cur.Equal(in, f.eq) {
		return
	}
	v, _ := in.Get()
	if f.clone != nil {
		v = f.clone(v)
	}
	cur.Set(v)
	cs.add(path)
}

func (f *Scalar[R, T]) encode(r *R, p wire.Payload) {
	v, ok := f.get(r).Get()
	if !ok {
		return
	}
	if w, ok := f.enc(v); ok {
		p[f.key] = w
	}
}

func newScalar[R any, T comparable](key string, kind Kind, get func(*R) *opt.Value[T], conv func(any) (T, error)) *Scalar[R, T] {
	return &Scalar[R, T]{
		key:  key,
		kind: kind,
		get:  get,
		conv: conv,
		enc:  func(v T) (any, bool) { return v, true },
		eq:   func(a, b T) bool { return a == b },
	}
}

// Int declares an integer field.
func Int[R any](key string, get func(*R) *opt.Value[int]) *Scalar[R, int] {
	return newScalar(key, KindInt, get, wire.ToInt)
}

// Int64 declares a 64-bit integer field.
func Int64[R any](key string, get func(*R) *opt.Value[int64]) *Scalar[R, int64] {
	return newScalar(key, KindInt64, get, wire.ToInt64)
}

// Bytes declares a byte count field.
func Bytes[R any](key string, get func(*R) *opt.Value[int64]) *Scalar[R, int64] {
	return newScalar(key, KindBytes, get, wire.ToInt64)
}

// Float declares a floating point field.
func Float[R any](key string, get func(*R) *opt.Value[float64]) *Scalar[R, float64] {
	return newScalar(key, KindFloat, get, wire.ToFloat)
}

// Bool declares a plain boolean field.
func Bool[R any](key string, get func(*R) *opt.Value[bool]) *Scalar[R, bool] {
	return newScalar(key, KindBool, get, wire.ToBool)
}

// String declares a string field.
func String[R any](key string, get func(*R) *opt.Value[string]) *Scalar[R, string] {
	return newScalar(key, KindString, get, wire.ToString)
}

// Time declares a date field. Times compare by instant and encode as
// RFC 3339.
func Time[R any](key string, get func(*R) *opt.Value[time.Time]) *Scalar[R, time.Time] {
	return &Scalar[R, time.Time]{
		key:  key,
		kind: KindTime,
		get:  get,
		conv: wire.ToTime,
		enc:  func(v time.Time) (any, bool) { return v.UTC().Format(time.RFC3339Nano), true },
		eq:   func(a, b time.Time) bool { return a.Equal(b) },
	}
}

// Amount declares a decimal money field. Amounts compare by value and
// encode as strings so no precision is lost.
func Amount[R any](key string, get func(*R) *opt.Value[decimal.Decimal]) *Scalar[R, decimal.Decimal] {
	return &Scalar[R, decimal.Decimal]{
		key:  key,
		kind: KindAmount,
		get:  get,
		conv: wire.ToDecimal,
		enc:  func(v decimal.Decimal) (any, bool) { return v.String(), true },
		eq:   func(a, b decimal.Decimal) bool { return a.Equal(b) },
	}
}

// TriState declares a tri-state boolean field.
func TriState[R any](key string, get func(*R) *opt.Value[enum.TriState]) *Scalar[R, enum.TriState] {
	f := Enum(key, get, enum.TriStates)
	f.kind = KindTriState
	return f
}

// Enum declares an enumerated field backed by a code table. Unknown codes
// decode to the table's unrecognized variant, which is never encoded.
func Enum[R any, E comparable](key string, get func(*R) *opt.Value[E], table *enum.Table[E]) *Scalar[R, E] {
	return &Scalar[R, E]{
		key:  key,
		kind: KindEnum,
		get:  get,
		conv: table.Decode,
		enc: func(v E) (any, bool) {
			code, ok := table.Code(v)
			return code, ok
		},
		eq: func(a, b E) bool { return a == b },
	}
}

// Flags declares a bitmask field. Unknown names are dropped from the mask
// and reported.
func Flags[R any, F ~uint32 | ~uint64](key string, get func(*R) *opt.Value[F], table *enum.FlagTable[F]) *Scalar[R, F] {
	return &Scalar[R, F]{
		key:  key,
		kind: KindFlags,
		get:  get,
		conv: table.Decode,
		enc:  func(v F) (any, bool) { return uint64(v), true },
		eq:   func(a, b F) bool { return a == b },
	}
}

// Ints declares a list of integers, such as ids.
func Ints[R any](key string, get func(*R) *opt.Value[[]int]) *Scalar[R, []int] {
	return &Scalar[R, []int]{
		key:   key,
		kind:  KindInts,
		get:   get,
		conv:  listOf(wire.ToInt),
		enc:   encodeList[int],
		eq:    slices.Equal[[]int],
		clone: slices.Clone[[]int],
	}
}

// Strings declares a list of strings.
func Strings[R any](key string, get func(*R) *opt.Value[[]string]) *Scalar[R, []string] {
	return &Scalar[R, []string]{
		key:   key,
		kind:  KindStrings,
		get:   get,
		conv:  listOf(wire.ToString),
		enc:   encodeList[string],
		eq:    slices.Equal[[]string],
		clone: slices.Clone[[]string],
	}
}

// Ref declares a weak reference to a record of another collection. Only
// the id is stored; resolve it through the target collection's store.
func Ref[R any, K comparable](key string, get func(*R) *opt.Value[store.Ref[K]], conv func(any) (K, error)) *Scalar[R, store.Ref[K]] {
	return &Scalar[R, store.Ref[K]]{
		key:  key,
		kind: KindRef,
		get:  get,
		conv: func(raw any) (store.Ref[K], error) {
			id, err := conv(raw)
			if err != nil {
				return store.Ref[K]{}, err
			}
			return store.RefTo(id), nil
		},
		enc: func(v store.Ref[K]) (any, bool) { return v.ID, true },
		eq:  func(a, b store.Ref[K]) bool { return a == b },
	}
}

// listOf converts a wire array element by element. Any bad element fails
// the whole list.
func listOf[T any](conv func(any) (T, error)) func(any) ([]T, error) {
	return func(raw any) ([]T, error) {
		arr, err := wire.ToArray(raw)
		if err != nil {
			return nil, err
		}
		out := make([]T, 0, len(arr))
		for _, elem := range arr {
			v, err := conv(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
}

func encodeList[T any](v []T) (any, bool) {
	out := make([]any, len(v))
	for i, elem := range v {
		out[i] = elem
	}
	return out, true
}
