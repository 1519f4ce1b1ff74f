// Package enum maps wire codes to closed sets of Go variants.
//
// The cloud may add codes at any time, so every Table carries an explicit
// unrecognized variant. Decoding an unknown code yields that variant and
// ErrUnrecognized instead of failing, which keeps switch statements over
// the variants exhaustive while staying forward compatible.
package enum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// ErrUnrecognized is returned alongside the unrecognized variant when a
// wire code or name has no mapping.
var ErrUnrecognized = errors.New("unrecognized enum value")

// Entry maps one variant to its wire code and optional names.
type Entry[E comparable] struct {
	Variant E
	Code    int
	Names   []string
}

// Table is a bidirectional mapping between wire codes and variants.
// A Table is immutable after construction and safe for concurrent use.
type Table[E comparable] struct {
	name         string
	unrecognized E
	byCode       map[int]E
	byName       map[string]E
	codes        map[E]int
}

// NewTable creates a table. Names are matched case-insensitively.
func NewTable[E comparable](name string, unrecognized E, entries ...Entry[E]) *Table[E] {
	t := &Table[E]{
		name:         name,
		unrecognized: unrecognized,
		byCode:       make(map[int]E, len(entries)),
		byName:       make(map[string]E),
		codes:        make(map[E]int, len(entries)),
	}
	for _, e := range entries {
		t.byCode[e.Code] = e.Variant
		t.codes[e.Variant] = e.Code
		for _, n := range e.Names {
			t.byName[strings.ToLower(n)] = e.Variant
		}
	}
	return t
}

// Name returns the table name used in error messages.
func (t *Table[E]) Name() string { return t.name }

// Unrecognized returns the fallback variant.
func (t *Table[E]) Unrecognized() E { return t.unrecognized }

// Lookup returns the variant for a wire code.
func (t *Table[E]) Lookup(code int) (E, bool) {
	v, ok := t.byCode[code]
	return v, ok
}

// Code returns the wire code of a variant. The unrecognized variant has
// no code.
func (t *Table[E]) Code(v E) (int, bool) {
	c, ok := t.codes[v]
	return c, ok
}

// Decode converts a raw wire value. Integers (in any numeric form) are
// looked up by code, other strings by name, and booleans as the codes 1
// and 0. Values that are none of these return wire.ErrTypeMismatch; known
// shapes with unknown values return the unrecognized variant and
// ErrUnrecognized.
func (t *Table[E]) Decode(raw any) (E, error) {
	switch v := raw.(type) {
	case bool:
		code := 0
		if v {
			code = 1
		}
		return t.fromCode(code, raw)
	case string:
		s := strings.TrimSpace(v)
		if code, err := strconv.Atoi(s); err == nil {
			return t.fromCode(code, raw)
		}
		if e, ok := t.byName[strings.ToLower(s)]; ok {
			return e, nil
		}
		return t.unrecognized, fmt.Errorf("%w: %s %q", ErrUnrecognized, t.name, v)
	}
	code, err := wire.ToInt(raw)
	if err != nil {
		return t.unrecognized, fmt.Errorf("%s: %w", t.name, err)
	}
	return t.fromCode(code, raw)
}

func (t *Table[E]) fromCode(code int, raw any) (E, error) {
	if e, ok := t.byCode[code]; ok {
		return e, nil
	}
	return t.unrecognized, fmt.Errorf("%w: %s %v", ErrUnrecognized, t.name, raw)
}
