package enum

import (
	"fmt"
	"sort"
	"strings"

	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// FlagTable maps named bits of a bitmask. The server sends masks either as
// an integer or as an array of names.
type FlagTable[F ~uint32 | ~uint64] struct {
	name   string
	byName map[string]F
	names  map[F]string
}

// NewFlagTable creates a flag table from bit to name.
func NewFlagTable[F ~uint32 | ~uint64](name string, bits map[F]string) *FlagTable[F] {
	t := &FlagTable[F]{
		name:   name,
		byName: make(map[string]F, len(bits)),
		names:  make(map[F]string, len(bits)),
	}
	for bit, n := range bits {
		t.byName[strings.ToLower(n)] = bit
		t.names[bit] = n
	}
	return t
}

// Decode converts an integer mask or an array of names. Unknown names are
// skipped and reported with ErrUnrecognized; the known bits are still
// returned.
func (t *FlagTable[F]) Decode(raw any) (F, error) {
	if arr, err := wire.ToArray(raw); err == nil {
		var mask F
		var unknown []string
		for _, elem := range arr {
			s, err := wire.ToString(elem)
			if err != nil {
				return 0, fmt.Errorf("%s: %w", t.name, err)
			}
			bit, ok := t.byName[strings.ToLower(strings.TrimSpace(s))]
			if !ok {
				unknown = append(unknown, s)
				continue
			}
			mask |= bit
		}
		if len(unknown) > 0 {
			return mask, fmt.Errorf("%w: %s %v", ErrUnrecognized, t.name, unknown)
		}
		return mask, nil
	}

	n, err := wire.ToInt64(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: %w", t.name, wire.ErrTypeMismatch)
	}
	return F(n), nil
}

// Names returns the names of the set bits, sorted.
func (t *FlagTable[F]) Names(mask F) []string {
	var out []string
	for bit, n := range t.names {
		if mask&bit != 0 {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
