// Package bag implements the dynamic attribute bag: an ordered,
// schema-less string to string store for localized text and template
// variables.
//
// Keys are opaque. A bag never converts values; callers interpret them.
package bag

import (
	"strings"

	"golang.org/x/text/language"
)

// Bag is an ordered string map. Keys keep the position of their first
// insertion. The zero Bag is empty and ready to use.
//
// A Bag is not safe for concurrent mutation.
type Bag struct {
	keys   []string
	values map[string]string
}

// New creates a bag holding the given key/value pairs in order. A trailing
// key without a value is ignored.
func New(pairs ...string) *Bag {
	b := &Bag{}
	for i := 0; i+1 < len(pairs); i += 2 {
		b.Set(pairs[i], pairs[i+1])
	}
	return b
}

// Set stores value under key. New keys are appended; existing keys keep
// their position.
func (b *Bag) Set(key, value string) {
	if b.values == nil {
		b.values = make(map[string]string)
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

// Get returns the value stored under key.
func (b *Bag) Get(key string) (string, bool) {
	if b == nil {
		return "", false
	}
	v, ok := b.values[key]
	return v, ok
}

// Lookup implements Lookup for template rendering.
func (b *Bag) Lookup(name string) (string, bool) { return b.Get(name) }

// Delete removes key.
func (b *Bag) Delete(key string) {
	if _, ok := b.values[key]; !ok {
		return
	}
	delete(b.values, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
}

// Len returns the number of keys.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// Keys returns the keys in insertion order.
func (b *Bag) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Merge copies other into b. Keys already in b are overwritten in place;
// new keys are appended in other's order.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		b.Set(k, other.values[k])
	}
}

// Replace makes b hold exactly the contents of other, in other's order,
// without changing b's identity.
func (b *Bag) Replace(other *Bag) {
	if b == other {
		return
	}
	b.keys = b.keys[:0]
	b.values = make(map[string]string, other.Len())
	b.Merge(other)
}

// Equal reports whether both bags hold the same keys in the same order with
// the same values. A nil bag equals only another nil bag.
func (b *Bag) Equal(other *Bag) bool {
	if b == nil || other == nil {
		return b == other
	}
	if len(b.keys) != len(other.keys) {
		return false
	}
	for i, k := range b.keys {
		if other.keys[i] != k || other.values[k] != b.values[k] {
			return false
		}
	}
	return true
}

// Clone returns an independent copy.
func (b *Bag) Clone() *Bag {
	if b == nil {
		return nil
	}
	c := &Bag{}
	c.Merge(b)
	return c
}

// Map returns the contents as a plain map.
func (b *Bag) Map() map[string]string {
	out := make(map[string]string, b.Len())
	if b == nil {
		return out
	}
	for k, v := range b.values {
		out[k] = v
	}
	return out
}

// Localize returns the entry whose key best matches the preferred
// languages. Keys are BCP 47 tags such as "en", "fr-CA" or "zh_Hans";
// keys that do not parse as tags are ignored. With no preference the first
// tagged entry wins.
func (b *Bag) Localize(preferred ...language.Tag) (string, bool) {
	var (
		tags []language.Tag
		keys []string
	)
	for _, k := range b.Keys() {
		tag, err := language.Parse(strings.ReplaceAll(k, "_", "-"))
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		keys = append(keys, k)
	}
	if len(tags) == 0 {
		return "", false
	}
	if len(preferred) == 0 {
		return b.values[keys[0]], true
	}

	_, idx, conf := language.NewMatcher(tags).Match(preferred...)
	if conf == language.No {
		return b.values[keys[0]], true
	}
	return b.values[keys[idx]], true
}
