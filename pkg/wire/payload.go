package wire

import "sort"

// Payload is a decoded wire object: a string-keyed map of scalars, nested
// maps and arrays.
type Payload map[string]any

// Lookup returns the raw value stored under key. A null value is reported
// as absent.
func (p Payload) Lookup(key string) (any, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Has reports whether key is present with a non-null value.
func (p Payload) Has(key string) bool {
	_, ok := p.Lookup(key)
	return ok
}

// Keys returns the payload keys in lexicographic order.
func (p Payload) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Object returns the nested object stored under key.
func (p Payload) Object(key string) (Payload, bool) {
	v, ok := p.Lookup(key)
	if !ok {
		return nil, false
	}
	m, err := ToObject(v)
	if err != nil {
		return nil, false
	}
	return m, true
}
