package bag

import (
	"regexp"
	"strings"
)

// Lookup resolves a template variable.
type Lookup interface {
	Lookup(name string) (string, bool)
}

// LookupFunc adapts a function to Lookup.
type LookupFunc func(name string) (string, bool)

// Lookup calls f.
func (f LookupFunc) Lookup(name string) (string, bool) { return f(name) }

// Map is a Lookup over a plain map.
type Map map[string]string

// Lookup returns m[name].
func (m Map) Lookup(name string) (string, bool) {
	v, ok := m[name]
	return v, ok
}

var placeholder = regexp.MustCompile(`\{\{\s*([^{}\s]+)\s*\}\}`)

// Render replaces {{name}} placeholders in content with the value from the
// first lookup that knows name. Unknown placeholders are left as they are.
func Render(content string, vars ...Lookup) string {
	if !strings.Contains(content, "{{") {
		return content
	}
	return placeholder.ReplaceAllStringFunc(content, func(tok string) string {
		name := placeholder.FindStringSubmatch(tok)[1]
		for _, v := range vars {
			if v == nil {
				continue
			}
			if s, ok := v.Lookup(name); ok {
				return s
			}
		}
		return tok
	})
}

// Placeholders returns the distinct placeholder names in content, in order
// of first appearance.
func Placeholders(content string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, m := range placeholder.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			out = append(out, m[1])
		}
	}
	return out
}
