package model

import (
	"strconv"
	"strings"
)

// ChangeSet is the ordered set of field paths a sync actually wrote.
// Top-level fields use their wire key ("desc"); nested fields use dotted
// paths ("price.value") and array elements use positions
// ("prices[2].name"). An empty ChangeSet means nothing changed.
type ChangeSet struct {
	paths []string
	seen  map[string]struct{}
}

// NewChangeSet builds a change set from paths.
func NewChangeSet(paths ...string) ChangeSet {
	var c ChangeSet
	for _, p := range paths {
		c.add(p)
	}
	return c
}

func (c *ChangeSet) add(path string) {
	if c.seen == nil {
		c.seen = make(map[string]struct{})
	}
	if _, ok := c.seen[path]; ok {
		return
	}
	c.seen[path] = struct{}{}
	c.paths = append(c.paths, path)
}

// Empty reports whether nothing changed.
func (c ChangeSet) Empty() bool { return len(c.paths) == 0 }

// Len returns the number of changed paths.
func (c ChangeSet) Len() int { return len(c.paths) }

// Paths returns every changed path in the order it was written.
func (c ChangeSet) Paths() []string {
	out := make([]string, len(c.paths))
	copy(out, c.paths)
	return out
}

// Fields returns the distinct top-level field keys that changed.
func (c ChangeSet) Fields() []string {
	var out []string
	seen := make(map[string]bool)
	for _, p := range c.paths {
		f := topLevel(p)
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

// Has reports whether name, or any path beneath it, changed.
func (c ChangeSet) Has(name string) bool {
	if _, ok := c.seen[name]; ok {
		return true
	}
	for _, p := range c.paths {
		if strings.HasPrefix(p, name) && len(p) > len(name) && (p[len(name)] == '.' || p[len(name)] == '[') {
			return true
		}
	}
	return false
}

// String returns the paths joined by commas.
func (c ChangeSet) String() string {
	return strings.Join(c.paths, ",")
}

func topLevel(path string) string {
	if i := strings.IndexAny(path, ".["); i >= 0 {
		return path[:i]
	}
	return path
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
