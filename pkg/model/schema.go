package model

import (
	"fmt"
	"io"
	"strings"
)

// Schema is the type-erased description of a Table, for tooling.
type Schema struct {
	Name   string
	Fields []FieldInfo
}

// FieldInfo describes one field of a Schema.
type FieldInfo struct {
	Key      string
	Kind     Kind
	Identity bool

	// Nested is the element schema of record and records fields.
	Nested *Schema
}

// nester is implemented by fields that own records of another table.
type nester interface {
	nestedSchema() Schema
}

func (f *RecordField[R, C]) nestedSchema() Schema  { return f.table.Schema() }
func (f *RecordsField[R, C]) nestedSchema() Schema { return f.table.Schema() }

// Schema describes the table.
func (t *Table[R]) Schema() Schema {
	s := Schema{Name: t.name, Fields: make([]FieldInfo, len(t.fields))}
	for i, f := range t.fields {
		info := FieldInfo{Key: f.Key(), Kind: f.Kind(), Identity: f.IsIdentity()}
		if n, ok := f.(nester); ok {
			nested := n.nestedSchema()
			info.Nested = &nested
		}
		s.Fields[i] = info
	}
	return s
}

// Write prints the schema as an indented tree.
func (s Schema) Write(w io.Writer) error {
	return s.write(w, 0)
}

func (s Schema) write(w io.Writer, depth int) error {
	indent := strings.Repeat("  ", depth)
	for _, f := range s.Fields {
		mark := ""
		if f.Identity {
			mark = " (id)"
		}
		if _, err := fmt.Fprintf(w, "%s%-22s %s%s\n", indent, f.Key, f.Kind, mark); err != nil {
			return err
		}
		if f.Nested != nil {
			if err := f.Nested.write(w, depth+1); err != nil {
				return err
			}
		}
	}
	return nil
}
