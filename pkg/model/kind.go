package model

// Kind is the type tag of a field.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindInt
	KindInt64
	KindBytes
	KindFloat
	KindBool
	KindTriState
	KindEnum
	KindFlags
	KindString
	KindTime
	KindAmount
	KindInts
	KindStrings
	KindRecord
	KindRecords
	KindRef
	KindBag
)

// String returns the kind name.
func (k Kind) String() string {
	names := []string{
		"unknown", "int", "int64", "bytes", "float", "bool", "tristate",
		"enum", "flags", "string", "time", "amount", "ints", "strings",
		"record", "records", "ref", "bag",
	}
	if int(k) < len(names) {
		return names[k]
	}
	return "unknown"
}

// IsNested reports whether fields of this kind hold owned records.
func (k Kind) IsNested() bool {
	return k == KindRecord || k == KindRecords
}
