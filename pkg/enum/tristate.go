package enum

// TriState is a boolean the server may also report as "not applicable".
type TriState uint8

const (
	// TriStateNone is the explicit "not applicable" code -1.
	TriStateNone TriState = iota
	TriStateFalse
	TriStateTrue
	// TriStateUnrecognized is any other code.
	TriStateUnrecognized
)

// String returns the tri-state name.
func (s TriState) String() string {
	switch s {
	case TriStateNone:
		return "NONE"
	case TriStateFalse:
		return "FALSE"
	case TriStateTrue:
		return "TRUE"
	default:
		return "UNRECOGNIZED"
	}
}

// Bool returns the boolean value and whether the state is true or false.
func (s TriState) Bool() (bool, bool) {
	switch s {
	case TriStateTrue:
		return true, true
	case TriStateFalse:
		return false, true
	default:
		return false, false
	}
}

// TriStates is the code table shared by every tri-state field.
var TriStates = NewTable("tri-state", TriStateUnrecognized,
	Entry[TriState]{Variant: TriStateNone, Code: -1, Names: []string{"none"}},
	Entry[TriState]{Variant: TriStateFalse, Code: 0, Names: []string{"false"}},
	Entry[TriState]{Variant: TriStateTrue, Code: 1, Names: []string{"true"}},
)
