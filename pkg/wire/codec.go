package wire

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/fxamacker/cbor/v2"
)

// Format identifies a payload encoding.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatJSON
	FormatCBOR
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "JSON"
	case FormatCBOR:
		return "CBOR"
	default:
		return "UNKNOWN"
	}
}

// ErrNotObject is returned when a document does not hold an object or an
// array of objects.
var ErrNotObject = errors.New("payload is not an object")

// encMode is the CBOR encoder mode for payloads.
// Configured for deterministic encoding.
var encMode cbor.EncMode

// decMode is the CBOR decoder mode for payloads.
var decMode cbor.DecMode

func init() {
	var err error

	encOpts := cbor.EncOptions{
		Sort:          cbor.SortCanonical,
		IndefLength:   cbor.IndefLengthForbidden,
		NilContainers: cbor.NilContainerAsNull,
		Time:          cbor.TimeRFC3339Nano,
	}
	encMode, err = encOpts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR encoder mode: %v", err))
	}

	// Maps decode to map[string]any so CBOR and JSON payloads look alike.
	decOpts := cbor.DecOptions{
		DupMapKey:         cbor.DupMapKeyQuiet,
		IndefLength:       cbor.IndefLengthAllowed,
		ExtraReturnErrors: cbor.ExtraDecErrorNone,
		DefaultMapType:    reflect.TypeOf(map[string]any(nil)),
	}
	decMode, err = decOpts.DecMode()
	if err != nil {
		panic(fmt.Sprintf("failed to create CBOR decoder mode: %v", err))
	}
}

// DetectFormat guesses the encoding of data. JSON documents start with an
// object or array after optional whitespace; anything else is taken as CBOR.
func DetectFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return FormatUnknown
	}
	switch trimmed[0] {
	case '{', '[':
		return FormatJSON
	default:
		return FormatCBOR
	}
}

// Decode decodes a document holding one payload or an array of payloads.
// The format is detected from the data.
func Decode(data []byte) ([]Payload, error) {
	switch DetectFormat(data) {
	case FormatJSON:
		return DecodeJSON(data)
	case FormatCBOR:
		return DecodeCBOR(data)
	default:
		return nil, fmt.Errorf("decode payload: %w", ErrNotObject)
	}
}

// DecodeJSON decodes a JSON document holding one payload or an array of
// payloads. Numbers are kept as json.Number so integer codes stay exact.
func DecodeJSON(data []byte) ([]Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode JSON payload: %w", err)
	}
	return payloads(v)
}

// DecodeCBOR decodes a CBOR document holding one payload or an array of
// payloads.
func DecodeCBOR(data []byte) ([]Payload, error) {
	var v any
	if err := decMode.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode CBOR payload: %w", err)
	}
	return payloads(v)
}

func payloads(v any) ([]Payload, error) {
	switch t := v.(type) {
	case map[string]any:
		return []Payload{t}, nil
	case []any:
		out := make([]Payload, 0, len(t))
		for i, elem := range t {
			m, ok := elem.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("element %d: %w", i, ErrNotObject)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, ErrNotObject
	}
}

// EncodeJSON encodes a payload as indented JSON.
func EncodeJSON(p Payload) ([]byte, error) {
	return json.MarshalIndent(p, "", "  ")
}

// EncodeCBOR encodes a payload as deterministic CBOR. JSON numbers are
// written as CBOR integers or floats, not as text.
func EncodeCBOR(p Payload) ([]byte, error) {
	return encMode.Marshal(normalize(map[string]any(p)))
}

// normalize replaces json.Number values with int64 or float64.
func normalize(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, elem := range t {
			out[k] = normalize(elem)
		}
		return out
	case Payload:
		return normalize(map[string]any(t))
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = normalize(elem)
		}
		return out
	default:
		return v
	}
}

// NewEncoder creates a CBOR encoder that writes to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return encMode.NewEncoder(w)
}

// NewDecoder creates a CBOR decoder that reads from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return decMode.NewDecoder(r)
}

// Clone creates a deep copy of a payload by re-encoding it.
func Clone(p Payload) (Payload, error) {
	data, err := EncodeCBOR(p)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := decMode.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Equal compares two payloads by their canonical CBOR encoding.
func Equal(a, b Payload) bool {
	dataA, errA := EncodeCBOR(a)
	dataB, errB := EncodeCBOR(b)
	if errA != nil || errB != nil {
		return false
	}
	return bytes.Equal(dataA, dataB)
}
