// Package wire defines the payload shape exchanged with the IoT cloud and
// the codecs that read it.
//
// A Payload is a string-keyed map whose values are scalars, nested maps or
// arrays of either. Payloads arrive as JSON from the REST API or as CBOR
// from the streaming channel; both decode to the same Go representation:
//
//	map[string]any  nested objects
//	[]any           arrays
//	json.Number     JSON numbers (CBOR yields int64, uint64 or float64)
//	string, bool    as is
//
// # Absent vs Null
//
// A key that is missing from a payload means "no change" for that field.
// A key that is present with a null value is treated the same way: the
// server uses null for "not reported", never to clear a field.
//
// # Coercion
//
// The To* helpers convert raw payload values to Go types. They accept the
// representations the server is known to use for each type (for example an
// integer may arrive as a number or as a numeric string) and return
// ErrTypeMismatch for anything else.
package wire
