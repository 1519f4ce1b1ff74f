package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/peoplepower/ppsync-go/pkg/enum"
	"github.com/peoplepower/ppsync-go/pkg/wire"
)

// Decode errors.
var (
	// ErrMissingIdentity means the payload lacks a usable identity field.
	// The record cannot be decoded.
	ErrMissingIdentity = errors.New("missing identity")

	// ErrTypeMismatch means a value could not be coerced to its field type.
	// The field is left unset.
	ErrTypeMismatch = wire.ErrTypeMismatch

	// ErrUnrecognizedEnum means an enum code had no mapping. The field holds
	// the unrecognized variant.
	ErrUnrecognizedEnum = enum.ErrUnrecognized

	// ErrNestedDecode means a nested record or array element was dropped.
	ErrNestedDecode = errors.New("nested record decode failed")

	// ErrIdentityMismatch means a patch carried an identity value other
	// than the record's own. The identity is left unchanged.
	ErrIdentityMismatch = errors.New("identity mismatch")

	// ErrUnknownField is returned when a field key is not in a table.
	ErrUnknownField = errors.New("unknown field")
)

// FieldError describes a problem with one field of a payload.
type FieldError struct {
	// Path is the dotted field path, with array positions in brackets
	// (for example "prices[2].amount").
	Path string

	// Value is the raw wire value, if any.
	Value any

	// Err is the cause.
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }

// DecodeError collects the field problems of one decode. A record decoded
// with a DecodeError is still usable unless the error is fatal.
type DecodeError struct {
	Table  string
	Issues []*FieldError
}

func (e *DecodeError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, issue := range e.Issues {
		parts[i] = issue.Error()
	}
	return fmt.Sprintf("decode %s: %s", e.Table, strings.Join(parts, "; "))
}

// Unwrap exposes every issue to errors.Is and errors.As.
func (e *DecodeError) Unwrap() []error {
	errs := make([]error, len(e.Issues))
	for i, issue := range e.Issues {
		errs[i] = issue
	}
	return errs
}

// Fatal reports whether the record itself could not be decoded.
func (e *DecodeError) Fatal() bool {
	for _, issue := range e.Issues {
		if issue.Path != "" && !strings.ContainsAny(issue.Path, ".[") && errors.Is(issue.Err, ErrMissingIdentity) {
			return true
		}
	}
	return false
}

// decoder collects issues while a payload is walked.
type decoder struct {
	issues []*FieldError
}

func (d *decoder) report(path string, value any, err error) {
	d.issues = append(d.issues, &FieldError{Path: path, Value: value, Err: err})
}

func (d *decoder) err(table string) error {
	if len(d.issues) == 0 {
		return nil
	}
	return &DecodeError{Table: table, Issues: d.issues}
}
