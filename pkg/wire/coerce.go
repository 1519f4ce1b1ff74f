package wire

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrTypeMismatch is returned when a raw value cannot be converted to the
// requested type.
var ErrTypeMismatch = errors.New("type mismatch")

// TimeLayouts are tried in order when parsing date strings. The cloud sends
// RFC 3339 and an offset form without a colon.
var TimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02",
}

func mismatch(want string, v any) error {
	return fmt.Errorf("%w: expected %s, got %T", ErrTypeMismatch, want, v)
}

// ToInt64 converts integers, integral floats, json.Number and numeric
// strings to int64.
func ToInt64(v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return checkUint(uint64(n), v)
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return checkUint(n, v)
	case float32:
		return floatToInt(float64(n), v)
	case float64:
		return floatToInt(n, v)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, nil
		}
		f, err := n.Float64()
		if err != nil {
			return 0, mismatch("integer", v)
		}
		return floatToInt(f, v)
	case string:
		s := strings.TrimSpace(n)
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, nil
		}
		return 0, mismatch("integer", v)
	default:
		return 0, mismatch("integer", v)
	}
}

func checkUint(n uint64, v any) (int64, error) {
	if n > math.MaxInt64 {
		return 0, mismatch("integer", v)
	}
	return int64(n), nil
}

func floatToInt(f float64, v any) (int64, error) {
	if f != math.Trunc(f) || f > math.MaxInt64 || f < math.MinInt64 {
		return 0, mismatch("integer", v)
	}
	return int64(f), nil
}

// ToInt converts like ToInt64 and checks the result fits in an int.
func ToInt(v any) (int, error) {
	n, err := ToInt64(v)
	if err != nil {
		return 0, err
	}
	if n > math.MaxInt || n < math.MinInt {
		return 0, mismatch("int", v)
	}
	return int(n), nil
}

// ToFloat converts numbers, json.Number and numeric strings to float64.
func ToFloat(v any) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, mismatch("number", v)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, mismatch("number", v)
		}
		return f, nil
	default:
		i, err := ToInt64(v)
		if err != nil {
			return 0, mismatch("number", v)
		}
		return float64(i), nil
	}
}

// ToBool converts booleans, the integers 0 and 1 and the strings
// "true"/"false"/"0"/"1".
func ToBool(v any) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(b)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return false, mismatch("boolean", v)
	default:
		n, err := ToInt64(v)
		if err != nil || (n != 0 && n != 1) {
			return false, mismatch("boolean", v)
		}
		return n == 1, nil
	}
}

// ToString accepts strings only.
func ToString(v any) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", mismatch("string", v)
	}
	return s, nil
}

// ToTime parses a date string using TimeLayouts, or interprets a number as
// milliseconds since the Unix epoch. Results are in UTC.
func ToTime(v any) (time.Time, error) {
	if t, ok := v.(time.Time); ok {
		return t.UTC(), nil
	}
	if s, ok := v.(string); ok {
		s = strings.TrimSpace(s)
		for _, layout := range TimeLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.UTC(), nil
			}
		}
		if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.UnixMilli(ms).UTC(), nil
		}
		return time.Time{}, mismatch("date", v)
	}
	ms, err := ToInt64(v)
	if err != nil {
		return time.Time{}, mismatch("date", v)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// ToDecimal converts numbers and numeric strings to a decimal amount.
// Strings and json.Number keep their exact digits.
func ToDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(n))
		if err != nil {
			return decimal.Decimal{}, mismatch("amount", v)
		}
		return d, nil
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		if err != nil {
			return decimal.Decimal{}, mismatch("amount", v)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(n), nil
	case float32:
		return decimal.NewFromFloat32(n), nil
	default:
		i, err := ToInt64(v)
		if err != nil {
			return decimal.Decimal{}, mismatch("amount", v)
		}
		return decimal.NewFromInt(i), nil
	}
}

// ToObject accepts nested maps.
func ToObject(v any) (Payload, error) {
	switch m := v.(type) {
	case Payload:
		return m, nil
	case map[string]any:
		return m, nil
	default:
		return nil, mismatch("object", v)
	}
}

// ToArray accepts arrays.
func ToArray(v any) ([]any, error) {
	switch a := v.(type) {
	case []any:
		return a, nil
	case []map[string]any:
		out := make([]any, len(a))
		for i, m := range a {
			out[i] = m
		}
		return out, nil
	default:
		return nil, mismatch("array", v)
	}
}
