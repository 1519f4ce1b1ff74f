package wire

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want Format
	}{
		{"Object", []byte(`{"a":1}`), FormatJSON},
		{"ArrayWithSpace", []byte("  \n[{}]"), FormatJSON},
		{"CBORMap", []byte{0xa1, 0x61, 0x61, 0x01}, FormatCBOR},
		{"Empty", []byte("   "), FormatUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectFormat(tt.data))
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("SingleObject", func(t *testing.T) {
		ps, err := DecodeJSON([]byte(`{"planId": 7, "prices": [{"id": 1}]}`))
		require.NoError(t, err)
		require.Len(t, ps, 1)
		assert.Equal(t, json.Number("7"), ps[0]["planId"])

		prices, err := ToArray(ps[0]["prices"])
		require.NoError(t, err)
		require.Len(t, prices, 1)
	})

	t.Run("Batch", func(t *testing.T) {
		ps, err := DecodeJSON([]byte(`[{"planId": 1}, {"planId": 2}]`))
		require.NoError(t, err)
		assert.Len(t, ps, 2)
	})

	t.Run("BatchWithScalar", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`[{"planId": 1}, 3]`))
		assert.ErrorIs(t, err, ErrNotObject)
	})

	t.Run("Scalar", func(t *testing.T) {
		_, err := DecodeJSON([]byte(`42`))
		assert.ErrorIs(t, err, ErrNotObject)
	})
}

func TestCBORRoundTrip(t *testing.T) {
	ps, err := DecodeJSON([]byte(`{"planId": 7, "desc": "Premium", "amount": 9.99, "tags": ["a", "b"], "nested": {"x": true}}`))
	require.NoError(t, err)

	data, err := EncodeCBOR(ps[0])
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	require.Len(t, decoded, 1)

	p := decoded[0]
	n, err := ToInt(p["planId"])
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.Equal(t, "Premium", p["desc"])

	nested, ok := p.Object("nested")
	require.True(t, ok)
	assert.Equal(t, true, nested["x"])

	assert.True(t, Equal(ps[0], p), "JSON and CBOR forms should encode identically")
}

func TestClone(t *testing.T) {
	orig := Payload{"name": "plan", "prices": []any{map[string]any{"id": int64(1)}}}

	clone, err := Clone(orig)
	require.NoError(t, err)
	require.True(t, Equal(orig, clone))

	prices, err := ToArray(clone["prices"])
	require.NoError(t, err)
	prices[0].(map[string]any)["id"] = int64(2)

	assert.False(t, Equal(orig, clone), "clone must not share nested maps")
}

func TestPayloadLookup(t *testing.T) {
	p := Payload{"a": 1, "b": nil}

	_, ok := p.Lookup("a")
	assert.True(t, ok)
	_, ok = p.Lookup("b")
	assert.False(t, ok, "null is absent")
	assert.False(t, p.Has("c"))
	assert.Equal(t, []string{"a", "b"}, p.Keys())
}
