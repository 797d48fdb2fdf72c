package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuantity_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		in   string
		want Quantity
	}{
		{`12.5`, Quantity(125_000)},
		{`"12.5"`, Quantity(125_000)},
		{`-3.0001`, Quantity(-30_001)},
		{`10`, Quantity(100_000)},
		{`0.12345`, Quantity(1_234)}, // extra digits truncated
		{`null`, Quantity(0)},
	}

	for _, tc := range cases {
		var q Quantity
		require.NoError(t, json.Unmarshal([]byte(tc.in), &q), "input %s", tc.in)
		assert.Equal(t, tc.want, q, "input %s", tc.in)
	}
}

func TestQuantity_RejectsExponentForm(t *testing.T) {
	for _, in := range []string{`1e3`, `"1E3"`, `2.5e-1`} {
		var q Quantity
		assert.Error(t, json.Unmarshal([]byte(in), &q), "input %s", in)
	}
}

func TestQuantity_JSONRoundTrip(t *testing.T) {
	q := NewQuantityFromFloat64(7.25)

	data, err := json.Marshal(q)
	require.NoError(t, err)
	assert.Equal(t, "7.2500", string(data))

	var back Quantity
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, q, back)
}
