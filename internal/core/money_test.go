package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"4.50", 450, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.00", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		cents, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			assert.Equal(t, tc.out, cents, "input %q", tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", tc.in)
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{3500, "35"},
		{450, "4.5"},
		{1167, "11.67"},
		{1, "0.01"},
		{100, "1"},
		{0, "0"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Money{Cents: tc.cents}.Decimal())
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "4.50", Money{Cents: 450}.String())
	assert.Equal(t, "0.05", Money{Cents: 5}.String())
}

// A client that submits 4.50 must read back 4.5, not 4.5000000001 or "4.50".
func TestMoneyJSONRoundTrip(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte("4.50"), &m))
	assert.Equal(t, int64(450), m.Cents)

	out, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "4.5", string(out))

	require.NoError(t, json.Unmarshal([]byte(`"12,34"`), &m))
	assert.Equal(t, int64(1234), m.Cents)

	assert.Error(t, json.Unmarshal([]byte(`-3`), &m))
	assert.Error(t, json.Unmarshal([]byte(`"zero"`), &m))
}
