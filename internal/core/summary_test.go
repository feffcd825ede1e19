package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSummary(t *testing.T) {
	// 10 + 5 + 20 over three expenses averages to the string "11.67"
	s := NewSummary(3, 3500)
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalExpenses":3,"totalAmount":35,"averageAmount":"11.67"}`, string(out))
}

func TestNewSummaryEmpty(t *testing.T) {
	// With no expenses the average is the number 0, not "0.00"
	s := NewSummary(0, 0)
	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalExpenses":0,"totalAmount":0,"averageAmount":0}`, string(out))
}
