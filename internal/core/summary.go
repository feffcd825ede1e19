package core

import (
	"encoding/json"
	"fmt"
)

// CategoryStat is the per-category aggregate: how many expenses carry the
// category and what they sum to.
type CategoryStat struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
	Total    Money  `json:"total"`
}

// Summary is the caller-scoped headline aggregate.
type Summary struct {
	TotalExpenses int64 `json:"totalExpenses"`
	TotalAmount   Money `json:"totalAmount"`
	// AverageAmount is a two-decimal string when any expense exists and the
	// number 0 otherwise, matching the wire contract clients rely on.
	AverageAmount json.RawMessage `json:"averageAmount"`
}

// Statistics is the full read-side aggregation, recomputed on every call.
type Statistics struct {
	Summary        Summary        `json:"summary"`
	CategoryStats  []CategoryStat `json:"categoryStats"`
	RecentExpenses []Expense      `json:"recentExpenses"`
}

// NewSummary derives the summary from a count and a cents total. The average
// is rounded to two decimals.
func NewSummary(count, totalCents int64) Summary {
	s := Summary{
		TotalExpenses: count,
		TotalAmount:   Money{Cents: totalCents},
		AverageAmount: json.RawMessage("0"),
	}
	if count > 0 {
		avg := fmt.Sprintf("%.2f", float64(totalCents)/100/float64(count))
		s.AverageAmount = json.RawMessage(`"` + avg + `"`)
	}
	return s
}
