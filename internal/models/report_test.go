package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncomeStatement_NormalizeFillsCollections(t *testing.T) {
	var s IncomeStatement
	require.NoError(t, json.Unmarshal([]byte(`{"totalRevenue": 500, "months": null}`), &s))
	s.Normalize()

	assert.True(t, decimal.NewFromInt(500).Equal(s.TotalRevenue))
	assert.True(t, s.TotalExpenses.IsZero())
	assert.NotNil(t, s.RevenueByMonth)
	assert.NotNil(t, s.Months)

	out, err := json.Marshal(s)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "null")
}

func TestBalanceSheet_Find(t *testing.T) {
	b := BalanceSheet{Value: []LineItem{
		{Name: "Total Accounts Receivable", Amount: decimal.RequireFromString("1200.50")},
		{Name: "Total Accounts Payable", Amount: decimal.RequireFromString("300")},
	}}

	v, ok := b.Find("Total Accounts Payable")
	require.True(t, ok)
	assert.Equal(t, "300", v.String())

	_, ok = b.Find("Goodwill")
	assert.False(t, ok)
}

func TestAgingReport_Totals(t *testing.T) {
	var a AgingReport
	require.NoError(t, json.Unmarshal([]byte(`[
		{"customer": "Acme", "current": 100, "over90": 50, "total": 150},
		{"customer": "Globex", "current": "25.5", "days1to30": 10, "total": 35.5}
	]`), &a))

	totals := a.Totals()
	assert.Equal(t, "125.5", totals["current"].String())
	assert.Equal(t, "10", totals["days1to30"].String())
	assert.Equal(t, "50", totals["over90"].String())
	assert.Equal(t, "185.5", totals["total"].String())
}

func TestDataset_Numbers(t *testing.T) {
	d := Dataset{"total": 42.5, "label": "inflows", "count": "7", "series": []any{1.0}}

	nums := d.Numbers()
	assert.Len(t, nums, 2)
	assert.Equal(t, "42.5", nums["total"].String())
	assert.Equal(t, "7", nums["count"].String())
}

func TestToDecimal(t *testing.T) {
	tests := []struct {
		in   any
		want string
		ok   bool
	}{
		{decimal.NewFromInt(3), "3", true},
		{1.25, "1.25", true},
		{int64(9), "9", true},
		{json.Number("10.01"), "10.01", true},
		{" 4 ", "4", true},
		{"n/a", "0", false},
		{nil, "0", false},
		{true, "0", false},
	}

	for _, tt := range tests {
		got, ok := ToDecimal(tt.in)
		assert.Equal(t, tt.ok, ok, "%v", tt.in)
		assert.Equal(t, tt.want, got.String(), "%v", tt.in)
	}
}
