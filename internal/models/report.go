package models

import (
	"github.com/shopspring/decimal"
)

// LineItem is one row of the balance sheet, e.g. "Total Accounts Receivable".
type LineItem struct {
	Name     string          `json:"name"`
	Amount   decimal.Decimal `json:"amount"`
	Category string          `json:"category,omitempty"` // assets, liabilities, equity
}

// BalanceSheet is the payload of /balance-sheet; rows arrive under "value".
type BalanceSheet struct {
	Value []LineItem `json:"value"`
}

func (b *BalanceSheet) Normalize() {
	if b.Value == nil {
		b.Value = []LineItem{}
	}
}

// Find returns the amount of the row named name.
func (b BalanceSheet) Find(name string) (decimal.Decimal, bool) {
	for _, item := range b.Value {
		if item.Name == name {
			return item.Amount, true
		}
	}
	return decimal.Zero, false
}

// IncomeStatement is the payload of /income-statements. The monthly series
// are aligned with Months; ExpenseByCategory with ExpenseCategories.
type IncomeStatement struct {
	TotalRevenue      decimal.Decimal   `json:"totalRevenue"`
	TotalExpenses     decimal.Decimal   `json:"totalExpenses"`
	NetProfit         decimal.Decimal   `json:"netProfit"`
	RevenueByMonth    []decimal.Decimal `json:"revenueByMonth"`
	ExpensesByMonth   []decimal.Decimal `json:"expensesByMonth"`
	ExpenseCategories []string          `json:"expenseCategories"`
	ExpenseByCategory []decimal.Decimal `json:"expenseByCategory"`
	Months            []string          `json:"months"`
}

func (s *IncomeStatement) Normalize() {
	s.RevenueByMonth = nonNil(s.RevenueByMonth)
	s.ExpensesByMonth = nonNil(s.ExpensesByMonth)
	s.ExpenseCategories = nonNil(s.ExpenseCategories)
	s.ExpenseByCategory = nonNil(s.ExpenseByCategory)
	s.Months = nonNil(s.Months)
}

// CashFlowStatement is the payload of /cash-flow-statements.
type CashFlowStatement struct {
	CurrentCashFlow decimal.Decimal   `json:"currentCashFlow"`
	InflowByMonth   []decimal.Decimal `json:"inflowByMonth"`
	OutflowByMonth  []decimal.Decimal `json:"outflowByMonth"`
	Months          []string          `json:"months"`
}

func (c *CashFlowStatement) Normalize() {
	c.InflowByMonth = nonNil(c.InflowByMonth)
	c.OutflowByMonth = nonNil(c.OutflowByMonth)
	c.Months = nonNil(c.Months)
}

// AgingRow is one counterparty's receivable split by days past due.
type AgingRow struct {
	Customer   string          `json:"customer"`
	Current    decimal.Decimal `json:"current"`
	Days1To30  decimal.Decimal `json:"days1to30"`
	Days31To60 decimal.Decimal `json:"days31to60"`
	Days61To90 decimal.Decimal `json:"days61to90"`
	Over90     decimal.Decimal `json:"over90"`
	Total      decimal.Decimal `json:"total"`
}

// AgingReport is the payload of /financial-dashboard/aging-report.
type AgingReport []AgingRow

func (a *AgingReport) Normalize() {
	if *a == nil {
		*a = AgingReport{}
	}
}

// Totals sums every bucket across rows, keyed by bucket name.
func (a AgingReport) Totals() map[string]decimal.Decimal {
	totals := map[string]decimal.Decimal{
		"current":    decimal.Zero,
		"days1to30":  decimal.Zero,
		"days31to60": decimal.Zero,
		"days61to90": decimal.Zero,
		"over90":     decimal.Zero,
		"total":      decimal.Zero,
	}
	for _, row := range a {
		totals["current"] = totals["current"].Add(row.Current)
		totals["days1to30"] = totals["days1to30"].Add(row.Days1To30)
		totals["days31to60"] = totals["days31to60"].Add(row.Days31To60)
		totals["days61to90"] = totals["days61to90"].Add(row.Days61To90)
		totals["over90"] = totals["over90"].Add(row.Over90)
		totals["total"] = totals["total"].Add(row.Total)
	}
	return totals
}

// Dataset is a free-form JSON object. Inflows, outflows and cash analysis
// are passed through as the backend shapes them.
type Dataset map[string]any

func (d *Dataset) Normalize() {
	if *d == nil {
		*d = Dataset{}
	}
}

// Numbers returns the top-level numeric fields of d.
func (d Dataset) Numbers() map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(d))
	for k, v := range d {
		if n, ok := ToDecimal(v); ok {
			out[k] = n
		}
	}
	return out
}

// DSO is a Days Sales Outstanding figure for one period.
type DSO struct {
	DSO                decimal.Decimal `json:"dso"`
	AccountsReceivable decimal.Decimal `json:"accountsReceivable"`
	CreditSales        decimal.Decimal `json:"creditSales"`
	Days               int             `json:"days"`
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
