package report

import (
	"context"
	"net/url"
	"time"

	"github.com/alligatorO15/finboard/internal/models"
	"github.com/shopspring/decimal"
)

// Report names.
const (
	BalanceSheet = "balance-sheet"
	Income       = "income"
	CashFlow     = "cash-flow"
	Inflows      = "inflows"
	Outflows     = "outflows"
	AgingReport  = "aging-report"
	CashAnalysis = "cash-analysis"
	DSO          = "dso"
)

// dateLayout is how dates travel in query strings.
const dateLayout = "2006-01-02"

// Report is the type-erased view of a store used by the dashboard, the
// API and the stat aggregator.
type Report interface {
	Name() string
	Refresh(ctx context.Context, q Query)
	Status() any
	Lookup(accessor, key string) (any, bool)
}

var errNoEndDate = &InputError{Message: "No end date selected."}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// RangeParams sends startDate and endDate.
func RangeParams(q Query) (url.Values, error) {
	return url.Values{
		"startDate": {formatDate(q.Start)},
		"endDate":   {formatDate(q.End)},
	}, nil
}

// AsOfParams sends the end of the range as asOfDate.
func AsOfParams(q Query) (url.Values, error) {
	if q.End.IsZero() {
		return nil, errNoEndDate
	}
	return url.Values{"asOfDate": {formatDate(q.End)}}, nil
}

// BalanceSheetParams sends the end of the range as date.
func BalanceSheetParams(q Query) (url.Values, error) {
	if q.End.IsZero() {
		return nil, errNoEndDate
	}
	return url.Values{"date": {formatDate(q.End)}}, nil
}

// CashAnalysisParams adds growthRate to the range; it is omitted when unset.
func CashAnalysisParams(q Query) (url.Values, error) {
	params, _ := RangeParams(q)
	if q.GrowthRate != nil {
		params.Set("growthRate", q.GrowthRate.String())
	}
	return params, nil
}

func NewBalanceSheetStore(src Fetcher, opts ...Option) *Store[models.BalanceSheet] {
	return NewStore(Definition[models.BalanceSheet]{
		Name:      BalanceSheet,
		Endpoint:  "/balance-sheet",
		Params:    BalanceSheetParams,
		Empty:     func() models.BalanceSheet { return models.BalanceSheet{Value: []models.LineItem{}} },
		Normalize: (*models.BalanceSheet).Normalize,
		Values: func(b models.BalanceSheet) map[string]decimal.Decimal {
			out := make(map[string]decimal.Decimal, len(b.Value))
			for _, item := range b.Value {
				out[item.Name] = item.Amount
			}
			return out
		},
		FailureMessage: "Failed to load balance sheet data.",
	}, src, opts...)
}

func NewIncomeStore(src Fetcher, opts ...Option) *Store[models.IncomeStatement] {
	return NewStore(Definition[models.IncomeStatement]{
		Name:     Income,
		Endpoint: "/income-statements",
		Params:   RangeParams,
		Empty: func() models.IncomeStatement {
			var s models.IncomeStatement
			s.Normalize()
			return s
		},
		Normalize: (*models.IncomeStatement).Normalize,
		Values: func(s models.IncomeStatement) map[string]decimal.Decimal {
			return map[string]decimal.Decimal{
				"Total Revenue":  s.TotalRevenue,
				"Total Expenses": s.TotalExpenses,
				"Net Profit":     s.NetProfit,
				"Net Income":     s.NetProfit,
			}
		},
		FailureMessage: "Failed to load income data.",
	}, src, opts...)
}

func NewCashFlowStore(src Fetcher, opts ...Option) *Store[models.CashFlowStatement] {
	return NewStore(Definition[models.CashFlowStatement]{
		Name:     CashFlow,
		Endpoint: "/cash-flow-statements",
		Params:   RangeParams,
		Empty: func() models.CashFlowStatement {
			var c models.CashFlowStatement
			c.Normalize()
			return c
		},
		Normalize: (*models.CashFlowStatement).Normalize,
		Values: func(c models.CashFlowStatement) map[string]decimal.Decimal {
			return map[string]decimal.Decimal{
				"Current Cash Flow": c.CurrentCashFlow,
				"Total Inflow":      sum(c.InflowByMonth),
				"Total Outflow":     sum(c.OutflowByMonth),
			}
		},
		FailureMessage: "Failed to load cash flow data.",
	}, src, opts...)
}

func NewInflowsStore(src Fetcher, opts ...Option) *Store[models.Dataset] {
	return newDatasetStore(Inflows, "/financial-dashboard/inflows", RangeParams,
		"Failed to fetch inflows data", src, opts...)
}

func NewOutflowsStore(src Fetcher, opts ...Option) *Store[models.Dataset] {
	return newDatasetStore(Outflows, "/financial-dashboard/outflows", RangeParams,
		"Failed to load outflows data.", src, opts...)
}

func NewCashAnalysisStore(src Fetcher, opts ...Option) *Store[models.Dataset] {
	return newDatasetStore(CashAnalysis, "/financial-dashboard/cash-analysis", CashAnalysisParams,
		"Failed to load cash analysis data.", src, opts...)
}

func NewAgingReportStore(src Fetcher, opts ...Option) *Store[models.AgingReport] {
	return NewStore(Definition[models.AgingReport]{
		Name:      AgingReport,
		Endpoint:  "/financial-dashboard/aging-report",
		Params:    AsOfParams,
		Empty:     func() models.AgingReport { return models.AgingReport{} },
		Normalize: (*models.AgingReport).Normalize,
		Values: func(a models.AgingReport) map[string]decimal.Decimal {
			return a.Totals()
		},
		FailureMessage: "Failed to load aging report data.",
	}, src, opts...)
}

func newDatasetStore(name, endpoint string, params ParamBuilder, failure string, src Fetcher, opts ...Option) *Store[models.Dataset] {
	return NewStore(Definition[models.Dataset]{
		Name:           name,
		Endpoint:       endpoint,
		Params:         params,
		Empty:          func() models.Dataset { return models.Dataset{} },
		Normalize:      (*models.Dataset).Normalize,
		Values:         models.Dataset.Numbers,
		FailureMessage: failure,
	}, src, opts...)
}

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
