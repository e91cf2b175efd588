package report

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/alligatorO15/finboard/internal/models"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DSOType names one of the three DSO slots. It is never sent to the
// backend; it only picks the slot the response lands in.
type DSOType string

const (
	DSOCurrent    DSOType = "current"
	DSOPrevious   DSOType = "previous"
	DSOYearToDate DSOType = "yearToDate"
)

func DSOTypes() []DSOType {
	return []DSOType{DSOCurrent, DSOPrevious, DSOYearToDate}
}

func ParseDSOType(s string) (DSOType, error) {
	for _, t := range DSOTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown DSO type %q", s)
}

// DSOStore keeps one DSO figure per slot. Each slot has its own loading
// and error state.
type DSOStore struct {
	slots map[DSOType]*Store[models.DSO]
}

func NewDSOStore(src Fetcher, opts ...Option) *DSOStore {
	d := &DSOStore{slots: make(map[DSOType]*Store[models.DSO], 3)}
	for _, t := range DSOTypes() {
		d.slots[t] = NewStore(Definition[models.DSO]{
			Name:     DSO + "." + string(t),
			Endpoint: "/financial-dashboard/dso",
			Params:   RangeParams,
			Empty:    func() models.DSO { return models.DSO{} },
			Values: func(v models.DSO) map[string]decimal.Decimal {
				return map[string]decimal.Decimal{
					"DSO":                 v.DSO,
					"Accounts Receivable": v.AccountsReceivable,
					"Credit Sales":        v.CreditSales,
				}
			},
			FailureMessage: "Failed to load DSO data.",
		}, src, opts...)
	}
	return d
}

func (d *DSOStore) Name() string {
	return DSO
}

// Slot returns the store behind t.
func (d *DSOStore) Slot(t DSOType) *Store[models.DSO] {
	return d.slots[t]
}

// Fetch fills a single slot. An unknown type fetches nothing.
func (d *DSOStore) Fetch(ctx context.Context, t DSOType, q Query) {
	slot, ok := d.slots[t]
	if !ok {
		zerolog.Ctx(ctx).Warn().
			Str("report", DSO).
			Str("type", string(t)).
			Msg("unknown DSO type, nothing fetched")
		return
	}
	slot.Fetch(ctx, q)
}

// Refresh fills the slot named by q.Type, or all three slots concurrently
// with windows derived from q when q.Type is empty.
func (d *DSOStore) Refresh(ctx context.Context, q Query) {
	if q.Type != "" {
		d.Fetch(ctx, q.Type, q)
		return
	}

	var wg sync.WaitGroup
	for t, window := range DSOWindows(q) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Fetch(ctx, t, window)
		}()
	}
	wg.Wait()
}

// DSOWindows derives the query of each slot from the current window:
// previous covers as many calendar days as the current window and ends the
// day before Start, and yearToDate runs from January 1 of End's year to End.
func DSOWindows(q Query) map[DSOType]Query {
	prevEnd := q.Start.AddDate(0, 0, -1)
	prevStart := prevEnd.AddDate(0, 0, -calendarDays(q.Start, q.End))
	ytdStart := time.Date(q.End.Year(), time.January, 1, 0, 0, 0, 0, q.End.Location())

	return map[DSOType]Query{
		DSOCurrent:    {Start: q.Start, End: q.End, Type: DSOCurrent},
		DSOPrevious:   {Start: prevStart, End: prevEnd, Type: DSOPrevious},
		DSOYearToDate: {Start: ytdStart, End: q.End, Type: DSOYearToDate},
	}
}

// calendarDays counts the dates from start to end, ignoring the time of
// day; a window within one date is 0.
func calendarDays(start, end time.Time) int {
	loc := start.Location()
	end = end.In(loc)
	from := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	to := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
	// rounding absorbs the 23h and 25h days around DST changes
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// DSOState is the state of every slot, keyed by type.
type DSOState map[DSOType]State[models.DSO]

func (d *DSOStore) State() DSOState {
	st := make(DSOState, len(d.slots))
	for t, slot := range d.slots {
		st[t] = slot.State()
	}
	return st
}

func (d *DSOStore) Status() any {
	return d.State()
}

// Lookup addresses a slot by prefix: getValue takes "current.DSO", and
// jsonPath paths run over the map of slot data, e.g. "$.previous.dso".
func (d *DSOStore) Lookup(accessor, key string) (any, bool) {
	switch accessor {
	case AccessorGetValue:
		slotName, field, ok := strings.Cut(key, ".")
		if !ok {
			return nil, false
		}
		slot, ok := d.slots[DSOType(slotName)]
		if !ok {
			return nil, false
		}
		return slot.Lookup(accessor, field)
	case AccessorJSONPath:
		data := make(map[DSOType]models.DSO, len(d.slots))
		for t, slot := range d.slots {
			data[t] = slot.Data()
		}
		return evalJSONPath(data, key)
	}
	return nil, false
}
