package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/alligatorO15/finboard/internal/daterange"
	"github.com/alligatorO15/finboard/internal/report"
	"github.com/alligatorO15/finboard/internal/stats"
)

var (
	ErrUnknownReport   = errors.New("unknown report")
	ErrHistoryDisabled = errors.New("snapshot history is disabled")
)

// Dashboard owns the shared date range, one store per report and the stat
// tiles computed from them.
type Dashboard struct {
	selector *daterange.Selector
	reports  map[string]report.Report
	order    []string
	dso      *report.DSOStore
	stats    *stats.Aggregator
	history  report.History
}

type options struct {
	selector    *daterange.Selector
	storeOpts   []report.Option
	descriptors []stats.Descriptor
	currency    string
	history     report.History
}

type Option func(*options)

func WithSelector(s *daterange.Selector) Option {
	return func(o *options) {
		o.selector = s
	}
}

// WithStoreOptions applies opts to every report store.
func WithStoreOptions(opts ...report.Option) Option {
	return func(o *options) {
		o.storeOpts = append(o.storeOpts, opts...)
	}
}

func WithDescriptors(d []stats.Descriptor) Option {
	return func(o *options) {
		o.descriptors = d
	}
}

func WithCurrency(code string) Option {
	return func(o *options) {
		o.currency = code
	}
}

// WithSnapshots records every successful fetch into sink and serves
// History from history.
func WithSnapshots(sink report.Sink, history report.History) Option {
	return func(o *options) {
		if sink != nil {
			o.storeOpts = append(o.storeOpts, report.WithSink(sink))
		}
		o.history = history
	}
}

func New(src report.Fetcher, opts ...Option) *Dashboard {
	o := options{descriptors: stats.DefaultDescriptors()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.selector == nil {
		o.selector = daterange.NewSelector()
	}

	dso := report.NewDSOStore(src, o.storeOpts...)
	all := []report.Report{
		report.NewBalanceSheetStore(src, o.storeOpts...),
		report.NewIncomeStore(src, o.storeOpts...),
		report.NewCashFlowStore(src, o.storeOpts...),
		report.NewInflowsStore(src, o.storeOpts...),
		report.NewOutflowsStore(src, o.storeOpts...),
		report.NewAgingReportStore(src, o.storeOpts...),
		report.NewCashAnalysisStore(src, o.storeOpts...),
		dso,
	}

	d := &Dashboard{
		selector: o.selector,
		reports:  make(map[string]report.Report, len(all)),
		dso:      dso,
		history:  o.history,
	}
	sources := make(map[string]stats.Source, len(all))
	for _, r := range all {
		d.reports[r.Name()] = r
		d.order = append(d.order, r.Name())
		sources[r.Name()] = r
	}
	d.stats = stats.NewAggregator(o.descriptors, sources, o.currency)

	return d
}

func (d *Dashboard) Selector() *daterange.Selector {
	return d.selector
}

func (d *Dashboard) Stats() *stats.Aggregator {
	return d.stats
}

// Names lists the reports in display order.
func (d *Dashboard) Names() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

func (d *Dashboard) Report(name string) (report.Report, error) {
	r, ok := d.reports[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	return r, nil
}

func (d *Dashboard) Reports() []report.Report {
	out := make([]report.Report, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.reports[name])
	}
	return out
}

// Statuses returns the state of every report keyed by name.
func (d *Dashboard) Statuses() map[string]any {
	out := make(map[string]any, len(d.order))
	for _, name := range d.order {
		out[name] = d.reports[name].Status()
	}
	return out
}

// Query reads the selector once so every store refreshed with it sees the
// same window.
func (d *Dashboard) Query(growthRate *decimal.Decimal) report.Query {
	st := d.selector.Snapshot()
	return report.Query{
		Start:      st.Start,
		End:        st.End,
		GrowthRate: growthRate,
	}
}

// Refresh fetches the named reports, or every report when names is empty,
// concurrently. Store failures end up in store state. An unknown name is
// returned before anything is fetched, and a context that ends while the
// refresh runs is returned once every store has settled.
func (d *Dashboard) Refresh(ctx context.Context, q report.Query, names ...string) error {
	if len(names) == 0 {
		names = d.order
	}

	targets := make([]report.Report, 0, len(names))
	for _, name := range names {
		r, err := d.Report(name)
		if err != nil {
			return err
		}
		targets = append(targets, r)
	}

	log := zerolog.Ctx(ctx)
	started := time.Now()

	var g errgroup.Group
	for _, r := range targets {
		g.Go(func() error {
			r.Refresh(ctx, q)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	log.Debug().
		Strs("reports", names).
		Dur("elapsed", time.Since(started)).
		Msg("reports refreshed")
	return nil
}

func (d *Dashboard) Tiles() []stats.Tile {
	return d.stats.Tiles()
}

// History lists stored snapshots of name, newest first. DSO snapshots are
// kept per slot, so "dso" lists the current slot and "dso.previous" or
// "dso.yearToDate" address the others.
func (d *Dashboard) History(ctx context.Context, name string, limit int) ([]report.Snapshot, error) {
	if d.history == nil {
		return nil, ErrHistoryDisabled
	}

	key, err := d.historyKey(name)
	if err != nil {
		return nil, err
	}

	snaps, err := d.history.List(ctx, key, limit)
	if err != nil {
		return nil, fmt.Errorf("list %s history: %w", key, err)
	}
	return snaps, nil
}

func (d *Dashboard) historyKey(name string) (string, error) {
	if name == report.DSO {
		return d.dso.Slot(report.DSOCurrent).Name(), nil
	}
	for _, t := range report.DSOTypes() {
		if slot := d.dso.Slot(t); slot.Name() == name {
			return name, nil
		}
	}
	if _, ok := d.reports[name]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownReport, name)
	}
	return name, nil
}
