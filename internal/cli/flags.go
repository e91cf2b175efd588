package cli

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alligatorO15/finboard/internal/daterange"
	"github.com/alligatorO15/finboard/internal/report"
)

const (
	outputText = "text"
	outputJSON = "json"
)

// rangeFlags are shared by every command that fetches reports.
type rangeFlags struct {
	preset     string
	from       string
	to         string
	growthRate string
	dsoType    string
	output     string

	fs *pflag.FlagSet
}

func (f *rangeFlags) register(cmd *cobra.Command, defaultRange string) {
	f.fs = cmd.Flags()
	cmd.Flags().StringVar(&f.preset, "range", defaultRange, "Date range: monthToDate, yearToDate, lastMonth or custom")
	cmd.Flags().StringVar(&f.from, "from", "", "Start date (YYYY-MM-DD), selects the custom range")
	cmd.Flags().StringVar(&f.to, "to", "", "End date (YYYY-MM-DD), selects the custom range")
	cmd.Flags().StringVar(&f.growthRate, "growth-rate", "", "Growth rate sent with the cash analysis report")
	cmd.Flags().StringVar(&f.dsoType, "type", "", "DSO slot to fetch: current, previous or yearToDate")
	cmd.Flags().StringVarP(&f.output, "output", "o", outputText, "Output format: text or json")
}

func (f *rangeFlags) selector() (*daterange.Selector, error) {
	preset, err := daterange.ParsePreset(f.preset)
	if err != nil {
		return nil, err
	}

	sel := daterange.NewSelector()
	if f.from == "" && f.to == "" {
		if preset == daterange.Custom {
			return nil, fmt.Errorf("--range custom requires --from and --to")
		}
		return sel, sel.SetRange(preset)
	}

	// an explicit preset other than custom conflicts with bounds, same as PUT /range
	if preset != daterange.Custom && f.fs != nil && f.fs.Changed("range") {
		return nil, fmt.Errorf("--from and --to require --range custom, got %q", preset)
	}

	start, err := time.ParseInLocation("2006-01-02", f.from, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --from: %w", err)
	}
	end, err := time.ParseInLocation("2006-01-02", f.to, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --to: %w", err)
	}
	return sel, sel.SetCustomRange(start, end)
}

func (f *rangeFlags) apply(q report.Query) (report.Query, error) {
	if f.growthRate != "" {
		rate, err := decimal.NewFromString(f.growthRate)
		if err != nil {
			return q, fmt.Errorf("invalid --growth-rate: %w", err)
		}
		q.GrowthRate = &rate
	}
	if f.dsoType != "" {
		t, err := report.ParseDSOType(f.dsoType)
		if err != nil {
			return q, err
		}
		q.Type = t
	}
	return q, nil
}

func (f *rangeFlags) validateOutput() error {
	switch f.output {
	case outputText, outputJSON:
		return nil
	default:
		return fmt.Errorf("unsupported output %q, use text or json", f.output)
	}
}
