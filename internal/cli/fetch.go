package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alligatorO15/finboard/internal/dashboard"
	"github.com/alligatorO15/finboard/internal/stats"
)

type fetchCmd struct {
	cli   *CLI
	flags rangeFlags
}

func newFetchCmd(c *CLI) *cobra.Command {
	fc := &fetchCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "fetch [report...]",
		Short: "Fetch reports for a date range",
		Long:  "Fetch the named reports, or every report when none is named, and print their state.",
		RunE:  fc.run,
	}
	fc.flags.register(cmd, c.config.DefaultRange)
	return cmd
}

func (fc *fetchCmd) run(cmd *cobra.Command, args []string) error {
	if err := fc.flags.validateOutput(); err != nil {
		return err
	}

	d, err := fc.cli.newDashboard(&fc.flags)
	if err != nil {
		return err
	}
	q, err := fc.flags.apply(d.Query(nil))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(fc.cli.logger.WithContext(cmd.Context()), commandTimeout)
	defer cancel()

	if err := d.Refresh(ctx, q, args...); err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = d.Names()
	}
	statuses := make(map[string]any, len(names))
	for _, name := range names {
		r, err := d.Report(name)
		if err != nil {
			return err
		}
		statuses[name] = r.Status()
	}

	if fc.flags.output == outputJSON {
		return fc.cli.reporter.JSON(statuses)
	}
	return fc.cli.reporter.Reports(d.Selector().Snapshot(), names, statuses)
}

func (c *CLI) newDashboard(f *rangeFlags) (*dashboard.Dashboard, error) {
	sel, err := f.selector()
	if err != nil {
		return nil, err
	}

	descriptors, err := stats.LoadDescriptors(c.config.StatsConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load stat descriptors: %w", err)
	}

	return dashboard.New(c.fetcher,
		dashboard.WithSelector(sel),
		dashboard.WithDescriptors(descriptors),
		dashboard.WithCurrency(c.config.DefaultCurrency),
	), nil
}
