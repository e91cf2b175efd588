package cli

import (
	"context"

	"github.com/spf13/cobra"
)

type statsCmd struct {
	cli   *CLI
	flags rangeFlags
}

func newStatsCmd(c *CLI) *cobra.Command {
	sc := &statsCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print the headline stat tiles",
		Args:  cobra.NoArgs,
		RunE:  sc.run,
	}
	sc.flags.register(cmd, c.config.DefaultRange)
	return cmd
}

func (sc *statsCmd) run(cmd *cobra.Command, _ []string) error {
	if err := sc.flags.validateOutput(); err != nil {
		return err
	}

	d, err := sc.cli.newDashboard(&sc.flags)
	if err != nil {
		return err
	}
	q, err := sc.flags.apply(d.Query(nil))
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(sc.cli.logger.WithContext(cmd.Context()), commandTimeout)
	defer cancel()

	// only the stores the tiles read
	if err := d.Refresh(ctx, q, d.Stats().Stores()...); err != nil {
		return err
	}

	tiles := d.Tiles()
	if sc.flags.output == outputJSON {
		return sc.cli.reporter.JSON(tiles)
	}
	return sc.cli.reporter.Tiles(d.Selector().Snapshot(), tiles)
}
