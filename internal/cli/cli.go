package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alligatorO15/finboard/internal/backend"
	"github.com/alligatorO15/finboard/internal/config"
	"github.com/alligatorO15/finboard/internal/report"
)

// CLI is the finreport command line.
type CLI struct {
	config   *config.Config
	fetcher  report.Fetcher
	logger   zerolog.Logger
	reporter *Reporter
	rootCmd  *cobra.Command
}

type Options struct {
	Config *config.Config
	Output io.Writer
	Logger *zerolog.Logger
	// Fetcher overrides the backend client built from Config.
	Fetcher report.Fetcher
}

func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Config == nil {
		opts.Config = config.Load()
	}
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = backend.NewClient(opts.Config.BackendURL,
			backend.WithTimeout(opts.Config.BackendTimeout),
			backend.WithToken(opts.Config.BackendToken),
		)
	}

	c := &CLI{
		config:   opts.Config,
		fetcher:  fetcher,
		logger:   logger,
		reporter: NewReporter(opts.Output),
	}
	c.rootCmd = c.newRootCmd()
	return c
}

func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// SetArgs replaces os.Args[1:] for the next Execute.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "finreport",
		Short:         "Fetch financial reports from the reporting backend",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(c.reporter.writer)

	cmd.AddCommand(newFetchCmd(c))
	cmd.AddCommand(newStatsCmd(c))
	cmd.AddCommand(newTokenCmd(c))

	return cmd
}

const commandTimeout = 60 * time.Second
