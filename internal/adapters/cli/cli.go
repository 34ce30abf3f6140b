// Package cli implements co2ctl, the offline command line over the CO2 dataset.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	service "github.com/okian/co2atlas/internal/app"
	"github.com/okian/co2atlas/internal/config"
	"github.com/okian/co2atlas/pkg/logger"
)

// CLI represents the command-line interface.
type CLI struct {
	out      io.Writer
	cfg      *config.Config
	dataPath string
	asJSON   bool
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI.
type Options struct {
	Output io.Writer
	// Config replaces config.Load when set.
	Config *config.Config
}

// NewCLI creates a new CLI instance.
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	c := &CLI{out: opts.Output, cfg: opts.Config}
	c.rootCmd = c.newRootCmd()
	return c
}

// Execute runs the command line given by args.
func (c *CLI) Execute(ctx context.Context, args []string) error {
	c.rootCmd.SetArgs(args)
	return c.rootCmd.ExecuteContext(ctx)
}

func (c *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "co2ctl",
		Short:             "Query and forecast the OWID CO2 dataset offline",
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}
	cmd.SetOut(c.out)
	cmd.SetErr(c.out)

	cmd.PersistentFlags().StringVar(&c.dataPath, "data", "", "Path to the OWID CO2 CSV (defaults to dataset_path)")
	cmd.PersistentFlags().BoolVar(&c.asJSON, "json", false, "Print JSON instead of a table")

	cmd.AddCommand(c.newMethodsCmd())
	cmd.AddCommand(c.newSeriesCmd())
	cmd.AddCommand(c.newForecastCmd())
	cmd.AddCommand(c.newRankCmd())
	return cmd
}

func (c *CLI) loadConfig(cmd *cobra.Command, _ []string) error {
	if c.cfg != nil {
		return nil
	}
	cfg, err := config.Load(cmd.Context())
	if err != nil {
		return err
	}
	c.cfg = cfg
	return nil
}

func (c *CLI) reporter() *Reporter {
	return NewReporter(c.out, c.asJSON)
}

// open loads the dataset and starts a service over it. Callers stop it.
func (c *CLI) open(ctx context.Context) (*service.Service, error) {
	path := c.dataPath
	if path == "" {
		path = c.cfg.DatasetPath
	}
	svc := service.New(
		service.WithLogger(logger.Nop()),
		service.WithDatasetPath(path),
		service.WithForecastHorizon(c.cfg.ForecastHorizon),
		service.WithMaxForecastHorizon(c.cfg.MaxForecastHorizon),
		service.WithWindows(c.cfg.ForecastWindow, c.cfg.ComparisonWindow),
		service.WithRankingLimits(c.cfg.RankingLimit, c.cfg.MaxRankingLimit),
		service.WithBatch(c.cfg.BatchWorkers, c.cfg.BatchMaxItems),
		service.WithComparison(c.cfg.CompareFromYear, c.cfg.MaxCompareEntities),
	)
	if err := svc.Start(ctx); err != nil {
		return nil, err
	}
	return svc, nil
}
