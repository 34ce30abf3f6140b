package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	service "github.com/okian/co2atlas/internal/app"
	"github.com/okian/co2atlas/internal/domain/forecast"
	"github.com/okian/co2atlas/internal/domain/model"
)

func (c *CLI) newMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List forecast methods",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			list := forecast.Methods()
			rows := make([][]string, 0, len(list))
			for _, m := range list {
				rows = append(rows, []string{string(m.Method), m.Label})
			}
			return c.reporter().Handle(list, []string{"METHOD", "LABEL"}, rows)
		},
	}
}

// seriesFlags binds the region selection shared by series and forecast.
func seriesFlags(cmd *cobra.Command, q *model.SeriesQuery) {
	cmd.Flags().StringVar(&q.Region, "region", "country", "Region mode: country or continent")
	cmd.Flags().StringVar(&q.Code, "code", "", "ISO alpha-3 code (country mode)")
	cmd.Flags().StringVar(&q.Name, "name", "", "Continent name (continent mode)")
	cmd.Flags().StringVar(&q.Metric, "metric", service.DefaultMetric, "Metric column")
	cmd.Flags().IntVar(&q.Window, "window", 0, "Keep only the most recent points (0 uses the configured window)")
}

func (c *CLI) newSeriesCmd() *cobra.Command {
	var q model.SeriesQuery
	cmd := &cobra.Command{
		Use:   "series",
		Short: "Print the yearly series of a region",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			ts, err := svc.Series(cmd.Context(), q)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(ts))
			for _, p := range ts {
				rows = append(rows, []string{strconv.Itoa(p.Year), formatValue(p.Value)})
			}
			return c.reporter().Handle(ts, []string{"YEAR", "VALUE"}, rows)
		},
	}
	seriesFlags(cmd, &q)
	return cmd
}

type forecastCmd struct {
	cli *CLI
	req model.ForecastRequest
	all bool
}

func (c *CLI) newForecastCmd() *cobra.Command {
	fc := &forecastCmd{cli: c}
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Forecast the series of a region",
		Args:  cobra.NoArgs,
		RunE:  fc.run,
	}
	seriesFlags(cmd, &fc.req.SeriesQuery)
	cmd.Flags().StringVar(&fc.req.Method, "method", string(forecast.Linear), "Forecast method (see methods)")
	cmd.Flags().IntVar(&fc.req.Horizon, "horizon", 0, "Years to predict (0 uses the configured horizon)")
	cmd.Flags().BoolVar(&fc.all, "all", false, "Run every method through the batch pool")
	return cmd
}

type methodOutcome struct {
	Method string          `json:"method"`
	Result forecast.Result `json:"result"`
	Error  string          `json:"error,omitempty"`
}

func (fc *forecastCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	svc, err := fc.cli.open(ctx)
	if err != nil {
		return err
	}
	defer svc.Stop()

	if !fc.all {
		res, err := svc.Forecast(ctx, fc.req)
		if err != nil {
			return fmt.Errorf("no forecast available: %w", err)
		}
		return fc.cli.reporter().Handle(res, []string{"YEAR", "VALUE", "KIND"}, pointRows(res))
	}

	methods := forecast.Methods()
	reqs := make([]model.ForecastRequest, len(methods))
	for i, m := range methods {
		reqs[i] = fc.req
		reqs[i].Method = string(m.Method)
	}
	items, err := svc.ForecastBatch(ctx, reqs)
	if err != nil {
		return err
	}

	rep := fc.cli.reporter()
	if fc.cli.asJSON {
		out := make([]methodOutcome, len(items))
		for i, it := range items {
			out[i] = methodOutcome{Method: reqs[i].Method, Result: it.Result}
			if it.Err != nil {
				out[i].Error = it.Err.Error()
			}
		}
		return rep.Handle(out, nil, nil)
	}
	for i, it := range items {
		rep.Title("%s", methods[i].Label)
		if it.Err != nil {
			_, _ = fmt.Fprintf(fc.cli.out, "no forecast available: %v\n", it.Err)
			continue
		}
		if err := rep.Handle(it.Result, []string{"YEAR", "VALUE", "KIND"}, pointRows(it.Result)); err != nil {
			return err
		}
	}
	return nil
}

func pointRows(res forecast.Result) [][]string {
	rows := make([][]string, 0, len(res.Points))
	for _, p := range res.Points {
		rows = append(rows, []string{strconv.Itoa(p.Year), formatValue(p.Value), string(p.Kind)})
	}
	return rows
}

func (c *CLI) newRankCmd() *cobra.Command {
	var (
		q    service.RankingQuery
		year int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank countries by their latest value, or by the value in one year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Flags().Changed("year") {
				q.Year = &year
			}
			svc, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Stop()

			entries, err := svc.Ranking(cmd.Context(), q)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{
					strconv.Itoa(e.Rank),
					e.EntityCode,
					e.EntityName,
					strconv.Itoa(e.Year),
					formatValue(e.Value),
					fmt.Sprintf("%.1f%%", e.Share*100),
				})
			}
			return c.reporter().Handle(entries, []string{"RANK", "CODE", "NAME", "YEAR", "VALUE", "SHARE"}, rows)
		},
	}
	cmd.Flags().StringVar(&q.Metric, "metric", service.DefaultMetric, "Metric column")
	cmd.Flags().IntVar(&q.Limit, "limit", 0, "Number of entries (0 uses the configured limit)")
	cmd.Flags().IntVar(&year, "year", 0, "Rank by the value in this year instead of the latest")
	return cmd
}
