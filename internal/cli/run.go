package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/visitmetrics/visitmetrics/internal/dataset"
	"github.com/visitmetrics/visitmetrics/internal/logging"
	"github.com/visitmetrics/visitmetrics/internal/pipeline"
	"github.com/visitmetrics/visitmetrics/internal/reports"
	"github.com/visitmetrics/visitmetrics/internal/source"
)

var (
	runTopN     int
	runMinWeek  int
	runGenre    string
	runLat      float64
	runLng      float64
	runRadiusKm float64
)

var runCmd = &cobra.Command{
	Use:   "run [report...]",
	Short: "Run reports against the configured source",
	Long: `Run one or more reports against the configured source. With no
arguments every registered report runs; reports that need extra
parameters (like nearby-stores) are skipped unless those parameters
are given.

Example:
  visitmetrics run top-holiday-stores --top-n 5
  visitmetrics run weekly-by-genre --genre "Izakaya" --min-week 2
  visitmetrics run nearby-stores --lat 35.66 --lng 139.70 --radius-km 5`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().IntVar(&runTopN, "top-n", 0,
		"rank window upper bound for ranking reports")
	runCmd.Flags().IntVar(&runMinWeek, "min-week", 0,
		"minimum ISO week retained by weekly reports (filter applies after the lag)")
	runCmd.Flags().StringVar(&runGenre, "genre", "",
		"restrict genre reports to a single genre")
	runCmd.Flags().Float64Var(&runLat, "lat", 0,
		"latitude for the nearby-stores report")
	runCmd.Flags().Float64Var(&runLng, "lng", 0,
		"longitude for the nearby-stores report")
	runCmd.Flags().Float64Var(&runRadiusKm, "radius-km", 0,
		"search radius in kilometers for the nearby-stores report")
}

func runRun(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if runTopN > 0 {
		cfg.Report.TopN = runTopN
	}
	if runMinWeek > 0 {
		cfg.Report.MinWeek = runMinWeek
	}
	if runGenre != "" {
		cfg.Report.Genre = runGenre
	}
	if runRadiusKm > 0 {
		cfg.Report.RadiusKm = runRadiusKm
	}

	if err := cfg.ValidateRun(); err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	p := reports.Params{
		TopN:     cfg.Report.TopN,
		MinWeek:  cfg.Report.MinWeek,
		Genre:    cfg.Report.Genre,
		Lat:      runLat,
		Lng:      runLng,
		RadiusKm: cfg.Report.RadiusKm,
	}

	// A named report that fails is an error; when running everything,
	// reports missing their parameters are skipped instead.
	if len(args) > 0 {
		for _, name := range args {
			r, err := reports.Get(name)
			if err != nil {
				return err
			}
			if err := renderReport(cmd, r, ds, p); err != nil {
				return err
			}
		}
		return nil
	}

	for _, r := range reports.All() {
		if err := renderReport(cmd, r, ds, p); err != nil {
			logging.Warn().
				Str("report", r.Name()).
				Err(err).
				Msg("Skipping report")
		}
	}
	return nil
}

func renderReport(cmd *cobra.Command, r reports.Report, ds *dataset.Dataset, p reports.Params) error {
	table, err := r.Run(ds, p)
	if err != nil {
		return err
	}

	cmd.Printf("%s — %s\n", r.Name(), r.Description())
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	for i, col := range table.Columns {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, col)
	}
	fmt.Fprintln(w)
	for _, row := range table.Rows {
		for i, cell := range row {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, cell)
		}
		fmt.Fprintln(w)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	cmd.Println()
	return nil
}

// loadDataset builds the configured source, loads the dataset and logs the
// data quality summary.
func loadDataset(ctx context.Context) (*dataset.Dataset, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	src, err := source.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	if closer, ok := src.(interface{ Close() }); ok {
		defer closer.Close()
	}

	logging.Info().
		Str("source", src.Name()).
		Msg("Loading dataset")

	ds, err := src.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading dataset: %w", err)
	}

	q := pipeline.Validate(ds.Visits)
	ev := logging.Info()
	if q.Dirty() {
		ev = logging.Warn()
	}
	ev.
		Int("rows", q.Rows).
		Int("missing_store_id", q.MissingStoreID).
		Int("missing_visit_time", q.MissingVisitTime).
		Int("missing_reserve_time", q.MissingReserveTime).
		Int("missing_visitors", q.MissingVisitors).
		Msg("Data quality summary")

	return ds, nil
}
