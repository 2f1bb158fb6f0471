package cli

import (
	"github.com/spf13/cobra"

	"github.com/visitmetrics/visitmetrics/internal/pipeline"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report missing values in the configured source",
	Long: `Load the configured source and print a per-column count of missing
values in the visit facts. Nothing is dropped or modified; the pipeline
carries missing values through and excludes them only where an
aggregate cannot use them.`,
	RunE: runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ds, err := loadDataset(cmd.Context())
	if err != nil {
		return err
	}

	q := pipeline.Validate(ds.Visits)
	cmd.Printf("visit rows:            %d\n", q.Rows)
	cmd.Printf("missing store_id:      %d\n", q.MissingStoreID)
	cmd.Printf("missing visit time:    %d\n", q.MissingVisitTime)
	cmd.Printf("missing reserve time:  %d\n", q.MissingReserveTime)
	cmd.Printf("missing visitors:      %d\n", q.MissingVisitors)
	cmd.Printf("calendar days:         %d\n", len(ds.Calendar))
	cmd.Printf("stores:                %d\n", len(ds.Stores))

	if q.Dirty() {
		cmd.Println()
		cmd.Println("Rows with missing fields are kept; aggregates skip them where needed.")
	}
	return nil
}
