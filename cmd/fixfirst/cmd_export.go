package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fixfirst/internal/export"
	"fixfirst/internal/types"
	"fixfirst/internal/views"
)

var (
	exportOut    string
	exportStatus string
	exportDanger string
	exportWorker string
	exportSearch string
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export reports as CSV",
	Long: `Exports the report collection as CSV. Filters apply the same pipeline
as report list, so the file matches what a filtered dashboard shows.
With --out - the CSV is written to stdout.`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "Output file (default: fixfirst_reports_<date>.csv)")
	exportCmd.Flags().StringVar(&exportStatus, "status", types.FilterAll, "Filter by status")
	exportCmd.Flags().StringVar(&exportDanger, "danger", types.FilterAll, "Filter by danger level")
	exportCmd.Flags().StringVar(&exportWorker, "worker", types.FilterAll, "Filter by worker")
	exportCmd.Flags().StringVar(&exportSearch, "search", "", "Free-text search")
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	blob, st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer blob.Close()

	filtered := views.Apply(st.All(), types.ViewFilters{
		Status: exportStatus,
		Danger: exportDanger,
		Worker: exportWorker,
		Search: exportSearch,
	})

	if exportOut == "-" {
		return export.WriteCSV(os.Stdout, filtered)
	}

	path := exportOut
	if path == "" {
		path = export.Filename(time.Now())
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := export.WriteCSV(f, filtered); err != nil {
		return err
	}
	logger.Info("Export complete", zap.String("path", path), zap.Int("rows", len(filtered)))
	fmt.Printf("Exported %d report(s) to %s\n", len(filtered), path)
	return nil
}
