// Package export renders report snapshots as CSV for offline analysis.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"fixfirst/internal/logging"
	"fixfirst/internal/types"
)

// csvHeader is the fixed column set, in order. Exports always include every
// column even when a field is empty.
var csvHeader = []string{
	"ID",
	"Address",
	"Latitude",
	"Longitude",
	"Reported At",
	"Reported By",
	"Description",
	"Upvotes",
	"Danger Score",
	"Danger Level",
	"Road Type",
	"Status",
	"Assigned Worker",
}

// WriteCSV writes the snapshot as CSV. Rows follow the snapshot order, so
// exporting a filtered and sorted view preserves what the caller saw.
// Quoting and escaping are the encoding/csv defaults (RFC 4180).
func WriteCSV(w io.Writer, reports []types.Report) error {
	timer := logging.StartTimer(logging.CategoryExport, "WriteCSV")
	defer timer.Stop()

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, r := range reports {
		worker := r.WorkerName()
		if worker == "" {
			worker = "N/A"
		}
		row := []string{
			r.ID,
			r.Location.Address,
			strconv.FormatFloat(r.Location.Lat, 'f', -1, 64),
			strconv.FormatFloat(r.Location.Lng, 'f', -1, 64),
			r.Timestamp.Format(time.RFC3339),
			r.User.Name,
			r.Description,
			strconv.Itoa(r.Upvotes),
			strconv.FormatFloat(r.DangerScore, 'f', 1, 64),
			string(r.DangerLevel),
			string(r.RoadType),
			string(r.Status),
			worker,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write csv row for %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}

	logging.Get(logging.CategoryExport).Info("Exported %d reports", len(reports))
	return nil
}

// Filename returns the dated default export filename.
func Filename(now time.Time) string {
	return fmt.Sprintf("fixfirst_reports_%s.csv", now.Format("2006-01-02"))
}
