package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"renderhq/janus/pkg/audit"
)

// CSVExporter exports audit records to CSV with a header row.
type CSVExporter struct{}

// NewCSVExporter creates a new CSV exporter.
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// csvHeader lists the exported columns in order.
var csvHeader = []string{
	"id", "run_id", "path", "fingerprint",
	"action", "simulated", "success", "error_kind", "error",
	"bytes_affected", "categories", "decision_reason", "archive_destination",
	"timestamp",
}

// Export writes the records to w as CSV.
func (e *CSVExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range records {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		row := []string{
			r.ID, r.RunID, r.Path, r.Fingerprint,
			r.Action,
			fmt.Sprintf("%t", r.Simulated),
			fmt.Sprintf("%t", r.Success),
			r.ErrorKind, r.Error,
			fmt.Sprintf("%d", r.BytesAffected),
			strings.Join(r.Categories, ";"),
			r.DecisionReason, r.ArchiveDestination,
			r.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
