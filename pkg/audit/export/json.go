package export

import (
	"context"
	"encoding/json"
	"io"

	"renderhq/janus/pkg/audit"
)

// JSONExporter exports audit records to JSON.
type JSONExporter struct {
	// Pretty enables pretty-printing with indentation.
	Pretty bool
}

// NewJSONExporter creates a new JSON exporter.
func NewJSONExporter(pretty bool) *JSONExporter {
	return &JSONExporter{Pretty: pretty}
}

// Export writes the records to w as a JSON array.
func (e *JSONExporter) Export(ctx context.Context, records []*audit.Record, w io.Writer) error {
	if len(records) == 0 {
		_, err := w.Write([]byte("[]"))
		return err
	}

	var data []byte
	var err error
	if e.Pretty {
		data, err = json.MarshalIndent(records, "", "  ")
	} else {
		data, err = json.Marshal(records)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
