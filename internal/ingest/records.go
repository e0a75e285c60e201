package ingest

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/crucial707/asset-recon/internal/etl"
)

// recordList is the {"records": [...]} shape the CMDB API hands back.
type recordList struct {
	Records []map[string]any `json:"records"`
}

// ReadRecordsJSON loads a JSON record-list file, keeping only the named
// fields of each record.
func ReadRecordsJSON(path string, fields ...string) (etl.Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return etl.Batch{}, fmt.Errorf("ingest: read %s: %w", path, err)
	}
	var list recordList
	if err := json.Unmarshal(data, &list); err != nil {
		return etl.Batch{}, fmt.Errorf("ingest: parse %s: %w", path, err)
	}

	batch := etl.Batch{Columns: fields}
	for _, raw := range list.Records {
		rec := make(etl.Record, len(fields))
		for _, f := range fields {
			rec[f] = raw[f]
		}
		batch.Rows = append(batch.Rows, rec)
	}
	return batch, nil
}
