// Package ingest reads the raw files the scrapers leave behind: zipped CSV
// exports from the device-management console and JSON record lists from the
// CMDB API.
package ingest

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/crucial707/asset-recon/internal/etl"
)

// ExtractReportCSV finds the newest .zip in dir, extracts its single CSV
// under a timestamped name next to it, deletes the zip, and returns the CSV
// path. The device console always delivers its export this way.
func ExtractReportCSV(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("ingest: read dir %s: %w", dir, err)
	}
	var zipPath string
	var zipTime time.Time
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(strings.ToLower(e.Name()), ".zip") {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return "", fmt.Errorf("ingest: stat %s: %w", e.Name(), err)
		}
		// Stale zips can linger when a previous run failed mid-import;
		// always pick the latest download.
		if zipPath == "" || info.ModTime().After(zipTime) {
			zipPath = filepath.Join(dir, e.Name())
			zipTime = info.ModTime()
		}
	}
	if zipPath == "" {
		return "", fmt.Errorf("ingest: no report zip file found in %s", dir)
	}

	zr, err := zip.OpenReader(zipPath)
	if err != nil {
		return "", fmt.Errorf("ingest: open zip %s: %w", zipPath, err)
	}
	defer zr.Close()

	csvPath := filepath.Join(dir, fmt.Sprintf("mem_%s.csv", time.Now().UTC().Format("20060102150405")))
	extracted := false
	for _, zf := range zr.File {
		if !strings.HasSuffix(strings.ToLower(zf.Name), ".csv") {
			continue
		}
		src, err := zf.Open()
		if err != nil {
			return "", fmt.Errorf("ingest: open %s in zip: %w", zf.Name, err)
		}
		dst, err := os.Create(csvPath)
		if err != nil {
			src.Close()
			return "", err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return "", fmt.Errorf("ingest: extract %s: %w", zf.Name, err)
		}
		extracted = true
		break
	}
	if !extracted {
		return "", fmt.Errorf("ingest: no csv file inside %s", zipPath)
	}
	if err := os.Remove(zipPath); err != nil {
		return "", fmt.Errorf("ingest: remove %s: %w", zipPath, err)
	}
	return csvPath, nil
}

// ReadCSV loads a CSV file into a generic batch; the first record is the header.
func ReadCSV(path string) (etl.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		return etl.Batch{}, fmt.Errorf("ingest: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return etl.Batch{}, fmt.Errorf("ingest: parse %s: %w", path, err)
	}
	if len(records) == 0 {
		return etl.Batch{}, fmt.Errorf("ingest: %s is empty", path)
	}

	batch := etl.Batch{Columns: records[0]}
	for _, row := range records[1:] {
		rec := make(etl.Record, len(batch.Columns))
		for i, col := range batch.Columns {
			if i < len(row) {
				rec[col] = row[i]
			} else {
				rec[col] = nil
			}
		}
		batch.Rows = append(batch.Rows, rec)
	}
	return batch, nil
}
