package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/crucial707/asset-recon/internal/etl"
)

// ReadSheet loads one worksheet into a generic batch. The first row is the
// header; all cell values come back as strings (excelize reads formatted
// values), with short rows padded so every record has every column.
// Repeated headers get a numeric suffix (a second "City" becomes "City.1")
// so both columns survive the record map.
func ReadSheet(path, sheet string) (etl.Batch, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return etl.Batch{}, fmt.Errorf("excel: open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return etl.Batch{}, fmt.Errorf("excel: read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return etl.Batch{}, fmt.Errorf("excel: sheet %q in %s is empty", sheet, path)
	}

	batch := etl.Batch{Columns: dedupHeaders(rows[0])}
	for _, row := range rows[1:] {
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

func dedupHeaders(headers []string) []string {
	counts := make(map[string]int, len(headers))
	out := make([]string, len(headers))
	for i, h := range headers {
		if n := counts[h]; n > 0 {
			out[i] = fmt.Sprintf("%s.%d", h, n)
		} else {
			out[i] = h
		}
		counts[h]++
	}
	return out
}

// VisibleSheet returns the single visible worksheet name of a workbook. The
// CMDB export hides its metadata sheets; exactly one visible sheet is the
// expected shape, anything else is an error.
func VisibleSheet(path string) (string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return "", fmt.Errorf("excel: open %s: %w", path, err)
	}
	defer f.Close()

	var visible []string
	for _, name := range f.GetSheetList() {
		ok, err := f.GetSheetVisible(name)
		if err != nil {
			return "", err
		}
		if ok {
			visible = append(visible, name)
		}
	}
	if len(visible) != 1 {
		return "", fmt.Errorf("excel: %s should contain exactly one visible sheet, found %d", path, len(visible))
	}
	return visible[0], nil
}
