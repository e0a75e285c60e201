// Package excel wraps excelize for the report files the pipeline reads and
// writes: styled header row, content-sized columns, date-typed cells.
package excel

import (
	"fmt"
	"time"

	"github.com/mattn/go-runewidth"
	"github.com/xuri/excelize/v2"

	"github.com/crucial707/asset-recon/internal/etl"
)

const (
	headerFillColor = "5B9BD5"
	headerFontColor = "FFFFFF"
	dateFormat      = "yyyy-mm-dd"
	// widthPadding keeps header text from touching the column edge.
	widthPadding = 4
	// maxColWidth caps content-sized columns; excelize rejects widths > 255.
	maxColWidth = 80
)

// SheetOptions controls how one worksheet is rendered.
type SheetOptions struct {
	// StringColumns are always written as text, even when the value looks
	// numeric (serial numbers, versions, ids).
	StringColumns []string
	// SizeByValue widens columns to the longest cell value, not just the header.
	SizeByValue bool
}

// File is one report workbook under construction.
type File struct {
	// Name is the human-facing file name used for mail attachments.
	Name string
	// Path is where Save writes the workbook.
	Path string

	f      *excelize.File
	sheets int
}

// NewFile starts an empty workbook.
func NewFile(name, path string) *File {
	return &File{Name: name, Path: path, f: excelize.NewFile()}
}

// AddSheet writes the batch as one worksheet: styled header row, one row per
// record, dates rendered with a date number format, widths sized to content.
func (x *File) AddSheet(sheet string, batch etl.Batch, opts SheetOptions) error {
	if x.sheets == 0 {
		// Reuse the default sheet excelize creates.
		if err := x.f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("excel: rename default sheet: %w", err)
		}
	} else if _, err := x.f.NewSheet(sheet); err != nil {
		return fmt.Errorf("excel: new sheet %q: %w", sheet, err)
	}
	x.sheets++

	headerStyle, err := x.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerFontColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return fmt.Errorf("excel: header style: %w", err)
	}
	dateStyle, err := x.f.NewStyle(&excelize.Style{CustomNumFmt: strPtr(dateFormat)})
	if err != nil {
		return fmt.Errorf("excel: date style: %w", err)
	}

	asString := make(map[string]bool, len(opts.StringColumns))
	for _, c := range opts.StringColumns {
		asString[c] = true
	}

	widths := make([]int, len(batch.Columns))
	for i, col := range batch.Columns {
		widths[i] = runewidth.StringWidth(col) + widthPadding
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := x.f.SetCellStr(sheet, cell, col); err != nil {
			return err
		}
		if err := x.f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return err
		}
	}

	for r, row := range batch.Rows {
		for c, col := range batch.Columns {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			val := row[col]
			if etl.IsNull(val) {
				continue
			}
			var rendered string
			switch v := val.(type) {
			case time.Time:
				if err := x.f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
				if err := x.f.SetCellStyle(sheet, cell, cell, dateStyle); err != nil {
					return err
				}
				rendered = v.Format("2006-01-02")
			default:
				if asString[col] {
					if err := x.f.SetCellStr(sheet, cell, etl.KeyString(v)); err != nil {
						return err
					}
				} else if err := x.f.SetCellValue(sheet, cell, v); err != nil {
					return err
				}
				rendered = etl.KeyString(v)
			}
			if opts.SizeByValue {
				if w := runewidth.StringWidth(rendered); w > widths[c] {
					widths[c] = w
				}
			}
		}
	}

	for i := range batch.Columns {
		w := widths[i]
		if w > maxColWidth {
			w = maxColWidth
		}
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := x.f.SetColWidth(sheet, colName, colName, float64(w)); err != nil {
			return err
		}
	}
	return nil
}

// Save writes the workbook to Path and releases the underlying file.
func (x *File) Save() error {
	defer x.f.Close()
	if err := x.f.SaveAs(x.Path); err != nil {
		return fmt.Errorf("excel: save %s: %w", x.Path, err)
	}
	return nil
}

func strPtr(s string) *string { return &s }
