// Package output renders CLI results as terminal tables.
package output

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderTable prints rows as a table to stdout, with a placeholder line
// instead of an empty frame when there is nothing to show.
func RenderTable(headers []string, rows [][]interface{}) {
	if len(rows) == 0 {
		fmt.Println("no rows")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	t.Render()
}
