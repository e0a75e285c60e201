package etl

import (
	"log/slog"
)

// FilterKeys enforces the natural-key invariants on a normalized batch:
// rows with an absent key are excluded, and when the same key appears more
// than once every occurrence of that key is excluded. Each exclusion is
// logged with the secondary descriptive columns so an operator can chase the
// source row. The returned batch has unique, non-null keys and is safe to
// upsert. Excluded is the number of rows removed.
func FilterKeys(batch Batch, keyColumn string, describeColumns ...string) (Batch, int) {
	counts := make(map[string]int, len(batch.Rows))
	for _, row := range batch.Rows {
		if k := KeyString(row[keyColumn]); k != "" {
			counts[k]++
		}
	}

	dupLogged := make(map[string]bool)
	out := Batch{Columns: batch.Columns}
	excluded := 0

	for _, row := range batch.Rows {
		key := KeyString(row[keyColumn])
		if key == "" {
			slog.Warn("skipping row with null key",
				append([]any{"key_column", keyColumn}, describe(row, describeColumns)...)...)
			excluded++
			continue
		}
		if counts[key] > 1 {
			if !dupLogged[key] {
				slog.Warn("skipping duplicated key, all occurrences excluded",
					"key_column", keyColumn, "key", key)
				dupLogged[key] = true
			}
			excluded++
			continue
		}
		out.Rows = append(out.Rows, row)
	}
	return out, excluded
}

func describe(row Record, columns []string) []any {
	attrs := make([]any, 0, len(columns)*2)
	for _, col := range columns {
		attrs = append(attrs, col, KeyString(row[col]))
	}
	return attrs
}
