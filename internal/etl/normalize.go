package etl

import (
	"fmt"
)

// Normalize renames source columns to canonical names via the declarative
// rename map, coerces null markers to nil, and stamps every row with the
// updated_by audit marker. No rows are dropped here.
//
// Every source column named in the rename map must be present in the batch;
// a missing one means the upstream export changed shape and the whole batch
// is rejected as a configuration error.
func Normalize(batch Batch, rename map[string]string, updatedBy string) (Batch, error) {
	for src := range rename {
		if !batch.HasColumn(src) {
			return Batch{}, fmt.Errorf("normalize: source column %q not found in batch", src)
		}
	}

	out := Batch{Rows: make([]Record, 0, len(batch.Rows))}
	for _, col := range batch.Columns {
		if canonical, ok := rename[col]; ok {
			out.Columns = append(out.Columns, canonical)
		} else {
			out.Columns = append(out.Columns, col)
		}
	}
	out.Columns = append(out.Columns, "updated_by")

	for _, row := range batch.Rows {
		rec := make(Record, len(row)+1)
		for col, val := range row {
			name := col
			if canonical, ok := rename[col]; ok {
				name = canonical
			}
			if IsNull(val) {
				rec[name] = nil
			} else {
				rec[name] = val
			}
		}
		rec["updated_by"] = updatedBy
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}
