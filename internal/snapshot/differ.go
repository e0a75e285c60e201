// Package snapshot classifies day-over-day changes for entities with history
// tracking. Today's pull is compared against the last persisted snapshot set
// and every key lands in exactly one of added / deleted / changed / unchanged.
package snapshot

import (
	"time"

	"github.com/crucial707/asset-recon/internal/etl"
)

// Bookkeeping column names carried by snapshot tables.
const (
	FirstSnapshotColumn = "first_snapshot"
	LastChangeColumn    = "last_change"
)

// auditColumns are stripped from deleted rows before reporting.
var auditColumns = []string{"updated_by", "updated_time"}

// Diff is the outcome of one snapshot comparison. Added, Deleted and Changed
// are pairwise disjoint by key. Upsert is today's batch with the snapshot
// bookkeeping columns populated, ready for the upsert engine.
type Diff struct {
	Added   etl.Batch
	Deleted etl.Batch
	Changed etl.Batch
	Upsert  etl.Batch
}

// Compute compares today's filtered batch against the persisted snapshot set.
//
//   - Added: key absent from the persisted set, or first seen today (its
//     persisted first_snapshot falls on the processing date) so it stays
//     "new" for the whole reporting cycle.
//   - Deleted: key persisted but absent from today's pull. Audit and
//     bookkeeping columns are stripped before reporting.
//   - Changed: key in both where any tracked field differs (null-safe, two
//     absent values compare equal), or whose persisted last_change falls on
//     the processing date.
//
// ignore lists extra columns excluded from field comparison on top of the
// key, audit and bookkeeping columns. A row's first_snapshot is set to now
// only when the persisted set has none; existing values are carried over
// unchanged.
func Compute(today, persisted etl.Batch, keyColumn string, ignore []string, now time.Time) Diff {
	persistedByKey := make(map[string]etl.Record, len(persisted.Rows))
	for _, row := range persisted.Rows {
		persistedByKey[etl.KeyString(row[keyColumn])] = row
	}
	todayKeys := make(map[string]bool, len(today.Rows))
	for _, row := range today.Rows {
		todayKeys[etl.KeyString(row[keyColumn])] = true
	}

	skip := map[string]bool{keyColumn: true}
	for _, c := range ignore {
		skip[c] = true
	}
	for _, c := range auditColumns {
		skip[c] = true
	}
	skip[FirstSnapshotColumn] = true
	skip[LastChangeColumn] = true

	diff := Diff{
		Added:   etl.Batch{Columns: today.Columns},
		Deleted: etl.Batch{Columns: deletedColumns(persisted.Columns, ignore)},
		Changed: etl.Batch{Columns: today.Columns},
		Upsert:  etl.Batch{Columns: upsertColumns(today.Columns)},
	}

	for _, row := range today.Rows {
		key := etl.KeyString(row[keyColumn])
		prev, seen := persistedByKey[key]

		added := !seen || sameDate(prev[FirstSnapshotColumn], now)
		if added {
			diff.Added.Rows = append(diff.Added.Rows, row)
		}

		changed := false
		if seen {
			changed = sameDate(prev[LastChangeColumn], now) || fieldsDiffer(row, prev, today.Columns, skip)
			if changed {
				diff.Changed.Rows = append(diff.Changed.Rows, row)
			}
		}

		up := make(etl.Record, len(row)+2)
		for k, v := range row {
			up[k] = v
		}
		if seen && !etl.IsNull(prev[FirstSnapshotColumn]) {
			up[FirstSnapshotColumn] = prev[FirstSnapshotColumn]
		} else {
			up[FirstSnapshotColumn] = now
		}
		switch {
		case changed:
			up[LastChangeColumn] = now
		case seen:
			up[LastChangeColumn] = prev[LastChangeColumn]
		default:
			up[LastChangeColumn] = nil
		}
		diff.Upsert.Rows = append(diff.Upsert.Rows, up)
	}

	for _, row := range persisted.Rows {
		if todayKeys[etl.KeyString(row[keyColumn])] {
			continue
		}
		rec := make(etl.Record, len(row))
		for _, c := range diff.Deleted.Columns {
			rec[c] = row[c]
		}
		diff.Deleted.Rows = append(diff.Deleted.Rows, rec)
	}

	return diff
}

func fieldsDiffer(today, prev etl.Record, columns []string, skip map[string]bool) bool {
	for _, c := range columns {
		if skip[c] {
			continue
		}
		if etl.CompareString(today[c]) != etl.CompareString(prev[c]) {
			return true
		}
	}
	return false
}

// sameDate reports whether v is a timestamp on the same calendar day as now,
// in now's location.
func sameDate(v any, now time.Time) bool {
	t, ok := v.(time.Time)
	if !ok {
		return false
	}
	y1, m1, d1 := t.In(now.Location()).Date()
	y2, m2, d2 := now.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

func deletedColumns(persisted []string, ignore []string) []string {
	drop := map[string]bool{FirstSnapshotColumn: true, LastChangeColumn: true}
	for _, c := range ignore {
		drop[c] = true
	}
	for _, c := range auditColumns {
		drop[c] = true
	}
	var out []string
	for _, c := range persisted {
		if !drop[c] {
			out = append(out, c)
		}
	}
	return out
}

func upsertColumns(today []string) []string {
	out := append([]string(nil), today...)
	return append(out, FirstSnapshotColumn, LastChangeColumn)
}
