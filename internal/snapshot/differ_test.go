package snapshot

import (
	"testing"
	"time"

	"github.com/crucial707/asset-recon/internal/etl"
)

var (
	now       = time.Date(2024, 6, 10, 9, 30, 0, 0, time.UTC)
	yesterday = now.AddDate(0, 0, -1)
)

func keys(b etl.Batch, key string) []string {
	out := make([]string, 0, len(b.Rows))
	for _, r := range b.Rows {
		out = append(out, etl.KeyString(r[key]))
	}
	return out
}

func TestComputeClassification(t *testing.T) {
	today := etl.Batch{
		Columns: []string{"employee_id", "band"},
		Rows: []etl.Record{
			{"employee_id": "E1", "band": "3"}, // unchanged
			{"employee_id": "E2", "band": "2"}, // band moved
			{"employee_id": "E3", "band": "4"}, // brand new
		},
	}
	persisted := etl.Batch{
		Columns: []string{"employee_id", "band", "first_snapshot", "last_change", "updated_by", "updated_time"},
		Rows: []etl.Record{
			{"employee_id": "E1", "band": "3", "first_snapshot": yesterday},
			{"employee_id": "E2", "band": "3", "first_snapshot": yesterday},
			{"employee_id": "E4", "band": "5", "first_snapshot": yesterday}, // gone today
		},
	}

	diff := Compute(today, persisted, "employee_id", nil, now)

	if got := keys(diff.Added, "employee_id"); len(got) != 1 || got[0] != "E3" {
		t.Errorf("added = %v, want [E3]", got)
	}
	if got := keys(diff.Changed, "employee_id"); len(got) != 1 || got[0] != "E2" {
		t.Errorf("changed = %v, want [E2]", got)
	}
	if got := keys(diff.Deleted, "employee_id"); len(got) != 1 || got[0] != "E4" {
		t.Errorf("deleted = %v, want [E4]", got)
	}
	if len(diff.Upsert.Rows) != len(today.Rows) {
		t.Errorf("upsert carries %d rows, want %d", len(diff.Upsert.Rows), len(today.Rows))
	}
}

func TestComputeFirstSnapshotCarriedAndSet(t *testing.T) {
	today := etl.Batch{
		Columns: []string{"employee_id"},
		Rows:    []etl.Record{{"employee_id": "E1"}, {"employee_id": "E2"}},
	}
	persisted := etl.Batch{
		Columns: []string{"employee_id", "first_snapshot", "last_change"},
		Rows:    []etl.Record{{"employee_id": "E1", "first_snapshot": yesterday}},
	}

	diff := Compute(today, persisted, "employee_id", nil, now)

	byKey := map[string]etl.Record{}
	for _, r := range diff.Upsert.Rows {
		byKey[etl.KeyString(r["employee_id"])] = r
	}
	if got := byKey["E1"][FirstSnapshotColumn]; got != yesterday {
		t.Errorf("persisted first_snapshot must be carried, got %v", got)
	}
	if got := byKey["E2"][FirstSnapshotColumn]; got != now {
		t.Errorf("new key first_snapshot = %v, want now", got)
	}
	if byKey["E2"][LastChangeColumn] != nil {
		t.Errorf("new key must have no last_change, got %v", byKey["E2"][LastChangeColumn])
	}
}

func TestComputeReportingCycleStickiness(t *testing.T) {
	// A key first seen earlier today stays in "added"; one changed earlier
	// today stays in "changed" even when the rerun carries identical fields.
	earlierToday := now.Add(-2 * time.Hour)
	today := etl.Batch{
		Columns: []string{"employee_id", "band"},
		Rows: []etl.Record{
			{"employee_id": "E1", "band": "3"},
			{"employee_id": "E2", "band": "2"},
		},
	}
	persisted := etl.Batch{
		Columns: []string{"employee_id", "band", "first_snapshot", "last_change"},
		Rows: []etl.Record{
			{"employee_id": "E1", "band": "3", "first_snapshot": earlierToday},
			{"employee_id": "E2", "band": "2", "first_snapshot": yesterday, "last_change": earlierToday},
		},
	}

	diff := Compute(today, persisted, "employee_id", nil, now)

	if got := keys(diff.Added, "employee_id"); len(got) != 1 || got[0] != "E1" {
		t.Errorf("added = %v, want [E1]", got)
	}
	if got := keys(diff.Changed, "employee_id"); len(got) != 1 || got[0] != "E2" {
		t.Errorf("changed = %v, want [E2]", got)
	}
}

func TestComputeDeletedStripsBookkeeping(t *testing.T) {
	today := etl.Batch{Columns: []string{"employee_id", "name"}}
	persisted := etl.Batch{
		Columns: []string{"employee_id", "name", "first_snapshot", "last_change", "updated_by", "updated_time"},
		Rows: []etl.Record{{
			"employee_id": "E9", "name": "gone",
			"first_snapshot": yesterday, "last_change": yesterday,
			"updated_by": "script", "updated_time": yesterday,
		}},
	}

	diff := Compute(today, persisted, "employee_id", nil, now)

	wantCols := []string{"employee_id", "name"}
	if len(diff.Deleted.Columns) != len(wantCols) {
		t.Fatalf("deleted columns = %v, want %v", diff.Deleted.Columns, wantCols)
	}
	row := diff.Deleted.Rows[0]
	for _, c := range []string{"first_snapshot", "last_change", "updated_by", "updated_time"} {
		if _, ok := row[c]; ok {
			t.Errorf("deleted row still carries %s", c)
		}
	}
}

func TestComputeNullSafeFieldComparison(t *testing.T) {
	today := etl.Batch{
		Columns: []string{"employee_id", "term_date"},
		Rows:    []etl.Record{{"employee_id": "E1", "term_date": "nan"}},
	}
	persisted := etl.Batch{
		Columns: []string{"employee_id", "term_date", "first_snapshot", "last_change"},
		Rows:    []etl.Record{{"employee_id": "E1", "term_date": nil, "first_snapshot": yesterday}},
	}

	diff := Compute(today, persisted, "employee_id", nil, now)
	if len(diff.Changed.Rows) != 0 {
		t.Errorf("absent-vs-absent must not count as a change: %v", diff.Changed.Rows)
	}
}

func TestComputeUpsertColumnsIncludeBookkeeping(t *testing.T) {
	today := etl.Batch{Columns: []string{"employee_id"}, Rows: []etl.Record{{"employee_id": "E1"}}}
	diff := Compute(today, etl.Batch{Columns: []string{"employee_id"}}, "employee_id", nil, now)

	found := map[string]bool{}
	for _, c := range diff.Upsert.Columns {
		found[c] = true
	}
	if !found[FirstSnapshotColumn] || !found[LastChangeColumn] {
		t.Errorf("upsert columns missing bookkeeping: %v", diff.Upsert.Columns)
	}
}
