package etl

import "testing"

func TestFilterKeysExcludesNullAndDuplicates(t *testing.T) {
	batch := Batch{
		Columns: []string{"serial", "name"},
		Rows: []Record{
			{"serial": "SN1", "name": "keep"},
			{"serial": nil, "name": "null-key"},
			{"serial": "nan", "name": "null-marker"},
			{"serial": "SN2", "name": "dup-a"},
			{"serial": "SN2", "name": "dup-b"},
			{"serial": "SN3", "name": "keep-too"},
		},
	}
	out, excluded := FilterKeys(batch, "serial", "name")
	if excluded != 4 {
		t.Errorf("excluded = %d, want 4", excluded)
	}
	if len(out.Rows) != 2 {
		t.Fatalf("kept %d rows, want 2", len(out.Rows))
	}
	if out.Rows[0]["serial"] != "SN1" || out.Rows[1]["serial"] != "SN3" {
		t.Errorf("unexpected survivors: %v", out.Rows)
	}
}

func TestFilterKeysAllOccurrencesOfDuplicateGo(t *testing.T) {
	batch := Batch{
		Columns: []string{"id"},
		Rows:    []Record{{"id": "A"}, {"id": "A"}, {"id": "A"}},
	}
	out, excluded := FilterKeys(batch, "id")
	if len(out.Rows) != 0 || excluded != 3 {
		t.Errorf("kept=%d excluded=%d, want 0/3", len(out.Rows), excluded)
	}
}

func TestFilterKeysTrimsKeysForComparison(t *testing.T) {
	batch := Batch{
		Columns: []string{"id"},
		Rows:    []Record{{"id": "A "}, {"id": " A"}},
	}
	out, excluded := FilterKeys(batch, "id")
	if len(out.Rows) != 0 || excluded != 2 {
		t.Errorf("whitespace variants of one key should count as duplicates, kept=%d", len(out.Rows))
	}
}
