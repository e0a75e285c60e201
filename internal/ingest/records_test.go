package ingest

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadRecordsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.json")
	payload := `{"records": [
		{"sys_id": "abc", "serial_number": "SN1", "extra": "dropped"},
		{"sys_id": "def"}
	]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	batch, err := ReadRecordsJSON(path, "sys_id", "serial_number")
	if err != nil {
		t.Fatalf("ReadRecordsJSON: %v", err)
	}
	if len(batch.Columns) != 2 || len(batch.Rows) != 2 {
		t.Fatalf("unexpected shape: %+v", batch)
	}
	if batch.Rows[0]["sys_id"] != "abc" || batch.Rows[0]["serial_number"] != "SN1" {
		t.Errorf("unexpected row: %v", batch.Rows[0])
	}
	if _, ok := batch.Rows[0]["extra"]; ok {
		t.Error("unlisted fields must be dropped")
	}
	if batch.Rows[1]["serial_number"] != nil {
		t.Errorf("missing field should be nil, got %v", batch.Rows[1]["serial_number"])
	}
}

func TestReadRecordsJSONBadPayload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.json")
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadRecordsJSON(path, "sys_id"); err == nil {
		t.Error("expected parse error")
	}
}
