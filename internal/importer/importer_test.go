package importer

import (
	"testing"
	"time"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/etl"
)

func testImporter() *Importer {
	return &Importer{Cfg: config.Config{Timezone: "Asia/Shanghai"}}
}

func TestCoerceTimesParsesKnownLayouts(t *testing.T) {
	im := testImporter()
	batch := etl.Batch{
		Columns: []string{"last_login_time"},
		Rows: []etl.Record{
			{"last_login_time": "2024-06-01 08:30:00"},
			{"last_login_time": "2024-06-01"},
			{"last_login_time": "garbage"},
			{"last_login_time": "nan"},
		},
	}
	im.coerceTimes(batch, "last_login_time")

	got, ok := batch.Rows[0]["last_login_time"].(time.Time)
	if !ok {
		t.Fatalf("row 0 not parsed: %v", batch.Rows[0])
	}
	if got.Hour() != 8 || got.Location() == time.UTC {
		t.Errorf("timestamp should be parsed in the reporting timezone, got %v", got)
	}
	if _, ok := batch.Rows[1]["last_login_time"].(time.Time); !ok {
		t.Errorf("date-only layout not parsed: %v", batch.Rows[1])
	}
	if batch.Rows[2]["last_login_time"] != nil {
		t.Errorf("unparseable value must become nil, got %v", batch.Rows[2])
	}
	if batch.Rows[3]["last_login_time"] != nil {
		t.Errorf("null marker must become nil, got %v", batch.Rows[3])
	}
}

func TestCoerceUTCTimesConverts(t *testing.T) {
	im := testImporter()
	batch := etl.Batch{
		Columns: []string{"last_use_time"},
		Rows:    []etl.Record{{"last_use_time": "2024-06-01 00:30:00"}},
	}
	im.coerceUTCTimes(batch, "last_use_time")

	got, ok := batch.Rows[0]["last_use_time"].(time.Time)
	if !ok {
		t.Fatalf("not parsed: %v", batch.Rows[0])
	}
	// Naive UTC check-in converted to the reporting timezone (UTC+8).
	if got.Hour() != 8 || got.Minute() != 30 {
		t.Errorf("expected 08:30 local, got %v", got)
	}
}

func TestCMDBDescriptorCarriesBothCityColumns(t *testing.T) {
	if cmdbRename["City"] != "city" || cmdbRename["City.1"] != "city_1" {
		t.Errorf("rename map must carry both City columns: %v", cmdbRename)
	}
	d := cmdbDescriptor("script")
	found := map[string]bool{}
	for _, c := range d.Columns {
		found[c] = true
	}
	if !found["city"] || !found["city_1"] {
		t.Errorf("descriptor columns missing a city column: %v", d.Columns)
	}
}

func TestTempEmployeeDescriptorShape(t *testing.T) {
	d := TempEmployeeDescriptor("script")
	if d.Table != "temp_employee" || d.KeyColumn != "employee_id" {
		t.Errorf("unexpected descriptor: %+v", d)
	}
	if len(d.CheckColumns) != len(d.Columns)-1 {
		t.Errorf("check columns should cover every non-key column")
	}
}
