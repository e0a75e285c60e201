package report

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/repo"
)

func assetRows() *sqlmock.Rows {
	cols := []string{"serial_nu", "status", "barcode", "asset_name", "asset_class", "spec_model",
		"emp_id", "emp_email", "emp_user", "use_dept", "region", "storage_loc", "administrator"}
	return sqlmock.NewRows(cols).
		AddRow("SN1", "在用", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil).
		AddRow("SN2", "在用", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil).
		AddRow("SN3", "报废", nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)
}

func TestDevicePullBuildMergesSourcesForInUseAssets(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	// SN1 checked in at the device console; SN2 is in use but only the CMDB
	// saw it; SN3 is scrapped and must not get a fallback row.
	mock.ExpectQuery(`FROM device_usage WHERE serial_nu IS NOT NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"device_name", "serial_nu", "os", "os_version", "last_use_user", "last_use_time"}).
			AddRow("host-a", "SN1", "macOS", "14.2", "jdoe", nil))
	mock.ExpectQuery(`SELECT upper\(btrim\(serial_nu\)\)`).
		WillReturnRows(assetRows())
	mock.ExpectQuery(`FROM cmdb_computer`).
		WithArgs("SN2").
		WillReturnRows(sqlmock.NewRows([]string{"serial_number", "name", "operating_system", "os_version", "last_logged_user", "last_login_time"}).
			AddRow("SN2", "host-b", "Windows", "10", "asmith", nil))

	r := &DevicePullReporter{Cfg: config.Config{}, Usage: repo.NewUsageRepo(db), DB: db}
	batch, err := r.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(batch.Rows) != 2 {
		t.Fatalf("rows = %d, want 2: %v", len(batch.Rows), batch.Rows)
	}
	if batch.Rows[0]["got_from"] != "mem" || batch.Rows[0]["serial_nu"] != "SN1" {
		t.Errorf("console row wrong: %v", batch.Rows[0])
	}
	if batch.Rows[1]["got_from"] != "sn" || batch.Rows[1]["serial_nu"] != "SN2" {
		t.Errorf("fallback row wrong: %v", batch.Rows[1])
	}
	for _, row := range batch.Rows {
		if row["serial_nu"] == "SN3" {
			t.Error("scrapped asset must not appear in the export")
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
