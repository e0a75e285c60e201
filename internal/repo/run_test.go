package repo

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crucial707/asset-recon/internal/models"
)

func TestRunRepo_Record(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	started := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	finished := started.Add(30 * time.Second)
	run := models.ImportRun{
		Entity: "asset_info", SourceFile: "asset_report.xlsx",
		RowsRead: 100, Inserted: 10, Updated: 5, Skipped: 80, Excluded: 5,
		Status: "ok", StartedAt: started, FinishedAt: finished,
	}

	mock.ExpectExec(`INSERT INTO import_runs`).
		WithArgs("asset_info", "asset_report.xlsx", 100, 10, 5, 80, 5, "ok", "", started, finished).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := NewRunRepo(db).Record(context.Background(), run); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRunRepo_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM import_runs ORDER BY started_at DESC LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity", "source_file", "rows_read", "inserted",
			"updated", "skipped", "excluded", "status", "error", "started_at", "finished_at"}).
			AddRow(2, "employee_info", "employee_info.xlsx", 50, 0, 2, 48, 0, "ok", "", now, now).
			AddRow(1, "cmdb_computer", "cmdb.xlsx", 10, 10, 0, 0, 0, "failed", "boom", now, now))

	runs, err := NewRunRepo(db).List(context.Background(), 10, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(runs) != 2 || runs[0].Entity != "employee_info" || runs[1].Error != "boom" {
		t.Errorf("unexpected runs: %+v", runs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
