package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/crucial707/asset-recon/internal/repo"
)

func TestRunsHandler_List(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`FROM import_runs`).
		WithArgs(50, 0).
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity", "source_file", "rows_read", "inserted",
			"updated", "skipped", "excluded", "status", "error", "started_at", "finished_at"}).
			AddRow(1, "asset_info", "f.xlsx", 10, 1, 2, 7, 0, "ok", "", now, now))

	h := NewRunsHandler(repo.NewRunRepo(db))
	req := httptest.NewRequest(http.MethodGet, "/api/runs", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Count int `json:"count"`
		Runs  []struct {
			Entity string `json:"entity"`
		} `json:"runs"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Count != 1 || body.Runs[0].Entity != "asset_info" {
		t.Errorf("unexpected body: %+v", body)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRunsHandler_ListClampsLimit(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM import_runs`).
		WithArgs(200, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "entity", "source_file", "rows_read", "inserted",
			"updated", "skipped", "excluded", "status", "error", "started_at", "finished_at"}))

	h := NewRunsHandler(repo.NewRunRepo(db))
	req := httptest.NewRequest(http.MethodGet, "/api/runs?limit=9999&offset=5", nil)
	rec := httptest.NewRecorder()
	h.List(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
