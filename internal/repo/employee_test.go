package repo

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestEmployeeRepo_EmailDomainMapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT emp_email, domain_account FROM employee_info`).
		WillReturnRows(sqlmock.NewRows([]string{"emp_email", "domain_account"}).
			AddRow("JDoe@Example.com", "CORP\\jdoe ").
			AddRow("asmith@example.com", "corp\\asmith"))

	mapping, err := NewEmployeeRepo(db).EmailDomainMapping(context.Background())
	if err != nil {
		t.Fatalf("EmailDomainMapping: %v", err)
	}
	if mapping[`corp\jdoe`] != "jdoe@example.com" {
		t.Errorf("mapping = %v, account and email must be trimmed and lowercased", mapping)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEmployeeRepo_EmployeeManagerMapping(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`LEFT JOIN employee_info m ON m\.emp_id = e\.mgr_id`).
		WillReturnRows(sqlmock.NewRows([]string{"emp_email", "band", "mgr_email", "mgr_band"}).
			AddRow("JDoe@Example.com", "3", "Boss@Example.com", "0").
			AddRow("orphan@example.com", "4", nil, nil))

	mapping, err := NewEmployeeRepo(db).EmployeeManagerMapping(context.Background())
	if err != nil {
		t.Fatalf("EmployeeManagerMapping: %v", err)
	}
	em, ok := mapping["jdoe@example.com"]
	if !ok {
		t.Fatalf("mapping keyed wrong: %v", mapping)
	}
	if *em.ManagerEmail != "boss@example.com" || *em.ManagerBand != "0" {
		t.Errorf("unexpected manager: %+v", em)
	}
	if orphan := mapping["orphan@example.com"]; orphan.ManagerEmail != nil {
		t.Errorf("employee without manager should keep nil manager fields: %+v", orphan)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestEmployeeRepo_ManagerChain(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`FROM emp_mgr_mapping`).
		WillReturnRows(sqlmock.NewRows([]string{"emp_id", "emp_name", "job_lvl", "term_date", "mgr_id",
			"mgr_name", "lvl1_mgr_id", "lvl1_mgr_name", "lvl2_mgr_id", "lvl2_mgr_name"}).
			AddRow([]byte("E1"), "Temp One", "5", nil, "M1", "Manager", "L1", "Lvl1", "L2", "Lvl2"))

	batch, err := NewEmployeeRepo(db).ManagerChain(context.Background())
	if err != nil {
		t.Fatalf("ManagerChain: %v", err)
	}
	if len(batch.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(batch.Rows))
	}
	// Byte slices from the driver come back as strings.
	if batch.Rows[0]["emp_id"] != "E1" {
		t.Errorf("emp_id = %v (%T), want string E1", batch.Rows[0]["emp_id"], batch.Rows[0]["emp_id"])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
