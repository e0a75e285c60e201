package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/asset-recon/internal/etl"
)

// TempEmployeeColumns is the tracked column set of the temp_employee
// snapshot table, in persisted order (bookkeeping columns excluded).
var TempEmployeeColumns = []string{
	"employee_id", "employee_name", "employee_email", "band", "termination_date",
	"manager_id", "manager_name", "manager_email",
	"lvl1_manager_id", "lvl1_manager_name", "lvl1_manager_email",
	"lvl2_manager_id", "lvl2_manager_name", "lvl2_manager_email",
}

// TempEmployeeRepo reads the persisted temp-employee snapshot set.
type TempEmployeeRepo struct {
	DB *sql.DB
}

func NewTempEmployeeRepo(db *sql.DB) *TempEmployeeRepo {
	return &TempEmployeeRepo{DB: db}
}

// Snapshots returns the full persisted snapshot set including the
// bookkeeping columns, as a generic batch for the differ.
func (r *TempEmployeeRepo) Snapshots(ctx context.Context) (etl.Batch, error) {
	cols := append(append([]string{}, TempEmployeeColumns...), "first_snapshot", "last_change")
	return queryBatch(ctx, r.DB, `
		SELECT employee_id, employee_name, employee_email, band, termination_date,
		       manager_id, manager_name, manager_email,
		       lvl1_manager_id, lvl1_manager_name, lvl1_manager_email,
		       lvl2_manager_id, lvl2_manager_name, lvl2_manager_email,
		       first_snapshot, last_change
		FROM temp_employee`, cols)
}
