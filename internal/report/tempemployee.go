package report

import (
	"context"
	"database/sql"
	"path/filepath"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/etl"
	"github.com/crucial707/asset-recon/internal/excel"
	"github.com/crucial707/asset-recon/internal/importer"
	"github.com/crucial707/asset-recon/internal/repo"
	"github.com/crucial707/asset-recon/internal/snapshot"
	"github.com/crucial707/asset-recon/internal/upsert"
)

// TempEmployeeReporter builds the day-over-day temp-employee change report:
// today's manager chain with resolved emails, snapshot-diffed against the
// persisted set, upserted, and exported as one workbook with added / deleted
// / changed cuts.
type TempEmployeeReporter struct {
	Cfg       config.Config
	Employees *repo.EmployeeRepo
	Snapshots *repo.TempEmployeeRepo
	Engine    *upsert.Engine
}

func NewTempEmployeeReporter(db *sql.DB, cfg config.Config) *TempEmployeeReporter {
	engine := upsert.NewEngine(db)
	engine.Now = cfg.Now
	return &TempEmployeeReporter{
		Cfg:       cfg,
		Employees: repo.NewEmployeeRepo(db),
		Snapshots: repo.NewTempEmployeeRepo(db),
		Engine:    engine,
	}
}

// stringColumns are id-like worksheet columns written as text so Excel does
// not mangle them into numbers.
var tempEmployeeStringColumns = []string{
	"employee_id", "band", "manager_id", "lvl1_manager_id", "lvl2_manager_id",
}

// Build assembles today's candidate snapshot batch: the manager chain with
// employee, manager, lvl1 and lvl2 emails attached via the id->email mapping.
func (r *TempEmployeeReporter) Build(ctx context.Context) (etl.Batch, error) {
	chain, err := r.Employees.ManagerChain(ctx)
	if err != nil {
		return etl.Batch{}, err
	}
	idEmail, err := r.Employees.IDEmailMapping(ctx)
	if err != nil {
		return etl.Batch{}, err
	}

	batch := etl.Batch{Columns: repo.TempEmployeeColumns}
	for _, row := range chain.Rows {
		rec := etl.Record{
			"employee_id":       row["emp_id"],
			"employee_name":     row["emp_name"],
			"band":              row["job_lvl"],
			"termination_date":  row["term_date"],
			"manager_id":        row["mgr_id"],
			"manager_name":      row["mgr_name"],
			"lvl1_manager_id":   row["lvl1_mgr_id"],
			"lvl1_manager_name": row["lvl1_mgr_name"],
			"lvl2_manager_id":   row["lvl2_mgr_id"],
			"lvl2_manager_name": row["lvl2_mgr_name"],
		}
		rec["employee_email"] = lookupEmail(idEmail, row["emp_id"])
		rec["manager_email"] = lookupEmail(idEmail, row["mgr_id"])
		rec["lvl1_manager_email"] = lookupEmail(idEmail, row["lvl1_mgr_id"])
		rec["lvl2_manager_email"] = lookupEmail(idEmail, row["lvl2_mgr_id"])
		batch.Rows = append(batch.Rows, rec)
	}
	return batch, nil
}

// Run executes the whole pipeline and returns the workbook for mailing.
func (r *TempEmployeeReporter) Run(ctx context.Context) (*excel.File, error) {
	today, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}
	today, _ = etl.FilterKeys(today, "employee_id", "employee_name")

	persisted, err := r.Snapshots.Snapshots(ctx)
	if err != nil {
		return nil, err
	}

	diff := snapshot.Compute(today, persisted, "employee_id", nil, r.Cfg.Now())

	if _, err := r.Engine.Upsert(ctx, importer.TempEmployeeDescriptor(r.Cfg.UpdatedBy), diff.Upsert); err != nil {
		return nil, err
	}

	name := r.Cfg.TempEmployeeReportName
	f := excel.NewFile(name, filepath.Join(r.Cfg.ExportDir, name))
	opts := excel.SheetOptions{StringColumns: tempEmployeeStringColumns, SizeByValue: true}
	sheets := []struct {
		name  string
		batch etl.Batch
	}{
		{"temp_employee_info", today},
		{"new", diff.Added},
		{"deleted", diff.Deleted},
		{"changed", diff.Changed},
	}
	for _, s := range sheets {
		if err := f.AddSheet(s.name, s.batch, opts); err != nil {
			return nil, err
		}
	}
	if err := f.Save(); err != nil {
		return nil, err
	}
	return f, nil
}

func lookupEmail(idEmail map[string]string, id any) any {
	key := etl.KeyString(id)
	if key == "" {
		return nil
	}
	if email, ok := idEmail[key]; ok {
		return email
	}
	return nil
}
