package repo

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crucial707/asset-recon/internal/etl"
	"github.com/crucial707/asset-recon/internal/models"
)

// EmployeeRepo reads the employee/manager mappings consumed by the reports.
type EmployeeRepo struct {
	DB *sql.DB
}

func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{DB: db}
}

// EmailDomainMapping maps lowercased domain account -> primary work email,
// for resolving device-reported short account names.
func (r *EmployeeRepo) EmailDomainMapping(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT emp_email, domain_account FROM employee_info
		 WHERE emp_email IS NOT NULL AND domain_account IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mapping := make(map[string]string)
	for rows.Next() {
		var email, account string
		if err := rows.Scan(&email, &account); err != nil {
			return nil, err
		}
		mapping[strings.ToLower(strings.TrimSpace(account))] = strings.ToLower(strings.TrimSpace(email))
	}
	return mapping, rows.Err()
}

// EmployeeManagerMapping returns each employee's band and manager identity
// via a self-join on mgr_id, keyed by lowercased employee email. Rows with
// no employee email are dropped; values are trimmed and lowercased.
func (r *EmployeeRepo) EmployeeManagerMapping(ctx context.Context) (map[string]models.EmployeeManager, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT e.emp_email, e.band, m.emp_email, m.band
		FROM employee_info e
		LEFT JOIN employee_info m ON m.emp_id = e.mgr_id
		WHERE e.emp_email IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mapping := make(map[string]models.EmployeeManager)
	for rows.Next() {
		var em models.EmployeeManager
		if err := rows.Scan(&em.EmployeeEmail, &em.EmployeeBand, &em.ManagerEmail, &em.ManagerBand); err != nil {
			return nil, err
		}
		em.EmployeeEmail = strings.ToLower(strings.TrimSpace(em.EmployeeEmail))
		lowerPtr(em.EmployeeBand)
		lowerPtr(em.ManagerEmail)
		lowerPtr(em.ManagerBand)
		if em.EmployeeEmail != "" {
			mapping[em.EmployeeEmail] = em
		}
	}
	return mapping, rows.Err()
}

// IDEmailMapping maps employee id -> primary work email, used to attach
// emails to the manager chain in the temp-employee report.
func (r *EmployeeRepo) IDEmailMapping(ctx context.Context) (map[string]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT emp_id, emp_email FROM employee_info WHERE emp_email IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	mapping := make(map[string]string)
	for rows.Next() {
		var id, email string
		if err := rows.Scan(&id, &email); err != nil {
			return nil, err
		}
		mapping[strings.TrimSpace(id)] = strings.ToLower(strings.TrimSpace(email))
	}
	return mapping, rows.Err()
}

// ManagerChain returns today's employee->manager chain from emp_mgr_mapping
// as a generic batch keyed by emp_id, ready for the temp-employee pipeline.
func (r *EmployeeRepo) ManagerChain(ctx context.Context) (etl.Batch, error) {
	cols := []string{"emp_id", "emp_name", "job_lvl", "term_date", "mgr_id", "mgr_name",
		"lvl1_mgr_id", "lvl1_mgr_name", "lvl2_mgr_id", "lvl2_mgr_name"}
	return queryBatch(ctx, r.DB,
		`SELECT emp_id, emp_name, job_lvl, term_date, mgr_id, mgr_name,
		        lvl1_mgr_id, lvl1_mgr_name, lvl2_mgr_id, lvl2_mgr_name
		 FROM emp_mgr_mapping`, cols)
}

func lowerPtr(s *string) {
	if s != nil {
		*s = strings.ToLower(strings.TrimSpace(*s))
	}
}

// queryBatch scans an arbitrary query into the generic batch shape.
func queryBatch(ctx context.Context, db *sql.DB, query string, columns []string) (etl.Batch, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return etl.Batch{}, err
	}
	defer rows.Close()

	batch := etl.Batch{Columns: columns}
	for rows.Next() {
		vals := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return etl.Batch{}, err
		}
		rec := make(etl.Record, len(columns))
		for i, c := range columns {
			if b, ok := vals[i].([]byte); ok {
				rec[c] = string(b)
			} else {
				rec[c] = vals[i]
			}
		}
		batch.Rows = append(batch.Rows, rec)
	}
	return batch, rows.Err()
}
