// Package report assembles the reconciliation outputs: the asset usage
// report and the temp-employee change report.
package report

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/etl"
	"github.com/crucial707/asset-recon/internal/excel"
	"github.com/crucial707/asset-recon/internal/models"
	"github.com/crucial707/asset-recon/internal/repo"
)

// emailPrefixLen is the length of the sync artifact some device records
// prepend to the local part of the corporate address; anything longer than
// this before the domain is the artifact and gets stripped.
const emailPrefixLen = 32

// topLevelBand marks executives whose devices are matched through their
// manager instead of themselves.
const topLevelBand = "0"

// UsageReporter builds the asset usage report.
type UsageReporter struct {
	Cfg       config.Config
	Usage     *repo.UsageRepo
	Employees *repo.EmployeeRepo
}

func NewUsageReporter(db *sql.DB, cfg config.Config) *UsageReporter {
	return &UsageReporter{
		Cfg:       cfg,
		Usage:     repo.NewUsageRepo(db),
		Employees: repo.NewEmployeeRepo(db),
	}
}

// usageColumns is the worksheet column order.
var usageColumns = []string{
	"serial_nu", "status", "barcode", "asset_name", "asset_class", "spec_model",
	"emp_id", "emp_email", "emp_user", "use_dept", "region", "storage_loc", "administrator",
	"device_name", "os", "os_version", "last_use_user", "last_use_time", "last_use_employee",
	"employee_band", "manager_email", "manager_band", "is_match",
}

// Build joins assets, coalesced device usage and employee/manager records
// into one row per asset serial. Device usage and employee data attach via
// outer join and may be absent; the asset table alone decides which serial
// numbers exist in the output.
func (r *UsageReporter) Build(ctx context.Context) (etl.Batch, error) {
	assets, err := r.Usage.Assets(ctx)
	if err != nil {
		return etl.Batch{}, err
	}
	usage, err := r.Usage.UsageInfo(ctx)
	if err != nil {
		return etl.Batch{}, err
	}
	domainMapping, err := r.Employees.EmailDomainMapping(ctx)
	if err != nil {
		return etl.Batch{}, err
	}
	managers, err := r.Employees.EmployeeManagerMapping(ctx)
	if err != nil {
		return etl.Batch{}, err
	}

	usageBySerial := make(map[string]models.UsageRow, len(usage))
	for _, u := range usage {
		usageBySerial[normalizeSerial(u.SerialNu)] = u
	}

	batch := etl.Batch{Columns: usageColumns}
	for _, a := range assets {
		row := etl.Record{
			"serial_nu":     strings.ToUpper(strings.TrimSpace(a.SerialNu)),
			"status":        strVal(a.Status),
			"barcode":       strVal(a.Barcode),
			"asset_name":    strVal(a.AssetName),
			"asset_class":   strVal(a.AssetClass),
			"spec_model":    strVal(a.SpecModel),
			"emp_id":        strVal(a.EmpID),
			"emp_email":     strVal(a.EmpEmail),
			"emp_user":      strVal(a.EmpUser),
			"use_dept":      strVal(a.UseDept),
			"region":        strVal(a.Region),
			"storage_loc":   strVal(a.StorageLoc),
			"administrator": strVal(a.Administrator),
		}

		u, ok := usageBySerial[normalizeSerial(a.SerialNu)]
		var lastUseEmployee any
		if ok {
			row["device_name"] = strVal(u.DeviceName)
			row["os"] = strVal(u.OS)
			row["os_version"] = strVal(u.OSVersion)
			row["last_use_user"] = strVal(u.LastUseUser)
			if u.LastUseTime != nil {
				row["last_use_time"] = *u.LastUseTime
			}
			lastUseEmployee = r.resolveIdentity(u.LastUseUser, domainMapping)
		}
		row["last_use_employee"] = lastUseEmployee

		var em models.EmployeeManager
		var emFound bool
		if s, ok := lastUseEmployee.(string); ok && s != "" {
			em, emFound = managers[s]
		}
		if emFound {
			row["employee_band"] = strVal(em.EmployeeBand)
			row["manager_email"] = strVal(em.ManagerEmail)
			row["manager_band"] = strVal(em.ManagerBand)
		}

		row["is_match"] = isMatch(row)
		batch.Rows = append(batch.Rows, row)
	}
	return batch, nil
}

// Export writes the usage report workbook into the export directory and
// returns the file for mailing/upload.
func (r *UsageReporter) Export(ctx context.Context) (*excel.File, error) {
	batch, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}
	f := excel.NewFile(r.Cfg.UsageReportName, filepath.Join(r.Cfg.ExportDir, r.Cfg.UsageReportName))
	if err := f.AddSheet("usage_info", batch, excel.SheetOptions{
		StringColumns: []string{"serial_nu", "os_version"},
		SizeByValue:   true,
	}); err != nil {
		return nil, err
	}
	if err := f.Save(); err != nil {
		return nil, err
	}
	return f, nil
}

// resolveIdentity turns the device-reported user into a work email: short
// domain accounts go through the account->email mapping, and the fixed-length
// sync artifact before the corporate domain is stripped.
func (r *UsageReporter) resolveIdentity(user *string, domainMapping map[string]string) any {
	if user == nil || strings.TrimSpace(*user) == "" {
		return nil
	}
	identity := strings.ToLower(strings.TrimSpace(*user))
	if email, ok := domainMapping[identity]; ok {
		identity = email
	}
	if r.Cfg.CorpEmailDomain != "" {
		suffix := "@" + strings.ToLower(r.Cfg.CorpEmailDomain)
		if local, found := strings.CutSuffix(identity, suffix); found && len(local) > emailPrefixLen {
			identity = local[emailPrefixLen:] + suffix
		}
	}
	return identity
}

// isMatch applies the owner/last-user rule: a direct email match, or the
// manager proxy rule for owners in the top-level band.
func isMatch(row etl.Record) bool {
	owner, _ := row["emp_email"].(string)
	lastUse, _ := row["last_use_employee"].(string)
	owner = strings.ToLower(strings.TrimSpace(owner))
	if owner == "" || lastUse == "" {
		return false
	}
	if owner == lastUse {
		return true
	}
	band, _ := row["employee_band"].(string)
	manager, _ := row["manager_email"].(string)
	return band == topLevelBand && manager != "" && owner == manager
}

func normalizeSerial(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func strVal(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
