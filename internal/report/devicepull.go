package report

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/etl"
	"github.com/crucial707/asset-recon/internal/excel"
	"github.com/crucial707/asset-recon/internal/repo"
)

// DevicePullReporter exports the merged device view: every device the
// management console has seen, plus CMDB fallback rows for asset serials the
// console never reported. Each row is tagged with the source that supplied
// it ("mem" for the device console, "sn" for the CMDB).
type DevicePullReporter struct {
	Cfg   config.Config
	Usage *repo.UsageRepo
	DB    *sql.DB
}

func NewDevicePullReporter(db *sql.DB, cfg config.Config) *DevicePullReporter {
	return &DevicePullReporter{Cfg: cfg, Usage: repo.NewUsageRepo(db), DB: db}
}

var devicePullColumns = []string{
	"device_name", "serial_nu", "device_os", "os_version", "last_use_user", "last_use_time", "got_from",
}

// assetStatusInUse is the inventory console's in-use status marker. Only
// in-use assets are considered for the CMDB fallback; retired or stored
// assets are not expected to check in anywhere.
const assetStatusInUse = "在用"

// Build merges the two sources, device console first.
func (r *DevicePullReporter) Build(ctx context.Context) (etl.Batch, error) {
	batch := etl.Batch{Columns: devicePullColumns}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT device_name, serial_nu, os, os_version, last_use_user, last_use_time
		FROM device_usage WHERE serial_nu IS NOT NULL`)
	if err != nil {
		return etl.Batch{}, err
	}
	defer rows.Close()

	seen := make(map[string]bool)
	for rows.Next() {
		var name, serial, osName, osVer, user sql.NullString
		var lastUse sql.NullTime
		if err := rows.Scan(&name, &serial, &osName, &osVer, &user, &lastUse); err != nil {
			return etl.Batch{}, err
		}
		rec := etl.Record{
			"device_name":   nullStr(name),
			"serial_nu":     nullStr(serial),
			"device_os":     nullStr(osName),
			"os_version":    nullStr(osVer),
			"last_use_user": nullStr(user),
			"got_from":      "mem",
		}
		if lastUse.Valid {
			rec["last_use_time"] = lastUse.Time
		}
		seen[normalizeSerial(serial.String)] = true
		batch.Rows = append(batch.Rows, rec)
	}
	if err := rows.Err(); err != nil {
		return etl.Batch{}, err
	}

	assets, err := r.Usage.Assets(ctx)
	if err != nil {
		return etl.Batch{}, err
	}
	for _, a := range assets {
		if a.Status == nil || *a.Status != assetStatusInUse {
			continue
		}
		if seen[normalizeSerial(a.SerialNu)] {
			continue
		}
		d, err := r.Usage.CMDBDevice(ctx, a.SerialNu)
		if err == sql.ErrNoRows {
			continue
		}
		if err != nil {
			return etl.Batch{}, err
		}
		rec := etl.Record{
			"device_name":   strVal(d.DeviceName),
			"serial_nu":     strings.TrimSpace(d.SerialNu),
			"device_os":     strVal(d.DeviceOS),
			"os_version":    strVal(d.OSVersion),
			"last_use_user": strVal(d.LastUseUser),
			"got_from":      d.GotFrom,
		}
		if d.LastUseTime != nil {
			rec["last_use_time"] = *d.LastUseTime
		}
		batch.Rows = append(batch.Rows, rec)
	}
	return batch, nil
}

// Export writes the device pull workbook into the export directory.
func (r *DevicePullReporter) Export(ctx context.Context) (*excel.File, error) {
	batch, err := r.Build(ctx)
	if err != nil {
		return nil, err
	}
	name := "device_pull_" + r.Cfg.DateStamp() + ".xlsx"
	f := excel.NewFile(name, filepath.Join(r.Cfg.ExportDir, name))
	if err := f.AddSheet("List", batch, excel.SheetOptions{
		StringColumns: []string{"serial_nu", "os_version"},
	}); err != nil {
		return nil, err
	}
	if err := f.Save(); err != nil {
		return nil, err
	}
	return f, nil
}

func nullStr(s sql.NullString) any {
	if !s.Valid {
		return nil
	}
	return s.String
}
