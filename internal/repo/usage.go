package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/asset-recon/internal/models"
)

// UsageRepo reads the joined asset/device-usage view used by the usage report.
type UsageRepo struct {
	DB *sql.DB
}

func NewUsageRepo(db *sql.DB) *UsageRepo {
	return &UsageRepo{DB: db}
}

// usageJoinQuery resolves device identity per asset serial: the
// device-management record wins, the CMDB record is the fallback. Serial
// comparison is trim+lower on both sides so cosmetic differences between the
// portals do not break the join. Assets without either source still come
// back (outer joins) with null device fields.
const usageJoinQuery = `
SELECT a.serial_nu,
       COALESCE(d.device_name, c.name)                 AS device_name,
       COALESCE(d.os, c.operating_system)              AS os,
       COALESCE(d.os_version, c.os_version)            AS os_version,
       COALESCE(d.last_use_user, c.last_logged_user)   AS last_use_user,
       COALESCE(d.last_use_time, c.last_login_time)    AS last_use_time
FROM asset_info a
LEFT JOIN device_usage d
       ON lower(btrim(a.serial_nu)) = lower(btrim(d.serial_nu))
LEFT JOIN cmdb_computer c
       ON lower(btrim(a.serial_nu)) = lower(btrim(c.serial_number))`

// UsageInfo returns one coalesced usage row per asset serial number.
func (r *UsageRepo) UsageInfo(ctx context.Context) ([]models.UsageRow, error) {
	rows, err := r.DB.QueryContext(ctx, usageJoinQuery)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.UsageRow
	for rows.Next() {
		var u models.UsageRow
		if err := rows.Scan(&u.SerialNu, &u.DeviceName, &u.OS, &u.OSVersion, &u.LastUseUser, &u.LastUseTime); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Assets returns the inventory rows the usage report is keyed on, audit
// columns dropped and serial numbers uppercased.
func (r *UsageRepo) Assets(ctx context.Context) ([]models.AssetRow, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT upper(btrim(serial_nu)), status, barcode, asset_name, asset_class, spec_model,
		       emp_id, emp_email, emp_user, use_dept, region, storage_loc, administrator
		FROM asset_info`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.AssetRow
	for rows.Next() {
		var a models.AssetRow
		if err := rows.Scan(&a.SerialNu, &a.Status, &a.Barcode, &a.AssetName, &a.AssetClass,
			&a.SpecModel, &a.EmpID, &a.EmpEmail, &a.EmpUser, &a.UseDept, &a.Region,
			&a.StorageLoc, &a.Administrator); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// CMDBDevice looks up the CMDB fallback record for one serial number. Returns
// sql.ErrNoRows when the CMDB never saw the serial.
func (r *UsageRepo) CMDBDevice(ctx context.Context, serialNu string) (models.DevicePullRow, error) {
	var d models.DevicePullRow
	err := r.DB.QueryRowContext(ctx, `
		SELECT serial_number, name, operating_system, os_version, last_logged_user, last_login_time
		FROM cmdb_computer
		WHERE lower(btrim(serial_number)) = lower(btrim($1))`,
		serialNu,
	).Scan(&d.SerialNu, &d.DeviceName, &d.DeviceOS, &d.OSVersion, &d.LastUseUser, &d.LastUseTime)
	if err != nil {
		return models.DevicePullRow{}, err
	}
	d.GotFrom = "sn"
	return d, nil
}
