// Package importer wires the per-entity import pipelines: read the source
// file, normalize, filter, upsert, and record an audited run.
package importer

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/etl"
	"github.com/crucial707/asset-recon/internal/excel"
	"github.com/crucial707/asset-recon/internal/ingest"
	"github.com/crucial707/asset-recon/internal/metrics"
	"github.com/crucial707/asset-recon/internal/models"
	"github.com/crucial707/asset-recon/internal/repo"
	"github.com/crucial707/asset-recon/internal/upsert"
)

// Importer runs the import pipelines against one database session.
type Importer struct {
	Cfg    config.Config
	Engine *upsert.Engine
	Runs   *repo.RunRepo
}

func New(db *sql.DB, cfg config.Config) *Importer {
	engine := upsert.NewEngine(db)
	engine.Now = cfg.Now
	return &Importer{Cfg: cfg, Engine: engine, Runs: repo.NewRunRepo(db)}
}

// CMDBComputers imports the CMDB computer export (xlsx with exactly one
// visible sheet).
func (im *Importer) CMDBComputers(ctx context.Context, path string) error {
	return im.run(ctx, "cmdb_computer", path, func() (etl.Batch, int, error) {
		sheet, err := excel.VisibleSheet(path)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		batch, err := excel.ReadSheet(path, sheet)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		batch, err = etl.Normalize(batch, cmdbRename, im.Cfg.UpdatedBy)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		im.coerceTimes(batch, "last_login_time", "most_recent_discovery")
		filtered, excluded := etl.FilterKeys(batch, "serial_number", "name")
		return filtered, excluded, nil
	}, cmdbDescriptor(im.Cfg.UpdatedBy))
}

// SysMapping imports the sys_id/serial mapping JSON dumped from the CMDB API.
func (im *Importer) SysMapping(ctx context.Context, path string) error {
	return im.run(ctx, "computer_sys_mapping", path, func() (etl.Batch, int, error) {
		batch, err := ingest.ReadRecordsJSON(path, "sys_id", "serial_number")
		if err != nil {
			return etl.Batch{}, 0, err
		}
		batch, err = etl.Normalize(batch, nil, im.Cfg.UpdatedBy)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		filtered, excluded := etl.FilterKeys(batch, "sys_id", "serial_number")
		return filtered, excluded, nil
	}, sysMappingDescriptor(im.Cfg.UpdatedBy))
}

// Inventory imports the inventory console export (bilingual headers).
func (im *Importer) Inventory(ctx context.Context, path, sheet string) error {
	return im.run(ctx, "asset_info", path, func() (etl.Batch, int, error) {
		batch, err := excel.ReadSheet(path, sheet)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		batch, err = etl.Normalize(batch, inventoryRename, im.Cfg.UpdatedBy)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		filtered, excluded := etl.FilterKeys(batch, "serial_nu", "emp_id", "barcode")
		return filtered, excluded, nil
	}, inventoryDescriptor(im.Cfg.UpdatedBy))
}

// DeviceUsage imports the device-management console export: a zip in the
// download directory holding one CSV. Check-in times come in as UTC and are
// converted to the reporting timezone.
func (im *Importer) DeviceUsage(ctx context.Context) error {
	csvPath, err := ingest.ExtractReportCSV(im.Cfg.DownloadDir)
	if err != nil {
		return err
	}
	return im.run(ctx, "device_usage", csvPath, func() (etl.Batch, int, error) {
		batch, err := ingest.ReadCSV(csvPath)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		batch, err = etl.Normalize(batch, deviceRename, im.Cfg.UpdatedBy)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		im.coerceUTCTimes(batch, "last_use_time")
		filtered, excluded := etl.FilterKeys(batch, "device_id", "device_name", "serial_nu")
		return filtered, excluded, nil
	}, deviceUsageDescriptor(im.Cfg.UpdatedBy))
}

// Employees imports the HR employee spreadsheet.
func (im *Importer) Employees(ctx context.Context, path, sheet string) error {
	return im.run(ctx, "employee_info", path, func() (etl.Batch, int, error) {
		batch, err := excel.ReadSheet(path, sheet)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		batch, err = etl.Normalize(batch, employeeRename, im.Cfg.UpdatedBy)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		filtered, excluded := etl.FilterKeys(batch, "emp_id", "emp_name")
		return filtered, excluded, nil
	}, employeeDescriptor(im.Cfg.UpdatedBy))
}

// ManagerChain imports the employee->manager chain export.
func (im *Importer) ManagerChain(ctx context.Context, path, sheet string) error {
	return im.run(ctx, "emp_mgr_mapping", path, func() (etl.Batch, int, error) {
		batch, err := excel.ReadSheet(path, sheet)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		batch, err = etl.Normalize(batch, managerChainRename, im.Cfg.UpdatedBy)
		if err != nil {
			return etl.Batch{}, 0, err
		}
		filtered, excluded := etl.FilterKeys(batch, "emp_id", "emp_name")
		return filtered, excluded, nil
	}, managerChainDescriptor(im.Cfg.UpdatedBy))
}

// run is the shared pipeline skeleton. Row-level defects are already gone by
// the time the engine runs; a batch-level failure is recorded on the run row
// and returned, and the next scheduled run is expected to self-heal.
func (im *Importer) run(ctx context.Context, entity, source string, load func() (etl.Batch, int, error), d upsert.Descriptor) error {
	started := im.Cfg.Now()
	batch, excluded, err := load()
	if err != nil {
		im.record(ctx, models.ImportRun{
			Entity: entity, SourceFile: source, Status: "failed", Error: err.Error(),
			StartedAt: started, FinishedAt: im.Cfg.Now(),
		})
		metrics.RecordRun(entity, "failed")
		return err
	}

	res, err := im.Engine.Upsert(ctx, d, batch)
	run := models.ImportRun{
		Entity:     entity,
		SourceFile: source,
		RowsRead:   len(batch.Rows) + excluded,
		Inserted:   res.Inserted,
		Updated:    res.Updated,
		Skipped:    res.Skipped,
		Excluded:   excluded,
		Status:     "ok",
		StartedAt:  started,
		FinishedAt: im.Cfg.Now(),
	}
	if err != nil {
		run.Status = "failed"
		run.Error = err.Error()
	}
	im.record(ctx, run)
	metrics.RecordImport(entity, res.Inserted, res.Updated, res.Skipped, excluded)
	metrics.RecordRun(entity, run.Status)
	return err
}

func (im *Importer) record(ctx context.Context, run models.ImportRun) {
	if err := im.Runs.Record(ctx, run); err != nil {
		slog.Error("record import run", "entity", run.Entity, "error", err)
	}
}

// timeLayouts are the timestamp shapes seen across the source exports.
var timeLayouts = []string{
	"2006-01-02 15:04:05.000000",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z",
	"2006-01-02",
	"01/02/2006 15:04:05",
}

// coerceTimes parses string timestamps into time.Time in the reporting
// timezone. Unparseable values are left as nil rather than failing the
// batch; the source occasionally emits out-of-range dates.
func (im *Importer) coerceTimes(batch etl.Batch, columns ...string) {
	im.parseTimeColumns(batch, im.Cfg.Location(), false, columns)
}

// coerceUTCTimes parses naive timestamps as UTC and converts them to the
// reporting timezone (the device console exports check-in times in UTC).
func (im *Importer) coerceUTCTimes(batch etl.Batch, columns ...string) {
	im.parseTimeColumns(batch, time.UTC, true, columns)
}

func (im *Importer) parseTimeColumns(batch etl.Batch, parseLoc *time.Location, convert bool, columns []string) {
	for _, row := range batch.Rows {
		for _, col := range columns {
			s, ok := row[col].(string)
			if !ok || etl.IsNull(s) {
				row[col] = nilOr(row[col])
				continue
			}
			parsed := false
			for _, layout := range timeLayouts {
				if t, err := time.ParseInLocation(layout, s, parseLoc); err == nil {
					if convert {
						t = t.In(im.Cfg.Location())
					}
					row[col] = t
					parsed = true
					break
				}
			}
			if !parsed {
				slog.Warn("unparseable timestamp dropped", "column", col, "value", s)
				row[col] = nil
			}
		}
	}
}

func nilOr(v any) any {
	if etl.IsNull(v) {
		return nil
	}
	return v
}
