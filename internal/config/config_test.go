package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RECON_ROOT_DIR", t.TempDir())

	cfg := Load()
	if cfg.DBPort != "5432" || cfg.Timezone != "Asia/Shanghai" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.UpdatedBy != "Updated By Script" {
		t.Errorf("UpdatedBy = %q", cfg.UpdatedBy)
	}
	if cfg.TempEmployeeReportName != "temp_employee_report_"+cfg.DateStamp()+".xlsx" {
		t.Errorf("TempEmployeeReportName = %q", cfg.TempEmployeeReportName)
	}
}

func TestLoadCreatesDirs(t *testing.T) {
	root := t.TempDir()
	t.Setenv("RECON_ROOT_DIR", root)

	cfg := Load()
	if cfg.ImportDir != filepath.Join(root, "import") {
		t.Errorf("ImportDir = %q", cfg.ImportDir)
	}
	for _, dir := range []string{cfg.ImportDir, cfg.ExportDir, cfg.DownloadDir} {
		if !dirExists(dir) {
			t.Errorf("%s should exist after Load", dir)
		}
	}
}

func TestParseJobs(t *testing.T) {
	t.Setenv("RECON_ROOT_DIR", t.TempDir())
	t.Setenv("JOB_LIST", `[{"job_name":"usage_report","cron":"30 8 * * *"}]`)

	cfg := Load()
	if len(cfg.Jobs) != 1 || cfg.Jobs[0].Name != "usage_report" || cfg.Jobs[0].Cron != "30 8 * * *" {
		t.Errorf("Jobs = %+v", cfg.Jobs)
	}
}

func TestParseJobsInvalidJSON(t *testing.T) {
	if jobs := parseJobs("not json"); jobs != nil {
		t.Errorf("parseJobs should drop bad input, got %v", jobs)
	}
}

func TestLocationFallback(t *testing.T) {
	cfg := Config{Timezone: "Not/AZone"}
	if cfg.Location() != time.UTC {
		t.Error("unknown zone should fall back to UTC")
	}
}

func TestDatabaseURL(t *testing.T) {
	cfg := Config{DBUser: "u", DBPass: "p", DBHost: "h", DBPort: "5432", DBName: "d"}
	want := "postgres://u:p@h:5432/d?sslmode=disable"
	if got := cfg.DatabaseURL(); got != want {
		t.Errorf("DatabaseURL = %q, want %q", got, want)
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
