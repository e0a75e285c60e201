package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Job is one scheduled pipeline job: a name the CLI knows how to run and the
// cron expression that decides when it is due.
type Job struct {
	Name string `json:"job_name"`
	Cron string `json:"cron"`
}

type Config struct {
	DBHost string
	DBPort string
	DBName string
	DBUser string
	DBPass string

	// DBMaxOpenConns is the maximum number of open connections to the database (default 25).
	DBMaxOpenConns int
	// DBMaxIdleConns is the maximum number of idle connections (default 5).
	DBMaxIdleConns int

	// RootDir is the working root for all pipeline directories (default /tmp/asset-recon).
	RootDir string
	// ImportDir holds report files dropped by the scrapers, waiting to be imported.
	ImportDir string
	// ExportDir receives generated report files.
	ExportDir string
	// DownloadDir is where browser jobs leave raw downloads (zip archives etc.).
	DownloadDir string

	// Timezone is the reporting timezone (default Asia/Shanghai). Audit
	// timestamps and date stamps in file names use it.
	Timezone string

	// UpdatedBy is the audit marker written with every imported row.
	UpdatedBy string

	// Jobs is the scheduled job list, parsed from JOB_LIST (JSON array of
	// {"job_name": ..., "cron": ...}).
	Jobs []Job

	AssetReportFile  string
	AssetReportSheet string

	UsageReportName        string
	TempEmployeeReportName string

	// CorpEmailDomain is the corporate mail domain used when cleaning up
	// device-reported user identities (e.g. "example.com").
	CorpEmailDomain string

	SMTPServer       string
	SMTPPort         int
	MailSender       string
	MailSubject      string
	MailSupportInbox string
	// MailSignatureFile is an optional PNG inlined into the report mail body.
	MailSignatureFile string

	S3Bucket string
	S3Prefix string
	S3Region string

	// Port and APIToken configure statusd.
	Port     string
	APIToken string

	// LogFormat is "text" (default) or "json" for structured logging.
	LogFormat string
}

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present, matching how the scrapers are
// configured. Pipeline directories are created so callers can write without
// checking.
func Load() Config {
	_ = godotenv.Load()

	root := getEnv("RECON_ROOT_DIR", filepath.Join(os.TempDir(), "asset-recon"))

	cfg := Config{
		DBHost: getEnv("DB_HOST", "localhost"),
		DBPort: getEnv("DB_PORT", "5432"),
		DBName: getEnv("DB_NAME", "assetdb"),
		DBUser: getEnv("DB_USER", "assetuser"),
		DBPass: getEnv("DB_PASS", "assetpass"),

		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 25),
		DBMaxIdleConns: getEnvInt("DB_MAX_IDLE_CONNS", 5),

		RootDir:     root,
		ImportDir:   filepath.Join(root, getEnv("IMPORT_REPORT_DIR", "import")),
		ExportDir:   filepath.Join(root, getEnv("EXPORT_REPORT_DIR", "export")),
		DownloadDir: filepath.Join(root, getEnv("BROWSER_DOWNLOAD_DIR", "download")),

		Timezone:  getEnv("TIMEZONE", "Asia/Shanghai"),
		UpdatedBy: getEnv("UPDATED_BY", "Updated By Script"),

		Jobs: parseJobs(getEnv("JOB_LIST", "")),

		AssetReportFile:  getEnv("ASSET_REPORT", "asset_report.xlsx"),
		AssetReportSheet: getEnv("ASSET_REPORT_SHEET", "Sheet1"),

		UsageReportName:        getEnv("USAGE_REPORT_FILE_NAME", "usage_report.xlsx"),
		TempEmployeeReportName: getEnv("TEMP_EMPLOYEE_REPORT_FILE_NAME", ""),

		CorpEmailDomain: getEnv("CORP_EMAIL_DOMAIN", ""),

		SMTPServer:        getEnv("SMTP_SERVER", ""),
		SMTPPort:          getEnvInt("SMTP_PORT", 25),
		MailSender:        getEnv("MAIL_SENDER", ""),
		MailSubject:       getEnv("MAIL_SUBJECT", "Temp Employee Report"),
		MailSupportInbox:  getEnv("MAIL_IT_SUPPORT_INBOX", ""),
		MailSignatureFile: getEnv("MAIL_SIGNATURE_FILE", ""),

		S3Bucket: getEnv("AWS_S3_BUCKET", ""),
		S3Prefix: getEnv("AWS_S3_PREFIX", "reports"),
		S3Region: getEnv("AWS_REGION", ""),

		Port:     getEnv("PORT", "8080"),
		APIToken: getEnv("API_TOKEN", "dev-token"),

		LogFormat: getEnv("LOG_FORMAT", "text"),
	}

	if cfg.TempEmployeeReportName == "" {
		cfg.TempEmployeeReportName = fmt.Sprintf("temp_employee_report_%s.xlsx", cfg.DateStamp())
	}

	for _, dir := range []string{cfg.ImportDir, cfg.ExportDir, cfg.DownloadDir} {
		_ = os.MkdirAll(dir, 0o755)
	}

	return cfg
}

// Location resolves the configured reporting timezone, falling back to UTC
// when the zone name is unknown.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Now returns the current time in the reporting timezone.
func (c Config) Now() time.Time {
	return time.Now().In(c.Location())
}

// DateStamp is the yyyymmdd stamp used in report file names and S3 keys.
func (c Config) DateStamp() string {
	return c.Now().Format("20060102")
}

// DatabaseURL builds the postgres DSN used by migrations.
func (c Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPass, c.DBHost, c.DBPort, c.DBName)
}

func parseJobs(s string) []Job {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var jobs []Job
	if err := json.Unmarshal([]byte(s), &jobs); err != nil {
		return nil
	}
	return jobs
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
