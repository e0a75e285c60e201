// Package jobs wires the scheduled job commands: list the configured jobs,
// run the ones due right now, or stay up as a long lived scheduler.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crucial707/asset-recon/cmd/recon/output"
	"github.com/crucial707/asset-recon/cmd/recon/root"
	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/importer"
	"github.com/crucial707/asset-recon/internal/jobs"
	"github.com/crucial707/asset-recon/internal/mail"
	"github.com/crucial707/asset-recon/internal/report"
	"github.com/crucial707/asset-recon/internal/s3up"
)

func Init(rootCmd *cobra.Command) {
	jobsCmd := &cobra.Command{
		Use:   "jobs",
		Short: "Scheduled pipeline jobs",
	}

	jobsCmd.AddCommand(
		listCmd(),
		runDueCmd(),
		runCmd(),
		serveCmd(),
	)

	rootCmd.AddCommand(jobsCmd)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the configured jobs and whether each is due now",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			rows := make([][]interface{}, 0, len(cfg.Jobs))
			for _, j := range cfg.Jobs {
				due, err := jobs.Match(j.Cron, cfg.Now())
				state := fmt.Sprintf("%t", due)
				if err != nil {
					state = "invalid: " + err.Error()
				}
				rows = append(rows, []interface{}{j.Name, j.Cron, state})
			}
			output.RenderTable([]string{"Job", "Cron", "Due"}, rows)
			return nil
		},
	}
}

func runDueCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run-due",
		Short: "Run every configured job whose cron expression matches the current minute",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			due := jobs.Due(cfg.Jobs, cfg.Now())
			if len(due) == 0 {
				slog.Info("no jobs due")
				return nil
			}
			for _, j := range due {
				slog.Info("running due job", "job", j.Name)
				if err := runJob(cmd.Context(), j.Name); err != nil {
					slog.Error("job failed", "job", j.Name, "error", err)
					return err
				}
			}
			return nil
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run <name>",
		Short: "Run one named job immediately",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd.Context(), args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Stay up and run configured jobs on their cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			jobs.Run(cfg, func(name string) error {
				return runJob(context.Background(), name)
			})
			return nil
		},
	}
}

// runJob maps a configured job name onto its pipeline step.
func runJob(ctx context.Context, name string) error {
	cfg, database, err := root.Open()
	if err != nil {
		return err
	}
	defer database.Close()

	im := importer.New(database, cfg)
	switch name {
	case "import_cmdb":
		return im.CMDBComputers(ctx, joinImport(cfg, "cmdb_computers.xlsx"))
	case "import_sys_mapping":
		return im.SysMapping(ctx, joinImport(cfg, "computer_sys_mapping.json"))
	case "import_inventory":
		return im.Inventory(ctx, joinImport(cfg, cfg.AssetReportFile), cfg.AssetReportSheet)
	case "import_devices":
		return im.DeviceUsage(ctx)
	case "import_employees":
		return im.Employees(ctx, joinImport(cfg, "employee_info.xlsx"), "Sheet1")
	case "import_managers":
		return im.ManagerChain(ctx, joinImport(cfg, "emp_mgr_mapping.xlsx"), "Sheet1")
	case "usage_report":
		_, err := report.NewUsageReporter(database, cfg).Export(ctx)
		return err
	case "device_pull":
		_, err := report.NewDevicePullReporter(database, cfg).Export(ctx)
		return err
	case "temp_employee_report":
		f, err := report.NewTempEmployeeReporter(database, cfg).Run(ctx)
		if err != nil {
			return err
		}
		if cfg.SMTPServer != "" {
			if err := mail.New(cfg).SendReport(f); err != nil {
				slog.Error("report mail failed, file kept on disk", "path", f.Path, "error", err)
			}
		}
		return nil
	case "upload_reports":
		up, err := s3up.New(ctx, cfg)
		if err != nil {
			return err
		}
		return up.UploadReports(ctx, cfg.ExportDir)
	default:
		return fmt.Errorf("unknown job %q", name)
	}
}

func joinImport(cfg config.Config, file string) string {
	return filepath.Join(cfg.ImportDir, file)
}
