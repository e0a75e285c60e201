// Package reports wires the report generation commands.
package reports

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/crucial707/asset-recon/cmd/recon/root"
	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/mail"
	"github.com/crucial707/asset-recon/internal/report"
	"github.com/crucial707/asset-recon/internal/s3up"
)

func Init(rootCmd *cobra.Command) {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reconciliation reports",
	}

	reportCmd.AddCommand(
		usageCmd(),
		tempEmployeesCmd(),
		devicePullCmd(),
		uploadCmd(),
	)

	rootCmd.AddCommand(reportCmd)
}

func usageCmd() *cobra.Command {
	var upload bool
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Generate the asset usage report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := root.Open()
			if err != nil {
				return err
			}
			defer database.Close()

			f, err := report.NewUsageReporter(database, cfg).Export(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("usage report written", "path", f.Path)

			if upload {
				return uploadExports(cmd.Context(), cfg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&upload, "upload", false, "upload today's reports to S3 after generating")
	return cmd
}

func tempEmployeesCmd() *cobra.Command {
	var sendMail bool
	var to []string
	cmd := &cobra.Command{
		Use:   "temp-employees",
		Short: "Generate the temp employee change report",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := root.Open()
			if err != nil {
				return err
			}
			defer database.Close()

			f, err := report.NewTempEmployeeReporter(database, cfg).Run(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("temp employee report written", "path", f.Path)

			if sendMail {
				return mail.New(cfg).SendReport(f, to...)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&sendMail, "mail", false, "mail the report after generating")
	cmd.Flags().StringSliceVar(&to, "to", nil, "mail recipients (default the configured sender)")
	return cmd
}

func devicePullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "device-pull",
		Short: "Generate the merged device pull export",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, database, err := root.Open()
			if err != nil {
				return err
			}
			defer database.Close()

			f, err := report.NewDevicePullReporter(database, cfg).Export(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("device pull export written", "path", f.Path)
			return nil
		},
	}
}

func uploadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upload",
		Short: "Upload today's generated reports to S3",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			return uploadExports(cmd.Context(), cfg)
		},
	}
}

func uploadExports(ctx context.Context, cfg config.Config) error {
	up, err := s3up.New(ctx, cfg)
	if err != nil {
		return err
	}
	return up.UploadReports(ctx, cfg.ExportDir)
}
