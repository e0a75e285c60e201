// Package imports wires the per-entity import commands.
package imports

import (
	"context"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/crucial707/asset-recon/cmd/recon/root"
	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/importer"
)

func Init(rootCmd *cobra.Command) {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import source exports into the database",
	}

	importCmd.AddCommand(
		cmdbCmd(),
		sysMappingCmd(),
		inventoryCmd(),
		devicesCmd(),
		employeesCmd(),
		managersCmd(),
	)

	rootCmd.AddCommand(importCmd)
}

// withImporter handles the shared open/close plumbing.
func withImporter(fn func(ctx context.Context, im *importer.Importer, cfg config.Config) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, database, err := root.Open()
		if err != nil {
			return err
		}
		defer database.Close()
		return fn(cmd.Context(), importer.New(database, cfg), cfg)
	}
}

func cmdbCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "cmdb",
		Short: "Import the CMDB computer export (xlsx)",
		RunE: withImporter(func(ctx context.Context, im *importer.Importer, cfg config.Config) error {
			return im.CMDBComputers(ctx, resolve(cfg, file))
		}),
	}
	cmd.Flags().StringVar(&file, "file", "cmdb_computers.xlsx", "export file, relative paths resolve under the import directory")
	return cmd
}

func sysMappingCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "sysmap",
		Short: "Import the sys_id/serial mapping (json)",
		RunE: withImporter(func(ctx context.Context, im *importer.Importer, cfg config.Config) error {
			return im.SysMapping(ctx, resolve(cfg, file))
		}),
	}
	cmd.Flags().StringVar(&file, "file", "computer_sys_mapping.json", "export file, relative paths resolve under the import directory")
	return cmd
}

func inventoryCmd() *cobra.Command {
	var file, sheet string
	cmd := &cobra.Command{
		Use:   "inventory",
		Short: "Import the inventory console export (xlsx)",
		RunE: withImporter(func(ctx context.Context, im *importer.Importer, cfg config.Config) error {
			if file == "" {
				file = cfg.AssetReportFile
			}
			if sheet == "" {
				sheet = cfg.AssetReportSheet
			}
			return im.Inventory(ctx, resolve(cfg, file), sheet)
		}),
	}
	cmd.Flags().StringVar(&file, "file", "", "export file (default from ASSET_REPORT)")
	cmd.Flags().StringVar(&sheet, "sheet", "", "worksheet name (default from ASSET_REPORT_SHEET)")
	return cmd
}

func devicesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "devices",
		Short: "Import the device console export (zip with one csv, from the download directory)",
		RunE: withImporter(func(ctx context.Context, im *importer.Importer, cfg config.Config) error {
			return im.DeviceUsage(ctx)
		}),
	}
}

func employeesCmd() *cobra.Command {
	var file, sheet string
	cmd := &cobra.Command{
		Use:   "employees",
		Short: "Import the HR employee export (xlsx)",
		RunE: withImporter(func(ctx context.Context, im *importer.Importer, cfg config.Config) error {
			return im.Employees(ctx, resolve(cfg, file), sheet)
		}),
	}
	cmd.Flags().StringVar(&file, "file", "employee_info.xlsx", "export file, relative paths resolve under the import directory")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "worksheet name")
	return cmd
}

func managersCmd() *cobra.Command {
	var file, sheet string
	cmd := &cobra.Command{
		Use:   "managers",
		Short: "Import the employee manager chain export (xlsx)",
		RunE: withImporter(func(ctx context.Context, im *importer.Importer, cfg config.Config) error {
			return im.ManagerChain(ctx, resolve(cfg, file), sheet)
		}),
	}
	cmd.Flags().StringVar(&file, "file", "emp_mgr_mapping.xlsx", "export file, relative paths resolve under the import directory")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "worksheet name")
	return cmd
}

func resolve(cfg config.Config, file string) string {
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(cfg.ImportDir, file)
}
