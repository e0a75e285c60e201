// Package root holds the recon root command and the shared database setup
// used by every subcommand.
package root

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/crucial707/asset-recon/internal/config"
	"github.com/crucial707/asset-recon/internal/db"
)

// RootCmd is the recon command tree root.
var RootCmd = &cobra.Command{
	Use:   "recon",
	Short: "IT asset reconciliation pipeline",
	Long:  "Imports device, CMDB, inventory and HR exports, reconciles them, and generates the daily reports.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogger(config.Load())
	},
}

func GetRoot() *cobra.Command {
	return RootCmd
}

// Open loads configuration, connects to the database and applies pending
// migrations. Every subcommand that touches data starts here.
func Open() (config.Config, *sql.DB, error) {
	cfg := config.Load()

	database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
	if err != nil {
		return cfg, nil, fmt.Errorf("connect database: %w", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := db.Run(cfg.DatabaseURL()); err != nil {
		database.Close()
		return cfg, nil, fmt.Errorf("apply migrations: %w", err)
	}
	return cfg, database, nil
}

func setupLogger(cfg config.Config) {
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
