package main

import (
	"fmt"
	"os"

	"github.com/crucial707/asset-recon/cmd/recon/imports"
	"github.com/crucial707/asset-recon/cmd/recon/jobs"
	"github.com/crucial707/asset-recon/cmd/recon/reports"
	"github.com/crucial707/asset-recon/cmd/recon/root"
	"github.com/crucial707/asset-recon/cmd/recon/runs"
)

func main() {
	rootCmd := root.GetRoot()
	imports.Init(rootCmd)
	reports.Init(rootCmd)
	jobs.Init(rootCmd)
	runs.Init(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
