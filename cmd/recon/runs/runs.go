// Package runs wires the import run audit commands.
package runs

import (
	"github.com/spf13/cobra"

	"github.com/crucial707/asset-recon/cmd/recon/output"
	"github.com/crucial707/asset-recon/cmd/recon/root"
	"github.com/crucial707/asset-recon/internal/repo"
)

func Init(rootCmd *cobra.Command) {
	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect the import run audit trail",
	}

	runsCmd.AddCommand(listCmd())
	rootCmd.AddCommand(runsCmd)
}

func listCmd() *cobra.Command {
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, database, err := root.Open()
			if err != nil {
				return err
			}
			defer database.Close()

			list, err := repo.NewRunRepo(database).List(cmd.Context(), limit, offset)
			if err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(list))
			for _, run := range list {
				rows = append(rows, []interface{}{
					run.ID, run.Entity, run.Status, run.RowsRead, run.Inserted,
					run.Updated, run.Skipped, run.Excluded,
					run.StartedAt.Format("2006-01-02 15:04:05"), run.Error,
				})
			}
			output.RenderTable(
				[]string{"ID", "Entity", "Status", "Read", "Inserted", "Updated", "Skipped", "Excluded", "Started", "Error"},
				rows,
			)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "max rows")
	cmd.Flags().IntVar(&offset, "offset", 0, "rows to skip")
	return cmd
}
