package repo

import (
	"context"
	"database/sql"

	"github.com/crucial707/asset-recon/internal/models"
)

// RunRepo persists the per-run audit rows shown by `recon runs list` and statusd.
type RunRepo struct {
	DB *sql.DB
}

func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{DB: db}
}

// Record inserts one finished run.
func (r *RunRepo) Record(ctx context.Context, run models.ImportRun) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO import_runs
		  (entity, source_file, rows_read, inserted, updated, skipped, excluded, status, error, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		run.Entity, run.SourceFile, run.RowsRead, run.Inserted, run.Updated,
		run.Skipped, run.Excluded, run.Status, run.Error, run.StartedAt, run.FinishedAt,
	)
	return err
}

// List returns recent runs, newest first.
func (r *RunRepo) List(ctx context.Context, limit, offset int) ([]models.ImportRun, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, entity, COALESCE(source_file,''), rows_read, inserted, updated, skipped, excluded,
		       status, COALESCE(error,''), started_at, finished_at
		FROM import_runs ORDER BY started_at DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ImportRun
	for rows.Next() {
		var run models.ImportRun
		if err := rows.Scan(&run.ID, &run.Entity, &run.SourceFile, &run.RowsRead, &run.Inserted,
			&run.Updated, &run.Skipped, &run.Excluded, &run.Status, &run.Error,
			&run.StartedAt, &run.FinishedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
