// Package upsert implements the conflict-aware merge used by every import
// path: one bulk lookup of existing natural keys, a partition into inserts
// and updates, and a single transactional write per batch.
package upsert

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/crucial707/asset-recon/internal/etl"
)

// Descriptor describes one target table for the engine.
type Descriptor struct {
	// Table is the target table name.
	Table string
	// KeyColumn is the natural-key column. Batches must already be filtered
	// to unique, non-null keys (etl.FilterKeys).
	KeyColumn string
	// Columns are the writable columns, key included, in insert order.
	// Columns outside this list are never touched by the engine.
	Columns []string
	// CheckColumns optionally short-circuits the update path: when every
	// listed column is unchanged against the persisted row, the row is
	// skipped entirely and updated_time is not bumped.
	CheckColumns []string
	// UpdatedBy is the audit marker written with every row.
	UpdatedBy string
}

// Result reports what one Upsert call did.
type Result struct {
	Inserted int
	Updated  int
	Skipped  int
}

// Engine performs upserts against a single database connection.
type Engine struct {
	DB *sql.DB
	// Now supplies the audit timestamp; defaults to time.Now.
	Now func() time.Time
}

func NewEngine(db *sql.DB) *Engine {
	return &Engine{DB: db, Now: time.Now}
}

// insertChunk keeps multi-row statements under the postgres placeholder limit.
const insertChunk = 500

// Upsert writes the batch into the descriptor's table. New keys are bulk
// inserted; existing keys are overwritten column-by-column via
// INSERT ... ON CONFLICT DO UPDATE. The whole batch is one transaction: on
// any error it is rolled back as a unit, logged, and returned to the caller,
// so a bad batch never leaves partial state behind.
func (e *Engine) Upsert(ctx context.Context, d Descriptor, batch etl.Batch) (Result, error) {
	var res Result
	if len(batch.Rows) == 0 {
		return res, nil
	}

	keys := make([]string, 0, len(batch.Rows))
	for _, row := range batch.Rows {
		keys = append(keys, etl.KeyString(row[d.KeyColumn]))
	}

	existing, err := e.fetchExisting(ctx, d, keys)
	if err != nil {
		return res, fmt.Errorf("upsert %s: fetch existing: %w", d.Table, err)
	}

	var inserts, updates []etl.Record
	for _, row := range batch.Rows {
		key := etl.KeyString(row[d.KeyColumn])
		persisted, found := existing[key]
		switch {
		case !found:
			inserts = append(inserts, row)
		case len(d.CheckColumns) > 0 && unchanged(row, persisted, d.CheckColumns):
			res.Skipped++
		default:
			updates = append(updates, row)
		}
	}

	now := e.now()

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		return res, fmt.Errorf("upsert %s: begin: %w", d.Table, err)
	}

	if err := e.writeRows(ctx, tx, d, inserts, now, false); err != nil {
		tx.Rollback()
		slog.Error("upsert insert failed, batch rolled back",
			"table", d.Table, "rows", len(inserts), "error", err)
		return Result{}, fmt.Errorf("upsert %s: insert: %w", d.Table, err)
	}
	if err := e.writeRows(ctx, tx, d, updates, now, true); err != nil {
		tx.Rollback()
		slog.Error("upsert update failed, batch rolled back",
			"table", d.Table, "rows", len(updates), "error", err)
		return Result{}, fmt.Errorf("upsert %s: update: %w", d.Table, err)
	}

	if err := tx.Commit(); err != nil {
		return Result{}, fmt.Errorf("upsert %s: commit: %w", d.Table, err)
	}

	res.Inserted = len(inserts)
	res.Updated = len(updates)
	slog.Info("upsert complete", "table", d.Table,
		"inserted", res.Inserted, "updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}

// fetchExisting pulls the persisted rows whose key is in the batch, in one
// query. When CheckColumns are declared their current values come back too,
// so the no-op check needs no further reads.
func (e *Engine) fetchExisting(ctx context.Context, d Descriptor, keys []string) (map[string]etl.Record, error) {
	cols := append([]string{d.KeyColumn}, d.CheckColumns...)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ANY($1)",
		strings.Join(cols, ", "), d.Table, d.KeyColumn)

	rows, err := e.DB.QueryContext(ctx, query, pq.Array(keys))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	existing := make(map[string]etl.Record)
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}
		rec := make(etl.Record, len(cols))
		for i, c := range cols {
			rec[c] = vals[i]
		}
		existing[etl.KeyString(rec[d.KeyColumn])] = rec
	}
	return existing, rows.Err()
}

// writeRows issues the multi-row statement for either partition. onConflict
// selects the update form; the insert form has no conflict clause so an
// unexpected collision surfaces as an integrity error instead of being
// silently absorbed.
func (e *Engine) writeRows(ctx context.Context, tx *sql.Tx, d Descriptor, batch []etl.Record, now time.Time, onConflict bool) error {
	cols := append(append([]string{}, d.Columns...), "updated_by", "updated_time")

	for start := 0; start < len(batch); start += insertChunk {
		end := start + insertChunk
		if end > len(batch) {
			end = len(batch)
		}
		chunk := batch[start:end]

		var sb strings.Builder
		fmt.Fprintf(&sb, "INSERT INTO %s (%s) VALUES ", d.Table, strings.Join(cols, ", "))

		args := make([]any, 0, len(chunk)*len(cols))
		for i, row := range chunk {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString("(")
			for j := range cols {
				if j > 0 {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "$%d", len(args)+j+1)
			}
			sb.WriteString(")")
			for _, c := range d.Columns {
				v := row[c]
				if etl.IsNull(v) {
					v = nil
				}
				args = append(args, v)
			}
			args = append(args, d.UpdatedBy, now)
		}

		if onConflict {
			fmt.Fprintf(&sb, " ON CONFLICT (%s) DO UPDATE SET ", d.KeyColumn)
			first := true
			for _, c := range cols {
				if c == d.KeyColumn {
					continue
				}
				if !first {
					sb.WriteString(", ")
				}
				fmt.Fprintf(&sb, "%s = EXCLUDED.%s", c, c)
				first = false
			}
		}

		if _, err := tx.ExecContext(ctx, sb.String(), args...); err != nil {
			return err
		}
	}
	return nil
}

// unchanged reports whether every checked column of the incoming row equals
// the persisted value, with absent values treated as equal to each other.
func unchanged(row, persisted etl.Record, checkColumns []string) bool {
	for _, c := range checkColumns {
		if etl.CompareString(row[c]) != etl.CompareString(persisted[c]) {
			return false
		}
	}
	return true
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}
