package models

import "time"

// ImportRun is one audited pipeline run.
type ImportRun struct {
	ID         int       `json:"id"`
	Entity     string    `json:"entity"`
	SourceFile string    `json:"source_file,omitempty"`
	RowsRead   int       `json:"rows_read"`
	Inserted   int       `json:"inserted"`
	Updated    int       `json:"updated"`
	Skipped    int       `json:"skipped"`
	Excluded   int       `json:"excluded"`
	Status     string    `json:"status"` // ok, failed
	Error      string    `json:"error,omitempty"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}
