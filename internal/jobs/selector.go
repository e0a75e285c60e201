// Package jobs decides which scheduled pipeline jobs are due and runs them.
package jobs

import (
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/asset-recon/internal/config"
)

var parser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// Match reports whether the cron expression fires in the minute containing
// now. Seconds are ignored so a run started anywhere inside the minute still
// counts as due.
func Match(expr string, now time.Time) (bool, error) {
	schedule, err := parser.Parse(expr)
	if err != nil {
		return false, err
	}
	minute := now.Truncate(time.Minute)
	return schedule.Next(minute.Add(-time.Second)).Equal(minute), nil
}

// Due filters the configured job list down to the jobs whose cron expression
// matches now. Invalid expressions are logged and skipped so one bad entry
// cannot block the rest of the schedule.
func Due(jobs []config.Job, now time.Time) []config.Job {
	var due []config.Job
	for _, j := range jobs {
		ok, err := Match(j.Cron, now)
		if err != nil {
			slog.Error("invalid cron expression, job skipped", "job", j.Name, "cron", j.Cron, "error", err)
			continue
		}
		if ok {
			due = append(due, j)
		}
	}
	return due
}
