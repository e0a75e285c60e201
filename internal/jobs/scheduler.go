package jobs

import (
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/crucial707/asset-recon/internal/config"
)

// Runner executes one named pipeline job.
type Runner func(name string) error

// Run starts a long lived scheduler that registers every configured job with
// its cron expression and blocks forever. Job times are evaluated in the
// reporting timezone so "08:30" means 08:30 local to the reports.
func Run(cfg config.Config, run Runner) {
	c := cron.New(cron.WithLocation(cfg.Location()))

	for _, j := range cfg.Jobs {
		name := j.Name
		expr := j.Cron
		_, err := c.AddFunc(expr, func() {
			slog.Info("scheduled job starting", "job", name)
			if err := run(name); err != nil {
				slog.Error("scheduled job failed", "job", name, "error", err)
				return
			}
			slog.Info("scheduled job finished", "job", name)
		})
		if err != nil {
			slog.Error("invalid cron expression, job not scheduled", "job", name, "cron", expr, "error", err)
			continue
		}
		slog.Info("job scheduled", "job", name, "cron", expr)
	}

	c.Start()
	select {}
}
