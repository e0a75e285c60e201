package jobs

import (
	"testing"
	"time"

	"github.com/crucial707/asset-recon/internal/config"
)

func TestMatch(t *testing.T) {
	at := func(h, m int) time.Time {
		return time.Date(2024, 6, 10, h, m, 42, 0, time.UTC) // a Monday
	}
	cases := []struct {
		expr string
		now  time.Time
		want bool
	}{
		{"30 8 * * *", at(8, 30), true},
		{"30 8 * * *", at(8, 31), false},
		{"*/15 * * * *", at(9, 45), true},
		{"*/15 * * * *", at(9, 46), false},
		{"0 9 * * 1", at(9, 0), true},  // Monday
		{"0 9 * * 2", at(9, 0), false}, // Tuesday only
	}
	for _, c := range cases {
		got, err := Match(c.expr, c.now)
		if err != nil {
			t.Fatalf("Match(%q): %v", c.expr, err)
		}
		if got != c.want {
			t.Errorf("Match(%q, %v) = %t, want %t", c.expr, c.now, got, c.want)
		}
	}
}

func TestMatchIgnoresSeconds(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 30, 59, 999, time.UTC)
	ok, err := Match("30 8 * * *", now)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("a run started late in the minute is still due")
	}
}

func TestMatchInvalidExpression(t *testing.T) {
	if _, err := Match("not a cron", time.Now()); err == nil {
		t.Error("expected parse error")
	}
}

func TestDueSkipsInvalid(t *testing.T) {
	now := time.Date(2024, 6, 10, 8, 30, 0, 0, time.UTC)
	jobs := []config.Job{
		{Name: "good", Cron: "30 8 * * *"},
		{Name: "bad", Cron: "nope"},
		{Name: "later", Cron: "0 23 * * *"},
	}
	due := Due(jobs, now)
	if len(due) != 1 || due[0].Name != "good" {
		t.Errorf("due = %v, want [good]", due)
	}
}
