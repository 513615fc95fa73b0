package watcher

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule is the poll cadence: either a fixed interval or a cron expression.
//
// Supported forms:
//   - Go duration: "10m", "2h30m"
//   - Cron (five-field or descriptor): "*/10 * * * *", "@hourly", "@every 10m"
//   - "cron:" prefix to force cron parsing
type Schedule struct {
	Every time.Duration
	Cron  cron.Schedule
	Expr  string
}

var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

func ParseSchedule(raw string) (Schedule, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Schedule{}, fmt.Errorf("poll schedule required")
	}

	if strings.HasPrefix(strings.ToLower(s), "cron:") {
		expr := strings.TrimSpace(s[len("cron:"):])
		if expr == "" {
			return Schedule{}, fmt.Errorf("cron expression required after 'cron:'")
		}
		return parseCron(expr)
	}

	// Whitespace or a leading '@' can only be cron.
	if strings.ContainsAny(s, " \t") || strings.HasPrefix(s, "@") {
		return parseCron(s)
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return Schedule{}, fmt.Errorf(
			"invalid poll schedule %q (use a duration like '10m' or a cron expression like 'cron:*/10 * * * *')", raw)
	}
	if d <= 0 {
		return Schedule{}, fmt.Errorf("poll interval must be > 0")
	}
	return Schedule{Every: d}, nil
}

func parseCron(expr string) (Schedule, error) {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return Schedule{}, fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return Schedule{Cron: sched, Expr: expr}, nil
}

func (s Schedule) IsCron() bool { return s.Cron != nil }

// Next returns the next poll time after now.
func (s Schedule) Next(now time.Time) time.Time {
	if s.Cron != nil {
		return s.Cron.Next(now)
	}
	return now.Add(s.Every)
}

// Lookback is the window the first fetch should cover: the interval itself,
// or for cron schedules the gap between two consecutive fires.
func (s Schedule) Lookback(now time.Time) time.Duration {
	if s.Cron == nil {
		return s.Every
	}
	first := s.Cron.Next(now)
	second := s.Cron.Next(first)
	return second.Sub(first)
}

func (s Schedule) String() string {
	if s.Cron != nil {
		return "cron:" + s.Expr
	}
	return s.Every.String()
}
