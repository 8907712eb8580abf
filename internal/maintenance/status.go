// Package maintenance derives the due-state of equipment from its last
// maintenance date and a free-text interval. It is pure: callers pass the
// clock, so list and detail reads are always fresh and tests are deterministic.
package maintenance

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Status buckets.
const (
	StatusGood    = "good"
	StatusDue     = "due"
	StatusOverdue = "overdue"
)

// DefaultDueSoonWindow is the lookahead within which equipment counts as "due".
const DefaultDueSoonWindow = 7 * 24 * time.Hour

// Result is the derived maintenance state. NextMaintenance is nil when it
// cannot be computed (no interval). DaysUntil is signed: negative once overdue.
type Result struct {
	Status          string     `json:"maintenance_status"`
	NextMaintenance *time.Time `json:"next_maintenance,omitempty"`
	DaysUntil       *int       `json:"days_until,omitempty"`
}

var intervalRe = regexp.MustCompile(`(?i)^\s*(\d+)\s*(day|days|week|weeks|month|months|year|years)\s*$`)

// ParseInterval understands free-text intervals like "6 months", "2 weeks",
// "1 year". The second return is false when the text is absent or unparseable.
func ParseInterval(s string) (n int, unit string, ok bool) {
	m := intervalRe.FindStringSubmatch(s)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	unit = strings.TrimSuffix(strings.ToLower(m[2]), "s")
	return n, unit, true
}

func addInterval(t time.Time, n int, unit string) time.Time {
	switch unit {
	case "day":
		return t.AddDate(0, 0, n)
	case "week":
		return t.AddDate(0, 0, n*7)
	case "month":
		return t.AddDate(0, n, 0)
	case "year":
		return t.AddDate(n, 0, 0)
	}
	return t
}

// Derive computes the maintenance bucket.
//
// Policy choices (deliberate, covered by tests):
//   - missing or unparseable interval: no next date can be derived, the
//     equipment lands in "good" with no daysUntil;
//   - missing last-maintenance date with a valid interval: the equipment is
//     treated as due immediately, i.e. "overdue" with no next date.
func Derive(lastMaintenance *time.Time, interval string, now time.Time, dueSoonWindow time.Duration) Result {
	n, unit, ok := ParseInterval(interval)
	if !ok {
		return Result{Status: StatusGood}
	}

	if lastMaintenance == nil {
		return Result{Status: StatusOverdue}
	}

	next := addInterval(*lastMaintenance, n, unit)
	days := daysBetween(now, next)

	res := Result{NextMaintenance: &next, DaysUntil: &days}
	switch {
	case now.After(next):
		res.Status = StatusOverdue
	case next.Sub(now) <= dueSoonWindow:
		res.Status = StatusDue
	default:
		res.Status = StatusGood
	}
	return res
}

// daysBetween counts whole calendar days from `from` to `to`, signed.
func daysBetween(from, to time.Time) int {
	fromDay := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	toDay := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(toDay.Sub(fromDay).Hours() / 24)
}
