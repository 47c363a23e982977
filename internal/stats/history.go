// Package stats contains history aggregates and reporting.
package stats

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/keyrate/internal/model"
)

// Range is a named history window.
type Range string

const (
	RangeDay     Range = "1day"
	RangeWeek    Range = "7days"
	RangeTwoWeek Range = "2weeks"
	RangeMonth   Range = "1month"
	RangeAll     Range = "all"
)

var rangeDays = map[Range]int{
	RangeDay:     1,
	RangeWeek:    7,
	RangeTwoWeek: 14,
	RangeMonth:   30,
	RangeAll:     0,
}

// ParseRange validates a range name. An empty name means RangeAll.
func ParseRange(s string) (Range, error) {
	r := Range(strings.ToLower(strings.TrimSpace(s)))
	if r == "" {
		return RangeAll, nil
	}
	if _, ok := rangeDays[r]; !ok {
		return "", fmt.Errorf("unknown range %q (available: 1day, 7days, 2weeks, 1month, all)", s)
	}
	return r, nil
}

// Since returns the cutoff for the range relative to now, or nil for all time.
func (r Range) Since(now time.Time) *time.Time {
	days := rangeDays[r]
	if days <= 0 {
		return nil
	}
	cutoff := now.Add(-time.Duration(days) * 24 * time.Hour)
	return &cutoff
}

// FilterByRange keeps sessions that ended within the range.
func FilterByRange(sessions []model.SessionSummary, r Range, now time.Time) []model.SessionSummary {
	cutoff := r.Since(now)
	if cutoff == nil {
		return sessions
	}
	return filterSince(sessions, *cutoff)
}

// TodaySessions keeps sessions that ended since local midnight.
func TodaySessions(sessions []model.SessionSummary, now time.Time) []model.SessionSummary {
	y, m, d := now.Date()
	return filterSince(sessions, time.Date(y, m, d, 0, 0, 0, 0, now.Location()))
}

func filterSince(sessions []model.SessionSummary, cutoff time.Time) []model.SessionSummary {
	out := make([]model.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		if !s.EndedAt.Before(cutoff) {
			out = append(out, s)
		}
	}
	return out
}

// AvgWPM is the rounded mean WPM.
func AvgWPM(sessions []model.SessionSummary) int {
	if len(sessions) == 0 {
		return 0
	}
	sum := 0
	for _, s := range sessions {
		sum += s.WPM
	}
	return int(math.Round(float64(sum) / float64(len(sessions))))
}

// AvgAccuracy is the rounded mean accuracy percentage.
func AvgAccuracy(sessions []model.SessionSummary) int {
	if len(sessions) == 0 {
		return 0
	}
	sum := 0
	for _, s := range sessions {
		sum += s.Accuracy
	}
	return int(math.Round(float64(sum) / float64(len(sessions))))
}

// TotalTime is the summed duration in seconds.
func TotalTime(sessions []model.SessionSummary) int {
	total := 0
	for _, s := range sessions {
		total += s.DurationSec
	}
	return total
}

// BestWPM is the highest WPM, or 0 without sessions.
func BestWPM(sessions []model.SessionSummary) int {
	best := 0
	for _, s := range sessions {
		if s.WPM > best {
			best = s.WPM
		}
	}
	return best
}

// Lifetime holds all-time and same-day bests.
type Lifetime struct {
	BestWPM    int
	TodaysBest int
}

// LifetimeStats computes the all-time and today's best WPM.
func LifetimeStats(sessions []model.SessionSummary, now time.Time) Lifetime {
	return Lifetime{
		BestWPM:    BestWPM(sessions),
		TodaysBest: BestWPM(TodaySessions(sessions, now)),
	}
}

// FormatDuration renders seconds as "2h 34m" or "45m".
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}
