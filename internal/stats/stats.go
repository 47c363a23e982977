package stats

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/verte-zerg/keyrate/internal/model"
)

const sparkChars = " .:-=+*#%@"

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	out := make([]float64, len(values))
	if window <= 1 {
		copy(out, values)
		return out
	}
	var sum float64
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}
		out[i] = sum / float64(min(i+1, window))
	}
	return out
}

// Sparkline renders values as a single ASCII line no wider than width.
// A width <= 0 keeps one character per value.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 {
		return ""
	}
	if width > 0 && len(values) > width {
		values = values[len(values)-width:]
	}
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if hi-lo < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	top := float64(len(sparkChars) - 1)
	for _, v := range values {
		idx := int(math.Round((v - lo) / (hi - lo) * top))
		b.WriteByte(sparkChars[max(0, min(idx, len(sparkChars)-1))])
	}
	return b.String()
}

// RenderSummary prints aggregate figures for a report.
func RenderSummary(w io.Writer, r Report) error {
	if len(r.Sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	lines := []string{
		fmt.Sprintf("Summary (%s)", r.Range),
		fmt.Sprintf("Sessions: %d", len(r.Sessions)),
		fmt.Sprintf("Avg WPM: %d", AvgWPM(r.Sessions)),
		fmt.Sprintf("Avg Accuracy: %d%%", AvgAccuracy(r.Sessions)),
		fmt.Sprintf("Time typing: %s", FormatDuration(TotalTime(r.Sessions))),
		fmt.Sprintf("Best WPM: %d (today %d)", r.Lifetime.BestWPM, r.Lifetime.TodaysBest),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrend prints a WPM sparkline, oldest session first.
func RenderTrend(w io.Writer, sessions []model.SessionSummary, window, width int) error {
	if len(sessions) < 2 {
		return nil
	}
	wpms := make([]float64, len(sessions))
	for i, s := range sessions {
		wpms[len(sessions)-1-i] = float64(s.WPM)
	}
	line := Sparkline(MovingAverage(wpms, window), width)
	if _, err := fmt.Fprintf(w, "WPM trend: %s\n\n", line); err != nil {
		return err
	}
	return nil
}

// RenderTable prints one row per session.
func RenderTable(w io.Writer, sessions []model.SessionSummary) error {
	if len(sessions) == 0 {
		return nil
	}
	headers := []string{"Ended", "Mode", "WPM", "CPM", "Accuracy", "Errors", "Duration"}
	rows := make([][]string, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, []string{
			s.EndedAt.Local().Format("2006-01-02 15:04"),
			s.Mode.String(),
			fmt.Sprintf("%d", s.WPM),
			fmt.Sprintf("%d", s.CPM),
			fmt.Sprintf("%d%%", s.Accuracy),
			fmt.Sprintf("%d", s.Errors),
			fmt.Sprintf("%ds", s.DurationSec),
		})
	}
	rightAlign := map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
