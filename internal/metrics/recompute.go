package metrics

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/keyrate/internal/model"
)

// Snapshot is everything the engine reads for one recomputation.
type Snapshot struct {
	Mode      model.Mode
	Typed     string
	Target    string
	Trace     []model.TraceEntry
	Chars     []model.MetricSample
	Errors    []model.MetricSample
	Stopwatch int
}

// Recompute derives the live metrics for a snapshot. Trace-window rates with
// word-aligned errors are used for ModeWords and ModeTime, per-second samples
// for ModeLearn.
func Recompute(s Snapshot) model.Metrics {
	typedLen := utf8.RuneCountInString(s.Typed)
	m := model.Metrics{Typed: typedLen, Elapsed: s.Stopwatch}
	switch s.Mode {
	case model.ModeLearn:
		m.CPM, m.WPM = SampleRate(s.Chars)
		if n := len(s.Errors); n > 0 {
			m.Errors = s.Errors[n-1].Count
		}
		m.Accuracy = Accuracy(typedLen, s.Errors)
	default:
		m.CPM, m.WPM = TraceRate(s.Trace)
		m.Errors = CountWordErrors(s.Typed, s.Target)
		m.Accuracy = AccuracyOf(typedLen, m.Errors)
	}
	m.Correct = typedLen - m.Errors
	if m.Correct < 0 {
		m.Correct = 0
	}
	return m
}

// Summarize builds the record of a completed session for history storage.
func Summarize(s Snapshot, endedAt time.Time) model.SessionSummary {
	m := Recompute(s)
	words := len(strings.Fields(s.Target))
	if s.Mode == model.ModeTime {
		words = len(strings.Fields(s.Typed))
	}
	return model.SessionSummary{
		EndedAt:     endedAt,
		Mode:        s.Mode,
		WPM:         m.WPM,
		CPM:         m.CPM,
		Accuracy:    m.Accuracy,
		Errors:      m.Errors,
		DurationSec: s.Stopwatch,
		Words:       words,
	}
}
