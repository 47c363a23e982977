// Package metrics derives live typing performance numbers.
package metrics

import (
	"math"
	"strings"

	"github.com/verte-zerg/keyrate/internal/model"
)

const (
	// MaxCPM caps trace-window CPM at a plausible human maximum.
	MaxCPM = 1200
	// MinTraceEntries is the fewest real entries needed for a trace rate.
	MinTraceEntries = 3
	// MinTraceDurationMs guards against spikes from near-zero spans.
	MinTraceDurationMs = 100
	// CharsPerWord is the conventional word length.
	CharsPerWord = 5
)

// TraceRate computes CPM and WPM over the keystroke trace. The completion
// sentinel is ignored. The first entry only starts the timing window.
func TraceRate(entries []model.TraceEntry) (cpm, wpm int) {
	first, last, n := -1, -1, 0
	for i, e := range entries {
		if e.IsEnd() {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		n++
	}
	if n < MinTraceEntries {
		return 0, 0
	}
	duration := entries[last].TimeMs - entries[first].TimeMs
	if duration < MinTraceDurationMs {
		return 0, 0
	}
	chars := float64(n - 1)
	cpm = int(math.Round(chars * 60000 / float64(duration)))
	if cpm > MaxCPM {
		cpm = MaxCPM
	}
	if cpm <= 0 {
		return 0, 0
	}
	return cpm, int(math.Round(float64(cpm) / CharsPerWord))
}

// SampleRate computes CPM and WPM from the latest character-count sample.
func SampleRate(chars []model.MetricSample) (cpm, wpm int) {
	if len(chars) == 0 {
		return 0, 0
	}
	latest := chars[len(chars)-1]
	elapsed := latest.Time
	if elapsed <= 0 {
		elapsed = 1
	}
	cpm = int(math.Ceil(float64(latest.Count) * 60 / float64(elapsed)))
	if cpm <= 0 {
		return 0, 0
	}
	return cpm, int(math.Ceil(float64(cpm) / CharsPerWord))
}

// CountErrors compares typed against target rune by rune up to the typed
// length. Runes typed past the end of the target count as errors.
func CountErrors(typed, target string) int {
	targetRunes := []rune(target)
	errors := 0
	i := 0
	for _, r := range typed {
		if i >= len(targetRunes) || r != targetRunes[i] {
			errors++
		}
		i++
	}
	return errors
}

// CountWordErrors aligns typed against target word by word, so one extra
// rune only costs its own word. Words typed past the end of the target count
// as errors in full.
func CountWordErrors(typed, target string) int {
	targetWords := strings.Split(target, " ")
	errors := 0
	for i, word := range strings.Split(typed, " ") {
		expected := ""
		if i < len(targetWords) {
			expected = targetWords[i]
		}
		errors += CountErrors(word, expected)
	}
	return errors
}

// Accuracy returns the percentage of typed runes that are correct according
// to the latest error sample. It is 100 before anything can be judged.
func Accuracy(typedLen int, errors []model.MetricSample) int {
	if typedLen <= 0 || len(errors) == 0 {
		return 100
	}
	latest := errors[len(errors)-1].Count
	pct := float64(typedLen-latest) / float64(typedLen) * 100
	return int(math.Round(clamp(pct, 0, 100)))
}

// AccuracyOf is Accuracy for an explicit error count.
func AccuracyOf(typedLen, errors int) int {
	if typedLen <= 0 {
		return 100
	}
	return Accuracy(typedLen, []model.MetricSample{{Count: errors}})
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
