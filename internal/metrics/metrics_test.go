package metrics

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/verte-zerg/keyrate/internal/model"
)

func entries(times ...int64) []model.TraceEntry {
	out := make([]model.TraceEntry, len(times))
	for i, t := range times {
		out[i] = model.TraceEntry{Char: ".", TimeMs: t}
	}
	return out
}

func TestTraceRateExample(t *testing.T) {
	cpm, wpm := TraceRate(entries(0, 0, 0, 1000))
	assert.Equal(t, 180, cpm)
	assert.Equal(t, 36, wpm)
}

func TestTraceRateGuards(t *testing.T) {
	cases := []struct {
		name  string
		trace []model.TraceEntry
	}{
		{name: "empty", trace: nil},
		{name: "two entries", trace: entries(0, 5000)},
		{name: "short span", trace: entries(0, 50, 99)},
		{name: "sentinel does not count", trace: append(entries(0, 1000), model.TraceEntry{Char: model.EndMarker, TimeMs: 2000})},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cpm, wpm := TraceRate(tc.trace)
			assert.Zero(t, cpm)
			assert.Zero(t, wpm)
		})
	}
}

func TestTraceRateIgnoresSentinelTime(t *testing.T) {
	trace := append(entries(0, 500, 1000), model.TraceEntry{Char: model.EndMarker, TimeMs: 60000})
	cpm, wpm := TraceRate(trace)
	assert.Equal(t, 120, cpm)
	assert.Equal(t, 24, wpm)
}

func TestTraceRateCapped(t *testing.T) {
	times := make([]int64, 100)
	for i := range times {
		times[i] = int64(i * 2)
	}
	cpm, wpm := TraceRate(entries(times...))
	assert.Equal(t, MaxCPM, cpm)
	assert.Equal(t, MaxCPM/5, wpm)
}

func TestSampleRate(t *testing.T) {
	cpm, wpm := SampleRate(nil)
	assert.Zero(t, cpm)
	assert.Zero(t, wpm)

	cpm, wpm = SampleRate([]model.MetricSample{{Time: 0, Count: 3}})
	assert.Equal(t, 180, cpm)
	assert.Equal(t, 36, wpm)

	cpm, wpm = SampleRate([]model.MetricSample{{Time: 1, Count: 1}, {Time: 7, Count: 10}})
	assert.Equal(t, 86, cpm) // ceil(85.71)
	assert.Equal(t, 18, wpm) // ceil(17.2)

	cpm, wpm = SampleRate([]model.MetricSample{{Time: 4, Count: 0}})
	assert.Zero(t, cpm)
	assert.Zero(t, wpm)
}

func TestCountErrors(t *testing.T) {
	assert.Equal(t, 1, CountErrors("hxllo", "hello"))
	assert.Equal(t, 0, CountErrors("hel", "hello"))
	assert.Equal(t, 2, CountErrors("hello!!", "hello"))
	assert.Equal(t, 0, CountErrors("", "hello"))
	assert.Equal(t, 1, CountErrors("naïvx", "naïve"))
}

func TestCountWordErrors(t *testing.T) {
	assert.Equal(t, 1, CountWordErrors("abx cd", "ab cd"))
	assert.Equal(t, 4, CountErrors("abx cd", "ab cd"))
	assert.Equal(t, 0, CountWordErrors("a c", "ab cd"))
	assert.Equal(t, 2, CountWordErrors("ab cd ef", "ab cd"))
	assert.Equal(t, 0, CountWordErrors("", "ab cd"))
}

func TestRecomputeWordsModeAlignsWords(t *testing.T) {
	for _, mode := range []model.Mode{model.ModeWords, model.ModeTime} {
		m := Recompute(Snapshot{Mode: mode, Typed: "abx cd", Target: "ab cd"})
		assert.Equal(t, 1, m.Errors, mode.String())
		assert.Equal(t, 83, m.Accuracy, mode.String())
	}
}

func TestSummarizeTimeModeCountsTypedWords(t *testing.T) {
	sum := Summarize(Snapshot{Mode: model.ModeTime, Typed: "ab cd e", Target: "ab cd ef gh ij", Stopwatch: 15}, time.Unix(0, 0))
	assert.Equal(t, 3, sum.Words)
	assert.Equal(t, 15, sum.DurationSec)
	assert.Equal(t, model.ModeTime, sum.Mode)
}

func TestAccuracy(t *testing.T) {
	assert.Equal(t, 100, Accuracy(0, nil))
	assert.Equal(t, 100, Accuracy(5, nil))
	assert.Equal(t, 100, Accuracy(0, []model.MetricSample{{Time: 1, Count: 3}}))
	assert.Equal(t, 80, Accuracy(5, []model.MetricSample{{Time: 1, Count: 4}, {Time: 2, Count: 1}}))
	assert.Equal(t, 0, Accuracy(2, []model.MetricSample{{Time: 1, Count: 5}}))
	assert.Equal(t, 80, AccuracyOf(5, CountErrors("hxllo", "hello")))
	assert.Equal(t, 100, AccuracyOf(0, 0))
}

func TestSamplerDedupesSameTick(t *testing.T) {
	var s Sampler
	s.Record(1, "hx", "hello")
	s.Record(1, "hxl", "hello")
	s.Record(2, "hxll", "hello")

	assert.Equal(t, []model.MetricSample{{Time: 1, Count: 2}, {Time: 2, Count: 4}}, s.Chars())
	assert.Equal(t, []model.MetricSample{{Time: 1, Count: 1}, {Time: 2, Count: 1}}, s.Errors())
	assert.Equal(t, []model.MetricSample{{Time: 1, Count: 1}, {Time: 2, Count: 3}}, s.Correct())

	s.Reset()
	assert.Empty(t, s.Chars())
	assert.Empty(t, s.Errors())
	assert.Empty(t, s.Correct())
}

func TestRecomputeAtSessionStart(t *testing.T) {
	for _, mode := range []model.Mode{model.ModeWords, model.ModeLearn} {
		m := Recompute(Snapshot{Mode: mode, Target: "hello world"})
		assert.Equal(t, model.Metrics{Accuracy: 100}, m, mode.String())
	}
}

func TestRecomputeWordsMode(t *testing.T) {
	m := Recompute(Snapshot{
		Mode:      model.ModeWords,
		Typed:     "hxllo",
		Target:    "hello",
		Trace:     entries(0, 250, 500, 750, 1000),
		Stopwatch: 1,
	})
	assert.Equal(t, 240, m.CPM)
	assert.Equal(t, 48, m.WPM)
	assert.Equal(t, 1, m.Errors)
	assert.Equal(t, 4, m.Correct)
	assert.Equal(t, 80, m.Accuracy)
	assert.Equal(t, 5, m.Typed)
	assert.Equal(t, 1, m.Elapsed)
}

func TestRecomputeLearnMode(t *testing.T) {
	var s Sampler
	s.Record(1, "hx", "hello")
	s.Record(2, "hxllo", "hello")
	m := Recompute(Snapshot{
		Mode:      model.ModeLearn,
		Typed:     "hxllo",
		Target:    "hello",
		Chars:     s.Chars(),
		Errors:    s.Errors(),
		Stopwatch: 2,
	})
	assert.Equal(t, 150, m.CPM)
	assert.Equal(t, 30, m.WPM)
	assert.Equal(t, 80, m.Accuracy)
	assert.Equal(t, 1, m.Errors)
}

func TestSummarize(t *testing.T) {
	end := time.Unix(1700000000, 0)
	sum := Summarize(Snapshot{
		Mode:      model.ModeWords,
		Typed:     "ab cd",
		Target:    "ab cd",
		Trace:     entries(0, 1000, 2000),
		Stopwatch: 2,
	}, end)
	assert.Equal(t, end, sum.EndedAt)
	assert.Equal(t, 60, sum.CPM)
	assert.Equal(t, 12, sum.WPM)
	assert.Equal(t, 100, sum.Accuracy)
	assert.Equal(t, 2, sum.Words)
	assert.Equal(t, 2, sum.DurationSec)
}

func TestMetricsNeverNaN(t *testing.T) {
	m := Recompute(Snapshot{Mode: model.ModeLearn, Typed: "abc", Errors: []model.MetricSample{{Time: 0, Count: 0}}})
	assert.False(t, math.IsNaN(float64(m.Accuracy)))
	assert.GreaterOrEqual(t, m.CPM, 0)
}
