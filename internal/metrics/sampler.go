package metrics

import (
	"unicode/utf8"

	"github.com/verte-zerg/keyrate/internal/model"
)

// Sampler keeps the per-second character, error and correct-count samples.
type Sampler struct {
	chars   []model.MetricSample
	errors  []model.MetricSample
	correct []model.MetricSample
}

// Record takes one sample of each series for the given stopwatch second.
// A series never gets two samples for the same second.
func (s *Sampler) Record(time int, typed, target string) {
	typedLen := utf8.RuneCountInString(typed)
	errs := CountErrors(typed, target)
	s.chars = appendSample(s.chars, time, typedLen)
	s.errors = appendSample(s.errors, time, errs)
	s.correct = appendSample(s.correct, time, typedLen-errs)
}

// Reset discards all samples.
func (s *Sampler) Reset() {
	s.chars = nil
	s.errors = nil
	s.correct = nil
}

// Chars returns a copy of the typed-character samples.
func (s *Sampler) Chars() []model.MetricSample { return cloneSamples(s.chars) }

// Errors returns a copy of the error samples.
func (s *Sampler) Errors() []model.MetricSample { return cloneSamples(s.errors) }

// Correct returns a copy of the correct-character samples.
func (s *Sampler) Correct() []model.MetricSample { return cloneSamples(s.correct) }

func appendSample(samples []model.MetricSample, time, count int) []model.MetricSample {
	if n := len(samples); n > 0 && samples[n-1].Time == time {
		return samples
	}
	return append(samples, model.MetricSample{Time: time, Count: count})
}

func cloneSamples(in []model.MetricSample) []model.MetricSample {
	out := make([]model.MetricSample, len(in))
	copy(out, in)
	return out
}
