// Package trace records timestamped keystrokes for a session.
package trace

import (
	"github.com/verte-zerg/keyrate/internal/clock"
	"github.com/verte-zerg/keyrate/internal/model"
)

// Recorder is an append-only keystroke log for the current session.
type Recorder struct {
	clock   clock.Clock
	entries []model.TraceEntry
}

// NewRecorder returns an empty Recorder stamping entries with c.
func NewRecorder(c clock.Clock) *Recorder {
	return &Recorder{clock: c}
}

// Observe records the trailing character of a newly committed buffer.
// Consecutive spaces are recorded once.
func (r *Recorder) Observe(buffer string) {
	char := ""
	if buffer != "" {
		runes := []rune(buffer)
		char = string(runes[len(runes)-1])
	}
	if n := len(r.entries); n > 0 && char == " " && r.entries[n-1].Char == " " {
		return
	}
	r.append(char)
}

// Finish appends the completion sentinel.
func (r *Recorder) Finish() {
	r.append(model.EndMarker)
}

// Reset empties the trace.
func (r *Recorder) Reset() {
	r.entries = nil
}

// Len returns the number of recorded entries, sentinel included.
func (r *Recorder) Len() int {
	return len(r.entries)
}

// Entries returns a copy of the trace.
func (r *Recorder) Entries() []model.TraceEntry {
	out := make([]model.TraceEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

func (r *Recorder) append(char string) {
	r.entries = append(r.entries, model.TraceEntry{
		Char:   char,
		TimeMs: r.clock.Now().UnixMilli(),
	})
}
