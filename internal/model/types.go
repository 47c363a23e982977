// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// EndMarker is the trace character appended when a session completes.
const EndMarker = "$$END$$"

// TraceEntry is one recorded keystroke.
type TraceEntry struct {
	Char   string
	TimeMs int64
}

// IsEnd reports whether the entry is the completion sentinel.
func (e TraceEntry) IsEnd() bool {
	return e.Char == EndMarker
}

// MetricSample is a once-per-second snapshot of a running count.
type MetricSample struct {
	Time  int
	Count int
}

// LifecycleState tracks the progress of a typing session.
type LifecycleState int

const (
	Idle LifecycleState = iota
	Typing
	Completed
)

func (s LifecycleState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Typing:
		return "typing"
	case Completed:
		return "completed"
	default:
		return fmt.Sprintf("LifecycleState(%d)", int(s))
	}
}

// FocusState governs whether keystrokes are accepted.
type FocusState int

const (
	Loading FocusState = iota
	NotFocused
	Focused
)

func (s FocusState) String() string {
	switch s {
	case Loading:
		return "loading"
	case NotFocused:
		return "not-focused"
	case Focused:
		return "focused"
	default:
		return fmt.Sprintf("FocusState(%d)", int(s))
	}
}

// Mode selects the practice flavour and its metric style.
type Mode int

const (
	// ModeWords is free typing measured over the keystroke trace.
	ModeWords Mode = iota
	// ModeLearn is finger practice measured from per-second samples.
	ModeLearn
	// ModeTime is free typing that ends when a countdown expires.
	ModeTime
)

func (m Mode) String() string {
	switch m {
	case ModeWords:
		return "words"
	case ModeLearn:
		return "learn"
	case ModeTime:
		return "time"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "words", "practice":
		return ModeWords, nil
	case "learn":
		return ModeLearn, nil
	case "time":
		return ModeTime, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	parsed, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Metrics is a single read of the live performance numbers.
type Metrics struct {
	CPM      int
	WPM      int
	Accuracy int
	Errors   int
	Correct  int
	Typed    int
	Elapsed  int
}

// SessionSummary captures a completed typing session.
type SessionSummary struct {
	ID          string    `json:"id" yaml:"id"`
	EndedAt     time.Time `json:"ended_at" yaml:"ended_at"`
	Mode        Mode      `json:"mode" yaml:"mode"`
	WPM         int       `json:"wpm" yaml:"wpm"`
	CPM         int       `json:"cpm" yaml:"cpm"`
	Accuracy    int       `json:"accuracy" yaml:"accuracy"`
	Errors      int       `json:"errors" yaml:"errors"`
	DurationSec int       `json:"duration_sec" yaml:"duration_sec"`
	Words       int       `json:"words" yaml:"words"`
	// Finger is the drilled finger of a ModeLearn session.
	Finger string `json:"finger,omitempty" yaml:"finger,omitempty"`
}

// Config defines practice settings.
type Config struct {
	Mode        Mode
	Lang        string
	Words       int
	MaxDuration int
	Countdown   int
	Finger      string
	Keys        string
}

// HistoryFilter narrows the sessions returned from the store.
type HistoryFilter struct {
	Since *time.Time
	Mode  *Mode
	Limit int
}
