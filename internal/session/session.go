// Package session runs the typing-session state machine.
//
// A Session is driven from a single goroutine: input, frame, focus and timer
// callbacks must never run concurrently. The renderer feeds raw input values
// through Input, commits them with Frame, and reads the results back.
package session

import (
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/verte-zerg/keyrate/internal/buffer"
	"github.com/verte-zerg/keyrate/internal/clock"
	"github.com/verte-zerg/keyrate/internal/keys"
	"github.com/verte-zerg/keyrate/internal/metrics"
	"github.com/verte-zerg/keyrate/internal/model"
	"github.com/verte-zerg/keyrate/internal/trace"
)

// DefaultMaxDuration caps the stopwatch, in seconds.
const DefaultMaxDuration = 600

const tickInterval = time.Second

// InputResult describes what happened to a raw input value.
type InputResult int

const (
	// InputRejected means the value was dropped and the buffer is unchanged.
	InputRejected InputResult = iota
	// InputQueued means the value replaced the one waiting for the pending frame.
	InputQueued
	// InputFrameRequested means the value is waiting and the caller must call
	// Frame at its next redraw.
	InputFrameRequested
	// InputFocusRequested means the value was dropped and the session took focus.
	InputFocusRequested
)

func (r InputResult) String() string {
	switch r {
	case InputRejected:
		return "rejected"
	case InputQueued:
		return "queued"
	case InputFrameRequested:
		return "frame-requested"
	case InputFocusRequested:
		return "focus-requested"
	default:
		return "unknown"
	}
}

// Options configures a Session.
type Options struct {
	Mode model.Mode
	// Clock stamps trace entries. Defaults to the wall clock.
	Clock clock.Clock
	// Scheduler runs stopwatch ticks. Without one the stopwatch stays at zero.
	Scheduler clock.Scheduler
	// MaxDuration caps the stopwatch in seconds. Defaults to DefaultMaxDuration.
	MaxDuration int
	// Countdown, in seconds, completes the session when it runs out after
	// typing starts. Zero disables it.
	Countdown int
	Logger    *slog.Logger
	// OnComplete receives the summary when the session completes.
	OnComplete func(model.SessionSummary)
}

// Session owns all state of one typing session.
type Session struct {
	mode        model.Mode
	clock       clock.Clock
	sched       clock.Scheduler
	maxDuration int
	countdown   int
	logger      *slog.Logger
	onComplete  func(model.SessionSummary)

	target      string
	targetWords []string

	pending buffer.Coalescer
	typed   string
	trace   *trace.Recorder
	sampler metrics.Sampler

	state     model.LifecycleState
	focus     model.FocusState
	stopwatch int
	timer     clock.Timer
	deadline  clock.Timer
	gen       uint64
	summary   *model.SessionSummary
}

// New returns an idle Session in the Loading focus state with no target.
func New(opts Options) *Session {
	c := opts.Clock
	if c == nil {
		c = clock.Real{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	maxDuration := opts.MaxDuration
	if maxDuration <= 0 {
		maxDuration = DefaultMaxDuration
	}
	countdown := max(opts.Countdown, 0)
	maxDuration = max(maxDuration, countdown)
	s := &Session{
		mode:        opts.Mode,
		clock:       c,
		sched:       opts.Scheduler,
		maxDuration: maxDuration,
		countdown:   countdown,
		logger:      logger.With("mode", opts.Mode.String()),
		onComplete:  opts.OnComplete,
		trace:       trace.NewRecorder(c),
	}
	s.SetTarget("")
	return s
}

// SetTarget assigns a new target sentence and resets the session.
func (s *Session) SetTarget(text string) {
	s.stopStopwatch()
	s.gen++
	s.target = text
	s.targetWords = buffer.Words(text)
	s.pending.Reset()
	s.typed = ""
	s.trace.Reset()
	s.sampler.Reset()
	s.stopwatch = 0
	s.state = model.Idle
	s.summary = nil
	s.logger.Debug("session reset", "target_words", s.wordCount())
}

// Restart resets the session keeping the current target.
func (s *Session) Restart() {
	s.SetTarget(s.target)
}

// Mount moves the focus state out of Loading.
func (s *Session) Mount() {
	if s.focus == model.Loading {
		s.focus = model.NotFocused
	}
}

// Focus gives the session keyboard focus.
func (s *Session) Focus() {
	if s.focus == model.NotFocused {
		s.focus = model.Focused
		s.logger.Debug("focused")
	}
}

// Blur removes keyboard focus.
func (s *Session) Blur() {
	if s.focus == model.Focused {
		s.focus = model.NotFocused
		s.logger.Debug("blurred")
	}
}

// KeyDown reacts to a raw key press while out of focus: a text key focuses
// the session. It reports whether focus was taken. The key itself is never
// treated as input.
func (s *Session) KeyDown(key string) bool {
	if s.focus != model.NotFocused || !keys.IsTextKey(key) {
		return false
	}
	s.Focus()
	return true
}

// Input offers a full candidate buffer value.
func (s *Session) Input(candidate string) InputResult {
	if s.state == model.Completed {
		return InputRejected
	}
	switch s.focus {
	case model.Focused:
	case model.NotFocused:
		s.Focus()
		return InputFocusRequested
	default:
		return InputRejected
	}
	if s.wordCount() == 0 {
		return InputRejected
	}
	shaped, ok := buffer.Shape(candidate, s.target)
	if !ok {
		return InputRejected
	}
	if s.pending.Propose(shaped) {
		return InputFrameRequested
	}
	return InputQueued
}

// Frame commits the pending input value. The trace and the lifecycle check
// both observe the committed value.
func (s *Session) Frame() {
	next, changed := s.pending.Flush(s.typed)
	if !changed {
		return
	}
	s.typed = next
	s.trace.Observe(next)
	s.advance()
}

func (s *Session) advance() {
	if s.state == model.Completed {
		return
	}
	if s.matchesTarget() {
		s.complete()
		return
	}
	if s.typed != "" && s.state == model.Idle {
		s.state = model.Typing
		s.logger.Debug("typing started")
		s.startStopwatch()
		s.startCountdown()
	}
}

// matchesTarget reports whether the typed words line up with the target:
// same word count and same last-word length.
func (s *Session) matchesTarget() bool {
	if s.typed == "" || s.wordCount() == 0 {
		return false
	}
	typedWords := buffer.Words(s.typed)
	if len(typedWords) != len(s.targetWords) {
		return false
	}
	lastTyped := typedWords[len(typedWords)-1]
	lastTarget := s.targetWords[len(s.targetWords)-1]
	return utf8.RuneCountInString(lastTyped) == utf8.RuneCountInString(lastTarget)
}

func (s *Session) complete() {
	s.state = model.Completed
	s.stopStopwatch()
	s.gen++
	s.trace.Finish()
	summary := metrics.Summarize(s.snapshot(), s.clock.Now())
	s.summary = &summary
	s.logger.Info("session completed",
		"wpm", summary.WPM,
		"cpm", summary.CPM,
		"accuracy", summary.Accuracy,
		"errors", summary.Errors,
		"duration_sec", summary.DurationSec,
	)
	if s.onComplete != nil {
		s.onComplete(summary)
	}
}

func (s *Session) startStopwatch() {
	if s.sched == nil || s.stopwatch >= s.maxDuration {
		return
	}
	gen := s.gen
	s.timer = s.sched.AfterFunc(tickInterval, func() { s.tick(gen) })
}

func (s *Session) stopStopwatch() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.deadline != nil {
		s.deadline.Stop()
		s.deadline = nil
	}
}

func (s *Session) startCountdown() {
	if s.sched == nil || s.countdown <= 0 {
		return
	}
	gen := s.gen
	s.deadline = s.sched.AfterFunc(time.Duration(s.countdown)*time.Second, func() { s.expire(gen) })
}

// expire completes a countdown session. Deadlines armed before a reset or
// completion are ignored the same way stale ticks are.
func (s *Session) expire(gen uint64) {
	if gen != s.gen || s.state != model.Typing {
		return
	}
	s.deadline = nil
	s.Frame()
	if s.state != model.Typing {
		return
	}
	s.stopwatch = s.countdown
	s.sampler.Record(s.stopwatch, s.typed, s.target)
	s.logger.Debug("countdown expired", "seconds", s.countdown)
	s.complete()
}

// tick advances the stopwatch. Ticks armed before a reset or completion carry
// an old generation and are ignored even if they were already in flight.
func (s *Session) tick(gen uint64) {
	if gen != s.gen || s.state != model.Typing {
		return
	}
	s.timer = nil
	s.Frame()
	if s.state != model.Typing {
		return
	}
	s.stopwatch++
	s.sampler.Record(s.stopwatch, s.typed, s.target)
	if s.stopwatch >= s.maxDuration {
		s.logger.Debug("stopwatch capped", "seconds", s.stopwatch)
		return
	}
	s.startStopwatch()
}

// Metrics commits any pending input and recomputes the live metrics.
func (s *Session) Metrics() model.Metrics {
	s.Frame()
	return metrics.Recompute(s.snapshot())
}

func (s *Session) snapshot() metrics.Snapshot {
	return metrics.Snapshot{
		Mode:      s.mode,
		Typed:     s.typed,
		Target:    s.target,
		Trace:     s.trace.Entries(),
		Chars:     s.sampler.Chars(),
		Errors:    s.sampler.Errors(),
		Stopwatch: s.stopwatch,
	}
}

func (s *Session) wordCount() int {
	if strings.TrimSpace(s.target) == "" {
		return 0
	}
	return len(s.targetWords)
}

// Mode returns the practice mode.
func (s *Session) Mode() model.Mode { return s.mode }

// Target returns the current target sentence.
func (s *Session) Target() string { return s.target }

// Typed returns the committed buffer value.
func (s *Session) Typed() string { return s.typed }

// Latest returns the value the next input should build on: the pending value
// when a frame is outstanding, otherwise the committed one.
func (s *Session) Latest() string {
	if v, ok := s.pending.Pending(); ok {
		return v
	}
	return s.typed
}

// State returns the lifecycle state.
func (s *Session) State() model.LifecycleState { return s.state }

// FocusState returns the focus state.
func (s *Session) FocusState() model.FocusState { return s.focus }

// Stopwatch returns elapsed whole seconds of typing.
func (s *Session) Stopwatch() int { return s.stopwatch }

// MaxDuration returns the stopwatch cap in seconds.
func (s *Session) MaxDuration() int { return s.maxDuration }

// Countdown returns the countdown length in seconds, or 0 without one.
func (s *Session) Countdown() int { return s.countdown }

// Remaining returns the seconds left on the countdown.
func (s *Session) Remaining() int { return max(s.countdown-s.stopwatch, 0) }

// Trace returns a copy of the keystroke trace.
func (s *Session) Trace() []model.TraceEntry { return s.trace.Entries() }

// Samples returns copies of the character, error and correct sample series.
func (s *Session) Samples() (chars, errors, correct []model.MetricSample) {
	return s.sampler.Chars(), s.sampler.Errors(), s.sampler.Correct()
}

// Summary returns the completed-session record once the session is completed.
func (s *Session) Summary() (model.SessionSummary, bool) {
	if s.summary == nil {
		return model.SessionSummary{}, false
	}
	return *s.summary, true
}
