// Package tui provides the Bubble Tea typing interface.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/keyrate/internal/clock"
	"github.com/verte-zerg/keyrate/internal/generator"
	"github.com/verte-zerg/keyrate/internal/keys"
	"github.com/verte-zerg/keyrate/internal/model"
	"github.com/verte-zerg/keyrate/internal/session"
	statsPkg "github.com/verte-zerg/keyrate/internal/stats"
)

const frameInterval = 16 * time.Millisecond

// Time mode needs more text than the countdown can consume.
const (
	timeModeMinWords       = 50
	timeModeWordsPerSecond = 3
)

// History is the session storage read for the footer and written on completion.
type History interface {
	InsertSession(ctx context.Context, sum model.SessionSummary) (string, error)
	ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionSummary, error)
}

// Options configures the typing model.
type Options struct {
	Mode model.Mode
	// Words is the pool for ModeWords.
	Words []string
	// Keys is the alphabet for ModeLearn.
	Keys []rune
	// Finger is recorded with ModeLearn sessions.
	Finger keys.Finger
	// Count is the number of words per sentence.
	Count       int
	MaxDuration int
	History     History
	Generator   *generator.Generator
	Clock       clock.Clock
	Logger      *slog.Logger
	// Countdown is the ModeTime session length in seconds.
	Countdown int
}

type frameMsg struct{}

// Model implements the Bubble Tea typing UI.
type Model struct {
	opts    Options
	session *session.Session
	sched   *programScheduler
	logger  *slog.Logger
	keys    keyMap
	help    help.Model

	width  int
	height int

	live     model.Metrics
	result   *model.SessionSummary
	saveErr  error
	lifetime statsPkg.Lifetime
	ninja    bool
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	missedStyle      = incorrectStyle.Underline(true)
	overtypeStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8071A"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle        = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 3)
)

// NewModel constructs a typing TUI model with its first sentence.
func NewModel(opts Options) *Model {
	if opts.Generator == nil {
		opts.Generator = generator.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	m := &Model{
		opts:   opts,
		sched:  newProgramScheduler(),
		logger: logger,
		keys:   defaultKeyMap(),
		help:   help.New(),
	}
	m.session = session.New(session.Options{
		Mode:        opts.Mode,
		Clock:       opts.Clock,
		Scheduler:   m.sched,
		MaxDuration: opts.MaxDuration,
		Countdown:   opts.Countdown,
		Logger:      logger,
		OnComplete:  m.finishSession,
	})
	m.loadLifetime()
	m.nextSentence()
	return m
}

// SetSender routes stopwatch ticks into the running program, usually
// program.Send.
func (m *Model) SetSender(send func(tea.Msg)) {
	m.sched.setSender(send)
}

// Session exposes the underlying session state.
func (m *Model) Session() *session.Session {
	return m.session
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.session.Mount()
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tea.FocusMsg:
		m.session.Focus()
		return m, nil
	case tea.BlurMsg:
		m.session.Blur()
		return m, nil
	case frameMsg:
		m.session.Frame()
		m.refresh()
		return m, nil
	case timerFiredMsg:
		m.sched.fire(msg.id)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	default:
		return m, nil
	}
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Next):
		m.nextSentence()
		return nil
	case key.Matches(msg, m.keys.Retry):
		m.session.Restart()
		m.result = nil
		m.refresh()
		return nil
	case key.Matches(msg, m.keys.Blur):
		m.session.Blur()
		return nil
	case key.Matches(msg, m.keys.Focus):
		m.session.Focus()
		return nil
	}

	latest := m.session.Latest()
	var candidate string
	switch msg.Type {
	case tea.KeyBackspace:
		if latest == "" {
			return nil
		}
		r := []rune(latest)
		candidate = string(r[:len(r)-1])
	case tea.KeySpace:
		if m.session.KeyDown(keys.Space) {
			return nil
		}
		candidate = latest + " "
	case tea.KeyRunes:
		if !msg.Paste && m.session.KeyDown(string(msg.Runes)) {
			return nil
		}
		candidate = latest + string(msg.Runes)
	default:
		return nil
	}
	if m.session.Input(candidate) == session.InputFrameRequested {
		return tea.Tick(frameInterval, func(time.Time) tea.Msg { return frameMsg{} })
	}
	return nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	if m.result != nil {
		content = m.renderResult()
	} else {
		accepting := m.session.State() != model.Completed && m.session.FocusState() == model.Focused
		styled := buildStyledRunes(m.session.Target(), m.session.Latest(), accepting)
		content = renderStyledRunes(styled)
		if m.width > 0 {
			contentWidth := max(int(float64(m.width)*0.70), 1)
			content = lipgloss.NewStyle().Width(contentWidth).Render(wrapStyledRunes(styled, contentWidth))
		}
	}
	footer := m.renderFooter()
	helpLine := m.help.View(m.keys)
	if m.width == 0 || m.height < 4 {
		return strings.Join([]string{content, footer, helpLine}, "\n")
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	helpRow := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, helpLine)
	return body + "\n" + footerLine + "\n" + helpRow
}

func (m *Model) renderFooter() string {
	segments := []string{m.focusHint()}
	segments = append(segments,
		fmt.Sprintf("%d WPM", m.live.WPM),
		fmt.Sprintf("%d CPM", m.live.CPM),
		fmt.Sprintf("%d%% acc", m.live.Accuracy),
		m.clockSegment(),
	)
	if m.lifetime.BestWPM > 0 {
		segments = append(segments, fmt.Sprintf("Best %d · today %d", m.lifetime.BestWPM, m.lifetime.TodaysBest))
	}
	out := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			out = append(out, s)
		}
	}
	return footerStyle.Render(strings.Join(out, "  "))
}

func (m *Model) clockSegment() string {
	if m.session.Countdown() > 0 {
		return formatClock(m.session.Remaining()) + " left"
	}
	return fmt.Sprintf("%s / %s", formatClock(m.session.Stopwatch()), formatClock(m.session.MaxDuration()))
}

func (m *Model) focusHint() string {
	switch m.session.FocusState() {
	case model.Loading:
		return "loading"
	case model.NotFocused:
		return "paused: press a key to focus"
	}
	if m.session.State() == model.Idle {
		return m.opts.Mode.String()
	}
	return ""
}

func (m *Model) renderResult() string {
	r := m.result
	lines := []string{
		currentWordStyle.Render("Session complete"),
		"",
		fmt.Sprintf("WPM       %d", r.WPM),
		fmt.Sprintf("CPM       %d", r.CPM),
		fmt.Sprintf("Accuracy  %d%%", r.Accuracy),
		fmt.Sprintf("Errors    %d", r.Errors),
		fmt.Sprintf("Time      %s", formatClock(r.DurationSec)),
	}
	if r.Mode == model.ModeLearn {
		lines = append(lines, m.badgeLines(r.WPM)...)
	}
	if m.saveErr != nil {
		lines = append(lines, "", incorrectStyle.Render("not saved: "+m.saveErr.Error()))
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}

func (m *Model) badgeLines(wpm int) []string {
	lines := []string{""}
	if b, ok := statsPkg.BadgeForWPM(wpm); ok {
		lines = append(lines, currentWordStyle.Render(fmt.Sprintf("Badge     %s (%s)", b.Name, b.Level)))
	} else {
		first := statsPkg.Badges[0]
		lines = append(lines, fmt.Sprintf("Badge     reach %d WPM for %s", first.MinWPM, first.Name))
	}
	if m.ninja {
		lines = append(lines, currentWordStyle.Render("All fingers completed: "+statsPkg.NinjaBadge))
	}
	return lines
}

func formatClock(seconds int) string {
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func (m *Model) refresh() {
	m.live = m.session.Metrics()
}

func (m *Model) nextSentence() {
	var text string
	switch m.opts.Mode {
	case model.ModeLearn:
		text = m.opts.Generator.Finger(m.opts.Keys, m.opts.Count)
	case model.ModeTime:
		count := max(m.opts.Count, timeModeMinWords, m.opts.Countdown*timeModeWordsPerSecond)
		text = m.opts.Generator.Words(m.opts.Words, count)
	default:
		text = m.opts.Generator.Words(m.opts.Words, m.opts.Count)
	}
	m.session.SetTarget(text)
	m.result = nil
	m.saveErr = nil
	m.refresh()
}

func (m *Model) finishSession(sum model.SessionSummary) {
	if m.opts.Mode == model.ModeLearn {
		sum.Finger = string(m.opts.Finger)
	}
	m.result = &sum
	m.saveErr = nil
	if m.opts.History == nil {
		return
	}
	id, err := m.opts.History.InsertSession(context.Background(), sum)
	if err != nil {
		m.saveErr = err
		m.logger.Error("failed to save session", "err", err)
		return
	}
	m.result.ID = id
	m.loadLifetime()
}

func (m *Model) loadLifetime() {
	if m.opts.History == nil {
		return
	}
	mode := m.opts.Mode
	sessions, err := m.opts.History.ListSessions(context.Background(), model.HistoryFilter{Mode: &mode})
	if err != nil {
		m.logger.Error("failed to load session history", "err", err)
		return
	}
	m.lifetime = statsPkg.LifetimeStats(sessions, time.Now())
	if mode == model.ModeLearn {
		m.ninja = statsPkg.HasNinjaBadge(statsPkg.LearnProgress(sessions))
	}
}
