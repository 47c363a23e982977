// Package main provides the CLI entrypoint for keyrate.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/keyrate/internal/config"
	"github.com/verte-zerg/keyrate/internal/generator"
	"github.com/verte-zerg/keyrate/internal/keys"
	"github.com/verte-zerg/keyrate/internal/model"
	"github.com/verte-zerg/keyrate/internal/session"
	"github.com/verte-zerg/keyrate/internal/stats"
	"github.com/verte-zerg/keyrate/internal/store"
	"github.com/verte-zerg/keyrate/internal/tui"
	"github.com/verte-zerg/keyrate/internal/wordlist"
)

const (
	defaultLang        = "en"
	defaultMode        = "words"
	defaultWords       = 25
	defaultLearnWords  = 15
	defaultFinger      = "index"
	defaultMaxDuration = session.DefaultMaxDuration
	defaultCountdown   = 15 * time.Second
)

var (
	logFile string

	practiceLang        string
	practiceMode        string
	practiceCountdown   time.Duration
	practiceWords       int
	practiceMaxDuration int
	practiceWordList    string

	learnFinger      string
	learnWords       int
	learnKeys        string
	learnMaxDuration int
	learnProgress    bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "keyrate",
		Short:         "Terminal typing trainer with live WPM",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "write debug logs to this file")
	rootCmd.Flags().StringVar(&practiceLang, "lang", defaultLang, "language code")
	rootCmd.Flags().StringVar(&practiceMode, "mode", defaultMode, "practice mode (words, time)")
	rootCmd.Flags().DurationVar(&practiceCountdown, "time", defaultCountdown, "session length in time mode")
	rootCmd.Flags().IntVar(&practiceWords, "words", defaultWords, "words per sentence")
	rootCmd.Flags().IntVar(&practiceMaxDuration, "max-duration", defaultMaxDuration, "stopwatch cap in seconds")
	rootCmd.Flags().StringVar(&practiceWordList, "wordlist", "", "word list file (default: per-language list)")

	rootCmd.AddCommand(newLearnCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLangsCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "lang", &practiceLang, fileCfg.Practice.Lang)
	applyStringConfig(cmd, "mode", &practiceMode, fileCfg.Practice.Mode)
	if err := applyDurationConfig(cmd, "time", &practiceCountdown, fileCfg.Practice.Countdown); err != nil {
		return err
	}
	applyIntConfig(cmd, "words", &practiceWords, fileCfg.Practice.Words)
	applyIntConfig(cmd, "max-duration", &practiceMaxDuration, fileCfg.Practice.MaxDuration)
	applyStringConfig(cmd, "wordlist", &practiceWordList, fileCfg.Practice.WordList)

	mode, err := parsePracticeMode(practiceMode)
	if err != nil {
		return err
	}
	cfg := model.Config{
		Mode:        mode,
		Lang:        practiceLang,
		Words:       practiceWords,
		MaxDuration: practiceMaxDuration,
	}
	if mode == model.ModeTime {
		cfg.Countdown = countdownSeconds(practiceCountdown)
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	wordPath := practiceWordList
	if wordPath == "" {
		wordPath = config.DefaultWordListPath(cfg.Lang)
	}
	words, source, err := wordlist.Resolve(wordPath, cfg.Lang)
	if err != nil {
		return wordListLoadError(cfg.Lang, wordPath, err)
	}

	return runTypingUI(tui.Options{
		Mode:        cfg.Mode,
		Words:       words,
		Count:       cfg.Words,
		MaxDuration: cfg.MaxDuration,
		Countdown:   cfg.Countdown,
	}, fileCfg.History, "source", source)
}

// parsePracticeMode accepts the modes the root command can run. Learn mode
// has its own command.
func parsePracticeMode(s string) (model.Mode, error) {
	mode, err := model.ParseMode(s)
	if err != nil || mode == model.ModeLearn {
		return 0, fmt.Errorf("--mode must be words or time, got %q", s)
	}
	return mode, nil
}

func countdownSeconds(d time.Duration) int {
	return int(d.Round(time.Second) / time.Second)
}

func newLearnCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "learn",
		Short: "Drill the keys of one finger",
		Args:  cobra.NoArgs,
		RunE:  runLearnCmd,
	}
	cmd.Flags().StringVar(&learnFinger, "finger", defaultFinger, "finger to drill (pinky, ring, middle, index)")
	cmd.Flags().IntVar(&learnWords, "words", defaultLearnWords, "words per sentence")
	cmd.Flags().StringVar(&learnKeys, "keys", "", "restrict to these keys of the finger")
	cmd.Flags().IntVar(&learnMaxDuration, "max-duration", defaultMaxDuration, "stopwatch cap in seconds")
	cmd.Flags().BoolVar(&learnProgress, "progress", false, "show per-finger progress and badges")
	return cmd
}

func runLearnCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "finger", &learnFinger, fileCfg.Learn.Finger)
	applyIntConfig(cmd, "words", &learnWords, fileCfg.Learn.Words)
	applyStringConfig(cmd, "keys", &learnKeys, fileCfg.Learn.Keys)
	applyIntConfig(cmd, "max-duration", &learnMaxDuration, learnMaxDurationConfig(fileCfg))

	if learnProgress {
		st, closeStore, err := openStore()
		if err != nil {
			return err
		}
		defer closeStore()
		return writeLearnProgress(cmd.Context(), cmd.OutOrStdout(), st)
	}

	cfg := model.Config{
		Words:       learnWords,
		MaxDuration: learnMaxDuration,
		Finger:      learnFinger,
		Keys:        learnKeys,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	drill, err := learnAlphabet(cfg)
	if err != nil {
		return err
	}

	finger, err := keys.ParseFinger(cfg.Finger)
	if err != nil {
		return err
	}

	return runTypingUI(tui.Options{
		Mode:        model.ModeLearn,
		Keys:        drill,
		Finger:      finger,
		Count:       cfg.Words,
		MaxDuration: cfg.MaxDuration,
	}, fileCfg.History, "finger", cfg.Finger)
}

// learnMaxDurationConfig prefers [learn] max-duration and falls back to the
// [practice] value.
func learnMaxDurationConfig(fileCfg config.FileConfig) *int {
	if fileCfg.Learn.MaxDuration != nil {
		return fileCfg.Learn.MaxDuration
	}
	return fileCfg.Practice.MaxDuration
}

type sessionLister interface {
	ListSessions(ctx context.Context, filter model.HistoryFilter) ([]model.SessionSummary, error)
}

func writeLearnProgress(ctx context.Context, w io.Writer, st sessionLister) error {
	mode := model.ModeLearn
	sessions, err := st.ListSessions(ctx, model.HistoryFilter{Mode: &mode})
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	if err := stats.RenderProgress(w, stats.LearnProgress(sessions)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func learnAlphabet(cfg model.Config) ([]rune, error) {
	finger, err := keys.ParseFinger(cfg.Finger)
	if err != nil {
		return nil, err
	}
	drill := keys.Restrict(finger, cfg.Keys)
	if len(drill) == 0 {
		return nil, fmt.Errorf("--keys %q has no keys typed by the %s finger (%s)", cfg.Keys, finger, string(keys.FingerKeys(finger)))
	}
	return drill, nil
}

func runTypingUI(opts tui.Options, histCfg config.HistoryConfig, logArgs ...any) error {
	logger, closeLog, err := openLogger(logFile)
	if err != nil {
		return err
	}
	defer closeLog()

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	if histCfg.MaxSessions != nil {
		st.SetMaxHistory(*histCfg.MaxSessions)
	}

	logger.Info("starting session", append([]any{"mode", opts.Mode.String()}, logArgs...)...)
	opts.History = st
	opts.Generator = generator.New()
	opts.Logger = logger

	m := tui.NewModel(opts)
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus())
	m.SetSender(program.Send)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// openLogger returns a debug logger writing to path, or a discarding logger
// when path is empty.
func openLogger(path string) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newLangsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "langs",
		Short: "List available word list languages",
		Args:  cobra.NoArgs,
		RunE:  runLangsCmd,
	}
}

func runLangsCmd(cmd *cobra.Command, _ []string) error {
	langs, err := listLangs(config.DefaultWordListDir())
	if err != nil {
		return err
	}
	for _, lang := range langs {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), lang); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

// listLangs returns the languages with a word list in dir. English is always
// available through the embedded list.
func listLangs(dir string) ([]string, error) {
	seen := map[string]struct{}{defaultLang: {}}
	entries, err := os.ReadDir(dir)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read wordlist directory: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".txt") {
			continue
		}
		seen[strings.TrimSuffix(name, ".txt")] = struct{}{}
	}
	langs := make([]string, 0, len(seen))
	for lang := range seen {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs, nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyDurationConfig(cmd *cobra.Command, name string, target *time.Duration, value *string) error {
	if value == nil || cmd.Flags().Changed(name) {
		return nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(*value))
	if err != nil {
		return fmt.Errorf("invalid config value for %s: %w", name, err)
	}
	*target = d
	return nil
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# keyrate configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# lang = %q            # Language code
# mode = %q         # words or time
# countdown = %q      # Session length in time mode
# words = %d             # Words per sentence
# max-duration = %d     # Stopwatch cap in seconds
# wordlist = ""           # Word list file (default: per-language list)

[learn]
# finger = %q       # pinky, ring, middle or index
# words = %d             # Words per drill sentence
# keys = ""               # Restrict the drill to these keys
# max-duration = %d     # Stopwatch cap in seconds (default: [practice] value)

[history]
# max-sessions = %d    # Sessions kept in history
`,
		defaultLang,
		defaultMode,
		defaultCountdown.String(),
		defaultWords,
		defaultMaxDuration,
		defaultFinger,
		defaultLearnWords,
		defaultMaxDuration,
		store.MaxHistorySessions,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.Words <= 0 {
		return fmt.Errorf("--words must be > 0")
	}
	if cfg.MaxDuration <= 0 {
		return fmt.Errorf("--max-duration must be > 0")
	}
	if cfg.Mode == model.ModeTime && cfg.Countdown <= 0 {
		return fmt.Errorf("--time must be at least 1s")
	}
	return nil
}

func wordListLoadError(lang, path string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load word list: %v", err),
		fmt.Sprintf("expected word list at: %s", path),
		fmt.Sprintf("language %q not found", lang),
		"Run: keyrate langs",
		fmt.Sprintf("Add one word per line to %s", path),
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
