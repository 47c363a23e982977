package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/keyrate/internal/config"
	"github.com/verte-zerg/keyrate/internal/model"
	"github.com/verte-zerg/keyrate/internal/stats"
	"github.com/verte-zerg/keyrate/internal/store"
)

const (
	defaultTrendWindow = 5
	defaultTrendWidth  = 60
)

var (
	historyRange  string
	historyMode   string
	historyLast   int
	historyYes    bool
	historyFormat string
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.PersistentFlags().StringVar(&historyRange, "range", string(stats.RangeAll), "time range (1day, 7days, 2weeks, 1month, all)")
	cmd.PersistentFlags().StringVar(&historyMode, "mode", "", "mode filter (words, learn)")
	cmd.Flags().IntVar(&historyLast, "last", 0, "limit to last N sessions")

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryClearCmd,
	}
	clearCmd.Flags().BoolVar(&historyYes, "yes", false, "confirm deletion")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export sessions as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE:  runHistoryExportCmd,
	}
	exportCmd.Flags().StringVar(&historyFormat, "format", "json", "output format (json, yaml)")

	cmd.AddCommand(clearCmd, exportCmd)
	return cmd
}

func parseHistoryFlags() (stats.Range, *model.Mode, error) {
	r, err := stats.ParseRange(historyRange)
	if err != nil {
		return "", nil, fmt.Errorf("invalid --range value: %w", err)
	}
	if historyMode == "" {
		return r, nil, nil
	}
	mode, err := model.ParseMode(historyMode)
	if err != nil {
		return "", nil, fmt.Errorf("invalid --mode value: %w", err)
	}
	return r, &mode, nil
}

func openStore() (*store.Store, func(), error) {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}, nil
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	r, mode, err := parseHistoryFlags()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	report, err := stats.BuildReport(context.Background(), st, r, mode, historyLast, time.Now())
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(out, report.Sessions, defaultTrendWindow, trendWidth(out)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTable(out, report.Sessions); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// trendWidth fits the sparkline to the terminal when writing to one.
func trendWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return defaultTrendWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= len("WPM trend: ") {
		return defaultTrendWidth
	}
	return width - len("WPM trend: ")
}

func runHistoryClearCmd(_ *cobra.Command, _ []string) error {
	if !historyYes {
		return fmt.Errorf("refusing to clear history without --yes")
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	if err := st.Clear(context.Background()); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	logErrln("History cleared")
	return nil
}

func runHistoryExportCmd(cmd *cobra.Command, _ []string) error {
	r, mode, err := parseHistoryFlags()
	if err != nil {
		return err
	}
	st, closeStore, err := openStore()
	if err != nil {
		return err
	}
	defer closeStore()

	filter := model.HistoryFilter{Since: r.Since(time.Now()), Mode: mode}
	sessions, err := st.ListSessions(context.Background(), filter)
	if err != nil {
		return fmt.Errorf("failed to load history: %w", err)
	}
	return writeExport(cmd.OutOrStdout(), historyFormat, sessions)
}

func writeExport(w io.Writer, format string, sessions []model.SessionSummary) error {
	if sessions == nil {
		sessions = []model.SessionSummary{}
	}
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(sessions); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(sessions); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown --format %q (available: json, yaml)", format)
	}
}
