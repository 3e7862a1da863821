// Package main provides the CLI entrypoint for runboard.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/runboard/internal/config"
	"github.com/verte-zerg/runboard/internal/dashboard"
	"github.com/verte-zerg/runboard/internal/logging"
	"github.com/verte-zerg/runboard/internal/model"
	"github.com/verte-zerg/runboard/internal/selection"
	"github.com/verte-zerg/runboard/internal/stats"
	"github.com/verte-zerg/runboard/internal/store"
	"github.com/verte-zerg/runboard/internal/view"
)

const defaultHistoryLimit = 20

var (
	configPath string
	logLevel   string

	dashRunner     string
	dashSmooth     int
	dashPlotHeight int
	dashColor      bool
	dashHistory    bool
	dashMaxBytes   int64

	summaryFormat string
	summaryWidth  int

	historyLimit int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logErrln(err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "runboard [file.csv]",
		Short:         "Terminal dashboard for running logs",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runDashboardCmd,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/runboard/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	addDashboardFlags(rootCmd)

	rootCmd.AddCommand(newSummaryCmd())
	rootCmd.AddCommand(newRunnersCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newConfigCmd())
	return rootCmd
}

func addDashboardFlags(cmd *cobra.Command) {
	defaults := config.Defaults()
	cmd.Flags().StringVar(&dashRunner, "runner", string(defaults.Runner), "runner to select, or 'all'")
	cmd.Flags().IntVar(&dashSmooth, "smooth", defaults.Smooth, "moving average window for the timeline")
	cmd.Flags().IntVar(&dashPlotHeight, "plot-height", defaults.PlotHeight, "timeline plot height in rows")
	cmd.Flags().BoolVar(&dashColor, "color", defaults.Color, "colorize the timeline plot")
	cmd.Flags().BoolVar(&dashHistory, "history", defaults.History, "record loads in the history database")
	cmd.Flags().Int64Var(&dashMaxBytes, "max-bytes", defaults.MaxBytes, "largest CSV file accepted")
}

// loadSettings resolves the config file over the defaults, then applies the
// flags set on the command line.
func loadSettings(cmd *cobra.Command) (model.DashboardConfig, config.LogConfig, error) {
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	fileCfg, err := config.LoadConfig(path)
	if err != nil {
		return model.DashboardConfig{}, config.LogConfig{}, fmt.Errorf("failed to load config: %w", err)
	}
	cfg := fileCfg.Dashboard.Resolve(config.Defaults())
	applyDashboardFlags(cmd, &cfg)
	if err := config.Check(cfg); err != nil {
		return model.DashboardConfig{}, config.LogConfig{}, fmt.Errorf("invalid settings: %w", err)
	}
	applyStringConfig(cmd, "log-level", &logLevel, fileCfg.Log.Level)
	logCfg := fileCfg.Log
	logCfg.Level = &logLevel
	return cfg, logCfg, nil
}

func applyDashboardFlags(cmd *cobra.Command, cfg *model.DashboardConfig) {
	if flagChanged(cmd, "runner") {
		cfg.Runner = model.Selection(dashRunner).Normalize()
	}
	if flagChanged(cmd, "smooth") {
		cfg.Smooth = dashSmooth
	}
	if flagChanged(cmd, "plot-height") {
		cfg.PlotHeight = dashPlotHeight
	}
	if flagChanged(cmd, "color") {
		cfg.Color = dashColor
	}
	if flagChanged(cmd, "history") {
		cfg.History = dashHistory
	}
	if flagChanged(cmd, "max-bytes") {
		cfg.MaxBytes = dashMaxBytes
	}
}

func runDashboardCmd(cmd *cobra.Command, args []string) error {
	cfg, logCfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.OpenFile(logCfg.FilePath(), logCfg.LevelName())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeLog(); cerr != nil {
			logErrf("failed to close log: %v\n", cerr)
		}
	}()

	st := openHistory(cfg, logger)
	if st != nil {
		defer closeHistory(st, logger)
	}

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	logger.Info("dashboard started", "path", path, "runner", cfg.Runner)
	m := dashboard.NewModel(dashboard.Options{Config: cfg, Store: st, Logger: logger, Path: path})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run dashboard: %w", err)
	}
	return nil
}

func newSummaryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary <file.csv>",
		Short: "Print statistics, timeline and runner totals for a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  runSummaryCmd,
	}
	addDashboardFlags(cmd)
	cmd.Flags().StringVar(&summaryFormat, "format", string(view.FormatText), "output format (text, json, yaml)")
	cmd.Flags().IntVar(&summaryWidth, "width", 0, "output width (default: terminal width)")
	return cmd
}

func runSummaryCmd(cmd *cobra.Command, args []string) error {
	format, err := view.ParseFormat(summaryFormat)
	if err != nil {
		return err
	}
	state, cfg, err := loadState(cmd, args[0])
	if err != nil {
		return err
	}
	state.Select(cfg.Runner)
	if state.Selection != cfg.Runner {
		if _, err := fmt.Fprintf(cmd.ErrOrStderr(), "runner %q not found; showing all runners\n", cfg.Runner); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	width := summaryWidth
	if width <= 0 {
		width = outputWidth(cmd.OutOrStdout())
	}
	opts := view.RenderOptions{
		Smooth: cfg.Smooth,
		Width:  width,
		Height: cfg.PlotHeight,
		Color:  cfg.Color && isTerminal(cmd.OutOrStdout()),
	}
	return view.Encode(cmd.OutOrStdout(), view.Build(state), format, opts)
}

func newRunnersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runners <file.csv>",
		Short: "List the runner selections available in a CSV file",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunnersCmd,
	}
	addDashboardFlags(cmd)
	return cmd
}

func runRunnersCmd(cmd *cobra.Command, args []string) error {
	state, _, err := loadState(cmd, args[0])
	if err != nil {
		return err
	}
	totals := stats.GroupByPerson(state.Dataset)
	all := stats.Summarize(state.Dataset).Total
	for _, opt := range selection.Options(state.Dataset) {
		miles := all
		if !opt.IsAll() {
			miles = lookupMiles(totals, string(opt))
		}
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "%s\t%.2f\n", opt, miles); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func lookupMiles(series model.GroupedSeries, key string) float64 {
	for _, p := range series {
		if p.Key == key {
			return p.Miles
		}
	}
	return 0
}

// loadState parses path into a fresh state, logging to stderr and recording
// the attempt in history.
func loadState(cmd *cobra.Command, path string) (*view.State, model.DashboardConfig, error) {
	cfg, logCfg, err := loadSettings(cmd)
	if err != nil {
		return nil, model.DashboardConfig{}, err
	}
	logger, err := logging.New(cmd.ErrOrStderr(), logCfg.LevelName())
	if err != nil {
		return nil, model.DashboardConfig{}, err
	}
	state := view.NewState(cfg.MaxBytes)
	loadErr := state.Load(cmd.Context(), path)
	logging.LoadResult(logger, path, len(state.Dataset), loadErr)

	if st := openHistory(cfg, logger); st != nil {
		recordLoad(cmd.Context(), st, state, path, loadErr, logger)
		closeHistory(st, logger)
	}
	if loadErr != nil {
		return nil, model.DashboardConfig{}, loadErr
	}
	return state, cfg, nil
}

func recordLoad(ctx context.Context, st *store.Store, state *view.State, path string, loadErr error, logger *log.Logger) {
	rec := model.LoadRecord{Path: path}
	if abs, err := filepath.Abs(path); err == nil {
		rec.Path = abs
	}
	if loadErr != nil {
		rec.Error = loadErr.Error()
	} else {
		rec.Rows = len(state.Dataset)
		rec.Runners = len(selection.DistinctPersons(state.Dataset))
		rec.TotalMiles = stats.Summarize(state.Dataset).Total
	}
	if _, err := st.InsertLoad(ctx, rec); err != nil {
		logger.Warn("failed to record load", "path", path, "err", err)
	}
}

func openHistory(cfg model.DashboardConfig, logger *log.Logger) *store.Store {
	if !cfg.History {
		return nil
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		logger.Warn("history disabled", "err", err)
		return nil
	}
	return st
}

func closeHistory(st *store.Store, logger *log.Logger) {
	if err := st.Close(); err != nil {
		logger.Warn("failed to close history", "err", err)
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently loaded files",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLimit, "number of loads to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLimit <= 0 {
		return fmt.Errorf("--limit must be > 0")
	}
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()
	loads, err := st.ListLoads(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}
	out := cmd.OutOrStdout()
	if len(loads) == 0 {
		_, err := fmt.Fprintln(out, "No files loaded yet.")
		return err
	}
	for _, rec := range loads {
		when := rec.LoadedAt.Local().Format("2006-01-02 15:04")
		var line string
		if rec.OK() {
			line = fmt.Sprintf("%s  ok   %s  %d runs  %d runners  %.2f mi", when, rec.Path, rec.Rows, rec.Runners, rec.TotalMiles)
		} else {
			line = fmt.Sprintf("%s  err  %s  %s", when, rec.Path, rec.Error)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
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
	path := configPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if err := ensureConfigFile(path); err != nil {
		return err
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func ensureConfigFile(path string) error {
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
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil || flagChanged(cmd, name) {
		return
	}
	*target = *value
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flags().Lookup(name)
	return flag != nil && flag.Changed
}

func defaultConfigTemplate() string {
	defaults := config.Defaults()
	return fmt.Sprintf(`# runboard configuration
# Uncomment a value to enable it. CLI flags override config values.

[dashboard]
# runner = %q            # Runner selected after the first load
# smooth = %d                # Moving average window for the timeline
# plot-height = %d          # Timeline plot height in rows
# color = %t              # Colorize the timeline plot
# history = %t            # Record loaded file paths and outcomes
# max-bytes = %d    # Largest CSV file accepted

[log]
# level = %q           # debug, info, warn, error
# file = %q
`,
		string(defaults.Runner),
		defaults.Smooth,
		defaults.PlotHeight,
		defaults.Color,
		defaults.History,
		defaults.MaxBytes,
		config.DefaultLogLevel,
		config.DefaultLogPath(),
	)
}

func outputWidth(w io.Writer) int {
	if f, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(f.Fd())); err == nil && width > 0 {
			return width
		}
	}
	return 80
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
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
