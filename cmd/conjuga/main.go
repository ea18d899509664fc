// Package main provides the CLI entrypoint for conjuga.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/verte-zerg/conjuga/internal/config"
	"github.com/verte-zerg/conjuga/internal/model"
	"github.com/verte-zerg/conjuga/internal/server"
	"github.com/verte-zerg/conjuga/internal/stats"
	"github.com/verte-zerg/conjuga/internal/statsui"
	"github.com/verte-zerg/conjuga/internal/tui"
)

const (
	defaultTimeout      = 10
	defaultBackend      = "sqlite"
	defaultPollInterval = 500
	defaultLogLevel     = "info"
	defaultAddr         = ":8000"
	defaultCurveWindow  = 20
	defaultChartsWidth  = 100
)

var (
	opts options

	chartsPlain bool

	settingsPrint bool

	statsTense       string
	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsPlain       bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "conjuga",
		Short:         "Spanish verb conjugation trainer",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runApp(cmd, tui.ViewQuiz)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.apiURL, "api-url", "", "verb-data service base URL (empty uses the built-in catalog)")
	flags.IntVar(&opts.timeout, "timeout", defaultTimeout, "verb-data request timeout in seconds")
	flags.StringVar(&opts.verbsPath, "verbs", "", "infinitive list for the built-in catalog (one verb per line)")
	flags.StringVar(&opts.backend, "settings-backend", defaultBackend, "settings backend: sqlite or redis")
	flags.StringVar(&opts.redisURL, "redis-url", "", "redis URL for the redis settings backend")
	flags.IntVar(&opts.pollMs, "poll-interval", defaultPollInterval, "sqlite settings poll interval in milliseconds")
	flags.StringVar(&opts.logLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newChartsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newTensesCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}

func runApp(cmd *cobra.Command, start tui.View) error {
	if err := loadOptions(cmd); err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	log, err := opts.logger(false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	env, err := openEnv(ctx, log)
	if err != nil {
		return err
	}
	defer env.close()

	app := tui.New(tui.Deps{
		Context:  ctx,
		Source:   env.source,
		Settings: env.settings,
		History:  env.store,
		Log:      log,
	}, start)
	defer app.Close()

	program := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newChartsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "charts",
		Short: "Show regular conjugation endings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if chartsPlain {
				return tui.WriteCharts(cmd.OutOrStdout(), terminalWidth())
			}
			return runApp(cmd, tui.ViewCharts)
		},
	}
	cmd.Flags().BoolVar(&chartsPlain, "plain", false, "print the charts as plain text")
	return cmd
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultChartsWidth
	}
	return width
}

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Edit quiz settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if settingsPrint {
				return runSettingsPrint(cmd)
			}
			return runApp(cmd, tui.ViewSettings)
		},
	}
	cmd.Flags().BoolVar(&settingsPrint, "print", false, "print the current settings and exit")
	return cmd
}

func runSettingsPrint(cmd *cobra.Command) error {
	if err := loadOptions(cmd); err != nil {
		return err
	}
	log, err := opts.logger(false)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	backend, closeBackend, err := opts.settingsBackend(cmd.Context())
	if err != nil {
		return err
	}
	defer closeBackend()

	snap := openSettings(cmd.Context(), backend, log).Snapshot()
	tenses := "all"
	if len(snap.SelectedTenses) > 0 {
		tenses = strings.Join(snap.SelectedTenses, ", ")
	}
	lines := []string{
		fmt.Sprintf("Include vosotros: %t", snap.IncludeVosotros),
		fmt.Sprintf("Timer enabled: %t", snap.IsTimerEnabled),
		fmt.Sprintf("Timer duration: %ds", snap.TimerDuration),
		fmt.Sprintf("Tenses: %s", tenses),
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show answer history stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsTense, "tense", "", "tense filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a plain-text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsLast < 0 {
		return fmt.Errorf("--last must be >= 0")
	}
	if statsCurveWindow <= 0 {
		return fmt.Errorf("--curve-window must be > 0")
	}

	cfg := model.StatsConfig{
		Tense:       statsTense,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	if statsPlain {
		report, err := stats.BuildReport(cmd.Context(), st, cfg)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if err := stats.RenderSummary(out, report, cfg.CurveWindow); err != nil {
			return err
		}
		if err := stats.RenderTenseTable(out, report.TenseAggs); err != nil {
			return err
		}
		return stats.RenderMissedTable(out, report.Missed)
	}

	model := statsui.NewModel(st, cfg)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the verb-data HTTP API",
		Args:  cobra.NoArgs,
		RunE:  runServeCmd,
	}
	cmd.Flags().StringVar(&opts.addr, "addr", defaultAddr, "listen address")
	return cmd
}

func runServeCmd(cmd *cobra.Command, _ []string) error {
	if err := loadOptions(cmd); err != nil {
		return err
	}
	log, err := opts.logger(true)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	source, err := opts.source()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return server.Run(ctx, opts.addr, server.New(source, log), log)
}

func newTensesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tenses",
		Short: "List available tenses",
		Args:  cobra.NoArgs,
		RunE:  runTensesCmd,
	}
}

func runTensesCmd(cmd *cobra.Command, _ []string) error {
	if err := loadOptions(cmd); err != nil {
		return err
	}
	source, err := opts.source()
	if err != nil {
		return err
	}
	tenses, err := source.Tenses(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to load tenses: %w", err)
	}
	for _, tense := range tenses {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), tense); err != nil {
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

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# conjuga configuration
# Uncomment a value to enable it. Environment variables override the file,
# CLI flags override both.

[quiz]
# api-url = "http://localhost:8000" # Verb-data service (empty uses the built-in catalog)
# timeout-seconds = %d               # Request timeout
# verbs = "/path/to/verbs.txt"       # Infinitives for the built-in catalog

[settings]
# backend = %q                 # sqlite or redis
# redis-url = "redis://localhost:6379/0"
# poll-interval-ms = %d           # How often sqlite is checked for changes

[serve]
# addr = %q

[log]
# level = %q
# file = "/path/to/conjuga.log"
`,
		defaultTimeout,
		defaultBackend,
		defaultPollInterval,
		defaultAddr,
		defaultLogLevel,
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
