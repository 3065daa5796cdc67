// Package main provides the CLI entrypoint for saytui.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gopxl/beep/v2"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/saytui/internal/config"
	"github.com/verte-zerg/saytui/internal/feedback"
	"github.com/verte-zerg/saytui/internal/model"
	"github.com/verte-zerg/saytui/internal/profile"
	"github.com/verte-zerg/saytui/internal/settings"
	"github.com/verte-zerg/saytui/internal/speech"
	"github.com/verte-zerg/saytui/internal/stats"
	"github.com/verte-zerg/saytui/internal/statsui"
	"github.com/verte-zerg/saytui/internal/store"
	"github.com/verte-zerg/saytui/internal/tui"
)

const (
	defaultRate       = 1.0
	defaultPitch      = 1.0
	defaultVolume     = 1.0
	defaultHistoryLen = 10
	historyTextWidth  = 60
)

var (
	debugLog bool

	speechCommand string
	speechVoice   string
	speechRate    float64
	speechPitch   float64
	speechVolume  float64
	initialText   string

	settingsExport bool
	settingsReset  bool
	settingsTheme  string
	settingsFormat string

	statsExport bool
	statsReset  bool
	statsChart  bool
	statsTUI    bool
	statsFormat string

	historyClear bool
	historyLimit int

	closeLog = func() {}
)

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	closeLog()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "saytui",
		Short:             "Terminal text-to-speech",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: setup,
		RunE:              runTUICmd,
	}

	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write debug messages to the log file")
	addSpeechFlags(rootCmd)
	rootCmd.Flags().StringVar(&initialText, "text", "", "text to load into the editor")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newHistoryCmd())
	rootCmd.AddCommand(newSayCmd())
	rootCmd.AddCommand(newProfileCmd())
	rootCmd.AddCommand(newDataCmd())

	return rootCmd
}

func addSpeechFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&speechCommand, "command", speech.DefaultCommand, "speech command (espeak-compatible)")
	cmd.Flags().StringVar(&speechVoice, "voice", "", "voice name passed to the speech command")
	cmd.Flags().Float64Var(&speechRate, "rate", defaultRate, "speech rate multiplier")
	cmd.Flags().Float64Var(&speechPitch, "pitch", defaultPitch, "speech pitch multiplier (0-2)")
	cmd.Flags().Float64Var(&speechVolume, "volume", defaultVolume, "speech volume (0-1)")
}

func setup(_ *cobra.Command, _ []string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}
	closer, err := setupLogging(config.DefaultLogPath(), debugLog)
	if err != nil {
		logErrf("logging disabled: %v\n", err)
		return nil
	}
	closeLog = closer
	return nil
}

func setupLogging(path string, debug bool) (func(), error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level})))
	return func() {
		if cerr := f.Close(); cerr != nil {
			logErrf("failed to close log file: %v\n", cerr)
		}
	}, nil
}

// services are the stores every command works against.
type services struct {
	db       *store.Store
	settings *settings.Store
	stats    *stats.Store
	prefs    *speech.Prefs
	profile  *profile.Store
}

func openServices(ctx context.Context, settingsOpts ...settings.Option) (*services, error) {
	db, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	logger := slog.Default()
	svc := &services{
		db:       db,
		settings: settings.New(db, append([]settings.Option{settings.WithLogger(logger)}, settingsOpts...)...),
		stats:    stats.NewStore(db, stats.WithLogger(logger)),
		prefs:    speech.NewPrefs(db, speech.WithLogger(logger)),
		profile:  profile.New(db, profile.WithLogger(logger)),
	}
	loaders := []func(context.Context) error{
		svc.settings.Load,
		svc.stats.Load,
		svc.prefs.Load,
		svc.profile.Load,
	}
	for _, load := range loaders {
		if err := load(ctx); err != nil {
			svc.close()
			return nil, err
		}
	}
	return svc, nil
}

func (s *services) close() {
	if cerr := s.db.Close(); cerr != nil {
		logErrf("failed to close db: %v\n", cerr)
	}
}

// applySpeechConfig resolves speech flags against the config file and
// environment. Flags always store their value; config values only seed
// preferences that were never stored.
func applySpeechConfig(cmd *cobra.Command, cfg config.SpeechConfig, prefs *speech.Prefs) string {
	applyStringConfig(cmd, "command", &speechCommand, cfg.Command)
	if v, ok := config.SpeechCommandOverride(); ok && !cmd.Flags().Changed("command") {
		speechCommand = v
	}
	applyStringConfig(cmd, "voice", &speechVoice, cfg.Voice)
	applyFloatConfig(cmd, "rate", &speechRate, cfg.Rate)
	applyFloatConfig(cmd, "pitch", &speechPitch, cfg.Pitch)
	applyFloatConfig(cmd, "volume", &speechVolume, cfg.Volume)

	if speechVoice != "" {
		prefs.SetVoice(speechVoice)
	}
	if seedPref(cmd, "rate", cfg.Rate, prefs, store.KeyRate) {
		prefs.SetRate(speechRate)
	}
	if seedPref(cmd, "pitch", cfg.Pitch, prefs, store.KeyPitch) {
		prefs.SetPitch(speechPitch)
	}
	if seedPref(cmd, "volume", cfg.Volume, prefs, store.KeyVolume) {
		prefs.SetVolume(speechVolume)
	}
	return speechCommand
}

func seedPref(cmd *cobra.Command, flag string, value *float64, prefs *speech.Prefs, key string) bool {
	if cmd.Flags().Changed(flag) {
		return true
	}
	return value != nil && !prefs.Stored(key)
}

func feedbackOptions(cfg config.FeedbackConfig) []feedback.Option {
	opts := []feedback.Option{feedback.WithLogger(slog.Default())}
	if cfg.Volume != nil {
		opts = append(opts, feedback.WithMasterGain(*cfg.Volume))
	}
	if cfg.SampleRate != nil {
		opts = append(opts, feedback.WithSampleRate(beep.SampleRate(*cfg.SampleRate)))
	}
	return opts
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// The terminal is queried once; Bubble Tea owns stdin afterwards.
	hostDark := lipgloss.HasDarkBackground()
	var ui *tui.Model
	svc, err := openServices(cmd.Context(),
		settings.WithDarkDetector(func() bool { return hostDark }),
		settings.WithAppearanceHook(func(dark bool) {
			if ui != nil {
				ui.ApplyAppearance(dark)
			}
		}))
	if err != nil {
		return err
	}
	defer svc.close()

	command := applySpeechConfig(cmd, fileCfg.Speech, svc.prefs)
	synth := speech.NewCommandSynthesizer(command)
	player := speech.NewPlayer(synth, slog.Default())
	sink := feedback.New(svc.settings, feedbackOptions(fileCfg.Feedback)...)

	ui = tui.New(tui.Deps{
		Settings: svc.settings,
		Stats:    svc.stats,
		Prefs:    svc.prefs,
		Profile:  svc.profile,
		Player:   player,
		Feedback: sink,
		Text:     initialText,
	})
	slog.Info("Starting TUI", "command", synth.Name(), "theme", svc.settings.Theme())
	program := tea.NewProgram(ui, tea.WithAltScreen())
	_, runErr := program.Run()
	player.Cancel()
	player.Wait()
	sink.Wait()
	if runErr != nil {
		return fmt.Errorf("failed to run TUI: %w", runErr)
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

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change display settings",
		Args:  cobra.NoArgs,
		RunE:  runSettingsCmd,
	}
	cmd.Flags().BoolVar(&settingsExport, "export", false, "print settings as JSON or YAML")
	cmd.Flags().BoolVar(&settingsReset, "reset", false, "restore default settings")
	cmd.Flags().StringVar(&settingsTheme, "theme", "", "set theme (light, dark, system)")
	cmd.Flags().StringVar(&settingsFormat, "format", stats.FormatJSON, "export format (json, yaml)")
	return cmd
}

func runSettingsCmd(cmd *cobra.Command, _ []string) error {
	svc, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.close()

	if settingsReset {
		svc.settings.Reset()
	}
	if settingsTheme != "" {
		if err := svc.settings.SetTheme(model.ThemeMode(strings.ToLower(settingsTheme))); err != nil {
			return err
		}
	}
	if settingsExport {
		return stats.Encode(cmd.OutOrStdout(), svc.settings.State(), settingsFormat)
	}
	st := svc.settings.State()
	out := cmd.OutOrStdout()
	return writeLines(out, []string{
		fmt.Sprintf("Theme:      %s", svc.settings.ThemeLabel()),
		fmt.Sprintf("Sound:      %s", onOff(st.SoundEnabled)),
		fmt.Sprintf("Animations: %s", onOff(st.AnimationsEnabled)),
		fmt.Sprintf("Help:       %s", onOff(st.ShowHelp)),
	})
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show usage stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().BoolVar(&statsExport, "export", false, "print stats as JSON or YAML")
	cmd.Flags().BoolVar(&statsReset, "reset", false, "zero every counter")
	cmd.Flags().BoolVar(&statsChart, "chart", false, "draw counters as bars")
	cmd.Flags().BoolVar(&statsTUI, "tui", false, "open the interactive dashboard")
	cmd.Flags().StringVar(&statsFormat, "format", stats.FormatJSON, "export format (json, yaml)")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	svc, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.close()

	if statsReset {
		svc.stats.Reset()
	}
	out := cmd.OutOrStdout()
	switch {
	case statsExport:
		return stats.Encode(out, svc.stats.State(), statsFormat)
	case statsChart:
		return stats.PlotBars(out, stats.CounterBars(svc.stats.State()), 0, false)
	case statsTUI:
		program := tea.NewProgram(statsui.NewModel(svc.stats, svc.prefs, svc.profile), tea.WithAltScreen())
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("failed to run stats UI: %w", err)
		}
		return nil
	default:
		return stats.RenderSummary(out, svc.stats.State())
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently spoken texts",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
	cmd.Flags().BoolVar(&historyClear, "clear", false, "clear the history")
	cmd.Flags().IntVar(&historyLimit, "limit", defaultHistoryLen, "number of entries to show")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	if historyLimit < 0 {
		return fmt.Errorf("--limit must be >= 0")
	}
	svc, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.close()

	if historyClear {
		svc.prefs.ClearHistory()
		svc.profile.ClearHistory()
		return nil
	}
	entries := svc.prefs.History()
	if len(entries) == 0 {
		logErrln("No history yet. Speak something with: saytui say TEXT")
		return nil
	}
	if historyLimit > 0 && len(entries) > historyLimit {
		entries = entries[:historyLimit]
	}
	out := cmd.OutOrStdout()
	for _, e := range entries {
		text := strings.Join(strings.Fields(e.Text), " ")
		line := fmt.Sprintf("%s  %s",
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			runewidth.Truncate(text, historyTextWidth, "…"))
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newSayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "say TEXT...",
		Short: "Speak text once without the TUI",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runSayCmd,
	}
	addSpeechFlags(cmd)
	return cmd
}

func runSayCmd(cmd *cobra.Command, args []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return speech.ErrEmptyText
	}

	svc, err := openServices(cmd.Context())
	if err != nil {
		return err
	}
	defer svc.close()

	command := applySpeechConfig(cmd, fileCfg.Speech, svc.prefs)
	prefs := svc.prefs.Prefs()
	chars := utf8.RuneCountInString(text)
	lang := svc.profile.Profile().Language
	svc.stats.RecordSpeechGeneration(chars)
	svc.prefs.AddToHistory(text, prefs.Voice)
	svc.profile.RecordConversion(chars, profile.Words(text), lang)
	svc.profile.AddToHistory(model.SavedText{InputText: text, Title: profile.Title(text), Language: lang})

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	synth := speech.NewCommandSynthesizer(command)
	slog.Debug("Speaking", "command", synth.Name(), "chars", chars)
	if err := synth.Speak(ctx, text, prefs); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	return nil
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

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# saytui configuration
# Uncomment a value to enable it. CLI flags override config values.
# rate, pitch and volume only seed preferences not yet changed in the TUI.

[speech]
# command = %q      # Speech command (espeak-compatible)
# voice = "en-us"           # Voice name
# rate = %.1f               # Rate multiplier
# pitch = %.1f              # Pitch multiplier (0-2)
# volume = %.1f             # Volume (0-1)

[feedback]
# volume = %.1f             # Tone master gain (0-1)
# sample-rate = %d       # Tone sample rate in Hz
`,
		speech.DefaultCommand,
		defaultRate,
		defaultPitch,
		defaultVolume,
		feedback.DefaultMasterGain,
		int(feedback.DefaultSampleRate),
	)
}

func writeLines(out io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
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
