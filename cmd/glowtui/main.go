// Package main provides the CLI entrypoint for glowtui.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/glowcare/glowtui/internal/config"
	"github.com/glowcare/glowtui/internal/geo"
	"github.com/glowcare/glowtui/internal/historyui"
	"github.com/glowcare/glowtui/internal/model"
	"github.com/glowcare/glowtui/internal/notify"
	"github.com/glowcare/glowtui/internal/store"
	"github.com/glowcare/glowtui/internal/tui"
	"github.com/glowcare/glowtui/internal/weather"
)

const terminalWidthBackup = 80

var (
	wizardAPIKey   string
	wizardAllow    bool
	wizardLat      float64
	wizardLon      float64
	wizardEndpoint string

	remindersAll bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "glowtui",
		Short:         "TUI skincare advisor",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runWizardCmd,
	}

	rootCmd.Flags().StringVar(&wizardAPIKey, "api-key", "", "OpenWeatherMap API key")
	rootCmd.Flags().BoolVar(&wizardAllow, "allow-location", false, "grant location access")
	rootCmd.Flags().Float64Var(&wizardLat, "lat", 0, "latitude override (skips address lookup)")
	rootCmd.Flags().Float64Var(&wizardLon, "lon", 0, "longitude override (skips address lookup)")
	rootCmd.Flags().StringVar(&wizardEndpoint, "endpoint", "", "weather endpoint override")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newRemindersCmd())
	rootCmd.AddCommand(newHistoryCmd())

	return rootCmd
}

func runWizardCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "api-key", &wizardAPIKey, fileCfg.Weather.APIKey)
	applyStringConfig(cmd, "endpoint", &wizardEndpoint, fileCfg.Weather.Endpoint)
	applyBoolConfig(cmd, "allow-location", &wizardAllow, fileCfg.Location.Allow)
	applyFloatConfig(cmd, "lat", &wizardLat, fileCfg.Location.Lat)
	applyFloatConfig(cmd, "lon", &wizardLon, fileCfg.Location.Lon)

	var override *model.Coordinates
	hasLat := cmd.Flags().Changed("lat") || fileCfg.Location.Lat != nil
	hasLon := cmd.Flags().Changed("lon") || fileCfg.Location.Lon != nil
	if hasLat && hasLon {
		override = &model.Coordinates{Latitude: wizardLat, Longitude: wizardLon}
	}

	// One-time initialization: the store and reminder scheduler are built
	// once before the TUI starts, never per render cycle.
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	locator := geo.NewLocator(geo.Options{
		Allow:    wizardAllow,
		Override: override,
		APIKey:   wizardAPIKey,
	})
	client := weather.NewClient(wizardEndpoint, wizardAPIKey)
	fetcher := weather.NewFetcher(locator, client)
	scheduler := notify.NewScheduler(st)

	wizardModel := tui.NewModel(st, scheduler, fetcher)
	program := tea.NewProgram(wizardModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
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

func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List scheduled reminders",
		Args:  cobra.NoArgs,
		RunE:  runRemindersCmd,
	}
	cmd.Flags().BoolVar(&remindersAll, "all", false, "include reminders that already fired")
	return cmd
}

func runRemindersCmd(cmd *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	after := time.Now()
	if remindersAll {
		after = time.Time{}
	}
	reminders, err := st.ListReminders(context.Background(), after)
	if err != nil {
		return fmt.Errorf("failed to list reminders: %w", err)
	}
	if len(reminders) == 0 {
		logErrln("No scheduled reminders.")
		return nil
	}

	width := terminalWidth()
	for _, r := range reminders {
		line := fmt.Sprintf("%-10s %s  %s", r.Slot, r.FireAt.Local().Format("2006-01-02 15:04"), r.Body)
		line = runewidth.Truncate(line, width, "…")
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show completed sessions",
		Args:  cobra.NoArgs,
		RunE:  runHistoryCmd,
	}
}

func runHistoryCmd(_ *cobra.Command, _ []string) error {
	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	historyModel := historyui.NewModel(st)
	program := tea.NewProgram(historyModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run history TUI: %w", err)
	}
	return nil
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
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

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return `# glowtui configuration
# Uncomment a value to enable it. CLI flags override config values.

[weather]
# api-key = ""            # OpenWeatherMap API key
# endpoint = ""           # Weather endpoint override (default: api.openweathermap.org)

[location]
# allow = true            # Grant location access (required for the weather fetch)
# lat = 52.52             # Latitude override (skips the address lookup)
# lon = 13.40             # Longitude override (skips the address lookup)
`
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
