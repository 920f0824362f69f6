// styled-switch hosts a single styled toggle control in the terminal.
//
// The program plays the embedding framework's part: it binds a property bag
// to the control, pushes snapshots on every refresh tick, and reads the
// bound value back whenever the user flips the switch. With -script it
// replays a YAML scenario without a terminal and prints a report of what
// each step published.
//
// Usage:
//
//	styled-switch [flags]
//
// Flags:
//
//	-config string    Path to configuration file (default: $XDG_CONFIG_HOME/styled-switch/config.toml)
//	-script string    Replay a YAML script headlessly and print the report
//	-theme string     Theme name override
//	-instance string  Instance ID override (keys persisted state)
//	-dump-theme       Print the resolved theme as TOML and exit
//	-verbose          Enable verbose logging
//	-version          Print version and exit
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"gitlab.com/tinyland/lab/styled-switch/pkg/config"
	"gitlab.com/tinyland/lab/styled-switch/pkg/host"
	"gitlab.com/tinyland/lab/styled-switch/pkg/session"
	"gitlab.com/tinyland/lab/styled-switch/pkg/terminal"
	"gitlab.com/tinyland/lab/styled-switch/pkg/theme"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		scriptPath  = flag.String("script", "", "Replay a YAML script headlessly and print the report")
		themeName   = flag.String("theme", "", "Theme name override")
		instanceID  = flag.String("instance", "", "Instance ID override (keys persisted state)")
		dumpTheme   = flag.Bool("dump-theme", false, "Print the resolved theme as TOML and exit")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("styled-switch %s (%s) built %s\n", version, commit, date)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		return 1
	}
	if *themeName != "" {
		cfg.Theme.Name = *themeName
	}
	if *instanceID != "" {
		cfg.Host.InstanceID = *instanceID
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		return 1
	}

	if *dumpTheme {
		return writeTheme(cfg.Theme, os.Stdout)
	}

	caps := terminal.DetectCapabilities()
	lipgloss.SetColorProfile(caps.Profile)

	// The TUI owns the terminal, so interactive runs log to the file only.
	logger, closeLog, err := setupLogging(cfg.General, *verbose, !caps.Interactive || *scriptPath != "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		return 1
	}
	defer closeLog()

	if *scriptPath != "" {
		return runScript(*scriptPath, logger)
	}
	if !caps.Interactive {
		fmt.Fprintln(os.Stderr, "styled-switch needs a terminal; use -script for headless runs")
		return 1
	}
	return runInteractive(cfg, caps, logger)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromFile(path)
}

// setupLogging opens the log file and returns a text logger writing to it,
// plus stderr when toStderr is set.
func setupLogging(gen config.GeneralConfig, verbose, toStderr bool) (*slog.Logger, func(), error) {
	level := slog.LevelInfo
	if err := level.UnmarshalText([]byte(gen.LogLevel)); err != nil {
		level = slog.LevelInfo
	}
	if verbose {
		level = slog.LevelDebug
	}

	var writers []io.Writer
	if toStderr {
		writers = append(writers, os.Stderr)
	}
	closeFn := func() {}
	if gen.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(gen.LogFile), 0o755); err != nil {
			return nil, nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(gen.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closeFn = func() { f.Close() }
	}
	if len(writers) == 0 {
		writers = append(writers, io.Discard)
	}

	logger := slog.New(slog.NewTextHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: level,
	}))
	return logger, closeFn, nil
}

func resolveTheme(cfg config.ThemeConfig) (theme.Theme, error) {
	if cfg.File != "" {
		return theme.LoadFile(cfg.File)
	}
	return theme.Get(cfg.Name), nil
}

// writeTheme prints the resolved theme in the format LoadFile reads, so it
// can seed a custom theme file.
func writeTheme(cfg config.ThemeConfig, w io.Writer) int {
	th, err := resolveTheme(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load theme: %v\n", err)
		return 1
	}
	data, err := theme.SaveToTOML(th)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to encode theme: %v\n", err)
		return 1
	}
	if _, err := w.Write(data); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write theme: %v\n", err)
		return 1
	}
	return 0
}

func runInteractive(cfg *config.Config, caps *terminal.Capabilities, logger *slog.Logger) int {
	th, err := resolveTheme(cfg.Theme)
	if err != nil {
		logger.Error("theme load failed", "error", err)
		return 1
	}

	store, err := session.Open(filepath.Join(cfg.General.StateDir, "sessions"), 0)
	if err != nil {
		logger.Warn("session store unavailable; state will not persist", "error", err)
		store = nil
	}

	model, err := host.New(cfg, th, caps.Size, store, logger)
	if err != nil {
		logger.Error("mount failed", "error", err)
		return 1
	}
	defer model.Close()

	opts := []tea.ProgramOption{}
	if cfg.Host.AltScreen {
		opts = append(opts, tea.WithAltScreen())
	}
	if cfg.Host.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	logger.Info("starting styled-switch",
		"instance", cfg.Host.InstanceID,
		"theme", th.Name,
		"ssh", caps.SSH,
		"mux", caps.Mux,
	)
	if _, err := tea.NewProgram(model, opts...).Run(); err != nil {
		logger.Error("TUI error", "error", err)
		return 1
	}
	return 0
}

func runScript(path string, logger *slog.Logger) int {
	script, err := host.LoadScript(path)
	if err != nil {
		logger.Error("script load failed", "error", err)
		return 1
	}
	report, err := host.Replay(script, logger)
	if err != nil {
		logger.Error("replay failed", "error", err)
		return 1
	}
	if err := report.WriteYAML(os.Stdout); err != nil {
		logger.Error("report write failed", "error", err)
		return 1
	}
	if report.Failed() {
		logger.Warn("replay finished with handler errors", "script", script.Name)
		return 2
	}
	return 0
}
