// Package main is the entry point for the keypad terminal simulator.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/keypad/internal/config"
	"github.com/dshills/keypad/internal/input/matrix"
	"github.com/dshills/keypad/internal/keypad"
	"github.com/dshills/keypad/internal/logging"
	"github.com/dshills/keypad/internal/plugin/lua"
	"github.com/dshills/keypad/internal/sim"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	ConfigPath string
	ScriptPath string
	LogPath    string
	LogLevel   string
	Mode       string
	Hold       time.Duration
	Interval   time.Duration
	Watch      bool
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if opts.Mode != "" {
		if err := cfg.Set("keypad.mode", opts.Mode); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
	}
	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		return 1
	}

	// The screen owns stdout and stderr, so logs go to a file or nowhere.
	var out io.Writer = io.Discard
	if opts.LogPath != "" {
		f, err := os.OpenFile(opts.LogPath, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
			return 1
		}
		defer f.Close()
		out = f
	}
	logger := logging.New(logging.Config{Level: cfg.LogLevel(), Output: out, Prefix: "keypad-sim"})

	kc, err := cfg.ToKeypad()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid config: %v\n", err)
		return 1
	}
	driver := matrix.NewMemoryDriver()
	kp, err := keypad.New(kc, driver, keypad.WithLogger(logger))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create keypad: %v\n", err)
		return 1
	}

	scriptPath := opts.ScriptPath
	if scriptPath == "" {
		scriptPath = cfg.Plugin.Script
	}
	if scriptPath != "" {
		script, err := loadScript(scriptPath, kp, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		defer script.Close()
	}

	term, err := sim.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	simOpts := []sim.Option{
		sim.WithHold(opts.Hold),
		sim.WithInterval(opts.Interval),
		sim.WithLogger(logger),
	}
	if kc.Beeper != nil {
		simOpts = append(simOpts, sim.WithBeeperLine(kc.Beeper.Line))
	}
	simulator := sim.New(term, kp, driver, simOpts...)

	if opts.Watch && opts.ConfigPath != "" {
		reloader, err := config.Watch(opts.ConfigPath, logger, func(c *config.Config) {
			applyRuntime(simulator, c, logger)
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to watch config: %v\n", err)
			return 1
		}
		defer reloader.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kp.Enable()
	defer kp.Disable()

	if err := simulator.Run(ctx); err != nil {
		if errors.Is(err, sim.ErrQuit) || errors.Is(err, context.Canceled) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func loadScript(path string, kp *keypad.Keypad, logger *logging.Logger) (*lua.Script, error) {
	script, err := lua.NewScript(logger)
	if err != nil {
		return nil, fmt.Errorf("create script state: %w", err)
	}
	if err := script.LoadFile(path); err != nil {
		script.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	handlers, err := script.Bind(kp)
	if err != nil {
		script.Close()
		return nil, fmt.Errorf("bind script: %w", err)
	}
	logger.Info("script %s handles %v", path, handlers)
	return script, nil
}

// applyRuntime copies the settings a running keypad can change.
func applyRuntime(s *sim.Simulator, c *config.Config, logger *logging.Logger) {
	kc, err := c.ToKeypad()
	if err != nil {
		logger.Warn("ignoring reloaded config: %v", err)
		return
	}
	logger.SetLevel(c.LogLevel())
	queued := s.Do(func(kp *keypad.Keypad) {
		kp.SetType(kc.Mode)
		kp.SetMaskText(kc.MaskText)
		kp.SetEnterKey(kc.EnterKey)
		kp.SetDeleteKey(kc.DeleteKey)
	})
	if !queued {
		logger.Warn("simulator busy, reloaded config dropped")
	}
}

func parseFlags() options {
	opts := options{
		Hold:     sim.DefaultHold,
		Interval: sim.DefaultInterval,
	}
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file (.toml, .yaml)")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.ScriptPath, "script", "", "Lua listener script (overrides plugin.script)")
	flag.StringVar(&opts.LogPath, "log", "", "Write logs to this file")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.Mode, "mode", "", "Input mode (raw, integer, float, t9)")
	flag.StringVar(&opts.Mode, "m", "", "Input mode (shorthand)")
	flag.DurationVar(&opts.Hold, "hold", opts.Hold, "How long a typed key stays pressed")
	flag.DurationVar(&opts.Interval, "interval", opts.Interval, "Scan interval")
	flag.BoolVar(&opts.Watch, "watch", true, "Reload the config file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keypad-sim - drive a matrix keypad from the keyboard\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keypad-sim [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  keypad-sim                       Factory layout, integer mode\n")
		fmt.Fprintf(os.Stderr, "  keypad-sim -m t9                 Multi-tap text entry\n")
		fmt.Fprintf(os.Stderr, "  keypad-sim -c keypad.toml        Load settings and reload on save\n")
		fmt.Fprintf(os.Stderr, "  keypad-sim -script password.lua  Attach Lua listeners\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keypad-sim %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}
