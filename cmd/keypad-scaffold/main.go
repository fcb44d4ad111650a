// Package main writes the default keypad entry point if it is missing.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dshills/keypad/internal/input/mode"
	"github.com/dshills/keypad/internal/logging"
	"github.com/dshills/keypad/internal/scaffold"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	Path     string
	Data     scaffold.Data
	LogLevel string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg := logging.DefaultConfig()
	cfg.Level = logging.ParseLevel(opts.LogLevel)
	cfg.Prefix = "keypad-scaffold"
	logger := logging.New(cfg)

	created, err := scaffold.Ensure(opts.Path, opts.Data)
	if err != nil {
		logger.Error("ensure %s: %v", opts.Path, err)
		return 1
	}
	if created {
		logger.Info("created %s", opts.Path)
	} else {
		logger.Debug("%s exists, left unchanged", opts.Path)
	}
	return 0
}

func parseFlags() options {
	opts := options{Data: scaffold.DefaultData()}
	var modeName string
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.Path, "out", scaffold.DefaultPath, "Entry point to create")
	flag.StringVar(&opts.Path, "o", scaffold.DefaultPath, "Entry point to create (shorthand)")
	flag.StringVar(&opts.Data.Module, "module", opts.Data.Module, "Module path of the keypad packages")
	flag.StringVar(&modeName, "mode", opts.Data.Mode.String(), "Input mode (raw, integer, float, t9)")
	flag.DurationVar(&opts.Data.Interval, "interval", opts.Data.Interval, "Scan interval (whole milliseconds)")
	flag.StringVar(&opts.LogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "keypad-scaffold - create the default keypad entry point\n\n")
		fmt.Fprintf(os.Stderr, "Usage: keypad-scaffold [options]\n\n")
		fmt.Fprintf(os.Stderr, "An existing file is never overwritten.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("keypad-scaffold %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	m, err := mode.Parse(modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	opts.Data.Mode = m

	switch opts.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	return opts
}
