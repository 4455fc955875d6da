// Package main is the entry point for the dsvedit grid editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/dsvedit/internal/app"
	"github.com/dshills/dsvedit/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type cliOptions struct {
	app.Options
	output string
	watch  bool
	args   []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()
	if len(opts.args) == 0 {
		flag.Usage()
		return 2
	}

	application, err := app.New(opts.Options)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := opts.args[0], opts.args[1:]
	switch cmd {
	case "show":
		err = show(application, args)
	case "apply":
		err = apply(ctx, application, args, opts.output)
	case "repl":
		err = repl(ctx, application, args, opts.watch)
	default:
		// A bare file argument opens the REPL.
		err = repl(ctx, application, opts.args, opts.watch)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func show(a *app.Application, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: dsvedit show FILE")
	}
	if err := a.Open(args[0]); err != nil {
		return err
	}
	return app.Render(os.Stdout, a.Model(), app.DefaultCellWidth)
}

func apply(ctx context.Context, a *app.Application, args []string, output string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: dsvedit apply SCRIPT FILE")
	}
	s, err := script.Load(args[0])
	if err != nil {
		return err
	}
	if err := a.Open(args[1]); err != nil {
		return err
	}
	if err := a.ApplyScript(ctx, s); err != nil {
		return err
	}
	if output == "-" {
		_, err := fmt.Fprint(os.Stdout, a.Model().RawData())
		return err
	}
	return a.Save(output)
}

func repl(ctx context.Context, a *app.Application, args []string, watch bool) error {
	switch len(args) {
	case 0:
		if err := a.OpenText(""); err != nil {
			return err
		}
	case 1:
		if err := a.Open(args[0]); err != nil {
			return err
		}
	default:
		return fmt.Errorf("usage: dsvedit repl [FILE]")
	}
	if watch {
		if err := a.WatchConfig(); err != nil {
			return err
		}
	}
	go func() {
		<-ctx.Done()
		os.Stdin.Close()
	}()
	if err := a.RunREPL(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		return err
	}
	if a.Dirty() {
		a.Logger().Warn("unsaved changes discarded")
	}
	return nil
}

func parseFlags() cliOptions {
	var opts cliOptions
	var showVersion bool
	var showHelp bool

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config")
	flag.StringVar(&opts.output, "o", "", "Output file for apply; - writes to stdout (default: overwrite FILE)")
	flag.BoolVar(&opts.watch, "watch", false, "Reload the configuration file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dsvedit - delimiter-separated values grid editor\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dsvedit [options] <command> [args]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  show FILE                 Print FILE as a table\n")
		fmt.Fprintf(os.Stderr, "  apply SCRIPT FILE         Run a YAML edit script against FILE\n")
		fmt.Fprintf(os.Stderr, "  repl [FILE]               Edit FILE interactively\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dsvedit show data.csv\n")
		fmt.Fprintf(os.Stderr, "  dsvedit -o out.csv apply edits.yaml data.csv\n")
		fmt.Fprintf(os.Stderr, "  dsvedit -c tsv.toml repl data.tsv\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("dsvedit %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	opts.args = flag.Args()
	return opts
}
