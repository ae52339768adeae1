// Command chess-uci-mcp bridges a UCI chess engine to MCP clients.
//
// It spawns the configured engine, performs the UCI handshake, and serves
// MCP tools (analyze, get_best_move, set_position, ...) over stdio.
// Because stdout carries the MCP protocol, all logging goes to stderr.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/AnglerfishChess/chess-uci-mcp/config"
	"github.com/AnglerfishChess/chess-uci-mcp/engine/uci"
	"github.com/AnglerfishChess/chess-uci-mcp/server"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, code, done := parseFlags()
	if done {
		return code
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log := newLogger(cfg.LogLevel, opts.debug)
	log.Info().
		Str("version", version).
		Str("engine", cfg.Engine.Path).
		Int("think_time_ms", cfg.DefaultThinkTime).
		Msg("starting chess-uci-mcp")

	engineOpts := make([]uci.ConfiguredOption, 0, len(cfg.Engine.Options))
	for _, o := range cfg.Engine.Options {
		engineOpts = append(engineOpts, uci.ConfiguredOption{Name: o.Name, Value: o.Value})
		log.Info().Str("option", o.Name).Interface("value", o.Value).Msg("configured UCI option")
	}

	bridge := uci.New(cfg.Engine.Path,
		uci.WithLogger(log.With().Str("component", "bridge").Logger()),
		uci.WithOptions(engineOpts),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server.Version = version
	srv := server.New(bridge, cfg, log.With().Str("component", "server").Logger())
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("server exited")
		return 1
	}
	log.Info().Msg("shutdown complete")
	return 0
}

// options holds parsed command-line flags.
type options struct {
	configPath string
	enginePath string
	uciOptions []config.Option
	thinkTime  int
	debug      bool
}

// parseFlags parses the command line. The returned done flag is true when
// the invocation was fully handled (version, init-config, usage error).
func parseFlags() (options, int, bool) {
	var opts options
	var showVersion bool
	var initConfig string
	var uciFlags kvFlags

	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.Var(&uciFlags, "o", "Set a UCI option as NAME=VALUE (repeatable)")
	flag.IntVar(&opts.thinkTime, "think-time", 0, "Default thinking time in milliseconds")
	flag.BoolVar(&opts.debug, "debug", false, "Enable debug logging")
	flag.BoolVar(&showVersion, "version", false, "Print version and exit")
	flag.StringVar(&initConfig, "init-config", "", "Write a default configuration file to the given path and exit")
	flag.Usage = usage
	flag.Parse()

	if showVersion {
		fmt.Printf("chess-uci-mcp %s (%s)\n", version, commit)
		return opts, 0, true
	}
	if initConfig != "" {
		if err := config.WriteDefault(initConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return opts, 1, true
		}
		fmt.Fprintf(os.Stderr, "Wrote default configuration to %s\n", initConfig)
		return opts, 0, true
	}

	if flag.NArg() > 1 {
		usage()
		return opts, 2, true
	}
	opts.enginePath = flag.Arg(0)
	opts.uciOptions = uciFlags.options
	return opts, 0, false
}

// applyOverrides layers command-line flags over the file configuration.
// A positional engine path wins over the file; -o options are applied
// after (and therefore override) file options of the same name.
func applyOverrides(cfg *config.Config, opts options) {
	if opts.enginePath != "" {
		cfg.Engine.Path = opts.enginePath
	}
	if opts.thinkTime > 0 {
		cfg.DefaultThinkTime = opts.thinkTime
	}
	cfg.Engine.Options = append(cfg.Engine.Options, opts.uciOptions...)
}

func newLogger(level string, debug bool) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}

// kvFlags collects repeatable NAME=VALUE flags in order.
type kvFlags struct {
	options []config.Option
}

func (f *kvFlags) String() string {
	parts := make([]string, 0, len(f.options))
	for _, o := range f.options {
		parts = append(parts, fmt.Sprintf("%s=%v", o.Name, o.Value))
	}
	return strings.Join(parts, ",")
}

func (f *kvFlags) Set(value string) error {
	name, val, ok := strings.Cut(value, "=")
	if !ok || name == "" {
		return fmt.Errorf("expected NAME=VALUE, got %q", value)
	}
	f.options = append(f.options, config.Option{Name: name, Value: val})
	return nil
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: chess-uci-mcp [flags] [ENGINE_PATH]

Bridge a UCI chess engine to MCP clients over stdio.

ENGINE_PATH overrides the engine executable from the configuration file.

Flags:
`)
	flag.PrintDefaults()
}
