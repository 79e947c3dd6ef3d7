// Command zontool checks, normalizes and archives .zon zone files.
//
// Usage:
//
//	zontool check <file.zon>...        # report malformed and short lines
//	zontool normalize <file.zon>...    # rewrite files in canonical form
//	zontool bounds <file.zon>          # print the extent covered by all zones
//	zontool import <file.zon> [set]    # store a file in the zone library
//	zontool export <set> <file.zon>    # write a stored set back to disk
//	zontool list                       # list stored sets
//	zontool delete <set>               # remove a stored set
//
// Configuration is read from zontool.yaml or the file named by ZONKIT_CONFIG.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/udisondev/zonkit/internal/config"
	"github.com/udisondev/zonkit/internal/zon"
)

const DefaultConfigPath = "zontool.yaml"

// toolEnv is what every command receives.
type toolEnv struct {
	cfg  config.Tool
	opts zon.Options
	out  io.Writer
}

type command struct {
	name  string
	usage string
	desc  string
	run   func(ctx context.Context, env *toolEnv, args []string) error
}

var commands []command

func registerCommand(name, usage, desc string, fn func(ctx context.Context, env *toolEnv, args []string) error) {
	commands = append(commands, command{name: name, usage: usage, desc: desc, run: fn})
}

func init() {
	registerCommand("check", "<file>...", "Report malformed and short lines", runCheck)
	registerCommand("normalize", "<file>...", "Rewrite files in canonical form", runNormalize)
	registerCommand("bounds", "<file>", "Print the extent covered by all zones", runBounds)
	registerCommand("import", "<file> [set]", "Store a zone file in the library", runImport)
	registerCommand("export", "<set> <file>", "Write a stored set to a zone file", runExport)
	registerCommand("list", "", "List stored zone sets", runList)
	registerCommand("delete", "<set>", "Remove a stored zone set", runDelete)
}

// errUsage makes main print usage and exit with status 2.
var errUsage = errors.New("usage")

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("interrupted", "signal", sig)
		cancel()
	}()

	err := run(ctx, os.Args[1:])
	switch {
	case err == nil:
	case errors.Is(err, errUsage):
		printUsage()
		os.Exit(2)
	default:
		slog.Error("zontool failed", "err", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}

	cfgPath := DefaultConfigPath
	if p := os.Getenv("ZONKIT_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadTool(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	})))

	policy, err := zon.ParseErrorPolicy(cfg.OnError)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	env := &toolEnv{
		cfg:  cfg,
		opts: zon.Options{OnError: policy, ReportShortLines: cfg.ReportShortLines},
		out:  os.Stdout,
	}

	cmd, ok := findCommand(args[0])
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", args[0])
		return errUsage
	}

	start := time.Now()
	if err := cmd.run(ctx, env, args[1:]); err != nil {
		return fmt.Errorf("%s: %w", cmd.name, err)
	}
	slog.Debug("command done", "cmd", cmd.name, "elapsed", time.Since(start).Round(time.Millisecond))
	return nil
}

func findCommand(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage() {
	names := make([]string, 0, len(commands))
	byName := make(map[string]command, len(commands))
	maxLen := 0
	for _, c := range commands {
		head := strings.TrimSpace(c.name + " " + c.usage)
		names = append(names, c.name)
		byName[c.name] = c
		maxLen = max(maxLen, len(head))
	}
	sort.Strings(names)

	fmt.Fprintln(os.Stderr, "Usage: zontool <command> [args]")
	fmt.Fprintln(os.Stderr, "Commands:")
	for _, name := range names {
		c := byName[name]
		head := strings.TrimSpace(c.name + " " + c.usage)
		padding := strings.Repeat(" ", maxLen-len(head)+2)
		fmt.Fprintf(os.Stderr, "  %s%s%s\n", head, padding, c.desc)
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
