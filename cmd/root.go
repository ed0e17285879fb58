// Package cmd implements the CLI command structure for tasklist.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasklist-go/internal/config"
	"github.com/nibzard/tasklist-go/internal/logging"
	"github.com/nibzard/tasklist-go/internal/ui"
)

// Version is set via ldflags at build time.
var Version = "dev"

// app carries the loaded configuration and output streams to commands.
type app struct {
	cfg     *config.Config
	sources *config.ConfigWithSources
	stdout  io.Writer
	stderr  io.Writer
	logger  *log.Logger
}

// Run executes the tasklist CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Create a flag set for global options
	fs := flag.NewFlagSet("tasklist", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}

	a := &app{
		cfg:     cws.Config,
		sources: cws,
		stdout:  stdout,
		stderr:  stderr,
		logger:  logging.New(stderr, cws.Config.Logging("tasklist")),
	}
	if *showVersion {
		return a.versionCommand()
	}

	// Determine the subcommand. Without one, open the TUI on a terminal and
	// list tasks otherwise.
	subcommand := "ls"
	if ui.IsTTY(os.Stdout) && stdout == os.Stdout {
		subcommand = "tui"
	}
	remaining := fs.Args()
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		subcommand = remaining[0]
		remaining = remaining[1:]
	}

	switch subcommand {
	case "tui":
		return a.tuiCommand(ctx, remaining)
	case "add":
		return a.addCommand(ctx, remaining)
	case "ls", "list":
		return a.lsCommand(ctx, remaining)
	case "toggle":
		return a.toggleCommand(ctx, remaining)
	case "rm", "delete":
		return a.rmCommand(ctx, remaining)
	case "count":
		return a.countCommand(ctx, remaining)
	case "export":
		return a.exportCommand(ctx, remaining)
	case "doctor":
		return a.doctorCommand(ctx, remaining)
	case "logs", "tail":
		return a.logsCommand(ctx, remaining)
	case "init":
		return a.initCommand(ctx, remaining)
	case "config":
		return a.configCommand(remaining)
	case "version":
		return a.versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func (a *app) versionCommand() error {
	fmt.Fprintf(a.stdout, "tasklist %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasklist - A small persistent to-do list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasklist [global options] [command] [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui           Launch terminal UI (default on a terminal)")
	fmt.Fprintln(w, "  add <text>    Add a task")
	fmt.Fprintln(w, "  ls            List tasks (default otherwise)")
	fmt.Fprintln(w, "  toggle <id>   Mark a task done or not done")
	fmt.Fprintln(w, "  rm <id>       Delete a task")
	fmt.Fprintln(w, "  count         Print the task count line")
	fmt.Fprintln(w, "  export        Write the list as an HTML page")
	fmt.Fprintln(w, "  doctor        Check config and stored data")
	fmt.Fprintln(w, "  logs, tail    Show terminal UI session logs")
	fmt.Fprintln(w, "  init          Create .tasklist with a config file")
	fmt.Fprintln(w, "  config        Print an example config file")
	fmt.Fprintln(w, "  version       Show version information")
	fmt.Fprintln(w, "  help          Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options:")
	fmt.Fprintln(w, "  -done         Only completed tasks")
	fmt.Fprintln(w, "  -pending      Only open tasks")
	fmt.Fprintln(w, "  -json         Print JSON instead of text")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Export Options:")
	fmt.Fprintln(w, "  -o string     Output file (default stdout)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options:")
	fmt.Fprintln(w, "  -f, -follow   Follow the latest log (like tail -f)")
	fmt.Fprintln(w, "  -n int        Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list         List session logs instead")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options:")
	fmt.Fprintln(w, "  -show         Print effective settings and where they came from")
}

// newFlagSet creates a subcommand flag set that reports to the app's stderr.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("tasklist "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}
