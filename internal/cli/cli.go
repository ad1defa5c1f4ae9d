package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/chamilad/trashbin/internal/config"
	"github.com/chamilad/trashbin/internal/env"
	debuglog "github.com/chamilad/trashbin/internal/log"
	"github.com/chamilad/trashbin/internal/trash"
	"github.com/charmbracelet/log"
	"github.com/jessevdk/go-flags"
	"github.com/rs/xid"
)

type Option struct {
	Restore bool   `short:"b" long:"restore" description:"Restore trashed files (optionally by original path)"`
	List    string `long:"list" description:"List trashed files, ordered by date, size, name or device" optional:"yes" optional-value:"default"`
	Empty   bool   `long:"empty" description:"Permanently delete everything in the trash"`
	Prune   string `long:"prune" description:"Clean up trash metadata (e.g. orphans)"`
	Config  string `long:"config" description:"Path to config file" default:""`

	Meta MetaOption `group:"Meta Options"`
	Rm   RmOption   `group:"Compatible (rm) Options"`
}

type MetaOption struct {
	Version bool   `short:"V" long:"version" description:"Show version"`
	Debug   string `long:"debug" description:"View debug logs (default: \"full\")" optional-value:"full" optional:"yes" choice:"full" choice:"live"`
}

// RmOption mirrors the rm command line. Interactive, force and verbose are
// honored; the recursion flags are accepted for drop-in compatibility but
// trashing a directory always takes the whole tree.
type RmOption struct {
	Interactive bool `short:"i" description:"prompt before every removal"`
	Recursive   bool `short:"r" long:"recursive" description:"(dummy) remove directories and their contents recursively"`
	Recursive2  bool `short:"R" description:"(dummy) same as -r"`
	Force       bool `short:"f" long:"force" description:"ignore nonexistent files, never prompt"`
	Directory   bool `short:"d" long:"dir" description:"(dummy) remove empty directories"`
	Verbose     bool `short:"v" long:"verbose" description:"explain what is being done"`
}

type CLI struct {
	version Version
	option  Option
	config  config.Config
	runID   string
}

var runID = sync.OnceValue(func() string {
	id := xid.New().String()
	return id
})

// errUsage marks argument errors that map to the invalid-arguments exit
// code.
var errUsage = errors.New("invalid usage")

// reportedError wraps a failure that was already printed to stderr; the
// entry point only maps it to an exit code.
type reportedError struct{ err error }

func (e reportedError) Error() string { return e.err.Error() }
func (e reportedError) Unwrap() error { return e.err }

// Exit codes. Anything unexpected falls through to ExitUnexpected.
const (
	ExitOK          = 0
	ExitInvalidArgs = 1
	ExitUnsupported = 2
	ExitUnexpected  = 255
)

// ExitCode maps an error to the process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, errUsage), trash.IsNotFound(err):
		return ExitInvalidArgs
	case trash.IsUnsupportedRoot(err),
		trash.IsPermissionDenied(err),
		errors.Is(err, trash.ErrInvalidRoot),
		errors.Is(err, trash.ErrTrashingTrash):
		return ExitUnsupported
	default:
		return ExitUnexpected
	}
}

// Run parses arguments, dispatches the selected command and returns the
// process exit code.
func Run(v Version) int {
	err := run(v)
	if err == nil {
		return ExitOK
	}

	var reported reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", v.AppName, err)
	}
	slog.Error("exit", "error", err)
	return ExitCode(err)
}

func run(v Version) error {
	var opt Option
	parser := flags.NewParser(&opt, flags.Default)
	parser.Name = v.AppName
	parser.Usage = "[OPTIONS] files..."
	args, err := parser.Parse()
	if err != nil {
		if flags.WroteHelp(err) {
			return nil
		}
		// go-flags already printed the message
		return reportedError{fmt.Errorf("%w: %v", errUsage, err)}
	}

	if err := setupLogger(opt, v); err != nil {
		return err
	}
	defer slog.Debug("main function finished\n\n\n")
	slog.Debug("main function started",
		"version", v.Version, "revision", v.Revision, "buildDate", v.BuildDate)

	cfg, err := config.Parse(opt.Config)
	if err != nil {
		return err
	}

	cli := CLI{
		version: v,
		option:  opt,
		config:  cfg,
		runID:   runID(),
	}
	return cli.Run(args)
}

func setupLogger(opt Option, v Version) error {
	logDir := filepath.Dir(env.TRASH_LOG_PATH)
	if _, err := os.Stat(logDir); os.IsNotExist(err) {
		if err := os.MkdirAll(logDir, 0755); err != nil {
			return err
		}
	}

	var w io.Writer
	if file, err := os.OpenFile(env.TRASH_LOG_PATH, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
		w = file
	} else {
		w = os.Stderr
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Level:           log.DebugLevel,
		Formatter: func() log.Formatter {
			if strings.ToLower(opt.Meta.Debug) == "json" {
				return log.JSONFormatter
			}
			return log.TextFormatter
		}(),
	})
	logger.SetOutput(w)
	logger.With("run_id", runID())
	slog.SetDefault(slog.New(logger))
	return nil
}

func (c CLI) Run(args []string) error {
	switch {
	case c.option.Meta.Version:
		fmt.Fprint(os.Stdout, c.version.Print())
		return nil

	case c.option.Restore:
		return c.Restore(args)

	case c.option.List != "":
		return c.List(c.option.List)

	case c.option.Empty:
		return c.Empty()

	case c.option.Prune != "":
		return c.Prune(c.option.Prune)

	default:
		switch c.option.Meta.Debug {
		case "live":
			return debuglog.Logs(os.Stdout, true)
		case "full":
			return debuglog.Logs(os.Stdout, false)
		}
		return c.Put(args)
	}
}

// resolveRoot picks the trash root for a file about to be trashed, honoring
// the home_only override.
func (c CLI) resolveRoot(absPath string) (*trash.Root, error) {
	if c.config.Core.Trash.HomeOnly {
		return trash.ResolveHomeRoot()
	}
	return trash.ResolveRoot(absPath)
}

func (c CLI) filterOptions() trash.FilterOptions {
	return trash.FilterOptions{
		Include: c.config.Listing.Include,
		Exclude: c.config.Listing.Exclude,
	}
}
