// Package cli provides the command-line interface for cusubmit.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"

	"github.com/klauern/cusubmit/internal/config"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/ui"
	"github.com/klauern/cusubmit/internal/util"
)

var (
	// Version is the current version of the application.
	Version = "dev"
	// Commit is the git commit hash.
	Commit = "unknown"
	// BuildDate is the date and time of the build.
	BuildDate = "unknown"
)

// env is what commands read from and write to.
type env struct {
	fs     afero.Fs
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	// interactive reports whether the review screen can be shown.
	interactive func() bool

	// cfg is loaded by the root Before hook.
	cfg     *config.Config
	cfgPath string
}

func defaultEnv() *env {
	return &env{
		fs:     afero.NewOsFs(),
		in:     os.Stdin,
		out:    os.Stdout,
		errOut: os.Stderr,
		interactive: func() bool {
			// #nosec G115 - file descriptors fit in int
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}
}

// Run executes the CLI application with the given context and arguments.
func Run(ctx context.Context, args []string) error {
	return newApp(defaultEnv()).Run(ctx, args)
}

func newApp(e *env) *cli.Command {
	return &cli.Command{
		Name:      "cusubmit",
		Usage:     "Scan, transfer, and submit changes between game project snapshots",
		Version:   Version,
		Writer:    e.out,
		ErrWriter: e.errOut,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output (info level logging)",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug output (debug level logging, implies verbose)",
			},
			&cli.BoolFlag{
				Name:  "log-json",
				Usage: "Write logs as JSON",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to the config file",
			},
			&cli.StringFlag{
				Name:  "developer",
				Usage: "Developer name stamped on the changelog",
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			if err := configureLogging(cmd, e.errOut); err != nil {
				return ctx, err
			}
			if err := e.loadConfig(cmd); err != nil {
				return ctx, err
			}
			return ctx, configureColors(cmd, e.cfg)
		},
		Commands: []*cli.Command{
			versionCommand(),
			configCommand(e),
			scanCommand(e),
			transferCommand(e),
			submitCommand(e),
			backupCommand(e),
		},
	}
}

// loadConfig reads the config file named by --config, or the default file.
// A missing file yields the defaults.
func (e *env) loadConfig(cmd *cli.Command) error {
	var err error
	if path := cmd.String("config"); path != "" {
		e.cfgPath = util.ExpandPath(path, "")
		e.cfg, err = config.LoadOrDefault(e.cfgPath)
	} else {
		e.cfgPath = config.FilePath()
		e.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", e.cfgPath, err)
	}

	if dev := cmd.String("developer"); dev != "" {
		e.cfg.Developer.Name = dev
	}
	return nil
}

// configureColors applies output.color, with --no-color taking precedence.
func configureColors(cmd *cli.Command, cfg *config.Config) error {
	if cmd.Bool("no-color") {
		ui.DisableColors()
		return nil
	}
	return ui.ConfigureColors(cfg.Output.Color)
}

// configureLogging sets up the logging level based on CLI flags.
// Without flags only warnings and errors are shown.
func configureLogging(cmd *cli.Command, w io.Writer) error {
	opts := logging.DefaultOptions()
	opts.Output = w
	opts.Level = slog.LevelWarn
	opts.JSON = cmd.Bool("log-json")

	if cmd.Bool("debug") {
		opts.Level = slog.LevelDebug
		opts.AddSource = true
	} else if cmd.Bool("verbose") {
		opts.Level = slog.LevelInfo
	}

	logger := logging.New(opts)
	logging.SetDefault(logger)

	logging.Debug("logging configured", slog.String("level", opts.Level.String()))

	return nil
}
