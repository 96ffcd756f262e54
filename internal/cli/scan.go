package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cusubmit/internal/export"
	"github.com/klauern/cusubmit/internal/ui"
	"github.com/klauern/cusubmit/internal/workflow"
)

func (e *env) session(opts workflow.Options) *workflow.Session {
	return workflow.New(e.fs, workflow.StoreFromConfig(e.fs, e.cfg), opts)
}

func scanCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Generate the changelog between two snapshots",
		UsageText: "cusubmit scan [options] <base> <modified>",
		Description: `Compare a base snapshot with a modified one and write the changelog.

   The text format is written to a new file in --out (never overwriting an
   earlier changelog). JSON and YAML are written to standard output.

   Examples:
     cusubmit scan ./devbuild ./mybuild
     cusubmit scan --format json ./devbuild ./mybuild > changes.json`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Changelog format (text, json, yaml); defaults to output.format",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory for the text changelog",
				Value:   ".",
			},
			&cli.BoolFlag{
				Name:  "print",
				Usage: "Also print the text changelog",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 2 {
				return errors.New("scan requires exactly 2 arguments: <base> <modified>")
			}

			formatName := cmd.String("format")
			if formatName == "" {
				formatName = e.cfg.Output.Format
			}
			format, err := export.ParseFormat(formatName)
			if err != nil {
				return err
			}

			sess := e.session(workflow.OptionsFromConfig(e.fs, e.cfg))
			cl, err := sess.Scan(ctx, args.Get(0), args.Get(1))
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if format != export.FormatText {
				return export.New(export.Options{Format: format, Pretty: true}).Export(cl, e.out)
			}

			if cmd.Bool("print") {
				fmt.Fprintln(e.out, ui.Changelog(strings.TrimRight(export.Text(cl), "\n")))
			}
			path, err := export.WriteTextFile(e.fs, cmd.String("out"), cl)
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, ui.StatusSuccess(fmt.Sprintf("Changelog written to %s (%d entries)", path, cl.Count())))
			return nil
		},
	}
}
