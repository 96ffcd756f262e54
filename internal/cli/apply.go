package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/urfave/cli/v3"

	"github.com/klauern/cusubmit/internal/archive"
	"github.com/klauern/cusubmit/internal/progress"
	"github.com/klauern/cusubmit/internal/submit"
	"github.com/klauern/cusubmit/internal/transfer"
	"github.com/klauern/cusubmit/internal/ui"
	"github.com/klauern/cusubmit/internal/validation"
	"github.com/klauern/cusubmit/internal/workflow"
)

func transferCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "transfer",
		Usage:     "Apply the changes between two snapshots to a destination snapshot",
		UsageText: "cusubmit transfer [options] <base> <modified> <destination>",
		Description: `Scan base against modified, then copy every changed asset, map, and
   database entry from modified into destination. Removed assets are deleted
   and removed maps and entries are reset to blanks.

   The destination database and map-tree are backed up before they are
   rewritten. The changelog is written next to the destination afterwards.

   Examples:
     cusubmit transfer ./devbuild ./mybuild ./master
     cusubmit transfer --yes --no-backup ./devbuild ./mybuild ./master`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation",
			},
			&cli.BoolFlag{
				Name:  "no-backup",
				Usage: "Do not back up the destination record files",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() != 3 {
				return errors.New("transfer requires exactly 3 arguments: <base> <modified> <destination>")
			}
			destination := args.Get(2)

			check, err := validation.ValidateDestination(e.fs, destination)
			if err != nil {
				return fmt.Errorf("destination validation failed: %w", err)
			}
			for _, w := range check.Warnings {
				fmt.Fprintln(e.errOut, ui.StatusWarning(w))
			}

			if cmd.Bool("no-backup") {
				e.cfg.Transfer.Backup = false
			}
			opts := workflow.OptionsFromConfig(e.fs, e.cfg)
			bar := progress.New(progress.Options{Description: "Transferring", Writer: e.errOut})
			opts.Progress = bar.Report
			sess := e.session(opts)

			cl, err := sess.Scan(ctx, args.Get(0), args.Get(1))
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if cl.IsEmpty() {
				fmt.Fprintln(e.out, ui.StatusSkipped("No differences found"))
				return nil
			}

			ok, err := e.confirm(cl, "transfer", destination, cmd.Bool("yes"))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(e.out, ui.StatusSkipped("Transfer cancelled"))
				return nil
			}

			result, err := sess.Transfer(ctx, destination)
			_ = bar.Finish()
			if result != nil {
				printTransferResult(e, result)
			}
			if err != nil {
				return fmt.Errorf("transfer failed: %w", err)
			}

			path, err := sess.ExportChangelog()
			if err != nil {
				return err
			}
			fmt.Fprintln(e.out, ui.StatusSuccess("Changelog written to "+path))

			if failed := result.Failed(); len(failed) > 0 {
				return fmt.Errorf("%d entries could not be transferred", len(failed))
			}
			return nil
		},
	}
}

func printTransferResult(e *env, r *transfer.Result) {
	fmt.Fprintf(e.out, "%s %s -> %s\n", ui.Header("Transfer"), r.Origin, r.Destination)
	fmt.Fprintf(e.out, "  copied: %d  deleted: %d  reset: %d  failed: %d\n",
		len(r.Copied()), len(r.Deleted()), len(r.Reset()), len(r.Failed()))

	for _, f := range []transfer.FileResult{r.Database, r.MapTree} {
		switch {
		case f.Error != nil:
			fmt.Fprintln(e.out, ui.StatusError(f.String()))
		case f.Written && f.Backup != "":
			fmt.Fprintln(e.out, ui.StatusSuccess(fmt.Sprintf("%s (backup %s)", f.Path, f.Backup)))
		case f.Written:
			fmt.Fprintln(e.out, ui.StatusSuccess(f.Path))
		}
	}
	for _, item := range r.Failed() {
		fmt.Fprintln(e.out, ui.StatusError(fmt.Sprintf("%s: %v", item.Label(), item.Error)))
	}
}

func submitCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:      "submit",
		Usage:     "Package the changes between two snapshots for review",
		UsageText: "cusubmit submit [options] <base> <modified> [name]",
		Description: `Scan base against modified and copy the added and modified content
   into a new package directory together with the changelog and a
   submission.toml manifest. The name defaults to
   <developer>_submission_<DDMonYYYY>.

   Examples:
     cusubmit submit ./devbuild ./mybuild
     cusubmit submit --zip --out ./submissions ./devbuild ./mybuild`,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip the confirmation",
			},
			&cli.BoolFlag{
				Name:  "zip",
				Usage: "Also compress the package (defaults to submit.compress)",
			},
			&cli.StringFlag{
				Name:  "archive-format",
				Usage: "Archive format when compressing (zip, tar.gz)",
				Value: "zip",
			},
			&cli.StringFlag{
				Name:    "out",
				Aliases: []string{"o"},
				Usage:   "Directory to create the package in (defaults to submit.output_dir)",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args()
			if args.Len() < 2 || args.Len() > 3 {
				return errors.New("submit requires 2 or 3 arguments: <base> <modified> [name]")
			}
			name := args.Get(2)

			format, err := archive.ParseFormat(cmd.String("archive-format"))
			if err != nil {
				return err
			}

			opts := workflow.OptionsFromConfig(e.fs, e.cfg)
			opts.Submit.Format = format
			if cmd.Bool("zip") {
				opts.Submit.Compress = true
			}
			if out := cmd.String("out"); out != "" {
				opts.OutputDir = out
			}
			sess := e.session(opts)

			cl, err := sess.Scan(ctx, args.Get(0), args.Get(1))
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}
			if cl.IsEmpty() {
				fmt.Fprintln(e.out, ui.StatusSkipped("No differences found"))
				return nil
			}

			target := name
			if target == "" {
				target = submit.DefaultName(cl)
			}
			ok, err := e.confirm(cl, "submit", filepath.Join(opts.OutputDir, target), cmd.Bool("yes"))
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(e.out, ui.StatusSkipped("Submission cancelled"))
				return nil
			}

			result, err := sess.Submit(ctx, name)
			if err != nil {
				return fmt.Errorf("submission failed: %w", err)
			}

			fmt.Fprintln(e.out, ui.StatusSuccess(fmt.Sprintf("Package written to %s (%d files)", result.Dir, len(result.Manifest.Files))))
			if result.Archive != "" {
				fmt.Fprintln(e.out, ui.StatusSuccess("Archive written to "+result.Archive))
			}
			fmt.Fprintf(e.out, "  submission id: %s\n", result.Manifest.ID)
			return nil
		},
	}
}
