package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v3"

	"github.com/klauern/cusubmit/internal/backup"
	"github.com/klauern/cusubmit/internal/ui"
	"github.com/klauern/cusubmit/internal/ui/tui"
	"github.com/klauern/cusubmit/internal/util"
)

func (e *env) backups() *backup.Manager {
	return backup.NewManager(e.fs, util.ExpandPath(e.cfg.Backup.Location, ""))
}

func backupCommand(e *env) *cli.Command {
	return &cli.Command{
		Name:  "backup",
		Usage: "Manage backups of destination record files",
		Commands: []*cli.Command{
			{
				Name:  "browse",
				Usage: "Pick a backup to restore, delete, or verify",
				Action: func(_ context.Context, _ *cli.Command) error {
					if e.interactive == nil || !e.interactive() {
						return errors.New("browse needs a terminal; use backup list instead")
					}
					return e.browseBackups()
				},
			},
			{
				Name:      "list",
				Usage:     "List backups, newest first",
				UsageText: "cusubmit backup list [--snapshot DIR]",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "snapshot",
						Usage: "Only list backups taken from this snapshot",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					snapshot := cmd.String("snapshot")
					if snapshot != "" {
						snapshot = util.ExpandPath(snapshot, "")
					}
					list, err := e.backups().List(snapshot)
					if err != nil {
						return err
					}
					if len(list) == 0 {
						fmt.Fprintln(e.out, "No backups found")
						return nil
					}
					for _, b := range list {
						fmt.Fprintf(e.out, "%s  %s  %s  %s\n",
							ui.Bold(b.ID), b.CreatedAt.Format(time.DateTime), b.SourcePath, ui.Dim(strings.Join(b.Tags, ",")))
					}
					return nil
				},
			},
			{
				Name:      "restore",
				Usage:     "Restore a backup over its original file or a given path",
				UsageText: "cusubmit backup restore <id> [target]",
				Action: func(_ context.Context, cmd *cli.Command) error {
					args := cmd.Args()
					if args.Len() < 1 || args.Len() > 2 {
						return errors.New("restore requires <id> and an optional [target]")
					}
					id, target := args.Get(0), args.Get(1)
					if target != "" {
						target = util.ExpandPath(target, "")
					}
					if err := e.backups().Restore(id, target); err != nil {
						return err
					}
					fmt.Fprintln(e.out, ui.StatusSuccess("Restored "+id))
					return nil
				},
			},
			{
				Name:      "verify",
				Usage:     "Check a backup against its recorded hash",
				UsageText: "cusubmit backup verify <id>",
				Action: func(_ context.Context, cmd *cli.Command) error {
					if cmd.Args().Len() != 1 {
						return errors.New("verify requires exactly 1 argument: <id>")
					}
					id := cmd.Args().First()
					if err := e.backups().Verify(id); err != nil {
						return err
					}
					fmt.Fprintln(e.out, ui.StatusSuccess(id+" is intact"))
					return nil
				},
			},
			{
				Name:  "cleanup",
				Usage: "Delete old backups",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "max",
						Usage: "Backups to keep per file (defaults to backup.max_backups)",
					},
					&cli.DurationFlag{
						Name:  "max-age",
						Usage: "Delete backups older than this",
						Value: backup.DefaultCleanupOptions().MaxAge,
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "Show what would be deleted",
					},
				},
				Action: func(_ context.Context, cmd *cli.Command) error {
					opts := backup.DefaultCleanupOptions()
					opts.MaxBackups = e.cfg.Backup.MaxBackups
					if cmd.IsSet("max") {
						opts.MaxBackups = int(cmd.Int("max"))
					}
					opts.MaxAge = cmd.Duration("max-age")
					opts.DryRun = cmd.Bool("dry-run")

					deleted, err := e.backups().Cleanup(opts)
					if err != nil {
						return err
					}
					verb := "Deleted"
					if opts.DryRun {
						verb = "Would delete"
					}
					fmt.Fprintf(e.out, "%s %d backup(s)\n", verb, len(deleted))
					for _, id := range deleted {
						fmt.Fprintf(e.out, "  %s\n", id)
					}
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "Summarize stored backups",
				Action: func(_ context.Context, _ *cli.Command) error {
					stats, err := e.backups().Stats()
					if err != nil {
						return err
					}
					fmt.Fprintf(e.out, "%s %s\n", ui.Header("Backups:"), e.backups().Dir())
					fmt.Fprintf(e.out, "  total: %d (%s)\n", stats.TotalBackups, humanize.IBytes(uint64(max(stats.TotalSize, 0))))
					if stats.TotalBackups > 0 {
						fmt.Fprintf(e.out, "  oldest: %s (%s)\n", stats.OldestBackup.Format(time.DateTime), humanize.Time(stats.OldestBackup))
						fmt.Fprintf(e.out, "  newest: %s (%s)\n", stats.NewestBackup.Format(time.DateTime), humanize.Time(stats.NewestBackup))
					}
					for snapshot, n := range stats.BackupsBySnapshot {
						fmt.Fprintf(e.out, "  %s: %d\n", snapshot, n)
					}
					return nil
				},
			},
		},
	}
}

func (e *env) browseBackups() error {
	manager := e.backups()
	list, err := manager.List("")
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(e.out, "No backups found")
		return nil
	}

	choice, err := tui.RunBackupList(list)
	if err != nil {
		return fmt.Errorf("backup browser failed: %w", err)
	}

	id := choice.Backup.ID
	switch choice.Action {
	case tui.BackupRestore:
		if err := manager.Restore(id, ""); err != nil {
			return err
		}
		fmt.Fprintln(e.out, ui.StatusSuccess(fmt.Sprintf("Restored %s to %s", id, choice.Backup.SourcePath)))
	case tui.BackupDelete:
		if err := manager.Delete(id); err != nil {
			return err
		}
		fmt.Fprintln(e.out, ui.StatusSuccess("Deleted "+id))
	case tui.BackupVerify:
		if err := manager.Verify(id); err != nil {
			fmt.Fprintln(e.out, ui.StatusError(fmt.Sprintf("%s: %v", id, err)))
			return err
		}
		fmt.Fprintln(e.out, ui.StatusSuccess(id+" is intact"))
	}
	return nil
}
