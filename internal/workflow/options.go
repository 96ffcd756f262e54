package workflow

import (
	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/backup"
	"github.com/klauern/cusubmit/internal/config"
	"github.com/klauern/cusubmit/internal/diff"
	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/submit"
	"github.com/klauern/cusubmit/internal/transfer"
	"github.com/klauern/cusubmit/internal/util"
)

// Options configures a Session.
type Options struct {
	// Scan configures changelog generation.
	Scan diff.Options

	// Submit configures packaging.
	Submit submit.Options

	// OutputDir is the directory submission packages are created in.
	OutputDir string

	// Backups, when set, receives a copy of the destination database and
	// map-tree before a transfer rewrites them.
	Backups *backup.Manager

	// MaxBackups caps the backups kept per record file after each transfer (0 = unlimited).
	MaxBackups int

	// Progress reports transfer progress.
	Progress transfer.ProgressFunc
}

// OptionsFromConfig maps a loaded configuration onto session options.
func OptionsFromConfig(fs afero.Fs, cfg *config.Config) Options {
	scan := diff.DefaultOptions()
	scan.Developer = cfg.DeveloperName()
	scan.Summary = cfg.Developer.Summary
	scan.MapPolicy = cfg.Developer.MapPolicy
	scan.AssetPolicy = cfg.Developer.AssetPolicy
	scan.BGMExcludedMaps = cfg.Scan.BGMExcludedMaps
	scan.MinMapNameLength = cfg.Scan.MinMapNameLength
	scan.StrictIDs = cfg.Scan.StrictIDs

	opts := Options{
		Scan:       scan,
		Submit:     submit.Options{Compress: cfg.Submit.Compress},
		OutputDir:  util.ExpandPath(cfg.Submit.OutputDir, ""),
		MaxBackups: cfg.Backup.MaxBackups,
	}
	if cfg.Transfer.Backup {
		opts.Backups = backup.NewManager(fs, util.ExpandPath(cfg.Backup.Location, ""))
	}
	return opts
}

// StoreFromConfig returns the record store configured for transfers.
func StoreFromConfig(fs afero.Fs, cfg *config.Config) lcf.Store {
	return lcf.NewYAMLStore(fs).WithAtomicWrites(cfg.Transfer.AtomicWrites)
}
