package submit

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/archive"
	"github.com/klauern/cusubmit/internal/export"
	"github.com/klauern/cusubmit/internal/lcf"
	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
	"github.com/klauern/cusubmit/internal/transfer"
	"github.com/klauern/cusubmit/internal/validation"
)

// Options configures packaging.
type Options struct {
	// Compress additionally archives the package directory.
	Compress bool

	// Format is the archive format used when Compress is set (default zip).
	Format archive.Format

	// Now returns the creation time recorded in the manifest.
	Now func() time.Time

	// NewID returns the submission id (default: a random UUID).
	NewID func() string
}

// Result describes a written package.
type Result struct {
	// Dir is the package directory.
	Dir string

	// Archive is the compressed package, if one was requested.
	Archive string

	// Changelog is the path of the changelog text inside the package.
	Changelog string

	// Manifest is what was written to submission.toml.
	Manifest *Manifest
}

// Packager writes submission packages.
type Packager struct {
	fs   afero.Fs
	opts Options
}

// NewPackager creates a Packager writing through fs.
func NewPackager(fs afero.Fs, opts Options) *Packager {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	if opts.Format == "" {
		opts.Format = archive.FormatZip
	}
	return &Packager{fs: fs, opts: opts}
}

// DefaultName returns the package name used when none is given:
// <developer>_submission_<DDMonYYYY>.
func DefaultName(cl *model.Changelog) string {
	return fmt.Sprintf("%s_submission_%s", export.SafeName(cl.Developer), model.CompactDate(cl.Date))
}

// Package writes the package for cl under outputDir. Content is copied from the
// modified snapshot. An empty name selects DefaultName.
//
// Any failure aborts with an *model.IOError; files already written are left in place.
func (p *Packager) Package(ctx context.Context, cl *model.Changelog, modified, outputDir, name string) (*Result, error) {
	defer logging.Timer("submit")()

	if name == "" {
		name = DefaultName(cl)
	}
	dir := filepath.Join(outputDir, name)

	logging.Info("packaging submission",
		logging.Operation("submit"),
		logging.Path(dir),
		slog.String("modified", modified),
		logging.Count(cl.Count()),
	)

	if err := validation.ValidateSnapshot(p.fs, modified, "modified"); err != nil {
		return nil, err
	}
	check, err := validation.ValidateOutputDir(p.fs, dir)
	if err != nil {
		return nil, &model.IOError{Op: "create package directory", Path: dir, Err: err}
	}
	for _, w := range check.Warnings {
		logging.Warn(w, logging.Path(dir))
	}

	b := &builder{fs: p.fs, modified: modified, dir: dir}
	steps := []func() error{
		b.mkdirs,
		b.copyRecordFiles,
		func() error { return b.copyMaps(cl.Maps) },
		func() error { return b.copyAssets(cl) },
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := step(); err != nil {
			logging.Error("submission aborted", logging.Path(dir), logging.Err(err))
			return nil, err
		}
	}

	changelog, err := export.WriteTextFile(p.fs, dir, cl)
	if err != nil {
		return nil, err
	}

	manifest := &Manifest{
		Version:   ManifestVersion,
		ID:        p.opts.NewID(),
		Developer: cl.Developer,
		Date:      model.DateString(cl.Date),
		CreatedAt: p.opts.Now().UTC(),
		Summary:   cl.Summary,
		Changelog: filepath.Base(changelog),
		Counts:    CountsOf(cl),
		Files:     b.files,
	}
	manifestPath := filepath.Join(dir, ManifestFile)
	if err := WriteManifest(p.fs, manifestPath, manifest); err != nil {
		return nil, &model.IOError{Op: "write manifest", Path: manifestPath, Err: err}
	}

	result := &Result{Dir: dir, Changelog: changelog, Manifest: manifest}

	if p.opts.Compress {
		dst := dir + p.opts.Format.Extension()
		n, err := archive.CreateFile(p.fs, dir, dst, archive.CreateOptions{Format: p.opts.Format, Prefix: name})
		if err != nil {
			return nil, &model.IOError{Op: "compress package", Path: dst, Err: err}
		}
		logging.Info("package compressed", logging.Path(dst), logging.Count(n))
		result.Archive = dst
	}

	logging.Info("submission packaged",
		logging.Path(dir),
		logging.Count(len(b.files)),
		slog.String("submission_id", manifest.ID),
	)
	return result, nil
}

// builder copies package content and remembers what it wrote, relative to dir.
type builder struct {
	fs       afero.Fs
	modified string
	dir      string
	files    []string
}

func (b *builder) mkdirs() error {
	for _, info := range model.Categories() {
		path := filepath.Join(b.dir, info.Folder)
		if err := b.fs.MkdirAll(path, 0o750); err != nil {
			return &model.IOError{Op: "create package directory", Path: path, Err: err}
		}
	}
	return nil
}

func (b *builder) copy(src, relDir string) error {
	dst, err := transfer.CopyInto(b.fs, src, filepath.Join(b.dir, relDir))
	if err != nil {
		return &model.IOError{Op: "copy into package", Path: src, Err: err}
	}
	rel, _ := filepath.Rel(b.dir, dst)
	b.files = append(b.files, filepath.ToSlash(rel))
	return nil
}

func (b *builder) copyRecordFiles() error {
	for _, src := range []string{lcf.DatabasePath(b.modified), lcf.MapTreePath(b.modified)} {
		if err := b.copy(src, ""); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) copyMaps(maps []model.Map) error {
	for _, m := range maps {
		if m.Status == model.StatusRemoved {
			continue
		}
		if err := b.copy(lcf.MapPath(b.modified, m.ID), ""); err != nil {
			return err
		}
		logging.Debug("packaged map", logging.Map(m.ID))
	}
	return nil
}

func (b *builder) copyAssets(cl *model.Changelog) error {
	for _, info := range model.Categories() {
		for _, asset := range cl.AssetsFor(info.Category) {
			if asset.Status == model.StatusRemoved {
				continue
			}
			src := filepath.Join(b.modified, info.Folder, asset.Filename)
			if err := b.copy(src, info.Folder); err != nil {
				return err
			}
		}
	}
	return nil
}
