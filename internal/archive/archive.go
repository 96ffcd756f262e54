// Package archive compresses a submission directory into a single file and
// unpacks it again.
package archive

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/logging"
)

// Format is an archive container format.
type Format string

const (
	// FormatZip writes a .zip archive.
	FormatZip Format = "zip"
	// FormatTarGz writes a gzip-compressed tarball.
	FormatTarGz Format = "tar.gz"
)

// Extension returns the file extension for the format, including the dot.
func (f Format) Extension() string {
	return "." + string(f)
}

// IsValid returns true if the format is supported.
func (f Format) IsValid() bool {
	return f == FormatZip || f == FormatTarGz
}

// ParseFormat parses a format name. An empty string selects zip.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "zip":
		return FormatZip, nil
	case "tar.gz", "tgz":
		return FormatTarGz, nil
	default:
		return "", fmt.Errorf("unknown archive format %q (valid: zip, tar.gz)", s)
	}
}

// CreateOptions configures archive creation
type CreateOptions struct {
	Format Format // Container format (default zip)
	Prefix string // Directory name entries are stored under (default: base name of the source)
}

// entry is a regular file found under the source directory.
type entry struct {
	path string // filesystem path
	name string // slash-separated name inside the archive
	info os.FileInfo
}

// Create writes every regular file under dir into w and returns the number of files stored.
func Create(afs afero.Fs, dir string, w io.Writer, opts CreateOptions) (int, error) {
	if opts.Format == "" {
		opts.Format = FormatZip
	}
	if !opts.Format.IsValid() {
		return 0, fmt.Errorf("unsupported archive format %q", opts.Format)
	}
	prefix := opts.Prefix
	if prefix == "" {
		prefix = filepath.Base(filepath.Clean(dir))
	}

	entries, err := collect(afs, dir, prefix)
	if err != nil {
		return 0, err
	}

	switch opts.Format {
	case FormatTarGz:
		err = writeTarGz(afs, entries, w)
	default:
		err = writeZip(afs, entries, w)
	}
	if err != nil {
		return 0, err
	}

	logging.Debug("archive created",
		logging.Path(dir),
		logging.Count(len(entries)),
		logging.Operation("archive"),
	)
	return len(entries), nil
}

// CreateFile archives dir into a new file at dst. The file is removed again on failure.
func CreateFile(afs afero.Fs, dir, dst string, opts CreateOptions) (int, error) {
	// #nosec G302 - archives are shared deliverables
	f, err := afs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("failed to create archive %q: %w", dst, err)
	}

	n, err := Create(afs, dir, f, opts)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close archive %q: %w", dst, closeErr)
	}
	if err != nil {
		_ = afs.Remove(dst)
		return 0, err
	}
	return n, nil
}

func collect(afs afero.Fs, dir, prefix string) ([]entry, error) {
	var entries []entry
	err := afero.Walk(afs, dir, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return err
		}
		entries = append(entries, entry{
			path: p,
			name: path.Join(prefix, filepath.ToSlash(rel)),
			info: info,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %q: %w", dir, err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].name < entries[j].name })
	return entries, nil
}

func writeZip(afs afero.Fs, entries []entry, w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, e := range entries {
		header, err := zip.FileInfoHeader(e.info)
		if err != nil {
			return fmt.Errorf("failed to build zip header for %s: %w", e.name, err)
		}
		header.Name = e.name
		header.Method = zip.Deflate

		dst, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to write zip header for %s: %w", e.name, err)
		}
		if err := copyFrom(afs, e.path, dst); err != nil {
			return err
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish zip archive: %w", err)
	}
	return nil
}

func writeTarGz(afs afero.Fs, entries []entry, w io.Writer) error {
	gzWriter := gzip.NewWriter(w)
	tarWriter := tar.NewWriter(gzWriter)

	for _, e := range entries {
		header := &tar.Header{
			Name:    e.name,
			Mode:    int64(e.info.Mode().Perm()),
			Size:    e.info.Size(),
			ModTime: e.info.ModTime(),
		}
		if err := tarWriter.WriteHeader(header); err != nil {
			return fmt.Errorf("failed to write tar header for %s: %w", e.name, err)
		}
		if err := copyFrom(afs, e.path, tarWriter); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish tar archive: %w", err)
	}
	if err := gzWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return nil
}

func copyFrom(afs afero.Fs, p string, w io.Writer) error {
	f, err := afs.Open(p)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to archive %s: %w", p, err)
	}
	return nil
}

// Extract unpacks the archive at src into targetDir and returns the paths written.
// Entries that would land outside targetDir are rejected.
func Extract(afs afero.Fs, src, targetDir string, format Format) ([]string, error) {
	f, err := afs.Open(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive %q: %w", src, err)
	}
	defer func() { _ = f.Close() }()

	switch format {
	case FormatTarGz:
		return extractTarGz(afs, f, targetDir)
	case FormatZip, "":
		info, err := f.Stat()
		if err != nil {
			return nil, fmt.Errorf("failed to stat archive %q: %w", src, err)
		}
		return extractZip(afs, f, info.Size(), targetDir)
	default:
		return nil, fmt.Errorf("unsupported archive format %q", format)
	}
}

func extractZip(afs afero.Fs, r io.ReaderAt, size int64, targetDir string) ([]string, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to read zip archive: %w", err)
	}

	var written []string
	for _, zf := range zr.File {
		if zf.FileInfo().IsDir() {
			continue
		}
		rc, err := zf.Open()
		if err != nil {
			return written, fmt.Errorf("failed to open entry %s: %w", zf.Name, err)
		}
		p, err := writeEntry(afs, targetDir, zf.Name, zf.Mode(), rc)
		_ = rc.Close()
		if err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func extractTarGz(afs afero.Fs, r io.Reader, targetDir string) ([]string, error) {
	gzReader, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create gzip reader: %w", err)
	}
	defer func() { _ = gzReader.Close() }()

	tarReader := tar.NewReader(gzReader)
	var written []string
	for {
		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return written, fmt.Errorf("failed to read tar header: %w", err)
		}
		if header.Typeflag != tar.TypeReg {
			continue
		}
		p, err := writeEntry(afs, targetDir, header.Name, fs.FileMode(header.Mode).Perm(), tarReader)
		if err != nil {
			return written, err
		}
		written = append(written, p)
	}
	return written, nil
}

func writeEntry(afs afero.Fs, targetDir, name string, mode fs.FileMode, r io.Reader) (string, error) {
	target, err := safeJoin(targetDir, name)
	if err != nil {
		return "", err
	}
	if err := afs.MkdirAll(filepath.Dir(target), 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory for %s: %w", name, err)
	}
	if mode == 0 {
		mode = 0o644
	}
	f, err := afs.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target, err)
	}
	// #nosec G110 - archives are produced locally by Create
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("failed to extract %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", target, err)
	}
	return target, nil
}

// safeJoin resolves an archive entry name under dir.
func safeJoin(dir, name string) (string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))
	if clean == "/" || strings.Contains(name, "..") {
		return "", fmt.Errorf("invalid archive entry %q", name)
	}
	return filepath.Join(dir, filepath.FromSlash(clean)), nil
}
