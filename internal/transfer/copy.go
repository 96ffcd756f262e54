package transfer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/logging"
)

// removeExisting removes a file at the given path.
// Returns nil if the path doesn't exist.
func removeExisting(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to stat %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("refusing to remove directory %q", path)
	}

	if err := fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %q: %w", path, err)
	}
	logging.Debug("removed existing file", logging.Path(path))
	return nil
}

// CopyFile copies a single file from src to dst, preserving permissions and
// modification time so a later scan sees both copies as unchanged.
func CopyFile(fs afero.Fs, src, dst string) error {
	srcInfo, err := fs.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source %q: %w", src, err)
	}
	if srcInfo.IsDir() {
		return fmt.Errorf("source %q is a directory", src)
	}

	srcFile, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source %q: %w", src, err)
	}
	defer func() { _ = srcFile.Close() }()

	// #nosec G302 - preserving source permissions
	dstFile, err := fs.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return fmt.Errorf("failed to create destination %q: %w", dst, err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy content to %q: %w", dst, err)
	}
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination %q: %w", dst, err)
	}

	if err := fs.Chtimes(dst, srcInfo.ModTime(), srcInfo.ModTime()); err != nil {
		return fmt.Errorf("failed to preserve modification time of %q: %w", dst, err)
	}

	logging.Debug("copied file", logging.Path(src))
	return nil
}

// CopyInto copies src into dir under the same base name, creating dir if needed.
func CopyInto(fs afero.Fs, src, dir string) (string, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create directory %q: %w", dir, err)
	}
	dst := filepath.Join(dir, filepath.Base(src))
	return dst, CopyFile(fs, src, dst)
}
