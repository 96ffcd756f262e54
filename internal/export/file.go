package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
)

// maxCollisions bounds the search for a free changelog file name.
const maxCollisions = 10000

// FileName returns the changelog file name for a developer and date,
// with a numeric suffix when n > 1.
func FileName(cl *model.Changelog, n int) string {
	stem := fmt.Sprintf("%s_%s_changelog", SafeName(cl.Developer), model.CompactDate(cl.Date))
	if n > 1 {
		stem += fmt.Sprintf("_%d", n)
	}
	return stem + ".txt"
}

// WriteTextFile writes the text rendering into dir under a name that does not
// exist yet and returns the path written. Existing files are never overwritten.
func WriteTextFile(fs afero.Fs, dir string, cl *model.Changelog) (string, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return "", &model.IOError{Op: "create changelog directory", Path: dir, Err: err}
	}

	content := []byte(Text(cl))
	for n := 1; n <= maxCollisions; n++ {
		path := filepath.Join(dir, FileName(cl, n))
		if exists, _ := afero.Exists(fs, path); exists {
			continue
		}

		// #nosec G302 - changelog is a shared deliverable
		f, err := fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if err != nil {
			if os.IsExist(err) {
				continue
			}
			return "", &model.IOError{Op: "create changelog", Path: path, Err: err}
		}

		if _, err := f.Write(content); err != nil {
			_ = f.Close()
			return "", &model.IOError{Op: "write changelog", Path: path, Err: err}
		}
		if err := f.Close(); err != nil {
			return "", &model.IOError{Op: "close changelog", Path: path, Err: err}
		}

		logging.Info("changelog written", logging.Path(path))
		return path, nil
	}

	return "", &model.IOError{
		Op:   "create changelog",
		Path: dir,
		Err:  fmt.Errorf("more than %d changelogs for the same day", maxCollisions),
	}
}

// SafeName replaces path separators so a developer name stays a single file name element.
func SafeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "NoDevName"
	}
	return strings.NewReplacer("/", "_", "\\", "_").Replace(name)
}
