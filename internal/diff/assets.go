package diff

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/klauern/cusubmit/internal/logging"
	"github.com/klauern/cusubmit/internal/model"
)

// AssetScanner classifies the files of one category folder between two snapshots.
type AssetScanner struct {
	fs afero.Fs
}

// NewAssetScanner creates a scanner over the given filesystem.
func NewAssetScanner(fs afero.Fs) *AssetScanner {
	return &AssetScanner{fs: fs}
}

// Scan compares the category folder under both snapshot roots.
//
// A file only in modified is Added, only in base is Removed, and in both with
// a different modification time is Modified. A missing folder yields a
// *model.PathError alongside whatever the other side could list.
func (s *AssetScanner) Scan(baseRoot, modifiedRoot string, category model.AssetCategory) ([]model.Asset, error) {
	folder := category.Folder()
	if folder == "" {
		return nil, &model.PathError{Path: string(category), Op: "resolve category folder"}
	}

	baseFiles, baseErr := s.list(filepath.Join(baseRoot, folder))
	modifiedFiles, modErr := s.list(filepath.Join(modifiedRoot, folder))

	var assets []model.Asset
	for name, modTime := range modifiedFiles {
		baseTime, ok := baseFiles[name]
		switch {
		case !ok:
			assets = append(assets, newAsset(model.StatusAdded, category, name))
		case !baseTime.Equal(modTime):
			assets = append(assets, newAsset(model.StatusModified, category, name))
		}
	}
	for name := range baseFiles {
		if _, ok := modifiedFiles[name]; !ok {
			assets = append(assets, newAsset(model.StatusRemoved, category, name))
		}
	}

	sort.Slice(assets, func(i, j int) bool {
		return assets[i].Filename < assets[j].Filename
	})

	logging.Debug("scanned asset folder",
		logging.Category(string(category)),
		logging.Count(len(assets)),
	)

	if baseErr != nil {
		return assets, baseErr
	}
	return assets, modErr
}

// list returns the regular files of a folder keyed by name with their modification times.
func (s *AssetScanner) list(dir string) (map[string]time.Time, error) {
	files := make(map[string]time.Time)

	info, err := s.fs.Stat(dir)
	if err != nil {
		return files, &model.PathError{Path: dir, Op: "list asset folder", Err: err}
	}
	if !info.IsDir() {
		return files, &model.PathError{Path: dir, Op: "list asset folder", Err: os.ErrInvalid}
	}

	entries, err := afero.ReadDir(s.fs, dir)
	if err != nil {
		return files, &model.PathError{Path: dir, Op: "list asset folder", Err: err}
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		files[entry.Name()] = entry.ModTime()
	}
	return files, nil
}

func newAsset(status model.Status, category model.AssetCategory, filename string) model.Asset {
	return model.Asset{
		Status:   status,
		Category: category,
		Name:     strings.TrimSuffix(filename, filepath.Ext(filename)),
		Filename: filename,
	}
}
