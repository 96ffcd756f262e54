package lcf

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	// DatabaseFile is the database file name at a snapshot root.
	DatabaseFile = "RPG_RT.ldb"
	// MapTreeFile is the map-tree file name at a snapshot root.
	MapTreeFile = "RPG_RT.lmt"
	// MapExtension is the extension of individual map files.
	MapExtension = ".lmu"

	mapPrefix = "Map"
)

// Event command codes the engine inspects.
const (
	CodeTeleport = 10810
	CodePlayBGM  = 11510
)

// MapFileName returns the file name of a map id (e.g. Map0001.lmu).
func MapFileName(id int) string {
	return fmt.Sprintf("%s%04d%s", mapPrefix, id, MapExtension)
}

// DatabasePath returns the database path under a snapshot root.
func DatabasePath(root string) string {
	return filepath.Join(root, DatabaseFile)
}

// MapTreePath returns the map-tree path under a snapshot root.
func MapTreePath(root string) string {
	return filepath.Join(root, MapTreeFile)
}

// MapPath returns the path of a map file under a snapshot root.
func MapPath(root string, id int) string {
	return filepath.Join(root, MapFileName(id))
}

// IsMapFile reports whether a file name carries the map extension.
func IsMapFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), MapExtension)
}

// ParseMapID extracts the numeric id embedded in a map file name.
func ParseMapID(name string) (int, bool) {
	if !IsMapFile(name) {
		return 0, false
	}
	stem := strings.TrimSuffix(name, filepath.Ext(name))
	if len(stem) <= len(mapPrefix) || !strings.EqualFold(stem[:len(mapPrefix)], mapPrefix) {
		return 0, false
	}
	id, err := strconv.Atoi(stem[len(mapPrefix):])
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
