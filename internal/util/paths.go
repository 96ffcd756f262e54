package util

import (
	"os"
	"path/filepath"
	"strings"
)

// HomeDir returns the user's home directory
func HomeDir() string {
	home, _ := os.UserHomeDir()
	return home
}

// CusubmitConfigPath returns the configuration directory.
// CUSUBMIT_HOME wins over XDG_CONFIG_HOME, which wins over ~/.config.
func CusubmitConfigPath() string {
	if v := os.Getenv("CUSUBMIT_HOME"); v != "" {
		return v
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "cusubmit")
	}
	return filepath.Join(HomeDir(), ".config", "cusubmit")
}

// CusubmitBackupsPath returns the default directory for record file backups
func CusubmitBackupsPath() string {
	return filepath.Join(CusubmitConfigPath(), "backups")
}

// ExpandPath expands a leading ~ and resolves relative paths against baseDir.
func ExpandPath(path, baseDir string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(HomeDir(), path[2:])
	}
	if filepath.IsAbs(path) || baseDir == "" {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}
