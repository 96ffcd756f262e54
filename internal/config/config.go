// Package config provides configuration management for cusubmit.
// It supports YAML configuration files, environment variables, and sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/klauern/cusubmit/internal/util"
)

// Config represents the complete cusubmit configuration.
type Config struct {
	// Developer holds the changelog header fields
	Developer DeveloperConfig `yaml:"developer"`

	// Scan configures the diff engine
	Scan ScanConfig `yaml:"scan"`

	// Transfer configures replay onto a destination snapshot
	Transfer TransferConfig `yaml:"transfer"`

	// Submit configures submission packages
	Submit SubmitConfig `yaml:"submit"`

	// Backup configures record file backups taken before a transfer
	Backup BackupConfig `yaml:"backup"`

	// Output configures display preferences
	Output OutputConfig `yaml:"output"`
}

// DeveloperConfig holds the free-text fields copied into every changelog.
type DeveloperConfig struct {
	Name        string `yaml:"name"`
	Summary     string `yaml:"summary,omitempty"`
	MapPolicy   string `yaml:"map_policy,omitempty"`
	AssetPolicy string `yaml:"asset_policy,omitempty"`
}

// ScanConfig holds diff engine settings.
type ScanConfig struct {
	// BGMExcludedMaps lists map ids whose music triggers are never reported
	BGMExcludedMaps []int `yaml:"bgm_excluded_maps,omitempty"`
	// MinMapNameLength is the display-name length below which a map counts as blank
	MinMapNameLength int `yaml:"min_map_name_length"`
	// StrictIDs skips database positions whose stored id does not match the position
	StrictIDs bool `yaml:"strict_ids"`
}

// TransferConfig holds transfer settings.
type TransferConfig struct {
	// AtomicWrites writes database and map-tree files through a temp file and rename
	AtomicWrites bool `yaml:"atomic_writes"`
	// Backup copies destination record files aside before rewriting them
	Backup bool `yaml:"backup"`
}

// SubmitConfig holds submission package settings.
type SubmitConfig struct {
	// Compress zips the package directory after it is built
	Compress bool `yaml:"compress"`
	// OutputDir is where packages are created
	OutputDir string `yaml:"output_dir"`
}

// BackupConfig holds backup settings.
type BackupConfig struct {
	// Location is the backup directory path
	Location string `yaml:"location"`
	// MaxBackups is the maximum number of backups to keep per source file
	MaxBackups int `yaml:"max_backups"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default changelog format (text, json, yaml)
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never)
	Color string `yaml:"color"`
}

// DefaultDeveloper is used when no developer name is configured.
const DefaultDeveloper = "NoDevName"

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Developer: DeveloperConfig{
			Name: DefaultDeveloper,
		},
		Scan: ScanConfig{
			MinMapNameLength: 5,
			StrictIDs:        true,
		},
		Transfer: TransferConfig{
			AtomicWrites: true,
			Backup:       true,
		},
		Submit: SubmitConfig{
			Compress:  false,
			OutputDir: ".",
		},
		Backup: BackupConfig{
			Location:   util.CusubmitBackupsPath(),
			MaxBackups: 10,
		},
		Output: OutputConfig{
			Format: "text",
			Color:  "auto",
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.CusubmitConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	return LoadOrDefault(FilePath())
}

// LoadOrDefault loads configuration from path, falling back to the defaults
// (with environment overrides) when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := LoadFromPath(path)
	if err != nil && os.IsNotExist(err) {
		cfg = Default()
		cfg.applyEnvironment()
		return cfg, nil
	}
	return cfg, err
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Environment variables follow the pattern CUSUBMIT_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("CUSUBMIT_DEVELOPER_NAME"); v != "" {
		c.Developer.Name = v
	}
	if v := os.Getenv("CUSUBMIT_DEVELOPER_SUMMARY"); v != "" {
		c.Developer.Summary = v
	}

	if v := os.Getenv("CUSUBMIT_SCAN_BGM_EXCLUDED_MAPS"); v != "" {
		c.Scan.BGMExcludedMaps = splitInts(v)
	}
	if v := os.Getenv("CUSUBMIT_SCAN_MIN_MAP_NAME_LENGTH"); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil && n >= 0 {
			c.Scan.MinMapNameLength = n
		}
	}
	if v := os.Getenv("CUSUBMIT_SCAN_STRICT_IDS"); v != "" {
		c.Scan.StrictIDs = parseBool(v)
	}

	if v := os.Getenv("CUSUBMIT_TRANSFER_ATOMIC_WRITES"); v != "" {
		c.Transfer.AtomicWrites = parseBool(v)
	}
	if v := os.Getenv("CUSUBMIT_TRANSFER_BACKUP"); v != "" {
		c.Transfer.Backup = parseBool(v)
	}

	if v := os.Getenv("CUSUBMIT_SUBMIT_COMPRESS"); v != "" {
		c.Submit.Compress = parseBool(v)
	}
	if v := os.Getenv("CUSUBMIT_SUBMIT_OUTPUT_DIR"); v != "" {
		c.Submit.OutputDir = v
	}

	if v := os.Getenv("CUSUBMIT_BACKUP_LOCATION"); v != "" {
		c.Backup.Location = v
	}

	if v := os.Getenv("CUSUBMIT_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("CUSUBMIT_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitInts splits a comma-separated list of integers, dropping malformed entries.
func splitInts(s string) []int {
	parts := strings.Split(s, ",")
	result := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err == nil {
			result = append(result, n)
		}
	}
	return result
}

// DeveloperName returns the configured developer, falling back to DefaultDeveloper.
func (c *Config) DeveloperName() string {
	if name := strings.TrimSpace(c.Developer.Name); name != "" {
		return name
	}
	return DefaultDeveloper
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}
