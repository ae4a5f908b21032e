package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	Database   string `toml:"database"`
	LogDir     string `toml:"log_dir"`
	LibraryDir string `toml:"library_dir"`
}

// ComicVine contains configuration for the Comic Vine catalog API.
type ComicVine struct {
	APIKey             string `toml:"api_key"`
	BaseURL            string `toml:"base_url"`
	UserAgent          string `toml:"user_agent"`
	RequestIntervalMS  int    `toml:"request_interval_ms"`
	RateLimitBackoffMS int    `toml:"rate_limit_backoff_ms"`
	NetworkBackoffMS   int    `toml:"network_backoff_ms"`
	MaxAttempts        int    `toml:"max_attempts"`
	TimeoutSeconds     int    `toml:"timeout_seconds"`
}

// Pipeline contains batch sizes for the scan, identify, and enrich runs.
type Pipeline struct {
	CommitEvery     int      `toml:"commit_every"`
	ScanCommitEvery int      `toml:"scan_commit_every"`
	Extensions      []string `toml:"extensions"`
}

// Maintenance contains thresholds used by the repair and cleanup commands.
type Maintenance struct {
	SizeToleranceBytes int64 `toml:"size_tolerance_bytes"`
	ProblemTitleLength int   `toml:"problem_title_length"`
}

// API contains the bind address for the read-only HTTP views.
type API struct {
	Bind string `toml:"bind"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for comicvault.
//
// Configuration sections by subsystem:
//   - Paths: collection database, logs, default library root
//   - ComicVine: catalog credentials, pacing, and retry policy
//   - Pipeline: commit cadence and scanned extensions
//   - Maintenance: orphan repair tolerance and problem title threshold
//   - API: HTTP bind address for `comicvault serve`
//   - Logging: log format and level
type Config struct {
	Paths       Paths       `toml:"paths"`
	ComicVine   ComicVine   `toml:"comicvine"`
	Pipeline    Pipeline    `toml:"pipeline"`
	Maintenance Maintenance `toml:"maintenance"`
	API         API         `toml:"api"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/comicvault/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("comicvault.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the database and log directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Paths.Database), c.Paths.LogDir}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// RequireCatalog reports whether catalog-backed commands can run.
func (c *Config) RequireCatalog() error {
	if strings.TrimSpace(c.ComicVine.APIKey) != "" {
		return nil
	}
	defaultPath, err := DefaultConfigPath()
	if err != nil {
		defaultPath = "~/.config/comicvault/config.toml"
	}
	return fmt.Errorf("comicvine.api_key is required. Set COMICVINE_API_KEY env var or edit %s (create with 'comicvault config init')", defaultPath)
}

// RequestInterval returns the minimum spacing between catalog requests.
func (c *Config) RequestInterval() time.Duration {
	return time.Duration(c.ComicVine.RequestIntervalMS) * time.Millisecond
}

// RateLimitBackoff returns the base delay applied after a rate-limit response.
func (c *Config) RateLimitBackoff() time.Duration {
	return time.Duration(c.ComicVine.RateLimitBackoffMS) * time.Millisecond
}

// NetworkBackoff returns the base delay applied after a transport failure.
func (c *Config) NetworkBackoff() time.Duration {
	return time.Duration(c.ComicVine.NetworkBackoffMS) * time.Millisecond
}

// HTTPTimeout returns the per-request timeout for catalog calls.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.ComicVine.TimeoutSeconds) * time.Second
}

// LockPath returns the single-writer lock file that guards the database.
func (c *Config) LockPath() string {
	return c.Paths.Database + ".lock"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
