package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeComicVine()
	c.normalizePipeline()
	c.normalizeLogging()
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.Database) == "" {
		c.Paths.Database = defaultDatabasePath
	}
	if c.Paths.Database, err = expandPath(c.Paths.Database); err != nil {
		return fmt.Errorf("paths.database: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if c.Paths.LibraryDir, err = expandPath(strings.TrimSpace(c.Paths.LibraryDir)); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeComicVine() {
	c.ComicVine.APIKey = strings.TrimSpace(c.ComicVine.APIKey)
	if c.ComicVine.APIKey == "" {
		if value, ok := os.LookupEnv("COMICVINE_API_KEY"); ok {
			c.ComicVine.APIKey = strings.TrimSpace(value)
		}
	}
	c.ComicVine.BaseURL = strings.TrimRight(strings.TrimSpace(c.ComicVine.BaseURL), "/")
	if c.ComicVine.BaseURL == "" {
		c.ComicVine.BaseURL = defaultComicVineBaseURL
	}
	c.ComicVine.UserAgent = strings.TrimSpace(c.ComicVine.UserAgent)
	if c.ComicVine.UserAgent == "" {
		c.ComicVine.UserAgent = defaultComicVineUserAgent
	}
}

func (c *Config) normalizePipeline() {
	if len(c.Pipeline.Extensions) == 0 {
		c.Pipeline.Extensions = DefaultExtensions()
		return
	}
	exts := make([]string, 0, len(c.Pipeline.Extensions))
	seen := make(map[string]struct{}, len(c.Pipeline.Extensions))
	for _, ext := range c.Pipeline.Extensions {
		normalized := strings.ToLower(strings.TrimSpace(ext))
		if normalized == "" {
			continue
		}
		if !strings.HasPrefix(normalized, ".") {
			normalized = "." + normalized
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		exts = append(exts, normalized)
	}
	if len(exts) == 0 {
		exts = DefaultExtensions()
	}
	c.Pipeline.Extensions = exts
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
