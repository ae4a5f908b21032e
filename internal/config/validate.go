package config

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateComicVine(); err != nil {
		return err
	}
	if err := c.validatePipeline(); err != nil {
		return err
	}
	if err := c.validateMaintenance(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateComicVine() error {
	parsed, err := url.Parse(c.ComicVine.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("comicvine.base_url %q must be an absolute URL", c.ComicVine.BaseURL)
	}
	if c.ComicVine.RequestIntervalMS < 0 {
		return errors.New("comicvine.request_interval_ms must not be negative")
	}
	return ensurePositiveMap(map[string]int{
		"comicvine.rate_limit_backoff_ms": c.ComicVine.RateLimitBackoffMS,
		"comicvine.network_backoff_ms":    c.ComicVine.NetworkBackoffMS,
		"comicvine.max_attempts":          c.ComicVine.MaxAttempts,
		"comicvine.timeout_seconds":       c.ComicVine.TimeoutSeconds,
	})
}

func (c *Config) validatePipeline() error {
	return ensurePositiveMap(map[string]int{
		"pipeline.commit_every":      c.Pipeline.CommitEvery,
		"pipeline.scan_commit_every": c.Pipeline.ScanCommitEvery,
	})
}

func (c *Config) validateMaintenance() error {
	if c.Maintenance.SizeToleranceBytes < 0 {
		return errors.New("maintenance.size_tolerance_bytes must not be negative")
	}
	if c.Maintenance.ProblemTitleLength <= 0 {
		return errors.New("maintenance.problem_title_length must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if values[key] <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
