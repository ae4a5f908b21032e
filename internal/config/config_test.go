package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"comicvault/internal/config"
)

func TestLoadDefaultConfigUsesEnvKeyAndExpandsPaths(t *testing.T) {
	t.Setenv("COMICVINE_API_KEY", "env-key")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantDB := filepath.Join(tempHome, ".local", "share", "comicvault", "comics_inventory.db")
	if cfg.Paths.Database != wantDB {
		t.Fatalf("unexpected database path: got %q want %q", cfg.Paths.Database, wantDB)
	}
	if cfg.ComicVine.APIKey != "env-key" {
		t.Fatalf("expected api key from env, got %q", cfg.ComicVine.APIKey)
	}
	if cfg.ComicVine.BaseURL != config.Default().ComicVine.BaseURL {
		t.Fatalf("unexpected base url: %q", cfg.ComicVine.BaseURL)
	}
	if cfg.Pipeline.CommitEvery != 10 {
		t.Fatalf("expected commit cadence of 10, got %d", cfg.Pipeline.CommitEvery)
	}
	if got := cfg.RequestInterval().Seconds(); got != 2 {
		t.Fatalf("expected 2s request interval, got %v", got)
	}
	if cfg.LockPath() != wantDB+".lock" {
		t.Fatalf("unexpected lock path: %q", cfg.LockPath())
	}
	if err := cfg.RequireCatalog(); err != nil {
		t.Fatalf("RequireCatalog returned error with key set: %v", err)
	}
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	t.Setenv("COMICVINE_API_KEY", "")
	t.Setenv("HOME", t.TempDir())
	dir := t.TempDir()
	path := filepath.Join(dir, "comicvault.toml")

	cfg := config.Default()
	cfg.Paths.Database = filepath.Join(dir, "inventory.db")
	cfg.ComicVine.APIKey = "file-key"
	cfg.ComicVine.RequestIntervalMS = 250
	cfg.Pipeline.Extensions = []string{"CBZ", ".cbz", " pdf "}
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	loaded, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s (exists=%v)", path, resolved, exists)
	}
	if loaded.ComicVine.APIKey != "file-key" {
		t.Fatalf("expected file api key, got %q", loaded.ComicVine.APIKey)
	}
	if loaded.ComicVine.RequestIntervalMS != 250 {
		t.Fatalf("expected request interval override, got %d", loaded.ComicVine.RequestIntervalMS)
	}
	want := []string{".cbz", ".pdf"}
	if strings.Join(loaded.Pipeline.Extensions, ",") != strings.Join(want, ",") {
		t.Fatalf("unexpected extensions: %v", loaded.Pipeline.Extensions)
	}
}

func TestRequireCatalogWithoutKey(t *testing.T) {
	t.Setenv("COMICVINE_API_KEY", "")
	t.Setenv("HOME", t.TempDir())

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	err = cfg.RequireCatalog()
	if err == nil {
		t.Fatal("expected error without api key")
	}
	if !strings.Contains(err.Error(), "COMICVINE_API_KEY") {
		t.Fatalf("expected env var hint, got %v", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"commit cadence", func(c *config.Config) { c.Pipeline.CommitEvery = 0 }, "pipeline.commit_every"},
		{"attempts", func(c *config.Config) { c.ComicVine.MaxAttempts = 0 }, "comicvine.max_attempts"},
		{"base url", func(c *config.Config) { c.ComicVine.BaseURL = "not a url" }, "comicvine.base_url"},
		{"interval", func(c *config.Config) { c.ComicVine.RequestIntervalMS = -1 }, "comicvine.request_interval_ms"},
		{"log format", func(c *config.Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"problem length", func(c *config.Config) { c.Maintenance.ProblemTitleLength = 0 }, "maintenance.problem_title_length"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("expected sample config to load, exists=%v err=%v", exists, err)
	}
}
