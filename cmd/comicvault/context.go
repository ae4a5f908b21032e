package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"comicvault/internal/collection"
	"comicvault/internal/comicvine"
	"comicvault/internal/config"
	"comicvault/internal/logging"
	"comicvault/internal/runlock"
	"comicvault/internal/services"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	jsonFlag     *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string, jsonFlag *bool) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
		jsonFlag:     jsonFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.TrimSpace(*c.logLevelFlag)
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) jsonOutput() bool {
	return c.jsonFlag != nil && *c.jsonFlag
}

// session bundles what a command needs to touch the collection.
type session struct {
	cfg    *config.Config
	store  *collection.Store
	logger *slog.Logger
}

// withStore opens the collection for reading. Readers do not take the run
// lock; WAL lets them observe a concurrent writer's committed batches.
func (c *commandContext) withStore(fn func(*session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	store, err := collection.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(&session{cfg: cfg, store: store, logger: logger})
}

// withWriter holds the collection run lock for the duration of fn.
func (c *commandContext) withWriter(fn func(*session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	lock, err := runlock.Acquire(cfg.LockPath())
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()
	return c.withStore(fn)
}

// runContext tags ctx with a fresh run id so every log line of one run can be
// correlated.
func runContext(cmd *cobra.Command, stage string) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithRunID(ctx, uuid.NewString())
	return services.WithStage(ctx, stage)
}

func newCatalogClient(cfg *config.Config, logger *slog.Logger) (*comicvine.Client, error) {
	if err := cfg.RequireCatalog(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "catalog", "configure", "", err)
	}
	interval := cfg.RequestInterval()
	if interval <= 0 {
		interval = -1
	}
	return comicvine.New(comicvine.Config{
		APIKey:           cfg.ComicVine.APIKey,
		BaseURL:          cfg.ComicVine.BaseURL,
		UserAgent:        cfg.ComicVine.UserAgent,
		MinInterval:      interval,
		RateLimitBackoff: cfg.RateLimitBackoff(),
		NetworkBackoff:   cfg.NetworkBackoff(),
		MaxAttempts:      cfg.ComicVine.MaxAttempts,
		HTTPClient:       &http.Client{Timeout: cfg.HTTPTimeout()},
		Logger:           logger,
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
