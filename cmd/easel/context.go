package main

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"easel/internal/config"
	"easel/internal/library"
	"easel/internal/logging"
	"easel/internal/notifications"
	"easel/internal/pipeline"
	"easel/internal/providers"
	"easel/internal/providers/replicate"
	"easel/internal/providers/stub"
	"easel/internal/statedb"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
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
		c.config = cfg
	})
	return c.config, c.configErr
}

// session bundles everything a command needs to operate on library state.
// The state database lock is held for the session's lifetime.
type session struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *statedb.Store
	lib      *library.Library
	registry *providers.Registry
	engine   *pipeline.Engine
	notifier notifications.Service
}

// withSession opens the state database, hydrates the library, and hands a
// ready session to fn. The store is closed when fn returns.
func (c *commandContext) withSession(cmd *cobra.Command, fn func(*session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}

	store, err := statedb.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	lib := library.New(cfg, store, logger,
		library.WithMigrator(library.NewHTTPMigrator(nil)))
	if err := lib.Hydrate(cmd.Context()); err != nil {
		return err
	}

	registry := buildRegistry(cfg)
	notifier := notifications.NewService(cfg)
	engine := pipeline.NewEngine(cfg, lib, registry, notifier, logger)

	return fn(&session{
		cfg:      cfg,
		logger:   logger,
		store:    store,
		lib:      lib,
		registry: registry,
		engine:   engine,
		notifier: notifier,
	})
}

// buildRegistry wires provider adapters. Without a replicate token the stub
// adapter backs every family so the pipeline stays usable offline.
func buildRegistry(cfg *config.Config) *providers.Registry {
	registry := providers.NewRegistry()

	token := strings.TrimSpace(cfg.Providers.ReplicateToken)
	if token == "" {
		stub.Register(registry, stub.Key, stub.New())
		stub.Register(registry, cfg.Providers.DefaultGenerator, stub.New())
		stub.Register(registry, cfg.Providers.DefaultEditor, stub.New())
		return registry
	}

	client := replicate.NewClient(token,
		replicate.WithBaseURL(cfg.Providers.ReplicateBaseURL),
		replicate.WithPollInterval(time.Duration(cfg.Providers.PollInterval)*time.Second),
		replicate.WithPollTimeout(time.Duration(cfg.Providers.RequestTimeout)*time.Second),
	)
	replicate.Register(registry, client)
	stub.Register(registry, stub.Key, stub.New())
	return registry
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
