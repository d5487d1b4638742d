// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"path/filepath"
	"testing"

	"easel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// Demo seeding is off so hydration starts from a truly empty state.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Providers.ReplicateToken = "test"
	cfgVal.Library.SeedDemoAssets = false
	cfgVal.Notifications.NtfyTopic = ""

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDemoAssets enables demo asset seeding on first hydration.
func WithDemoAssets() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Library.SeedDemoAssets = true
	}
}

// WithDevelopment marks the test config as a development build.
func WithDevelopment() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Development = true
	}
}
