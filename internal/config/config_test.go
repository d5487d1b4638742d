package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"easel/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file")
	}
	if cfg.Library.CanvasLimit != 20 {
		t.Fatalf("canvas limit default = %d, want 20", cfg.Library.CanvasLimit)
	}
	if cfg.Providers.DefaultGenerator != "replicate.flux-schnell" {
		t.Fatalf("unexpected default generator %q", cfg.Providers.DefaultGenerator)
	}
	if !filepath.IsAbs(cfg.Paths.StateDir) {
		t.Fatalf("state dir not normalized: %q", cfg.Paths.StateDir)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := strings.Join([]string{
		"development = true",
		"[paths]",
		`state_dir = "` + filepath.Join(dir, "state") + `"`,
		"[library]",
		"canvas_limit = 5",
		"step_retention = 10",
		"[logging]",
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected to load %q, got %q (exists=%v)", path, resolved, exists)
	}
	if !cfg.Development {
		t.Fatal("development flag not applied")
	}
	if cfg.Library.CanvasLimit != 5 || cfg.Library.StepRetention != 10 {
		t.Fatalf("library overrides not applied: %+v", cfg.Library)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("logging level = %q", cfg.Logging.Level)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty state dir", func(c *config.Config) { c.Paths.StateDir = "" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "xml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "trace" }},
		{"inverted coverage", func(c *config.Config) { c.Mask.MinCoverage = 0.95 }},
		{"zero canvases", func(c *config.Config) { c.Library.CanvasLimit = 0 }},
		{"poll above timeout", func(c *config.Config) {
			c.Providers.PollInterval = 600
			c.Providers.RequestTimeout = 10
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Logging.Format = "console"
			cfg.Logging.Level = "info"
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	if _, _, exists, err := config.Load(path); err != nil || !exists {
		t.Fatalf("Load(sample) exists=%v err=%v", exists, err)
	}
}
