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
	c.normalizeProviders()
	c.normalizeLibrary()
	c.normalizeMask()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeProviders() {
	if c.Providers.ReplicateToken == "" {
		if value, ok := os.LookupEnv("REPLICATE_API_TOKEN"); ok {
			c.Providers.ReplicateToken = value
		}
	}
	c.Providers.ReplicateBaseURL = strings.TrimRight(strings.TrimSpace(c.Providers.ReplicateBaseURL), "/")
	if c.Providers.ReplicateBaseURL == "" {
		c.Providers.ReplicateBaseURL = defaultReplicateBaseURL
	}
	if c.Providers.RequestTimeout <= 0 {
		c.Providers.RequestTimeout = defaultRequestTimeout
	}
	if c.Providers.PollInterval <= 0 {
		c.Providers.PollInterval = defaultPollInterval
	}
	if strings.TrimSpace(c.Providers.DefaultGenerator) == "" {
		c.Providers.DefaultGenerator = defaultGeneratorKey
	}
	if strings.TrimSpace(c.Providers.DefaultEditor) == "" {
		c.Providers.DefaultEditor = defaultEditorKey
	}
}

func (c *Config) normalizeLibrary() {
	if c.Library.CanvasLimit <= 0 {
		c.Library.CanvasLimit = defaultCanvasLimit
	}
	if c.Library.StepRetention <= 0 {
		c.Library.StepRetention = defaultStepRetention
	}
	if c.Library.MigrationCooldownSec <= 0 {
		c.Library.MigrationCooldownSec = defaultMigrationCooldownSec
	}
}

func (c *Config) normalizeMask() {
	if c.Mask.MinCoverage <= 0 {
		c.Mask.MinCoverage = defaultMinCoverage
	}
	if c.Mask.MaxCoverage <= 0 || c.Mask.MaxCoverage > 1 {
		c.Mask.MaxCoverage = defaultMaxCoverage
	}
	if c.Mask.Padding < 0 {
		c.Mask.Padding = 0
	}
	if c.Mask.FeatherRadius < 0 {
		c.Mask.FeatherRadius = 0
	}
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
