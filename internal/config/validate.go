package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateProviders(); err != nil {
		return err
	}
	if err := c.validateLibrary(); err != nil {
		return err
	}
	if err := c.validateMask(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.StateDir == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateProviders() error {
	if c.Providers.RequestTimeout <= 0 {
		return errors.New("providers.request_timeout must be positive")
	}
	if c.Providers.PollInterval <= 0 {
		return errors.New("providers.poll_interval must be positive")
	}
	if c.Providers.PollInterval > c.Providers.RequestTimeout {
		return errors.New("providers.poll_interval must not exceed providers.request_timeout")
	}
	return nil
}

func (c *Config) validateLibrary() error {
	if c.Library.CanvasLimit <= 0 {
		return errors.New("library.canvas_limit must be positive")
	}
	if c.Library.StepRetention <= 0 {
		return errors.New("library.step_retention must be positive")
	}
	return nil
}

func (c *Config) validateMask() error {
	if c.Mask.MinCoverage < 0 || c.Mask.MinCoverage > 1 {
		return errors.New("mask.min_coverage must be between 0 and 1")
	}
	if c.Mask.MaxCoverage <= 0 || c.Mask.MaxCoverage > 1 {
		return errors.New("mask.max_coverage must be between 0 and 1")
	}
	if c.Mask.MinCoverage >= c.Mask.MaxCoverage {
		return errors.New("mask.min_coverage must be below mask.max_coverage")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
