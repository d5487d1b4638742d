// Package config loads and validates easel's TOML configuration.
//
// Configuration is resolved from an explicit --config path, then
// ~/.config/easel/config.toml, then easel.toml in the working directory.
// Missing files fall back to repository defaults so the CLI works out of the
// box; Load always returns a normalized config with every path expanded to
// an absolute location.
package config
