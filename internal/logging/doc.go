// Package logging builds the slog loggers used throughout easel.
//
// Two handler formats are supported: a human-oriented console handler with
// color output when attached to a terminal, and a line-delimited JSON handler
// for log files and machine consumption. Loggers are constructed once at
// startup and passed down explicitly; packages never reach for a global.
package logging
