// Package pipeline executes tracked editing steps against provider adapters.
//
// The engine owns the step lifecycle: enqueue records a queued step,
// execution claims it with a check-and-set transition to running, and every
// run ends in exactly one terminal state. Outputs become library assets with
// a category derived from the step kind; failures record a human-readable
// message on the step and never create an asset.
package pipeline
