// Package library owns easel's in-memory state: the asset map, the pipeline
// step records, canvases, the gallery, and per-provider parameter memory.
//
// The library persists its whole state as one JSON snapshot under a single
// key in the state database after every mutation; persistence failures are
// logged and never roll back the in-memory change. Hydrate restores the
// snapshot at startup, seeds demo assets on first run, and schedules a
// storage-optimization pass that enforces the retention limits.
package library
