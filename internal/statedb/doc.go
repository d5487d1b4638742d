// Package statedb provides the durable key-value store backing the asset
// library's snapshot persistence.
//
// The store is a single SQLite database holding one snapshots table; easel
// writes the whole application state under one fixed key and the last write
// wins. A file lock next to the database guards against two easel processes
// racing on the same state directory.
package statedb
