// Package services defines the shared error taxonomy used across the
// pipeline engine, the asset library, and the provider adapters.
//
// Errors are tagged with one of the exported sentinel markers so callers can
// classify failures with errors.Is without parsing messages. Wrap builds a
// message that carries component and operation context alongside the marker.
package services
