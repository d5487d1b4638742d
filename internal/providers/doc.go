// Package providers defines the adapter contracts for the external AI
// capabilities easel invokes (generation, editing, text overlay, animation,
// sound) and the registry that resolves a provider key to an adapter.
//
// The engine only ever sees these interfaces; concrete adapters live in
// subpackages and are registered at startup under string keys such as
// "replicate.flux-schnell". Lookups of unregistered keys return an error
// wrapping ErrAdapterNotFound rather than a nil adapter.
package providers
