package testsupport

import (
	"context"
	"testing"

	"easel/internal/config"
	"easel/internal/library"
	"easel/internal/logging"
	"easel/internal/statedb"
)

// MustOpenState opens a statedb.Store for tests and registers cleanup.
func MustOpenState(t testing.TB, cfg *config.Config) *statedb.Store {
	t.Helper()

	store, err := statedb.Open(cfg)
	if err != nil {
		t.Fatalf("statedb.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// MustOpenLibrary builds a hydrated library over a fresh state store.
func MustOpenLibrary(t testing.TB, cfg *config.Config, opts ...library.Option) *library.Library {
	t.Helper()

	store := MustOpenState(t, cfg)
	lib := library.New(cfg, store, logging.NewNop(), opts...)
	if err := lib.Hydrate(context.Background()); err != nil {
		t.Fatalf("library.Hydrate: %v", err)
	}
	return lib
}
