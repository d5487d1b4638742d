package statedb_test

import (
	"context"
	"testing"

	"easel/internal/statedb"
	"easel/internal/testsupport"
)

func TestGetMissingKey(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenState(t, cfg)

	_, found, err := store.Get(context.Background(), statedb.SnapshotKey)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if found {
		t.Fatal("expected missing key")
	}
}

func TestSetOverwritesLastWriteWins(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenState(t, cfg)
	ctx := context.Background()

	if err := store.Set(ctx, statedb.SnapshotKey, []byte("first")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Set(ctx, statedb.SnapshotKey, []byte("second")); err != nil {
		t.Fatalf("Set overwrite: %v", err)
	}

	value, found, err := store.Get(ctx, statedb.SnapshotKey)
	if err != nil || !found {
		t.Fatalf("Get after set: found=%v err=%v", found, err)
	}
	if string(value) != "second" {
		t.Fatalf("value = %q, want %q", value, "second")
	}
}

func TestDelete(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenState(t, cfg)
	ctx := context.Background()

	if err := store.Set(ctx, "k", []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := store.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, found, _ := store.Get(ctx, "k"); found {
		t.Fatal("key should be gone after delete")
	}
}

func TestSecondOpenIsRejectedWhileLocked(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_ = testsupport.MustOpenState(t, cfg)

	if _, err := statedb.Open(cfg); err == nil {
		t.Fatal("expected second open on the same state dir to fail")
	}
}
