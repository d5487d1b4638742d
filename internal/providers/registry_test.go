package providers_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"easel/internal/asset"
	"easel/internal/providers"
)

type stubGenerator struct{}

func (stubGenerator) Generate(_ context.Context, _ providers.Params) (*asset.Asset, error) {
	return &asset.Asset{ID: "g1", Type: asset.TypeImage}, nil
}

type stubEditor struct{}

func (stubEditor) Edit(_ context.Context, input *asset.Asset, _ providers.Params) (*asset.Asset, error) {
	return &asset.Asset{ID: "e1", Type: input.Type}, nil
}

func TestRegistryResolvesRegisteredAdapters(t *testing.T) {
	reg := providers.NewRegistry()
	reg.RegisterGenerator("replicate.flux-schnell", stubGenerator{})
	reg.RegisterEditor("replicate.flux-inpaint", stubEditor{})

	if _, err := reg.GeneratorFor("replicate.flux-schnell"); err != nil {
		t.Fatalf("GeneratorFor: %v", err)
	}
	if _, err := reg.EditorFor("replicate.flux-inpaint"); err != nil {
		t.Fatalf("EditorFor: %v", err)
	}
}

func TestRegistryUnknownKeyIsTypedFailure(t *testing.T) {
	reg := providers.NewRegistry()

	_, err := reg.GeneratorFor("nope.missing")
	if err == nil {
		t.Fatal("expected error for unregistered key")
	}
	if !errors.Is(err, providers.ErrAdapterNotFound) {
		t.Fatalf("expected ErrAdapterNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "nope.missing") {
		t.Fatalf("error should name the missing key: %v", err)
	}
}

func TestRegistryFamiliesAreIndependent(t *testing.T) {
	reg := providers.NewRegistry()
	reg.RegisterGenerator("shared.key", stubGenerator{})

	if _, err := reg.EditorFor("shared.key"); !errors.Is(err, providers.ErrAdapterNotFound) {
		t.Fatalf("editor lookup should miss a generator-only key, got %v", err)
	}
}

func TestKeysSortedAndDeduplicated(t *testing.T) {
	reg := providers.NewRegistry()
	reg.RegisterGenerator("b.gen", stubGenerator{})
	reg.RegisterGenerator("a.gen", stubGenerator{})
	reg.RegisterEditor("a.gen", stubEditor{})

	keys := reg.Keys()
	if len(keys) != 2 || keys[0] != "a.gen" || keys[1] != "b.gen" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}
