package library_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"easel/internal/asset"
	"easel/internal/library"
)

func TestHTTPMigratorInlinesContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(server.Close)

	migrator := library.NewHTTPMigrator(server.Client())
	original := &asset.Asset{
		ID:   "a1",
		Type: asset.TypeImage,
		Name: "beach",
		Src:  server.URL + "/beach.jpg",
	}

	replacement, err := migrator.Migrate(context.Background(), original)
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if replacement.ID != original.ID || replacement.Name != original.Name {
		t.Fatalf("identity not preserved: %+v", replacement)
	}
	if !strings.HasPrefix(replacement.Src, "data:image/jpeg;base64,") {
		t.Fatalf("content not inlined: %q", replacement.Src)
	}
	if strings.HasPrefix(original.Src, "data:") {
		t.Fatal("original record was mutated")
	}
}

func TestHTTPMigratorRejectsUnrecoverableURIs(t *testing.T) {
	migrator := library.NewHTTPMigrator(nil)
	_, err := migrator.Migrate(context.Background(), &asset.Asset{ID: "a2", Src: "blob:foreign/abc"})
	if err == nil {
		t.Fatal("expected error for a foreign blob URI")
	}
}

func TestHTTPMigratorSurfacesHTTPFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGone)
	}))
	t.Cleanup(server.Close)

	migrator := library.NewHTTPMigrator(server.Client())
	_, err := migrator.Migrate(context.Background(), &asset.Asset{ID: "a3", Src: server.URL + "/gone.png"})
	if err == nil || !strings.Contains(err.Error(), "410") {
		t.Fatalf("expected status error, got %v", err)
	}
}
