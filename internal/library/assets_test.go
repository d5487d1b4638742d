package library_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"easel/internal/asset"
	"easel/internal/library"
	"easel/internal/testsupport"
)

func TestUploadAssetAllocatesTransientURI(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	content := []byte("png bytes")
	uploaded := lib.UploadAsset(ctx, "brush.png", asset.TypeImage, content)
	if !uploaded.HasTransientSrc() {
		t.Fatalf("expected transient src, got %q", uploaded.Src)
	}

	items := lib.ExportAssets(ctx, []string{uploaded.ID})
	if len(items) != 1 {
		t.Fatalf("expected 1 exported item, got %d", len(items))
	}
	if !bytes.Equal(items[0].Data, content) {
		t.Fatal("exported content does not match uploaded bytes")
	}
}

func TestDeleteAssetsRevokesBlobAndSelection(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	uploaded := lib.UploadAsset(ctx, "scratch.png", asset.TypeImage, []byte("scratch"))
	lib.Select(uploaded.ID)
	if got := lib.SelectedIDs(); len(got) != 1 {
		t.Fatalf("expected selection of 1, got %d", len(got))
	}

	lib.DeleteAssets(ctx, []string{uploaded.ID})

	if _, ok := lib.Asset(uploaded.ID); ok {
		t.Fatal("expected asset to be deleted")
	}
	if got := lib.SelectedIDs(); len(got) != 0 {
		t.Fatalf("expected selection cleared, got %v", got)
	}
	// The transient URI must no longer dereference once its owner is gone.
	if items := lib.ExportAssets(ctx, []string{uploaded.ID}); len(items) != 0 {
		t.Fatalf("expected no exportable content after delete, got %d items", len(items))
	}
}

func TestDeleteAssetsIgnoresUnknownIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	a := newImageAsset("keeper")
	lib.AddAsset(ctx, a)
	lib.DeleteAssets(ctx, []string{"ghost", a.ID})

	if got := lib.AssetCount(); got != 0 {
		t.Fatalf("expected known id deleted despite unknown sibling, %d assets remain", got)
	}
}

func TestExportAssetsSkipsFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/good.png":
			_, _ = w.Write([]byte("good bytes"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg, library.WithHTTPClient(server.Client()))
	ctx := context.Background()

	good := &asset.Asset{ID: asset.NewID(), Type: asset.TypeImage, Name: "good", Src: server.URL + "/good.png"}
	bad := &asset.Asset{ID: asset.NewID(), Type: asset.TypeImage, Name: "bad", Src: server.URL + "/bad.png"}
	lib.AddAssets(ctx, []*asset.Asset{good, bad})

	items := lib.ExportAssets(ctx, []string{bad.ID, "missing", good.ID})
	if len(items) != 1 {
		t.Fatalf("expected only the fetchable asset, got %d items", len(items))
	}
	if items[0].Name != "good" || string(items[0].Data) != "good bytes" {
		t.Fatalf("unexpected export item: %+v", items[0])
	}
}

func TestExportAssetsDecodesDataURIs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	a := &asset.Asset{
		ID:   asset.NewID(),
		Type: asset.TypeImage,
		Name: "inline",
		Src:  "data:image/png;base64,aGVsbG8=",
	}
	lib.AddAsset(ctx, a)

	items := lib.ExportAssets(ctx, []string{a.ID})
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if string(items[0].Data) != "hello" {
		t.Fatalf("expected decoded payload, got %q", items[0].Data)
	}
}

func TestUpdateAssetCategory(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	a := newImageAsset("photo")
	lib.AddAsset(ctx, a)

	if err := lib.UpdateAssetCategory(ctx, a.ID, "edited", "Upscaled"); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := lib.Asset(a.ID)
	if got.Category != "edited" || got.Subcategory != "Upscaled" {
		t.Fatalf("unexpected categorization: %s / %s", got.Category, got.Subcategory)
	}
	if got.ID != a.ID || !got.CreatedAt.Equal(a.CreatedAt) {
		t.Fatal("identity fields must not change on recategorization")
	}

	if err := lib.UpdateAssetCategory(ctx, "missing", "x", "y"); err == nil {
		t.Fatal("expected error for unknown asset")
	}
}

func TestSelectIgnoresUnknownIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)
	ctx := context.Background()

	a := newImageAsset("photo")
	lib.AddAsset(ctx, a)

	lib.Select(a.ID, "ghost")
	if got := lib.SelectedIDs(); len(got) != 1 || got[0] != a.ID {
		t.Fatalf("expected only known ids in selection, got %v", got)
	}

	lib.Deselect(a.ID)
	if got := lib.SelectedIDs(); len(got) != 0 {
		t.Fatalf("expected empty selection, got %v", got)
	}
}
