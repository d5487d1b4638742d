package library

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"

	"easel/internal/asset"
	"easel/internal/services"
)

// AddAsset inserts or overwrites an asset by id and persists.
func (l *Library) AddAsset(ctx context.Context, a *asset.Asset) {
	l.mu.Lock()
	l.assets[a.ID] = a.Clone()
	_ = l.persistLocked(ctx)
	l.mu.Unlock()
}

// AddAssets inserts a batch of assets with one persistence flush.
func (l *Library) AddAssets(ctx context.Context, batch []*asset.Asset) {
	l.mu.Lock()
	for _, a := range batch {
		l.assets[a.ID] = a.Clone()
	}
	_ = l.persistLocked(ctx)
	l.mu.Unlock()
}

// UploadAsset stores raw content in local blob storage and records an asset
// pointing at the allocated transient URI.
func (l *Library) UploadAsset(ctx context.Context, name string, typ asset.Type, data []byte) *asset.Asset {
	uri := l.blobs.Allocate(data)
	a := &asset.Asset{
		ID:        asset.NewID(),
		Type:      typ,
		Name:      name,
		Src:       uri,
		CreatedAt: l.now(),
		Meta:      map[string]any{"size": len(data)},
	}
	l.AddAsset(ctx, a)
	return a.Clone()
}

// Asset returns a copy of the asset with the given id.
func (l *Library) Asset(id string) (*asset.Asset, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.assets[id]
	if !ok {
		return nil, false
	}
	return a.Clone(), true
}

// Assets returns copies of all assets, newest first.
func (l *Library) Assets() []*asset.Asset {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*asset.Asset, 0, len(l.assets))
	for _, a := range l.assets {
		out = append(out, a.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// AssetCount returns the number of tracked assets.
func (l *Library) AssetCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.assets)
}

// DeleteAssets removes each asset, revokes any locally-owned transient URI,
// drops the ids from the current selection, and persists once.
func (l *Library) DeleteAssets(ctx context.Context, ids []string) {
	l.mu.Lock()
	for _, id := range ids {
		a, ok := l.assets[id]
		if !ok {
			continue
		}
		if a.HasTransientSrc() {
			l.blobs.Revoke(a.Src)
		}
		delete(l.assets, id)
		delete(l.selected, id)
	}
	_ = l.persistLocked(ctx)
	l.mu.Unlock()
}

// UpdateAssetCategory patches the classification fields in place. Identity
// and creation time are never touched.
func (l *Library) UpdateAssetCategory(ctx context.Context, id, category, subcategory string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	a, ok := l.assets[id]
	if !ok {
		return services.Wrap(services.ErrNotFound, "library", "update category", fmt.Sprintf("asset %s", id), nil)
	}
	a.Category = category
	a.Subcategory = subcategory
	_ = l.persistLocked(ctx)
	return nil
}

// Select adds asset ids to the current selection; unknown ids are ignored.
func (l *Library) Select(ids ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		if _, ok := l.assets[id]; ok {
			l.selected[id] = struct{}{}
		}
	}
}

// Deselect removes asset ids from the current selection.
func (l *Library) Deselect(ids ...string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, id := range ids {
		delete(l.selected, id)
	}
}

// SelectedIDs returns the current selection in sorted order.
func (l *Library) SelectedIDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, 0, len(l.selected))
	for id := range l.selected {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// ExportItem is one exported asset's name and raw content.
type ExportItem struct {
	Name string
	Data []byte
}

// ExportAssets fetches the content of each resolvable asset. Failures for
// individual assets are logged and skipped; they never abort the batch.
func (l *Library) ExportAssets(ctx context.Context, ids []string) []ExportItem {
	items := make([]ExportItem, 0, len(ids))
	for _, id := range ids {
		a, ok := l.Asset(id)
		if !ok {
			l.logger.Warn("export skipped missing asset", slog.String("asset_id", id))
			continue
		}
		data, err := l.fetchContent(ctx, a.Src)
		if err != nil {
			l.logger.Warn("export failed for asset",
				slog.String("asset_id", id),
				slog.Any("error", err))
			continue
		}
		items = append(items, ExportItem{Name: a.Name, Data: data})
	}
	return items
}

// fetchContent dereferences a content URI: local blobs and data URIs are
// resolved in process, anything else goes through HTTP.
func (l *Library) fetchContent(ctx context.Context, uri string) ([]byte, error) {
	switch {
	case strings.HasPrefix(uri, blobScheme):
		data, ok := l.blobs.Resolve(uri)
		if !ok {
			return nil, fmt.Errorf("blob %q revoked or unknown", uri)
		}
		return data, nil
	case strings.HasPrefix(uri, "data:"):
		return decodeDataURI(uri)
	default:
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch %q: status %d", uri, resp.StatusCode)
		}
		return io.ReadAll(io.LimitReader(resp.Body, 64<<20))
	}
}

func decodeDataURI(uri string) ([]byte, error) {
	_, payload, ok := strings.Cut(uri, ",")
	if !ok {
		return nil, fmt.Errorf("malformed data URI")
	}
	if strings.Contains(uri[:len(uri)-len(payload)], ";base64") {
		return base64.StdEncoding.DecodeString(payload)
	}
	return []byte(payload), nil
}
