package library

import (
	"context"
	"fmt"

	"easel/internal/asset"
	"easel/internal/providers"
	"easel/internal/services"

	"github.com/google/uuid"
)

// SaveToGallery promotes an asset into the gallery as a detached snapshot.
// The gallery entry keeps its own copy of the content URL and generation
// metadata, so deleting the originating asset later does not affect it.
func (l *Library) SaveToGallery(ctx context.Context, assetID, prompt, model, category string, parameters map[string]any) (asset.GalleryImage, error) {
	source, ok := l.Asset(assetID)
	if !ok {
		return asset.GalleryImage{}, services.Wrap(services.ErrNotFound, "library", "save to gallery", fmt.Sprintf("asset %s", assetID), nil)
	}

	image := asset.GalleryImage{
		ID:         uuid.NewString(),
		URL:        source.Src,
		Prompt:     prompt,
		Model:      model,
		Parameters: parameters,
		Category:   category,
		SavedAt:    l.now(),
	}

	l.mu.Lock()
	l.gallery = append(l.gallery, image)
	_ = l.persistLocked(ctx)
	l.mu.Unlock()
	return image, nil
}

// GalleryImages returns the saved gallery entries, newest first.
func (l *Library) GalleryImages() []asset.GalleryImage {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]asset.GalleryImage, len(l.gallery))
	copy(out, l.gallery)
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// DeleteGalleryImage removes a gallery entry by id.
func (l *Library) DeleteGalleryImage(ctx context.Context, id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	kept := l.gallery[:0]
	for _, image := range l.gallery {
		if image.ID != id {
			kept = append(kept, image)
		}
	}
	l.gallery = kept
	_ = l.persistLocked(ctx)
}

// ToggleFavorite flips the favorite flag on a gallery entry.
func (l *Library) ToggleFavorite(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.gallery {
		if l.gallery[i].ID == id {
			l.gallery[i].Favorite = !l.gallery[i].Favorite
			_ = l.persistLocked(ctx)
			return nil
		}
	}
	return services.Wrap(services.ErrNotFound, "library", "toggle favorite", fmt.Sprintf("gallery image %s", id), nil)
}

// RememberParams stores the last-used parameters for a provider key.
func (l *Library) RememberParams(ctx context.Context, providerKey string, params providers.Params) {
	l.mu.Lock()
	l.paramsByKey[providerKey] = params
	_ = l.persistLocked(ctx)
	l.mu.Unlock()
}

// ParamsFor returns the remembered parameters for a provider key.
func (l *Library) ParamsFor(providerKey string) (providers.Params, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	params, ok := l.paramsByKey[providerKey]
	return params, ok
}
