package library

import (
	"context"
	"fmt"
	"sort"

	"easel/internal/asset"
	"easel/internal/services"

	"github.com/google/uuid"
)

// CreateCanvas opens a new workspace slot, optionally bound to an asset.
// The display name is derived from the asset with title normalization
// applied. The configured canvas cap is enforced by evicting the oldest
// canvases; the new canvas always survives and becomes active.
func (l *Library) CreateCanvas(ctx context.Context, canvasType string, a *asset.Asset) *asset.Canvas {
	name := "Untitled"
	if a != nil {
		if normalized := asset.NormalizeTitle(a.Name); normalized != "" {
			name = normalized
		}
	}

	canvas := &asset.Canvas{
		ID:        uuid.NewString(),
		Type:      canvasType,
		Name:      name,
		Asset:     a.Clone(),
		CreatedAt: l.now(),
	}

	l.mu.Lock()
	limit := l.cfg.Library.CanvasLimit
	existing := append([]*asset.Canvas(nil), l.canvases...)
	sort.Slice(existing, func(i, j int) bool {
		return existing[i].CreatedAt.After(existing[j].CreatedAt)
	})
	if len(existing) > limit-1 {
		existing = existing[:limit-1]
	}
	l.canvases = append(existing, canvas)
	l.activeCanvasID = canvas.ID
	_ = l.persistLocked(ctx)
	l.mu.Unlock()

	clone := *canvas
	return &clone
}

// UpdateCanvasAsset swaps an asset into an existing canvas, renaming the
// canvas with the same title normalization used at creation.
func (l *Library) UpdateCanvasAsset(ctx context.Context, canvasID string, a *asset.Asset) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, canvas := range l.canvases {
		if canvas.ID != canvasID {
			continue
		}
		canvas.Asset = a.Clone()
		if a != nil {
			if normalized := asset.NormalizeTitle(a.Name); normalized != "" {
				canvas.Name = normalized
			}
		}
		_ = l.persistLocked(ctx)
		return nil
	}
	return services.Wrap(services.ErrNotFound, "library", "update canvas", fmt.Sprintf("canvas %s", canvasID), nil)
}

// DeleteCanvas removes a canvas. When the active canvas is removed, the
// most recently created survivor is promoted; with no survivors there is no
// active canvas.
func (l *Library) DeleteCanvas(ctx context.Context, canvasID string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	kept := make([]*asset.Canvas, 0, len(l.canvases))
	removed := false
	for _, canvas := range l.canvases {
		if canvas.ID == canvasID {
			removed = true
			continue
		}
		kept = append(kept, canvas)
	}
	if !removed {
		return
	}
	l.canvases = kept

	if l.activeCanvasID == canvasID {
		l.activeCanvasID = ""
		var newest *asset.Canvas
		for _, canvas := range kept {
			if newest == nil || canvas.CreatedAt.After(newest.CreatedAt) {
				newest = canvas
			}
		}
		if newest != nil {
			l.activeCanvasID = newest.ID
		}
	}
	_ = l.persistLocked(ctx)
}

// DeleteAllCanvases clears every workspace slot.
func (l *Library) DeleteAllCanvases(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.canvases = nil
	l.activeCanvasID = ""
	_ = l.persistLocked(ctx)
}

// Canvases returns copies of all canvases, newest first.
func (l *Library) Canvases() []asset.Canvas {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]asset.Canvas, 0, len(l.canvases))
	for _, canvas := range l.canvases {
		out = append(out, *canvas)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ActiveCanvas returns the currently active canvas, if any.
func (l *Library) ActiveCanvas() (asset.Canvas, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, canvas := range l.canvases {
		if canvas.ID == l.activeCanvasID {
			return *canvas, true
		}
	}
	return asset.Canvas{}, false
}

// DropTransfer decodes a drag/drop payload and binds the described asset to
// a new canvas. Payloads referencing a tracked asset bind that asset;
// otherwise a detached asset record is built from the payload alone.
func (l *Library) DropTransfer(ctx context.Context, payload []byte) (*asset.Canvas, error) {
	decoded, err := asset.DecodeTransferPayload(payload)
	if err != nil {
		return nil, services.Wrap(services.ErrValidation, "library", "drop transfer", "", err)
	}

	target, ok := l.Asset(decoded.ID)
	if !ok {
		target = &asset.Asset{
			ID:        decoded.ID,
			Type:      decoded.Type,
			Name:      decoded.Name,
			Src:       decoded.URL,
			CreatedAt: l.now(),
		}
	}
	return l.CreateCanvas(ctx, string(target.Type), target), nil
}
