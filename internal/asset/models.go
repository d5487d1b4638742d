package asset

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Type classifies the media content of an asset.
type Type string

const (
	TypeImage     Type = "image"
	TypeAnimation Type = "animation"
	TypeAudio     Type = "audio"
)

var allTypes = []Type{TypeImage, TypeAnimation, TypeAudio}

// ValidType reports whether t is a known asset type.
func ValidType(t Type) bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Asset is a single tracked media item. Content is addressed by Src, which
// may be a durable remote URL or a transient locally-allocated URI.
type Asset struct {
	ID          string         `json:"id"`
	Type        Type           `json:"type"`
	Name        string         `json:"name"`
	Src         string         `json:"src"`
	Meta        map[string]any `json:"meta,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	Category    string         `json:"category,omitempty"`
	Subcategory string         `json:"subcategory,omitempty"`
}

// NewID returns a fresh asset identifier.
func NewID() string {
	return uuid.NewString()
}

// Clone returns a deep copy so stored records cannot be mutated through
// previously returned pointers.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	dup := *a
	if a.Meta != nil {
		dup.Meta = make(map[string]any, len(a.Meta))
		for k, v := range a.Meta {
			dup.Meta[k] = v
		}
	}
	return &dup
}

// HasTransientSrc reports whether the asset's content URI is locally
// allocated and must be revoked when the asset is deleted.
func (a *Asset) HasTransientSrc() bool {
	return IsTransientURI(a.Src)
}

// IsTransientURI reports whether uri points at locally-owned transient
// storage rather than a durable remote location.
func IsTransientURI(uri string) bool {
	return strings.HasPrefix(uri, "blob:") || strings.HasPrefix(uri, "data:")
}

// Canvas binds a named workspace slot to at most one asset. The asset is a
// shared reference, not ownership: deleting the asset leaves the canvas.
type Canvas struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Name      string    `json:"name"`
	Asset     *Asset    `json:"asset,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// GalleryImage is a promoted snapshot with generation metadata. It is a
// detached copy with its own lifecycle and survives deletion of the asset
// it was promoted from.
type GalleryImage struct {
	ID         string         `json:"id"`
	URL        string         `json:"url"`
	Prompt     string         `json:"prompt,omitempty"`
	Model      string         `json:"model,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
	Category   string         `json:"category,omitempty"`
	Favorite   bool           `json:"favorite"`
	SavedAt    time.Time      `json:"saved_at"`
}

var titleCaser = cases.Title(language.English)

// DisplayLabel renders a category or kind value as a human-facing label,
// e.g. "background removed" -> "Background Removed".
func DisplayLabel(value string) string {
	value = strings.TrimSpace(strings.ReplaceAll(strings.ReplaceAll(value, "_", " "), "-", " "))
	if value == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(value))
}
