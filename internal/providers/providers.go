package providers

import (
	"context"

	"easel/internal/asset"
)

// Params is the operation payload handed to an adapter. Fields are
// populated according to the operation family; adapters ignore what they do
// not use.
type Params struct {
	// Prompt drives generation-family adapters.
	Prompt string `json:"prompt,omitempty"`
	// Instruction drives edit-family adapters. The engine synthesizes one
	// for upscale and background-removal steps when the caller omits it.
	Instruction string `json:"instruction,omitempty"`
	// Mask is a canonical white=edit PNG for inpainting edits.
	Mask []byte `json:"mask,omitempty"`
	// Text is the overlay string for text-overlay adapters.
	Text string `json:"text,omitempty"`
	// Options carries provider-specific tuning values.
	Options map[string]any `json:"options,omitempty"`
}

// Generator produces a new asset from a prompt.
type Generator interface {
	Generate(ctx context.Context, params Params) (*asset.Asset, error)
}

// Editor derives a new asset from an input asset and an instruction,
// optionally constrained by a mask.
type Editor interface {
	Edit(ctx context.Context, input *asset.Asset, params Params) (*asset.Asset, error)
}

// TextOverlayer renders text onto an input asset.
type TextOverlayer interface {
	AddText(ctx context.Context, input *asset.Asset, params Params) (*asset.Asset, error)
}

// Animator produces an animation asset from a still input.
type Animator interface {
	Animate(ctx context.Context, input *asset.Asset, params Params) (*asset.Asset, error)
}

// Sounder produces an audio track for an input asset.
type Sounder interface {
	AddSound(ctx context.Context, input *asset.Asset, params Params) (*asset.Asset, error)
}
