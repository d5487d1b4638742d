package replicate

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"easel/internal/asset"
	"easel/internal/providers"
)

// Provider keys registered by this package.
const (
	KeyFluxSchnell = "replicate.flux-schnell"
	KeyFluxInpaint = "replicate.flux-inpaint"
)

const (
	fluxSchnellVersion = "black-forest-labs/flux-schnell"
	fluxInpaintVersion = "black-forest-labs/flux-fill-dev"
)

// FluxSchnell is a generation adapter over the flux-schnell model.
type FluxSchnell struct {
	client *Client
}

// NewFluxSchnell builds the generator adapter.
func NewFluxSchnell(client *Client) *FluxSchnell {
	return &FluxSchnell{client: client}
}

// Generate implements providers.Generator.
func (f *FluxSchnell) Generate(ctx context.Context, params providers.Params) (*asset.Asset, error) {
	prompt := strings.TrimSpace(params.Prompt)
	if prompt == "" {
		return nil, fmt.Errorf("flux-schnell: prompt required")
	}

	input := map[string]any{"prompt": prompt}
	for k, v := range params.Options {
		input[k] = v
	}

	output, err := f.client.Predict(ctx, fluxSchnellVersion, input)
	if err != nil {
		return nil, err
	}

	return &asset.Asset{
		ID:        asset.NewID(),
		Type:      asset.TypeImage,
		Name:      prompt,
		Src:       output,
		CreatedAt: time.Now().UTC(),
		Meta: map[string]any{
			"provider": KeyFluxSchnell,
			"prompt":   prompt,
		},
	}, nil
}

// FluxInpaint is an edit adapter over the flux fill model.
type FluxInpaint struct {
	client *Client
}

// NewFluxInpaint builds the editor adapter.
func NewFluxInpaint(client *Client) *FluxInpaint {
	return &FluxInpaint{client: client}
}

// Edit implements providers.Editor.
func (f *FluxInpaint) Edit(ctx context.Context, input *asset.Asset, params providers.Params) (*asset.Asset, error) {
	if input == nil {
		return nil, fmt.Errorf("flux-inpaint: input asset required")
	}
	instruction := strings.TrimSpace(params.Instruction)
	if instruction == "" {
		return nil, fmt.Errorf("flux-inpaint: instruction required")
	}

	request := map[string]any{
		"image":  input.Src,
		"prompt": instruction,
	}
	if len(params.Mask) > 0 {
		request["mask"] = "data:image/png;base64," + base64.StdEncoding.EncodeToString(params.Mask)
	}
	for k, v := range params.Options {
		request[k] = v
	}

	output, err := f.client.Predict(ctx, fluxInpaintVersion, request)
	if err != nil {
		return nil, err
	}

	return &asset.Asset{
		ID:        asset.NewID(),
		Type:      input.Type,
		Name:      "FLUX Inpaint: " + input.Name,
		Src:       output,
		CreatedAt: time.Now().UTC(),
		Meta: map[string]any{
			"provider":    KeyFluxInpaint,
			"instruction": instruction,
			"source":      input.ID,
		},
	}, nil
}

// Register wires both flux adapters into a registry.
func Register(reg *providers.Registry, client *Client) {
	reg.RegisterGenerator(KeyFluxSchnell, NewFluxSchnell(client))
	reg.RegisterEditor(KeyFluxInpaint, NewFluxInpaint(client))
}
