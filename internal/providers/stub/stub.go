// Package stub provides deterministic in-process adapters. They back tests
// and the offline demo mode where no provider credentials are configured.
package stub

import (
	"context"
	"fmt"
	"sync"

	"easel/internal/asset"
	"easel/internal/providers"
)

// Key is the registry key the demo adapter registers under.
const Key = "stub"

// Adapter implements every operation family with synthetic outputs. The
// zero value succeeds; a failure error can be injected for tests.
type Adapter struct {
	mu       sync.Mutex
	calls    int
	last     providers.Params
	failWith error
}

// New returns an adapter that always succeeds.
func New() *Adapter {
	return &Adapter{}
}

// Failing returns an adapter whose every operation fails with err.
func Failing(err error) *Adapter {
	return &Adapter{failWith: err}
}

// Calls reports how many operations the adapter has served.
func (a *Adapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// LastParams returns the params of the most recent operation.
func (a *Adapter) LastParams() providers.Params {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

func (a *Adapter) produce(ctx context.Context, name string, typ asset.Type, params providers.Params) (*asset.Asset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	a.mu.Lock()
	a.calls++
	call := a.calls
	a.last = params
	err := a.failWith
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &asset.Asset{
		ID:   asset.NewID(),
		Type: typ,
		Name: name,
		Src:  fmt.Sprintf("https://stub.invalid/outputs/%d.png", call),
	}, nil
}

func (a *Adapter) Generate(ctx context.Context, params providers.Params) (*asset.Asset, error) {
	name := params.Prompt
	if name == "" {
		name = "Untitled"
	}
	return a.produce(ctx, name, asset.TypeImage, params)
}

func (a *Adapter) Edit(ctx context.Context, input *asset.Asset, params providers.Params) (*asset.Asset, error) {
	return a.produce(ctx, input.Name, asset.TypeImage, params)
}

func (a *Adapter) AddText(ctx context.Context, input *asset.Asset, params providers.Params) (*asset.Asset, error) {
	return a.produce(ctx, input.Name, asset.TypeImage, params)
}

func (a *Adapter) Animate(ctx context.Context, input *asset.Asset, params providers.Params) (*asset.Asset, error) {
	return a.produce(ctx, input.Name, asset.TypeAnimation, params)
}

func (a *Adapter) AddSound(ctx context.Context, input *asset.Asset, params providers.Params) (*asset.Asset, error) {
	return a.produce(ctx, input.Name, asset.TypeAudio, params)
}

// Register wires the adapter into every operation family under key.
func Register(reg *providers.Registry, key string, a *Adapter) {
	reg.RegisterGenerator(key, a)
	reg.RegisterEditor(key, a)
	reg.RegisterTextOverlayer(key, a)
	reg.RegisterAnimator(key, a)
	reg.RegisterSounder(key, a)
}
