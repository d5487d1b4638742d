package pipeline_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"easel/internal/asset"
	"easel/internal/config"
	"easel/internal/library"
	"easel/internal/logging"
	"easel/internal/mask"
	"easel/internal/pipeline"
	"easel/internal/providers"
	"easel/internal/providers/stub"
	"easel/internal/services"
	"easel/internal/testsupport"
)

func newTestEngine(t *testing.T, adapter *stub.Adapter) (*pipeline.Engine, *library.Library, *config.Config) {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	cfg.Providers.DefaultGenerator = stub.Key
	cfg.Providers.DefaultEditor = stub.Key

	lib := testsupport.MustOpenLibrary(t, cfg)
	reg := providers.NewRegistry()
	if adapter != nil {
		stub.Register(reg, stub.Key, adapter)
	}
	engine := pipeline.NewEngine(cfg, lib, reg, nil, logging.NewNop())
	return engine, lib, cfg
}

func TestEnqueueRejectsUnknownKind(t *testing.T) {
	engine, lib, _ := newTestEngine(t, stub.New())

	_, err := engine.EnqueueStep(context.Background(), library.StepKind("SPIN"), nil, providers.Params{}, "")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if got := len(lib.Steps()); got != 0 {
		t.Fatalf("expected no steps recorded, got %d", got)
	}
}

func TestRunStepGeneratesAsset(t *testing.T) {
	adapter := stub.New()
	engine, lib, _ := newTestEngine(t, adapter)
	ctx := context.Background()

	id, err := engine.EnqueueStep(ctx, library.KindGenerate, nil, providers.Params{Prompt: "sunset over dunes"}, "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}

	step, ok := lib.Step(id)
	if !ok {
		t.Fatal("expected queued step to be recorded")
	}
	if step.Status != library.StepQueued {
		t.Fatalf("expected queued status, got %s", step.Status)
	}

	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("run: %v", err)
	}

	step, _ = lib.Step(id)
	if step.Status != library.StepDone {
		t.Fatalf("expected done status, got %s (error %q)", step.Status, step.Error)
	}
	if step.OutputAssetID == "" {
		t.Fatal("expected output asset id on completed step")
	}

	output, ok := lib.Asset(step.OutputAssetID)
	if !ok {
		t.Fatal("expected output asset in library")
	}
	if output.Category != "generated" || output.Subcategory != "AI Generated" {
		t.Fatalf("unexpected categorization: %s / %s", output.Category, output.Subcategory)
	}
	if output.Name != "sunset over dunes" {
		t.Fatalf("unexpected output name %q", output.Name)
	}
}

func TestRunStepRecordsAdapterFailure(t *testing.T) {
	engine, lib, _ := newTestEngine(t, stub.Failing(errors.New("rate limited")))
	ctx := context.Background()

	id, err := engine.EnqueueStep(ctx, library.KindGenerate, nil, providers.Params{Prompt: "a cat"}, "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("run should record the failure, got %v", err)
	}

	step, _ := lib.Step(id)
	if step.Status != library.StepFailed {
		t.Fatalf("expected failed status, got %s", step.Status)
	}
	if step.Error != "rate limited" {
		t.Fatalf("expected recorded error %q, got %q", "rate limited", step.Error)
	}
	if step.OutputAssetID != "" {
		t.Fatalf("failed step must not reference an output asset, got %q", step.OutputAssetID)
	}
	if got := lib.AssetCount(); got != 0 {
		t.Fatalf("failed step must not create assets, found %d", got)
	}
}

func TestRunStepRejectsSecondClaim(t *testing.T) {
	adapter := stub.New()
	engine, _, _ := newTestEngine(t, adapter)
	ctx := context.Background()

	id, err := engine.EnqueueStep(ctx, library.KindGenerate, nil, providers.Params{Prompt: "dunes"}, "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("first run: %v", err)
	}
	if err := engine.RunStep(ctx, id); !errors.Is(err, library.ErrStepNotRunnable) {
		t.Fatalf("expected ErrStepNotRunnable on re-run, got %v", err)
	}
	if got := adapter.Calls(); got != 1 {
		t.Fatalf("adapter must run exactly once, ran %d times", got)
	}
}

func TestRunStepUnknownIDIsSilentSkip(t *testing.T) {
	engine, _, _ := newTestEngine(t, stub.New())
	if err := engine.RunStep(context.Background(), "no-such-step"); err != nil {
		t.Fatalf("expected nil for unknown step id, got %v", err)
	}
}

func TestRunStepSynthesizesInstructions(t *testing.T) {
	tests := []struct {
		kind           library.StepKind
		expectFragment string
	}{
		{library.KindUpscale, "Upscale"},
		{library.KindRemoveBG, "Remove the background"},
	}

	for _, tc := range tests {
		t.Run(string(tc.kind), func(t *testing.T) {
			adapter := stub.New()
			engine, lib, _ := newTestEngine(t, adapter)
			ctx := context.Background()

			input := &asset.Asset{ID: asset.NewID(), Type: asset.TypeImage, Name: "photo", Src: "https://cdn.example.com/photo.png"}
			lib.AddAsset(ctx, input)

			id, err := engine.EnqueueStep(ctx, tc.kind, []string{input.ID}, providers.Params{}, "")
			if err != nil {
				t.Fatalf("enqueue: %v", err)
			}
			if err := engine.RunStep(ctx, id); err != nil {
				t.Fatalf("run: %v", err)
			}

			step, _ := lib.Step(id)
			if step.Status != library.StepDone {
				t.Fatalf("expected done status, got %s (error %q)", step.Status, step.Error)
			}
			if got := adapter.LastParams().Instruction; !strings.Contains(got, tc.expectFragment) {
				t.Fatalf("expected synthesized instruction containing %q, got %q", tc.expectFragment, got)
			}
		})
	}
}

func TestRunStepKeepsCallerInstruction(t *testing.T) {
	adapter := stub.New()
	engine, lib, _ := newTestEngine(t, adapter)
	ctx := context.Background()

	input := &asset.Asset{ID: asset.NewID(), Type: asset.TypeImage, Name: "photo", Src: "https://cdn.example.com/photo.png"}
	lib.AddAsset(ctx, input)

	id, err := engine.EnqueueStep(ctx, library.KindUpscale, []string{input.ID}, providers.Params{Instruction: "make it 4k"}, "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := adapter.LastParams().Instruction; got != "make it 4k" {
		t.Fatalf("caller instruction must win, got %q", got)
	}
}

func TestRunStepFailsWhenInputMissing(t *testing.T) {
	adapter := stub.New()
	engine, lib, _ := newTestEngine(t, adapter)
	ctx := context.Background()

	id, err := engine.EnqueueStep(ctx, library.KindEdit, []string{"gone"}, providers.Params{Instruction: "brighten"}, "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("run should record the failure, got %v", err)
	}

	step, _ := lib.Step(id)
	if step.Status != library.StepFailed {
		t.Fatalf("expected failed status, got %s", step.Status)
	}
	if !strings.Contains(step.Error, "input asset not found") {
		t.Fatalf("expected missing-input message, got %q", step.Error)
	}
	if got := adapter.Calls(); got != 0 {
		t.Fatalf("adapter must not run without input, ran %d times", got)
	}
}

func TestRunStepSkipsStaleInputIDs(t *testing.T) {
	adapter := stub.New()
	engine, lib, _ := newTestEngine(t, adapter)
	ctx := context.Background()

	input := &asset.Asset{ID: asset.NewID(), Type: asset.TypeImage, Name: "survivor", Src: "https://cdn.example.com/s.png"}
	lib.AddAsset(ctx, input)

	id, err := engine.EnqueueStep(ctx, library.KindEdit, []string{"deleted-first", input.ID}, providers.Params{Instruction: "brighten"}, "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("run: %v", err)
	}

	step, _ := lib.Step(id)
	if step.Status != library.StepDone {
		t.Fatalf("expected done status, got %s (error %q)", step.Status, step.Error)
	}
}

func TestRunStepFailsOnUnregisteredProvider(t *testing.T) {
	engine, lib, _ := newTestEngine(t, nil)
	ctx := context.Background()

	id, err := engine.EnqueueStep(ctx, library.KindGenerate, nil, providers.Params{Prompt: "dunes"}, "missing.adapter")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("run should record the failure, got %v", err)
	}

	step, _ := lib.Step(id)
	if step.Status != library.StepFailed {
		t.Fatalf("expected failed status, got %s", step.Status)
	}
	if !strings.Contains(step.Error, "missing.adapter") {
		t.Fatalf("expected error naming the provider key, got %q", step.Error)
	}
}

func TestRunStepNormalizesAccretedTitles(t *testing.T) {
	adapter := stub.New()
	engine, lib, _ := newTestEngine(t, adapter)
	ctx := context.Background()

	input := &asset.Asset{
		ID:   asset.NewID(),
		Type: asset.TypeImage,
		Name: "FLUX Inpaint: FLUX Inpaint: cat",
		Src:  "https://cdn.example.com/cat.png",
	}
	lib.AddAsset(ctx, input)

	id, err := engine.EnqueueStep(ctx, library.KindEdit, []string{input.ID}, providers.Params{Instruction: "sharpen"}, "")
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if err := engine.RunStep(ctx, id); err != nil {
		t.Fatalf("run: %v", err)
	}

	step, _ := lib.Step(id)
	output, ok := lib.Asset(step.OutputAssetID)
	if !ok {
		t.Fatal("expected output asset in library")
	}
	if output.Name != "FLUX Inpaint: cat" {
		t.Fatalf("expected normalized title, got %q", output.Name)
	}
}

func TestGenerateDirectly(t *testing.T) {
	engine, _, _ := newTestEngine(t, stub.New())

	output, err := engine.GenerateDirectly(context.Background(), providers.Params{Prompt: "a quiet harbor"}, "")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if output.Name != "a quiet harbor" {
		t.Fatalf("unexpected output name %q", output.Name)
	}
	if output.Category != "generated" {
		t.Fatalf("expected generated category, got %q", output.Category)
	}
}

func TestGenerateDirectlyReturnsRecordedError(t *testing.T) {
	engine, lib, _ := newTestEngine(t, stub.Failing(errors.New("rate limited")))

	_, err := engine.GenerateDirectly(context.Background(), providers.Params{Prompt: "a cat"}, "")
	if !errors.Is(err, services.ErrProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected recorded message in error, got %v", err)
	}
	if got := lib.AssetCount(); got != 0 {
		t.Fatalf("failed generation must not create assets, found %d", got)
	}
}

func TestValidateMaskForSubmit(t *testing.T) {
	engine, _, _ := newTestEngine(t, stub.New())

	valid := mask.Report{IsValid: true}
	if err := engine.ValidateMaskForSubmit(valid, false); err != nil {
		t.Fatalf("valid mask must pass, got %v", err)
	}

	invalid := mask.Report{IsValid: false, Warnings: []string{"mask is empty"}}
	if err := engine.ValidateMaskForSubmit(invalid, true); err != nil {
		t.Fatalf("warnings allowed must pass, got %v", err)
	}
	err := engine.ValidateMaskForSubmit(invalid, false)
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "mask is empty") {
		t.Fatalf("expected warning in error message, got %v", err)
	}
}
