package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"easel/internal/asset"
	"easel/internal/config"
	"easel/internal/library"
	"easel/internal/logging"
	"easel/internal/mask"
	"easel/internal/notifications"
	"easel/internal/providers"
	"easel/internal/services"
)

// Instructions synthesized when a fixed-purpose edit step arrives without
// one. Providers behind the edit family need a textual directive even for
// single-purpose operations.
const (
	upscaleInstruction  = "Upscale this image to a higher resolution, preserving fine detail"
	removeBGInstruction = "Remove the background from this image, leaving a clean transparent backdrop"
)

// categoryForKind maps a completed step kind to the category and
// subcategory stamped onto its output asset.
var categoryForKind = map[library.StepKind]struct {
	category    string
	subcategory string
}{
	library.KindGenerate: {"generated", "AI Generated"},
	library.KindEdit:     {"edited", "Enhanced"},
	library.KindAddText:  {"edited", "Text Added"},
	library.KindAnimate:  {"generated", "Animated"},
	library.KindAddSound: {"generated", "With Sound"},
	library.KindUpscale:  {"edited", "Upscaled"},
	library.KindRemoveBG: {"edited", "Background Removed"},
}

// Engine drives steps from queued to a terminal state.
type Engine struct {
	cfg      *config.Config
	lib      *library.Library
	reg      *providers.Registry
	notifier notifications.Service
	logger   *slog.Logger
	now      func() time.Time
}

// Option customizes engine construction.
type Option func(*Engine)

// WithClock injects a deterministic time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// NewEngine constructs a pipeline engine over the given library and adapter
// registry. A nil notifier falls back to the noop service.
func NewEngine(cfg *config.Config, lib *library.Library, reg *providers.Registry, notifier notifications.Service, logger *slog.Logger, opts ...Option) *Engine {
	if notifier == nil {
		notifier = notifications.NewService(&config.Config{})
	}
	e := &Engine{
		cfg:      cfg,
		lib:      lib,
		reg:      reg,
		notifier: notifier,
		logger:   logging.WithComponent(logger, "pipeline"),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// EnqueueStep records a queued step and returns its id. Only the kind is
// validated here; unresolvable providers and missing inputs surface when the
// step runs. An empty provider key falls back to the configured default for
// the kind's family.
func (e *Engine) EnqueueStep(ctx context.Context, kind library.StepKind, inputIDs []string, params providers.Params, providerKey string) (string, error) {
	if !library.ValidKind(kind) {
		return "", services.Wrap(services.ErrValidation, "pipeline", "enqueue", fmt.Sprintf("unknown step kind %q", kind), nil)
	}
	if providerKey == "" {
		providerKey = e.defaultProvider(kind)
	}

	now := e.now()
	step := &library.Step{
		ID:            asset.NewID(),
		Kind:          kind,
		InputAssetIDs: append([]string(nil), inputIDs...),
		Params:        params,
		Provider:      providerKey,
		Status:        library.StepQueued,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	e.lib.InsertStep(step)
	e.lib.RememberParams(ctx, providerKey, params)
	if err := e.lib.Persist(ctx); err != nil {
		e.logger.Warn("persist after enqueue failed", logging.FieldStepID, step.ID, slog.Any("error", err))
	}

	e.logger.Info("step enqueued",
		logging.FieldStepID, step.ID,
		logging.FieldKind, string(kind),
		logging.FieldProvider, providerKey)
	return step.ID, nil
}

func (e *Engine) defaultProvider(kind library.StepKind) string {
	switch kind {
	case library.KindGenerate:
		return e.cfg.Providers.DefaultGenerator
	case library.KindEdit, library.KindUpscale, library.KindRemoveBG:
		return e.cfg.Providers.DefaultEditor
	default:
		return ""
	}
}

// RunStep claims the step and executes it to a terminal state. A step id can
// be claimed exactly once: running, done, and failed steps are rejected with
// ErrStepNotRunnable. An unknown id is a silent skip. Execution failures are
// recorded on the step rather than returned.
func (e *Engine) RunStep(ctx context.Context, id string) error {
	if _, ok := e.lib.Step(id); !ok {
		e.logger.Warn("run requested for unknown step", logging.FieldStepID, id)
		return nil
	}

	claimed, err := e.lib.ClaimStep(id)
	if err != nil {
		if errors.Is(err, library.ErrStepNotRunnable) {
			return library.ErrStepNotRunnable
		}
		return err
	}

	e.logger.Info("step running",
		logging.FieldStepID, claimed.ID,
		logging.FieldKind, string(claimed.Kind),
		logging.FieldProvider, claimed.Provider)

	output, runErr := e.execute(ctx, claimed)
	if runErr != nil {
		e.recordFailure(ctx, claimed, runErr)
		return nil
	}

	e.recordSuccess(ctx, claimed, output)
	return nil
}

func (e *Engine) recordSuccess(ctx context.Context, step library.Step, output *asset.Asset) {
	if output.ID == "" {
		output.ID = asset.NewID()
	}
	if output.CreatedAt.IsZero() {
		output.CreatedAt = e.now()
	}
	output.Name = asset.NormalizeTitle(output.Name)
	if mapping, ok := categoryForKind[step.Kind]; ok {
		output.Category = mapping.category
		output.Subcategory = mapping.subcategory
	}

	e.lib.AddAsset(ctx, output)
	if err := e.lib.CompleteStep(step.ID, output.ID); err != nil {
		e.logger.Error("complete step failed", logging.FieldStepID, step.ID, slog.Any("error", err))
		return
	}
	if err := e.lib.Persist(ctx); err != nil {
		e.logger.Warn("persist after completion failed", logging.FieldStepID, step.ID, slog.Any("error", err))
	}
	if err := e.notifier.NotifyStepCompleted(ctx, string(step.Kind), output.Name); err != nil {
		e.logger.Warn("completion notification failed", slog.Any("error", err))
	}
	e.logger.Info("step done",
		logging.FieldStepID, step.ID,
		logging.FieldAssetID, output.ID,
		logging.FieldKind, string(step.Kind))
}

func (e *Engine) recordFailure(ctx context.Context, step library.Step, runErr error) {
	message := services.UserMessage(runErr)
	if err := e.lib.FailStep(step.ID, message); err != nil {
		e.logger.Error("fail step failed", logging.FieldStepID, step.ID, slog.Any("error", err))
		return
	}
	if err := e.lib.Persist(ctx); err != nil {
		e.logger.Warn("persist after failure failed", logging.FieldStepID, step.ID, slog.Any("error", err))
	}
	if err := e.notifier.NotifyStepFailed(ctx, string(step.Kind), message); err != nil {
		e.logger.Warn("failure notification failed", slog.Any("error", err))
	}
	e.logger.Warn("step failed",
		logging.FieldStepID, step.ID,
		logging.FieldKind, string(step.Kind),
		slog.String("reason", message))
}

// execute dispatches the claimed step to its adapter family.
func (e *Engine) execute(ctx context.Context, step library.Step) (*asset.Asset, error) {
	params := step.Params

	if step.Kind == library.KindGenerate {
		generator, err := e.reg.GeneratorFor(step.Provider)
		if err != nil {
			return nil, err
		}
		return generator.Generate(ctx, params)
	}

	input, err := e.resolveInput(step)
	if err != nil {
		return nil, err
	}

	switch step.Kind {
	case library.KindEdit:
		editor, err := e.reg.EditorFor(step.Provider)
		if err != nil {
			return nil, err
		}
		return editor.Edit(ctx, input, params)
	case library.KindUpscale:
		editor, err := e.reg.EditorFor(step.Provider)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(params.Instruction) == "" {
			params.Instruction = upscaleInstruction
		}
		return editor.Edit(ctx, input, params)
	case library.KindRemoveBG:
		editor, err := e.reg.EditorFor(step.Provider)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(params.Instruction) == "" {
			params.Instruction = removeBGInstruction
		}
		return editor.Edit(ctx, input, params)
	case library.KindAddText:
		overlayer, err := e.reg.TextOverlayerFor(step.Provider)
		if err != nil {
			return nil, err
		}
		return overlayer.AddText(ctx, input, params)
	case library.KindAnimate:
		animator, err := e.reg.AnimatorFor(step.Provider)
		if err != nil {
			return nil, err
		}
		return animator.Animate(ctx, input, params)
	case library.KindAddSound:
		sounder, err := e.reg.SounderFor(step.Provider)
		if err != nil {
			return nil, err
		}
		return sounder.AddSound(ctx, input, params)
	default:
		return nil, services.Wrap(services.ErrValidation, "pipeline", "execute", fmt.Sprintf("unknown step kind %q", step.Kind), nil)
	}
}

// resolveInput returns the first input asset that still exists. Stale ids
// left behind by deletions are skipped.
func (e *Engine) resolveInput(step library.Step) (*asset.Asset, error) {
	for _, id := range step.InputAssetIDs {
		if a, ok := e.lib.Asset(id); ok {
			return a, nil
		}
	}
	return nil, services.Wrap(services.ErrValidation, "pipeline", "execute", "input asset not found", nil)
}

// GenerateDirectly enqueues a generation step, runs it synchronously, and
// returns the output asset or the error recorded on the step.
func (e *Engine) GenerateDirectly(ctx context.Context, params providers.Params, providerKey string) (*asset.Asset, error) {
	id, err := e.EnqueueStep(ctx, library.KindGenerate, nil, params, providerKey)
	if err != nil {
		return nil, err
	}
	if err := e.RunStep(ctx, id); err != nil {
		return nil, err
	}

	step, ok := e.lib.Step(id)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "generate", "step disappeared during run", nil)
	}
	if step.Status != library.StepDone {
		return nil, services.Wrap(services.ErrProvider, "pipeline", "generate", step.Error, nil)
	}
	output, ok := e.lib.Asset(step.OutputAssetID)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "pipeline", "generate", "output asset missing", nil)
	}
	return output, nil
}

// ValidateMaskForSubmit enforces the advisory mask quality gate. Reports
// flagged invalid block submission unless the caller explicitly allows
// warnings.
func (e *Engine) ValidateMaskForSubmit(report mask.Report, allowWarnings bool) error {
	if report.IsValid || allowWarnings {
		return nil
	}
	return services.Wrap(services.ErrValidation, "pipeline", "submit mask", strings.Join(report.Warnings, "; "), nil)
}
