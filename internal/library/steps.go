package library

import (
	"errors"
	"sort"
	"time"

	"easel/internal/providers"
)

// StepKind identifies the pipeline operation a step performs.
type StepKind string

const (
	KindGenerate StepKind = "GENERATE"
	KindEdit     StepKind = "EDIT"
	KindAddText  StepKind = "ADD_TEXT"
	KindAnimate  StepKind = "ANIMATE"
	KindAddSound StepKind = "ADD_SOUND"
	KindUpscale  StepKind = "UPSCALE"
	KindRemoveBG StepKind = "REMOVE_BG"
)

var allKinds = []StepKind{
	KindGenerate,
	KindEdit,
	KindAddText,
	KindAnimate,
	KindAddSound,
	KindUpscale,
	KindRemoveBG,
}

// ValidKind reports whether k is one of the known step kinds.
func ValidKind(k StepKind) bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// StepStatus represents the lifecycle of a pipeline step.
type StepStatus string

const (
	StepQueued  StepStatus = "queued"
	StepRunning StepStatus = "running"
	StepDone    StepStatus = "done"
	StepFailed  StepStatus = "failed"
)

// validStepTransitions maps each status to the set of statuses it may
// transition to. Transitions are monotonic; terminal states have no exits.
var validStepTransitions = map[StepStatus]map[StepStatus]bool{
	StepQueued: {
		StepRunning: true,
	},
	StepRunning: {
		StepDone:   true,
		StepFailed: true,
	},
}

// ValidStepTransition reports whether moving from one status to another is
// allowed.
func ValidStepTransition(from, to StepStatus) bool {
	targets, ok := validStepTransitions[from]
	if !ok {
		return false
	}
	return targets[to]
}

// Step is a single tracked unit of pipeline work.
type Step struct {
	ID            string           `json:"id"`
	Kind          StepKind         `json:"kind"`
	InputAssetIDs []string         `json:"input_asset_ids,omitempty"`
	Params        providers.Params `json:"params"`
	Provider      string           `json:"provider"`
	Status        StepStatus       `json:"status"`
	OutputAssetID string           `json:"output_asset_id,omitempty"`
	Error         string           `json:"error,omitempty"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// ErrStepNotRunnable is returned when a run is requested for a step that is
// not currently queued. A step id can be claimed for execution exactly once.
var ErrStepNotRunnable = errors.New("step is not runnable")

// InsertStep records a freshly enqueued step.
func (l *Library) InsertStep(step *Step) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.steps[step.ID] = step
}

// Step returns a copy of the step with the given id.
func (l *Library) Step(id string) (Step, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	step, ok := l.steps[id]
	if !ok {
		return Step{}, false
	}
	return *step, true
}

// Steps returns copies of all step records, most recently updated first.
func (l *Library) Steps() []Step {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Step, 0, len(l.steps))
	for _, step := range l.steps {
		out = append(out, *step)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// ClaimStep transitions a queued step to running, claiming it for
// execution. Claims on steps in any other status fail with
// ErrStepNotRunnable so a step id can never run twice.
func (l *Library) ClaimStep(id string) (Step, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	step, ok := l.steps[id]
	if !ok {
		return Step{}, errors.New("step not found")
	}
	if !ValidStepTransition(step.Status, StepRunning) {
		return Step{}, ErrStepNotRunnable
	}
	step.Status = StepRunning
	step.UpdatedAt = l.now()
	return *step, nil
}

// CompleteStep marks a running step done and records its output asset.
func (l *Library) CompleteStep(id, outputAssetID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	step, ok := l.steps[id]
	if !ok {
		return errors.New("step not found")
	}
	if !ValidStepTransition(step.Status, StepDone) {
		return ErrStepNotRunnable
	}
	step.Status = StepDone
	step.OutputAssetID = outputAssetID
	step.Error = ""
	step.UpdatedAt = l.now()
	return nil
}

// FailStep marks a running step failed with a human-readable message.
func (l *Library) FailStep(id, message string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	step, ok := l.steps[id]
	if !ok {
		return errors.New("step not found")
	}
	if !ValidStepTransition(step.Status, StepFailed) {
		return ErrStepNotRunnable
	}
	step.Status = StepFailed
	step.Error = message
	step.OutputAssetID = ""
	step.UpdatedAt = l.now()
	return nil
}
