package library_test

import (
	"errors"
	"testing"

	"easel/internal/library"
	"easel/internal/testsupport"
)

func TestValidStepTransition(t *testing.T) {
	tests := []struct {
		from, to library.StepStatus
		valid    bool
	}{
		{library.StepQueued, library.StepRunning, true},
		{library.StepRunning, library.StepDone, true},
		{library.StepRunning, library.StepFailed, true},
		{library.StepQueued, library.StepDone, false},
		{library.StepQueued, library.StepFailed, false},
		{library.StepDone, library.StepRunning, false},
		{library.StepDone, library.StepQueued, false},
		{library.StepFailed, library.StepRunning, false},
		{library.StepRunning, library.StepQueued, false},
		{library.StepDone, library.StepFailed, false},
	}

	for _, tc := range tests {
		if got := library.ValidStepTransition(tc.from, tc.to); got != tc.valid {
			t.Errorf("ValidStepTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.valid)
		}
	}
}

func TestValidKind(t *testing.T) {
	for _, kind := range []library.StepKind{
		library.KindGenerate,
		library.KindEdit,
		library.KindAddText,
		library.KindAnimate,
		library.KindAddSound,
		library.KindUpscale,
		library.KindRemoveBG,
	} {
		if !library.ValidKind(kind) {
			t.Errorf("expected %s to be a valid kind", kind)
		}
	}
	if library.ValidKind(library.StepKind("SPIN")) {
		t.Error("expected SPIN to be rejected")
	}
}

func TestClaimStepIsSingleUse(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)

	lib.InsertStep(&library.Step{ID: "s1", Kind: library.KindGenerate, Status: library.StepQueued})

	claimed, err := lib.ClaimStep("s1")
	if err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if claimed.Status != library.StepRunning {
		t.Fatalf("expected running after claim, got %s", claimed.Status)
	}

	if _, err := lib.ClaimStep("s1"); !errors.Is(err, library.ErrStepNotRunnable) {
		t.Fatalf("expected ErrStepNotRunnable on second claim, got %v", err)
	}
}

func TestCompleteStepRequiresRunning(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)

	lib.InsertStep(&library.Step{ID: "s1", Kind: library.KindGenerate, Status: library.StepQueued})
	if err := lib.CompleteStep("s1", "out"); !errors.Is(err, library.ErrStepNotRunnable) {
		t.Fatalf("expected ErrStepNotRunnable completing a queued step, got %v", err)
	}

	if _, err := lib.ClaimStep("s1"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := lib.CompleteStep("s1", "out"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	step, _ := lib.Step("s1")
	if step.Status != library.StepDone || step.OutputAssetID != "out" {
		t.Fatalf("unexpected terminal state: %+v", step)
	}

	if err := lib.FailStep("s1", "too late"); !errors.Is(err, library.ErrStepNotRunnable) {
		t.Fatalf("expected done step to reject failure, got %v", err)
	}
}

func TestFailStepClearsOutput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	lib := testsupport.MustOpenLibrary(t, cfg)

	lib.InsertStep(&library.Step{ID: "s1", Kind: library.KindEdit, Status: library.StepQueued, OutputAssetID: "stale"})
	if _, err := lib.ClaimStep("s1"); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if err := lib.FailStep("s1", "rate limited"); err != nil {
		t.Fatalf("fail: %v", err)
	}

	step, _ := lib.Step("s1")
	if step.Status != library.StepFailed {
		t.Fatalf("expected failed status, got %s", step.Status)
	}
	if step.Error != "rate limited" {
		t.Fatalf("expected recorded message, got %q", step.Error)
	}
	if step.OutputAssetID != "" {
		t.Fatalf("failed step must not keep an output reference, got %q", step.OutputAssetID)
	}
}

func TestStepsOrderedByRecency(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	clock := newFakeClock()
	lib := testsupport.MustOpenLibrary(t, cfg, library.WithClock(clock.Now))

	for _, id := range []string{"s1", "s2", "s3"} {
		lib.InsertStep(&library.Step{ID: id, Kind: library.KindGenerate, Status: library.StepQueued, UpdatedAt: clock.Now()})
	}
	if _, err := lib.ClaimStep("s1"); err != nil {
		t.Fatalf("claim: %v", err)
	}

	steps := lib.Steps()
	if len(steps) != 3 {
		t.Fatalf("expected 3 steps, got %d", len(steps))
	}
	if steps[0].ID != "s1" {
		t.Fatalf("expected most recently updated step first, got %s", steps[0].ID)
	}
}
