package narrative

import (
	"errors"
	"testing"
	"time"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
)

func newTestNarrative(t *testing.T) *Narrative {
	t.Helper()
	n, err := NewNarrative("sim-1", "era-1", "The Long Thaw", model.ToneWitty, "")
	if err != nil {
		t.Fatalf("NewNarrative failed: %v", err)
	}
	return n
}

func driveToDraft(t *testing.T, n *Narrative) {
	t.Helper()
	if err := n.BeginStep(model.StepThreads); err != nil {
		t.Fatalf("BeginStep(threads) failed: %v", err)
	}
	if err := n.ApplySynthesis(ThreadSynthesis{Thesis: "A slow warming"}, 0.01); err != nil {
		t.Fatalf("ApplySynthesis failed: %v", err)
	}
	if err := n.BeginStep(model.StepGenerate); err != nil {
		t.Fatalf("BeginStep(generate) failed: %v", err)
	}
	if err := n.ApplyDraft("The century opened quietly.", 0.02); err != nil {
		t.Fatalf("ApplyDraft failed: %v", err)
	}
}

func TestNewNarrative(t *testing.T) {
	n := newTestNarrative(t)

	if n.Status() != model.StatusPending {
		t.Errorf("Expected status pending, got %v", n.Status())
	}
	if n.CurrentStep() != model.StepThreads {
		t.Errorf("Expected current step threads, got %v", n.CurrentStep())
	}
	if n.Synthesis() != nil {
		t.Error("Expected nil synthesis on a new narrative")
	}
	if len(n.Versions()) != 0 {
		t.Errorf("Expected no versions, got %d", len(n.Versions()))
	}
}

func TestNewNarrative_Validation(t *testing.T) {
	if _, err := NewNarrative("sim-1", "", "Era", model.ToneWitty, ""); err == nil {
		t.Error("Expected error for empty era ID")
	}
	if _, err := NewNarrative("sim-1", "era-1", "Era", model.Tone("grumpy"), ""); err == nil {
		t.Error("Expected error for unknown tone")
	}
}

func TestBeginStep_OnlyThreadsFromPending(t *testing.T) {
	n := newTestNarrative(t)

	if err := n.BeginStep(model.StepGenerate); err == nil {
		t.Error("Expected error beginning generate from pending")
	}
	if err := n.BeginStep(model.StepThreads); err != nil {
		t.Fatalf("BeginStep(threads) failed: %v", err)
	}
	if n.Status() != model.StatusGenerating {
		t.Errorf("Expected status generating, got %v", n.Status())
	}
	if !n.InFlight() {
		t.Error("Expected narrative to be in flight")
	}
}

func TestBeginStep_CannotSkipAhead(t *testing.T) {
	n := newTestNarrative(t)
	if err := n.BeginStep(model.StepThreads); err != nil {
		t.Fatalf("BeginStep failed: %v", err)
	}
	if err := n.ApplySynthesis(ThreadSynthesis{Thesis: "x"}, 0); err != nil {
		t.Fatalf("ApplySynthesis failed: %v", err)
	}

	// Only the step after the current one may begin
	if err := n.BeginStep(model.StepEdit); err == nil {
		t.Error("Expected error skipping from threads review to edit")
	}
	if err := n.BeginStep(model.StepThreads); err == nil {
		t.Error("Expected error re-running the reviewed step")
	}
}

func TestApplyDraft_SetsActiveVersion(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)

	versions := n.Versions()
	if len(versions) != 1 {
		t.Fatalf("Expected 1 version, got %d", len(versions))
	}
	if versions[0].Step != model.StepGenerate {
		t.Errorf("Expected generate version, got %v", versions[0].Step)
	}
	if n.ActiveVersionID() != versions[0].VersionID {
		t.Error("Expected draft to become active")
	}
	if versions[0].WordCount != 4 {
		t.Errorf("Expected word count 4, got %d", versions[0].WordCount)
	}
}

func TestApplyResultOutOfStep(t *testing.T) {
	n := newTestNarrative(t)

	if err := n.ApplyDraft("text", 0); err == nil {
		t.Error("Expected error applying a draft with no step in flight")
	}
	if err := n.ApplySynthesis(ThreadSynthesis{}, 0); err == nil {
		t.Error("Expected error applying synthesis with no step in flight")
	}
}

func TestFinalize_RequiresReviewedEdit(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)

	if err := n.Finalize(); err == nil {
		t.Error("Expected error finalizing from the generate step")
	}

	if err := n.BeginStep(model.StepEdit); err != nil {
		t.Fatalf("BeginStep(edit) failed: %v", err)
	}
	if err := n.ApplyEdit("The century opened very quietly.", 0.01); err != nil {
		t.Fatalf("ApplyEdit failed: %v", err)
	}
	if err := n.Finalize(); err != nil {
		t.Fatalf("Finalize failed: %v", err)
	}
	if n.Status() != model.StatusComplete {
		t.Errorf("Expected status complete, got %v", n.Status())
	}
}

func TestSkipEdit(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)

	if err := n.SkipEdit(); err != nil {
		t.Fatalf("SkipEdit failed: %v", err)
	}
	if n.Status() != model.StatusComplete {
		t.Errorf("Expected status complete, got %v", n.Status())
	}
	if len(n.Versions()) != 1 {
		t.Error("Skip edit must not create an edit version")
	}
}

func TestSkipEdit_RejectedBeforeDraft(t *testing.T) {
	n := newTestNarrative(t)
	if err := n.SkipEdit(); err == nil {
		t.Error("Expected error skipping edit before the draft exists")
	}
}

func TestCancel_Idempotent(t *testing.T) {
	n := newTestNarrative(t)
	n.Cancel()
	if n.Status() != model.StatusCancelled {
		t.Errorf("Expected status cancelled, got %v", n.Status())
	}

	n.Cancel()
	if n.Status() != model.StatusCancelled {
		t.Errorf("Second cancel changed status to %v", n.Status())
	}
}

func TestCancel_DoesNotOverwriteComplete(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)
	if err := n.SkipEdit(); err != nil {
		t.Fatalf("SkipEdit failed: %v", err)
	}

	n.Cancel()
	if n.Status() != model.StatusComplete {
		t.Errorf("Cancel on a complete narrative changed status to %v", n.Status())
	}
}

func TestFail_RejectedOnTerminal(t *testing.T) {
	n := newTestNarrative(t)
	n.Cancel()
	if err := n.Fail("backend error"); err == nil {
		t.Error("Expected error failing a cancelled narrative")
	}
}

func TestAppendEditVersion_OnlyWhenComplete(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)

	if _, err := n.AppendEditVersion("rewrite", 0.01); !errors.Is(err, ErrInvalidState) {
		t.Errorf("Expected ErrInvalidState, got %v", err)
	}

	if err := n.SkipEdit(); err != nil {
		t.Fatalf("SkipEdit failed: %v", err)
	}
	v, err := n.AppendEditVersion("rewrite", 0.01)
	if err != nil {
		t.Fatalf("AppendEditVersion failed: %v", err)
	}
	if n.ActiveVersionID() != v.VersionID {
		t.Error("Expected appended edit to become active")
	}
	if n.Status() != model.StatusComplete {
		t.Errorf("Expected narrative to stay complete, got %v", n.Status())
	}
}

func TestDeleteVersion_ProtectsDraft(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)
	draftID := n.Versions()[0].VersionID

	if err := n.DeleteVersion(draftID); !errors.Is(err, ErrInvalidOperation) {
		t.Errorf("Expected ErrInvalidOperation, got %v", err)
	}
	if err := n.DeleteVersion("no-such-version"); !errors.Is(err, ErrVersionNotFound) {
		t.Errorf("Expected ErrVersionNotFound, got %v", err)
	}
}

func TestDeleteVersion_ActiveFallsBackToLatest(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)
	if err := n.SkipEdit(); err != nil {
		t.Fatalf("SkipEdit failed: %v", err)
	}

	first, err := n.AppendEditVersion("first rewrite", 0)
	if err != nil {
		t.Fatalf("AppendEditVersion failed: %v", err)
	}
	second, err := n.AppendEditVersion("second rewrite", 0)
	if err != nil {
		t.Fatalf("AppendEditVersion failed: %v", err)
	}

	if err := n.DeleteVersion(second.VersionID); err != nil {
		t.Fatalf("DeleteVersion failed: %v", err)
	}
	if n.ActiveVersionID() != first.VersionID {
		t.Errorf("Expected active to fall back to %s, got %s", first.VersionID, n.ActiveVersionID())
	}
}

func TestResolveActiveContent_DanglingPointerFallsBack(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)

	stale := ReconstructNarrative(
		n.ID(), n.SimulationID(), n.EraID(), n.EraName(), n.Tone(),
		n.ArcDirectionOverride(), n.Status(), n.CurrentStep(),
		n.Synthesis(), n.Versions(), "deleted-version-id",
		n.TotalActualCost(), n.Error(), n.CreatedAt(), n.UpdatedAt(),
	)

	ac := ResolveActiveContent(stale)
	if ac.Content != "The century opened quietly." {
		t.Errorf("Expected fallback to the latest version, got %q", ac.Content)
	}
	if ac.ActiveVersionID != n.Versions()[0].VersionID {
		t.Error("Expected fallback to report the resolved version ID")
	}
}

func TestResolveActiveContent_Empty(t *testing.T) {
	n := newTestNarrative(t)
	ac := ResolveActiveContent(n)
	if ac.Content != "" || ac.ActiveVersionID != "" {
		t.Error("Expected empty content for a narrative with no versions")
	}
}

func TestLatestVersionPrefersAppendOrderOnTies(t *testing.T) {
	now := time.Now()
	versions := []ContentVersion{
		{VersionID: "a", Step: model.StepGenerate, Content: "first", GeneratedAt: now},
		{VersionID: "b", Step: model.StepEdit, Content: "second", GeneratedAt: now},
	}

	latest := latestVersion(versions)
	if latest.VersionID != "b" {
		t.Errorf("Expected later append to win the tie, got %s", latest.VersionID)
	}
}

func TestTotalCostAccumulates(t *testing.T) {
	n := newTestNarrative(t)
	driveToDraft(t, n)

	got := n.TotalActualCost()
	if got < 0.0299 || got > 0.0301 {
		t.Errorf("Expected accumulated cost 0.03, got %f", got)
	}
}
