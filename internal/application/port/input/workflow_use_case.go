package input

import (
	"context"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
)

// NarrativeWorkflowUseCase exposes the era-narrative workflow operations.
// This is the only boundary the UI shell (here, the CLI) depends on.
type NarrativeWorkflowUseCase interface {
	// StartNarrative creates a record and runs the threads step, then
	// pauses at step_complete for review
	StartNarrative(ctx context.Context, in dto.StartNarrativeInput) (*dto.NarrativeView, error)

	// StartHeadless runs all steps without pausing between them
	StartHeadless(ctx context.Context, in dto.StartNarrativeInput) (*dto.NarrativeView, error)

	// ResumeNarrative re-enters a persisted run at its recorded state.
	// An interrupted in-flight step is re-issued, never assumed complete.
	ResumeNarrative(ctx context.Context, in dto.ResumeNarrativeInput) (*dto.NarrativeView, error)

	// AdvanceStep runs the next step of a run paused at step_complete
	AdvanceStep(ctx context.Context, narrativeID string) (*dto.NarrativeView, error)

	// SkipEdit completes the narrative directly from the reviewed draft
	SkipEdit(ctx context.Context, narrativeID string) (*dto.NarrativeView, error)

	// RerunCopyEdit produces a new edit version on a complete narrative
	RerunCopyEdit(ctx context.Context, in dto.RerunCopyEditInput) (*dto.NarrativeView, error)

	// SetActiveVersion repoints the active version
	SetActiveVersion(ctx context.Context, narrativeID, versionID string) (*dto.NarrativeView, error)

	// DeleteVersion removes an edit version
	DeleteVersion(ctx context.Context, narrativeID, versionID string) (*dto.NarrativeView, error)

	// Cancel marks a run cancelled; idempotent on terminal records
	Cancel(ctx context.Context, narrativeID string) (*dto.NarrativeView, error)

	// Get returns a snapshot of a narrative
	Get(ctx context.Context, narrativeID string) (*dto.NarrativeView, error)

	// GetActiveContent resolves the displayable content of a narrative
	GetActiveContent(ctx context.Context, narrativeID string) (*dto.ActiveContentView, error)

	// List returns narrative snapshots matching the filter
	List(ctx context.Context, in dto.ListNarrativesInput) ([]*dto.NarrativeView, error)
}
