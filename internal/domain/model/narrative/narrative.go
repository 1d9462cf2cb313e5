package narrative

import (
	"errors"
	"fmt"
	"time"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
)

// Narrative is one era-narrative generation attempt.
// It is the aggregate root of the workflow: all status/step transitions
// and all content-version bookkeeping go through its methods.
type Narrative struct {
	id                   model.NarrativeID
	simulationID         string
	eraID                string
	eraName              string
	tone                 model.Tone
	arcDirectionOverride string

	status      model.Status
	currentStep model.Step

	synthesis       *ThreadSynthesis
	versions        []ContentVersion
	activeVersionID string
	totalActualCost float64
	errMsg          string

	createdAt time.Time
	updatedAt time.Time
}

// NewNarrative creates a new narrative in pending state at the threads step
func NewNarrative(simulationID, eraID, eraName string, tone model.Tone, arcDirectionOverride string) (*Narrative, error) {
	if eraID == "" {
		return nil, errors.New("era ID cannot be empty")
	}
	if !tone.IsValid() {
		return nil, fmt.Errorf("invalid tone: %s", tone)
	}

	now := time.Now().UTC()
	return &Narrative{
		id:                   model.NewNarrativeID(),
		simulationID:         simulationID,
		eraID:                eraID,
		eraName:              eraName,
		tone:                 tone,
		arcDirectionOverride: arcDirectionOverride,
		status:               model.StatusPending,
		currentStep:          model.StepThreads,
		createdAt:            now,
		updatedAt:            now,
	}, nil
}

// ReconstructNarrative reconstructs a narrative from stored data
func ReconstructNarrative(
	id model.NarrativeID,
	simulationID, eraID, eraName string,
	tone model.Tone,
	arcDirectionOverride string,
	status model.Status,
	currentStep model.Step,
	synthesis *ThreadSynthesis,
	versions []ContentVersion,
	activeVersionID string,
	totalActualCost float64,
	errMsg string,
	createdAt, updatedAt time.Time,
) *Narrative {
	return &Narrative{
		id:                   id,
		simulationID:         simulationID,
		eraID:                eraID,
		eraName:              eraName,
		tone:                 tone,
		arcDirectionOverride: arcDirectionOverride,
		status:               status,
		currentStep:          currentStep,
		synthesis:            synthesis,
		versions:             versions,
		activeVersionID:      activeVersionID,
		totalActualCost:      totalActualCost,
		errMsg:               errMsg,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

func (n *Narrative) ID() model.NarrativeID { return n.id }
func (n *Narrative) SimulationID() string  { return n.simulationID }
func (n *Narrative) EraID() string         { return n.eraID }
func (n *Narrative) EraName() string       { return n.eraName }
func (n *Narrative) Tone() model.Tone      { return n.tone }

// ArcDirectionOverride returns the optional free-text directive set at creation
func (n *Narrative) ArcDirectionOverride() string { return n.arcDirectionOverride }

func (n *Narrative) Status() model.Status    { return n.status }
func (n *Narrative) CurrentStep() model.Step { return n.currentStep }

// Synthesis returns the thread synthesis, nil until the threads step completes
func (n *Narrative) Synthesis() *ThreadSynthesis { return n.synthesis }

// Versions returns the ordered content version list
func (n *Narrative) Versions() []ContentVersion {
	out := make([]ContentVersion, len(n.versions))
	copy(out, n.versions)
	return out
}

func (n *Narrative) ActiveVersionID() string  { return n.activeVersionID }
func (n *Narrative) TotalActualCost() float64 { return n.totalActualCost }

// Error returns the failure message, empty unless status is failed
func (n *Narrative) Error() string { return n.errMsg }

func (n *Narrative) CreatedAt() time.Time { return n.createdAt }
func (n *Narrative) UpdatedAt() time.Time { return n.updatedAt }

// InFlight reports whether a step was issued but has not resolved.
// A persisted in-flight record means the process was interrupted mid-step
// and the step must be re-issued on resume.
func (n *Narrative) InFlight() bool {
	return n.status == model.StatusGenerating
}

// BeginStep moves the narrative into generating for the given step.
// From pending only the threads step may begin; from step_complete only
// the step that follows the current one.
func (n *Narrative) BeginStep(step model.Step) error {
	switch n.status {
	case model.StatusPending:
		if step != model.StepThreads {
			return fmt.Errorf("%w: pending narrative must begin with the threads step", ErrInvalidState)
		}
	case model.StatusStepComplete:
		next, err := n.currentStep.Next()
		if err != nil {
			return fmt.Errorf("%w: no step follows %s", ErrInvalidState, n.currentStep)
		}
		if step != next {
			return fmt.Errorf("%w: expected next step %s, got %s", ErrInvalidState, next, step)
		}
	default:
		return fmt.Errorf("%w: cannot begin a step while %s", ErrInvalidState, n.status)
	}

	n.status = model.StatusGenerating
	n.currentStep = step
	n.touch()
	return nil
}

// ApplySynthesis records the threads step output. The synthesis is
// immutable once set.
func (n *Narrative) ApplySynthesis(ts ThreadSynthesis, cost float64) error {
	if n.status != model.StatusGenerating || n.currentStep != model.StepThreads {
		return fmt.Errorf("%w: threads step is not in flight", ErrInvalidState)
	}
	n.synthesis = &ts
	n.totalActualCost += cost
	n.status = model.StatusStepComplete
	n.touch()
	return nil
}

// ApplyDraft records the generate step output as the sole generate-step
// version and makes it active.
func (n *Narrative) ApplyDraft(content string, cost float64) error {
	if n.status != model.StatusGenerating || n.currentStep != model.StepGenerate {
		return fmt.Errorf("%w: generate step is not in flight", ErrInvalidState)
	}
	v := NewContentVersion(model.StepGenerate, content, time.Now())
	n.versions = append(n.versions, v)
	n.activeVersionID = v.VersionID
	n.totalActualCost += cost
	n.status = model.StatusStepComplete
	n.touch()
	return nil
}

// ApplyEdit records an edit step output as a new edit version and makes
// it active.
func (n *Narrative) ApplyEdit(content string, cost float64) error {
	if n.status != model.StatusGenerating || n.currentStep != model.StepEdit {
		return fmt.Errorf("%w: edit step is not in flight", ErrInvalidState)
	}
	v := NewContentVersion(model.StepEdit, content, time.Now())
	n.versions = append(n.versions, v)
	n.activeVersionID = v.VersionID
	n.totalActualCost += cost
	n.status = model.StatusStepComplete
	n.touch()
	return nil
}

// AppendEditVersion appends an edit version to a completed narrative.
// Used by the rerun-copy-edit operation; the narrative stays complete.
func (n *Narrative) AppendEditVersion(content string, cost float64) (ContentVersion, error) {
	if n.status != model.StatusComplete {
		return ContentVersion{}, fmt.Errorf("%w: copy edit can only be rerun on a complete narrative", ErrInvalidState)
	}
	v := NewContentVersion(model.StepEdit, content, time.Now())
	n.versions = append(n.versions, v)
	n.activeVersionID = v.VersionID
	n.totalActualCost += cost
	n.touch()
	return v, nil
}

// Finalize marks the narrative complete after the edit step has been
// reviewed.
func (n *Narrative) Finalize() error {
	if n.status != model.StatusStepComplete || n.currentStep != model.StepEdit {
		return fmt.Errorf("%w: only a reviewed edit step can be finalized", ErrInvalidState)
	}
	n.status = model.StatusComplete
	n.touch()
	return nil
}

// SkipEdit completes the narrative directly from the reviewed draft,
// bypassing the edit step. No edit version is created.
func (n *Narrative) SkipEdit() error {
	if n.status != model.StatusStepComplete || n.currentStep != model.StepGenerate {
		return fmt.Errorf("%w: skip edit is only valid after the generate step", ErrInvalidState)
	}
	n.status = model.StatusComplete
	n.touch()
	return nil
}

// Fail marks the narrative failed with a backend error message
func (n *Narrative) Fail(message string) error {
	if n.status.IsTerminal() {
		return fmt.Errorf("%w: narrative already %s", ErrInvalidState, n.status)
	}
	n.status = model.StatusFailed
	n.errMsg = message
	n.touch()
	return nil
}

// Cancel marks the narrative cancelled. Calling it on an already terminal
// narrative is a no-op: cancel must be idempotent.
func (n *Narrative) Cancel() {
	if n.status.IsTerminal() {
		return
	}
	n.status = model.StatusCancelled
	n.touch()
}

// SetActiveVersion repoints the active version
func (n *Narrative) SetActiveVersion(versionID string) error {
	for _, v := range n.versions {
		if v.VersionID == versionID {
			n.activeVersionID = versionID
			n.touch()
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
}

// DeleteVersion removes an edit-step version. The generate-step version
// is never deletable. If the deleted version was active, the most
// recently generated remaining version becomes active.
func (n *Narrative) DeleteVersion(versionID string) error {
	idx := -1
	for i, v := range n.versions {
		if v.VersionID == versionID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrVersionNotFound, versionID)
	}
	if n.versions[idx].Step == model.StepGenerate {
		return fmt.Errorf("%w: the original draft cannot be deleted", ErrInvalidOperation)
	}

	wasActive := n.versions[idx].VersionID == n.activeVersionID
	n.versions = append(n.versions[:idx], n.versions[idx+1:]...)

	if wasActive {
		if latest := latestVersion(n.versions); latest != nil {
			n.activeVersionID = latest.VersionID
		} else {
			n.activeVersionID = ""
		}
	}
	n.touch()
	return nil
}

func (n *Narrative) touch() {
	n.updatedAt = time.Now().UTC()
}

// ActiveContent is the resolved display/export view of a narrative's
// content versions.
type ActiveContent struct {
	Content         string
	ActiveVersionID string
	Versions        []ContentVersion
}

// ResolveActiveContent resolves the active version of a narrative.
// If the stored pointer references a version that no longer exists, it
// falls back to the most recent version rather than failing: a dangling
// pointer must never break display.
func ResolveActiveContent(n *Narrative) ActiveContent {
	versions := n.Versions()
	if len(versions) == 0 {
		return ActiveContent{Versions: versions}
	}

	for _, v := range versions {
		if v.VersionID == n.activeVersionID {
			return ActiveContent{
				Content:         v.Content,
				ActiveVersionID: v.VersionID,
				Versions:        versions,
			}
		}
	}

	latest := latestVersion(versions)
	return ActiveContent{
		Content:         latest.Content,
		ActiveVersionID: latest.VersionID,
		Versions:        versions,
	}
}

// latestVersion returns the most recently generated version, preferring
// later append order on equal timestamps. Returns nil for an empty list.
func latestVersion(versions []ContentVersion) *ContentVersion {
	if len(versions) == 0 {
		return nil
	}
	best := 0
	for i := 1; i < len(versions); i++ {
		if !versions[i].GeneratedAt.Before(versions[best].GeneratedAt) {
			best = i
		}
	}
	return &versions[best]
}
