// Package workflow implements the era-narrative generation workflow:
// a resumable, cancelable pipeline of threads -> generate -> edit steps
// with versioned content history.
package workflow

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/application/port/input"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/domain/model/lock"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
	"github.com/chris-arsenault/illuminator/internal/domain/repository"
)

// WorkflowUseCaseImpl drives the narrative state machine. It persists the
// record after every transition so an interrupted run can be resumed, and
// it discards backend results that arrive after cancellation.
type WorkflowUseCaseImpl struct {
	narrativeRepo repository.NarrativeRepository
	lockRepo      repository.RunLockRepository
	gateway       output.GenerationGateway
	observer      output.StatusObserver
	txManager     output.TransactionManager
	lockTTL       time.Duration

	mu       sync.Mutex
	sessions map[string]*session
}

var _ input.NarrativeWorkflowUseCase = (*WorkflowUseCaseImpl)(nil)

// session holds the per-run inputs that are not persisted on the record.
// Prep briefs and world context live only for the driving process; resume
// supplies them again.
type session struct {
	briefs []narrative.PrepBrief
	world  narrative.WorldContext
}

// NewWorkflowUseCaseImpl creates the workflow use case
func NewWorkflowUseCaseImpl(
	narrativeRepo repository.NarrativeRepository,
	lockRepo repository.RunLockRepository,
	gateway output.GenerationGateway,
	observer output.StatusObserver,
	txManager output.TransactionManager,
	lockTTL time.Duration,
) *WorkflowUseCaseImpl {
	if observer == nil {
		observer = output.NopObserver{}
	}
	if lockTTL == 0 {
		lockTTL = 10 * time.Minute // Default
	}

	return &WorkflowUseCaseImpl{
		narrativeRepo: narrativeRepo,
		lockRepo:      lockRepo,
		gateway:       gateway,
		observer:      observer,
		txManager:     txManager,
		lockTTL:       lockTTL,
		sessions:      make(map[string]*session),
	}
}

// StartNarrative creates a record, runs the threads step, and pauses at
// step_complete for interactive review
func (uc *WorkflowUseCaseImpl) StartNarrative(ctx context.Context, in dto.StartNarrativeInput) (*dto.NarrativeView, error) {
	n, err := uc.createNarrative(ctx, in)
	if err != nil {
		return nil, err
	}

	n, err = uc.runStep(ctx, n, model.StepThreads, false)
	if err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// StartHeadless runs all steps to completion without pausing. It walks
// the same transitions as the interactive path; headless is a scheduling
// difference only.
func (uc *WorkflowUseCaseImpl) StartHeadless(ctx context.Context, in dto.StartNarrativeInput) (*dto.NarrativeView, error) {
	n, err := uc.createNarrative(ctx, in)
	if err != nil {
		return nil, err
	}

	n, err = uc.runStep(ctx, n, model.StepThreads, false)
	if err != nil {
		return nil, err
	}
	return uc.runToCompletion(ctx, n)
}

// ResumeNarrative re-enters a persisted run. A record persisted while
// generating was interrupted mid-step; the in-flight step is re-issued
// rather than assumed successful. A record still pending was interrupted
// before its first step, which is begun here.
func (uc *WorkflowUseCaseImpl) ResumeNarrative(ctx context.Context, in dto.ResumeNarrativeInput) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, in.NarrativeID)
	if err != nil {
		return nil, err
	}
	if n.Status().IsTerminal() {
		return nil, fmt.Errorf("%w: cannot resume a %s narrative", narrative.ErrInvalidState, n.Status())
	}

	if err := uc.acquireLock(ctx, n.ID().String()); err != nil {
		return nil, err
	}
	uc.setSession(n.ID().String(), in.PrepBriefs, in.World)

	switch {
	case n.Status() == model.StatusPending:
		// The process stopped between creating the record and beginning
		// the threads step; pending's only forward action is to begin it
		n, err = uc.runStep(ctx, n, model.StepThreads, false)
		if err != nil {
			return nil, err
		}
	case n.InFlight():
		n, err = uc.runStep(ctx, n, n.CurrentStep(), true)
		if err != nil {
			return nil, err
		}
	}
	return dto.NewNarrativeView(n), nil
}

// AdvanceStep runs the next step of a run paused at step_complete
func (uc *WorkflowUseCaseImpl) AdvanceStep(ctx context.Context, narrativeID string) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, narrativeID)
	if err != nil {
		return nil, err
	}

	n, err = uc.advance(ctx, n)
	if err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// SkipEdit completes the narrative directly from the reviewed draft; no
// edit version is ever created
func (uc *WorkflowUseCaseImpl) SkipEdit(ctx context.Context, narrativeID string) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, narrativeID)
	if err != nil {
		return nil, err
	}
	if err := n.SkipEdit(); err != nil {
		return nil, err
	}
	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// RerunCopyEdit produces a new edit version from the current active
// content of a complete narrative and makes it active
func (uc *WorkflowUseCaseImpl) RerunCopyEdit(ctx context.Context, in dto.RerunCopyEditInput) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, in.NarrativeID)
	if err != nil {
		return nil, err
	}
	if n.Status() != model.StatusComplete {
		return nil, fmt.Errorf("%w: copy edit can only be rerun on a complete narrative", narrative.ErrInvalidState)
	}

	if err := uc.acquireLock(ctx, n.ID().String()); err != nil {
		return nil, err
	}
	defer uc.releaseLock(ctx, n.ID().String())

	uc.setSession(n.ID().String(), in.PrepBriefs, in.World)

	gc, err := uc.buildContext(n, model.StepEdit)
	if err != nil {
		return nil, err
	}

	res, err := uc.gateway.RunEdit(ctx, gc)
	if err != nil {
		// A failed rerun leaves the completed record untouched
		return nil, narrative.NewBackendFailure(model.StepEdit, err)
	}

	if _, err := n.AppendEditVersion(res.Content, res.Cost); err != nil {
		return nil, err
	}
	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// SetActiveVersion repoints the active version
func (uc *WorkflowUseCaseImpl) SetActiveVersion(ctx context.Context, narrativeID, versionID string) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, narrativeID)
	if err != nil {
		return nil, err
	}
	if err := n.SetActiveVersion(versionID); err != nil {
		return nil, err
	}
	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// DeleteVersion removes an edit version; the sole generate version is
// never deletable
func (uc *WorkflowUseCaseImpl) DeleteVersion(ctx context.Context, narrativeID, versionID string) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, narrativeID)
	if err != nil {
		return nil, err
	}
	if err := n.DeleteVersion(versionID); err != nil {
		return nil, err
	}
	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// Cancel marks a run cancelled. It never deletes the record and is a
// no-op on already terminal records. An in-flight backend call is not
// aborted; its late result is discarded when it resolves.
func (uc *WorkflowUseCaseImpl) Cancel(ctx context.Context, narrativeID string) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, narrativeID)
	if err != nil {
		return nil, err
	}
	n.Cancel()
	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// Get returns a snapshot of a narrative
func (uc *WorkflowUseCaseImpl) Get(ctx context.Context, narrativeID string) (*dto.NarrativeView, error) {
	n, err := uc.load(ctx, narrativeID)
	if err != nil {
		return nil, err
	}
	return dto.NewNarrativeView(n), nil
}

// GetActiveContent resolves the displayable content of a narrative.
// A dangling active pointer falls back to the most recent version.
func (uc *WorkflowUseCaseImpl) GetActiveContent(ctx context.Context, narrativeID string) (*dto.ActiveContentView, error) {
	n, err := uc.load(ctx, narrativeID)
	if err != nil {
		return nil, err
	}

	ac := narrative.ResolveActiveContent(n)
	return &dto.ActiveContentView{
		NarrativeID:     n.ID().String(),
		EraID:           n.EraID(),
		EraName:         n.EraName(),
		ActiveVersionID: ac.ActiveVersionID,
		Content:         ac.Content,
		WordCount:       narrative.CountWords(ac.Content),
	}, nil
}

// List returns narrative snapshots matching the filter
func (uc *WorkflowUseCaseImpl) List(ctx context.Context, in dto.ListNarrativesInput) ([]*dto.NarrativeView, error) {
	filter := repository.NarrativeFilter{
		SimulationID: in.SimulationID,
		EraID:        in.EraID,
		Limit:        in.Limit,
		Offset:       in.Offset,
	}
	for _, s := range in.Statuses {
		filter.Statuses = append(filter.Statuses, model.Status(s))
	}

	narratives, err := uc.narrativeRepo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]*dto.NarrativeView, 0, len(narratives))
	for _, n := range narratives {
		views = append(views, dto.NewNarrativeView(n))
	}
	return views, nil
}

// createNarrative builds the aggregate, takes the run lock, persists the
// pending record, and registers the session inputs
func (uc *WorkflowUseCaseImpl) createNarrative(ctx context.Context, in dto.StartNarrativeInput) (*narrative.Narrative, error) {
	n, err := narrative.NewNarrative(in.SimulationID, in.EraID, in.EraName, in.Tone, in.ArcDirectionOverride)
	if err != nil {
		return nil, err
	}

	if err := uc.acquireLock(ctx, n.ID().String()); err != nil {
		return nil, err
	}
	uc.setSession(n.ID().String(), in.PrepBriefs, in.World)

	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}

	if len(in.PrepBriefs) == 0 {
		// Permitted but degraded: the backend decides whether era metadata
		// alone can produce meaningful output
		uc.observer.OnDegraded(n, "no prep briefs supplied for era "+n.EraID())
	}
	return n, nil
}

// advance performs one interactive advance on a record paused at
// step_complete. From the reviewed edit step it finalizes instead of
// calling the backend.
func (uc *WorkflowUseCaseImpl) advance(ctx context.Context, n *narrative.Narrative) (*narrative.Narrative, error) {
	if n.Status() != model.StatusStepComplete {
		return nil, fmt.Errorf("%w: cannot advance while %s", narrative.ErrInvalidState, n.Status())
	}

	switch n.CurrentStep() {
	case model.StepThreads:
		return uc.runStep(ctx, n, model.StepGenerate, false)
	case model.StepGenerate:
		return uc.runStep(ctx, n, model.StepEdit, false)
	case model.StepEdit:
		if err := n.Finalize(); err != nil {
			return nil, err
		}
		if err := uc.saveAndNotify(ctx, n); err != nil {
			return nil, err
		}
		return n, nil
	default:
		return nil, fmt.Errorf("%w: unknown step %s", narrative.ErrInvalidState, n.CurrentStep())
	}
}

// runToCompletion drives a running record until a terminal status, using
// the same advance path the interactive mode uses
func (uc *WorkflowUseCaseImpl) runToCompletion(ctx context.Context, n *narrative.Narrative) (*dto.NarrativeView, error) {
	for !n.Status().IsTerminal() {
		var err error
		n, err = uc.advance(ctx, n)
		if err != nil {
			return nil, err
		}
	}
	return dto.NewNarrativeView(n), nil
}

// runStep executes one backend step. inFlight is true on resume when the
// record was persisted mid-step and the step call must be re-issued
// without a new transition.
func (uc *WorkflowUseCaseImpl) runStep(ctx context.Context, n *narrative.Narrative, step model.Step, inFlight bool) (*narrative.Narrative, error) {
	if !inFlight {
		if err := n.BeginStep(step); err != nil {
			return nil, err
		}
		if err := uc.saveAndNotify(ctx, n); err != nil {
			return nil, err
		}
	}

	gc, err := uc.buildContext(n, step)
	if err != nil {
		return nil, err
	}

	var applyErr error
	switch step {
	case model.StepThreads:
		res, gerr := uc.gateway.RunThreads(ctx, gc)
		if gerr != nil {
			return uc.failStep(ctx, n, step, gerr)
		}
		cancelled, cur, derr := uc.discardIfCancelled(ctx, n)
		if derr != nil {
			return nil, derr
		}
		if cancelled {
			return cur, nil
		}
		applyErr = n.ApplySynthesis(res.Synthesis, res.Cost)

	case model.StepGenerate:
		res, gerr := uc.gateway.RunGenerate(ctx, gc)
		if gerr != nil {
			return uc.failStep(ctx, n, step, gerr)
		}
		cancelled, cur, derr := uc.discardIfCancelled(ctx, n)
		if derr != nil {
			return nil, derr
		}
		if cancelled {
			return cur, nil
		}
		applyErr = n.ApplyDraft(res.Content, res.Cost)

	case model.StepEdit:
		res, gerr := uc.gateway.RunEdit(ctx, gc)
		if gerr != nil {
			return uc.failStep(ctx, n, step, gerr)
		}
		cancelled, cur, derr := uc.discardIfCancelled(ctx, n)
		if derr != nil {
			return nil, derr
		}
		if cancelled {
			return cur, nil
		}
		applyErr = n.ApplyEdit(res.Content, res.Cost)

	default:
		return nil, fmt.Errorf("%w: unknown step %s", narrative.ErrInvalidState, step)
	}

	if applyErr != nil {
		return nil, applyErr
	}
	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}
	return n, nil
}

// failStep records a backend failure, unless the record was cancelled
// while the step was in flight, in which case the failure is discarded
// along with the result
func (uc *WorkflowUseCaseImpl) failStep(ctx context.Context, n *narrative.Narrative, step model.Step, gerr error) (*narrative.Narrative, error) {
	cancelled, cur, derr := uc.discardIfCancelled(ctx, n)
	if derr != nil {
		return nil, derr
	}
	if cancelled {
		return cur, nil
	}

	failure := narrative.NewBackendFailure(step, gerr)
	if err := n.Fail(failure.Message); err != nil {
		return nil, err
	}
	if err := uc.saveAndNotify(ctx, n); err != nil {
		return nil, err
	}
	return nil, failure
}

// discardIfCancelled reloads the persisted record and reports whether it
// was cancelled while the step was in flight. Late results must not be
// applied to a cancelled record, so a reload failure is an error: without
// the stored status the result cannot safely be applied.
func (uc *WorkflowUseCaseImpl) discardIfCancelled(ctx context.Context, n *narrative.Narrative) (bool, *narrative.Narrative, error) {
	current, err := uc.narrativeRepo.Find(ctx, n.ID())
	if err != nil {
		return false, nil, fmt.Errorf("reload narrative before applying step result: %w", err)
	}
	if current.Status() == model.StatusCancelled {
		return true, current, nil
	}
	return false, nil, nil
}

// buildContext assembles the accumulated inputs for one step call
func (uc *WorkflowUseCaseImpl) buildContext(n *narrative.Narrative, step model.Step) (output.GenerationContext, error) {
	uc.mu.Lock()
	s, ok := uc.sessions[n.ID().String()]
	uc.mu.Unlock()
	if !ok {
		return output.GenerationContext{}, fmt.Errorf(
			"no active session for narrative %s: resume it to supply prep briefs", n.ID())
	}

	gc := output.GenerationContext{
		EraID:                n.EraID(),
		EraName:              n.EraName(),
		Tone:                 n.Tone(),
		ArcDirectionOverride: n.ArcDirectionOverride(),
		PrepBriefs:           s.briefs,
		World:                s.world,
		Synthesis:            n.Synthesis(),
	}
	if step == model.StepEdit {
		gc.EditInput = narrative.ResolveActiveContent(n).Content
	}
	return gc, nil
}

// saveAndNotify persists the record, notifies the observer, and tears
// down the lock and session once the record is terminal. The terminal
// write and the lock release commit together.
func (uc *WorkflowUseCaseImpl) saveAndNotify(ctx context.Context, n *narrative.Narrative) error {
	if !n.Status().IsTerminal() {
		if err := uc.narrativeRepo.Save(ctx, n); err != nil {
			return fmt.Errorf("save narrative: %w", err)
		}
		uc.observer.OnStatusChange(n)
		return nil
	}

	lockID, err := lock.NewLockID(n.ID().String())
	if err != nil {
		return err
	}
	err = uc.txManager.InTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.narrativeRepo.Save(txCtx, n); err != nil {
			return err
		}
		return uc.lockRepo.Release(txCtx, lockID)
	})
	if err != nil {
		return fmt.Errorf("save narrative: %w", err)
	}

	uc.observer.OnStatusChange(n)
	uc.dropSession(n.ID().String())
	return nil
}

func (uc *WorkflowUseCaseImpl) load(ctx context.Context, narrativeID string) (*narrative.Narrative, error) {
	id, err := model.NewNarrativeIDFromString(narrativeID)
	if err != nil {
		return nil, err
	}
	return uc.narrativeRepo.Find(ctx, id)
}

func (uc *WorkflowUseCaseImpl) acquireLock(ctx context.Context, narrativeID string) error {
	lockID, err := lock.NewLockID(narrativeID)
	if err != nil {
		return err
	}
	held, err := uc.lockRepo.Acquire(ctx, lockID, uc.lockTTL)
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if held == nil {
		return fmt.Errorf("narrative %s is being driven by another process", narrativeID)
	}
	return nil
}

func (uc *WorkflowUseCaseImpl) releaseLock(ctx context.Context, narrativeID string) {
	lockID, err := lock.NewLockID(narrativeID)
	if err != nil {
		return
	}
	// Release failures only shorten to the lease TTL; not fatal
	_ = uc.lockRepo.Release(ctx, lockID)
}

func (uc *WorkflowUseCaseImpl) setSession(narrativeID string, briefs []narrative.PrepBrief, world narrative.WorldContext) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.sessions[narrativeID] = &session{briefs: briefs, world: world}
}

func (uc *WorkflowUseCaseImpl) dropSession(narrativeID string) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	delete(uc.sessions, narrativeID)
}
