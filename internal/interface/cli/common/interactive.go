package common

import (
	"context"
	"fmt"

	"github.com/manifoldco/promptui"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/application/port/input"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
)

const (
	choiceContinue = "Continue to next step"
	choiceSkipEdit = "Skip copy edit and finish"
	choiceCancel   = "Cancel this run"
	choicePause    = "Pause here (resume later)"
)

// RunInteractive drives a run paused at step_complete, prompting for a
// decision after each step until the run reaches a terminal status or
// the user pauses it.
func RunInteractive(ctx context.Context, uc input.NarrativeWorkflowUseCase, pres output.Presenter, view *dto.NarrativeView) error {
	for {
		if err := pres.PresentSuccess(fmt.Sprintf("%s: %s (step %s)", view.EraName, view.Status, view.CurrentStep), view); err != nil {
			return err
		}

		if view.Status != model.StatusStepComplete.String() {
			return nil
		}

		choice, err := promptChoice(view)
		if err != nil {
			return err
		}

		switch choice {
		case choiceContinue:
			view, err = uc.AdvanceStep(ctx, view.NarrativeID)
		case choiceSkipEdit:
			view, err = uc.SkipEdit(ctx, view.NarrativeID)
		case choiceCancel:
			view, err = uc.Cancel(ctx, view.NarrativeID)
		case choicePause:
			return pres.PresentSuccess(fmt.Sprintf("Paused. Resume with: illuminator resume %s", view.NarrativeID), nil)
		}
		if err != nil {
			return pres.PresentError(err)
		}
	}
}

func promptChoice(view *dto.NarrativeView) (string, error) {
	items := []string{choiceContinue}
	// Skipping the edit only makes sense once a reviewed draft exists
	if view.CurrentStep == model.StepGenerate.String() {
		items = append(items, choiceSkipEdit)
	}
	items = append(items, choiceCancel, choicePause)

	prompt := promptui.Select{
		Label: fmt.Sprintf("%s step complete", view.CurrentStep),
		Items: items,
	}
	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt aborted: %w", err)
	}
	return choice, nil
}
