package common

import (
	"github.com/chris-arsenault/illuminator/internal/app"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// stepObserver reports workflow progress through the presenter as each
// step resolves. Intermediate generating states are not reported.
type stepObserver struct {
	pres output.Presenter
}

// NewStepObserver creates an observer that presents step outcomes
func NewStepObserver(pres output.Presenter) output.StatusObserver {
	return &stepObserver{pres: pres}
}

func (o *stepObserver) OnStatusChange(n *narrative.Narrative) {
	status := n.Status()
	if status != model.StatusStepComplete && !status.IsTerminal() {
		return
	}

	report := output.StepReport{
		NarrativeID: n.ID().String(),
		EraName:     n.EraName(),
		Step:        n.CurrentStep().String(),
		Status:      status.String(),
		Cost:        n.TotalActualCost(),
		ErrorDetail: n.Error(),
	}
	if ac := narrative.ResolveActiveContent(n); ac.Content != "" {
		report.WordCount = narrative.CountWords(ac.Content)
	}
	_ = o.pres.PresentStepResult(report)
}

func (o *stepObserver) OnDegraded(n *narrative.Narrative, reason string) {
	app.GetLogger().Warn("narrative %s degraded: %s", n.ID(), reason)
}
