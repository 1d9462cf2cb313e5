package presenter

import (
	"fmt"
	"io"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// CLINarrativePresenter implements output.Presenter for human-readable
// terminal output
type CLINarrativePresenter struct {
	output io.Writer
	titler cases.Caser
}

// NewCLINarrativePresenter creates a new CLI narrative presenter
func NewCLINarrativePresenter(w io.Writer) output.Presenter {
	return &CLINarrativePresenter{
		output: w,
		titler: cases.Title(language.English),
	}
}

// PresentSuccess presents a successful result
func (p *CLINarrativePresenter) PresentSuccess(message string, data interface{}) error {
	fmt.Fprintf(p.output, "✓ %s\n\n", message)

	switch v := data.(type) {
	case *dto.NarrativeView:
		return p.presentNarrative(v)
	case []*dto.NarrativeView:
		return p.presentNarrativeList(v)
	default:
		if data != nil {
			fmt.Fprintf(p.output, "%+v\n", data)
		}
	}

	return nil
}

// PresentError presents an error
func (p *CLINarrativePresenter) PresentError(err error) error {
	fmt.Fprintf(p.output, "✗ Error: %v\n", err)
	return err
}

// PresentStepResult presents the outcome of one workflow step
func (p *CLINarrativePresenter) PresentStepResult(result output.StepReport) error {
	label := p.titler.String(result.Step)
	fmt.Fprintf(p.output, "%s step → %s", label, result.Status)
	if result.WordCount > 0 {
		fmt.Fprintf(p.output, " (%d words)", result.WordCount)
	}
	if result.Cost > 0 {
		fmt.Fprintf(p.output, " [$%.4f]", result.Cost)
	}
	if result.Elapsed != "" {
		fmt.Fprintf(p.output, " in %s", result.Elapsed)
	}
	fmt.Fprintln(p.output)

	if result.ErrorDetail != "" {
		fmt.Fprintf(p.output, "   %s\n", result.ErrorDetail)
	}
	return nil
}

func (p *CLINarrativePresenter) presentNarrative(view *dto.NarrativeView) error {
	fmt.Fprintf(p.output, "Narrative: %s\n", view.EraName)
	fmt.Fprintf(p.output, "ID: %s\n", view.NarrativeID)
	if view.SimulationID != "" {
		fmt.Fprintf(p.output, "Simulation: %s\n", view.SimulationID)
	}
	fmt.Fprintf(p.output, "Era: %s\n", view.EraID)
	fmt.Fprintf(p.output, "Tone: %s\n", view.Tone)
	fmt.Fprintf(p.output, "Status: %s\n", view.Status)
	fmt.Fprintf(p.output, "Step: %s\n", view.CurrentStep)

	if view.Thesis != "" {
		fmt.Fprintf(p.output, "\nThesis: %s\n", view.Thesis)
		fmt.Fprintf(p.output, "Threads: %d, Movements: %d\n", view.ThreadCount, view.MovementCount)
	}

	if len(view.Versions) > 0 {
		fmt.Fprintf(p.output, "\nVersions:\n")
		for _, v := range view.Versions {
			marker := " "
			if v.Active {
				marker = "*"
			}
			fmt.Fprintf(p.output, "  %s %s  %-8s  %6d words  %s\n",
				marker, v.VersionID, v.Step, v.WordCount,
				v.GeneratedAt.Format("2006-01-02 15:04:05"))
		}
	}

	if view.TotalActualCost > 0 {
		fmt.Fprintf(p.output, "\nTotal cost: $%.4f\n", view.TotalActualCost)
	}

	if view.Error != "" {
		fmt.Fprintf(p.output, "\nLast Error: %s\n", view.Error)
	}

	return nil
}

func (p *CLINarrativePresenter) presentNarrativeList(views []*dto.NarrativeView) error {
	fmt.Fprintf(p.output, "Total: %d narratives\n\n", len(views))

	for i, view := range views {
		status := view.Status
		if view.CurrentStep != "" {
			status = fmt.Sprintf("%s/%s", view.Status, view.CurrentStep)
		}
		fmt.Fprintf(p.output, "%d. %s (%s)\n", i+1, view.EraName, status)
		fmt.Fprintf(p.output, "   ID: %s\n", view.NarrativeID)
	}

	return nil
}
