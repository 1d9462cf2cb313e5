package output

// Presenter defines the interface for presenting output to users
// Different implementations can format output for CLI or JSON
type Presenter interface {
	// PresentSuccess presents a successful result
	PresentSuccess(message string, data interface{}) error

	// PresentError presents an error
	PresentError(err error) error

	// PresentStepResult presents the outcome of one workflow step
	PresentStepResult(result StepReport) error
}

// StepReport summarizes one resolved workflow step for display
type StepReport struct {
	NarrativeID string
	EraName     string
	Step        string
	Status      string
	WordCount   int
	Cost        float64
	Elapsed     string
	ErrorDetail string
}
