package presenter

import (
	"encoding/json"
	"io"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// JSONPresenter implements output.Presenter for machine-readable output
type JSONPresenter struct {
	output io.Writer
}

// NewJSONPresenter creates a new JSON presenter
func NewJSONPresenter(w io.Writer) output.Presenter {
	return &JSONPresenter{output: w}
}

type jsonEnvelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// PresentSuccess presents a successful result as JSON
func (p *JSONPresenter) PresentSuccess(message string, data interface{}) error {
	return p.encode(jsonEnvelope{Success: true, Message: message, Data: data})
}

// PresentError presents an error as JSON
func (p *JSONPresenter) PresentError(err error) error {
	if encodeErr := p.encode(jsonEnvelope{Success: false, Error: err.Error()}); encodeErr != nil {
		return encodeErr
	}
	return err
}

// PresentStepResult presents a step outcome as JSON
func (p *JSONPresenter) PresentStepResult(result output.StepReport) error {
	return p.encode(map[string]interface{}{
		"narrativeId": result.NarrativeID,
		"eraName":     result.EraName,
		"step":        result.Step,
		"status":      result.Status,
		"wordCount":   result.WordCount,
		"cost":        result.Cost,
		"elapsed":     result.Elapsed,
		"error":       result.ErrorDetail,
	})
}

func (p *JSONPresenter) encode(v interface{}) error {
	enc := json.NewEncoder(p.output)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
