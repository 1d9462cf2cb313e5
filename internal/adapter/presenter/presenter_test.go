package presenter

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chris-arsenault/illuminator/internal/application/dto"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

func sampleView() *dto.NarrativeView {
	return &dto.NarrativeView{
		NarrativeID: "01JB6X8Y2K9FQR4T3VWHGP5M2C",
		EraID:       "era-3",
		EraName:     "The Long Thaw",
		Tone:        "witty",
		Status:      "complete",
		CurrentStep: "edit",
		Thesis:      "Scarcity became the organizing grievance",
		Versions: []dto.VersionView{
			{VersionID: "v1", Step: "generate", WordCount: 1200, GeneratedAt: time.Now(), Active: false},
			{VersionID: "v2", Step: "edit", WordCount: 1100, GeneratedAt: time.Now(), Active: true},
		},
		ActiveVersionID: "v2",
		TotalActualCost: 0.75,
	}
}

func TestCLINarrativePresenter_PresentSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLINarrativePresenter(&buf)

	if err := p.PresentSuccess("Narrative complete", sampleView()); err != nil {
		t.Fatalf("PresentSuccess() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"The Long Thaw", "Status: complete", "* v2", "Total cost: $0.7500"} {
		if !strings.Contains(out, want) {
			t.Errorf("Output missing %q:\n%s", want, out)
		}
	}
}

func TestCLINarrativePresenter_PresentStepResult(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLINarrativePresenter(&buf)

	err := p.PresentStepResult(output.StepReport{
		Step:      "generate",
		Status:    "step_complete",
		WordCount: 1200,
		Cost:      0.3,
	})
	if err != nil {
		t.Fatalf("PresentStepResult() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Generate step") {
		t.Errorf("Step label should be title-cased: %s", out)
	}
	if !strings.Contains(out, "1200 words") {
		t.Errorf("Output missing word count: %s", out)
	}
}

func TestCLINarrativePresenter_PresentError(t *testing.T) {
	var buf bytes.Buffer
	p := NewCLINarrativePresenter(&buf)

	wrapped := errors.New("backend down")
	if err := p.PresentError(wrapped); !errors.Is(err, wrapped) {
		t.Errorf("PresentError should return the original error, got %v", err)
	}
	if !strings.Contains(buf.String(), "backend down") {
		t.Errorf("Output missing error detail: %s", buf.String())
	}
}

func TestJSONPresenter_PresentSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONPresenter(&buf)

	if err := p.PresentSuccess("ok", sampleView()); err != nil {
		t.Fatalf("PresentSuccess() error = %v", err)
	}

	var envelope struct {
		Success bool               `json:"success"`
		Data    *dto.NarrativeView `json:"data"`
	}
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if !envelope.Success {
		t.Error("Success should be true")
	}
	if envelope.Data.EraName != "The Long Thaw" {
		t.Errorf("EraName = %s", envelope.Data.EraName)
	}
}

func TestJSONPresenter_PresentError(t *testing.T) {
	var buf bytes.Buffer
	p := NewJSONPresenter(&buf)

	original := errors.New("not found")
	if err := p.PresentError(original); !errors.Is(err, original) {
		t.Errorf("PresentError should return the original error, got %v", err)
	}

	var envelope struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(buf.Bytes(), &envelope); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if envelope.Success || envelope.Error != "not found" {
		t.Errorf("envelope = %+v", envelope)
	}
}
