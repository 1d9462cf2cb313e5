package generation

import (
	"context"
	"fmt"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// MockGateway is a deterministic backend for tests and dry runs.
// Error fields, when set, make the corresponding step fail.
type MockGateway struct {
	ThreadsErr  error
	GenerateErr error
	EditErr     error

	// Calls records the step names invoked, in order
	Calls []string
}

// NewMockGateway creates a mock generation gateway
func NewMockGateway() *MockGateway {
	return &MockGateway{}
}

// RunThreads returns a canned thread synthesis
func (g *MockGateway) RunThreads(ctx context.Context, gc output.GenerationContext) (*output.SynthesisResult, error) {
	g.Calls = append(g.Calls, "threads")
	if g.ThreadsErr != nil {
		return nil, g.ThreadsErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &output.SynthesisResult{
		Synthesis: narrative.ThreadSynthesis{
			Thesis: fmt.Sprintf("Mock thesis for %s", gc.EraName),
			Threads: []narrative.Thread{
				{ID: "mock-1", Name: "First Thread", Description: "A canned through-line"},
				{ID: "mock-2", Name: "Second Thread", Description: "Another canned through-line"},
			},
			Movements: []narrative.Movement{
				{Index: 0, YearStart: 0, YearEnd: 50, ThreadFocus: []string{"mock-1"}, Beats: []string{"opening"}},
				{Index: 1, YearStart: 50, YearEnd: 100, ThreadFocus: []string{"mock-2"}, Beats: []string{"closing"}},
			},
		},
		Cost: 0.01,
	}, nil
}

// RunGenerate returns a canned draft
func (g *MockGateway) RunGenerate(ctx context.Context, gc output.GenerationContext) (*output.StepResult, error) {
	g.Calls = append(g.Calls, "generate")
	if g.GenerateErr != nil {
		return nil, g.GenerateErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Mock draft narrative for %s in a %s tone.", gc.EraName, gc.Tone)
	return newStepResult(content, 0.02), nil
}

// RunEdit returns a canned edit of the input
func (g *MockGateway) RunEdit(ctx context.Context, gc output.GenerationContext) (*output.StepResult, error) {
	g.Calls = append(g.Calls, "edit")
	if g.EditErr != nil {
		return nil, g.EditErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content := fmt.Sprintf("Edited: %s", gc.EditInput)
	return newStepResult(content, 0.01), nil
}

// Name returns the backend identifier
func (g *MockGateway) Name() string {
	return "mock"
}
