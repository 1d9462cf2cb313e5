package generation

import (
	"context"
	"fmt"
	"time"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
	"github.com/chris-arsenault/illuminator/internal/interface/external/claudecli"
)

// ClaudeCLIGateway implements GenerationGateway by shelling out to the
// claude CLI. Assumes the `claude` command is installed and logged in.
type ClaudeCLIGateway struct {
	runner claudecli.Runner
}

// NewClaudeCLIGateway creates a claude CLI gateway with the given step
// timeout
func NewClaudeCLIGateway(bin string, timeout time.Duration) *ClaudeCLIGateway {
	if bin == "" {
		bin = "claude"
	}
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	return &ClaudeCLIGateway{
		runner: claudecli.Runner{Bin: bin, Timeout: timeout},
	}
}

// RunThreads produces the thread synthesis for an era
func (g *ClaudeCLIGateway) RunThreads(ctx context.Context, gc output.GenerationContext) (*output.SynthesisResult, error) {
	result, err := g.runner.Run(ctx, buildThreadsPrompt(gc))
	if err != nil {
		return nil, fmt.Errorf("threads step failed: %w", err)
	}

	ts, err := parseSynthesis(result.Text)
	if err != nil {
		return nil, fmt.Errorf("threads step failed: %w", err)
	}

	return &output.SynthesisResult{Synthesis: *ts, Cost: result.Cost}, nil
}

// RunGenerate produces the first full prose draft
func (g *ClaudeCLIGateway) RunGenerate(ctx context.Context, gc output.GenerationContext) (*output.StepResult, error) {
	result, err := g.runner.Run(ctx, buildGeneratePrompt(gc))
	if err != nil {
		return nil, fmt.Errorf("generate step failed: %w", err)
	}
	return newStepResult(result.Text, result.Cost), nil
}

// RunEdit produces a copy-edit pass over the edit input
func (g *ClaudeCLIGateway) RunEdit(ctx context.Context, gc output.GenerationContext) (*output.StepResult, error) {
	result, err := g.runner.Run(ctx, buildEditPrompt(gc))
	if err != nil {
		return nil, fmt.Errorf("edit step failed: %w", err)
	}
	return newStepResult(result.Text, result.Cost), nil
}

// Name returns the backend identifier
func (g *ClaudeCLIGateway) Name() string {
	return "claude-cli"
}

func newStepResult(content string, cost float64) *output.StepResult {
	return &output.StepResult{
		Content:   content,
		WordCount: narrative.CountWords(content),
		Cost:      cost,
	}
}
