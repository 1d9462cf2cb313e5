package output

import (
	"context"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// GenerationGateway is the interface for the generation backend.
// One operation per pipeline step; the workflow only assembles the
// context and interprets the result. Model choice, streaming, and
// network-level retries are the backend's concern.
type GenerationGateway interface {
	// RunThreads produces the thread synthesis for an era
	RunThreads(ctx context.Context, gc GenerationContext) (*SynthesisResult, error)

	// RunGenerate produces the first full prose draft
	RunGenerate(ctx context.Context, gc GenerationContext) (*StepResult, error)

	// RunEdit produces a copy-edit pass over the edit input
	RunEdit(ctx context.Context, gc GenerationContext) (*StepResult, error)

	// Name returns the backend identifier (claude-cli/gemini/mock)
	Name() string
}

// GenerationContext carries the accumulated inputs for one step call
type GenerationContext struct {
	EraID                string
	EraName              string
	Tone                 model.Tone
	ArcDirectionOverride string
	PrepBriefs           []narrative.PrepBrief
	World                narrative.WorldContext

	// Synthesis is set for the generate and edit steps
	Synthesis *narrative.ThreadSynthesis

	// EditInput is the text a copy-edit pass operates on
	EditInput string
}

// SynthesisResult is the structured outcome of the threads step
type SynthesisResult struct {
	Synthesis narrative.ThreadSynthesis
	Cost      float64
}

// StepResult is the outcome of a prose-producing step
type StepResult struct {
	Content   string
	WordCount int
	Cost      float64
}
