package generation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/chris-arsenault/illuminator/internal/adapter/gateway/generation"
	"github.com/chris-arsenault/illuminator/internal/application/port/output"
	"github.com/chris-arsenault/illuminator/internal/domain/model"
)

func TestMockGateway_RunThreads(t *testing.T) {
	gateway := generation.NewMockGateway()

	result, err := gateway.RunThreads(context.Background(), output.GenerationContext{
		EraName: "The Long Thaw",
		Tone:    model.ToneWitty,
	})
	if err != nil {
		t.Fatalf("RunThreads() error = %v", err)
	}

	if result.Synthesis.Thesis == "" {
		t.Error("Thesis should not be empty")
	}
	if len(result.Synthesis.Threads) == 0 {
		t.Error("Threads should not be empty")
	}
	if len(gateway.Calls) != 1 || gateway.Calls[0] != "threads" {
		t.Errorf("Calls = %v", gateway.Calls)
	}
}

func TestMockGateway_RunEdit_UsesEditInput(t *testing.T) {
	gateway := generation.NewMockGateway()

	result, err := gateway.RunEdit(context.Background(), output.GenerationContext{
		EditInput: "draft text",
	})
	if err != nil {
		t.Fatalf("RunEdit() error = %v", err)
	}
	if result.Content != "Edited: draft text" {
		t.Errorf("Content = %q", result.Content)
	}
	if result.WordCount == 0 {
		t.Error("WordCount should be derived from content")
	}
}

func TestMockGateway_InjectedFailure(t *testing.T) {
	gateway := generation.NewMockGateway()
	gateway.GenerateErr = errors.New("backend down")

	_, err := gateway.RunGenerate(context.Background(), output.GenerationContext{})
	if err == nil {
		t.Fatal("Expected injected error")
	}
}

func TestNewGenerationGateway_Mock(t *testing.T) {
	gateway, err := generation.NewGenerationGateway(context.Background(), generation.Options{Backend: "mock"})
	if err != nil {
		t.Fatalf("NewGenerationGateway() error = %v", err)
	}
	if gateway.Name() != "mock" {
		t.Errorf("Name = %s, want mock", gateway.Name())
	}
}

func TestNewGenerationGateway_Unknown(t *testing.T) {
	_, err := generation.NewGenerationGateway(context.Background(), generation.Options{Backend: "nope"})
	if err == nil {
		t.Fatal("Expected error for unknown backend")
	}
}
