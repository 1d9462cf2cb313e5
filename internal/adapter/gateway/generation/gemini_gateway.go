package generation

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// GeminiGateway implements GenerationGateway using the Google Gemini API
type GeminiGateway struct {
	client *genai.Client
	model  string
}

// NewGeminiGateway creates a Gemini gateway
func NewGeminiGateway(ctx context.Context, apiKey, model string) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key is required for the gemini backend")
	}
	if model == "" {
		model = "gemini-1.5-pro"
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiGateway{client: client, model: model}, nil
}

// RunThreads produces the thread synthesis for an era
func (g *GeminiGateway) RunThreads(ctx context.Context, gc output.GenerationContext) (*output.SynthesisResult, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.4)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(buildThreadsPrompt(gc)))
	if err != nil {
		return nil, fmt.Errorf("threads step failed: %w", err)
	}

	text, err := extractTextFromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("threads step failed: %w", err)
	}

	ts, err := parseSynthesis(text)
	if err != nil {
		return nil, fmt.Errorf("threads step failed: %w", err)
	}

	// The Gemini API does not report dollar cost
	return &output.SynthesisResult{Synthesis: *ts}, nil
}

// RunGenerate produces the first full prose draft
func (g *GeminiGateway) RunGenerate(ctx context.Context, gc output.GenerationContext) (*output.StepResult, error) {
	text, err := g.generateText(ctx, buildGeneratePrompt(gc))
	if err != nil {
		return nil, fmt.Errorf("generate step failed: %w", err)
	}
	return newStepResult(text, 0), nil
}

// RunEdit produces a copy-edit pass over the edit input
func (g *GeminiGateway) RunEdit(ctx context.Context, gc output.GenerationContext) (*output.StepResult, error) {
	text, err := g.generateText(ctx, buildEditPrompt(gc))
	if err != nil {
		return nil, fmt.Errorf("edit step failed: %w", err)
	}
	return newStepResult(text, 0), nil
}

// Name returns the backend identifier
func (g *GeminiGateway) Name() string {
	return "gemini"
}

// Close releases the underlying API client
func (g *GeminiGateway) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

func (g *GeminiGateway) generateText(ctx context.Context, prompt string) (string, error) {
	model := g.client.GenerativeModel(g.model)
	model.SetTemperature(0.8)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return extractTextFromResponse(resp)
}

// extractTextFromResponse extracts text from a Gemini API response
func extractTextFromResponse(resp *genai.GenerateContentResponse) (string, error) {
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("no content in response")
	}

	var parts []string
	for _, part := range candidate.Content.Parts {
		if text, ok := part.(genai.Text); ok {
			parts = append(parts, string(text))
		}
	}

	if len(parts) == 0 {
		return "", fmt.Errorf("no text parts in response")
	}

	return strings.Join(parts, ""), nil
}
