package generation

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chris-arsenault/illuminator/internal/application/port/output"
)

// Options selects and configures a generation backend
type Options struct {
	Backend     string        // claude-cli, gemini, mock
	Bin         string        // CLI binary path for claude-cli
	Model       string        // model name for gemini
	APIKeyEnv   string        // env var holding the gemini API key
	StepTimeout time.Duration // per-step timeout for CLI backends
}

// NewGenerationGateway creates a generation gateway for the configured
// backend.
// Note: the user is responsible for ensuring the backend is available
// (CLI installed, API key set).
func NewGenerationGateway(ctx context.Context, opts Options) (output.GenerationGateway, error) {
	switch opts.Backend {
	case "claude-cli", "":
		return NewClaudeCLIGateway(opts.Bin, opts.StepTimeout), nil

	case "gemini":
		keyEnv := opts.APIKeyEnv
		if keyEnv == "" {
			keyEnv = "GEMINI_API_KEY"
		}
		apiKey := os.Getenv(keyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("%s environment variable not set for gemini backend", keyEnv)
		}
		return NewGeminiGateway(ctx, apiKey, opts.Model)

	case "mock":
		return NewMockGateway(), nil

	default:
		return nil, fmt.Errorf("unknown backend: %s (supported: claude-cli, gemini, mock)", opts.Backend)
	}
}
