package claudecli

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// Runner invokes the claude CLI in print mode and parses its JSON
// envelope.
type Runner struct {
	Bin     string
	Timeout time.Duration
}

// claudeResponse is the JSON envelope claude prints with
// --output-format json
type claudeResponse struct {
	Type       string  `json:"type"`
	Subtype    string  `json:"subtype"`
	IsError    bool    `json:"is_error"`
	DurationMs int     `json:"duration_ms"`
	Result     string  `json:"result"`
	SessionID  string  `json:"session_id"`
	TotalCost  float64 `json:"total_cost_usd"`
}

// Result is one completed CLI invocation
type Result struct {
	Text string
	Cost float64
}

// Run executes one prompt and returns the result text plus the actual
// cost the CLI reports.
func (r Runner) Run(ctx context.Context, prompt string) (*Result, error) {
	args := []string{"-p", "--output-format", "json", prompt}

	cctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, r.Bin, args...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("claude execution failed: %w (output: %s)", err, string(out))
	}

	var response claudeResponse
	if err := json.Unmarshal(out, &response); err != nil {
		// Older CLI versions print bare text
		return &Result{Text: string(out)}, nil
	}

	if response.IsError {
		return nil, fmt.Errorf("claude returned error: %s", response.Result)
	}

	return &Result{Text: response.Result, Cost: response.TotalCost}, nil
}
