package claudecli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// fakeBin writes a shell script that prints the given stdout and
// returns its path
func fakeBin(t *testing.T, stdout string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claude")
	script := "#!/bin/sh\ncat <<'EOF'\n" + stdout + "\nEOF\n"
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("Failed to write fake bin: %v", err)
	}
	return path
}

func TestRunner_Run_ParsesJSONEnvelope(t *testing.T) {
	bin := fakeBin(t, `{"type":"result","result":"Once, in the thaw years...","total_cost_usd":0.42}`)
	r := Runner{Bin: bin, Timeout: 5 * time.Second}

	result, err := r.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Text != "Once, in the thaw years..." {
		t.Errorf("Text mismatch: got %q", result.Text)
	}
	if result.Cost != 0.42 {
		t.Errorf("Cost mismatch: got %f, want 0.42", result.Cost)
	}
}

func TestRunner_Run_ErrorEnvelope(t *testing.T) {
	bin := fakeBin(t, `{"type":"result","is_error":true,"result":"rate limited"}`)
	r := Runner{Bin: bin, Timeout: 5 * time.Second}

	_, err := r.Run(context.Background(), "prompt")
	if err == nil {
		t.Fatal("Expected error for is_error response")
	}
}

func TestRunner_Run_BareTextFallback(t *testing.T) {
	bin := fakeBin(t, "plain output, not JSON")
	r := Runner{Bin: bin, Timeout: 5 * time.Second}

	result, err := r.Run(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Text == "" {
		t.Error("Expected raw output as fallback text")
	}
	if result.Cost != 0 {
		t.Errorf("Cost should be zero for bare text, got %f", result.Cost)
	}
}
