package model

import "testing"

func TestNewNarrativeID(t *testing.T) {
	id1 := NewNarrativeID()
	id2 := NewNarrativeID()

	if id1.String() == "" {
		t.Error("NewNarrativeID() should not be empty")
	}
	if id1.Equals(id2) {
		t.Error("Two generated IDs should differ")
	}

	parsed, err := NewNarrativeIDFromString(id1.String())
	if err != nil {
		t.Fatalf("NewNarrativeIDFromString() unexpected error: %v", err)
	}
	if !parsed.Equals(id1) {
		t.Error("Round-tripped ID should equal the original")
	}
}

func TestNewNarrativeIDFromString_Empty(t *testing.T) {
	if _, err := NewNarrativeIDFromString(""); err == nil {
		t.Error("Empty narrative ID should be rejected")
	}
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{StatusComplete, StatusFailed, StatusCancelled}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	live := []Status{StatusPending, StatusGenerating, StatusStepComplete}
	for _, s := range live {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestStatusTransitions(t *testing.T) {
	tests := []struct {
		from    Status
		to      Status
		allowed bool
	}{
		{StatusPending, StatusGenerating, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusComplete, false},
		{StatusGenerating, StatusStepComplete, true},
		{StatusGenerating, StatusFailed, true},
		{StatusGenerating, StatusCancelled, true},
		{StatusGenerating, StatusPending, false},
		{StatusStepComplete, StatusGenerating, true},
		{StatusStepComplete, StatusComplete, true},
		{StatusStepComplete, StatusFailed, false},
		{StatusComplete, StatusGenerating, false},
		{StatusFailed, StatusGenerating, false},
		{StatusCancelled, StatusGenerating, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.allowed {
			t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.allowed)
		}
	}
}

func TestStepNext(t *testing.T) {
	next, err := StepThreads.Next()
	if err != nil || next != StepGenerate {
		t.Errorf("Next(threads) = %v, %v; want generate", next, err)
	}

	next, err = StepGenerate.Next()
	if err != nil || next != StepEdit {
		t.Errorf("Next(generate) = %v, %v; want edit", next, err)
	}

	if _, err := StepEdit.Next(); err == nil {
		t.Error("Next(edit) should return an error")
	}
}

func TestToneIsValid(t *testing.T) {
	for _, tone := range AllTones() {
		if !tone.IsValid() {
			t.Errorf("%s should be a valid tone", tone)
		}
	}
	if Tone("grumpy").IsValid() {
		t.Error("Unknown tone should be invalid")
	}
}
