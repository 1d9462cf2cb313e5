package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
)

// NarrativeID represents a unique identifier for an era narrative
type NarrativeID struct {
	value string
}

// NewNarrativeID creates a new NarrativeID using ULID
// Format: ULID (e.g., 01JB6X8Y2K9FQR4T3VWHGP5M2C)
func NewNarrativeID() NarrativeID {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
	return NarrativeID{value: id.String()}
}

// NewNarrativeIDFromString creates a NarrativeID from an existing string
func NewNarrativeIDFromString(id string) (NarrativeID, error) {
	if id == "" {
		return NarrativeID{}, errors.New("narrative ID cannot be empty")
	}
	return NarrativeID{value: id}, nil
}

// String returns the string representation
func (n NarrativeID) String() string {
	return n.value
}

// Equals checks if two NarrativeIDs are equal
func (n NarrativeID) Equals(other NarrativeID) bool {
	return n.value == other.value
}

// Status represents the current status of a narrative workflow
type Status string

const (
	StatusPending      Status = "pending"
	StatusGenerating   Status = "generating"
	StatusStepComplete Status = "step_complete"
	StatusComplete     Status = "complete"
	StatusFailed       Status = "failed"
	StatusCancelled    Status = "cancelled"
)

// String returns the string representation
func (s Status) String() string {
	return string(s)
}

// IsValid validates the status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusGenerating, StatusStepComplete,
		StatusComplete, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further step execution is possible
func (s Status) IsTerminal() bool {
	switch s {
	case StatusComplete, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a status transition is valid
func (s Status) CanTransitionTo(next Status) bool {
	validTransitions := map[Status][]Status{
		StatusPending:      {StatusGenerating, StatusCancelled},
		StatusGenerating:   {StatusStepComplete, StatusComplete, StatusFailed, StatusCancelled},
		StatusStepComplete: {StatusGenerating, StatusComplete, StatusCancelled},
		StatusComplete:     {},
		StatusFailed:       {},
		StatusCancelled:    {},
	}

	allowed, exists := validTransitions[s]
	if !exists {
		return false
	}

	for _, allowedStatus := range allowed {
		if allowedStatus == next {
			return true
		}
	}
	return false
}

// Step represents a pipeline step of the narrative workflow
type Step string

const (
	StepThreads  Step = "threads"
	StepGenerate Step = "generate"
	StepEdit     Step = "edit"
)

// String returns the string representation
func (s Step) String() string {
	return string(s)
}

// IsValid validates the step
func (s Step) IsValid() bool {
	switch s {
	case StepThreads, StepGenerate, StepEdit:
		return true
	default:
		return false
	}
}

// Next returns the step that follows s in the pipeline order.
// The edit step is the last one; Next on it returns an error.
func (s Step) Next() (Step, error) {
	switch s {
	case StepThreads:
		return StepGenerate, nil
	case StepGenerate:
		return StepEdit, nil
	case StepEdit:
		return "", errors.New("edit is the final step")
	default:
		return "", fmt.Errorf("unknown step: %s", s)
	}
}

// Tone represents the narrative voice requested for an era narrative
type Tone string

const (
	ToneWitty        Tone = "witty"
	ToneCantankerous Tone = "cantankerous"
	ToneBemused      Tone = "bemused"
	ToneDefiant      Tone = "defiant"
	ToneSardonic     Tone = "sardonic"
	ToneTender       Tone = "tender"
	ToneHopeful      Tone = "hopeful"
	ToneEnthusiastic Tone = "enthusiastic"
)

// AllTones lists the fixed tone vocabulary
func AllTones() []Tone {
	return []Tone{
		ToneWitty, ToneCantankerous, ToneBemused, ToneDefiant,
		ToneSardonic, ToneTender, ToneHopeful, ToneEnthusiastic,
	}
}

// String returns the string representation
func (t Tone) String() string {
	return string(t)
}

// IsValid validates the tone
func (t Tone) IsValid() bool {
	for _, known := range AllTones() {
		if t == known {
			return true
		}
	}
	return false
}
