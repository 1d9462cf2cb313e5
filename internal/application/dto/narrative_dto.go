package dto

import (
	"time"

	"github.com/chris-arsenault/illuminator/internal/domain/model"
	"github.com/chris-arsenault/illuminator/internal/domain/model/narrative"
)

// StartNarrativeInput carries the configuration for a new narrative run
type StartNarrativeInput struct {
	SimulationID         string
	EraID                string
	EraName              string
	Tone                 model.Tone
	ArcDirectionOverride string
	PrepBriefs           []narrative.PrepBrief
	World                narrative.WorldContext
}

// ResumeNarrativeInput carries the inputs needed to re-enter a persisted
// run. Prep briefs and world context are not persisted on the record and
// must be supplied again by the caller.
type ResumeNarrativeInput struct {
	NarrativeID string
	PrepBriefs  []narrative.PrepBrief
	World       narrative.WorldContext
}

// RerunCopyEditInput carries the optional regeneration context for a
// copy-edit rerun on a completed narrative
type RerunCopyEditInput struct {
	NarrativeID string
	PrepBriefs  []narrative.PrepBrief
	World       narrative.WorldContext
}

// ListNarrativesInput filters a narrative listing
type ListNarrativesInput struct {
	SimulationID string
	EraID        string
	Statuses     []string
	Limit        int
	Offset       int
}

// ActiveContentView is the resolved display/export content of a
// narrative
type ActiveContentView struct {
	NarrativeID     string `json:"narrativeId"`
	EraID           string `json:"eraId"`
	EraName         string `json:"eraName"`
	ActiveVersionID string `json:"activeVersionId,omitempty"`
	Content         string `json:"content"`
	WordCount       int    `json:"wordCount"`
}

// NarrativeView is a serializable snapshot of a narrative for presenters
type NarrativeView struct {
	NarrativeID     string        `json:"narrativeId"`
	SimulationID    string        `json:"simulationId"`
	EraID           string        `json:"eraId"`
	EraName         string        `json:"eraName"`
	Tone            string        `json:"tone"`
	Status          string        `json:"status"`
	CurrentStep     string        `json:"currentStep"`
	Thesis          string        `json:"thesis,omitempty"`
	ThreadCount     int           `json:"threadCount"`
	MovementCount   int           `json:"movementCount"`
	Versions        []VersionView `json:"versions"`
	ActiveVersionID string        `json:"activeVersionId,omitempty"`
	TotalActualCost float64       `json:"totalActualCost"`
	Error           string        `json:"error,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// VersionView is a serializable snapshot of one content version
type VersionView struct {
	VersionID   string    `json:"versionId"`
	Step        string    `json:"step"`
	WordCount   int       `json:"wordCount"`
	GeneratedAt time.Time `json:"generatedAt"`
	Active      bool      `json:"active"`
}

// NewNarrativeView builds a view from a narrative aggregate
func NewNarrativeView(n *narrative.Narrative) *NarrativeView {
	view := &NarrativeView{
		NarrativeID:     n.ID().String(),
		SimulationID:    n.SimulationID(),
		EraID:           n.EraID(),
		EraName:         n.EraName(),
		Tone:            n.Tone().String(),
		Status:          n.Status().String(),
		CurrentStep:     n.CurrentStep().String(),
		ActiveVersionID: n.ActiveVersionID(),
		TotalActualCost: n.TotalActualCost(),
		Error:           n.Error(),
		CreatedAt:       n.CreatedAt(),
		UpdatedAt:       n.UpdatedAt(),
	}

	if ts := n.Synthesis(); ts != nil {
		view.Thesis = ts.Thesis
		view.ThreadCount = len(ts.Threads)
		view.MovementCount = len(ts.Movements)
	}

	for _, v := range n.Versions() {
		view.Versions = append(view.Versions, VersionView{
			VersionID:   v.VersionID,
			Step:        v.Step.String(),
			WordCount:   v.WordCount,
			GeneratedAt: v.GeneratedAt,
			Active:      v.VersionID == n.ActiveVersionID(),
		})
	}
	return view
}
